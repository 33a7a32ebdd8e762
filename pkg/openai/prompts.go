package openai

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/nggurbanov/curator-helper/pkg/logger"
)

// Prompt template files consumed by the client.
const (
	SearchPrompt    = "search.txt"
	ReplyPrompt     = "reply.txt"
	MessagePrompt   = "message.txt"
	SummarizePrompt = "summarize.txt"
	FilterPrompt    = "filter.txt"
)

// PromptStore loads prompt templates from a directory, caching each file
// after its first read. A missing directory is critical but non-fatal:
// every template lookup then fails and the LLM features degrade.
type PromptStore struct {
	dir string

	mu    sync.RWMutex
	cache map[string]string
}

func NewPromptStore(dir string) *PromptStore {
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		slog.Error("CRITICAL: prompts directory missing, LLM features will fail", "dir", dir)
	}
	return &PromptStore{
		dir:   dir,
		cache: make(map[string]string),
	}
}

func (p *PromptStore) Get(name string) (string, error) {
	p.mu.RLock()
	cached, ok := p.cache[name]
	p.mu.RUnlock()
	if ok {
		return cached, nil
	}

	raw, err := os.ReadFile(filepath.Join(p.dir, name))
	if err != nil {
		slog.Error("loading prompt template", "name", name, logger.Err(err))
		return "", fmt.Errorf("loading prompt %q: %w", name, err)
	}

	// Strip a UTF-8 BOM left behind by spreadsheet-minded editors.
	content := strings.TrimPrefix(string(raw), "\uFEFF")

	p.mu.Lock()
	p.cache[name] = content
	p.mu.Unlock()

	return content, nil
}

// Render substitutes {key} placeholders in a template.
func Render(template string, vars map[string]string) string {
	rendered := template
	for key, value := range vars {
		rendered = strings.ReplaceAll(rendered, "{"+key+"}", value)
	}
	return rendered
}

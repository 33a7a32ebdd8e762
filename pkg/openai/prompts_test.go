package openai

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name     string
		template string
		vars     map[string]string
		want     string
	}{
		{
			name:     "single placeholder",
			template: "Привет, {username}!",
			vars:     map[string]string{"username": "Аня"},
			want:     "Привет, Аня!",
		},
		{
			name:     "repeated placeholder",
			template: "{key} и ещё раз {key}",
			vars:     map[string]string{"key": "раз"},
			want:     "раз и ещё раз раз",
		},
		{
			name:     "unknown placeholder kept",
			template: "Вопрос: {query}",
			vars:     map[string]string{"other": "x"},
			want:     "Вопрос: {query}",
		},
		{
			name:     "no vars",
			template: "как есть",
			vars:     nil,
			want:     "как есть",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Render(tt.template, tt.vars); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPromptStoreGet(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, SearchPrompt), []byte("найди {query}"), 0o644); err != nil {
		t.Fatal(err)
	}

	store := NewPromptStore(dir)

	got, err := store.Get(SearchPrompt)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != "найди {query}" {
		t.Errorf("got %q", got)
	}
}

func TestPromptStoreCachesFirstRead(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ReplyPrompt)
	if err := os.WriteFile(path, []byte("первая версия"), 0o644); err != nil {
		t.Fatal(err)
	}

	store := NewPromptStore(dir)
	if _, err := store.Get(ReplyPrompt); err != nil {
		t.Fatalf("Get: %v", err)
	}

	if err := os.WriteFile(path, []byte("вторая версия"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := store.Get(ReplyPrompt)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != "первая версия" {
		t.Errorf("cache not used, got %q", got)
	}
}

func TestPromptStoreStripsBOM(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, FilterPrompt), []byte("\uFEFFтекст"), 0o644); err != nil {
		t.Fatal(err)
	}

	store := NewPromptStore(dir)
	got, err := store.Get(FilterPrompt)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != "текст" {
		t.Errorf("BOM not stripped, got %q", got)
	}
}

func TestPromptStoreMissingFile(t *testing.T) {
	store := NewPromptStore(t.TempDir())

	if _, err := store.Get(MessagePrompt); err == nil {
		t.Error("expected error for missing template")
	}
}

package repository

import (
	"encoding/json"
	"log/slog"
	"os"

	"github.com/nggurbanov/curator-helper/pkg/domain"
	"github.com/nggurbanov/curator-helper/pkg/logger"
)

// LoadDefaultSettings reads the static default-settings mapping once, at
// process start. A missing or unparsable file is critical but non-fatal:
// the bot keeps running with an empty default set and every chat degrades
// to its stored overrides only. There is no automatic retry; only a
// restart reattempts the load.
func LoadDefaultSettings(path string) domain.ChatConfig {
	raw, err := os.ReadFile(path)
	if err != nil {
		slog.Error("CRITICAL: default settings file unreadable, running without defaults",
			"path", path, logger.Err(err))
		return domain.ChatConfig{}
	}

	var defaults domain.ChatConfig
	if err := json.Unmarshal(raw, &defaults); err != nil {
		slog.Error("CRITICAL: default settings file is not valid JSON, running without defaults",
			"path", path, logger.Err(err))
		return domain.ChatConfig{}
	}

	slog.Info("default settings loaded", "path", path, "keys", len(defaults))
	return defaults
}

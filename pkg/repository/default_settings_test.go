package repository

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nggurbanov/curator-helper/pkg/domain"
)

func TestLoadDefaultSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "defaults.json")
	content := `{"bot_display_name": "Бот", "allow_anonymous_questions": true}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	defaults := LoadDefaultSettings(path)

	if got := defaults.GetString(domain.BotDisplayNameKey); got != "Бот" {
		t.Errorf("bot_display_name = %q", got)
	}
	if !defaults.GetBool(domain.AnonQuestionsKey) {
		t.Error("allow_anonymous_questions should be true")
	}
}

func TestLoadDefaultSettingsMissingFile(t *testing.T) {
	defaults := LoadDefaultSettings(filepath.Join(t.TempDir(), "nope.json"))

	if defaults == nil {
		t.Fatal("expected empty config, got nil")
	}
	if len(defaults) != 0 {
		t.Errorf("expected empty config, got %d keys", len(defaults))
	}
}

func TestLoadDefaultSettingsInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "defaults.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	defaults := LoadDefaultSettings(path)

	if len(defaults) != 0 {
		t.Errorf("expected empty config, got %d keys", len(defaults))
	}
}

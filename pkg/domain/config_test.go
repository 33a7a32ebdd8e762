package domain

import (
	"encoding/json"
	"testing"
)

func TestMergedOverridesWin(t *testing.T) {
	defaults := ChatConfig{
		"bot_display_name": "Helper",
		"faq_sheet_name":   "FAQs",
	}
	overrides := ChatConfig{
		"bot_display_name": "Curator",
		"gsheet_url":       "https://docs.google.com/spreadsheets/d/abc",
	}

	merged := defaults.Merged(overrides)

	if got := merged.GetString("bot_display_name"); got != "Curator" {
		t.Errorf("expected override to win, got %q", got)
	}
	if got := merged.GetString("faq_sheet_name"); got != "FAQs" {
		t.Errorf("expected default to survive, got %q", got)
	}
	if got := merged.GetString("gsheet_url"); got == "" {
		t.Error("expected override-only key to be present")
	}
}

func TestMergedDoesNotMutateInputs(t *testing.T) {
	defaults := ChatConfig{"bot_display_name": "Helper"}
	overrides := ChatConfig{"bot_display_name": "Curator"}

	_ = defaults.Merged(overrides)

	if defaults.GetString("bot_display_name") != "Helper" {
		t.Error("defaults mutated by Merged")
	}
	if overrides.GetString("bot_display_name") != "Curator" {
		t.Error("overrides mutated by Merged")
	}
}

func TestCloneIsDeep(t *testing.T) {
	cfg := ChatConfig{
		"group_mentions": []any{
			map[string]any{"keyword": "curator", "description": ""},
		},
	}

	clone := cfg.Clone()
	clone["group_mentions"].([]any)[0].(map[string]any)["keyword"] = "changed"

	if cfg.Mentions()[0].Keyword != "curator" {
		t.Error("mutating a clone leaked into the original")
	}
}

func TestCloneNil(t *testing.T) {
	var cfg ChatConfig
	clone := cfg.Clone()
	if clone == nil {
		t.Fatal("expected non-nil clone of nil config")
	}
	clone["key"] = "value"
}

func TestGetStringWrongType(t *testing.T) {
	cfg := ChatConfig{"gsheet_sync_conflict": true}
	if got := cfg.GetString("gsheet_sync_conflict"); got != "" {
		t.Errorf("expected empty string for non-string value, got %q", got)
	}
	if got := cfg.GetString("missing"); got != "" {
		t.Errorf("expected empty string for missing key, got %q", got)
	}
}

func TestGetBoolWrongType(t *testing.T) {
	cfg := ChatConfig{"allow_anonymous_questions": "yes"}
	if cfg.GetBool("allow_anonymous_questions") {
		t.Error("expected false for non-bool value")
	}
}

func TestFAQsObjectForm(t *testing.T) {
	cfg := ChatConfig{}
	cfg.SetFAQs([]FAQ{
		{Question: "Когда старт?", Answer: "В сентябре."},
		{Question: "Где расписание?", Answer: "В таблице."},
	})

	faqs := cfg.FAQs()
	if len(faqs) != 2 {
		t.Fatalf("expected 2 FAQs, got %d", len(faqs))
	}
	if faqs[1].Answer != "В таблице." {
		t.Errorf("unexpected answer: %q", faqs[1].Answer)
	}
}

func TestFAQsLegacyPairForm(t *testing.T) {
	cfg := ChatConfig{
		"faqs_list": []any{
			[]any{"Когда старт?", "В сентябре."},
			[]any{"", "без вопроса"},
			[]any{"один элемент"},
		},
	}

	faqs := cfg.FAQs()
	if len(faqs) != 1 {
		t.Fatalf("expected 1 FAQ from legacy pairs, got %d", len(faqs))
	}
	if faqs[0].Question != "Когда старт?" {
		t.Errorf("unexpected question: %q", faqs[0].Question)
	}
}

func TestFAQsSurviveJSONRoundTrip(t *testing.T) {
	cfg := ChatConfig{}
	cfg.SetFAQs([]FAQ{{Question: "q", Answer: "a"}})

	data, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded ChatConfig
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	faqs := decoded.FAQs()
	if len(faqs) != 1 || faqs[0] != (FAQ{Question: "q", Answer: "a"}) {
		t.Errorf("unexpected FAQs after round trip: %+v", faqs)
	}
}

func TestFAQValueEmpty(t *testing.T) {
	if FAQValue(nil) == nil {
		t.Error("expected empty list, not nil")
	}
}

func TestSetMentionsDeduplicates(t *testing.T) {
	cfg := ChatConfig{}
	cfg.SetMentions([]Mention{
		{Keyword: "Curator"},
		{Keyword: "curator", Description: "duplicate"},
		{Keyword: ""},
		{Keyword: "mentor"},
	})

	mentions := cfg.Mentions()
	if len(mentions) != 2 {
		t.Fatalf("expected 2 mentions, got %d", len(mentions))
	}
	if mentions[0].Keyword != "Curator" {
		t.Errorf("expected first occurrence to win, got %q", mentions[0].Keyword)
	}
}

func TestMentionsLegacyUsernameField(t *testing.T) {
	cfg := ChatConfig{
		"group_mentions": []any{
			map[string]any{"username": "curator", "description": "old record"},
		},
	}

	mentions := cfg.Mentions()
	if len(mentions) != 1 || mentions[0].Keyword != "curator" {
		t.Fatalf("expected legacy username field to be read, got %+v", mentions)
	}
}

func TestHasMention(t *testing.T) {
	cfg := ChatConfig{}
	cfg.SetMentions([]Mention{{Keyword: "Куратор"}})

	if !cfg.HasMention("куратор") {
		t.Error("expected case-insensitive match")
	}
	if cfg.HasMention("mentor") {
		t.Error("unexpected match for unknown keyword")
	}
}

package domain

import (
	"strings"
)

// Well-known chat configuration keys. The config record itself is an open
// map: keys outside this list are preserved and written back untouched.
const (
	GSheetURLKey         = "gsheet_url"
	SettingsSheetNameKey = "settings_sheet_name"
	FAQSheetNameKey      = "faq_sheet_name"
	FAQListKey           = "faqs_list"
	GroupMentionsKey     = "group_mentions"
	SyncConflictKey      = "gsheet_sync_conflict"
	AnonQuestionsKey     = "allow_anonymous_questions"
	WelcomeMessageKey    = "welcome_message"
	PersonalityPromptKey = "personality_prompt_text"
	NonAdminErrorKey     = "error_message_non_admin"
	BotDisplayNameKey    = "bot_display_name"
)

// UserGroupLinksKey is the reserved top-level store key holding the whole
// user-to-group link table. It must never be enumerated as a chat id.
const UserGroupLinksKey = "user_group_links"

// ChatConfig is an open key-value record of per-chat settings. Values are
// restricted to what survives a JSON round trip: strings, bools, numbers
// and lists of records.
type ChatConfig map[string]any

func (c ChatConfig) GetString(key string) string {
	if s, ok := c[key].(string); ok {
		return s
	}
	return ""
}

func (c ChatConfig) GetBool(key string) bool {
	if b, ok := c[key].(bool); ok {
		return b
	}
	return false
}

// Clone returns a deep copy. Callers may mutate the result freely without
// leaking changes into shared defaults or cached records.
func (c ChatConfig) Clone() ChatConfig {
	if c == nil {
		return ChatConfig{}
	}
	out := make(ChatConfig, len(c))
	for k, v := range c {
		out[k] = cloneValue(v)
	}
	return out
}

// Merged layers overrides on top of c, overrides winning per key. Neither
// receiver nor argument is mutated.
func (c ChatConfig) Merged(overrides ChatConfig) ChatConfig {
	out := c.Clone()
	for k, v := range overrides {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[k] = cloneValue(e)
		}
		return m
	case []any:
		s := make([]any, len(t))
		for i, e := range t {
			s[i] = cloneValue(e)
		}
		return s
	default:
		return t
	}
}

// FAQ is a single question-answer pair imported from the FAQ sheet.
type FAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Mention is a keyword the bot reacts to in a group chat.
type Mention struct {
	Keyword     string `json:"keyword"`
	Description string `json:"description"`
}

// FAQs decodes the stored FAQ list. Both the native object form and the
// legacy two-element pair form are accepted.
func (c ChatConfig) FAQs() []FAQ {
	raw, ok := c[FAQListKey].([]any)
	if !ok {
		return nil
	}
	faqs := make([]FAQ, 0, len(raw))
	for _, item := range raw {
		switch t := item.(type) {
		case map[string]any:
			q, _ := t["question"].(string)
			a, _ := t["answer"].(string)
			if q != "" && a != "" {
				faqs = append(faqs, FAQ{Question: q, Answer: a})
			}
		case []any:
			if len(t) >= 2 {
				q, _ := t[0].(string)
				a, _ := t[1].(string)
				if q != "" && a != "" {
					faqs = append(faqs, FAQ{Question: q, Answer: a})
				}
			}
		}
	}
	return faqs
}

// SetFAQs stores the FAQ list in the native object form.
func (c ChatConfig) SetFAQs(faqs []FAQ) {
	c[FAQListKey] = FAQValue(faqs)
}

// FAQValue encodes a FAQ list as a storable config value. A nil or empty
// input yields an empty list, not nil, so that a cleared FAQ set is
// distinguishable from an unset key.
func FAQValue(faqs []FAQ) []any {
	items := make([]any, len(faqs))
	for i, f := range faqs {
		items[i] = map[string]any{"question": f.Question, "answer": f.Answer}
	}
	return items
}

// Mentions decodes the stored mention keywords. The original store used
// "username" for the keyword field; both spellings are accepted.
func (c ChatConfig) Mentions() []Mention {
	raw, ok := c[GroupMentionsKey].([]any)
	if !ok {
		return nil
	}
	mentions := make([]Mention, 0, len(raw))
	for _, item := range raw {
		rec, ok := item.(map[string]any)
		if !ok {
			continue
		}
		keyword, _ := rec["keyword"].(string)
		if keyword == "" {
			keyword, _ = rec["username"].(string)
		}
		if keyword == "" {
			continue
		}
		description, _ := rec["description"].(string)
		mentions = append(mentions, Mention{Keyword: keyword, Description: description})
	}
	return mentions
}

// SetMentions stores the mention list, dropping duplicate keywords
// case-insensitively (first occurrence wins).
func (c ChatConfig) SetMentions(mentions []Mention) {
	seen := make(map[string]bool, len(mentions))
	items := make([]any, 0, len(mentions))
	for _, m := range mentions {
		lower := strings.ToLower(m.Keyword)
		if m.Keyword == "" || seen[lower] {
			continue
		}
		seen[lower] = true
		items = append(items, map[string]any{"keyword": m.Keyword, "description": m.Description})
	}
	c[GroupMentionsKey] = items
}

// HasMention reports whether keyword is already registered, ignoring case.
func (c ChatConfig) HasMention(keyword string) bool {
	for _, m := range c.Mentions() {
		if strings.EqualFold(m.Keyword, keyword) {
			return true
		}
	}
	return false
}

package handler

import (
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/nggurbanov/curator-helper/pkg/domain"
)

func TestIsCommand(t *testing.T) {
	tests := []struct {
		text string
		name string
		want bool
	}{
		{"/help", "help", true},
		{"/help@CuratorHelperBot", "help", true},
		{"/help с аргументом", "help", true},
		{"/help@CuratorHelperBot аргумент", "help", true},
		{"/helpme", "help", false},
		{"/start", "help", false},
		{"help", "help", false},
		{"", "help", false},
	}

	for _, tt := range tests {
		if got := isCommand(tt.text, tt.name); got != tt.want {
			t.Errorf("isCommand(%q, %q) = %v, want %v", tt.text, tt.name, got, tt.want)
		}
	}
}

func TestCommandArgs(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"/addmention дедлайн: когда сдавать", "дедлайн: когда сдавать"},
		{"/addmention", ""},
		{"/addmention   ", ""},
		{"/seterror@Bot  текст ошибки ", "текст ошибки"},
	}

	for _, tt := range tests {
		if got := commandArgs(tt.text); got != tt.want {
			t.Errorf("commandArgs(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestParseDeleteMentionData(t *testing.T) {
	chatID, keyword, err := parseDeleteMentionData(domain.DeleteMentionCallbackPrefix + "-100500:дедлайн")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if chatID != -100500 {
		t.Errorf("chatID = %d", chatID)
	}
	if keyword != "дедлайн" {
		t.Errorf("keyword = %q", keyword)
	}
}

func TestParseDeleteMentionDataMalformed(t *testing.T) {
	for _, data := range []string{
		domain.DeleteMentionCallbackPrefix + "нечисло:слово",
		domain.DeleteMentionCallbackPrefix + "-100500",
		domain.DeleteMentionCallbackPrefix + "-100500:",
		domain.DeleteMentionCallbackPrefix,
	} {
		if _, _, err := parseDeleteMentionData(data); err == nil {
			t.Errorf("expected error for %q", data)
		}
	}
}

func TestRenderWelcome(t *testing.T) {
	template := "Привет, {username}! Добро пожаловать в {chat_title}. Пиши {user_mention}."

	t.Run("with username", func(t *testing.T) {
		user := &tgbotapi.User{FirstName: "Аня", UserName: "anya"}
		got := renderWelcome(template, user, "Курс Go")
		want := "Привет, Аня! Добро пожаловать в Курс Go. Пиши @anya."
		if got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("without username mention falls back to first name", func(t *testing.T) {
		user := &tgbotapi.User{FirstName: "Аня"}
		got := renderWelcome(template, user, "Курс Go")
		want := "Привет, Аня! Добро пожаловать в Курс Go. Пиши Аня."
		if got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("empty chat title gets placeholder", func(t *testing.T) {
		user := &tgbotapi.User{FirstName: "Аня", UserName: "anya"}
		got := renderWelcome("{chat_title}", user, "")
		if got != "наш чат" {
			t.Errorf("got %q", got)
		}
	})
}

func TestFAQSampleTruncates(t *testing.T) {
	long := "Очень длинный вопрос, который заведомо не поместится в пятьдесят символов предпросмотра целиком"
	faqs := []domain.FAQ{
		{Question: "Первый?", Answer: "a"},
		{Question: long, Answer: "b"},
		{Question: "Третий?", Answer: "c"},
		{Question: "Четвёртый, лишний?", Answer: "d"},
	}

	got := faqSample(faqs)

	if !containsAll(got, "1. Первый?", "3. Третий?", "...") {
		t.Errorf("sample = %q", got)
	}
	if containsAll(got, "Четвёртый") {
		t.Errorf("sample lists more than three entries: %q", got)
	}
	if containsAll(got, long) {
		t.Errorf("long question not truncated: %q", got)
	}
}

func containsAll(s string, parts ...string) bool {
	for _, p := range parts {
		if !strings.Contains(s, p) {
			return false
		}
	}
	return true
}

package services

import (
	"context"
	"strings"
	"testing"

	"github.com/nggurbanov/curator-helper/pkg/domain"
)

type fakeMatcher struct {
	idx       int
	lastQuery string
	lastList  string
	calls     int
}

func (m *fakeMatcher) FindFAQMatchIndex(_ context.Context, query, enumeratedQuestions string) int {
	m.calls++
	m.lastQuery = query
	m.lastList = enumeratedQuestions
	return m.idx
}

func faqConfig() domain.ChatConfig {
	cfg := domain.ChatConfig{}
	cfg.SetFAQs([]domain.FAQ{
		{Question: "Когда дедлайн?", Answer: "В пятницу."},
		{Question: "Где расписание?", Answer: "В закрепе."},
	})
	return cfg
}

func TestAnswerReturnsMatchedFAQ(t *testing.T) {
	matcher := &fakeMatcher{idx: 2}
	svc := NewFAQService(matcher)

	answer, ok := svc.Answer(context.Background(), faqConfig(), "где найти расписание")
	if !ok {
		t.Fatal("expected a match")
	}
	if answer != "В закрепе." {
		t.Errorf("answer = %q", answer)
	}
	if matcher.lastQuery != "где найти расписание" {
		t.Errorf("query = %q", matcher.lastQuery)
	}
	if !strings.Contains(matcher.lastList, "1. Когда дедлайн?") || !strings.Contains(matcher.lastList, "2. Где расписание?") {
		t.Errorf("enumerated questions = %q", matcher.lastList)
	}
}

func TestAnswerNoMatch(t *testing.T) {
	svc := NewFAQService(&fakeMatcher{idx: 0})

	if _, ok := svc.Answer(context.Background(), faqConfig(), "как дела"); ok {
		t.Error("index 0 must mean no match")
	}
}

func TestAnswerOutOfRangeIndex(t *testing.T) {
	svc := NewFAQService(&fakeMatcher{idx: 3})

	if _, ok := svc.Answer(context.Background(), faqConfig(), "вопрос"); ok {
		t.Error("out-of-range index must mean no match")
	}
}

func TestAnswerEmptyFAQListSkipsMatcher(t *testing.T) {
	matcher := &fakeMatcher{idx: 1}
	svc := NewFAQService(matcher)

	if _, ok := svc.Answer(context.Background(), domain.ChatConfig{}, "вопрос"); ok {
		t.Error("expected no match for empty FAQ list")
	}
	if matcher.calls != 0 {
		t.Errorf("matcher called %d times for empty list", matcher.calls)
	}
}

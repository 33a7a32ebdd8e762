package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/nggurbanov/curator-helper/pkg/domain"
)

type FAQMatcher interface {
	FindFAQMatchIndex(ctx context.Context, query string, enumeratedQuestions string) int
}

type faqService struct {
	ai FAQMatcher
}

func NewFAQService(ai FAQMatcher) *faqService {
	return &faqService{ai: ai}
}

// Answer looks up the FAQ entry matching the user's question. It returns
// the stored answer and true on a match, or "" and false when the chat has
// no FAQs or none of them fit.
func (s *faqService) Answer(ctx context.Context, cfg domain.ChatConfig, question string) (string, bool) {
	faqs := cfg.FAQs()
	if len(faqs) == 0 {
		return "", false
	}

	enumerated := lo.Map(faqs, func(f domain.FAQ, i int) string {
		return fmt.Sprintf("%d. %s", i+1, f.Question)
	})

	idx := s.ai.FindFAQMatchIndex(ctx, question, strings.Join(enumerated, "\n"))
	if idx < 1 || idx > len(faqs) {
		return "", false
	}
	return faqs[idx-1].Answer, true
}

package openai

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/nggurbanov/curator-helper/pkg/logger"
)

type client struct {
	api         *openai.Client
	prompts     *PromptStore
	searchModel string
	answerModel string
}

// NewClient talks to any OpenAI-compatible chat-completion endpoint; a
// non-empty baseURL redirects it away from api.openai.com.
func NewClient(token, baseURL, searchModel, answerModel string, prompts *PromptStore) (*client, error) {
	if token == "" {
		return nil, fmt.Errorf("token is empty")
	}

	cfg := openai.DefaultConfig(token)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	return &client{
		api:         openai.NewClientWithConfig(cfg),
		prompts:     prompts,
		searchModel: searchModel,
		answerModel: answerModel,
	}, nil
}

// GenerateChatResponse produces a persona-flavored reply to a user
// message, optionally anchored to the message it replies to.
func (c *client) GenerateChatResponse(ctx context.Context, personality, userName, userMessage, replyToName, replyToText string) (string, error) {
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: personality},
	}

	if replyToText != "" && replyToName != "" {
		if tpl, err := c.prompts.Get(ReplyPrompt); err == nil {
			messages = append(messages, openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleSystem,
				Content: Render(tpl, map[string]string{"author": replyToName, "reply": replyToText}),
			})
		}
	}

	tpl, err := c.prompts.Get(MessagePrompt)
	if err != nil {
		return "", err
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: Render(tpl, map[string]string{"author": userName, "message": userMessage}),
	})

	return c.complete(ctx, c.answerModel, 0.7, messages)
}

// FindFAQMatchIndex asks the search model which enumerated FAQ matches the
// query. It returns the 1-based index, or 0 when nothing matches or the
// model answer is unusable.
func (c *client) FindFAQMatchIndex(ctx context.Context, query, enumeratedQuestions string) int {
	tpl, err := c.prompts.Get(SearchPrompt)
	if err != nil {
		return 0
	}

	response, err := c.complete(ctx, c.searchModel, 0, []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: Render(tpl, map[string]string{"enumerated_questions": enumeratedQuestions})},
		{Role: openai.ChatMessageRoleUser, Content: query},
	})
	if err != nil {
		slog.ErrorContext(ctx, "FAQ match lookup failed", logger.Err(err))
		return 0
	}

	index, err := strconv.Atoi(strings.TrimSpace(response))
	if err != nil {
		slog.WarnContext(ctx, "FAQ match model returned a non-integer", "response", response)
		return 0
	}
	return index
}

// Summarize condenses text with the answer model.
func (c *client) Summarize(ctx context.Context, text string) (string, error) {
	tpl, err := c.prompts.Get(SummarizePrompt)
	if err != nil {
		return "", err
	}

	return c.complete(ctx, c.answerModel, 0.3, []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: tpl},
		{Role: openai.ChatMessageRoleUser, Content: text},
	})
}

// IsTextAppropriate classifies text before it may be relayed anonymously.
// Anything but an explicit "1" verdict counts as inappropriate.
func (c *client) IsTextAppropriate(ctx context.Context, text string) bool {
	tpl, err := c.prompts.Get(FilterPrompt)
	if err != nil {
		return false
	}

	response, err := c.complete(ctx, c.answerModel, 0, []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: tpl},
		{Role: openai.ChatMessageRoleUser, Content: text},
	})
	if err != nil {
		slog.ErrorContext(ctx, "appropriateness check failed", logger.Err(err))
		return false
	}

	switch strings.TrimSpace(response) {
	case "1":
		return true
	case "0":
		return false
	default:
		slog.WarnContext(ctx, "filter model returned unexpected verdict", "response", response)
		return false
	}
}

func (c *client) complete(ctx context.Context, model string, temperature float32, messages []openai.ChatCompletionMessage) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Temperature: temperature,
		Messages:    messages,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no completion choices returned")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

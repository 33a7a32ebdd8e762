package handler

import (
	"context"
	"log/slog"
	"strings"

	"github.com/forPelevin/gomoji"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/nggurbanov/curator-helper/pkg/domain"
	"github.com/nggurbanov/curator-helper/pkg/logger"
)

type FAQAnswerer interface {
	Answer(ctx context.Context, cfg domain.ChatConfig, question string) (string, bool)
}

type ChatResponder interface {
	GenerateChatResponse(ctx context.Context, personality, userName, userMessage, replyToName, replyToText string) (string, error)
}

type chatMessage struct {
	client   TelegramClient
	config   ChatConfigProvider
	faq      FAQAnswerer
	ai       ChatResponder
	sessions SessionRepository
	outCh    chan<- domain.Message
}

// NewChatMessage is the catch-all text handler: FAQ lookup first, then a
// free LLM reply in the chat's configured personality. Register it last.
func NewChatMessage(
	client TelegramClient,
	config ChatConfigProvider,
	faq FAQAnswerer,
	ai ChatResponder,
	sessions SessionRepository,
	outCh chan<- domain.Message,
) *chatMessage {
	return &chatMessage{
		client:   client,
		config:   config,
		faq:      faq,
		ai:       ai,
		sessions: sessions,
		outCh:    outCh,
	}
}

func (c *chatMessage) CanHandle(u *tgbotapi.Update) bool {
	return u.Message != nil && u.Message.Text != "" && !strings.HasPrefix(u.Message.Text, "/")
}

func (c *chatMessage) Handle(ctx context.Context, u *tgbotapi.Update) {
	msg := u.Message
	cfg := c.config.Get(ctx, msg.Chat.ID)

	if isGroupChat(msg.Chat) && !c.isAddressedToBot(msg, cfg) {
		return
	}

	question := c.stripBotMention(msg.Text)

	response, matched := c.faq.Answer(ctx, cfg, question)
	if !matched {
		response = c.generateReply(ctx, cfg, msg, question)
	}

	response = strings.TrimSpace(gomoji.RemoveEmojis(response))
	if response == "" {
		response = "Я пока не знаю, что на это ответить. Попробуйте спросить иначе."
	}

	if isPrivateChat(msg.Chat) && cfg.GetBool(domain.AnonQuestionsKey) {
		c.sessions.Save(msg.From.ID, domain.Session{
			PendingQuestion: question,
			OriginChatID:    msg.Chat.ID,
		})

		c.outCh <- &domain.KeyboardMessage{
			ChatID:           msg.Chat.ID,
			ReplyToMessageID: msg.MessageID,
			Content:          response,
			ButtonRows: [][]domain.Button{
				{{Label: "Мне помог ответ, спасибо!", Data: domain.UserOKCallback}},
				{{Label: "Анонимно спросить кураторов", Data: domain.UserAskAnonCallback}},
			},
		}
		return
	}

	c.outCh <- &domain.TextMessage{
		ChatID:           msg.Chat.ID,
		ReplyToMessageID: msg.MessageID,
		Content:          response,
	}
}

// isAddressedToBot keeps the bot quiet in group chats unless it is
// mentioned by @username, by a configured keyword, or replied to.
func (c *chatMessage) isAddressedToBot(msg *tgbotapi.Message, cfg domain.ChatConfig) bool {
	if strings.Contains(strings.ToLower(msg.Text), "@"+strings.ToLower(c.client.BotUsername())) {
		return true
	}

	if msg.ReplyToMessage != nil && msg.ReplyToMessage.From != nil &&
		msg.ReplyToMessage.From.UserName == c.client.BotUsername() {
		return true
	}

	text := strings.ToLower(msg.Text)
	for _, m := range cfg.Mentions() {
		if strings.Contains(text, strings.ToLower(m.Keyword)) {
			return true
		}
	}
	return false
}

func (c *chatMessage) stripBotMention(text string) string {
	cleaned := strings.ReplaceAll(text, "@"+c.client.BotUsername(), "")
	return strings.TrimSpace(cleaned)
}

func (c *chatMessage) generateReply(ctx context.Context, cfg domain.ChatConfig, msg *tgbotapi.Message, question string) string {
	personality := strings.TrimSpace(cfg.GetString(domain.PersonalityPromptKey))
	if personality == "" {
		slog.WarnContext(ctx, "personality prompt is empty, using fallback", "chatID", msg.Chat.ID)
		personality = "Я здесь, чтобы помогать. Чем могу быть полезен?"
	}

	var replyToName, replyToText string
	if reply := msg.ReplyToMessage; reply != nil && reply.Text != "" && reply.From != nil {
		replyToText = reply.Text
		replyToName = reply.From.FirstName
		if reply.From.UserName == c.client.BotUsername() {
			if name := cfg.GetString(domain.BotDisplayNameKey); name != "" {
				replyToName = name
			}
		}
	}

	response, err := c.ai.GenerateChatResponse(ctx, personality, msg.From.FirstName, question, replyToName, replyToText)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate chat response", "chatID", msg.Chat.ID, logger.Err(err))
		return "Я пока не знаю, что на это ответить. Попробуйте спросить иначе."
	}
	return response
}

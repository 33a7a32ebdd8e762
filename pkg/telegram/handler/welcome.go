package handler

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/nggurbanov/curator-helper/pkg/domain"
)

type welcome struct {
	config ChatConfigProvider
	outCh  chan<- domain.Message
}

// NewWelcome greets users joining a group chat with the configured
// welcome template.
func NewWelcome(config ChatConfigProvider, outCh chan<- domain.Message) *welcome {
	return &welcome{config: config, outCh: outCh}
}

func (w *welcome) CanHandle(u *tgbotapi.Update) bool {
	return u.Message != nil && len(u.Message.NewChatMembers) > 0
}

func (w *welcome) Handle(ctx context.Context, u *tgbotapi.Update) {
	msg := u.Message
	cfg := w.config.Get(ctx, msg.Chat.ID)

	template := cfg.GetString(domain.WelcomeMessageKey)
	if template == "" {
		template = "Добро пожаловать, {username}!"
	}

	for _, member := range msg.NewChatMembers {
		if member.IsBot {
			continue
		}

		w.outCh <- &domain.TextMessage{
			ChatID:  msg.Chat.ID,
			Content: renderWelcome(template, &member, msg.Chat.Title),
			Plain:   true,
		}
	}
}

func renderWelcome(template string, user *tgbotapi.User, chatTitle string) string {
	mention := user.FirstName
	if user.UserName != "" {
		mention = "@" + user.UserName
	}
	if chatTitle == "" {
		chatTitle = "наш чат"
	}

	return strings.NewReplacer(
		"{username}", user.FirstName,
		"{user_mention}", mention,
		"{chat_title}", chatTitle,
	).Replace(template)
}

package handler

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/nggurbanov/curator-helper/pkg/domain"
)

type userOKCallback struct {
	sessions SessionRepository
	outCh    chan<- domain.Message
}

func NewUserOKCallback(sessions SessionRepository, outCh chan<- domain.Message) *userOKCallback {
	return &userOKCallback{sessions: sessions, outCh: outCh}
}

func (c *userOKCallback) CanHandle(u *tgbotapi.Update) bool {
	return u.CallbackQuery != nil && u.CallbackQuery.Data == domain.UserOKCallback
}

func (c *userOKCallback) Handle(_ context.Context, u *tgbotapi.Update) {
	query := u.CallbackQuery

	c.outCh <- &domain.CallbackAnswer{
		CallbackQueryID: query.ID,
		Text:            "Рад был помочь!",
	}

	// Drop the keyboard so the buttons cannot be pressed twice.
	if query.Message != nil {
		c.outCh <- &domain.EditMessage{
			ChatID:    query.Message.Chat.ID,
			MessageID: query.Message.MessageID,
			Content:   query.Message.Text,
		}
	}

	c.sessions.Clear(query.From.ID)
}

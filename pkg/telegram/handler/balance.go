package handler

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/nggurbanov/curator-helper/pkg/domain"
)

type BalanceProvider interface {
	GetBalanceMessage(ctx context.Context) (string, error)
}

type Authenticator interface {
	IsOwner(userID int64) bool
}

type balance struct {
	provider BalanceProvider
	auth     Authenticator
	outCh    chan<- domain.Message
}

// NewBalance reports the hosting-account balance. Owner only.
func NewBalance(provider BalanceProvider, auth Authenticator, outCh chan<- domain.Message) *balance {
	return &balance{provider: provider, auth: auth, outCh: outCh}
}

func (b *balance) CanHandle(u *tgbotapi.Update) bool {
	return u.Message != nil && isCommand(u.Message.Text, "balance")
}

func (b *balance) Handle(ctx context.Context, u *tgbotapi.Update) {
	msg := u.Message

	if !b.auth.IsOwner(msg.From.ID) {
		return
	}

	response, err := b.provider.GetBalanceMessage(ctx)
	if err != nil {
		response = fmt.Sprintf("Failed to fetch balance: %v", err)
	}

	b.outCh <- &domain.TextMessage{
		ChatID:           msg.Chat.ID,
		ReplyToMessageID: msg.MessageID,
		Content:          response,
		Plain:            true,
	}
}

package handler

import (
	"context"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/nggurbanov/curator-helper/pkg/domain"
)

type setFAQSheet struct {
	guard               adminGuard
	client              TelegramClient
	serviceAccountEmail string
	outCh               chan<- domain.Message
}

// NewSetFAQSheet handles /setfaqsheet in a group chat. The actual URL
// intake happens in PM, so the reply is a deep link that reopens the flow
// there with the group chat id in the payload.
func NewSetFAQSheet(
	client TelegramClient,
	config ChatConfigProvider,
	serviceAccountEmail string,
	outCh chan<- domain.Message,
) *setFAQSheet {
	return &setFAQSheet{
		guard:               adminGuard{client: client, config: config, outCh: outCh},
		client:              client,
		serviceAccountEmail: serviceAccountEmail,
		outCh:               outCh,
	}
}

func (s *setFAQSheet) CanHandle(u *tgbotapi.Update) bool {
	return u.Message != nil && isCommand(u.Message.Text, "setfaqsheet")
}

func (s *setFAQSheet) Handle(ctx context.Context, u *tgbotapi.Update) {
	if !s.guard.allow(ctx, u) {
		return
	}

	msg := u.Message
	link := s.client.DeepLink(fmt.Sprintf("%s%d", setFAQSheetPayloadPrefix, msg.Chat.ID))

	s.outCh <- &domain.TextMessage{
		ChatID:           msg.Chat.ID,
		ReplyToMessageID: msg.MessageID,
		Content: fmt.Sprintf("Настроим Google-таблицу с FAQ и настройками для этого чата.\n"+
			"Перейдите по ссылке, чтобы продолжить в личных сообщениях со мной:\n%s\n\n"+
			"Там я попрошу прислать ссылку на таблицу.\n"+
			"Не забудьте открыть к ней доступ для %s (роль «Редактор»).",
			link, s.serviceAccountEmail),
		Plain: true,
	}

	slog.InfoContext(ctx, "sheet setup initiated", "chatID", msg.Chat.ID, "adminID", msg.From.ID)
}

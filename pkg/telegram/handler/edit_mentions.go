package handler

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/nggurbanov/curator-helper/pkg/domain"
)

type editMentions struct {
	guard  adminGuard
	config ChatConfigProvider
	outCh  chan<- domain.Message
}

// NewEditMentions shows the mention keywords as an inline keyboard where
// each button deletes its keyword.
func NewEditMentions(
	client TelegramClient,
	config ChatConfigProvider,
	outCh chan<- domain.Message,
) *editMentions {
	return &editMentions{
		guard:  adminGuard{client: client, config: config, outCh: outCh},
		config: config,
		outCh:  outCh,
	}
}

func (e *editMentions) CanHandle(u *tgbotapi.Update) bool {
	return u.Message != nil && isCommand(u.Message.Text, "editmentions")
}

func (e *editMentions) Handle(ctx context.Context, u *tgbotapi.Update) {
	if !e.guard.allow(ctx, u) {
		return
	}

	msg := u.Message
	mentions := e.config.Get(ctx, msg.Chat.ID).Mentions()

	if len(mentions) == 0 {
		e.outCh <- &domain.TextMessage{
			ChatID:           msg.Chat.ID,
			ReplyToMessageID: msg.MessageID,
			Content:          "Ключевые слова ещё не настроены. Добавьте их командой /addmention.",
			Plain:            true,
		}
		return
	}

	e.outCh <- &domain.KeyboardMessage{
		ChatID:           msg.Chat.ID,
		ReplyToMessageID: msg.MessageID,
		Content:          "Выберите ключевое слово для удаления:",
		ButtonRows:       mentionButtons(msg.Chat.ID, mentions),
	}
}

func mentionButtons(chatID int64, mentions []domain.Mention) [][]domain.Button {
	rows := make([][]domain.Button, 0, len(mentions))
	for _, m := range mentions {
		label := m.Keyword
		if m.Description != "" {
			label = fmt.Sprintf("%s (%s)", m.Keyword, m.Description)
		}
		rows = append(rows, []domain.Button{{
			Label: "❌ " + label,
			Data:  fmt.Sprintf("%s%d:%s", domain.DeleteMentionCallbackPrefix, chatID, m.Keyword),
		}})
	}
	return rows
}

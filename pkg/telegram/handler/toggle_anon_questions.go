package handler

import (
	"context"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/nggurbanov/curator-helper/pkg/domain"
	"github.com/nggurbanov/curator-helper/pkg/logger"
)

type toggleAnonQuestions struct {
	guard  adminGuard
	config ChatConfigProvider
	syncer ConfigSyncer
	outCh  chan<- domain.Message
}

func NewToggleAnonQuestions(
	client TelegramClient,
	config ChatConfigProvider,
	syncer ConfigSyncer,
	outCh chan<- domain.Message,
) *toggleAnonQuestions {
	return &toggleAnonQuestions{
		guard:  adminGuard{client: client, config: config, outCh: outCh},
		config: config,
		syncer: syncer,
		outCh:  outCh,
	}
}

func (t *toggleAnonQuestions) CanHandle(u *tgbotapi.Update) bool {
	return u.Message != nil && isCommand(u.Message.Text, "toggleanonq")
}

func (t *toggleAnonQuestions) Handle(ctx context.Context, u *tgbotapi.Update) {
	if !t.guard.allow(ctx, u) {
		return
	}

	msg := u.Message
	cfg := t.config.Get(ctx, msg.Chat.ID)
	newValue := !cfg.GetBool(domain.AnonQuestionsKey)

	state, err := t.syncer.SetSetting(ctx, msg.Chat.ID, domain.AnonQuestionsKey, newValue)
	if err != nil {
		slog.ErrorContext(ctx, "failed to toggle anonymous questions", "chatID", msg.Chat.ID, logger.Err(err))
		t.outCh <- &domain.TextMessage{
			ChatID:           msg.Chat.ID,
			ReplyToMessageID: msg.MessageID,
			Content:          "Не удалось сохранить настройку. Попробуйте ещё раз.",
			Plain:            true,
		}
		return
	}

	status := "выключены"
	if newValue {
		status = "включены"
	}

	t.outCh <- &domain.TextMessage{
		ChatID:           msg.Chat.ID,
		ReplyToMessageID: msg.MessageID,
		Content:          fmt.Sprintf("Анонимные вопросы теперь %s для этого чата.\n%s", status, syncOutcome(state)),
		Plain:            true,
	}

	slog.InfoContext(ctx, "anonymous questions toggled", "chatID", msg.Chat.ID, "enabled", newValue, "adminID", msg.From.ID)
}

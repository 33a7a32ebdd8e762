package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/nggurbanov/curator-helper/pkg/domain"
	"github.com/nggurbanov/curator-helper/pkg/logger"
	"github.com/nggurbanov/curator-helper/pkg/services"
)

type refresh struct {
	guard  adminGuard
	syncer ConfigSyncer
	outCh  chan<- domain.Message
}

func NewRefresh(
	client TelegramClient,
	config ChatConfigProvider,
	syncer ConfigSyncer,
	outCh chan<- domain.Message,
) *refresh {
	return &refresh{
		guard:  adminGuard{client: client, config: config, outCh: outCh},
		syncer: syncer,
		outCh:  outCh,
	}
}

func (r *refresh) CanHandle(u *tgbotapi.Update) bool {
	return u.Message != nil && isCommand(u.Message.Text, "refresh")
}

func (r *refresh) Handle(ctx context.Context, u *tgbotapi.Update) {
	if !r.guard.allow(ctx, u) {
		return
	}

	msg := u.Message
	r.reply(msg, "Обновляю FAQ и настройки из Google-таблицы, это может занять немного времени...")

	res, err := r.syncer.Refresh(ctx, msg.Chat.ID)
	if errors.Is(err, services.ErrSheetNotConfigured) {
		r.reply(msg, "Google-таблица для этого чата не настроена. Сначала выполните /setfaqsheet.")
		return
	}
	if err != nil {
		slog.ErrorContext(ctx, "refresh failed", "chatID", msg.Chat.ID, logger.Err(err))
	}

	switch {
	case res.FAQsOK && res.SettingsOK:
		r.reply(msg, fmt.Sprintf("Готово! Загружено %d FAQ, настройки чата обновлены из таблицы.", res.FAQCount))
	case res.FAQsOK:
		r.reply(msg, fmt.Sprintf("Загружено %d FAQ, но настройки из таблицы прочитать не удалось. Отмечен конфликт синхронизации.", res.FAQCount))
	case res.SettingsOK:
		r.reply(msg, "Настройки обновлены из таблицы, но FAQ прочитать не удалось. Локальный список FAQ очищен, проверьте лист FAQ.")
	default:
		r.reply(msg, "Обновление не удалось: ни FAQ, ни настройки прочитать не получилось. Локальные FAQ очищены, отмечен конфликт синхронизации.")
	}

	slog.InfoContext(ctx, "refresh finished", "chatID", msg.Chat.ID,
		"faqsOK", res.FAQsOK, "faqCount", res.FAQCount, "settingsOK", res.SettingsOK)
}

func (r *refresh) reply(msg *tgbotapi.Message, text string) {
	r.outCh <- &domain.TextMessage{
		ChatID:           msg.Chat.ID,
		ReplyToMessageID: msg.MessageID,
		Content:          text,
		Plain:            true,
	}
}

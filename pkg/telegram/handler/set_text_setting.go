package handler

import (
	"context"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/nggurbanov/curator-helper/pkg/domain"
	"github.com/nggurbanov/curator-helper/pkg/logger"
)

type setTextSetting struct {
	guard      adminGuard
	syncer     ConfigSyncer
	command    string
	settingKey string
	label      string
	minLength  int
	outCh      chan<- domain.Message
}

// NewSetTextSetting covers the family of admin commands that store one
// free-text setting: /seterror, /setpersonalityprompt, /setwelcomemessage.
func NewSetTextSetting(
	client TelegramClient,
	config ChatConfigProvider,
	syncer ConfigSyncer,
	command, settingKey, label string,
	minLength int,
	outCh chan<- domain.Message,
) *setTextSetting {
	return &setTextSetting{
		guard:      adminGuard{client: client, config: config, outCh: outCh},
		syncer:     syncer,
		command:    command,
		settingKey: settingKey,
		label:      label,
		minLength:  minLength,
		outCh:      outCh,
	}
}

func (s *setTextSetting) CanHandle(u *tgbotapi.Update) bool {
	return u.Message != nil && isCommand(u.Message.Text, s.command)
}

func (s *setTextSetting) Handle(ctx context.Context, u *tgbotapi.Update) {
	if !s.guard.allow(ctx, u) {
		return
	}

	msg := u.Message
	text := commandArgs(msg.Text)

	if text == "" {
		s.reply(msg, fmt.Sprintf("Укажите текст после команды.\nПример: /%s Ваш новый текст", s.command))
		return
	}
	if len([]rune(text)) < s.minLength {
		s.reply(msg, fmt.Sprintf("Текст слишком короткий, нужно хотя бы %d символов.", s.minLength))
		return
	}

	state, err := s.syncer.SetSetting(ctx, msg.Chat.ID, s.settingKey, text)
	if err != nil {
		slog.ErrorContext(ctx, "failed to save setting", "key", s.settingKey, "chatID", msg.Chat.ID, logger.Err(err))
		s.reply(msg, "Не удалось сохранить настройку. Попробуйте ещё раз.")
		return
	}

	preview := text
	if len([]rune(preview)) > 200 {
		preview = string([]rune(preview)[:200]) + "..."
	}

	s.reply(msg, fmt.Sprintf("%s обновлено.\n%s\nПредпросмотр:\n%s", s.label, syncOutcome(state), preview))

	slog.InfoContext(ctx, "setting updated", "key", s.settingKey, "chatID", msg.Chat.ID, "adminID", msg.From.ID)
}

func (s *setTextSetting) reply(msg *tgbotapi.Message, text string) {
	s.outCh <- &domain.TextMessage{
		ChatID:           msg.Chat.ID,
		ReplyToMessageID: msg.MessageID,
		Content:          text,
		Plain:            true,
	}
}

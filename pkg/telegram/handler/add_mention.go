package handler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/nggurbanov/curator-helper/pkg/domain"
	"github.com/nggurbanov/curator-helper/pkg/logger"
)

type addMention struct {
	guard       adminGuard
	config      ChatConfigProvider
	syncer      ConfigSyncer
	maxMentions int
	outCh       chan<- domain.Message
}

func NewAddMention(
	client TelegramClient,
	config ChatConfigProvider,
	syncer ConfigSyncer,
	maxMentions int,
	outCh chan<- domain.Message,
) *addMention {
	return &addMention{
		guard:       adminGuard{client: client, config: config, outCh: outCh},
		config:      config,
		syncer:      syncer,
		maxMentions: maxMentions,
		outCh:       outCh,
	}
}

func (a *addMention) CanHandle(u *tgbotapi.Update) bool {
	return u.Message != nil && isCommand(u.Message.Text, "addmention")
}

func (a *addMention) Handle(ctx context.Context, u *tgbotapi.Update) {
	if !a.guard.allow(ctx, u) {
		return
	}

	msg := u.Message
	args := commandArgs(msg.Text)

	if args == "" {
		a.reply(msg, "Укажите ключевое слово и необязательное описание.\n"+
			"Пример: /addmention куратор Старший куратор потока")
		return
	}

	keyword, description, _ := strings.Cut(args, " ")
	description = strings.TrimSpace(description)

	if len([]rune(keyword)) < 2 {
		a.reply(msg, "Ключевое слово должно быть не короче 2 символов.")
		return
	}

	cfg := a.config.Get(ctx, msg.Chat.ID)
	mentions := cfg.Mentions()

	if cfg.HasMention(keyword) {
		a.reply(msg, fmt.Sprintf("Ключевое слово «%s» уже добавлено.", keyword))
		return
	}
	if len(mentions) >= a.maxMentions {
		a.reply(msg, fmt.Sprintf("Достигнут лимит ключевых слов (%d). Удалите лишние через /editmentions.", a.maxMentions))
		return
	}

	mentions = append(mentions, domain.Mention{Keyword: keyword, Description: description})
	cfg.SetMentions(mentions)

	state, err := a.syncer.SetSetting(ctx, msg.Chat.ID, domain.GroupMentionsKey, cfg[domain.GroupMentionsKey])
	if err != nil {
		slog.ErrorContext(ctx, "failed to save mentions", "chatID", msg.Chat.ID, logger.Err(err))
		a.reply(msg, "Не удалось сохранить ключевое слово. Попробуйте ещё раз.")
		return
	}

	text := fmt.Sprintf("Ключевое слово «%s» добавлено.", keyword)
	if description != "" {
		text += fmt.Sprintf(" Описание: «%s».", description)
	}
	a.reply(msg, text+"\n"+syncOutcome(state))

	slog.InfoContext(ctx, "mention added", "chatID", msg.Chat.ID, "keyword", keyword, "adminID", msg.From.ID)
}

func (a *addMention) reply(msg *tgbotapi.Message, text string) {
	a.outCh <- &domain.TextMessage{
		ChatID:           msg.Chat.ID,
		ReplyToMessageID: msg.MessageID,
		Content:          text,
		Plain:            true,
	}
}

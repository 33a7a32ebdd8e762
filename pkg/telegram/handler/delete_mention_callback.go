package handler

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/nggurbanov/curator-helper/pkg/domain"
	"github.com/nggurbanov/curator-helper/pkg/logger"
)

type deleteMentionCallback struct {
	client TelegramClient
	config ChatConfigProvider
	syncer ConfigSyncer
	outCh  chan<- domain.Message
}

func NewDeleteMentionCallback(
	client TelegramClient,
	config ChatConfigProvider,
	syncer ConfigSyncer,
	outCh chan<- domain.Message,
) *deleteMentionCallback {
	return &deleteMentionCallback{
		client: client,
		config: config,
		syncer: syncer,
		outCh:  outCh,
	}
}

func (d *deleteMentionCallback) CanHandle(u *tgbotapi.Update) bool {
	return u.CallbackQuery != nil && strings.HasPrefix(u.CallbackQuery.Data, domain.DeleteMentionCallbackPrefix)
}

func (d *deleteMentionCallback) Handle(ctx context.Context, u *tgbotapi.Update) {
	query := u.CallbackQuery

	chatID, keyword, err := parseDeleteMentionData(query.Data)
	if err != nil {
		slog.ErrorContext(ctx, "bad delete-mention callback data", "data", query.Data, logger.Err(err))
		d.answer(query.ID, "Некорректные данные кнопки.", true)
		return
	}

	if !d.client.IsChatAdmin(chatID, query.From.ID) {
		d.answer(query.ID, "Это действие доступно только администраторам.", true)
		return
	}

	cfg := d.config.Get(ctx, chatID)
	mentions := cfg.Mentions()

	kept := mentions[:0:0]
	for _, m := range mentions {
		if !strings.EqualFold(m.Keyword, keyword) {
			kept = append(kept, m)
		}
	}

	if len(kept) == len(mentions) {
		d.edit(query, fmt.Sprintf("Ключевое слово «%s» не найдено или уже удалено.", keyword))
		d.answer(query.ID, "", false)
		return
	}

	cfg.SetMentions(kept)
	state, err := d.syncer.SetSetting(ctx, chatID, domain.GroupMentionsKey, cfg[domain.GroupMentionsKey])
	if err != nil {
		slog.ErrorContext(ctx, "failed to save mentions after delete", "chatID", chatID, logger.Err(err))
		d.answer(query.ID, "Не удалось сохранить изменения.", true)
		return
	}

	text := fmt.Sprintf("Ключевое слово «%s» удалено.\n%s", keyword, syncOutcome(state))
	if len(kept) == 0 {
		text += "\nКлючевых слов больше не осталось."
	}
	d.edit(query, text)
	d.answer(query.ID, fmt.Sprintf("«%s» удалено", keyword), false)

	slog.InfoContext(ctx, "mention deleted", "chatID", chatID, "keyword", keyword, "adminID", query.From.ID)
}

func parseDeleteMentionData(data string) (int64, string, error) {
	payload := strings.TrimPrefix(data, domain.DeleteMentionCallbackPrefix)
	chatPart, keyword, ok := strings.Cut(payload, ":")
	if !ok || keyword == "" {
		return 0, "", fmt.Errorf("malformed payload %q", payload)
	}

	chatID, err := strconv.ParseInt(chatPart, 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("parsing chat id %q: %w", chatPart, err)
	}
	return chatID, keyword, nil
}

func (d *deleteMentionCallback) edit(query *tgbotapi.CallbackQuery, text string) {
	if query.Message == nil {
		return
	}
	d.outCh <- &domain.EditMessage{
		ChatID:    query.Message.Chat.ID,
		MessageID: query.Message.MessageID,
		Content:   text,
	}
}

func (d *deleteMentionCallback) answer(queryID, text string, alert bool) {
	d.outCh <- &domain.CallbackAnswer{
		CallbackQueryID: queryID,
		Text:            text,
		ShowAlert:       alert,
	}
}

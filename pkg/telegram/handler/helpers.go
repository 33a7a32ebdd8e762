package handler

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/nggurbanov/curator-helper/pkg/domain"
)

// isCommand matches "/name" and "/name@BotName" prefixes.
func isCommand(text, name string) bool {
	if !strings.HasPrefix(text, "/"+name) {
		return false
	}
	rest := text[len(name)+1:]
	if strings.HasPrefix(rest, "@") {
		rest = rest[strings.IndexAny(rest+" ", " "):]
	}
	return rest == "" || strings.HasPrefix(rest, " ")
}

// commandArgs returns the text after the command and bot-name suffix.
func commandArgs(text string) string {
	_, args, _ := strings.Cut(text, " ")
	return strings.TrimSpace(args)
}

func isGroupChat(chat *tgbotapi.Chat) bool {
	return chat != nil && (chat.IsGroup() || chat.IsSuperGroup())
}

func isPrivateChat(chat *tgbotapi.Chat) bool {
	return chat != nil && chat.IsPrivate()
}

// adminGuard bundles the checks every admin command starts with: the
// command must come from a group chat and the sender must be a chat admin.
type adminGuard struct {
	client TelegramClient
	config ChatConfigProvider
	outCh  chan<- domain.Message
}

func (g *adminGuard) allow(ctx context.Context, u *tgbotapi.Update) bool {
	msg := u.Message
	if !isGroupChat(msg.Chat) {
		g.outCh <- &domain.TextMessage{
			ChatID:           msg.Chat.ID,
			ReplyToMessageID: msg.MessageID,
			Content:          "Эту команду можно использовать только в групповом чате.",
			Plain:            true,
		}
		return false
	}

	if !g.client.IsChatAdmin(msg.Chat.ID, msg.From.ID) {
		cfg := g.config.Get(ctx, msg.Chat.ID)
		text := cfg.GetString(domain.NonAdminErrorKey)
		if text == "" {
			text = "Извините, эта команда доступна только администраторам чата."
		}
		g.outCh <- &domain.TextMessage{
			ChatID:           msg.Chat.ID,
			ReplyToMessageID: msg.MessageID,
			Content:          text,
			Plain:            true,
		}
		return false
	}

	return true
}

// syncOutcome appends a one-line sync status to a confirmation message.
func syncOutcome(state domain.SyncState) string {
	switch state {
	case domain.SyncOK:
		return "Настройки синхронизированы с Google-таблицей."
	case domain.SyncConflict:
		return "Настройки сохранены локально, но синхронизация с Google-таблицей не удалась. Отмечен конфликт."
	default:
		return "Google-таблица для синхронизации настроек не настроена."
	}
}

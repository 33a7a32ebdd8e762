package handler

import (
	"context"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/samber/lo"

	"github.com/nggurbanov/curator-helper/pkg/domain"
	"github.com/nggurbanov/curator-helper/pkg/logger"
)

type KnownChatLister interface {
	KnownChatIDs(ctx context.Context) ([]int64, error)
}

type UserGroupLinker interface {
	Set(ctx context.Context, userID, groupID int64) error
}

type linkGroup struct {
	chats KnownChatLister
	links UserGroupLinker
	outCh chan<- domain.Message
}

// NewLinkGroup links a user's PM to a group chat: the user forwards any
// message from the group, and the group must already be configured with
// the bot.
func NewLinkGroup(chats KnownChatLister, links UserGroupLinker, outCh chan<- domain.Message) *linkGroup {
	return &linkGroup{chats: chats, links: links, outCh: outCh}
}

func (l *linkGroup) CanHandle(u *tgbotapi.Update) bool {
	return u.Message != nil && isPrivateChat(u.Message.Chat) && u.Message.ForwardFromChat != nil
}

func (l *linkGroup) Handle(ctx context.Context, u *tgbotapi.Update) {
	msg := u.Message
	forwarded := msg.ForwardFromChat

	if !isGroupChat(forwarded) {
		l.reply(msg, "Для анонимных вопросов можно привязать только групповой чат, не канал и не личную переписку.")
		return
	}

	groupTitle := forwarded.Title
	if groupTitle == "" {
		groupTitle = "эта группа"
	}

	knownIDs, err := l.chats.KnownChatIDs(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list known chats", logger.Err(err))
		l.reply(msg, "Не удалось проверить группу. Попробуйте ещё раз позже.")
		return
	}

	if !lo.Contains(knownIDs, forwarded.ID) {
		slog.WarnContext(ctx, "link attempt to unconfigured group", "userID", msg.From.ID, "groupID", forwarded.ID)
		l.reply(msg, fmt.Sprintf("Я не настроен для группы «%s». Перешлите сообщение из группы, где меня настроил администратор.", groupTitle))
		return
	}

	if err := l.links.Set(ctx, msg.From.ID, forwarded.ID); err != nil {
		slog.ErrorContext(ctx, "failed to save user-group link", "userID", msg.From.ID, "groupID", forwarded.ID, logger.Err(err))
		l.reply(msg, "Не удалось сохранить привязку. Попробуйте ещё раз позже.")
		return
	}

	l.reply(msg, fmt.Sprintf("Отлично! Я привязал вас к группе «%s». "+
		"Теперь, задав мне вопрос в личке, вы сможете анонимно отправить его кураторам этой группы.", groupTitle))

	slog.InfoContext(ctx, "user linked to group", "userID", msg.From.ID, "groupID", forwarded.ID)
}

func (l *linkGroup) reply(msg *tgbotapi.Message, text string) {
	l.outCh <- &domain.TextMessage{
		ChatID:  msg.Chat.ID,
		Content: text,
		Plain:   true,
	}
}

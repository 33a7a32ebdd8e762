package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/nggurbanov/curator-helper/pkg/domain"
	"github.com/nggurbanov/curator-helper/pkg/logger"
)

type ContentModerator interface {
	IsTextAppropriate(ctx context.Context, text string) bool
}

type LinkedGroupProvider interface {
	Get(ctx context.Context, userID int64) (int64, error)
}

type Owner interface {
	OwnerID() int64
}

type askAnonCallback struct {
	sessions  SessionRepository
	links     LinkedGroupProvider
	moderator ContentModerator
	owner     Owner
	outCh     chan<- domain.Message
}

// NewAskAnonCallback relays the user's pending question anonymously into
// their linked group after a moderation check. Blocked questions alert the
// bot owner.
func NewAskAnonCallback(
	sessions SessionRepository,
	links LinkedGroupProvider,
	moderator ContentModerator,
	owner Owner,
	outCh chan<- domain.Message,
) *askAnonCallback {
	return &askAnonCallback{
		sessions:  sessions,
		links:     links,
		moderator: moderator,
		owner:     owner,
		outCh:     outCh,
	}
}

func (c *askAnonCallback) CanHandle(u *tgbotapi.Update) bool {
	return u.CallbackQuery != nil && u.CallbackQuery.Data == domain.UserAskAnonCallback
}

func (c *askAnonCallback) Handle(ctx context.Context, u *tgbotapi.Update) {
	query := u.CallbackQuery
	userID := query.From.ID

	session, ok := c.sessions.Get(userID)
	if !ok || session.PendingQuestion == "" {
		c.answer(query.ID, "Не удалось найти ваш вопрос.", true)
		c.edit(query, "Что-то пошло не так. Задайте вопрос ещё раз.")
		return
	}
	defer c.sessions.Clear(userID)

	if !c.moderator.IsTextAppropriate(ctx, session.PendingQuestion) {
		c.answer(query.ID, "Сообщение не отправлено.", true)
		c.edit(query, "Ваш вопрос выглядит неуместным и не был переслан.\nПереформулируйте его, пожалуйста.")
		c.alertOwner(userID, session)
		return
	}

	groupID, err := c.links.Get(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		c.answer(query.ID, "Привязанная группа не найдена.", true)
		c.edit(query, "Вы ещё не привязали группу для анонимных вопросов. "+
			"Перешлите мне в личку любое сообщение из нужной группы.")
		return
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to resolve linked group", "userID", userID, logger.Err(err))
		c.answer(query.ID, "Ошибка при отправке вопроса.", true)
		return
	}

	c.outCh <- &domain.TextMessage{
		ChatID:  groupID,
		Content: fmt.Sprintf("🗣️ **Новый анонимный вопрос**\n\n%s", session.PendingQuestion),
	}

	c.answer(query.ID, "Вопрос отправлен анонимно!", true)
	c.edit(query, "Ваш вопрос анонимно отправлен в привязанную группу.")

	slog.InfoContext(ctx, "anonymous question relayed", "userID", userID, "groupID", groupID)
}

func (c *askAnonCallback) alertOwner(userID int64, session domain.Session) {
	ownerID := c.owner.OwnerID()
	if ownerID == 0 {
		return
	}

	c.outCh <- &domain.TextMessage{
		ChatID: ownerID,
		Content: fmt.Sprintf("Заблокирован потенциально неуместный анонимный вопрос от пользователя %d.\n"+
			"Чат исходного вопроса: %d.\nТекст: %s", userID, session.OriginChatID, session.PendingQuestion),
		Plain: true,
	}
}

func (c *askAnonCallback) edit(query *tgbotapi.CallbackQuery, text string) {
	if query.Message == nil {
		return
	}
	c.outCh <- &domain.EditMessage{
		ChatID:    query.Message.Chat.ID,
		MessageID: query.Message.MessageID,
		Content:   text,
	}
}

func (c *askAnonCallback) answer(queryID, text string, alert bool) {
	c.outCh <- &domain.CallbackAnswer{
		CallbackQueryID: queryID,
		Text:            text,
		ShowAlert:       alert,
	}
}

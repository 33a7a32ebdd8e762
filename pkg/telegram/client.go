package telegram

import (
	"fmt"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/nggurbanov/curator-helper/pkg/domain"
	"github.com/nggurbanov/curator-helper/pkg/logger"
)

type client struct {
	bot       *tgbotapi.BotAPI
	updatesCh tgbotapi.UpdatesChannel
}

func NewClient(token string) (*client, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("creating bot api instance: %v", err)
	}

	slog.Info("authorized on telegram", "account", bot.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	u.AllowedUpdates = []string{"message", "callback_query", "my_chat_member"}

	return &client{
		bot:       bot,
		updatesCh: bot.GetUpdatesChan(u),
	}, nil
}

func (c *client) GetUpdates() tgbotapi.UpdatesChannel {
	return c.updatesCh
}

func (c *client) BotUsername() string {
	return c.bot.Self.UserName
}

// DeepLink builds a t.me link that opens a private chat with the bot and
// passes the payload to /start.
func (c *client) DeepLink(payload string) string {
	return fmt.Sprintf("https://t.me/%s?start=%s", c.bot.Self.UserName, payload)
}

func (c *client) Send(message domain.Message) error {
	chatMessage := message.ToChatMessage()
	if _, err := c.bot.Send(chatMessage); err != nil {
		return c.handleError(chatMessage, err)
	}
	return nil
}

// handleError retries a failed HTML-formatted message as plain text.
// Telegram rejects the whole message when the generated markup is off,
// and a raw answer beats no answer.
func (c *client) handleError(chatMessage tgbotapi.Chattable, err error) error {
	messageConfig, ok := chatMessage.(tgbotapi.MessageConfig)
	if !ok || messageConfig.ParseMode == "" {
		return fmt.Errorf("sending message: %v", err)
	}

	slog.Warn("retrying message without formatting", "chatID", messageConfig.ChatID, logger.Err(err))

	messageConfig.ParseMode = ""
	if _, retryErr := c.bot.Send(messageConfig); retryErr != nil {
		return fmt.Errorf("sending message without formatting: %v (original: %v)", retryErr, err)
	}
	return nil
}

// IsChatAdmin reports whether the user is a creator or administrator of
// the chat. Errors from the API are treated as "not an admin".
func (c *client) IsChatAdmin(chatID, userID int64) bool {
	member, err := c.bot.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{
			ChatID: chatID,
			UserID: userID,
		},
	})
	if err != nil {
		slog.Error("failed to get chat member", "chatID", chatID, "userID", userID, logger.Err(err))
		return false
	}

	return member.Status == "creator" || member.Status == "administrator"
}

// ChatTitle resolves the display title of a group chat, or the user's
// name for private chats.
func (c *client) ChatTitle(chatID int64) string {
	chat, err := c.bot.GetChat(tgbotapi.ChatInfoConfig{
		ChatConfig: tgbotapi.ChatConfig{ChatID: chatID},
	})
	if err != nil {
		slog.Error("failed to get chat info", "chatID", chatID, logger.Err(err))
		return ""
	}

	if chat.Title != "" {
		return chat.Title
	}
	return strings.TrimSpace(chat.FirstName + " " + chat.LastName)
}

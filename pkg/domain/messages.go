package domain

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/nggurbanov/curator-helper/pkg/render"
)

// Message is anything the bot can push onto the outgoing channel.
type Message interface {
	ToChatMessage() tgbotapi.Chattable
}

type TextMessage struct {
	ChatID           int64
	ReplyToMessageID int
	Content          string
	// Plain skips markdown-to-HTML rendering for content that must be
	// delivered verbatim (user-authored text, settings dumps).
	Plain bool
}

func (t *TextMessage) ToChatMessage() tgbotapi.Chattable {
	if t.Plain {
		msg := tgbotapi.NewMessage(t.ChatID, t.Content)
		msg.ReplyToMessageID = t.ReplyToMessageID
		return msg
	}

	msg := tgbotapi.NewMessage(t.ChatID, render.ToHTML(t.Content))
	msg.ReplyToMessageID = t.ReplyToMessageID
	msg.ParseMode = tgbotapi.ModeHTML
	return msg
}

type Button struct {
	Label string
	Data  string
}

type KeyboardMessage struct {
	ChatID           int64
	ReplyToMessageID int
	Content          string
	ButtonRows       [][]Button
}

func (k *KeyboardMessage) ToChatMessage() tgbotapi.Chattable {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(k.ButtonRows))
	for _, row := range k.ButtonRows {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(b.Label, b.Data))
		}
		rows = append(rows, buttons)
	}

	msg := tgbotapi.NewMessage(k.ChatID, k.Content)
	msg.ReplyToMessageID = k.ReplyToMessageID
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	return msg
}

// CallbackAnswer acknowledges a callback query, optionally with an alert.
type CallbackAnswer struct {
	CallbackQueryID string
	Text            string
	ShowAlert       bool
}

func (c *CallbackAnswer) ToChatMessage() tgbotapi.Chattable {
	return tgbotapi.CallbackConfig{
		CallbackQueryID: c.CallbackQueryID,
		Text:            c.Text,
		ShowAlert:       c.ShowAlert,
	}
}

// EditMessage replaces the text of a previously sent message and drops its
// inline keyboard.
type EditMessage struct {
	ChatID    int64
	MessageID int
	Content   string
}

func (e *EditMessage) ToChatMessage() tgbotapi.Chattable {
	return tgbotapi.NewEditMessageText(e.ChatID, e.MessageID, e.Content)
}

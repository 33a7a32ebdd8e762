package handler

import (
	"context"
	"fmt"
	"sort"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/nggurbanov/curator-helper/pkg/domain"
)

type showSettings struct {
	config ChatConfigProvider
	outCh  chan<- domain.Message
}

func NewShowSettings(config ChatConfigProvider, outCh chan<- domain.Message) *showSettings {
	return &showSettings{config: config, outCh: outCh}
}

func (s *showSettings) CanHandle(u *tgbotapi.Update) bool {
	return u.Message != nil && isCommand(u.Message.Text, "showsettings")
}

func (s *showSettings) Handle(ctx context.Context, u *tgbotapi.Update) {
	msg := u.Message

	if !isGroupChat(msg.Chat) {
		s.outCh <- &domain.TextMessage{
			ChatID:  msg.Chat.ID,
			Content: "Эта команда показывает настройки группового чата, используйте её в группе.",
			Plain:   true,
		}
		return
	}

	cfg := s.config.Get(ctx, msg.Chat.ID)
	if len(cfg) == 0 {
		s.outCh <- &domain.TextMessage{
			ChatID:           msg.Chat.ID,
			ReplyToMessageID: msg.MessageID,
			Content:          "Для этого чата настройки не найдены.",
			Plain:            true,
		}
		return
	}

	s.outCh <- &domain.TextMessage{
		ChatID:           msg.Chat.ID,
		ReplyToMessageID: msg.MessageID,
		Content:          formatSettings(cfg),
	}
}

func formatSettings(cfg domain.ChatConfig) string {
	keys := make([]string, 0, len(cfg))
	for k := range cfg {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString("**Текущие настройки чата:**\n\n```\n")
	for _, k := range keys {
		value := fmt.Sprintf("%v", cfg[k])
		if len([]rune(value)) > 150 {
			value = string([]rune(value)[:150]) + "..."
		}
		sb.WriteString(fmt.Sprintf("%s: %s\n", k, value))
	}
	sb.WriteString("```")
	return sb.String()
}

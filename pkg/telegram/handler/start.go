package handler

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/nggurbanov/curator-helper/pkg/domain"
)

const setFAQSheetPayloadPrefix = "setfaqsheet_"

type start struct {
	client              TelegramClient
	config              ChatConfigProvider
	sessions            SessionRepository
	serviceAccountEmail string
	outCh               chan<- domain.Message
}

func NewStart(
	client TelegramClient,
	config ChatConfigProvider,
	sessions SessionRepository,
	serviceAccountEmail string,
	outCh chan<- domain.Message,
) *start {
	return &start{
		client:              client,
		config:              config,
		sessions:            sessions,
		serviceAccountEmail: serviceAccountEmail,
		outCh:               outCh,
	}
}

func (s *start) CanHandle(u *tgbotapi.Update) bool {
	return u.Message != nil && isCommand(u.Message.Text, "start")
}

func (s *start) Handle(ctx context.Context, u *tgbotapi.Update) {
	msg := u.Message

	payload := commandArgs(msg.Text)
	if isPrivateChat(msg.Chat) && strings.HasPrefix(payload, setFAQSheetPayloadPrefix) {
		s.handleSheetDeepLink(ctx, msg, payload)
		return
	}

	cfg := s.config.Get(ctx, msg.Chat.ID)
	botName := cfg.GetString(domain.BotDisplayNameKey)
	if botName == "" {
		botName = "Helper Bot"
	}

	s.outCh <- &domain.TextMessage{
		ChatID: msg.Chat.ID,
		Content: fmt.Sprintf("Привет, %s! Я %s.\n"+
			"Отвечаю на вопросы по FAQ нашей программы.\n"+
			"В групповом чате обратись ко мне по имени или ключевому слову.\n"+
			"Команда /help покажет, что я умею.", msg.From.FirstName, botName),
		Plain: true,
	}
}

// handleSheetDeepLink continues the /setfaqsheet flow in PM: the payload
// carries the group chat id, and the next PM text is expected to be the
// sheet URL.
func (s *start) handleSheetDeepLink(_ context.Context, msg *tgbotapi.Message, payload string) {
	targetChatID, err := strconv.ParseInt(strings.TrimPrefix(payload, setFAQSheetPayloadPrefix), 10, 64)
	if err != nil {
		s.outCh <- &domain.TextMessage{
			ChatID:  msg.Chat.ID,
			Content: "Ссылка повреждена. Используйте ссылку, отправленную в групповом чате.",
			Plain:   true,
		}
		return
	}

	if !s.client.IsChatAdmin(targetChatID, msg.From.ID) {
		s.outCh <- &domain.TextMessage{
			ChatID:  msg.Chat.ID,
			Content: "Вы не администратор указанного группового чата. Настраивать Google-таблицу могут только администраторы.",
			Plain:   true,
		}
		return
	}

	s.sessions.Save(msg.From.ID, domain.Session{
		AwaitingSheetURL: true,
		TargetChatID:     targetChatID,
	})

	s.outCh <- &domain.TextMessage{
		ChatID: msg.Chat.ID,
		Content: fmt.Sprintf("Привет, %s! Настраиваем Google-таблицу для чата %d.\n"+
			"Пришлите полную ссылку на вашу Google-таблицу.\n"+
			"Не забудьте открыть к ней доступ для %s (роль «Редактор»).",
			msg.From.FirstName, targetChatID, s.serviceAccountEmail),
		Plain: true,
	}
}

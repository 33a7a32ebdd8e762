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

const sheetURLPrefix = "https://docs.google.com/spreadsheets/d/"

type SheetAccessChecker interface {
	CheckAccess(ctx context.Context, sheetURL string) (bool, string)
	ReadFAQs(ctx context.Context, sheetURL, sheetName string) ([]domain.FAQ, error)
}

type sheetURLAwaiting struct {
	sessions            SessionRepository
	config              ChatConfigProvider
	syncer              ConfigSyncer
	sheets              SheetAccessChecker
	serviceAccountEmail string
	outCh               chan<- domain.Message
}

// NewSheetURLAwaiting consumes the PM message that follows the
// /setfaqsheet deep link: it validates the sheet URL, imports the FAQs and
// stores the URL, which also bootstraps the settings worksheet.
func NewSheetURLAwaiting(
	sessions SessionRepository,
	config ChatConfigProvider,
	syncer ConfigSyncer,
	sheets SheetAccessChecker,
	serviceAccountEmail string,
	outCh chan<- domain.Message,
) *sheetURLAwaiting {
	return &sheetURLAwaiting{
		sessions:            sessions,
		config:              config,
		syncer:              syncer,
		sheets:              sheets,
		serviceAccountEmail: serviceAccountEmail,
		outCh:               outCh,
	}
}

func (s *sheetURLAwaiting) CanHandle(u *tgbotapi.Update) bool {
	if u.Message == nil || !isPrivateChat(u.Message.Chat) {
		return false
	}

	session, ok := s.sessions.Get(u.Message.From.ID)
	return ok && session.AwaitingSheetURL
}

func (s *sheetURLAwaiting) Handle(ctx context.Context, u *tgbotapi.Update) {
	msg := u.Message
	session, _ := s.sessions.Get(msg.From.ID)
	targetChatID := session.TargetChatID

	sheetURL := strings.TrimSpace(msg.Text)
	if !strings.HasPrefix(sheetURL, sheetURLPrefix) {
		s.reply(msg, "Это не похоже на ссылку на Google-таблицу. Пришлите полный URL.")
		return
	}

	s.reply(msg, fmt.Sprintf("Спасибо! Проверяю доступ к таблице для чата %d...", targetChatID))

	if ok, reason := s.sheets.CheckAccess(ctx, sheetURL); !ok {
		s.reply(msg, fmt.Sprintf("Не удалось открыть таблицу: %s\n"+
			"Проверьте ссылку и доступ для %s (роль «Редактор»).", reason, s.serviceAccountEmail))
		s.sessions.Clear(msg.From.ID)
		return
	}

	cfg := s.config.Get(ctx, targetChatID)
	faqSheetName := cfg.GetString(domain.FAQSheetNameKey)

	faqs, err := s.sheets.ReadFAQs(ctx, sheetURL, faqSheetName)
	switch {
	case err != nil:
		slog.ErrorContext(ctx, "failed to import FAQs during sheet setup", "chatID", targetChatID, logger.Err(err))
		s.reply(msg, fmt.Sprintf("Не удалось прочитать лист FAQ «%s». Возможно, он отсутствует или недоступен. "+
			"FAQ появятся после исправления и команды /refresh.", faqSheetName))
	case len(faqs) == 0:
		s.reply(msg, fmt.Sprintf("Лист FAQ «%s» пока пуст. Ничего страшного: добавьте вопросы в таблицу и выполните /refresh.", faqSheetName))
	default:
		s.reply(msg, fmt.Sprintf("Нашёл и сохранил %d FAQ. %s", len(faqs), faqSample(faqs)))
	}

	if err := s.saveFAQs(ctx, targetChatID, faqs); err != nil {
		slog.ErrorContext(ctx, "failed to store imported FAQs", "chatID", targetChatID, logger.Err(err))
	}

	state, err := s.syncer.SetSetting(ctx, targetChatID, domain.GSheetURLKey, sheetURL)
	if err != nil {
		s.reply(msg, "Ошибка: не удалось сохранить настройки. Попробуйте ещё раз или обратитесь к владельцу бота.")
		s.sessions.Clear(msg.From.ID)
		return
	}

	switch state {
	case domain.SyncOK:
		s.reply(msg, fmt.Sprintf("Google-таблица подключена к чату %d! Лист настроек подготовлен, FAQ сохранены локально.", targetChatID))
		s.outCh <- &domain.TextMessage{
			ChatID:  targetChatID,
			Content: fmt.Sprintf("Администратор %s подключил Google-таблицу с FAQ и настройками!", msg.From.FirstName),
			Plain:   true,
		}
	default:
		s.reply(msg, "Ссылка сохранена, но подготовить лист настроек не удалось. Проверьте права доступа; отмечен конфликт синхронизации.")
	}

	s.sessions.Clear(msg.From.ID)
	slog.InfoContext(ctx, "sheet configured", "chatID", targetChatID, "adminID", msg.From.ID, "faqCount", len(faqs), "syncState", state)
}

func (s *sheetURLAwaiting) saveFAQs(ctx context.Context, chatID int64, faqs []domain.FAQ) error {
	_, err := s.syncer.SetSetting(ctx, chatID, domain.FAQListKey, domain.FAQValue(faqs))
	return err
}

func (s *sheetURLAwaiting) reply(msg *tgbotapi.Message, text string) {
	s.outCh <- &domain.TextMessage{
		ChatID:  msg.Chat.ID,
		Content: text,
		Plain:   true,
	}
}

func faqSample(faqs []domain.FAQ) string {
	var sb strings.Builder
	sb.WriteString("Первые из них:\n")
	for i, f := range faqs {
		if i == 3 {
			break
		}
		q := f.Question
		if len([]rune(q)) > 50 {
			q = string([]rune(q)[:50]) + "..."
		}
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, q))
	}
	return strings.TrimRight(sb.String(), "\n")
}

package workers

import (
	"context"
	"log/slog"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/nggurbanov/curator-helper/pkg/domain"
	"github.com/nggurbanov/curator-helper/pkg/logger"
)

type UpdateHandler interface {
	HandleUpdate(ctx context.Context, update *tgbotapi.Update)
}

type TelegramClient interface {
	GetUpdates() tgbotapi.UpdatesChannel
	Send(message domain.Message) error
}

type telegramUpdateListener struct {
	client  TelegramClient
	handler UpdateHandler
	outCh   <-chan domain.Message
	sem     chan struct{}
	wg      sync.WaitGroup
}

// NewTelegramUpdateListener multiplexes incoming Telegram updates and the
// outgoing message channel. Updates are processed concurrently, bounded by
// maxInFlight.
func NewTelegramUpdateListener(
	client TelegramClient,
	handler UpdateHandler,
	outCh <-chan domain.Message,
	maxInFlight int,
) *telegramUpdateListener {
	if maxInFlight < 1 {
		maxInFlight = 1
	}

	return &telegramUpdateListener{
		client:  client,
		handler: handler,
		outCh:   outCh,
		sem:     make(chan struct{}, maxInFlight),
	}
}

func (t *telegramUpdateListener) Name() string { return "telegram update listener" }

func (t *telegramUpdateListener) Run(ctx context.Context) error {
	slog.Info("starting worker", "name", t.Name())
	defer slog.Info("worker stopped", "name", t.Name())

	updates := t.client.GetUpdates()

	for {
		select {
		case <-ctx.Done():
			t.wg.Wait()
			return nil
		case update := <-updates:
			t.sem <- struct{}{}
			t.wg.Add(1)
			go func(update tgbotapi.Update) {
				defer func() {
					<-t.sem
					t.wg.Done()
				}()
				t.processUpdate(ctx, &update)
			}(update)
		case message := <-t.outCh:
			t.sendMessage(message)
		}
	}
}

func (t *telegramUpdateListener) processUpdate(ctx context.Context, update *tgbotapi.Update) {
	ctx = logger.ContextWithRequestID(ctx, update.UpdateID)

	var chatID, userID int64
	switch {
	case update.Message != nil && update.Message.From != nil:
		chatID, userID = update.Message.Chat.ID, update.Message.From.ID
	case update.CallbackQuery != nil:
		userID = update.CallbackQuery.From.ID
		if update.CallbackQuery.Message != nil {
			chatID = update.CallbackQuery.Message.Chat.ID
		}
	default:
		slog.DebugContext(ctx, "skipping unsupported update type")
		return
	}

	slog.InfoContext(ctx, "processing update", "chatID", chatID, "userID", userID)

	t.handler.HandleUpdate(ctx, update)
}

func (t *telegramUpdateListener) sendMessage(message domain.Message) {
	if err := t.client.Send(message); err != nil {
		slog.Error("failed to send message", logger.Err(err))
	}
}

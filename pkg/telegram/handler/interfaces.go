package handler

import (
	"context"

	"github.com/nggurbanov/curator-helper/pkg/domain"
	"github.com/nggurbanov/curator-helper/pkg/services"
)

type TelegramClient interface {
	BotUsername() string
	DeepLink(payload string) string
	IsChatAdmin(chatID, userID int64) bool
	ChatTitle(chatID int64) string
}

type ChatConfigProvider interface {
	Get(ctx context.Context, chatID int64) domain.ChatConfig
}

type ConfigSyncer interface {
	SetSetting(ctx context.Context, chatID int64, key string, value any) (domain.SyncState, error)
	Refresh(ctx context.Context, chatID int64) (services.RefreshResult, error)
}

type SessionRepository interface {
	Save(userID int64, session domain.Session)
	Get(userID int64) (domain.Session, bool)
	Clear(userID int64)
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hashicorp/go-multierror"

	"github.com/nggurbanov/curator-helper/pkg/domain"
	"github.com/nggurbanov/curator-helper/pkg/logger"
)

// ErrSheetNotConfigured is returned by Refresh when the chat has no
// spreadsheet URL to pull from.
var ErrSheetNotConfigured = errors.New("google sheet is not configured for this chat")

type ChatConfigRepository interface {
	Get(ctx context.Context, chatID int64) domain.ChatConfig
	Update(ctx context.Context, chatID int64, cfg domain.ChatConfig) error
	SetSetting(ctx context.Context, chatID int64, key string, value any) error
}

type SheetsClient interface {
	ReadSettings(ctx context.Context, spreadsheetURL, sheetName string) (domain.ChatConfig, error)
	WriteSettings(ctx context.Context, spreadsheetURL, sheetName string, cfg domain.ChatConfig, defaults domain.ChatConfig) error
	ReadFAQs(ctx context.Context, spreadsheetURL, sheetName string) ([]domain.FAQ, error)
}

type configSyncService struct {
	repo     ChatConfigRepository
	sheets   SheetsClient
	defaults domain.ChatConfig
}

// NewConfigSyncService wires the chat config repository to the spreadsheet
// client so that every local settings change is mirrored to the chat's
// sheet, with the gsheet_sync_conflict flag tracking mirror failures.
func NewConfigSyncService(repo ChatConfigRepository, sheets SheetsClient, defaults domain.ChatConfig) *configSyncService {
	return &configSyncService{repo: repo, sheets: sheets, defaults: defaults}
}

// SetSetting persists a single key for the chat and mirrors the resulting
// effective config to the spreadsheet.
func (s *configSyncService) SetSetting(ctx context.Context, chatID int64, key string, value any) (domain.SyncState, error) {
	if err := s.repo.SetSetting(ctx, chatID, key, value); err != nil {
		return domain.SyncNotConfigured, fmt.Errorf("saving %q for chat %d: %w", key, chatID, err)
	}
	return s.mirror(ctx, chatID), nil
}

// PushConfig overwrites the chat's stored overrides and mirrors the result.
func (s *configSyncService) PushConfig(ctx context.Context, chatID int64, cfg domain.ChatConfig) (domain.SyncState, error) {
	if err := s.repo.Update(ctx, chatID, cfg); err != nil {
		return domain.SyncNotConfigured, fmt.Errorf("updating config for chat %d: %w", chatID, err)
	}
	return s.mirror(ctx, chatID), nil
}

// mirror writes the chat's effective config to its settings sheet and
// records the outcome in gsheet_sync_conflict. A chat without a sheet URL
// is left untouched. Failing to record the flag itself is only logged;
// the sync outcome still stands.
func (s *configSyncService) mirror(ctx context.Context, chatID int64) domain.SyncState {
	cfg := s.repo.Get(ctx, chatID)

	url := cfg.GetString(domain.GSheetURLKey)
	if url == "" {
		return domain.SyncNotConfigured
	}

	sheetName := cfg.GetString(domain.SettingsSheetNameKey)
	if sheetName == "" {
		slog.Warn("settings sheet name is empty, marking sync conflict", "chatID", chatID)
		s.setConflict(ctx, chatID, true)
		return domain.SyncConflict
	}

	if err := s.sheets.WriteSettings(ctx, url, sheetName, cfg, s.defaults); err != nil {
		slog.Error("failed to mirror settings to sheet", "chatID", chatID, logger.Err(err))
		s.setConflict(ctx, chatID, true)
		return domain.SyncConflict
	}

	s.setConflict(ctx, chatID, false)
	return domain.SyncOK
}

func (s *configSyncService) setConflict(ctx context.Context, chatID int64, conflict bool) {
	if err := s.repo.SetSetting(ctx, chatID, domain.SyncConflictKey, conflict); err != nil {
		slog.Error("failed to record sync conflict flag", "chatID", chatID, "conflict", conflict, logger.Err(err))
	}
}

// RefreshResult reports which halves of a manual pull from the spreadsheet
// succeeded.
type RefreshResult struct {
	FAQsOK       bool
	FAQCount     int
	SettingsOK   bool
	SettingsRead int
}

// Refresh pulls FAQs and settings from the chat's spreadsheet into the
// local store. A failed FAQ read clears the local FAQ list so that stale
// answers are never served; a failed settings read sets the conflict flag.
// A fully successful pull clears it.
func (s *configSyncService) Refresh(ctx context.Context, chatID int64) (RefreshResult, error) {
	cfg := s.repo.Get(ctx, chatID)

	url := cfg.GetString(domain.GSheetURLKey)
	if url == "" {
		return RefreshResult{}, ErrSheetNotConfigured
	}

	var res RefreshResult
	var merr error

	faqs, err := s.sheets.ReadFAQs(ctx, url, cfg.GetString(domain.FAQSheetNameKey))
	if err != nil {
		slog.Error("failed to read FAQs from sheet", "chatID", chatID, logger.Err(err))
		cfg.SetFAQs(nil)
	} else {
		res.FAQsOK = true
		res.FAQCount = len(faqs)
		cfg.SetFAQs(faqs)
	}

	remote, err := s.sheets.ReadSettings(ctx, url, cfg.GetString(domain.SettingsSheetNameKey))
	if err != nil {
		slog.Error("failed to read settings from sheet", "chatID", chatID, logger.Err(err))
		cfg[domain.SyncConflictKey] = true
	} else {
		res.SettingsOK = true
		res.SettingsRead = len(remote)
		for k, v := range remote {
			cfg[k] = v
		}
		// Remote values win, but the FAQ list refreshed above and the
		// freshly computed conflict flag must not be clobbered by a
		// stale sheet copy.
		cfg.SetFAQs(faqs)
		cfg[domain.SyncConflictKey] = false
	}

	if err := s.repo.Update(ctx, chatID, cfg); err != nil {
		merr = multierror.Append(merr, fmt.Errorf("saving refreshed config for chat %d: %w", chatID, err))
	}

	return res, merr
}

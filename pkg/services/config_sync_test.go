package services

import (
	"context"
	"errors"
	"testing"

	"github.com/nggurbanov/curator-helper/pkg/domain"
)

type fakeConfigRepo struct {
	configs map[int64]domain.ChatConfig
	failSet bool
}

func newFakeConfigRepo() *fakeConfigRepo {
	return &fakeConfigRepo{configs: map[int64]domain.ChatConfig{}}
}

func (r *fakeConfigRepo) Get(_ context.Context, chatID int64) domain.ChatConfig {
	return r.configs[chatID].Clone()
}

func (r *fakeConfigRepo) Update(_ context.Context, chatID int64, cfg domain.ChatConfig) error {
	r.configs[chatID] = cfg.Clone()
	return nil
}

func (r *fakeConfigRepo) SetSetting(_ context.Context, chatID int64, key string, value any) error {
	if r.failSet {
		return errors.New("store unavailable")
	}
	cfg := r.configs[chatID]
	if cfg == nil {
		cfg = domain.ChatConfig{}
		r.configs[chatID] = cfg
	}
	cfg[key] = value
	return nil
}

type fakeSheets struct {
	settings      domain.ChatConfig
	readSettErr   error
	faqs          []domain.FAQ
	readFAQsErr   error
	writeErr      error
	writeCalls    int
	lastSheetName string
}

func (s *fakeSheets) ReadSettings(_ context.Context, _, _ string) (domain.ChatConfig, error) {
	return s.settings, s.readSettErr
}

func (s *fakeSheets) WriteSettings(_ context.Context, _, sheetName string, _, _ domain.ChatConfig) error {
	s.writeCalls++
	s.lastSheetName = sheetName
	return s.writeErr
}

func (s *fakeSheets) ReadFAQs(_ context.Context, _, _ string) ([]domain.FAQ, error) {
	return s.faqs, s.readFAQsErr
}

func TestSetSettingWithoutSheetLeavesConflictAlone(t *testing.T) {
	repo := newFakeConfigRepo()
	sheets := &fakeSheets{}
	svc := NewConfigSyncService(repo, sheets, domain.ChatConfig{})

	state, err := svc.SetSetting(context.Background(), 1, domain.WelcomeMessageKey, "привет")
	if err != nil {
		t.Fatalf("SetSetting: %v", err)
	}
	if state != domain.SyncNotConfigured {
		t.Errorf("expected SyncNotConfigured, got %v", state)
	}
	if sheets.writeCalls != 0 {
		t.Errorf("sheet written %d times for unconfigured chat", sheets.writeCalls)
	}
	if _, ok := repo.configs[1][domain.SyncConflictKey]; ok {
		t.Error("conflict flag written for unconfigured chat")
	}
}

func TestSetSettingMirrorsAndClearsConflict(t *testing.T) {
	repo := newFakeConfigRepo()
	repo.configs[1] = domain.ChatConfig{
		domain.GSheetURLKey:         "https://docs.google.com/spreadsheets/d/abc",
		domain.SettingsSheetNameKey: "BotSettings",
		domain.SyncConflictKey:      true,
	}
	sheets := &fakeSheets{}
	svc := NewConfigSyncService(repo, sheets, domain.ChatConfig{})

	state, err := svc.SetSetting(context.Background(), 1, domain.WelcomeMessageKey, "привет")
	if err != nil {
		t.Fatalf("SetSetting: %v", err)
	}
	if state != domain.SyncOK {
		t.Errorf("expected SyncOK, got %v", state)
	}
	if sheets.writeCalls != 1 {
		t.Errorf("expected one sheet write, got %d", sheets.writeCalls)
	}
	if sheets.lastSheetName != "BotSettings" {
		t.Errorf("wrote to sheet %q", sheets.lastSheetName)
	}
	if repo.configs[1].GetBool(domain.SyncConflictKey) {
		t.Error("conflict flag not cleared after successful mirror")
	}
}

func TestSetSettingMirrorFailureSetsConflict(t *testing.T) {
	repo := newFakeConfigRepo()
	repo.configs[1] = domain.ChatConfig{
		domain.GSheetURLKey:         "https://docs.google.com/spreadsheets/d/abc",
		domain.SettingsSheetNameKey: "BotSettings",
	}
	sheets := &fakeSheets{writeErr: errors.New("quota exceeded")}
	svc := NewConfigSyncService(repo, sheets, domain.ChatConfig{})

	state, err := svc.SetSetting(context.Background(), 1, domain.WelcomeMessageKey, "привет")
	if err != nil {
		t.Fatalf("SetSetting: %v", err)
	}
	if state != domain.SyncConflict {
		t.Errorf("expected SyncConflict, got %v", state)
	}
	if !repo.configs[1].GetBool(domain.SyncConflictKey) {
		t.Error("conflict flag not set after failed mirror")
	}
	if got := repo.configs[1].GetString(domain.WelcomeMessageKey); got != "привет" {
		t.Errorf("local value lost after failed mirror: %q", got)
	}
}

func TestSetSettingMissingSheetNameIsConflict(t *testing.T) {
	repo := newFakeConfigRepo()
	repo.configs[1] = domain.ChatConfig{
		domain.GSheetURLKey: "https://docs.google.com/spreadsheets/d/abc",
	}
	sheets := &fakeSheets{}
	svc := NewConfigSyncService(repo, sheets, domain.ChatConfig{})

	state, err := svc.SetSetting(context.Background(), 1, domain.WelcomeMessageKey, "привет")
	if err != nil {
		t.Fatalf("SetSetting: %v", err)
	}
	if state != domain.SyncConflict {
		t.Errorf("expected SyncConflict, got %v", state)
	}
	if sheets.writeCalls != 0 {
		t.Error("attempted to write without a sheet name")
	}
	if !repo.configs[1].GetBool(domain.SyncConflictKey) {
		t.Error("conflict flag not set")
	}
}

func TestSetSettingStoreFailure(t *testing.T) {
	repo := newFakeConfigRepo()
	repo.failSet = true
	svc := NewConfigSyncService(repo, &fakeSheets{}, domain.ChatConfig{})

	if _, err := svc.SetSetting(context.Background(), 1, domain.WelcomeMessageKey, "привет"); err == nil {
		t.Error("expected error when the store rejects the write")
	}
}

func TestPushConfigOverwritesAndMirrors(t *testing.T) {
	repo := newFakeConfigRepo()
	repo.configs[1] = domain.ChatConfig{domain.WelcomeMessageKey: "старое"}
	sheets := &fakeSheets{}
	svc := NewConfigSyncService(repo, sheets, domain.ChatConfig{})

	state, err := svc.PushConfig(context.Background(), 1, domain.ChatConfig{
		domain.GSheetURLKey:         "https://docs.google.com/spreadsheets/d/abc",
		domain.SettingsSheetNameKey: "BotSettings",
	})
	if err != nil {
		t.Fatalf("PushConfig: %v", err)
	}
	if state != domain.SyncOK {
		t.Errorf("expected SyncOK, got %v", state)
	}
	if _, ok := repo.configs[1][domain.WelcomeMessageKey]; ok {
		t.Error("old override survived a full overwrite")
	}
	if sheets.writeCalls != 1 {
		t.Errorf("expected one sheet write, got %d", sheets.writeCalls)
	}
}

func TestRefreshWithoutSheet(t *testing.T) {
	svc := NewConfigSyncService(newFakeConfigRepo(), &fakeSheets{}, domain.ChatConfig{})

	_, err := svc.Refresh(context.Background(), 1)
	if !errors.Is(err, ErrSheetNotConfigured) {
		t.Errorf("expected ErrSheetNotConfigured, got %v", err)
	}
}

func TestRefreshSuccess(t *testing.T) {
	repo := newFakeConfigRepo()
	repo.configs[1] = domain.ChatConfig{
		domain.GSheetURLKey:    "https://docs.google.com/spreadsheets/d/abc",
		domain.SyncConflictKey: true,
	}
	sheets := &fakeSheets{
		faqs:     []domain.FAQ{{Question: "Когда дедлайн?", Answer: "В пятницу."}},
		settings: domain.ChatConfig{domain.WelcomeMessageKey: "с листа"},
	}
	svc := NewConfigSyncService(repo, sheets, domain.ChatConfig{})

	res, err := svc.Refresh(context.Background(), 1)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if !res.FAQsOK || res.FAQCount != 1 {
		t.Errorf("FAQ result = %+v", res)
	}
	if !res.SettingsOK || res.SettingsRead != 1 {
		t.Errorf("settings result = %+v", res)
	}

	cfg := repo.configs[1]
	if got := cfg.GetString(domain.WelcomeMessageKey); got != "с листа" {
		t.Errorf("remote setting not applied: %q", got)
	}
	if cfg.GetBool(domain.SyncConflictKey) {
		t.Error("conflict flag not cleared after full refresh")
	}
	if faqs := cfg.FAQs(); len(faqs) != 1 || faqs[0].Answer != "В пятницу." {
		t.Errorf("FAQs not stored: %+v", faqs)
	}
}

func TestRefreshFAQFailureClearsLocalList(t *testing.T) {
	repo := newFakeConfigRepo()
	repo.configs[1] = domain.ChatConfig{
		domain.GSheetURLKey: "https://docs.google.com/spreadsheets/d/abc",
	}
	repo.configs[1].SetFAQs([]domain.FAQ{{Question: "старый", Answer: "ответ"}})
	sheets := &fakeSheets{readFAQsErr: errors.New("worksheet not found")}
	svc := NewConfigSyncService(repo, sheets, domain.ChatConfig{})

	res, err := svc.Refresh(context.Background(), 1)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if res.FAQsOK {
		t.Error("FAQsOK should be false")
	}
	if faqs := repo.configs[1].FAQs(); len(faqs) != 0 {
		t.Errorf("stale FAQs kept after failed read: %+v", faqs)
	}
}

func TestRefreshSettingsFailureSetsConflict(t *testing.T) {
	repo := newFakeConfigRepo()
	repo.configs[1] = domain.ChatConfig{
		domain.GSheetURLKey: "https://docs.google.com/spreadsheets/d/abc",
	}
	sheets := &fakeSheets{readSettErr: errors.New("permission denied")}
	svc := NewConfigSyncService(repo, sheets, domain.ChatConfig{})

	res, err := svc.Refresh(context.Background(), 1)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if res.SettingsOK {
		t.Error("SettingsOK should be false")
	}
	if !repo.configs[1].GetBool(domain.SyncConflictKey) {
		t.Error("conflict flag not set after failed settings read")
	}
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"

	"github.com/nggurbanov/curator-helper/pkg/auth"
	"github.com/nggurbanov/curator-helper/pkg/database"
	"github.com/nggurbanov/curator-helper/pkg/digitalocean"
	"github.com/nggurbanov/curator-helper/pkg/domain"
	"github.com/nggurbanov/curator-helper/pkg/gsheets"
	"github.com/nggurbanov/curator-helper/pkg/logger"
	"github.com/nggurbanov/curator-helper/pkg/openai"
	"github.com/nggurbanov/curator-helper/pkg/repository"
	"github.com/nggurbanov/curator-helper/pkg/services"
	"github.com/nggurbanov/curator-helper/pkg/telegram"
	"github.com/nggurbanov/curator-helper/pkg/telegram/handler"
	"github.com/nggurbanov/curator-helper/pkg/workers"
)

type Config struct {
	TelegramBotToken        string `env:"BOT_TOKEN,required"`
	OpenAIAPIKey            string `env:"OPENAI_API_KEY,required"`
	OpenAIBaseURL           string `env:"OPENAI_API_BASE_URL"`
	SearchModelName         string `env:"SEARCH_MODEL_NAME" envDefault:"gpt-4o-mini"`
	AnswerModelName         string `env:"ANSWER_MODEL_NAME" envDefault:"gpt-4o-mini"`
	BossID                  int64  `env:"BOSS_ID"`
	StoreFilePath           string `env:"STORE_FILE_PATH" envDefault:"data/chat_store.db"`
	DefaultSettingsFilePath string `env:"DEFAULT_SETTINGS_FILE_PATH" envDefault:"data/default_settings.json"`
	PromptsDirPath          string `env:"PROMPTS_DIR_PATH" envDefault:"data/prompts"`
	GSpreadKeyFilePath      string `env:"GSPREAD_KEY_FILE_PATH" envDefault:"gspread_key.json"`
	DigitalOceanToken       string `env:"DO_TOKEN"`
	MaxMentionsPerChat      int    `env:"MAX_MENTIONS_PER_CHAT" envDefault:"10"`
	UpdateListenerPoolSize  int    `env:"UPDATE_LISTENER_POOL_SIZE" envDefault:"10"`
}

func main() {
	slog.SetDefault(slog.New(logger.NewHandler(os.Stderr, logger.DefaultOptions)))

	if err := runMain(); err != nil {
		slog.Error("shutting down due to error", logger.Err(err))
		os.Exit(1)
	}
	slog.Info("shutdown complete")
}

func runMain() error {
	ctx, cancelFn := context.WithCancel(context.Background())
	defer cancelFn()

	serviceGroup, err := setupServices(ctx)
	if err != nil {
		return err
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		select {
		case s := <-sigCh:
			slog.Info("shutting down due to signal", "signal", s.String())
			cancelFn()
		case <-ctx.Done():
		}
	}()

	return serviceGroup.Run(ctx)
}

func setupServices(ctx context.Context) (services.Group, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", logger.Err(err))
	}

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parsing env config: %w", err)
	}

	telegramClient, err := telegram.NewClient(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("creating telegram client: %w", err)
	}

	db, err := database.NewSQLite(cfg.StoreFilePath)
	if err != nil {
		return nil, fmt.Errorf("creating store db: %w", err)
	}

	defaults := repository.LoadDefaultSettings(cfg.DefaultSettingsFilePath)

	store := repository.NewStore(db)
	configRepository := repository.NewChatConfigRepository(store, defaults)
	linkRepository := repository.NewUserGroupLinkRepository(store)
	sessionRepository := repository.NewSessionRepository()

	sheetsClient, err := gsheets.NewClient(ctx, cfg.GSpreadKeyFilePath)
	if err != nil {
		return nil, fmt.Errorf("creating google sheets client: %w", err)
	}

	prompts := openai.NewPromptStore(cfg.PromptsDirPath)

	openAIClient, err := openai.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.SearchModelName, cfg.AnswerModelName, prompts)
	if err != nil {
		return nil, fmt.Errorf("creating open ai client: %w", err)
	}

	authenticator := auth.NewAuthenticator(cfg.BossID)
	balanceClient := digitalocean.NewClient(cfg.DigitalOceanToken)

	configSyncer := services.NewConfigSyncService(configRepository, sheetsClient, defaults)
	faqService := services.NewFAQService(openAIClient)

	outCh := make(chan domain.Message)

	serviceAccountEmail := sheetsClient.ServiceAccountEmail()

	registry := telegram.NewRegistry(
		handler.NewStart(telegramClient, configRepository, sessionRepository, serviceAccountEmail, outCh),
		handler.NewHelp(outCh),
		handler.NewSetFAQSheet(telegramClient, configRepository, serviceAccountEmail, outCh),
		handler.NewSetTextSetting(telegramClient, configRepository, configSyncer,
			"seterror", domain.NonAdminErrorKey, "Сообщение об отказе", 10, outCh),
		handler.NewSetTextSetting(telegramClient, configRepository, configSyncer,
			"setpersonalityprompt", domain.PersonalityPromptKey, "Описание характера", 20, outCh),
		handler.NewSetTextSetting(telegramClient, configRepository, configSyncer,
			"setwelcomemessage", domain.WelcomeMessageKey, "Приветственное сообщение", 10, outCh),
		handler.NewToggleAnonQuestions(telegramClient, configRepository, configSyncer, outCh),
		handler.NewAddMention(telegramClient, configRepository, configSyncer, cfg.MaxMentionsPerChat, outCh),
		handler.NewEditMentions(telegramClient, configRepository, outCh),
		handler.NewDeleteMentionCallback(telegramClient, configRepository, configSyncer, outCh),
		handler.NewShowSettings(configRepository, outCh),
		handler.NewRefresh(telegramClient, configRepository, configSyncer, outCh),
		handler.NewBalance(balanceClient, authenticator, outCh),
		handler.NewSheetURLAwaiting(sessionRepository, configRepository, configSyncer, sheetsClient, serviceAccountEmail, outCh),
		handler.NewLinkGroup(configRepository, linkRepository, outCh),
		handler.NewUserOKCallback(sessionRepository, outCh),
		handler.NewAskAnonCallback(sessionRepository, linkRepository, openAIClient, authenticator, outCh),
		handler.NewWelcome(configRepository, outCh),
		handler.NewChatMessage(telegramClient, configRepository, faqService, openAIClient, sessionRepository, outCh),
	)

	listener := workers.NewTelegramUpdateListener(telegramClient, registry, outCh, cfg.UpdateListenerPoolSize)

	return services.Group{listener}, nil
}

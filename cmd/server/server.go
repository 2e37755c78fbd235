package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"jan-server/services/chat-share/internal/config"
	"jan-server/services/chat-share/internal/domain/conversation"
	"jan-server/services/chat-share/internal/domain/share"
	"jan-server/services/chat-share/internal/infrastructure"
	"jan-server/services/chat-share/internal/infrastructure/auth"
	"jan-server/services/chat-share/internal/infrastructure/logger"
	"jan-server/services/chat-share/internal/infrastructure/observability"
	"jan-server/services/chat-share/internal/interfaces/httpserver"
	"jan-server/services/chat-share/internal/interfaces/httpserver/handlers"
	"jan-server/services/chat-share/internal/interfaces/httpserver/handlers/chathandler"
	"jan-server/services/chat-share/internal/interfaces/httpserver/handlers/pagehandler"
	"jan-server/services/chat-share/internal/interfaces/httpserver/handlers/sharehandler"
	"jan-server/services/chat-share/internal/interfaces/httpserver/pages"
	"jan-server/services/chat-share/internal/interfaces/httpserver/routes"
)

// @title Chat Share API
// @version 1.0
// @description Stores conversations and publishes them as read-only share links.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

// Application holds the main application components.
type Application struct {
	httpServer *httpserver.HTTPServer
	log        zerolog.Logger
}

// NewApplication creates a new application instance.
func NewApplication(httpServer *httpserver.HTTPServer, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		log:        log,
	}
}

// Start runs the application until ctx is cancelled.
func (a *Application) Start(ctx context.Context) error {
	return a.httpServer.Run(ctx)
}

// ProvideReadiness checks the storage connections.
func ProvideReadiness(storage *infrastructure.Storage) httpserver.ReadinessCheck {
	return storage.Ready
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(fmt.Sprintf("failed to create logger: %v", err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Setup observability
	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("failed to shutdown telemetry")
		}
	}()

	app, cleanup, err := buildApplication(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build application")
	}
	defer cleanup()

	log.Info().
		Str("service", cfg.ServiceName).
		Int("port", cfg.HTTPPort).
		Str("environment", cfg.Environment).
		Str("store", cfg.StoreDriver).
		Msg("starting application")

	if err := app.Start(ctx); err != nil {
		log.Error().Err(err).Msg("application stopped with error")
		return
	}

	log.Info().Msg("application exited cleanly")
}

// buildApplication mirrors CreateApplication in wire.go.
func buildApplication(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Application, func(), error) {
	storage, closeStorage, err := infrastructure.NewStorage(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}

	authValidator, err := auth.NewValidator(ctx, cfg, log)
	if err != nil {
		closeStorage()
		return nil, nil, err
	}
	cleanup := func() {
		authValidator.Close()
		closeStorage()
	}

	store := infrastructure.ProvideConversationStore(storage)
	resolver := conversation.NewResolver(store, log)
	shareService := share.NewShareService(store, log)

	renderer, err := pages.NewRenderer()
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	pageHandler, err := pagehandler.NewPageHandler(resolver, shareService, renderer, cfg, log)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	handlerProvider := handlers.NewProvider(
		chathandler.NewChatHandler(conversation.NewService(store, log), resolver),
		sharehandler.NewShareHandler(shareService),
		pageHandler,
	)
	httpServer := httpserver.New(cfg, log, routes.NewProvider(handlerProvider, authValidator), ProvideReadiness(storage))

	return NewApplication(httpServer, log), cleanup, nil
}

func loadEnvFiles() {
	paths := []string{".env", "../.env", "../../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}

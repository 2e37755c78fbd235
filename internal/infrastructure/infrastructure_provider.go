package infrastructure

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"jan-server/services/chat-share/internal/config"
	"jan-server/services/chat-share/internal/domain/conversation"
	"jan-server/services/chat-share/internal/infrastructure/auth"
	"jan-server/services/chat-share/internal/infrastructure/cache"
	"jan-server/services/chat-share/internal/infrastructure/database"
	"jan-server/services/chat-share/internal/infrastructure/database/repository/conversationrepo"
	"jan-server/services/chat-share/internal/infrastructure/database/transaction"
	"jan-server/services/chat-share/internal/infrastructure/store"
)

// Storage is the conversation store selected by configuration, wrapped in the
// cache tiers when they are enabled.
type Storage struct {
	Store   conversation.Store
	checks  []func(ctx context.Context) error
	closers []func() error
	log     zerolog.Logger
}

// NewStorage builds the configured store, loads the seed file and wraps the
// result in the conversation cache. The returned cleanup closes connections.
func NewStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Storage, func(), error) {
	s := &Storage{log: log.With().Str("component", "storage").Logger()}

	base, err := s.openBase(ctx, cfg, log)
	if err != nil {
		s.Close()
		return nil, nil, err
	}

	if cfg.SeedFile != "" {
		n, err := store.LoadSeed(ctx, base, cfg.SeedFile)
		if err != nil {
			s.Close()
			return nil, nil, err
		}
		s.log.Info().Int("created", n).Str("path", cfg.SeedFile).Msg("seed file loaded")
	}

	s.Store = base
	if cfg.CacheEnabled() {
		var remote redis.UniversalClient
		if cfg.RedisURL != "" {
			remote, err = cache.NewRedisClient(ctx, cfg.RedisURL)
			if err != nil {
				s.Close()
				return nil, nil, err
			}
			s.closers = append(s.closers, remote.Close)
			s.checks = append(s.checks, func(ctx context.Context) error {
				return remote.Ping(ctx).Err()
			})
		}

		cached, err := cache.NewConversationCache(base, cfg.LocalCacheSize, remote, cfg.CacheTTL, log)
		if err != nil {
			s.Close()
			return nil, nil, err
		}
		s.Store = cached
	}

	return s, s.Close, nil
}

func (s *Storage) openBase(ctx context.Context, cfg *config.Config, log zerolog.Logger) (conversation.Store, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverPostgres:
		db, err := database.NewDB(cfg.DatabaseURL, []string{cfg.DBPostgresqlRead1DSN}, cfg.DBMaxIdleConns, cfg.DBMaxOpenConns, log)
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("get sql db: %w", err)
		}
		s.closers = append(s.closers, sqlDB.Close)
		s.checks = append(s.checks, sqlDB.PingContext)

		if cfg.AutoMigrate {
			if err := database.Migrate(db.WithContext(ctx), log); err != nil {
				return nil, err
			}
		}
		return conversationrepo.NewConversationGormRepository(transaction.NewDatabase(db)), nil
	default:
		return store.NewMemoryStore(log), nil
	}
}

// Ready pings every backing connection.
func (s *Storage) Ready(ctx context.Context) error {
	var errs []error
	for _, check := range s.checks {
		if err := check(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close releases every connection opened by NewStorage.
func (s *Storage) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			s.log.Warn().Err(err).Msg("failed to close storage connection")
		}
	}
	s.closers = nil
}

// ProvideConversationStore exposes the configured store.
func ProvideConversationStore(s *Storage) conversation.Store {
	return s.Store
}

// ProvideAuthValidator provides an auth validator.
func ProvideAuthValidator(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*auth.Validator, func(), error) {
	v, err := auth.NewValidator(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}
	return v, v.Close, nil
}

// InfrastructureProvider provides storage and auth.
var InfrastructureProvider = wire.NewSet(
	NewStorage,
	ProvideConversationStore,
	ProvideAuthValidator,
)

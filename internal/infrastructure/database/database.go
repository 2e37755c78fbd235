package database

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
	"gorm.io/plugin/dbresolver"
)

// SchemaName is the postgres schema the service's tables live in.
const SchemaName = "chat_share"

var schemaRegistry []any

// RegisterSchemaForAutoMigrate records models that Migrate creates.
func RegisterSchemaForAutoMigrate(models ...any) {
	schemaRegistry = append(schemaRegistry, models...)
}

// RegisteredSchemas returns the models registered for migration.
func RegisteredSchemas() []any {
	return append([]any(nil), schemaRegistry...)
}

// Config holds database configuration
type Config struct {
	WriteDSN    string
	ReadDSNs    []string
	MaxIdle     int
	MaxOpen     int
	MaxLifetime time.Duration
	LogLevel    gormlogger.LogLevel
}

// Connect opens the primary connection and registers read replicas, if any.
func Connect(cfg Config, log zerolog.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.WriteDSN), &gorm.Config{
		NamingStrategy: schema.NamingStrategy{
			TablePrefix: SchemaName + ".",
		},
		Logger: gormlogger.Default.LogMode(cfg.LogLevel),
	})
	if err != nil {
		log.Error().
			Str("error_code", "db-connect-001").
			Err(err).
			Msg("unable to connect to database")
		return nil, err
	}

	if len(cfg.ReadDSNs) > 0 {
		replicas := make([]gorm.Dialector, 0, len(cfg.ReadDSNs))
		for _, dsn := range cfg.ReadDSNs {
			replicas = append(replicas, postgres.Open(dsn))
		}
		resolver := dbresolver.Register(dbresolver.Config{
			Replicas: replicas,
			Policy:   dbresolver.RandomPolicy{},
		}).
			SetMaxIdleConns(cfg.MaxIdle).
			SetMaxOpenConns(cfg.MaxOpen).
			SetConnMaxLifetime(cfg.MaxLifetime)
		if err := db.Use(resolver); err != nil {
			return nil, fmt.Errorf("register read replicas: %w", err)
		}
		log.Info().Int("replicas", len(replicas)).Msg("read replicas registered")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdle)
	sqlDB.SetMaxOpenConns(cfg.MaxOpen)
	sqlDB.SetConnMaxLifetime(cfg.MaxLifetime)

	log.Info().Msg("Successfully connected to database")
	return db, nil
}

// NewDB connects with the default pool settings.
func NewDB(writeDSN string, readDSNs []string, maxIdle, maxOpen int, log zerolog.Logger) (*gorm.DB, error) {
	var replicas []string
	for _, dsn := range readDSNs {
		if dsn != "" {
			replicas = append(replicas, dsn)
		}
	}
	return Connect(Config{
		WriteDSN:    writeDSN,
		ReadDSNs:    replicas,
		MaxIdle:     maxIdle,
		MaxOpen:     maxOpen,
		MaxLifetime: time.Hour,
		LogLevel:    gormlogger.Silent,
	}, log)
}

// Migrate creates the service schema and auto-migrates every registered model.
func Migrate(db *gorm.DB, log zerolog.Logger) error {
	if err := db.Exec(fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s;", SchemaName)).Error; err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	for _, model := range schemaRegistry {
		if err := db.AutoMigrate(model); err != nil {
			log.Error().
				Str("error_code", "db-migrate-001").
				Err(err).
				Msgf("failed to auto migrate schema: %T", model)
			return err
		}
	}
	log.Info().Int("models", len(schemaRegistry)).Msg("database schema migrated")
	return nil
}

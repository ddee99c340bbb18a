package main

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/johnquangdev/meeting-coach/internal/adapter/repository"
	"github.com/johnquangdev/meeting-coach/internal/domain/repositories"
	"github.com/johnquangdev/meeting-coach/internal/infrastructure/cache"
	"github.com/johnquangdev/meeting-coach/internal/infrastructure/database"
	"github.com/johnquangdev/meeting-coach/internal/infrastructure/storage"
	"github.com/johnquangdev/meeting-coach/pkg/config"
)

// newLogger builds the process logger for the configured environment
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.Server.Environment == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// persistence owns the meeting repository and whatever backs it
type persistence struct {
	repo  repositories.MeetingRepository
	db    *gorm.DB
	store *cache.MemoryStore
}

func (p *persistence) Close() {
	if p.db != nil {
		if err := database.CloseDB(p.db); err != nil {
			log.Printf("⚠️  Failed to close database: %v", err)
		}
	}
	if p.store != nil {
		p.store.Close()
	}
}

// openPersistence selects the meeting repository.
// An unreachable database degrades to a store whose calls fail with ErrStoreUnavailable.
func openPersistence(ctx context.Context, cfg *config.Config, logger *zap.Logger) *persistence {
	p := &persistence{}

	switch strings.ToLower(cfg.Persistence.Backend) {
	case "memory":
		log.Println("📦 Using in-memory meeting store...")
		p.store = cache.NewMemoryStore(time.Minute)
		p.repo = repository.NewMemoryMeetingRepository(p.store, 0)
	default:
		log.Println("📦 Connecting to database...")
		db, err := database.NewPostgresDB(cfg)
		if err != nil {
			logger.Warn("⚠️ Database unavailable, meeting history disabled", zap.Error(err))
			p.repo = repository.NewUnavailableMeetingRepository()
			break
		}
		p.db = db

		if cfg.Database.AutoMigrate {
			if cfg.IsProduction() {
				logger.Warn("⚠️ DB_AUTO_MIGRATE ignored in production; run the migrate command")
			} else {
				if err := database.AutoMigrate(db); err != nil {
					logger.Warn("⚠️ Failed to apply migrations", zap.Error(err))
				}
			}
		}
		p.repo = repository.NewMeetingRepository(db)
	}

	if cfg.Storage.Enabled {
		log.Println("🗄️  Connecting to object storage...")
		client, err := storage.NewMinIOClient(ctx, &cfg.Storage)
		if err != nil {
			logger.Warn("⚠️ Object storage unavailable, summaries will not be archived", zap.Error(err))
		} else {
			p.repo = repository.NewArchivingMeetingRepository(p.repo, client, logger)
			log.Printf("✅ Archiving summaries to bucket %s", cfg.Storage.BucketName)
		}
	}

	return p
}

// openDatabase connects to postgres for commands that cannot run without it
func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

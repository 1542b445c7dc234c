// Package repository persists the tracked player's streak record.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/okian/onbase/internal/config"
	"github.com/okian/onbase/internal/domain/model"
	"github.com/okian/onbase/pkg/logger"
	"github.com/okian/onbase/pkg/metrics"
)

// Store loads and saves the single streak record of one tracked player.
// Records cross the boundary by value; callers thread them explicitly.
type Store interface {
	// Load returns the persisted record.
	// Returns ErrNotFound when nothing has been written yet and ErrCorrupt
	// when the stored document cannot be decoded.
	Load(ctx context.Context) (model.StreakRecord, error)

	// Save replaces the persisted record as a whole.
	// Failures wrap ErrWriteFailed.
	Save(ctx context.Context, record model.StreakRecord) error

	// Close releases backend resources.
	Close() error
}

// Open builds the backend selected by cfg for the given player.
func Open(ctx context.Context, cfg config.StoreConfig, playerID int, opts ...Option) (Store, error) {
	switch cfg.Backend {
	case config.BackendFile, "":
		return NewFileStore(cfg.Path, opts...), nil
	case config.BackendSQLite:
		return NewSQLiteStore(cfg.SQLitePath, playerID)
	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		s, err := NewRedisStore(ctx, client, fmt.Sprintf("%s:%d", cfg.RedisKey, playerID))
		if err != nil {
			_ = client.Close()
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}

// LoadOrDefault loads the record, falling back to model.DefaultRecord when
// nothing is stored or the stored document is corrupt. Any other failure is
// returned.
func LoadOrDefault(ctx context.Context, s Store, log logger.Logger) (model.StreakRecord, error) {
	rec, err := s.Load(ctx)
	switch {
	case err == nil:
		return rec, nil
	case errors.Is(err, ErrNotFound):
		log.Debug(ctx, "no stored streak record, starting from default")
		return model.DefaultRecord(), nil
	case errors.Is(err, ErrCorrupt):
		log.Warn(ctx, "stored streak record is corrupt, starting from default", logger.Error(err))
		return model.DefaultRecord(), nil
	default:
		return model.StreakRecord{}, err
	}
}

// observe reports one store call to metrics.
func observe(backend, op string, start time.Time, err error) {
	result := "ok"
	switch {
	case err == nil:
	case errors.Is(err, ErrNotFound):
		result = "not_found"
	case errors.Is(err, ErrCorrupt):
		result = "corrupt"
	default:
		result = "error"
	}
	metrics.RecordStoreOperation(backend, op, result, time.Since(start).Seconds())
}

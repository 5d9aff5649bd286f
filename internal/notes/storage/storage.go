// Package storage собирает репозиторий заметок по конфигурации:
// файл или Postgres, кэш Redis и наблюдение за файлом.
package storage

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"gonotes/internal/notes/adapters/cache"
	"gonotes/internal/notes/adapters/file"
	pgadapter "gonotes/internal/notes/adapters/postgres"
	"gonotes/internal/notes/config"
	"gonotes/internal/notes/ports/repositories"
	"gonotes/internal/notes/resilience"
	"gonotes/pkg/db/postgres"
	"gonotes/pkg/logger"
)

// Константы для логирования.
const (
	LogUsingFileStorage     = "using file storage"
	LogUsingPostgresStorage = "using postgres storage"
	LogCacheEnabled         = "redis cache enabled"
	LogCacheDisabled        = "redis unavailable, continuing without cache"

	ErrConnectPostgres = "failed to connect to postgres"
	ErrApplyMigrations = "failed to apply migrations"
	ErrStartWatcher    = "failed to start file watcher"
)

// ErrUnknownDriver возвращается для неизвестного драйвера хранилища.
var ErrUnknownDriver = errors.New("unknown storage driver")

// Options управляет необязательными частями хранилища.
type Options struct {
	// Cache подключает Redis, если он включен в конфигурации.
	Cache bool
	// Watch запускает наблюдение за файлом для сброса кэша.
	Watch bool
	// Retry - настройки повторного подключения к Postgres и Redis.
	Retry resilience.RetryConfig
}

// DefaultOptions - опции для HTTP сервиса.
func DefaultOptions() Options {
	return Options{
		Cache: true,
		Watch: true,
		Retry: resilience.DefaultRetryConfig(),
	}
}

// Storage - собранный репозиторий и ресурсы, которые нужно освободить.
type Storage struct {
	Repository repositories.NoteRepository

	closers []func(context.Context) error
}

// Open создает репозиторий по конфигурации.
func Open(ctx context.Context, cfg *config.Config, opts Options) (*Storage, error) {
	s := &Storage{}

	repo, err := s.openBase(ctx, cfg, opts)
	if err != nil {
		_ = s.Close(ctx)
		return nil, err
	}

	if opts.Cache && cfg.Redis.Enabled {
		repo, err = s.withCache(ctx, cfg, opts, repo)
		if err != nil {
			_ = s.Close(ctx)
			return nil, err
		}
	}

	s.Repository = repo
	return s, nil
}

// Close освобождает ресурсы в порядке, обратном созданию.
func (s *Storage) Close(ctx context.Context) error {
	var errs []error
	for _, closeFn := range slices.Backward(s.closers) {
		if err := closeFn(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}

func (s *Storage) openBase(ctx context.Context, cfg *config.Config, opts Options) (repositories.NoteRepository, error) {
	log := logger.Log(ctx)

	switch cfg.Storage.Driver {
	case config.DriverFile, "":
		repo := file.NewNoteRepository(cfg.Storage.FilePath)
		log.Info(ctx, LogUsingFileStorage, zap.String("path", repo.Path()))
		return repo, nil

	case config.DriverPostgres:
		log.Info(ctx, LogUsingPostgresStorage, zap.String("collection", cfg.Storage.CollectionName))

		retryCfg := opts.Retry
		retryCfg.ShouldRetry = postgres.Retryable
		database, err := postgres.New(ctx, postgres.Config{
			DSN:         cfg.Postgres.GetDSN(),
			MinConn:     cfg.Postgres.MinConn,
			MaxConn:     cfg.Postgres.MaxConn,
			PingTimeout: cfg.Postgres.ConnectTimeout,
		}, resilience.NewRetry("postgres", retryCfg).Execute)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrConnectPostgres, err)
		}
		s.closers = append(s.closers, func(ctx context.Context) error {
			database.Close(ctx)
			return nil
		})

		source, err := postgres.MigrationsSource(cfg.Storage.MigrationsPath)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrApplyMigrations, err)
		}
		if err := postgres.MigrateDSN(ctx, cfg.Postgres.GetConnectionURL(), source); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrApplyMigrations, err)
		}

		return pgadapter.NewNoteRepository(database.Pool(), cfg.Storage.CollectionName), nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Storage.Driver)
	}
}

// withCache оборачивает репозиторий кэшем. Недоступный Redis не мешает
// запуску: сервис работает напрямую с хранилищем.
func (s *Storage) withCache(
	ctx context.Context,
	cfg *config.Config,
	opts Options,
	repo repositories.NoteRepository,
) (repositories.NoteRepository, error) {
	log := logger.Log(ctx)

	var redisCache *cache.RedisCache
	err := resilience.NewRetry("redis", opts.Retry).Execute(ctx, func(ctx context.Context) error {
		var err error
		redisCache, err = cache.NewRedisCache(ctx, &cfg.Redis)
		return err
	})
	if err != nil {
		log.Warn(ctx, LogCacheDisabled, zap.Error(err))
		return repo, nil
	}
	s.closers = append(s.closers, func(context.Context) error {
		return redisCache.Close()
	})

	cached := cache.NewNoteRepository(
		repo,
		redisCache,
		resilience.NewCircuitBreaker("redis", resilience.DefaultCircuitBreakerConfig()),
		CacheKey(cfg),
		cfg.Redis.DefaultTTL,
	)
	log.Info(ctx, LogCacheEnabled, zap.String("address", cfg.Redis.GetAddressString()))

	if opts.Watch && cfg.Storage.WatchFile && (cfg.Storage.Driver == config.DriverFile || cfg.Storage.Driver == "") {
		watcher := file.NewWatcher(cfg.Storage.FilePath, cached.Invalidate)
		if err := watcher.Start(context.WithoutCancel(ctx)); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrStartWatcher, err)
		}
		s.closers = append(s.closers, watcher.Close)
	}

	return cached, nil
}

// CacheKey возвращает ключ снимка коллекции в Redis.
func CacheKey(cfg *config.Config) string {
	if cfg.Storage.Driver == config.DriverPostgres {
		return cfg.Redis.KeyPrefix + ":pg:" + cfg.Storage.CollectionName
	}
	return cfg.Redis.KeyPrefix + ":file:" + cfg.Storage.FilePath
}

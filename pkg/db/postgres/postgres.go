// Package postgres предоставляет пул соединений с Postgres и применение миграций.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"gonotes/pkg/logger"
)

// Константы для сообщений logger.
const (
	LogConnecting        = "connecting to Postgres"
	LogConnectAttempt    = "Postgres is not reachable yet"
	LogConnected         = "connected to Postgres"
	LogClosing           = "closing Postgres connection pool"
	LogMigrationsApplied = "database migrations successfully applied"
)

// Константы для сообщений об ошибках.
const (
	ErrParseConfig  = "failed to parse connection config"
	ErrCreatePool   = "failed to create connection pool"
	ErrPingDatabase = "failed to ping database"
)

// Классы SQLSTATE, после которых повторное подключение бессмысленно.
const (
	sqlStateClassAuth       = "28" // invalid authorization specification
	sqlStateClassNoDatabase = "3D" // invalid catalog name
)

// Config описывает пул соединений.
type Config struct {
	DSN     string
	MinConn int
	MaxConn int
	// PingTimeout ограничивает одну попытку подключения.
	PingTimeout time.Duration
}

// RetryFunc повторяет operation по своей политике. Подходит
// resilience.Retry.Execute.
type RetryFunc func(ctx context.Context, operation func(ctx context.Context) error) error

// Database представляет соединение с Postgres.
type Database struct {
	pool *pgxpool.Pool
}

// New разбирает конфигурацию один раз и открывает пул, проверяя его ping.
// Открытие с проверкой повторяется через retry; nil означает одну попытку.
// Ошибки разбора DSN не повторяются.
func New(ctx context.Context, cfg Config, retry RetryFunc) (*Database, error) {
	log := logger.Log(ctx)

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		log.Error(ctx, ErrParseConfig, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrParseConfig, err)
	}
	poolCfg.MinConns = int32(cfg.MinConn)
	poolCfg.MaxConns = int32(cfg.MaxConn)

	log.Info(ctx, LogConnecting,
		zap.String("host", poolCfg.ConnConfig.Host),
		zap.String("database", poolCfg.ConnConfig.Database),
		zap.Int("min_conn", cfg.MinConn),
		zap.Int("max_conn", cfg.MaxConn))

	if retry == nil {
		retry = func(ctx context.Context, operation func(ctx context.Context) error) error {
			return operation(ctx)
		}
	}

	var pool *pgxpool.Pool
	err = retry(ctx, func(ctx context.Context) error {
		p, err := open(ctx, poolCfg, cfg.PingTimeout)
		if err != nil {
			log.Warn(ctx, LogConnectAttempt, zap.Error(err))
			return err
		}
		pool = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info(ctx, LogConnected)
	return &Database{pool: pool}, nil
}

func open(ctx context.Context, poolCfg *pgxpool.Config, pingTimeout time.Duration) (*pgxpool.Pool, error) {
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg.Copy())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrCreatePool, err)
	}

	pingCtx := ctx
	if pingTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, pingTimeout)
		defer cancel()
	}

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%s: %w", ErrPingDatabase, err)
	}
	return pool, nil
}

// Retryable сообщает, имеет ли смысл повторить подключение после err.
// Отказ в авторизации и отсутствующая база не исправятся сами,
// как и отмена контекста.
func Retryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && len(pgErr.Code) >= 2 {
		switch pgErr.Code[:2] {
		case sqlStateClassAuth, sqlStateClassNoDatabase:
			return false
		}
	}
	return true
}

// Pool возвращает пул соединений.
func (db *Database) Pool() *pgxpool.Pool {
	return db.pool
}

// Close закрывает пул соединений.
func (db *Database) Close(ctx context.Context) {
	logger.Log(ctx).Info(ctx, LogClosing)
	db.pool.Close()
}

package cache_test

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gonotes/internal/notes/adapters/cache"
	"gonotes/internal/notes/config"
	"gonotes/internal/notes/domain/entities"
	"gonotes/internal/notes/resilience"
)

const key = "notes:default"

func mockRedisServer(t *testing.T) *miniredis.Miniredis {
	t.Helper()

	s, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(s.Close)

	return s
}

func redisConfig(t *testing.T, addr string) *config.RedisConfig {
	t.Helper()

	host, portStr, _ := strings.Cut(addr, ":")
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	return &config.RedisConfig{
		Host:            host,
		Port:            port,
		ConnectTimeout:  time.Second,
		ReadTimeout:     time.Second,
		WriteTimeout:    time.Second,
		PoolSize:        5,
		MinIdle:         1,
		IdleTimeout:     30 * time.Second,
		MaxConnLifetime: 5 * time.Minute,
		DefaultTTL:      10 * time.Minute,
	}
}

func newRedisCache(t *testing.T, s *miniredis.Miniredis) *cache.RedisCache {
	t.Helper()

	c, err := cache.NewRedisCache(context.Background(), redisConfig(t, s.Addr()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	return c
}

func TestNewRedisCache_ConnectionFailure(t *testing.T) {
	cfg := &config.RedisConfig{
		Host:           "127.0.0.1",
		Port:           1,
		ConnectTimeout: 100 * time.Millisecond,
		ReadTimeout:    100 * time.Millisecond,
		WriteTimeout:   100 * time.Millisecond,
	}

	redisCache, err := cache.NewRedisCache(context.Background(), cfg)

	require.Error(t, err)
	assert.Nil(t, redisCache)
	assert.Contains(t, err.Error(), cache.ErrorFailedToConnect)
}

func TestRedisCache_GetSetDelete(t *testing.T) {
	ctx := context.Background()
	s := mockRedisServer(t)
	c := newRedisCache(t, s)

	value, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, value)

	require.NoError(t, c.Set(ctx, "k", "v", 0))
	ttl := s.TTL("k")
	assert.InDelta(t, (10 * time.Minute).Seconds(), ttl.Seconds(), 5)

	value, err = c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", value)

	require.NoError(t, c.Set(ctx, "short", "v", time.Second))
	s.FastForward(2 * time.Second)
	value, err = c.Get(ctx, "short")
	require.NoError(t, err)
	assert.Empty(t, value)

	require.NoError(t, c.Delete(ctx, "k"))
	assert.False(t, s.Exists("k"))
}

// memoryRepository считает обращения к хранилищу.
type memoryRepository struct {
	mu      sync.Mutex
	notes   []entities.Note
	loads   int
	saveErr error
}

func (r *memoryRepository) Load(context.Context) ([]entities.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loads++
	return append([]entities.Note{}, r.notes...), nil
}

func (r *memoryRepository) Save(_ context.Context, notes []entities.Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	r.notes = append([]entities.Note{}, notes...)
	return nil
}

func breaker() *resilience.CircuitBreaker {
	return resilience.NewCircuitBreaker("redis", resilience.CircuitBreakerConfig{
		ErrorThreshold:   1,
		Timeout:          time.Hour,
		SuccessThreshold: 1,
	})
}

func notes(ids ...string) []entities.Note {
	out := make([]entities.Note, 0, len(ids))
	for _, id := range ids {
		out = append(out, entities.Note{ID: id, Title: "note " + id, Checklist: []entities.ChecklistItem{}})
	}
	return out
}

func TestNoteRepository_ReadThrough(t *testing.T) {
	ctx := context.Background()
	s := mockRedisServer(t)
	backing := &memoryRepository{notes: notes("a", "b")}
	repo := cache.NewNoteRepository(backing, newRedisCache(t, s), breaker(), key, time.Minute)

	first, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, notes("a", "b"), first)
	assert.True(t, s.Exists(key))

	second, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, backing.loads, "second load must be served from cache")
}

func TestNoteRepository_SaveWritesThrough(t *testing.T) {
	ctx := context.Background()
	s := mockRedisServer(t)
	backing := &memoryRepository{}
	repo := cache.NewNoteRepository(backing, newRedisCache(t, s), breaker(), key, time.Minute)

	require.NoError(t, repo.Save(ctx, notes("x")))
	assert.Equal(t, notes("x"), backing.notes)

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, notes("x"), loaded)
	assert.Zero(t, backing.loads)
}

func TestNoteRepository_SaveFailureInvalidates(t *testing.T) {
	ctx := context.Background()
	s := mockRedisServer(t)
	errDisk := errors.New("disk full")
	backing := &memoryRepository{notes: notes("a")}
	repo := cache.NewNoteRepository(backing, newRedisCache(t, s), breaker(), key, time.Minute)

	_, err := repo.Load(ctx)
	require.NoError(t, err)
	require.True(t, s.Exists(key))

	backing.saveErr = errDisk
	require.ErrorIs(t, repo.Save(ctx, notes("a", "b")), errDisk)
	assert.False(t, s.Exists(key))
}

func TestNoteRepository_CorruptEntryFallsBack(t *testing.T) {
	ctx := context.Background()
	s := mockRedisServer(t)
	backing := &memoryRepository{notes: notes("a")}
	repo := cache.NewNoteRepository(backing, newRedisCache(t, s), breaker(), key, time.Minute)

	require.NoError(t, s.Set(key, "{not json"))

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, notes("a"), loaded)
	assert.Equal(t, 1, backing.loads)
}

func TestNoteRepository_DegradesWhenRedisIsDown(t *testing.T) {
	ctx := context.Background()
	s := mockRedisServer(t)
	backing := &memoryRepository{notes: notes("a")}
	cb := breaker()
	repo := cache.NewNoteRepository(backing, newRedisCache(t, s), cb, key, time.Minute)

	s.Close()

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, notes("a"), loaded)
	assert.Equal(t, resilience.StateOpen, cb.State())

	require.NoError(t, repo.Save(ctx, notes("b")))
	loaded, err = repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, notes("b"), loaded)
}

func TestNoteRepository_Invalidate(t *testing.T) {
	ctx := context.Background()
	s := mockRedisServer(t)
	backing := &memoryRepository{notes: notes("a")}
	repo := cache.NewNoteRepository(backing, newRedisCache(t, s), breaker(), key, time.Minute)

	_, err := repo.Load(ctx)
	require.NoError(t, err)

	backing.notes = notes("changed")
	repo.Invalidate(ctx)

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, notes("changed"), loaded)
}

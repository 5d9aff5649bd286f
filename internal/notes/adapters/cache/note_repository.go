package cache

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"gonotes/internal/notes/domain/entities"
	"gonotes/internal/notes/ports/cache"
	"gonotes/internal/notes/ports/repositories"
	"gonotes/internal/notes/resilience"
	"gonotes/pkg/logger"
)

// Константы для логирования.
const (
	LogCacheHit         = "notes cache hit"
	LogCacheMiss        = "notes cache miss"
	LogCacheUnavailable = "notes cache unavailable, using storage"
	LogCacheCorrupt     = "notes cache entry is corrupt, dropping it"
	LogCacheInvalidated = "notes cache invalidated"
)

// NoteRepository кэширует сериализованную коллекцию поверх другого
// репозитория. Источник истины - вложенный репозиторий: ошибки кэша
// только логируются и не влияют на результат операции.
type NoteRepository struct {
	next    repositories.NoteRepository
	cache   cache.Cache
	breaker *resilience.CircuitBreaker
	key     string
	ttl     time.Duration
}

var _ repositories.NoteRepository = (*NoteRepository)(nil)

// NewNoteRepository оборачивает next кэшем по ключу key.
func NewNoteRepository(
	next repositories.NoteRepository,
	c cache.Cache,
	breaker *resilience.CircuitBreaker,
	key string,
	ttl time.Duration,
) *NoteRepository {
	return &NoteRepository{
		next:    next,
		cache:   c,
		breaker: breaker,
		key:     key,
		ttl:     ttl,
	}
}

// Load возвращает коллекцию из кэша или из хранилища с заполнением кэша.
func (r *NoteRepository) Load(ctx context.Context) ([]entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("key", r.key))

	if notes, ok := r.fromCache(ctx, log); ok {
		return notes, nil
	}

	notes, err := r.next.Load(ctx)
	if err != nil {
		return nil, err
	}

	r.store(ctx, log, notes)
	return notes, nil
}

// Save сохраняет коллекцию в хранилище, затем обновляет кэш.
// При ошибке хранилища кэш сбрасывается.
func (r *NoteRepository) Save(ctx context.Context, notes []entities.Note) error {
	log := logger.Log(ctx).With(zap.String("key", r.key))

	if err := r.next.Save(ctx, notes); err != nil {
		r.Invalidate(ctx)
		return err
	}

	r.store(ctx, log, notes)
	return nil
}

// Invalidate удаляет снимок коллекции из кэша.
func (r *NoteRepository) Invalidate(ctx context.Context) {
	log := logger.Log(ctx).With(methodField(LogMethodDelete), zap.String("key", r.key))

	err := r.breaker.Execute(ctx, func() error {
		return r.cache.Delete(ctx, r.key)
	})
	if err != nil {
		log.Warn(ctx, LogCacheUnavailable, zap.Error(err))
		return
	}
	log.Debug(ctx, LogCacheInvalidated)
}

func (r *NoteRepository) fromCache(ctx context.Context, log *logger.Logger) ([]entities.Note, bool) {
	var raw string
	err := r.breaker.Execute(ctx, func() error {
		var err error
		raw, err = r.cache.Get(ctx, r.key)
		return err
	})
	if err != nil {
		log.Warn(ctx, LogCacheUnavailable, methodField(LogMethodGet), zap.Error(err))
		return nil, false
	}
	if raw == "" {
		log.Debug(ctx, LogCacheMiss)
		return nil, false
	}

	var notes []entities.Note
	if err := json.Unmarshal([]byte(raw), &notes); err != nil {
		log.Warn(ctx, LogCacheCorrupt, zap.Error(err))
		r.Invalidate(ctx)
		return nil, false
	}
	if notes == nil {
		notes = []entities.Note{}
	}

	log.Debug(ctx, LogCacheHit, zap.Int("count", len(notes)))
	return notes, true
}

func (r *NoteRepository) store(ctx context.Context, log *logger.Logger, notes []entities.Note) {
	if notes == nil {
		notes = []entities.Note{}
	}

	payload, err := json.Marshal(notes)
	if err != nil {
		log.Warn(ctx, LogCacheCorrupt, zap.Error(err))
		return
	}

	err = r.breaker.Execute(ctx, func() error {
		return r.cache.Set(ctx, r.key, string(payload), r.ttl)
	})
	if err != nil {
		log.Warn(ctx, LogCacheUnavailable, methodField(LogMethodSet), zap.Error(err))
	}
}

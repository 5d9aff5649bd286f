// Package postgres provides PostgreSQL implementations of repositories.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"gonotes/internal/notes/domain/entities"
	"gonotes/internal/notes/ports/repositories"
	"gonotes/pkg/logger"
)

// Pool - часть пула соединений, нужная репозиторию.
// Ее реализуют *pgxpool.Pool и pgxmock.
type Pool interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Константы для логирования.
const (
	LogMethodLoad = "NoteRepository.Load"
	LogMethodSave = "NoteRepository.Save"

	ErrLoadingNotes  = "failed to load notes"
	ErrDecodingNotes = "failed to decode notes"
	ErrEncodingNotes = "failed to encode notes"
	ErrSavingNotes   = "failed to save notes"
)

const (
	selectCollection = `SELECT payload FROM note_collections WHERE name = $1`

	upsertCollection = `INSERT INTO note_collections (name, payload, updated_at)
VALUES ($1, $2, NOW())
ON CONFLICT (name) DO UPDATE SET payload = EXCLUDED.payload, updated_at = NOW()`
)

// NoteRepository хранит коллекцию одним JSONB документом в строке таблицы
// note_collections.
type NoteRepository struct {
	pool Pool
	name string
}

var _ repositories.NoteRepository = (*NoteRepository)(nil)

// NewNoteRepository создает репозиторий для коллекции с именем name.
func NewNoteRepository(pool Pool, name string) *NoteRepository {
	return &NoteRepository{pool: pool, name: name}
}

// Load читает коллекцию. Отсутствие строки означает пустую коллекцию.
func (r *NoteRepository) Load(ctx context.Context) ([]entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", LogMethodLoad), zap.String("collection", r.name))

	var payload []byte
	err := r.pool.QueryRow(ctx, selectCollection, r.name).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		log.Debug(ctx, "collection not found, starting empty")
		return []entities.Note{}, nil
	}
	if err != nil {
		log.Error(ctx, ErrLoadingNotes, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrLoadingNotes, err)
	}

	var notes []entities.Note
	if err := json.Unmarshal(payload, &notes); err != nil {
		log.Error(ctx, ErrDecodingNotes, zap.Error(err))
		return nil, fmt.Errorf("%w: %s: %w", repositories.ErrCorruptData, ErrDecodingNotes, err)
	}
	if notes == nil {
		notes = []entities.Note{}
	}

	log.Debug(ctx, "notes loaded", zap.Int("count", len(notes)))
	return notes, nil
}

// Save заменяет коллекцию целиком.
func (r *NoteRepository) Save(ctx context.Context, notes []entities.Note) error {
	log := logger.Log(ctx).With(zap.String("method", LogMethodSave), zap.String("collection", r.name))

	if notes == nil {
		notes = []entities.Note{}
	}

	payload, err := json.Marshal(notes)
	if err != nil {
		log.Error(ctx, ErrEncodingNotes, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrEncodingNotes, err)
	}

	if _, err := r.pool.Exec(ctx, upsertCollection, r.name, payload); err != nil {
		log.Error(ctx, ErrSavingNotes, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrSavingNotes, err)
	}

	log.Debug(ctx, "notes saved", zap.Int("count", len(notes)))
	return nil
}

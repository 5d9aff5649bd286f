// Package repositories defines repository interfaces for the notes service.
package repositories

import (
	"context"
	"errors"

	"gonotes/internal/notes/domain/entities"
)

// ErrCorruptData возвращается, когда сохраненную коллекцию невозможно разобрать.
var ErrCorruptData = errors.New("stored notes are corrupt")

// NoteRepository хранит коллекцию заметок целиком.
// Load для отсутствующих данных возвращает пустой срез без ошибки.
// Save заменяет сохраненную коллекцию переданной, порядок сохраняется.
type NoteRepository interface {
	Load(ctx context.Context) ([]entities.Note, error)
	Save(ctx context.Context, notes []entities.Note) error
}

// Package app implements application business logic for the notes service.
package app

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"gonotes/internal/notes/domain/entities"
	"gonotes/internal/notes/domain/view"
	"gonotes/internal/notes/ports/api"
	"gonotes/internal/notes/ports/repositories"
)

// NoteUseCase представляет собой бизнес-логику работы с заметками.
// Каждая операция загружает коллекцию целиком, изменяет ее и сохраняет.
// Изменения сериализуются мьютексом, чтение берет разделяемую блокировку.
type NoteUseCase struct {
	mu       sync.RWMutex
	noteRepo repositories.NoteRepository
	defaults entities.Defaults
	now      func() time.Time
}

var _ api.NoteUseCase = (*NoteUseCase)(nil)

// Option настраивает NoteUseCase.
type Option func(*NoteUseCase)

// WithClock подменяет источник текущего времени.
func WithClock(now func() time.Time) Option {
	return func(uc *NoteUseCase) {
		uc.now = now
	}
}

// utcNow - часы по умолчанию. Время хранится в UTC, чтобы сериализованные
// метки сравнивались как строки.
func utcNow() time.Time {
	return time.Now().UTC()
}

// NewNoteUseCase создает новый экземпляр NoteUseCase.
func NewNoteUseCase(noteRepo repositories.NoteRepository, defaults entities.Defaults, opts ...Option) *NoteUseCase {
	uc := &NoteUseCase{
		noteRepo: noteRepo,
		defaults: defaults,
		now:      utcNow,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Defaults возвращает значения, которыми заполняются новые заметки.
func (uc *NoteUseCase) Defaults() entities.Defaults {
	return uc.defaults
}

// ListNotes возвращает всю коллекцию в порядке хранения.
func (uc *NoteUseCase) ListNotes(ctx context.Context) ([]entities.Note, error) {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	return uc.load(ctx)
}

// ProjectNotes возвращает заметки раздела, отфильтрованные поиском и
// отсортированные по времени изменения.
func (uc *NoteUseCase) ProjectNotes(ctx context.Context, v view.View, query string) ([]entities.Note, error) {
	notes, err := uc.ListNotes(ctx)
	if err != nil {
		return nil, err
	}
	return view.Project(notes, v, query), nil
}

// CountNotes возвращает количество заметок в каждом разделе.
func (uc *NoteUseCase) CountNotes(ctx context.Context) (view.Counts, error) {
	notes, err := uc.ListNotes(ctx)
	if err != nil {
		return view.Counts{}, err
	}
	return view.Count(notes), nil
}

// GetNote возвращает заметку по ID.
func (uc *NoteUseCase) GetNote(ctx context.Context, noteID string) (*entities.Note, error) {
	notes, err := uc.ListNotes(ctx)
	if err != nil {
		return nil, err
	}

	idx := indexOf(notes, noteID)
	if idx < 0 {
		return nil, ErrNotFound
	}

	return &notes[idx], nil
}

// CreateNote создает заметку и добавляет ее в начало коллекции.
func (uc *NoteUseCase) CreateNote(ctx context.Context, patch entities.NotePatch) (*entities.Note, error) {
	if err := ValidatePatch(patch); err != nil {
		return nil, err
	}

	var created entities.Note
	err := uc.mutate(ctx, func(notes []entities.Note) ([]entities.Note, error) {
		created = entities.NewNote(patch, uc.defaults, uc.now())
		return slices.Insert(notes, 0, created), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}

	return &created, nil
}

// UpdateNote применяет патч к заметке. id и createdAt сохраняются,
// updatedAt обновляется.
func (uc *NoteUseCase) UpdateNote(ctx context.Context, noteID string, patch entities.NotePatch) (*entities.Note, error) {
	if err := ValidatePatch(patch); err != nil {
		return nil, err
	}

	note, err := uc.updateOne(ctx, noteID, func(note *entities.Note) error {
		patch.Apply(note)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update note: %w", err)
	}

	return note, nil
}

// DeleteNote перемещает заметку в корзину.
func (uc *NoteUseCase) DeleteNote(ctx context.Context, noteID string) error {
	_, err := uc.updateOne(ctx, noteID, func(note *entities.Note) error {
		note.IsDeleted = true
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}

	return nil
}

// RestoreNote возвращает заметку из корзины и из архива.
func (uc *NoteUseCase) RestoreNote(ctx context.Context, noteID string) (*entities.Note, error) {
	note, err := uc.updateOne(ctx, noteID, func(note *entities.Note) error {
		note.IsDeleted = false
		note.IsArchived = false
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to restore note: %w", err)
	}

	return note, nil
}

// ArchiveNote перемещает заметку в архив.
func (uc *NoteUseCase) ArchiveNote(ctx context.Context, noteID string) (*entities.Note, error) {
	note, err := uc.updateOne(ctx, noteID, func(note *entities.Note) error {
		note.IsArchived = true
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to archive note: %w", err)
	}

	return note, nil
}

// UnarchiveNote возвращает заметку из архива.
func (uc *NoteUseCase) UnarchiveNote(ctx context.Context, noteID string) (*entities.Note, error) {
	note, err := uc.updateOne(ctx, noteID, func(note *entities.Note) error {
		note.IsArchived = false
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to unarchive note: %w", err)
	}

	return note, nil
}

// ToggleChecklistItem переключает отметку пункта чек-листа.
func (uc *NoteUseCase) ToggleChecklistItem(ctx context.Context, noteID, itemID string) (*entities.Note, error) {
	note, err := uc.updateOne(ctx, noteID, func(note *entities.Note) error {
		idx := note.ChecklistItemIndex(itemID)
		if idx < 0 {
			return ErrNotFound
		}
		note.Checklist[idx].Completed = !note.Checklist[idx].Completed
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to toggle checklist item: %w", err)
	}

	return note, nil
}

// PermanentlyDeleteNote удаляет заметку из коллекции безвозвратно.
func (uc *NoteUseCase) PermanentlyDeleteNote(ctx context.Context, noteID string) error {
	err := uc.mutate(ctx, func(notes []entities.Note) ([]entities.Note, error) {
		before := len(notes)
		notes = slices.DeleteFunc(notes, func(n entities.Note) bool { return n.ID == noteID })
		if len(notes) == before {
			return nil, ErrNotFound
		}
		return notes, nil
	})
	if err != nil {
		return fmt.Errorf("failed to permanently delete note: %w", err)
	}

	return nil
}

// EmptyTrash удаляет все заметки из корзины и возвращает их количество.
// Пустая корзина ничего не сохраняет.
func (uc *NoteUseCase) EmptyTrash(ctx context.Context) (int, error) {
	removed := 0
	err := uc.mutate(ctx, func(notes []entities.Note) ([]entities.Note, error) {
		before := len(notes)
		notes = slices.DeleteFunc(notes, func(n entities.Note) bool { return n.IsDeleted })
		removed = before - len(notes)
		if removed == 0 {
			return nil, errNothingToSave
		}
		return notes, nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to empty trash: %w", err)
	}

	return removed, nil
}

// updateOne изменяет одну заметку и обновляет ее updatedAt.
func (uc *NoteUseCase) updateOne(ctx context.Context, noteID string, fn func(*entities.Note) error) (*entities.Note, error) {
	var updated entities.Note
	err := uc.mutate(ctx, func(notes []entities.Note) ([]entities.Note, error) {
		idx := indexOf(notes, noteID)
		if idx < 0 {
			return nil, ErrNotFound
		}

		note := notes[idx].Clone()
		if err := fn(&note); err != nil {
			return nil, err
		}
		note.Touch(uc.now())

		notes[idx] = note
		updated = note.Clone()
		return notes, nil
	})
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

// mutate выполняет цикл load -> fn -> save под эксклюзивной блокировкой.
func (uc *NoteUseCase) mutate(ctx context.Context, fn func([]entities.Note) ([]entities.Note, error)) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	notes, err := uc.load(ctx)
	if err != nil {
		return err
	}

	next, err := fn(notes)
	if errors.Is(err, errNothingToSave) {
		return nil
	}
	if err != nil {
		return err
	}

	if err := uc.noteRepo.Save(ctx, next); err != nil {
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	return nil
}

func (uc *NoteUseCase) load(ctx context.Context) ([]entities.Note, error) {
	notes, err := uc.noteRepo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	if notes == nil {
		notes = []entities.Note{}
	}
	return notes, nil
}

func indexOf(notes []entities.Note, noteID string) int {
	return slices.IndexFunc(notes, func(n entities.Note) bool { return n.ID == noteID })
}

// Package api определяет входные порты сервиса заметок.
package api

import (
	"context"

	"gonotes/internal/notes/domain/entities"
	"gonotes/internal/notes/domain/view"
)

// NoteUseCase определяет операции над коллекцией заметок.
type NoteUseCase interface {
	ListNotes(ctx context.Context) ([]entities.Note, error)

	ProjectNotes(ctx context.Context, v view.View, query string) ([]entities.Note, error)

	CountNotes(ctx context.Context) (view.Counts, error)

	GetNote(ctx context.Context, noteID string) (*entities.Note, error)

	CreateNote(ctx context.Context, patch entities.NotePatch) (*entities.Note, error)

	UpdateNote(ctx context.Context, noteID string, patch entities.NotePatch) (*entities.Note, error)

	DeleteNote(ctx context.Context, noteID string) error

	PermanentlyDeleteNote(ctx context.Context, noteID string) error

	EmptyTrash(ctx context.Context) (int, error)

	RestoreNote(ctx context.Context, noteID string) (*entities.Note, error)

	ArchiveNote(ctx context.Context, noteID string) (*entities.Note, error)

	UnarchiveNote(ctx context.Context, noteID string) (*entities.Note, error)

	ToggleChecklistItem(ctx context.Context, noteID, itemID string) (*entities.Note, error)
}

// Package cli реализует notesctl: управление коллекцией заметок из терминала
// напрямую через настроенное хранилище.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"gonotes/internal/notes/app"
	"gonotes/internal/notes/config"
	"gonotes/internal/notes/ports/api"
	"gonotes/internal/notes/storage"
	"gonotes/pkg/logger"
)

// Opener открывает сценарии работы с заметками и возвращает функцию
// освобождения ресурсов.
type Opener func(ctx context.Context) (api.NoteUseCase, func(context.Context) error, error)

// DefaultOpener загружает конфигурацию сервиса и открывает то же хранилище,
// что и HTTP сервис. Наблюдение за файлом не запускается.
func DefaultOpener(ctx context.Context) (api.NoteUseCase, func(context.Context) error, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, nil, err
	}

	opts := storage.DefaultOptions()
	opts.Watch = false

	store, err := storage.Open(ctx, cfg, opts)
	if err != nil {
		return nil, nil, err
	}

	return app.NewNoteUseCase(store.Repository, cfg.Preferences.NoteDefaults()), store.Close, nil
}

type runner struct {
	open    Opener
	verbose bool
}

// withNotes открывает хранилище на время одной команды.
func (r *runner) withNotes(cmd *cobra.Command, fn func(ctx context.Context, notes api.NoteUseCase) error) error {
	ctx := cmd.Context()

	notes, closeFn, err := r.open(ctx)
	if err != nil {
		return fmt.Errorf("failed to open notes: %w", err)
	}

	runErr := fn(ctx, notes)
	if closeFn != nil {
		if err := closeFn(ctx); err != nil {
			return errors.Join(runErr, err)
		}
	}
	return runErr
}

// NewRootCommand собирает дерево команд notesctl.
func NewRootCommand(open Opener) *cobra.Command {
	r := &runner{open: open}

	root := &cobra.Command{
		Use:           "notesctl",
		Short:         "Manage notes stored by the notes service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level := "error"
			if r.verbose {
				level = "debug"
			}
			log, err := logger.NewLogger(logger.Development, level)
			if err != nil {
				return err
			}
			logger.SetGlobalLogger(log)
			return nil
		},
	}
	root.PersistentFlags().BoolVarP(&r.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		newListCommand(r),
		newCountsCommand(r),
		newShowCommand(r),
		newCreateCommand(r),
		newUpdateCommand(r),
		newLifecycleCommand(r, "delete", "Move a note to the trash", deleteNote),
		newLifecycleCommand(r, "restore", "Restore a note from the trash or archive", restoreNote),
		newLifecycleCommand(r, "archive", "Archive a note", archiveNote),
		newLifecycleCommand(r, "unarchive", "Return an archived note to the main view", unarchiveNote),
		newPurgeCommand(r),
		newEmptyTrashCommand(r),
		newToggleCommand(r),
	)

	return root
}

// Execute запускает notesctl с аргументами командной строки.
func Execute(ctx context.Context, open Opener) error {
	return NewRootCommand(open).ExecuteContext(ctx)
}

// Describe превращает ошибку в текст для пользователя.
func Describe(err error) string {
	var validationErr *app.ValidationError
	switch {
	case errors.As(err, &validationErr):
		msg := "Validation failed:"
		for _, m := range validationErr.Messages {
			msg += "\n  - " + m
		}
		return msg
	case errors.Is(err, app.ErrNotFound):
		return "Note not found"
	default:
		return err.Error()
	}
}

package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"gonotes/internal/notes/domain/entities"
	"gonotes/internal/notes/domain/view"
	"gonotes/internal/notes/ports/api"
)

func addOutputFlag(cmd *cobra.Command, output *string) {
	cmd.Flags().StringVarP(output, "output", "o", OutputTable, "Output format: table, json or yaml")
}

func newListCommand(r *runner) *cobra.Command {
	var viewName, query, output string

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List notes of a view, newest first",
		Aliases: []string{"ls"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, err := view.ParseView(viewName)
			if err != nil {
				return err
			}
			if err := checkOutput(output); err != nil {
				return err
			}
			return r.withNotes(cmd, func(ctx context.Context, notes api.NoteUseCase) error {
				list, err := notes.ProjectNotes(ctx, v, query)
				if err != nil {
					return err
				}
				return renderNotes(cmd.OutOrStdout(), output, list)
			})
		},
	}
	cmd.Flags().StringVar(&viewName, "view", string(view.All), "View: all, archive or trash")
	cmd.Flags().StringVarP(&query, "query", "q", "", "Case-insensitive search in title, content and checklist")
	addOutputFlag(cmd, &output)
	return cmd
}

func newCountsCommand(r *runner) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "counts",
		Short: "Show the number of notes in each view",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkOutput(output); err != nil {
				return err
			}
			return r.withNotes(cmd, func(ctx context.Context, notes api.NoteUseCase) error {
				counts, err := notes.CountNotes(ctx)
				if err != nil {
					return err
				}
				return renderCounts(cmd.OutOrStdout(), output, counts)
			})
		},
	}
	addOutputFlag(cmd, &output)
	return cmd
}

func newShowCommand(r *runner) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a single note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkOutput(output); err != nil {
				return err
			}
			return r.withNotes(cmd, func(ctx context.Context, notes api.NoteUseCase) error {
				note, err := notes.GetNote(ctx, args[0])
				if err != nil {
					return err
				}
				return renderNote(cmd.OutOrStdout(), output, note)
			})
		},
	}
	addOutputFlag(cmd, &output)
	return cmd
}

// patchFlags - флаги полей заметки для create и update.
type patchFlags struct {
	title, content, color, noteType, fontSize, fontFamily string
	items                                                 []string
}

func (f *patchFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "Note title")
	cmd.Flags().StringVar(&f.content, "content", "", "Note text")
	cmd.Flags().StringVar(&f.color, "color", "", "Note color")
	cmd.Flags().StringVar(&f.noteType, "type", "", "Note type: text or checklist")
	cmd.Flags().StringVar(&f.fontSize, "font-size", "", "Font size: small, medium or large")
	cmd.Flags().StringVar(&f.fontFamily, "font-family", "", "Font family: sans, serif or mono")
	cmd.Flags().StringArrayVar(&f.items, "item", nil, "Checklist item, repeat for several items (replaces the checklist)")
}

// patch собирает патч только из явно переданных флагов.
func (f *patchFlags) patch(cmd *cobra.Command) entities.NotePatch {
	var p entities.NotePatch
	changed := cmd.Flags().Changed

	if changed("title") {
		p.Title = &f.title
	}
	if changed("content") {
		p.Content = &f.content
	}
	if changed("color") {
		color := entities.Color(f.color)
		p.Color = &color
	}
	if changed("type") {
		noteType := entities.NoteType(f.noteType)
		p.Type = &noteType
	}
	if changed("font-size") {
		size := entities.FontSize(f.fontSize)
		p.FontSize = &size
	}
	if changed("font-family") {
		family := entities.FontFamily(f.fontFamily)
		p.FontFamily = &family
	}
	if changed("item") {
		items := make([]entities.ChecklistItem, 0, len(f.items))
		for _, text := range f.items {
			items = append(items, entities.ChecklistItem{Text: text})
		}
		p.Checklist = &items
	}

	return p
}

func newCreateCommand(r *runner) *cobra.Command {
	var (
		flags  patchFlags
		output string
	)

	cmd := &cobra.Command{
		Use:     "create",
		Short:   "Create a note",
		Aliases: []string{"new"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkOutput(output); err != nil {
				return err
			}
			patch := flags.patch(cmd)
			return r.withNotes(cmd, func(ctx context.Context, notes api.NoteUseCase) error {
				note, err := notes.CreateNote(ctx, patch)
				if err != nil {
					return err
				}
				return renderNote(cmd.OutOrStdout(), output, note)
			})
		},
	}
	flags.register(cmd)
	addOutputFlag(cmd, &output)
	return cmd
}

func newUpdateCommand(r *runner) *cobra.Command {
	var (
		flags  patchFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a note, only the given flags are applied",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkOutput(output); err != nil {
				return err
			}
			patch := flags.patch(cmd)
			return r.withNotes(cmd, func(ctx context.Context, notes api.NoteUseCase) error {
				note, err := notes.UpdateNote(ctx, args[0], patch)
				if err != nil {
					return err
				}
				return renderNote(cmd.OutOrStdout(), output, note)
			})
		},
	}
	flags.register(cmd)
	addOutputFlag(cmd, &output)
	return cmd
}

type lifecycleFunc func(ctx context.Context, notes api.NoteUseCase, id string) error

func deleteNote(ctx context.Context, notes api.NoteUseCase, id string) error {
	return notes.DeleteNote(ctx, id)
}

func restoreNote(ctx context.Context, notes api.NoteUseCase, id string) error {
	_, err := notes.RestoreNote(ctx, id)
	return err
}

func archiveNote(ctx context.Context, notes api.NoteUseCase, id string) error {
	_, err := notes.ArchiveNote(ctx, id)
	return err
}

func unarchiveNote(ctx context.Context, notes api.NoteUseCase, id string) error {
	_, err := notes.UnarchiveNote(ctx, id)
	return err
}

func newLifecycleCommand(r *runner, name, short string, fn lifecycleFunc) *cobra.Command {
	return &cobra.Command{
		Use:   name + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withNotes(cmd, func(ctx context.Context, notes api.NoteUseCase) error {
				if err := fn(ctx, notes, args[0]); err != nil {
					return err
				}
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", name, args[0])
				return err
			})
		},
	}
}

func newPurgeCommand(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "purge <id>",
		Short: "Delete a note permanently",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withNotes(cmd, func(ctx context.Context, notes api.NoteUseCase) error {
				if err := notes.PermanentlyDeleteNote(ctx, args[0]); err != nil {
					return err
				}
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "Note permanently deleted")
				return err
			})
		},
	}
}

func newEmptyTrashCommand(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "empty-trash",
		Short: "Permanently delete every note in the trash",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.withNotes(cmd, func(ctx context.Context, notes api.NoteUseCase) error {
				deleted, err := notes.EmptyTrash(ctx)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "Trash emptied, %d notes deleted\n", deleted)
				return err
			})
		},
	}
}

func newToggleCommand(r *runner) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "toggle <id> <item-id>",
		Short: "Flip the completed flag of a checklist item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkOutput(output); err != nil {
				return err
			}
			return r.withNotes(cmd, func(ctx context.Context, notes api.NoteUseCase) error {
				note, err := notes.ToggleChecklistItem(ctx, args[0], args[1])
				if err != nil {
					return err
				}
				return renderNote(cmd.OutOrStdout(), output, note)
			})
		},
	}
	addOutputFlag(cmd, &output)
	return cmd
}

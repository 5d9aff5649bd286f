package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"gopkg.in/yaml.v3"

	"gonotes/internal/notes/domain/entities"
	"gonotes/internal/notes/domain/view"
)

// Форматы вывода.
const (
	OutputTable = "table"
	OutputJSON  = "json"
	OutputYAML  = "yaml"
)

// ErrUnknownOutput возвращается для неизвестного формата вывода.
var ErrUnknownOutput = errors.New("unknown output format")

const timeLayout = "2006-01-02 15:04"

func checkOutput(format string) error {
	switch format {
	case OutputTable, OutputJSON, OutputYAML:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOutput, format)
	}
}

// encode выводит v в json или yaml. Возвращает false для табличного формата.
func encode(w io.Writer, format string, v any) (bool, error) {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return true, enc.Encode(v)
	case OutputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return true, err
		}
		return true, enc.Close()
	default:
		return false, nil
	}
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.Style().Format.Header = text.FormatUpper
	return t
}

func renderNotes(w io.Writer, format string, notes []entities.Note) error {
	if ok, err := encode(w, format, notes); ok {
		return err
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"ID", "Title", "Type", "Color", "State", "Updated"})
	for i := range notes {
		n := &notes[i]
		t.AppendRow(table.Row{n.ID, summary(n), n.Type, n.Color, state(n), n.UpdatedAt.Local().Format(timeLayout)})
	}
	t.AppendFooter(table.Row{"", fmt.Sprintf("%d notes", len(notes))})
	t.Render()
	return nil
}

func renderNote(w io.Writer, format string, note *entities.Note) error {
	if ok, err := encode(w, format, note); ok {
		return err
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"Field", "Value"})
	t.AppendRows([]table.Row{
		{"ID", note.ID},
		{"Title", note.Title},
		{"Type", note.Type},
		{"Color", note.Color},
		{"Font", fmt.Sprintf("%s / %s", note.FontFamily, note.FontSize)},
		{"State", state(note)},
		{"Created", note.CreatedAt.Local().Format(time.RFC3339)},
		{"Updated", note.UpdatedAt.Local().Format(time.RFC3339)},
	})
	if note.Content != "" {
		t.AppendRow(table.Row{"Content", note.Content})
	}
	for _, item := range note.Checklist {
		mark := "[ ]"
		if item.Completed {
			mark = "[x]"
		}
		t.AppendRow(table.Row{item.ID, mark + " " + item.Text})
	}
	t.Render()
	return nil
}

func renderCounts(w io.Writer, format string, counts view.Counts) error {
	if ok, err := encode(w, format, counts); ok {
		return err
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"View", "Notes"})
	t.AppendRows([]table.Row{
		{view.All, counts.All},
		{view.Archive, counts.Archive},
		{view.Trash, counts.Trash},
	})
	t.Render()
	return nil
}

func summary(n *entities.Note) string {
	title := n.Title
	if title == "" {
		title = firstLine(n.Content)
	}
	if n.Type == entities.TypeChecklist {
		done := 0
		for _, item := range n.Checklist {
			if item.Completed {
				done++
			}
		}
		title = fmt.Sprintf("%s (%d/%d)", title, done, len(n.Checklist))
	}
	return text.Trim(title, 48)
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return line
}

func state(n *entities.Note) string {
	switch {
	case n.IsDeleted:
		return string(view.Trash)
	case n.IsArchived:
		return string(view.Archive)
	default:
		return "active"
	}
}

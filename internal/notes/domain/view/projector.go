// Package view вычисляет, какие заметки видит пользователь: раздел, поиск, порядок.
// Функции пакета чистые и не изменяют входные данные.
package view

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"gonotes/internal/notes/domain/entities"
)

// View - раздел отображения.
type View string

// Разделы.
const (
	All     View = "all"
	Archive View = "archive"
	Trash   View = "trash"
)

// ErrUnknownView возвращается для неизвестного раздела.
var ErrUnknownView = errors.New("unknown view")

// ParseView разбирает имя раздела. Пустая строка означает all.
func ParseView(s string) (View, error) {
	switch View(strings.ToLower(strings.TrimSpace(s))) {
	case "", All:
		return All, nil
	case Archive:
		return Archive, nil
	case Trash:
		return Trash, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownView, s)
	}
}

// Counts - количество заметок в каждом разделе.
type Counts struct {
	All     int `json:"all" yaml:"all"`
	Archive int `json:"archive" yaml:"archive"`
	Trash   int `json:"trash" yaml:"trash"`
}

// Contains сообщает, попадает ли заметка в раздел.
// Удаленная заметка видна только в корзине, даже если она в архиве.
func (v View) Contains(note *entities.Note) bool {
	switch v {
	case All:
		return !note.IsDeleted && !note.IsArchived
	case Archive:
		return note.IsArchived && !note.IsDeleted
	case Trash:
		return note.IsDeleted
	default:
		return false
	}
}

// Project возвращает заметки раздела v, подходящие под query,
// отсортированные по updatedAt по убыванию. При равенстве сохраняется
// исходный порядок коллекции. Запрос из одних пробелов не фильтрует,
// иначе он сравнивается как есть, вместе с пробелами.
func Project(notes []entities.Note, v View, query string) []entities.Note {
	search := strings.TrimSpace(query) != ""
	query = strings.ToLower(query)

	out := make([]entities.Note, 0, len(notes))
	for i := range notes {
		if !v.Contains(&notes[i]) {
			continue
		}
		if search && !Matches(&notes[i], query) {
			continue
		}
		out = append(out, notes[i].Clone())
	}

	slices.SortStableFunc(out, func(a, b entities.Note) int {
		return b.UpdatedAt.Compare(a.UpdatedAt)
	})

	return out
}

// Matches ищет подстроку (уже в нижнем регистре) в заголовке, тексте
// или пунктах чек-листа.
func Matches(note *entities.Note, lowerQuery string) bool {
	if strings.Contains(strings.ToLower(note.Title), lowerQuery) ||
		strings.Contains(strings.ToLower(note.Content), lowerQuery) {
		return true
	}
	for _, item := range note.Checklist {
		if strings.Contains(strings.ToLower(item.Text), lowerQuery) {
			return true
		}
	}
	return false
}

// Count считает заметки по разделам теми же предикатами, что и Project, без поиска.
func Count(notes []entities.Note) Counts {
	var c Counts
	for i := range notes {
		switch {
		case Trash.Contains(&notes[i]):
			c.Trash++
		case Archive.Contains(&notes[i]):
			c.Archive++
		case All.Contains(&notes[i]):
			c.All++
		}
	}
	return c
}

// Package entities определяет доменные сущности сервиса заметок.
package entities

import (
	"time"

	"github.com/google/uuid"
)

// NoteType - вариант заметки.
type NoteType string

// Типы заметок.
const (
	TypeText      NoteType = "text"
	TypeChecklist NoteType = "checklist"
)

// FontSize - размер шрифта заметки.
type FontSize string

// Размеры шрифта.
const (
	FontSizeSmall  FontSize = "small"
	FontSizeMedium FontSize = "medium"
	FontSizeLarge  FontSize = "large"
)

// FontFamily - семейство шрифта заметки.
type FontFamily string

// Семейства шрифтов.
const (
	FontFamilySans  FontFamily = "sans"
	FontFamilySerif FontFamily = "serif"
	FontFamilyMono  FontFamily = "mono"
)

// Color - цвет заметки из фиксированной палитры. На поведение не влияет.
type Color string

// Палитра.
const (
	ColorDefault Color = "default"
	ColorRed     Color = "red"
	ColorOrange  Color = "orange"
	ColorYellow  Color = "yellow"
	ColorGreen   Color = "green"
	ColorBlue    Color = "blue"
	ColorPurple  Color = "purple"
	ColorPink    Color = "pink"
)

// Palette возвращает все цвета палитры.
func Palette() []Color {
	return []Color{ColorDefault, ColorRed, ColorOrange, ColorYellow, ColorGreen, ColorBlue, ColorPurple, ColorPink}
}

// Valid сообщает, входит ли тип в перечисление.
func (t NoteType) Valid() bool {
	return t == TypeText || t == TypeChecklist
}

// Valid сообщает, входит ли размер в перечисление.
func (s FontSize) Valid() bool {
	return s == FontSizeSmall || s == FontSizeMedium || s == FontSizeLarge
}

// Valid сообщает, входит ли семейство в перечисление.
func (f FontFamily) Valid() bool {
	return f == FontFamilySans || f == FontFamilySerif || f == FontFamilyMono
}

// ChecklistItem - пункт чек-листа.
type ChecklistItem struct {
	ID        string `json:"id" yaml:"id"`
	Text      string `json:"text" yaml:"text"`
	Completed bool   `json:"completed" yaml:"completed"`
}

// Note - заметка пользователя. Единственная сохраняемая сущность.
type Note struct {
	ID         string          `json:"id" yaml:"id"`
	Title      string          `json:"title" yaml:"title"`
	Content    string          `json:"content" yaml:"content"`
	Color      Color           `json:"color" yaml:"color"`
	Type       NoteType        `json:"type" yaml:"type"`
	Checklist  []ChecklistItem `json:"checklist" yaml:"checklist"`
	FontSize   FontSize        `json:"fontSize" yaml:"fontSize"`
	FontFamily FontFamily      `json:"fontFamily" yaml:"fontFamily"`
	IsArchived bool            `json:"isArchived" yaml:"isArchived"`
	IsDeleted  bool            `json:"isDeleted" yaml:"isDeleted"`
	CreatedAt  time.Time       `json:"createdAt" yaml:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt" yaml:"updatedAt"`
}

// Defaults - значения, которыми заполняется новая заметка.
type Defaults struct {
	FontSize   FontSize
	FontFamily FontFamily
}

// NewNote создает заметку из патча: пустые поля получают значения по умолчанию,
// флаги сброшены, createdAt == updatedAt == now.
func NewNote(patch NotePatch, defaults Defaults, now time.Time) Note {
	note := Note{
		ID:         uuid.NewString(),
		Color:      ColorDefault,
		Type:       TypeText,
		Checklist:  []ChecklistItem{},
		FontSize:   defaults.FontSize,
		FontFamily: defaults.FontFamily,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if !note.FontSize.Valid() {
		note.FontSize = FontSizeMedium
	}
	if !note.FontFamily.Valid() {
		note.FontFamily = FontFamilySans
	}

	patch.Apply(&note)
	if note.Color == "" {
		note.Color = ColorDefault
	}

	return note
}

// Touch обновляет updatedAt. Время строго возрастает, даже если часы не сдвинулись.
func (n *Note) Touch(now time.Time) {
	if !now.After(n.UpdatedAt) {
		now = n.UpdatedAt.Add(time.Nanosecond)
	}
	n.UpdatedAt = now
}

// ChecklistItemIndex возвращает индекс пункта или -1.
func (n *Note) ChecklistItemIndex(itemID string) int {
	for i := range n.Checklist {
		if n.Checklist[i].ID == itemID {
			return i
		}
	}
	return -1
}

// Clone возвращает копию заметки с собственным чек-листом.
func (n Note) Clone() Note {
	if n.Checklist != nil {
		items := make([]ChecklistItem, len(n.Checklist))
		copy(items, n.Checklist)
		n.Checklist = items
	}
	return n
}

func normalizeChecklist(items []ChecklistItem) []ChecklistItem {
	out := make([]ChecklistItem, len(items))
	for i, item := range items {
		if item.ID == "" {
			item.ID = uuid.NewString()
		}
		out[i] = item
	}
	return out
}

package entities_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gonotes/internal/notes/domain/entities"
)

func ptr[T any](v T) *T { return &v }

var now = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

func TestNewNote_Defaults(t *testing.T) {
	note := entities.NewNote(entities.NotePatch{}, entities.Defaults{}, now)

	assert.NotEmpty(t, note.ID)
	assert.Equal(t, entities.ColorDefault, note.Color)
	assert.Equal(t, entities.TypeText, note.Type)
	assert.NotNil(t, note.Checklist)
	assert.Empty(t, note.Checklist)
	assert.Equal(t, entities.FontSizeMedium, note.FontSize)
	assert.Equal(t, entities.FontFamilySans, note.FontFamily)
	assert.False(t, note.IsArchived)
	assert.False(t, note.IsDeleted)
	assert.Equal(t, now, note.CreatedAt)
	assert.Equal(t, now, note.UpdatedAt)
}

func TestNewNote_UsesConfiguredDefaultsAndPatch(t *testing.T) {
	defaults := entities.Defaults{FontSize: entities.FontSizeLarge, FontFamily: entities.FontFamilyMono}

	note := entities.NewNote(entities.NotePatch{
		Title:     ptr("Groceries"),
		Type:      ptr(entities.TypeChecklist),
		Color:     ptr(entities.ColorGreen),
		Checklist: &[]entities.ChecklistItem{{Text: "Buy milk"}, {ID: "keep", Text: "Eggs", Completed: true}},
	}, defaults, now)

	assert.Equal(t, "Groceries", note.Title)
	assert.Equal(t, entities.TypeChecklist, note.Type)
	assert.Equal(t, entities.ColorGreen, note.Color)
	assert.Equal(t, entities.FontSizeLarge, note.FontSize)
	assert.Equal(t, entities.FontFamilyMono, note.FontFamily)

	require.Len(t, note.Checklist, 2)
	assert.NotEmpty(t, note.Checklist[0].ID)
	assert.Equal(t, "keep", note.Checklist[1].ID)
	assert.True(t, note.Checklist[1].Completed)
}

func TestNewNote_UniqueIDs(t *testing.T) {
	seen := make(map[string]struct{})
	for range 100 {
		n := entities.NewNote(entities.NotePatch{}, entities.Defaults{}, now)
		_, dup := seen[n.ID]
		require.False(t, dup)
		seen[n.ID] = struct{}{}
	}
}

func TestNote_Touch(t *testing.T) {
	note := entities.NewNote(entities.NotePatch{}, entities.Defaults{}, now)

	later := now.Add(time.Second)
	note.Touch(later)
	assert.Equal(t, later, note.UpdatedAt)

	note.Touch(later)
	assert.True(t, note.UpdatedAt.After(later), "same instant must still advance")

	note.Touch(now)
	assert.True(t, note.UpdatedAt.After(later), "clock going backwards must still advance")
	assert.Equal(t, now, note.CreatedAt)
}

func TestNotePatch_Apply(t *testing.T) {
	note := entities.NewNote(entities.NotePatch{Title: ptr("old"), Content: ptr("body")}, entities.Defaults{}, now)

	entities.NotePatch{
		Title:    ptr("new"),
		FontSize: ptr(entities.FontSize("")),
		Color:    ptr(entities.Color("")),
	}.Apply(&note)

	assert.Equal(t, "new", note.Title)
	assert.Equal(t, "body", note.Content)
	assert.Equal(t, entities.FontSizeMedium, note.FontSize, "empty enum value is ignored")
	assert.Equal(t, entities.ColorDefault, note.Color)
}

func TestNotePatch_Validate(t *testing.T) {
	tests := []struct {
		name     string
		patch    entities.NotePatch
		expected []string
	}{
		{name: "empty patch", patch: entities.NotePatch{}},
		{
			name:  "valid values",
			patch: entities.NotePatch{Type: ptr(entities.TypeChecklist), FontSize: ptr(entities.FontSizeSmall), FontFamily: ptr(entities.FontFamilySerif)},
		},
		{
			name:  "empty enum strings are not provided",
			patch: entities.NotePatch{Type: ptr(entities.NoteType("")), FontSize: ptr(entities.FontSize(""))},
		},
		{
			name:     "bad type",
			patch:    entities.NotePatch{Type: ptr(entities.NoteType("drawing"))},
			expected: []string{entities.MsgInvalidType},
		},
		{
			name: "all problems collected",
			patch: entities.NotePatch{
				Type:       ptr(entities.NoteType("x")),
				FontSize:   ptr(entities.FontSize("huge")),
				FontFamily: ptr(entities.FontFamily("comic")),
			},
			expected: []string{entities.MsgInvalidType, entities.MsgInvalidFontSize, entities.MsgInvalidFontFamily},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.patch.Validate())
		})
	}
}

func TestNotePatch_IsEmpty(t *testing.T) {
	assert.True(t, entities.NotePatch{}.IsEmpty())
	assert.False(t, entities.NotePatch{Content: ptr("")}.IsEmpty())
}

func TestNote_CloneAndChecklistIndex(t *testing.T) {
	note := entities.Note{Checklist: []entities.ChecklistItem{{ID: "a"}, {ID: "b"}}}

	assert.Equal(t, 1, note.ChecklistItemIndex("b"))
	assert.Equal(t, -1, note.ChecklistItemIndex("zzz"))

	clone := note.Clone()
	clone.Checklist[0].Completed = true
	assert.False(t, note.Checklist[0].Completed)
}

func TestPalette(t *testing.T) {
	assert.Contains(t, entities.Palette(), entities.ColorDefault)
	assert.Len(t, entities.Palette(), 8)
}

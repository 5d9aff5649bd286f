package entities

// NotePatch - частичное обновление заметки. nil означает "поле не передано".
// id, createdAt и updatedAt не патчатся; флаги жизненного цикла меняются
// только отдельными операциями.
type NotePatch struct {
	Title      *string
	Content    *string
	Color      *Color
	Type       *NoteType
	Checklist  *[]ChecklistItem
	FontSize   *FontSize
	FontFamily *FontFamily
}

// Apply переносит переданные поля в заметку.
// Пустые значения перечислений считаются непереданными.
func (p NotePatch) Apply(note *Note) {
	if p.Title != nil {
		note.Title = *p.Title
	}
	if p.Content != nil {
		note.Content = *p.Content
	}
	if p.Color != nil && *p.Color != "" {
		note.Color = *p.Color
	}
	if p.Type != nil && *p.Type != "" {
		note.Type = *p.Type
	}
	if p.Checklist != nil {
		note.Checklist = normalizeChecklist(*p.Checklist)
	}
	if p.FontSize != nil && *p.FontSize != "" {
		note.FontSize = *p.FontSize
	}
	if p.FontFamily != nil && *p.FontFamily != "" {
		note.FontFamily = *p.FontFamily
	}
}

// IsEmpty сообщает, что в патче нет ни одного поля.
func (p NotePatch) IsEmpty() bool {
	return p.Title == nil && p.Content == nil && p.Color == nil && p.Type == nil &&
		p.Checklist == nil && p.FontSize == nil && p.FontFamily == nil
}

// Validate проверяет значения перечислений и возвращает все нарушения сразу.
func (p NotePatch) Validate() []string {
	var problems []string

	if p.Type != nil && *p.Type != "" && !p.Type.Valid() {
		problems = append(problems, MsgInvalidType)
	}
	if p.FontSize != nil && *p.FontSize != "" && !p.FontSize.Valid() {
		problems = append(problems, MsgInvalidFontSize)
	}
	if p.FontFamily != nil && *p.FontFamily != "" && !p.FontFamily.Valid() {
		problems = append(problems, MsgInvalidFontFamily)
	}

	return problems
}

// Сообщения о нарушениях валидации.
const (
	MsgTitleNotString    = "Title must be a string"
	MsgContentNotString  = "Content must be a string"
	MsgColorNotString    = "Color must be a string"
	MsgChecklistInvalid  = "Checklist must be an array of items"
	MsgInvalidType       = `Type must be either "text" or "checklist"`
	MsgInvalidFontSize   = `Font size must be "small", "medium", or "large"`
	MsgInvalidFontFamily = `Font family must be "sans", "serif", or "mono"`
)

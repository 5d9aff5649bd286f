package config

import "gonotes/internal/notes/domain/entities"

// PreferencesConfig - пользовательские настройки по умолчанию.
// Размер и семейство шрифта используются при создании заметок.
type PreferencesConfig struct {
	ViewMode   string `yaml:"view_mode" json:"viewMode" env:"NOTES_PREF_VIEW_MODE" env-default:"grid"`
	DarkMode   bool   `yaml:"dark_mode" json:"darkMode" env:"NOTES_PREF_DARK_MODE" env-default:"false"`
	FontSize   string `yaml:"font_size" json:"fontSize" env:"NOTES_PREF_FONT_SIZE" env-default:"medium"`
	FontFamily string `yaml:"font_family" json:"fontFamily" env:"NOTES_PREF_FONT_FAMILY" env-default:"sans"`
}

// NoteDefaults возвращает значения для новых заметок.
// Недопустимые значения заменяются при создании заметки.
func (p *PreferencesConfig) NoteDefaults() entities.Defaults {
	return entities.Defaults{
		FontSize:   entities.FontSize(p.FontSize),
		FontFamily: entities.FontFamily(p.FontFamily),
	}
}

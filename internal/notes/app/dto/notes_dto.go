// Package dto содержит структуры запросов и ответов HTTP API заметок.
package dto

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"gonotes/internal/notes/domain/entities"
)

// ErrMalformedBody возвращается, если тело запроса не является JSON-объектом.
var ErrMalformedBody = errors.New("request body must be a JSON object")

// MsgMalformedBody - сообщение валидации для неразборчивого тела.
const MsgMalformedBody = "Request body must be a JSON object"

// Поля тела запроса на создание и изменение заметки.
const (
	fieldTitle      = "title"
	fieldContent    = "content"
	fieldColor      = "color"
	fieldType       = "type"
	fieldChecklist  = "checklist"
	fieldFontSize   = "fontSize"
	fieldFontFamily = "fontFamily"
)

// DecodeNotePatch разбирает тело запроса в патч и собирает нарушения типов.
// Неизвестные поля, а также id, даты и флаги жизненного цикла игнорируются.
// null для title и content - нарушение, для остальных полей - отсутствие значения.
func DecodeNotePatch(body []byte) (entities.NotePatch, []string, error) {
	var patch entities.NotePatch

	if len(bytes.TrimSpace(body)) == 0 {
		return patch, nil, nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return patch, nil, fmt.Errorf("%w: %w", ErrMalformedBody, err)
	}

	var problems []string

	if v, ok := raw[fieldTitle]; ok {
		if s, isString := decodeString(v); isString {
			patch.Title = &s
		} else {
			problems = append(problems, entities.MsgTitleNotString)
		}
	}

	if v, ok := raw[fieldContent]; ok {
		if s, isString := decodeString(v); isString {
			patch.Content = &s
		} else {
			problems = append(problems, entities.MsgContentNotString)
		}
	}

	if v, ok := present(raw, fieldColor); ok {
		if s, isString := decodeString(v); isString {
			c := entities.Color(s)
			patch.Color = &c
		} else {
			problems = append(problems, entities.MsgColorNotString)
		}
	}

	if v, ok := present(raw, fieldType); ok {
		if s, isString := decodeString(v); isString {
			t := entities.NoteType(s)
			patch.Type = &t
		} else {
			problems = append(problems, entities.MsgInvalidType)
		}
	}

	if v, ok := present(raw, fieldChecklist); ok {
		var items []entities.ChecklistItem
		if err := json.Unmarshal(v, &items); err != nil || items == nil {
			problems = append(problems, entities.MsgChecklistInvalid)
		} else {
			patch.Checklist = &items
		}
	}

	if v, ok := present(raw, fieldFontSize); ok {
		if s, isString := decodeString(v); isString {
			fs := entities.FontSize(s)
			patch.FontSize = &fs
		} else {
			problems = append(problems, entities.MsgInvalidFontSize)
		}
	}

	if v, ok := present(raw, fieldFontFamily); ok {
		if s, isString := decodeString(v); isString {
			ff := entities.FontFamily(s)
			patch.FontFamily = &ff
		} else {
			problems = append(problems, entities.MsgInvalidFontFamily)
		}
	}

	return patch, problems, nil
}

// present возвращает значение поля, если оно передано и не равно null.
func present(raw map[string]json.RawMessage, field string) (json.RawMessage, bool) {
	v, ok := raw[field]
	if !ok || bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
		return nil, false
	}
	return v, true
}

func decodeString(v json.RawMessage) (string, bool) {
	trimmed := bytes.TrimSpace(v)
	if len(trimmed) == 0 || trimmed[0] != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err != nil {
		return "", false
	}
	return s, true
}

// MessageResponse - ответ с текстовым подтверждением.
type MessageResponse struct {
	Message string `json:"message"`
}

// EmptyTrashResponse - ответ на очистку корзины.
type EmptyTrashResponse struct {
	Message      string `json:"message"`
	DeletedCount int    `json:"deletedCount"`
}

// ErrorResponse - ответ с ошибкой. Details заполняется для ошибок валидации.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

// HealthResponse - ответ проверки состояния.
type HealthResponse struct {
	Status      string `json:"status"`
	Timestamp   string `json:"timestamp"`
	Environment string `json:"environment"`
	Port        int    `json:"port"`
}

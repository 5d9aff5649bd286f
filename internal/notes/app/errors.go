package app

import (
	"errors"
	"strings"

	"gonotes/internal/notes/domain/entities"
)

// Ошибки уровня бизнес-логики.
var (
	ErrNotFound      = errors.New("note not found")
	ErrPersistence   = errors.New("notes persistence failed")
	errNothingToSave = errors.New("nothing to save")
)

// ValidationError содержит все нарушения, найденные во входных данных.
type ValidationError struct {
	Messages []string
}

// NewValidationError создает ошибку валидации из списка сообщений.
func NewValidationError(messages ...string) *ValidationError {
	return &ValidationError{Messages: messages}
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}

// ValidatePatch проверяет патч и объединяет найденные нарушения с уже
// собранными (например, при разборе JSON). Возвращает nil, если нарушений нет.
func ValidatePatch(patch entities.NotePatch, collected ...string) error {
	messages := make([]string, 0, len(collected))
	messages = append(messages, collected...)
	messages = append(messages, patch.Validate()...)

	if len(messages) == 0 {
		return nil
	}
	return NewValidationError(messages...)
}

// Package notes содержит HTTP-обработчики для управления заметками.
package notes

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"gonotes/internal/notes/adapters/http/middleware"
	"gonotes/internal/notes/app"
	"gonotes/internal/notes/app/dto"
	"gonotes/internal/notes/domain/view"
	"gonotes/internal/notes/ports/api"
	"gonotes/pkg/logger"
)

// Сообщения ответов.
const (
	MsgValidationFailed = "Validation failed"
	MsgNoteNotFound     = "Note not found"
	MsgInvalidView      = `View must be "all", "archive", or "trash"`

	MsgMovedToTrash       = "Note moved to trash"
	MsgPermanentlyDeleted = "Note permanently deleted"
	MsgTrashEmptied       = "Trash emptied successfully"

	ErrMsgLoadNotes       = "Failed to load notes"
	ErrMsgCreateNote      = "Failed to create note"
	ErrMsgUpdateNote      = "Failed to update note"
	ErrMsgDeleteNote      = "Failed to delete note"
	ErrMsgPermanentDelete = "Failed to permanently delete note"
	ErrMsgEmptyTrash      = "Failed to empty trash"
	ErrMsgRestoreNote     = "Failed to restore note"
	ErrMsgArchiveNote     = "Failed to archive note"
	ErrMsgUnarchiveNote   = "Failed to unarchive note"
	ErrMsgToggleItem      = "Failed to toggle checklist item"
)

// Параметры маршрутов.
const (
	ParamNoteID = "id"
	ParamItemID = "item_id"
)

// Handler обработчик HTTP-запросов для работы с заметками.
type Handler struct {
	notes api.NoteUseCase
}

// NewHandler создает новый экземпляр обработчика заметок.
func NewHandler(notes api.NoteUseCase) *Handler {
	return &Handler{notes: notes}
}

// ListNotes возвращает всю коллекцию или, при заданных view или q, проекцию.
func (h *Handler) ListNotes(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	log := logger.Log(requestCtx).With(zap.String("handler", "Handler.ListNotes"))

	viewParam, query := ctx.Query("view"), ctx.Query("q")

	if viewParam == "" && query == "" {
		notes, err := h.notes.ListNotes(requestCtx)
		if err != nil {
			log.Error(requestCtx, ErrMsgLoadNotes, zap.Error(err))
			return respondError(ctx, err, ErrMsgLoadNotes)
		}
		log.Debug(requestCtx, "notes retrieved", zap.Int("count", len(notes)))
		return respond(ctx, fiber.StatusOK, notes)
	}

	v, err := view.ParseView(viewParam)
	if err != nil {
		return respondError(ctx, app.NewValidationError(MsgInvalidView), ErrMsgLoadNotes)
	}

	notes, err := h.notes.ProjectNotes(requestCtx, v, query)
	if err != nil {
		log.Error(requestCtx, ErrMsgLoadNotes, zap.Error(err))
		return respondError(ctx, err, ErrMsgLoadNotes)
	}

	return respond(ctx, fiber.StatusOK, notes)
}

// CountNotes возвращает количество заметок по разделам.
func (h *Handler) CountNotes(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)

	counts, err := h.notes.CountNotes(requestCtx)
	if err != nil {
		logger.Log(requestCtx).Error(requestCtx, ErrMsgLoadNotes,
			zap.String("handler", "Handler.CountNotes"), zap.Error(err))
		return respondError(ctx, err, ErrMsgLoadNotes)
	}

	return respond(ctx, fiber.StatusOK, counts)
}

// GetNote возвращает заметку по ID.
func (h *Handler) GetNote(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)

	note, err := h.notes.GetNote(requestCtx, ctx.Params(ParamNoteID))
	if err != nil {
		return respondError(ctx, err, ErrMsgLoadNotes)
	}

	return respond(ctx, fiber.StatusOK, note)
}

// CreateNote создает заметку из тела запроса.
func (h *Handler) CreateNote(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	log := logger.Log(requestCtx).With(zap.String("handler", "Handler.CreateNote"))

	patch, problems, err := dto.DecodeNotePatch(ctx.Body())
	if err != nil {
		log.Debug(requestCtx, dto.MsgMalformedBody, zap.Error(err))
		return respondError(ctx, app.NewValidationError(dto.MsgMalformedBody), ErrMsgCreateNote)
	}
	if err := app.ValidatePatch(patch, problems...); err != nil {
		return respondError(ctx, err, ErrMsgCreateNote)
	}

	note, err := h.notes.CreateNote(requestCtx, patch)
	if err != nil {
		log.Error(requestCtx, ErrMsgCreateNote, zap.Error(err))
		return respondError(ctx, err, ErrMsgCreateNote)
	}

	log.Info(requestCtx, "note created", zap.String("note_id", note.ID))
	return respond(ctx, fiber.StatusCreated, note)
}

// UpdateNote применяет частичное обновление к заметке.
func (h *Handler) UpdateNote(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	noteID := ctx.Params(ParamNoteID)
	log := logger.Log(requestCtx).With(zap.String("handler", "Handler.UpdateNote"), zap.String("note_id", noteID))

	patch, problems, err := dto.DecodeNotePatch(ctx.Body())
	if err != nil {
		log.Debug(requestCtx, dto.MsgMalformedBody, zap.Error(err))
		return respondError(ctx, app.NewValidationError(dto.MsgMalformedBody), ErrMsgUpdateNote)
	}
	if err := app.ValidatePatch(patch, problems...); err != nil {
		return respondError(ctx, err, ErrMsgUpdateNote)
	}

	note, err := h.notes.UpdateNote(requestCtx, noteID, patch)
	if err != nil {
		log.Error(requestCtx, ErrMsgUpdateNote, zap.Error(err))
		return respondError(ctx, err, ErrMsgUpdateNote)
	}

	return respond(ctx, fiber.StatusOK, note)
}

// DeleteNote перемещает заметку в корзину.
func (h *Handler) DeleteNote(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)

	if err := h.notes.DeleteNote(requestCtx, ctx.Params(ParamNoteID)); err != nil {
		logError(ctx, "Handler.DeleteNote", ErrMsgDeleteNote, err)
		return respondError(ctx, err, ErrMsgDeleteNote)
	}

	return respond(ctx, fiber.StatusOK, dto.MessageResponse{Message: MsgMovedToTrash})
}

// PermanentlyDeleteNote удаляет заметку безвозвратно.
func (h *Handler) PermanentlyDeleteNote(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)

	if err := h.notes.PermanentlyDeleteNote(requestCtx, ctx.Params(ParamNoteID)); err != nil {
		logError(ctx, "Handler.PermanentlyDeleteNote", ErrMsgPermanentDelete, err)
		return respondError(ctx, err, ErrMsgPermanentDelete)
	}

	return respond(ctx, fiber.StatusOK, dto.MessageResponse{Message: MsgPermanentlyDeleted})
}

// EmptyTrash удаляет все заметки из корзины.
func (h *Handler) EmptyTrash(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)

	removed, err := h.notes.EmptyTrash(requestCtx)
	if err != nil {
		logError(ctx, "Handler.EmptyTrash", ErrMsgEmptyTrash, err)
		return respondError(ctx, err, ErrMsgEmptyTrash)
	}

	logger.Log(requestCtx).Info(requestCtx, "trash emptied", zap.Int("deleted", removed))
	return respond(ctx, fiber.StatusOK, dto.EmptyTrashResponse{Message: MsgTrashEmptied, DeletedCount: removed})
}

// RestoreNote возвращает заметку из корзины.
func (h *Handler) RestoreNote(ctx fiber.Ctx) error {
	note, err := h.notes.RestoreNote(middleware.RequestContext(ctx), ctx.Params(ParamNoteID))
	if err != nil {
		logError(ctx, "Handler.RestoreNote", ErrMsgRestoreNote, err)
		return respondError(ctx, err, ErrMsgRestoreNote)
	}

	return respond(ctx, fiber.StatusOK, note)
}

// ArchiveNote перемещает заметку в архив.
func (h *Handler) ArchiveNote(ctx fiber.Ctx) error {
	note, err := h.notes.ArchiveNote(middleware.RequestContext(ctx), ctx.Params(ParamNoteID))
	if err != nil {
		logError(ctx, "Handler.ArchiveNote", ErrMsgArchiveNote, err)
		return respondError(ctx, err, ErrMsgArchiveNote)
	}

	return respond(ctx, fiber.StatusOK, note)
}

// UnarchiveNote возвращает заметку из архива.
func (h *Handler) UnarchiveNote(ctx fiber.Ctx) error {
	note, err := h.notes.UnarchiveNote(middleware.RequestContext(ctx), ctx.Params(ParamNoteID))
	if err != nil {
		logError(ctx, "Handler.UnarchiveNote", ErrMsgUnarchiveNote, err)
		return respondError(ctx, err, ErrMsgUnarchiveNote)
	}

	return respond(ctx, fiber.StatusOK, note)
}

// ToggleChecklistItem переключает отметку пункта чек-листа.
func (h *Handler) ToggleChecklistItem(ctx fiber.Ctx) error {
	note, err := h.notes.ToggleChecklistItem(middleware.RequestContext(ctx),
		ctx.Params(ParamNoteID), ctx.Params(ParamItemID))
	if err != nil {
		logError(ctx, "Handler.ToggleChecklistItem", ErrMsgToggleItem, err)
		return respondError(ctx, err, ErrMsgToggleItem)
	}

	return respond(ctx, fiber.StatusOK, note)
}

func respond(ctx fiber.Ctx, status int, body any) error {
	if err := ctx.Status(status).JSON(body); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// respondError отображает ошибку бизнес-логики в статус и тело ответа.
// failure используется для всех ошибок, кроме валидации и отсутствия заметки.
func respondError(ctx fiber.Ctx, err error, failure string) error {
	var vErr *app.ValidationError
	switch {
	case errors.As(err, &vErr):
		return respond(ctx, fiber.StatusBadRequest, dto.ErrorResponse{Error: MsgValidationFailed, Details: vErr.Messages})
	case errors.Is(err, app.ErrNotFound):
		return respond(ctx, fiber.StatusNotFound, dto.ErrorResponse{Error: MsgNoteNotFound})
	default:
		return respond(ctx, fiber.StatusInternalServerError, dto.ErrorResponse{Error: failure})
	}
}

func logError(ctx fiber.Ctx, handler, msg string, err error) {
	if errors.Is(err, app.ErrNotFound) {
		return
	}
	requestCtx := middleware.RequestContext(ctx)
	logger.Log(requestCtx).Error(requestCtx, msg, zap.String("handler", handler), zap.Error(err))
}

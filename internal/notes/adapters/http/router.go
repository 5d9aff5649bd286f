// Package http содержит компоненты для HTTP сервера.
package http

import (
	"github.com/gofiber/fiber/v3"

	"gonotes/internal/notes/adapters/http/middleware"
	"gonotes/internal/notes/adapters/http/notes"
	"gonotes/internal/notes/config"
	"gonotes/internal/notes/ports/api"
)

// SetupRouter настраивает маршрутизацию для HTTP сервера.
func SetupRouter(app *fiber.App, useCase api.NoteUseCase, cfg *config.Config) {
	notesHandler := notes.NewHandler(useCase)
	systemHandler := notes.NewSystemHandler(cfg.HTTP, cfg.Preferences)

	app.Use(middleware.NewRequestIDMiddleware())
	app.Use(middleware.NewLoggerMiddleware())
	app.Use(middleware.NewRecoveryMiddleware())

	apiGroup := app.Group("/api")
	apiGroup.Get("/health", systemHandler.Health)
	apiGroup.Get("/preferences", systemHandler.Preferences)

	notesRoutes := apiGroup.Group("/notes")
	// Статические пути регистрируются раньше параметризованных.
	notesRoutes.Delete("/trash/empty", notesHandler.EmptyTrash)
	notesRoutes.Get("/counts", notesHandler.CountNotes)

	notesRoutes.Get("/", notesHandler.ListNotes)
	notesRoutes.Post("/", notesHandler.CreateNote)
	notesRoutes.Get("/:id", notesHandler.GetNote)
	notesRoutes.Put("/:id", notesHandler.UpdateNote)
	notesRoutes.Patch("/:id", notesHandler.UpdateNote)
	notesRoutes.Delete("/:id", notesHandler.DeleteNote)
	notesRoutes.Delete("/:id/permanent", notesHandler.PermanentlyDeleteNote)
	notesRoutes.Put("/:id/restore", notesHandler.RestoreNote)
	notesRoutes.Put("/:id/archive", notesHandler.ArchiveNote)
	notesRoutes.Put("/:id/unarchive", notesHandler.UnarchiveNote)
	notesRoutes.Put("/:id/checklist/:item_id/toggle", notesHandler.ToggleChecklistItem)

	app.Use(notes.NotFound)
}

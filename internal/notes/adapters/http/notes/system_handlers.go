package notes

import (
	"time"

	"github.com/gofiber/fiber/v3"

	"gonotes/internal/notes/app/dto"
	"gonotes/internal/notes/config"
)

// SystemHandler отвечает на служебные запросы: состояние и настройки.
type SystemHandler struct {
	http        config.HTTPConfig
	preferences config.PreferencesConfig
	now         func() time.Time
}

// NewSystemHandler создает обработчик служебных запросов.
func NewSystemHandler(httpCfg config.HTTPConfig, preferences config.PreferencesConfig) *SystemHandler {
	return &SystemHandler{
		http:        httpCfg,
		preferences: preferences,
		now:         time.Now,
	}
}

// Health сообщает, что сервис работает.
func (h *SystemHandler) Health(ctx fiber.Ctx) error {
	return respond(ctx, fiber.StatusOK, dto.HealthResponse{
		Status:      "OK",
		Timestamp:   h.now().UTC().Format(time.RFC3339Nano),
		Environment: h.http.Environment,
		Port:        h.http.Port,
	})
}

// Preferences возвращает пользовательские настройки по умолчанию.
func (h *SystemHandler) Preferences(ctx fiber.Ctx) error {
	return respond(ctx, fiber.StatusOK, h.preferences)
}

// NotFound отвечает на неизвестные маршруты API.
func NotFound(ctx fiber.Ctx) error {
	return respond(ctx, fiber.StatusNotFound, dto.ErrorResponse{Error: "API endpoint not found"})
}

package config

import (
	"fmt"
	"time"
)

// HTTPConfig представляет конфигурацию HTTP сервера.
type HTTPConfig struct {
	Host         string        `yaml:"host" env:"NOTES_HTTP_HOST" env-default:"0.0.0.0"`
	Port         int           `yaml:"port" env:"NOTES_HTTP_PORT" env-default:"8002"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"NOTES_HTTP_READ_TIMEOUT" env-default:"5s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"NOTES_HTTP_WRITE_TIMEOUT" env-default:"10s"`
	BodyLimitMB  int           `yaml:"body_limit_mb" env:"NOTES_HTTP_BODY_LIMIT_MB" env-default:"10"`
	Environment  string        `yaml:"environment" env:"NOTES_ENV" env-default:"development"`
}

// GetAddress возвращает адрес HTTP сервера.
func (c *HTTPConfig) GetAddress() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// GetBodyLimit возвращает лимит тела запроса в байтах.
func (c *HTTPConfig) GetBodyLimit() int {
	return c.BodyLimitMB * 1024 * 1024
}

package config

// Драйверы хранилища.
const (
	DriverFile     = "file"
	DriverPostgres = "postgres"
)

// StorageConfig выбирает хранилище коллекции заметок.
type StorageConfig struct {
	Driver         string `yaml:"driver" env:"NOTES_STORAGE_DRIVER" env-default:"file"`
	FilePath       string `yaml:"file_path" env:"NOTES_STORAGE_FILE_PATH" env-default:"data/notes.json"`
	CollectionName string `yaml:"collection" env:"NOTES_STORAGE_COLLECTION" env-default:"default"`
	MigrationsPath string `yaml:"migrations_path" env:"NOTES_MIGRATIONS_PATH" env-default:"migrations/notes"`
	WatchFile      bool   `yaml:"watch_file" env:"NOTES_STORAGE_WATCH" env-default:"true"`
}

// Package file хранит коллекцию заметок в JSON-файле.
package file

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"gonotes/internal/notes/domain/entities"
	"gonotes/internal/notes/ports/repositories"
	"gonotes/pkg/logger"
)

// Константы для логирования.
const (
	LogMethodLoad = "file.load"
	LogMethodSave = "file.save"

	LogNotesLoaded = "notes loaded from file"
	LogNotesSaved  = "notes saved to file"
	LogFileMissing = "notes file does not exist, starting with empty collection"

	ErrReadFile    = "failed to read notes file"
	ErrDecodeFile  = "failed to decode notes file"
	ErrEncodeNotes = "failed to encode notes"
	ErrCreateDir   = "failed to create data directory"
	ErrWriteFile   = "failed to write notes file"
)

const (
	dirPerm  fs.FileMode = 0o755
	filePerm fs.FileMode = 0o644

	tempFilePattern = ".notes-*.tmp"
)

// NoteRepository хранит коллекцию одним JSON-массивом.
type NoteRepository struct {
	path string
}

var _ repositories.NoteRepository = (*NoteRepository)(nil)

// NewNoteRepository создает репозиторий для файла path.
// Файл и каталог создаются при первом сохранении.
func NewNoteRepository(path string) *NoteRepository {
	return &NoteRepository{path: path}
}

// Path возвращает путь к файлу коллекции.
func (r *NoteRepository) Path() string {
	return r.path
}

// Load читает коллекцию. Отсутствующий или пустой файл дает пустую коллекцию,
// неразборчивое содержимое - ошибку repositories.ErrCorruptData.
func (r *NoteRepository) Load(ctx context.Context) ([]entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", LogMethodLoad), zap.String("path", r.path))

	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Debug(ctx, LogFileMissing)
		return []entities.Note{}, nil
	}
	if err != nil {
		log.Error(ctx, ErrReadFile, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrReadFile, err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return []entities.Note{}, nil
	}

	var notes []entities.Note
	if err := json.Unmarshal(data, &notes); err != nil {
		log.Error(ctx, ErrDecodeFile, zap.Error(err))
		return nil, fmt.Errorf("%w: %s: %w", repositories.ErrCorruptData, ErrDecodeFile, err)
	}
	if notes == nil {
		notes = []entities.Note{}
	}

	log.Debug(ctx, LogNotesLoaded, zap.Int("count", len(notes)))
	return notes, nil
}

// Save атомарно заменяет файл: запись идет во временный файл в том же
// каталоге, который затем переименовывается.
func (r *NoteRepository) Save(ctx context.Context, notes []entities.Note) error {
	log := logger.Log(ctx).With(zap.String("method", LogMethodSave), zap.String("path", r.path))

	if notes == nil {
		notes = []entities.Note{}
	}

	data, err := json.MarshalIndent(notes, "", "  ")
	if err != nil {
		log.Error(ctx, ErrEncodeNotes, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrEncodeNotes, err)
	}

	if err := os.MkdirAll(filepath.Dir(r.path), dirPerm); err != nil {
		log.Error(ctx, ErrCreateDir, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrCreateDir, err)
	}

	if err := writeFileAtomic(r.path, data, filePerm); err != nil {
		log.Error(ctx, ErrWriteFile, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrWriteFile, err)
	}

	log.Debug(ctx, LogNotesSaved, zap.Int("count", len(notes)))
	return nil
}

func writeFileAtomic(path string, data []byte, perm fs.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}

	return os.Rename(tmpPath, path)
}

package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"gonotes/pkg/logger"
)

// Константы для логирования.
const (
	LogWatcherStarted = "notes file watcher started"
	LogWatcherStopped = "notes file watcher stopped"
	LogFileChanged    = "notes file changed"
	LogWatcherError   = "notes file watcher error"

	ErrCreateWatcher = "failed to create file watcher"
	ErrWatchDir      = "failed to watch data directory"
)

// ErrWatcherStarted возвращается при повторном запуске.
var ErrWatcherStarted = errors.New("watcher already started")

// Watcher следит за файлом коллекции и вызывает onChange при его изменении.
// Наблюдается каталог, так как атомарная запись заменяет файл целиком.
type Watcher struct {
	path     string
	onChange func(ctx context.Context)

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// NewWatcher создает наблюдателя за файлом path.
func NewWatcher(path string, onChange func(ctx context.Context)) *Watcher {
	return &Watcher{
		path:     filepath.Clean(path),
		onChange: onChange,
	}
}

// Start запускает наблюдение до отмены ctx или вызова Close.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.watcher != nil {
		return ErrWatcherStarted
	}

	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("%s: %w", ErrCreateDir, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("%s: %w", ErrCreateWatcher, err)
	}
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("%s: %w", ErrWatchDir, err)
	}

	w.watcher = watcher
	w.done = make(chan struct{})

	go w.run(ctx, watcher, w.done)

	logger.Log(ctx).Info(ctx, LogWatcherStarted, zap.String("path", w.path))
	return nil
}

// Close останавливает наблюдение и ждет завершения цикла событий.
func (w *Watcher) Close(ctx context.Context) error {
	w.mu.Lock()
	watcher, done := w.watcher, w.done
	w.watcher = nil
	w.mu.Unlock()

	if watcher == nil {
		return nil
	}

	err := watcher.Close()

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	logger.Log(ctx).Info(ctx, LogWatcherStopped, zap.String("path", w.path))
	return err
}

func (w *Watcher) run(ctx context.Context, watcher *fsnotify.Watcher, done chan<- struct{}) {
	defer close(done)

	log := logger.Log(ctx).With(zap.String("path", w.path))

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			log.Debug(ctx, LogFileChanged, zap.String("op", event.Op.String()))
			w.onChange(ctx)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Warn(ctx, LogWatcherError, zap.Error(err))
		}
	}
}

package prompts

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"uploadai/internal/logging"

	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 300 * time.Millisecond

// Watcher re-seeds prompts whenever the seed file changes on disk.
type Watcher struct {
	path     string
	seeder   *Seeder
	logger   logging.Logger
	watcher  *fsnotify.Watcher
	debounce time.Duration

	// reseeded is signalled after every reseed attempt; used by tests.
	reseeded chan error
	once     sync.Once
}

// NewWatcher watches the directory holding path so that editors replacing
// the file by rename are also observed.
func NewWatcher(path string, seeder *Seeder, logger logging.Logger) (*Watcher, error) {
	if logger == nil {
		logger = logging.NopLogger
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve prompt seed path: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	return &Watcher{
		path:     abs,
		seeder:   seeder,
		logger:   logger,
		watcher:  fw,
		debounce: defaultDebounce,
	}, nil
}

// Start blocks until ctx is cancelled or the underlying watcher fails.
func (w *Watcher) Start(ctx context.Context) error {
	w.logger.Info("Prompt watcher started", "file", w.path)

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			w.logger.Info("Prompt watcher stopped")
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			w.logger.Debug("Prompt seed changed", "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			_, err := w.seeder.SeedFile(ctx, w.path)
			if err != nil {
				w.logger.Error("Failed to reseed prompts", "error", err)
			}
			if w.reseeded != nil {
				select {
				case w.reseeded <- err:
				default:
				}
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error("Watcher error", "error", err)
		}
	}
}

// Stop closes the file watcher
func (w *Watcher) Stop() error {
	var err error
	w.once.Do(func() {
		err = w.watcher.Close()
	})
	return err
}

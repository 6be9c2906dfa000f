package watcher

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"docs-assistant-be/internal/pkg/logger"
)

// Reloader is the part of the corpus service the watcher drives.
type Reloader interface {
	Reload(ctx context.Context) error
}

// Watcher triggers a corpus reload when files under the corpus directory
// change. Bursts of events (editors write several files per save) collapse
// into one reload via a debounce timer.
type Watcher struct {
	dir      string
	debounce time.Duration
	reloader Reloader
	logger   logger.ILogger

	fsw  *fsnotify.Watcher
	stop chan struct{}
}

func New(dir string, debounce time.Duration, reloader Reloader, log logger.ILogger) (*Watcher, error) {
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		dir:      dir,
		debounce: debounce,
		reloader: reloader,
		logger:   log,
		fsw:      fsw,
		stop:     make(chan struct{}),
	}

	// fsnotify is not recursive; register the tree explicitly.
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return fsw.Add(path)
		}
		return nil
	})
	if err != nil {
		fsw.Close()
		return nil, err
	}

	return w, nil
}

// Run blocks until Stop is called or the context is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stop:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Op&fsnotify.Create != 0 {
				// New directories (e.g. a fresh topic) need watching too.
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = w.fsw.Add(event.Name)
				}
			}
			if !isCorpusFile(event.Name) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.debounce)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("Watcher", "Filesystem watch error", map[string]interface{}{"error": err.Error()})
		case <-timerC:
			timer = nil
			timerC = nil
			if err := w.reloader.Reload(ctx); err != nil {
				w.logger.Error("Watcher", "Reload after change failed", map[string]interface{}{"error": err.Error()})
			}
		}
	}
}

func (w *Watcher) Stop() {
	select {
	case <-w.stop:
	default:
		close(w.stop)
	}
	w.fsw.Close()
}

// isCorpusFile filters events down to the files the loader actually reads.
func isCorpusFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".md" || ext == ".json"
}

package watcher

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"dropzone/internal/logger"
	"dropzone/internal/pipeline"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher signals when a new folder shows up directly under the watch root.
// Only top-level creations are reported; the coordinator's scan decides what
// is actually new.
type Watcher struct {
	fw       *fsnotify.Watcher
	root     string
	ignore   []string
	wakeCh   chan struct{}
	doneCh   chan struct{}
	stopOnce sync.Once
}

func New(root string, ignoreList []string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	return &Watcher{
		fw:     fw,
		root:   root,
		ignore: ignoreList,
		wakeCh: make(chan struct{}, 1),
		doneCh: make(chan struct{}),
	}, nil
}

func (w *Watcher) Start() error {
	absRoot, err := filepath.Abs(w.root)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}

	if _, err := os.Stat(absRoot); err != nil {
		return fmt.Errorf("watch directory not found: %w", err)
	}

	if err := w.fw.Add(absRoot); err != nil {
		return fmt.Errorf("failed to watch %s: %w", absRoot, err)
	}

	go w.run()

	logger.Log.Info("watcher started",
		zap.String("dir", absRoot))
	return nil
}

func (w *Watcher) run() {
	for {
		select {
		case <-w.doneCh:
			logger.Log.Info("watcher stopping")
			return

		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}

			if !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Rename) {
				continue
			}
			if pipeline.ShouldIgnore(filepath.Base(ev.Name), w.ignore) {
				continue
			}

			info, err := os.Stat(ev.Name)
			if err != nil || !info.IsDir() {
				continue
			}

			logger.Log.Debug("new folder arrived",
				zap.String("path", ev.Name))

			select {
			case w.wakeCh <- struct{}{}:
			default:
			}

		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}

			logger.Log.Error("watcher error",
				zap.Error(err))
		}
	}
}

// Wake fires at most once per burst of arrivals.
func (w *Watcher) Wake() <-chan struct{} {
	return w.wakeCh
}

func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.doneCh)
		_ = w.fw.Close()
	})
}

package settings

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/max42watt/pv-calculator/econ"
)

// Watcher reloads the settings file whenever it changes on disk and hands
// the parsed result to onChange. A file that fails to parse is logged and
// ignored; the previous settings stay in effect.
type Watcher struct {
	logger   *slog.Logger
	path     string
	watcher  *fsnotify.Watcher
	onChange func(econ.ExpertSettings)
}

func NewWatcher(logger *slog.Logger, path string, onChange func(econ.ExpertSettings)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create settings watcher: %w", err)
	}

	// Watch the directory rather than the file: editors tend to replace the
	// file on save, which silently drops a watch held on the file itself.
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch settings directory: %w", err)
	}

	return &Watcher{
		logger:   logger,
		path:     path,
		watcher:  fw,
		onChange: onChange,
	}, nil
}

func (w *Watcher) Start() {
	go func() {
		for {
			select {
			case event, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != filepath.Clean(w.path) {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				w.reload()
			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				w.logger.Debug("error watching settings file", slog.Any("error", err))
			}
		}
	}()
}

func (w *Watcher) reload() {
	s, err := Load(w.path)
	if err != nil {
		w.logger.Error("error reloading settings, keeping previous values", slog.Any("error", err))
		return
	}
	w.logger.Info("expert settings reloaded", slog.String("file", w.path))
	w.onChange(s)
}

func (w *Watcher) Close() error {
	return w.watcher.Close()
}

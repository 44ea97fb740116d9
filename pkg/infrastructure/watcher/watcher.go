package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Operation is the kind of change observed on an input file
type Operation int

const (
	FileCreated Operation = iota
	FileModified
	FileDeleted
)

// String method for Operation enum
func (o Operation) String() string {
	switch o {
	case FileCreated:
		return "created"
	case FileModified:
		return "modified"
	case FileDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// Event is one change to a watched input
type Event struct {
	Path      string
	Operation Operation
}

// Watcher reports changes to input files and directories
type Watcher struct {
	watcher    *fsnotify.Watcher
	extensions []string
	files      map[string]bool // explicitly watched files
	dirs       map[string]bool // directories whose matching files are all watched
	logger     *zap.Logger
}

// NewWatcher creates a new file watcher. Files inside watched directories
// are reported when their extension is listed.
func NewWatcher(extensions []string, logger *zap.Logger) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(extensions) == 0 {
		extensions = []string{".csv", ".xlsx", ".yaml", ".yml"}
	}

	return &Watcher{
		watcher:    w,
		extensions: extensions,
		files:      make(map[string]bool),
		dirs:       make(map[string]bool),
		logger:     logger,
	}, nil
}

// Add registers a file or directory. Files are watched through their parent
// directory so that editors replacing the file do not drop the watch.
func (w *Watcher) Add(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}

	dir := abs
	if info.IsDir() {
		w.dirs[abs] = true
	} else {
		w.files[abs] = true
		dir = filepath.Dir(abs)
	}
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	return nil
}

// AddFile registers a single file that may not exist yet, such as a
// database write-ahead log. Its parent directory must exist.
func (w *Watcher) AddFile(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	dir := filepath.Dir(abs)
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	w.files[abs] = true
	return nil
}

// Watch starts monitoring the registered paths and emits events.
func (w *Watcher) Watch(ctx context.Context) <-chan Event {
	events := make(chan Event, 100)

	go func() {
		defer close(events)
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				if !w.isWatched(event.Name) {
					continue
				}

				var op Operation
				switch {
				case event.Op&fsnotify.Create == fsnotify.Create:
					op = FileCreated
				case event.Op&fsnotify.Write == fsnotify.Write:
					op = FileModified
				case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
					op = FileDeleted
				default:
					continue
				}

				select {
				case events <- Event{Path: event.Name, Operation: op}:
				case <-ctx.Done():
					return
				}
			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				w.logger.Warn("file watcher error", zap.Error(err))
			}
		}
	}()

	return events
}

// Stop stops the watcher.
func (w *Watcher) Stop() error {
	return w.watcher.Close()
}

// isWatched checks whether a changed path is one of ours
func (w *Watcher) isWatched(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	if w.files[abs] {
		return true
	}
	base := filepath.Base(abs)
	if strings.HasPrefix(base, "~$") || strings.HasPrefix(base, ".") {
		return false
	}
	if !w.dirs[filepath.Dir(abs)] {
		return false
	}
	ext := filepath.Ext(abs)
	for _, e := range w.extensions {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}

// Debounce coalesces bursts of events into a single signal emitted once no
// event has arrived for delay. The output closes when events closes.
func Debounce(ctx context.Context, events <-chan Event, delay time.Duration) <-chan []Event {
	out := make(chan []Event)

	go func() {
		defer close(out)
		var pending []Event
		var timer *time.Timer
		var fire <-chan time.Time

		for {
			select {
			case <-ctx.Done():
				if timer != nil {
					timer.Stop()
				}
				return
			case ev, ok := <-events:
				if !ok {
					if timer != nil {
						timer.Stop()
					}
					return
				}
				pending = append(pending, ev)
				if timer == nil {
					timer = time.NewTimer(delay)
				} else {
					timer.Reset(delay)
				}
				fire = timer.C
			case <-fire:
				fire = nil
				batch := pending
				pending = nil
				select {
				case out <- batch:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out
}

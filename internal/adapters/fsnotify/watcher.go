// Package fsnotify implements the ports.TableWatcher interface using github.com/fsnotify/fsnotify.
// It watches the directory containing the unit table (editors and config
// management tools usually replace files by rename, which a watch on the file
// itself would lose), filters events down to the table file, and debounces
// bursts of writes into one callback after the file settles.
package fsnotify

import (
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultDebounce is the quiet period after the last event before onChange fires.
const DefaultDebounce = 100 * time.Millisecond

// Watcher implements ports.TableWatcher using fsnotify.
type Watcher struct {
	fw       *fsnotify.Watcher
	log      zerolog.Logger
	debounce time.Duration
	done     chan struct{}
	stopped  bool
	watching bool
	mu       sync.Mutex
	timer    *time.Timer
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithLogger sets the logger used for watch errors.
func WithLogger(l zerolog.Logger) Option { return func(w *Watcher) { w.log = l } }

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) Option { return func(w *Watcher) { w.debounce = d } }

// NewWatcher creates a new file system watcher.
func NewWatcher(opts ...Option) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		fw:       fw,
		log:      zerolog.Nop(),
		debounce: DefaultDebounce,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Watch starts monitoring the table file at path.
// onChange is called with the absolute path once writes have settled.
func (w *Watcher) Watch(path string, onChange func(filePath string)) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return errors.New("watcher stopped")
	}
	if w.watching {
		return errors.New("watcher already active")
	}
	if err := w.fw.Add(filepath.Dir(absPath)); err != nil {
		return err
	}
	w.watching = true

	go w.loop(absPath, onChange)
	return nil
}

func (w *Watcher) loop(absPath string, onChange func(string)) {
	fire := func() {
		select {
		case <-w.done:
		default:
			onChange(absPath)
		}
	}

	for {
		select {
		case event, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != absPath {
				continue
			}
			// Removal and rename away leave nothing to load.
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			w.mu.Lock()
			if w.timer == nil {
				w.timer = time.AfterFunc(w.debounce, fire)
			} else {
				w.timer.Reset(w.debounce)
			}
			w.mu.Unlock()

		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			w.log.Warn().Err(err).Str("path", absPath).Msg("table watch error")

		case <-w.done:
			return
		}
	}
}

// Stop ends monitoring and releases all resources.
// Safe to call multiple times.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}
	w.stopped = true
	if w.timer != nil {
		w.timer.Stop()
	}
	close(w.done)
	return w.fw.Close()
}

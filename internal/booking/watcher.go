package booking

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const watchDebounce = 100 * time.Millisecond

// Watcher reports writes to the outbox file. It watches the parent
// directory so the outbox need not exist yet.
type Watcher struct {
	watcher *fsnotify.Watcher
	path    string
	events  chan string
	logger  *zap.Logger

	mu     sync.Mutex
	timer  *time.Timer
	closed bool
	done   chan struct{}
	wg     sync.WaitGroup
}

func NewWatcher(path string, logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(absPath)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, err
	}

	w := &Watcher{
		watcher: fw,
		path:    absPath,
		events:  make(chan string, 1),
		logger:  logger,
		done:    make(chan struct{}),
	}

	w.wg.Add(1)
	go w.watch()
	return w, nil
}

// Events delivers the outbox path after each debounced change. Changes that
// arrive while a notification is still unread are coalesced.
func (w *Watcher) Events() <-chan string {
	return w.events
}

func (w *Watcher) watch() {
	defer w.wg.Done()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				w.schedule()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("outbox watch error", zap.Error(err))

		case <-w.done:
			return
		}
	}
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(watchDebounce, w.notify)
}

func (w *Watcher) notify() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	select {
	case w.events <- w.path:
	default:
	}
}

// Close stops watching. Events is not closed so pending receivers simply
// stop seeing updates.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	close(w.done)
	err := w.watcher.Close()
	w.wg.Wait()
	return err
}

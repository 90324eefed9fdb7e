package invoice

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports changes to a book file made by other processes (or by
// the book itself). Notifications are coalesced: a pending signal is never
// duplicated.
type Watcher struct {
	changes chan struct{}
	errs    chan error
	fsw     *fsnotify.Watcher
	done    chan struct{}
}

// Watch starts watching the directory that holds path. The watcher stops
// when ctx is cancelled or Close is called.
func Watch(ctx context.Context, path string) (*Watcher, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("invoice: ensure watch dir: %w", err)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("invoice: create watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("invoice: watch %s: %w", dir, err)
	}
	w := &Watcher{
		changes: make(chan struct{}, 1),
		errs:    make(chan error, 1),
		fsw:     fsw,
		done:    make(chan struct{}),
	}
	go w.loop(ctx, filepath.Base(path))
	return w, nil
}

// Changes delivers one value per burst of writes to the book file.
func (w *Watcher) Changes() <-chan struct{} {
	return w.changes
}

// Errors delivers watcher failures. Only the most recent undelivered error
// is kept.
func (w *Watcher) Errors() <-chan error {
	return w.errs
}

// Done is closed once the watcher has stopped.
func (w *Watcher) Done() <-chan struct{} {
	return w.done
}

// Close stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Close() error {
	if w == nil {
		return nil
	}
	err := w.fsw.Close()
	<-w.done
	return err
}

func (w *Watcher) loop(ctx context.Context, name string) {
	defer close(w.done)
	for {
		select {
		case <-ctx.Done():
			_ = w.fsw.Close()
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
				continue
			}
			select {
			case w.changes <- struct{}{}:
			default:
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			select {
			case w.errs <- err:
			default:
			}
		}
	}
}

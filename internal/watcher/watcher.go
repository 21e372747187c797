package watcher

import (
	"context"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher calls onChange after a file has been written and then left
// alone for the debounce interval
type Watcher struct {
	path     string
	onChange func(ctx context.Context)
	debounce time.Duration
}

// New creates a new file watcher
func New(path string, onChange func(ctx context.Context)) *Watcher {
	return &Watcher{
		path:     path,
		onChange: onChange,
		debounce: 500 * time.Millisecond,
	}
}

// WithDebounce sets the debounce duration
func (w *Watcher) WithDebounce(d time.Duration) *Watcher {
	if d > 0 {
		w.debounce = d
	}
	return w
}

// Watch blocks until ctx is cancelled or the watcher fails. The parent
// directory is watched so editors that replace the file are noticed.
func (w *Watcher) Watch(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()

	dir := filepath.Dir(w.path)
	filename := filepath.Base(w.path)

	if err := fsw.Add(dir); err != nil {
		return err
	}

	log.Printf("Watching %s for changes", w.path)

	var (
		mu    sync.Mutex
		timer *time.Timer
		wg    sync.WaitGroup
	)
	defer func() {
		mu.Lock()
		if timer != nil && timer.Stop() {
			wg.Done()
		}
		mu.Unlock()
		wg.Wait()
	}()

	fire := func() {
		defer wg.Done()
		log.Printf("File changed: %s", w.path)
		w.onChange(ctx)
	}

	for {
		select {
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != filename {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			mu.Lock()
			if timer == nil || !timer.Stop() {
				wg.Add(1)
			}
			timer = time.AfterFunc(w.debounce, fire)
			mu.Unlock()

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			log.Printf("Watcher error: %v", err)

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

package schedule

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/djjrip/ggloop-bots/internal/store"
	"github.com/fsnotify/fsnotify"
)

// Watch calls fn each time the file at path is written or replaced, until ctx is done.
//
// It watches the parent directory, because editors and store.WriteJSON replace files by rename.
// The directory is created if it does not exist.
// fn is called on the watching goroutine, and that goroutine is added to wg.
func Watch(ctx context.Context, path string, log store.Logger, wg *sync.WaitGroup, fn func()) error {
	path = filepath.Clean(path)
	dir := filepath.Dir(path)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return err
	}

	log = log.WithScope("scheduler:watch")

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != path {
					continue
				}
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
					log.Debug("file changed", map[string]interface{}{"path": path, "op": event.Op.String()})
					fn()
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.WarnError("failed to watch file", err)
			}
		}
	}()

	return nil
}

// Package watch triggers a reload when JSON documents in the data
// directory change.
package watch

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	appLog "wildsl/internal/log"
)

// DefaultDebounce coalesces editor save bursts into one reload.
const DefaultDebounce = 500 * time.Millisecond

// Dir watches dir until ctx is cancelled and calls onChange once per burst
// of .json writes, creates, removes or renames. It returns after the
// watcher is closed and no onChange call is in flight.
func Dir(ctx context.Context, dir string, debounce time.Duration, onChange func()) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return err
	}
	appLog.Info("watching data dir", "dir", dir)

	var (
		mu      sync.Mutex
		timer   *time.Timer
		pending sync.WaitGroup
	)
	defer func() {
		mu.Lock()
		if timer != nil && timer.Stop() {
			pending.Done()
		}
		mu.Unlock()
		pending.Wait()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(ev) {
				continue
			}
			appLog.Debug("data change detected", "file", filepath.Base(ev.Name), "op", ev.Op.String())

			mu.Lock()
			if timer != nil && timer.Stop() {
				pending.Done()
			}
			pending.Add(1)
			timer = time.AfterFunc(debounce, func() {
				defer pending.Done()
				if ctx.Err() != nil {
					return
				}
				appLog.Info("reloading data after change", "dir", dir)
				onChange()
			})
			mu.Unlock()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			appLog.Error("data watcher error", err, "dir", dir)
		}
	}
}

func relevant(ev fsnotify.Event) bool {
	if !strings.EqualFold(filepath.Ext(ev.Name), ".json") {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename)
}

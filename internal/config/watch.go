package config

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"agentforge/internal/logging"
)

// Watch re-reads the logging settings whenever config.yaml changes, so a log
// level flipped from a second terminal takes effect while the TUI is open.
// Other settings are read once at startup and are not live-reloaded. The
// optional onReload hook runs on the watcher goroutine after each successful
// reload. Returns a stop function.
func Watch(path string, onReload func()) (func(), error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// Watch the directory, not the file: editors and Save replace the file,
	// which drops a file-level watch.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, err
	}

	done := make(chan struct{})
	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(event.Name) != filepath.Base(path) {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if err := logging.ReloadConfig(); err != nil {
					logging.BootError("logging reload failed: %v", err)
					continue
				}
				logging.Boot("logging settings reloaded from %s", path)
				if onReload != nil {
					onReload()
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logging.BootError("config watcher: %v", err)
			case <-done:
				return
			}
		}
	}()

	return func() {
		close(done)
		watcher.Close()
	}, nil
}

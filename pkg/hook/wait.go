package hook

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ErrWaitTimeout is returned when the artifact does not appear within the
// wait timeout.
var ErrWaitTimeout = errors.New("timed out waiting for build artifact")

// WaitForArtifact blocks until the file at path exists or the timeout
// lapses. It returns immediately when the file is already present. The wait
// watches the file's parent directory, which must already exist.
func WaitForArtifact(path string, timeout time.Duration) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create artifact watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch artifact directory %s: %w", dir, err)
	}

	// Re-check after the watch is in place; the artifact may have landed
	// between the first stat and the Add.
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	slog.Debug("waiting for build artifact",
		slog.String("path", path),
		slog.Duration("timeout", timeout))

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("artifact watcher closed while waiting for %s", path)
			}
			if event.Name != path {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0 {
				if _, err := os.Stat(path); err == nil {
					return nil
				}
			}
		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("artifact watcher closed while waiting for %s", path)
			}
			return fmt.Errorf("artifact watcher failed: %w", watchErr)
		case <-timer.C:
			return fmt.Errorf("%w: %s", ErrWaitTimeout, path)
		}
	}
}

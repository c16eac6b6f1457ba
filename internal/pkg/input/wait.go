package input

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/gethiox/padswap/internal/pkg/logger"
	"go.uber.org/zap"
)

// WaitForNode blocks until device node under given path exists.
// It returns immediately when the node is already present.
func WaitForNode(ctx context.Context, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher failed: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(path)
	err = watcher.Add(dir)
	if err != nil {
		return fmt.Errorf("watching \"%s\" failed: %w", dir, err)
	}

	// checked after watcher registration, node may appear in between
	_, err = os.Stat(path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return err
	}

	log.Info("Waiting for device to appear", zap.String("device", path), logger.Info)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return errors.New("watcher closed")
			}
			if event.Op&fsnotify.Create == 0 || filepath.Clean(event.Name) != filepath.Clean(path) {
				continue
			}
			log.Info("Device appeared", zap.String("device", path), logger.Debug)
			return nil
		case err, ok := <-watcher.Errors:
			if !ok {
				return errors.New("watcher closed")
			}
			return fmt.Errorf("watching \"%s\" failed: %w", dir, err)
		}
	}
}

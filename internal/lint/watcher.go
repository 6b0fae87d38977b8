package lint

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"

	"workspace-registry-service/internal/workspace"
)

// Watcher re-lints a workspace whenever packages/ or bin/ change. Events are
// debounced because editors fire bursts of writes and renames.
type Watcher struct {
	root         string
	linter       *Linter
	onResult     func(*Result)
	debounceTime time.Duration
}

func NewWatcher(root string, linter *Linter, onResult func(*Result)) *Watcher {
	return &Watcher{
		root:         root,
		linter:       linter,
		onResult:     onResult,
		debounceTime: 500 * time.Millisecond,
	}
}

// Run lints once immediately, then blocks relinting on change until the
// context is canceled.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	if err := w.addWatchDirs(fw); err != nil {
		return err
	}

	w.lintOnce()

	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	fire := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			// New directories need their own watch
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = fw.Add(event.Name)
				}
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(w.debounceTime, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})

		case <-fire:
			w.lintOnce()

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			log.WithError(err).Warn("watch error")
		}
	}
}

func (w *Watcher) addWatchDirs(fw *fsnotify.Watcher) error {
	for _, top := range []string{"packages", "bin"} {
		dir := filepath.Join(w.root, top)
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if d.IsDir() && !strings.HasPrefix(d.Name(), ".") {
				return fw.Add(path)
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	return nil
}

func (w *Watcher) lintOnce() {
	ws, err := workspace.Scan(w.root)
	if err != nil {
		log.WithError(err).Error("workspace scan failed")
		return
	}
	w.onResult(w.linter.Run(ws))
}

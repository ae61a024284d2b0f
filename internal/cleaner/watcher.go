package cleaner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/whosreal/internal/ports"
)

// DefaultDebounce is how long the watcher waits for a burst of writes to settle.
const DefaultDebounce = 500 * time.Millisecond

// Watcher cleans raw files as the generator writes them.
// Every pass runs with SkipExisting so rewritten files do not duplicate the pool.
type Watcher struct {
	cleaner  *Cleaner
	opts     Options
	debounce time.Duration
	logger   ports.Logger

	ready  chan struct{}
	onPass func(Result, error)
}

// NewWatcher creates a watcher over opts.RawDir.
func NewWatcher(c *Cleaner, opts Options, debounce time.Duration, logger ports.Logger) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	opts.SkipExisting = true
	return &Watcher{
		cleaner:  c,
		opts:     opts,
		debounce: debounce,
		logger:   logger,
		ready:    make(chan struct{}),
	}
}

// Ready is closed once the raw tree is being watched.
func (w *Watcher) Ready() <-chan struct{} {
	return w.ready
}

// Run watches the raw tree until ctx is canceled.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := w.addTree(watcher, w.opts.RawDir, nil); err != nil {
		return fmt.Errorf("watch %s: %w", w.opts.RawDir, err)
	}
	close(w.ready)
	w.logger.Info("watching raw dir", ports.String("dir", w.opts.RawDir))

	pending := make(map[string]struct{})
	var (
		timer  *time.Timer
		timerC <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	schedule := func(path string) {
		pending[path] = struct{}{}
		if timer == nil {
			timer = time.NewTimer(w.debounce)
		} else {
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(w.debounce)
		}
		timerC = timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					// Files may land in the new directory before its watch is added.
					if err := w.addTree(watcher, event.Name, schedule); err != nil {
						w.logger.Warn("watch new dir", ports.String("dir", event.Name), ports.Err(err))
					}
					continue
				}
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if isRawFile(event.Name, w.opts) {
				schedule(event.Name)
			}

		case <-timerC:
			timerC = nil
			w.flush(ctx, pending)
			pending = make(map[string]struct{})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watcher error", ports.Err(err))
		}
	}
}

func (w *Watcher) flush(ctx context.Context, pending map[string]struct{}) {
	files := make([]string, 0, len(pending))
	for f := range pending {
		files = append(files, f)
	}
	sort.Strings(files)

	res, err := w.cleaner.CleanFiles(ctx, w.opts, files)
	if err != nil {
		w.logger.Error("clean changed files", ports.Int("files", len(files)), ports.Err(err))
	}
	if w.onPass != nil {
		w.onPass(res, err)
	}
}

// addTree watches root and every directory below it. When found is set it
// receives the raw files already present.
func (w *Watcher) addTree(watcher *fsnotify.Watcher, root string, found func(string)) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		if found != nil && isRawFile(path, w.opts) {
			found(path)
		}
		return nil
	})
}

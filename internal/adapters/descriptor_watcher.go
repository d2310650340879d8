package adapters

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"

	"rosiface/internal/ports"
	"rosiface/internal/shared"
)

const defaultWatchDebounce = 250 * time.Millisecond

// DescriptorWatcherAdapter watches descriptor files and directories and
// emits debounced batches of changed descriptor paths.
type DescriptorWatcherAdapter struct {
	Debounce time.Duration
}

func NewDescriptorWatcherAdapter(debounce time.Duration) DescriptorWatcherAdapter {
	if debounce <= 0 {
		debounce = defaultWatchDebounce
	}
	return DescriptorWatcherAdapter{Debounce: debounce}
}

// Watch starts watching paths. The returned channel is closed once ctx is
// done.
func (a DescriptorWatcherAdapter) Watch(ctx context.Context, paths []string) (<-chan []string, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create file watcher").
			WithCause(err)
	}
	explicit := map[string]struct{}{}
	for _, path := range shared.CleanStrings(paths) {
		dirs, file, err := watchTargets(path)
		if err != nil {
			_ = fsw.Close()
			return nil, err
		}
		if file != "" {
			explicit[file] = struct{}{}
		}
		for _, dir := range dirs {
			if err := fsw.Add(dir); err != nil {
				_ = fsw.Close()
				return nil, errbuilder.New().
					WithCode(errbuilder.CodeInternal).
					WithMsg("failed to watch " + dir).
					WithCause(err)
			}
		}
	}

	out := make(chan []string)
	loop := &watchLoop{
		fsw:      fsw,
		debounce: a.Debounce,
		explicit: explicit,
		pending:  map[string]struct{}{},
		out:      out,
	}
	go loop.run(ctx)
	return out, nil
}

// watchTargets returns the directories to watch for path and, when path is
// a file, the cleaned file path itself.
func watchTargets(path string) ([]string, string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, "", errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("descriptor path not found: " + path).
			WithCause(err)
	}
	if !info.IsDir() {
		file := filepath.Clean(path)
		return []string{filepath.Dir(file)}, file, nil
	}
	var dirs []string
	err = filepath.WalkDir(path, func(current string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if current != path && shouldSkipDescriptorDir(d.Name()) {
			return filepath.SkipDir
		}
		dirs = append(dirs, current)
		return nil
	})
	if err != nil {
		return nil, "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to scan descriptor directory").
			WithCause(err)
	}
	return dirs, "", nil
}

type watchLoop struct {
	fsw      *fsnotify.Watcher
	debounce time.Duration
	explicit map[string]struct{}
	pending  map[string]struct{}
	out      chan []string
}

func (w *watchLoop) run(ctx context.Context) {
	defer close(w.out)
	defer w.fsw.Close()

	var timer *time.Timer
	timerC := func() <-chan time.Time {
		if timer != nil {
			return timer.C
		}
		return nil
	}

	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.track(event)
			if len(w.pending) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				continue
			}
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(w.debounce)

		case <-timerC():
			timer = nil
			batch := w.flush()
			if len(batch) == 0 {
				continue
			}
			select {
			case w.out <- batch:
			case <-ctx.Done():
				return
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Ctx(ctx).Warn().Err(err).Msg("descriptor watcher error")

		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

func (w *watchLoop) track(event fsnotify.Event) {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}
	name := filepath.Clean(event.Name)
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(name); err == nil && info.IsDir() && !shouldSkipDescriptorDir(filepath.Base(name)) {
			_ = w.fsw.Add(name)
			return
		}
	}
	if _, ok := w.explicit[name]; ok || shared.IsDescriptorFile(name) {
		w.pending[name] = struct{}{}
	}
}

func (w *watchLoop) flush() []string {
	batch := make([]string, 0, len(w.pending))
	for path := range w.pending {
		batch = append(batch, path)
	}
	w.pending = map[string]struct{}{}
	sort.Strings(batch)
	return batch
}

var _ ports.DescriptorWatcherPort = DescriptorWatcherAdapter{}

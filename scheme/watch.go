package scheme

import (
	"maps"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// settleDelay is how long a directory must stay quiet before the files written
// during a burst are reported.
const settleDelay = 100 * time.Millisecond

// Change is a scheme or script file that was written, created, renamed or
// removed. Scheme is empty for scripts since any scheme may reference one.
type Change struct {
	Path   string
	Scheme string
}

// Watcher reports scheme and script files that changed on disk. Consumers build a
// fresh Scheme and world from the new file; a running world is never touched.
//
// An editor save usually produces several events for one file. They are held
// until the directories settle, then each file is reported once, so the last
// write of a burst is always the one a consumer reads.
type Watcher struct {
	fs      *fsnotify.Watcher
	Changes chan Change
	Errors  chan error

	stop      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once
	closeErr  error
}

// NewWatcher watches each directory (not recursively).
func NewWatcher(dirs ...string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			_ = fsw.Close()
			return nil, err
		}
	}

	w := &Watcher{
		fs:      fsw,
		Changes: make(chan Change, 16),
		Errors:  make(chan error, 1),
		stop:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Close stops the watcher and closes Changes and Errors. It waits for the run
// goroutine to exit before closing them, since that goroutine is their only
// sender. Later calls return the first call's error.
func (w *Watcher) Close() error {
	w.closeOnce.Do(func() {
		close(w.stop)
		w.closeErr = w.fs.Close()
		<-w.stopped
		close(w.Changes)
		close(w.Errors)
	})
	return w.closeErr
}

func (w *Watcher) run() {
	defer close(w.stopped)

	pending := make(map[string]struct{})
	settle := time.NewTimer(settleDelay)
	settle.Stop()
	defer settle.Stop()

	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !watched(ev) {
				continue
			}
			pending[ev.Name] = struct{}{}
			settle.Reset(settleDelay)

		case <-settle.C:
			for _, path := range slices.Sorted(maps.Keys(pending)) {
				select {
				case w.Changes <- Change{Path: path, Scheme: SchemeName(path)}:
				case <-w.stop:
					return
				}
			}
			clear(pending)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			case <-w.stop:
				return
			}

		case <-w.stop:
			return
		}
	}
}

func watched(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Remove) {
		return false
	}
	return isSpecFile(ev.Name) || strings.EqualFold(filepath.Ext(ev.Name), ".tengo")
}

// SchemeName maps a changed file back to the scheme name it belongs to. Script
// changes return "".
func SchemeName(path string) string {
	if !isSpecFile(path) {
		return ""
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

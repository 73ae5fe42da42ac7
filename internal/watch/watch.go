// Package watch reports changes to source files using OS-native
// notifications.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Op is a set of file operations
type Op uint8

const (
	OpCreate Op = 1 << iota
	OpWrite
	OpRemove
	OpRename
)

func (op Op) String() string {
	var parts []string
	if op&OpCreate != 0 {
		parts = append(parts, "create")
	}
	if op&OpWrite != 0 {
		parts = append(parts, "write")
	}
	if op&OpRemove != 0 {
		parts = append(parts, "remove")
	}
	if op&OpRename != 0 {
		parts = append(parts, "rename")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// Event is a change to one source file
type Event struct {
	Path string
	Op   Op
}

// Watcher delivers events for files whose extension is in its filter.
// Directories given to Add are watched non-recursively.
type Watcher struct {
	w    *fsnotify.Watcher
	exts map[string]bool
	evC  chan Event
	erC  chan error
	done chan struct{}
}

// New creates a watcher for files with one of the given extensions
// (".lua", ".luma"). No extensions means every file.
func New(exts ...string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	fw := &Watcher{
		w:    w,
		exts: make(map[string]bool, len(exts)),
		evC:  make(chan Event, 128),
		erC:  make(chan error, 1),
		done: make(chan struct{}),
	}
	for _, e := range exts {
		fw.exts[strings.ToLower(e)] = true
	}
	go fw.loop()
	return fw, nil
}

func (fw *Watcher) loop() {
	defer close(fw.evC)
	for {
		select {
		case ev, ok := <-fw.w.Events:
			if !ok {
				return
			}
			if !fw.Matches(ev.Name) {
				continue
			}
			op := translate(ev.Op)
			if op == 0 {
				continue
			}
			select {
			case fw.evC <- Event{Path: ev.Name, Op: op}:
			case <-fw.done:
				return
			}
		case err, ok := <-fw.w.Errors:
			if !ok {
				return
			}
			select {
			case fw.erC <- err:
			default:
			}
		case <-fw.done:
			return
		}
	}
}

func translate(in fsnotify.Op) Op {
	var op Op
	if in&fsnotify.Create != 0 {
		op |= OpCreate
	}
	if in&fsnotify.Write != 0 {
		op |= OpWrite
	}
	if in&fsnotify.Remove != 0 {
		op |= OpRemove
	}
	if in&fsnotify.Rename != 0 {
		op |= OpRename
	}
	return op
}

// Matches reports whether path passes the extension filter
func (fw *Watcher) Matches(path string) bool {
	if len(fw.exts) == 0 {
		return true
	}
	return fw.exts[strings.ToLower(filepath.Ext(path))]
}

// Add watches a file or directory. A file is watched through its
// directory so editors that replace files on save keep being followed.
func (fw *Watcher) Add(name string) error {
	info, err := os.Stat(name)
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", name, err)
	}
	dir := name
	if !info.IsDir() {
		dir = filepath.Dir(name)
	}
	if err := fw.w.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", name, err)
	}
	return nil
}

func (fw *Watcher) Events() <-chan Event { return fw.evC }
func (fw *Watcher) Errors() <-chan error { return fw.erC }

// Close stops the watcher and closes the event channel
func (fw *Watcher) Close() error {
	select {
	case <-fw.done:
		return nil
	default:
	}
	close(fw.done)
	return fw.w.Close()
}

// Batch collects events until no new one arrives for quiet, then calls fn
// with the changed paths, deduplicated and in arrival order. Removed files
// are left out. Batch returns when ctx is done or the watcher is closed.
func (fw *Watcher) Batch(ctx context.Context, quiet time.Duration, fn func(paths []string)) error {
	var (
		pending []string
		seen    = make(map[string]bool)
		timer   *time.Timer
		fire    <-chan time.Time
	)
	flush := func() {
		if len(pending) > 0 {
			fn(pending)
		}
		pending = nil
		seen = make(map[string]bool)
		fire = nil
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-fw.evC:
			if !ok {
				flush()
				return nil
			}
			if ev.Op&OpRemove != 0 {
				continue
			}
			if !seen[ev.Path] {
				seen[ev.Path] = true
				pending = append(pending, ev.Path)
			}
			if timer == nil {
				timer = time.NewTimer(quiet)
			} else {
				timer.Reset(quiet)
			}
			fire = timer.C
		case <-fire:
			flush()
		case err := <-fw.erC:
			return fmt.Errorf("watch failed: %w", err)
		}
	}
}

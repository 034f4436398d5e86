// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package watch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/assetrc/pkg/fileset"
)

// 📣 ChangeEvent is one debounced change to a path
type ChangeEvent struct {
	Type    EventType
	Path    string // relative to the watched root, unix style
	ModTime time.Time
	Size    int64
}

// EventType represents the type of file change
type EventType int

const (
	EventTypeCreated EventType = iota
	EventTypeModified
	EventTypeDeleted
	EventTypeRenamed
)

// String returns the string representation of the EventType
func (e EventType) String() string {
	switch e {
	case EventTypeCreated:
		return "created"
	case EventTypeModified:
		return "modified"
	case EventTypeDeleted:
		return "deleted"
	case EventTypeRenamed:
		return "renamed"
	default:
		return "unknown"
	}
}

// Filter decides whether a path is reported
type Filter func(path string) bool

// Handler receives each debounced batch of changes
type Handler func(ctx context.Context, events []ChangeEvent) error

// GlobFilter reports paths matched by an ordered, negation aware glob list
func GlobFilter(patterns []string) Filter {
	return func(path string) bool {
		return fileset.Match(patterns, path)
	}
}

// 👀 Watcher watches a directory tree and hands batches of changes to its
// handlers once the tree has been quiet for the debounce delay.
type Watcher struct {
	fsw      *fsnotify.Watcher
	root     string
	debounce time.Duration

	mu       sync.RWMutex
	filters  []Filter
	handlers []Handler
}

// New creates a watcher for everything below root
func New(root string, debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Errorf("creating watcher: %w", err)
	}

	w := &Watcher{
		fsw:      fsw,
		root:     filepath.Clean(root),
		debounce: debounce,
	}
	if err := w.addRecursive(w.root); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// AddFilter adds a file filter. A path must pass every filter.
func (w *Watcher) AddFilter(f Filter) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.filters = append(w.filters, f)
}

// AddHandler adds a change handler
func (w *Watcher) AddHandler(h Handler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers = append(w.handlers, h)
}

// Close stops watching
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

func (w *Watcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.fsw.Add(path); err != nil {
			return errors.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}

func (w *Watcher) rel(name string) string {
	rel, err := fileset.Rel(w.root, name)
	if err != nil {
		return fileset.Unixify(name)
	}
	return rel
}

func (w *Watcher) accept(path string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, f := range w.filters {
		if !f(path) {
			return false
		}
	}
	return true
}

func eventType(op fsnotify.Op) (EventType, bool) {
	switch {
	case op.Has(fsnotify.Create):
		return EventTypeCreated, true
	case op.Has(fsnotify.Write):
		return EventTypeModified, true
	case op.Has(fsnotify.Remove):
		return EventTypeDeleted, true
	case op.Has(fsnotify.Rename):
		return EventTypeRenamed, true
	default:
		return 0, false
	}
}

// merge folds a newer event for the same path into the pending one. The
// second result is false when the two cancel out.
func merge(prev, next ChangeEvent) (ChangeEvent, bool) {
	switch {
	case prev.Type == EventTypeCreated && (next.Type == EventTypeDeleted || next.Type == EventTypeRenamed):
		return ChangeEvent{}, false
	case prev.Type == EventTypeCreated:
		next.Type = EventTypeCreated
	case (prev.Type == EventTypeDeleted || prev.Type == EventTypeRenamed) && next.Type == EventTypeCreated:
		next.Type = EventTypeModified
	}
	return next, true
}

// Run delivers batches until ctx is done or a handler reports
// ErrStructureChanged. Other handler errors are logged.
func (w *Watcher) Run(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)

	pending := map[string]ChangeEvent{}
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn().Err(err).Msg("file watcher error")

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			typ, ok := eventType(ev.Op)
			if !ok {
				continue
			}

			var ce ChangeEvent
			ce.Type = typ
			ce.Path = w.rel(ev.Name)
			if info, err := os.Stat(ev.Name); err == nil {
				ce.ModTime = info.ModTime()
				ce.Size = info.Size()
				if typ == EventTypeCreated && info.IsDir() {
					if err := w.addRecursive(ev.Name); err != nil {
						logger.Warn().Err(err).Str("dir", ce.Path).Msg("watching new directory")
					}
				}
			}

			if !w.accept(ce.Path) {
				continue
			}
			logger.Trace().Str("path", ce.Path).Stringer("type", ce.Type).Msg("file event")

			if prev, ok := pending[ce.Path]; ok {
				merged, keep := merge(prev, ce)
				if !keep {
					delete(pending, ce.Path)
					continue
				}
				ce = merged
			}
			pending[ce.Path] = ce
			timer.Reset(w.debounce)

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			events := make([]ChangeEvent, 0, len(pending))
			for _, ev := range pending {
				events = append(events, ev)
			}
			sort.Slice(events, func(i, j int) bool { return events[i].Path < events[j].Path })
			pending = map[string]ChangeEvent{}

			if err := w.dispatch(ctx, events); err != nil {
				return err
			}
		}
	}
}

func (w *Watcher) dispatch(ctx context.Context, events []ChangeEvent) error {
	w.mu.RLock()
	handlers := w.handlers
	w.mu.RUnlock()

	for _, h := range handlers {
		if err := h(ctx, events); err != nil {
			if errors.Is(err, ErrStructureChanged) {
				return err
			}
			zerolog.Ctx(ctx).Error().Err(err).Msg("file watcher handler error")
		}
	}
	return nil
}

// Only passes h the events whose paths f accepts. Batches left empty are
// not delivered.
func Only(f Filter, h Handler) Handler {
	return func(ctx context.Context, events []ChangeEvent) error {
		var kept []ChangeEvent
		for _, ev := range events {
			if f(ev.Path) {
				kept = append(kept, ev)
			}
		}
		if len(kept) == 0 {
			return nil
		}
		return h(ctx, kept)
	}
}

/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package loader

import (
	"context"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"dirpx.dev/foundry/apis"
)

// DefaultDebounce is how long a Watcher waits after the last change to the
// fixture file before reloading it.
const DefaultDebounce = 100 * time.Millisecond

// WatchOption configures a Watcher.
type WatchOption func(*Watcher)

// WithDebounce sets the reload debounce interval. Non-positive values are
// ignored.
func WithDebounce(d time.Duration) WatchOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the logger for reloads and watch errors.
func WithLogger(l *zap.Logger) WatchOption {
	return func(w *Watcher) {
		if l != nil {
			w.log = l
		}
	}
}

// Watcher reloads a fixture file into a fresh registry whenever it changes.
type Watcher struct {
	path        string
	newRegistry func() apis.Registry
	debounce    time.Duration
	log         *zap.Logger
}

// NewWatcher returns a Watcher for the fixture at path. newRegistry is called
// for every (re)load, so each load starts from an empty registry and keeps
// its own sequences.
func NewWatcher(path string, newRegistry func() apis.Registry, opts ...WatchOption) *Watcher {
	w := &Watcher{
		path:        filepath.Clean(path),
		newRegistry: newRegistry,
		debounce:    DefaultDebounce,
		log:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run loads the fixture once, then again after every change, and passes each
// result to onLoad. A failed load is reported to onLoad with a nil registry
// and does not stop the watch. Run returns nil when ctx is done.
func (w *Watcher) Run(ctx context.Context, onLoad func(apis.Registry, error)) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "creating fsnotify watcher")
	}
	defer fsw.Close()

	// Watch the directory: editors often replace the file instead of
	// writing it in place.
	dir := filepath.Dir(w.path)
	if err := fsw.Add(dir); err != nil {
		return errors.Wrapf(err, "watching directory %s", dir)
	}

	w.load(onLoad)

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !w.isRelevantEvent(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			w.load(onLoad)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("fixture watch error", zap.String("path", w.path), zap.Error(err))
		}
	}
}

func (w *Watcher) load(onLoad func(apis.Registry, error)) {
	reg := w.newRegistry()
	if _, err := LoadFile(reg, w.path); err != nil {
		w.log.Warn("fixture reload failed", zap.String("path", w.path), zap.Error(err))
		onLoad(nil, err)
		return
	}
	w.log.Debug("fixture loaded", zap.String("path", w.path), zap.Int("factories", reg.Count()))
	onLoad(reg, nil)
}

// isRelevantEvent reports whether event changes the watched file.
func (w *Watcher) isRelevantEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return false
	}
	return filepath.Clean(event.Name) == w.path
}

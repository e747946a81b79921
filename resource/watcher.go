// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package resource

import (
	"context"
	"sync"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
)

// ReloadFunc is told about every reload attempt the Watcher makes
type ReloadFunc func(name string, err error)

// Watcher recompiles library shaders when their files change on disk
type Watcher struct {
	library  *ShaderLibrary
	watcher  *fsnotify.Watcher
	onReload ReloadFunc
	log      log.FieldLogger

	done      chan struct{}
	closeOnce sync.Once
}

// NewWatcher starts watching dir, reloading shaders of library
// until ctx is done or Close is called. onReload may be nil.
func NewWatcher(ctx context.Context, dir string, library *ShaderLibrary, onReload ReloadFunc) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, err
	}

	w := &Watcher{
		library:  library,
		watcher:  fw,
		onReload: onReload,
		log:      library.log.WithField("watch", dir),
		done:     make(chan struct{}),
	}
	go w.run(ctx)
	return w, nil
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.done)
	for {
		select {
		case <-ctx.Done():
			w.watcher.Close()
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			file, ok := classifyShader(event.Name)
			if !ok || file.Language != w.library.compiler.Language() {
				continue
			}
			name, err := w.library.Reload(event.Name)
			if err != nil {
				w.log.WithError(err).WithField("file", event.Name).Warn("shader reload failed")
			}
			if w.onReload != nil {
				w.onReload(name, err)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.WithError(err).Warn("shader watch error")
		}
	}
}

// Close stops watching and waits for the watch loop to exit
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		err = w.watcher.Close()
	})
	<-w.done
	return err
}

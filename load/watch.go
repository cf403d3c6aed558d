/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package load

import (
	"context"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"bennypowers.dev/learnjq/config"
	"bennypowers.dev/learnjq/internal/logger"
	"bennypowers.dev/learnjq/pipeline"
	"bennypowers.dev/learnjq/stage"
)

// DefaultWatchDebounce batches rapid saves into one reload.
const DefaultWatchDebounce = 300 * time.Millisecond

// Watcher reloads the catalog when workspace files change.
type Watcher struct {
	ws        *Workspace
	fsw       *fsnotify.Watcher
	debouncer *pipeline.Debouncer
	onReload  func(*stage.Catalog)

	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// Watch starts watching the config directory and stage directories of ws.
// onReload receives each successfully rebuilt catalog; failed reloads are
// logged and the previous catalog stays in use.
func (ws *Workspace) Watch(ctx context.Context, delay time.Duration, onReload func(*stage.Catalog)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if delay <= 0 {
		delay = DefaultWatchDebounce
	}

	w := &Watcher{
		ws:        ws,
		fsw:       fsw,
		debouncer: pipeline.NewDebouncer(delay),
		onReload:  onReload,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}

	for _, dir := range ws.Config.WatchedDirs(ws.FS, ws.Root) {
		if err := fsw.Add(dir); err != nil {
			logger.Warn("watch %s: %v", dir, err)
			continue
		}
		logger.Debug("watching %s", dir)
	}

	go w.run(ctx)
	return w, nil
}

// Close stops the watcher and waits for a running reload to finish.
func (w *Watcher) Close() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.stopCh)
		<-w.doneCh
		w.debouncer.Stop()
		w.debouncer.Wait()
		err = w.fsw.Close()
	})
	return err
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			logger.Debug("change: %s", event)
			w.debouncer.Debounce(func() { w.reload(ctx) })
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logger.Error("watcher: %v", err)
		}
	}
}

// reload re-reads the config file, keeping command-line overrides, and
// rebuilds the catalog from it.
func (w *Watcher) reload(ctx context.Context) {
	next := *w.ws
	if cfg, err := config.Load(w.ws.FS, w.ws.Root); err != nil {
		logger.Warn("config reload failed, keeping previous config: %v", err)
	} else if cfg != nil {
		cfg.Lang = w.ws.Config.Lang
		cfg.Engine = w.ws.Config.Engine
		next.Config = cfg
	}

	catalog, err := next.LoadCatalog(ctx)
	if err != nil {
		logger.Warn("reload failed, keeping previous stages: %v", err)
		return
	}
	logger.Info("reloaded %d stages", catalog.Len())
	if w.onReload != nil {
		w.onReload(catalog)
	}
}

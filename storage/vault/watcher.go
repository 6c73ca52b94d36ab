package vault

import (
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// watcher keeps the id-to-filename index in step with edits made to
// the vault directory by other programs between scans. It only ever
// touches the index; document reads still go through scans.
type watcher struct {
	fs     *fsnotify.Watcher
	idx    *nameIndex
	dir    string
	logger *slog.Logger
	done   chan struct{}
}

func (v *Store) startWatcher() error {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := fs.Add(v.dir); err != nil {
		fs.Close()
		return err
	}

	w := &watcher{
		fs:     fs,
		idx:    v.idx,
		dir:    v.dir,
		logger: v.logger,
		done:   make(chan struct{}),
	}
	v.watcher = w
	go w.loop()
	return nil
}

func (v *Store) stopWatcher() {
	if v.watcher == nil {
		return
	}
	close(v.watcher.done)
	v.watcher.fs.Close()
	v.watcher = nil
}

func (w *watcher) loop() {
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.handleEvent(ev)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn("vault watcher error", "err", err)
		}
	}
}

// handleEvent updates the index for one filesystem event. Events for
// our own writes are harmless re-assertions of the current mapping.
func (w *watcher) handleEvent(ev fsnotify.Event) {
	name := filepath.Base(ev.Name)
	if !strings.HasSuffix(name, fileExt) {
		return
	}

	switch {
	case ev.Op.Has(fsnotify.Remove) || ev.Op.Has(fsnotify.Rename):
		w.idx.deleteByFile(name)
	case ev.Op.Has(fsnotify.Create) || ev.Op.Has(fsnotify.Write):
		if id, ok := idFromFileName(name); ok {
			w.idx.set(id, name)
		}
	}
}

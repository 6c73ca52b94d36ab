// Copyright 2026 Promptstash Authors
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


// Package vault implements the storage contract as one JSON file per
// document inside a user-chosen directory.
//
// There are no transactions and no schema: the directory is the
// database. An in-memory id-to-filename index, rebuilt from every full
// scan, makes title renames safe (the old file is removed in the same
// logical write) and deletes fast. Saved filter collections have no
// durable home in a file-per-document layout, so their operations are
// deliberate no-ops rather than errors.
package vault

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/promptstash/promptstash/core"
	"github.com/promptstash/promptstash/storage"
)

// Store is a vault backend instance. It starts disconnected; every
// mutating call before Connect fails fast with storage.ErrNotConnected,
// while reads report an empty vault.
type Store struct {
	dir         string
	idx         *nameIndex
	scanWorkers int
	watch       bool
	watcher     *watcher
	logger      *slog.Logger
}

var _ storage.Store = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithScanWorkers bounds the number of concurrent file reads during a
// directory scan. Default is defaultScanWorkers.
func WithScanWorkers(n int) Option {
	return func(v *Store) {
		if n > 0 {
			v.scanWorkers = n
		}
	}
}

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(v *Store) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// WithWatcher keeps the id-to-filename index in step with external
// edits by watching the vault directory. Watching is best effort:
// watcher failures only log, and a full scan still rebuilds the index.
func WithWatcher() Option {
	return func(v *Store) {
		v.watch = true
	}
}

// New creates a disconnected Store. Call Connect to select a directory.
func New(opts ...Option) *Store {
	v := &Store{
		idx:         newNameIndex(),
		scanWorkers: defaultScanWorkers,
		logger:      slog.Default().With("component", "vault"),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Open creates a Store connected to the given directory.
//
// Returns storage.Store to enforce abstraction: callers select a
// backend by configuration, not by concrete type.
func Open(dir string, opts ...Option) (storage.Store, error) {
	v := New(opts...)
	if err := v.Connect(dir); err != nil {
		return nil, err
	}
	return v, nil
}

// Connect selects the vault directory. The directory must exist.
func (v *Store) Connect(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("%w: %v", storage.ErrConnection, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", storage.ErrConnection, dir)
	}
	v.dir = dir

	if v.watch {
		if err := v.startWatcher(); err != nil {
			v.logger.Warn("vault watcher unavailable", "err", err)
		}
	}
	return nil
}

func (v *Store) connected() bool {
	return v.dir != ""
}

// ListPrompts scans the directory and returns every prompt file.
// The id-to-filename index is rebuilt in full as a side effect.
func (v *Store) ListPrompts(ctx context.Context) ([]*core.Prompt, error) {
	if !v.connected() {
		return []*core.Prompt{}, nil
	}
	res, err := v.scanDir()
	if err != nil {
		return nil, err
	}
	v.idx.replaceAll(res.names)
	return res.prompts, nil
}

// ListTemplates scans the directory and returns every template file.
func (v *Store) ListTemplates(ctx context.Context) ([]*core.Template, error) {
	if !v.connected() {
		return []*core.Template{}, nil
	}
	res, err := v.scanDir()
	if err != nil {
		return nil, err
	}
	v.idx.replaceAll(res.names)
	return res.templates, nil
}

// PutPrompt writes the prompt to slug__id.json. A title change removes
// the file written under the previous name in the same logical write.
func (v *Store) PutPrompt(ctx context.Context, p *core.Prompt) error {
	if !v.connected() {
		return storage.ErrNotConnected
	}
	data, err := storage.MarshalPrompt(p)
	if err != nil {
		return err
	}
	return v.putDoc(p.Id, p.Title, data)
}

// DeletePrompt removes the prompt's file. Idempotent.
func (v *Store) DeletePrompt(ctx context.Context, id string) error {
	return v.deleteDoc(id)
}

// PutTemplate writes the template to slug__id.json, slugging from the
// description (templates have no title).
func (v *Store) PutTemplate(ctx context.Context, t *core.Template) error {
	if !v.connected() {
		return storage.ErrNotConnected
	}
	data, err := storage.MarshalTemplate(t)
	if err != nil {
		return err
	}
	return v.putDoc(t.Id, t.Description, data)
}

// DeleteTemplate removes the template's file. Idempotent.
func (v *Store) DeleteTemplate(ctx context.Context, id string) error {
	return v.deleteDoc(id)
}

// ListCollections always reports an empty set: saved filters are not
// durable in a file-per-document vault.
func (v *Store) ListCollections(ctx context.Context) ([]*core.Collection, error) {
	return []*core.Collection{}, nil
}

// PutCollection is a no-op; see ListCollections.
func (v *Store) PutCollection(ctx context.Context, c *core.Collection) error {
	return nil
}

// DeleteCollection is a no-op; see ListCollections.
func (v *Store) DeleteCollection(ctx context.Context, id string) error {
	return nil
}

// Clear removes every document file from the vault directory. Files
// the scanner would skip (foreign JSON, unrecognized structure) are
// left alone.
func (v *Store) Clear(ctx context.Context) error {
	if !v.connected() {
		return storage.ErrNotConnected
	}
	entries, err := os.ReadDir(v.dir)
	if err != nil {
		return fmt.Errorf("%w: %v", storage.ErrConnection, err)
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != fileExt {
			continue
		}
		if !v.isDocumentFile(name) {
			continue
		}
		if err := os.Remove(filepath.Join(v.dir, name)); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	v.idx.clear()
	return nil
}

// isDocumentFile reports whether the named file belongs to the vault:
// either it carries the slug__id.json shape or its content classifies
// as a prompt or template.
func (v *Store) isDocumentFile(name string) bool {
	if _, ok := idFromFileName(name); ok {
		return true
	}
	data, err := os.ReadFile(filepath.Join(v.dir, name))
	if err != nil {
		return false
	}
	return storage.SniffDoc(data) != storage.DocUnknown
}

// Close stops the directory watcher, if any.
func (v *Store) Close() error {
	v.stopWatcher()
	return nil
}

// putDoc writes data under the filename derived from the slug source
// and id, then retires any file holding the same id under a different
// name. With a cold index (fresh process, no scan yet) it sweeps
// sibling files carrying the id, so a rename can never leave two files
// for one id resolvable by a later scan.
func (v *Store) putDoc(id, slugSource string, data []byte) error {
	newName := fileNameFor(slugSource, id)
	if err := os.WriteFile(filepath.Join(v.dir, newName), data, 0644); err != nil {
		return err
	}

	if oldName, ok := v.idx.get(id); ok {
		if oldName != newName {
			// Rename, not an additive write. A missing old file is fine:
			// someone beat us to the cleanup.
			if err := os.Remove(filepath.Join(v.dir, oldName)); err != nil && !os.IsNotExist(err) {
				v.logger.Warn("could not remove renamed document file", "file", oldName, "err", err)
			}
		}
	} else {
		v.sweepStaleFiles(id, newName)
	}

	v.idx.set(id, newName)
	return nil
}

// sweepStaleFiles removes any *__id.json sibling other than keep.
func (v *Store) sweepStaleFiles(id, keep string) {
	entries, err := os.ReadDir(v.dir)
	if err != nil {
		v.logger.Warn("could not scan vault for stale files", "err", err)
		return
	}
	suffix := idSep + id + fileExt
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || name == keep || !strings.HasSuffix(name, suffix) {
			continue
		}
		if err := os.Remove(filepath.Join(v.dir, name)); err != nil && !os.IsNotExist(err) {
			v.logger.Warn("could not remove stale document file", "file", name, "err", err)
		}
	}
}

// deleteDoc removes the file for an id: an indexed O(1) lookup first,
// then a full scan comparing each file's parsed id. The two-tier
// strategy exists because the index is never persisted; a process that
// has not scanned yet must still delete reliably, just slower.
func (v *Store) deleteDoc(id string) error {
	if !v.connected() {
		return storage.ErrNotConnected
	}

	if name, ok := v.idx.get(id); ok {
		if err := os.Remove(filepath.Join(v.dir, name)); err != nil && !os.IsNotExist(err) {
			return err
		}
		v.idx.delete(id)
		return nil
	}

	entries, err := os.ReadDir(v.dir)
	if err != nil {
		return fmt.Errorf("%w: %v", storage.ErrConnection, err)
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != fileExt {
			continue
		}
		if !v.fileHoldsID(name, id) {
			continue
		}
		if err := os.Remove(filepath.Join(v.dir, name)); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

// fileHoldsID reports whether the named file stores the given document
// id, preferring the filename suffix and falling back to parsing.
func (v *Store) fileHoldsID(name, id string) bool {
	if fid, ok := idFromFileName(name); ok && fid == id {
		return true
	}
	data, err := os.ReadFile(filepath.Join(v.dir, name))
	if err != nil {
		return false
	}
	var doc struct {
		Id string `json:"id"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return false
	}
	return doc.Id == id
}

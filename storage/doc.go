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


// Package storage defines the storage contract for promptstash.
//
// The contract decouples document persistence from everything above it.
// Two backends conform to it with deliberately different consistency
// models:
//
//   - badger: a local BadgerDB database. Strong per-write durability,
//     single-transaction operations, secondary indexes on the prompt
//     category and client fields, and an explicit, additively migrated
//     schema version.
//   - vault: one JSON file per document inside a user-chosen directory.
//     No transactions; an in-memory id-to-filename index, rebuilt from
//     full directory scans, makes updates rename-safe and deletes fast.
//
// # Constructor Return Type Pattern
//
// Public backend constructors return the storage.Store interface:
//
//	store, err := badger.Open(path)
//	store, err := vault.Open(dir)
//
// so callers select a backend by configuration, never by type. Internal
// constructors may return concrete types.
//
// # Contract semantics
//
// List operations return an empty slice for an empty store. Put is an
// upsert that replaces in place. Delete is idempotent. Clear empties
// every collection at once and exists only for destructive import
// flows. A backend without a durable home for a collection (saved
// filters under vault) lists it as empty and treats its mutations as
// no-ops rather than failing.
//
// # Errors
//
// Backends report failures through the sentinel errors in this package
// (ErrConnection, ErrBlocked, ErrNotConnected, ErrNotFound), matched
// with errors.Is.
package storage

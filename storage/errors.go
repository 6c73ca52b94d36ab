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


package storage

import "errors"

var (
	// ErrConnection indicates the backend could not be reached or opened
	// (permission denied, corrupted schema, schema newer than this binary).
	ErrConnection = errors.New("storage connection failed")

	// ErrBlocked indicates the local database is held open by another
	// process or session, so a schema upgrade cannot proceed. Unlike
	// ErrConnection it is recoverable: the user can close the other
	// session and retry.
	ErrBlocked = errors.New("storage blocked by another session")

	// ErrNotConnected indicates a vault mutation was attempted before a
	// directory was selected. Read-only calls return empty instead.
	ErrNotConnected = errors.New("no vault directory selected")

	// ErrNotFound indicates that the requested document was not found.
	ErrNotFound = errors.New("document not found")

	// ErrStorageClosed indicates that the storage backend is closed.
	ErrStorageClosed = errors.New("storage is closed")

	// ErrSerialization indicates a document could not be encoded or decoded.
	ErrSerialization = errors.New("serialization failed")
)

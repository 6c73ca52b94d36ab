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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidPrompt indicates a Prompt failed validation.
	ErrInvalidPrompt = errors.New("invalid prompt")

	// ErrInvalidTemplate indicates a Template failed validation.
	ErrInvalidTemplate = errors.New("invalid template")

	// ErrInvalidCollection indicates a Collection failed validation.
	ErrInvalidCollection = errors.New("invalid collection")

	// ErrEmptyID indicates the Id field is empty.
	ErrEmptyID = errors.New("id cannot be empty")

	// ErrInvalidStatus indicates an unknown lifecycle status value.
	ErrInvalidStatus = errors.New("invalid status")

	// ErrEmptyTemplateText indicates the Template body field is empty.
	ErrEmptyTemplateText = errors.New("template text cannot be empty")

	// ErrEmptyCollectionName indicates the collection Name field is empty.
	ErrEmptyCollectionName = errors.New("collection name cannot be empty")

	// ErrVersionOrder indicates version numbers are not strictly increasing.
	ErrVersionOrder = errors.New("version numbers must be strictly increasing")
)

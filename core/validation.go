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

import "fmt"

// ValidatePrompt validates a Prompt according to domain rules.
//
// Validation rules:
//   - Id must not be empty
//   - Status must be a known lifecycle value
//   - Version numbers must be strictly increasing
//
// NOT validated (populated elsewhere):
//   - Embedding and EmbeddingHash (absent until computed)
//   - Title and body (an empty draft is a legal document)
func ValidatePrompt(p *Prompt) error {
	if p == nil {
		return fmt.Errorf("%w: prompt is nil", ErrInvalidPrompt)
	}
	if p.Id == "" {
		return fmt.Errorf("%w: %w", ErrInvalidPrompt, ErrEmptyID)
	}
	if err := ValidateStatus(p.Status); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPrompt, err)
	}
	last := 0
	for _, v := range p.Versions {
		if v.VersionNo <= last {
			return fmt.Errorf("%w: %w", ErrInvalidPrompt, ErrVersionOrder)
		}
		last = v.VersionNo
	}
	return nil
}

// ValidateTemplate validates a Template according to domain rules.
func ValidateTemplate(t *Template) error {
	if t == nil {
		return fmt.Errorf("%w: template is nil", ErrInvalidTemplate)
	}
	if t.Id == "" {
		return fmt.Errorf("%w: %w", ErrInvalidTemplate, ErrEmptyID)
	}
	if t.Template == "" {
		return fmt.Errorf("%w: %w", ErrInvalidTemplate, ErrEmptyTemplateText)
	}
	return nil
}

// ValidateCollection validates a Collection according to domain rules.
func ValidateCollection(c *Collection) error {
	if c == nil {
		return fmt.Errorf("%w: collection is nil", ErrInvalidCollection)
	}
	if c.Id == "" {
		return fmt.Errorf("%w: %w", ErrInvalidCollection, ErrEmptyID)
	}
	if c.Name == "" {
		return fmt.Errorf("%w: %w", ErrInvalidCollection, ErrEmptyCollectionName)
	}
	return nil
}

// ValidateStatus validates that a Status has a known value.
func ValidateStatus(s Status) error {
	switch s {
	case StatusDraft, StatusLive, StatusArchived:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

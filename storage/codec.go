package storage

import (
	"encoding/json"
	"fmt"

	"github.com/promptstash/promptstash/core"
)

// Documents are encoded as JSON in both backends. The vault backend
// mandates JSON as its on-disk interchange format, and sharing one codec
// means a document read back from either backend is field-for-field the
// document that was written.

// DocKind classifies a serialized document by its structure.
type DocKind int

const (
	// DocUnknown means the payload is neither a prompt nor a template.
	DocUnknown DocKind = iota
	// DocPrompt is a document carrying a body-text field.
	DocPrompt
	// DocTemplate is a document carrying a template-text field.
	DocTemplate
)

// SniffDoc classifies a JSON document without fully decoding it.
// A prompt is identified by the presence of its body-text field, a
// template by its template-text field; there is no separate namespace
// on disk.
func SniffDoc(data []byte) DocKind {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return DocUnknown
	}
	if _, ok := fields["text"]; ok {
		return DocPrompt
	}
	if _, ok := fields["template"]; ok {
		return DocTemplate
	}
	return DocUnknown
}

// MarshalPrompt serializes a Prompt.
func MarshalPrompt(p *core.Prompt) ([]byte, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerialization, err)
	}
	return data, nil
}

// UnmarshalPrompt deserializes a Prompt.
func UnmarshalPrompt(data []byte) (*core.Prompt, error) {
	var p core.Prompt
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerialization, err)
	}
	return &p, nil
}

// MarshalTemplate serializes a Template.
func MarshalTemplate(t *core.Template) ([]byte, error) {
	data, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerialization, err)
	}
	return data, nil
}

// UnmarshalTemplate deserializes a Template.
func UnmarshalTemplate(data []byte) (*core.Template, error) {
	var t core.Template
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerialization, err)
	}
	return &t, nil
}

// MarshalCollection serializes a Collection.
func MarshalCollection(c *core.Collection) ([]byte, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerialization, err)
	}
	return data, nil
}

// UnmarshalCollection deserializes a Collection.
func UnmarshalCollection(data []byte) (*core.Collection, error) {
	var c core.Collection
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerialization, err)
	}
	return &c, nil
}

package schema

import (
	"encoding/json"
	"fmt"
)

// Input is the type-specific payload of a field. Only the select variant
// carries options, so a non-select field with options cannot be built.
type Input interface {
	Type() FieldType
	Options() []string
}

type scalar struct {
	t FieldType
}

func (s scalar) Type() FieldType   { return s.t }
func (s scalar) Options() []string { return nil }

type choice struct {
	options []string
}

func (c choice) Type() FieldType { return FieldSelect }

func (c choice) Options() []string {
	out := make([]string, len(c.options))
	copy(out, c.options)
	return out
}

// Scalar returns the input for a non-select field type. Scalar(FieldSelect)
// yields a select input without options.
func Scalar(t FieldType) Input {
	if t == FieldSelect {
		return choice{}
	}
	return scalar{t: t}
}

// Choice returns a select input over the given options, in order.
func Choice(options ...string) Input {
	c := choice{options: make([]string, len(options))}
	copy(c.options, options)
	return c
}

type Field struct {
	Key         string
	Label       string
	Placeholder string
	Required    bool
	SortOrder   int
	Input       Input
}

// Type is empty when the field has no input yet.
func (f Field) Type() FieldType {
	if f.Input == nil {
		return ""
	}
	return f.Input.Type()
}

func (f Field) Options() []string {
	if f.Input == nil {
		return nil
	}
	return f.Input.Options()
}

func (f Field) Clone() Field {
	if c, ok := f.Input.(choice); ok {
		f.Input = Choice(c.options...)
	}
	return f
}

type fieldJSON struct {
	Key         string    `json:"field_key"`
	Type        FieldType `json:"field_type"`
	Label       string    `json:"field_label"`
	Placeholder string    `json:"field_placeholder,omitempty"`
	Options     []string  `json:"field_options,omitempty"`
	Required    bool      `json:"is_required"`
	SortOrder   int       `json:"sort_order"`
}

func (f Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(fieldJSON{
		Key:         f.Key,
		Type:        f.Type(),
		Label:       f.Label,
		Placeholder: f.Placeholder,
		Options:     f.Options(),
		Required:    f.Required,
		SortOrder:   f.SortOrder,
	})
}

// UnmarshalJSON drops field_options unless field_type is select.
func (f *Field) UnmarshalJSON(data []byte) error {
	var raw fieldJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	in, err := NewInput(string(raw.Type), raw.Options)
	if err != nil {
		return err
	}
	*f = Field{
		Key:         raw.Key,
		Label:       raw.Label,
		Placeholder: raw.Placeholder,
		Required:    raw.Required,
		SortOrder:   raw.SortOrder,
		Input:       in,
	}
	return nil
}

// NewInput builds the input for a stored or submitted field type. An empty
// type defaults to string, like a freshly added field.
func NewInput(fieldType string, options []string) (Input, error) {
	if fieldType == "" {
		return Scalar(FieldString), nil
	}
	t, err := ParseFieldType(fieldType)
	if err != nil {
		return nil, fmt.Errorf("field_type: %w", err)
	}
	if t == FieldSelect {
		return Choice(options...), nil
	}
	return Scalar(t), nil
}

// Module is an ordered group of fields inside an event draft. ID is the draft
// identity and is unrelated to the store's generated key.
type Module struct {
	ID          string     `json:"id,omitempty"`
	Type        ModuleType `json:"module_type"`
	Name        string     `json:"module_name"`
	Icon        string     `json:"module_icon,omitempty"`
	ImageURL    string     `json:"module_image_url,omitempty"`
	Description string     `json:"module_description,omitempty"`
	Active      bool       `json:"is_active"`
	SortOrder   int        `json:"sort_order"`
	Fields      []Field    `json:"fields"`
}

func (m Module) Clone() Module {
	fields := make([]Field, len(m.Fields))
	for i, f := range m.Fields {
		fields[i] = f.Clone()
	}
	m.Fields = fields
	return m
}

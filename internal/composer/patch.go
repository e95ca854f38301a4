package composer

import (
	"fmt"

	"eventdesk/internal/schema"
)

// ModulePatch holds the module attributes an organizer may edit. Nil members
// are left unchanged.
type ModulePatch struct {
	Name        *string `json:"module_name,omitempty"`
	Icon        *string `json:"module_icon,omitempty"`
	ImageURL    *string `json:"module_image_url,omitempty"`
	Description *string `json:"module_description,omitempty"`
	Active      *bool   `json:"is_active,omitempty"`
}

func (p ModulePatch) apply(m schema.Module) schema.Module {
	if p.Name != nil {
		m.Name = *p.Name
	}
	if p.Icon != nil {
		m.Icon = *p.Icon
	}
	if p.ImageURL != nil {
		m.ImageURL = *p.ImageURL
	}
	if p.Description != nil {
		m.Description = *p.Description
	}
	if p.Active != nil {
		m.Active = *p.Active
	}
	return m
}

// FieldPatch edits one field in place. Switching the type away from select
// discards the options, since only select inputs carry them. Options without
// a type change are ignored unless the field already is a select.
type FieldPatch struct {
	Key         *string           `json:"field_key,omitempty"`
	Label       *string           `json:"field_label,omitempty"`
	Placeholder *string           `json:"field_placeholder,omitempty"`
	Required    *bool             `json:"is_required,omitempty"`
	Type        *schema.FieldType `json:"field_type,omitempty"`
	Options     *[]string         `json:"field_options,omitempty"`
}

func (p FieldPatch) Validate() error {
	if p.Type == nil {
		return nil
	}
	if _, err := schema.ParseFieldType(string(*p.Type)); err != nil {
		return fmt.Errorf("field_type: %w", err)
	}
	return nil
}

func (p FieldPatch) apply(f schema.Field) schema.Field {
	if p.Key != nil {
		f.Key = *p.Key
	}
	if p.Label != nil {
		f.Label = *p.Label
	}
	if p.Placeholder != nil {
		f.Placeholder = *p.Placeholder
	}
	if p.Required != nil {
		f.Required = *p.Required
	}

	typ := f.Type()
	if p.Type != nil {
		typ = *p.Type
	}
	switch {
	case typ == schema.FieldSelect && p.Options != nil:
		f.Input = schema.Choice(*p.Options...)
	case typ == schema.FieldSelect && f.Type() != schema.FieldSelect:
		f.Input = schema.Choice()
	case typ != schema.FieldSelect && typ != f.Type():
		f.Input = schema.Scalar(typ)
	}
	return f
}

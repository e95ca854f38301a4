// Package composer assembles the ordered module list of an event draft.
//
// Every mutation replaces the module list with a new slice, and readers only
// ever receive deep copies, so a snapshot taken before an edit is never
// changed by it.
package composer

import (
	"github.com/google/uuid"

	"eventdesk/internal/schema"
)

const (
	CustomModuleName = "Custom Module"
	CustomModuleIcon = "Package"
)

type Composer struct {
	modules []schema.Module
	newID   func() string
}

func New() *Composer {
	return &Composer{newID: uuid.NewString}
}

// FromModules rebuilds a composer over previously composed modules. Modules
// without an id get a fresh one.
func FromModules(modules []schema.Module) *Composer {
	c := New()
	next := make([]schema.Module, len(modules))
	for i, m := range modules {
		next[i] = m.Clone()
		if next[i].ID == "" {
			next[i].ID = c.newID()
		}
	}
	c.modules = next
	return c
}

// Modules returns a deep copy of the current module list.
func (c *Composer) Modules() []schema.Module {
	out := make([]schema.Module, len(c.modules))
	for i, m := range c.modules {
		out[i] = m.Clone()
	}
	return out
}

func (c *Composer) Len() int {
	return len(c.modules)
}

func (c *Composer) Module(id string) (schema.Module, bool) {
	if i := c.indexOf(id); i >= 0 {
		return c.modules[i].Clone(), true
	}
	return schema.Module{}, false
}

// AddPredefinedModule appends a module seeded from the template of t. It does
// nothing and returns false when t has no template or the draft already has
// a module of that type.
func (c *Composer) AddPredefinedModule(t schema.ModuleType) bool {
	def, ok := schema.PredefinedDefinition(t)
	if !ok {
		return false
	}
	for _, m := range c.modules {
		if m.Type == t {
			return false
		}
	}
	c.appendModule(schema.Module{
		ID:          c.newID(),
		Type:        def.Type,
		Name:        def.Name,
		Icon:        def.Icon,
		Description: def.Description,
		Active:      true,
		SortOrder:   len(c.modules),
		Fields:      schema.DefaultFields(t),
	})
	return true
}

// AddCustomModule appends an empty custom module and returns its id.
func (c *Composer) AddCustomModule() string {
	id := c.newID()
	c.appendModule(schema.Module{
		ID:        id,
		Type:      schema.ModuleCustom,
		Name:      CustomModuleName,
		Icon:      CustomModuleIcon,
		Active:    true,
		SortOrder: len(c.modules),
		Fields:    []schema.Field{},
	})
	return id
}

func (c *Composer) UpdateModule(id string, p ModulePatch) bool {
	return c.replaceModule(id, func(m schema.Module) schema.Module {
		return p.apply(m)
	})
}

// RemoveModule drops the module and the fields it owns. The modules after it
// move up one position.
func (c *Composer) RemoveModule(id string) bool {
	i := c.indexOf(id)
	if i < 0 {
		return false
	}
	next := make([]schema.Module, 0, len(c.modules)-1)
	next = append(next, c.modules[:i]...)
	next = append(next, c.modules[i+1:]...)
	for j := i; j < len(next); j++ {
		next[j].SortOrder = j
	}
	c.modules = next
	return true
}

// AddField appends a blank string field to the module.
func (c *Composer) AddField(moduleID string) bool {
	return c.replaceModule(moduleID, func(m schema.Module) schema.Module {
		fields := make([]schema.Field, len(m.Fields), len(m.Fields)+1)
		copy(fields, m.Fields)
		m.Fields = append(fields, schema.Field{
			Input:     schema.Scalar(schema.FieldString),
			SortOrder: len(m.Fields),
		})
		return m
	})
}

func (c *Composer) UpdateField(moduleID string, index int, p FieldPatch) bool {
	ok := false
	changed := c.replaceModule(moduleID, func(m schema.Module) schema.Module {
		if index < 0 || index >= len(m.Fields) {
			return m
		}
		fields := make([]schema.Field, len(m.Fields))
		copy(fields, m.Fields)
		fields[index] = p.apply(fields[index])
		m.Fields = fields
		ok = true
		return m
	})
	return changed && ok
}

func (c *Composer) RemoveField(moduleID string, index int) bool {
	ok := false
	changed := c.replaceModule(moduleID, func(m schema.Module) schema.Module {
		if index < 0 || index >= len(m.Fields) {
			return m
		}
		fields := make([]schema.Field, 0, len(m.Fields)-1)
		fields = append(fields, m.Fields[:index]...)
		fields = append(fields, m.Fields[index+1:]...)
		m.Fields = fields
		ok = true
		return m
	})
	return changed && ok
}

func (c *Composer) appendModule(m schema.Module) {
	next := make([]schema.Module, len(c.modules), len(c.modules)+1)
	copy(next, c.modules)
	c.modules = append(next, m)
}

func (c *Composer) replaceModule(id string, fn func(schema.Module) schema.Module) bool {
	i := c.indexOf(id)
	if i < 0 {
		return false
	}
	next := make([]schema.Module, len(c.modules))
	copy(next, c.modules)
	next[i] = fn(next[i])
	c.modules = next
	return true
}

func (c *Composer) indexOf(id string) int {
	for i, m := range c.modules {
		if m.ID == id {
			return i
		}
	}
	return -1
}

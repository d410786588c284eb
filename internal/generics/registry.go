// Package generics implements Ada 83 generic instantiation (§4.6): a
// template registry addressed by TemplateID, and a capped-depth AST deep-copier that substitutes formals
// for actuals, resetting every copied node's resolved Type/Symbol so
// the resolver re-elaborates the instance from scratch.
package generics

import (
	"adalite/internal/ast"
	"adalite/internal/source"
)

// TemplateID identifies a registered generic template.
type TemplateID uint32

// NoTemplateID marks the absence of a template.
const NoTemplateID TemplateID = 0

// Template is one generic unit's formal part and body, as declared.
type Template struct {
	Name    source.StringID
	Formals []ast.GenericFormal
	Inner   ast.DeclID // the wrapped DeclSubprogramSpec/Body or DeclPackageSpec/Body
}

// Registry stores every generic template declared so far, addressed by
// TemplateID the way symbols.Symbol.GenericTemplateID references it
// without the symbols package needing to import this one.
type Registry struct {
	templates []Template
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{templates: []Template{{}}} // index 0 reserved for NoTemplateID
}

// Register records a generic unit's formal part and body, returning
// its TemplateID.
func (r *Registry) Register(t Template) TemplateID {
	r.templates = append(r.templates, t)
	return TemplateID(len(r.templates) - 1)
}

// Get returns the template for id, or nil for NoTemplateID.
func (r *Registry) Get(id TemplateID) *Template {
	if id == NoTemplateID || int(id) >= len(r.templates) {
		return nil
	}
	return &r.templates[id]
}

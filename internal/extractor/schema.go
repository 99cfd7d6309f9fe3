package extractor

import (
	"fmt"
	"sort"

	"Unhoster/internal/domain"
)

// FieldRule maps one section field of an object record to an asset category.
type FieldRule struct {
	Section  string
	Field    string
	Category domain.AssetCategory
}

// Schema is a named, immutable table of field rules.
type Schema struct {
	Name  string
	rules []FieldRule
}

// NewSchema copies rules into a schema.
func NewSchema(name string, rules ...FieldRule) Schema {
	return Schema{Name: name, rules: append([]FieldRule(nil), rules...)}
}

// Rules returns a copy of the schema's rules.
func (s Schema) Rules() []FieldRule {
	return append([]FieldRule(nil), s.rules...)
}

const (
	sectionCustomMesh  = "CustomMesh"
	sectionCustomImage = "CustomImage"
)

var meshRules = []FieldRule{
	{Section: sectionCustomMesh, Field: "MeshURL", Category: domain.CategoryModel},
	{Section: sectionCustomMesh, Field: "NormalURL", Category: domain.CategoryImage},
	{Section: sectionCustomMesh, Field: "DiffuseURL", Category: domain.CategoryImage},
	{Section: sectionCustomMesh, Field: "ColliderURL", Category: domain.CategoryModel},
}

// DefaultSchema covers the custom mesh fields.
func DefaultSchema() Schema {
	return NewSchema("default", meshRules...)
}

// ExtendedSchema adds custom image tiles and tokens to the mesh fields.
func ExtendedSchema() Schema {
	rules := append([]FieldRule(nil), meshRules...)
	rules = append(rules,
		FieldRule{Section: sectionCustomImage, Field: "ImageURL", Category: domain.CategoryImage},
		FieldRule{Section: sectionCustomImage, Field: "ImageSecondaryURL", Category: domain.CategoryImage},
	)
	return NewSchema("extended", rules...)
}

// Registry keeps a mapping from schema names to schemas.
type Registry struct {
	schemas map[string]Schema
}

// NewRegistry builds a registry holding the built-in schemas.
func NewRegistry() *Registry {
	r := &Registry{schemas: map[string]Schema{}}
	r.Register(DefaultSchema())
	r.Register(ExtendedSchema())
	return r
}

// Register adds or replaces a schema.
func (r *Registry) Register(schema Schema) {
	if r.schemas == nil {
		r.schemas = map[string]Schema{}
	}
	r.schemas[schema.Name] = schema
}

// Resolve returns a schema by name or an error if it is absent.
func (r *Registry) Resolve(name string) (Schema, error) {
	if schema, ok := r.schemas[name]; ok {
		return schema, nil
	}
	return Schema{}, fmt.Errorf("schema %q is not registered (known: %v)", name, r.Names())
}

// Names lists registered schema names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.schemas))
	for name := range r.schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

package recovery

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// FieldType is the declared type of a schema field.
type FieldType string

const (
	TypeString  FieldType = "string"
	TypeNumber  FieldType = "number"
	TypeInteger FieldType = "integer"
	TypeBoolean FieldType = "boolean"
	TypeArray   FieldType = "array"
	TypeObject  FieldType = "object"
	// TypeCategory is a string drawn from Field.Allowed after normalization.
	TypeCategory FieldType = "category"
)

// Field declares one top-level member of a recovered object.
type Field struct {
	Name     string
	Type     FieldType
	Items    FieldType // element type for arrays; empty allows anything
	Required bool
	Allowed  []string
	Default  any
}

// Schema is the expected shape of a model response. Schemas are immutable
// once built and safe for concurrent use.
type Schema struct {
	name   string
	fields []Field

	once     sync.Once
	compiled *jsonschema.Schema
	err      error
}

// NewSchema builds a schema from its fields.
func NewSchema(name string, fields ...Field) *Schema {
	copied := make([]Field, len(fields))
	copy(copied, fields)
	return &Schema{name: name, fields: copied}
}

// Name identifies the schema in logs.
func (s *Schema) Name() string { return s.name }

// Fields returns a copy of the declared fields.
func (s *Schema) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// JSONSchema renders the schema as a JSON Schema document. Categorical
// fields are declared as strings; their allowed set is enforced by
// normalization rather than by an enum.
func (s *Schema) JSONSchema() map[string]any {
	props := make(map[string]any, len(s.fields))
	required := make([]string, 0, len(s.fields))
	for _, f := range s.fields {
		props[f.Name] = propertyFor(f)
		if f.Required {
			required = append(required, f.Name)
		}
	}
	doc := map[string]any{
		"$schema":    "https://json-schema.org/draft/2020-12/schema",
		"title":      s.name,
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		doc["required"] = required
	}
	return doc
}

func propertyFor(f Field) map[string]any {
	switch f.Type {
	case TypeCategory:
		return map[string]any{"type": "string"}
	case TypeArray:
		prop := map[string]any{"type": "array"}
		if f.Items != "" {
			prop["items"] = map[string]any{"type": jsonTypeName(f.Items)}
		}
		return prop
	case "":
		return map[string]any{}
	default:
		return map[string]any{"type": jsonTypeName(f.Type)}
	}
}

func jsonTypeName(t FieldType) string {
	if t == TypeCategory {
		return string(TypeString)
	}
	return string(t)
}

func (s *Schema) validator() (*jsonschema.Schema, error) {
	s.once.Do(func() {
		doc, err := json.Marshal(s.JSONSchema())
		if err != nil {
			s.err = fmt.Errorf("encode schema %s: %w", s.name, err)
			return
		}
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource("schema.json", bytes.NewReader(doc)); err != nil {
			s.err = fmt.Errorf("load schema %s: %w", s.name, err)
			return
		}
		s.compiled, s.err = compiler.Compile("schema.json")
	})
	return s.compiled, s.err
}

// Apply checks obj against the schema and returns the finished record.
// Required fields that are absent or null fail with a SchemaError listing
// them. Absent optional fields receive their default. Categorical values are
// normalized onto their allowed set. Remaining values are type checked.
// Members the schema does not declare are kept as-is.
func (s *Schema) Apply(obj map[string]any) (Record, error) {
	var missing []string
	for _, f := range s.fields {
		if v, ok := obj[f.Name]; f.Required && (!ok || v == nil) {
			missing = append(missing, f.Name)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Missing: missing}
	}

	rec := make(Record, len(obj)+len(s.fields))
	for k, v := range obj {
		rec[k] = v
	}
	for _, f := range s.fields {
		v, ok := rec[f.Name]
		if !ok || v == nil {
			if f.Default == nil {
				delete(rec, f.Name)
				continue
			}
			v = f.Default
		}
		if f.Type == TypeCategory {
			fallback, _ := f.Default.(string)
			v = NormalizeCategory(scalarString(v), f.Allowed, fallback)
		}
		rec[f.Name] = v
	}

	validator, err := s.validator()
	if err != nil {
		return nil, err
	}
	if err := validator.Validate(map[string]any(rec)); err != nil {
		return nil, &SchemaError{Cause: err}
	}
	return rec, nil
}

// Package schema turns JSON-Schema-shaped parameter descriptions into runtime
// validators and checks parameter schemas before they are accepted.
package schema

import (
	"sort"
)

type kind int

const (
	kindAny kind = iota
	kindString
	kindNumber
	kindInteger
	kindBoolean
	kindArray
	kindObject
)

var kindNames = map[kind]string{
	kindAny:     "any",
	kindString:  "string",
	kindNumber:  "number",
	kindInteger: "integer",
	kindBoolean: "boolean",
	kindArray:   "array",
	kindObject:  "object",
}

func (k kind) String() string { return kindNames[k] }

// Validator accepts, rejects and defaults values for one schema node.
// Validators are built by Convert and are safe for concurrent use.
type Validator struct {
	kind kind

	// items validates array elements; nil accepts any element.
	items *Validator

	// fields holds declared object properties sorted by name. An object
	// validator with open set accepts any keyed value unchanged.
	fields []Field
	open   bool
}

// Field is one declared property of an object validator.
type Field struct {
	Name       string
	Required   bool
	HasDefault bool
	Default    interface{}
	Validator  *Validator
}

// Convert builds a Validator from a JSON-Schema-shaped object. Conversion is
// total: unrecognised types and keywords degrade to permissive acceptance.
func Convert(schema map[string]interface{}) *Validator {
	if schema == nil {
		return &Validator{kind: kindAny}
	}

	typ, _ := schema["type"].(string)
	switch typ {
	case "string":
		return &Validator{kind: kindString}
	case "number":
		return &Validator{kind: kindNumber}
	case "integer":
		return &Validator{kind: kindInteger}
	case "boolean":
		return &Validator{kind: kindBoolean}
	case "array":
		v := &Validator{kind: kindArray}
		if items, ok := schema["items"].(map[string]interface{}); ok {
			v.items = Convert(items)
		}
		return v
	case "object":
		return convertObject(schema)
	case "":
		// Untyped schemas that declare properties are treated as objects.
		if _, ok := schema["properties"].(map[string]interface{}); ok {
			return convertObject(schema)
		}
	}
	return &Validator{kind: kindAny}
}

func convertObject(schema map[string]interface{}) *Validator {
	props, ok := schema["properties"].(map[string]interface{})
	if !ok {
		return &Validator{kind: kindObject, open: true}
	}

	required := requiredSet(schema["required"])
	fields := make([]Field, 0, len(props))
	for name, raw := range props {
		sub, _ := raw.(map[string]interface{})
		f := Field{
			Name:      name,
			Required:  required[name],
			Validator: Convert(sub),
		}
		if sub != nil {
			if def, ok := sub["default"]; ok {
				f.HasDefault = true
				f.Default = def
			}
		}
		fields = append(fields, f)
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].Name < fields[j].Name })

	return &Validator{kind: kindObject, fields: fields}
}

// requiredSet reads a JSON Schema "required" list in either decoded form.
func requiredSet(raw interface{}) map[string]bool {
	set := map[string]bool{}
	switch list := raw.(type) {
	case []interface{}:
		for _, item := range list {
			if s, ok := item.(string); ok {
				set[s] = true
			}
		}
	case []string:
		for _, s := range list {
			set[s] = true
		}
	}
	return set
}

// Fields returns the declared properties of an object validator.
func (v *Validator) Fields() []Field {
	out := make([]Field, len(v.fields))
	copy(out, v.fields)
	return out
}

// Kind returns the JSON type name the validator accepts ("any" when permissive).
func (v *Validator) Kind() string {
	return v.kind.String()
}

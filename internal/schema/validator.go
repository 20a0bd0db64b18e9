package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strings"
)

// FieldError describes one failing value.
type FieldError struct {
	Path    string
	Message string
}

func (e FieldError) String() string {
	if e.Path == "" {
		return e.Message
	}
	return e.Path + ": " + e.Message
}

// ValidationError collects every failing field of one validation run.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.String()
	}
	return strings.Join(parts, "; ")
}

// Paths returns the failing field paths in report order.
func (e *ValidationError) Paths() []string {
	paths := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		paths[i] = fe.Path
	}
	return paths
}

// Validate checks value and returns the accepted value with defaults applied.
// Undeclared properties of a declared object are dropped from the result.
func (v *Validator) Validate(value interface{}) (interface{}, error) {
	var errs []FieldError
	out := v.check("", value, &errs)
	if len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}
	return out, nil
}

// ValidateObject validates a keyed value, treating nil as an empty object.
func (v *Validator) ValidateObject(args map[string]interface{}) (map[string]interface{}, error) {
	if args == nil {
		args = map[string]interface{}{}
	}
	out, err := v.Validate(args)
	if err != nil {
		return nil, err
	}
	m, ok := out.(map[string]interface{})
	if !ok {
		// Non-object root schemas accept the arguments as given.
		return args, nil
	}
	return m, nil
}

// Accept validates a single field value. present reports whether the key was
// supplied at all; an absent optional field yields its default, if declared.
func (f Field) Accept(value interface{}, present bool) (interface{}, bool, error) {
	var errs []FieldError
	out, ok := f.accept(f.Name, value, present, &errs)
	if len(errs) > 0 {
		return nil, false, &ValidationError{Errors: errs}
	}
	return out, ok, nil
}

func (f Field) accept(path string, value interface{}, present bool, errs *[]FieldError) (interface{}, bool) {
	if !present {
		if f.Required {
			*errs = append(*errs, FieldError{Path: path, Message: "required"})
			return nil, false
		}
		if f.HasDefault {
			return cloneValue(f.Default), true
		}
		return nil, false
	}
	return f.Validator.check(path, value, errs), true
}

func (v *Validator) check(path string, value interface{}, errs *[]FieldError) interface{} {
	fail := func(msg string) interface{} {
		*errs = append(*errs, FieldError{Path: path, Message: msg})
		return nil
	}

	switch v.kind {
	case kindAny:
		return value
	case kindString:
		if _, ok := value.(string); !ok {
			return fail(fmt.Sprintf("expected string, received %s", describe(value)))
		}
		return value
	case kindBoolean:
		if _, ok := value.(bool); !ok {
			return fail(fmt.Sprintf("expected boolean, received %s", describe(value)))
		}
		return value
	case kindNumber, kindInteger:
		f, ok := toFloat(value)
		if !ok {
			return fail(fmt.Sprintf("expected %s, received %s", v.kind, describe(value)))
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fail("expected finite number")
		}
		if v.kind == kindInteger && f != math.Trunc(f) {
			return fail("expected integer, received float")
		}
		return value
	case kindArray:
		rv := reflect.ValueOf(value)
		if value == nil || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
			return fail(fmt.Sprintf("expected array, received %s", describe(value)))
		}
		out := make([]interface{}, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			elem := rv.Index(i).Interface()
			if v.items == nil {
				out[i] = elem
				continue
			}
			out[i] = v.items.check(fmt.Sprintf("%s[%d]", path, i), elem, errs)
		}
		return out
	case kindObject:
		m, ok := value.(map[string]interface{})
		if !ok {
			return fail(fmt.Sprintf("expected object, received %s", describe(value)))
		}
		if v.open {
			return m
		}
		out := make(map[string]interface{}, len(v.fields))
		for _, f := range v.fields {
			raw, present := m[f.Name]
			if accepted, ok := f.accept(joinPath(path, f.Name), raw, present, errs); ok {
				out[f.Name] = accepted
			}
		}
		return out
	}
	return value
}

func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}

func toFloat(value interface{}) (float64, bool) {
	switch n := value.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// describe names the JSON type of a decoded value for error messages.
func describe(value interface{}) string {
	if value == nil {
		return "null"
	}
	switch value.(type) {
	case string:
		return "string"
	case bool:
		return "boolean"
	case map[string]interface{}:
		return "object"
	}
	if _, ok := toFloat(value); ok {
		return "number"
	}
	switch reflect.ValueOf(value).Kind() {
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Map, reflect.Struct:
		return "object"
	}
	return fmt.Sprintf("%T", value)
}

// cloneValue copies decoded JSON containers so defaults are never shared.
func cloneValue(value interface{}) interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for k, item := range v {
			out[k] = cloneValue(item)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, item := range v {
			out[i] = cloneValue(item)
		}
		return out
	}
	return value
}

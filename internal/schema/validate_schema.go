package schema

import (
	"errors"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// ErrInvalidSchema is wrapped by every ValidateSchema failure.
var ErrInvalidSchema = errors.New("invalid parameter schema")

// ValidateSchema checks that a parameter schema is a structurally valid JSON
// Schema describing an object: the root must be `"type": "object"` with a
// `properties` object, nested object schemas that declare properties must
// declare them as an object, and the document must compile as JSON Schema.
func ValidateSchema(s map[string]interface{}) error {
	if s == nil {
		return fmt.Errorf("%w: schema must be an object", ErrInvalidSchema)
	}
	if typ, _ := s["type"].(string); typ != "object" {
		return fmt.Errorf(`%w: root "type" must be "object"`, ErrInvalidSchema)
	}
	if _, ok := s["properties"]; !ok {
		return fmt.Errorf(`%w: an object schema must declare "properties"`, ErrInvalidSchema)
	}
	if err := checkNode("", s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSchema, err)
	}

	if _, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(s)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSchema, err)
	}
	return nil
}

func checkNode(path string, node map[string]interface{}) error {
	where := path
	if where == "" {
		where = "(root)"
	}

	if raw, ok := node["properties"]; ok {
		props, ok := raw.(map[string]interface{})
		if !ok {
			return fmt.Errorf(`%s: "properties" must be an object`, where)
		}
		for name, sub := range props {
			subSchema, ok := sub.(map[string]interface{})
			if !ok {
				return fmt.Errorf("%s: property %q must be a schema object", where, name)
			}
			if err := checkNode(joinPath(path, name), subSchema); err != nil {
				return err
			}
		}
	}

	if raw, ok := node["required"]; ok {
		switch list := raw.(type) {
		case []string:
		case []interface{}:
			for _, item := range list {
				if _, ok := item.(string); !ok {
					return fmt.Errorf(`%s: "required" must be an array of strings`, where)
				}
			}
		default:
			return fmt.Errorf(`%s: "required" must be an array of strings`, where)
		}
	}

	if raw, ok := node["items"]; ok {
		if items, ok := raw.(map[string]interface{}); ok {
			if err := checkNode(path+"[]", items); err != nil {
				return err
			}
		}
	}
	return nil
}

package storage

import (
	"encoding/json"
	"fmt"

	"github.com/bobmcallan/graphql-mcp/internal/models"
)

// EncodeDefinition serialises a definition as indented JSON. A nil variables
// list is written as [] so the record stays loadable.
func EncodeDefinition(def *models.ToolDefinition) ([]byte, error) {
	out := *def
	if out.Variables == nil {
		out.Variables = []string{}
	}
	return json.MarshalIndent(&out, "", "  ")
}

// DecodeDefinition parses and structurally checks a stored record. source
// identifies the record (file path or key) in the returned error.
func DecodeDefinition(source string, data []byte) (*models.ToolDefinition, error) {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &InvalidConfigError{Source: source, Reason: fmt.Sprintf("malformed JSON: %v", err)}
	}
	if err := checkShape(raw); err != nil {
		return nil, &InvalidConfigError{Source: source, Reason: err.Error()}
	}

	var def models.ToolDefinition
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, &InvalidConfigError{Source: source, Reason: err.Error()}
	}
	return &def, nil
}

func checkShape(raw interface{}) error {
	obj, ok := raw.(map[string]interface{})
	if !ok || obj == nil {
		return fmt.Errorf("record must be a JSON object")
	}
	for _, key := range []string{"name", "description", "graphql_query"} {
		if _, ok := obj[key].(string); !ok {
			return fmt.Errorf("%q must be a string", key)
		}
	}
	if _, ok := obj["parameter_schema"].(map[string]interface{}); !ok {
		return fmt.Errorf(`"parameter_schema" must be an object`)
	}
	vars, ok := obj["variables"].([]interface{})
	if !ok {
		return fmt.Errorf(`"variables" must be an array`)
	}
	for i, v := range vars {
		if _, ok := v.(string); !ok {
			return fmt.Errorf(`"variables"[%d] must be a string`, i)
		}
	}
	return nil
}

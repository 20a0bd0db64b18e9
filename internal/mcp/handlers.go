package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/bobmcallan/graphql-mcp/internal/graphql"
	"github.com/bobmcallan/graphql-mcp/internal/registry"
	"github.com/mark3labs/mcp-go/mcp"
)

// errorResult creates an MCP error result.
func errorResult(message string) *mcp.CallToolResult {
	return registry.ErrorResult(message)
}

// jsonResult marshals v as indented JSON into a text result.
func jsonResult(v interface{}) *mcp.CallToolResult {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult(fmt.Sprintf("Error: failed to encode result: %v", err))
	}
	return registry.TextResult(string(out))
}

// objectArg reads an optional object argument. Clients that cannot send
// nested objects may pass a JSON string instead.
func objectArg(args map[string]interface{}, key string) (map[string]interface{}, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return nil, nil
	}
	switch v := raw.(type) {
	case map[string]interface{}:
		return v, nil
	case string:
		if strings.TrimSpace(v) == "" {
			return nil, nil
		}
		var m map[string]interface{}
		if err := json.Unmarshal([]byte(v), &m); err != nil {
			return nil, fmt.Errorf("%s must be a JSON object: %v", key, err)
		}
		if m == nil {
			return nil, fmt.Errorf("%s must be a JSON object", key)
		}
		return m, nil
	default:
		return nil, fmt.Errorf("%s must be an object or a JSON string", key)
	}
}

func (h *Handler) handleQueryGraphQL(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil || strings.TrimSpace(query) == "" {
		return errorResult("Error: query parameter is required"), nil
	}

	variables, err := objectArg(request.GetArguments(), "variables")
	if err != nil {
		return errorResult("Error: " + err.Error()), nil
	}

	if !h.allowMutations && graphql.IsMutation(query) {
		return errorResult("Error: mutations are not allowed; set graphql.allow_mutations to enable them"), nil
	}

	resp, err := h.client.Execute(ctx, query, variables)
	if err != nil {
		return errorResult(fmt.Sprintf("Error executing query: %v", err)), nil
	}
	return registry.TextResult(resp.PrettyData()), nil
}

func (h *Handler) handleSaveQueryTool(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	name := request.GetString("name", "")
	description := request.GetString("description", "")
	query := request.GetString("graphql_query", "")
	if name == "" || description == "" || query == "" {
		return errorResult("Error: name, description and graphql_query are required"), nil
	}

	paramSchema, err := objectArg(args, "parameter_schema")
	if err != nil {
		return errorResult("Error: " + err.Error()), nil
	}
	if paramSchema == nil {
		return errorResult("Error: parameter_schema is required"), nil
	}
	pagination, err := objectArg(args, "pagination_config")
	if err != nil {
		return errorResult("Error: " + err.Error()), nil
	}
	idempotency, err := objectArg(args, "idempotency")
	if err != nil {
		return errorResult("Error: " + err.Error()), nil
	}

	res, err := h.service.Save(ctx, registry.SaveRequest{
		Name:             name,
		Description:      description,
		GraphQLQuery:     query,
		ParameterSchema:  paramSchema,
		PaginationConfig: pagination,
		Idempotency:      idempotency,
		Overwrite:        request.GetBool("overwrite", false),
	})
	if err != nil {
		return errorResult(fmt.Sprintf("Error saving tool %q: %v", name, err)), nil
	}

	action := "saved"
	if res.Updated {
		action = "updated"
	}
	vars := "none"
	if len(res.Definition.Variables) > 0 {
		vars = strings.Join(res.Definition.Variables, ", ")
	}
	return registry.TextResult(fmt.Sprintf("Tool %q %s. Variables: %s", name, action, vars)), nil
}

func (h *Handler) handleListSavedTools(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tools := h.service.List()
	return jsonResult(map[string]interface{}{
		"count": len(tools),
		"tools": tools,
	}), nil
}

func (h *Handler) handleShowSavedTool(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := request.GetString("name", "")
	if name == "" {
		return errorResult("Error: name parameter is required"), nil
	}
	def, err := h.service.Show(name)
	if err != nil {
		return errorResult("Error: " + err.Error()), nil
	}
	return jsonResult(def), nil
}

func (h *Handler) handleDeleteSavedTool(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := request.GetString("name", "")
	if name == "" {
		return errorResult("Error: name parameter is required"), nil
	}
	if err := h.service.Delete(ctx, name); err != nil {
		if errors.Is(err, registry.ErrCoreTool) || errors.Is(err, registry.ErrNotFound) {
			return errorResult("Error: " + err.Error()), nil
		}
		return errorResult(fmt.Sprintf("Error deleting tool %q: %v", name, err)), nil
	}
	return registry.TextResult(fmt.Sprintf("Tool %q deleted.", name)), nil
}

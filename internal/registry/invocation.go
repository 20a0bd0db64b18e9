package registry

import (
	"context"
	"fmt"
	"time"

	"github.com/bobmcallan/graphql-mcp/internal/common"
	"github.com/bobmcallan/graphql-mcp/internal/graphql"
	"github.com/bobmcallan/graphql-mcp/internal/models"
	"github.com/bobmcallan/graphql-mcp/internal/schema"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
)

// Executor runs a GraphQL document against the configured endpoint.
// *graphql.Client implements it.
type Executor interface {
	Execute(ctx context.Context, query string, variables map[string]interface{}) (*graphql.Response, error)
}

// InvocationHandler is the callable bound to one saved tool. The runtime
// validator is compiled once at construction.
type InvocationHandler struct {
	def       *models.ToolDefinition
	validator *schema.Validator
	executor  Executor
	logger    *common.Logger
}

// NewInvocationHandler builds the handler for def.
func NewInvocationHandler(def *models.ToolDefinition, executor Executor, logger *common.Logger) *InvocationHandler {
	return &InvocationHandler{
		def:       def,
		validator: schema.Convert(def.ParameterSchema),
		executor:  executor,
		logger:    logger,
	}
}

// Handle adapts Invoke to the mcp-go handler signature. Failures are always
// reported in the result, never as a Go error.
func (h *InvocationHandler) Handle(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.Invoke(ctx, request.GetArguments()), nil
}

// Invoke validates args, builds the variables object and executes the
// stored query.
func (h *InvocationHandler) Invoke(ctx context.Context, args map[string]interface{}) *mcp.CallToolResult {
	logger := h.logger.WithCorrelationId(uuid.New().String())
	start := time.Now()

	params, err := h.validator.ValidateObject(args)
	if err != nil {
		logger.Debug().Str("tool", h.def.Name).Str("error", err.Error()).Msg("tool parameters rejected")
		return ErrorResult(fmt.Sprintf("Invalid parameters for tool %q: %s", h.def.Name, err.Error()))
	}

	variables := h.buildVariables(params)

	resp, err := h.executor.Execute(ctx, h.def.GraphQLQuery, variables)
	if err != nil {
		logger.Warn().
			Str("tool", h.def.Name).
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Err(err).
			Msg("tool execution failed")
		return ErrorResult(fmt.Sprintf("Error executing tool %q: %s", h.def.Name, errorMessage(err)))
	}

	logger.Info().
		Str("tool", h.def.Name).
		Int("variables", len(variables)).
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Msg("tool executed")
	return TextResult(resp.PrettyData())
}

// buildVariables picks the declared query variables out of the validated
// parameters. Names without a value are omitted rather than sent as null.
func (h *InvocationHandler) buildVariables(params map[string]interface{}) map[string]interface{} {
	variables := make(map[string]interface{}, len(h.def.Variables))
	for _, name := range h.def.Variables {
		if v, ok := params[name]; ok {
			variables[name] = v
		}
	}
	return variables
}

func errorMessage(err error) string {
	if err == nil || err.Error() == "" {
		return "unknown error"
	}
	return err.Error()
}

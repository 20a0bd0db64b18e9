package registry

import (
	"context"
	"fmt"
	"sort"

	"github.com/bobmcallan/graphql-mcp/internal/common"
	"github.com/bobmcallan/graphql-mcp/internal/graphql"
	"github.com/bobmcallan/graphql-mcp/internal/interfaces"
	"github.com/bobmcallan/graphql-mcp/internal/models"
	"github.com/bobmcallan/graphql-mcp/internal/schema"
)

// SaveRequest carries the fields of a save_query_tool call.
type SaveRequest struct {
	Name             string
	Description      string
	GraphQLQuery     string
	ParameterSchema  map[string]interface{}
	PaginationConfig map[string]interface{}
	Idempotency      map[string]interface{}
	Overwrite        bool
}

// SaveResult describes a successful save.
type SaveResult struct {
	Definition *models.ToolDefinition
	Updated    bool
}

// Service implements the saved-tool use cases over a Registry, a store and
// a Host.
type Service struct {
	registry       *Registry
	store          interfaces.ToolStorage
	host           Host
	executor       Executor
	logger         *common.Logger
	allowMutations bool
	locks          *keyedMutex
}

// NewService creates a Service. allowMutations only affects the warning
// logged when a saved query is a mutation.
func NewService(reg *Registry, store interfaces.ToolStorage, host Host, executor Executor, logger *common.Logger, allowMutations bool) *Service {
	return &Service{
		registry:       reg,
		store:          store,
		host:           host,
		executor:       executor,
		logger:         logger,
		allowMutations: allowMutations,
		locks:          newKeyedMutex(),
	}
}

// Registry returns the registry the service mutates.
func (s *Service) Registry() *Registry {
	return s.registry
}

// Save creates a tool, or replaces it in place when it exists and
// req.Overwrite is set. The definition is persisted before it is made live.
func (s *Service) Save(ctx context.Context, req SaveRequest) (*SaveResult, error) {
	if IsCoreTool(req.Name) {
		return nil, fmt.Errorf("cannot overwrite core tool %q: %w", req.Name, ErrCoreTool)
	}
	if err := ValidateName(req.Name); err != nil {
		return nil, err
	}
	if err := schema.ValidateSchema(req.ParameterSchema); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(req.Name)
	defer unlock()

	existing, exists := s.registry.Get(req.Name)
	if exists && !req.Overwrite {
		return nil, fmt.Errorf("%w: %q (set overwrite to true to replace it)", ErrAlreadyExists, req.Name)
	}

	s.warnQuery(req.Name, req.GraphQLQuery)

	def := &models.ToolDefinition{
		Name:             req.Name,
		Description:      req.Description,
		GraphQLQuery:     req.GraphQLQuery,
		ParameterSchema:  req.ParameterSchema,
		Variables:        graphql.ExtractVariables(req.GraphQLQuery),
		PaginationConfig: req.PaginationConfig,
		Idempotency:      req.Idempotency,
	}

	if err := s.store.SaveTool(ctx, def.Name, def); err != nil {
		return nil, fmt.Errorf("failed to save tool %q: %w", def.Name, err)
	}

	tool, err := BuildTool(def)
	if err != nil {
		return nil, fmt.Errorf("tool %q was saved but could not be registered: %w", def.Name, err)
	}
	handler := NewInvocationHandler(def, s.executor, s.logger)

	if exists {
		if err := existing.Handle.Update(tool, handler.Handle); err != nil {
			return nil, fmt.Errorf("tool %q was saved but the live tool could not be updated: %w", def.Name, err)
		}
		s.registry.Put(def.Name, Entry{Definition: def, Handle: existing.Handle})
		s.logger.Info().Str("tool", def.Name).Int("variables", len(def.Variables)).Msg("saved tool updated")
		return &SaveResult{Definition: def, Updated: true}, nil
	}

	handle, err := s.host.Register(tool, handler.Handle)
	if err != nil {
		return nil, fmt.Errorf("tool %q was saved but could not be registered: %w", def.Name, err)
	}
	s.registry.Put(def.Name, Entry{Definition: def, Handle: handle})
	s.logger.Info().Str("tool", def.Name).Int("variables", len(def.Variables)).Msg("saved tool registered")
	return &SaveResult{Definition: def}, nil
}

// warnQuery logs best-effort warnings about the query text. It never fails.
func (s *Service) warnQuery(name, query string) {
	if err := graphql.CheckBalanced(query); err != nil {
		s.logger.Warn().Str("tool", name).Str("error", err.Error()).Msg("saved query may be malformed")
	}
	if !s.allowMutations && graphql.IsMutation(query) {
		s.logger.Warn().Str("tool", name).Msg("saved query is a mutation while mutations are disabled for query_graphql")
	}
}

// Delete unregisters name, drops it from the registry and deletes its
// stored definition, in that order.
func (s *Service) Delete(ctx context.Context, name string) error {
	if IsCoreTool(name) {
		return fmt.Errorf("cannot delete core tool %q: %w", name, ErrCoreTool)
	}

	unlock := s.locks.Lock(name)
	defer unlock()

	entry, ok := s.registry.Get(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}

	if err := entry.Handle.Remove(); err != nil {
		return fmt.Errorf("failed to unregister tool %q: %w", name, err)
	}
	s.registry.Remove(name)

	if err := s.store.DeleteTool(ctx, name); err != nil {
		s.logger.Error().Str("tool", name).Err(err).Msg("tool unregistered but stored definition not deleted")
		return fmt.Errorf("tool %q was removed from the live registry but its stored definition could not be deleted: %w", name, err)
	}

	s.logger.Info().Str("tool", name).Msg("saved tool deleted")
	return nil
}

// List returns summaries of all saved tools sorted by name.
func (s *Service) List() []models.ToolSummary {
	defs := s.registry.Definitions()
	out := make([]models.ToolSummary, 0, len(defs))
	for _, d := range defs {
		out = append(out, d.Summary())
	}
	return out
}

// Show returns the full definition of a saved tool.
func (s *Service) Show(name string) (*models.ToolDefinition, error) {
	entry, ok := s.registry.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	def := *entry.Definition
	return &def, nil
}

// Restore registers every persisted tool. A corrupt stored record fails the
// whole restore; tools that cannot be registered are logged and skipped.
func (s *Service) Restore(ctx context.Context) (int, error) {
	defs, err := s.store.LoadAllTools(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to restore saved tools: %w", err)
	}

	names := make([]string, 0, len(defs))
	for name := range defs {
		names = append(names, name)
	}
	sort.Strings(names)

	restored := 0
	for _, name := range names {
		def := defs[name]
		if err := s.restoreOne(name, def); err != nil {
			s.logger.Warn().Str("tool", name).Err(err).Msg("skipping saved tool")
			continue
		}
		restored++
	}

	s.logger.Info().Int("tools", restored).Int("stored", len(defs)).Msg("saved tools restored")
	return restored, nil
}

func (s *Service) restoreOne(name string, def *models.ToolDefinition) error {
	if IsCoreTool(name) {
		return fmt.Errorf("stored tool shadows core tool %q: %w", name, ErrCoreTool)
	}
	if err := ValidateName(name); err != nil {
		return err
	}
	if def.Name != name {
		s.logger.Warn().Str("tool", name).Str("stored_name", def.Name).Msg("stored tool name differs from its key, using key")
		def.Name = name
	}

	unlock := s.locks.Lock(name)
	defer unlock()

	if _, exists := s.registry.Get(name); exists {
		return fmt.Errorf("%w: %q", ErrAlreadyExists, name)
	}

	tool, err := BuildTool(def)
	if err != nil {
		return err
	}
	handle, err := s.host.Register(tool, NewInvocationHandler(def, s.executor, s.logger).Handle)
	if err != nil {
		return fmt.Errorf("failed to register tool %q: %w", name, err)
	}
	s.registry.Put(name, Entry{Definition: def, Handle: handle})
	return nil
}

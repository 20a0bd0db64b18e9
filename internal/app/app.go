package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/bobmcallan/graphql-mcp/internal/common"
	"github.com/bobmcallan/graphql-mcp/internal/config"
	"github.com/bobmcallan/graphql-mcp/internal/handlers"
	"github.com/bobmcallan/graphql-mcp/internal/interfaces"
	"github.com/bobmcallan/graphql-mcp/internal/mcp"
	"github.com/bobmcallan/graphql-mcp/internal/storage"
	"github.com/bobmcallan/graphql-mcp/internal/storage/badger"
)

// App holds all application components and dependencies.
type App struct {
	Config *config.Config
	Logger *common.Logger
	Store  interfaces.ToolStorage

	// HTTP handlers
	HealthHandler  *handlers.HealthHandler
	VersionHandler *handlers.VersionHandler
	ToolsHandler   *handlers.ToolsHandler
	MCPHandler     *mcp.Handler
}

// New initializes the application with all dependencies and restores saved
// tools. A failed restore is logged and the server starts with the core
// tools only.
func New(cfg *config.Config, logger *common.Logger) (*App, error) {
	store, err := NewToolStorage(cfg, logger)
	if err != nil {
		return nil, err
	}

	a := &App{
		Config: cfg,
		Logger: logger,
		Store:  store,
	}

	a.initHandlers()

	count, err := a.MCPHandler.Restore(context.Background())
	if err != nil {
		logger.Error().Err(err).Msg("failed to restore saved tools, continuing with core tools only")
	} else {
		logger.Info().Int("tools", count).Msg("saved tools loaded")
	}

	logger.Info().
		Str("backend", cfg.Storage.Backend).
		Str("transport", cfg.Server.Transport).
		Msg("application initialization complete")

	return a, nil
}

// NewToolStorage creates the tool store selected by cfg.Storage.Backend.
func NewToolStorage(cfg *config.Config, logger *common.Logger) (interfaces.ToolStorage, error) {
	switch strings.ToLower(cfg.Storage.Backend) {
	case "", "file":
		logger.Debug().Str("dir", cfg.Storage.ToolsDir).Msg("using file tool storage")
		return storage.NewFileToolStorage(cfg.Storage.ToolsDir, logger), nil
	case "badger":
		db, err := badger.NewBadgerDB(logger, cfg.Storage.Badger.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open tool storage: %w", err)
		}
		return badger.NewToolStorage(db, logger), nil
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", cfg.Storage.Backend)
	}
}

// initHandlers initializes all handlers.
func (a *App) initHandlers() {
	a.MCPHandler = mcp.NewHandler(a.Config, a.Store, a.Logger)

	service := a.MCPHandler.Service()
	a.HealthHandler = handlers.NewHealthHandler(a.Logger, service.Registry().Len)
	a.VersionHandler = handlers.NewVersionHandler(a.Logger)
	a.ToolsHandler = handlers.NewToolsHandler(a.Logger, service)

	a.Logger.Debug().Msg("handlers initialized")
}

// Close closes all application resources.
func (a *App) Close() error {
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}

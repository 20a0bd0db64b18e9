// Package badger provides a BadgerDB-backed tool store.
package badger

import (
	"context"
	"errors"
	"fmt"

	"github.com/bobmcallan/graphql-mcp/internal/common"
	"github.com/bobmcallan/graphql-mcp/internal/models"
	"github.com/bobmcallan/graphql-mcp/internal/storage"
	"github.com/timshannon/badgerhold/v4"
)

// toolRecord holds one tool definition encoded with the shared JSON codec,
// so both backends apply the same structural checks on load.
type toolRecord struct {
	Name string `badgerhold:"key"`
	Data []byte
}

// ToolStorage implements interfaces.ToolStorage using BadgerDB.
type ToolStorage struct {
	db     *BadgerDB
	logger *common.Logger
}

// NewToolStorage creates a tool store backed by db.
func NewToolStorage(db *BadgerDB, logger *common.Logger) *ToolStorage {
	return &ToolStorage{db: db, logger: logger}
}

func source(name string) string {
	return "badger:" + name
}

// SaveTool upserts the definition under name.
func (s *ToolStorage) SaveTool(_ context.Context, name string, def *models.ToolDefinition) error {
	data, err := storage.EncodeDefinition(def)
	if err != nil {
		return &storage.WriteError{Name: name, Err: err}
	}
	if err := s.db.Store().Upsert(name, &toolRecord{Name: name, Data: data}); err != nil {
		return &storage.WriteError{Name: name, Err: err}
	}
	return nil
}

// LoadTool reads one definition; a missing key is found=false.
func (s *ToolStorage) LoadTool(_ context.Context, name string) (*models.ToolDefinition, bool, error) {
	var rec toolRecord
	if err := s.db.Store().Get(name, &rec); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get tool %q: %w", name, err)
	}
	def, err := storage.DecodeDefinition(source(name), rec.Data)
	if err != nil {
		return nil, false, err
	}
	return def, true, nil
}

// LoadAllTools reads every record; one invalid record fails the call.
func (s *ToolStorage) LoadAllTools(_ context.Context) (map[string]*models.ToolDefinition, error) {
	var records []toolRecord
	if err := s.db.Store().Find(&records, nil); err != nil {
		return nil, &storage.ListError{Location: s.db.path, Err: err}
	}

	tools := make(map[string]*models.ToolDefinition, len(records))
	for _, rec := range records {
		def, err := storage.DecodeDefinition(source(rec.Name), rec.Data)
		if err != nil {
			return nil, &storage.ListError{Location: s.db.path, Err: err}
		}
		tools[rec.Name] = def
	}
	return tools, nil
}

// DeleteTool removes the record; an absent key is not an error.
func (s *ToolStorage) DeleteTool(_ context.Context, name string) error {
	err := s.db.Store().Delete(name, toolRecord{})
	if err != nil && !errors.Is(err, badgerhold.ErrNotFound) {
		return &storage.DeleteError{Name: name, Err: err}
	}
	return nil
}

// Close closes the underlying database.
func (s *ToolStorage) Close() error {
	return s.db.Close()
}

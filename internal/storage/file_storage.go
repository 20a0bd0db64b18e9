// Package storage persists tool definitions.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bobmcallan/graphql-mcp/internal/common"
	"github.com/bobmcallan/graphql-mcp/internal/models"
)

const (
	toolFileExt = ".json"
	dirPerm     = 0o755
	filePerm    = 0o644
)

// FileToolStorage stores one JSON file per tool in a directory.
// It implements interfaces.ToolStorage.
type FileToolStorage struct {
	dir    string
	logger *common.Logger
}

// NewFileToolStorage creates a store rooted at dir. The directory is created
// on first save.
func NewFileToolStorage(dir string, logger *common.Logger) *FileToolStorage {
	return &FileToolStorage{dir: dir, logger: logger}
}

// Dir returns the backing directory.
func (s *FileToolStorage) Dir() string {
	return s.dir
}

func (s *FileToolStorage) path(name string) string {
	return filepath.Join(s.dir, name+toolFileExt)
}

// SaveTool writes the definition atomically via a temp file and rename.
func (s *FileToolStorage) SaveTool(_ context.Context, name string, def *models.ToolDefinition) error {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return &WriteError{Name: name, Err: fmt.Errorf("invalid storage key")}
	}

	data, err := EncodeDefinition(def)
	if err != nil {
		return &WriteError{Name: name, Err: err}
	}
	if err := writeAtomic(s.path(name), append(data, '\n')); err != nil {
		return &WriteError{Name: name, Err: err}
	}

	s.logger.Debug().Str("tool", name).Str("path", s.path(name)).Msg("tool definition saved")
	return nil
}

// LoadTool reads one definition. A missing file is reported as found=false.
func (s *FileToolStorage) LoadTool(_ context.Context, name string) (*models.ToolDefinition, bool, error) {
	path := s.path(name)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read tool %q: %w", name, err)
	}

	def, err := DecodeDefinition(path, data)
	if err != nil {
		return nil, false, err
	}
	return def, true, nil
}

// LoadAllTools reads every *.json file in the directory, keyed by file stem.
// A missing directory yields an empty map; any invalid file fails the call.
func (s *FileToolStorage) LoadAllTools(_ context.Context) (map[string]*models.ToolDefinition, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]*models.ToolDefinition{}, nil
		}
		return nil, &ListError{Location: s.dir, Err: err}
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != toolFileExt {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	tools := make(map[string]*models.ToolDefinition, len(names))
	for _, fileName := range names {
		path := filepath.Join(s.dir, fileName)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, &ListError{Location: s.dir, Err: err}
		}
		def, err := DecodeDefinition(path, data)
		if err != nil {
			return nil, &ListError{Location: s.dir, Err: err}
		}
		tools[strings.TrimSuffix(fileName, toolFileExt)] = def
	}
	return tools, nil
}

// DeleteTool removes the tool file. Missing files are ignored.
func (s *FileToolStorage) DeleteTool(_ context.Context, name string) error {
	err := os.Remove(s.path(name))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return &DeleteError{Name: name, Err: err}
	}
	s.logger.Debug().Str("tool", name).Msg("tool definition deleted")
	return nil
}

// Close is a no-op for the file store.
func (s *FileToolStorage) Close() error {
	return nil
}

// writeAtomic writes content to a temp file in the target directory and
// renames it into place so readers never observe a partial record.
func writeAtomic(path string, content []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", path, err)
	}
	tmpPath := tmp.Name()
	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}
	defer cleanup()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("write temp for %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp for %s: %w", path, err)
	}
	if err := tmp.Chmod(filePerm); err != nil {
		return fmt.Errorf("chmod temp for %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp for %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename temp for %s: %w", path, err)
	}
	return nil
}

package registry

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/bobmcallan/graphql-mcp/internal/graphql"
	"github.com/bobmcallan/graphql-mcp/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// memStore is an in-memory ToolStorage with failure injection.
type memStore struct {
	mu        sync.Mutex
	tools     map[string]*models.ToolDefinition
	saveErr   error
	deleteErr error
	loadErr   error
	calls     []string
}

func newMemStore() *memStore {
	return &memStore{tools: make(map[string]*models.ToolDefinition)}
}

func (m *memStore) SaveTool(_ context.Context, name string, def *models.ToolDefinition) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "save:"+name)
	if m.saveErr != nil {
		return m.saveErr
	}
	cp := *def
	m.tools[name] = &cp
	return nil
}

func (m *memStore) LoadTool(_ context.Context, name string) (*models.ToolDefinition, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	def, ok := m.tools[name]
	if !ok {
		return nil, false, nil
	}
	cp := *def
	return &cp, true, nil
}

func (m *memStore) LoadAllTools(_ context.Context) (map[string]*models.ToolDefinition, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	out := make(map[string]*models.ToolDefinition, len(m.tools))
	for k, v := range m.tools {
		cp := *v
		out[k] = &cp
	}
	return out, nil
}

func (m *memStore) DeleteTool(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "delete:"+name)
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.tools, name)
	return nil
}

func (m *memStore) Close() error { return nil }

func (m *memStore) has(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.tools[name]
	return ok
}

// fakeHost records registrations and can be told to fail.
type fakeHost struct {
	mu          sync.Mutex
	tools       map[string]mcp.Tool
	handlers    map[string]server.ToolHandlerFunc
	registers   int
	updates     int
	removes     int
	registerErr error
	updateErr   error
	removeErr   error
	failFor     map[string]bool
}

func newFakeHost() *fakeHost {
	return &fakeHost{
		tools:    make(map[string]mcp.Tool),
		handlers: make(map[string]server.ToolHandlerFunc),
		failFor:  make(map[string]bool),
	}
}

func (h *fakeHost) Register(tool mcp.Tool, handler server.ToolHandlerFunc) (Handle, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.registerErr != nil {
		return nil, h.registerErr
	}
	if h.failFor[tool.Name] {
		return nil, errors.New("host rejected tool")
	}
	h.registers++
	h.tools[tool.Name] = tool
	h.handlers[tool.Name] = handler
	return &fakeHandle{host: h, name: tool.Name}, nil
}

func (h *fakeHost) registered(name string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.tools[name]
	return ok
}

func (h *fakeHost) handler(name string) server.ToolHandlerFunc {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.handlers[name]
}

type fakeHandle struct {
	host *fakeHost
	name string
}

func (f *fakeHandle) Update(tool mcp.Tool, handler server.ToolHandlerFunc) error {
	f.host.mu.Lock()
	defer f.host.mu.Unlock()
	if f.host.updateErr != nil {
		return f.host.updateErr
	}
	f.host.updates++
	f.host.tools[f.name] = tool
	f.host.handlers[f.name] = handler
	return nil
}

func (f *fakeHandle) Remove() error {
	f.host.mu.Lock()
	defer f.host.mu.Unlock()
	if f.host.removeErr != nil {
		return f.host.removeErr
	}
	f.host.removes++
	delete(f.host.tools, f.name)
	delete(f.host.handlers, f.name)
	return nil
}

// fakeExecutor records executed requests.
type fakeExecutor struct {
	mu        sync.Mutex
	calls     int
	query     string
	variables map[string]interface{}
	body      string
	err       error
}

func (e *fakeExecutor) Execute(_ context.Context, query string, variables map[string]interface{}) (*graphql.Response, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls++
	e.query = query
	e.variables = variables
	if e.err != nil {
		return nil, e.err
	}
	body := e.body
	if body == "" {
		body = `{"data":{}}`
	}
	resp := &graphql.Response{}
	if err := json.Unmarshal([]byte(body), resp); err != nil {
		return nil, err
	}
	resp.Raw = []byte(body)
	return resp, nil
}

type emptyError struct{}

func (emptyError) Error() string { return "" }

// Package registry owns the live set of saved GraphQL tools and the use
// cases that create, update, delete and restore them.
package registry

import (
	"sort"
	"sync"

	"github.com/bobmcallan/graphql-mcp/internal/models"
)

// Entry is one live saved tool.
type Entry struct {
	Definition *models.ToolDefinition
	Handle     Handle
}

// Registry maps tool names to live entries. It is created by the server
// bootstrap and shared with the Service.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{entries: make(map[string]Entry)}
}

// Get returns the entry for name.
func (r *Registry) Get(name string) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[name]
	return e, ok
}

// Put inserts or replaces the entry for name.
func (r *Registry) Put(name string, e Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[name] = e
}

// Remove drops name from the registry.
func (r *Registry) Remove(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, name)
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Names returns registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Definitions returns registered definitions sorted by name.
func (r *Registry) Definitions() []*models.ToolDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	defs := make([]*models.ToolDefinition, 0, len(r.entries))
	for _, e := range r.entries {
		defs = append(defs, e.Definition)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs
}

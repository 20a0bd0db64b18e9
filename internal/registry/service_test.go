package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/bobmcallan/graphql-mcp/internal/common"
	"github.com/bobmcallan/graphql-mcp/internal/models"
	"github.com/bobmcallan/graphql-mcp/internal/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type serviceFixture struct {
	svc   *Service
	reg   *Registry
	store *memStore
	host  *fakeHost
	exec  *fakeExecutor
}

func newServiceFixture() *serviceFixture {
	f := &serviceFixture{
		reg:   New(),
		store: newMemStore(),
		host:  newFakeHost(),
		exec:  &fakeExecutor{},
	}
	f.svc = NewService(f.reg, f.store, f.host, f.exec, common.NewSilentLogger(), false)
	return f
}

func getUserRequest() SaveRequest {
	return SaveRequest{
		Name:         "get_user",
		Description:  "Fetch a user",
		GraphQLQuery: "query GetUser($id: ID!) { user(id: $id) { name } }",
		ParameterSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"id": map[string]interface{}{"type": "string"},
			},
			"required": []interface{}{"id"},
		},
	}
}

func TestService_SaveCreate(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	res, err := f.svc.Save(ctx, getUserRequest())
	require.NoError(t, err)
	assert.False(t, res.Updated)
	assert.Equal(t, []string{"id"}, res.Definition.Variables)

	assert.True(t, f.store.has("get_user"))
	assert.True(t, f.host.registered("get_user"))
	_, ok := f.reg.Get("get_user")
	assert.True(t, ok)

	stored, found, err := f.store.LoadTool(ctx, "get_user")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, res.Definition, stored)

	tool := f.host.tools["get_user"]
	assert.Equal(t, "Fetch a user", tool.Description)
	assert.Equal(t, "Fetch a user", tool.Annotations.Title)
	assert.JSONEq(t, `{"type":"object","properties":{"id":{"type":"string"}},"required":["id"]}`, string(tool.RawInputSchema))
}

func TestService_SaveThenInvoke(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	_, err := f.svc.Save(ctx, getUserRequest())
	require.NoError(t, err)

	handler := f.host.handler("get_user")
	require.NotNil(t, handler)

	result, err := handler(ctx, mcp.CallToolRequest{Params: mcp.CallToolParams{Name: "get_user", Arguments: map[string]interface{}{"id": "42"}}})
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Equal(t, map[string]interface{}{"id": "42"}, f.exec.variables)

	result, err = handler(ctx, mcp.CallToolRequest{Params: mcp.CallToolParams{Name: "get_user", Arguments: map[string]interface{}{"id": float64(42)}}})
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "id")
	assert.Equal(t, 1, f.exec.calls, "invalid call must not reach the endpoint")
}

func TestService_SaveDuplicateWithoutOverwrite(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	_, err := f.svc.Save(ctx, getUserRequest())
	require.NoError(t, err)

	again := getUserRequest()
	again.Description = "Replacement"
	again.GraphQLQuery = "query($id: ID!, $x: Int) { user(id: $id) { id } }"
	_, err = f.svc.Save(ctx, again)

	require.ErrorIs(t, err, ErrAlreadyExists)
	stored, _, _ := f.store.LoadTool(ctx, "get_user")
	assert.Equal(t, "Fetch a user", stored.Description)
	entry, _ := f.reg.Get("get_user")
	assert.Equal(t, "Fetch a user", entry.Definition.Description)
	assert.Equal(t, 1, f.host.registers)
	assert.Equal(t, 0, f.host.updates)
}

func TestService_SaveOverwriteUpdatesInPlace(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	_, err := f.svc.Save(ctx, getUserRequest())
	require.NoError(t, err)
	first, _ := f.reg.Get("get_user")

	update := getUserRequest()
	update.Description = "Fetch a user with email"
	update.GraphQLQuery = "query GetUser($id: ID!, $withEmail: Boolean) { user(id: $id) { name email @include(if: $withEmail) } }"
	update.Overwrite = true

	res, err := f.svc.Save(ctx, update)
	require.NoError(t, err)
	assert.True(t, res.Updated)
	assert.Equal(t, []string{"id", "withEmail"}, res.Definition.Variables)

	assert.Equal(t, 1, f.host.registers, "update must not re-register")
	assert.Equal(t, 1, f.host.updates)
	second, _ := f.reg.Get("get_user")
	assert.Same(t, first.Handle, second.Handle)
	assert.Equal(t, "Fetch a user with email", second.Definition.Description)

	stored, _, _ := f.store.LoadTool(ctx, "get_user")
	assert.Equal(t, "Fetch a user with email", stored.Description)
}

func TestService_SaveOverwriteOnNewNameCreates(t *testing.T) {
	f := newServiceFixture()
	req := getUserRequest()
	req.Overwrite = true

	res, err := f.svc.Save(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, res.Updated)
	assert.Equal(t, 1, f.host.registers)
}

func TestService_SaveRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*SaveRequest)
		wantErr error
	}{
		{"core tool", func(r *SaveRequest) { r.Name = "query_graphql" }, ErrCoreTool},
		{"bad name", func(r *SaveRequest) { r.Name = "Get-User" }, ErrInvalidName},
		{"nil schema", func(r *SaveRequest) { r.ParameterSchema = nil }, ErrInvalidSchema},
		{"non-object root", func(r *SaveRequest) {
			r.ParameterSchema = map[string]interface{}{"type": "string"}
		}, schema.ErrInvalidSchema},
		{"properties not object", func(r *SaveRequest) {
			r.ParameterSchema = map[string]interface{}{"type": "object", "properties": "id"}
		}, ErrInvalidSchema},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newServiceFixture()
			req := getUserRequest()
			tt.mutate(&req)

			_, err := f.svc.Save(context.Background(), req)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, f.store.calls)
			assert.Equal(t, 0, f.host.registers)
			assert.Equal(t, 0, f.reg.Len())
		})
	}
}

func TestService_SavePersistFailureLeavesRegistryUntouched(t *testing.T) {
	f := newServiceFixture()
	f.store.saveErr = errors.New("disk full")

	_, err := f.svc.Save(context.Background(), getUserRequest())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, 0, f.host.registers)
	assert.Equal(t, 0, f.reg.Len())
}

func TestService_SaveRegisterFailureKeepsPersistedDefinition(t *testing.T) {
	f := newServiceFixture()
	f.host.registerErr = errors.New("host unavailable")

	_, err := f.svc.Save(context.Background(), getUserRequest())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "was saved but could not be registered")
	assert.True(t, f.store.has("get_user"), "definition stays on disk for the next start")
	assert.Equal(t, 0, f.reg.Len())
}

func TestService_SaveUpdateFailureKeepsOldEntry(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	_, err := f.svc.Save(ctx, getUserRequest())
	require.NoError(t, err)

	f.host.updateErr = errors.New("update rejected")
	update := getUserRequest()
	update.Description = "New"
	update.Overwrite = true
	_, err = f.svc.Save(ctx, update)

	require.Error(t, err)
	entry, _ := f.reg.Get("get_user")
	assert.Equal(t, "Fetch a user", entry.Definition.Description)
}

func TestService_DeleteCoreTool(t *testing.T) {
	f := newServiceFixture()

	err := f.svc.Delete(context.Background(), "get_version")

	require.ErrorIs(t, err, ErrCoreTool)
	assert.Contains(t, err.Error(), "cannot delete core tool")
	assert.Empty(t, f.store.calls)
	assert.Equal(t, 0, f.host.removes)
}

func TestService_DeleteNotFound(t *testing.T) {
	f := newServiceFixture()

	err := f.svc.Delete(context.Background(), "never_saved")

	require.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, f.store.calls)
}

func TestService_Delete(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	_, err := f.svc.Save(ctx, getUserRequest())
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, "get_user"))

	assert.False(t, f.host.registered("get_user"))
	assert.False(t, f.store.has("get_user"))
	_, ok := f.reg.Get("get_user")
	assert.False(t, ok)

	require.ErrorIs(t, f.svc.Delete(ctx, "get_user"), ErrNotFound)
}

func TestService_DeleteHostFailureLeavesToolIntact(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	_, err := f.svc.Save(ctx, getUserRequest())
	require.NoError(t, err)

	f.host.removeErr = errors.New("remove failed")
	err = f.svc.Delete(ctx, "get_user")

	require.Error(t, err)
	assert.True(t, f.host.registered("get_user"))
	assert.True(t, f.store.has("get_user"))
	_, ok := f.reg.Get("get_user")
	assert.True(t, ok)
}

func TestService_DeleteStoreFailureAfterUnregister(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	_, err := f.svc.Save(ctx, getUserRequest())
	require.NoError(t, err)

	f.store.deleteErr = errors.New("read-only filesystem")
	err = f.svc.Delete(ctx, "get_user")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "removed from the live registry")
	assert.Contains(t, err.Error(), "read-only filesystem")
	assert.False(t, f.host.registered("get_user"))
	_, ok := f.reg.Get("get_user")
	assert.False(t, ok)
}

func TestService_ListAndShow(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	second := getUserRequest()
	second.Name = "a_first"
	second.Description = "Sorted first"
	_, err := f.svc.Save(ctx, getUserRequest())
	require.NoError(t, err)
	_, err = f.svc.Save(ctx, second)
	require.NoError(t, err)

	list := f.svc.List()
	require.Len(t, list, 2)
	assert.Equal(t, "a_first", list[0].Name)
	assert.Equal(t, models.ToolSummary{Name: "get_user", Description: "Fetch a user", Variables: []string{"id"}}, list[1])

	def, err := f.svc.Show("get_user")
	require.NoError(t, err)
	assert.Equal(t, "query GetUser($id: ID!) { user(id: $id) { name } }", def.GraphQLQuery)

	_, err = f.svc.Show("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_Restore(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	def := getUserRequest()
	f.store.tools["get_user"] = &models.ToolDefinition{
		Name:            def.Name,
		Description:     def.Description,
		GraphQLQuery:    def.GraphQLQuery,
		ParameterSchema: def.ParameterSchema,
		Variables:       []string{"id"},
	}
	f.store.tools["rejected"] = &models.ToolDefinition{Name: "rejected", ParameterSchema: map[string]interface{}{"type": "object"}, Variables: []string{}}
	f.store.tools["get_version"] = &models.ToolDefinition{Name: "get_version", Variables: []string{}}
	f.host.failFor["rejected"] = true

	n, err := f.svc.Restore(ctx)

	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []string{"get_user"}, f.reg.Names())
	assert.True(t, f.host.registered("get_user"))
	assert.False(t, f.host.registered("get_version"), "stored record cannot shadow a core tool")
}

func TestService_RestoreFailsOnLoadError(t *testing.T) {
	f := newServiceFixture()
	f.store.loadErr = errors.New("invalid tool configuration in broken.json")

	n, err := f.svc.Restore(context.Background())

	require.Error(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, 0, f.reg.Len())
	assert.Equal(t, 0, f.host.registers)
}

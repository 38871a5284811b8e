package nota

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nota-app/nota/pkg/models"
	"github.com/nota-app/nota/pkg/pages"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	app, err := New(context.Background(), &Config{
		Addr:     ":0",
		Backend:  "memory",
		BaseURL:  "http://nota.test",
		LogLevel: "error",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })
	return app
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, target any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), target), "body: %s", rec.Body.String())
}

func createPage(t *testing.T, h http.Handler, name string) models.Page {
	t.Helper()
	rec := doJSON(t, h, http.MethodPost, "/api/pages", map[string]string{"name": name})
	require.Equal(t, http.StatusCreated, rec.Code, "body: %s", rec.Body.String())
	var page models.Page
	decode(t, rec, &page)
	return page
}

func openDocument(t *testing.T, h http.Handler) DocumentView {
	t.Helper()
	rec := doJSON(t, h, http.MethodGet, "/api/document", nil)
	require.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())
	var view DocumentView
	decode(t, rec, &view)
	return view
}

func TestHandleHealth(t *testing.T) {
	router := newTestApp(t).Router()

	rec := doJSON(t, router, http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	decode(t, rec, &body)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "memory", body["backend"])
}

func TestPageLifecycle(t *testing.T) {
	router := newTestApp(t).Router()

	// No page exists yet, so there is nothing to render.
	rec := doJSON(t, router, http.MethodGet, "/api/document", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	page := createPage(t, router, "recipes/pasta")
	assert.Equal(t, "recipes/pasta", page.Name)
	assert.False(t, page.ID.IsZero())

	// Creation opened the page; the document holds the placeholder.
	view := openDocument(t, router)
	assert.Equal(t, "recipes/pasta", view.Page.Name)
	require.Len(t, view.Blocks, 1)
	assert.Equal(t, models.BlockTypeText, view.Blocks[0].Type)
	assert.Equal(t, "#page=recipes%2Fpasta", view.Fragment)

	// Names with slashes route through the greedy pattern.
	rec = doJSON(t, router, http.MethodGet, "/api/pages/recipes/pasta", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/pages", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []models.Page
	decode(t, rec, &listed)
	require.Len(t, listed, 1)

	// Duplicate names conflict; empty names fail validation.
	rec = doJSON(t, router, http.MethodPost, "/api/pages", map[string]string{"name": "recipes/pasta"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	rec = doJSON(t, router, http.MethodPost, "/api/pages", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/pages/unknown", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Deletion needs explicit confirmation.
	rec = doJSON(t, router, http.MethodDelete, "/api/pages/recipes/pasta", nil)
	require.Equal(t, http.StatusConflict, rec.Code)
	rec = doJSON(t, router, http.MethodDelete, "/api/pages/recipes/pasta?confirm=true", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	// The workspace is empty again and the session is gone.
	rec = doJSON(t, router, http.MethodGet, "/api/document", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRenamePageMigratesReferences(t *testing.T) {
	router := newTestApp(t).Router()

	createPage(t, router, "alpha")
	createPage(t, router, "beta")

	rec := doJSON(t, router, http.MethodPost, "/api/pages/alpha/favorite", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/pages/alpha/rename", map[string]string{"newName": "gamma"})
	require.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())
	var renamed models.Page
	decode(t, rec, &renamed)
	assert.Equal(t, "gamma", renamed.Name)

	rec = doJSON(t, router, http.MethodGet, "/api/pages/alpha", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = doJSON(t, router, http.MethodGet, "/api/pages/gamma", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// The favorite followed the rename.
	rec = doJSON(t, router, http.MethodGet, "/api/favorites", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var favorites []string
	decode(t, rec, &favorites)
	assert.Equal(t, []string{"gamma"}, favorites)

	// Renaming onto a taken name conflicts.
	rec = doJSON(t, router, http.MethodPost, "/api/pages/gamma/rename", map[string]string{"newName": "beta"})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestBlockEndpoints(t *testing.T) {
	router := newTestApp(t).Router()

	createPage(t, router, "groceries")
	placeholder := openDocument(t, router).Blocks[0]

	// Insert a todo after the placeholder.
	rec := doJSON(t, router, http.MethodPost, "/api/blocks", map[string]any{"type": "todo", "text": "buy milk"})
	require.Equal(t, http.StatusCreated, rec.Code, "body: %s", rec.Body.String())
	var todo models.Block
	decode(t, rec, &todo)
	assert.Equal(t, models.BlockTypeTodo, todo.Type)
	assert.False(t, todo.Checked)

	rec = doJSON(t, router, http.MethodPost, "/api/blocks/"+todo.ID.String()+"/toggle", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &todo)
	assert.True(t, todo.Checked)

	rec = doJSON(t, router, http.MethodPatch, "/api/blocks/"+todo.ID.String(), map[string]string{"text": "buy oat milk"})
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &todo)
	assert.Equal(t, "buy oat milk", todo.Text)
	assert.True(t, todo.Checked)

	// Retyping to text drops the checkbox state but keeps the words.
	rec = doJSON(t, router, http.MethodPatch, "/api/blocks/"+todo.ID.String(), map[string]string{"type": "text"})
	require.Equal(t, http.StatusOK, rec.Code)
	// checked is omitempty: zero the target so the stale true cannot survive the decode.
	todo = models.Block{}
	decode(t, rec, &todo)
	assert.Equal(t, models.BlockTypeText, todo.Type)
	assert.False(t, todo.Checked)
	assert.Equal(t, "buy oat milk", todo.Text)

	// Split "buy oat milk" after "buy".
	rec = doJSON(t, router, http.MethodPost, "/api/blocks/"+todo.ID.String()+"/split", map[string]int{"offset": 3})
	require.Equal(t, http.StatusOK, rec.Code)
	var view DocumentView
	decode(t, rec, &view)
	require.Len(t, view.Blocks, 3)
	assert.Equal(t, "buy", view.Blocks[1].Text)
	assert.Equal(t, " oat milk", view.Blocks[2].Text)
	require.NotNil(t, view.Focus)
	assert.Equal(t, view.Blocks[2].ID, *view.Focus)
	tail := view.Blocks[2]

	// Move the tail to the top.
	rec = doJSON(t, router, http.MethodPost, "/api/blocks/"+tail.ID.String()+"/move", map[string]int{"index": 0})
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &view)
	require.Len(t, view.Blocks, 3)
	assert.Equal(t, tail.ID, view.Blocks[0].ID)

	rec = doJSON(t, router, http.MethodGet, "/api/blocks/"+tail.ID.String()+"/link", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var link map[string]string
	decode(t, rec, &link)
	assert.Equal(t, "http://nota.test/#page=groceries&block="+tail.ID.String(), link["url"])

	// Deleting the first block focuses the new first block.
	rec = doJSON(t, router, http.MethodDelete, "/api/blocks/"+tail.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &view)
	require.Len(t, view.Blocks, 2)
	require.NotNil(t, view.Focus)
	assert.Equal(t, placeholder.ID, *view.Focus)

	// Bad ids and unknown ids fail with the right statuses.
	rec = doJSON(t, router, http.MethodPatch, "/api/blocks/not-a-uuid", map[string]string{"text": "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = doJSON(t, router, http.MethodPatch, "/api/blocks/"+models.NewBlockID().String(), map[string]string{"text": "x"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = doJSON(t, router, http.MethodPost, "/api/blocks", map[string]string{"type": "wibble"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBlocksRequireOpenPage(t *testing.T) {
	router := newTestApp(t).Router()

	rec := doJSON(t, router, http.MethodPost, "/api/blocks", map[string]string{"text": "hello"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPageTreeEndpoint(t *testing.T) {
	router := newTestApp(t).Router()

	parent := createPage(t, router, "projects")
	rec := doJSON(t, router, http.MethodPost, "/api/pages", map[string]any{"name": "projects/kitchen", "parentId": parent.ID})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/pages?tree=true", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var tree []pages.Node
	decode(t, rec, &tree)
	require.Len(t, tree, 1)
	assert.Equal(t, "projects", tree[0].Page.Name)
	require.Len(t, tree[0].Children, 1)
	assert.Equal(t, "projects/kitchen", tree[0].Children[0].Page.Name)
}

func TestRecentsEndpoint(t *testing.T) {
	router := newTestApp(t).Router()

	createPage(t, router, "a")
	createPage(t, router, "b")
	createPage(t, router, "c")

	rec := doJSON(t, router, http.MethodGet, "/api/recent", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var recents []string
	decode(t, rec, &recents)
	assert.Equal(t, []string{"c", "b", "a"}, recents)

	// Reopening moves a page to the front without duplicating it.
	rec = doJSON(t, router, http.MethodPost, "/api/pages/a/open", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(t, router, http.MethodGet, "/api/recent", nil)
	decode(t, rec, &recents)
	assert.Equal(t, []string{"a", "c", "b"}, recents)
}

func TestFavoriteToggleEndpoint(t *testing.T) {
	router := newTestApp(t).Router()

	createPage(t, router, "keep")

	rec := doJSON(t, router, http.MethodPost, "/api/pages/keep/favorite", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var state map[string]bool
	decode(t, rec, &state)
	assert.True(t, state["favorite"])

	rec = doJSON(t, router, http.MethodPost, "/api/pages/keep/favorite", nil)
	decode(t, rec, &state)
	assert.False(t, state["favorite"])

	rec = doJSON(t, router, http.MethodPost, "/api/pages/missing/favorite", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestResolveEndpoint(t *testing.T) {
	router := newTestApp(t).Router()

	createPage(t, router, "alpha")
	block := openDocument(t, router).Blocks[0]

	rec := doJSON(t, router, http.MethodGet, "/api/resolve?fragment="+url.QueryEscape("#page=alpha"), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resolved ResolvedFragment
	decode(t, rec, &resolved)
	assert.Equal(t, "alpha", resolved.Page.Name)
	assert.Nil(t, resolved.Block)

	rec = doJSON(t, router, http.MethodGet, "/api/resolve?fragment="+url.QueryEscape("#page=alpha&block="+block.ID.String()), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &resolved)
	require.NotNil(t, resolved.Block)
	assert.Equal(t, block.ID, *resolved.Block)

	rec = doJSON(t, router, http.MethodGet, "/api/resolve?fragment="+url.QueryEscape("#page=missing"), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/resolve?fragment=nonsense", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestThemeEndpoints(t *testing.T) {
	router := newTestApp(t).Router()

	rec := doJSON(t, router, http.MethodGet, "/api/theme", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var theme map[string]string
	decode(t, rec, &theme)
	assert.Equal(t, "light", theme["theme"])

	rec = doJSON(t, router, http.MethodPut, "/api/theme", map[string]string{"theme": "dark"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/theme", nil)
	decode(t, rec, &theme)
	assert.Equal(t, "dark", theme["theme"])

	rec = doJSON(t, router, http.MethodPut, "/api/theme", map[string]string{"theme": "sepia"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

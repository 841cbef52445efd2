package handler_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogapp "github.com/shopadmin/backend/internal/application/catalog"
	"github.com/shopadmin/backend/internal/interfaces/http/dto"
	"github.com/shopadmin/backend/tests/testutil"
)

func createCategory(t *testing.T, app *testutil.TestApp, token string, body map[string]any) catalogapp.CategoryResponse {
	t.Helper()
	rec := app.Do(t, http.MethodPost, "/api/v1/category", token, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var out catalogapp.CategoryResponse
	testutil.Decode(t, rec, &out)
	return out
}

func TestCategoryCreateValidation(t *testing.T) {
	app := testutil.NewTestApp(t)
	token := app.SuperAdminToken(t)
	createCategory(t, app, token, map[string]any{"name": "Shoes"})

	tests := []struct {
		name     string
		body     map[string]any
		wantCode int
		errCode  string
	}{
		{"missing name", map[string]any{"slug": "x"}, http.StatusBadRequest, ""},
		{"bad slug", map[string]any{"name": "Hats", "slug": "Hats & Caps"}, http.StatusBadRequest, ""},
		{"negative sort order", map[string]any{"name": "Hats", "sort_order": -1}, http.StatusBadRequest, ""},
		{"duplicate slug", map[string]any{"name": "Shoes"}, http.StatusConflict, dto.ErrCodeAlreadyExists},
		{"unknown parent", map[string]any{"name": "Boots", "parent_id": "8f7c2a59-5f7e-4c7e-9d57-3c1bb8a3a001"}, http.StatusBadRequest, ""},
		{"malformed json", nil, http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := app.Do(t, http.MethodPost, "/api/v1/category", token, tt.body)
			assert.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
			if tt.errCode != "" {
				assert.Equal(t, tt.errCode, testutil.ErrorCode(t, rec))
			}
		})
	}
}

func TestCategoryMoveRejectsCycles(t *testing.T) {
	app := testutil.NewTestApp(t)
	token := app.SuperAdminToken(t)

	root := createCategory(t, app, token, map[string]any{"name": "Apparel"})
	child := createCategory(t, app, token, map[string]any{"name": "Tops", "parent_id": root.ID})
	grandchild := createCategory(t, app, token, map[string]any{"name": "Shirts", "parent_id": child.ID})
	assert.Equal(t, 2, grandchild.Level)

	rec := app.Do(t, http.MethodPatch, "/api/v1/category/"+root.ID.String(), token, map[string]any{"parent_id": grandchild.ID})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, dto.ErrCodeCircularReference, testutil.ErrorCode(t, rec))

	rec = app.Do(t, http.MethodPatch, "/api/v1/category/"+root.ID.String(), token, map[string]any{"parent_id": root.ID})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// omitting parent_id leaves the parent untouched
	rec = app.Do(t, http.MethodPatch, "/api/v1/category/"+grandchild.ID.String(), token, map[string]any{"name": "Dress Shirts"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var renamed catalogapp.CategoryResponse
	testutil.Decode(t, rec, &renamed)
	assert.Equal(t, "Dress Shirts", renamed.Name)
	require.NotNil(t, renamed.ParentID)
	assert.Equal(t, child.ID, *renamed.ParentID)
}

func TestCategoryListFilters(t *testing.T) {
	app := testutil.NewTestApp(t)
	token := app.SuperAdminToken(t)

	shoes := createCategory(t, app, token, map[string]any{"name": "Shoes"})
	createCategory(t, app, token, map[string]any{"name": "Boots", "parent_id": shoes.ID})
	createCategory(t, app, token, map[string]any{"name": "Archive", "is_active": false})

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"all", "", 3},
		{"roots", "?root_only=true", 2},
		{"children", "?parent_id=" + shoes.ID.String(), 1},
		{"inactive", "?is_active=false", 1},
		{"search", "?search=boo", 1},
		{"paged", "?page_size=2&page=2", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := app.Do(t, http.MethodGet, "/api/v1/category"+tt.query, "", nil)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			var items []catalogapp.CategoryResponse
			testutil.Decode(t, rec, &items)
			assert.Len(t, items, tt.want)
		})
	}

	rec := app.Do(t, http.MethodGet, "/api/v1/category?parent_id=nope", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCategoryTreeActiveFilter(t *testing.T) {
	app := testutil.NewTestApp(t)
	token := app.SuperAdminToken(t)

	createCategory(t, app, token, map[string]any{"name": "Live"})
	createCategory(t, app, token, map[string]any{"name": "Hidden", "is_active": false})

	var tree []catalogapp.CategoryTreeNode
	testutil.Decode(t, app.Do(t, http.MethodGet, "/api/v1/category/tree", "", nil), &tree)
	assert.Len(t, tree, 1)

	testutil.Decode(t, app.Do(t, http.MethodGet, "/api/v1/category/tree?active=false", "", nil), &tree)
	assert.Len(t, tree, 2)
}

func TestCategoryNotFound(t *testing.T) {
	app := testutil.NewTestApp(t)

	assert.Equal(t, http.StatusNotFound, app.Do(t, http.MethodGet, "/api/v1/category/slug/missing", "", nil).Code)
	assert.Equal(t, http.StatusNotFound, app.Do(t, http.MethodGet, "/api/v1/category/8f7c2a59-5f7e-4c7e-9d57-3c1bb8a3a001", "", nil).Code)
	assert.Equal(t, http.StatusBadRequest, app.Do(t, http.MethodGet, "/api/v1/category/not-a-uuid", "", nil).Code)
}

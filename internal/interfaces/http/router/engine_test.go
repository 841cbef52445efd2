package router_test

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogapp "github.com/shopadmin/backend/internal/application/catalog"
	mediaapp "github.com/shopadmin/backend/internal/application/media"
	"github.com/shopadmin/backend/internal/interfaces/http/dto"
	"github.com/shopadmin/backend/internal/interfaces/http/handler"
	"github.com/shopadmin/backend/tests/testutil"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestEngine_Health(t *testing.T) {
	app := testutil.NewTestApp(t)

	rec := app.Do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var health handler.HealthResponse
	testutil.Decode(t, rec, &health)
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "ok", health.Database)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestEngine_UnknownRoute(t *testing.T) {
	app := testutil.NewTestApp(t)
	rec := app.Do(t, http.MethodGet, "/api/v1/nothing-here", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEngine_CategoryAccessControl(t *testing.T) {
	app := testutil.NewTestApp(t)
	body := map[string]any{"name": "Running Shoes"}

	t.Run("no token", func(t *testing.T) {
		rec := app.Do(t, http.MethodPost, "/api/v1/category", "", body)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, dto.ErrCodeUnauthorized, testutil.ErrorCode(t, rec))
	})

	t.Run("missing permission", func(t *testing.T) {
		token := app.CreateAdmin(t, "reader@shop.test", "category:read")
		rec := app.Do(t, http.MethodPost, "/api/v1/category", token, body)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, dto.ErrCodeForbidden, testutil.ErrorCode(t, rec))
	})

	t.Run("granted permission", func(t *testing.T) {
		token := app.CreateAdmin(t, "writer@shop.test", "category:write")
		rec := app.Do(t, http.MethodPost, "/api/v1/category", token, body)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var created catalogapp.CategoryResponse
		testutil.Decode(t, rec, &created)
		assert.Equal(t, "running-shoes", created.Slug)
		assert.Equal(t, 0, created.Level)
	})

	t.Run("public read", func(t *testing.T) {
		rec := app.Do(t, http.MethodGet, "/api/v1/category/slug/running-shoes", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var got catalogapp.CategoryResponse
		testutil.Decode(t, rec, &got)
		assert.Equal(t, "Running Shoes", got.Name)
	})
}

func TestEngine_CategoryTree(t *testing.T) {
	app := testutil.NewTestApp(t)
	token := app.SuperAdminToken(t)

	create := func(name string, parent *catalogapp.CategoryResponse) catalogapp.CategoryResponse {
		t.Helper()
		body := map[string]any{"name": name}
		if parent != nil {
			body["parent_id"] = parent.ID
		}
		rec := app.Do(t, http.MethodPost, "/api/v1/category", token, body)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		var out catalogapp.CategoryResponse
		testutil.Decode(t, rec, &out)
		return out
	}

	shoes := create("Shoes", nil)
	trail := create("Trail", &shoes)
	assert.Equal(t, 1, trail.Level)

	rec := app.Do(t, http.MethodGet, "/api/v1/category/tree", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var tree []catalogapp.CategoryTreeNode
	testutil.Decode(t, rec, &tree)
	require.Len(t, tree, 1)
	require.Len(t, tree[0].Children, 1)
	assert.Equal(t, trail.ID, tree[0].Children[0].ID)

	rec = app.Do(t, http.MethodDelete, "/api/v1/category/"+shoes.ID.String(), token, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, dto.ErrCodeHasChildren, testutil.ErrorCode(t, rec))

	rec = app.Do(t, http.MethodPatch, "/api/v1/category/"+trail.ID.String(), token, map[string]any{"parent_id": nil})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = app.Do(t, http.MethodGet, "/api/v1/category/tree", "", nil)
	testutil.Decode(t, rec, &tree)
	assert.Len(t, tree, 2)

	rec = app.Do(t, http.MethodDelete, "/api/v1/category/"+shoes.ID.String(), token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestEngine_AuthThrottle(t *testing.T) {
	app := testutil.NewTestApp(t, testutil.WithAuthLimit(3))
	body := map[string]string{"email": "nobody@shop.test", "password": "wrong-password"}

	for i := 0; i < 3; i++ {
		rec := app.Do(t, http.MethodPost, "/api/v1/auth/customer/login", "", body)
		require.Equal(t, http.StatusUnauthorized, rec.Code, fmt.Sprintf("attempt %d", i+1))
	}

	rec := app.Do(t, http.MethodPost, "/api/v1/auth/customer/login", "", body)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, dto.ErrCodeTooManyRequests, testutil.ErrorCode(t, rec))

	// unthrottled routes keep working
	assert.Equal(t, http.StatusOK, app.Do(t, http.MethodGet, "/api/v1/category", "", nil).Code)
}

func TestEngine_UploadAndServe(t *testing.T) {
	app := testutil.NewTestApp(t)
	token := app.CreateAdmin(t, "media@shop.test", "upload:write")

	rec := app.Upload(t, token, "logo.png", pngBytes(t, 64, 48), map[string]string{"category": "categories"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var uploaded mediaapp.UploadResult
	testutil.Decode(t, rec, &uploaded)
	assert.Equal(t, "image/png", uploaded.MimeType)
	assert.Equal(t, 64, uploaded.Width)
	assert.Equal(t, 48, uploaded.Height)

	served := httptest.NewRecorder()
	app.Engine.ServeHTTP(served, httptest.NewRequest(http.MethodGet, uploaded.URL, nil))
	assert.Equal(t, http.StatusOK, served.Code)
	assert.NotZero(t, served.Body.Len())

	thumb := httptest.NewRecorder()
	app.Engine.ServeHTTP(thumb, httptest.NewRequest(http.MethodGet, uploaded.ThumbnailURL, nil))
	assert.Equal(t, http.StatusOK, thumb.Code)

	rec = app.Do(t, http.MethodDelete, "/api/v1/upload", token, map[string]string{"url": uploaded.URL})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	gone := httptest.NewRecorder()
	app.Engine.ServeHTTP(gone, httptest.NewRequest(http.MethodGet, uploaded.URL, nil))
	assert.Equal(t, http.StatusNotFound, gone.Code)
}

func TestEngine_OversizedUploadReportsFileTooLarge(t *testing.T) {
	app := testutil.NewTestApp(t, testutil.WithMaxUploadSize(1<<10))
	token := app.CreateAdmin(t, "media@shop.test", "upload:write")

	// larger than the global body limit as well as the upload limit
	payload := bytes.Repeat([]byte{0x89}, 4<<20)
	rec := app.Upload(t, token, "huge.png", payload, map[string]string{"category": "categories"})

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, dto.ErrCodeFileTooLarge, testutil.ErrorCode(t, rec))

	// other routes keep the global limit
	rec = app.Do(t, http.MethodPost, "/api/v1/category", token, map[string]string{"name": string(payload)})
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, dto.ErrCodeRequestTooLarge, testutil.ErrorCode(t, rec))
}

func TestEngine_UploadRequiresPermission(t *testing.T) {
	app := testutil.NewTestApp(t)
	token := app.CreateAdmin(t, "catalog@shop.test", "category:write")

	rec := app.Upload(t, token, "logo.png", pngBytes(t, 8, 8), map[string]string{"category": "categories"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestEngine_SecurityHeaders(t *testing.T) {
	app := testutil.NewTestApp(t)
	rec := app.Do(t, http.MethodGet, "/api/v1/system/ping", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

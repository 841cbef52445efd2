package integration

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogapp "github.com/shopadmin/backend/internal/application/catalog"
	"github.com/shopadmin/backend/internal/interfaces/http/dto"
	"github.com/shopadmin/backend/internal/interfaces/http/handler"
	"github.com/shopadmin/backend/tests/testutil"
)

func TestAPIFlow_Postgres(t *testing.T) {
	tdb := NewSharedTestDB(t)
	tdb.CleanTables()
	app := testutil.NewTestApp(t, testutil.WithDatabase(tdb.DB))
	faker := gofakeit.New(42)

	root := app.SuperAdminToken(t)

	t.Run("customers register and are listed page by page", func(t *testing.T) {
		const total = 25
		for i := 0; i < total; i++ {
			rec := app.Do(t, http.MethodPost, "/api/v1/auth/customer/register", "", map[string]any{
				"email":      fmt.Sprintf("%d.%s", i, faker.Email()),
				"password":   "Customer1Pass",
				"first_name": faker.FirstName(),
				"last_name":  faker.LastName(),
			})
			require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		}

		rec := app.Do(t, http.MethodGet, "/api/v1/auth/customer?page=2&page_size=10", root, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var page []handler.CustomerResponse
		resp := testutil.Decode(t, rec, &page)
		require.NotNil(t, resp.Meta)
		assert.Len(t, page, 10)
		assert.Equal(t, int64(total), resp.Meta.Total)
		assert.Equal(t, 3, resp.Meta.TotalPages)
	})

	t.Run("category tree built through the API", func(t *testing.T) {
		var rootIDs []string
		for i := 0; i < 3; i++ {
			rec := app.Do(t, http.MethodPost, "/api/v1/category", root, map[string]any{
				"name":       fmt.Sprintf("%s %d", faker.ProductCategory(), i),
				"sort_order": i,
			})
			require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
			var created catalogapp.CategoryResponse
			testutil.Decode(t, rec, &created)
			rootIDs = append(rootIDs, created.ID.String())

			for j := 0; j < 2; j++ {
				rec := app.Do(t, http.MethodPost, "/api/v1/category", root, map[string]any{
					"name":      fmt.Sprintf("%s %d-%d", faker.ProductName(), i, j),
					"parent_id": created.ID,
				})
				require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
			}
		}

		rec := app.Do(t, http.MethodGet, "/api/v1/category/tree", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var tree []catalogapp.CategoryTreeNode
		testutil.Decode(t, rec, &tree)
		require.Len(t, tree, 3)
		for i, node := range tree {
			assert.Equal(t, rootIDs[i], node.ID.String())
			assert.Len(t, node.Children, 2)
		}

		rec = app.Do(t, http.MethodDelete, "/api/v1/category/"+rootIDs[0], root, nil)
		assert.Equal(t, http.StatusConflict, rec.Code)

		rec = app.Do(t, http.MethodGet, "/api/v1/category?page_size=4", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		resp := testutil.Decode(t, rec, nil)
		require.NotNil(t, resp.Meta)
		assert.Equal(t, int64(9), resp.Meta.Total)
		assert.Equal(t, 3, resp.Meta.TotalPages)
	})

	t.Run("duplicate customer email conflicts", func(t *testing.T) {
		body := map[string]any{
			"email":      "dup@shop.test",
			"password":   "Customer1Pass",
			"first_name": faker.FirstName(),
			"last_name":  faker.LastName(),
		}
		rec := app.Do(t, http.MethodPost, "/api/v1/auth/customer/register", "", body)
		require.Equal(t, http.StatusCreated, rec.Code)

		rec = app.Do(t, http.MethodPost, "/api/v1/auth/customer/register", "", body)
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, dto.ErrCodeAlreadyExists, testutil.ErrorCode(t, rec))
	})
}

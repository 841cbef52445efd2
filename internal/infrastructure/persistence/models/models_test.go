package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopadmin/backend/internal/domain/catalog"
	"github.com/shopadmin/backend/internal/domain/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminModel_DropsUnknownPermissions(t *testing.T) {
	model := &AdminModel{
		BaseModel:   BaseModel{ID: uuid.New()},
		Email:       "ops@example.com",
		Role:        identity.RoleAdmin,
		Permissions: []string{"category:write", "reports:export", "upload:write"},
		IsActive:    true,
	}

	admin := model.ToDomain()
	assert.Equal(t, []identity.Permission{identity.PermCategoryWrite, identity.PermUploadWrite}, admin.Permissions)
	assert.Equal(t, model.ID, admin.ID)

	back := AdminModelFromDomain(admin)
	assert.Equal(t, []string{"category:write", "upload:write"}, back.Permissions)
}

func TestAttributeSetModel_KeepsMemberOrder(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	set, err := catalog.NewAttributeSet("Shoes", "", []uuid.UUID{c, a, b})
	require.NoError(t, err)

	model := AttributeSetModelFromDomain(set)
	require.Len(t, model.Items, 3)
	for i, item := range model.Items {
		assert.Equal(t, set.ID, item.AttributeSetID)
		assert.Equal(t, i, item.Position)
	}

	assert.Equal(t, []uuid.UUID{c, a, b}, model.ToDomain().AttributeIDs)
}

func TestCategoryModel_CopiesParentID(t *testing.T) {
	root, err := catalog.NewCategory("Root", "")
	require.NoError(t, err)
	child, err := catalog.NewChildCategory("Child", "", root)
	require.NoError(t, err)

	model := CategoryModelFromDomain(child)
	*model.ParentID = uuid.Nil
	assert.Equal(t, root.ID, *child.ParentID)
}

func TestAll_ListsEveryTable(t *testing.T) {
	names := make([]string, 0)
	for _, m := range All() {
		if tn, ok := m.(interface{ TableName() string }); ok {
			names = append(names, tn.TableName())
		}
	}
	assert.Equal(t, []string{
		"admins", "customers", "categories", "attributes",
		"attribute_values", "attribute_sets", "attribute_set_items", "uploaded_images",
	}, names)
}

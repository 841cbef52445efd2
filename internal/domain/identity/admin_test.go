package identity

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopadmin/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// plainHasher is a reversible hasher so domain tests stay fast
type plainHasher struct {
	err error
}

func (h plainHasher) Hash(password string) (string, error) {
	if h.err != nil {
		return "", h.err
	}
	return "hashed:" + password, nil
}

func (h plainHasher) Compare(hash, password string) bool {
	return hash == "hashed:"+password
}

func TestNewAdmin(t *testing.T) {
	t.Run("creates active admin with normalized email", func(t *testing.T) {
		admin, err := NewAdmin("  Ops@Example.COM ", "Ops Team", "Secret123", RoleAdmin,
			[]Permission{PermCategoryWrite}, plainHasher{})

		require.NoError(t, err)
		assert.Equal(t, "ops@example.com", admin.Email)
		assert.Equal(t, "Ops Team", admin.Name)
		assert.True(t, admin.IsActive)
		assert.Equal(t, "hashed:Secret123", admin.PasswordHash)
		assert.Equal(t, []Permission{PermCategoryWrite}, admin.Permissions)
		assert.NotEqual(t, "", admin.ID.String())
	})

	t.Run("nil permissions become empty list", func(t *testing.T) {
		admin, err := NewAdmin("a@example.com", "A", "Secret123", RoleAdmin, nil, plainHasher{})

		require.NoError(t, err)
		assert.NotNil(t, admin.Permissions)
		assert.Empty(t, admin.Permissions)
	})

	t.Run("rejects invalid email", func(t *testing.T) {
		_, err := NewAdmin("not-an-email", "A", "Secret123", RoleAdmin, nil, plainHasher{})
		assert.True(t, shared.IsDomainError(err, "INVALID_EMAIL"))
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewAdmin("a@example.com", "   ", "Secret123", RoleAdmin, nil, plainHasher{})
		assert.True(t, shared.IsDomainError(err, "INVALID_NAME"))
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		_, err := NewAdmin("a@example.com", "A", "Secret123", Role("owner"), nil, plainHasher{})
		assert.True(t, shared.IsDomainError(err, "INVALID_ROLE"))
	})

	t.Run("rejects weak password", func(t *testing.T) {
		_, err := NewAdmin("a@example.com", "A", "password", RoleAdmin, nil, plainHasher{})
		assert.True(t, shared.IsDomainError(err, "INVALID_PASSWORD"))
	})

	t.Run("surfaces hash failure as domain error", func(t *testing.T) {
		_, err := NewAdmin("a@example.com", "A", "Secret123", RoleAdmin, nil, plainHasher{err: errors.New("boom")})
		assert.True(t, shared.IsDomainError(err, "PASSWORD_HASH_ERROR"))
	})
}

func TestAdmin_Permissions(t *testing.T) {
	super, err := NewAdmin("root@example.com", "Root", "Secret123", RoleSuperAdmin, nil, plainHasher{})
	require.NoError(t, err)
	plain, err := NewAdmin("ops@example.com", "Ops", "Secret123", RoleAdmin,
		[]Permission{PermCategoryRead}, plainHasher{})
	require.NoError(t, err)

	t.Run("superadmin holds every permission", func(t *testing.T) {
		assert.True(t, super.HasPermission(PermAdminWrite))
		assert.ElementsMatch(t, AllPermissions(), super.EffectivePermissions())
	})

	t.Run("plain admin holds only stored permissions", func(t *testing.T) {
		assert.True(t, plain.HasPermission(PermCategoryRead))
		assert.False(t, plain.HasPermission(PermCategoryWrite))
		assert.Equal(t, []Permission{PermCategoryRead}, plain.EffectivePermissions())
	})

	t.Run("only superadmin manages superadmin", func(t *testing.T) {
		assert.False(t, plain.CanManage(super))
		assert.True(t, super.CanManage(super))
		assert.True(t, plain.CanManage(plain))
		assert.True(t, super.CanManage(plain))
	})

	t.Run("set permissions overwrites list", func(t *testing.T) {
		plain.SetPermissions([]Permission{PermUploadWrite})
		assert.Equal(t, []Permission{PermUploadWrite}, plain.Permissions)
	})
}

func TestAdmin_PasswordAndStatus(t *testing.T) {
	admin, err := NewAdmin("ops@example.com", "Ops", "Secret123", RoleAdmin, nil, plainHasher{})
	require.NoError(t, err)

	assert.True(t, admin.VerifyPassword("Secret123", plainHasher{}))
	assert.False(t, admin.VerifyPassword("wrong", plainHasher{}))

	require.NoError(t, admin.ChangePassword("NewSecret9", plainHasher{}))
	assert.True(t, admin.VerifyPassword("NewSecret9", plainHasher{}))
	assert.Error(t, admin.ChangePassword("short", plainHasher{}))

	admin.Deactivate()
	assert.False(t, admin.IsActive)
	admin.Activate()
	assert.True(t, admin.IsActive)

	assert.Nil(t, admin.LastLoginAt)
	admin.RecordLogin()
	assert.NotNil(t, admin.LastLoginAt)
}

func TestParsePermissions(t *testing.T) {
	t.Run("sorts and de-duplicates", func(t *testing.T) {
		perms, err := ParsePermissions([]string{"upload:write", "category:read", "upload:write"})

		require.NoError(t, err)
		assert.Equal(t, []Permission{PermCategoryRead, PermUploadWrite}, perms)
	})

	t.Run("rejects unknown value", func(t *testing.T) {
		_, err := ParsePermissions([]string{"category:read", "orders:write"})

		require.Error(t, err)
		assert.True(t, shared.IsDomainError(err, "INVALID_PERMISSION"))
		assert.Contains(t, err.Error(), "orders:write")
	})

	t.Run("empty input is allowed", func(t *testing.T) {
		perms, err := ParsePermissions(nil)
		require.NoError(t, err)
		assert.Empty(t, perms)
	})
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		password string
		valid    bool
	}{
		{"Secret123", true},
		{"Sh0rt", false},
		{"alllowercase1", false},
		{"ALLUPPERCASE1", false},
		{"NoDigitsHere", false},
		{strings.Repeat("Aa1", 22), false},
	}

	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			assert.Equal(t, tt.valid, IsValidPassword(tt.password))
		})
	}
}

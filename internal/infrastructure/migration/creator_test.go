package migration

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopadmin/backend/migrations"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add admins table", "add_admins_table"},
		{"Add-Admins-Table", "add_admins_table"},
		{"ADD_ADMINS_TABLE", "add_admins_table"},
		{"add__admins__table", "add_admins_table"},
		{"Add Index 123", "add_index_123"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"trailing_", "trailing"},
		{"_leading", "leading"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration(t *testing.T) {
	t.Run("first migration starts at version one", func(t *testing.T) {
		memFs := afero.NewMemMapFs()

		mf, err := CreateMigration(memFs, "migrations", "add admins table", "Admin accounts")
		require.NoError(t, err)

		assert.Equal(t, uint(1), mf.Version)
		assert.Equal(t, "migrations/000001_add_admins_table.up.sql", mf.UpPath)
		assert.Equal(t, "migrations/000001_add_admins_table.down.sql", mf.DownPath)

		up, err := afero.ReadFile(memFs, mf.UpPath)
		require.NoError(t, err)
		assert.Contains(t, string(up), "-- add_admins_table")
		assert.Contains(t, string(up), "-- Admin accounts")

		down, err := afero.ReadFile(memFs, mf.DownPath)
		require.NoError(t, err)
		assert.Contains(t, string(down), "Rollback for add_admins_table")
	})

	t.Run("continues after highest existing version", func(t *testing.T) {
		memFs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(memFs, "m/000002_b.up.sql", nil, 0o644))
		require.NoError(t, afero.WriteFile(memFs, "m/000001_a.up.sql", nil, 0o644))
		require.NoError(t, afero.WriteFile(memFs, "m/README.md", nil, 0o644))

		mf, err := CreateMigration(memFs, "m", "add-index", "")
		require.NoError(t, err)
		assert.Equal(t, uint(3), mf.Version)
		assert.True(t, strings.HasSuffix(mf.UpPath, "000003_add_index.up.sql"))

		up, err := afero.ReadFile(memFs, mf.UpPath)
		require.NoError(t, err)
		assert.NotContains(t, string(up), "-- \n")
	})

	t.Run("rejects names without usable characters", func(t *testing.T) {
		_, err := CreateMigration(afero.NewMemMapFs(), "m", "!!!", "")
		assert.Error(t, err)
	})
}

func TestListMigrations(t *testing.T) {
	t.Run("missing directory yields nothing", func(t *testing.T) {
		files, err := ListMigrations(afero.NewMemMapFs(), "nope")
		require.NoError(t, err)
		assert.Empty(t, files)
	})

	t.Run("orders by numeric version", func(t *testing.T) {
		memFs := afero.NewMemMapFs()
		for _, name := range []string{"000010_j.up.sql", "000010_j.down.sql", "000009_i.up.sql", "x_bad.up.sql"} {
			require.NoError(t, afero.WriteFile(memFs, "m/"+name, nil, 0o644))
		}

		files, err := ListMigrations(memFs, "m")
		require.NoError(t, err)
		require.Len(t, files, 2)
		assert.Equal(t, uint(9), files[0].Version)
		assert.Equal(t, "j", files[1].Name)
		assert.Equal(t, "m/000010_j.down.sql", files[1].DownPath)
	})
}

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	ups, err := fs.Glob(migrations.FS, "*.up.sql")
	require.NoError(t, err)
	require.NotEmpty(t, ups)

	for _, up := range ups {
		down := strings.TrimSuffix(up, ".up.sql") + ".down.sql"
		_, err := fs.Stat(migrations.FS, down)
		assert.NoError(t, err, "missing %s", down)
	}

	files, err := ListMigrations(afero.FromIOFS{FS: migrations.FS}, ".")
	require.NoError(t, err)
	for i, f := range files {
		assert.Equal(t, uint(i+1), f.Version, "migration versions must be contiguous")
	}
}

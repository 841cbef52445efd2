package media

import (
	"testing"

	"github.com/shopadmin/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUploadCategory(t *testing.T) {
	for _, c := range AllUploadCategories() {
		got, err := ParseUploadCategory(string(c))
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}

	got, err := ParseUploadCategory(" Products ")
	require.NoError(t, err)
	assert.Equal(t, CategoryProducts, got)

	_, err = ParseUploadCategory("invoices")
	assert.True(t, shared.IsDomainError(err, "INVALID_FOLDER"))
}

func TestNormalizeSubfolder(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"empty", "", "", false},
		{"single segment", "summer", "summer", false},
		{"three segments with slashes", "/a/b_c/d-1/", "a/b_c/d-1", false},
		{"too deep", "a/b/c/d", "", true},
		{"traversal", "../etc", "", true},
		{"uppercase", "Summer", "", true},
		{"empty segment", "a//b", "", true},
		{"reserved thumbs", "a/thumbs", "", true},
		{"dot segment", "a/./b", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeSubfolder(tt.input)
			if tt.wantErr {
				assert.True(t, shared.IsDomainError(err, "INVALID_FOLDER"), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKeys(t *testing.T) {
	folder := Folder(CategoryProducts, "shoes")
	assert.Equal(t, "products/shoes", folder)
	assert.Equal(t, "banners", Folder(CategoryBanners, ""))

	key := ObjectKey(folder, "01HZ.jpg")
	assert.Equal(t, "products/shoes/01HZ.jpg", key)
	assert.Equal(t, "products/shoes/thumbs/01HZ.jpg", ThumbnailKey(folder, "01HZ.jpg"))
	assert.Equal(t, ThumbnailKey(folder, "01HZ.jpg"), ThumbnailKeyFor(key))
}

func TestValidateKey(t *testing.T) {
	key, category, err := ValidateKey("products/shoes/01HZ.jpg")
	require.NoError(t, err)
	assert.Equal(t, "products/shoes/01HZ.jpg", key)
	assert.Equal(t, CategoryProducts, category)

	for _, bad := range []string{
		"",
		"/products/a.jpg",
		"products/../../etc/passwd",
		"products",
		"secrets/a.jpg",
		"products\\a.jpg",
		"products//a.jpg",
	} {
		_, _, err := ValidateKey(bad)
		assert.ErrorIs(t, err, ErrInvalidFolder, "key %q", bad)
	}
}

func TestOutputFormat(t *testing.T) {
	mime, ext := OutputFormat(MimePNG)
	assert.Equal(t, MimePNG, mime)
	assert.Equal(t, ".png", ext)

	for _, src := range []string{MimeJPEG, MimeWEBP, MimeGIF} {
		mime, ext := OutputFormat(src)
		assert.Equal(t, MimeJPEG, mime)
		assert.Equal(t, ".jpg", ext)
	}

	assert.True(t, IsAllowedMIME(MimeWEBP))
	assert.False(t, IsAllowedMIME("application/pdf"))
}

func TestNewUploadedImage(t *testing.T) {
	img, err := NewUploadedImage(CategoryAvatars, "avatars", "avatars/x.jpg", "avatars/thumbs/x.jpg")
	require.NoError(t, err)
	assert.Equal(t, CategoryAvatars, img.Category)

	_, err = NewUploadedImage("misc", "misc", "misc/x.jpg", "")
	assert.ErrorIs(t, err, ErrInvalidFolder)

	_, err = NewUploadedImage(CategoryAvatars, "avatars", "", "")
	assert.True(t, shared.IsDomainError(err, "INVALID_KEY"))
}

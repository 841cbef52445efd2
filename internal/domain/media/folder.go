// Package media holds uploaded image records and the rules for where they may be stored.
package media

import (
	"path"
	"regexp"
	"strings"

	"github.com/shopadmin/backend/internal/domain/shared"
)

// UploadCategory is the top-level folder an upload is filed under
type UploadCategory string

const (
	CategoryCategories UploadCategory = "categories"
	CategoryProducts   UploadCategory = "products"
	CategoryAttributes UploadCategory = "attributes"
	CategoryBanners    UploadCategory = "banners"
	CategoryAvatars    UploadCategory = "avatars"
)

// MaxSubfolderDepth is the number of path segments allowed below a category
const MaxSubfolderDepth = 3

// ThumbnailDir is the directory thumbnails are written to, next to their original
const ThumbnailDir = "thumbs"

var segmentRegex = regexp.MustCompile(`^[a-z0-9_-]+$`)

// ErrInvalidFolder is returned for unknown categories and malformed subfolders
var ErrInvalidFolder = shared.NewDomainError("INVALID_FOLDER", "Invalid upload folder")

// AllUploadCategories returns the upload category whitelist
func AllUploadCategories() []UploadCategory {
	return []UploadCategory{
		CategoryCategories,
		CategoryProducts,
		CategoryAttributes,
		CategoryBanners,
		CategoryAvatars,
	}
}

// IsValid reports whether c is whitelisted
func (c UploadCategory) IsValid() bool {
	for _, known := range AllUploadCategories() {
		if c == known {
			return true
		}
	}
	return false
}

// ParseUploadCategory validates a raw category name
func ParseUploadCategory(raw string) (UploadCategory, error) {
	c := UploadCategory(strings.ToLower(strings.TrimSpace(raw)))
	if !c.IsValid() {
		return "", shared.NewDomainError("INVALID_FOLDER", "Unknown upload category: "+raw)
	}
	return c, nil
}

// NormalizeSubfolder validates an optional subfolder such as "summer/2024".
// Leading and trailing slashes are ignored; an empty input yields "".
func NormalizeSubfolder(raw string) (string, error) {
	trimmed := strings.Trim(strings.TrimSpace(raw), "/")
	if trimmed == "" {
		return "", nil
	}

	segments := strings.Split(trimmed, "/")
	if len(segments) > MaxSubfolderDepth {
		return "", shared.NewDomainError("INVALID_FOLDER", "Subfolder cannot be nested more than 3 levels")
	}
	for _, seg := range segments {
		if !segmentRegex.MatchString(seg) {
			return "", shared.NewDomainError("INVALID_FOLDER", "Subfolder segments may only contain a-z, 0-9, '_' and '-'")
		}
		if seg == ThumbnailDir {
			return "", shared.NewDomainError("INVALID_FOLDER", "Subfolder cannot use the reserved name 'thumbs'")
		}
	}
	return strings.Join(segments, "/"), nil
}

// Folder returns the directory for a category and normalized subfolder
func Folder(category UploadCategory, subfolder string) string {
	if subfolder == "" {
		return string(category)
	}
	return string(category) + "/" + subfolder
}

// ObjectKey returns the storage key of an original image
func ObjectKey(folder, name string) string {
	return folder + "/" + name
}

// ThumbnailKey returns the storage key of the thumbnail for an original stored in folder
func ThumbnailKey(folder, name string) string {
	return folder + "/" + ThumbnailDir + "/" + name
}

// ValidateKey checks that a storage key stays inside a whitelisted category
// and returns the cleaned key with its category.
func ValidateKey(key string) (string, UploadCategory, error) {
	key = strings.TrimSpace(key)
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return "", "", ErrInvalidFolder
	}
	for _, seg := range strings.Split(key, "/") {
		if seg == ".." || seg == "." || seg == "" {
			return "", "", ErrInvalidFolder
		}
	}

	cleaned := path.Clean(key)
	parts := strings.Split(cleaned, "/")
	if len(parts) < 2 {
		return "", "", ErrInvalidFolder
	}
	category := UploadCategory(parts[0])
	if !category.IsValid() {
		return "", "", ErrInvalidFolder
	}
	return cleaned, category, nil
}

// ThumbnailKeyFor derives the thumbnail key from an original key
func ThumbnailKeyFor(key string) string {
	dir, name := path.Split(key)
	return strings.TrimSuffix(dir, "/") + "/" + ThumbnailDir + "/" + name
}

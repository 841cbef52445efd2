package media

import (
	"github.com/google/uuid"
	"github.com/shopadmin/backend/internal/domain/shared"
)

// Accepted image MIME types, as detected from file content
const (
	MimeJPEG = "image/jpeg"
	MimePNG  = "image/png"
	MimeWEBP = "image/webp"
	MimeGIF  = "image/gif"
)

// IsAllowedMIME reports whether a detected MIME type may be uploaded
func IsAllowedMIME(mime string) bool {
	switch mime {
	case MimeJPEG, MimePNG, MimeWEBP, MimeGIF:
		return true
	}
	return false
}

// OutputFormat returns the stored MIME type and extension for a source type.
// PNG keeps transparency; everything else is re-encoded as JPEG.
func OutputFormat(sourceMime string) (mime string, ext string) {
	if sourceMime == MimePNG {
		return MimePNG, ".png"
	}
	return MimeJPEG, ".jpg"
}

// UploadedImage records a processed image and its thumbnail in storage
type UploadedImage struct {
	shared.BaseEntity
	Category     UploadCategory
	Folder       string
	Key          string
	URL          string
	ThumbnailKey string
	ThumbnailURL string
	OriginalName string
	MimeType     string
	Size         int64
	Width        int
	Height       int
	UploadedBy   *uuid.UUID
}

// NewUploadedImage creates a record for a stored image
func NewUploadedImage(category UploadCategory, folder, key, thumbKey string) (*UploadedImage, error) {
	if !category.IsValid() {
		return nil, ErrInvalidFolder
	}
	if key == "" {
		return nil, shared.NewDomainError("INVALID_KEY", "Storage key cannot be empty")
	}
	return &UploadedImage{
		BaseEntity:   shared.NewBaseEntity(),
		Category:     category,
		Folder:       folder,
		Key:          key,
		ThumbnailKey: thumbKey,
	}, nil
}

// UploadFilter narrows upload listings
type UploadFilter struct {
	shared.Filter
	Category *UploadCategory
}

package media

import (
	"context"

	"github.com/google/uuid"
)

// ImageRepository defines the interface for uploaded image persistence
type ImageRepository interface {
	Save(ctx context.Context, image *UploadedImage) error
	FindByID(ctx context.Context, id uuid.UUID) (*UploadedImage, error)
	FindByKey(ctx context.Context, key string) (*UploadedImage, error)
	FindAll(ctx context.Context, filter UploadFilter) ([]UploadedImage, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	domain "github.com/shopadmin/backend/internal/domain/media"
	"github.com/shopadmin/backend/internal/domain/shared"
	"github.com/shopadmin/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var (
	// ErrFileTooLarge is returned when an upload exceeds the size limit
	ErrFileTooLarge = shared.NewDomainError("FILE_TOO_LARGE", "File exceeds the maximum upload size")
	// ErrUnsupportedMediaType is returned for content that is not an accepted image
	ErrUnsupportedMediaType = shared.NewDomainError("UNSUPPORTED_MEDIA_TYPE", "Only JPEG, PNG, WEBP and GIF images are accepted")
)

// UploadInput is a single image upload
type UploadInput struct {
	Filename   string
	Size       int64
	Content    io.Reader
	Category   string
	Subfolder  string
	UploadedBy *uuid.UUID
}

// UploadResult describes a stored image
type UploadResult struct {
	ID           uuid.UUID `json:"id"`
	URL          string    `json:"url"`
	ThumbnailURL string    `json:"thumbnail_url"`
	Key          string    `json:"key"`
	ThumbnailKey string    `json:"thumbnail_key"`
	Category     string    `json:"category"`
	OriginalName string    `json:"original_name"`
	MimeType     string    `json:"mime_type"`
	Size         int64     `json:"size"`
	Width        int       `json:"width"`
	Height       int       `json:"height"`
	CreatedAt    time.Time `json:"created_at"`
}

// ToUploadResult converts a stored image record
func ToUploadResult(img *domain.UploadedImage) UploadResult {
	return UploadResult{
		ID:           img.ID,
		URL:          img.URL,
		ThumbnailURL: img.ThumbnailURL,
		Key:          img.Key,
		ThumbnailKey: img.ThumbnailKey,
		Category:     string(img.Category),
		OriginalName: img.OriginalName,
		MimeType:     img.MimeType,
		Size:         img.Size,
		Width:        img.Width,
		Height:       img.Height,
		CreatedAt:    img.CreatedAt,
	}
}

// UploadService validates, processes and stores images
type UploadService struct {
	storage   ObjectStorage
	images    domain.ImageRepository
	processor *ImageProcessor
	maxSize   int64
	metrics   *telemetry.BusinessMetrics
	logger    *zap.Logger
	newName   func() string
}

// NewUploadService creates a new upload service
func NewUploadService(
	storage ObjectStorage,
	images domain.ImageRepository,
	processor *ImageProcessor,
	maxSize int64,
	metrics *telemetry.BusinessMetrics,
	logger *zap.Logger,
) *UploadService {
	return &UploadService{
		storage:   storage,
		images:    images,
		processor: processor,
		maxSize:   maxSize,
		metrics:   metrics,
		logger:    logger,
		newName:   func() string { return ulid.Make().String() },
	}
}

// Upload runs the full pipeline: size limit, content sniffing, folder
// validation, resize and thumbnail, storage writes and the database record.
func (s *UploadService) Upload(ctx context.Context, input UploadInput) (*UploadResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "upload", "Upload",
		attribute.String("upload.category", input.Category))
	defer span.End()

	result, err := s.upload(ctx, input)
	if err != nil {
		telemetry.RecordError(span, err)
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) {
			s.metrics.RecordUploadRejected(ctx, domainErr.Code)
		}
		return nil, err
	}
	s.metrics.RecordUpload(ctx, result.Category, result.Size)
	return result, nil
}

func (s *UploadService) upload(ctx context.Context, input UploadInput) (*UploadResult, error) {
	if s.maxSize > 0 && input.Size > s.maxSize {
		return nil, ErrFileTooLarge
	}
	data, err := s.readLimited(input.Content)
	if err != nil {
		return nil, err
	}

	detected := mimetype.Detect(data)
	sourceMime := baseMime(detected.String())
	if !domain.IsAllowedMIME(sourceMime) {
		s.logger.Warn("Upload rejected by content type",
			zap.String("filename", input.Filename),
			zap.String("detected", detected.String()))
		return nil, ErrUnsupportedMediaType
	}

	category, err := domain.ParseUploadCategory(input.Category)
	if err != nil {
		return nil, err
	}
	subfolder, err := domain.NormalizeSubfolder(input.Subfolder)
	if err != nil {
		return nil, err
	}
	folder := domain.Folder(category, subfolder)

	processed, err := s.processor.Process(data, sourceMime)
	if errors.Is(err, ErrImageDimensions) {
		s.logger.Warn("Upload rejected by pixel count", zap.String("filename", input.Filename))
		return nil, err
	}
	if err != nil {
		s.logger.Warn("Upload could not be decoded", zap.String("filename", input.Filename), zap.Error(err))
		return nil, shared.NewDomainError("INVALID_IMAGE", "The file could not be decoded as an image")
	}

	name := s.newName() + processed.Ext
	key := domain.ObjectKey(folder, name)
	thumbKey := domain.ThumbnailKey(folder, name)

	if err := s.storage.Put(ctx, key, processed.Data, processed.MimeType); err != nil {
		return nil, fmt.Errorf("store image: %w", err)
	}
	if err := s.storage.Put(ctx, thumbKey, processed.Thumbnail, processed.MimeType); err != nil {
		s.cleanup(ctx, key)
		return nil, fmt.Errorf("store thumbnail: %w", err)
	}

	record, err := domain.NewUploadedImage(category, folder, key, thumbKey)
	if err != nil {
		s.cleanup(ctx, key, thumbKey)
		return nil, err
	}
	record.URL = s.storage.URL(key)
	record.ThumbnailURL = s.storage.URL(thumbKey)
	record.OriginalName = input.Filename
	record.MimeType = processed.MimeType
	record.Size = int64(len(processed.Data))
	record.Width = processed.Width
	record.Height = processed.Height
	record.UploadedBy = input.UploadedBy

	if err := s.images.Save(ctx, record); err != nil {
		s.cleanup(ctx, key, thumbKey)
		return nil, err
	}

	s.logger.Info("Image uploaded",
		zap.String("key", key),
		zap.String("mime", processed.MimeType),
		zap.Int("width", processed.Width),
		zap.Int("height", processed.Height))

	result := ToUploadResult(record)
	return &result, nil
}

// readLimited reads at most maxSize bytes; the declared size is not trusted
func (s *UploadService) readLimited(r io.Reader) ([]byte, error) {
	if r == nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "File is required")
	}
	if s.maxSize <= 0 {
		return io.ReadAll(r)
	}
	data, err := io.ReadAll(io.LimitReader(r, s.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > s.maxSize {
		return nil, ErrFileTooLarge
	}
	if len(data) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "File is empty")
	}
	return data, nil
}

// Delete removes an image and its thumbnail. ref may be a storage key or a
// URL returned by Upload.
func (s *UploadService) Delete(ctx context.Context, ref string) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "upload", "Delete")
	defer span.End()

	key, err := s.resolveKey(ref)
	if err != nil {
		return err
	}

	if err := s.storage.Delete(ctx, key); err != nil {
		if errors.Is(err, ErrObjectNotFound) {
			return shared.ErrNotFound
		}
		telemetry.RecordError(span, err)
		return err
	}

	thumbKey := domain.ThumbnailKeyFor(key)
	if err := s.storage.Delete(ctx, thumbKey); err != nil && !errors.Is(err, ErrObjectNotFound) {
		s.logger.Warn("Failed to delete thumbnail", zap.String("key", thumbKey), zap.Error(err))
	}

	record, err := s.images.FindByKey(ctx, key)
	switch {
	case err == nil:
		if err := s.images.Delete(ctx, record.ID); err != nil {
			return err
		}
	case errors.Is(err, shared.ErrNotFound):
		s.logger.Info("Deleted image had no record", zap.String("key", key))
	default:
		return err
	}

	s.logger.Info("Image deleted", zap.String("key", key))
	return nil
}

// resolveKey maps a URL or key to a validated original-image key
func (s *UploadService) resolveKey(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if strings.Contains(ref, "://") || strings.HasPrefix(ref, "/") {
		key, ok := s.storage.KeyFromURL(ref)
		if !ok {
			return "", domain.ErrInvalidFolder
		}
		ref = key
	}

	key, _, err := domain.ValidateKey(ref)
	if err != nil {
		return "", err
	}
	for _, seg := range strings.Split(key, "/") {
		if seg == domain.ThumbnailDir {
			return "", shared.NewDomainError("INVALID_FOLDER", "Thumbnails are removed together with their original")
		}
	}
	return key, nil
}

// GetByID returns a single upload record
func (s *UploadService) GetByID(ctx context.Context, id uuid.UUID) (*UploadResult, error) {
	img, err := s.images.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	result := ToUploadResult(img)
	return &result, nil
}

// List returns a page of upload records
func (s *UploadService) List(ctx context.Context, filter domain.UploadFilter) (shared.Paginated[UploadResult], error) {
	filter.Filter = filter.Filter.Normalize()

	images, total, err := s.images.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[UploadResult]{}, err
	}

	items := make([]UploadResult, len(images))
	for i := range images {
		items[i] = ToUploadResult(&images[i])
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// cleanup removes objects written before a later step failed
func (s *UploadService) cleanup(ctx context.Context, keys ...string) {
	for _, key := range keys {
		if err := s.storage.Delete(ctx, key); err != nil && !errors.Is(err, ErrObjectNotFound) {
			s.logger.Warn("Failed to remove orphaned upload", zap.String("key", key), zap.Error(err))
		}
	}
}

// baseMime strips parameters such as "; charset=binary"
func baseMime(m string) string {
	if i := strings.IndexByte(m, ';'); i >= 0 {
		m = m[:i]
	}
	return strings.TrimSpace(m)
}

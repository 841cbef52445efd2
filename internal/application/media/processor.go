package media

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	domain "github.com/shopadmin/backend/internal/domain/media"
	"github.com/shopadmin/backend/internal/domain/shared"

	// register the webp decoder with image.Decode
	_ "golang.org/x/image/webp"
)

const (
	defaultJPEGQuality = 85
	// DefaultMaxPixels bounds width*height of an accepted source image
	DefaultMaxPixels int64 = 40_000_000
)

// ErrImageDimensions is returned when the declared pixel count exceeds the
// processor limit. It is checked from the header, before any pixel is decoded.
var ErrImageDimensions = shared.NewDomainError("FILE_TOO_LARGE", "Image dimensions exceed the maximum pixel count")

// ProcessedImage is an encoded original plus its thumbnail
type ProcessedImage struct {
	MimeType  string
	Ext       string
	Data      []byte
	Width     int
	Height    int
	Thumbnail []byte
}

// ImageProcessor resizes uploads and renders thumbnails
type ImageProcessor struct {
	maxWidth    int
	maxHeight   int
	thumbSize   int
	jpegQuality int
	maxPixels   int64
}

// ImageProcessorOption is a functional option for configuring ImageProcessor
type ImageProcessorOption func(*ImageProcessor)

// WithMaxPixels caps width*height of source images. Non-positive values keep the default.
func WithMaxPixels(n int64) ImageProcessorOption {
	return func(p *ImageProcessor) {
		if n > 0 {
			p.maxPixels = n
		}
	}
}

// NewImageProcessor creates a processor. Non-positive bounds disable resizing.
func NewImageProcessor(maxWidth, maxHeight, thumbSize int, opts ...ImageProcessorOption) *ImageProcessor {
	if thumbSize <= 0 {
		thumbSize = 300
	}
	p := &ImageProcessor{
		maxWidth:    maxWidth,
		maxHeight:   maxHeight,
		thumbSize:   thumbSize,
		jpegQuality: defaultJPEGQuality,
		maxPixels:   DefaultMaxPixels,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process decodes data (already sniffed as sourceMime), fits it inside the
// configured bounds without upscaling and renders a square thumbnail.
// PNG sources stay PNG, everything else is written as JPEG.
func (p *ImageProcessor) Process(data []byte, sourceMime string) (*ProcessedImage, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image header: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("decode image header: invalid dimensions %dx%d", cfg.Width, cfg.Height)
	}
	if int64(cfg.Width)*int64(cfg.Height) > p.maxPixels {
		return nil, ErrImageDimensions
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	if p.maxWidth > 0 && p.maxHeight > 0 {
		// Fit returns a copy unchanged when the image is already within bounds
		img = imaging.Fit(img, p.maxWidth, p.maxHeight, imaging.Lanczos)
	}
	thumb := imaging.Fill(img, p.thumbSize, p.thumbSize, imaging.Center, imaging.Lanczos)

	mime, ext := domain.OutputFormat(sourceMime)
	original, err := p.encode(img, mime)
	if err != nil {
		return nil, err
	}
	thumbnail, err := p.encode(thumb, mime)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	return &ProcessedImage{
		MimeType:  mime,
		Ext:       ext,
		Data:      original,
		Width:     bounds.Dx(),
		Height:    bounds.Dy(),
		Thumbnail: thumbnail,
	}, nil
}

func (p *ImageProcessor) encode(img image.Image, mime string) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	if mime == domain.MimePNG {
		err = imaging.Encode(&buf, img, imaging.PNG)
	} else {
		err = imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(p.jpegQuality))
	}
	if err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	return buf.Bytes(), nil
}

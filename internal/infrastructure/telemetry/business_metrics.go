package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// BusinessMetrics holds the domain counters exported next to the HTTP metrics
type BusinessMetrics struct {
	uploads        *Counter
	uploadBytes    *Counter
	uploadRejected *Counter
	logins         *Counter
}

// NewBusinessMetrics registers the upload and login instruments on meter
func NewBusinessMetrics(meter metric.Meter) (*BusinessMetrics, error) {
	uploads, err := NewCounter(meter, "shop.uploads.stored", "Images stored", "{image}")
	if err != nil {
		return nil, err
	}
	uploadBytes, err := NewCounter(meter, "shop.uploads.bytes", "Bytes written for stored images and thumbnails", "By")
	if err != nil {
		return nil, err
	}
	rejected, err := NewCounter(meter, "shop.uploads.rejected", "Uploads rejected during validation", "{upload}")
	if err != nil {
		return nil, err
	}
	logins, err := NewCounter(meter, "shop.auth.logins", "Login attempts", "{attempt}")
	if err != nil {
		return nil, err
	}
	return &BusinessMetrics{
		uploads:        uploads,
		uploadBytes:    uploadBytes,
		uploadRejected: rejected,
		logins:         logins,
	}, nil
}

// RecordUpload counts a stored image and the bytes written for it
func (m *BusinessMetrics) RecordUpload(ctx context.Context, category string, bytes int64) {
	if m == nil {
		return
	}
	attrs := attribute.String("category", category)
	m.uploads.Inc(ctx, attrs)
	m.uploadBytes.Add(ctx, bytes, attrs)
}

// RecordUploadRejected counts an upload refused with the given error code
func (m *BusinessMetrics) RecordUploadRejected(ctx context.Context, code string) {
	if m == nil {
		return
	}
	m.uploadRejected.Inc(ctx, attribute.String("code", code))
}

// RecordLogin counts a login attempt by account kind and outcome
func (m *BusinessMetrics) RecordLogin(ctx context.Context, kind string, success bool) {
	if m == nil {
		return
	}
	m.logins.Inc(ctx, attribute.String("kind", kind), attribute.Bool("success", success))
}

package models

import (
	"github.com/google/uuid"
	"github.com/shopadmin/backend/internal/domain/media"
)

// UploadedImageModel is the persistence model for the UploadedImage domain entity.
type UploadedImageModel struct {
	BaseModel
	Category     media.UploadCategory `gorm:"type:varchar(20);not null;index"`
	Folder       string               `gorm:"type:varchar(300);not null"`
	Key          string               `gorm:"column:object_key;type:varchar(500);not null;uniqueIndex:idx_uploaded_images_key"`
	URL          string               `gorm:"type:varchar(1000);not null"`
	ThumbnailKey string               `gorm:"type:varchar(500)"`
	ThumbnailURL string               `gorm:"type:varchar(1000)"`
	OriginalName string               `gorm:"type:varchar(255)"`
	MimeType     string               `gorm:"type:varchar(50);not null"`
	Size         int64                `gorm:"not null;default:0"`
	Width        int                  `gorm:"not null;default:0"`
	Height       int                  `gorm:"not null;default:0"`
	UploadedBy   *uuid.UUID           `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (UploadedImageModel) TableName() string {
	return "uploaded_images"
}

// ToDomain converts the persistence model to a domain UploadedImage entity.
func (m *UploadedImageModel) ToDomain() *media.UploadedImage {
	return &media.UploadedImage{
		BaseEntity:   m.BaseModel.ToDomain(),
		Category:     m.Category,
		Folder:       m.Folder,
		Key:          m.Key,
		URL:          m.URL,
		ThumbnailKey: m.ThumbnailKey,
		ThumbnailURL: m.ThumbnailURL,
		OriginalName: m.OriginalName,
		MimeType:     m.MimeType,
		Size:         m.Size,
		Width:        m.Width,
		Height:       m.Height,
		UploadedBy:   uuidPtr(m.UploadedBy),
	}
}

// FromDomain populates the persistence model from a domain UploadedImage entity.
func (m *UploadedImageModel) FromDomain(img *media.UploadedImage) {
	m.FromDomainBaseEntity(img.BaseEntity)
	m.Category = img.Category
	m.Folder = img.Folder
	m.Key = img.Key
	m.URL = img.URL
	m.ThumbnailKey = img.ThumbnailKey
	m.ThumbnailURL = img.ThumbnailURL
	m.OriginalName = img.OriginalName
	m.MimeType = img.MimeType
	m.Size = img.Size
	m.Width = img.Width
	m.Height = img.Height
	m.UploadedBy = uuidPtr(img.UploadedBy)
}

// UploadedImageModelFromDomain creates a new persistence model from a domain UploadedImage entity.
func UploadedImageModelFromDomain(img *media.UploadedImage) *UploadedImageModel {
	m := &UploadedImageModel{}
	m.FromDomain(img)
	return m
}

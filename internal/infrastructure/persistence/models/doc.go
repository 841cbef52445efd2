// Package models contains GORM persistence models that map to database tables.
// They are kept apart from domain entities so the domain layer stays free of
// ORM tags; each model has ToDomain/FromDomain mappers used by the repositories.
//
// Files:
//   - base.go: BaseModel shared by every table
//   - identity.go: admins and customers
//   - catalog.go: categories, attributes, attribute values and attribute sets
//   - media.go: uploaded images
package models

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopadmin/backend/internal/domain/identity"
)

// AdminModel is the persistence model for the Admin domain entity.
// Emails are stored normalized to lower case so the unique index is case-insensitive.
type AdminModel struct {
	BaseModel
	Email        string        `gorm:"type:varchar(200);not null;uniqueIndex:idx_admins_email"`
	Name         string        `gorm:"type:varchar(100);not null"`
	PasswordHash string        `gorm:"type:varchar(255);not null"`
	Role         identity.Role `gorm:"type:varchar(20);not null;default:'admin'"`
	Permissions  []string      `gorm:"type:text;serializer:json;not null"`
	IsActive     bool          `gorm:"not null;default:true"`
	LastLoginAt  *time.Time
}

// TableName returns the table name for GORM
func (AdminModel) TableName() string {
	return "admins"
}

// ToDomain converts the persistence model to a domain Admin entity.
// Stored permissions that are no longer known are dropped.
func (m *AdminModel) ToDomain() *identity.Admin {
	perms := make([]identity.Permission, 0, len(m.Permissions))
	for _, p := range m.Permissions {
		if perm := identity.Permission(p); perm.IsValid() {
			perms = append(perms, perm)
		}
	}
	return &identity.Admin{
		BaseEntity:   m.BaseModel.ToDomain(),
		Email:        m.Email,
		Name:         m.Name,
		PasswordHash: m.PasswordHash,
		Role:         m.Role,
		Permissions:  perms,
		IsActive:     m.IsActive,
		LastLoginAt:  m.LastLoginAt,
	}
}

// FromDomain populates the persistence model from a domain Admin entity.
func (m *AdminModel) FromDomain(a *identity.Admin) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.Email = a.Email
	m.Name = a.Name
	m.PasswordHash = a.PasswordHash
	m.Role = a.Role
	m.Permissions = identity.PermissionStrings(a.Permissions)
	m.IsActive = a.IsActive
	m.LastLoginAt = a.LastLoginAt
}

// AdminModelFromDomain creates a new persistence model from a domain Admin entity.
func AdminModelFromDomain(a *identity.Admin) *AdminModel {
	m := &AdminModel{}
	m.FromDomain(a)
	return m
}

// CustomerModel is the persistence model for the Customer domain entity.
type CustomerModel struct {
	BaseModel
	Email        string  `gorm:"type:varchar(200);not null;uniqueIndex:idx_customers_email"`
	Phone        *string `gorm:"type:varchar(20);uniqueIndex:idx_customers_phone"`
	FirstName    string  `gorm:"type:varchar(50);not null"`
	LastName     string  `gorm:"type:varchar(50);not null"`
	PasswordHash string  `gorm:"type:varchar(255);not null"`
	IsActive     bool    `gorm:"not null;default:true"`
	LastLoginAt  *time.Time
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer entity.
func (m *CustomerModel) ToDomain() *identity.Customer {
	return &identity.Customer{
		BaseEntity:   m.BaseModel.ToDomain(),
		Email:        m.Email,
		Phone:        m.Phone,
		FirstName:    m.FirstName,
		LastName:     m.LastName,
		PasswordHash: m.PasswordHash,
		IsActive:     m.IsActive,
		LastLoginAt:  m.LastLoginAt,
	}
}

// FromDomain populates the persistence model from a domain Customer entity.
func (m *CustomerModel) FromDomain(c *identity.Customer) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.Email = c.Email
	m.Phone = c.Phone
	m.FirstName = c.FirstName
	m.LastName = c.LastName
	m.PasswordHash = c.PasswordHash
	m.IsActive = c.IsActive
	m.LastLoginAt = c.LastLoginAt
}

// CustomerModelFromDomain creates a new persistence model from a domain Customer entity.
func CustomerModelFromDomain(c *identity.Customer) *CustomerModel {
	m := &CustomerModel{}
	m.FromDomain(c)
	return m
}

// uuidPtr copies an optional id
func uuidPtr(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	FullName string     `gorm:"size:100;not null" json:"full_name"`
	Email    string     `gorm:"size:100;not null;index" json:"email"`
	Phone    string     `gorm:"size:20" json:"phone"`
	Birthday *time.Time `gorm:"type:date" json:"birthday,omitempty"`

	PasswordHash *string `gorm:"size:255" json:"-"`

	Status string `gorm:"size:20;not null;default:'active'" json:"status"`
	Role   string `gorm:"size:20;not null;index" json:"role"`

	// Domain names a customeradmin's tenant subdomain; OwningTenantID points
	// a client at its customeradmin. Both are meaningless for other roles.
	Domain         string     `gorm:"size:100;index" json:"domain,omitempty"`
	OwningTenantID *uuid.UUID `gorm:"type:uuid;index" json:"owning_tenant_id,omitempty"`

	ExternalIdentityID       *string `gorm:"size:255" json:"-"`
	ExternalIdentityProvider string  `gorm:"size:20;not null;default:'local'" json:"external_identity_provider"`

	ResetTokenHash   *string    `gorm:"size:64" json:"-"`
	ResetTokenExpiry *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

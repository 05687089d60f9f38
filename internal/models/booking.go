package models

import (
	"time"

	"github.com/google/uuid"
)

type Booking struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	CustomerID uuid.UUID `gorm:"type:uuid;not null;index" json:"customer_id"`
	Customer   User      `gorm:"foreignKey:CustomerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	// ProviderID is nil when the booking contends for the shared
	// "any provider" pool.
	ProviderID *uuid.UUID `gorm:"type:uuid;index" json:"provider_id"`
	Provider   *User      `gorm:"foreignKey:ProviderID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	PatientName    string `gorm:"size:100;not null" json:"patient_name"`
	PatientContact string `gorm:"size:100" json:"patient_contact"`
	Title          string `gorm:"size:100" json:"title"`

	AppointmentType string `gorm:"size:20;not null" json:"appointment_type"`

	AppointmentDate time.Time `gorm:"type:date;not null;index" json:"appointment_date"`
	StartTime       string    `gorm:"size:5;not null" json:"start_time"`
	EndTime         string    `gorm:"size:5;not null" json:"end_time"`
	DurationMinutes int       `json:"duration_minutes"`

	Status string `gorm:"size:20;not null;default:'pending';index" json:"status"`

	CancellationReason *string    `gorm:"size:255" json:"cancellation_reason,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	CancelledBy        *uuid.UUID `gorm:"type:uuid" json:"cancelled_by,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

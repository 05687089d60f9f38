package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinic-scheduler/internal/models"
)

type BookingListDTO struct {
	ID              uuid.UUID `json:"id"`
	AppointmentDate time.Time `json:"appointment_date"`
	StartTime       string    `json:"start_time"`
	EndTime         string    `json:"end_time"`
	Status          string    `json:"status"`
	AppointmentType string    `json:"appointment_type"`
	Title           string    `json:"title,omitempty"`
	PatientName     string    `json:"patient_name"`
	CustomerName    string    `json:"customer_name,omitempty"`
	ProviderName    string    `json:"provider_name,omitempty"`
}

// NewBookingListDTO flattens a booking and its preloaded customer/provider
// rows for schedule listings.
func NewBookingListDTO(b *models.Booking) BookingListDTO {
	out := BookingListDTO{
		ID:              b.ID,
		AppointmentDate: b.AppointmentDate,
		StartTime:       b.StartTime,
		EndTime:         b.EndTime,
		Status:          b.Status,
		AppointmentType: b.AppointmentType,
		Title:           b.Title,
		PatientName:     b.PatientName,
		CustomerName:    b.Customer.FullName,
	}
	if b.Provider != nil {
		out.ProviderName = b.Provider.FullName
	}
	return out
}

package booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinic-scheduler/internal/models"
)

type Repository interface {
	// -------- Booking (create / conflict) --------

	// CreateBooking must enforce slot exclusivity at the storage layer:
	// a concurrent insert for an overlapping interval on the same provider
	// scope yields a conflict error for all but one caller.
	CreateBooking(
		ctx context.Context,
		b *models.Booking,
	) error

	// -------- Booking (read / mutate) --------
	GetBookingByID(
		ctx context.Context,
		id uuid.UUID,
	) (*models.Booking, error)

	UpdateBooking(
		ctx context.Context,
		b *models.Booking,
	) error

	DeleteBooking(
		ctx context.Context,
		id uuid.UUID,
	) error

	// -------- Conflict window --------

	// ListActiveIntervals returns the occupied intervals on a date for a
	// provider scope (nil providerID = the shared unassigned pool), skipping
	// excludeID so an update does not collide with its own prior record.
	ListActiveIntervals(
		ctx context.Context,
		providerID *uuid.UUID,
		date time.Time,
		excludeID *uuid.UUID,
	) ([]Interval, error)

	// -------- Listings --------
	ListBookingsForTenantDay(
		ctx context.Context,
		tenantID uuid.UUID,
		date time.Time,
	) ([]models.Booking, error)

	ListBookingsForCustomer(
		ctx context.Context,
		customerID uuid.UUID,
		status string,
	) ([]models.Booking, error)
}

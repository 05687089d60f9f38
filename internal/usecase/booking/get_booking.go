package booking

import (
	"context"

	"github.com/google/uuid"

	domain "github.com/clinicdesk/clinic-scheduler/internal/domain/booking"
	identdomain "github.com/clinicdesk/clinic-scheduler/internal/domain/identity"
	"github.com/clinicdesk/clinic-scheduler/internal/models"
)

// ======================================================
// USE CASE
// ======================================================

type GetBooking struct {
	repo  domain.Repository
	users identdomain.Repository
}

func NewGetBooking(
	repo domain.Repository,
	users identdomain.Repository,
) *GetBooking {
	return &GetBooking{repo: repo, users: users}
}

// ======================================================
// EXECUTE
// ======================================================

// Execute loads one booking. Visible to its own customer, to the
// customeradmin owning that customer, and to administrators.
func (uc *GetBooking) Execute(
	ctx context.Context,
	actorID uuid.UUID,
	bookingID uuid.UUID,
) (*models.Booking, error) {

	b, err := uc.repo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if _, err := authorizeBookingAccess(ctx, uc.users, actorID, b); err != nil {
		return nil, err
	}

	return b, nil
}

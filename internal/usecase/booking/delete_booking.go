package booking

import (
	"context"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinic-scheduler/internal/audit"
	domain "github.com/clinicdesk/clinic-scheduler/internal/domain/booking"
	identdomain "github.com/clinicdesk/clinic-scheduler/internal/domain/identity"
)

type DeleteBooking struct {
	repo  domain.Repository
	users identdomain.Repository
	audit *audit.Dispatcher
}

func NewDeleteBooking(
	repo domain.Repository,
	users identdomain.Repository,
	auditor *audit.Dispatcher,
) *DeleteBooking {
	return &DeleteBooking{
		repo:  repo,
		users: users,
		audit: auditor,
	}
}

// Execute hard-deletes a booking in any status. Unlike transitions, there
// is no state-machine guard here.
func (uc *DeleteBooking) Execute(
	ctx context.Context,
	actorID uuid.UUID,
	bookingID uuid.UUID,
) error {

	b, err := uc.repo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return err
	}

	actor, err := authorizeBookingAccess(ctx, uc.users, actorID, b)
	if err != nil {
		return err
	}

	if err := uc.repo.DeleteBooking(ctx, bookingID); err != nil {
		return err
	}

	uc.audit.Dispatch(audit.Event{
		TenantID: actorTenant(actor),
		ActorID:  &actor.ID,
		Action:   "booking_deleted",
		Entity:   "booking",
		EntityID: &bookingID,
	})

	return nil
}

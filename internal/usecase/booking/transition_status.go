package booking

import (
	"context"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinic-scheduler/internal/apperr"
	"github.com/clinicdesk/clinic-scheduler/internal/audit"
	domain "github.com/clinicdesk/clinic-scheduler/internal/domain/booking"
	identdomain "github.com/clinicdesk/clinic-scheduler/internal/domain/identity"
	"github.com/clinicdesk/clinic-scheduler/internal/models"
	"github.com/clinicdesk/clinic-scheduler/internal/timezone"
)

type TransitionBookingStatusInput struct {
	BookingID uuid.UUID
	ActorID   uuid.UUID
	Target    string

	// CancellationReason is recorded only on the cancelled target.
	CancellationReason *string
}

type TransitionBookingStatus struct {
	repo  domain.Repository
	users identdomain.Repository
	audit *audit.Dispatcher
	tz    string
}

func NewTransitionBookingStatus(
	repo domain.Repository,
	users identdomain.Repository,
	auditor *audit.Dispatcher,
	tz string,
) *TransitionBookingStatus {
	return &TransitionBookingStatus{
		repo:  repo,
		users: users,
		audit: auditor,
		tz:    tz,
	}
}

// Execute drives the lifecycle. Clients may only cancel their own
// bookings; confirm, complete and no-show are staff actions. Cancellation
// never re-checks the slot.
func (uc *TransitionBookingStatus) Execute(
	ctx context.Context,
	in TransitionBookingStatusInput,
) (*models.Booking, error) {

	b, err := uc.repo.GetBookingByID(ctx, in.BookingID)
	if err != nil {
		return nil, err
	}

	actor, err := authorizeBookingAccess(ctx, uc.users, in.ActorID, b)
	if err != nil {
		return nil, err
	}

	target := domain.Status(in.Target)
	if actor.Role == string(identdomain.RoleClient) && target != domain.StatusCancelled {
		return nil, apperr.Forbidden("forbidden", "clients may only cancel their own bookings")
	}

	now := timezone.NowIn(uc.tz)
	if target == domain.StatusCancelled {
		err = domain.Cancel(b, now, actor.ID, in.CancellationReason)
	} else {
		err = domain.Transition(b, target)
	}
	if err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateBooking(ctx, b); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		TenantID: actorTenant(actor),
		ActorID:  &actor.ID,
		Action:   "booking_" + string(target),
		Entity:   "booking",
		EntityID: &b.ID,
	})

	return b, nil
}

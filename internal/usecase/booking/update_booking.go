package booking

import (
	"context"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinic-scheduler/internal/apperr"
	"github.com/clinicdesk/clinic-scheduler/internal/audit"
	domain "github.com/clinicdesk/clinic-scheduler/internal/domain/booking"
	identdomain "github.com/clinicdesk/clinic-scheduler/internal/domain/identity"
	"github.com/clinicdesk/clinic-scheduler/internal/metrics"
	"github.com/clinicdesk/clinic-scheduler/internal/models"
)

// ======================================================
// INPUT
// ======================================================

// UpdateBookingInput is a patch: nil leaves a field alone. Status changes
// go through TransitionBookingStatus, never through here.
type UpdateBookingInput struct {
	BookingID uuid.UUID
	ActorID   uuid.UUID

	PatientName     *string
	PatientContact  *string
	Title           *string
	AppointmentType *string

	Date            *string
	StartTime       *string
	EndTime         *string
	DurationMinutes *int

	// ProviderID reassigns; UnassignProvider moves the booking into the
	// shared pool. UnassignProvider wins when both are set.
	ProviderID       *uuid.UUID
	UnassignProvider bool
}

func (in UpdateBookingInput) touchesTiming() bool {
	return in.Date != nil ||
		in.StartTime != nil ||
		in.EndTime != nil ||
		in.DurationMinutes != nil ||
		in.ProviderID != nil ||
		in.UnassignProvider
}

// ======================================================
// USE CASE
// ======================================================

type UpdateBooking struct {
	repo   domain.Repository
	users  identdomain.Repository
	engine *domain.SlotEngine
	audit  *audit.Dispatcher
	tz     string
}

func NewUpdateBooking(
	repo domain.Repository,
	users identdomain.Repository,
	engine *domain.SlotEngine,
	auditor *audit.Dispatcher,
	tz string,
) *UpdateBooking {
	return &UpdateBooking{
		repo:   repo,
		users:  users,
		engine: engine,
		audit:  auditor,
		tz:     tz,
	}
}

// ======================================================
// EXECUTE
// ======================================================

// Execute applies the patch all-or-nothing: a failed availability check
// aborts before any field lands on the record.
func (uc *UpdateBooking) Execute(
	ctx context.Context,
	in UpdateBookingInput,
) (*models.Booking, error) {

	b, err := uc.repo.GetBookingByID(ctx, in.BookingID)
	if err != nil {
		return nil, err
	}

	actor, err := authorizeBookingAccess(ctx, uc.users, in.ActorID, b)
	if err != nil {
		return nil, err
	}

	if in.AppointmentType != nil && !domain.AppointmentType(*in.AppointmentType).Valid() {
		return nil, apperr.Validation("invalid_appointment_type", "appointment type must be consultation, treatment or emergency")
	}

	// Resolve the target timing from the patch over the current record.
	date := b.AppointmentDate
	if in.Date != nil {
		date, err = parseDate(*in.Date, uc.tz)
		if err != nil {
			return nil, err
		}
	}

	start := b.StartTime
	if in.StartTime != nil {
		start = *in.StartTime
	}

	duration := b.DurationMinutes
	if in.DurationMinutes != nil {
		if *in.DurationMinutes <= 0 {
			return nil, apperr.Validation("invalid_duration", "duration_minutes must be positive")
		}
		duration = *in.DurationMinutes
	}

	var end string
	if in.EndTime != nil {
		iv, err := domain.NewInterval(start, *in.EndTime)
		if err != nil {
			return nil, err
		}
		end = *in.EndTime
		duration = iv.End - iv.Start
	} else {
		// End follows the start so the booking keeps its length.
		startMin, err := domain.ParseClock(start)
		if err != nil {
			return nil, err
		}
		endMin := startMin + duration
		if endMin >= 24*60 {
			return nil, apperr.Validation("invalid_interval", "booking must end before midnight")
		}
		end = domain.FormatClock(endMin)
	}

	providerID := b.ProviderID
	switch {
	case in.UnassignProvider:
		providerID = nil
	case in.ProviderID != nil:
		provider, err := uc.users.GetUserByID(ctx, *in.ProviderID)
		if err != nil {
			if apperr.IsKind(err, apperr.KindNotFound) {
				return nil, apperr.Validation("provider_not_found", "provider does not exist")
			}
			return nil, err
		}
		if provider.Role == string(identdomain.RoleClient) {
			return nil, apperr.Validation("invalid_provider", "provider must be a staff account")
		}
		providerID = in.ProviderID
	}

	if in.touchesTiming() {
		free, err := uc.engine.IsSlotAvailable(ctx, providerID, date, start, end, &b.ID)
		if err != nil {
			return nil, err
		}
		if !free {
			uc.reportConflict(actor, b.ID, start, end)
			return nil, apperr.Conflict("slot_taken", "the requested time slot is no longer available")
		}
	}

	// Checks passed; now the patch may land.
	if in.PatientName != nil {
		b.PatientName = *in.PatientName
	}
	if in.PatientContact != nil {
		b.PatientContact = *in.PatientContact
	}
	if in.Title != nil {
		b.Title = *in.Title
	}
	if in.AppointmentType != nil {
		b.AppointmentType = *in.AppointmentType
	}
	b.AppointmentDate = date
	b.StartTime = start
	b.EndTime = end
	b.DurationMinutes = duration
	b.ProviderID = providerID

	if err := uc.repo.UpdateBooking(ctx, b); err != nil {
		if apperr.IsKind(err, apperr.KindConflict) {
			uc.reportConflict(actor, b.ID, start, end)
		}
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		TenantID: actorTenant(actor),
		ActorID:  &actor.ID,
		Action:   "booking_updated",
		Entity:   "booking",
		EntityID: &b.ID,
	})

	return b, nil
}

func (uc *UpdateBooking) reportConflict(
	actor *models.User,
	bookingID uuid.UUID,
	start, end string,
) {
	metrics.BookingConflicts.Inc()
	uc.audit.Dispatch(audit.Event{
		TenantID: actorTenant(actor),
		ActorID:  &actor.ID,
		Action:   "booking_conflict",
		Entity:   "booking",
		EntityID: &bookingID,
		Metadata: map[string]string{
			"start": start,
			"end":   end,
		},
	})
}

// actorTenant resolves which tenant an audit event files under.
func actorTenant(actor *models.User) *uuid.UUID {
	switch actor.Role {
	case string(identdomain.RoleClient):
		return actor.OwningTenantID
	case string(identdomain.RoleCustomerAdmin):
		return &actor.ID
	}
	return nil
}

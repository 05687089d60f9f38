package booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinic-scheduler/internal/apperr"
	"github.com/clinicdesk/clinic-scheduler/internal/audit"
	domain "github.com/clinicdesk/clinic-scheduler/internal/domain/booking"
	identdomain "github.com/clinicdesk/clinic-scheduler/internal/domain/identity"
	"github.com/clinicdesk/clinic-scheduler/internal/metrics"
	"github.com/clinicdesk/clinic-scheduler/internal/models"
	"github.com/clinicdesk/clinic-scheduler/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type CreateBookingInput struct {
	// ActorID is who asks for the booking; CustomerID is who the booking is
	// for. Clients book for themselves, staff may book on a customer's behalf.
	ActorID    uuid.UUID
	CustomerID uuid.UUID

	PatientName     string
	PatientContact  string
	Title           string
	AppointmentType string

	// ProviderID nil books into the shared "any provider" pool.
	ProviderID *uuid.UUID

	Date      string // YYYY-MM-DD
	StartTime string // HH:MM

	// Either EndTime or DurationMinutes; when both are present they must
	// agree.
	EndTime         string
	DurationMinutes int
}

// ======================================================
// USE CASE
// ======================================================

type CreateBooking struct {
	repo   domain.Repository
	users  identdomain.Repository
	engine *domain.SlotEngine
	audit  *audit.Dispatcher
	tz     string
}

func NewCreateBooking(
	repo domain.Repository,
	users identdomain.Repository,
	engine *domain.SlotEngine,
	auditor *audit.Dispatcher,
	tz string,
) *CreateBooking {
	return &CreateBooking{
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

func (uc *CreateBooking) Execute(
	ctx context.Context,
	in CreateBookingInput,
) (*models.Booking, error) {

	// --------------------------------------------------
	// 1. Field validation
	// --------------------------------------------------
	if in.PatientName == "" {
		return nil, apperr.Validation("patient_name_required", "patient name is required")
	}
	if !domain.AppointmentType(in.AppointmentType).Valid() {
		return nil, apperr.Validation("invalid_appointment_type", "appointment type must be consultation, treatment or emergency")
	}

	date, err := parseDate(in.Date, uc.tz)
	if err != nil {
		return nil, err
	}
	if date.Before(timezone.Today(uc.tz)) {
		return nil, apperr.Validation("date_in_past", "appointment date must not be in the past")
	}

	start, end, duration, err := resolveInterval(in.StartTime, in.EndTime, in.DurationMinutes)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 2. Referenced identities
	// --------------------------------------------------
	if _, err := authorizeCustomerAccess(ctx, uc.users, in.ActorID, in.CustomerID); err != nil {
		return nil, err
	}

	customer, err := uc.users.GetUserByID(ctx, in.CustomerID)
	if err != nil {
		return nil, err
	}

	if in.ProviderID != nil {
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
	}

	// --------------------------------------------------
	// 3. Slot check
	// --------------------------------------------------
	free, err := uc.engine.IsSlotAvailable(ctx, in.ProviderID, date, start, end, nil)
	if err != nil {
		return nil, err
	}
	if !free {
		uc.reportConflict(customer.OwningTenantID, in.ActorID, in.Date, start, end)
		return nil, apperr.Conflict("slot_taken", "the requested time slot is no longer available")
	}

	// --------------------------------------------------
	// 4. Persist (storage re-checks exclusivity)
	// --------------------------------------------------
	b := &models.Booking{
		ID:              uuid.New(),
		CustomerID:      in.CustomerID,
		ProviderID:      in.ProviderID,
		PatientName:     in.PatientName,
		PatientContact:  in.PatientContact,
		Title:           in.Title,
		AppointmentType: in.AppointmentType,
		AppointmentDate: date,
		StartTime:       start,
		EndTime:         end,
		DurationMinutes: duration,
		Status:          string(domain.InitialStatus()),
	}

	if err := uc.repo.CreateBooking(ctx, b); err != nil {
		if apperr.IsKind(err, apperr.KindConflict) {
			uc.reportConflict(customer.OwningTenantID, in.ActorID, in.Date, start, end)
		}
		return nil, err
	}

	metrics.BookingsCreated.Inc()

	uc.audit.Dispatch(audit.Event{
		TenantID: customer.OwningTenantID,
		ActorID:  &in.ActorID,
		Action:   "booking_created",
		Entity:   "booking",
		EntityID: &b.ID,
	})

	return b, nil
}

// reportConflict counts a rejected slot and leaves an audit trace, so
// contended schedules are visible to operators and tenants alike.
func (uc *CreateBooking) reportConflict(
	tenantID *uuid.UUID,
	actorID uuid.UUID,
	date, start, end string,
) {
	metrics.BookingConflicts.Inc()
	uc.audit.Dispatch(audit.Event{
		TenantID: tenantID,
		ActorID:  &actorID,
		Action:   "booking_conflict",
		Entity:   "booking",
		Metadata: map[string]string{
			"date":  date,
			"start": start,
			"end":   end,
		},
	})
}

// ======================================================
// Shared helpers
// ======================================================

const dateLayout = "2006-01-02"

func parseDate(raw, tz string) (time.Time, error) {
	date, err := time.ParseInLocation(dateLayout, raw, timezone.Location(tz))
	if err != nil {
		return time.Time{}, apperr.Validation("invalid_date", "date must be YYYY-MM-DD")
	}
	return date, nil
}

// resolveInterval reconciles start, end and duration into a validated
// triple. End wins when both end and duration are given, but they must not
// contradict each other.
func resolveInterval(startTime, endTime string, durationMin int) (start, end string, duration int, err error) {
	if endTime != "" {
		iv, err := domain.NewInterval(startTime, endTime)
		if err != nil {
			return "", "", 0, err
		}
		duration = iv.End - iv.Start
		if durationMin != 0 && durationMin != duration {
			return "", "", 0, apperr.Validation("duration_mismatch", "duration_minutes contradicts start/end times")
		}
		return startTime, endTime, duration, nil
	}

	if durationMin <= 0 {
		return "", "", 0, apperr.Validation("duration_required", "either end_time or a positive duration_minutes is required")
	}

	startMin, err := domain.ParseClock(startTime)
	if err != nil {
		return "", "", 0, err
	}
	endMin := startMin + durationMin
	if endMin >= 24*60 {
		return "", "", 0, apperr.Validation("invalid_interval", "booking must end before midnight")
	}

	return startTime, domain.FormatClock(endMin), durationMin, nil
}

package booking

import "github.com/clinicdesk/clinic-scheduler/internal/apperr"

// ===============================
// Booking Status
// ===============================

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
	StatusNoShow    Status = "no_show"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted, StatusNoShow:
		return true
	}
	return false
}

// Terminal statuses admit no further transition.
func (s Status) Terminal() bool {
	switch s {
	case StatusCancelled, StatusCompleted, StatusNoShow:
		return true
	}
	return false
}

// Occupies reports whether a booking in this status blocks its time slot.
// Cancelled and no-show bookings free the interval.
func (s Status) Occupies() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted:
		return true
	}
	return false
}

// OccupyingStatuses is the SQL-side counterpart of Occupies.
func OccupyingStatuses() []string {
	return []string{
		string(StatusPending),
		string(StatusConfirmed),
		string(StatusCompleted),
	}
}

// ===============================
// Transitions
// ===============================

// CanTransition validates pending → confirmed → completed, with cancelled
// and no_show reachable from pending or confirmed only.
func CanTransition(from, to Status) error {
	if !to.Valid() {
		return apperr.Validation("invalid_status", "unknown booking status")
	}
	if from.Terminal() {
		return apperr.Validation("invalid_state", "booking is in a terminal status")
	}

	switch to {
	case StatusConfirmed:
		if from == StatusPending {
			return nil
		}
	case StatusCompleted:
		if from == StatusConfirmed {
			return nil
		}
	case StatusCancelled, StatusNoShow:
		if from == StatusPending || from == StatusConfirmed {
			return nil
		}
	}

	return apperr.Validation("invalid_state", "transition not allowed")
}

func InitialStatus() Status {
	return StatusPending
}

// ===============================
// Appointment Type
// ===============================

type AppointmentType string

const (
	TypeConsultation AppointmentType = "consultation"
	TypeTreatment    AppointmentType = "treatment"
	TypeEmergency    AppointmentType = "emergency"
)

func (t AppointmentType) Valid() bool {
	switch t {
	case TypeConsultation, TypeTreatment, TypeEmergency:
		return true
	}
	return false
}

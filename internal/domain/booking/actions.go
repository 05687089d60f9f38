package booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinic-scheduler/internal/models"
)

// ===============================
// Domain Actions
// ===============================

// Transition moves b to the target status, enforcing the lifecycle rules.
// Use Cancel for the cancelled target; it stamps the cancellation fields.
func Transition(b *models.Booking, to Status) error {
	if err := CanTransition(Status(b.Status), to); err != nil {
		return err
	}

	b.Status = string(to)
	return nil
}

// Cancel transitions b to cancelled and records who did it, when, and why.
// Reason may be nil.
func Cancel(b *models.Booking, now time.Time, actorID uuid.UUID, reason *string) error {
	if err := CanTransition(Status(b.Status), StatusCancelled); err != nil {
		return err
	}

	b.Status = string(StatusCancelled)
	b.CancelledAt = &now
	b.CancelledBy = &actorID
	b.CancellationReason = reason
	return nil
}

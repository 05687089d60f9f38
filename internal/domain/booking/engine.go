package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SlotEngine answers "is this interval free" and "which starts are free"
// against live booking state. It holds the same injected repository as
// every other collaborator; results are recomputed on each call, never
// cached, because they depend on concurrent writes.
type SlotEngine struct {
	repo Repository
}

func NewSlotEngine(repo Repository) *SlotEngine {
	return &SlotEngine{repo: repo}
}

// IsSlotAvailable reports whether [start,end) on date is free for the
// provider scope. Touching intervals are not a conflict. Pass excludeID
// when re-checking an existing booking's own move.
func (e *SlotEngine) IsSlotAvailable(
	ctx context.Context,
	providerID *uuid.UUID,
	date time.Time,
	start string,
	end string,
	excludeID *uuid.UUID,
) (bool, error) {

	candidate, err := NewInterval(start, end)
	if err != nil {
		return false, err
	}

	busy, err := e.repo.ListActiveIntervals(ctx, providerID, date, excludeID)
	if err != nil {
		return false, err
	}

	for _, b := range busy {
		if candidate.Overlaps(b) {
			return false, nil
		}
	}

	return true, nil
}

// AvailableSlots enumerates the free start times on date at durationMin
// granularity within [workStart,workEnd).
func (e *SlotEngine) AvailableSlots(
	ctx context.Context,
	providerID *uuid.UUID,
	date time.Time,
	durationMin int,
	workStart string,
	workEnd string,
) ([]string, error) {

	window, err := NewInterval(workStart, workEnd)
	if err != nil {
		return nil, err
	}

	busy, err := e.repo.ListActiveIntervals(ctx, providerID, date, nil)
	if err != nil {
		return nil, err
	}

	return FreeSlots(busy, durationMin, window.Start, window.End), nil
}

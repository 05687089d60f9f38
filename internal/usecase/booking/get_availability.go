package booking

import (
	"context"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinic-scheduler/internal/apperr"
	domain "github.com/clinicdesk/clinic-scheduler/internal/domain/booking"
)

type GetAvailabilityInput struct {
	ProviderID      *uuid.UUID
	Date            string
	DurationMinutes int

	// WorkStart/WorkEnd fall back to the configured workday when empty.
	WorkStart string
	WorkEnd   string
}

type GetAvailability struct {
	engine       *domain.SlotEngine
	tz           string
	defaultStart string
	defaultEnd   string
}

func NewGetAvailability(
	engine *domain.SlotEngine,
	tz string,
	defaultStart string,
	defaultEnd string,
) *GetAvailability {
	return &GetAvailability{
		engine:       engine,
		tz:           tz,
		defaultStart: defaultStart,
		defaultEnd:   defaultEnd,
	}
}

func (uc *GetAvailability) Execute(
	ctx context.Context,
	in GetAvailabilityInput,
) ([]string, error) {

	date, err := parseDate(in.Date, uc.tz)
	if err != nil {
		return nil, err
	}
	if in.DurationMinutes <= 0 {
		return nil, apperr.Validation("invalid_duration", "duration_minutes must be positive")
	}

	workStart := in.WorkStart
	if workStart == "" {
		workStart = uc.defaultStart
	}
	workEnd := in.WorkEnd
	if workEnd == "" {
		workEnd = uc.defaultEnd
	}

	return uc.engine.AvailableSlots(ctx, in.ProviderID, date, in.DurationMinutes, workStart, workEnd)
}

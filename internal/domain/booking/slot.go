package booking

import (
	"fmt"
	"time"

	"github.com/clinicdesk/clinic-scheduler/internal/apperr"
)

// Interval is a half-open [Start,End) slice of a day, in minutes since
// midnight. Half-open means back-to-back intervals do not overlap.
type Interval struct {
	Start int
	End   int
}

func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start < other.End && other.Start < iv.End
}

// ===============================
// Clock parsing
// ===============================

const clockLayout = "15:04"

// ParseClock converts an "HH:MM" string to minutes since midnight.
func ParseClock(hm string) (int, error) {
	t, err := time.Parse(clockLayout, hm)
	if err != nil {
		return 0, apperr.Validation("invalid_time", "time must be HH:MM")
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatClock renders minutes since midnight back to zero-padded "HH:MM",
// the canonical stored form.
func FormatClock(min int) string {
	return fmt.Sprintf("%02d:%02d", min/60, min%60)
}

// NewInterval builds a validated half-open interval from clock strings.
func NewInterval(start, end string) (Interval, error) {
	s, err := ParseClock(start)
	if err != nil {
		return Interval{}, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return Interval{}, err
	}
	if e <= s {
		return Interval{}, apperr.Validation("invalid_interval", "end_time must be after start_time")
	}
	return Interval{Start: s, End: e}, nil
}

// ===============================
// Slot enumeration
// ===============================

// FreeSlots enumerates candidate start times at duration granularity inside
// [workStart,workEnd), dropping any candidate whose interval overlaps a busy
// one. The candidate is tested against every busy interval, so a booking
// need not be aligned to the grid to block a slot. Output is sorted
// ascending and empty (not nil-error) when the day is full.
func FreeSlots(busy []Interval, durationMin int, workStart, workEnd int) []string {
	slots := []string{}

	if durationMin <= 0 || workStart < 0 || workEnd <= workStart {
		return slots
	}

	for cur := workStart; cur+durationMin <= workEnd; cur += durationMin {
		candidate := Interval{Start: cur, End: cur + durationMin}

		conflict := false
		for _, b := range busy {
			if candidate.Overlaps(b) {
				conflict = true
				break
			}
		}

		if !conflict {
			slots = append(slots, FormatClock(cur))
		}
	}

	return slots
}

// Package schedule computes free meeting slots from busy-interval data.
package schedule

import (
	"time"

	"github.com/hal9000y/inbox-agent/internal/model"
)

// Slot is one proposed meeting window, half-open [Start, End).
type Slot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// FreeSlots sweeps the busy intervals once and returns candidate windows of
// exactly duration inside [windowStart, windowEnd). busy must be sorted
// ascending by start; intervals may overlap. Each gap yields at most one slot
// at its earliest point: the next available meeting time, not an exhaustive
// packing of the gap.
func FreeSlots(windowStart, windowEnd time.Time, busy []model.BusyInterval, duration time.Duration) []Slot {
	if duration <= 0 {
		return nil
	}

	var slots []Slot
	cursor := windowStart

	for _, b := range busy {
		if !cursor.Add(duration).After(b.Start) {
			slots = append(slots, Slot{Start: cursor, End: cursor.Add(duration)})
		}
		if b.End.After(cursor) {
			cursor = b.End
		}
	}

	if !cursor.Add(duration).After(windowEnd) {
		slots = append(slots, Slot{Start: cursor, End: cursor.Add(duration)})
	}

	return slots
}

package model

import "time"

// EventStatus mirrors the provider event status values.
type EventStatus string

const (
	EventConfirmed EventStatus = "confirmed"
	EventTentative EventStatus = "tentative"
	EventCancelled EventStatus = "cancelled"
)

// Attendee is one event participant with their response.
type Attendee struct {
	Address        string `json:"address"`
	ResponseStatus string `json:"response_status,omitempty"`
}

// Event is the canonical representation of one calendar event. Timed events
// carry Start/End instants plus Timezone; all-day events carry StartDate and
// EndDate instead. IsAllDay discriminates between the two forms.
type Event struct {
	ID         string
	CalendarID string

	Summary     string
	Description string
	Location    string

	Start     time.Time
	End       time.Time
	Timezone  string
	StartDate string // YYYY-MM-DD, all-day events only
	EndDate   string
	IsAllDay  bool

	Attendees []Attendee
	Organizer string

	Status     EventStatus
	Recurrence []string // opaque RRULE/EXDATE lines, never expanded
}

// BusyInterval is a half-open [Start, End) range during which a calendar is
// occupied. The slot calculator never mutates these.
type BusyInterval struct {
	Start time.Time
	End   time.Time
}

package parse

import (
	"time"

	"google.golang.org/api/calendar/v3"

	"github.com/hal9000y/inbox-agent/internal/model"
)

// ParseEvent converts a Google Calendar event into a model.Event. All-day
// events keep their date strings; timed events get parsed instants. Like
// message parsing this never fails; bad timestamps stay zero.
func ParseEvent(ev *calendar.Event, calendarID string) *model.Event {
	e := &model.Event{CalendarID: calendarID}
	if ev == nil {
		return e
	}

	e.ID = ev.Id
	e.Summary = ev.Summary
	e.Description = ev.Description
	e.Location = ev.Location
	e.Status = model.EventStatus(ev.Status)
	e.Recurrence = ev.Recurrence

	if ev.Organizer != nil {
		e.Organizer = ev.Organizer.Email
	}

	for _, a := range ev.Attendees {
		if a == nil {
			continue
		}
		e.Attendees = append(e.Attendees, model.Attendee{
			Address:        a.Email,
			ResponseStatus: a.ResponseStatus,
		})
	}

	if ev.Start != nil {
		if ev.Start.DateTime != "" {
			e.Start = parseRFC3339(ev.Start.DateTime)
			e.Timezone = ev.Start.TimeZone
		} else if ev.Start.Date != "" {
			e.StartDate = ev.Start.Date
			e.IsAllDay = true
		}
	}

	if ev.End != nil {
		if ev.End.DateTime != "" {
			e.End = parseRFC3339(ev.End.DateTime)
		} else if ev.End.Date != "" {
			e.EndDate = ev.End.Date
		}
	}

	return e
}

// EventToRaw converts a model.Event back into the provider representation
// for insert calls.
func EventToRaw(e *model.Event) *calendar.Event {
	ev := &calendar.Event{
		Summary:     e.Summary,
		Description: e.Description,
		Location:    e.Location,
		Recurrence:  e.Recurrence,
	}

	if e.Status != "" {
		ev.Status = string(e.Status)
	}

	if e.IsAllDay {
		ev.Start = &calendar.EventDateTime{Date: e.StartDate}
		ev.End = &calendar.EventDateTime{Date: e.EndDate}
	} else {
		tz := e.Timezone
		if tz == "" {
			tz = "UTC"
		}
		ev.Start = &calendar.EventDateTime{DateTime: e.Start.Format(time.RFC3339), TimeZone: tz}
		ev.End = &calendar.EventDateTime{DateTime: e.End.Format(time.RFC3339), TimeZone: tz}
	}

	for _, a := range e.Attendees {
		ev.Attendees = append(ev.Attendees, &calendar.EventAttendee{Email: a.Address})
	}

	return ev
}

func parseRFC3339(raw string) time.Time {
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}

package tool

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hal9000y/inbox-agent/internal/model"
)

// ListEventsRequest bounds the calendar listing window.
type ListEventsRequest struct {
	CalendarID string `json:"calendar_id,omitempty" jsonschema:"calendar to list, defaults to primary"`
	Start      string `json:"start,omitempty" jsonschema:"RFC3339 window start, defaults to now"`
	End        string `json:"end,omitempty" jsonschema:"RFC3339 window end, defaults to start plus 7 days"`
	MaxResults int64  `json:"max_results,omitempty" jsonschema:"max events to return"`
}

// EventSummary is the tool-level view of one calendar event.
type EventSummary struct {
	EventID   string   `json:"event_id" jsonschema:"provider id of the event"`
	Summary   string   `json:"summary" jsonschema:"event title"`
	Location  string   `json:"location,omitempty" jsonschema:"event location"`
	Start     string   `json:"start" jsonschema:"RFC3339 start, or YYYY-MM-DD for all-day events"`
	End       string   `json:"end" jsonschema:"RFC3339 end, or YYYY-MM-DD for all-day events"`
	AllDay    bool     `json:"all_day,omitempty" jsonschema:"true for all-day events"`
	Status    string   `json:"status,omitempty" jsonschema:"confirmed, tentative or cancelled"`
	Organizer string   `json:"organizer,omitempty" jsonschema:"organizer email address"`
	Attendees []string `json:"attendees,omitempty" jsonschema:"attendee email addresses"`
}

// ListEventsResponse lists the events inside the window.
type ListEventsResponse struct {
	Events       []EventSummary `json:"events" jsonschema:"events in the window"`
	TotalResults int            `json:"total_results" jsonschema:"number of events returned"`
}

type eventListerSvc interface {
	ListEvents(ctx context.Context, calendarID string, from, to time.Time, maxResults int64) ([]*model.Event, error)
}

// NewListEvents creates a new ListEvents tool.
func NewListEvents(svc eventListerSvc) *ListEvents {
	return &ListEvents{svc: svc, now: time.Now}
}

// ListEvents lists upcoming calendar events.
type ListEvents struct {
	svc eventListerSvc
	now func() time.Time
}

// ListEvents returns the events inside the requested window.
func (t *ListEvents) ListEvents(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListEventsRequest,
) (*mcp.CallToolResult, ListEventsResponse, error) {
	start := t.now()
	if input.Start != "" {
		parsed, err := time.Parse(time.RFC3339, input.Start)
		if err != nil {
			return nil, ListEventsResponse{}, fmt.Errorf("parse start failed: %w", err)
		}
		start = parsed
	}

	end := start.AddDate(0, 0, defaultWindowDays)
	if input.End != "" {
		parsed, err := time.Parse(time.RFC3339, input.End)
		if err != nil {
			return nil, ListEventsResponse{}, fmt.Errorf("parse end failed: %w", err)
		}
		end = parsed
	}

	events, err := t.svc.ListEvents(ctx, input.CalendarID, start, end, normalizeMaxResults(input.MaxResults))
	if err != nil {
		return nil, ListEventsResponse{}, fmt.Errorf("svc.ListEvents failed: %w", err)
	}

	resp := ListEventsResponse{Events: make([]EventSummary, 0, len(events))}
	for _, ev := range events {
		resp.Events = append(resp.Events, summarizeEvent(ev))
	}
	resp.TotalResults = len(resp.Events)

	return nil, resp, nil
}

func summarizeEvent(ev *model.Event) EventSummary {
	s := EventSummary{
		EventID:   ev.ID,
		Summary:   ev.Summary,
		Location:  ev.Location,
		AllDay:    ev.IsAllDay,
		Status:    string(ev.Status),
		Organizer: ev.Organizer,
	}

	if ev.IsAllDay {
		s.Start = ev.StartDate
		s.End = ev.EndDate
	} else {
		s.Start = ev.Start.Format(time.RFC3339)
		s.End = ev.End.Format(time.RFC3339)
	}

	for _, a := range ev.Attendees {
		s.Attendees = append(s.Attendees, a.Address)
	}

	return s
}

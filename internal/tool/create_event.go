package tool

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hal9000y/inbox-agent/internal/model"
)

// CreateEventRequest describes the event to schedule.
type CreateEventRequest struct {
	CalendarID  string   `json:"calendar_id,omitempty" jsonschema:"calendar to create the event in, defaults to primary"`
	Summary     string   `json:"summary" jsonschema:"event title"`
	Description string   `json:"description,omitempty" jsonschema:"event description"`
	Location    string   `json:"location,omitempty" jsonschema:"event location"`
	Start       string   `json:"start" jsonschema:"RFC3339 event start"`
	End         string   `json:"end" jsonschema:"RFC3339 event end"`
	Timezone    string   `json:"timezone,omitempty" jsonschema:"IANA timezone, defaults to UTC"`
	Attendees   []string `json:"attendees,omitempty" jsonschema:"attendee email addresses"`
}

// CreateEventResponse returns the event as the provider stored it.
type CreateEventResponse struct {
	EventID   string   `json:"event_id" jsonschema:"provider id of the created event"`
	Summary   string   `json:"summary" jsonschema:"event title"`
	Start     string   `json:"start" jsonschema:"RFC3339 event start"`
	End       string   `json:"end" jsonschema:"RFC3339 event end"`
	Attendees []string `json:"attendees,omitempty" jsonschema:"attendee email addresses"`
}

type eventCreatorSvc interface {
	CreateEvent(ctx context.Context, calendarID string, ev *model.Event) (*model.Event, error)
}

// NewCreateEvent creates a new CreateEvent tool.
func NewCreateEvent(svc eventCreatorSvc) *CreateEvent {
	return &CreateEvent{svc: svc}
}

// CreateEvent schedules a calendar event and invites attendees.
type CreateEvent struct {
	svc eventCreatorSvc
}

// CreateEvent inserts the event into the calendar, notifying attendees.
func (t *CreateEvent) CreateEvent(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CreateEventRequest,
) (*mcp.CallToolResult, CreateEventResponse, error) {
	start, err := time.Parse(time.RFC3339, input.Start)
	if err != nil {
		return nil, CreateEventResponse{}, fmt.Errorf("parse start failed: %w", err)
	}

	end, err := time.Parse(time.RFC3339, input.End)
	if err != nil {
		return nil, CreateEventResponse{}, fmt.Errorf("parse end failed: %w", err)
	}

	if !end.After(start) {
		return nil, CreateEventResponse{}, fmt.Errorf("event end %s is not after start %s", input.End, input.Start)
	}

	ev := &model.Event{
		Summary:     input.Summary,
		Description: input.Description,
		Location:    input.Location,
		Start:       start,
		End:         end,
		Timezone:    input.Timezone,
	}
	for _, addr := range input.Attendees {
		ev.Attendees = append(ev.Attendees, model.Attendee{Address: addr})
	}

	created, err := t.svc.CreateEvent(ctx, input.CalendarID, ev)
	if err != nil {
		return nil, CreateEventResponse{}, fmt.Errorf("svc.CreateEvent failed: %w", err)
	}

	resp := CreateEventResponse{
		EventID: created.ID,
		Summary: created.Summary,
		Start:   created.Start.Format(time.RFC3339),
		End:     created.End.Format(time.RFC3339),
	}
	for _, a := range created.Attendees {
		resp.Attendees = append(resp.Attendees, a.Address)
	}

	return nil, resp, nil
}

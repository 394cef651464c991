package tool

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hal9000y/inbox-agent/internal/model"
	"github.com/hal9000y/inbox-agent/internal/schedule"
)

const (
	defaultWindowDays      = 7
	defaultDurationMinutes = 60
)

// FindFreeSlotsRequest describes the availability query.
type FindFreeSlotsRequest struct {
	CalendarID      string `json:"calendar_id,omitempty" jsonschema:"calendar to query, defaults to primary"`
	Start           string `json:"start,omitempty" jsonschema:"RFC3339 window start, defaults to now"`
	End             string `json:"end,omitempty" jsonschema:"RFC3339 window end, defaults to start plus 7 days"`
	DurationMinutes int    `json:"duration_minutes,omitempty" jsonschema:"meeting duration in minutes, defaults to 60"`
}

// FindFreeSlotsResponse lists candidate meeting slots.
type FindFreeSlotsResponse struct {
	Slots        []schedule.Slot `json:"slots" jsonschema:"free slots of the requested duration"`
	TotalResults int             `json:"total_results" jsonschema:"number of slots returned"`
}

type busySvc interface {
	QueryBusy(ctx context.Context, calendarID string, start, end time.Time) ([]model.BusyInterval, error)
}

// NewFindFreeSlots creates a new FindFreeSlots tool.
func NewFindFreeSlots(svc busySvc) *FindFreeSlots {
	return &FindFreeSlots{svc: svc, now: time.Now}
}

// FindFreeSlots finds open meeting slots in a calendar window.
type FindFreeSlots struct {
	svc busySvc
	now func() time.Time
}

// FindFreeSlots returns the free slots of the requested duration inside the window.
func (t *FindFreeSlots) FindFreeSlots(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input FindFreeSlotsRequest,
) (*mcp.CallToolResult, FindFreeSlotsResponse, error) {
	start := t.now()
	if input.Start != "" {
		parsed, err := time.Parse(time.RFC3339, input.Start)
		if err != nil {
			return nil, FindFreeSlotsResponse{}, fmt.Errorf("parse start failed: %w", err)
		}
		start = parsed
	}

	end := start.AddDate(0, 0, defaultWindowDays)
	if input.End != "" {
		parsed, err := time.Parse(time.RFC3339, input.End)
		if err != nil {
			return nil, FindFreeSlotsResponse{}, fmt.Errorf("parse end failed: %w", err)
		}
		end = parsed
	}

	if !end.After(start) {
		return nil, FindFreeSlotsResponse{}, fmt.Errorf("window end %s is not after start %s", end.Format(time.RFC3339), start.Format(time.RFC3339))
	}

	duration := time.Duration(input.DurationMinutes) * time.Minute
	if duration <= 0 {
		duration = defaultDurationMinutes * time.Minute
	}

	busy, err := t.svc.QueryBusy(ctx, input.CalendarID, start, end)
	if err != nil {
		return nil, FindFreeSlotsResponse{}, fmt.Errorf("svc.QueryBusy failed: %w", err)
	}

	slots := schedule.FreeSlots(start, end, busy, duration)

	return nil, FindFreeSlotsResponse{Slots: slots, TotalResults: len(slots)}, nil
}

package tool_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hal9000y/inbox-agent/internal/model"
	"github.com/hal9000y/inbox-agent/internal/tool"
)

func TestListEvents(t *testing.T) {
	cal := &calendarSvcMock{
		ListEventsFunc: func(_ context.Context, calendarID string, from, to time.Time, maxResults int64) ([]*model.Event, error) {
			assert.Equal(t, "team@example.com", calendarID)
			assert.Equal(t, time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), from)
			assert.Equal(t, time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC), to)
			assert.Equal(t, int64(10), maxResults)

			return []*model.Event{
				{
					ID:        "ev-1",
					Summary:   "Standup",
					Start:     time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC),
					End:       time.Date(2025, 6, 2, 10, 30, 0, 0, time.UTC),
					Status:    model.EventConfirmed,
					Organizer: "alice@example.com",
					Attendees: []model.Attendee{{Address: "bob@example.com"}},
				},
				{
					ID:        "ev-2",
					Summary:   "Offsite",
					IsAllDay:  true,
					StartDate: "2025-06-05",
					EndDate:   "2025-06-06",
				},
			}, nil
		},
	}

	server := tool.NewServer(&gmailSvcMock{}, cal, &draftManagerMock{}, &runnerMock{})
	ctx, session := newMCPSession(t, server)

	result, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name: "list_events",
		Arguments: tool.ListEventsRequest{
			CalendarID: "team@example.com",
			Start:      "2025-06-02T00:00:00Z",
		},
	})
	require.NoError(t, err)
	require.False(t, result.IsError, "unexpected error: %v", result.Content)

	var response tool.ListEventsResponse
	require.NoError(t, json.Unmarshal(
		[]byte(result.Content[0].(*mcp.TextContent).Text),
		&response,
	))

	assert.Equal(t, tool.ListEventsResponse{
		TotalResults: 2,
		Events: []tool.EventSummary{
			{
				EventID:   "ev-1",
				Summary:   "Standup",
				Start:     "2025-06-02T10:00:00Z",
				End:       "2025-06-02T10:30:00Z",
				Status:    "confirmed",
				Organizer: "alice@example.com",
				Attendees: []string{"bob@example.com"},
			},
			{
				EventID: "ev-2",
				Summary: "Offsite",
				AllDay:  true,
				Start:   "2025-06-05",
				End:     "2025-06-06",
			},
		},
	}, response)
}

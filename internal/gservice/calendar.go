package gservice

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/hal9000y/inbox-agent/internal/auth"
	"github.com/hal9000y/inbox-agent/internal/model"
	"github.com/hal9000y/inbox-agent/internal/parse"
)

const defaultCalendarID = "primary"

// NewCalendar creates the calendar store adapter.
func NewCalendar(cfg *oauth2.Config, tok *auth.Token, log zerolog.Logger) *Calendar {
	return &Calendar{
		cfg: cfg,
		tok: tok,
		cb:  newBreaker("calendar-api", log),
	}
}

// Calendar is the provider calendar store: event listing/creation and
// free/busy queries.
type Calendar struct {
	cfg *oauth2.Config
	tok *auth.Token
	cb  *gobreaker.CircuitBreaker
}

// ListEvents returns parsed events in [from, to), recurring series expanded
// by the provider into single events, ordered by start time.
func (c *Calendar) ListEvents(ctx context.Context, calendarID string, from, to time.Time, maxResults int64) ([]*model.Event, error) {
	calendarID = normalizeCalendarID(calendarID)

	svc, err := c.newSvc(ctx)
	if err != nil {
		return nil, fmt.Errorf("newSvc failed: %w", err)
	}

	result, err := execute(c.cb, func() (*calendar.Events, error) {
		return svc.Events.List(calendarID).
			TimeMin(from.Format(time.RFC3339)).
			TimeMax(to.Format(time.RFC3339)).
			MaxResults(maxResults).
			SingleEvents(true).
			OrderBy("startTime").
			Context(ctx).
			Do()
	})
	if err != nil {
		return nil, fmt.Errorf("events.List failed: %w", err)
	}

	events := make([]*model.Event, 0, len(result.Items))
	for _, item := range result.Items {
		events = append(events, parse.ParseEvent(item, calendarID))
	}

	return events, nil
}

// CreateEvent inserts a new event and returns the provider's view of it.
// Attendees are notified.
func (c *Calendar) CreateEvent(ctx context.Context, calendarID string, ev *model.Event) (*model.Event, error) {
	calendarID = normalizeCalendarID(calendarID)

	svc, err := c.newSvc(ctx)
	if err != nil {
		return nil, fmt.Errorf("newSvc failed: %w", err)
	}

	created, err := execute(c.cb, func() (*calendar.Event, error) {
		return svc.Events.Insert(calendarID, parse.EventToRaw(ev)).
			SendUpdates("all").
			Context(ctx).
			Do()
	})
	if err != nil {
		return nil, fmt.Errorf("events.Insert failed: %w", err)
	}

	return parse.ParseEvent(created, calendarID), nil
}

// QueryBusy returns the calendar's busy intervals within [from, to), sorted
// ascending by start as the slot calculator requires.
func (c *Calendar) QueryBusy(ctx context.Context, calendarID string, from, to time.Time) ([]model.BusyInterval, error) {
	calendarID = normalizeCalendarID(calendarID)

	svc, err := c.newSvc(ctx)
	if err != nil {
		return nil, fmt.Errorf("newSvc failed: %w", err)
	}

	resp, err := execute(c.cb, func() (*calendar.FreeBusyResponse, error) {
		return svc.Freebusy.Query(&calendar.FreeBusyRequest{
			TimeMin: from.Format(time.RFC3339),
			TimeMax: to.Format(time.RFC3339),
			Items:   []*calendar.FreeBusyRequestItem{{Id: calendarID}},
		}).Context(ctx).Do()
	})
	if err != nil {
		return nil, fmt.Errorf("freebusy.Query failed: %w", err)
	}

	var busy []model.BusyInterval
	if cal, ok := resp.Calendars[calendarID]; ok {
		for _, period := range cal.Busy {
			start, err := time.Parse(time.RFC3339, period.Start)
			if err != nil {
				continue
			}
			end, err := time.Parse(time.RFC3339, period.End)
			if err != nil {
				continue
			}
			busy = append(busy, model.BusyInterval{Start: start, End: end})
		}
	}

	sort.Slice(busy, func(i, j int) bool { return busy[i].Start.Before(busy[j].Start) })

	return busy, nil
}

func normalizeCalendarID(id string) string {
	if id == "" {
		return defaultCalendarID
	}
	return id
}

func (c *Calendar) newSvc(ctx context.Context) (*calendar.Service, error) {
	t, err := c.tok.OAuthToken()
	if err != nil {
		return nil, fmt.Errorf("tok.OAuthToken failed: %w", err)
	}

	clt := c.cfg.Client(ctx, t)

	svc, err := calendar.NewService(ctx, option.WithHTTPClient(clt))
	if err != nil {
		return nil, fmt.Errorf("calendar.NewService failed: %w", err)
	}

	return svc, nil
}

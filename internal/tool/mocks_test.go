package tool_test

import (
	"context"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/gmail/v1"

	"github.com/hal9000y/inbox-agent/internal/draft"
	"github.com/hal9000y/inbox-agent/internal/model"
	"github.com/hal9000y/inbox-agent/internal/triage"
)

type gmailSvcMock struct {
	ListMessagesFunc       func(ctx context.Context, q, pageToken string, maxResults int64) (*gmail.ListMessagesResponse, error)
	GetMessageMetadataFunc func(ctx context.Context, msgID string) (*gmail.Message, error)
	GetMessageFunc         func(ctx context.Context, msgID string) (*gmail.Message, error)
	ProfileFunc            func(ctx context.Context) (*gmail.Profile, error)
}

func (g *gmailSvcMock) ListMessages(ctx context.Context, q, pageToken string, maxResults int64) (*gmail.ListMessagesResponse, error) {
	return g.ListMessagesFunc(ctx, q, pageToken, maxResults)
}

func (g *gmailSvcMock) GetMessageMetadata(ctx context.Context, msgID string) (*gmail.Message, error) {
	return g.GetMessageMetadataFunc(ctx, msgID)
}

func (g *gmailSvcMock) GetMessage(ctx context.Context, msgID string) (*gmail.Message, error) {
	return g.GetMessageFunc(ctx, msgID)
}

func (g *gmailSvcMock) Profile(ctx context.Context) (*gmail.Profile, error) {
	return g.ProfileFunc(ctx)
}

type calendarSvcMock struct {
	QueryBusyFunc   func(ctx context.Context, calendarID string, start, end time.Time) ([]model.BusyInterval, error)
	CreateEventFunc func(ctx context.Context, calendarID string, ev *model.Event) (*model.Event, error)
	ListEventsFunc  func(ctx context.Context, calendarID string, from, to time.Time, maxResults int64) ([]*model.Event, error)
}

func (c *calendarSvcMock) ListEvents(ctx context.Context, calendarID string, from, to time.Time, maxResults int64) ([]*model.Event, error) {
	return c.ListEventsFunc(ctx, calendarID, from, to, maxResults)
}

func (c *calendarSvcMock) QueryBusy(ctx context.Context, calendarID string, start, end time.Time) ([]model.BusyInterval, error) {
	return c.QueryBusyFunc(ctx, calendarID, start, end)
}

func (c *calendarSvcMock) CreateEvent(ctx context.Context, calendarID string, ev *model.Event) (*model.Event, error) {
	return c.CreateEventFunc(ctx, calendarID, ev)
}

type draftManagerMock struct {
	EditFunc func(ctx context.Context, draftID string, o draft.Overrides) (string, error)
	SendFunc func(ctx context.Context, draftID string) error
}

func (d *draftManagerMock) Edit(ctx context.Context, draftID string, o draft.Overrides) (string, error) {
	return d.EditFunc(ctx, draftID, o)
}

func (d *draftManagerMock) Send(ctx context.Context, draftID string) error {
	return d.SendFunc(ctx, draftID)
}

type runnerMock struct {
	RunFunc func(ctx context.Context, batch []*model.Message, userAddr string) (map[string]triage.Outcome, error)
}

func (r *runnerMock) Run(ctx context.Context, batch []*model.Message, userAddr string) (map[string]triage.Outcome, error) {
	return r.RunFunc(ctx, batch, userAddr)
}

func newMCPSession(t *testing.T, server *mcp.Server) (context.Context, *mcp.ClientSession) {
	t.Helper()

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client"}, nil)
	clientTransport, serverTransport := mcp.NewInMemoryTransports()

	ctx := context.Background()

	serverSession, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { serverSession.Close() })

	clientSession, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { clientSession.Close() })

	return ctx, clientSession
}

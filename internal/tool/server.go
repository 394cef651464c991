package tool

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type gmailSvc interface {
	listUnreadSvc
	triageSvc
}

type calendarSvc interface {
	busySvc
	eventCreatorSvc
	eventListerSvc
}

type draftManager interface {
	draftEditor
	draftSender
}

// NewServer creates an MCP server with inbox triage and scheduling tools.
func NewServer(gmail gmailSvc, cal calendarSvc, drafts draftManager, runner triageRunner) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: "inbox-agent", Version: "v1.0.0"}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_unread",
		Description: "List unread inbox messages as summaries",
	}, NewListUnread(gmail).ListUnread)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "triage_inbox",
		Description: "Classify unread messages and create reply drafts for the ones needing a response",
	}, NewTriageInbox(gmail, runner).TriageInbox)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_free_slots",
		Description: "Find open meeting slots of a given duration in a calendar window",
	}, NewFindFreeSlots(cal).FindFreeSlots)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_events",
		Description: "List calendar events inside a time window",
	}, NewListEvents(cal).ListEvents)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_event",
		Description: "Create a calendar event and invite attendees",
	}, NewCreateEvent(cal).CreateEvent)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "edit_draft",
		Description: "Replace the body, subject or recipients of an existing draft",
	}, NewEditDraft(drafts).EditDraft)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "send_draft",
		Description: "Send an existing draft as-is",
	}, NewSendDraft(drafts).SendDraft)

	return server
}

package tool

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"google.golang.org/api/gmail/v1"

	"github.com/hal9000y/inbox-agent/internal/model"
	"github.com/hal9000y/inbox-agent/internal/parse"
	"github.com/hal9000y/inbox-agent/internal/triage"
)

// TriageInboxRequest bounds the triage batch.
type TriageInboxRequest struct {
	MaxResults int64 `json:"max_results,omitempty" jsonschema:"max unread messages to triage"`
}

// MessageOutcome reports what happened to one message during a triage run.
type MessageOutcome struct {
	MessageID string `json:"message_id" jsonschema:"id of the triaged message"`
	Outcome   string `json:"outcome" jsonschema:"not_selected, failed or drafted"`
	DraftID   string `json:"draft_id,omitempty" jsonschema:"id of the created draft, if any"`
	Error     string `json:"error,omitempty" jsonschema:"error detail for failed messages"`
}

// TriageInboxResponse reports per-message outcomes of a triage run.
type TriageInboxResponse struct {
	Outcomes []MessageOutcome `json:"outcomes" jsonschema:"one entry per unread message"`
	Drafted  int              `json:"drafted" jsonschema:"number of drafts created"`
}

type triageSvc interface {
	ListMessages(ctx context.Context, q, pageToken string, maxResults int64) (*gmail.ListMessagesResponse, error)
	GetMessage(ctx context.Context, msgID string) (*gmail.Message, error)
	Profile(ctx context.Context) (*gmail.Profile, error)
}

type triageRunner interface {
	Run(ctx context.Context, batch []*model.Message, userAddr string) (map[string]triage.Outcome, error)
}

// NewTriageInbox creates a new TriageInbox tool.
func NewTriageInbox(svc triageSvc, runner triageRunner) *TriageInbox {
	return &TriageInbox{svc: svc, runner: runner}
}

// TriageInbox runs the triage pipeline over the unread inbox.
type TriageInbox struct {
	svc    triageSvc
	runner triageRunner
}

// TriageInbox classifies unread messages and creates reply drafts for the selected ones.
func (t *TriageInbox) TriageInbox(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input TriageInboxRequest,
) (*mcp.CallToolResult, TriageInboxResponse, error) {
	input.MaxResults = normalizeMaxResults(input.MaxResults)

	result, err := t.svc.ListMessages(ctx, "is:unread", "", input.MaxResults)
	if err != nil {
		return nil, TriageInboxResponse{}, fmt.Errorf("svc.ListMessages failed: %w", err)
	}

	batch := make([]*model.Message, 0, len(result.Messages))

	for _, m := range result.Messages {
		raw, err := t.svc.GetMessage(ctx, m.Id)
		if err != nil {
			return nil, TriageInboxResponse{}, fmt.Errorf("get message %s failed: %w", m.Id, err)
		}

		batch = append(batch, parse.Parse(raw))
	}

	profile, err := t.svc.Profile(ctx)
	if err != nil {
		return nil, TriageInboxResponse{}, fmt.Errorf("svc.Profile failed: %w", err)
	}

	outcomes, err := t.runner.Run(ctx, batch, profile.EmailAddress)
	if err != nil {
		return nil, TriageInboxResponse{}, fmt.Errorf("triage run failed: %w", err)
	}

	resp := TriageInboxResponse{Outcomes: make([]MessageOutcome, 0, len(batch))}

	// Report in batch order, not map order.
	for _, msg := range batch {
		out := outcomes[msg.ID]
		view := MessageOutcome{
			MessageID: msg.ID,
			Outcome:   out.Kind.String(),
			DraftID:   out.DraftID,
		}
		if out.Err != nil {
			view.Error = out.Err.Error()
		}
		if out.Kind == triage.OutcomeDrafted {
			resp.Drafted++
		}

		resp.Outcomes = append(resp.Outcomes, view)
	}

	return nil, resp, nil
}

package tool

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// SendDraftRequest identifies the draft to send.
type SendDraftRequest struct {
	DraftID string `json:"draft_id" jsonschema:"id of the draft to send"`
}

// SendDraftResponse confirms the send.
type SendDraftResponse struct {
	DraftID string `json:"draft_id" jsonschema:"id of the sent draft"`
	Sent    bool   `json:"sent" jsonschema:"true once the provider accepted the send"`
}

type draftSender interface {
	Send(ctx context.Context, draftID string) error
}

// NewSendDraft creates a new SendDraft tool.
func NewSendDraft(mgr draftSender) *SendDraft {
	return &SendDraft{mgr: mgr}
}

// SendDraft sends a reply draft as-is.
type SendDraft struct {
	mgr draftSender
}

// SendDraft asks the provider to send the draft.
func (t *SendDraft) SendDraft(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SendDraftRequest,
) (*mcp.CallToolResult, SendDraftResponse, error) {
	if input.DraftID == "" {
		return nil, SendDraftResponse{}, fmt.Errorf("draft_id is required")
	}

	if err := t.mgr.Send(ctx, input.DraftID); err != nil {
		return nil, SendDraftResponse{}, fmt.Errorf("mgr.Send failed: %w", err)
	}

	return nil, SendDraftResponse{DraftID: input.DraftID, Sent: true}, nil
}

package tool

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hal9000y/inbox-agent/internal/draft"
)

// EditDraftRequest carries the draft id and the fields to replace. Empty
// fields keep the draft's current values.
type EditDraftRequest struct {
	DraftID string   `json:"draft_id" jsonschema:"id of the draft to edit"`
	Body    string   `json:"body,omitempty" jsonschema:"replacement body text"`
	Subject string   `json:"subject,omitempty" jsonschema:"replacement subject"`
	To      []string `json:"to,omitempty" jsonschema:"replacement To recipients"`
	Cc      []string `json:"cc,omitempty" jsonschema:"replacement Cc recipients"`
	Bcc     []string `json:"bcc,omitempty" jsonschema:"replacement Bcc recipients"`
}

// EditDraftResponse confirms the edit.
type EditDraftResponse struct {
	DraftID string `json:"draft_id" jsonschema:"id of the edited draft"`
}

type draftEditor interface {
	Edit(ctx context.Context, draftID string, o draft.Overrides) (string, error)
}

// NewEditDraft creates a new EditDraft tool.
func NewEditDraft(mgr draftEditor) *EditDraft {
	return &EditDraft{mgr: mgr}
}

// EditDraft replaces fields of an existing reply draft.
type EditDraft struct {
	mgr draftEditor
}

// EditDraft applies the requested field replacements to the draft.
func (t *EditDraft) EditDraft(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input EditDraftRequest,
) (*mcp.CallToolResult, EditDraftResponse, error) {
	if input.DraftID == "" {
		return nil, EditDraftResponse{}, fmt.Errorf("draft_id is required")
	}

	id, err := t.mgr.Edit(ctx, input.DraftID, draft.Overrides{
		Body:    input.Body,
		Subject: input.Subject,
		To:      input.To,
		Cc:      input.Cc,
		Bcc:     input.Bcc,
	})
	if err != nil {
		return nil, EditDraftResponse{}, fmt.Errorf("mgr.Edit failed: %w", err)
	}

	return nil, EditDraftResponse{DraftID: id}, nil
}

package tool

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"google.golang.org/api/gmail/v1"

	"github.com/hal9000y/inbox-agent/internal/parse"
)

// ListUnreadRequest bounds the unread listing.
type ListUnreadRequest struct {
	MaxResults int64  `json:"max_results,omitempty" jsonschema:"max results per page"`
	PageToken  string `json:"page_token,omitempty" jsonschema:"token for pagination"`
}

// ListUnreadResponse contains summaries of unread messages.
type ListUnreadResponse struct {
	Messages      []MessageSummary `json:"messages" jsonschema:"array of message summaries"`
	NextPageToken string           `json:"next_page_token,omitempty" jsonschema:"token for next page"`
	TotalResults  int              `json:"total_results" jsonschema:"number of messages returned"`
}

type listUnreadSvc interface {
	ListMessages(ctx context.Context, q, pageToken string, maxResults int64) (*gmail.ListMessagesResponse, error)
	GetMessageMetadata(ctx context.Context, msgID string) (*gmail.Message, error)
}

// NewListUnread creates a new ListUnread tool.
func NewListUnread(svc listUnreadSvc) *ListUnread {
	return &ListUnread{svc: svc}
}

// ListUnread lists unread inbox messages as summaries.
type ListUnread struct {
	svc listUnreadSvc
}

// ListUnread returns summaries of the unread messages in the inbox.
func (t *ListUnread) ListUnread(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListUnreadRequest,
) (*mcp.CallToolResult, ListUnreadResponse, error) {
	input.MaxResults = normalizeMaxResults(input.MaxResults)

	result, err := t.svc.ListMessages(ctx, "is:unread", input.PageToken, input.MaxResults)
	if err != nil {
		return nil, ListUnreadResponse{}, fmt.Errorf("svc.ListMessages failed: %w", err)
	}

	messages := make([]MessageSummary, 0, len(result.Messages))

	for _, m := range result.Messages {
		msg, err := t.svc.GetMessageMetadata(ctx, m.Id)
		if err != nil {
			return nil, ListUnreadResponse{}, fmt.Errorf("get message %s failed: %w", m.Id, err)
		}

		messages = append(messages, summarizeMessage(parse.Parse(msg)))
	}

	return nil, ListUnreadResponse{
		Messages:      messages,
		NextPageToken: result.NextPageToken,
		TotalResults:  len(messages),
	}, nil
}

package tool

import (
	"github.com/hal9000y/inbox-agent/internal/model"
	"github.com/hal9000y/inbox-agent/internal/parse"
)

// EmailAddress represents an email address with optional display name.
type EmailAddress struct {
	Name  string `json:"name,omitempty" jsonschema:"the display name"`
	Email string `json:"email" jsonschema:"the email address"`
}

// MessageSummary contains essential message metadata.
type MessageSummary struct {
	ID        string         `json:"id" jsonschema:"message ID"`
	ThreadID  string         `json:"thread_id" jsonschema:"thread ID"`
	Timestamp string         `json:"timestamp" jsonschema:"message timestamp"`
	From      EmailAddress   `json:"from" jsonschema:"sender information"`
	To        []EmailAddress `json:"to,omitempty" jsonschema:"recipients"`
	CC        []EmailAddress `json:"cc,omitempty" jsonschema:"CC recipients"`
	Subject   string         `json:"subject" jsonschema:"email subject"`
	Snippet   string         `json:"snippet" jsonschema:"message preview"`
}

func summarizeMessage(m *model.Message) MessageSummary {
	return MessageSummary{
		ID:        m.ID,
		ThreadID:  m.ThreadID,
		Timestamp: m.HeaderDate,
		From:      EmailAddress{Name: m.From.Name, Email: m.From.Address},
		To:        toEmailAddresses(m.To),
		CC:        toEmailAddresses(m.Cc),
		Subject:   m.Subject,
		Snippet:   m.Snippet,
	}
}

func toEmailAddresses(entries []string) []EmailAddress {
	if len(entries) == 0 {
		return nil
	}
	out := make([]EmailAddress, 0, len(entries))
	for _, e := range entries {
		a := parse.ParseAddress(e)
		out = append(out, EmailAddress{Name: a.Name, Email: a.Address})
	}
	return out
}

func normalizeMaxResults(maxResults int64) int64 {
	if maxResults == 0 {
		return 10
	}
	if maxResults > 50 {
		return 50
	}
	return maxResults
}

package parse_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/gmail/v1"

	"github.com/hal9000y/inbox-agent/internal/model"
	"github.com/hal9000y/inbox-agent/internal/parse"
)

func TestParseAddress(t *testing.T) {
	cases := []struct {
		name     string
		raw      string
		expected model.EmailAddress
	}{
		{
			name:     "bare address",
			raw:      "alice@example.com",
			expected: model.EmailAddress{Address: "alice@example.com"},
		},
		{
			name:     "display name with brackets",
			raw:      "Alice Smith <alice@example.com>",
			expected: model.EmailAddress{Name: "Alice Smith", Address: "alice@example.com"},
		},
		{
			name:     "quoted display name",
			raw:      `"Smith, Alice" <alice@example.com>`,
			expected: model.EmailAddress{Name: "Smith, Alice", Address: "alice@example.com"},
		},
		{
			name:     "brackets only",
			raw:      "<alice@example.com>",
			expected: model.EmailAddress{Address: "alice@example.com"},
		},
		{
			name:     "unclosed bracket falls back to whole value",
			raw:      "Alice <alice@example.com",
			expected: model.EmailAddress{Address: "Alice <alice@example.com"},
		},
		{
			name:     "trailing text after brackets falls back to whole value",
			raw:      "Alice <alice@example.com> via list",
			expected: model.EmailAddress{Address: "Alice <alice@example.com> via list"},
		},
		{
			name:     "brackets without at sign fall back to whole value",
			raw:      "<no-at>",
			expected: model.EmailAddress{Address: "<no-at>"},
		},
		{
			name:     "surrounding whitespace trimmed",
			raw:      "  alice@example.com  ",
			expected: model.EmailAddress{Address: "alice@example.com"},
		},
		{
			name:     "empty",
			raw:      "",
			expected: model.EmailAddress{},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, parse.ParseAddress(tc.raw))
		})
	}
}

func TestParseAddressIdempotentOnBareAddress(t *testing.T) {
	first := parse.ParseAddress("Alice <alice@example.com>")
	second := parse.ParseAddress(first.Address)

	assert.Equal(t, first.Address, second.Address)
	assert.Empty(t, second.Name)
}

func TestParseAddressList(t *testing.T) {
	cases := []struct {
		name     string
		raw      string
		expected []string
	}{
		{
			name:     "order and names preserved",
			raw:      "Bob <bob@example.com>, carol@example.com",
			expected: []string{"Bob <bob@example.com>", "carol@example.com"},
		},
		{
			name:     "duplicates kept",
			raw:      "bob@example.com, bob@example.com",
			expected: []string{"bob@example.com", "bob@example.com"},
		},
		{
			name:     "empty entries dropped",
			raw:      "bob@example.com, , carol@example.com,",
			expected: []string{"bob@example.com", "carol@example.com"},
		},
		{
			name:     "only separators",
			raw:      " , ,",
			expected: nil,
		},
		{
			name:     "empty",
			raw:      "",
			expected: nil,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, parse.ParseAddressList(tc.raw))
		})
	}
}

func TestParseEmptyPayload(t *testing.T) {
	m := parse.Parse(&gmail.Message{Id: "m-1", ThreadId: "t-1", Snippet: "hello"})

	assert.Equal(t, "m-1", m.ID)
	assert.Equal(t, "t-1", m.ThreadID)
	assert.Equal(t, "hello", m.Snippet)
	assert.Empty(t, m.Subject)
	assert.Empty(t, m.From.Address)
	assert.Nil(t, m.To)
	assert.Nil(t, m.SentAt)
	assert.Nil(t, m.ReceivedAt)
	assert.Empty(t, m.PlainBody)
}

func TestParseNil(t *testing.T) {
	m := parse.Parse(nil)

	require.NotNil(t, m)
	assert.Empty(t, m.ID)
	assert.NotNil(t, m.Headers)
}

func TestParseHeaders(t *testing.T) {
	m := parse.Parse(&gmail.Message{
		Id:           "m-2",
		InternalDate: 1735689600000, // 2025-01-01T00:00:00Z
		Payload: &gmail.MessagePart{
			Headers: []*gmail.MessagePartHeader{
				{Name: "From", Value: "Alice <alice@example.com>"},
				{Name: "To", Value: "bob@example.com, Carol <carol@example.com>"},
				{Name: "Cc", Value: "dave@example.com"},
				{Name: "Subject", Value: "first subject"},
				{Name: "Subject", Value: "second subject"},
				{Name: "Message-ID", Value: "<abc@mail.example.com>"},
				{Name: "Date", Value: "Wed, 01 Jan 2025 10:00:00 +0000"},
				{Name: "Reply-To", Value: "alice+replies@example.com"},
			},
		},
	})

	// Duplicate headers resolve to the last occurrence.
	assert.Equal(t, "second subject", m.Subject)

	assert.Equal(t, model.EmailAddress{Name: "Alice", Address: "alice@example.com"}, m.From)
	assert.Equal(t, "Alice <alice@example.com>", m.FromRaw)
	assert.Equal(t, []string{"bob@example.com", "Carol <carol@example.com>"}, m.To)
	assert.Equal(t, []string{"dave@example.com"}, m.Cc)
	assert.Nil(t, m.Bcc)
	assert.Equal(t, "<abc@mail.example.com>", m.ProviderMessageID)
	assert.Equal(t, "alice+replies@example.com", m.ReplyTo)

	require.NotNil(t, m.SentAt)
	assert.Equal(t, time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC), m.SentAt.UTC())
	require.NotNil(t, m.ReceivedAt)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), m.ReceivedAt.UTC())
}

func TestParseMalformedDateAbsent(t *testing.T) {
	m := parse.Parse(&gmail.Message{
		Payload: &gmail.MessagePart{
			Headers: []*gmail.MessagePartHeader{
				{Name: "Date", Value: "not a date"},
			},
		},
	})

	assert.Equal(t, "not a date", m.HeaderDate)
	assert.Nil(t, m.SentAt)
}

func TestParseBodies(t *testing.T) {
	// "first part " / "second part" / "<b>html</b>" base64url encoded.
	m := parse.Parse(&gmail.Message{
		Payload: &gmail.MessagePart{
			MimeType: "multipart/mixed",
			Parts: []*gmail.MessagePart{
				{
					MimeType: "text/html",
					Body:     &gmail.MessagePartBody{Data: "PGI-aHRtbDwvYj4"},
				},
				{
					MimeType: "text/plain",
					Body:     &gmail.MessagePartBody{Data: "Zmlyc3QgcGFydCA"},
				},
				{
					MimeType: "multipart/alternative",
					Parts: []*gmail.MessagePart{
						{
							MimeType: "text/plain",
							Body:     &gmail.MessagePartBody{Data: "c2Vjb25kIHBhcnQ"},
						},
					},
				},
			},
		},
	})

	// Multiple text parts concatenate in traversal order.
	assert.Equal(t, "first part second part", m.PlainBody)
	assert.Equal(t, "<b>html</b>", m.HTMLBody)
}

func TestParseForwardedMessageBodyIgnored(t *testing.T) {
	// "outer body" / "attached body" base64url encoded.
	m := parse.Parse(&gmail.Message{
		Payload: &gmail.MessagePart{
			MimeType: "multipart/mixed",
			Parts: []*gmail.MessagePart{
				{
					MimeType: "text/plain",
					Body:     &gmail.MessagePartBody{Data: "b3V0ZXIgYm9keQ"},
				},
				{
					MimeType: "message/rfc822",
					Parts: []*gmail.MessagePart{
						{
							MimeType: "text/plain",
							Body:     &gmail.MessagePartBody{Data: "YXR0YWNoZWQgYm9keQ"},
						},
					},
				},
			},
		},
	})

	// Only multipart containers recurse; a forwarded message attachment
	// must not leak its own bodies into the carrying message.
	assert.Equal(t, "outer body", m.PlainBody)
	assert.Empty(t, m.HTMLBody)
}

func TestParseUndecodableBodyEmpty(t *testing.T) {
	m := parse.Parse(&gmail.Message{
		Payload: &gmail.MessagePart{
			MimeType: "text/plain",
			Body:     &gmail.MessagePartBody{Data: "!!!not-base64!!!"},
		},
	})

	assert.Empty(t, m.PlainBody)
}

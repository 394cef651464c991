// Package draft manages the provider-side lifecycle of reply drafts:
// building the outbound message, creating, patching and sending it.
package draft

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/emersion/go-message/mail"
	"github.com/rs/zerolog"
	"google.golang.org/api/gmail/v1"

	"github.com/hal9000y/inbox-agent/internal/model"
	"github.com/hal9000y/inbox-agent/internal/parse"
	"github.com/hal9000y/inbox-agent/internal/reply"
)

// Store is the provider draft surface the manager drives. Implementations
// report failures as ErrDraftNotFound, ErrProvider or ErrNetwork wrapped with
// call context.
type Store interface {
	CreateDraft(ctx context.Context, threadID string, raw []byte) (string, error)
	GetDraft(ctx context.Context, draftID string) (*gmail.Message, error)
	UpdateDraft(ctx context.Context, draftID, threadID string, raw []byte) (string, error)
	SendDraft(ctx context.Context, draftID string) error
}

// Overrides is a field-level patch for Edit. Zero-valued fields keep the
// existing draft's values.
type Overrides struct {
	Body    string
	Subject string
	To      []string
	Cc      []string
	Bcc     []string
}

// Manager drives draft create/edit/send against a Store. It operates on
// draft identifiers and never mutates message reply state; callers advance
// ReplyState from the returned ids.
type Manager struct {
	store Store
	log   zerolog.Logger
}

// NewManager creates a Manager over the given store.
func NewManager(store Store, log zerolog.Logger) *Manager {
	return &Manager{
		store: store,
		log:   log.With().Str("component", "draft").Logger(),
	}
}

// Create builds a reply to msg with the given body and resolved recipients
// and creates it as a provider draft on the original thread. The subject is
// prefixed with "Re:" unless already so prefixed, and In-Reply-To/References
// are set from the original Message-ID when present. Returns the new draft
// id, or ErrNoRecipients without any provider call when rcpt.To is empty.
func (m *Manager) Create(ctx context.Context, msg *model.Message, rcpt reply.Recipients, body string) (string, error) {
	if len(rcpt.To) == 0 {
		return "", fmt.Errorf("message %s: %w", msg.ID, ErrNoRecipients)
	}

	raw, err := buildMessage(replySubject(msg.Subject), msg.ProviderMessageID, rcpt.To, rcpt.Cc, rcpt.Bcc, body)
	if err != nil {
		return "", fmt.Errorf("buildMessage failed: %w", err)
	}

	draftID, err := m.store.CreateDraft(ctx, msg.ThreadID, raw)
	if err != nil {
		return "", fmt.Errorf("store.CreateDraft failed: %w", err)
	}

	m.log.Debug().Str("message_id", msg.ID).Str("draft_id", draftID).Msg("draft created")

	return draftID, nil
}

// Edit fetches the existing draft, applies only the fields present in o and
// re-issues the draft. Threading headers are re-derived from the draft's own
// Message-ID. Returns the provider's draft id for the updated draft.
func (m *Manager) Edit(ctx context.Context, draftID string, o Overrides) (string, error) {
	msg, err := m.store.GetDraft(ctx, draftID)
	if err != nil {
		return "", fmt.Errorf("store.GetDraft failed: %w", err)
	}

	existing := parse.Parse(msg)

	body := o.Body
	if body == "" {
		body = existing.PlainBody
	}
	subject := o.Subject
	if subject == "" {
		subject = existing.Subject
	}
	to := o.To
	if len(to) == 0 {
		to = existing.To
	}
	cc := o.Cc
	if len(cc) == 0 {
		cc = existing.Cc
	}
	bcc := o.Bcc
	if len(bcc) == 0 {
		bcc = existing.Bcc
	}

	raw, err := buildMessage(subject, existing.ProviderMessageID, to, cc, bcc, body)
	if err != nil {
		return "", fmt.Errorf("buildMessage failed: %w", err)
	}

	newID, err := m.store.UpdateDraft(ctx, draftID, existing.ThreadID, raw)
	if err != nil {
		return "", fmt.Errorf("store.UpdateDraft failed: %w", err)
	}

	m.log.Debug().Str("draft_id", draftID).Str("new_draft_id", newID).Msg("draft updated")

	return newID, nil
}

// Send delivers the draft. On success the caller is responsible for advancing
// the message's reply state to sent.
func (m *Manager) Send(ctx context.Context, draftID string) error {
	if err := m.store.SendDraft(ctx, draftID); err != nil {
		return fmt.Errorf("store.SendDraft failed: %w", err)
	}

	m.log.Debug().Str("draft_id", draftID).Msg("draft sent")

	return nil
}

func replySubject(subject string) string {
	if strings.HasPrefix(strings.ToLower(subject), "re:") {
		return subject
	}
	return "Re: " + subject
}

func buildMessage(subject, inReplyTo string, to, cc, bcc []string, body string) ([]byte, error) {
	var h mail.Header
	h.SetAddressList("To", mailAddresses(to))
	if len(cc) > 0 {
		h.SetAddressList("Cc", mailAddresses(cc))
	}
	if len(bcc) > 0 {
		h.SetAddressList("Bcc", mailAddresses(bcc))
	}
	h.SetSubject(subject)
	if inReplyTo != "" {
		h.Set("In-Reply-To", inReplyTo)
		h.Set("References", inReplyTo)
	}
	h.SetContentType("text/plain", map[string]string{"charset": "utf-8"})

	var buf bytes.Buffer
	w, err := mail.CreateSingleInlineWriter(&buf, h)
	if err != nil {
		return nil, fmt.Errorf("mail.CreateSingleInlineWriter failed: %w", err)
	}
	if _, err := io.WriteString(w, body); err != nil {
		return nil, fmt.Errorf("body write failed: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("writer close failed: %w", err)
	}

	return buf.Bytes(), nil
}

func mailAddresses(entries []string) []*mail.Address {
	out := make([]*mail.Address, 0, len(entries))
	for _, e := range entries {
		a := parse.ParseAddress(e)
		out = append(out, &mail.Address{Name: a.Name, Address: a.Address})
	}
	return out
}

// Package model defines the canonical entities shared across the engine:
// parsed messages, reply state, calendar events and busy intervals.
package model

import "time"

// EmailAddress is a parsed sender or recipient with optional display name.
type EmailAddress struct {
	Name    string `json:"name,omitempty"`
	Address string `json:"address"`
}

// Message is the canonical representation of one provider email. It is
// immutable once produced by the parser; reply progress lives in ReplyState.
type Message struct {
	ID                string
	ThreadID          string
	ProviderMessageID string // RFC 2822 Message-ID header

	FromRaw string // original From header value
	From    EmailAddress
	To      []string // header entries in order, display names preserved
	Cc      []string
	Bcc     []string
	ReplyTo string

	Subject   string
	PlainBody string
	HTMLBody  string
	Snippet   string

	HeaderDate string     // raw Date header value
	SentAt     *time.Time // parsed Date header, nil when unparsable
	ReceivedAt *time.Time // provider internal timestamp, nil when unparsable

	Headers map[string]string
	Raw     any // original provider payload, kept for traceability
}

// Status tracks whether a reply for a message has gone out.
type Status string

const (
	StatusPending Status = "pending"
	StatusSent    Status = "sent"
)

// DraftState is the lifecycle position of a reply draft.
type DraftState int

const (
	StateNone DraftState = iota
	StateCreated
	StateEdited
	StateSent
)

func (s DraftState) String() string {
	switch s {
	case StateNone:
		return "none"
	case StateCreated:
		return "created"
	case StateEdited:
		return "edited"
	case StateSent:
		return "sent"
	default:
		return "unknown"
	}
}

// ReplyState carries the reply-tracking fields for one message. Each stage
// produces a fresh value via the With* helpers instead of mutating shared
// state; transitions are monotonic and StateSent is terminal.
type ReplyState struct {
	State       DraftState
	DraftBody   string
	DraftID     string
	ReadyToSend bool
	Status      Status
}

// WithDraft attaches a generated draft body. Valid from StateNone only;
// later states keep their body.
func (r ReplyState) WithDraft(body string) ReplyState {
	if r.State != StateNone {
		return r
	}
	r.DraftBody = body
	r.Status = StatusPending
	return r
}

// WithCreated records the provider draft id after a successful create.
func (r ReplyState) WithCreated(draftID string) ReplyState {
	if r.State != StateNone {
		return r
	}
	r.State = StateCreated
	r.DraftID = draftID
	r.Status = StatusPending
	return r
}

// WithEdited records a re-issued draft id after an edit. Edits are
// re-entrant until the draft is sent.
func (r ReplyState) WithEdited(draftID string) ReplyState {
	if r.State != StateCreated && r.State != StateEdited {
		return r
	}
	r.State = StateEdited
	if draftID != "" {
		r.DraftID = draftID
	}
	return r
}

// WithSent marks the reply as delivered. Terminal.
func (r ReplyState) WithSent() ReplyState {
	if r.State != StateCreated && r.State != StateEdited {
		return r
	}
	r.State = StateSent
	r.Status = StatusSent
	return r
}

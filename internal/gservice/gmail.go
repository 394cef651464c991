// Package gservice provides the Google API adapters behind the engine's
// store interfaces. Services are built per call from the OAuth config and
// the current token; round trips go through a circuit breaker.
package gservice

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/hal9000y/inbox-agent/internal/auth"
)

const gmailUserID = "me"

// NewGMail creates the Gmail message store adapter.
func NewGMail(cfg *oauth2.Config, tok *auth.Token, log zerolog.Logger) *GMail {
	return &GMail{
		cfg: cfg,
		tok: tok,
		cb:  newBreaker("gmail-api", log),
	}
}

// GMail is the provider message store: listing, fetching, draft lifecycle
// calls and processed-marking.
type GMail struct {
	cfg *oauth2.Config
	tok *auth.Token
	cb  *gobreaker.CircuitBreaker
}

// Profile returns the authenticated user's Gmail profile.
func (m *GMail) Profile(ctx context.Context) (*gmail.Profile, error) {
	svc, err := m.newSvc(ctx)
	if err != nil {
		return nil, fmt.Errorf("newSvc failed: %w", err)
	}

	profile, err := execute(m.cb, func() (*gmail.Profile, error) {
		return svc.Users.GetProfile(gmailUserID).Context(ctx).Do()
	})
	if err != nil {
		return nil, fmt.Errorf("getProfile failed: %w", err)
	}

	return profile, nil
}

// ListMessages lists message ids matching the Gmail query.
func (m *GMail) ListMessages(ctx context.Context, q, pageToken string, maxResults int64) (*gmail.ListMessagesResponse, error) {
	svc, err := m.newSvc(ctx)
	if err != nil {
		return nil, fmt.Errorf("newSvc failed: %w", err)
	}

	result, err := execute(m.cb, func() (*gmail.ListMessagesResponse, error) {
		return svc.Users.Messages.List(gmailUserID).
			Q(q).
			PageToken(pageToken).
			MaxResults(maxResults).
			Context(ctx).
			Do()
	})
	if err != nil {
		return nil, fmt.Errorf("messages.List failed: %w", err)
	}

	return result, nil
}

// GetMessageMetadata fetches the headers-and-snippet view of a message.
func (m *GMail) GetMessageMetadata(ctx context.Context, msgID string) (*gmail.Message, error) {
	svc, err := m.newSvc(ctx)
	if err != nil {
		return nil, fmt.Errorf("newSvc failed: %w", err)
	}

	msg, err := execute(m.cb, func() (*gmail.Message, error) {
		return svc.Users.Messages.Get(gmailUserID, msgID).
			Format("METADATA").
			MetadataHeaders("From", "To", "Cc", "Subject", "Date").
			Context(ctx).
			Do()
	})
	if err != nil {
		return nil, fmt.Errorf("messages.Get failed: %w", err)
	}

	return msg, nil
}

// GetMessage fetches the full message payload.
func (m *GMail) GetMessage(ctx context.Context, msgID string) (*gmail.Message, error) {
	svc, err := m.newSvc(ctx)
	if err != nil {
		return nil, fmt.Errorf("newSvc failed: %w", err)
	}

	msg, err := execute(m.cb, func() (*gmail.Message, error) {
		return svc.Users.Messages.Get(gmailUserID, msgID).Format("full").Context(ctx).Do()
	})
	if err != nil {
		return nil, fmt.Errorf("messages.Get failed: %w", err)
	}

	return msg, nil
}

// CreateDraft creates a draft from RFC 2822 bytes, threaded onto threadID
// when non-empty. Returns the provider draft id.
func (m *GMail) CreateDraft(ctx context.Context, threadID string, raw []byte) (string, error) {
	svc, err := m.newSvc(ctx)
	if err != nil {
		return "", fmt.Errorf("newSvc failed: %w", err)
	}

	d, err := execute(m.cb, func() (*gmail.Draft, error) {
		return svc.Users.Drafts.Create(gmailUserID, &gmail.Draft{
			Message: &gmail.Message{
				Raw:      base64.URLEncoding.EncodeToString(raw),
				ThreadId: threadID,
			},
		}).Context(ctx).Do()
	})
	if err != nil {
		return "", classifyErr("drafts.Create", err)
	}

	return d.Id, nil
}

// GetDraft fetches the message behind an existing draft.
func (m *GMail) GetDraft(ctx context.Context, draftID string) (*gmail.Message, error) {
	svc, err := m.newSvc(ctx)
	if err != nil {
		return nil, fmt.Errorf("newSvc failed: %w", err)
	}

	d, err := execute(m.cb, func() (*gmail.Draft, error) {
		return svc.Users.Drafts.Get(gmailUserID, draftID).Format("full").Context(ctx).Do()
	})
	if err != nil {
		return nil, classifyErr("drafts.Get", err)
	}

	return d.Message, nil
}

// UpdateDraft replaces a draft's message in place.
func (m *GMail) UpdateDraft(ctx context.Context, draftID, threadID string, raw []byte) (string, error) {
	svc, err := m.newSvc(ctx)
	if err != nil {
		return "", fmt.Errorf("newSvc failed: %w", err)
	}

	d, err := execute(m.cb, func() (*gmail.Draft, error) {
		return svc.Users.Drafts.Update(gmailUserID, draftID, &gmail.Draft{
			Id: draftID,
			Message: &gmail.Message{
				Raw:      base64.URLEncoding.EncodeToString(raw),
				ThreadId: threadID,
			},
		}).Context(ctx).Do()
	})
	if err != nil {
		return "", classifyErr("drafts.Update", err)
	}

	return d.Id, nil
}

// SendDraft delivers an existing draft.
func (m *GMail) SendDraft(ctx context.Context, draftID string) error {
	svc, err := m.newSvc(ctx)
	if err != nil {
		return fmt.Errorf("newSvc failed: %w", err)
	}

	if _, err := execute(m.cb, func() (*gmail.Message, error) {
		return svc.Users.Drafts.Send(gmailUserID, &gmail.Draft{Id: draftID}).Context(ctx).Do()
	}); err != nil {
		return classifyErr("drafts.Send", err)
	}

	return nil
}

// MarkProcessed removes the UNREAD label so the message is not picked up by
// a later run.
func (m *GMail) MarkProcessed(ctx context.Context, msgID string) error {
	svc, err := m.newSvc(ctx)
	if err != nil {
		return fmt.Errorf("newSvc failed: %w", err)
	}

	if _, err := execute(m.cb, func() (*gmail.Message, error) {
		return svc.Users.Messages.Modify(gmailUserID, msgID, &gmail.ModifyMessageRequest{
			RemoveLabelIds: []string{"UNREAD"},
		}).Context(ctx).Do()
	}); err != nil {
		return fmt.Errorf("messages.Modify failed: %w", err)
	}

	return nil
}

func (m *GMail) newSvc(ctx context.Context) (*gmail.Service, error) {
	t, err := m.tok.OAuthToken()
	if err != nil {
		return nil, fmt.Errorf("tok.OAuthToken failed: %w", err)
	}

	clt := m.cfg.Client(ctx, t)

	svc, err := gmail.NewService(ctx, option.WithHTTPClient(clt))
	if err != nil {
		return nil, fmt.Errorf("gmail.NewService failed: %w", err)
	}

	return svc, nil
}

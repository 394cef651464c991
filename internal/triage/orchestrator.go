// Package triage sequences batch classification and per-message draft
// generation into per-message outcomes.
package triage

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hal9000y/inbox-agent/internal/llm"
	"github.com/hal9000y/inbox-agent/internal/model"
	"github.com/hal9000y/inbox-agent/internal/reply"
)

// Session is one batch's classification and generation conversation.
type Session interface {
	Classify(ctx context.Context, summaries []llm.Summary) ([]string, error)
	Generate(ctx context.Context, sum llm.Summary) (string, error)
}

type draftCreator interface {
	Create(ctx context.Context, msg *model.Message, rcpt reply.Recipients, body string) (string, error)
}

type processedMarker interface {
	MarkProcessed(ctx context.Context, msgID string) error
}

// OutcomeKind is the three-way result for one batch message.
type OutcomeKind int

const (
	// OutcomeNotSelected means classification did not pick the message.
	OutcomeNotSelected OutcomeKind = iota
	// OutcomeFailed means the message was selected but no draft exists.
	OutcomeFailed
	// OutcomeDrafted means a draft was created; Err may still carry a
	// non-fatal mark-processed failure.
	OutcomeDrafted
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeNotSelected:
		return "not_selected"
	case OutcomeFailed:
		return "failed"
	case OutcomeDrafted:
		return "drafted"
	default:
		return "unknown"
	}
}

// Outcome reports what happened to one message during a run.
type Outcome struct {
	Kind    OutcomeKind
	DraftID string
	Reply   model.ReplyState
	Err     error
}

// Orchestrator runs the triage-then-draft protocol over message batches.
// Generation is strictly sequential within a batch: each call extends the
// session conversation that the next call depends on.
type Orchestrator struct {
	newSession func() Session
	drafts     draftCreator
	store      processedMarker
	log        zerolog.Logger
}

// New creates an Orchestrator. newSession is called once per Run so each
// batch gets a fresh conversation.
func New(newSession func() Session, drafts draftCreator, store processedMarker, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		newSession: newSession,
		drafts:     drafts,
		store:      store,
		log:        log.With().Str("component", "triage").Logger(),
	}
}

// Run classifies the batch once, then drafts replies for the selected
// messages one at a time. A failure on one message never aborts the rest;
// the returned map has exactly one entry per batch message. The only
// error return is a failed classification call, without which no message
// can be selected.
func (o *Orchestrator) Run(ctx context.Context, batch []*model.Message, userAddr string) (map[string]Outcome, error) {
	batchID := uuid.NewString()
	log := o.log.With().Str("batch_id", batchID).Logger()

	outcomes := make(map[string]Outcome, len(batch))
	byID := make(map[string]*model.Message, len(batch))
	summaries := make([]llm.Summary, 0, len(batch))

	for _, msg := range batch {
		outcomes[msg.ID] = Outcome{Kind: OutcomeNotSelected}
		byID[msg.ID] = msg
		summaries = append(summaries, summarize(msg))
	}

	sess := o.newSession()

	selected, err := sess.Classify(ctx, summaries)
	if err != nil {
		return nil, fmt.Errorf("sess.Classify failed: %w", err)
	}

	log.Info().Int("batch", len(batch)).Int("selected", len(selected)).Msg("triage complete")

	for _, id := range selected {
		msg, ok := byID[id]
		if !ok {
			continue
		}

		outcomes[id] = o.draftOne(ctx, sess, msg, userAddr, log)
	}

	return outcomes, nil
}

func (o *Orchestrator) draftOne(ctx context.Context, sess Session, msg *model.Message, userAddr string, log zerolog.Logger) Outcome {
	text, err := sess.Generate(ctx, summarize(msg))
	if err != nil {
		log.Warn().Err(err).Str("message_id", msg.ID).Msg("generation failed")
		return Outcome{Kind: OutcomeFailed, Err: err}
	}

	state := model.ReplyState{}.WithDraft(text)
	rcpt := reply.ResolveReplyAll(msg, userAddr)

	draftID, err := o.drafts.Create(ctx, msg, rcpt, text)
	if err != nil {
		log.Warn().Err(err).Str("message_id", msg.ID).Msg("draft create failed")
		return Outcome{Kind: OutcomeFailed, Reply: state, Err: err}
	}
	state = state.WithCreated(draftID)

	out := Outcome{Kind: OutcomeDrafted, DraftID: draftID, Reply: state}

	if err := o.store.MarkProcessed(ctx, msg.ID); err != nil {
		// The draft exists; the message may be re-selected next run.
		log.Warn().Err(err).Str("message_id", msg.ID).Msg("mark processed failed")
		out.Err = err
	}

	return out
}

func summarize(msg *model.Message) llm.Summary {
	return llm.Summary{
		ID:          msg.ID,
		Subject:     msg.Subject,
		FromName:    msg.From.Name,
		FromAddress: msg.From.Address,
		To:          msg.To,
		Cc:          msg.Cc,
		Date:        msg.HeaderDate,
		Snippet:     msg.Snippet,
		Body:        msg.PlainBody,
	}
}

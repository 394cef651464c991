package triage_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hal9000y/inbox-agent/internal/llm"
	"github.com/hal9000y/inbox-agent/internal/model"
	"github.com/hal9000y/inbox-agent/internal/reply"
	"github.com/hal9000y/inbox-agent/internal/triage"
)

type sessionMock struct {
	ClassifyFunc func(ctx context.Context, summaries []llm.Summary) ([]string, error)
	GenerateFunc func(ctx context.Context, sum llm.Summary) (string, error)
}

func (s *sessionMock) Classify(ctx context.Context, summaries []llm.Summary) ([]string, error) {
	return s.ClassifyFunc(ctx, summaries)
}

func (s *sessionMock) Generate(ctx context.Context, sum llm.Summary) (string, error) {
	return s.GenerateFunc(ctx, sum)
}

type draftCreatorMock struct {
	CreateFunc func(ctx context.Context, msg *model.Message, rcpt reply.Recipients, body string) (string, error)
}

func (d *draftCreatorMock) Create(ctx context.Context, msg *model.Message, rcpt reply.Recipients, body string) (string, error) {
	return d.CreateFunc(ctx, msg, rcpt, body)
}

type markerMock struct {
	MarkProcessedFunc func(ctx context.Context, msgID string) error
}

func (m *markerMock) MarkProcessed(ctx context.Context, msgID string) error {
	return m.MarkProcessedFunc(ctx, msgID)
}

func testBatch() []*model.Message {
	return []*model.Message{
		{ID: "m-1", From: model.EmailAddress{Address: "alice@example.com"}, To: []string{"me@example.com"}},
		{ID: "m-2", From: model.EmailAddress{Address: "bob@example.com"}, To: []string{"me@example.com"}},
		{ID: "m-3", From: model.EmailAddress{Address: "carol@example.com"}, To: []string{"me@example.com"}},
	}
}

func newOrchestrator(sess *sessionMock, drafts *draftCreatorMock, marker *markerMock) *triage.Orchestrator {
	return triage.New(
		func() triage.Session { return sess },
		drafts,
		marker,
		zerolog.New(io.Discard),
	)
}

func TestRunOutcomePerMessage(t *testing.T) {
	sess := &sessionMock{
		ClassifyFunc: func(_ context.Context, summaries []llm.Summary) ([]string, error) {
			require.Len(t, summaries, 3)
			return []string{"m-1", "m-3"}, nil
		},
		GenerateFunc: func(_ context.Context, sum llm.Summary) (string, error) {
			return "reply to " + sum.ID, nil
		},
	}

	var created []string
	drafts := &draftCreatorMock{
		CreateFunc: func(_ context.Context, msg *model.Message, rcpt reply.Recipients, body string) (string, error) {
			created = append(created, msg.ID)
			assert.Equal(t, []string{msg.From.Address}, rcpt.To)
			assert.Equal(t, "reply to "+msg.ID, body)
			return "d-" + msg.ID, nil
		},
	}

	var marked []string
	marker := &markerMock{
		MarkProcessedFunc: func(_ context.Context, msgID string) error {
			marked = append(marked, msgID)
			return nil
		},
	}

	o := newOrchestrator(sess, drafts, marker)

	outcomes, err := o.Run(context.Background(), testBatch(), "me@example.com")
	require.NoError(t, err)
	require.Len(t, outcomes, 3)

	assert.Equal(t, triage.OutcomeDrafted, outcomes["m-1"].Kind)
	assert.Equal(t, "d-m-1", outcomes["m-1"].DraftID)
	assert.Equal(t, model.StateCreated, outcomes["m-1"].Reply.State)

	assert.Equal(t, triage.OutcomeNotSelected, outcomes["m-2"].Kind)
	assert.Empty(t, outcomes["m-2"].DraftID)

	assert.Equal(t, triage.OutcomeDrafted, outcomes["m-3"].Kind)

	assert.Equal(t, []string{"m-1", "m-3"}, created)
	assert.Equal(t, []string{"m-1", "m-3"}, marked)
}

func TestRunClassifyError(t *testing.T) {
	sess := &sessionMock{
		ClassifyFunc: func(_ context.Context, _ []llm.Summary) ([]string, error) {
			return nil, errors.New("model unavailable")
		},
	}

	o := newOrchestrator(sess, &draftCreatorMock{}, &markerMock{})

	_, err := o.Run(context.Background(), testBatch(), "me@example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model unavailable")
}

func TestRunGenerateFailureIsolated(t *testing.T) {
	sess := &sessionMock{
		ClassifyFunc: func(_ context.Context, _ []llm.Summary) ([]string, error) {
			return []string{"m-1", "m-2"}, nil
		},
		GenerateFunc: func(_ context.Context, sum llm.Summary) (string, error) {
			if sum.ID == "m-1" {
				return "", errors.New("generation broke")
			}
			return "reply", nil
		},
	}
	drafts := &draftCreatorMock{
		CreateFunc: func(_ context.Context, msg *model.Message, _ reply.Recipients, _ string) (string, error) {
			return "d-" + msg.ID, nil
		},
	}
	marker := &markerMock{
		MarkProcessedFunc: func(_ context.Context, _ string) error { return nil },
	}

	o := newOrchestrator(sess, drafts, marker)

	outcomes, err := o.Run(context.Background(), testBatch(), "me@example.com")
	require.NoError(t, err)

	assert.Equal(t, triage.OutcomeFailed, outcomes["m-1"].Kind)
	assert.Error(t, outcomes["m-1"].Err)
	assert.Empty(t, outcomes["m-1"].DraftID)

	// One message failing never blocks the next one.
	assert.Equal(t, triage.OutcomeDrafted, outcomes["m-2"].Kind)
	assert.Equal(t, "d-m-2", outcomes["m-2"].DraftID)
}

func TestRunCreateFailure(t *testing.T) {
	sess := &sessionMock{
		ClassifyFunc: func(_ context.Context, _ []llm.Summary) ([]string, error) {
			return []string{"m-1"}, nil
		},
		GenerateFunc: func(_ context.Context, _ llm.Summary) (string, error) {
			return "reply", nil
		},
	}
	drafts := &draftCreatorMock{
		CreateFunc: func(_ context.Context, _ *model.Message, _ reply.Recipients, _ string) (string, error) {
			return "", errors.New("provider down")
		},
	}
	marker := &markerMock{
		MarkProcessedFunc: func(_ context.Context, _ string) error {
			t.Fatal("must not mark a message whose draft was never created")
			return nil
		},
	}

	o := newOrchestrator(sess, drafts, marker)

	outcomes, err := o.Run(context.Background(), testBatch(), "me@example.com")
	require.NoError(t, err)

	out := outcomes["m-1"]
	assert.Equal(t, triage.OutcomeFailed, out.Kind)
	assert.Empty(t, out.DraftID)
	assert.Equal(t, model.StateNone, out.Reply.State)
}

func TestRunMarkProcessedFailureKeepsDraft(t *testing.T) {
	sess := &sessionMock{
		ClassifyFunc: func(_ context.Context, _ []llm.Summary) ([]string, error) {
			return []string{"m-1"}, nil
		},
		GenerateFunc: func(_ context.Context, _ llm.Summary) (string, error) {
			return "reply", nil
		},
	}
	drafts := &draftCreatorMock{
		CreateFunc: func(_ context.Context, _ *model.Message, _ reply.Recipients, _ string) (string, error) {
			return "d-1", nil
		},
	}
	marker := &markerMock{
		MarkProcessedFunc: func(_ context.Context, _ string) error {
			return errors.New("label update failed")
		},
	}

	o := newOrchestrator(sess, drafts, marker)

	outcomes, err := o.Run(context.Background(), testBatch(), "me@example.com")
	require.NoError(t, err)

	out := outcomes["m-1"]
	assert.Equal(t, triage.OutcomeDrafted, out.Kind)
	assert.Equal(t, "d-1", out.DraftID)
	assert.Error(t, out.Err)
}

func TestRunUnknownSelectedIDIgnored(t *testing.T) {
	sess := &sessionMock{
		ClassifyFunc: func(_ context.Context, _ []llm.Summary) ([]string, error) {
			return []string{"m-99"}, nil
		},
	}

	o := newOrchestrator(sess, &draftCreatorMock{}, &markerMock{})

	outcomes, err := o.Run(context.Background(), testBatch(), "me@example.com")
	require.NoError(t, err)
	require.Len(t, outcomes, 3)

	for id, out := range outcomes {
		assert.Equal(t, triage.OutcomeNotSelected, out.Kind, id)
	}
}

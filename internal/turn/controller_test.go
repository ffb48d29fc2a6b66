package turn

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srynk/pulse/internal/api"
	"github.com/srynk/pulse/internal/conversation"
	apierrors "github.com/srynk/pulse/internal/errors"
	"github.com/srynk/pulse/internal/models"
)

func newController(backend Backend) *Controller {
	return NewController(conversation.NewStore(), backend, nil)
}

func failing(err error) *api.MockGeminiClient {
	return &api.MockGeminiClient{Model: models.DefaultModel, GenerateContentErr: err}
}

func TestSubmit_Reply(t *testing.T) {
	backend := api.NewMockReply("Hello **world**, **bye**")
	c := newController(backend)

	out, err := c.Submit(context.Background(), "  hi there \n")
	require.NoError(t, err)

	assert.Equal(t, OutcomeReply, out.Kind)
	assert.Equal(t, "Hello world, bye", out.Text)
	assert.False(t, out.Stale)
	assert.False(t, out.Failed())
	assert.Equal(t, 1, backend.Calls())
	assert.Equal(t, "hi there", backend.LastPrompt())

	msgs := c.Store().Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, models.UserMessage(out.TurnID, "hi there"), msgs[0])
	assert.Equal(t, models.SenderAssistant, msgs[1].Sender)
	assert.Equal(t, "Hello world, bye", msgs[1].Text)
	assert.False(t, c.Busy())
}

func TestSubmit_IgnoresBlankInput(t *testing.T) {
	backend := api.NewMockReply("unused")
	c := newController(backend)

	for _, in := range []string{"", "   ", "\n\t"} {
		out, err := c.Submit(context.Background(), in)
		assert.ErrorIs(t, err, apierrors.ErrEmptyInput)
		assert.Equal(t, OutcomeIgnored, out.Kind)
	}
	assert.Equal(t, 0, backend.Calls())
	assert.Equal(t, 0, c.Store().Len())
}

func TestSubmit_Fallbacks(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantKind Kind
		wantText string
	}{
		{"no content", apierrors.ErrNoContent, OutcomeNoResponse, models.NoResponseText},
		{"wrapped no content", errors.Join(errors.New("finish reason SAFETY"), apierrors.ErrNoContent), OutcomeNoResponse, models.NoResponseText},
		{"network", apierrors.NewNetworkError("generate content", "https://example.test", errors.New("connection refused")), OutcomeNetworkError, models.NetworkErrorText},
		{"http status", apierrors.NewAPIError(500, "https://example.test", "Internal Server Error"), OutcomeNetworkError, models.NetworkErrorText},
		{"non-json body", apierrors.NewParseError("response body is not valid JSON", ""), OutcomeNetworkError, models.NetworkErrorText},
		{"timeout", context.DeadlineExceeded, OutcomeNetworkError, models.NetworkErrorText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := failing(tt.err)
			c := newController(backend)

			out, err := c.Submit(context.Background(), "hi")
			require.NoError(t, err)

			assert.Equal(t, tt.wantKind, out.Kind)
			assert.Equal(t, tt.wantText, out.Text)
			assert.True(t, out.Failed())
			assert.ErrorIs(t, out.Err, tt.err)
			assert.Equal(t, 1, backend.Calls(), "fallbacks never retry")

			msgs := c.Store().Messages()
			require.Len(t, msgs, 2)
			assert.Equal(t, tt.wantText, msgs[1].Text)
			assert.False(t, msgs[1].IsPending())
		})
	}
}

func TestSubmit_EmptyReplyText(t *testing.T) {
	backend := &api.MockGeminiClient{
		GenerateContentVal: &models.ModelOutput{Candidates: []models.Candidate{{Text: ""}}},
	}
	c := newController(backend)

	out, err := c.Submit(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, OutcomeNoResponse, out.Kind)

	backend.GenerateContentVal = nil
	c.Reset()
	out, err = c.Submit(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, OutcomeNoResponse, out.Kind)
}

func TestSubmit_WhitespaceReplyIsAReply(t *testing.T) {
	c := newController(api.NewMockReply("  \n"))

	out, err := c.Submit(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, OutcomeReply, out.Kind)
	assert.Equal(t, "  \n", out.Text)
}

func TestSubmit_BackendPanicIsNetworkError(t *testing.T) {
	backend := &api.MockGeminiClient{
		GenerateFunc: func(context.Context, string) (*models.ModelOutput, error) {
			panic("boom")
		},
	}
	c := newController(backend)

	out, err := c.Submit(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, OutcomeNetworkError, out.Kind)
	assert.ErrorContains(t, out.Err, "boom")
	assert.False(t, c.Busy())
}

func TestSubmit_SecondTurnRefusedWhileBusy(t *testing.T) {
	c := newController(api.NewMockReply("ok"))

	first, err := c.Begin(context.Background(), "one")
	require.NoError(t, err)

	out, err := c.Submit(context.Background(), "two")
	assert.ErrorIs(t, err, apierrors.ErrTurnInFlight)
	assert.Equal(t, OutcomeIgnored, out.Kind)

	reply, runErr := c.Run(first)
	c.Complete(first, reply, runErr)

	_, err = c.Submit(context.Background(), "two")
	require.NoError(t, err)
	assert.Equal(t, 4, c.Store().Len())
}

func TestPlaceholderVisibleWhileAwaiting(t *testing.T) {
	release := make(chan struct{})
	backend := &api.MockGeminiClient{
		GenerateFunc: func(ctx context.Context, _ string) (*models.ModelOutput, error) {
			<-release
			return &models.ModelOutput{Candidates: []models.Candidate{{Text: "done"}}}, nil
		},
	}
	c := newController(backend)

	tr, err := c.Begin(context.Background(), "wait")
	require.NoError(t, err)

	done := make(chan Outcome, 1)
	go func() {
		reply, err := c.Run(tr)
		done <- c.Complete(tr, reply, err)
	}()

	msgs := c.Store().Messages()
	require.Len(t, msgs, 2)
	assert.True(t, msgs[1].IsPending())
	assert.Equal(t, models.LoadingText, msgs[1].Text)
	assert.True(t, c.Busy())

	close(release)
	select {
	case out := <-done:
		assert.Equal(t, OutcomeReply, out.Kind)
	case <-time.After(5 * time.Second):
		t.Fatal("turn did not complete")
	}
	assert.Equal(t, "done", c.Store().Messages()[1].Text)
}

func TestResetDuringFlight(t *testing.T) {
	started := make(chan struct{})
	backend := &api.MockGeminiClient{
		GenerateFunc: func(ctx context.Context, prompt string) (*models.ModelOutput, error) {
			if prompt == "old question" {
				close(started)
				<-ctx.Done()
				return nil, apierrors.NewNetworkError("generate content", "", ctx.Err())
			}
			return &models.ModelOutput{Candidates: []models.Candidate{{Text: "new answer"}}}, nil
		},
	}
	c := newController(backend)

	old, err := c.Begin(context.Background(), "old question")
	require.NoError(t, err)

	done := make(chan Outcome, 1)
	go func() {
		reply, err := c.Run(old)
		done <- c.Complete(old, reply, err)
	}()
	<-started

	epoch := c.Reset()
	assert.Equal(t, uint64(1), epoch)

	// A new turn begins before the cancelled one settles
	fresh, err := c.Begin(context.Background(), "new question")
	require.NoError(t, err)

	var stale Outcome
	select {
	case stale = <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("cancelled turn did not settle")
	}
	assert.True(t, stale.Stale)
	assert.ErrorIs(t, stale.Err, context.Canceled)

	msgs := c.Store().Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "new question", msgs[0].Text)
	assert.True(t, msgs[1].IsPending(), "stale reply must not resolve the newer turn")

	reply, runErr := c.Run(fresh)
	out := c.Complete(fresh, reply, runErr)
	assert.False(t, out.Stale)
	assert.Equal(t, "new answer", c.Store().Messages()[1].Text)
}

func TestResetWhenIdle(t *testing.T) {
	c := newController(api.NewMockReply("ok"))
	_, err := c.Submit(context.Background(), "hi")
	require.NoError(t, err)

	c.Reset()
	assert.Equal(t, 0, c.Store().Len())
	assert.False(t, c.Busy())
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "ignored", OutcomeIgnored.String())
	assert.Equal(t, "reply", OutcomeReply.String())
	assert.Equal(t, "no_response", OutcomeNoResponse.String())
	assert.Equal(t, "network_error", OutcomeNetworkError.String())
	assert.Equal(t, "unknown", Kind(9).String())
}

// Package turn drives one request/response cycle per user turn against a
// generation backend and settles the result into a conversation.
package turn

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/srynk/pulse/internal/conversation"
	apierrors "github.com/srynk/pulse/internal/errors"
	"github.com/srynk/pulse/internal/models"
	"github.com/srynk/pulse/internal/render"
)

// Backend produces a reply for a single prompt
type Backend interface {
	GenerateContent(ctx context.Context, prompt string) (*models.ModelOutput, error)
}

// Kind classifies how a turn ended
type Kind int

const (
	// OutcomeIgnored means nothing was submitted
	OutcomeIgnored Kind = iota
	// OutcomeReply means the backend returned reply text
	OutcomeReply
	// OutcomeNoResponse means the response carried no reply text
	OutcomeNoResponse
	// OutcomeNetworkError means the request failed in transport
	OutcomeNetworkError
)

func (k Kind) String() string {
	switch k {
	case OutcomeIgnored:
		return "ignored"
	case OutcomeReply:
		return "reply"
	case OutcomeNoResponse:
		return "no_response"
	case OutcomeNetworkError:
		return "network_error"
	default:
		return "unknown"
	}
}

// Outcome is the settled result of a turn
type Outcome struct {
	Kind Kind
	// Text is what the conversation shows in place of the placeholder
	Text   string
	TurnID string
	// Stale is set when the conversation was reset before the reply arrived;
	// the conversation was left untouched.
	Stale bool
	// Err is the backend failure behind a fallback, if any
	Err error
}

// Failed reports whether the turn ended with a fallback message
func (o Outcome) Failed() bool {
	return o.Kind == OutcomeNoResponse || o.Kind == OutcomeNetworkError
}

// Turn is one submitted user message awaiting its reply
type Turn struct {
	Ticket conversation.Ticket
	Prompt string

	ctx    context.Context
	cancel context.CancelFunc
}

// Controller owns the conversation and the backend
type Controller struct {
	store   *conversation.Store
	backend Backend
	logger  *slog.Logger

	mu     sync.Mutex
	active *Turn
}

// NewController creates a controller over store. A nil logger uses slog.Default.
func NewController(store *conversation.Store, backend Backend, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		store:   store,
		backend: backend,
		logger:  logger.With("component", "turn"),
	}
}

// Store returns the conversation the controller writes to
func (c *Controller) Store() *conversation.Store {
	return c.store
}

// Busy reports whether a reply is outstanding
func (c *Controller) Busy() bool {
	return c.store.HasPending()
}

// Begin trims raw and commits it with its placeholder. Whitespace-only input
// returns ErrEmptyInput and changes nothing.
func (c *Controller) Begin(ctx context.Context, raw string) (*Turn, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return nil, apierrors.ErrEmptyInput
	}

	ticket, err := c.store.AppendUserTurn(text)
	if err != nil {
		return nil, err
	}

	tctx, cancel := context.WithCancel(ctx)
	t := &Turn{Ticket: ticket, Prompt: text, ctx: tctx, cancel: cancel}

	c.mu.Lock()
	c.active = t
	c.mu.Unlock()

	c.logger.Debug("turn started", "turn", ticket.TurnID, "epoch", ticket.Epoch, "chars", len(text))
	return t, nil
}

// Run performs the single backend call for t. It never panics; a failing
// backend is reported as an error.
func (c *Controller) Run(t *Turn) (reply string, err error) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("backend panicked", "turn", t.Ticket.TurnID, "panic", r)
			reply, err = "", fmt.Errorf("backend panic: %v", r)
		}
	}()

	output, err := c.backend.GenerateContent(t.ctx, t.Prompt)
	if err != nil {
		return "", err
	}
	text := output.Text()
	if text == "" {
		return "", apierrors.ErrNoContent
	}
	return text, nil
}

// Complete resolves t's placeholder from the result of Run. A turn from a
// conversation that has since been reset leaves the conversation untouched.
func (c *Controller) Complete(t *Turn, reply string, err error) Outcome {
	o := Outcome{TurnID: t.Ticket.TurnID, Err: err}
	switch {
	case err == nil:
		o.Kind = OutcomeReply
		o.Text = render.StripBold(reply)
	case apierrors.IsMalformedResponse(err):
		o.Kind = OutcomeNoResponse
		o.Text = models.NoResponseText
	default:
		o.Kind = OutcomeNetworkError
		o.Text = models.NetworkErrorText
	}

	result := c.store.Resolve(t.Ticket, models.AssistantMessage(o.Text))
	o.Stale = result == conversation.ResolveStale

	c.mu.Lock()
	if c.active == t {
		c.active = nil
	}
	c.mu.Unlock()
	t.cancel()

	attrs := []any{"turn", t.Ticket.TurnID, "outcome", o.Kind.String(), "resolve", result.String()}
	if err != nil {
		attrs = append(attrs, "error", err)
	}
	if o.Failed() && !o.Stale {
		c.logger.Warn("turn failed", attrs...)
	} else {
		c.logger.Debug("turn completed", attrs...)
	}
	return o
}

// Submit runs a whole turn synchronously: commit, one backend call, resolve.
// The returned error is only non-nil when nothing was submitted.
func (c *Controller) Submit(ctx context.Context, raw string) (Outcome, error) {
	t, err := c.Begin(ctx, raw)
	if err != nil {
		return Outcome{Kind: OutcomeIgnored}, err
	}
	reply, runErr := c.Run(t)
	return c.Complete(t, reply, runErr), nil
}

// Reset cancels the in-flight turn, if any, and discards the conversation.
// It returns the new epoch.
func (c *Controller) Reset() uint64 {
	c.mu.Lock()
	if c.active != nil {
		c.active.cancel()
		c.active = nil
	}
	c.mu.Unlock()

	epoch := c.store.Reset()
	c.logger.Debug("conversation reset", "epoch", epoch)
	return epoch
}

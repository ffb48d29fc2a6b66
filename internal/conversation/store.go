// Package conversation holds the ordered message list of a chat and the
// single in-flight placeholder, and reconciles replies into it.
package conversation

import (
	"strings"
	"sync"

	"github.com/google/uuid"

	apierrors "github.com/srynk/pulse/internal/errors"
	"github.com/srynk/pulse/internal/models"
)

// Ticket identifies one user turn within one conversation generation.
// It is the only handle that can resolve the turn's placeholder.
type Ticket struct {
	Epoch  uint64
	TurnID string
}

// ResolveResult reports what a tagged resolution did
type ResolveResult int

const (
	// ResolveReplaced means the placeholder was replaced in place
	ResolveReplaced ResolveResult = iota
	// ResolveAppended means no placeholder matched and the message was appended
	ResolveAppended
	// ResolveStale means the ticket belongs to a discarded conversation; nothing changed
	ResolveStale
)

func (r ResolveResult) String() string {
	switch r {
	case ResolveReplaced:
		return "replaced"
	case ResolveAppended:
		return "appended"
	case ResolveStale:
		return "stale"
	default:
		return "unknown"
	}
}

// Store is the ordered message sequence of one chat window.
// All methods are safe for concurrent use; readers get copies.
type Store struct {
	mu       sync.Mutex
	messages []models.Message
	epoch    uint64
	newID    func() string
}

// NewStore creates an empty conversation
func NewStore() *Store {
	return &Store{newID: uuid.NewString}
}

// AppendUserTurn appends a user message followed by its placeholder.
// text must be non-empty after trimming. Only one placeholder may exist at a
// time; a second turn is refused with ErrTurnInFlight.
func (s *Store) AppendUserTurn(text string) (Ticket, error) {
	if strings.TrimSpace(text) == "" {
		return Ticket{}, apierrors.ErrEmptyInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pendingIndexLocked() >= 0 {
		return Ticket{}, apierrors.ErrTurnInFlight
	}

	id := s.newID()
	s.messages = append(s.messages,
		models.UserMessage(id, text),
		models.PendingMessage(id),
	)
	return Ticket{Epoch: s.epoch, TurnID: id}, nil
}

// ResolvePending replaces the first placeholder with final, or appends final
// when there is none. It ignores turn identity and epochs.
func (s *Store) ResolvePending(final models.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.pendingIndexLocked(); i >= 0 {
		final.TurnID = s.messages[i].TurnID
		s.messages[i] = final
		return
	}
	s.messages = append(s.messages, final)
}

// Resolve settles the turn named by t. A ticket from an earlier epoch is
// ignored. Otherwise the matching placeholder is replaced in place, or final
// is appended when the turn was already resolved.
func (s *Store) Resolve(t Ticket, final models.Message) ResolveResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.Epoch != s.epoch {
		return ResolveStale
	}

	final.TurnID = t.TurnID
	for i, m := range s.messages {
		if m.IsPending() && m.TurnID == t.TurnID {
			s.messages[i] = final
			return ResolveReplaced
		}
	}
	s.messages = append(s.messages, final)
	return ResolveAppended
}

// Reset discards the conversation and starts a new epoch
func (s *Store) Reset() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages = nil
	s.epoch++
	return s.epoch
}

// Messages returns a copy of the sequence in display order
func (s *Store) Messages() []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Len returns the number of entries, placeholder included
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}

// Epoch returns the current conversation generation
func (s *Store) Epoch() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.epoch
}

// HasPending reports whether a placeholder is outstanding
func (s *Store) HasPending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pendingIndexLocked() >= 0
}

func (s *Store) pendingIndexLocked() int {
	for i, m := range s.messages {
		if m.IsPending() {
			return i
		}
	}
	return -1
}

package contact

import (
	"strings"
	"sync"

	"github.com/pkg/errors"
)

type State string

const (
	StateIdle               State = "idle"
	StateValidating         State = "validating"
	StateResolvingRecipient State = "resolving_recipient"
	StateWriting            State = "writing"
	StateSucceeded          State = "succeeded"
	StateFailed             State = "failed"
)

// ErrAlreadyStarted is returned when a submission that has left Idle is run again.
var ErrAlreadyStarted = errors.New("submission already started")

// Input is what the sender typed.
type Input struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Submission tracks a single attempt to contact an admin. It moves forward only:
// Idle, Validating, ResolvingRecipient, Writing, then Succeeded or Failed.
// A retry is a new Submission.
type Submission struct {
	mu       sync.RWMutex
	input    Input
	senderID string
	state    State
	failure  error
}

func NewSubmission(input Input, senderID string) *Submission {
	return &Submission{
		input:    input,
		senderID: senderID,
		state:    StateIdle,
	}
}

func (s *Submission) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// FailureKind returns the Err* sentinel the submission failed with, or nil.
func (s *Submission) FailureKind() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.failure
}

// InFlight reports whether store I/O is underway. Callers should not offer a new
// submission while this is true.
func (s *Submission) InFlight() bool {
	switch s.State() {
	case StateResolvingRecipient, StateWriting:
		return true
	default:
		return false
	}
}

func (s *Submission) Terminal() bool {
	switch s.State() {
	case StateSucceeded, StateFailed:
		return true
	default:
		return false
	}
}

func (s *Submission) start() error   { return s.transition(StateIdle, StateValidating) }
func (s *Submission) resolve() error { return s.transition(StateValidating, StateResolvingRecipient) }
func (s *Submission) write() error   { return s.transition(StateResolvingRecipient, StateWriting) }
func (s *Submission) succeed() error { return s.transition(StateWriting, StateSucceeded) }

func (s *Submission) fail(kind error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case StateValidating, StateResolvingRecipient, StateWriting:
		s.state = StateFailed
		s.failure = kind
		return nil
	default:
		return errors.Errorf("cannot fail submission in state %s", s.state)
	}
}

func (s *Submission) transition(from, to State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != from {
		if from == StateIdle {
			return ErrAlreadyStarted
		}
		return errors.Errorf("invalid submission transition %s -> %s", s.state, to)
	}
	s.state = to
	return nil
}

// validate trims the input in place and reports the first missing field.
func (s *Submission) validate() error {
	s.input.Subject = strings.TrimSpace(s.input.Subject)
	s.input.Body = strings.TrimSpace(s.input.Body)
	s.senderID = strings.TrimSpace(s.senderID)

	switch {
	case s.input.Subject == "":
		return errors.New("subject is required")
	case s.input.Body == "":
		return errors.New("body is required")
	case s.senderID == "":
		return errors.New("sender id is required")
	}
	return nil
}

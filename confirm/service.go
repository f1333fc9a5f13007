package confirm

import (
	"context"
	"errors"
	"time"

	"github.com/jacentio/keystone/schema"
	"github.com/jacentio/keystone/store"
)

// Writer creates an item only if its primary key is unoccupied, returning
// store.ErrAlreadyExists otherwise. *store.Store satisfies it.
type Writer interface {
	PutIfAbsent(ctx context.Context, item schema.Item) error
}

// Outcome classifies a confirmation attempt.
type Outcome int

const (
	// OutcomeCreated means the profile was written.
	OutcomeCreated Outcome = iota + 1

	// OutcomeAlreadyExists means a profile was already present and was left unchanged.
	OutcomeAlreadyExists

	// OutcomeInvalidInput means the confirmation failed validation; nothing was written.
	OutcomeInvalidInput

	// OutcomeOperationalFailure means the store write failed for a reason other
	// than an existing profile.
	OutcomeOperationalFailure
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCreated:
		return "created"
	case OutcomeAlreadyExists:
		return "already_exists"
	case OutcomeInvalidInput:
		return "invalid_input"
	case OutcomeOperationalFailure:
		return "operational_failure"
	default:
		return "unknown"
	}
}

// Result is the outcome of a confirmation.
type Result struct {
	Outcome Outcome

	// Profile is the profile that was written or attempted. Nil for invalid input.
	Profile *schema.Profile

	// Err is the reason for InvalidInput and OperationalFailure outcomes.
	Err error
}

// OK reports whether the profile exists after the confirmation.
func (r Result) OK() bool {
	return r.Outcome == OutcomeCreated || r.Outcome == OutcomeAlreadyExists
}

// Option configures a Service.
type Option func(*Service)

// WithClock sets the clock used for profile timestamps. Defaults to time.Now.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		s.clock = clock
	}
}

// Service creates profiles for confirmed identities. It holds no per-call
// state and is safe for concurrent use.
type Service struct {
	writer Writer
	clock  func() time.Time
}

// NewService creates a Service writing through w.
func NewService(w Writer, opts ...Option) *Service {
	s := &Service{
		writer: w,
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Confirm validates c, builds the initial profile and creates it if absent.
// It performs exactly one conditional write and no retries.
func (s *Service) Confirm(ctx context.Context, c Confirmation) Result {
	if err := c.Validate(); err != nil {
		return Result{Outcome: OutcomeInvalidInput, Err: err}
	}

	profile := BuildProfile(c, s.clock())

	err := s.writer.PutIfAbsent(ctx, profile)
	switch {
	case err == nil:
		return Result{Outcome: OutcomeCreated, Profile: profile}
	case errors.Is(err, store.ErrAlreadyExists):
		return Result{Outcome: OutcomeAlreadyExists, Profile: profile}
	default:
		return Result{Outcome: OutcomeOperationalFailure, Profile: profile, Err: err}
	}
}

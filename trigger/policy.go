package trigger

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownPolicy is returned by ParsePolicy for unrecognized names.
var ErrUnknownPolicy = errors.New("trigger: unknown failure policy")

// FailurePolicy decides what the handler returns when a profile could not be
// created.
type FailurePolicy int

const (
	// PolicyBestEffort logs failures and always lets the sign-up proceed.
	PolicyBestEffort FailurePolicy = iota

	// PolicyStrict returns an error to the identity provider on failure,
	// which blocks the confirmation.
	PolicyStrict
)

func (p FailurePolicy) String() string {
	switch p {
	case PolicyBestEffort:
		return "best_effort"
	case PolicyStrict:
		return "strict"
	default:
		return fmt.Sprintf("FailurePolicy(%d)", int(p))
	}
}

// ParsePolicy converts "best_effort" or "strict" (case-insensitive) into a
// FailurePolicy. The empty string means PolicyBestEffort.
func ParsePolicy(s string) (FailurePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "best_effort", "best-effort":
		return PolicyBestEffort, nil
	case "strict":
		return PolicyStrict, nil
	default:
		return PolicyBestEffort, fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
	}
}

// Package trigger adapts the Cognito post-confirmation Lambda trigger to the
// confirm service.
package trigger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-lambda-go/events"

	"github.com/jacentio/keystone/confirm"
	"github.com/jacentio/keystone/store"
)

// Cognito user attribute names read from the event.
const (
	attrSub        = "sub"
	attrEmail      = "email"
	attrGivenName  = "given_name"
	attrFamilyName = "family_name"
)

// Confirmer creates the profile for a confirmed identity. *confirm.Service
// satisfies it.
type Confirmer interface {
	Confirm(ctx context.Context, c confirm.Confirmation) confirm.Result
}

// Option configures a Handler.
type Option func(*Handler)

// WithPolicy sets the failure policy. Defaults to PolicyBestEffort.
func WithPolicy(p FailurePolicy) Option {
	return func(h *Handler) {
		h.policy = p
	}
}

// Handler processes post-confirmation events.
type Handler struct {
	confirmer Confirmer
	logger    *slog.Logger
	policy    FailurePolicy
}

// NewHandler creates a new post-confirmation handler.
func NewHandler(c Confirmer, logger *slog.Logger, opts ...Option) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{
		confirmer: c,
		logger:    logger,
		policy:    PolicyBestEffort,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// HandlePostConfirmation creates the user's profile if absent and returns the
// event unchanged. Under PolicyBestEffort it never returns an error.
// This function is designed to be used as an AWS Lambda handler.
func (h *Handler) HandlePostConfirmation(ctx context.Context, event events.CognitoEventUserPoolsPostConfirmation) (events.CognitoEventUserPoolsPostConfirmation, error) {
	c := confirmationFromEvent(event)
	res := h.confirmer.Confirm(ctx, c)

	attrs := []any{
		"userID", c.UserID,
		"userPoolID", event.UserPoolID,
		"outcome", res.Outcome.String(),
	}

	switch res.Outcome {
	case confirm.OutcomeCreated:
		h.logger.Info("profile created", attrs...)
		return event, nil
	case confirm.OutcomeAlreadyExists:
		h.logger.Info("profile already exists", attrs...)
		return event, nil
	}

	attrs = append(attrs, "error", res.Err)
	var opErr *store.OperationalError
	if errors.As(res.Err, &opErr) && opErr.Code != "" {
		attrs = append(attrs, "errorCode", opErr.Code)
	}
	h.logger.Error("profile not created", attrs...)

	if h.policy == PolicyStrict {
		return event, fmt.Errorf("trigger: profile for %q: %w", c.UserID, res.Err)
	}
	return event, nil
}

func confirmationFromEvent(event events.CognitoEventUserPoolsPostConfirmation) confirm.Confirmation {
	ua := event.Request.UserAttributes
	return confirm.Confirmation{
		UserID:     ua[attrSub],
		Email:      ua[attrEmail],
		GivenName:  ua[attrGivenName],
		FamilyName: ua[attrFamilyName],
	}
}

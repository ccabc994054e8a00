// Package identity models the hosted identity provider the onboarding flow
// drives: account creation, email-code verification, and sign-in, each of
// which may activate a session. The narrow Provider interface lets tests
// substitute a fake and keeps the flow decoupled from the concrete backend.
package identity

import (
	"context"
	"errors"
)

// Statuses reported by provider operations. Only StatusComplete activates a
// session; anything else is a recoverable, non-fatal outcome.
const (
	StatusComplete          = "complete"
	StatusNeedsVerification = "needs_verification"
)

// Pending is the opaque handle returned by account creation. It is required
// to request and submit a verification code and is owned exclusively by the
// onboarding flow instance that created the account.
type Pending struct {
	UserID string
	Email  string
}

// Session is the authenticated identity produced by a completed flow.
// UserID is the caller identity the file-listing authorization compares
// against.
type Session struct {
	UserID       string
	Email        string
	AccessToken  string
	RefreshToken string
}

// Result is the outcome of a sign-in or verification attempt. Session is
// non-nil only when Status is StatusComplete.
type Result struct {
	Status  string
	Session *Session
}

// Rejection is a structured error from the provider. Messages holds the
// provider's human-readable error messages in order; the first one is what
// gets surfaced to the user.
type Rejection struct {
	Messages []string
}

func (r *Rejection) Error() string {
	if len(r.Messages) > 0 {
		return r.Messages[0]
	}
	return "identity provider rejected the request"
}

// ErrorMessage extracts the first structured message from a provider error,
// falling back to the given generic message when the error carries none.
func ErrorMessage(err error, fallback string) string {
	var r *Rejection
	if errors.As(err, &r) && len(r.Messages) > 0 {
		return r.Messages[0]
	}
	return fallback
}

// Provider is the set of operations the onboarding flow needs from a hosted
// identity provider.
type Provider interface {
	// CreateAccount registers a new account and returns the opaque handle
	// needed to verify it. A *Rejection error carries the provider's
	// structured messages.
	CreateAccount(ctx context.Context, email, password string) (*Pending, error)

	// RequestEmailCode asks the provider to email a verification code for
	// the pending account.
	RequestEmailCode(ctx context.Context, pending *Pending) error

	// AttemptVerification submits the code the user received. A
	// StatusComplete result activates the session.
	AttemptVerification(ctx context.Context, pending *Pending, code string) (*Result, error)

	// SignIn authenticates an existing account. A non-complete status is a
	// recoverable outcome, not an error.
	SignIn(ctx context.Context, identifier, password string) (*Result, error)
}

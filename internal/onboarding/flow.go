// Package onboarding drives account creation and sign-in as an explicit
// state machine over an identity.Provider. Collapsing the scattered
// submitting/error/verifying flags into a single phase makes illegal
// combinations (verifying before anything was submitted, two concurrent
// submissions from one flow) unrepresentable.
package onboarding

import (
	"context"
	"errors"
	"sync"

	"github.com/rahulkpr2510/droply/internal/identity"
)

// Phase is the current state of a Flow.
type Phase string

const (
	PhaseFormEntry            Phase = "form_entry"
	PhaseSubmitting           Phase = "submitting"
	PhaseAwaitingVerification Phase = "awaiting_verification"
	PhaseVerifyingCode        Phase = "verifying_code"
	PhaseComplete             Phase = "complete"
	PhaseFailed               Phase = "failed"
)

// ErrSubmissionInFlight is returned when a submission arrives while another
// one is still outstanding on the same flow instance.
var ErrSubmissionInFlight = errors.New("a submission is already in flight")

// ErrWrongPhase is returned when an operation is not valid in the flow's
// current phase, e.g. submitting a verification code before signing up.
var ErrWrongPhase = errors.New("operation not valid in current phase")

const (
	genericErrMsg          = "Something went wrong."
	signInIncompleteMsg    = "Sign-in could not be completed. Please try again."
	verificationFailedMsg  = "Verification failed. Try again."
	invalidCodeFallbackMsg = "Invalid code."
)

// Flow is a single onboarding attempt: one user working through sign-up (with
// email verification) or sign-in. It is destroyed after completion; the only
// lasting side effect is the activated session.
type Flow struct {
	provider identity.Provider

	mu        sync.Mutex
	phase     Phase
	lastError string
	pending   *identity.Pending
	session   *identity.Session
}

// NewFlow creates a flow in the FormEntry phase.
func NewFlow(provider identity.Provider) *Flow {
	return &Flow{
		provider: provider,
		phase:    PhaseFormEntry,
	}
}

// NewVerificationFlow resumes a flow for an account that was created earlier
// and is still awaiting its emailed code.
func NewVerificationFlow(provider identity.Provider, pending *identity.Pending) *Flow {
	return &Flow{
		provider: provider,
		phase:    PhaseAwaitingVerification,
		pending:  pending,
	}
}

// Phase reports the flow's current phase.
func (f *Flow) Phase() Phase {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.phase
}

// LastError reports the message from the most recent recoverable failure.
// It is cleared when the user re-submits.
func (f *Flow) LastError() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastError
}

// Session returns the activated session, or nil unless the flow is Complete.
func (f *Flow) Session() *identity.Session {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.session
}

// Pending returns the opaque verification target, or nil before the account
// has been created.
func (f *Flow) Pending() *identity.Pending {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pending
}

// SubmitSignUp validates the form and, if it passes, creates the account and
// requests an email verification code. Validation failures are returned as a
// *ValidationError and leave the flow in FormEntry without any provider call.
// Provider rejections are recorded in LastError and move the flow to Failed,
// from which the user may retry.
func (f *Flow) SubmitSignUp(ctx context.Context, form SignUpForm) error {
	if fieldErrs := form.Validate(); fieldErrs != nil {
		return &ValidationError{Fields: fieldErrs}
	}

	if err := f.beginSubmission(PhaseFormEntry, PhaseFailed); err != nil {
		return err
	}

	pending, err := f.provider.CreateAccount(ctx, form.Email, form.Password)
	if err != nil {
		f.fail(PhaseFailed, identity.ErrorMessage(err, genericErrMsg))
		return nil
	}

	// The code request is part of the same transition: the account exists
	// but the flow only advances once the challenge has been issued.
	if err := f.provider.RequestEmailCode(ctx, pending); err != nil {
		f.fail(PhaseFailed, identity.ErrorMessage(err, genericErrMsg))
		return nil
	}

	f.mu.Lock()
	f.pending = pending
	f.phase = PhaseAwaitingVerification
	f.mu.Unlock()
	return nil
}

// SubmitSignIn validates the form and attempts to authenticate. Any rejection
// or non-complete provider status is recoverable: the message is recorded and
// the flow returns to FormEntry without an active session.
func (f *Flow) SubmitSignIn(ctx context.Context, form SignInForm) error {
	if fieldErrs := form.Validate(); fieldErrs != nil {
		return &ValidationError{Fields: fieldErrs}
	}

	if err := f.beginSubmission(PhaseFormEntry, PhaseFailed); err != nil {
		return err
	}

	res, err := f.provider.SignIn(ctx, form.Identifier, form.Password)
	if err != nil {
		f.fail(PhaseFormEntry, identity.ErrorMessage(err, genericErrMsg))
		return nil
	}
	if res.Status != identity.StatusComplete {
		f.fail(PhaseFormEntry, signInIncompleteMsg)
		return nil
	}

	f.complete(res.Session)
	return nil
}

// SubmitCode submits the emailed verification code. A rejected or incomplete
// verification keeps the flow in AwaitingVerification for another attempt; an
// accepted code activates the session and completes the flow.
func (f *Flow) SubmitCode(ctx context.Context, code string) error {
	f.mu.Lock()
	if f.phase == PhaseSubmitting || f.phase == PhaseVerifyingCode {
		f.mu.Unlock()
		return ErrSubmissionInFlight
	}
	if f.phase != PhaseAwaitingVerification {
		f.mu.Unlock()
		return ErrWrongPhase
	}
	f.phase = PhaseVerifyingCode
	f.lastError = ""
	pending := f.pending
	f.mu.Unlock()

	res, err := f.provider.AttemptVerification(ctx, pending, code)
	if err != nil {
		f.fail(PhaseAwaitingVerification, identity.ErrorMessage(err, invalidCodeFallbackMsg))
		return nil
	}
	if res.Status != identity.StatusComplete {
		f.fail(PhaseAwaitingVerification, verificationFailedMsg)
		return nil
	}

	f.complete(res.Session)
	return nil
}

// beginSubmission moves the flow into Submitting if the current phase is one
// of the allowed entry phases, clearing any previous error.
func (f *Flow) beginSubmission(allowed ...Phase) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.phase == PhaseSubmitting || f.phase == PhaseVerifyingCode {
		return ErrSubmissionInFlight
	}
	ok := false
	for _, p := range allowed {
		if f.phase == p {
			ok = true
			break
		}
	}
	if !ok {
		return ErrWrongPhase
	}

	f.phase = PhaseSubmitting
	f.lastError = ""
	return nil
}

// fail records a recoverable failure and moves the flow to the given phase.
func (f *Flow) fail(next Phase, msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.phase = next
	f.lastError = msg
}

// complete activates the session and terminates the flow.
func (f *Flow) complete(session *identity.Session) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.session = session
	f.pending = nil
	f.phase = PhaseComplete
}

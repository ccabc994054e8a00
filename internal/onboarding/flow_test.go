package onboarding

import (
	"context"
	"errors"
	"testing"

	"github.com/rahulkpr2510/droply/internal/identity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider implements identity.Provider with canned responses and call
// counters so tests can assert which provider operations ran.
type fakeProvider struct {
	createErr    error
	codeErr      error
	verifyResult *identity.Result
	verifyErr    error
	signInResult *identity.Result
	signInErr    error

	createCalls int
	codeCalls   int
	verifyCalls int
	signInCalls int
}

func (p *fakeProvider) CreateAccount(ctx context.Context, email, password string) (*identity.Pending, error) {
	p.createCalls++
	if p.createErr != nil {
		return nil, p.createErr
	}
	return &identity.Pending{UserID: "user-1", Email: email}, nil
}

func (p *fakeProvider) RequestEmailCode(ctx context.Context, pending *identity.Pending) error {
	p.codeCalls++
	return p.codeErr
}

func (p *fakeProvider) AttemptVerification(ctx context.Context, pending *identity.Pending, code string) (*identity.Result, error) {
	p.verifyCalls++
	if p.verifyErr != nil {
		return nil, p.verifyErr
	}
	return p.verifyResult, nil
}

func (p *fakeProvider) SignIn(ctx context.Context, identifier, password string) (*identity.Result, error) {
	p.signInCalls++
	if p.signInErr != nil {
		return nil, p.signInErr
	}
	return p.signInResult, nil
}

func completeResult() *identity.Result {
	return &identity.Result{
		Status: identity.StatusComplete,
		Session: &identity.Session{
			UserID:      "user-1",
			Email:       "user@example.com",
			AccessToken: "access",
		},
	}
}

func validSignUp() SignUpForm {
	return SignUpForm{
		Email:           "user@example.com",
		Password:        "Abcdef12",
		ConfirmPassword: "Abcdef12",
	}
}

func TestSignUpFlow_HappyPath(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{verifyResult: completeResult()}
	flow := NewFlow(provider)

	require.Equal(t, PhaseFormEntry, flow.Phase())

	require.NoError(t, flow.SubmitSignUp(context.Background(), validSignUp()))
	assert.Equal(t, PhaseAwaitingVerification, flow.Phase())
	assert.Empty(t, flow.LastError())
	assert.Equal(t, 1, provider.createCalls)
	assert.Equal(t, 1, provider.codeCalls, "email code must be requested in the same transition")
	require.NotNil(t, flow.Pending())

	require.NoError(t, flow.SubmitCode(context.Background(), "123456"))
	assert.Equal(t, PhaseComplete, flow.Phase())
	require.NotNil(t, flow.Session())
	assert.Equal(t, "user-1", flow.Session().UserID)
}

func TestSignUpFlow_ValidationMakesNoProviderCall(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{}
	flow := NewFlow(provider)

	err := flow.SubmitSignUp(context.Background(), SignUpForm{
		Email:           "user@example.com",
		Password:        "abc12345", // no uppercase
		ConfirmPassword: "abc12345",
	})

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.NotEmpty(t, vErr.Fields[FieldPassword])
	assert.Equal(t, PhaseFormEntry, flow.Phase())
	assert.Zero(t, provider.createCalls)
	assert.Zero(t, provider.codeCalls)
}

func TestSignUpFlow_ProviderRejectionSurfacesFirstMessage(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{
		createErr: &identity.Rejection{Messages: []string{
			"An account with this email already exists.",
			"second message",
		}},
	}
	flow := NewFlow(provider)

	require.NoError(t, flow.SubmitSignUp(context.Background(), validSignUp()))
	assert.Equal(t, PhaseFailed, flow.Phase())
	assert.Equal(t, "An account with this email already exists.", flow.LastError())

	// The user may retry from Failed; the error is cleared on re-submission.
	provider.createErr = nil
	require.NoError(t, flow.SubmitSignUp(context.Background(), validSignUp()))
	assert.Equal(t, PhaseAwaitingVerification, flow.Phase())
	assert.Empty(t, flow.LastError())
}

func TestSignUpFlow_UnstructuredErrorUsesGenericMessage(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{createErr: errors.New("connection reset")}
	flow := NewFlow(provider)

	require.NoError(t, flow.SubmitSignUp(context.Background(), validSignUp()))
	assert.Equal(t, PhaseFailed, flow.Phase())
	assert.Equal(t, "Something went wrong.", flow.LastError())
}

func TestSubmitCode_IncorrectCodeStaysInAwaitingVerification(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{
		verifyErr: &identity.Rejection{Messages: []string{"Incorrect verification code."}},
	}
	flow := NewVerificationFlow(provider, &identity.Pending{UserID: "user-1"})

	require.NoError(t, flow.SubmitCode(context.Background(), "000000"))
	assert.Equal(t, PhaseAwaitingVerification, flow.Phase())
	assert.Equal(t, "Incorrect verification code.", flow.LastError())
	assert.Nil(t, flow.Session())

	// A correct retry from the same state completes the flow.
	provider.verifyErr = nil
	provider.verifyResult = completeResult()
	require.NoError(t, flow.SubmitCode(context.Background(), "123456"))
	assert.Equal(t, PhaseComplete, flow.Phase())
	require.NotNil(t, flow.Session())
}

func TestSubmitCode_NonCompleteStatusIsRecoverable(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{verifyResult: &identity.Result{Status: "missing_requirements"}}
	flow := NewVerificationFlow(provider, &identity.Pending{UserID: "user-1"})

	require.NoError(t, flow.SubmitCode(context.Background(), "123456"))
	assert.Equal(t, PhaseAwaitingVerification, flow.Phase())
	assert.Equal(t, "Verification failed. Try again.", flow.LastError())
	assert.Nil(t, flow.Session())
}

func TestSubmitCode_WrongPhase(t *testing.T) {
	t.Parallel()

	flow := NewFlow(&fakeProvider{})
	err := flow.SubmitCode(context.Background(), "123456")
	assert.ErrorIs(t, err, ErrWrongPhase)
}

func TestSignIn_NonCompleteStatusLeavesFormEntry(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{
		signInResult: &identity.Result{Status: identity.StatusNeedsVerification},
	}
	flow := NewFlow(provider)

	require.NoError(t, flow.SubmitSignIn(context.Background(), SignInForm{
		Identifier: "user@example.com",
		Password:   "Abcdef12",
	}))

	assert.Equal(t, PhaseFormEntry, flow.Phase())
	assert.NotEmpty(t, flow.LastError())
	assert.Nil(t, flow.Session(), "no session may be activated on a non-complete status")
}

func TestSignIn_Complete(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{signInResult: completeResult()}
	flow := NewFlow(provider)

	require.NoError(t, flow.SubmitSignIn(context.Background(), SignInForm{
		Identifier: "user@example.com",
		Password:   "Abcdef12",
	}))

	assert.Equal(t, PhaseComplete, flow.Phase())
	require.NotNil(t, flow.Session())
	assert.Equal(t, "user-1", flow.Session().UserID)
}

func TestSignIn_RejectionSurfacesMessage(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{
		signInErr: &identity.Rejection{Messages: []string{"Invalid email or password."}},
	}
	flow := NewFlow(provider)

	require.NoError(t, flow.SubmitSignIn(context.Background(), SignInForm{
		Identifier: "user@example.com",
		Password:   "Abcdef12",
	}))

	assert.Equal(t, PhaseFormEntry, flow.Phase())
	assert.Equal(t, "Invalid email or password.", flow.LastError())
}

func TestFlow_CompletedFlowRejectsFurtherSubmissions(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{signInResult: completeResult()}
	flow := NewFlow(provider)

	require.NoError(t, flow.SubmitSignIn(context.Background(), SignInForm{
		Identifier: "user@example.com",
		Password:   "Abcdef12",
	}))
	require.Equal(t, PhaseComplete, flow.Phase())

	err := flow.SubmitSignIn(context.Background(), SignInForm{
		Identifier: "user@example.com",
		Password:   "Abcdef12",
	})
	assert.ErrorIs(t, err, ErrWrongPhase)
	assert.Equal(t, 1, provider.signInCalls)
}

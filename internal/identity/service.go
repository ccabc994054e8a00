package identity

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/rahulkpr2510/droply/internal/config"
	"github.com/rahulkpr2510/droply/internal/domain"
	"github.com/rahulkpr2510/droply/internal/platform/crypto"
	"github.com/rahulkpr2510/droply/internal/platform/email"
	"github.com/rahulkpr2510/droply/internal/store"

	"go.mongodb.org/mongo-driver/v2/bson"
)

const verificationCodeTTL = 10 * time.Minute

// Service is the in-repo implementation of the Provider interface, backed by
// the user store, bcrypt password hashing, and SMTP verification codes. A
// completed verification or sign-in issues the JWT pair that becomes the
// caller's session.
type Service struct {
	userStore store.UserStore
	cfg       config.Config
	tokenSvc  crypto.TokenGenerator
	passSvc   crypto.PasswordManager
	emailSvc  email.Sender
}

// NewService creates a new identity service.
func NewService(
	userStore store.UserStore,
	cfg config.Config,
	ts crypto.TokenGenerator,
	ps crypto.PasswordManager,
	es email.Sender,
) *Service {
	return &Service{
		userStore: userStore,
		cfg:       cfg,
		tokenSvc:  ts,
		passSvc:   ps,
		emailSvc:  es,
	}
}

// CreateAccount registers a new, unverified account.
func (s *Service) CreateAccount(ctx context.Context, emailAddr, password string) (*Pending, error) {
	if s.cfg.CreateAccountBlocked {
		return nil, &Rejection{Messages: []string{"Account creation is currently disabled."}}
	}

	// Check if user already exists
	if _, err := s.userStore.FindByEmail(ctx, emailAddr); !errors.Is(err, store.ErrNotFound) {
		if err == nil {
			return nil, &Rejection{Messages: []string{"An account with this email already exists."}}
		}
		return nil, err // Return other potential database errors
	}

	hashedPassword, err := s.passSvc.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		Email:        emailAddr,
		PasswordHash: hashedPassword,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userStore.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, &Rejection{Messages: []string{"An account with this email already exists."}}
		}
		return nil, err
	}

	return &Pending{UserID: user.ID.Hex(), Email: user.Email}, nil
}

// RequestEmailCode generates a fresh six-digit code, stores it with an
// expiry, and emails it to the pending account.
func (s *Service) RequestEmailCode(ctx context.Context, pending *Pending) error {
	user, err := s.findPendingUser(ctx, pending)
	if err != nil {
		return err
	}

	code, err := newVerificationCode()
	if err != nil {
		return fmt.Errorf("failed to generate verification code: %w", err)
	}

	expires := time.Now().Add(verificationCodeTTL)
	user.VerificationCode = code
	user.VerificationExpiresAt = &expires
	user.UpdatedAt = time.Now()

	if err := s.userStore.Update(ctx, user); err != nil {
		return err
	}

	if !s.cfg.Email.VerificationEnabled {
		return nil
	}
	if err := s.emailSvc.SendVerificationCode(user.Email, code); err != nil {
		return fmt.Errorf("failed to send verification email: %w", err)
	}
	return nil
}

// AttemptVerification checks the submitted code and, on success, marks the
// account verified and activates a session.
func (s *Service) AttemptVerification(ctx context.Context, pending *Pending, code string) (*Result, error) {
	user, err := s.findPendingUser(ctx, pending)
	if err != nil {
		return nil, err
	}

	if user.VerificationCode == "" || code != user.VerificationCode {
		return nil, &Rejection{Messages: []string{"Incorrect verification code."}}
	}
	if user.VerificationExpiresAt == nil || time.Now().After(*user.VerificationExpiresAt) {
		return nil, &Rejection{Messages: []string{"Verification code has expired. Request a new one."}}
	}

	user.EmailVerified = true
	user.VerificationCode = ""
	user.VerificationExpiresAt = nil
	user.UpdatedAt = time.Now()

	if err := s.userStore.Update(ctx, user); err != nil {
		return nil, err
	}

	session, err := s.newSession(user)
	if err != nil {
		return nil, err
	}
	return &Result{Status: StatusComplete, Session: session}, nil
}

// SignIn authenticates an existing account. An unverified account yields a
// non-complete status rather than an error.
func (s *Service) SignIn(ctx context.Context, identifier, password string) (*Result, error) {
	user, err := s.userStore.FindByEmail(ctx, identifier)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, &Rejection{Messages: []string{"Invalid email or password."}}
		}
		return nil, err
	}

	if err := s.passSvc.Compare(user.PasswordHash, password); err != nil {
		return nil, &Rejection{Messages: []string{"Invalid email or password."}}
	}

	if !user.EmailVerified {
		return &Result{Status: StatusNeedsVerification}, nil
	}

	session, err := s.newSession(user)
	if err != nil {
		return nil, err
	}
	return &Result{Status: StatusComplete, Session: session}, nil
}

// findPendingUser resolves the opaque pending handle back to a stored user.
func (s *Service) findPendingUser(ctx context.Context, pending *Pending) (*domain.User, error) {
	if pending == nil {
		return nil, errors.New("no pending verification target")
	}
	id, err := bson.ObjectIDFromHex(pending.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid pending user ID: %w", err)
	}
	return s.userStore.FindByID(ctx, id)
}

// newSession issues a JWT pair for the user.
func (s *Service) newSession(user *domain.User) (*Session, error) {
	accessToken, refreshToken, err := s.tokenSvc.NewPair(user)
	if err != nil {
		return nil, fmt.Errorf("failed to create token pair: %w", err)
	}
	return &Session{
		UserID:       user.ID.Hex(),
		Email:        user.Email,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// newVerificationCode returns a random six-digit numeric code.
func newVerificationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

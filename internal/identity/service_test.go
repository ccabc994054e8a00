package identity

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rahulkpr2510/droply/internal/config"
	"github.com/rahulkpr2510/droply/internal/domain"
	"github.com/rahulkpr2510/droply/internal/platform/crypto"
	"github.com/rahulkpr2510/droply/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"golang.org/x/crypto/bcrypt"
)

type memUserStore struct {
	mu   sync.Mutex
	byID map[string]*domain.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{byID: map[string]*domain.User{}}
}

func (s *memUserStore) Create(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.byID {
		if u.Email == user.Email {
			return store.ErrConflict
		}
	}
	user.ID = bson.NewObjectID()
	cp := *user
	s.byID[user.ID.Hex()] = &cp
	return nil
}

func (s *memUserStore) Update(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[user.ID.Hex()]; !ok {
		return store.ErrNotFound
	}
	cp := *user
	s.byID[user.ID.Hex()] = &cp
	return nil
}

func (s *memUserStore) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *memUserStore) FindByID(ctx context.Context, id bson.ObjectID) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[id.Hex()]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

type recordingSender struct {
	lastTo   string
	lastCode string
}

func (s *recordingSender) SendVerificationCode(to, code string) error {
	s.lastTo = to
	s.lastCode = code
	return nil
}

func newTestService(t *testing.T) (*Service, *memUserStore, *recordingSender) {
	t.Helper()

	cfg := config.Config{}
	cfg.Auth.AccessKeyTTL = 20 * time.Minute
	cfg.Auth.RefreshKeyTTL = time.Hour
	cfg.Email.VerificationEnabled = true

	users := newMemUserStore()
	sender := &recordingSender{}
	tokenSvc := crypto.NewJWTGenerator("access", "refresh", cfg.Auth.AccessKeyTTL, cfg.Auth.RefreshKeyTTL)
	passSvc := crypto.NewBcryptManager(bcrypt.MinCost)

	return NewService(users, cfg, tokenSvc, passSvc, sender), users, sender
}

func TestCreateAccount_DuplicateEmailRejection(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateAccount(ctx, "user@example.com", "Abcdef12")
	require.NoError(t, err)

	_, err = svc.CreateAccount(ctx, "user@example.com", "Abcdef12")
	var rej *Rejection
	require.ErrorAs(t, err, &rej)
	assert.Equal(t, "An account with this email already exists.", rej.Messages[0])
}

func TestCreateAccount_BlockedByConfig(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)
	svc.cfg.CreateAccountBlocked = true

	_, err := svc.CreateAccount(context.Background(), "user@example.com", "Abcdef12")
	var rej *Rejection
	require.ErrorAs(t, err, &rej)
}

func TestVerificationLifecycle(t *testing.T) {
	t.Parallel()

	svc, users, sender := newTestService(t)
	ctx := context.Background()

	pending, err := svc.CreateAccount(ctx, "user@example.com", "Abcdef12")
	require.NoError(t, err)

	require.NoError(t, svc.RequestEmailCode(ctx, pending))
	require.Len(t, sender.lastCode, 6)
	assert.Equal(t, "user@example.com", sender.lastTo)

	// A wrong code is a structured rejection and does not verify the account.
	_, err = svc.AttemptVerification(ctx, pending, "wrong!")
	var rej *Rejection
	require.ErrorAs(t, err, &rej)
	assert.Equal(t, "Incorrect verification code.", rej.Messages[0])

	res, err := svc.AttemptVerification(ctx, pending, sender.lastCode)
	require.NoError(t, err)
	assert.Equal(t, StatusComplete, res.Status)
	require.NotNil(t, res.Session)
	assert.Equal(t, pending.UserID, res.Session.UserID)
	assert.NotEmpty(t, res.Session.AccessToken)

	// The stored account is now verified and the code is cleared.
	id, err := bson.ObjectIDFromHex(pending.UserID)
	require.NoError(t, err)
	user, err := users.FindByID(ctx, id)
	require.NoError(t, err)
	assert.True(t, user.EmailVerified)
	assert.Empty(t, user.VerificationCode)
}

func TestAttemptVerification_ExpiredCode(t *testing.T) {
	t.Parallel()

	svc, users, sender := newTestService(t)
	ctx := context.Background()

	pending, err := svc.CreateAccount(ctx, "user@example.com", "Abcdef12")
	require.NoError(t, err)
	require.NoError(t, svc.RequestEmailCode(ctx, pending))

	// Age the stored code past its TTL.
	id, err := bson.ObjectIDFromHex(pending.UserID)
	require.NoError(t, err)
	user, err := users.FindByID(ctx, id)
	require.NoError(t, err)
	expired := time.Now().Add(-time.Minute)
	user.VerificationExpiresAt = &expired
	require.NoError(t, users.Update(ctx, user))

	_, err = svc.AttemptVerification(ctx, pending, sender.lastCode)
	var rej *Rejection
	require.ErrorAs(t, err, &rej)
	assert.Contains(t, rej.Messages[0], "expired")
}

func TestSignIn(t *testing.T) {
	t.Parallel()

	svc, _, sender := newTestService(t)
	ctx := context.Background()

	pending, err := svc.CreateAccount(ctx, "user@example.com", "Abcdef12")
	require.NoError(t, err)

	// Unverified accounts get a non-complete status, not an error.
	res, err := svc.SignIn(ctx, "user@example.com", "Abcdef12")
	require.NoError(t, err)
	assert.Equal(t, StatusNeedsVerification, res.Status)
	assert.Nil(t, res.Session)

	require.NoError(t, svc.RequestEmailCode(ctx, pending))
	_, err = svc.AttemptVerification(ctx, pending, sender.lastCode)
	require.NoError(t, err)

	// Wrong password and unknown email yield the same rejection message.
	_, err = svc.SignIn(ctx, "user@example.com", "Wrong1234")
	var rej *Rejection
	require.ErrorAs(t, err, &rej)
	assert.Equal(t, "Invalid email or password.", rej.Messages[0])

	_, err = svc.SignIn(ctx, "nobody@example.com", "Abcdef12")
	require.ErrorAs(t, err, &rej)
	assert.Equal(t, "Invalid email or password.", rej.Messages[0])

	res, err = svc.SignIn(ctx, "user@example.com", "Abcdef12")
	require.NoError(t, err)
	assert.Equal(t, StatusComplete, res.Status)
	require.NotNil(t, res.Session)
}

package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finchley/papertrade/internal/store"
	"github.com/finchley/papertrade/internal/store/storetest"
)

func newTestService(t *testing.T) (*Service, *store.Store) {
	t.Helper()
	db := storetest.New(t)
	return NewService(db, "test-secret", 30*time.Minute, 10000), db
}

var validReq = RegisterRequest{
	Email:    "trader@example.com",
	Username: "trader",
	Password: "correct horse",
	FullName: "Test Trader",
}

func TestRegister(t *testing.T) {
	svc, _ := newTestService(t)

	user, err := svc.Register(validReq)
	require.NoError(t, err)

	assert.Equal(t, "trader", user.Username)
	assert.Equal(t, 10000.0, user.Balance)
	assert.NotEqual(t, "correct horse", user.HashedPassword)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Register(validReq)
	require.NoError(t, err)

	dup := validReq
	dup.Username = "other"
	_, err = svc.Register(dup)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Register(validReq)
	require.NoError(t, err)

	dup := validReq
	dup.Email = "other@example.com"
	_, err = svc.Register(dup)
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestAuthenticate(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Register(validReq)
	require.NoError(t, err)

	user, err := svc.Authenticate("trader", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, "trader", user.Username)

	_, err = svc.Authenticate("trader", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate("nobody", "correct horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestTokenRoundTrip(t *testing.T) {
	svc, _ := newTestService(t)

	user, err := svc.Register(validReq)
	require.NoError(t, err)

	token, err := svc.CreateToken(user)
	require.NoError(t, err)

	loaded, err := svc.UserFromToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, loaded.ID)
}

func TestUserFromTokenRejectsBadTokens(t *testing.T) {
	svc, db := newTestService(t)

	_, err := svc.UserFromToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := NewService(db, "different-secret", 30*time.Minute, 10000)
	user, err := svc.Register(validReq)
	require.NoError(t, err)
	token, err := other.CreateToken(user)
	require.NoError(t, err)

	_, err = svc.UserFromToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExpiredToken(t *testing.T) {
	db := storetest.New(t)
	svc := NewService(db, "test-secret", -time.Minute, 10000)

	user, err := svc.Register(validReq)
	require.NoError(t, err)

	token, err := svc.CreateToken(user)
	require.NoError(t, err)

	_, err = svc.UserFromToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestDepositWithdraw(t *testing.T) {
	svc, db := newTestService(t)

	user, err := svc.Register(validReq)
	require.NoError(t, err)

	require.NoError(t, svc.Deposit(user, 500))
	assert.Equal(t, 10500.0, user.Balance)

	require.NoError(t, svc.Withdraw(user, 10000))
	assert.Equal(t, 500.0, user.Balance)

	fresh, err := db.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 500.0, fresh.Balance)
}

func TestDepositWithdrawValidation(t *testing.T) {
	svc, _ := newTestService(t)

	user, err := svc.Register(validReq)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Deposit(user, 0), ErrNonPositiveAmount)
	assert.ErrorIs(t, svc.Withdraw(user, -10), ErrNonPositiveAmount)
	assert.ErrorIs(t, svc.Withdraw(user, 10001), ErrInsufficientFunds)
	assert.Equal(t, 10000.0, user.Balance)
}

func TestBearerToken(t *testing.T) {
	token, ok := BearerToken("Bearer abc123")
	assert.True(t, ok)
	assert.Equal(t, "abc123", token)

	token, ok = BearerToken("bearer abc123")
	assert.True(t, ok)
	assert.Equal(t, "abc123", token)

	_, ok = BearerToken("Basic abc123")
	assert.False(t, ok)

	_, ok = BearerToken("")
	assert.False(t, ok)
}

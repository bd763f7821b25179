package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemoryStore(t *testing.T, ttl time.Duration) *Store {
	t.Helper()
	s := NewStore(context.Background(), "", "", 0, ttl)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCreateAndGet(t *testing.T) {
	s := newMemoryStore(t, time.Hour)
	ctx := context.Background()

	sess, err := s.Create(ctx, RoleCandidate)
	require.NoError(t, err)
	assert.NotEmpty(t, sess.Token)
	assert.Equal(t, RoleCandidate, sess.Role)
	assert.True(t, sess.ExpiresAt.After(sess.CreatedAt))

	got, err := s.Get(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, sess.Token, got.Token)
	assert.Equal(t, RoleCandidate, got.Role)
}

func TestCreateRejectsUnknownRole(t *testing.T) {
	s := newMemoryStore(t, time.Hour)

	_, err := s.Create(context.Background(), "observer")
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestGetUnknownToken(t *testing.T) {
	s := newMemoryStore(t, time.Hour)

	_, err := s.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestExpiredSession(t *testing.T) {
	s := newMemoryStore(t, -time.Minute)
	ctx := context.Background()

	sess, err := s.Create(ctx, RoleInterviewer)
	require.NoError(t, err)

	_, err = s.Get(ctx, sess.Token)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRevoke(t *testing.T) {
	s := newMemoryStore(t, time.Hour)
	ctx := context.Background()

	sess, err := s.Create(ctx, RoleCandidate)
	require.NoError(t, err)

	require.NoError(t, s.Revoke(ctx, sess.Token))
	_, err = s.Get(ctx, sess.Token)
	assert.ErrorIs(t, err, ErrNotFound)

	// Revoking again is a no-op.
	require.NoError(t, s.Revoke(ctx, sess.Token))
}

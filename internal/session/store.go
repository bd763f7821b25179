// Package session issues opaque interview-session tokens mapped to a role.
// Sessions live in Redis when it is configured and reachable; otherwise they
// fall back to a process-local map and do not survive a restart.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Roles a session token can carry.
const (
	RoleCandidate   = "candidate"
	RoleInterviewer = "interviewer"
)

var (
	ErrNotFound    = errors.New("session not found")
	ErrInvalidRole = errors.New(`role must be "candidate" or "interviewer"`)
)

// Session maps an opaque token to a role for its lifetime.
type Session struct {
	Token     string    `json:"token"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

type Store struct {
	redis *redis.Client
	ttl   time.Duration

	mu  sync.Mutex
	mem map[string]Session
}

// NewStore connects to Redis at addr; an empty addr or a failed ping falls
// back to the in-memory map.
func NewStore(ctx context.Context, addr, password string, db int, ttl time.Duration) *Store {
	s := &Store{ttl: ttl, mem: make(map[string]Session)}
	if addr == "" {
		return s
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		slog.Warn("Redis unavailable, sessions are in-memory only", "addr", addr, "error", err)
		return s
	}

	s.redis = client
	slog.Info("Session store connected to Redis", "addr", addr)
	return s
}

// Create issues a new session token for the role.
func (s *Store) Create(ctx context.Context, role string) (Session, error) {
	if role != RoleCandidate && role != RoleInterviewer {
		return Session{}, ErrInvalidRole
	}

	now := time.Now().UTC()
	sess := Session{
		Token:     uuid.NewString(),
		Role:      role,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	if s.redis != nil {
		data, err := json.Marshal(sess)
		if err != nil {
			return Session{}, fmt.Errorf("marshal session: %w", err)
		}
		if err := s.redis.Set(ctx, key(sess.Token), data, s.ttl).Err(); err != nil {
			return Session{}, fmt.Errorf("store session: %w", err)
		}
		return sess, nil
	}

	s.mu.Lock()
	s.mem[sess.Token] = sess
	s.mu.Unlock()
	return sess, nil
}

// Get resolves a token to its session. Expired sessions count as not found.
func (s *Store) Get(ctx context.Context, token string) (Session, error) {
	if s.redis != nil {
		data, err := s.redis.Get(ctx, key(token)).Bytes()
		if errors.Is(err, redis.Nil) {
			return Session{}, ErrNotFound
		}
		if err != nil {
			return Session{}, fmt.Errorf("get session: %w", err)
		}
		var sess Session
		if err := json.Unmarshal(data, &sess); err != nil {
			return Session{}, fmt.Errorf("decode session: %w", err)
		}
		return sess, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.mem[token]
	if !ok {
		return Session{}, ErrNotFound
	}
	if time.Now().After(sess.ExpiresAt) {
		delete(s.mem, token)
		return Session{}, ErrNotFound
	}
	return sess, nil
}

// Revoke deletes a session token. Revoking an unknown token is not an error.
func (s *Store) Revoke(ctx context.Context, token string) error {
	if s.redis != nil {
		if err := s.redis.Del(ctx, key(token)).Err(); err != nil {
			return fmt.Errorf("revoke session: %w", err)
		}
		return nil
	}

	s.mu.Lock()
	delete(s.mem, token)
	s.mu.Unlock()
	return nil
}

// Close releases the Redis connection if one is held.
func (s *Store) Close() error {
	if s.redis != nil {
		return s.redis.Close()
	}
	return nil
}

func key(token string) string {
	return "session:" + token
}

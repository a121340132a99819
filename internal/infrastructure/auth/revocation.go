package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationList answers whether a validated token was revoked before it expired.
// Entries are written by the identity service on logout or forced sign-out.
type RevocationList interface {
	IsRevoked(ctx context.Context, claims *Claims) (bool, error)
}

const revocationPrefix = "token:blacklist:"

// RedisRevocationList reads the revocation keys shared with the identity service:
// jti:<id> marks one token, user:<id> holds a unix time before which all of a
// user's tokens are void.
type RedisRevocationList struct {
	client *redis.Client
}

// NewRedisRevocationList wraps an existing client
func NewRedisRevocationList(client *redis.Client) *RedisRevocationList {
	return &RedisRevocationList{client: client}
}

// IsRevoked checks the token id first, then the user cut-off
func (r *RedisRevocationList) IsRevoked(ctx context.Context, claims *Claims) (bool, error) {
	if claims.ID != "" {
		n, err := r.client.Exists(ctx, revocationPrefix+"jti:"+claims.ID).Result()
		if err != nil {
			return false, fmt.Errorf("check token revocation: %w", err)
		}
		if n > 0 {
			return true, nil
		}
	}

	raw, err := r.client.Get(ctx, revocationPrefix+"user:"+claims.UserID).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check user revocation: %w", err)
	}
	cutoff, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return false, fmt.Errorf("parse user revocation time %q: %w", raw, err)
	}
	return issuedAt(claims).Unix() <= cutoff, nil
}

// Revoke marks a single token id for ttl
func (r *RedisRevocationList) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	return r.client.Set(ctx, revocationPrefix+"jti:"+jti, "1", ttl).Err()
}

// RevokeUser voids every token issued to userID up to now
func (r *RedisRevocationList) RevokeUser(ctx context.Context, userID string, ttl time.Duration) error {
	return r.client.Set(ctx, revocationPrefix+"user:"+userID, time.Now().Unix(), ttl).Err()
}

// MemoryRevocationList is a single-process RevocationList
type MemoryRevocationList struct {
	mu      sync.RWMutex
	tokens  map[string]time.Time
	cutoffs map[string]time.Time
}

// NewMemoryRevocationList creates an empty list
func NewMemoryRevocationList() *MemoryRevocationList {
	return &MemoryRevocationList{
		tokens:  make(map[string]time.Time),
		cutoffs: make(map[string]time.Time),
	}
}

// Revoke marks jti until ttl elapses
func (m *MemoryRevocationList) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[jti] = time.Now().Add(ttl)
	return nil
}

// RevokeUser voids every token issued to userID up to now
func (m *MemoryRevocationList) RevokeUser(_ context.Context, userID string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cutoffs[userID] = time.Now()
	return nil
}

// IsRevoked implements RevocationList
func (m *MemoryRevocationList) IsRevoked(_ context.Context, claims *Claims) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if until, ok := m.tokens[claims.ID]; ok && time.Now().Before(until) {
		return true, nil
	}
	cutoff, ok := m.cutoffs[claims.UserID]
	return ok && !issuedAt(claims).After(cutoff), nil
}

func issuedAt(claims *Claims) time.Time {
	if claims.IssuedAt == nil {
		return time.Time{}
	}
	return claims.IssuedAt.Time
}

var (
	_ RevocationList = (*RedisRevocationList)(nil)
	_ RevocationList = (*MemoryRevocationList)(nil)
)

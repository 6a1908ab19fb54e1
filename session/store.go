package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned by [Store.Load] when no persisted session exists
// for the tenant+client pair.
var ErrNotFound = errors.New("persisted session not found")

// ErrStoreUnavailable wraps Redis transport failures so callers can tell
// "absent" from "backend down".
var ErrStoreUnavailable = errors.New("session store unavailable")

// Store persists the most recent committed session so a cold-started client
// can restore it without a provider round-trip. One entry exists per
// tenant+client pair; it is overwritten on every commit and removed the
// moment the session is cleared.
type Store struct {
	redis  redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewStore creates a persisted session store. ttl bounds how long a stored
// session outlives the process that wrote it; it should match the refresh
// token lifetime.
func NewStore(client redis.UniversalClient, prefix string, ttl time.Duration) *Store {
	if prefix == "" {
		prefix = "sg"
	}
	return &Store{
		redis:  client,
		prefix: prefix,
		ttl:    ttl,
	}
}

func (s *Store) key(tenantID, clientID string) string {
	return fmt.Sprintf("%s:sess:%s:%s", s.prefix, tenantID, clientID)
}

// Save overwrites the persisted session for the tenant+client pair.
func (s *Store) Save(ctx context.Context, tenantID, clientID string, sess *Session) error {
	blob, err := encodeSession(sess)
	if err != nil {
		return err
	}

	if err := s.redis.Set(ctx, s.key(tenantID, clientID), blob, s.ttl).Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	return nil
}

// Load returns the persisted session, [ErrNotFound] when none exists, or
// [ErrCorrupt] when the blob fails to decode. Corrupt blobs are deleted so
// the next restoration attempt does not trip over them again.
func (s *Store) Load(ctx context.Context, tenantID, clientID string) (*Session, error) {
	blob, err := s.redis.Get(ctx, s.key(tenantID, clientID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	sess, err := decodeSession(blob)
	if err != nil {
		_ = s.redis.Del(ctx, s.key(tenantID, clientID)).Err()
		return nil, err
	}

	return sess, nil
}

// Delete removes the persisted session. Deleting an absent entry is a no-op.
func (s *Store) Delete(ctx context.Context, tenantID, clientID string) error {
	if err := s.redis.Del(ctx, s.key(tenantID, clientID)).Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return nil
}

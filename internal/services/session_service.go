// Package services – SessionService
//
// This file implements SessionService, the TTL store for in-flight request
// composition sessions (a member filling out a multi-step submission).
// Sessions are opaque payloads to this layer; expiry is enforced lazily on
// read and eagerly by a background sweeper so abandoned compositions do not
// accumulate.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tbourn/go-guild-backend/internal/domain"
	"github.com/tbourn/go-guild-backend/internal/repo"
)

// defaultSessionTTL applies when the service is constructed without an
// explicit TTL.
const defaultSessionTTL = 15 * time.Minute

// SessionService stores and expires composition sessions.
type SessionService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB

	// TTL is the session lifetime applied on every Put. Each write renews
	// the deadline. Zero or negative falls back to defaultSessionTTL.
	TTL time.Duration
}

// NewSessionService constructs a SessionService with the default TTL.
func NewSessionService(db *gorm.DB) *SessionService {
	return &SessionService{DB: db, TTL: defaultSessionTTL}
}

func (s *SessionService) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return defaultSessionTTL
}

// Put stores (or overwrites) the session under key, renewing its TTL.
// The payload is opaque; callers typically store serialized step state.
func (s *SessionService) Put(ctx context.Context, key, ownerID, data string) (*domain.Session, error) {
	if key == "" {
		return nil, &MissingFieldError{Field: "key"}
	}
	if ownerID == "" {
		return nil, &MissingFieldError{Field: "ownerId"}
	}
	return repo.PutSession(ctx, s.DB, key, ownerID, data, s.ttl())
}

// Get returns the payload stored under key. Expired and deleted sessions
// both yield ErrSessionNotFound; callers cannot tell them apart.
func (s *SessionService) Get(ctx context.Context, key string) (string, error) {
	sess, err := repo.GetSession(ctx, s.DB, key, time.Now().UTC())
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return "", ErrSessionNotFound
		}
		return "", err
	}
	return sess.Data, nil
}

// Delete removes the session under key. Deleting a missing or already
// expired session is a no-op.
func (s *SessionService) Delete(ctx context.Context, key string) error {
	return repo.DeleteSession(ctx, s.DB, key)
}

// HasActive reports whether ownerID has any live session.
func (s *SessionService) HasActive(ctx context.Context, ownerID string) (bool, error) {
	return repo.HasActiveSession(ctx, s.DB, ownerID, time.Now().UTC())
}

// Sweep removes every expired session row and returns how many were
// deleted.
func (s *SessionService) Sweep(ctx context.Context) (int64, error) {
	n, err := repo.SweepExpiredSessions(ctx, s.DB, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		sessionsSwept.Add(float64(n))
	}
	return n, nil
}

// StartSweeper runs Sweep on the given interval until ctx is cancelled.
// It returns immediately; the sweeper runs in its own goroutine. Errors are
// logged and do not stop the loop.
func (s *SessionService) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				n, err := s.Sweep(ctx)
				if err != nil {
					log.Error().Err(err).Msg("session sweep failed")
					continue
				}
				if n > 0 {
					log.Debug().Int64("removed", n).Msg("session sweep")
				}
			}
		}
	}()
}

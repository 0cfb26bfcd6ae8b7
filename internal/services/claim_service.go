// Package services – ClaimService
//
// This file implements ClaimService, which arbitrates which crafter gets an
// open request. The actual race is decided in the repository by a single
// guarded UPDATE; this service's job is to disambiguate a lost guard into
// the caller-facing error (taken vs missing vs wrong state) and to record
// the winning claim in the audit trail atomically.
package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-guild-backend/internal/domain"
	"github.com/tbourn/go-guild-backend/internal/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ClaimService implements claim and release of craft requests.
type ClaimService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB

	// Now supplies claim timestamps; tests may pin it. Nil means UTC now.
	Now func() time.Time
}

func (s *ClaimService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// Claim atomically assigns an open request to crafterID.
//
// Exactly one concurrent caller wins; the rest observe the request already
// taken. Outcomes:
//   - success: the request is claimed by crafterID and a "claimed" audit
//     entry is appended in the same transaction.
//   - ErrRequestNotFound: no such request.
//   - ErrAlreadyClaimed: another crafter holds the claim. The caller must
//     not retry automatically.
//   - InvalidTransitionError: the request is in a state that cannot be
//     claimed (in progress under someone else cleared, complete, denied).
func (s *ClaimService) Claim(ctx context.Context, requestID, crafterID, crafterName string) (*domain.CraftRequest, error) {
	tr := otel.Tracer("services/ClaimService")
	ctx, span := tr.Start(ctx, "Claim",
		trace.WithAttributes(
			attribute.String("request.id", requestID),
			attribute.String("crafter.id", crafterID),
		),
	)
	defer span.End()

	if crafterID == "" {
		return nil, &MissingFieldError{Field: "crafterId"}
	}

	var out *domain.CraftRequest
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repo.ClaimRequest(ctx, tx, requestID, crafterID, crafterName, s.now()); err != nil {
			if !errors.Is(err, repo.ErrStaleStatus) {
				return err
			}
			// The guard matched no rows. Look at the row (or its absence)
			// to tell the caller why.
			req, gerr := repo.GetRequest(ctx, tx, requestID)
			if gerr != nil {
				if errors.Is(gerr, repo.ErrNotFound) {
					return ErrRequestNotFound
				}
				return gerr
			}
			if domain.ActiveClaimStatus(req.Status) {
				return ErrAlreadyClaimed
			}
			return &InvalidTransitionError{From: req.Status, To: domain.StatusClaimed}
		}

		details := "claimed by " + crafterName
		if crafterName == "" {
			details = "claimed by " + crafterID
		}
		if _, err := repo.AppendAudit(ctx, tx, requestID, actionClaimed, crafterID, details); err != nil {
			return err
		}

		var err error
		out, err = repo.GetRequest(ctx, tx, requestID)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrAlreadyClaimed) {
			claimAttempts.WithLabelValues("lost").Inc()
		}
		return nil, err
	}

	claimAttempts.WithLabelValues("won").Inc()
	return out, nil
}

// Release returns a request held by crafterID to the open pool, clearing
// the claim fields and appending a "released" audit entry.
//
// Outcomes:
//   - ErrRequestNotFound: no such request.
//   - ErrNotClaimed: the request has no active claim, or the claim is held
//     by someone else.
func (s *ClaimService) Release(ctx context.Context, requestID, crafterID string) (*domain.CraftRequest, error) {
	tr := otel.Tracer("services/ClaimService")
	ctx, span := tr.Start(ctx, "Release",
		trace.WithAttributes(
			attribute.String("request.id", requestID),
			attribute.String("crafter.id", crafterID),
		),
	)
	defer span.End()

	var out *domain.CraftRequest
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repo.ReleaseRequest(ctx, tx, requestID, crafterID); err != nil {
			if !errors.Is(err, repo.ErrStaleStatus) {
				return err
			}
			if _, gerr := repo.GetRequest(ctx, tx, requestID); gerr != nil {
				if errors.Is(gerr, repo.ErrNotFound) {
					return ErrRequestNotFound
				}
				return gerr
			}
			// Row exists but the guard failed: not claimed, terminal, or
			// held by another crafter. All read the same to the caller.
			return ErrNotClaimed
		}

		if _, err := repo.AppendAudit(ctx, tx, requestID, actionReleased, crafterID, ""); err != nil {
			return err
		}

		var err error
		out, err = repo.GetRequest(ctx, tx, requestID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Package services – FulfillmentService
//
// This file implements FulfillmentService, which governs how a claiming
// crafter reports work: starting a claimed request and applying partial or
// full completions. Quantity math is clamped at the SQL level so concurrent
// reports can never push the completed counter past the requested total;
// this service enforces the holder check, decides when a partial report
// finishes the request, and writes the audit entry for every report.
package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/tbourn/go-guild-backend/internal/domain"
	"github.com/tbourn/go-guild-backend/internal/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// FulfillmentService implements the work-reporting use-cases for claimed
// craft requests.
type FulfillmentService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
}

// Start moves a claimed request to in_progress on behalf of its holder.
//
// Outcomes:
//   - ErrRequestNotFound: no such request.
//   - ErrNotClaimed: crafterID does not hold the claim.
//   - InvalidTransitionError: the request is not in the claimed status.
func (s *FulfillmentService) Start(ctx context.Context, requestID, crafterID string) (*domain.CraftRequest, error) {
	tr := otel.Tracer("services/FulfillmentService")
	ctx, span := tr.Start(ctx, "Start",
		trace.WithAttributes(attribute.String("request.id", requestID)),
	)
	defer span.End()

	var out *domain.CraftRequest
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		req, err := s.heldBy(ctx, tx, requestID, crafterID)
		if err != nil {
			return err
		}
		if req.Status != domain.StatusClaimed {
			return &InvalidTransitionError{From: req.Status, To: domain.StatusInProgress}
		}
		if err := repo.TransitionStatus(ctx, tx, requestID, domain.StatusClaimed, domain.StatusInProgress, ""); err != nil {
			if errors.Is(err, repo.ErrStaleStatus) {
				return &InvalidTransitionError{From: req.Status, To: domain.StatusInProgress}
			}
			return err
		}
		if _, err := repo.AppendAudit(ctx, tx, requestID, actionStarted, crafterID, ""); err != nil {
			return err
		}
		out, err = repo.GetRequest(ctx, tx, requestID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ApplyCompletion records crafted quantity on an in-progress request held by
// crafterID. amount == nil reports the remainder in one go (full
// completion); a non-nil amount reports that many items.
//
// Semantics:
//   - The request must be in_progress and held by crafterID.
//   - amount must be >= 1 when present; otherwise ErrInvalidAmount.
//   - The applied delta is clamped so the running total never exceeds the
//     requested quantity. Over-reporting is tolerated, not an error.
//   - When the running total reaches the requested quantity the request
//     flips to complete and the claim fields are cleared.
//   - Every call appends exactly one audit entry recording the applied
//     delta and the new running total.
func (s *FulfillmentService) ApplyCompletion(ctx context.Context, requestID, crafterID string, amount *int) (*domain.CraftRequest, error) {
	tr := otel.Tracer("services/FulfillmentService")
	ctx, span := tr.Start(ctx, "ApplyCompletion",
		trace.WithAttributes(attribute.String("request.id", requestID)),
	)
	defer span.End()

	if amount != nil && *amount < 1 {
		return nil, ErrInvalidAmount
	}

	var out *domain.CraftRequest
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		req, err := s.heldBy(ctx, tx, requestID, crafterID)
		if err != nil {
			return err
		}
		if req.Status != domain.StatusInProgress {
			return &InvalidTransitionError{From: req.Status, To: domain.StatusComplete}
		}

		if amount == nil {
			// Full completion: snap to the requested total.
			delta := req.QuantityRequested - req.QuantityCompleted
			if err := repo.CompleteRequest(ctx, tx, requestID); err != nil {
				if errors.Is(err, repo.ErrStaleStatus) {
					return &InvalidTransitionError{From: req.Status, To: domain.StatusComplete}
				}
				return err
			}
			details := fmt.Sprintf("+%d (%d/%d)", delta, req.QuantityRequested, req.QuantityRequested)
			if _, err := repo.AppendAudit(ctx, tx, requestID, actionCompleted, crafterID, details); err != nil {
				return err
			}
		} else {
			if err := repo.AddCompletion(ctx, tx, requestID, *amount); err != nil {
				if errors.Is(err, repo.ErrStaleStatus) {
					return &InvalidTransitionError{From: req.Status, To: domain.StatusComplete}
				}
				return err
			}
			fresh, err := repo.GetRequest(ctx, tx, requestID)
			if err != nil {
				return err
			}
			delta := fresh.QuantityCompleted - req.QuantityCompleted
			action := actionProgress
			if fresh.QuantityCompleted >= fresh.QuantityRequested {
				// The clamped total reached the goal; finish in the same
				// transaction so no one observes a full but in-progress row
				// after commit.
				if err := repo.CompleteRequest(ctx, tx, requestID); err != nil {
					return err
				}
				action = actionCompleted
			}
			details := fmt.Sprintf("+%d (%d/%d)", delta, fresh.QuantityCompleted, fresh.QuantityRequested)
			if _, err := repo.AppendAudit(ctx, tx, requestID, action, crafterID, details); err != nil {
				return err
			}
		}

		out, err = repo.GetRequest(ctx, tx, requestID)
		return err
	})
	if err != nil {
		return nil, err
	}

	completionsApplied.Inc()
	return out, nil
}

// heldBy loads a request and verifies crafterID holds its claim.
func (s *FulfillmentService) heldBy(ctx context.Context, tx *gorm.DB, requestID, crafterID string) (*domain.CraftRequest, error) {
	req, err := repo.GetRequest(ctx, tx, requestID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	if req.ClaimedBy == nil || *req.ClaimedBy != crafterID {
		return nil, ErrNotClaimed
	}
	return req, nil
}

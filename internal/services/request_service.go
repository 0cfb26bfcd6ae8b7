// Package services – RequestService
//
// This file implements RequestService, the application-level component that
// owns the lifecycle of craft requests. It validates submissions, applies the
// duplicate-submission guard, coordinates status transitions against the
// allowed edge table, and records every state change in the request's audit
// trail inside the same transaction as the mutation itself.
//
// Service-level errors (ErrRequestNotFound, ErrDuplicateSubmission,
// InvalidTransitionError, ...) are returned for predictable cases so handlers
// can map them to HTTP results consistently.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-guild-backend/internal/domain"
	"github.com/tbourn/go-guild-backend/internal/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Audit trail actions. These are the only values ever written to
// audit_entries.action; keep them stable, dashboards group by them.
const (
	actionCreated   = "created"
	actionClaimed   = "claimed"
	actionReleased  = "released"
	actionStarted   = "started"
	actionProgress  = "progress"
	actionCompleted = "completed"
	actionDenied    = "denied"
	actionForced    = "status_forced"
)

// defaultDuplicateWindow is how long a near-identical resubmission is
// suppressed when the service is constructed without an explicit window.
const defaultDuplicateWindow = 5 * time.Second

// CreateRequestInput carries the fields of a new craft request submission.
type CreateRequestInput struct {
	RequesterID           string
	CharacterName         string
	Profession            string
	GearSlot              string
	ItemID                string
	ItemLabel             string
	QuantityRequested     int
	MaterialsRequired     domain.MaterialList
	MaterialsProvided     domain.MaterialList
	RequesterProvidesMats bool
}

// RequestService coordinates craft request creation, lookup, and the
// non-claim status transitions (start, deny, complete, release-to-pool).
type RequestService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB

	// DuplicateWindow is the suppression window for near-identical
	// resubmissions. Zero or negative falls back to defaultDuplicateWindow.
	DuplicateWindow time.Duration
}

// NewRequestService constructs a RequestService with the default duplicate
// suppression window.
func NewRequestService(db *gorm.DB) *RequestService {
	return &RequestService{DB: db, DuplicateWindow: defaultDuplicateWindow}
}

// Create validates and persists a new craft request.
//
// Semantics and validation:
//   - RequesterID, CharacterName, Profession, GearSlot, and ItemID are
//     required; a blank one yields a MissingFieldError naming the field.
//   - The character must already be registered by the requester; otherwise
//     ErrCharacterNotFound.
//   - QuantityRequested below 1 is normalized to 1.
//   - ItemLabel defaults to ItemID when blank.
//   - A request identical in (requester, character, profession, gear slot,
//     item) submitted within the duplicate window yields
//     ErrDuplicateSubmission and persists nothing.
//
// The insert and the initial "created" audit entry are written in one
// transaction, so a request without a trail can never be observed.
func (s *RequestService) Create(ctx context.Context, in CreateRequestInput) (*domain.CraftRequest, error) {
	tr := otel.Tracer("services/RequestService")
	ctx, span := tr.Start(ctx, "Create",
		trace.WithAttributes(
			attribute.String("requester.id", in.RequesterID),
			attribute.String("profession", in.Profession),
		),
	)
	defer span.End()

	in.RequesterID = strings.TrimSpace(in.RequesterID)
	in.CharacterName = strings.TrimSpace(in.CharacterName)
	in.Profession = strings.TrimSpace(in.Profession)
	in.GearSlot = strings.TrimSpace(in.GearSlot)
	in.ItemID = strings.TrimSpace(in.ItemID)
	in.ItemLabel = strings.TrimSpace(in.ItemLabel)

	for _, f := range []struct{ name, value string }{
		{"requesterId", in.RequesterID},
		{"characterName", in.CharacterName},
		{"profession", in.Profession},
		{"gearSlot", in.GearSlot},
		{"itemId", in.ItemID},
	} {
		if f.value == "" {
			return nil, &MissingFieldError{Field: f.name}
		}
	}
	if in.QuantityRequested < 1 {
		in.QuantityRequested = 1
	}
	if in.ItemLabel == "" {
		in.ItemLabel = in.ItemID
	}

	// The request must reference a character the requester actually owns.
	if _, err := repo.GetCharacterByName(ctx, s.DB, in.RequesterID, in.CharacterName); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrCharacterNotFound
		}
		return nil, err
	}

	window := s.DuplicateWindow
	if window <= 0 {
		window = defaultDuplicateWindow
	}

	var created *domain.CraftRequest
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		since := time.Now().UTC().Add(-window)
		n, err := repo.CountRecentDuplicates(ctx, tx, in.RequesterID, in.CharacterName, in.Profession, in.GearSlot, in.ItemID, since)
		if err != nil {
			return err
		}
		if n > 0 {
			return ErrDuplicateSubmission
		}

		req := &domain.CraftRequest{
			RequesterID:           in.RequesterID,
			CharacterName:         in.CharacterName,
			Profession:            in.Profession,
			GearSlot:              in.GearSlot,
			ItemID:                in.ItemID,
			ItemLabel:             in.ItemLabel,
			QuantityRequested:     in.QuantityRequested,
			MaterialsRequired:     in.MaterialsRequired,
			MaterialsProvided:     in.MaterialsProvided,
			RequesterProvidesMats: in.RequesterProvidesMats,
		}
		if _, err := repo.CreateRequest(ctx, tx, req); err != nil {
			return err
		}
		details := fmt.Sprintf("%s x%d for %s", req.ItemLabel, req.QuantityRequested, req.CharacterName)
		if _, err := repo.AppendAudit(ctx, tx, req.ID, actionCreated, in.RequesterID, details); err != nil {
			return err
		}
		created = req
		return nil
	})
	if err != nil {
		return nil, err
	}

	requestsCreated.WithLabelValues(created.Profession).Inc()
	return created, nil
}

// Get fetches a request by ID including its audit trail in insertion order.
func (s *RequestService) Get(ctx context.Context, id string) (*domain.CraftRequest, error) {
	req, err := repo.GetRequest(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	return req, nil
}

// ListByRequester returns the requester's submissions, newest first,
// optionally filtered by status. Unknown status values are rejected.
func (s *RequestService) ListByRequester(ctx context.Context, requesterID string, statuses []string, limit int) ([]domain.CraftRequest, error) {
	if err := validateStatuses(statuses); err != nil {
		return nil, err
	}
	return repo.ListRequestsByRequester(ctx, s.DB, requesterID, statuses, limit)
}

// ListByProfession returns the work board for a profession, oldest first,
// optionally filtered by status. Unknown status values are rejected.
func (s *RequestService) ListByProfession(ctx context.Context, profession string, statuses []string) ([]domain.CraftRequest, error) {
	if err := validateStatuses(statuses); err != nil {
		return nil, err
	}
	return repo.ListRequestsByProfession(ctx, s.DB, profession, statuses)
}

// ListClaimedBy returns the requests a crafter currently holds.
func (s *RequestService) ListClaimedBy(ctx context.Context, crafterID string) ([]domain.CraftRequest, error) {
	return repo.ListRequestsClaimedBy(ctx, s.DB, crafterID)
}

// Audit returns the full audit trail for a request in insertion order.
func (s *RequestService) Audit(ctx context.Context, requestID string) ([]domain.AuditEntry, error) {
	entries, err := repo.ListAudit(ctx, s.DB, requestID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	return entries, nil
}

// Transition moves a request along an allowed status edge on behalf of
// actorID and appends the matching audit entry atomically.
//
// Semantics:
//   - to must be a known status; otherwise ErrUnknownStatus.
//   - to == "claimed" is rejected with InvalidTransitionError: claims carry
//     a claimant identity and go through ClaimService.Claim.
//   - Edges not in the transition table yield InvalidTransitionError with
//     both endpoints.
//   - Entering "complete" snaps quantity_completed to the requested total.
//   - denyReason is persisted only when entering "denied"; it may be empty.
func (s *RequestService) Transition(ctx context.Context, id, actorID, to, denyReason string) (*domain.CraftRequest, error) {
	tr := otel.Tracer("services/RequestService")
	ctx, span := tr.Start(ctx, "Transition",
		trace.WithAttributes(
			attribute.String("request.id", id),
			attribute.String("status.to", to),
		),
	)
	defer span.End()

	if !domain.ValidStatus(to) {
		return nil, ErrUnknownStatus
	}

	var out *domain.CraftRequest
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		req, err := repo.GetRequest(ctx, tx, id)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrRequestNotFound
			}
			return err
		}
		if to == domain.StatusClaimed {
			return &InvalidTransitionError{From: req.Status, To: to}
		}
		if !domain.CanTransition(req.Status, to) {
			return &InvalidTransitionError{From: req.Status, To: to}
		}

		reason := ""
		if to == domain.StatusDenied {
			reason = denyReason
		}
		if to == domain.StatusComplete {
			err = repo.CompleteRequest(ctx, tx, id)
		} else {
			err = repo.TransitionStatus(ctx, tx, id, req.Status, to, reason)
		}
		if err != nil {
			if errors.Is(err, repo.ErrStaleStatus) {
				return &InvalidTransitionError{From: req.Status, To: to}
			}
			return err
		}

		if _, err := repo.AppendAudit(ctx, tx, id, auditActionFor(to), actorID, reason); err != nil {
			return err
		}

		out, err = repo.GetRequest(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Deny moves a request to the denied status with a reason. Any non-terminal
// status may be denied.
func (s *RequestService) Deny(ctx context.Context, id, actorID, reason string) (*domain.CraftRequest, error) {
	return s.Transition(ctx, id, actorID, domain.StatusDenied, reason)
}

// ForceStatus overwrites a request's status, bypassing the edge table.
// This is the administrative escape hatch for stuck requests; the override
// is recorded in the audit trail with both endpoints. Unknown status values
// are still rejected, and so are "claimed" and "in_progress": those statuses
// carry a claimant, which an override has none of, so forcing them would
// leave a claimed request with no one holding the claim. Claims go through
// ClaimService.Claim.
func (s *RequestService) ForceStatus(ctx context.Context, id, actorID, to, denyReason string) (*domain.CraftRequest, error) {
	if !domain.ValidStatus(to) {
		return nil, ErrUnknownStatus
	}

	var out *domain.CraftRequest
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		req, err := repo.GetRequest(ctx, tx, id)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrRequestNotFound
			}
			return err
		}
		if domain.ActiveClaimStatus(to) {
			return &InvalidTransitionError{From: req.Status, To: to}
		}

		reason := ""
		if to == domain.StatusDenied {
			reason = denyReason
		}
		if err := repo.ForceStatus(ctx, tx, id, to, reason); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrRequestNotFound
			}
			return err
		}

		details := fmt.Sprintf("%s -> %s", req.Status, to)
		if _, err := repo.AppendAudit(ctx, tx, id, actionForced, actorID, details); err != nil {
			return err
		}

		out, err = repo.GetRequest(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// auditActionFor maps a transition target to its audit trail action.
func auditActionFor(to string) string {
	switch to {
	case domain.StatusInProgress:
		return actionStarted
	case domain.StatusComplete:
		return actionCompleted
	case domain.StatusDenied:
		return actionDenied
	case domain.StatusOpen:
		return actionReleased
	default:
		return actionForced
	}
}

// validateStatuses rejects filters containing values outside the fixed
// status vocabulary. Legacy or misspelled values are never remapped.
func validateStatuses(statuses []string) error {
	for _, st := range statuses {
		if !domain.ValidStatus(st) {
			return ErrUnknownStatus
		}
	}
	return nil
}

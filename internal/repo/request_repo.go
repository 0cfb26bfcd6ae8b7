// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// CraftRequest model, including the atomic conditional updates that back
// claim arbitration and status transitions.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a request is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - Conditional updates (ClaimRequest, ReleaseRequest, TransitionStatus,
//     AddCompletion, CompleteRequest) return ErrStaleStatus when zero rows
//     matched the status guard. The caller decides whether that means a lost
//     claim race, an illegal transition, or a missing row.
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
//
// The guard-on-current-status UPDATE shape is deliberate: a read-then-write
// claim is a race that lets two crafters both observe "open" and both
// succeed. Every mutation here is a single UPDATE whose WHERE clause pins
// the expected current state and whose RowsAffected is checked.
package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-guild-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// ErrStaleStatus is returned by conditional updates when the row no longer
// matches the expected status (lost race, illegal edge, or missing row).
var ErrStaleStatus = errors.New("status guard matched no rows")

// CreateRequest inserts a new CraftRequest row. The request ID is a randomly
// generated UUID (string) unless pre-set, the initial status is "open", and
// CreatedAt is set to UTC.
//
// On success, it returns the persisted request. On failure, it returns a DB error.
func CreateRequest(ctx context.Context, db *gorm.DB, req *domain.CraftRequest) (*domain.CraftRequest, error) {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	req.Status = domain.StatusOpen
	req.QuantityCompleted = 0
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now().UTC()
	}
	if err := db.WithContext(ctx).Create(req).Error; err != nil {
		return nil, err
	}
	return req, nil
}

// GetRequest fetches a single request by ID including its audit trail in
// insertion order. Returns ErrNotFound if the row does not exist.
func GetRequest(ctx context.Context, db *gorm.DB, id string) (*domain.CraftRequest, error) {
	var r domain.CraftRequest
	err := db.WithContext(ctx).
		Preload("AuditTrail", func(tx *gorm.DB) *gorm.DB { return tx.Order("id ASC") }).
		Where("id = ?", id).
		First(&r).Error
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// ListRequestsByRequester returns requests submitted by requesterID, newest
// first, optionally filtered to the given statuses and capped at limit
// (limit <= 0 means no cap).
func ListRequestsByRequester(ctx context.Context, db *gorm.DB, requesterID string, statuses []string, limit int) ([]domain.CraftRequest, error) {
	var out []domain.CraftRequest
	q := db.WithContext(ctx).
		Where("requester_id = ?", requesterID).
		Order("created_at desc")
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&out).Error
	return out, err
}

// ListRequestsByProfession returns requests for a profession, oldest first
// (crafters work the board in submission order), optionally filtered to the
// given statuses.
func ListRequestsByProfession(ctx context.Context, db *gorm.DB, profession string, statuses []string) ([]domain.CraftRequest, error) {
	var out []domain.CraftRequest
	q := db.WithContext(ctx).
		Where("profession = ?", profession).
		Order("created_at asc, id asc")
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}
	err := q.Find(&out).Error
	return out, err
}

// ListRequestsClaimedBy returns the requests currently claimed by crafterID
// (status claimed or in_progress), oldest claim first.
func ListRequestsClaimedBy(ctx context.Context, db *gorm.DB, crafterID string) ([]domain.CraftRequest, error) {
	var out []domain.CraftRequest
	err := db.WithContext(ctx).
		Where("claimed_by = ? AND status IN ?", crafterID, []string{domain.StatusClaimed, domain.StatusInProgress}).
		Order("claimed_at asc").
		Find(&out).Error
	return out, err
}

// ListActiveRequestsForCharacter returns every non-terminal request that
// references the given (requesterID, characterName) pair. Used by the
// character-deletion cascade.
func ListActiveRequestsForCharacter(ctx context.Context, db *gorm.DB, requesterID, characterName string) ([]domain.CraftRequest, error) {
	var out []domain.CraftRequest
	err := db.WithContext(ctx).
		Where("requester_id = ? AND character_name = ? AND status IN ?",
			requesterID, characterName,
			[]string{domain.StatusOpen, domain.StatusClaimed, domain.StatusInProgress}).
		Order("created_at asc").
		Find(&out).Error
	return out, err
}

// CountRecentDuplicates counts requests identical in
// (requester, character, profession, gear slot, item) created at or after
// since. The duplicate guard treats any count > 0 as a double-submit.
func CountRecentDuplicates(ctx context.Context, db *gorm.DB, requesterID, characterName, profession, gearSlot, itemID string, since time.Time) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.CraftRequest{}).
		Where("requester_id = ? AND character_name = ? AND profession = ? AND gear_slot = ? AND item_id = ? AND created_at >= ?",
			requesterID, characterName, profession, gearSlot, itemID, since).
		Count(&total).Error
	return total, err
}

// ClaimRequest atomically assigns an open request to a crafter: a single
// UPDATE guarded on status = 'open'. Exactly one concurrent caller can win;
// all others get ErrStaleStatus because the guard no longer matches.
func ClaimRequest(ctx context.Context, db *gorm.DB, id, crafterID, crafterName string, now time.Time) error {
	res := db.WithContext(ctx).
		Model(&domain.CraftRequest{}).
		Where("id = ? AND status = ?", id, domain.StatusOpen).
		Updates(map[string]any{
			"status":          domain.StatusClaimed,
			"claimed_by":      crafterID,
			"claimed_by_name": crafterName,
			"claimed_at":      now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleStatus
	}
	return nil
}

// ReleaseRequest reverts a claimed or in-progress request held by crafterID
// back to the open pool, clearing the claim fields in the same guarded
// UPDATE. Pass crafterID == "" to release regardless of holder.
func ReleaseRequest(ctx context.Context, db *gorm.DB, id, crafterID string) error {
	q := db.WithContext(ctx).
		Model(&domain.CraftRequest{}).
		Where("id = ? AND status IN ?", id, []string{domain.StatusClaimed, domain.StatusInProgress})
	if crafterID != "" {
		q = q.Where("claimed_by = ?", crafterID)
	}
	res := q.Updates(map[string]any{
		"status":          domain.StatusOpen,
		"claimed_by":      nil,
		"claimed_by_name": "",
		"claimed_at":      nil,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleStatus
	}
	return nil
}

// TransitionStatus moves a request from exactly `from` to `to` in one guarded
// UPDATE. Entering a terminal status (or open) clears the claim fields so the
// claimed_by <-> status invariant holds; denial reasons ride along via
// denyReason (ignored when empty).
//
// The caller is responsible for validating the edge against
// domain.CanTransition before calling; this function only guarantees the
// write is atomic with respect to the observed `from`.
func TransitionStatus(ctx context.Context, db *gorm.DB, id, from, to, denyReason string) error {
	updates := map[string]any{"status": to}
	if !domain.ActiveClaimStatus(to) {
		updates["claimed_by"] = nil
		updates["claimed_by_name"] = ""
		updates["claimed_at"] = nil
	}
	if denyReason != "" {
		updates["deny_reason"] = denyReason
	}
	res := db.WithContext(ctx).
		Model(&domain.CraftRequest{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleStatus
	}
	return nil
}

// ForceStatus overwrites the status unconditionally (administrative
// override). Claim fields are still cleared when the new status carries no
// claim. Returns ErrNotFound when the row does not exist.
func ForceStatus(ctx context.Context, db *gorm.DB, id, to, denyReason string) error {
	updates := map[string]any{"status": to}
	if !domain.ActiveClaimStatus(to) {
		updates["claimed_by"] = nil
		updates["claimed_by_name"] = ""
		updates["claimed_at"] = nil
	}
	if denyReason != "" {
		updates["deny_reason"] = denyReason
	}
	res := db.WithContext(ctx).
		Model(&domain.CraftRequest{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// AddCompletion adds k to quantity_completed, clamped to
// quantity_requested, guarded on status = 'in_progress'. The clamp happens
// inside the UPDATE expression so concurrent reporters can never push the
// counter past the requested total.
func AddCompletion(ctx context.Context, db *gorm.DB, id string, k int) error {
	res := db.WithContext(ctx).
		Model(&domain.CraftRequest{}).
		Where("id = ? AND status = ?", id, domain.StatusInProgress).
		Update("quantity_completed", gorm.Expr("MIN(quantity_requested, quantity_completed + ?)", k))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleStatus
	}
	return nil
}

// CompleteRequest marks an in-progress request fully complete in one guarded
// UPDATE: quantity snapped to the requested total, status set to complete,
// claim fields cleared.
func CompleteRequest(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).
		Model(&domain.CraftRequest{}).
		Where("id = ? AND status = ?", id, domain.StatusInProgress).
		Updates(map[string]any{
			"quantity_completed": gorm.Expr("quantity_requested"),
			"status":             domain.StatusComplete,
			"claimed_by":         nil,
			"claimed_by_name":    "",
			"claimed_at":         nil,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleStatus
	}
	return nil
}

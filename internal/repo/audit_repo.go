// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the append-only
// AuditEntry model.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-guild-backend/internal/domain"
)

// AppendAudit inserts one audit entry for requestID. It verifies the request
// exists first so a typo'd id surfaces as ErrNotFound instead of a dangling
// row. Entries are never updated or deleted afterwards; the auto-increment
// primary key preserves insertion order.
//
// Callers append only after their own mutation has succeeded, so an entry is
// always the record of a committed change. Run this inside the same
// transaction as the mutation to keep the two atomic.
func AppendAudit(ctx context.Context, db *gorm.DB, requestID, action, actorID, details string) (*domain.AuditEntry, error) {
	var exists int64
	if err := db.WithContext(ctx).
		Model(&domain.CraftRequest{}).
		Where("id = ?", requestID).
		Count(&exists).Error; err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, ErrNotFound
	}

	e := &domain.AuditEntry{
		RequestID: requestID,
		Action:    action,
		ActorID:   actorID,
		Details:   details,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(e).Error; err != nil {
		return nil, err
	}
	return e, nil
}

// ListAudit returns the full audit trail of a request in insertion order.
// Returns ErrNotFound when the request itself does not exist (an existing
// request always has at least its "created" entry).
func ListAudit(ctx context.Context, db *gorm.DB, requestID string) ([]domain.AuditEntry, error) {
	var exists int64
	if err := db.WithContext(ctx).
		Model(&domain.CraftRequest{}).
		Where("id = ?", requestID).
		Count(&exists).Error; err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, ErrNotFound
	}

	var out []domain.AuditEntry
	err := db.WithContext(ctx).
		Where("request_id = ?", requestID).
		Order("id ASC").
		Find(&out).Error
	return out, err
}

// CountAudit returns the number of audit entries for a request. Raw COUNT so
// a missing table surfaces as an error instead of zero.
func CountAudit(db *gorm.DB, requestID string) (int64, error) {
	var total int64
	err := db.Raw("SELECT COUNT(*) FROM audit_entries WHERE request_id = ?", requestID).Scan(&total).Error
	return total, err
}

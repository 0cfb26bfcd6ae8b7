// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository helpers for the Session
// model used by multi-step request-composition flows.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-guild-backend/internal/domain"
)

// PutSession creates or overwrites the session stored under key. Each step
// of a composition flow calls this with the full updated payload, so an
// upsert keeps the row current without a prior read.
func PutSession(ctx context.Context, db *gorm.DB, key, ownerID, data string, ttl time.Duration) (*domain.Session, error) {
	now := time.Now().UTC()
	s := &domain.Session{
		Key:       key,
		OwnerID:   ownerID,
		Data:      data,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	err := db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"owner_id", "data", "expires_at"}),
		}).
		Create(s).Error
	if err != nil {
		return nil, err
	}
	return s, nil
}

// GetSession returns a non-expired session or ErrNotFound. Expired rows are
// indistinguishable from deleted ones: callers get ErrNotFound either way,
// whether or not the sweep has physically removed the row yet.
func GetSession(ctx context.Context, db *gorm.DB, key string, now time.Time) (*domain.Session, error) {
	var s domain.Session
	err := db.WithContext(ctx).
		Where("key = ? AND expires_at > ?", key, now).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// DeleteSession removes the session under key. Deleting a missing key is not
// an error; completion and cancellation paths both call this blindly.
func DeleteSession(ctx context.Context, db *gorm.DB, key string) error {
	return db.WithContext(ctx).
		Where("key = ?", key).
		Delete(&domain.Session{}).Error
}

// HasActiveSession reports whether ownerID has any non-expired session.
func HasActiveSession(ctx context.Context, db *gorm.DB, ownerID string, now time.Time) (bool, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Session{}).
		Where("owner_id = ? AND expires_at > ?", ownerID, now).
		Count(&total).Error
	return total > 0, err
}

// SweepExpiredSessions deletes every session whose expiry has passed and
// returns the number of rows removed.
func SweepExpiredSessions(ctx context.Context, db *gorm.DB, now time.Time) (int64, error) {
	res := db.WithContext(ctx).
		Where("expires_at <= ?", now).
		Delete(&domain.Session{})
	return res.RowsAffected, res.Error
}

// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file holds the aggregate queries behind the HTTP
// layer's conditional responses: a (count, latest update) pair is enough to
// derive an ETag for a member's request list or a profession board.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-guild-backend/internal/domain"
)

// RequestsStats reports how many craft requests a member has filed and the
// most recent UpdatedAt among them. An empty list yields (0, nil, nil).
func RequestsStats(ctx context.Context, db *gorm.DB, requesterID string) (int64, *time.Time, error) {
	q := db.WithContext(ctx).Model(&domain.CraftRequest{}).Where("requester_id = ?", requesterID)
	return countAndLatest(q)
}

// ProfessionStats reports the size of a profession's board and the most
// recent UpdatedAt on it. An empty board yields (0, nil, nil).
func ProfessionStats(ctx context.Context, db *gorm.DB, profession string) (int64, *time.Time, error) {
	q := db.WithContext(ctx).Model(&domain.CraftRequest{}).Where("profession = ?", profession)
	return countAndLatest(q)
}

// countAndLatest evaluates a filtered CraftRequest query to its row count and
// greatest UpdatedAt. The latest timestamp is fetched with ORDER BY ... LIMIT 1
// rather than MAX(), which SQLite would hand back as TEXT.
func countAndLatest(q *gorm.DB) (int64, *time.Time, error) {
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	var row struct {
		UpdatedAt time.Time
	}
	if err := q.Select("updated_at").Order("updated_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.UpdatedAt, nil
}

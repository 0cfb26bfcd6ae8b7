// Package domain defines the core persistence models for the application.
// These types are used by GORM for database schema mapping and are shared
// across the repository and service layers.
package domain

import "time"

// Session holds the short-lived state of one multi-step request-composition
// flow, keyed by an opaque session key scoped to a single owner. Sessions
// are overwritten on each step, deleted on completion or cancellation, and
// swept by a periodic expiry pass when abandoned. They are never referenced
// by craft requests.
type Session struct {
	Key       string    `gorm:"type:TEXT NOT NULL;primaryKey"`
	OwnerID   string    `gorm:"type:TEXT NOT NULL;index:idx_owner_sessions"`
	Data      string    `gorm:"type:TEXT NOT NULL"` // arbitrary JSON payload, opaque to the store
	CreatedAt time.Time `gorm:"type:DATETIME NOT NULL;autoCreateTime"`
	ExpiresAt time.Time `gorm:"type:DATETIME NOT NULL;index"`
}

// TableName implements the GORM tabler interface.
func (Session) TableName() string { return "sessions" }

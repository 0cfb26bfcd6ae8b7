// Package domain defines the persistence models for characters, craft
// requests, and their audit trails. These types are mapped with GORM and
// form the core data layer of the guild backend.
package domain

import (
	"time"

	"gorm.io/gorm"
)

// MaterialList maps a material name to the required (or provided) quantity.
// It is persisted as a JSON column via the GORM serializer.
type MaterialList map[string]int

// Character represents a playable character registered by a guild member.
// Characters are referenced by craft requests through a denormalized name
// copy, so deleting a character cascades by denying its open requests rather
// than by foreign key.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - OwnerID: identifier of the registering member; indexed for retrieval.
//   - Name: character name, unique per owner.
//   - Kind: "main" or "alt" (enforced by DB constraint).
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
type Character struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	OwnerID   string    `json:"owner_id"   gorm:"type:varchar(64);not null;index:idx_owner_characters;uniqueIndex:ux_owner_character_name"`
	Name      string    `json:"name"       gorm:"type:varchar(64);not null;uniqueIndex:ux_owner_character_name"`
	Kind      string    `json:"kind"       gorm:"type:varchar(8);not null;default:'main';check:kind IN ('main','alt')"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for Character.
func (Character) TableName() string { return "characters" }

// CraftRequest represents a craft/enchant request submitted by a requester
// and fulfilled by at most one crafter at a time. Status transitions follow
// the fixed edge table in status.go; claim fields are populated if and only
// if the request is in "claimed" or "in_progress".
//
// Fields:
//   - ID: UUID primary key (char(36)).
//   - RequesterID: identifier of the submitting member (indexed).
//   - CharacterName: denormalized copy of the target character's name.
//   - Profession / GearSlot / ItemID / ItemLabel: classification of the work.
//   - QuantityRequested / QuantityCompleted: fulfillment progress;
//     0 <= completed <= requested always holds.
//   - MaterialsRequired / MaterialsProvided: JSON material maps.
//   - RequesterProvidesMats: whether the requester supplies materials.
//   - Status: lifecycle state (see status.go).
//   - ClaimedBy / ClaimedByName / ClaimedAt: active claim, nil when unclaimed.
//   - DenyReason: populated when the request was denied.
//   - AuditTrail: append-only action history, ordered by insertion.
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
//   - DeletedAt: soft deletion marker (retains row for audit/history).
type CraftRequest struct {
	ID            string `json:"id"             gorm:"type:char(36);primaryKey"`
	RequesterID   string `json:"requester_id"   gorm:"type:varchar(64);not null;index:idx_requester_requests"`
	CharacterName string `json:"character_name" gorm:"type:varchar(64);not null;index"`

	Profession string `json:"profession" gorm:"type:varchar(32);not null;index:idx_profession_status,priority:1"`
	GearSlot   string `json:"gear_slot"  gorm:"type:varchar(32);not null"`
	ItemID     string `json:"item_id"    gorm:"type:varchar(64);not null"`
	ItemLabel  string `json:"item_label" gorm:"type:varchar(255);not null"`

	QuantityRequested int `json:"quantity_requested" gorm:"not null;check:quantity_requested >= 1"`
	QuantityCompleted int `json:"quantity_completed" gorm:"not null;default:0;check:quantity_completed >= 0"`

	MaterialsRequired     MaterialList `json:"materials_required,omitempty" gorm:"type:text;serializer:json"`
	MaterialsProvided     MaterialList `json:"materials_provided,omitempty" gorm:"type:text;serializer:json"`
	RequesterProvidesMats bool         `json:"requester_provides_materials" gorm:"not null;default:false"`

	Status        string     `json:"status"                    gorm:"type:varchar(16);not null;default:'open';index:idx_profession_status,priority:2;check:status IN ('open','claimed','in_progress','complete','denied')"`
	ClaimedBy     *string    `json:"claimed_by,omitempty"      gorm:"type:varchar(64);index"`
	ClaimedByName string     `json:"claimed_by_name,omitempty" gorm:"type:varchar(64)"`
	ClaimedAt     *time.Time `json:"claimed_at,omitempty"`

	DenyReason string `json:"deny_reason,omitempty" gorm:"type:varchar(255)"`

	AuditTrail []AuditEntry `json:"audit_trail,omitempty" gorm:"foreignKey:RequestID;references:ID"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName returns the database table name for CraftRequest.
func (CraftRequest) TableName() string { return "craft_requests" }

// AuditEntry is one immutable line of a request's action history. Entries
// are append-only: the integer primary key preserves insertion order even
// when wall-clock timestamps collide, and nothing ever updates or deletes a
// row once written.
type AuditEntry struct {
	ID        uint      `json:"-"          gorm:"primaryKey;autoIncrement"`
	RequestID string    `json:"-"          gorm:"type:char(36);not null;index:idx_request_audit"`
	Action    string    `json:"action"     gorm:"type:varchar(32);not null"`
	ActorID   string    `json:"actor_id"   gorm:"type:varchar(64);not null"`
	Details   string    `json:"details,omitempty" gorm:"type:text"`
	CreatedAt time.Time `json:"at"`

	// Request is the audited request. Entries are cascade-deleted only if
	// the request row itself is hard-removed.
	Request CraftRequest `json:"-" gorm:"foreignKey:RequestID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for AuditEntry.
func (AuditEntry) TableName() string { return "audit_entries" }

// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Character model.
package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-guild-backend/internal/domain"
)

// CreateCharacter inserts a new character owned by ownerID. Names are unique
// per owner; a second registration of the same name returns ErrDuplicate.
func CreateCharacter(ctx context.Context, db *gorm.DB, ownerID, name, kind string) (*domain.Character, error) {
	c := &domain.Character{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Name:      name,
		Kind:      kind,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(c).Error; err != nil {
		// glebarez/sqlite often returns plain-text errors for UNIQUE violations.
		low := strings.ToLower(err.Error())
		if errors.Is(err, gorm.ErrDuplicatedKey) ||
			strings.Contains(low, "unique constraint failed") ||
			strings.Contains(low, "constraint failed: unique") {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return c, nil
}

// ListCharacters returns all characters registered by ownerID, grouped by
// kind and alphabetical within each group.
func ListCharacters(ctx context.Context, db *gorm.DB, ownerID string) ([]domain.Character, error) {
	var out []domain.Character
	err := db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("kind asc, name asc").
		Find(&out).Error
	return out, err
}

// GetCharacterByName fetches a character by owner and name, or ErrNotFound.
func GetCharacterByName(ctx context.Context, db *gorm.DB, ownerID, name string) (*domain.Character, error) {
	var c domain.Character
	err := db.WithContext(ctx).
		Where("owner_id = ? AND name = ?", ownerID, name).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// DeleteCharacter removes a character row by owner and name. If no rows are
// affected (character missing or not owned by ownerID), it returns
// ErrNotFound. The request-denial cascade is the service's job.
func DeleteCharacter(ctx context.Context, db *gorm.DB, ownerID, name string) error {
	res := db.WithContext(ctx).
		Where("owner_id = ? AND name = ?", ownerID, name).
		Delete(&domain.Character{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

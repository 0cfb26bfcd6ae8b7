// Package services – CharacterService
//
// This file implements CharacterService, which manages a member's roster of
// characters and the deletion cascade: removing a character denies every
// non-terminal request that references it, so the board never carries work
// for a character that no longer exists.
package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/tbourn/go-guild-backend/internal/domain"
	"github.com/tbourn/go-guild-backend/internal/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// denyReasonCharacterDeleted is stamped on requests denied by the deletion
// cascade so the requester can tell them apart from crafter denials.
const denyReasonCharacterDeleted = "character deleted"

// CharacterService provides roster operations for guild members.
type CharacterService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
}

// Register adds a character to ownerID's roster. Kind defaults to "main"
// when blank and must otherwise be "main" or "alt". Names are unique per
// owner; re-registering yields ErrDuplicateCharacter.
func (s *CharacterService) Register(ctx context.Context, ownerID, name, kind string) (*domain.Character, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &MissingFieldError{Field: "name"}
	}
	kind = strings.ToLower(strings.TrimSpace(kind))
	if kind == "" {
		kind = "main"
	}
	if kind != "main" && kind != "alt" {
		return nil, ErrInvalidCharacterKind
	}

	c, err := repo.CreateCharacter(ctx, s.DB, ownerID, name, kind)
	if err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrDuplicateCharacter
		}
		return nil, err
	}
	return c, nil
}

// List returns ownerID's characters grouped by kind and alphabetical within
// each group.
func (s *CharacterService) List(ctx context.Context, ownerID string) ([]domain.Character, error) {
	return repo.ListCharacters(ctx, s.DB, ownerID)
}

// Delete removes a character and denies every non-terminal request that
// references it, returning how many requests were denied.
//
// Semantics:
//   - ErrCharacterNotFound when the character is missing or owned by
//     someone else.
//   - Open, claimed, and in-progress requests for the character move to
//     denied with reason "character deleted"; each gets an audit entry.
//   - Terminal requests are left untouched; history survives the roster.
//   - The row delete and the full cascade commit atomically.
func (s *CharacterService) Delete(ctx context.Context, ownerID, name string) (int64, error) {
	tr := otel.Tracer("services/CharacterService")
	ctx, span := tr.Start(ctx, "Delete",
		trace.WithAttributes(
			attribute.String("owner.id", ownerID),
			attribute.String("character.name", name),
		),
	)
	defer span.End()

	var denied int64
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := repo.GetCharacterByName(ctx, tx, ownerID, name); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrCharacterNotFound
			}
			return err
		}

		active, err := repo.ListActiveRequestsForCharacter(ctx, tx, ownerID, name)
		if err != nil {
			return err
		}
		for _, req := range active {
			if err := repo.TransitionStatus(ctx, tx, req.ID, req.Status, domain.StatusDenied, denyReasonCharacterDeleted); err != nil {
				return err
			}
			if _, err := repo.AppendAudit(ctx, tx, req.ID, actionDenied, ownerID, denyReasonCharacterDeleted); err != nil {
				return err
			}
			denied++
		}

		if err := repo.DeleteCharacter(ctx, tx, ownerID, name); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrCharacterNotFound
			}
			return err
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return denied, nil
}

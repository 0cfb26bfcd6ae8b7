package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/tbourn/go-guild-backend/internal/domain"
)

func TestCreateCharacter_SuccessAndDuplicate(t *testing.T) {
	db := newTestDB(t, &domain.Character{})
	ctx := context.Background()

	c, err := CreateCharacter(ctx, db, "u1", "Mogra", "main")
	if err != nil {
		t.Fatalf("CreateCharacter: %v", err)
	}
	if c.ID == "" || c.OwnerID != "u1" || c.Name != "Mogra" || c.Kind != "main" {
		t.Fatalf("unexpected Character fields: %+v", c)
	}

	// Same owner + name trips the unique index.
	if _, err := CreateCharacter(ctx, db, "u1", "Mogra", "alt"); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	// A different owner may reuse the name.
	if _, err := CreateCharacter(ctx, db, "u2", "Mogra", "main"); err != nil {
		t.Fatalf("same name, different owner should be fine: %v", err)
	}
}

func TestListCharacters_OrderMainsFirst(t *testing.T) {
	db := newTestDB(t, &domain.Character{})
	ctx := context.Background()

	for _, c := range []struct{ name, kind string }{
		{"Zug", "alt"}, {"Ari", "main"}, {"Bex", "alt"},
	} {
		if _, err := CreateCharacter(ctx, db, "u1", c.name, c.kind); err != nil {
			t.Fatalf("seed %s: %v", c.name, err)
		}
	}

	got, err := ListCharacters(ctx, db, "u1")
	if err != nil || len(got) != 3 {
		t.Fatalf("expected 3 characters, got %d (err=%v)", len(got), err)
	}
	// kind asc puts "alt" before "main"; names alphabetical within kind.
	if got[0].Name != "Bex" || got[1].Name != "Zug" || got[2].Name != "Ari" {
		t.Fatalf("unexpected order: %#v", got)
	}
}

func TestGetCharacterByName(t *testing.T) {
	db := newTestDB(t, &domain.Character{})
	ctx := context.Background()

	if _, err := CreateCharacter(ctx, db, "u1", "Mogra", "main"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	got, err := GetCharacterByName(ctx, db, "u1", "Mogra")
	if err != nil || got.Name != "Mogra" {
		t.Fatalf("GetCharacterByName: %+v, %v", got, err)
	}

	if _, err := GetCharacterByName(ctx, db, "u2", "Mogra"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("ownership must scope the lookup, got %v", err)
	}
}

func TestDeleteCharacter(t *testing.T) {
	db := newTestDB(t, &domain.Character{})
	ctx := context.Background()

	if _, err := CreateCharacter(ctx, db, "u1", "Mogra", "main"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if err := DeleteCharacter(ctx, db, "u1", "Mogra"); err != nil {
		t.Fatalf("DeleteCharacter: %v", err)
	}
	if err := DeleteCharacter(ctx, db, "u1", "Mogra"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

package repo

import (
	"context"
	"fmt"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite (no CGO)
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-guild-backend/internal/domain"
)

func newTestDB(t *testing.T, migrate ...any) *gorm.DB {
	t.Helper()
	// Unique DB per test to avoid schema leaking across tests.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if len(migrate) > 0 {
		if err := db.AutoMigrate(migrate...); err != nil {
			t.Fatalf("automigrate: %v", err)
		}
	}
	return db
}

func seedRequest(t *testing.T, db *gorm.DB, id, requesterID, profession string, at time.Time) {
	t.Helper()
	r := &domain.CraftRequest{
		ID: id, RequesterID: requesterID, CharacterName: "Toon",
		Profession: profession, GearSlot: "hands", ItemID: "item-" + id, ItemLabel: "Item " + id,
		QuantityRequested: 1, Status: domain.StatusOpen,
		CreatedAt: at, UpdatedAt: at,
	}
	if err := db.Create(r).Error; err != nil {
		t.Fatalf("seed %s: %v", id, err)
	}
}

func TestRequestsStats_CountError_NoTable(t *testing.T) {
	db := newTestDB(t /* no migrations */)
	_, _, err := RequestsStats(context.Background(), db, "u1")
	if err == nil {
		t.Fatalf("expected error due to missing craft_requests table")
	}
}

func TestRequestsStats_ZeroRows(t *testing.T) {
	db := newTestDB(t, &domain.CraftRequest{})
	count, maxAt, err := RequestsStats(context.Background(), db, "u1")
	if err != nil {
		t.Fatalf("RequestsStats error: %v", err)
	}
	if count != 0 || maxAt != nil {
		t.Fatalf("expected (0, nil), got (%d, %v)", count, maxAt)
	}
}

func TestRequestsStats_Success_FilterAndMax(t *testing.T) {
	db := newTestDB(t, &domain.CraftRequest{})

	// Seed requests for two requesters; UpdatedAt is exactly what we set.
	t1 := time.Date(2025, 1, 2, 15, 0, 0, 0, time.UTC)
	t2 := time.Date(2025, 3, 4, 10, 30, 0, 0, time.UTC) // max for u1
	t3 := time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC)   // for other requester

	seedRequest(t, db, "r1", "u1", "alchemy", t1)
	seedRequest(t, db, "r2", "u1", "alchemy", t2)
	seedRequest(t, db, "r3", "u2", "alchemy", t3)

	count, maxAt, err := RequestsStats(context.Background(), db, "u1")
	if err != nil {
		t.Fatalf("RequestsStats error: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected count 2, got %d", count)
	}
	if maxAt == nil || !maxAt.Equal(t2) {
		t.Fatalf("expected maxUpdatedAt %v, got %v", t2, maxAt)
	}
}

// Force the second query (SELECT updated_at ...) to fail by renaming the column.
func TestRequestsStats_SelectLatest_ErrorPath(t *testing.T) {
	db := newTestDB(t, &domain.CraftRequest{})

	// Seed at least one row so count > 0
	seedRequest(t, db, "rx", "uerr", "alchemy", time.Now().UTC())

	// Break the follow-up select by removing/renaming updated_at.
	if err := db.Exec(`ALTER TABLE craft_requests RENAME COLUMN updated_at TO updated_at_old`).Error; err != nil {
		t.Fatalf("rename column: %v", err)
	}

	_, _, err := RequestsStats(context.Background(), db, "uerr")
	if err == nil {
		t.Fatalf("expected error from latest-updated select after column rename")
	}
}

func TestProfessionStats_CountError_NoTable(t *testing.T) {
	db := newTestDB(t /* no migrations */)
	_, _, err := ProfessionStats(context.Background(), db, "alchemy")
	if err == nil {
		t.Fatalf("expected error due to missing craft_requests table")
	}
}

func TestProfessionStats_ZeroRows(t *testing.T) {
	db := newTestDB(t, &domain.CraftRequest{})
	count, maxAt, err := ProfessionStats(context.Background(), db, "alchemy")
	if err != nil {
		t.Fatalf("ProfessionStats error: %v", err)
	}
	if count != 0 || maxAt != nil {
		t.Fatalf("expected (0, nil), got (%d, %v)", count, maxAt)
	}
}

func TestProfessionStats_Success_FilterAndMax(t *testing.T) {
	db := newTestDB(t, &domain.CraftRequest{})

	t1 := time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)
	t2 := time.Date(2025, 4, 1, 12, 5, 0, 0, time.UTC) // max for tailoring
	t3 := time.Date(2025, 4, 2, 8, 0, 0, 0, time.UTC)  // other profession

	seedRequest(t, db, "m1", "u1", "tailoring", t1)
	seedRequest(t, db, "m2", "u2", "tailoring", t2)
	seedRequest(t, db, "m3", "u1", "jewelcrafting", t3)

	count, maxAt, err := ProfessionStats(context.Background(), db, "tailoring")
	if err != nil {
		t.Fatalf("ProfessionStats error: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected count 2, got %d", count)
	}
	if maxAt == nil || !maxAt.Equal(t2) {
		t.Fatalf("expected maxUpdatedAt %v, got %v", t2, maxAt)
	}
}

package repo

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-guild-backend/internal/domain"
)

func newRequestRepoDB(t *testing.T, migrate ...any) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("request_repo_test_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.Exec("PRAGMA busy_timeout=5000;")

	// Ensure the file handle is released before TempDir cleanup (Windows needs this).
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	if len(migrate) > 0 {
		if err := db.AutoMigrate(migrate...); err != nil {
			t.Fatalf("automigrate: %v", err)
		}
	}
	return db
}

func mustCreateRequest(t *testing.T, db *gorm.DB, requesterID, characterName string, qty int) *domain.CraftRequest {
	t.Helper()
	req, err := CreateRequest(context.Background(), db, &domain.CraftRequest{
		RequesterID:       requesterID,
		CharacterName:     characterName,
		Profession:        "blacksmithing",
		GearSlot:          "chest",
		ItemID:            "item-77",
		ItemLabel:         "Adamantite Breastplate",
		QuantityRequested: qty,
	})
	if err != nil {
		t.Fatalf("CreateRequest: %v", err)
	}
	return req
}

func TestCreateRequest_Error_NoTable(t *testing.T) {
	db := newRequestRepoDB(t /* no migrations */)
	req, err := CreateRequest(context.Background(), db, &domain.CraftRequest{RequesterID: "u1", QuantityRequested: 1})
	if err == nil || req != nil {
		t.Fatalf("expected error creating without table, got req=%v err=%v", req, err)
	}
}

func TestCreateRequest_Success_DefaultsApplied(t *testing.T) {
	db := newRequestRepoDB(t, &domain.CraftRequest{})

	start := time.Now().UTC().Add(-time.Minute)
	req, err := CreateRequest(context.Background(), db, &domain.CraftRequest{
		RequesterID: "u1", CharacterName: "Mogra",
		Profession: "blacksmithing", GearSlot: "chest", ItemID: "item-77", ItemLabel: "Breastplate",
		QuantityRequested: 3,
		QuantityCompleted: 9, // must be zeroed on insert
		Status:            "bogus",
	})
	if err != nil {
		t.Fatalf("CreateRequest: %v", err)
	}
	if req.ID == "" || req.Status != domain.StatusOpen || req.QuantityCompleted != 0 {
		t.Fatalf("unexpected defaults: %+v", req)
	}
	if req.CreatedAt.Before(start) {
		t.Fatalf("CreatedAt seems unset/really old: %v", req.CreatedAt)
	}
	// round-trip
	var got domain.CraftRequest
	if err := db.First(&got, "id = ?", req.ID).Error; err != nil {
		t.Fatalf("load created request: %v", err)
	}
	if got.Status != domain.StatusOpen || got.ClaimedBy != nil {
		t.Fatalf("round-trip mismatch: %+v", got)
	}
}

func TestGetRequest_NotFound(t *testing.T) {
	db := newRequestRepoDB(t, &domain.CraftRequest{}, &domain.AuditEntry{})
	if _, err := GetRequest(context.Background(), db, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetRequest_PreloadsAuditInOrder(t *testing.T) {
	db := newRequestRepoDB(t, &domain.CraftRequest{}, &domain.AuditEntry{})
	req := mustCreateRequest(t, db, "u1", "Mogra", 1)

	for _, a := range []string{"created", "claimed", "released"} {
		if _, err := AppendAudit(context.Background(), db, req.ID, a, "u1", ""); err != nil {
			t.Fatalf("append %s: %v", a, err)
		}
	}

	got, err := GetRequest(context.Background(), db, req.ID)
	if err != nil {
		t.Fatalf("GetRequest: %v", err)
	}
	if len(got.AuditTrail) != 3 {
		t.Fatalf("expected 3 audit entries, got %d", len(got.AuditTrail))
	}
	want := []string{"created", "claimed", "released"}
	for i, e := range got.AuditTrail {
		if e.Action != want[i] {
			t.Fatalf("audit order mismatch at %d: got %q want %q", i, e.Action, want[i])
		}
	}
}

func TestListRequestsByRequester_FilterStatusesAndLimit(t *testing.T) {
	db := newRequestRepoDB(t, &domain.CraftRequest{})

	t1 := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	seed := func(id, uid, status string, at time.Time) {
		r := &domain.CraftRequest{
			ID: id, RequesterID: uid, CharacterName: "X",
			Profession: "alchemy", GearSlot: "none", ItemID: "i", ItemLabel: "I",
			QuantityRequested: 1, Status: status, CreatedAt: at, UpdatedAt: at,
		}
		if err := db.Create(r).Error; err != nil {
			t.Fatalf("seed %s: %v", id, err)
		}
	}
	seed("a", "u1", domain.StatusOpen, t1)
	seed("b", "u1", domain.StatusComplete, t1.Add(time.Hour))
	seed("c", "u1", domain.StatusOpen, t1.Add(2*time.Hour))
	seed("d", "u2", domain.StatusOpen, t1.Add(3*time.Hour))

	// No filter: newest first, all of u1's.
	all, err := ListRequestsByRequester(context.Background(), db, "u1", nil, 0)
	if err != nil || len(all) != 3 {
		t.Fatalf("expected 3 rows, got %d (err=%v)", len(all), err)
	}
	if all[0].ID != "c" || all[1].ID != "b" || all[2].ID != "a" {
		t.Fatalf("unexpected order: %#v", all)
	}

	// Status filter + limit.
	open, err := ListRequestsByRequester(context.Background(), db, "u1", []string{domain.StatusOpen}, 1)
	if err != nil || len(open) != 1 || open[0].ID != "c" {
		t.Fatalf("unexpected filtered result: %#v err=%v", open, err)
	}
}

func TestListRequestsByProfession_OldestFirst(t *testing.T) {
	db := newRequestRepoDB(t, &domain.CraftRequest{})

	t1 := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
	for i, id := range []string{"p1", "p2", "p3"} {
		r := &domain.CraftRequest{
			ID: id, RequesterID: "u1", CharacterName: "X",
			Profession: "enchanting", GearSlot: "weapon", ItemID: "i", ItemLabel: "I",
			QuantityRequested: 1, Status: domain.StatusOpen,
			CreatedAt: t1.Add(time.Duration(i) * time.Hour),
			UpdatedAt: t1.Add(time.Duration(i) * time.Hour),
		}
		if err := db.Create(r).Error; err != nil {
			t.Fatalf("seed %s: %v", id, err)
		}
	}

	got, err := ListRequestsByProfession(context.Background(), db, "enchanting", []string{domain.StatusOpen})
	if err != nil || len(got) != 3 {
		t.Fatalf("expected 3 rows, got %d (err=%v)", len(got), err)
	}
	if got[0].ID != "p1" || got[2].ID != "p3" {
		t.Fatalf("board should be oldest first: %#v", got)
	}
}

func TestClaimRequest_WinnerAndLoser(t *testing.T) {
	db := newRequestRepoDB(t, &domain.CraftRequest{})
	req := mustCreateRequest(t, db, "u1", "Mogra", 1)
	now := time.Now().UTC()

	if err := ClaimRequest(context.Background(), db, req.ID, "crafterA", "Smith A", now); err != nil {
		t.Fatalf("first claim should win: %v", err)
	}
	// Second claim loses the status guard.
	if err := ClaimRequest(context.Background(), db, req.ID, "crafterB", "Smith B", now); !errors.Is(err, ErrStaleStatus) {
		t.Fatalf("expected ErrStaleStatus for second claim, got %v", err)
	}

	var got domain.CraftRequest
	if err := db.First(&got, "id = ?", req.ID).Error; err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Status != domain.StatusClaimed || got.ClaimedBy == nil || *got.ClaimedBy != "crafterA" || got.ClaimedByName != "Smith A" || got.ClaimedAt == nil {
		t.Fatalf("claim fields wrong: %+v", got)
	}
}

func TestClaimRequest_ConcurrentCallers_ExactlyOneWins(t *testing.T) {
	db := newRequestRepoDB(t, &domain.CraftRequest{})
	// Serialize writes through a single connection; the guard semantics, not
	// scheduler luck, must decide the winner.
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}
	req := mustCreateRequest(t, db, "u1", "Mogra", 1)

	const crafters = 8
	var wg sync.WaitGroup
	results := make([]error, crafters)
	for i := 0; i < crafters; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			results[n] = ClaimRequest(context.Background(), db,
				req.ID, fmt.Sprintf("crafter-%d", n), fmt.Sprintf("Crafter %d", n), time.Now().UTC())
		}(i)
	}
	wg.Wait()

	wins, losses := 0, 0
	for _, err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, ErrStaleStatus):
			losses++
		default:
			t.Fatalf("unexpected claim error: %v", err)
		}
	}
	if wins != 1 || losses != crafters-1 {
		t.Fatalf("expected exactly one winner, got wins=%d losses=%d", wins, losses)
	}

	var got domain.CraftRequest
	if err := db.First(&got, "id = ?", req.ID).Error; err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Status != domain.StatusClaimed || got.ClaimedBy == nil {
		t.Fatalf("request should end claimed by the winner: %+v", got)
	}
}

func TestReleaseRequest_FromClaimedAndInProgress(t *testing.T) {
	db := newRequestRepoDB(t, &domain.CraftRequest{})
	ctx := context.Background()
	now := time.Now().UTC()

	req := mustCreateRequest(t, db, "u1", "Mogra", 1)
	if err := ClaimRequest(ctx, db, req.ID, "crafterA", "Smith A", now); err != nil {
		t.Fatalf("claim: %v", err)
	}
	if err := TransitionStatus(ctx, db, req.ID, domain.StatusClaimed, domain.StatusInProgress, ""); err != nil {
		t.Fatalf("to in_progress: %v", err)
	}

	// Release from in_progress back to the open pool.
	if err := ReleaseRequest(ctx, db, req.ID, "crafterA"); err != nil {
		t.Fatalf("release: %v", err)
	}
	var got domain.CraftRequest
	if err := db.First(&got, "id = ?", req.ID).Error; err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Status != domain.StatusOpen || got.ClaimedBy != nil || got.ClaimedByName != "" || got.ClaimedAt != nil {
		t.Fatalf("release did not clear claim fields: %+v", got)
	}

	// A different crafter can now claim.
	if err := ClaimRequest(ctx, db, req.ID, "crafterB", "Smith B", now); err != nil {
		t.Fatalf("re-claim after release: %v", err)
	}

	// Releasing with the wrong holder hits the guard.
	if err := ReleaseRequest(ctx, db, req.ID, "crafterZ"); !errors.Is(err, ErrStaleStatus) {
		t.Fatalf("expected ErrStaleStatus for wrong holder, got %v", err)
	}
}

func TestReleaseRequest_OpenRequest_GuardFails(t *testing.T) {
	db := newRequestRepoDB(t, &domain.CraftRequest{})
	req := mustCreateRequest(t, db, "u1", "Mogra", 1)
	if err := ReleaseRequest(context.Background(), db, req.ID, ""); !errors.Is(err, ErrStaleStatus) {
		t.Fatalf("expected ErrStaleStatus releasing an open request, got %v", err)
	}
}

func TestTransitionStatus_GuardAndClaimClearing(t *testing.T) {
	db := newRequestRepoDB(t, &domain.CraftRequest{})
	ctx := context.Background()
	now := time.Now().UTC()

	req := mustCreateRequest(t, db, "u1", "Mogra", 1)
	if err := ClaimRequest(ctx, db, req.ID, "crafterA", "Smith A", now); err != nil {
		t.Fatalf("claim: %v", err)
	}

	// Stale `from` matches no rows.
	if err := TransitionStatus(ctx, db, req.ID, domain.StatusOpen, domain.StatusDenied, "nope"); !errors.Is(err, ErrStaleStatus) {
		t.Fatalf("expected ErrStaleStatus for stale from, got %v", err)
	}

	// Deny from claimed clears the claim and records the reason.
	if err := TransitionStatus(ctx, db, req.ID, domain.StatusClaimed, domain.StatusDenied, "requester cancelled"); err != nil {
		t.Fatalf("deny: %v", err)
	}
	var got domain.CraftRequest
	if err := db.First(&got, "id = ?", req.ID).Error; err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Status != domain.StatusDenied || got.ClaimedBy != nil || got.DenyReason != "requester cancelled" {
		t.Fatalf("deny state wrong: %+v", got)
	}
}

func TestForceStatus_OverridesTerminal(t *testing.T) {
	db := newRequestRepoDB(t, &domain.CraftRequest{})
	ctx := context.Background()

	req := mustCreateRequest(t, db, "u1", "Mogra", 1)
	if err := TransitionStatus(ctx, db, req.ID, domain.StatusOpen, domain.StatusDenied, "mistake"); err != nil {
		t.Fatalf("deny: %v", err)
	}
	// Administrative override pulls it back out of the terminal state.
	if err := ForceStatus(ctx, db, req.ID, domain.StatusOpen, ""); err != nil {
		t.Fatalf("force: %v", err)
	}
	var got domain.CraftRequest
	if err := db.First(&got, "id = ?", req.ID).Error; err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Status != domain.StatusOpen {
		t.Fatalf("expected open after force, got %q", got.Status)
	}

	if err := ForceStatus(ctx, db, "missing", domain.StatusOpen, ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing row, got %v", err)
	}
}

func TestAddCompletion_ClampsInsideUpdate(t *testing.T) {
	db := newRequestRepoDB(t, &domain.CraftRequest{})
	ctx := context.Background()
	now := time.Now().UTC()

	req := mustCreateRequest(t, db, "u1", "Mogra", 3)
	if err := ClaimRequest(ctx, db, req.ID, "crafterA", "Smith A", now); err != nil {
		t.Fatalf("claim: %v", err)
	}

	// Guard: not yet in_progress.
	if err := AddCompletion(ctx, db, req.ID, 1); !errors.Is(err, ErrStaleStatus) {
		t.Fatalf("expected ErrStaleStatus while claimed, got %v", err)
	}
	if err := TransitionStatus(ctx, db, req.ID, domain.StatusClaimed, domain.StatusInProgress, ""); err != nil {
		t.Fatalf("to in_progress: %v", err)
	}

	if err := AddCompletion(ctx, db, req.ID, 2); err != nil {
		t.Fatalf("add 2: %v", err)
	}
	var got domain.CraftRequest
	if err := db.First(&got, "id = ?", req.ID).Error; err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.QuantityCompleted != 2 {
		t.Fatalf("expected completed=2, got %d", got.QuantityCompleted)
	}

	// Over-report clamps to the requested total.
	if err := AddCompletion(ctx, db, req.ID, 5); err != nil {
		t.Fatalf("add 5: %v", err)
	}
	if err := db.First(&got, "id = ?", req.ID).Error; err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.QuantityCompleted != 3 {
		t.Fatalf("expected clamp to 3, got %d", got.QuantityCompleted)
	}
}

func TestCompleteRequest_SnapsQuantityAndClearsClaim(t *testing.T) {
	db := newRequestRepoDB(t, &domain.CraftRequest{})
	ctx := context.Background()
	now := time.Now().UTC()

	req := mustCreateRequest(t, db, "u1", "Mogra", 4)
	if err := ClaimRequest(ctx, db, req.ID, "crafterA", "Smith A", now); err != nil {
		t.Fatalf("claim: %v", err)
	}
	if err := TransitionStatus(ctx, db, req.ID, domain.StatusClaimed, domain.StatusInProgress, ""); err != nil {
		t.Fatalf("to in_progress: %v", err)
	}

	if err := CompleteRequest(ctx, db, req.ID); err != nil {
		t.Fatalf("complete: %v", err)
	}
	var got domain.CraftRequest
	if err := db.First(&got, "id = ?", req.ID).Error; err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Status != domain.StatusComplete || got.QuantityCompleted != 4 || got.ClaimedBy != nil {
		t.Fatalf("complete state wrong: %+v", got)
	}

	// Terminal: completing again matches nothing.
	if err := CompleteRequest(ctx, db, req.ID); !errors.Is(err, ErrStaleStatus) {
		t.Fatalf("expected ErrStaleStatus on second complete, got %v", err)
	}
}

func TestCountRecentDuplicates_WindowBehavior(t *testing.T) {
	db := newRequestRepoDB(t, &domain.CraftRequest{})
	ctx := context.Background()

	old := time.Now().UTC().Add(-time.Hour)
	stale := &domain.CraftRequest{
		ID: "old", RequesterID: "u1", CharacterName: "Mogra",
		Profession: "blacksmithing", GearSlot: "chest", ItemID: "item-77", ItemLabel: "Breastplate",
		QuantityRequested: 1, Status: domain.StatusOpen, CreatedAt: old, UpdatedAt: old,
	}
	if err := db.Create(stale).Error; err != nil {
		t.Fatalf("seed old: %v", err)
	}

	since := time.Now().UTC().Add(-5 * time.Second)
	n, err := CountRecentDuplicates(ctx, db, "u1", "Mogra", "blacksmithing", "chest", "item-77", since)
	if err != nil || n != 0 {
		t.Fatalf("hour-old request must not count as duplicate: n=%d err=%v", n, err)
	}

	mustCreateRequest(t, db, "u1", "Mogra", 1)
	n, err = CountRecentDuplicates(ctx, db, "u1", "Mogra", "blacksmithing", "chest", "item-77", since)
	if err != nil || n != 1 {
		t.Fatalf("fresh identical request must count: n=%d err=%v", n, err)
	}

	// Different item is never a duplicate.
	n, err = CountRecentDuplicates(ctx, db, "u1", "Mogra", "blacksmithing", "chest", "item-78", since)
	if err != nil || n != 0 {
		t.Fatalf("different item must not count: n=%d err=%v", n, err)
	}
}

func TestListRequestsClaimedBy(t *testing.T) {
	db := newRequestRepoDB(t, &domain.CraftRequest{})
	ctx := context.Background()
	now := time.Now().UTC()

	a := mustCreateRequest(t, db, "u1", "Mogra", 1)
	b := mustCreateRequest(t, db, "u2", "Vexa", 1)
	mustCreateRequest(t, db, "u3", "Karn", 1) // stays open

	if err := ClaimRequest(ctx, db, a.ID, "crafterA", "Smith A", now); err != nil {
		t.Fatalf("claim a: %v", err)
	}
	if err := ClaimRequest(ctx, db, b.ID, "crafterA", "Smith A", now.Add(time.Second)); err != nil {
		t.Fatalf("claim b: %v", err)
	}

	got, err := ListRequestsClaimedBy(ctx, db, "crafterA")
	if err != nil || len(got) != 2 {
		t.Fatalf("expected 2 claimed rows, got %d (err=%v)", len(got), err)
	}
	if got[0].ID != a.ID || got[1].ID != b.ID {
		t.Fatalf("claims should be oldest first: %#v", got)
	}
}

package repo

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tbourn/go-guild-backend/internal/domain"
)

func TestOpenSQLite_MissingParentDirFailsEarly(t *testing.T) {
	bad := filepath.Join(t.TempDir(), "no-such-dir", "guild.db")

	db, err := OpenSQLite(bad)
	if err == nil || db != nil {
		t.Fatalf("expected error opening %q, got db=%v err=%v", bad, db, err)
	}

	// The wording differs by platform and by whether the stat or the driver
	// fails first, so accept any of the known shapes.
	lower := strings.ToLower(err.Error())
	if !(os.IsNotExist(err) ||
		strings.Contains(lower, "unable to open database file") ||
		strings.Contains(lower, "no such file or directory") ||
		strings.Contains(lower, "out of memory")) {
		t.Fatalf("unexpected error opening %q: %v", bad, err)
	}
}

func TestOpenSQLite_PragmasPoolAndSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "guild.db")

	db, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db.DB(): %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	readPragma := func(name string, dst any) {
		t.Helper()
		if err := db.Raw("PRAGMA " + name + ";").Row().Scan(dst); err != nil {
			t.Fatalf("PRAGMA %s: %v", name, err)
		}
	}

	var journalMode string
	readPragma("journal_mode", &journalMode)
	if strings.ToLower(journalMode) != "wal" {
		t.Fatalf("journal_mode = %q, want wal", journalMode)
	}

	var syncVal int
	readPragma("synchronous", &syncVal)
	if syncVal != 1 { // NORMAL
		t.Fatalf("synchronous = %d, want 1", syncVal)
	}

	var fkOn int
	readPragma("foreign_keys", &fkOn)
	if fkOn != 1 {
		t.Fatalf("foreign_keys = %d, want 1", fkOn)
	}

	var busyMS int
	readPragma("busy_timeout", &busyMS)
	if busyMS != 5000 {
		t.Fatalf("busy_timeout = %d, want 5000", busyMS)
	}

	if stats := sqlDB.Stats(); stats.MaxOpenConnections != 10 {
		t.Fatalf("MaxOpenConnections = %d, want 10", stats.MaxOpenConnections)
	}

	if err := AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}
	m := db.Migrator()
	for _, model := range []any{&domain.Character{}, &domain.CraftRequest{}, &domain.AuditEntry{}, &domain.Session{}, &domain.Idempotency{}} {
		if !m.HasTable(model) {
			t.Fatalf("missing table for %T", model)
		}
	}

	// Round-trip one row per table that the lifecycle touches to prove the
	// migrated schema is actually usable.
	now := time.Now().UTC()
	req := &domain.CraftRequest{
		ID: "req-1", RequesterID: "crafter-1", CharacterName: "Vexa",
		Profession: "tailoring", GearSlot: "legs", ItemID: "item-9", ItemLabel: "Runed Leggings",
		QuantityRequested: 1, Status: domain.StatusOpen,
		CreatedAt: now, UpdatedAt: now,
	}
	if err := db.Create(req).Error; err != nil {
		t.Fatalf("insert request: %v", err)
	}
	entry := &domain.AuditEntry{RequestID: "req-1", Action: "created", ActorID: "crafter-1", CreatedAt: now}
	if err := db.Create(entry).Error; err != nil {
		t.Fatalf("insert audit entry: %v", err)
	}
	idem := &domain.Idempotency{
		ID: "idem-1", UserID: "crafter-1", Scope: "req-1", Key: "create-1",
		RequestID: "req-1", CreatedAt: now, ExpiresAt: now.Add(time.Hour),
	}
	if err := db.Create(idem).Error; err != nil {
		t.Fatalf("insert idempotency: %v", err)
	}

	var got domain.CraftRequest
	if err := db.First(&got, "id = ?", "req-1").Error; err != nil || got.RequesterID != "crafter-1" {
		t.Fatalf("readback request: err=%v got=%+v", err, got)
	}
}

package database

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func newTestDatabase(t *testing.T) *Database {
	t.Helper()
	db, err := New(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("New() returned error: %v", err)
	}
	t.Cleanup(db.Close)
	return db
}

func TestSaveAndGetCalculations(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()

	if _, err := db.SaveCalculation(ctx, CalculationKindEnergy, []byte(`{"pvSize":10}`), []byte(`{"total":1}`)); err != nil {
		t.Fatalf("SaveCalculation() returned error: %v", err)
	}
	if _, err := db.SaveCalculation(ctx, CalculationKindFunding, []byte(`{"totalCosts":35000}`), []byte(`{"totalFunding":2}`)); err != nil {
		t.Fatalf("SaveCalculation() returned error: %v", err)
	}
	lastId, err := db.SaveCalculation(ctx, CalculationKindEnergy, []byte(`{"pvSize":12}`), []byte(`{"total":3}`))
	if err != nil {
		t.Fatalf("SaveCalculation() returned error: %v", err)
	}

	all, err := db.GetCalculations(ctx, "", 10)
	if err != nil {
		t.Fatalf("GetCalculations() returned error: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d rows, wanted 3", len(all))
	}
	if all[0].Id != lastId {
		t.Errorf("got first row id %d, wanted the newest %d", all[0].Id, lastId)
	}
	if string(all[0].Inputs) != `{"pvSize":12}` {
		t.Errorf("got inputs %s", all[0].Inputs)
	}
	if all[0].CreatedAt.IsZero() {
		t.Errorf("created_at not round-tripped")
	}

	energy, err := db.GetCalculations(ctx, CalculationKindEnergy, 10)
	if err != nil {
		t.Fatalf("GetCalculations() returned error: %v", err)
	}
	if len(energy) != 2 {
		t.Errorf("got %d energy rows, wanted 2", len(energy))
	}

	limited, err := db.GetCalculations(ctx, "", 1)
	if err != nil {
		t.Fatalf("GetCalculations() returned error: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("got %d rows, wanted the limit of 1", len(limited))
	}
}

func TestPurgeCalculations(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := db.SaveCalculation(ctx, CalculationKindEnergy, []byte(`{}`), []byte(`{}`)); err != nil {
			t.Fatalf("SaveCalculation() returned error: %v", err)
		}
	}

	if err := db.PurgeCalculations(ctx, 2); err != nil {
		t.Fatalf("PurgeCalculations() returned error: %v", err)
	}

	rows, err := db.GetCalculations(ctx, "", 10)
	if err != nil {
		t.Fatalf("GetCalculations() returned error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows after purge, wanted 2", len(rows))
	}
	if rows[0].Id <= rows[1].Id {
		t.Errorf("purge should keep the newest rows, got ids %d, %d", rows[0].Id, rows[1].Id)
	}
}

func TestSaveAndGetLogEntries(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()

	entries := []LogEntryRow{
		{Timestamp: time.Now(), Level: int(slog.LevelInfo), Message: "first", Attrs: ""},
		{Timestamp: time.Now(), Level: int(slog.LevelWarn), Message: "second", Attrs: `[{"module":"www"}]`},
		{Timestamp: time.Now(), Level: int(slog.LevelError), Message: "third", Attrs: ""},
	}
	for _, e := range entries {
		if err := db.SaveLogEntry(ctx, e); err != nil {
			t.Fatalf("SaveLogEntry() returned error: %v", err)
		}
	}

	got, err := db.GetLogEntries(ctx, slog.LevelWarn, 1, 10)
	if err != nil {
		t.Fatalf("GetLogEntries() returned error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d entries at WARN+, wanted 2", len(got))
	}
	if got[0].Message != "third" || got[1].Message != "second" {
		t.Errorf("got entries %q, %q, wanted newest first", got[0].Message, got[1].Message)
	}
	if got[1].Attrs != `[{"module":"www"}]` {
		t.Errorf("got attrs %q", got[1].Attrs)
	}
}

func TestPurgeLog(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()

	for i := 0; i < 8; i++ {
		if err := db.SaveLogEntry(ctx, LogEntryRow{Timestamp: time.Now(), Level: int(slog.LevelInfo), Message: "entry"}); err != nil {
			t.Fatalf("SaveLogEntry() returned error: %v", err)
		}
	}

	if err := db.PurgeLog(ctx, 3); err != nil {
		t.Fatalf("PurgeLog() returned error: %v", err)
	}

	got, err := db.GetLogEntries(ctx, slog.LevelDebug, 1, 100)
	if err != nil {
		t.Fatalf("GetLogEntries() returned error: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("got %d entries after purge, wanted 3", len(got))
	}
}

func TestBackup(t *testing.T) {
	dir := t.TempDir()
	db, err := New(context.Background(), filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("New() returned error: %v", err)
	}
	t.Cleanup(db.Close)

	if err := db.Backup(context.Background()); err != nil {
		t.Fatalf("Backup() returned error: %v", err)
	}

	files, err := os.ReadDir(filepath.Join(dir, "backups"))
	if err != nil {
		t.Fatalf("read backups directory: %v", err)
	}
	var zips int
	for _, f := range files {
		if strings.HasSuffix(f.Name(), ".zip") {
			zips++
		}
	}
	if zips != 1 {
		t.Errorf("got %d zip files, wanted 1", zips)
	}

	// Fresh backups survive the retention purge.
	if err := db.PurgeBackups(context.Background(), 1); err != nil {
		t.Fatalf("PurgeBackups() returned error: %v", err)
	}
	files, err = os.ReadDir(filepath.Join(dir, "backups"))
	if err != nil {
		t.Fatalf("read backups directory: %v", err)
	}
	if len(files) != 1 {
		t.Errorf("got %d files after purge, wanted 1", len(files))
	}
}

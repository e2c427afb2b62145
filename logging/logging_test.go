package logging

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/max42watt/pv-calculator/database"
)

func newTestDatabase(t *testing.T) *database.Database {
	t.Helper()
	db, err := database.New(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("New() returned error: %v", err)
	}
	t.Cleanup(db.Close)
	return db
}

func TestSQLiteHandlerPersistsBoundAttrs(t *testing.T) {
	db := newTestDatabase(t)
	logger := slog.New(NewSQLiteHandler(db, slog.LevelWarn, LogAttrFormatJSON)).With("module", "www")

	logger.Info("below the sink level")
	logger.Warn("boom", "count", 2)

	entries, err := db.GetLogEntries(context.Background(), slog.LevelDebug, 1, 10)
	if err != nil {
		t.Fatalf("GetLogEntries() returned error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, wanted 1", len(entries))
	}
	if entries[0].Message != "boom" {
		t.Errorf("got message %q, wanted boom", entries[0].Message)
	}
	if entries[0].Level != int(slog.LevelWarn) {
		t.Errorf("got level %d, wanted %d", entries[0].Level, int(slog.LevelWarn))
	}
	if entries[0].Attrs != `{"count":"2","module":"www"}` {
		t.Errorf("got attrs %s", entries[0].Attrs)
	}
}

func TestSQLiteHandlerTextFormat(t *testing.T) {
	db := newTestDatabase(t)
	logger := slog.New(NewSQLiteHandler(db, slog.LevelInfo, LogAttrFormatText))

	logger.Warn("rejected", "reason", "rate=30;capped")

	entries, err := db.GetLogEntries(context.Background(), slog.LevelDebug, 1, 10)
	if err != nil {
		t.Fatalf("GetLogEntries() returned error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, wanted 1", len(entries))
	}
	if want := `reason=rate\=30\;capped`; entries[0].Attrs != want {
		t.Errorf("got attrs %s, wanted %s", entries[0].Attrs, want)
	}
}

func TestSQLiteHandlerGroupPrefix(t *testing.T) {
	db := newTestDatabase(t)
	logger := slog.New(NewSQLiteHandler(db, slog.LevelInfo, LogAttrFormatJSON)).WithGroup("request").With("id", 7)

	logger.Info("handled", "kind", "energy")

	entries, err := db.GetLogEntries(context.Background(), slog.LevelDebug, 1, 10)
	if err != nil {
		t.Fatalf("GetLogEntries() returned error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, wanted 1", len(entries))
	}
	if entries[0].Attrs != `{"request.id":"7","request.kind":"energy"}` {
		t.Errorf("got attrs %s", entries[0].Attrs)
	}
}

type stubHandler struct {
	level   slog.Level
	err     error
	handled []string
}

func (s *stubHandler) Enabled(_ context.Context, level slog.Level) bool { return level >= s.level }

func (s *stubHandler) Handle(_ context.Context, r slog.Record) error {
	s.handled = append(s.handled, r.Message)
	return s.err
}

func (s *stubHandler) WithAttrs([]slog.Attr) slog.Handler { return s }

func (s *stubHandler) WithGroup(string) slog.Handler { return s }

func TestMultiHandlerRoutesByChildLevel(t *testing.T) {
	console := &stubHandler{level: slog.LevelDebug}
	sink := &stubHandler{level: slog.LevelError}
	h := NewMultiHandler(console, sink)

	if !h.Enabled(context.Background(), slog.LevelDebug) {
		t.Errorf("handler should be enabled when any child is")
	}

	r := slog.NewRecord(time.Now(), slog.LevelInfo, "routine", 0)
	if err := h.Handle(context.Background(), r); err != nil {
		t.Fatalf("Handle() returned error: %v", err)
	}
	if len(console.handled) != 1 || console.handled[0] != "routine" {
		t.Errorf("console got %v, wanted the record", console.handled)
	}
	if len(sink.handled) != 0 {
		t.Errorf("sink got %v, wanted nothing below its level", sink.handled)
	}
}

func TestMultiHandlerJoinsSinkErrors(t *testing.T) {
	errConsole := errors.New("console down")
	errSink := errors.New("sink down")
	h := NewMultiHandler(
		&stubHandler{level: slog.LevelDebug, err: errConsole},
		&stubHandler{level: slog.LevelDebug, err: errSink},
	)

	err := h.Handle(context.Background(), slog.NewRecord(time.Now(), slog.LevelError, "boom", 0))
	if !errors.Is(err, errConsole) || !errors.Is(err, errSink) {
		t.Errorf("got %v, wanted both sink errors joined", err)
	}
}

func TestLevelFromString(t *testing.T) {
	ptr := func(s string) *string { return &s }
	tests := []struct {
		name string
		in   *string
		want slog.Level
	}{
		{"nil defaults to info", nil, slog.LevelInfo},
		{"lower case", ptr("debug"), slog.LevelDebug},
		{"upper case", ptr("WARN"), slog.LevelWarn},
		{"mixed case", ptr("Error"), slog.LevelError},
		{"offset syntax", ptr("warn+2"), slog.LevelWarn + 2},
		{"unknown defaults to info", ptr("verbose"), slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LevelFromString(tt.in); got != tt.want {
				t.Errorf("got %v, wanted %v", got, tt.want)
			}
		})
	}
}

package logging

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/max42watt/pv-calculator/database"
)

type LogAttrFormat string

const (
	LogAttrFormatText LogAttrFormat = "TEXT"
	LogAttrFormatJSON LogAttrFormat = "JSON"
)

// SQLiteHandler persists log records into the application database so the
// office can inspect them through the API without shell access. Attrs bound
// with Logger.With — the per-module child loggers — are stored alongside
// the record's own, so entries stay filterable by origin.
type SQLiteHandler struct {
	db       *database.Database
	minLevel slog.Level
	format   LogAttrFormat
	prefix   string      // open group path, empty at the root
	bound    []slog.Attr // attrs from WithAttrs, keys already prefixed
}

func NewSQLiteHandler(db *database.Database, minLevel slog.Level, format LogAttrFormat) *SQLiteHandler {
	return &SQLiteHandler{db: db, minLevel: minLevel, format: format}
}

func (h *SQLiteHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.minLevel
}

func (h *SQLiteHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level < h.minLevel {
		return nil
	}

	attrs := make([]slog.Attr, 0, len(h.bound)+r.NumAttrs())
	attrs = append(attrs, h.bound...)
	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, slog.String(h.prefix+a.Key, a.Value.String()))
		return true
	})

	return h.db.SaveLogEntry(ctx, database.LogEntryRow{
		Timestamp: time.Now(),
		Level:     int(r.Level),
		Message:   r.Message,
		Attrs:     h.formatAttrs(attrs),
	})
}

func (h *SQLiteHandler) formatAttrs(attrs []slog.Attr) string {
	if len(attrs) == 0 {
		return ""
	}

	if h.format == LogAttrFormatText {
		var b strings.Builder
		for i, a := range attrs {
			if i > 0 {
				b.WriteString("; ")
			}
			b.WriteString(a.Key)
			b.WriteString("=")
			b.WriteString(escapeAttrValue(a.Value.String()))
		}
		return b.String()
	}

	// Later duplicates win; good enough for a log sink.
	m := make(map[string]string, len(attrs))
	for _, a := range attrs {
		m[a.Key] = a.Value.String()
	}
	buf, err := json.Marshal(m)
	if err != nil {
		return `{"error":"unencodable attrs"}`
	}
	return string(buf)
}

func escapeAttrValue(v string) string {
	v = strings.ReplaceAll(v, "=", "\\=")
	return strings.ReplaceAll(v, ";", "\\;")
}

func (h *SQLiteHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	h2 := *h
	h2.bound = make([]slog.Attr, 0, len(h.bound)+len(attrs))
	h2.bound = append(h2.bound, h.bound...)
	for _, a := range attrs {
		// Values are resolved at bind time; the sink only stores strings.
		h2.bound = append(h2.bound, slog.String(h.prefix+a.Key, a.Value.String()))
	}
	return &h2
}

func (h *SQLiteHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := *h
	h2.prefix = h.prefix + name + "."
	return &h2
}

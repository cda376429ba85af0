package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyPage       = "page"
	KeyTemplate   = "template"
	KeyPath       = "path"
	KeyOutput     = "output"
	KeyEvent      = "event"
	KeyPages      = "pages"
	KeyDurationMS = "duration_ms"
	KeyPort       = "port"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Page(p string) slog.Attr          { return slog.String(KeyPage, p) }
func Template(t string) slog.Attr      { return slog.String(KeyTemplate, t) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func Output(o string) slog.Attr        { return slog.String(KeyOutput, o) }
func Event(e string) slog.Attr         { return slog.String(KeyEvent, e) }
func Pages(n int) slog.Attr            { return slog.Int(KeyPages, n) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }
func Port(p int) slog.Attr             { return slog.Int(KeyPort, p) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}

package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeyStage      = "stage"
	KeyPage       = "page"
	KeySource     = "source"
	KeyOutput     = "output"
	KeyLang       = "lang"
	KeyTargetLang = "target_lang"
	KeyDurationMS = "duration_ms"
	KeyCount      = "count"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr      { return slog.String(KeyBuildID, id) }
func Stage(name string) slog.Attr      { return slog.String(KeyStage, name) }
func Page(p string) slog.Attr          { return slog.String(KeyPage, p) }
func Source(p string) slog.Attr        { return slog.String(KeySource, p) }
func Output(p string) slog.Attr        { return slog.String(KeyOutput, p) }
func Lang(l string) slog.Attr          { return slog.String(KeyLang, l) }
func TargetLang(l string) slog.Attr    { return slog.String(KeyTargetLang, l) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }
func Count(n int) slog.Attr            { return slog.Int(KeyCount, n) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}

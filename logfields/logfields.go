package logfields

import (
	"log/slog"
	"time"
)

// Canonical log field names shared by the build, serve and start commands.
const (
	KeyRunID       = "run_id"
	KeyPathname    = "pathname"
	KeyFile        = "file"
	KeyBundle      = "bundle"
	KeyConcurrency = "concurrency"
	KeyPages       = "pages"
	KeyDurationMS  = "duration_ms"
	KeyURL         = "url"
	KeyLink        = "link"
	KeyAddr        = "addr"
	KeyError       = "error"
)

func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Pathname(p string) slog.Attr     { return slog.String(KeyPathname, p) }
func File(f string) slog.Attr         { return slog.String(KeyFile, f) }
func Bundle(b string) slog.Attr       { return slog.String(KeyBundle, b) }
func Concurrency(n int) slog.Attr     { return slog.Int(KeyConcurrency, n) }
func Pages(n int) slog.Attr           { return slog.Int(KeyPages, n) }
func URL(u string) slog.Attr          { return slog.String(KeyURL, u) }
func Link(l string) slog.Attr         { return slog.String(KeyLink, l) }
func Addr(a string) slog.Attr         { return slog.String(KeyAddr, a) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Since(start time.Time) slog.Attr { return DurationMS(float64(time.Since(start).Microseconds()) / 1000) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}

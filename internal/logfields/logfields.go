// Package logfields defines canonical log field name constants to avoid
// drift across packages.
package logfields

import "log/slog"

const (
	KeyBuildID    = "build_id"
	KeyTaskID     = "task_id"
	KeyTaskType   = "task_type"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyRepo       = "repository"
	KeyDocument   = "document"
	KeyAsset      = "asset"
	KeyTemplate   = "template"
	KeyPath       = "path"
	KeyURL        = "url"
	KeyMethod     = "method"
	KeyStatus     = "status"
	KeyRemoteAddr = "remote_addr"
	KeyUserAgent  = "user_agent"
	KeySubject    = "subject"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr      { return slog.String(KeyBuildID, id) }
func TaskID(id string) slog.Attr       { return slog.String(KeyTaskID, id) }
func TaskType(t string) slog.Attr      { return slog.String(KeyTaskType, t) }
func Stage(name string) slog.Attr      { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }
func Repository(r string) slog.Attr    { return slog.String(KeyRepo, r) }
func Document(d string) slog.Attr      { return slog.String(KeyDocument, d) }
func Asset(a string) slog.Attr         { return slog.String(KeyAsset, a) }
func Template(name string) slog.Attr   { return slog.String(KeyTemplate, name) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func URL(u string) slog.Attr           { return slog.String(KeyURL, u) }
func Method(m string) slog.Attr        { return slog.String(KeyMethod, m) }
func Status(code int) slog.Attr        { return slog.Int(KeyStatus, code) }
func RemoteAddr(addr string) slog.Attr { return slog.String(KeyRemoteAddr, addr) }
func UserAgent(ua string) slog.Attr    { return slog.String(KeyUserAgent, ua) }
func Subject(s string) slog.Attr       { return slog.String(KeySubject, s) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}

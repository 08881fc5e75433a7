package server

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/kcuzner/rstblog/internal/queue"
)

// SignatureHeader carries the hex HMAC-SHA256 of the raw request body,
// prefixed with "sha256=".
const SignatureHeader = "X-Signature-256"

const signaturePrefix = "sha256="

// Enqueuer publishes tasks. Implemented by the queue publisher.
type Enqueuer interface {
	Enqueue(task queue.Task) error
}

// handleRefresh verifies the request signature against the shared secret
// and enqueues a rebuild. An absent signature is a malformed request (400);
// a present but wrong signature is an authentication failure (401). Nothing
// is enqueued unless verification succeeds.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		http.Error(w, "failed to read request body", http.StatusBadRequest)
		return
	}

	header := r.Header.Get(SignatureHeader)
	if header == "" {
		slog.Warn("Refresh rejected, missing signature", slog.String("remote_addr", r.RemoteAddr))
		http.Error(w, "missing "+SignatureHeader+" header", http.StatusBadRequest)
		return
	}
	if !verifySignature(s.secret, body, header) {
		slog.Warn("Refresh rejected, bad signature", slog.String("remote_addr", r.RemoteAddr))
		http.Error(w, "signature mismatch", http.StatusUnauthorized)
		return
	}

	s.enqueueUpdate(w, "webhook")
}

// handleTest triggers a rebuild without authentication. Routed only when no
// secret is configured.
func (s *Server) handleTest(w http.ResponseWriter, r *http.Request) {
	s.enqueueUpdate(w, "test")
}

func (s *Server) enqueueUpdate(w http.ResponseWriter, trigger string) {
	if err := s.enqueuer.Enqueue(queue.NewTask(queue.TaskUpdate, trigger)); err != nil {
		slog.Error("Failed to enqueue rebuild", slog.String("trigger", trigger), slog.Any("error", err))
		http.Error(w, "failed to enqueue rebuild", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":    "queued",
		"trigger":   trigger,
		"timestamp": time.Now().UTC(),
	})
}

// verifySignature checks an HMAC-SHA256 signature in constant time.
func verifySignature(secret string, body []byte, header string) bool {
	provided, ok := strings.CutPrefix(header, signaturePrefix)
	if !ok {
		return false
	}
	decoded, err := hex.DecodeString(provided)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hmac.Equal(decoded, mac.Sum(nil))
}

// Sign computes the signature header value for a payload. Exposed for
// clients and tests.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return signaturePrefix + hex.EncodeToString(mac.Sum(nil))
}

package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kcuzner/rstblog/internal/eventstore"
	"github.com/kcuzner/rstblog/internal/queue"
)

type fakeEnqueuer struct {
	tasks []queue.Task
	err   error
}

func (f *fakeEnqueuer) Enqueue(task queue.Task) error {
	if f.err != nil {
		return f.err
	}
	f.tasks = append(f.tasks, task)
	return nil
}

func (f *fakeEnqueuer) triggers() []string {
	var out []string
	for _, task := range f.tasks {
		out = append(out, task.Trigger)
	}
	return out
}

func newTestServer(t *testing.T, secret string) (*Server, *fakeEnqueuer) {
	t.Helper()
	enq := &fakeEnqueuer{}
	srv := New(Options{Listen: ":0", Secret: secret}, enq)
	return srv, enq
}

func TestRefreshMissingSignature(t *testing.T) {
	srv, enq := newTestServer(t, "topsecret")

	req := httptest.NewRequest(http.MethodPost, "/refresh", strings.NewReader("{}"))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, enq.tasks)
}

func TestRefreshBadSignature(t *testing.T) {
	srv, enq := newTestServer(t, "topsecret")

	body := `{"ref":"refs/heads/main"}`
	req := httptest.NewRequest(http.MethodPost, "/refresh", strings.NewReader(body))
	req.Header.Set(SignatureHeader, Sign("wrong-secret", []byte(body)))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, enq.tasks)
}

func TestRefreshTamperedBody(t *testing.T) {
	srv, enq := newTestServer(t, "topsecret")

	req := httptest.NewRequest(http.MethodPost, "/refresh", strings.NewReader(`{"tampered":true}`))
	req.Header.Set(SignatureHeader, Sign("topsecret", []byte(`{"original":true}`)))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, enq.tasks)
}

func TestRefreshValidSignatureEnqueues(t *testing.T) {
	srv, enq := newTestServer(t, "topsecret")

	body := `{"ref":"refs/heads/main"}`
	req := httptest.NewRequest(http.MethodPost, "/refresh", strings.NewReader(body))
	req.Header.Set(SignatureHeader, Sign("topsecret", []byte(body)))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, []string{"webhook"}, enq.triggers())
	require.Len(t, enq.tasks, 1)
	assert.Equal(t, queue.TaskUpdate, enq.tasks[0].Type)
}

func TestTestEndpointOnlyWithoutSecret(t *testing.T) {
	withSecret, enq := newTestServer(t, "topsecret")
	rec := httptest.NewRecorder()
	withSecret.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/test", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, enq.tasks)

	noSecret, enq := newTestServer(t, "")
	rec = httptest.NewRecorder()
	noSecret.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/test", nil))
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, []string{"test"}, enq.triggers())
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t, "s")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBuildsEndpoint(t *testing.T) {
	store, err := eventstore.Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.RecordStart(ctx, "b1", "webhook"))
	require.NoError(t, store.RecordOutcome(ctx, "b1", 250*time.Millisecond, nil))

	srv := New(Options{Listen: ":0", Secret: "s", History: store}, &fakeEnqueuer{})
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/builds", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var builds []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &builds))
	require.Len(t, builds, 1)
	assert.Equal(t, "b1", builds[0]["id"])
	assert.Equal(t, eventstore.StatusSucceeded, builds[0]["status"])
}

func TestSignRoundTrip(t *testing.T) {
	body := []byte("payload")
	assert.True(t, verifySignature("k", body, Sign("k", body)))
	assert.False(t, verifySignature("k", body, "sha256=zz"))
	assert.False(t, verifySignature("k", body, "md5=abc"))
}

package app

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockdesk/stockdesk/internal/shared"
)

func newSessionManager(t *testing.T) *shared.SessionManager {
	t.Helper()
	mr := miniredis.RunT(t)
	return shared.NewSessionManager(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "sid", "secret", time.Hour, false)
}

func TestLoadSessionCommitsBeforeHeader(t *testing.T) {
	sessions := newSessionManager(t)
	handler := loadSession(sessions, slog.Default())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		shared.SessionFromContext(r.Context()).AddFlash(shared.FlashMessage{Kind: shared.FlashSuccess, Message: "Saved."})
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	require.Equal(t, http.StatusNoContent, rec.Code)

	next := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		next.AddCookie(c)
	}
	sess, err := sessions.Load(context.Background(), next)
	require.NoError(t, err)
	flash := sess.PopFlash()
	require.NotNil(t, flash)
	assert.Equal(t, "Saved.", flash.Message)
}

func TestRequireCSRF(t *testing.T) {
	sessions := newSessionManager(t)
	csrf := shared.NewCSRFManager("csrf-secret")
	sess, err := sessions.Load(context.Background(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	token, err := csrf.EnsureToken(context.Background(), sess)
	require.NoError(t, err)

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusAccepted) })
	guard := requireCSRF(csrf, slog.Default())(ok)
	send := func(method string, header http.Header) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, "/jobs/snapshot/areas", nil)
		for k, values := range header {
			for _, v := range values {
				req.Header.Add(k, v)
			}
		}
		req = req.WithContext(shared.ContextWithSession(req.Context(), sess))
		rec := httptest.NewRecorder()
		guard.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusAccepted, send(http.MethodGet, nil).Code)
	assert.Equal(t, http.StatusAccepted, send(http.MethodPost, http.Header{shared.CSRFHeader: {token}}).Code)

	rejected := send(http.MethodPost, http.Header{"Accept": {"application/json"}})
	assert.Equal(t, http.StatusForbidden, rejected.Code)
	assert.Equal(t, "application/problem+json", rejected.Header().Get("Content-Type"))

	plain := send(http.MethodPost, http.Header{shared.CSRFHeader: {"forged"}})
	assert.Equal(t, http.StatusForbidden, plain.Code)
	assert.Contains(t, plain.Header().Get("Content-Type"), "text/plain")
}

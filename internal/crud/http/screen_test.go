package crudhttp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockdesk/stockdesk/internal/crud"
	"github.com/stockdesk/stockdesk/internal/shared"
	"github.com/stockdesk/stockdesk/internal/upstream"
	"github.com/stockdesk/stockdesk/internal/view"
)

type gadget struct {
	ID   *int64
	Name string `validate:"notblank"`
}

func (g gadget) Identity() (int64, bool) {
	if g.ID == nil {
		return 0, false
	}
	return *g.ID, true
}

func (g gadget) Clone() gadget {
	out := g
	if g.ID != nil {
		id := *g.ID
		out.ID = &id
	}
	return out
}

type gadgetForm struct{}

func (gadgetForm) Fields(g gadget, _ Lookups) []Field {
	return []Field{{Name: "name", Label: "Name", Type: "text", Value: g.Name, Required: true}}
}

func (gadgetForm) Bind(values url.Values, g *gadget) error {
	id, err := ParseID(values)
	if err != nil {
		return err
	}
	g.ID = id
	g.Name = values.Get("name")
	return nil
}

type gadgetStore struct {
	mu      sync.Mutex
	items   []gadget
	methods []string
	session string
	delErr  error

	failListAfterDelete bool
}

func (s *gadgetStore) Path() string { return "/api/gadgets" }

func (s *gadgetStore) log(ctx context.Context, method string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.methods = append(s.methods, method)
	s.session = upstream.SessionFrom(ctx)
}

func (s *gadgetStore) Methods() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.methods...)
}

func (s *gadgetStore) List(ctx context.Context) ([]gadget, error) {
	s.log(ctx, http.MethodGet)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failListAfterDelete {
		for _, m := range s.methods {
			if strings.HasPrefix(m, http.MethodDelete) {
				return nil, errors.New("connection reset")
			}
		}
	}
	return append([]gadget(nil), s.items...), nil
}

func (s *gadgetStore) Create(ctx context.Context, g gadget) (gadget, error) {
	s.log(ctx, http.MethodPost)
	s.mu.Lock()
	defer s.mu.Unlock()
	id := int64(len(s.items) + 1)
	g.ID = &id
	s.items = append(s.items, g)
	return g, nil
}

func (s *gadgetStore) Update(ctx context.Context, id int64, g gadget) (gadget, error) {
	s.log(ctx, http.MethodPut+" "+strconv.FormatInt(id, 10))
	return g, nil
}

func (s *gadgetStore) Delete(ctx context.Context, id int64) error {
	s.log(ctx, http.MethodDelete+" "+strconv.FormatInt(id, 10))
	return s.delErr
}

type harness struct {
	audit    *bytes.Buffer
	router   http.Handler
	store    *gadgetStore
	sessions *shared.SessionManager
	sess     *shared.Session
}

func newHarness(t *testing.T, signedIn bool) *harness {
	t.Helper()
	mr := miniredis.RunT(t)
	sessions := shared.NewSessionManager(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "test_session", "secret", time.Hour, false)
	sess, err := sessions.Load(context.Background(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	if signedIn {
		sess.SignIn("admin", "api-cookie")
	}

	templates, err := view.NewEngine()
	require.NoError(t, err)

	one, two := int64(1), int64(2)
	store := &gadgetStore{items: []gadget{{ID: &one, Name: "Sprocket"}, {ID: &two, Name: "Widget"}}}
	cfg := crud.Config[gadget]{
		Entity:   "gadgets",
		Title:    "Gadgets",
		Noun:     "gadget",
		Store:    store,
		Blank:    func() gadget { return gadget{} },
		Validate: func(g gadget) error { return crud.Required(g, "The gadget name is required.") },
		Columns: []crud.Column[gadget]{
			crud.IDColumn(func(g gadget) *int64 { return g.ID }),
			{Header: "Name", Text: func(g gadget) string { return g.Name }},
		},
		SearchFields:     func(g gadget) []string { return []string{g.Name} },
		ConflictFallback: "In use.",
	}
	audit := new(bytes.Buffer)
	deps := Deps{
		Templates:   templates,
		CSRF:        shared.NewCSRFManager("csrf"),
		Audit:       shared.NewAuditLogger(slog.New(slog.NewTextHandler(audit, nil))),
		Idempotency: shared.NewIdempotencyStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Minute),
	}
	screen := NewScreen[gadget](deps, "/gadgets", cfg, gadgetForm{}, nil)
	screen.now = func() time.Time { return time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC) }

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(shared.ContextWithSession(req.Context(), sess)))
		})
	})
	r.Route(screen.Base(), screen.MountRoutes)
	return &harness{audit: audit, router: r, store: store, sessions: sessions, sess: sess}
}

func (h *harness) do(method, target string, form url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	res := httptest.NewRecorder()
	h.router.ServeHTTP(res, req)
	return res
}

func TestScreenRequiresSession(t *testing.T) {
	h := newHarness(t, false)
	res := h.do(http.MethodGet, "/gadgets/", nil)
	assert.Equal(t, http.StatusSeeOther, res.Code)
	assert.Equal(t, LoginPath, res.Header().Get("Location"))
	assert.Empty(t, h.store.Methods())
}

func TestListRendersFilteredRows(t *testing.T) {
	h := newHarness(t, true)
	res := h.do(http.MethodGet, "/gadgets/?q=SPROCK", nil)
	require.Equal(t, http.StatusOK, res.Code)
	body := res.Body.String()
	assert.Contains(t, body, "Sprocket")
	assert.NotContains(t, body, "<td>Widget</td>")
	assert.Contains(t, body, "1 of 2 shown")
	assert.Equal(t, "api-cookie", h.store.session)
}

func TestListPaginatesRows(t *testing.T) {
	h := newHarness(t, true)
	h.store.items = nil
	for i := 1; i <= shared.DefaultPerPage+5; i++ {
		id := int64(i)
		h.store.items = append(h.store.items, gadget{ID: &id, Name: fmt.Sprintf("Gadget %03d", i)})
	}

	res := h.do(http.MethodGet, "/gadgets/?page=2", nil)
	require.Equal(t, http.StatusOK, res.Code)
	body := res.Body.String()
	assert.Contains(t, body, "Gadget 055")
	assert.NotContains(t, body, "<td>Gadget 001</td>")
	assert.Contains(t, body, "Page 2 of 2")
	assert.Contains(t, body, "55 of 55 shown")
}

func TestNewOpensForm(t *testing.T) {
	h := newHarness(t, true)
	res := h.do(http.MethodGet, "/gadgets/new", nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), "New gadget")
	assert.Contains(t, res.Body.String(), `action="/gadgets/save"`)
}

func TestSaveValidationFailureKeepsFormOpen(t *testing.T) {
	h := newHarness(t, true)
	res := h.do(http.MethodPost, "/gadgets/save", url.Values{"name": {"   "}})
	assert.Equal(t, http.StatusUnprocessableEntity, res.Code)
	assert.Contains(t, res.Body.String(), "The gadget name is required.")
	assert.Contains(t, res.Body.String(), `action="/gadgets/save"`)
	assert.NotContains(t, h.store.Methods(), http.MethodPost)
}

func TestSaveCreatesAndRedirectsWithFlash(t *testing.T) {
	h := newHarness(t, true)
	res := h.do(http.MethodPost, "/gadgets/save", url.Values{"name": {"Gizmo"}})
	assert.Equal(t, http.StatusSeeOther, res.Code)
	assert.Equal(t, "/gadgets", res.Header().Get("Location"))
	assert.Equal(t, []string{http.MethodPost, http.MethodGet}, h.store.Methods())

	flash := h.sess.PopFlash()
	require.NotNil(t, flash)
	assert.Equal(t, shared.FlashSuccess, flash.Kind)
	assert.Equal(t, "The gadget was created successfully.", flash.Message)
}

func TestSaveIgnoresDoubleSubmit(t *testing.T) {
	h := newHarness(t, true)
	form := url.Values{"name": {"Gizmo"}, shared.IdempotencyFormField: {"key-1"}}

	first := h.do(http.MethodPost, "/gadgets/save", form)
	assert.Equal(t, http.StatusSeeOther, first.Code)
	_ = h.sess.PopFlash()

	second := h.do(http.MethodPost, "/gadgets/save", form)
	assert.Equal(t, http.StatusSeeOther, second.Code)
	assert.Equal(t, []string{http.MethodPost, http.MethodGet}, h.store.Methods())
	flash := h.sess.PopFlash()
	require.NotNil(t, flash)
	assert.Equal(t, "This form was already submitted.", flash.Message)
}

func TestSaveFailureReleasesFormKey(t *testing.T) {
	h := newHarness(t, true)
	blank := url.Values{"name": {" "}, shared.IdempotencyFormField: {"key-2"}}
	res := h.do(http.MethodPost, "/gadgets/save", blank)
	assert.Equal(t, http.StatusUnprocessableEntity, res.Code)
	assert.Contains(t, res.Body.String(), `name="form_key"`)

	fixed := url.Values{"name": {"Gizmo"}, shared.IdempotencyFormField: {"key-2"}}
	res = h.do(http.MethodPost, "/gadgets/save", fixed)
	assert.Equal(t, http.StatusSeeOther, res.Code)
	assert.Contains(t, h.store.Methods(), http.MethodPost)
	assert.Contains(t, h.audit.String(), "action=create")
}

func TestSaveWithIDUpdates(t *testing.T) {
	h := newHarness(t, true)
	res := h.do(http.MethodPost, "/gadgets/save", url.Values{"id": {"2"}, "name": {"Widget II"}})
	assert.Equal(t, http.StatusSeeOther, res.Code)
	assert.Contains(t, h.store.Methods(), "PUT 2")
}

func TestEditUnknownIDRedirects(t *testing.T) {
	h := newHarness(t, true)
	res := h.do(http.MethodGet, "/gadgets/99/edit", nil)
	assert.Equal(t, http.StatusSeeOther, res.Code)
	flash := h.sess.PopFlash()
	require.NotNil(t, flash)
	assert.Equal(t, "The gadget no longer exists.", flash.Message)
}

func TestDeleteNeedsConfirmation(t *testing.T) {
	h := newHarness(t, true)

	page := h.do(http.MethodGet, "/gadgets/1/delete", nil)
	require.Equal(t, http.StatusOK, page.Code)
	assert.Contains(t, page.Body.String(), "Are you sure you want to delete this gadget?")
	assert.Contains(t, page.Body.String(), "Sprocket")

	declined := h.do(http.MethodPost, "/gadgets/1/delete", url.Values{"confirm": {"no"}})
	assert.Equal(t, http.StatusSeeOther, declined.Code)
	assert.NotContains(t, h.store.Methods(), "DELETE 1")

	assert.NotContains(t, h.audit.String(), "action=delete")

	accepted := h.do(http.MethodPost, "/gadgets/1/delete", url.Values{"confirm": {"yes"}})
	assert.Equal(t, http.StatusSeeOther, accepted.Code)
	assert.Contains(t, h.store.Methods(), "DELETE 1")
	assert.Contains(t, h.audit.String(), "action=delete")
	assert.Contains(t, h.audit.String(), "actor=admin")
}

func TestDeleteConflictFlashesServerText(t *testing.T) {
	h := newHarness(t, true)
	h.store.delErr = &upstream.StatusError{Method: http.MethodDelete, Path: "/api/gadgets/1", Status: http.StatusConflict, Body: "Gadget is used by 2 kits"}

	res := h.do(http.MethodPost, "/gadgets/1/delete", url.Values{"confirm": {"yes"}})
	assert.Equal(t, http.StatusSeeOther, res.Code)
	flash := h.sess.PopFlash()
	require.NotNil(t, flash)
	assert.Equal(t, shared.FlashError, flash.Kind)
	assert.Equal(t, "Gadget is used by 2 kits", flash.Message)
}

func TestEveryQueuedNoticeReachesNextPage(t *testing.T) {
	h := newHarness(t, true)
	h.store.failListAfterDelete = true

	res := h.do(http.MethodPost, "/gadgets/1/delete", url.Values{"confirm": {"yes"}})
	require.Equal(t, http.StatusSeeOther, res.Code)

	h.store.mu.Lock()
	h.store.failListAfterDelete = false
	h.store.mu.Unlock()

	page := h.do(http.MethodGet, "/gadgets/", nil)
	require.Equal(t, http.StatusOK, page.Code)
	body := page.Body.String()
	assert.Contains(t, body, "The gadget was deleted successfully.")
	assert.Contains(t, body, "Could not load the gadget list.")
	assert.Less(t, strings.Index(body, "deleted successfully"), strings.Index(body, "Could not load"))
	assert.Nil(t, h.sess.PopFlash())
}

func TestExportDownload(t *testing.T) {
	h := newHarness(t, true)
	res := h.do(http.MethodGet, "/gadgets/export?format=excel", nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, `attachment; filename="gadgets_2024-06-01_09-30-00.xlsx"`, res.Header().Get("Content-Disposition"))
	assert.NotZero(t, res.Body.Len())
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	h := newHarness(t, true)
	res := h.do(http.MethodGet, "/gadgets/export?format=csv", nil)
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, "application/problem+json", res.Header().Get("Content-Type"))
	assert.Empty(t, h.store.Methods())
}

// Package crudhttp serves the list/edit/delete/export screens of the catalog
// entities. Each request builds a fresh controller, so no list state outlives
// one page view.
package crudhttp

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/stockdesk/stockdesk/internal/crud"
	"github.com/stockdesk/stockdesk/internal/export"
	"github.com/stockdesk/stockdesk/internal/observability"
	"github.com/stockdesk/stockdesk/internal/platform/httpx"
	"github.com/stockdesk/stockdesk/internal/shared"
	"github.com/stockdesk/stockdesk/internal/view"
)

const (
	exportRateLimit  = 10
	exportRateWindow = time.Minute
)

// Deps are the collaborators shared by every screen.
// Audit and Idempotency are optional.
type Deps struct {
	Logger      *slog.Logger
	Templates   *view.Engine
	CSRF        *shared.CSRFManager
	Metrics     *observability.Metrics
	Audit       *shared.AuditLogger
	Idempotency *shared.IdempotencyStore
}

// Mounter is implemented by every Screen regardless of its entity type.
type Mounter interface {
	Base() string
	Title() string
	MountRoutes(r chi.Router)
}

// Screen serves one entity under its base path.
type Screen[T crud.Record[T]] struct {
	deps    Deps
	base    string
	cfg     crud.Config[T]
	form    Form[T]
	lookups LookupFunc
	now     func() time.Time
}

// NewScreen builds a screen mounted at base, e.g. "/proveedores".
func NewScreen[T crud.Record[T]](deps Deps, base string, cfg crud.Config[T], form Form[T], lookups LookupFunc) *Screen[T] {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Screen[T]{deps: deps, base: base, cfg: cfg, form: form, lookups: lookups, now: time.Now}
}

// Base returns the mount path.
func (s *Screen[T]) Base() string {
	return s.base
}

// Title returns the entity's human plural.
func (s *Screen[T]) Title() string {
	return s.cfg.Title
}

// MountRoutes registers the screen routes on r, which must already be
// scoped to Base.
func (s *Screen[T]) MountRoutes(r chi.Router) {
	limiter := httprate.Limit(exportRateLimit, exportRateWindow,
		httprate.WithKeyFuncs(rateLimitKey),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			httpx.Problem(w, http.StatusTooManyRequests, "Too Many Requests", "export limit reached, try again shortly")
		}),
	)

	r.Use(RequireSession)
	r.Get("/", s.handleList)
	r.Get("/new", s.handleNew)
	r.Get("/{id}/edit", s.handleEdit)
	r.Post("/save", s.handleSave)
	r.Post("/cancel", s.handleCancel)
	r.Get("/{id}/delete", s.handleConfirmDelete)
	r.Post("/{id}/delete", s.handleDelete)
	r.Group(func(gr chi.Router) {
		gr.Use(limiter)
		gr.Get("/export", s.handleExport)
	})
}

// activate starts one view activation: a fresh controller whose notices are
// collected for the response.
func (s *Screen[T]) activate() (*crud.Controller[T], *crud.Recorder) {
	notices := &crud.Recorder{}
	return crud.New(s.cfg, s.deps.Logger, notices), notices
}

func (s *Screen[T]) handleList(w http.ResponseWriter, r *http.Request) {
	ctrl, notices := s.activate()
	_ = ctrl.Load(r.Context())
	ctrl.SetFilter(r.URL.Query().Get("q"))
	s.renderList(w, r, ctrl, notices, http.StatusOK)
}

func (s *Screen[T]) handleNew(w http.ResponseWriter, r *http.Request) {
	ctrl, notices := s.activate()
	_ = ctrl.Load(r.Context())
	ctrl.StartCreate()
	s.renderList(w, r, ctrl, notices, http.StatusOK)
}

func (s *Screen[T]) handleEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	ctrl, notices := s.activate()
	if err := ctrl.Load(r.Context()); err != nil {
		s.redirect(w, r, notices.Notices())
		return
	}
	record, found := ctrl.Find(id)
	if !found {
		s.redirect(w, r, []crud.Notice{{Level: crud.LevelWarning, Title: "Not found", Text: "The " + s.cfg.Noun + " no longer exists."}})
		return
	}
	ctrl.StartEdit(record)
	s.renderList(w, r, ctrl, notices, http.StatusOK)
}

func (s *Screen[T]) handleSave(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	ctx := r.Context()
	ctrl, notices := s.activate()

	formKey, claimed := r.PostForm.Get(shared.IdempotencyFormField), false
	if s.deps.Idempotency != nil && formKey != "" {
		err := s.deps.Idempotency.CheckAndInsert(ctx, formKey, s.cfg.Entity)
		switch {
		case errors.Is(err, shared.ErrIdempotencyConflict):
			s.redirect(w, r, []crud.Notice{{Level: crud.LevelWarning, Title: "Already submitted", Text: "This form was already submitted."}})
			return
		case err != nil:
			s.deps.Logger.Warn("claim form key", slog.String("entity", s.cfg.Entity), slog.Any("error", err))
		default:
			claimed = true
		}
	}
	release := func() {
		if claimed {
			if err := s.deps.Idempotency.Delete(ctx, formKey, s.cfg.Entity); err != nil {
				s.deps.Logger.Warn("release form key", slog.Any("error", err))
			}
		}
	}

	id, err := ParseID(r.PostForm)
	if err != nil {
		release()
		s.rejectInput(r, notices, err)
		s.failSave(w, r, ctrl, notices, err)
		return
	}
	if id != nil {
		// Edits start from the stored record so fields the form does not
		// carry, such as reference names, survive the update.
		if loadErr := ctrl.Load(ctx); loadErr == nil {
			if record, found := ctrl.Find(*id); found {
				ctrl.StartEdit(record)
			} else {
				ctrl.StartCreate()
			}
		} else {
			ctrl.StartCreate()
		}
	} else {
		ctrl.StartCreate()
	}

	var bindErr error
	ctrl.UpdateSelected(func(record *T) {
		bindErr = s.form.Bind(r.PostForm, record)
	})
	if bindErr != nil {
		release()
		s.rejectInput(r, notices, bindErr)
		s.failSave(w, r, ctrl, notices, bindErr)
		return
	}

	if err := ctrl.Save(ctx); err != nil {
		release()
		s.failSave(w, r, ctrl, notices, err)
		return
	}
	if id != nil {
		s.audit(r, "update", strconv.FormatInt(*id, 10))
	} else {
		s.audit(r, "create", "new")
	}
	s.redirect(w, r, notices.Notices())
}

// failSave re-renders the list with the form still open and the posted
// values in place.
func (s *Screen[T]) failSave(w http.ResponseWriter, r *http.Request, ctrl *crud.Controller[T], notices *crud.Recorder, err error) {
	status := http.StatusBadGateway
	if errors.Is(err, crud.ErrValidation) {
		status = http.StatusUnprocessableEntity
	}
	if len(ctrl.Snapshot().Items) == 0 {
		_ = ctrl.Load(r.Context())
	}
	s.renderList(w, r, ctrl, notices, status)
}

func (s *Screen[T]) rejectInput(r *http.Request, notices *crud.Recorder, err error) {
	notices.Notify(r.Context(), crud.Notice{Level: crud.LevelWarning, Title: "Invalid input", Text: shared.UserSafeMessage(err)})
}

func (s *Screen[T]) handleCancel(w http.ResponseWriter, r *http.Request) {
	ctrl, _ := s.activate()
	ctrl.Cancel()
	s.redirect(w, r, nil)
}

func (s *Screen[T]) handleConfirmDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	ctrl, notices := s.activate()
	_ = ctrl.Load(r.Context())

	var summary []string
	if record, found := ctrl.Find(id); found {
		summary = ctrl.Row(record)
	}
	data := confirmPage{
		Base:    s.base,
		Title:   s.cfg.Title,
		ID:      id,
		Prompt:  ctrl.DeletePrompt(),
		Headers: ctrl.Headers(),
		Summary: summary,
	}
	s.render(w, r, "pages/entity_confirm.html", data, notices.Notices(), http.StatusOK)
}

func (s *Screen[T]) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	ctrl, notices := s.activate()
	removed, err := ctrl.Remove(r.Context(), id, FormConfirmer{Values: r.PostForm})
	if err != nil {
		s.deps.Logger.Warn("delete from screen", slog.String("entity", s.cfg.Entity), slog.Int64("id", id), slog.Any("error", err))
	} else if removed {
		s.audit(r, "delete", strconv.FormatInt(id, 10))
	}
	s.redirect(w, r, notices.Notices())
}

func (s *Screen[T]) audit(r *http.Request, action, entityID string) {
	if s.deps.Audit == nil {
		return
	}
	entry := shared.AuditLog{Actor: shared.ActorFromContext(r.Context()), Action: action, Entity: s.cfg.Entity, EntityID: entityID}
	if err := s.deps.Audit.Record(r.Context(), entry); err != nil {
		s.deps.Logger.Warn("audit record", slog.Any("error", err))
	}
}

func (s *Screen[T]) handleExport(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Unsupported format", "format must be pdf or xlsx")
		return
	}
	ctrl, _ := s.activate()
	if err := ctrl.Load(r.Context()); err != nil {
		httpx.Problem(w, http.StatusBadGateway, "Listing unavailable", "the "+s.cfg.Noun+" list could not be loaded")
		return
	}
	doc, err := ctrl.Export(format, s.now())
	if err != nil {
		s.deps.Logger.Error("export listing", slog.String("entity", s.cfg.Entity), slog.String("format", string(format)), slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Export failed", "")
		return
	}
	s.deps.Metrics.ObserveExport(s.cfg.Entity, string(format))

	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", "attachment; filename=\""+doc.Filename+"\"")
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.Body)))
	if _, err := w.Write(doc.Body); err != nil {
		s.deps.Logger.Warn("write export", slog.Any("error", err))
	}
}

func (s *Screen[T]) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid "+s.cfg.Noun+" ID", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// redirect moves notices into the session flash and returns to the list.
func (s *Screen[T]) redirect(w http.ResponseWriter, r *http.Request, notices []crud.Notice) {
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		for _, n := range notices {
			sess.AddFlash(flashOf(n))
		}
	}
	http.Redirect(w, r, s.base, http.StatusSeeOther)
}

// FormConfirmer answers a delete prompt from the posted confirmation form.
type FormConfirmer struct {
	Values url.Values
}

// Confirm accepts only an explicit "yes".
func (c FormConfirmer) Confirm(_ context.Context, _ crud.Prompt) (bool, error) {
	return c.Values.Get("confirm") == "yes", nil
}

func rateLimitKey(r *http.Request) (string, error) {
	if sess := shared.SessionFromContext(r.Context()); sess != nil && sess.Username() != "" {
		return "user:" + sess.Username(), nil
	}
	key, err := httprate.KeyByIP(r)
	if err != nil {
		return "", err
	}
	return "ip:" + key, nil
}

package crudhttp

import (
	"log/slog"
	"net/http"

	"github.com/stockdesk/stockdesk/internal/crud"
	"github.com/stockdesk/stockdesk/internal/export"
	"github.com/stockdesk/stockdesk/internal/shared"
	"github.com/stockdesk/stockdesk/internal/view"
)

type listRow struct {
	ID    string
	Cells []string
}

type listPage struct {
	Base        string
	Title       string
	Noun        string
	Headers     []string
	Rows        []listRow
	Shown       int
	Total       int
	Page        shared.Pagination
	Filter      string
	FormVisible bool
	Editing     bool
	Fields      []Field
	SelectedID  string
	FormKey     string
	Formats     []export.Format
}

type confirmPage struct {
	Base    string
	Title   string
	ID      int64
	Prompt  crud.Prompt
	Headers []string
	Summary []string
}

func (s *Screen[T]) renderList(w http.ResponseWriter, r *http.Request, ctrl *crud.Controller[T], notices *crud.Recorder, status int) {
	state := ctrl.Snapshot()
	filtered := ctrl.Filtered()
	page := shared.NewPagination(shared.ParsePage(r.URL.Query().Get("page")), shared.DefaultPerPage, len(filtered))
	start, end := page.Bounds()

	rows := make([]listRow, 0, end-start)
	for _, item := range filtered[start:end] {
		row := listRow{Cells: ctrl.Row(item)}
		if id, ok := item.Identity(); ok {
			row.ID = FormatID(&id)
		}
		rows = append(rows, row)
	}

	data := listPage{
		Base:        s.base,
		Title:       s.cfg.Title,
		Noun:        s.cfg.Noun,
		Headers:     ctrl.Headers(),
		Rows:        rows,
		Shown:       len(filtered),
		Total:       len(state.Items),
		Page:        page,
		Filter:      state.Filter,
		FormVisible: state.FormVisible,
		Formats:     export.Formats(),
	}
	if state.FormVisible {
		var lookups Lookups
		if s.lookups != nil {
			lookups = s.lookups(r.Context(), s.deps.Logger)
		}
		data.Fields = s.form.Fields(state.Selected, lookups)
		data.FormKey = shared.NewKey()
		if id, ok := state.Selected.Identity(); ok {
			data.Editing = true
			data.SelectedID = FormatID(&id)
		}
	}
	s.render(w, r, "pages/entity_list.html", data, notices.Notices(), status)
}

func (s *Screen[T]) render(w http.ResponseWriter, r *http.Request, template string, data any, notices []crud.Notice, status int) {
	sess := shared.SessionFromContext(r.Context())
	csrfToken, _ := s.deps.CSRF.EnsureToken(r.Context(), sess)
	username := ""
	if sess != nil {
		username = sess.Username()
	}
	inline := make([]shared.FlashMessage, 0, len(notices))
	for _, n := range notices {
		inline = append(inline, flashOf(n))
	}
	viewData := view.TemplateData{
		Title:       s.cfg.Title,
		CSRFToken:   csrfToken,
		Username:    username,
		Flashes:     sess.PopFlashes(),
		Notices:     inline,
		CurrentPath: r.URL.Path,
		Data:        data,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.deps.Templates.Render(w, template, viewData); err != nil {
		s.deps.Logger.Error("render template", slog.Any("error", err), slog.String("template", template))
	}
}

func flashOf(n crud.Notice) shared.FlashMessage {
	return shared.FlashMessage{Kind: string(n.Level), Title: n.Title, Message: n.Text}
}

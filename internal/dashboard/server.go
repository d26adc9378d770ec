// Package dashboard serves the browser dashboard: the ad list, the message
// template editor and the lead table.
package dashboard

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/justinas/nosurf"
	"github.com/rs/zerolog"

	"lead-console/internal/ai"
	"lead-console/internal/display"
	"lead-console/internal/model"
	"lead-console/internal/msgtemplate"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = []string{"ads.html", "editor.html", "leads.html"}

// Backend is the data source behind the dashboard.
type Backend interface {
	ListAds(ctx context.Context, filter model.AdFilter) ([]model.Ad, error)
	GetAd(ctx context.Context, id int64) (model.Ad, error)
	SyncAds(ctx context.Context) (model.SyncResult, error)
	TemplateForAd(ctx context.Context, adID int64) (*model.MessageTemplate, error)
	CreateTemplate(ctx context.Context, t model.MessageTemplate) (model.MessageTemplate, error)
	UpdateTemplate(ctx context.Context, id int64, t model.MessageTemplate) (model.MessageTemplate, error)
	ListLeads(ctx context.Context, page, perPage int) (model.LeadPage, error)
	LeadStats(ctx context.Context) (model.LeadStats, error)
}

// Options configures a Server.
type Options struct {
	Backend      Backend
	Composer     ai.Composer // optional
	Language     string      // language for suggested messages
	LeadsPerPage int
	CSRFSecure   bool
	Logger       zerolog.Logger
}

// Server holds the dashboard dependencies.
type Server struct {
	backend      Backend
	composer     ai.Composer
	language     string
	leadsPerPage int
	csrfSecure   bool
	logger       zerolog.Logger
	templates    map[string]*template.Template
}

// pageData is passed to every page template.
type pageData struct {
	Title     string
	ActiveNav string
	CSRFToken string
	Notice    string
	Error     string
	Page      any
}

func New(opts Options) (*Server, error) {
	if opts.Backend == nil {
		return nil, fmt.Errorf("dashboard: backend is required")
	}
	if opts.LeadsPerPage <= 0 {
		opts.LeadsPerPage = 20
	}
	cache, err := newTemplateCache()
	if err != nil {
		return nil, err
	}
	return &Server{
		backend:      opts.Backend,
		composer:     opts.Composer,
		language:     opts.Language,
		leadsPerPage: opts.LeadsPerPage,
		csrfSecure:   opts.CSRFSecure,
		logger:       opts.Logger.With().Str("component", "dashboard").Logger(),
		templates:    cache,
	}, nil
}

var funcs = template.FuncMap{
	"formatDate":     display.FormatDate,
	"shortLeadID":    display.ShortLeadID,
	"adName":         display.AdName,
	"userName":       display.UserName,
	"activeLabel":    display.ActiveLabel,
	"templateLabel":  display.TemplateLabel,
	"templateAction": display.TemplateAction,
	"countAds":       display.CountAds,
	"percent":        display.Percent,
	"pageSummary":    display.PageSummary,
	"token":          msgtemplate.Token,
	"lower":          func(s model.DeliveryStatus) string { return strings.ToLower(string(s)) },
	"add":            func(a, b int) int { return a + b },
}

func newTemplateCache() (map[string]*template.Template, error) {
	cache := map[string]*template.Template{}
	for _, page := range pages {
		ts, err := template.New(page).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("parse page template %s: %w", page, err)
		}
		cache[page] = ts
	}
	return cache, nil
}

func (s *Server) newPageData(r *http.Request, title, nav string) pageData {
	q := r.URL.Query()
	return pageData{
		Title:     title,
		ActiveNav: nav,
		CSRFToken: nosurf.Token(r),
		Notice:    q.Get("message"),
		Error:     q.Get("error"),
	}
}

func (s *Server) render(w http.ResponseWriter, status int, page string, data pageData) {
	ts, ok := s.templates[page]
	if !ok {
		s.logger.Error().Str("page", page).Msg("template not found in cache")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := ts.ExecuteTemplate(&buf, "layout", data); err != nil {
		s.logger.Error().Err(err).Str("page", page).Msg("execute template")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

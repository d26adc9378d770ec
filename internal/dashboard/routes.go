package dashboard

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/justinas/nosurf"
)

// Handler returns the HTTP handler for the dashboard.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	r.Group(func(r chi.Router) {
		r.Use(s.csrf)

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/ads", http.StatusFound)
		})
		r.Get("/ads", s.adsHandler)
		r.Post("/ads/sync", s.syncHandler)

		r.Get("/messages/edit", s.editorHandler)
		r.Post("/messages/edit", s.editorSubmitHandler)
		r.Post("/api/preview", s.previewHandler)

		r.Get("/leads", s.leadsHandler)
	})

	return r
}

func (s *Server) csrf(next http.Handler) http.Handler {
	h := nosurf.New(next)
	h.SetBaseCookie(http.Cookie{
		Path:     "/",
		HttpOnly: true,
		Secure:   s.csrfSecure,
		SameSite: http.SameSiteLaxMode,
	})
	h.SetFailureHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.logger.Warn().Str("path", r.URL.Path).Err(nosurf.Reason(r)).Msg("csrf check failed")
		http.Error(w, "Forbidden - invalid CSRF token", http.StatusForbidden)
	}))
	return h
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			s.logger.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("took", time.Since(start)).
				Str("request_id", middleware.GetReqID(r.Context())).
				Msg("request")
		}()
		next.ServeHTTP(ww, r)
	})
}

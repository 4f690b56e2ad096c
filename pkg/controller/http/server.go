package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/kintai-dev/workstamper/pkg/usecase"
	"github.com/kintai-dev/workstamper/pkg/utils/logging"
)

type Server struct {
	router *chi.Mux
}

// New creates the HTTP surface: Slack webhooks behind signature
// verification, the OAuth callback, and a health probe.
func New(uc *usecase.UseCases, signingSecret string) *Server {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Route("/hooks/slack", func(r chi.Router) {
		r.Use(SlackSignatureMiddleware(signingSecret))
		r.Post("/command", NewSlackCommandHandler(uc).ServeHTTP)
		r.Post("/interaction", NewSlackInteractionHandler(uc).ServeHTTP)
	})

	r.Get("/api/oauth/callback", oauthCallbackHandler(uc.Auth))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return &Server{router: r}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

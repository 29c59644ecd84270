package web

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jaminalder/hidden-ring-tictactoe/internal/app"
)

// NewServer wires routes and returns an http.Handler. It also makes the
// service broadcast rendered board fragments to event-stream subscribers.
func NewServer(s *app.Service, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	h := &handlers{svc: s, tpl: loadTemplates(), log: logger}
	s.SetRenderer(func(gs app.GameState) []byte { return h.renderBoard(gs, "") })

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(Logging(logger))
	r.Use(middleware.Recoverer)

	r.Get("/", h.index)
	r.Get("/healthz", h.healthz)
	r.Post("/unlock", h.unlock)
	r.Route("/puzzle", func(r chi.Router) {
		r.Use(h.requireUnlocked)
		r.Post("/play", h.play)
		r.Post("/reset", h.reset)
		r.Get("/events", h.events)
	})
	return r
}

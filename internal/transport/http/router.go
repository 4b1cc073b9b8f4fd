package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"brainbuzz/internal/app"
	"brainbuzz/internal/metrics"
)

// Deps are the use cases the router serves.
type Deps struct {
	Games      *app.GameService
	Profiles   *app.ProfileService
	Challenges *app.ChallengeService
	Metrics    *metrics.Manager
	Log        zerolog.Logger
}

// NewRouter mounts the REST API, the play socket, health and metrics.
func NewRouter(d Deps) http.Handler {
	api := &api{games: d.Games, profiles: d.Profiles, challenges: d.Challenges}
	ws := NewWSHandler(d.Games, d.Log)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(d.Log))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	if d.Metrics != nil {
		r.Handle("/metrics", d.Metrics.Handler())
	}

	r.Group(func(r chi.Router) {
		r.Use(withIdentity(d.Profiles))

		r.Get("/ws/games/{game}", ws.ServeWS)

		r.Route("/api", func(r chi.Router) {
			r.Get("/games", api.listGames)
			r.Post("/auth/sign-up", api.signUp)
			r.Post("/auth/sign-in", api.signIn)
			r.Get("/leaderboards", api.listBoards)
			r.Get("/leaderboards/{board}", api.leaderboard)
			r.Get("/local-stats/{device}", api.localStats)
			r.Get("/plays/{id}", api.playSnapshot)

			r.Group(func(r chi.Router) {
				r.Use(requireIdentity)
				r.Post("/auth/sign-out", api.signOut)
				r.Get("/profile", api.profile)
				r.Get("/achievements", api.achievements)
				r.Get("/challenges", api.challengesToday)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, "not found", http.StatusNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, "method not allowed", http.StatusMethodNotAllowed)
	})
	return r
}

func requestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Debug().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("elapsed", time.Since(start)).
				Str("request_id", middleware.GetReqID(r.Context())).
				Msg("http request")
		})
	}
}

// cmd/server/server.go
package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/platelminto/basketball-scheduler-sub000/internal/api"
	apigeneration "github.com/platelminto/basketball-scheduler-sub000/internal/api/generation"
	"github.com/platelminto/basketball-scheduler-sub000/internal/api/schedule"
	"github.com/platelminto/basketball-scheduler-sub000/internal/api/seasons"
	"github.com/platelminto/basketball-scheduler-sub000/internal/api/standings"
	"github.com/platelminto/basketball-scheduler-sub000/internal/config"
	"github.com/platelminto/basketball-scheduler-sub000/internal/db"
	"github.com/platelminto/basketball-scheduler-sub000/internal/generation"
	"github.com/platelminto/basketball-scheduler-sub000/internal/ratelimit"
)

func newServer(cfg *config.Config, database *db.DB, generator *generation.Client) *http.Server {
	router := http.NewServeMux()

	limiter := ratelimit.New(nil)

	// Setup middleware chain
	handler := api.ChainMiddleware(
		router,
		limiter.Middleware,
		api.WithLogging,
		api.WithRecovery,
		api.WithRequestID,
		api.WithContentType,
	)

	seasons.InitHandlers(database)
	schedule.InitHandlers(database)
	standings.InitHandlers(database)
	apigeneration.InitHandlers(database, generator)

	registerRoutes(router)

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func registerRoutes(mux *http.ServeMux) {
	// Health check
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Season routes
	mux.HandleFunc("GET /api/v1/seasons", seasons.HandleSeasonsList)
	mux.HandleFunc("POST /api/v1/seasons", seasons.HandleSeasonCreate)
	mux.HandleFunc("GET /api/v1/seasons/{id}", seasons.HandleSeasonGet)
	mux.HandleFunc("PUT /api/v1/seasons/{id}", seasons.HandleSeasonUpdate)
	mux.HandleFunc("DELETE /api/v1/seasons/{id}", seasons.HandleSeasonDelete)
	mux.HandleFunc("POST /api/v1/seasons/{id}/activate", seasons.HandleSeasonActivate)

	// Schedule routes
	mux.HandleFunc("POST /api/v1/seasons/{id}/weeks", schedule.HandleWeekCreate)
	mux.HandleFunc("PUT /api/v1/weeks/{week_id}", schedule.HandleWeekUpdate)
	mux.HandleFunc("DELETE /api/v1/weeks/{week_id}", schedule.HandleWeekDelete)
	mux.HandleFunc("POST /api/v1/weeks/{week_id}/games", schedule.HandleGameCreate)
	mux.HandleFunc("PUT /api/v1/games/{game_id}", schedule.HandleGameUpdate)
	mux.HandleFunc("DELETE /api/v1/games/{game_id}", schedule.HandleGameDelete)
	mux.HandleFunc("PUT /api/v1/games/{game_id}/score", schedule.HandleScoreUpdate)
	mux.HandleFunc("GET /api/v1/seasons/{id}/schedule", schedule.HandleScheduleView)

	// Standings
	mux.HandleFunc("GET /api/v1/seasons/{id}/standings", standings.HandleStandings)

	// Schedule generation (remote solver)
	mux.HandleFunc("POST /api/v1/seasons/{id}/generation", apigeneration.HandleSubmit)
	mux.HandleFunc("GET /api/v1/generation/{job_id}", apigeneration.HandleJobStatus)
}

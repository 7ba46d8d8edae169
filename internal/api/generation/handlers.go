// internal/api/generation/handlers.go
package generation

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/platelminto/basketball-scheduler-sub000/internal/api/apiutil"
	appdb "github.com/platelminto/basketball-scheduler-sub000/internal/db"
	genclient "github.com/platelminto/basketball-scheduler-sub000/internal/generation"
)

const (
	generationQueryTimeout = 5 * time.Second
	seasonIDPathKey        = "id"
	jobIDPathKey           = "job_id"
)

var (
	database *appdb.DB
	client   *genclient.Client
)

type submitRequest struct {
	WeekCount        int            `json:"weekCount"`
	StartDate        string         `json:"startDate"`
	TimeLimitSeconds int            `json:"timeLimitSeconds"`
	Parameters       map[string]any `json:"parameters"`
}

// InitHandlers must be called during server startup before handling requests.
// A nil client disables generation endpoints (the console runs fine without
// a generator configured).
func InitHandlers(db *appdb.DB, c *genclient.Client) {
	database = db
	client = c
}

// POST /api/v1/seasons/{id}/generation
func HandleSubmit(w http.ResponseWriter, r *http.Request) {
	if database == nil {
		log.Ctx(r.Context()).Error().Msg("Database not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if client == nil {
		apiutil.WriteError(w, r, http.StatusServiceUnavailable, "Schedule generator is not configured", nil)
		return
	}

	seasonID := strings.TrimSpace(r.PathValue(seasonIDPathKey))
	if seasonID == "" {
		apiutil.WriteError(w, r, http.StatusBadRequest, "Season ID is required", nil)
		return
	}

	var req submitRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, r, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.WeekCount <= 0 {
		apiutil.WriteError(w, r, http.StatusBadRequest, "Week count must be positive", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), generationQueryTimeout)
	defer cancel()

	if _, err := database.Queries.GetSeason(ctx, seasonID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			apiutil.WriteError(w, r, http.StatusNotFound, "Season not found", nil)
			return
		}
		apiutil.WriteError(w, r, http.StatusInternalServerError, "Failed to load season", err)
		return
	}

	remoteID, err := client.Submit(ctx, genclient.SubmitRequest{
		SeasonID:         seasonID,
		WeekCount:        req.WeekCount,
		StartDate:        req.StartDate,
		TimeLimitSeconds: req.TimeLimitSeconds,
		Parameters:       req.Parameters,
	})
	if err != nil {
		apiutil.WriteError(w, r, http.StatusBadGateway, "Failed to submit generation job", err)
		return
	}

	now := time.Now().UTC()
	job := appdb.GenerationJob{
		ID:          uuid.NewString(),
		SeasonID:    seasonID,
		RemoteID:    remoteID,
		Status:      genclient.StatusPending,
		SubmittedAt: now,
		UpdatedAt:   now,
	}
	if err := database.Queries.CreateGenerationJob(ctx, job); err != nil {
		apiutil.WriteError(w, r, http.StatusInternalServerError, "Failed to record generation job", err)
		return
	}

	log.Ctx(r.Context()).Info().
		Str("job_id", job.ID).
		Str("remote_id", remoteID).
		Str("season_id", seasonID).
		Msg("Generation job submitted")

	if err := apiutil.WriteJSON(w, http.StatusAccepted, job); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write generation job")
	}
}

// GET /api/v1/generation/{job_id}
func HandleJobStatus(w http.ResponseWriter, r *http.Request) {
	if database == nil {
		log.Ctx(r.Context()).Error().Msg("Database not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	jobID := strings.TrimSpace(r.PathValue(jobIDPathKey))
	if jobID == "" {
		apiutil.WriteError(w, r, http.StatusBadRequest, "Job ID is required", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), generationQueryTimeout)
	defer cancel()

	job, err := database.Queries.GetGenerationJob(ctx, jobID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			apiutil.WriteError(w, r, http.StatusNotFound, "Generation job not found", nil)
			return
		}
		apiutil.WriteError(w, r, http.StatusInternalServerError, "Failed to load generation job", err)
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, job); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write generation job")
	}
}

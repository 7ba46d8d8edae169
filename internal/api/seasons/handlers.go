// internal/api/seasons/handlers.go
package seasons

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
)

const (
	seasonQueryTimeout = 5 * time.Second
	seasonIDPathKey    = "id"
)

var database *appdb.DB

type levelRequest struct {
	Name         string   `json:"name"`
	DisplayOrder int      `json:"displayOrder"`
	Teams        []string `json:"teams"`
}

type seasonRequest struct {
	Name   string         `json:"name"`
	Levels []levelRequest `json:"levels"`
}

type renameRequest struct {
	Name string `json:"name"`
}

type seasonDetail struct {
	Season appdb.Season  `json:"season"`
	Levels []levelDetail `json:"levels"`
}

type levelDetail struct {
	appdb.Level
	Teams []appdb.Team `json:"teams"`
}

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(db *appdb.DB) {
	database = db
}

func loadDB(w http.ResponseWriter, r *http.Request) *appdb.DB {
	if database == nil {
		log.Ctx(r.Context()).Error().Msg("Database not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return nil
	}
	return database
}

// GET /api/v1/seasons
func HandleSeasonsList(w http.ResponseWriter, r *http.Request) {
	db := loadDB(w, r)
	if db == nil {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), seasonQueryTimeout)
	defer cancel()

	seasons, err := db.Queries.ListSeasons(ctx)
	if err != nil {
		apiutil.WriteError(w, r, http.StatusInternalServerError, "Failed to list seasons", err)
		return
	}
	if seasons == nil {
		seasons = []appdb.Season{}
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, map[string]any{"seasons": seasons}); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write seasons list")
	}
}

// POST /api/v1/seasons
//
// Creating a season imports its whole structure at once: levels in display
// order, each with its team roster. Teams are immutable for ranking purposes
// after import.
func HandleSeasonCreate(w http.ResponseWriter, r *http.Request) {
	db := loadDB(w, r)
	if db == nil {
		return
	}

	var req seasonRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, r, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := validateSeasonRequest(req); err != nil {
		apiutil.WriteError(w, r, http.StatusBadRequest, err.Error(), nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), seasonQueryTimeout)
	defer cancel()

	season := appdb.Season{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(req.Name),
		CreatedAt: time.Now().UTC(),
	}

	err := db.RunInTx(ctx, func(tx *appdb.DB) error {
		if err := tx.Queries.CreateSeason(ctx, season); err != nil {
			return err
		}
		for i, level := range req.Levels {
			order := level.DisplayOrder
			if order == 0 {
				order = i + 1
			}
			levelRow := appdb.Level{
				ID:           uuid.NewString(),
				SeasonID:     season.ID,
				Name:         strings.TrimSpace(level.Name),
				DisplayOrder: order,
			}
			if err := tx.Queries.CreateLevel(ctx, levelRow); err != nil {
				return err
			}
			for _, teamName := range level.Teams {
				if err := tx.Queries.CreateTeam(ctx, appdb.Team{
					ID:      uuid.NewString(),
					LevelID: levelRow.ID,
					Name:    strings.TrimSpace(teamName),
				}); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		apiutil.WriteError(w, r, http.StatusInternalServerError, "Failed to create season", err)
		return
	}

	log.Ctx(r.Context()).Info().
		Str("season_id", season.ID).
		Str("name", season.Name).
		Int("levels", len(req.Levels)).
		Msg("Season created")

	writeSeasonDetail(w, r, db, season.ID, http.StatusCreated)
}

// GET /api/v1/seasons/{id}
func HandleSeasonGet(w http.ResponseWriter, r *http.Request) {
	db := loadDB(w, r)
	if db == nil {
		return
	}

	seasonID := strings.TrimSpace(r.PathValue(seasonIDPathKey))
	if seasonID == "" {
		apiutil.WriteError(w, r, http.StatusBadRequest, "Season ID is required", nil)
		return
	}

	writeSeasonDetail(w, r, db, seasonID, http.StatusOK)
}

// PUT /api/v1/seasons/{id}
func HandleSeasonUpdate(w http.ResponseWriter, r *http.Request) {
	db := loadDB(w, r)
	if db == nil {
		return
	}

	seasonID := strings.TrimSpace(r.PathValue(seasonIDPathKey))
	if seasonID == "" {
		apiutil.WriteError(w, r, http.StatusBadRequest, "Season ID is required", nil)
		return
	}

	var req renameRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, r, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		apiutil.WriteError(w, r, http.StatusBadRequest, "Season name is required", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), seasonQueryTimeout)
	defer cancel()

	if _, err := db.Queries.GetSeason(ctx, seasonID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			apiutil.WriteError(w, r, http.StatusNotFound, "Season not found", nil)
			return
		}
		apiutil.WriteError(w, r, http.StatusInternalServerError, "Failed to load season", err)
		return
	}

	if err := db.Queries.UpdateSeasonName(ctx, seasonID, strings.TrimSpace(req.Name)); err != nil {
		apiutil.WriteError(w, r, http.StatusInternalServerError, "Failed to update season", err)
		return
	}

	writeSeasonDetail(w, r, db, seasonID, http.StatusOK)
}

// DELETE /api/v1/seasons/{id}
func HandleSeasonDelete(w http.ResponseWriter, r *http.Request) {
	db := loadDB(w, r)
	if db == nil {
		return
	}

	seasonID := strings.TrimSpace(r.PathValue(seasonIDPathKey))
	if seasonID == "" {
		apiutil.WriteError(w, r, http.StatusBadRequest, "Season ID is required", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), seasonQueryTimeout)
	defer cancel()

	if err := db.Queries.DeleteSeason(ctx, seasonID); err != nil {
		apiutil.WriteError(w, r, http.StatusInternalServerError, "Failed to delete season", err)
		return
	}

	log.Ctx(r.Context()).Info().Str("season_id", seasonID).Msg("Season deleted")
	w.WriteHeader(http.StatusNoContent)
}

// POST /api/v1/seasons/{id}/activate
func HandleSeasonActivate(w http.ResponseWriter, r *http.Request) {
	db := loadDB(w, r)
	if db == nil {
		return
	}

	seasonID := strings.TrimSpace(r.PathValue(seasonIDPathKey))
	if seasonID == "" {
		apiutil.WriteError(w, r, http.StatusBadRequest, "Season ID is required", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), seasonQueryTimeout)
	defer cancel()

	err := db.RunInTx(ctx, func(tx *appdb.DB) error {
		return tx.Queries.ActivateSeason(ctx, seasonID)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			apiutil.WriteError(w, r, http.StatusNotFound, "Season not found", nil)
			return
		}
		apiutil.WriteError(w, r, http.StatusInternalServerError, "Failed to activate season", err)
		return
	}

	log.Ctx(r.Context()).Info().Str("season_id", seasonID).Msg("Season activated")
	writeSeasonDetail(w, r, db, seasonID, http.StatusOK)
}

func validateSeasonRequest(req seasonRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return apiutil.FieldError{Field: "name", Reason: "is required"}
	}
	seenLevels := make(map[string]struct{})
	for _, level := range req.Levels {
		name := strings.TrimSpace(level.Name)
		if name == "" {
			return apiutil.FieldError{Field: "levels", Reason: "must all have a name"}
		}
		if _, ok := seenLevels[name]; ok {
			return apiutil.FieldError{Field: "levels", Reason: "must have unique names"}
		}
		seenLevels[name] = struct{}{}

		seenTeams := make(map[string]struct{})
		for _, team := range level.Teams {
			teamName := strings.TrimSpace(team)
			if teamName == "" {
				return apiutil.FieldError{Field: "teams", Reason: "must all have a name"}
			}
			if _, ok := seenTeams[teamName]; ok {
				return apiutil.FieldError{Field: "teams", Reason: "must be unique within a level"}
			}
			seenTeams[teamName] = struct{}{}
		}
	}
	return nil
}

func writeSeasonDetail(w http.ResponseWriter, r *http.Request, db *appdb.DB, seasonID string, status int) {
	ctx, cancel := context.WithTimeout(r.Context(), seasonQueryTimeout)
	defer cancel()

	season, err := db.Queries.GetSeason(ctx, seasonID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			apiutil.WriteError(w, r, http.StatusNotFound, "Season not found", nil)
			return
		}
		apiutil.WriteError(w, r, http.StatusInternalServerError, "Failed to load season", err)
		return
	}

	levels, err := db.Queries.ListLevelsBySeason(ctx, seasonID)
	if err != nil {
		apiutil.WriteError(w, r, http.StatusInternalServerError, "Failed to load levels", err)
		return
	}

	detail := seasonDetail{Season: season, Levels: []levelDetail{}}
	for _, level := range levels {
		teams, err := db.Queries.ListTeamsByLevel(ctx, level.ID)
		if err != nil {
			apiutil.WriteError(w, r, http.StatusInternalServerError, "Failed to load teams", err)
			return
		}
		if teams == nil {
			teams = []appdb.Team{}
		}
		detail.Levels = append(detail.Levels, levelDetail{Level: level, Teams: teams})
	}

	if err := apiutil.WriteJSON(w, status, detail); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write season detail")
	}
}

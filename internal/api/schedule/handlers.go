// internal/api/schedule/handlers.go
package schedule

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/platelminto/basketball-scheduler-sub000/internal/api/apiutil"
	appdb "github.com/platelminto/basketball-scheduler-sub000/internal/db"
	"github.com/platelminto/basketball-scheduler-sub000/internal/models"
)

const (
	scheduleQueryTimeout = 5 * time.Second
	seasonIDPathKey      = "id"
	weekIDPathKey        = "week_id"
	gameIDPathKey        = "game_id"
	mondayDateLayout     = "2006-01-02"
)

var database *appdb.DB

type weekRequest struct {
	WeekNumber int    `json:"weekNumber"`
	MondayDate string `json:"mondayDate"`
	IsOffWeek  bool   `json:"isOffWeek"`
}

type gameRequest struct {
	LevelID     string `json:"levelId"`
	Team1ID     string `json:"team1Id"`
	Team1Name   string `json:"team1Name"`
	Team2ID     string `json:"team2Id"`
	Team2Name   string `json:"team2Name"`
	Team1Score  string `json:"team1Score"`
	Team2Score  string `json:"team2Score"`
	DayOfWeek   int    `json:"dayOfWeek"`
	StartTime   string `json:"startTime"`
	Court       string `json:"court"`
	RefereeName string `json:"refereeName"`
}

type scoreRequest struct {
	Team1Score string `json:"team1Score"`
	Team2Score string `json:"team2Score"`
}

// viewWeek is one week of the public schedule payload, games carrying
// resolved team names.
type viewWeek struct {
	WeekNumber int        `json:"weekNumber"`
	MondayDate string     `json:"mondayDate"`
	IsOffWeek  bool       `json:"isOffWeek"`
	Games      []viewGame `json:"games"`
}

type viewGame struct {
	ID          string `json:"id"`
	LevelID     string `json:"levelId"`
	Team1Name   string `json:"team1Name"`
	Team2Name   string `json:"team2Name"`
	Team1Score  string `json:"team1Score"`
	Team2Score  string `json:"team2Score"`
	DayOfWeek   int    `json:"dayOfWeek"`
	StartTime   string `json:"startTime"`
	Court       string `json:"court"`
	RefereeName string `json:"refereeName"`
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

// POST /api/v1/seasons/{id}/weeks
func HandleWeekCreate(w http.ResponseWriter, r *http.Request) {
	db := loadDB(w, r)
	if db == nil {
		return
	}

	seasonID := strings.TrimSpace(r.PathValue(seasonIDPathKey))
	if seasonID == "" {
		apiutil.WriteError(w, r, http.StatusBadRequest, "Season ID is required", nil)
		return
	}

	var req weekRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, r, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.WeekNumber <= 0 {
		apiutil.WriteError(w, r, http.StatusBadRequest, "Week number must be positive", nil)
		return
	}
	monday, err := time.Parse(mondayDateLayout, req.MondayDate)
	if err != nil {
		apiutil.WriteError(w, r, http.StatusBadRequest, "Monday date must be YYYY-MM-DD", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), scheduleQueryTimeout)
	defer cancel()

	if _, err := db.Queries.GetSeason(ctx, seasonID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			apiutil.WriteError(w, r, http.StatusNotFound, "Season not found", nil)
			return
		}
		apiutil.WriteError(w, r, http.StatusInternalServerError, "Failed to load season", err)
		return
	}

	week := appdb.Week{
		ID:         uuid.NewString(),
		SeasonID:   seasonID,
		WeekNumber: req.WeekNumber,
		MondayDate: monday,
		IsOffWeek:  req.IsOffWeek,
	}
	if err := db.Queries.CreateWeek(ctx, week); err != nil {
		apiutil.WriteError(w, r, http.StatusInternalServerError, "Failed to create week", err)
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusCreated, week); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write week")
	}
}

// PUT /api/v1/weeks/{week_id}
func HandleWeekUpdate(w http.ResponseWriter, r *http.Request) {
	db := loadDB(w, r)
	if db == nil {
		return
	}

	weekID := strings.TrimSpace(r.PathValue(weekIDPathKey))
	if weekID == "" {
		apiutil.WriteError(w, r, http.StatusBadRequest, "Week ID is required", nil)
		return
	}

	var req weekRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, r, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	monday, err := time.Parse(mondayDateLayout, req.MondayDate)
	if err != nil {
		apiutil.WriteError(w, r, http.StatusBadRequest, "Monday date must be YYYY-MM-DD", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), scheduleQueryTimeout)
	defer cancel()

	week, err := db.Queries.GetWeek(ctx, weekID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			apiutil.WriteError(w, r, http.StatusNotFound, "Week not found", nil)
			return
		}
		apiutil.WriteError(w, r, http.StatusInternalServerError, "Failed to load week", err)
		return
	}

	week.MondayDate = monday
	week.IsOffWeek = req.IsOffWeek
	if err := db.Queries.UpdateWeek(ctx, week); err != nil {
		apiutil.WriteError(w, r, http.StatusInternalServerError, "Failed to update week", err)
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, week); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write week")
	}
}

// DELETE /api/v1/weeks/{week_id}
func HandleWeekDelete(w http.ResponseWriter, r *http.Request) {
	db := loadDB(w, r)
	if db == nil {
		return
	}

	weekID := strings.TrimSpace(r.PathValue(weekIDPathKey))
	if weekID == "" {
		apiutil.WriteError(w, r, http.StatusBadRequest, "Week ID is required", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), scheduleQueryTimeout)
	defer cancel()

	if err := db.Queries.DeleteWeek(ctx, weekID); err != nil {
		apiutil.WriteError(w, r, http.StatusInternalServerError, "Failed to delete week", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// POST /api/v1/weeks/{week_id}/games
func HandleGameCreate(w http.ResponseWriter, r *http.Request) {
	db := loadDB(w, r)
	if db == nil {
		return
	}

	weekID := strings.TrimSpace(r.PathValue(weekIDPathKey))
	if weekID == "" {
		apiutil.WriteError(w, r, http.StatusBadRequest, "Week ID is required", nil)
		return
	}

	var req gameRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, r, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := validateGameRequest(req); err != nil {
		apiutil.WriteError(w, r, http.StatusBadRequest, err.Error(), nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), scheduleQueryTimeout)
	defer cancel()

	if _, err := db.Queries.GetWeek(ctx, weekID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			apiutil.WriteError(w, r, http.StatusNotFound, "Week not found", nil)
			return
		}
		apiutil.WriteError(w, r, http.StatusInternalServerError, "Failed to load week", err)
		return
	}

	game := gameFromRequest(req)
	game.ID = uuid.NewString()
	game.WeekID = weekID
	if err := db.Queries.CreateGame(ctx, game); err != nil {
		apiutil.WriteError(w, r, http.StatusInternalServerError, "Failed to create game", err)
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusCreated, game); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write game")
	}
}

// PUT /api/v1/games/{game_id}
func HandleGameUpdate(w http.ResponseWriter, r *http.Request) {
	db := loadDB(w, r)
	if db == nil {
		return
	}

	gameID := strings.TrimSpace(r.PathValue(gameIDPathKey))
	if gameID == "" {
		apiutil.WriteError(w, r, http.StatusBadRequest, "Game ID is required", nil)
		return
	}

	var req gameRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, r, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := validateGameRequest(req); err != nil {
		apiutil.WriteError(w, r, http.StatusBadRequest, err.Error(), nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), scheduleQueryTimeout)
	defer cancel()

	existing, err := db.Queries.GetGame(ctx, gameID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			apiutil.WriteError(w, r, http.StatusNotFound, "Game not found", nil)
			return
		}
		apiutil.WriteError(w, r, http.StatusInternalServerError, "Failed to load game", err)
		return
	}

	game := gameFromRequest(req)
	game.ID = existing.ID
	game.WeekID = existing.WeekID
	if err := db.Queries.UpdateGame(ctx, game); err != nil {
		apiutil.WriteError(w, r, http.StatusInternalServerError, "Failed to update game", err)
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, game); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write game")
	}
}

// DELETE /api/v1/games/{game_id}
func HandleGameDelete(w http.ResponseWriter, r *http.Request) {
	db := loadDB(w, r)
	if db == nil {
		return
	}

	gameID := strings.TrimSpace(r.PathValue(gameIDPathKey))
	if gameID == "" {
		apiutil.WriteError(w, r, http.StatusBadRequest, "Game ID is required", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), scheduleQueryTimeout)
	defer cancel()

	if err := db.Queries.DeleteGame(ctx, gameID); err != nil {
		apiutil.WriteError(w, r, http.StatusInternalServerError, "Failed to delete game", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PUT /api/v1/games/{game_id}/score
//
// Score entry. Standings are recomputed from a fresh snapshot on the next
// read, so there is no cache to invalidate here.
func HandleScoreUpdate(w http.ResponseWriter, r *http.Request) {
	db := loadDB(w, r)
	if db == nil {
		return
	}

	gameID := strings.TrimSpace(r.PathValue(gameIDPathKey))
	if gameID == "" {
		apiutil.WriteError(w, r, http.StatusBadRequest, "Game ID is required", nil)
		return
	}

	var req scoreRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, r, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := validateScore(req.Team1Score); err != nil {
		apiutil.WriteError(w, r, http.StatusBadRequest, "team1Score "+err.Error(), nil)
		return
	}
	if err := validateScore(req.Team2Score); err != nil {
		apiutil.WriteError(w, r, http.StatusBadRequest, "team2Score "+err.Error(), nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), scheduleQueryTimeout)
	defer cancel()

	err := db.Queries.UpdateGameScore(ctx, gameID,
		strings.TrimSpace(req.Team1Score), strings.TrimSpace(req.Team2Score))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			apiutil.WriteError(w, r, http.StatusNotFound, "Game not found", nil)
			return
		}
		apiutil.WriteError(w, r, http.StatusInternalServerError, "Failed to update score", err)
		return
	}

	game, err := db.Queries.GetGame(ctx, gameID)
	if err != nil {
		apiutil.WriteError(w, r, http.StatusInternalServerError, "Failed to load game", err)
		return
	}

	log.Ctx(r.Context()).Info().
		Str("game_id", gameID).
		Str("team1_score", game.Team1Score).
		Str("team2_score", game.Team2Score).
		Msg("Score updated")

	if err := apiutil.WriteJSON(w, http.StatusOK, game); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write game")
	}
}

// GET /api/v1/seasons/{id}/schedule
//
// Public schedule viewer payload: every week with its games, team names
// resolved from the rosters.
func HandleScheduleView(w http.ResponseWriter, r *http.Request) {
	db := loadDB(w, r)
	if db == nil {
		return
	}

	seasonID := strings.TrimSpace(r.PathValue(seasonIDPathKey))
	if seasonID == "" {
		apiutil.WriteError(w, r, http.StatusBadRequest, "Season ID is required", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), scheduleQueryTimeout)
	defer cancel()

	snapshot, err := models.LoadScheduleSnapshot(ctx, db.Queries, seasonID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			apiutil.WriteError(w, r, http.StatusNotFound, "Season not found", nil)
			return
		}
		apiutil.WriteError(w, r, http.StatusInternalServerError, "Failed to load schedule", err)
		return
	}

	names := snapshot.TeamNames()
	weeks := make([]viewWeek, 0, len(snapshot.Weeks))
	for _, week := range snapshot.Weeks {
		games := make([]viewGame, 0, len(week.Games))
		for _, game := range week.Games {
			detail := snapshot.GameDetails[game.ID]
			games = append(games, viewGame{
				ID:          game.ID,
				LevelID:     game.LevelID,
				Team1Name:   displayName(names, game.Team1ID, game.Team1Name),
				Team2Name:   displayName(names, game.Team2ID, game.Team2Name),
				Team1Score:  game.Score1,
				Team2Score:  game.Score2,
				DayOfWeek:   detail.DayOfWeek,
				StartTime:   detail.StartTime,
				Court:       detail.Court,
				RefereeName: detail.RefereeName,
			})
		}
		weeks = append(weeks, viewWeek{
			WeekNumber: week.Number,
			MondayDate: week.MondayDate.Format(mondayDateLayout),
			IsOffWeek:  week.OffWeek,
			Games:      games,
		})
	}

	payload := map[string]any{
		"season": snapshot.Season,
		"weeks":  weeks,
	}
	if err := apiutil.WriteJSON(w, http.StatusOK, payload); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write schedule view")
	}
}

func gameFromRequest(req gameRequest) appdb.Game {
	return appdb.Game{
		LevelID:     strings.TrimSpace(req.LevelID),
		Team1ID:     strings.TrimSpace(req.Team1ID),
		Team1Name:   strings.TrimSpace(req.Team1Name),
		Team2ID:     strings.TrimSpace(req.Team2ID),
		Team2Name:   strings.TrimSpace(req.Team2Name),
		Team1Score:  strings.TrimSpace(req.Team1Score),
		Team2Score:  strings.TrimSpace(req.Team2Score),
		DayOfWeek:   req.DayOfWeek,
		StartTime:   strings.TrimSpace(req.StartTime),
		Court:       strings.TrimSpace(req.Court),
		RefereeName: strings.TrimSpace(req.RefereeName),
	}
}

func validateGameRequest(req gameRequest) error {
	if req.Team1ID == "" && strings.TrimSpace(req.Team1Name) == "" {
		return apiutil.FieldError{Field: "team1", Reason: "requires an ID or a name"}
	}
	if req.Team2ID == "" && strings.TrimSpace(req.Team2Name) == "" {
		return apiutil.FieldError{Field: "team2", Reason: "requires an ID or a name"}
	}
	if err := validateScore(req.Team1Score); err != nil {
		return apiutil.FieldError{Field: "team1Score", Reason: err.Error()}
	}
	if err := validateScore(req.Team2Score); err != nil {
		return apiutil.FieldError{Field: "team2Score", Reason: err.Error()}
	}
	return nil
}

// validateScore accepts blank (unplayed) or a non-negative integer. The
// engine tolerates historical junk in storage, but new entries are checked
// at the edge.
func validateScore(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return errors.New("must be blank or a non-negative integer")
	}
	return nil
}

func displayName(names map[string]string, teamID, fallback string) string {
	if name, ok := names[teamID]; ok {
		return name
	}
	return fallback
}

// internal/api/standings/handlers.go
package standings

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/platelminto/basketball-scheduler-sub000/internal/api/apiutil"
	appdb "github.com/platelminto/basketball-scheduler-sub000/internal/db"
	"github.com/platelminto/basketball-scheduler-sub000/internal/models"
	enginepkg "github.com/platelminto/basketball-scheduler-sub000/internal/standings"
)

const (
	standingsQueryTimeout = 5 * time.Second
	seasonIDPathKey       = "id"
)

var database *appdb.DB

// levelTable groups the ranked rows of one level for display.
type levelTable struct {
	LevelID   string          `json:"levelId"`
	LevelName string          `json:"levelName"`
	Rows      []enginepkg.Row `json:"rows"`
}

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(db *appdb.DB) {
	database = db
}

// GET /api/v1/seasons/{id}/standings
//
// Recomputes the ranked table from a fresh snapshot on every request. The
// engine is pure and fast at league sizes, so there is nothing to cache.
func HandleStandings(w http.ResponseWriter, r *http.Request) {
	if database == nil {
		log.Ctx(r.Context()).Error().Msg("Database not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	seasonID := strings.TrimSpace(r.PathValue(seasonIDPathKey))
	if seasonID == "" {
		apiutil.WriteError(w, r, http.StatusBadRequest, "Season ID is required", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), standingsQueryTimeout)
	defer cancel()

	snapshot, err := models.LoadScheduleSnapshot(ctx, database.Queries, seasonID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			apiutil.WriteError(w, r, http.StatusNotFound, "Season not found", nil)
			return
		}
		apiutil.WriteError(w, r, http.StatusInternalServerError, "Failed to load schedule", err)
		return
	}

	rows := snapshot.Standings()

	// Group the flat ordered rows by level for the table renderer. A level
	// with no teams still shows up, empty.
	tables := make([]levelTable, 0, len(snapshot.Levels))
	index := make(map[string]int, len(snapshot.Levels))
	for i, level := range snapshot.Levels {
		index[level.ID] = i
		tables = append(tables, levelTable{
			LevelID:   level.ID,
			LevelName: level.Name,
			Rows:      []enginepkg.Row{},
		})
	}
	for _, row := range rows {
		if i, ok := index[row.LevelID]; ok {
			tables[i].Rows = append(tables[i].Rows, row)
		}
	}

	payload := map[string]any{
		"seasonId": snapshot.Season.ID,
		"levels":   tables,
	}
	if err := apiutil.WriteJSON(w, http.StatusOK, payload); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write standings")
	}
}

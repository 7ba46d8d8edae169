package standings

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/platelminto/basketball-scheduler-sub000/internal/db"
	enginepkg "github.com/platelminto/basketball-scheduler-sub000/internal/standings"
	"github.com/platelminto/basketball-scheduler-sub000/internal/testutil"
)

type standingsPayload struct {
	SeasonID string `json:"seasonId"`
	Levels   []struct {
		LevelID   string          `json:"levelId"`
		LevelName string          `json:"levelName"`
		Rows      []enginepkg.Row `json:"rows"`
	} `json:"levels"`
}

func seedStandingsSeason(t *testing.T, database *db.DB) {
	t.Helper()
	ctx := context.Background()
	q := database.Queries

	if err := q.CreateSeason(ctx, db.Season{ID: "s1", Name: "Winter 2025", CreatedAt: time.Now().UTC()}); err != nil {
		t.Fatalf("seed season: %v", err)
	}
	levels := []db.Level{
		{ID: "l1", SeasonID: "s1", Name: "Competitive", DisplayOrder: 1},
		{ID: "l2", SeasonID: "s1", Name: "Intermediate", DisplayOrder: 2},
	}
	for _, level := range levels {
		if err := q.CreateLevel(ctx, level); err != nil {
			t.Fatalf("seed level: %v", err)
		}
	}
	teams := []db.Team{
		{ID: "t1", LevelID: "l1", Name: "Hawks"},
		{ID: "t2", LevelID: "l1", Name: "Comets"},
	}
	for _, team := range teams {
		if err := q.CreateTeam(ctx, team); err != nil {
			t.Fatalf("seed team: %v", err)
		}
	}

	if err := q.CreateWeek(ctx, db.Week{ID: "w1", SeasonID: "s1", WeekNumber: 1, MondayDate: time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)}); err != nil {
		t.Fatalf("seed week: %v", err)
	}
	if err := q.CreateGame(ctx, db.Game{
		ID: "g1", WeekID: "w1", LevelID: "l1",
		Team1ID: "t1", Team2ID: "t2",
		Team1Score: "21", Team2Score: "15",
	}); err != nil {
		t.Fatalf("seed game: %v", err)
	}
}

func TestHandleStandings(t *testing.T) {
	database := testutil.NewTestDB(t)
	seedStandingsSeason(t, database)
	InitHandlers(database)
	defer InitHandlers(nil)

	r := httptest.NewRequest(http.MethodGet, "/api/v1/seasons/s1/standings", nil)
	r.SetPathValue("id", "s1")
	w := httptest.NewRecorder()

	HandleStandings(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var payload standingsPayload
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload.SeasonID != "s1" {
		t.Errorf("expected season s1, got %q", payload.SeasonID)
	}
	if len(payload.Levels) != 2 {
		t.Fatalf("expected 2 level tables, got %d", len(payload.Levels))
	}

	comp := payload.Levels[0]
	if comp.LevelName != "Competitive" {
		t.Errorf("expected Competitive first, got %q", comp.LevelName)
	}
	if len(comp.Rows) != 2 {
		t.Fatalf("expected 2 rows in Competitive, got %d", len(comp.Rows))
	}
	if comp.Rows[0].TeamID != "t1" || comp.Rows[0].Wins != 1 {
		t.Errorf("expected Hawks on top with 1 win, got %+v", comp.Rows[0])
	}
	if comp.Rows[1].TeamID != "t2" || comp.Rows[1].Losses != 1 {
		t.Errorf("expected Comets second with 1 loss, got %+v", comp.Rows[1])
	}

	// An empty level still shows up with an empty table.
	if payload.Levels[1].LevelName != "Intermediate" || len(payload.Levels[1].Rows) != 0 {
		t.Errorf("expected empty Intermediate table, got %+v", payload.Levels[1])
	}
}

func TestHandleStandingsSeasonNotFound(t *testing.T) {
	database := testutil.NewTestDB(t)
	InitHandlers(database)
	defer InitHandlers(nil)

	r := httptest.NewRequest(http.MethodGet, "/api/v1/seasons/missing/standings", nil)
	r.SetPathValue("id", "missing")
	w := httptest.NewRecorder()

	HandleStandings(w, r)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestHandleStandingsMissingSeasonID(t *testing.T) {
	database := testutil.NewTestDB(t)
	InitHandlers(database)
	defer InitHandlers(nil)

	r := httptest.NewRequest(http.MethodGet, "/api/v1/seasons//standings", nil)
	w := httptest.NewRecorder()

	HandleStandings(w, r)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

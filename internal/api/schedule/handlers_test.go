package schedule

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/platelminto/basketball-scheduler-sub000/internal/db"
	"github.com/platelminto/basketball-scheduler-sub000/internal/testutil"
)

func seedScheduleSeason(t *testing.T, database *db.DB) {
	t.Helper()
	ctx := context.Background()
	q := database.Queries

	if err := q.CreateSeason(ctx, db.Season{ID: "s1", Name: "Winter 2025", CreatedAt: time.Now().UTC()}); err != nil {
		t.Fatalf("seed season: %v", err)
	}
	if err := q.CreateLevel(ctx, db.Level{ID: "l1", SeasonID: "s1", Name: "Competitive", DisplayOrder: 1}); err != nil {
		t.Fatalf("seed level: %v", err)
	}
	for _, team := range []db.Team{
		{ID: "t1", LevelID: "l1", Name: "Hawks"},
		{ID: "t2", LevelID: "l1", Name: "Comets"},
	} {
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
		DayOfWeek: 1, StartTime: "19:00", Court: "1",
	}); err != nil {
		t.Fatalf("seed game: %v", err)
	}
}

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request body: %v", err)
	}
	r := httptest.NewRequest(method, target, strings.NewReader(string(data)))
	r.Header.Set("Content-Type", "application/json")
	return r
}

func TestHandleWeekCreate(t *testing.T) {
	database := testutil.NewTestDB(t)
	seedScheduleSeason(t, database)
	InitHandlers(database)
	defer InitHandlers(nil)

	r := jsonRequest(t, http.MethodPost, "/api/v1/seasons/s1/weeks", weekRequest{
		WeekNumber: 2,
		MondayDate: "2025-01-13",
		IsOffWeek:  true,
	})
	r.SetPathValue("id", "s1")
	w := httptest.NewRecorder()

	HandleWeekCreate(w, r)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var created db.Week
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode created week: %v", err)
	}
	if created.ID == "" || created.WeekNumber != 2 || !created.IsOffWeek {
		t.Errorf("unexpected created week: %+v", created)
	}

	weeks, err := database.Queries.ListWeeksBySeason(context.Background(), "s1")
	if err != nil {
		t.Fatalf("list weeks: %v", err)
	}
	if len(weeks) != 2 {
		t.Errorf("expected 2 weeks after create, got %d", len(weeks))
	}
}

func TestHandleWeekCreateBadDate(t *testing.T) {
	database := testutil.NewTestDB(t)
	seedScheduleSeason(t, database)
	InitHandlers(database)
	defer InitHandlers(nil)

	r := jsonRequest(t, http.MethodPost, "/api/v1/seasons/s1/weeks", weekRequest{
		WeekNumber: 2,
		MondayDate: "Jan 13",
	})
	r.SetPathValue("id", "s1")
	w := httptest.NewRecorder()

	HandleWeekCreate(w, r)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad date, got %d", w.Code)
	}
}

func TestHandleWeekCreateSeasonNotFound(t *testing.T) {
	database := testutil.NewTestDB(t)
	InitHandlers(database)
	defer InitHandlers(nil)

	r := jsonRequest(t, http.MethodPost, "/api/v1/seasons/missing/weeks", weekRequest{
		WeekNumber: 1,
		MondayDate: "2025-01-06",
	})
	r.SetPathValue("id", "missing")
	w := httptest.NewRecorder()

	HandleWeekCreate(w, r)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestHandleGameCreateRequiresTeams(t *testing.T) {
	database := testutil.NewTestDB(t)
	seedScheduleSeason(t, database)
	InitHandlers(database)
	defer InitHandlers(nil)

	r := jsonRequest(t, http.MethodPost, "/api/v1/weeks/w1/games", gameRequest{
		LevelID: "l1",
		Team1ID: "t1",
	})
	r.SetPathValue("week_id", "w1")
	w := httptest.NewRecorder()

	HandleGameCreate(w, r)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 when team2 has neither ID nor name, got %d", w.Code)
	}
}

func TestHandleGameCreateByName(t *testing.T) {
	database := testutil.NewTestDB(t)
	seedScheduleSeason(t, database)
	InitHandlers(database)
	defer InitHandlers(nil)

	r := jsonRequest(t, http.MethodPost, "/api/v1/weeks/w1/games", gameRequest{
		LevelID:   "l1",
		Team1Name: "Hawks",
		Team2Name: "Comets",
		DayOfWeek: 3,
		StartTime: "20:00",
	})
	r.SetPathValue("week_id", "w1")
	w := httptest.NewRecorder()

	HandleGameCreate(w, r)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var created db.Game
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode created game: %v", err)
	}
	if created.WeekID != "w1" || created.Team1Name != "Hawks" || created.Team2Name != "Comets" {
		t.Errorf("unexpected created game: %+v", created)
	}
}

func TestHandleScoreUpdate(t *testing.T) {
	database := testutil.NewTestDB(t)
	seedScheduleSeason(t, database)
	InitHandlers(database)
	defer InitHandlers(nil)

	r := jsonRequest(t, http.MethodPut, "/api/v1/games/g1/score", scoreRequest{
		Team1Score: "21",
		Team2Score: "15",
	})
	r.SetPathValue("game_id", "g1")
	w := httptest.NewRecorder()

	HandleScoreUpdate(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	game, err := database.Queries.GetGame(context.Background(), "g1")
	if err != nil {
		t.Fatalf("get game: %v", err)
	}
	if game.Team1Score != "21" || game.Team2Score != "15" {
		t.Errorf("scores not persisted: %+v", game)
	}
}

func TestHandleScoreUpdateClear(t *testing.T) {
	database := testutil.NewTestDB(t)
	seedScheduleSeason(t, database)
	InitHandlers(database)
	defer InitHandlers(nil)

	if err := database.Queries.UpdateGameScore(context.Background(), "g1", "21", "15"); err != nil {
		t.Fatalf("pre-set score: %v", err)
	}

	r := jsonRequest(t, http.MethodPut, "/api/v1/games/g1/score", scoreRequest{})
	r.SetPathValue("game_id", "g1")
	w := httptest.NewRecorder()

	HandleScoreUpdate(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	game, err := database.Queries.GetGame(context.Background(), "g1")
	if err != nil {
		t.Fatalf("get game: %v", err)
	}
	if game.Team1Score != "" || game.Team2Score != "" {
		t.Errorf("blank entry should clear the score, got %+v", game)
	}
}

func TestHandleScoreUpdateRejectsBadScores(t *testing.T) {
	database := testutil.NewTestDB(t)
	seedScheduleSeason(t, database)
	InitHandlers(database)
	defer InitHandlers(nil)

	for _, bad := range []string{"-5", "forfeit", "12.5"} {
		r := jsonRequest(t, http.MethodPut, "/api/v1/games/g1/score", scoreRequest{
			Team1Score: bad,
			Team2Score: "10",
		})
		r.SetPathValue("game_id", "g1")
		w := httptest.NewRecorder()

		HandleScoreUpdate(w, r)

		if w.Code != http.StatusBadRequest {
			t.Errorf("score %q: expected 400, got %d", bad, w.Code)
		}
	}
}

func TestHandleScoreUpdateGameNotFound(t *testing.T) {
	database := testutil.NewTestDB(t)
	seedScheduleSeason(t, database)
	InitHandlers(database)
	defer InitHandlers(nil)

	r := jsonRequest(t, http.MethodPut, "/api/v1/games/missing/score", scoreRequest{
		Team1Score: "21",
		Team2Score: "15",
	})
	r.SetPathValue("game_id", "missing")
	w := httptest.NewRecorder()

	HandleScoreUpdate(w, r)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestHandleWeekDelete(t *testing.T) {
	database := testutil.NewTestDB(t)
	seedScheduleSeason(t, database)
	InitHandlers(database)
	defer InitHandlers(nil)

	r := httptest.NewRequest(http.MethodDelete, "/api/v1/weeks/w1", nil)
	r.SetPathValue("week_id", "w1")
	w := httptest.NewRecorder()

	HandleWeekDelete(w, r)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}

	weeks, err := database.Queries.ListWeeksBySeason(context.Background(), "s1")
	if err != nil {
		t.Fatalf("list weeks: %v", err)
	}
	if len(weeks) != 0 {
		t.Errorf("expected no weeks after delete, got %d", len(weeks))
	}
}

func TestHandleScheduleView(t *testing.T) {
	database := testutil.NewTestDB(t)
	seedScheduleSeason(t, database)
	InitHandlers(database)
	defer InitHandlers(nil)

	if err := database.Queries.UpdateGameScore(context.Background(), "g1", "21", "15"); err != nil {
		t.Fatalf("set score: %v", err)
	}

	r := httptest.NewRequest(http.MethodGet, "/api/v1/seasons/s1/schedule", nil)
	r.SetPathValue("id", "s1")
	w := httptest.NewRecorder()

	HandleScheduleView(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var payload struct {
		Season db.Season  `json:"season"`
		Weeks  []viewWeek `json:"weeks"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload.Season.ID != "s1" {
		t.Errorf("expected season s1, got %q", payload.Season.ID)
	}
	if len(payload.Weeks) != 1 {
		t.Fatalf("expected 1 week, got %d", len(payload.Weeks))
	}

	week := payload.Weeks[0]
	if week.MondayDate != "2025-01-06" {
		t.Errorf("expected monday 2025-01-06, got %q", week.MondayDate)
	}
	if len(week.Games) != 1 {
		t.Fatalf("expected 1 game, got %d", len(week.Games))
	}

	game := week.Games[0]
	if game.Team1Name != "Hawks" || game.Team2Name != "Comets" {
		t.Errorf("team names not resolved from roster: %+v", game)
	}
	if game.Team1Score != "21" || game.Team2Score != "15" {
		t.Errorf("unexpected scores: %+v", game)
	}
	if game.StartTime != "19:00" || game.Court != "1" {
		t.Errorf("court details missing from view: %+v", game)
	}
}

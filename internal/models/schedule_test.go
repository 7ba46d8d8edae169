package models

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/platelminto/basketball-scheduler-sub000/internal/db"
	"github.com/platelminto/basketball-scheduler-sub000/internal/testutil"
)

func seedSchedule(t *testing.T, database *db.DB) {
	t.Helper()
	ctx := context.Background()

	if err := database.Queries.CreateSeason(ctx, db.Season{
		ID: "s1", Name: "Winter 2025", CreatedAt: time.Now().UTC(),
	}); err != nil {
		t.Fatalf("seed season: %v", err)
	}
	if err := database.Queries.CreateLevel(ctx, db.Level{
		ID: "l1", SeasonID: "s1", Name: "Competitive", DisplayOrder: 1,
	}); err != nil {
		t.Fatalf("seed level: %v", err)
	}
	for _, team := range []db.Team{
		{ID: "t1", LevelID: "l1", Name: "Hawks"},
		{ID: "t2", LevelID: "l1", Name: "Comets"},
	} {
		if err := database.Queries.CreateTeam(ctx, team); err != nil {
			t.Fatalf("seed team: %v", err)
		}
	}
	if err := database.Queries.CreateWeek(ctx, db.Week{
		ID: "w1", SeasonID: "s1", WeekNumber: 1,
		MondayDate: time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC),
	}); err != nil {
		t.Fatalf("seed week: %v", err)
	}
	if err := database.Queries.CreateWeek(ctx, db.Week{
		ID: "w2", SeasonID: "s1", WeekNumber: 2,
		MondayDate: time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC),
		IsOffWeek:  true,
	}); err != nil {
		t.Fatalf("seed off-week: %v", err)
	}
	if err := database.Queries.CreateGame(ctx, db.Game{
		ID: "g1", WeekID: "w1", LevelID: "l1",
		Team1ID: "t1", Team2ID: "t2",
		Team1Score: "21", Team2Score: "15",
	}); err != nil {
		t.Fatalf("seed game: %v", err)
	}
}

func TestLoadScheduleSnapshot(t *testing.T) {
	database := testutil.NewTestDB(t)
	seedSchedule(t, database)

	snapshot, err := LoadScheduleSnapshot(context.Background(), database.Queries, "s1")
	if err != nil {
		t.Fatalf("load snapshot: %v", err)
	}

	if snapshot.Season.ID != "s1" {
		t.Errorf("unexpected season: %+v", snapshot.Season)
	}
	if len(snapshot.Levels) != 1 || snapshot.Levels[0].ID != "l1" {
		t.Errorf("unexpected levels: %+v", snapshot.Levels)
	}
	if len(snapshot.TeamsByLevel["l1"]) != 2 {
		t.Errorf("unexpected roster: %+v", snapshot.TeamsByLevel)
	}
	if len(snapshot.Weeks) != 2 {
		t.Fatalf("expected both weeks, got %+v", snapshot.Weeks)
	}
	if !snapshot.Weeks[1].OffWeek {
		t.Error("second week should be an off-week")
	}
	if len(snapshot.Weeks[0].Games) != 1 || snapshot.Weeks[0].Games[0].Score1 != "21" {
		t.Errorf("unexpected games: %+v", snapshot.Weeks[0].Games)
	}
}

func TestLoadScheduleSnapshotMissingSeason(t *testing.T) {
	database := testutil.NewTestDB(t)

	_, err := LoadScheduleSnapshot(context.Background(), database.Queries, "nope")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected ErrNoRows, got %v", err)
	}
}

func TestSnapshotStandings(t *testing.T) {
	database := testutil.NewTestDB(t)
	seedSchedule(t, database)

	snapshot, err := LoadScheduleSnapshot(context.Background(), database.Queries, "s1")
	if err != nil {
		t.Fatalf("load snapshot: %v", err)
	}

	rows := snapshot.Standings()
	if len(rows) != 2 {
		t.Fatalf("expected two ranked rows, got %+v", rows)
	}
	if rows[0].TeamID != "t1" || rows[0].Wins != 1 {
		t.Errorf("expected t1 on top, got %+v", rows[0])
	}
	if rows[1].TeamID != "t2" || rows[1].Losses != 1 {
		t.Errorf("expected t2 below, got %+v", rows[1])
	}
}

func TestSnapshotTeamNames(t *testing.T) {
	database := testutil.NewTestDB(t)
	seedSchedule(t, database)

	snapshot, err := LoadScheduleSnapshot(context.Background(), database.Queries, "s1")
	if err != nil {
		t.Fatalf("load snapshot: %v", err)
	}

	names := snapshot.TeamNames()
	if names["t1"] != "Hawks" || names["t2"] != "Comets" {
		t.Errorf("unexpected name lookup: %v", names)
	}
}

// internal/models/schedule.go
package models

import (
	"context"
	"fmt"

	"github.com/platelminto/basketball-scheduler-sub000/internal/db"
	"github.com/platelminto/basketball-scheduler-sub000/internal/standings"
)

// ScheduleSnapshot is the in-memory view of one season's schedule, shaped
// for the standings engine. It is rebuilt from storage on demand; nothing is
// cached between requests, so an edited score is always reflected in the
// next computation.
type ScheduleSnapshot struct {
	Season       db.Season
	Levels       []standings.Level
	TeamsByLevel map[string][]standings.Team
	Weeks        []standings.Week

	// GameDetails keeps the stored rows by game ID for fields the engine
	// ignores, like court and start time.
	GameDetails map[string]db.Game
}

// LoadScheduleSnapshot reads a season's levels, rosters, weeks and games in
// one pass. Callers decide what to do with it (standings, schedule view).
func LoadScheduleSnapshot(ctx context.Context, q *db.Queries, seasonID string) (*ScheduleSnapshot, error) {
	season, err := q.GetSeason(ctx, seasonID)
	if err != nil {
		return nil, err
	}

	levels, err := q.ListLevelsBySeason(ctx, seasonID)
	if err != nil {
		return nil, fmt.Errorf("loading levels: %w", err)
	}

	snapshot := &ScheduleSnapshot{
		Season:       season,
		TeamsByLevel: make(map[string][]standings.Team, len(levels)),
	}
	for _, level := range levels {
		snapshot.Levels = append(snapshot.Levels, standings.Level{
			ID:           level.ID,
			Name:         level.Name,
			DisplayOrder: level.DisplayOrder,
		})

		teams, err := q.ListTeamsByLevel(ctx, level.ID)
		if err != nil {
			return nil, fmt.Errorf("loading teams for level %s: %w", level.ID, err)
		}
		roster := make([]standings.Team, 0, len(teams))
		for _, team := range teams {
			roster = append(roster, standings.Team{ID: team.ID, Name: team.Name})
		}
		snapshot.TeamsByLevel[level.ID] = roster
	}

	weeks, err := q.ListWeeksBySeason(ctx, seasonID)
	if err != nil {
		return nil, fmt.Errorf("loading weeks: %w", err)
	}

	gamesBySeason, err := q.ListGamesBySeason(ctx, seasonID)
	if err != nil {
		return nil, fmt.Errorf("loading games: %w", err)
	}
	snapshot.GameDetails = make(map[string]db.Game, len(gamesBySeason))
	gamesByWeek := make(map[string][]standings.Game)
	for _, game := range gamesBySeason {
		snapshot.GameDetails[game.ID] = game
		gamesByWeek[game.WeekID] = append(gamesByWeek[game.WeekID], standings.Game{
			ID:        game.ID,
			LevelID:   game.LevelID,
			Team1ID:   game.Team1ID,
			Team1Name: game.Team1Name,
			Team2ID:   game.Team2ID,
			Team2Name: game.Team2Name,
			Score1:    game.Team1Score,
			Score2:    game.Team2Score,
			Referee:   game.RefereeName,
		})
	}

	for _, week := range weeks {
		snapshot.Weeks = append(snapshot.Weeks, standings.Week{
			Number:     week.WeekNumber,
			MondayDate: week.MondayDate,
			OffWeek:    week.IsOffWeek,
			Games:      gamesByWeek[week.ID],
		})
	}

	return snapshot, nil
}

// Standings runs the engine over the snapshot and returns the ranked table.
func (s *ScheduleSnapshot) Standings() []standings.Row {
	agg := standings.Build(s.Levels, s.TeamsByLevel, s.Weeks)
	return standings.Rank(agg, s.Levels)
}

// TeamNames returns a display-name lookup across every level's roster.
func (s *ScheduleSnapshot) TeamNames() map[string]string {
	names := make(map[string]string)
	for _, roster := range s.TeamsByLevel {
		for _, team := range roster {
			names[team.ID] = team.Name
		}
	}
	return names
}

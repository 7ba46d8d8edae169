// Package standings turns a season's completed games into a ranked league
// table per competitive level. Aggregation and ranking are pure in-memory
// transforms: no I/O, no shared state, safe to call concurrently for
// different snapshots.
package standings

import "time"

// Level is a competitive division. Levels partition teams into disjoint
// ranking pools; teams are never compared across levels.
type Level struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	DisplayOrder int    `json:"displayOrder"`
}

// Team is a roster entry within a single level.
type Team struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Game is a single scheduled matchup. Teams may be referenced by ID or, in
// older imported data, by display name only. Scores are raw strings as
// entered: empty means not yet played, and anything that does not parse as a
// non-negative integer leaves the game uncounted.
type Game struct {
	ID        string `json:"id"`
	LevelID   string `json:"levelId"`
	Team1ID   string `json:"team1Id"`
	Team1Name string `json:"team1Name"`
	Team2ID   string `json:"team2Id"`
	Team2Name string `json:"team2Name"`
	Score1    string `json:"team1Score"`
	Score2    string `json:"team2Score"`
	Referee   string `json:"referee,omitempty"`
}

// Week is one schedule slot. Off-weeks carry no games and are skipped
// entirely during aggregation.
type Week struct {
	Number     int       `json:"weekNumber"`
	MondayDate time.Time `json:"mondayDate"`
	OffWeek    bool      `json:"isOffWeek"`
	Games      []Game    `json:"games"`
}

// TeamStat is the accumulated record for one team. Built fresh on every
// aggregation run; never reused across runs.
type TeamStat struct {
	TeamID        string `json:"teamId"`
	Name          string `json:"name"`
	LevelID       string `json:"levelId"`
	GamesPlayed   int    `json:"gamesPlayed"`
	Wins          int    `json:"wins"`
	Losses        int    `json:"losses"`
	Draws         int    `json:"draws"`
	PointsFor     int    `json:"pointsFor"`
	PointsAgainst int    `json:"pointsAgainst"`
}

// WinPct returns wins over games played, or 0 for a team with no games.
func (s *TeamStat) WinPct() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.GamesPlayed)
}

// PointDiff returns points scored minus points allowed.
func (s *TeamStat) PointDiff() int {
	return s.PointsFor - s.PointsAgainst
}

// Record is a head-to-head record between one ordered pair of teams, always
// from the first team's perspective.
type Record struct {
	Wins      int `json:"wins"`
	Losses    int `json:"losses"`
	Draws     int `json:"draws"`
	PointDiff int `json:"pointDiff"`
}

// Meetings returns how many completed games the pair has played.
func (r Record) Meetings() int {
	return r.Wins + r.Losses + r.Draws
}

// Row is one line of the final ranked table.
type Row struct {
	TeamID        string  `json:"teamId"`
	Name          string  `json:"name"`
	LevelID       string  `json:"levelId"`
	LevelName     string  `json:"levelName"`
	GamesPlayed   int     `json:"gamesPlayed"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	Draws         int     `json:"draws"`
	PointsFor     int     `json:"pointsFor"`
	PointsAgainst int     `json:"pointsAgainst"`
	WinPct        float64 `json:"winPct"`
	PointDiff     int     `json:"pointDiff"`
}

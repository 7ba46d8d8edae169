// internal/db/models.go
package db

import "time"

type Season struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

type Level struct {
	ID           string `json:"id"`
	SeasonID     string `json:"seasonId"`
	Name         string `json:"name"`
	DisplayOrder int    `json:"displayOrder"`
}

type Team struct {
	ID      string `json:"id"`
	LevelID string `json:"levelId"`
	Name    string `json:"name"`
}

type Week struct {
	ID         string    `json:"id"`
	SeasonID   string    `json:"seasonId"`
	WeekNumber int       `json:"weekNumber"`
	MondayDate time.Time `json:"mondayDate"`
	IsOffWeek  bool      `json:"isOffWeek"`
}

// Game stores scores as the raw text that was entered. Blank means unplayed;
// the standings engine decides what counts, not the schema.
type Game struct {
	ID          string `json:"id"`
	WeekID      string `json:"weekId"`
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

type GenerationJob struct {
	ID          string    `json:"id"`
	SeasonID    string    `json:"seasonId"`
	RemoteID    string    `json:"remoteId"`
	Status      string    `json:"status"`
	Progress    float64   `json:"progress"`
	Detail      string    `json:"detail"`
	SubmittedAt time.Time `json:"submittedAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

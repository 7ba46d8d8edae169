// internal/db/queries.go
package db

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx so the query layer can run
// inside or outside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Queries struct {
	db DBTX
}

func NewQueries(db DBTX) *Queries {
	return &Queries{db: db}
}

// --- Seasons ---

func (q *Queries) CreateSeason(ctx context.Context, season Season) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO seasons (id, name, is_active, created_at) VALUES (?, ?, ?, ?)`,
		season.ID, season.Name, season.IsActive, season.CreatedAt,
	)
	return err
}

func (q *Queries) GetSeason(ctx context.Context, id string) (Season, error) {
	var s Season
	err := q.db.QueryRowContext(ctx,
		`SELECT id, name, is_active, created_at FROM seasons WHERE id = ?`, id,
	).Scan(&s.ID, &s.Name, &s.IsActive, &s.CreatedAt)
	return s, err
}

func (q *Queries) ListSeasons(ctx context.Context) ([]Season, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, name, is_active, created_at FROM seasons ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var seasons []Season
	for rows.Next() {
		var s Season
		if err := rows.Scan(&s.ID, &s.Name, &s.IsActive, &s.CreatedAt); err != nil {
			return nil, err
		}
		seasons = append(seasons, s)
	}
	return seasons, rows.Err()
}

func (q *Queries) UpdateSeasonName(ctx context.Context, id, name string) error {
	_, err := q.db.ExecContext(ctx, `UPDATE seasons SET name = ? WHERE id = ?`, name, id)
	return err
}

// ActivateSeason marks one season active and every other season inactive.
func (q *Queries) ActivateSeason(ctx context.Context, id string) error {
	if _, err := q.db.ExecContext(ctx, `UPDATE seasons SET is_active = 0 WHERE id != ?`, id); err != nil {
		return err
	}
	res, err := q.db.ExecContext(ctx, `UPDATE seasons SET is_active = 1 WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (q *Queries) DeleteSeason(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM seasons WHERE id = ?`, id)
	return err
}

// --- Levels ---

func (q *Queries) CreateLevel(ctx context.Context, level Level) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO levels (id, season_id, name, display_order) VALUES (?, ?, ?, ?)`,
		level.ID, level.SeasonID, level.Name, level.DisplayOrder,
	)
	return err
}

func (q *Queries) ListLevelsBySeason(ctx context.Context, seasonID string) ([]Level, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, season_id, name, display_order FROM levels
		 WHERE season_id = ? ORDER BY display_order, id`, seasonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var levels []Level
	for rows.Next() {
		var l Level
		if err := rows.Scan(&l.ID, &l.SeasonID, &l.Name, &l.DisplayOrder); err != nil {
			return nil, err
		}
		levels = append(levels, l)
	}
	return levels, rows.Err()
}

// --- Teams ---

func (q *Queries) CreateTeam(ctx context.Context, team Team) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO teams (id, level_id, name) VALUES (?, ?, ?)`,
		team.ID, team.LevelID, team.Name,
	)
	return err
}

func (q *Queries) ListTeamsByLevel(ctx context.Context, levelID string) ([]Team, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, level_id, name FROM teams WHERE level_id = ? ORDER BY name, id`, levelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTeams(rows)
}

func (q *Queries) ListTeamsBySeason(ctx context.Context, seasonID string) ([]Team, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT t.id, t.level_id, t.name FROM teams t
		 JOIN levels l ON l.id = t.level_id
		 WHERE l.season_id = ? ORDER BY l.display_order, t.name, t.id`, seasonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTeams(rows)
}

func scanTeams(rows *sql.Rows) ([]Team, error) {
	var teams []Team
	for rows.Next() {
		var t Team
		if err := rows.Scan(&t.ID, &t.LevelID, &t.Name); err != nil {
			return nil, err
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

// --- Weeks ---

func (q *Queries) CreateWeek(ctx context.Context, week Week) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO weeks (id, season_id, week_number, monday_date, is_off_week)
		 VALUES (?, ?, ?, ?, ?)`,
		week.ID, week.SeasonID, week.WeekNumber, week.MondayDate, week.IsOffWeek,
	)
	return err
}

func (q *Queries) GetWeek(ctx context.Context, id string) (Week, error) {
	var w Week
	err := q.db.QueryRowContext(ctx,
		`SELECT id, season_id, week_number, monday_date, is_off_week FROM weeks WHERE id = ?`, id,
	).Scan(&w.ID, &w.SeasonID, &w.WeekNumber, &w.MondayDate, &w.IsOffWeek)
	return w, err
}

func (q *Queries) ListWeeksBySeason(ctx context.Context, seasonID string) ([]Week, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, season_id, week_number, monday_date, is_off_week FROM weeks
		 WHERE season_id = ? ORDER BY week_number`, seasonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var weeks []Week
	for rows.Next() {
		var w Week
		if err := rows.Scan(&w.ID, &w.SeasonID, &w.WeekNumber, &w.MondayDate, &w.IsOffWeek); err != nil {
			return nil, err
		}
		weeks = append(weeks, w)
	}
	return weeks, rows.Err()
}

func (q *Queries) UpdateWeek(ctx context.Context, week Week) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE weeks SET monday_date = ?, is_off_week = ? WHERE id = ?`,
		week.MondayDate, week.IsOffWeek, week.ID,
	)
	return err
}

func (q *Queries) DeleteWeek(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM weeks WHERE id = ?`, id)
	return err
}

func (q *Queries) DeleteWeeksBySeason(ctx context.Context, seasonID string) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM weeks WHERE season_id = ?`, seasonID)
	return err
}

// --- Games ---

const gameColumns = `id, week_id, level_id, team1_id, team1_name, team2_id, team2_name,
	team1_score, team2_score, day_of_week, start_time, court, referee_name`

func (q *Queries) CreateGame(ctx context.Context, game Game) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO games (`+gameColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		game.ID, game.WeekID, game.LevelID,
		game.Team1ID, game.Team1Name, game.Team2ID, game.Team2Name,
		game.Team1Score, game.Team2Score,
		game.DayOfWeek, game.StartTime, game.Court, game.RefereeName,
	)
	return err
}

func (q *Queries) GetGame(ctx context.Context, id string) (Game, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+gameColumns+` FROM games WHERE id = ?`, id)
	return scanGame(row)
}

func (q *Queries) UpdateGame(ctx context.Context, game Game) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE games SET level_id = ?, team1_id = ?, team1_name = ?, team2_id = ?,
		 team2_name = ?, team1_score = ?, team2_score = ?, day_of_week = ?,
		 start_time = ?, court = ?, referee_name = ? WHERE id = ?`,
		game.LevelID, game.Team1ID, game.Team1Name, game.Team2ID, game.Team2Name,
		game.Team1Score, game.Team2Score, game.DayOfWeek, game.StartTime,
		game.Court, game.RefereeName, game.ID,
	)
	return err
}

func (q *Queries) UpdateGameScore(ctx context.Context, id, team1Score, team2Score string) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE games SET team1_score = ?, team2_score = ? WHERE id = ?`,
		team1Score, team2Score, id,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (q *Queries) DeleteGame(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM games WHERE id = ?`, id)
	return err
}

func (q *Queries) ListGamesByWeek(ctx context.Context, weekID string) ([]Game, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+gameColumns+` FROM games WHERE week_id = ?
		 ORDER BY day_of_week, start_time, id`, weekID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanGames(rows)
}

func (q *Queries) ListGamesBySeason(ctx context.Context, seasonID string) ([]Game, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT g.id, g.week_id, g.level_id, g.team1_id, g.team1_name, g.team2_id,
		 g.team2_name, g.team1_score, g.team2_score, g.day_of_week, g.start_time,
		 g.court, g.referee_name
		 FROM games g
		 JOIN weeks w ON w.id = g.week_id
		 WHERE w.season_id = ?
		 ORDER BY w.week_number, g.day_of_week, g.start_time, g.id`, seasonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanGames(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGame(row rowScanner) (Game, error) {
	var g Game
	err := row.Scan(
		&g.ID, &g.WeekID, &g.LevelID,
		&g.Team1ID, &g.Team1Name, &g.Team2ID, &g.Team2Name,
		&g.Team1Score, &g.Team2Score,
		&g.DayOfWeek, &g.StartTime, &g.Court, &g.RefereeName,
	)
	return g, err
}

func scanGames(rows *sql.Rows) ([]Game, error) {
	var games []Game
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		games = append(games, g)
	}
	return games, rows.Err()
}

// --- Generation jobs ---

func (q *Queries) CreateGenerationJob(ctx context.Context, job GenerationJob) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO generation_jobs (id, season_id, remote_id, status, progress, detail, submitted_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		job.ID, job.SeasonID, job.RemoteID, job.Status, job.Progress, job.Detail,
		job.SubmittedAt, job.UpdatedAt,
	)
	return err
}

func (q *Queries) GetGenerationJob(ctx context.Context, id string) (GenerationJob, error) {
	var j GenerationJob
	err := q.db.QueryRowContext(ctx,
		`SELECT id, season_id, remote_id, status, progress, detail, submitted_at, updated_at
		 FROM generation_jobs WHERE id = ?`, id,
	).Scan(&j.ID, &j.SeasonID, &j.RemoteID, &j.Status, &j.Progress, &j.Detail,
		&j.SubmittedAt, &j.UpdatedAt)
	return j, err
}

// ListActiveGenerationJobs returns jobs still waiting on the remote
// generator, oldest first.
func (q *Queries) ListActiveGenerationJobs(ctx context.Context) ([]GenerationJob, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, season_id, remote_id, status, progress, detail, submitted_at, updated_at
		 FROM generation_jobs WHERE status IN ('pending', 'running')
		 ORDER BY submitted_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []GenerationJob
	for rows.Next() {
		var j GenerationJob
		if err := rows.Scan(&j.ID, &j.SeasonID, &j.RemoteID, &j.Status, &j.Progress,
			&j.Detail, &j.SubmittedAt, &j.UpdatedAt); err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

func (q *Queries) UpdateGenerationJob(ctx context.Context, job GenerationJob) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE generation_jobs SET status = ?, progress = ?, detail = ?, updated_at = ?
		 WHERE id = ?`,
		job.Status, job.Progress, job.Detail, job.UpdatedAt, job.ID,
	)
	return err
}

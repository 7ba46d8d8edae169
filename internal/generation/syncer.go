// internal/generation/syncer.go
package generation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/platelminto/basketball-scheduler-sub000/internal/db"
)

// Local job statuses; pending and running track the remote states, the rest
// are terminal.
const (
	StatusPending = "pending"
	StatusRunning = "running"
	StatusApplied = "applied"
	StatusFailed  = "failed"
)

const mondayDateLayout = "2006-01-02"

// Syncer reconciles locally tracked generation jobs with the remote
// generator, applying finished schedules to storage.
type Syncer struct {
	database *db.DB
	client   *Client
}

func NewSyncer(database *db.DB, client *Client) *Syncer {
	return &Syncer{database: database, client: client}
}

// RunOnce polls every in-flight job. A failure on one job is logged and does
// not stop the others.
func (s *Syncer) RunOnce(ctx context.Context) error {
	jobs, err := s.database.Queries.ListActiveGenerationJobs(ctx)
	if err != nil {
		return fmt.Errorf("listing active generation jobs: %w", err)
	}

	for _, job := range jobs {
		if err := s.syncJob(ctx, job); err != nil {
			log.Ctx(ctx).Error().
				Err(err).
				Str("job_id", job.ID).
				Str("remote_id", job.RemoteID).
				Msg("Failed to sync generation job")
		}
	}
	return nil
}

func (s *Syncer) syncJob(ctx context.Context, job db.GenerationJob) error {
	status, err := s.client.Status(ctx, job.RemoteID)
	if err != nil {
		return err
	}

	job.Progress = status.Progress
	job.Detail = status.Detail
	job.UpdatedAt = time.Now().UTC()

	switch status.State {
	case StatePending:
		job.Status = StatusPending
	case StateRunning:
		job.Status = StatusRunning
	case StateFailed:
		job.Status = StatusFailed
		log.Ctx(ctx).Warn().
			Str("job_id", job.ID).
			Str("detail", status.Detail).
			Msg("Generation job failed remotely")
	case StateSucceeded:
		result, err := s.client.Result(ctx, job.RemoteID)
		if err != nil {
			return err
		}
		if err := s.applySchedule(ctx, job.SeasonID, result); err != nil {
			return fmt.Errorf("applying schedule for season %s: %w", job.SeasonID, err)
		}
		job.Status = StatusApplied
		job.Progress = 1
		log.Ctx(ctx).Info().
			Str("job_id", job.ID).
			Str("season_id", job.SeasonID).
			Int("weeks", len(result.Weeks)).
			Msg("Applied generated schedule")
	default:
		return fmt.Errorf("unknown remote state %q", status.State)
	}

	return s.database.Queries.UpdateGenerationJob(ctx, job)
}

// ExpireStale fails any tracked job still pending or running past maxAge.
// The remote side prunes its own records, so a job this old will never
// produce a schedule.
func (s *Syncer) ExpireStale(ctx context.Context, maxAge time.Duration) error {
	jobs, err := s.database.Queries.ListActiveGenerationJobs(ctx)
	if err != nil {
		return fmt.Errorf("listing active generation jobs: %w", err)
	}

	now := time.Now().UTC()
	cutoff := now.Add(-maxAge)
	for _, job := range jobs {
		if job.SubmittedAt.After(cutoff) {
			continue
		}

		job.Status = StatusFailed
		job.Detail = "expired without a result from the generator"
		job.UpdatedAt = now
		if err := s.database.Queries.UpdateGenerationJob(ctx, job); err != nil {
			log.Ctx(ctx).Error().
				Err(err).
				Str("job_id", job.ID).
				Msg("Failed to expire stale generation job")
			continue
		}
		log.Ctx(ctx).Warn().
			Str("job_id", job.ID).
			Str("remote_id", job.RemoteID).
			Time("submitted_at", job.SubmittedAt).
			Msg("Expired stale generation job")
	}
	return nil
}

// applySchedule replaces the season's schedule with the generated one in a
// single transaction. Any scores already entered belong to the schedule
// being replaced, so they go with it.
func (s *Syncer) applySchedule(ctx context.Context, seasonID string, result *ScheduleResult) error {
	return s.database.RunInTx(ctx, func(tx *db.DB) error {
		if err := tx.Queries.DeleteWeeksBySeason(ctx, seasonID); err != nil {
			return err
		}

		for _, week := range result.Weeks {
			monday, err := time.Parse(mondayDateLayout, week.MondayDate)
			if err != nil {
				return fmt.Errorf("week %d has bad monday date %q: %w", week.WeekNumber, week.MondayDate, err)
			}

			weekID := uuid.NewString()
			if err := tx.Queries.CreateWeek(ctx, db.Week{
				ID:         weekID,
				SeasonID:   seasonID,
				WeekNumber: week.WeekNumber,
				MondayDate: monday,
				IsOffWeek:  week.IsOffWeek,
			}); err != nil {
				return err
			}

			for _, game := range week.Games {
				if err := tx.Queries.CreateGame(ctx, db.Game{
					ID:          uuid.NewString(),
					WeekID:      weekID,
					LevelID:     game.LevelID,
					Team1ID:     game.Team1ID,
					Team2ID:     game.Team2ID,
					DayOfWeek:   game.DayOfWeek,
					StartTime:   game.StartTime,
					Court:       game.Court,
					RefereeName: game.Referee,
				}); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

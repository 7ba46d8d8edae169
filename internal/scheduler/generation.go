package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/platelminto/basketball-scheduler-sub000/internal/db"
	"github.com/platelminto/basketball-scheduler-sub000/internal/generation"
)

const (
	generationSyncTimeout = 2 * time.Minute

	// Jobs older than this will never get a result; the expiry sweep runs
	// nightly at 03:00.
	staleGenerationJobAge      = 24 * time.Hour
	generationExpiryCron       = "0 3 * * *"
	generationExpiryJobTimeout = time.Minute
)

// RegisterGenerationJobs registers the background tasks for schedule
// generation: an interval poll that applies finished schedules and a nightly
// sweep that expires jobs stuck without a result.
func RegisterGenerationJobs(database *db.DB, client *generation.Client, interval time.Duration) error {
	if database == nil {
		return fmt.Errorf("generation jobs require database")
	}
	if client == nil {
		return fmt.Errorf("generation jobs require generator client")
	}

	jobName := "generation_sync"
	jobLogger := log.With().
		Str("component", "generation_sync_job").
		Str("job_name", jobName).
		Logger()

	syncer := generation.NewSyncer(database, client)

	_, err := AddIntervalJob(jobName, interval, func() {
		ctx, cancel := context.WithTimeout(context.Background(), generationSyncTimeout)
		defer cancel()
		ctx = jobLogger.WithContext(ctx)

		if err := syncer.RunOnce(ctx); err != nil {
			jobLogger.Error().Err(err).Msg("Generation sync run failed")
		}
	})
	if err != nil {
		return err
	}

	expiryName := "generation_expiry"
	expiryLogger := log.With().
		Str("component", "generation_expiry_job").
		Str("job_name", expiryName).
		Logger()

	_, err = AddJob(expiryName, generationExpiryCron, func() {
		ctx, cancel := context.WithTimeout(context.Background(), generationExpiryJobTimeout)
		defer cancel()
		ctx = expiryLogger.WithContext(ctx)

		if err := syncer.ExpireStale(ctx, staleGenerationJobAge); err != nil {
			expiryLogger.Error().Err(err).Msg("Generation expiry run failed")
		}
	})
	return err
}

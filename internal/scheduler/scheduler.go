package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/harryji168/nba-api/internal/config"
	"github.com/harryji168/nba-api/internal/ingest"
)

// Scheduler runs the ingestion pipeline on a cron schedule so the local
// dataset keeps catching up season-by-season without manual runs.
type Scheduler struct {
	cfg      *config.Config
	ingestor *ingest.Ingestor
	cron     *cron.Cron

	mu      sync.Mutex
	running bool
}

// NewScheduler creates a new scheduler instance
func NewScheduler(cfg *config.Config, ingestor *ingest.Ingestor) *Scheduler {
	return &Scheduler{
		cfg:      cfg,
		ingestor: ingestor,
		cron:     cron.New(),
	}
}

// Start registers the refresh job and starts the cron loop.
func (s *Scheduler) Start(ctx context.Context) error {
	log.Info().Msg("Scheduler starting...")

	if _, err := s.cron.AddFunc(s.cfg.RefreshCron, func() {
		s.runSync(ctx)
	}); err != nil {
		return fmt.Errorf("failed to schedule refresh: %w", err)
	}

	s.cron.Start()
	log.Info().
		Str("schedule", s.cfg.RefreshCron).
		Msg("Refresh scheduled")

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	log.Info().Msg("Stopping scheduler...")

	if s.cron != nil {
		<-s.cron.Stop().Done()
	}

	log.Info().Msg("Scheduler stopped")
}

// runSync runs one full ingestion pass. Overlapping runs are skipped:
// a slow pass that outlives the cron interval must not be doubled up.
func (s *Scheduler) runSync(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		log.Warn().Msg("Previous sync still running, skipping this tick")
		return
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	log.Info().Msg("Running scheduled sync...")
	games, err := s.ingestor.IngestAll(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Scheduled sync failed")
		return
	}

	log.Info().Int("fetched_games", len(games)).Msg("Scheduled sync completed")
}

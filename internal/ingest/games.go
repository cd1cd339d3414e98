package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/harryji168/nba-api/internal/cache"
	"github.com/harryji168/nba-api/internal/metrics"
	"github.com/harryji168/nba-api/internal/models"
)

// Store is the persistence surface the ingestor needs. Every upsert is
// insert-if-absent: the existing id comes back and no field is ever
// updated.
type Store interface {
	UpsertTeam(ctx context.Context, name, logo string) (int64, error)
	UpsertArena(ctx context.Context, name, city, state string) (int64, error)
	UpsertGame(ctx context.Context, game *models.Game) (int64, error)
	UpsertLineScore(ctx context.Context, gameID, teamID int64, quarter, points int) error
	CountBySeason(ctx context.Context, season int) (int, error)
	InTx(ctx context.Context, fn func(Store) error) error
}

// Catalog enumerates the seasons to process.
type Catalog interface {
	GetSeasons(ctx context.Context) ([]int, error)
}

// Limiter paces live fetches between seasons.
type Limiter interface {
	Wait(ctx context.Context) error
}

// FixedDelay is a Limiter that sleeps a constant duration, honoring
// context cancellation. A zero delay makes it a no-op for tests.
type FixedDelay struct {
	Delay time.Duration
}

// Wait blocks for the configured delay or until ctx is cancelled.
func (d FixedDelay) Wait(ctx context.Context) error {
	if d.Delay <= 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d.Delay):
		return nil
	}
}

// Ingestor reconciles the upstream games endpoint, the per-season file
// cache and the relational store.
type Ingestor struct {
	catalog  Catalog
	fetcher  Fetcher
	cache    *cache.FileStore
	store    Store
	limiter  Limiter
	endpoint string
	logger   zerolog.Logger
}

// NewIngestor creates a game ingestor. The endpoint is the games URL
// prefix to which the season is appended.
func NewIngestor(catalog Catalog, fetcher Fetcher, fileStore *cache.FileStore, store Store, limiter Limiter, endpoint string, logger zerolog.Logger) *Ingestor {
	return &Ingestor{
		catalog:  catalog,
		fetcher:  fetcher,
		cache:    fileStore,
		store:    store,
		limiter:  limiter,
		endpoint: endpoint,
		logger:   logger,
	}
}

// IngestAll processes every season the catalog knows about.
//
// A season whose cache artifact is a hit is persisted from the cache,
// unless the stored game count already matches the cached record count,
// in which case it is treated as fully synced and skipped. A season
// without a usable artifact is fetched live; its raw body is cached and
// its records accumulate into the returned batch. Only live-fetched
// seasons contribute to the return value. Any failure aborts the whole
// run.
func (ing *Ingestor) IngestAll(ctx context.Context) ([]models.GameRecord, error) {
	start := time.Now()

	seasons, err := ing.catalog.GetSeasons(ctx)
	if err != nil {
		metrics.RecordSync("failure", time.Since(start).Seconds())
		return nil, err
	}
	if len(seasons) == 0 {
		metrics.RecordSync("failure", time.Since(start).Seconds())
		return nil, ErrNoSeasons
	}

	var batch []models.GameRecord
	for _, season := range seasons {
		if cached, ok := ing.cache.LoadSeasonGames(season); ok {
			for i := range cached {
				cached[i].Season = season
			}

			count, err := ing.store.CountBySeason(ctx, season)
			if err != nil {
				metrics.RecordSync("failure", time.Since(start).Seconds())
				return nil, fmt.Errorf("failed to count games for season %d: %w", season, err)
			}

			if count == len(cached) {
				ing.logger.Debug().
					Int("season", season).
					Int("games", count).
					Msg("Season already fully synced, skipping")
				metrics.RecordSeason("synced")
				continue
			}

			if err := ing.persistSeason(ctx, season, cached); err != nil {
				metrics.RecordSync("failure", time.Since(start).Seconds())
				return nil, err
			}
			metrics.RecordSeason("cached")
			continue
		}

		records, err := ing.fetchSeason(ctx, season)
		if err != nil {
			metrics.RecordSync("failure", time.Since(start).Seconds())
			return nil, err
		}
		batch = append(batch, records...)
		metrics.RecordSeason("fetched")

		// Courtesy pause before the next season's request.
		if err := ing.limiter.Wait(ctx); err != nil {
			metrics.RecordSync("failure", time.Since(start).Seconds())
			return nil, err
		}
	}

	metrics.RecordSync("success", time.Since(start).Seconds())
	return batch, nil
}

// fetchSeason performs the live fetch for one season, validates the
// payload and stores the raw body in the season's cache artifact.
func (ing *Ingestor) fetchSeason(ctx context.Context, season int) ([]models.GameRecord, error) {
	url := ing.endpoint + strconv.Itoa(season)

	body, err := ing.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("error fetching data from the NBA API: %w", err)
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("error fetching data from the NBA API: %w", ErrEmptyResponse)
	}

	var payload models.GamesPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("error fetching data from the NBA API: %w", err)
	}

	if payload.RateLimited() {
		return nil, fmt.Errorf("error fetching data from the NBA API: %w: %s", ErrRateLimited, payload.Message)
	}
	if payload.Response == nil {
		return nil, fmt.Errorf("error fetching data from the NBA API: %w", ErrMissingResponse)
	}

	if len(*payload.Response) > 0 {
		if err := ing.cache.SaveSeasonGames(season, body); err != nil {
			ing.logger.Warn().Int("season", season).Err(err).Msg("Failed to write season cache artifact")
		}
	}

	ing.logger.Info().
		Int("season", season).
		Int("games", len(*payload.Response)).
		Msg("Season fetched from API")

	return *payload.Response, nil
}

// persistSeason normalizes and upserts one season's records inside a
// single transaction: teams and arena before the game row, then both
// sides' line scores with quarters numbered from 1.
func (ing *Ingestor) persistSeason(ctx context.Context, season int, records []models.GameRecord) error {
	// Deterministic processing order within a season.
	sort.Slice(records, func(i, j int) bool {
		return records[i].ID > records[j].ID
	})

	err := ing.store.InTx(ctx, func(tx Store) error {
		for _, rec := range records {
			if err := ing.persistGame(ctx, tx, season, rec); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to persist season %d: %w", season, err)
	}

	metrics.RecordGamesIngested(len(records))
	ing.logger.Info().
		Int("season", season).
		Int("games", len(records)).
		Msg("Season persisted from cache")

	return nil
}

func (ing *Ingestor) persistGame(ctx context.Context, tx Store, season int, rec models.GameRecord) error {
	visitorsID, err := tx.UpsertTeam(ctx, rec.Teams.Visitors.Name, rec.Teams.Visitors.Logo)
	if err != nil {
		return err
	}

	homeID, err := tx.UpsertTeam(ctx, rec.Teams.Home.Name, rec.Teams.Home.Logo)
	if err != nil {
		return err
	}

	arenaID, err := tx.UpsertArena(ctx, rec.Arena.Name, rec.Arena.City, rec.Arena.State)
	if err != nil {
		return err
	}

	dateStart, err := models.ParseStart(rec.Date.Start)
	if err != nil {
		return fmt.Errorf("game %d: %w", rec.ID, err)
	}

	gameID, err := tx.UpsertGame(ctx, &models.Game{
		GameID:         rec.ID,
		Season:         season,
		DateStart:      dateStart,
		HomeTeamID:     homeID,
		VisitorsTeamID: visitorsID,
		HomePoints:     rec.Scores.Home.Points,
		VisitorsPoints: rec.Scores.Visitors.Points,
		ArenaID:        arenaID,
		Status:         rec.Status.Long,
	})
	if err != nil {
		return err
	}

	for i, points := range rec.Scores.Home.LinescorePoints() {
		if err := tx.UpsertLineScore(ctx, gameID, homeID, i+1, points); err != nil {
			return err
		}
	}
	for i, points := range rec.Scores.Visitors.LinescorePoints() {
		if err := tx.UpsertLineScore(ctx, gameID, visitorsID, i+1, points); err != nil {
			return err
		}
	}

	return nil
}

package ingest

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/harryji168/nba-api/internal/cache"
	"github.com/harryji168/nba-api/internal/models"
)

// Fetcher performs one authenticated GET and returns the raw body.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// SeasonService retrieves the list of known seasons, backed by the
// seasons cache artifact. A game fetch cannot proceed without it.
type SeasonService struct {
	fetcher  Fetcher
	store    *cache.FileStore
	endpoint string
	logger   zerolog.Logger
}

// NewSeasonService creates a season catalog reading from store and
// falling back to the seasons endpoint.
func NewSeasonService(fetcher Fetcher, store *cache.FileStore, endpoint string, logger zerolog.Logger) *SeasonService {
	return &SeasonService{
		fetcher:  fetcher,
		store:    store,
		endpoint: endpoint,
		logger:   logger,
	}
}

// GetSeasons returns the known seasons. The cached artifact is
// consulted first: a cached rate-limit notice fails hard, a cached
// non-empty list is returned as-is. Otherwise the endpoint is fetched,
// the body persisted on a non-empty result, and the parsed list
// returned (nil when the response field is absent). Lower-level
// failures collapse into one coarse error with the cause preserved.
func (s *SeasonService) GetSeasons(ctx context.Context) ([]int, error) {
	if body, ok := s.store.LoadSeasons(); ok {
		var payload models.SeasonsPayload
		if err := json.Unmarshal(body, &payload); err != nil {
			s.logger.Warn().Err(err).Msg("Discarding unparseable seasons cache artifact")
		} else {
			if payload.RateLimited() {
				return nil, fmt.Errorf("%w: %s", ErrRateLimited, payload.Message)
			}
			if payload.Response != nil && len(*payload.Response) > 0 {
				return *payload.Response, nil
			}
		}
	}

	body, err := s.fetcher.Fetch(ctx, s.endpoint)
	if err != nil {
		return nil, fmt.Errorf("error fetching data from the API: %w", err)
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("error fetching data from the API: %w", ErrEmptyResponse)
	}

	var payload models.SeasonsPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("error fetching data from the API: %w", err)
	}

	if payload.RateLimited() {
		return nil, fmt.Errorf("%w: %s", ErrRateLimited, payload.Message)
	}

	if payload.Response != nil && len(*payload.Response) > 0 {
		if err := s.store.SaveSeasons(body); err != nil {
			s.logger.Warn().Err(err).Msg("Failed to write seasons cache artifact")
		}
	}

	if payload.Response == nil {
		return nil, nil
	}

	return *payload.Response, nil
}

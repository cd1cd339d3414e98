package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/harryji168/nba-api/internal/metrics"
	"github.com/harryji168/nba-api/internal/models"
)

// FileStore is the per-season cache of raw API response bodies, laid
// out as json/seasons.json and json/{season}-games.json under the base
// directory. Artifacts never expire; presence plus the enabled flag is
// sufficient for a hit.
type FileStore struct {
	dir     string
	enabled bool
	logger  zerolog.Logger
}

// NewFileStore creates a file store rooted at dir. When enabled is
// false every load is a miss but saves still go through, so a later
// run with caching on can pick them up.
func NewFileStore(dir string, enabled bool, logger zerolog.Logger) *FileStore {
	return &FileStore{dir: dir, enabled: enabled, logger: logger}
}

// Enabled reports whether cached artifacts are trusted on load.
func (s *FileStore) Enabled() bool {
	return s.enabled
}

// SeasonsPath is the artifact holding the seasons list response.
func (s *FileStore) SeasonsPath() string {
	return filepath.Join(s.dir, "json", "seasons.json")
}

// SeasonGamesPath is the artifact holding one season's games response.
func (s *FileStore) SeasonGamesPath(season int) string {
	return filepath.Join(s.dir, "json", fmt.Sprintf("%d-games.json", season))
}

// LoadSeasonGames loads one season's cached payload. It is a hit only
// when the artifact exists, caching is enabled, and the payload carries
// a non-empty response array. A cached rate-limit notice is a soft
// miss: logged and reported as no data rather than escalated.
func (s *FileStore) LoadSeasonGames(season int) ([]models.GameRecord, bool) {
	if !s.enabled {
		metrics.RecordCacheMiss()
		return nil, false
	}

	body, err := os.ReadFile(s.SeasonGamesPath(season))
	if err != nil {
		metrics.RecordCacheMiss()
		return nil, false
	}

	var payload models.GamesPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		s.logger.Warn().
			Int("season", season).
			Err(err).
			Msg("Discarding unparseable season cache artifact")
		metrics.RecordCacheMiss()
		return nil, false
	}

	if payload.RateLimited() {
		s.logger.Warn().
			Int("season", season).
			Str("message", payload.Message).
			Msg("Rate limit exceeded in cached payload")
		metrics.RecordCacheMiss()
		return nil, false
	}

	if payload.Response == nil || len(*payload.Response) == 0 {
		metrics.RecordCacheMiss()
		return nil, false
	}

	metrics.RecordCacheHit()
	return *payload.Response, true
}

// LoadSeasons returns the raw cached seasons body, if present and
// caching is enabled. Interpretation is left to the caller.
func (s *FileStore) LoadSeasons() ([]byte, bool) {
	if !s.enabled {
		return nil, false
	}

	body, err := os.ReadFile(s.SeasonsPath())
	if err != nil {
		return nil, false
	}

	return body, true
}

// SaveSeasonGames stores the verbatim response body for a season.
func (s *FileStore) SaveSeasonGames(season int, body []byte) error {
	return s.write(s.SeasonGamesPath(season), body)
}

// SaveSeasons stores the verbatim seasons response body.
func (s *FileStore) SaveSeasons(body []byte) error {
	return s.write(s.SeasonsPath(), body)
}

func (s *FileStore) write(path string, body []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	if err := os.WriteFile(path, body, 0o644); err != nil {
		return fmt.Errorf("failed to write cache artifact: %w", err)
	}

	s.logger.Debug().Str("path", path).Int("size", len(body)).Msg("Cache artifact written")
	return nil
}

package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/harryji168/nba-api/internal/cache"
	"github.com/harryji168/nba-api/internal/metrics"
	"github.com/harryji168/nba-api/internal/models"
	"github.com/harryji168/nba-api/internal/repository"
)

const defaultPerPage = 10

// Server exposes the persisted game data over HTTP. Listings are
// cached in redis keyed by the full query tuple, so repeated requests
// for the same page skip the database entirely.
type Server struct {
	db        *repository.Database
	respCache *cache.RedisCache
	cacheTTL  time.Duration
	logger    zerolog.Logger
}

// NewServer creates an HTTP server over the given database. respCache
// may be nil, which disables response caching.
func NewServer(db *repository.Database, respCache *cache.RedisCache, cacheTTL time.Duration, logger zerolog.Logger) *Server {
	return &Server{
		db:        db,
		respCache: respCache,
		cacheTTL:  cacheTTL,
		logger:    logger,
	}
}

// Router builds the chi router with all routes registered.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", s.handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/games", s.handleListGames)
		r.Get("/games/{gameID}/linescores", s.handleLineScores)
	})

	return r
}

type gamesResponse struct {
	Total   int                  `json:"total"`
	Page    int                  `json:"page"`
	PerPage int                  `json:"per_page"`
	Games   []models.GameSummary `json:"games"`
}

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page := intParam(q.Get("page"), 1)
	perPage := intParam(q.Get("per_page"), defaultPerPage)
	search := q.Get("search")
	date := ""
	if raw := q.Get("date"); raw != "" {
		date = models.SanitizeDate(raw)
	}
	orderby := q.Get("orderby")

	cacheKey := fmt.Sprintf("games:%d:%d:%s:%s:%s", page, perPage, search, date, orderby)
	if body, ok := s.cachedResponse(r, cacheKey); ok {
		writeJSONRaw(w, body)
		return
	}

	games, err := s.db.Games.ListAll(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list games")
		writeError(w, http.StatusInternalServerError, "failed to list games")
		return
	}

	games = FilterGames(games, search, date)
	SortGames(games, orderby)

	resp := gamesResponse{
		Total:   len(games),
		Page:    page,
		PerPage: perPage,
		Games:   Paginate(games, page, perPage),
	}

	body, err := json.Marshal(resp)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to encode games response")
		writeError(w, http.StatusInternalServerError, "failed to encode response")
		return
	}

	s.storeResponse(r, cacheKey, body)
	writeJSONRaw(w, body)
}

func (s *Server) handleLineScores(w http.ResponseWriter, r *http.Request) {
	gameID, err := strconv.ParseInt(chi.URLParam(r, "gameID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid game id")
		return
	}
	teamID, err := strconv.ParseInt(r.URL.Query().Get("team_id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid team id")
		return
	}

	game, err := s.db.Games.GetByGameID(r.Context(), gameID)
	if err != nil {
		writeError(w, http.StatusNotFound, "game not found")
		return
	}

	scores, err := s.db.LineScores.ListByGameTeam(r.Context(), game.ID, teamID)
	if err != nil {
		s.logger.Error().Err(err).Int64("game_id", gameID).Msg("Failed to list linescores")
		writeError(w, http.StatusInternalServerError, "failed to list linescores")
		return
	}

	points := make([]int, 0, len(scores))
	for _, ls := range scores {
		points = append(points, ls.Points)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"game_id":    gameID,
		"team_id":    teamID,
		"linescores": points,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.db.Health(r.Context()); err != nil {
		s.logger.Error().Err(err).Msg("Health check failed")
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) cachedResponse(r *http.Request, key string) ([]byte, bool) {
	if s.respCache == nil {
		return nil, false
	}
	body, err := s.respCache.Get(r.Context(), key)
	if err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("Response cache read failed")
		return nil, false
	}
	if body == nil {
		metrics.ResponseCacheMissesTotal.Inc()
		return nil, false
	}
	metrics.ResponseCacheHitsTotal.Inc()
	return body, true
}

func (s *Server) storeResponse(r *http.Request, key string, body []byte) {
	if s.respCache == nil {
		return
	}
	if err := s.respCache.Set(r.Context(), key, body, s.cacheTTL); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("Response cache write failed")
	}
}

func intParam(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return fallback
	}
	return v
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONRaw(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"

	"github.com/harryji168/nba-api/internal/models"
)

// GameRepository handles game database operations
type GameRepository struct {
	db *Database
}

// Upsert inserts a game if its external game id is not yet known and
// returns the row id. A game already present is left untouched: there
// is no update path for score corrections from upstream.
func (r *GameRepository) Upsert(ctx context.Context, game *models.Game) (int64, error) {
	query := `
		INSERT INTO games (
			game_id, season, date_start, home_team_id, visitors_team_id,
			visitors_team_points, home_team_points, arena_id, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (game_id) DO NOTHING
		RETURNING id
	`

	// Canonical storage form: UTC, second precision.
	dateStart := game.DateStart.UTC().Truncate(time.Second)

	var id int64
	err := r.db.q.QueryRow(
		ctx, query,
		game.GameID, game.Season, dateStart, game.HomeTeamID, game.VisitorsTeamID,
		game.VisitorsPoints, game.HomePoints, game.ArenaID, game.Status,
	).Scan(&id)
	if err == nil {
		log.Debug().
			Int64("id", id).
			Int64("game_id", game.GameID).
			Int("season", game.Season).
			Msg("Game created")
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("failed to upsert game: %w", err)
	}

	err = r.db.q.QueryRow(ctx, `SELECT id FROM games WHERE game_id = $1`, game.GameID).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to get game: %w", err)
	}

	return id, nil
}

// GetByGameID retrieves a game by its external game id
func (r *GameRepository) GetByGameID(ctx context.Context, gameID int64) (*models.Game, error) {
	query := `
		SELECT id, game_id, season, date_start, home_team_id, visitors_team_id,
		       home_team_points, visitors_team_points, arena_id, status
		FROM games
		WHERE game_id = $1
	`

	var game models.Game
	err := r.db.q.QueryRow(ctx, query, gameID).Scan(
		&game.ID, &game.GameID, &game.Season, &game.DateStart,
		&game.HomeTeamID, &game.VisitorsTeamID,
		&game.HomePoints, &game.VisitorsPoints,
		&game.ArenaID, &game.Status,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("game not found: game_id=%d", gameID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return &game, nil
}

// CountBySeason returns the number of persisted games for a season
func (r *GameRepository) CountBySeason(ctx context.Context, season int) (int, error) {
	var count int
	err := r.db.q.QueryRow(ctx, `SELECT COUNT(*) FROM games WHERE season = $1`, season).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count games by season: %w", err)
	}

	return count, nil
}

// ListAll returns every game joined with both teams and the arena,
// ordered by external game id descending (most recent first).
func (r *GameRepository) ListAll(ctx context.Context) ([]models.GameSummary, error) {
	query := `
		SELECT games.id, games.game_id, games.season, games.date_start, games.status,
		       games.home_team_id, games.visitors_team_id,
		       games.home_team_points, games.visitors_team_points,
		       home_team.name, COALESCE(home_team.logo, ''),
		       visitors_team.name, COALESCE(visitors_team.logo, ''),
		       arenas.name, arenas.city, COALESCE(arenas.state, '')
		FROM games
		JOIN teams AS home_team ON games.home_team_id = home_team.id
		JOIN teams AS visitors_team ON games.visitors_team_id = visitors_team.id
		JOIN arenas ON games.arena_id = arenas.id
		ORDER BY games.game_id DESC
	`

	rows, err := r.db.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	defer rows.Close()

	var games []models.GameSummary
	for rows.Next() {
		var g models.GameSummary
		err := rows.Scan(
			&g.ID, &g.GameID, &g.Season, &g.DateStart, &g.Status,
			&g.HomeTeamID, &g.VisitorsTeamID,
			&g.HomePoints, &g.VisitorsPoints,
			&g.HomeTeamName, &g.HomeTeamLogo,
			&g.VisitorsTeamName, &g.VisitorsTeamLogo,
			&g.ArenaName, &g.ArenaCity, &g.ArenaState,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		games = append(games, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating games: %w", err)
	}

	log.Debug().Int("count", len(games)).Msg("Retrieved game listing")
	return games, nil
}

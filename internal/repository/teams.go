package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"

	"github.com/harryji168/nba-api/internal/models"
)

// TeamRepository handles team database operations
type TeamRepository struct {
	db *Database
}

// Upsert inserts a team if the name is not yet known and returns its
// id; an existing name keeps its original row untouched, including the
// logo (first write wins).
func (r *TeamRepository) Upsert(ctx context.Context, name, logo string) (int64, error) {
	query := `
		INSERT INTO teams (name, logo)
		VALUES ($1, $2)
		ON CONFLICT (name) DO NOTHING
		RETURNING id
	`

	var id int64
	err := r.db.q.QueryRow(ctx, query, name, logo).Scan(&id)
	if err == nil {
		log.Debug().
			Int64("id", id).
			Str("name", name).
			Msg("Team created")
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("failed to upsert team: %w", err)
	}

	// Name already present, reuse the existing row.
	err = r.db.q.QueryRow(ctx, `SELECT id FROM teams WHERE name = $1`, name).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to get team: %w", err)
	}

	return id, nil
}

// GetByName retrieves a team by its name
func (r *TeamRepository) GetByName(ctx context.Context, name string) (*models.Team, error) {
	query := `SELECT id, name, COALESCE(logo, '') FROM teams WHERE name = $1`

	var team models.Team
	err := r.db.q.QueryRow(ctx, query, name).Scan(&team.ID, &team.Name, &team.Logo)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("team not found: name=%s", name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}

	return &team, nil
}

// Count returns the total number of teams
func (r *TeamRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.q.QueryRow(ctx, `SELECT COUNT(*) FROM teams`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count teams: %w", err)
	}

	return count, nil
}

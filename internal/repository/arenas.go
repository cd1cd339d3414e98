package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"

	"github.com/harryji168/nba-api/internal/models"
)

// ArenaRepository handles arena database operations
type ArenaRepository struct {
	db *Database
}

// Upsert inserts an arena if the name is not yet known and returns its
// id; an existing name keeps its original row untouched (first write
// wins).
func (r *ArenaRepository) Upsert(ctx context.Context, name, city, state string) (int64, error) {
	query := `
		INSERT INTO arenas (name, city, state)
		VALUES ($1, $2, $3)
		ON CONFLICT (name) DO NOTHING
		RETURNING id
	`

	var id int64
	err := r.db.q.QueryRow(ctx, query, name, city, state).Scan(&id)
	if err == nil {
		log.Debug().
			Int64("id", id).
			Str("name", name).
			Str("city", city).
			Msg("Arena created")
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("failed to upsert arena: %w", err)
	}

	err = r.db.q.QueryRow(ctx, `SELECT id FROM arenas WHERE name = $1`, name).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to get arena: %w", err)
	}

	return id, nil
}

// GetByName retrieves an arena by its name
func (r *ArenaRepository) GetByName(ctx context.Context, name string) (*models.Arena, error) {
	query := `SELECT id, name, city, COALESCE(state, '') FROM arenas WHERE name = $1`

	var arena models.Arena
	err := r.db.q.QueryRow(ctx, query, name).Scan(&arena.ID, &arena.Name, &arena.City, &arena.State)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("arena not found: name=%s", name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get arena: %w", err)
	}

	return &arena, nil
}

// Count returns the total number of arenas
func (r *ArenaRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.q.QueryRow(ctx, `SELECT COUNT(*) FROM arenas`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count arenas: %w", err)
	}

	return count, nil
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/harryji168/nba-api/internal/models"
)

// LineScoreRepository handles per-quarter score database operations
type LineScoreRepository struct {
	db *Database
}

// Upsert inserts a quarter score if the (game, team, quarter) tuple is
// not yet present and returns the row id. Existing rows win.
func (r *LineScoreRepository) Upsert(ctx context.Context, ls *models.LineScore) (int64, error) {
	query := `
		INSERT INTO linescores (game_id, team_id, quarter, points)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (game_id, team_id, quarter) DO NOTHING
		RETURNING id
	`

	var id int64
	err := r.db.q.QueryRow(ctx, query, ls.GameID, ls.TeamID, ls.Quarter, ls.Points).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("failed to upsert linescore: %w", err)
	}

	err = r.db.q.QueryRow(
		ctx,
		`SELECT id FROM linescores WHERE game_id = $1 AND team_id = $2 AND quarter = $3`,
		ls.GameID, ls.TeamID, ls.Quarter,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to get linescore: %w", err)
	}

	return id, nil
}

// ListByGameTeam returns the quarter scores for one team in one game,
// ordered by quarter ascending.
func (r *LineScoreRepository) ListByGameTeam(ctx context.Context, gameID, teamID int64) ([]models.LineScore, error) {
	query := `
		SELECT id, game_id, team_id, quarter, points
		FROM linescores
		WHERE game_id = $1 AND team_id = $2
		ORDER BY quarter ASC
	`

	rows, err := r.db.q.Query(ctx, query, gameID, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list linescores: %w", err)
	}
	defer rows.Close()

	var scores []models.LineScore
	for rows.Next() {
		var ls models.LineScore
		if err := rows.Scan(&ls.ID, &ls.GameID, &ls.TeamID, &ls.Quarter, &ls.Points); err != nil {
			return nil, fmt.Errorf("failed to scan linescore: %w", err)
		}
		scores = append(scores, ls)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating linescores: %w", err)
	}

	return scores, nil
}

package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/harryji168/nba-api/internal/ingest"
	"github.com/harryji168/nba-api/internal/models"
)

// Querier is the subset of pgx operations the repositories use. Both
// *pgxpool.Pool and pgx.Tx satisfy it, so the same repository code runs
// inside or outside a transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Database holds the database connection pool and provides access to repositories
type Database struct {
	Pool *pgxpool.Pool
	q    Querier

	// Repositories
	Teams      *TeamRepository
	Arenas     *ArenaRepository
	Games      *GameRepository
	LineScores *LineScoreRepository
}

// Config holds database configuration
type Config struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	SSLMode  string
}

// NewDatabase creates a new database connection pool and initializes repositories
func NewDatabase(ctx context.Context, cfg Config) (*Database, error) {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.Database,
		cfg.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	poolConfig.MaxConns = 25
	poolConfig.MinConns = 5
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info().
		Str("host", cfg.Host).
		Str("port", cfg.Port).
		Str("database", cfg.Database).
		Msg("Successfully connected to database")

	db := &Database{Pool: pool}
	db.q = pool
	db.initRepositories()

	return db, nil
}

func (db *Database) initRepositories() {
	db.Teams = &TeamRepository{db: db}
	db.Arenas = &ArenaRepository{db: db}
	db.Games = &GameRepository{db: db}
	db.LineScores = &LineScoreRepository{db: db}
}

// withQuerier returns a view of the database bound to q, so repository
// calls through the view run against a transaction.
func (db *Database) withQuerier(q Querier) *Database {
	view := &Database{Pool: db.Pool, q: q}
	view.initRepositories()
	return view
}

// InTx runs fn against a transaction-bound repository view, committing
// on success and rolling back on error.
func (db *Database) InTx(ctx context.Context, fn func(ingest.Store) error) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(db.withQuerier(tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// UpsertTeam implements ingest.Store.
func (db *Database) UpsertTeam(ctx context.Context, name, logo string) (int64, error) {
	return db.Teams.Upsert(ctx, name, logo)
}

// UpsertArena implements ingest.Store.
func (db *Database) UpsertArena(ctx context.Context, name, city, state string) (int64, error) {
	return db.Arenas.Upsert(ctx, name, city, state)
}

// UpsertGame implements ingest.Store.
func (db *Database) UpsertGame(ctx context.Context, game *models.Game) (int64, error) {
	return db.Games.Upsert(ctx, game)
}

// UpsertLineScore implements ingest.Store.
func (db *Database) UpsertLineScore(ctx context.Context, gameID, teamID int64, quarter, points int) error {
	_, err := db.LineScores.Upsert(ctx, &models.LineScore{
		GameID:  gameID,
		TeamID:  teamID,
		Quarter: quarter,
		Points:  points,
	})
	return err
}

// CountBySeason implements ingest.Store.
func (db *Database) CountBySeason(ctx context.Context, season int) (int, error) {
	return db.Games.CountBySeason(ctx, season)
}

// Close closes the database connection pool
func (db *Database) Close() {
	if db.Pool != nil {
		db.Pool.Close()
		log.Info().Msg("Database connection pool closed")
	}
}

// Health checks if the database is healthy
func (db *Database) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := db.Pool.Ping(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}

	return nil
}

// PoolStats returns database pool statistics
func (db *Database) PoolStats() map[string]interface{} {
	stat := db.Pool.Stat()
	return map[string]interface{}{
		"total_conns":    stat.TotalConns(),
		"acquired_conns": stat.AcquiredConns(),
		"idle_conns":     stat.IdleConns(),
		"max_conns":      stat.MaxConns(),
	}
}

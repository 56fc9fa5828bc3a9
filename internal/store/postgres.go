package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/matchday/internal/config"
	"github.com/yourusername/matchday/internal/models"
)

// PostgresDataset serves historical games from a Postgres table, for
// deployments that ingest schedules into a shared database instead of flat
// files. It implements DatasetSink.
type PostgresDataset struct {
	pool *pgxpool.Pool
	log  *logrus.Logger
}

// NewPostgresDataset builds the connection pool and verifies connectivity.
func NewPostgresDataset(ctx context.Context, cfg *config.DatabaseConfig, dsn string, log *logrus.Logger) (*PostgresDataset, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConnections)
	poolConfig.MinConns = 1
	poolConfig.MaxConnLifetime = 5 * time.Minute
	poolConfig.MaxConnIdleTime = 1 * time.Minute
	poolConfig.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresDataset{pool: pool, log: log}, nil
}

// Close releases the connection pool.
func (p *PostgresDataset) Close() {
	if p.pool != nil {
		p.pool.Close()
	}
}

// Ping verifies database connectivity.
func (p *PostgresDataset) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// LoadDataset retrieves every game for a sport in chronological order. The
// box column is JSONB and may be null for football rows.
func (p *PostgresDataset) LoadDataset(ctx context.Context, sport models.Sport) ([]models.GameRecord, error) {
	query := `
		SELECT date, home_team, away_team, status, home_score, away_score,
			winner, week, season, box
		FROM games WHERE sport = $1 ORDER BY date ASC
	`
	rows, err := p.pool.Query(ctx, query, string(sport))
	if err != nil {
		return nil, fmt.Errorf("failed to query games: %w", err)
	}
	defer rows.Close()

	var games []models.GameRecord
	for rows.Next() {
		var g models.GameRecord
		var winner *string
		var box []byte
		if err := rows.Scan(
			&g.Date, &g.HomeTeam, &g.AwayTeam, &g.Status,
			&g.HomeScore, &g.AwayScore, &winner, &g.Week, &g.Season, &box,
		); err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		if winner != nil {
			g.Winner = *winner
		}
		if len(box) > 0 {
			if err := json.Unmarshal(box, &g.Box); err != nil {
				return nil, fmt.Errorf("box column for %s vs %s on %s: %v: %w",
					g.HomeTeam, g.AwayTeam, g.Date, err, models.ErrCorruptState)
			}
		}
		games = append(games, g)
	}
	return games, rows.Err()
}

// SaveDataset upserts game records keyed on (sport, date, home, away).
func (p *PostgresDataset) SaveDataset(ctx context.Context, sport models.Sport, games []models.GameRecord) error {
	query := `
		INSERT INTO games (
			sport, date, home_team, away_team, status,
			home_score, away_score, winner, week, season, box
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		ON CONFLICT (sport, date, home_team, away_team) DO UPDATE SET
			status = EXCLUDED.status,
			home_score = EXCLUDED.home_score,
			away_score = EXCLUDED.away_score,
			winner = EXCLUDED.winner,
			box = EXCLUDED.box
	`

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, g := range games {
		var winner *string
		if g.Winner != "" {
			winner = &g.Winner
		}
		var box []byte
		if len(g.Box) > 0 {
			box, err = json.Marshal(g.Box)
			if err != nil {
				return fmt.Errorf("failed to encode box for %s vs %s: %w", g.HomeTeam, g.AwayTeam, err)
			}
		}
		if _, err := tx.Exec(ctx, query,
			string(sport), g.Date, g.HomeTeam, g.AwayTeam, string(g.Status),
			g.HomeScore, g.AwayScore, winner, g.Week, g.Season, box,
		); err != nil {
			return fmt.Errorf("failed to upsert game: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit games: %w", err)
	}
	p.log.WithFields(logrus.Fields{"sport": sport, "games": len(games)}).Debug("Dataset persisted")
	return nil
}

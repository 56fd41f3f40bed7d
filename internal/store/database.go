package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/rs/zerolog"
)

// Database is a Postgres-backed store for aggregated team-season entries.
type Database struct {
	conn *sql.DB
	dsn  string
	log  zerolog.Logger
}

type migration struct {
	version string
	query   string
}

var migrations = []migration{
	{
		version: "001_create_team_season_cache",
		query: `
			CREATE TABLE IF NOT EXISTS team_season_cache (
				cache_key   VARCHAR(128) PRIMARY KEY,
				team        VARCHAR(8)   NOT NULL,
				season      VARCHAR(8)   NOT NULL,
				payload     JSONB        NOT NULL,
				captured_at TIMESTAMPTZ  NOT NULL
			)
		`,
	},
	{
		version: "002_index_team_season_cache",
		query:   `CREATE INDEX IF NOT EXISTS idx_team_season_cache_team ON team_season_cache (team, season)`,
	},
}

// NewDatabase opens and pings a Postgres connection.
func NewDatabase(dsn string, log zerolog.Logger) (*Database, error) {
	conn, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	conn.SetMaxOpenConns(20)
	conn.SetMaxIdleConns(5)
	conn.SetConnMaxLifetime(time.Hour)
	conn.SetConnMaxIdleTime(10 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := NewDatabaseFromConn(conn, log)
	db.dsn = dsn
	return db, nil
}

// NewDatabaseFromConn wraps an existing connection pool.
func NewDatabaseFromConn(conn *sql.DB, log zerolog.Logger) *Database {
	return &Database{
		conn: conn,
		log:  log.With().Str("component", "postgres-store").Logger(),
	}
}

// Close closes the database connection
func (db *Database) Close() error {
	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}

// HealthCheck pings the database.
func (db *Database) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return db.conn.PingContext(ctx)
}

// RunMigrations applies every schema migration not yet recorded.
func (db *Database) RunMigrations(ctx context.Context) error {
	db.log.Info().Msg("running database migrations")

	_, err := db.conn.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version VARCHAR(255) PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	for _, m := range migrations {
		if err := db.runMigration(ctx, m); err != nil {
			return fmt.Errorf("failed to run migration %s: %w", m.version, err)
		}
	}

	db.log.Info().Int("count", len(migrations)).Msg("migrations complete")
	return nil
}

func (db *Database) runMigration(ctx context.Context, m migration) error {
	var exists bool
	err := db.conn.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)", m.version,
	).Scan(&exists)
	if err != nil {
		return err
	}

	if exists {
		db.log.Debug().Str("version", m.version).Msg("migration already applied")
		return nil
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, m.query); err != nil {
		return fmt.Errorf("failed to execute migration: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations (version) VALUES ($1)", m.version); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	db.log.Info().Str("version", m.version).Msg("migration applied")
	return nil
}

// Load returns the entry stored under key, or ErrCacheMiss.
func (db *Database) Load(ctx context.Context, key string) (*CachedEntry, error) {
	var (
		payload    []byte
		capturedAt time.Time
	)

	err := db.conn.QueryRowContext(ctx,
		"SELECT payload, captured_at FROM team_season_cache WHERE cache_key = $1", key,
	).Scan(&payload, &capturedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query cache entry %s: %w", key, err)
	}

	entry := &CachedEntry{CapturedAt: capturedAt}
	if err := json.Unmarshal(payload, &entry.Stats); err != nil {
		return nil, fmt.Errorf("failed to decode cache entry %s: %w", key, err)
	}
	return entry, nil
}

// Save upserts the entry under key.
func (db *Database) Save(ctx context.Context, key string, entry CachedEntry) error {
	payload, err := json.Marshal(entry.Stats)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry %s: %w", key, err)
	}

	_, err = db.conn.ExecContext(ctx, `
		INSERT INTO team_season_cache (cache_key, team, season, payload, captured_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (cache_key) DO UPDATE SET
			team = EXCLUDED.team,
			season = EXCLUDED.season,
			payload = EXCLUDED.payload,
			captured_at = EXCLUDED.captured_at
	`, key, entry.Stats.Team, entry.Stats.Season, payload, entry.CapturedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to save cache entry %s: %w", key, err)
	}
	return nil
}

package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-admin/internal/config"
)

// Postgres wraps access to a pgx connection pool.
type Postgres struct {
	Pool *pgxpool.Pool
}

// NewPostgres establishes a connection pool.
func NewPostgres(ctx context.Context, cfg config.PostgresConfig, logger *zap.Logger) (*Postgres, error) {
	if cfg.DSN == "" {
		return nil, errors.New("POSTGRES_DSN required for postgres snapshot driver")
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, err
	}

	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.ConnMaxIdleSec > 0 {
		poolCfg.MaxConnIdleTime = time.Duration(cfg.ConnMaxIdleSec) * time.Second
	}
	if cfg.ConnMaxLifeSec > 0 {
		poolCfg.MaxConnLifetime = time.Duration(cfg.ConnMaxLifeSec) * time.Second
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("connected to postgres")
	return &Postgres{Pool: pool}, nil
}

// Close releases pool resources.
func (p *Postgres) Close() {
	if p != nil && p.Pool != nil {
		p.Pool.Close()
	}
}

// Ping verifies connectivity.
func (p *Postgres) Ping(ctx context.Context) error {
	if p == nil || p.Pool == nil {
		return errors.New("postgres pool not configured")
	}
	return p.Pool.Ping(ctx)
}

// PostgresSnapshotStore keeps the snapshot as one row per slot.
type PostgresSnapshotStore struct {
	pg   *Postgres
	slot string
}

// NewPostgresSnapshotStore builds the store and ensures its table exists.
func NewPostgresSnapshotStore(ctx context.Context, pg *Postgres, slot string) (*PostgresSnapshotStore, error) {
	const ddl = `
        CREATE TABLE IF NOT EXISTS store_snapshots (
            slot       TEXT PRIMARY KEY,
            data       BYTEA NOT NULL,
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`
	if _, err := pg.Pool.Exec(ctx, ddl); err != nil {
		return nil, err
	}
	return &PostgresSnapshotStore{pg: pg, slot: slot}, nil
}

// Load fetches the slot's snapshot blob.
func (s *PostgresSnapshotStore) Load(ctx context.Context) ([]byte, error) {
	const query = `SELECT data FROM store_snapshots WHERE slot=$1`
	var data []byte
	if err := s.pg.Pool.QueryRow(ctx, query, s.slot).Scan(&data); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoSnapshot
		}
		return nil, err
	}
	return data, nil
}

// Save upserts the slot's snapshot blob.
func (s *PostgresSnapshotStore) Save(ctx context.Context, data []byte) error {
	const query = `
        INSERT INTO store_snapshots (slot, data, updated_at)
        VALUES ($1, $2, NOW())
        ON CONFLICT (slot) DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()`
	_, err := s.pg.Pool.Exec(ctx, query, s.slot, data)
	return err
}

// Clear removes the slot's row.
func (s *PostgresSnapshotStore) Clear(ctx context.Context) error {
	const query = `DELETE FROM store_snapshots WHERE slot=$1`
	_, err := s.pg.Pool.Exec(ctx, query, s.slot)
	return err
}

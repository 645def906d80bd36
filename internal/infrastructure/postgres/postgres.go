// Package postgres implements the domain repositories on PostgreSQL
// using pgx. All repositories share the DB interface so tests can run
// against pgxmock instead of a live database.
package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
)

// DB is the subset of pgxpool.Pool the repositories use.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32
	MinConns int32
}

// Connect opens a connection pool and verifies it with a ping.
func Connect(ctx context.Context, connString string, poolCfg *PoolConfig) (*pgxpool.Pool, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return pool, nil
}

const migration = `
CREATE TABLE IF NOT EXISTS pages (
	id               TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	name             TEXT NOT NULL,
	url              TEXT NOT NULL DEFAULT '',
	meta_page_id     TEXT NOT NULL DEFAULT '',
	active_ads_count INT NOT NULL DEFAULT 0,
	score            DOUBLE PRECISION,
	tier             TEXT NOT NULL DEFAULT '',
	last_scored_at   TIMESTAMPTZ,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS products (
	id           TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	page_id      TEXT NOT NULL REFERENCES pages(id),
	handle       TEXT NOT NULL DEFAULT '',
	title        TEXT NOT NULL DEFAULT '',
	url          TEXT NOT NULL DEFAULT '',
	price_min    DOUBLE PRECISION,
	price_max    DOUBLE PRECISION,
	currency     TEXT NOT NULL DEFAULT '',
	available    BOOLEAN NOT NULL DEFAULT true,
	tags         TEXT[] NOT NULL DEFAULT '{}',
	vendor       TEXT NOT NULL DEFAULT '',
	image_url    TEXT NOT NULL DEFAULT '',
	product_type TEXT NOT NULL DEFAULT '',
	raw_data     JSONB,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (page_id, handle)
);

CREATE TABLE IF NOT EXISTS ads (
	id            TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	page_id       TEXT NOT NULL REFERENCES pages(id),
	meta_ad_id    TEXT NOT NULL,
	title         TEXT NOT NULL DEFAULT '',
	body          TEXT NOT NULL DEFAULT '',
	link_url      TEXT NOT NULL DEFAULT '',
	image_url     TEXT NOT NULL DEFAULT '',
	status        TEXT NOT NULL DEFAULT 'unknown',
	started_at    TIMESTAMPTZ,
	ended_at      TIMESTAMPTZ,
	first_seen_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	last_seen_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (page_id, meta_ad_id)
);

CREATE TABLE IF NOT EXISTS alerts (
	id         TEXT PRIMARY KEY,
	page_id    TEXT NOT NULL REFERENCES pages(id),
	type       TEXT NOT NULL,
	message    TEXT NOT NULL,
	severity   TEXT NOT NULL,
	old_score  DOUBLE PRECISION,
	new_score  DOUBLE PRECISION,
	old_tier   TEXT NOT NULL DEFAULT '',
	new_tier   TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_products_page_id ON products(page_id);
CREATE INDEX IF NOT EXISTS idx_ads_page_id ON ads(page_id);
CREATE INDEX IF NOT EXISTS idx_alerts_page_id ON alerts(page_id);
CREATE INDEX IF NOT EXISTS idx_alerts_created_at ON alerts(created_at DESC);
`

// Migrate applies the schema. Idempotent; safe to run on every startup.
func Migrate(ctx context.Context, db DB) error {
	if _, err := db.Exec(ctx, migration); err != nil {
		return eris.Wrap(err, "postgres: migrate")
	}
	return nil
}

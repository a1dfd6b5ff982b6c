package repository

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/joseph-ayodele/dsm-migrator/internal/common"
)

// Config holds the pool settings for the production Postgres store.
type Config struct {
	DSN              string
	MaxConns         int32
	MinConns         int32
	MaxConnLifetime  time.Duration
	MaxConnIdleTime  time.Duration
	DialTimeout      time.Duration
	StatementTimeout time.Duration
}

// PostgresStore is the production DataStore: one jsonb document per migrated
// row, queryable by containment for duplicate checks.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// OpenPostgres creates a pgx pool and verifies the migration schema exists.
func OpenPostgres(ctx context.Context, cfg Config, logger *slog.Logger) (*PostgresStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("connecting to database", "dsn", cfg.DSN)
	pc, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		logger.Error("failed to parse database config", "error", err)
		return nil, err
	}

	pc.MaxConns = cfg.MaxConns
	pc.MinConns = cfg.MinConns
	pc.MaxConnLifetime = cfg.MaxConnLifetime
	pc.MaxConnIdleTime = cfg.MaxConnIdleTime
	pc.ConnConfig.RuntimeParams["application_name"] = "dsm-migrator"
	if cfg.StatementTimeout > 0 {
		pc.ConnConfig.RuntimeParams["statement_timeout"] = cfg.StatementTimeout.String()
	}

	dialCtx := ctx
	if cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		dialCtx, cancel = context.WithTimeout(ctx, cfg.DialTimeout)
		defer cancel()
	}
	pool, err := pgxpool.NewWithConfig(dialCtx, pc)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		return nil, err
	}

	store := &PostgresStore{pool: pool, logger: logger}
	if err := store.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	logger.Info("successfully connected to database")
	return store, nil
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS records (
			id         UUID PRIMARY KEY,
			table_name TEXT NOT NULL,
			row        JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS idx_records_table_row ON records (table_name);
	`)
	if err != nil {
		s.logger.Error("failed to create schema", "error", err)
		return common.WrapError(common.ErrDatabase, err.Error())
	}
	return nil
}

// Close closes the pool gracefully.
func (s *PostgresStore) Close() {
	s.logger.Info("closing database connections")
	s.pool.Close()
}

// HealthCheck pings the pool to catch DSN issues early.
func (s *PostgresStore) HealthCheck(ctx context.Context, timeout time.Duration) error {
	s.logger.Debug("pinging database")
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return s.pool.Ping(ctx)
}

func (s *PostgresStore) Insert(ctx context.Context, table string, row map[string]any) (uuid.UUID, error) {
	id := uuid.New()
	doc := make(map[string]any, len(row)+1)
	for k, v := range row {
		doc[k] = v
	}
	doc["id"] = id.String()

	payload, err := json.Marshal(doc)
	if err != nil {
		return uuid.Nil, common.WrapError(err, "encoding row")
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO records (id, table_name, row) VALUES ($1, $2, $3)
	`, id, table, payload)
	if err != nil {
		s.logger.Error("postgres.insert.failed", "table", table, "error", err)
		return uuid.Nil, common.WrapError(common.ErrDatabase, err.Error())
	}
	return id, nil
}

// FindOne uses jsonb containment so the predicate is evaluated server-side.
func (s *PostgresStore) FindOne(ctx context.Context, table string, pred map[string]any) (map[string]any, bool, error) {
	predJSON, err := json.Marshal(pred)
	if err != nil {
		return nil, false, common.WrapError(err, "encoding predicate")
	}
	var payload []byte
	err = s.pool.QueryRow(ctx, `
		SELECT row FROM records
		WHERE table_name = $1 AND row @> $2::jsonb
		ORDER BY created_at
		LIMIT 1
	`, table, predJSON).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		s.logger.Error("postgres.find_one.failed", "table", table, "error", err)
		return nil, false, common.WrapError(common.ErrDatabase, err.Error())
	}
	var doc map[string]any
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, false, common.WrapError(err, "decoding row")
	}
	return doc, true, nil
}

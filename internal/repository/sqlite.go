package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/joseph-ayodele/dsm-migrator/internal/common"
)

// SQLiteStore is a DataStore over a local SQLite database. Rows are stored as
// JSON documents in a single records table, one logical table per table_name.
// Used for local runs and integration tests; cgo-free.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS records (
	id         TEXT PRIMARY KEY,
	table_name TEXT NOT NULL,
	row        TEXT NOT NULL,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_records_table ON records(table_name);
`

// OpenSQLite opens (creating if needed) the database at path. ":memory:" is
// accepted for throwaway stores.
func OpenSQLite(ctx context.Context, path string, logger *slog.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, common.WrapError(err, "opening sqlite database")
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		cerr := db.Close()
		return nil, errors.Join(common.WrapError(err, "creating schema"), cerr)
	}
	logger.Info("sqlite.open", "path", path)
	return &SQLiteStore{db: db, logger: logger}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Insert(ctx context.Context, table string, row map[string]any) (uuid.UUID, error) {
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
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO records (id, table_name, row, created_at)
		VALUES (?, ?, ?, ?)
	`, id.String(), table, string(payload), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		s.logger.Error("sqlite.insert.failed", "table", table, "error", err)
		return uuid.Nil, common.WrapError(common.ErrDatabase, err.Error())
	}
	return id, nil
}

func (s *SQLiteStore) FindOne(ctx context.Context, table string, pred map[string]any) (map[string]any, bool, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT row FROM records WHERE table_name = ? ORDER BY created_at
	`, table)
	if err != nil {
		return nil, false, common.WrapError(common.ErrDatabase, err.Error())
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			s.logger.Warn("sqlite.rows_close", "error", cerr)
		}
	}()

	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, false, common.WrapError(common.ErrDatabase, err.Error())
		}
		var doc map[string]any
		if err := json.Unmarshal([]byte(payload), &doc); err != nil {
			continue
		}
		if matches(doc, pred) {
			return doc, true, nil
		}
	}
	return nil, false, rows.Err()
}

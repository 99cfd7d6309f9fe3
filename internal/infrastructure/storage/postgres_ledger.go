package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"

	"Unhoster/internal/domain"
	"Unhoster/internal/ports"
)

const ledgerTable = "retrieved_assets"

const ledgerSchema = `CREATE TABLE IF NOT EXISTS retrieved_assets (
    source_url  TEXT        NOT NULL,
    category    TEXT        NOT NULL,
    target_name TEXT        NOT NULL,
    outcome     TEXT        NOT NULL,
    bytes       INTEGER     NOT NULL DEFAULT 0,
    error       TEXT        NOT NULL DEFAULT '',
    run_id      TEXT        NOT NULL,
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (source_url, category)
)`

// PostgresLedger records per-asset outcomes into Postgres.
type PostgresLedger struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.AssetLedger = (*PostgresLedger)(nil)

// NewPostgresLedger wires a sql.DB implementation.
func NewPostgresLedger(db *sql.DB) *PostgresLedger {
	return &PostgresLedger{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// OpenPostgresLedger connects to dsn, verifies the connection and ensures the table exists.
func OpenPostgresLedger(ctx context.Context, dsn string) (*PostgresLedger, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping ledger: %w", err)
	}

	ledger := NewPostgresLedger(db)
	if err := ledger.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return ledger, nil
}

// EnsureSchema creates the ledger table if needed.
func (l *PostgresLedger) EnsureSchema(ctx context.Context) error {
	if l.db == nil {
		return nil
	}
	if _, err := l.db.ExecContext(ctx, ledgerSchema); err != nil {
		return fmt.Errorf("create ledger table: %w", err)
	}
	return nil
}

// Record upserts the latest outcome for the entry's (URL, category) pair.
func (l *PostgresLedger) Record(ctx context.Context, entry domain.LedgerEntry) error {
	if l.db == nil {
		return nil
	}

	query, args, err := l.upsert(entry).ToSql()
	if err != nil {
		return fmt.Errorf("build ledger upsert: %w", err)
	}
	if _, err := l.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert ledger entry: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (l *PostgresLedger) Close() error {
	if l.db == nil {
		return nil
	}
	return l.db.Close()
}

func (l *PostgresLedger) upsert(entry domain.LedgerEntry) sq.InsertBuilder {
	at := entry.At
	if at.IsZero() {
		at = time.Now().UTC()
	}

	return l.builder.
		Insert(ledgerTable).
		Columns("source_url", "category", "target_name", "outcome", "bytes", "error", "run_id", "updated_at").
		Values(
			entry.Reference.SourceURL,
			string(entry.Reference.Category),
			entry.Reference.TargetName,
			string(entry.Outcome),
			entry.Bytes,
			entry.Error,
			entry.RunID,
			at,
		).
		Suffix(`ON CONFLICT (source_url, category) DO UPDATE
              SET target_name = EXCLUDED.target_name,
                  outcome = EXCLUDED.outcome,
                  bytes = EXCLUDED.bytes,
                  error = EXCLUDED.error,
                  run_id = EXCLUDED.run_id,
                  updated_at = EXCLUDED.updated_at`)
}

package storage

import (
	"context"
	"strings"
	"testing"
	"time"

	"Unhoster/internal/domain"
)

func TestLedgerUpsertQuery(t *testing.T) {
	t.Parallel()

	ledger := NewPostgresLedger(nil)
	at := time.Date(2025, time.November, 8, 12, 0, 0, 0, time.UTC)
	entry := domain.LedgerEntry{
		RunID: "run-1",
		Reference: domain.AssetReference{
			SourceURL:  "http://example.com/a.obj",
			Category:   domain.CategoryModel,
			TargetName: "httpexamplecomaobj.obj",
		},
		Outcome: domain.OutcomeWritten,
		Bytes:   42,
		At:      at,
	}

	query, args, err := ledger.upsert(entry).ToSql()
	if err != nil {
		t.Fatalf("ToSql: %v", err)
	}

	if !strings.HasPrefix(query, "INSERT INTO retrieved_assets (source_url,category,target_name,outcome,bytes,error,run_id,updated_at) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)") {
		t.Fatalf("unexpected query: %s", query)
	}
	if !strings.Contains(query, "ON CONFLICT (source_url, category) DO UPDATE") {
		t.Fatalf("query lacks upsert clause: %s", query)
	}
	if len(args) != 8 {
		t.Fatalf("expected 8 args, got %d", len(args))
	}
	if args[1] != "model" || args[3] != "written" || args[4] != 42 || args[7] != at {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestLedgerWithoutDatabaseIsNoop(t *testing.T) {
	t.Parallel()

	ledger := NewPostgresLedger(nil)
	if err := ledger.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	if err := ledger.Record(context.Background(), domain.LedgerEntry{}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := ledger.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

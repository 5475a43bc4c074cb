package repo

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"aimarketer/internal/domain"
	"aimarketer/internal/infra"
)

type stubDB struct {
	execQueries []string
	execArgs    [][]any
	execErr     error
	row         stubRow
}

func (s *stubDB) Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	s.execQueries = append(s.execQueries, query)
	s.execArgs = append(s.execArgs, args)
	return pgconn.NewCommandTag("INSERT 0 1"), s.execErr
}

func (s *stubDB) QueryRow(ctx context.Context, query string, args ...any) pgx.Row {
	return s.row
}

func (s *stubDB) Query(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
	return nil, errors.New("unexpected Query")
}

type stubRow struct {
	values []int64
	err    error
}

func (r stubRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i, d := range dest {
		*(d.(*int64)) = r.values[i]
	}
	return nil
}

func TestRecordGenerationFillsDefaults(t *testing.T) {
	db := &stubDB{}
	repo := NewUsageRepository(infra.NewSQLRunner(db, zerolog.Nop()))

	err := repo.RecordGeneration(context.Background(), domain.GenerationEvent{
		RequestID:    "rid-1",
		Style:        "vintage",
		PromptLength: 13,
		Success:      true,
		LatencyMS:    850,
		Country:      "ID",
	})
	if err != nil {
		t.Fatalf("RecordGeneration error: %v", err)
	}
	if len(db.execArgs) != 1 {
		t.Fatalf("expected one exec, got %d", len(db.execArgs))
	}
	args := db.execArgs[0]
	if id, _ := args[0].(string); len(id) != 36 {
		t.Fatalf("expected generated uuid, got %#v", args[0])
	}
	if args[1] != "rid-1" || args[2] != "vintage" || args[3] != 13 || args[4] != true {
		t.Fatalf("unexpected args: %#v", args)
	}
	if strings.HasPrefix(db.execQueries[0], "--sql") {
		t.Fatalf("marker should be stripped by the runner")
	}
}

func TestRecordGenerationWrapsError(t *testing.T) {
	db := &stubDB{execErr: errors.New("connection reset")}
	repo := NewUsageRepository(db)

	err := repo.RecordGeneration(context.Background(), domain.GenerationEvent{})
	if err == nil || !strings.Contains(err.Error(), "insert generation event") {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestSummary(t *testing.T) {
	db := &stubDB{row: stubRow{values: []int64{10, 8, 2, 4, 900}}}
	repo := NewUsageRepository(db)

	s, err := repo.Summary(context.Background())
	if err != nil {
		t.Fatalf("Summary error: %v", err)
	}
	want := domain.UsageSummary{Total: 10, Succeeded: 8, Failed: 2, Last24h: 4, AvgLatencyMS: 900}
	if *s != want {
		t.Fatalf("Summary = %+v, want %+v", *s, want)
	}
}

func TestEnsureSchema(t *testing.T) {
	db := &stubDB{}
	if err := NewUsageRepository(db).EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema error: %v", err)
	}
	if !strings.Contains(db.execQueries[0], "create table if not exists generation_events") {
		t.Fatalf("unexpected DDL: %s", db.execQueries[0])
	}
}

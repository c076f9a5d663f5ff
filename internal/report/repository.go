package report

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/homorunner/ASG-benchmark/internal/bench"
	"github.com/homorunner/ASG-benchmark/internal/domain"
)

// Repository persists benchmark runs to Postgres. The table is expected to
// exist (see schema below); persistence is optional and a missing
// DATABASE_URL simply disables it at the call site.
//
//	CREATE TABLE benchmark_runs (
//	    id BIGSERIAL PRIMARY KEY,
//	    run_uuid TEXT UNIQUE NOT NULL,
//	    benchmark_name TEXT NOT NULL,
//	    collection_name TEXT NOT NULL,
//	    solver_name TEXT NOT NULL,
//	    model TEXT NOT NULL,
//	    total_puzzles INT NOT NULL,
//	    total_score DOUBLE PRECISION NOT NULL,
//	    max_possible_score DOUBLE PRECISION NOT NULL,
//	    average_score DOUBLE PRECISION NOT NULL,
//	    passes INT NOT NULL DEFAULT 1,
//	    pass_at_1 DOUBLE PRECISION,
//	    pass_at_n DOUBLE PRECISION,
//	    result JSONB NOT NULL,
//	    started_at TIMESTAMPTZ NOT NULL,
//	    finished_at TIMESTAMPTZ NOT NULL,
//	    duration_ms BIGINT NOT NULL
//	)
type Repository struct {
	db *sql.DB
}

func NewRepository(databaseURL string) (*Repository, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(8)
	db.SetMaxIdleConns(4)
	db.SetConnMaxLifetime(30 * time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

// SaveRun inserts a completed benchmark run and returns its row id.
func (r *Repository) SaveRun(ctx context.Context, res *bench.Result, collectionName, model string, startedAt, finishedAt time.Time) (int64, error) {
	if r == nil || r.db == nil {
		return 0, fmt.Errorf("repository not initialized")
	}
	if res == nil {
		return 0, fmt.Errorf("nil benchmark result")
	}

	raw, err := json.Marshal(res)
	if err != nil {
		return 0, fmt.Errorf("marshal result: %w", err)
	}

	run := domain.BenchmarkRun{
		RunUUID:          uuid.NewString(),
		BenchmarkName:    res.BenchmarkName,
		CollectionName:   collectionName,
		SolverName:       res.SolverName,
		Model:            model,
		TotalPuzzles:     res.TotalPuzzles,
		TotalScore:       res.TotalScore,
		MaxPossibleScore: res.MaxPossibleScore,
		AverageScore:     res.AverageScore,
		Passes:           1,
		StartedAt:        startedAt,
		FinishedAt:       finishedAt,
	}
	if res.PassResults != nil {
		run.Passes = res.PassResults.Passes
		run.PassAt1 = res.PassResults.PassAt1
		run.PassAtN = res.PassResults.PassAtN
	}
	duration := finishedAt.Sub(startedAt).Milliseconds()
	if duration < 0 {
		duration = 0
	}

	const q = `INSERT INTO benchmark_runs (
	    run_uuid, benchmark_name, collection_name, solver_name, model,
	    total_puzzles, total_score, max_possible_score, average_score,
	    passes, pass_at_1, pass_at_n, result,
	    started_at, finished_at, duration_ms
	  ) VALUES (
	    $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13::jsonb,$14,$15,$16
	  ) RETURNING id`

	var id int64
	err = r.db.QueryRowContext(ctx, q,
		run.RunUUID, run.BenchmarkName, run.CollectionName, run.SolverName, run.Model,
		run.TotalPuzzles, run.TotalScore, run.MaxPossibleScore, run.AverageScore,
		run.Passes, run.PassAt1, run.PassAtN, string(raw),
		run.StartedAt, run.FinishedAt, duration,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert benchmark run: %w", err)
	}
	return id, nil
}

// GetRecentRuns lists run summaries for a solver, newest first. The stored
// result JSON is not rehydrated.
func (r *Repository) GetRecentRuns(ctx context.Context, solverName string, limit int) ([]*domain.BenchmarkRun, error) {
	if limit <= 0 {
		limit = 10
	}
	const q = `
	    SELECT id, run_uuid, benchmark_name, collection_name, solver_name, model,
	           total_puzzles, total_score, max_possible_score, average_score,
	           passes, pass_at_1, pass_at_n,
	           started_at, finished_at, duration_ms
	    FROM benchmark_runs
	    WHERE solver_name = $1
	    ORDER BY finished_at DESC
	    LIMIT $2`

	rows, err := r.db.QueryContext(ctx, q, solverName, limit)
	if err != nil {
		return nil, fmt.Errorf("select benchmark runs: %w", err)
	}
	defer rows.Close()

	runs := make([]*domain.BenchmarkRun, 0, limit)
	for rows.Next() {
		var (
			run        domain.BenchmarkRun
			passAt1    sql.NullFloat64
			passAtN    sql.NullFloat64
			durationMS sql.NullInt64
		)
		if err := rows.Scan(
			&run.ID, &run.RunUUID, &run.BenchmarkName, &run.CollectionName, &run.SolverName, &run.Model,
			&run.TotalPuzzles, &run.TotalScore, &run.MaxPossibleScore, &run.AverageScore,
			&run.Passes, &passAt1, &passAtN,
			&run.StartedAt, &run.FinishedAt, &durationMS,
		); err != nil {
			return nil, fmt.Errorf("scan benchmark run: %w", err)
		}
		if passAt1.Valid {
			run.PassAt1 = passAt1.Float64
		}
		if passAtN.Valid {
			run.PassAtN = passAtN.Float64
		}
		if durationMS.Valid {
			run.Duration = time.Duration(durationMS.Int64) * time.Millisecond
		}
		runs = append(runs, &run)
	}
	return runs, rows.Err()
}

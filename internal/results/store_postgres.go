package results

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const dbTimeout = 5 * time.Second

// PostgresStore is a PostgreSQL-backed Store.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates the store and ensures its schema exists.
func NewPostgresStore(ctx context.Context, pool *pgxpool.Pool) (*PostgresStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is nil")
	}

	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS assessment_results (
			email           text PRIMARY KEY,
			overall_score   double precision NOT NULL,
			overall_stage   smallint NOT NULL,
			section_results jsonb NOT NULL,
			finished_at     timestamptz NOT NULL,
			updated_at      timestamptz NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return nil, fmt.Errorf("ensuring results schema: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Upsert(ctx context.Context, r Result) (int64, error) {
	if err := r.Validate(); err != nil {
		return 0, err
	}

	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	sections, err := json.Marshal(r.Sections)
	if err != nil {
		return 0, fmt.Errorf("encoding section results: %w", err)
	}

	finishedAt := r.FinishedAt
	if finishedAt.IsZero() {
		finishedAt = time.Now()
	}

	cmd, err := s.pool.Exec(ctx,
		`INSERT INTO assessment_results (email, overall_score, overall_stage, section_results, finished_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, now())
		 ON CONFLICT (email) DO UPDATE
		 SET overall_score = EXCLUDED.overall_score,
		     overall_stage = EXCLUDED.overall_stage,
		     section_results = EXCLUDED.section_results,
		     finished_at = EXCLUDED.finished_at,
		     updated_at = now()`,
		NormalizeEmail(r.Email),
		r.OverallScore,
		r.OverallStage,
		sections,
		finishedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("upsert result: %w", err)
	}

	return cmd.RowsAffected(), nil
}

func (s *PostgresStore) Get(ctx context.Context, email string) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	r := &Result{}
	var sections []byte
	err := s.pool.QueryRow(ctx,
		`SELECT email, overall_score, overall_stage, section_results, finished_at, updated_at
		 FROM assessment_results
		 WHERE email = $1`,
		NormalizeEmail(email),
	).Scan(&r.Email, &r.OverallScore, &r.OverallStage, &sections, &r.FinishedAt, &r.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, email)
		}
		return nil, fmt.Errorf("get result: %w", err)
	}

	if err := json.Unmarshal(sections, &r.Sections); err != nil {
		return nil, fmt.Errorf("decoding section results: %w", err)
	}
	return r, nil
}

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrRunNotFound is returned when a run ID does not exist.
var ErrRunNotFound = errors.New("store: run not found")

// GetRun returns the run record for the given ID.
func (s *Store) GetRun(ctx context.Context, id string) (Run, error) {
	var (
		run       Run
		createdAt string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, seed, creator, target_length, max_depth, dataset, created_at
		FROM runs WHERE id = ?
	`, id).Scan(&run.ID, &run.Seed, &run.Creator, &run.TargetLength, &run.MaxDepth, &run.Dataset, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, ErrRunNotFound
	}
	if err != nil {
		return Run{}, fmt.Errorf("get run: %w", err)
	}

	run.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return Run{}, fmt.Errorf("get run: parse created_at: %w", err)
	}
	return run, nil
}

// ListRuns returns all runs, newest first.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, seed, creator, target_length, max_depth, dataset, created_at
		FROM runs ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run       Run
			createdAt string
		)
		if err := rows.Scan(&run.ID, &run.Seed, &run.Creator, &run.TargetLength, &run.MaxDepth, &run.Dataset, &createdAt); err != nil {
			return nil, fmt.Errorf("list runs: scan: %w", err)
		}
		run.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("list runs: parse created_at: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// Individuals returns all individuals of a run ordered by generation and
// ascending length, so the shortest expressions of each generation come
// first.
func (s *Store) Individuals(ctx context.Context, runID string) ([]Individual, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, generation, expression, length, depth, hash, fitness
		FROM individuals WHERE run_id = ?
		ORDER BY generation, length, id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("read individuals: %w", err)
	}
	defer rows.Close()

	var inds []Individual
	for rows.Next() {
		var (
			ind         Individual
			hash        int64
			fitnessJSON string
		)
		if err := rows.Scan(&ind.RunID, &ind.Generation, &ind.Expression, &ind.Length, &ind.Depth, &hash, &fitnessJSON); err != nil {
			return nil, fmt.Errorf("read individuals: scan: %w", err)
		}
		ind.Hash = uint64(hash)
		if err := json.Unmarshal([]byte(fitnessJSON), &ind.Fitness); err != nil {
			return nil, fmt.Errorf("read individuals: parse fitness: %w", err)
		}
		inds = append(inds, ind)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read individuals: %w", err)
	}
	return inds, nil
}

// CountIndividuals returns the number of stored individuals for a run.
func (s *Store) CountIndividuals(ctx context.Context, runID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM individuals WHERE run_id = ?
	`, runID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count individuals: %w", err)
	}
	return count, nil
}

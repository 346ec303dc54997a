package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Run records the configuration of one sampling run.
type Run struct {
	ID           string
	Seed         int64
	Creator      string
	TargetLength int
	MaxDepth     int
	Dataset      string
	CreatedAt    time.Time
}

// Individual is one stored expression with its structural metadata.
type Individual struct {
	RunID      string
	Generation int
	Expression string
	Length     int
	Depth      int
	Hash       uint64
	Fitness    []float64
}

// CreateRun inserts a run record and returns its ID, generating a fresh
// UUID when none is set. Re-inserting an existing ID is a no-op.
func (s *Store) CreateRun(ctx context.Context, run Run) (string, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs
		(id, seed, creator, target_length, max_depth, dataset, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		run.ID,
		run.Seed,
		run.Creator,
		run.TargetLength,
		run.MaxDepth,
		run.Dataset,
		run.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", fmt.Errorf("create run: %w", err)
	}

	return run.ID, nil
}

// SaveIndividuals inserts a batch of individuals in one transaction and
// returns the number of rows actually inserted. Structural duplicates
// within a run and generation are silently skipped, which makes retries
// after a crash safe.
func (s *Store) SaveIndividuals(ctx context.Context, inds []Individual) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("save individuals: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO individuals
		(run_id, generation, expression, length, depth, hash, fitness)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, generation, hash) DO NOTHING
	`)
	if err != nil {
		return 0, fmt.Errorf("save individuals: prepare: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for i := range inds {
		fitnessJSON, err := marshalFitness(inds[i].Fitness)
		if err != nil {
			return 0, fmt.Errorf("save individuals: %w", err)
		}
		res, err := stmt.ExecContext(ctx,
			inds[i].RunID,
			inds[i].Generation,
			inds[i].Expression,
			inds[i].Length,
			inds[i].Depth,
			int64(inds[i].Hash), // SQLite integers are signed 64-bit
			fitnessJSON,
		)
		if err != nil {
			return 0, fmt.Errorf("save individuals: insert: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("save individuals: rows affected: %w", err)
		}
		inserted += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("save individuals: commit: %w", err)
	}

	return inserted, nil
}

// marshalFitness serializes a fitness vector to a compact JSON array.
// A nil vector serializes as the empty array so reads never see null.
func marshalFitness(fitness []float64) (string, error) {
	if fitness == nil {
		fitness = []float64{}
	}
	b, err := json.Marshal(fitness)
	if err != nil {
		return "", fmt.Errorf("marshal fitness: %w", err)
	}
	return string(b), nil
}

package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/evoreth/symreg/internal/pareto"
	"github.com/evoreth/symreg/internal/store"
)

// RankOptions holds flags for the rank command.
type RankOptions struct {
	*RootOptions
	Database string
	RunID    string
}

// rankedIndividual is one entry of the rank command's output.
type rankedIndividual struct {
	Rank       int       `json:"rank"`
	Expression string    `json:"expression"`
	Length     int       `json:"length"`
	Fitness    []float64 `json:"fitness"`
}

// rankResult is the rank command's output payload.
type rankResult struct {
	RunID       string             `json:"run_id"`
	Fronts      int                `json:"fronts"`
	Individuals []rankedIndividual `json:"individuals"`
}

func (r rankResult) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "run %s: %d individuals in %d fronts\n", r.RunID, len(r.Individuals), r.Fronts)
	rank := -1
	for _, ind := range r.Individuals {
		if ind.Rank != rank {
			rank = ind.Rank
			fmt.Fprintf(&sb, "front %d:\n", rank)
		}
		fmt.Fprintf(&sb, "  %v  %s\n", ind.Fitness, ind.Expression)
	}
	return sb.String()
}

// NewRankCommand creates the rank command.
func NewRankCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RankOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Pareto-rank the individuals of a stored run",
		Long: `Load a run's individuals from the database and partition them into
non-domination fronts. Individuals sampled with a dataset carry a stored
(mse, length) fitness vector; individuals without one are ranked by
expression length alone.

Example:
  symreg rank --db runs.db --run 6e1f...
  symreg rank --db runs.db --run 6e1f... --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRank(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "run ID to rank (required)")
	_ = cmd.MarkFlagRequired("db")
	_ = cmd.MarkFlagRequired("run")

	return cmd
}

func runRank(opts *RankOptions, cmd *cobra.Command) error {
	configureLogging(opts.Verbose)
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	s, err := store.Open(opts.Database)
	if err != nil {
		formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer s.Close()

	if _, err := s.GetRun(ctx, opts.RunID); err != nil {
		formatter.Error(ErrCodeNotFound, err.Error(), nil)
		return WrapExitError(ExitCommandError, "run not found", err)
	}

	stored, err := s.Individuals(ctx, opts.RunID)
	if err != nil {
		formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to read individuals", err)
	}
	if len(stored) == 0 {
		formatter.Error(ErrCodeNotFound, "run has no individuals", nil)
		return NewExitError(ExitFailure, "run has no individuals")
	}

	pop := make([]pareto.Individual, len(stored))
	for i := range stored {
		fitness := stored[i].Fitness
		if len(fitness) == 0 {
			fitness = []float64{float64(stored[i].Length)}
		}
		pop[i].Fitness = fitness
	}

	var sorter pareto.HierarchicalSorter
	fronts, err := sorter.Sort(pop)
	if err != nil {
		formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitFailure, "ranking failed", err)
	}

	result := rankResult{RunID: opts.RunID, Fronts: len(fronts)}
	for rank, front := range fronts {
		for _, i := range front {
			result.Individuals = append(result.Individuals, rankedIndividual{
				Rank:       rank,
				Expression: stored[i].Expression,
				Length:     stored[i].Length,
				Fitness:    pop[i].Fitness,
			})
		}
	}

	formatter.VerboseLog("dominance comparisons: %d, rounds: %d",
		sorter.Stats.DominanceComparisons, sorter.Stats.Rounds)

	return formatter.Success(result)
}

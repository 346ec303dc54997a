package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/evoreth/symreg/internal/creator"
	"github.com/evoreth/symreg/internal/dataset"
	"github.com/evoreth/symreg/internal/eval"
	"github.com/evoreth/symreg/internal/grammar"
	"github.com/evoreth/symreg/internal/random"
	"github.com/evoreth/symreg/internal/store"
	"github.com/evoreth/symreg/internal/tree"
)

// SampleOptions holds flags for the sample command.
type SampleOptions struct {
	*RootOptions
	Database string
	Count    int
}

// sampledTree is the per-tree output payload.
type sampledTree struct {
	Expression string    `json:"expression"`
	Length     int       `json:"length"`
	Depth      int       `json:"depth"`
	Hash       uint64    `json:"hash"`
	Fitness    []float64 `json:"fitness,omitempty"`
}

// sampleResult is the sample command's output payload.
type sampleResult struct {
	RunID string        `json:"run_id,omitempty"`
	Trees []sampledTree `json:"trees"`
}

func (r sampleResult) String() string {
	out := ""
	for i, tr := range r.Trees {
		out += fmt.Sprintf("%3d  len=%-3d depth=%-2d  %s", i+1, tr.Length, tr.Depth, tr.Expression)
		if len(tr.Fitness) > 0 {
			out += fmt.Sprintf("  mse=%g", tr.Fitness[0])
		}
		out += "\n"
	}
	if r.RunID != "" {
		out += fmt.Sprintf("run: %s\n", r.RunID)
	}
	return out
}

// NewSampleCommand creates the sample command.
func NewSampleCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SampleOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "sample <config.yaml>",
		Short: "Generate random expression trees",
		Long: `Generate random expression trees from a YAML run configuration.

The configuration selects the creator algorithm (grow, btc or ptc2), the
grammar symbol frequencies, the size and depth targets and the random
seed. When the configuration names a dataset and a target column, each
tree is scored with its mean squared error. With --db, the run and its
trees are persisted.

Example:
  symreg sample run.yaml
  symreg sample run.yaml --db runs.db --count 50`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSample(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (optional)")
	cmd.Flags().IntVar(&opts.Count, "count", 0, "override the configured tree count")

	return cmd
}

func runSample(opts *SampleOptions, configPath string, cmd *cobra.Command) error {
	configureLogging(opts.Verbose)
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	cfg, err := LoadRunConfig(configPath)
	if err != nil {
		formatter.Error(ErrCodeConfig, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}
	if opts.Count > 0 {
		cfg.Count = opts.Count
	}

	pset, err := cfg.PrimitiveSet()
	if err != nil {
		formatter.Error(ErrCodeConfig, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to build grammar", err)
	}

	var (
		ds     *dataset.Dataset
		target []float64
	)
	if cfg.Dataset != "" {
		slog.Info("loading dataset", "path", cfg.Dataset)
		ds, err = dataset.FromCSV(cfg.Dataset, true)
		if err != nil {
			formatter.Error(ErrCodeDataset, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to load dataset", err)
		}
		if cfg.Target != "" {
			target, err = ds.Values(cfg.Target)
			if err != nil {
				formatter.Error(ErrCodeDataset, err.Error(), nil)
				return WrapExitError(ExitCommandError, "target column not found", err)
			}
		}
	}

	variables := samplingVariables(ds, cfg.Target)
	if len(variables) == 0 {
		// No dataset: disable variable leaves, keep constants.
		pset.Disable(tree.Variable)
	}

	c, err := buildCreator(cfg, pset, variables)
	if err != nil {
		formatter.Error(ErrCodeConfig, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to build creator", err)
	}

	slog.Info("sampling trees",
		"creator", cfg.Creator,
		"count", cfg.Count,
		"target_length", cfg.TargetLength,
		"seed", cfg.Seed)

	r := random.New(uint64(cfg.Seed))
	result := sampleResult{Trees: make([]sampledTree, 0, cfg.Count)}
	for i := 0; i < cfg.Count; i++ {
		tr, err := c.Create(r, cfg.TargetLength, cfg.MinDepth, cfg.MaxDepth)
		if err != nil {
			formatter.Error(ErrCodeSampling, err.Error(), nil)
			return WrapExitError(ExitFailure, "sampling failed", err)
		}
		tr.ComputeHash(tree.HashXXHash, tree.HashRelaxed)

		st := sampledTree{
			Expression: tr.Format(variableNamer(ds)),
			Length:     tr.Len(),
			Depth:      tr.Depth(),
			Hash:       tr.HashValue(),
		}
		if target != nil {
			pred, err := eval.Evaluate(tr, ds, ds.FullRange())
			if err != nil {
				formatter.Error(ErrCodeSampling, err.Error(), nil)
				return WrapExitError(ExitFailure, "evaluation failed", err)
			}
			st.Fitness = []float64{eval.MSE(pred, target), float64(tr.Len())}
		}
		result.Trees = append(result.Trees, st)
	}

	if opts.Database != "" {
		runID, err := persistRun(cmd.Context(), opts.Database, cfg, result.Trees)
		if err != nil {
			formatter.Error(ErrCodeStore, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to persist run", err)
		}
		result.RunID = runID
		slog.Info("run persisted", "run_id", runID, "trees", len(result.Trees))
	}

	return formatter.Success(result)
}

// samplingVariables returns the dataset variables available as tree leaves,
// excluding the target column.
func samplingVariables(ds *dataset.Dataset, target string) []dataset.Variable {
	if ds == nil {
		return nil
	}
	all := ds.Variables()
	vars := make([]dataset.Variable, 0, len(all))
	for _, v := range all {
		if v.Name == target {
			continue
		}
		vars = append(vars, v)
	}
	return vars
}

// variableNamer resolves variable hashes to dataset column names.
func variableNamer(ds *dataset.Dataset) tree.VariableNamer {
	if ds == nil {
		return nil
	}
	return func(hash uint64) string {
		if v, ok := ds.GetVariableByHash(hash); ok {
			return v.Name
		}
		return fmt.Sprintf("v_%04x", hash&0xffff)
	}
}

func buildCreator(cfg *RunConfig, pset *grammar.PrimitiveSet, variables []dataset.Variable) (creator.Creator, error) {
	switch cfg.Creator {
	case "grow":
		return creator.NewGrow(pset, variables), nil
	case "btc":
		return creator.NewBalanced(pset, variables, cfg.IrregularityBias), nil
	case "ptc2":
		return creator.NewProbabilistic(pset, variables, cfg.IrregularityBias), nil
	default:
		return nil, fmt.Errorf("unknown creator %q", cfg.Creator)
	}
}

func persistRun(ctx context.Context, dbPath string, cfg *RunConfig, trees []sampledTree) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return "", err
	}
	defer s.Close()

	runID, err := s.CreateRun(ctx, store.Run{
		Seed:         cfg.Seed,
		Creator:      cfg.Creator,
		TargetLength: cfg.TargetLength,
		MaxDepth:     cfg.MaxDepth,
		Dataset:      cfg.Dataset,
	})
	if err != nil {
		return "", err
	}

	inds := make([]store.Individual, len(trees))
	for i, tr := range trees {
		inds[i] = store.Individual{
			RunID:      runID,
			Expression: tr.Expression,
			Length:     tr.Length,
			Depth:      tr.Depth,
			Hash:       tr.Hash,
			Fitness:    tr.Fitness,
		}
	}
	if _, err := s.SaveIndividuals(ctx, inds); err != nil {
		return "", err
	}
	return runID, nil
}

// configureLogging sets the default slog handler based on verbosity.
func configureLogging(verbose bool) {
	logLevel := slog.LevelWarn
	if verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"planwire/internal/batch"
	"planwire/internal/config"
	"planwire/internal/facts"
	"planwire/internal/model"
	"planwire/internal/reader"
	"planwire/internal/store"
	"planwire/internal/watch"
	"planwire/internal/wire"
)

var (
	// Global flags
	verbose    bool
	configPath string

	// Per-command flags
	storePath string
	planPath  string
	analyze   bool

	logger *zap.Logger
	cfg    *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "planwire",
	Short: "planwire - reconstruct planning problems from wire messages",
	Long: `planwire decodes the tagged wire messages of a remote planning client
into strongly-typed problems and plans: objects, typed fluents, parametrized
actions, temporal constraints, effects, and goals.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}

		zapCfg := zap.NewProductionConfig()
		if cfg.Logging.Format == "console" {
			zapCfg.Encoding = "console"
		}
		if level, parseErr := zapcore.ParseLevel(cfg.Logging.Level); parseErr == nil {
			zapCfg.Level = zap.NewAtomicLevelAt(level)
		}
		if verbose {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}

		logger, err = zapCfg.Build()
		if err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var decodeCmd = &cobra.Command{
	Use:   "decode <file...>",
	Short: "Decode wire problem files and print a summary",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDecode,
}

var factsCmd = &cobra.Command{
	Use:   "facts <file>",
	Short: "Decode a wire problem and print its Datalog fact export",
	Args:  cobra.ExactArgs(1),
	RunE:  runFacts,
}

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Watch a directory and decode wire problems dropped into it",
	Args:  cobra.ExactArgs(1),
	RunE:  runWatch,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "planwire.yaml", "config file path")

	decodeCmd.Flags().StringVar(&storePath, "store", "", "persist decode records to this SQLite database")
	decodeCmd.Flags().StringVar(&planPath, "plan", "", "decode this plan file against the (single) decoded problem")

	factsCmd.Flags().BoolVar(&analyze, "analyze", false, "also print the static-fluent/unused-object report")

	watchCmd.Flags().StringVar(&storePath, "store", "", "persist decode records to this SQLite database")

	rootCmd.AddCommand(decodeCmd, factsCmd, watchCmd)
}

func openStore() (*store.Store, error) {
	path := storePath
	if path == "" {
		path = cfg.Store.Path
	}
	if path == "" {
		return nil, nil
	}
	return store.Open(path)
}

func runDecode(cmd *cobra.Command, args []string) error {
	r := reader.NewReader(logger)
	template := model.NewProblem("template", nil)

	db, err := openStore()
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	if planPath != "" && len(args) != 1 {
		return fmt.Errorf("--plan requires exactly one problem file")
	}

	jobs := make([]batch.Job, 0, len(args))
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		jobs = append(jobs, batch.Job{Name: path, Data: data})
	}

	converter := batch.NewConverter(r, template, cfg.Batch.Workers, logger)
	results, err := converter.Run(cmd.Context(), jobs)
	if err != nil {
		return err
	}

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", res.Name, res.Err)
			continue
		}
		p := res.Problem
		fmt.Fprintf(cmd.OutOrStdout(),
			"%s: problem %q: %d objects, %d fluents, %d actions, %d goals (dropped effects: %d)\n",
			res.Name, p.Name(), len(p.Objects()), len(p.Fluents()),
			len(p.Actions()), len(p.Goals()), res.Stats.DroppedEffects)

		if db != nil {
			rec := store.ProblemRecord{
				SessionID:      res.SessionID,
				Name:           p.Name(),
				Source:         res.Name,
				Objects:        len(p.Objects()),
				Fluents:        len(p.Fluents()),
				Actions:        len(p.Actions()),
				Goals:          len(p.Goals()),
				DroppedEffects: res.Stats.DroppedEffects,
				DecodedAt:      time.Now().UTC(),
			}
			if err := db.SaveProblem(cmd.Context(), rec); err != nil {
				return err
			}
		}

		if planPath != "" {
			if err := decodePlan(cmd, r, res, db); err != nil {
				return err
			}
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed to decode", failed, len(results))
	}
	return nil
}

func decodePlan(cmd *cobra.Command, r *reader.Reader, res batch.Result, db *store.Store) error {
	data, err := os.ReadFile(planPath)
	if err != nil {
		return err
	}
	msg, err := wire.UnmarshalPlan(data)
	if err != nil {
		return err
	}
	plan, err := r.Plan(msg, res.Problem)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: plan with %d steps: %s\n", planPath, len(plan.Steps), plan)

	if db != nil {
		rec := store.PlanRecord{
			SessionID: res.SessionID,
			Problem:   res.Problem.Name(),
			Steps:     len(plan.Steps),
			DecodedAt: time.Now().UTC(),
		}
		return db.SavePlan(cmd.Context(), rec)
	}
	return nil
}

func runFacts(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	msg, err := wire.UnmarshalProblem(data)
	if err != nil {
		return err
	}

	r := reader.NewReader(logger)
	problem, err := r.Problem(msg, model.NewProblem("template", nil))
	if err != nil {
		return err
	}

	for _, f := range facts.Export(problem) {
		fmt.Fprintln(cmd.OutOrStdout(), f)
	}

	if analyze {
		report, err := facts.Analyze(problem)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\nstatic fluents: %v\nunused objects: %v\n",
			report.StaticFluents, report.UnusedObjects)
	}
	return nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	w, err := watch.NewWatcher(args[0], reader.NewReader(logger), model.NewProblem("template", nil), watch.Options{
		Debounce: cfg.Watch.Debounce,
		Store:    db,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	if _, err := w.DecodeExisting(cmd.Context()); err != nil {
		return err
	}
	if err := w.Start(cmd.Context()); err != nil {
		return err
	}
	defer w.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
	case <-cmd.Context().Done():
	}

	stats := w.Stats()
	logger.Info("watcher stopped",
		zap.Int("decoded", stats.Decoded),
		zap.Int("failed", stats.Failed),
		zap.Int("dropped_effects", stats.DroppedEffects))
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

package cmd

import (
	"context"
	"fmt"

	"github.com/abhisek/mathpath/internal/config"
	"github.com/abhisek/mathpath/internal/logging"
	"github.com/abhisek/mathpath/internal/store"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "mathpath",
	Short: "Adaptive linear-functions practice",
	Long:  "mathpath is a terminal app for practicing linear functions: formulas, tables, graphs and gradients, with a diagnostic that picks the right path.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
	SilenceUsage: true,
}

// ExecuteContext runs the root command with ctx, which is cancelled on
// interrupt.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides MATHPATH_DB env var)")
	rootCmd.PersistentFlags().String("lang", "", "Language for new learners and output: mk, sq, tr or en (overrides MATHPATH_LANGUAGE)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(graphCmd)
	rootCmd.AddCommand(lessonsCmd)
	rootCmd.AddCommand(problemsCmd)
	rootCmd.AddCommand(rosterCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the environment and applies the persistent flags on
// top: --db and --lang win over MATHPATH_DB and MATHPATH_LANGUAGE.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.DB = p
	}
	if l, _ := cmd.Flags().GetString("lang"); l != "" {
		cfg.Language = l
	}
	return cfg, nil
}

// openStore opens the local database and, when configured, the Redis
// backend. An unreachable Redis is logged and the local store is used
// alone.
func openStore(ctx context.Context, cfg *config.Config) (*store.Hybrid, error) {
	dbPath, err := cfg.DBPath()
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	if err := store.EnsureDir(dbPath); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	local, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	if !cfg.Redis.Enabled() {
		return store.NewHybrid(local, nil), nil
	}
	remote, err := store.OpenRedis(ctx, cfg.Redis)
	if err != nil {
		logger := logging.FromContext(ctx)
		logger.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("remote store unavailable, using local only")
		return store.NewHybrid(local, nil), nil
	}
	return store.NewHybrid(local, remote), nil
}

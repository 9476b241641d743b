package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/abhisek/mathpath/internal/app"
	"github.com/abhisek/mathpath/internal/config"
	"github.com/abhisek/mathpath/internal/content"
	"github.com/abhisek/mathpath/internal/diagnosis"
	"github.com/abhisek/mathpath/internal/llm"
	"github.com/abhisek/mathpath/internal/logging"
	"github.com/abhisek/mathpath/internal/metrics"
	"github.com/abhisek/mathpath/internal/problemgen"
	"github.com/abhisek/mathpath/internal/tutor"
	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start practicing",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func init() {
	playCmd.Flags().String("metrics-addr", "", "Serve Prometheus metrics on this address while playing (overrides MATHPATH_METRICS_ADDR)")
}

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logPath, err := cfg.LogPath()
	if err != nil {
		return fmt.Errorf("resolve log path: %w", err)
	}
	logger, logFile, err := logging.NewFile(logPath, "mathpath", cfg.Env, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logFile.Close()
	ctx := logging.IntoContext(cmdContext(cmd), logger)

	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	if addr := metricsAddr(cmd, cfg); addr != "" {
		srv := metrics.NewServer(addr)
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Warn().Err(err).Str("addr", addr).Msg("metrics server stopped")
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	dataDir, err := config.DataDir()
	if err != nil {
		return err
	}
	opts := app.Options{
		Store:           st,
		Language:        content.ParseLanguage(cfg.Language),
		IllustrationDir: filepath.Join(dataDir, "illustrations"),
	}

	// The app works without a provider: generation, chat and LLM
	// diagnosis are disabled.
	provider, err := llm.NewProviderFromEnv(ctx, st.EventRepo())
	if err != nil {
		if !errors.Is(err, llm.ErrNoProvider) {
			fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		}
		fmt.Fprintln(os.Stderr, "AI features will be unavailable.")
		logger.Info().Err(err).Msg("running without LLM provider")
	} else {
		opts.Generator = problemgen.New(provider, problemgen.DefaultConfig())
		diagService := diagnosis.NewService(provider)
		defer diagService.Close()
		opts.Diagnosis = diagService
		opts.Tutor = tutor.NewService(provider, tutor.DefaultConfig())
		logger.Info().Str("model", provider.ModelID()).Msg("LLM provider ready")
	}

	return app.Run(ctx, opts)
}

func metricsAddr(cmd *cobra.Command, cfg *config.Config) string {
	if f := cmd.Flags().Lookup("metrics-addr"); f != nil && f.Value.String() != "" {
		return f.Value.String()
	}
	return cfg.MetricsAddr
}

// cmdContext returns the command's context, falling back to Background
// when the command runs outside ExecuteContext.
func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// cliContext carries a stderr logger for the non-interactive commands.
func cliContext(cmd *cobra.Command, cfg *config.Config) context.Context {
	return logging.IntoContext(cmdContext(cmd), logging.New("mathpath", cfg.Env, cfg.LogLevel))
}

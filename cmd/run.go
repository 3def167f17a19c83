package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pathwise/pathwise/internal/config"
	"github.com/pathwise/pathwise/internal/llm"
	"github.com/pathwise/pathwise/internal/logger"
	"github.com/pathwise/pathwise/internal/mastery"
	"github.com/pathwise/pathwise/internal/runtime"
	"github.com/pathwise/pathwise/internal/store"
	"github.com/pathwise/pathwise/internal/tutor"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Activate a learning session and drive it until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSession(cmd)
	},
}

// runSession wires config, store, provider, tutor, and runtime, then
// blocks until SIGINT/SIGTERM. The visual layer attaches to the runtime
// from outside; this process owns state, persistence, and AI traffic.
func runSession(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	if cfg.PassThreshold > 0 {
		mastery.PassThreshold = cfg.PassThreshold
		log.Warn("pass threshold overridden", "threshold", cfg.PassThreshold)
	}

	dbPath, err := resolveDBPath(cmd, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	providerCfg, err := cfg.ProviderConfig()
	if err != nil {
		return fmt.Errorf("configure LLM provider: %w", err)
	}
	provider, err := llm.NewProvider(ctx, providerCfg, st.EventRepo())
	if err != nil {
		return fmt.Errorf("build LLM provider: %w", err)
	}

	rt := runtime.New(runtime.Options{
		Tutor:        tutor.New(provider, cfg.TutorSettings()),
		Snapshots:    st.SnapshotRepo(),
		Events:       st.EventRepo(),
		Log:          log,
		SnapshotKeep: cfg.SnapshotKeep,
	})
	if err := rt.Start(ctx); err != nil {
		return fmt.Errorf("start session: %w", err)
	}

	s := rt.State()
	log.Info("session active",
		"status", s.Status,
		"provider", provider.ModelID(),
		"db", dbPath,
		"streak", s.Behavior.DailyStreak,
	)
	if s.Notice != "" {
		fmt.Fprintln(os.Stderr, s.Notice)
	}

	<-ctx.Done()
	log.Info("shutting down")
	return rt.Stop(context.Background())
}

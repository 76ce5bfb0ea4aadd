package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ztrayner/airbnb-lock-manager/core/config"
	"github.com/ztrayner/airbnb-lock-manager/core/feed"
	"github.com/ztrayner/airbnb-lock-manager/core/lock"
	"github.com/ztrayner/airbnb-lock-manager/core/logger"
	"github.com/ztrayner/airbnb-lock-manager/core/notify"
	"github.com/ztrayner/airbnb-lock-manager/core/state"
	"github.com/ztrayner/airbnb-lock-manager/core/syncer"
)

var dryRun bool

// syncCmd performs one reconciliation pass.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run one booking-to-lock reconciliation pass",
	Long: `Fetches the Airbnb iCal feed, diffs it against the last synced
state, and applies the resulting lock code changes.

Exit code 0 means every operation was confirmed. A non-zero exit means the
run aborted on a systemic error or at least one operation failed after
retries; failed reservations are retried automatically on the next pass.

Examples:
  # Normal pass (run every 15 minutes by cron or via "locksync watch")
  locksync sync

  # Preview the plan without touching the lock or the state file
  locksync sync --dry-run`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Compute and log the plan without modifying the lock or state")
	RootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()

	runLog := logger.WithRunID(l)
	if dryRun {
		runLog.Info("dry-run mode, no changes will be made")
	}

	runner, err := buildRunner(ctx, cfg, runLog, dryRun)
	if err != nil {
		return err
	}

	outcome, err := runner.Run(ctx)
	if err != nil {
		return err
	}
	if outcome.Failed > 0 {
		return fmt.Errorf("%d lock operation(s) failed after retries", outcome.Failed)
	}
	return nil
}

// buildRunner wires the runner from configuration. The device client is only
// constructed (and authenticated) outside dry-run mode, matching the rule
// that dry-run has no side effects.
func buildRunner(ctx context.Context, cfg *config.Config, l *zap.Logger, dry bool) (*syncer.Runner, error) {
	sched, err := cfg.Timing.Schedule()
	if err != nil {
		return nil, err
	}

	var gateway syncer.Applier
	if !dry {
		client, err := lock.NewWyzeClient(ctx, cfg.Lock, l)
		if err != nil {
			return nil, err
		}
		gateway = lock.NewGateway(client, cfg.Lock, l)
	}

	return syncer.NewRunner(syncer.Options{
		Source:     feed.NewService(cfg.Feed, sched.Location, l),
		Store:      state.NewStore(cfg.State, l),
		Gateway:    gateway,
		Notifier:   notify.New(cfg.Notify, l),
		Schedule:   sched,
		KeyExpires: cfg.Lock.APIKeyExpires,
		DryRun:     dry,
		Logger:     l,
	}), nil
}

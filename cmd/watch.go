package cmd

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ztrayner/airbnb-lock-manager/core/config"
	"github.com/ztrayner/airbnb-lock-manager/core/logger"
	"github.com/ztrayner/airbnb-lock-manager/core/state"
)

// watchCmd runs sync passes on an in-process schedule, for hosts without a
// system cron.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run sync continuously on a schedule",
	Long: `Runs reconciliation passes on the configured schedule (default
every 15 minutes) until interrupted. A tick is skipped when the previous
pass is still running, so passes never overlap.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// Guard against a slow pass outliving its tick. The state file
		// lock would also refuse the overlap, but skipping is quieter.
		var running atomic.Bool

		scheduler := cron.New()
		_, err = scheduler.AddFunc(cfg.Watch.Schedule, func() {
			if !running.CompareAndSwap(false, true) {
				logg.Warn("previous sync pass still running, skipping tick")
				return
			}
			defer running.Store(false)

			runLog := logger.WithRunID(logg)
			runner, err := buildRunner(ctx, cfg, runLog, false)
			if err != nil {
				runLog.Error("sync pass could not start", zap.Error(err))
				return
			}

			outcome, err := runner.Run(ctx)
			switch {
			case errors.Is(err, state.ErrLocked):
				runLog.Warn("state locked by another process, skipping tick")
			case err != nil:
				runLog.Error("sync pass failed", zap.Error(err))
			case outcome.Failed > 0:
				runLog.Warn("sync pass finished with failed operations", zap.Int("failed", outcome.Failed))
			}
		})
		if err != nil {
			logg.Fatal("Invalid watch schedule", zap.String("schedule", cfg.Watch.Schedule), zap.Error(err))
		}

		logg.Info("Watch mode started", zap.String("schedule", cfg.Watch.Schedule))
		scheduler.Start()

		<-ctx.Done()
		logg.Info("Shutting down")
		<-scheduler.Stop().Done()
	},
}

func init() {
	RootCmd.AddCommand(watchCmd)
}

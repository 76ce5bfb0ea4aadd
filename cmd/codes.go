package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ztrayner/airbnb-lock-manager/core/config"
	"github.com/ztrayner/airbnb-lock-manager/core/lock"
	"github.com/ztrayner/airbnb-lock-manager/core/logger"
)

var (
	cleanupCodes bool
	yesConfirm   bool
)

// codesCmd inspects and optionally cleans up guest codes on the device.
var codesCmd = &cobra.Command{
	Use:   "codes",
	Short: "List guest codes on the lock (and optionally clean up stale ones)",
	Long: `Lists the Guest_ codes currently on the lock device.

With --cleanup, codes whose window ended more than the configured retention
ago (lock.cleanup_retention_days, default 14) are deleted. This catches
codes that accumulated while the sync was not running.

Examples:
  # Report only
  locksync codes

  # Delete long-expired guest codes (interactive confirmation)
  locksync codes --cleanup

  # Non-interactive cleanup
  locksync codes --cleanup --yes`,
	RunE: runCodes,
}

func init() {
	codesCmd.Flags().BoolVar(&cleanupCodes, "cleanup", false, "Delete guest codes expired longer than the retention period")
	codesCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm deletion (non-interactive)")
	RootCmd.AddCommand(codesCmd)
}

func runCodes(cmd *cobra.Command, args []string) error {
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

	client, err := lock.NewWyzeClient(ctx, cfg.Lock, l)
	if err != nil {
		return err
	}

	slots, err := client.ListAccessCodes(ctx)
	if err != nil {
		return fmt.Errorf("failed to list access codes: %w", err)
	}

	guest := lock.GuestCodes(slots)
	l.Info("guest codes on device", zap.Int("count", len(guest)))
	for _, s := range guest {
		l.Info("code",
			zap.String("name", s.Name),
			zap.String("code", s.Code),
			zap.Time("active_from", s.Begin),
			zap.Time("active_until", s.End),
		)
	}

	if !cleanupCodes {
		return nil
	}

	retention := time.Duration(cfg.Lock.CleanupRetentionDays) * 24 * time.Hour
	cutoff := time.Now().Add(-retention)
	stale := lock.StaleSince(slots, cutoff)
	if len(stale) == 0 {
		l.Info("no stale codes to clean up")
		return nil
	}

	l.Info("stale codes eligible for cleanup",
		zap.Int("count", len(stale)),
		zap.Time("cutoff", cutoff))

	if !confirmDestructiveAction() {
		l.Warn("Operation cancelled by user. No changes were made.")
		return nil
	}

	removed := 0
	for _, s := range stale {
		if err := client.DeleteAccessCode(ctx, s.ID); err != nil {
			l.Warn("failed to remove stale code", zap.String("name", s.Name), zap.Error(err))
			continue
		}
		l.Info("removed stale code", zap.String("name", s.Name), zap.Time("expired", s.End))
		removed++
	}
	l.Info("cleanup finished", zap.Int("removed", removed))

	return nil
}

// confirmDestructiveAction prompts the user for confirmation or uses --yes flag.
func confirmDestructiveAction() bool {
	if yesConfirm {
		fmt.Println("\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Print("\n⚠️  Type 'yes' to confirm deletion: ")
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	response = strings.TrimSpace(response)
	return response == "yes"
}

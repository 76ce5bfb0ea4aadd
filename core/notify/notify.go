package notify

import (
	"context"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Config holds configuration for outbound notifications.
type Config struct {
	// Command is the messaging CLI executable.
	Command string `mapstructure:"command" default:"openclaw"`
	// Channel is the messaging channel passed to the CLI.
	Channel string `mapstructure:"channel" default:"whatsapp"`
	// Target is the recipient phone number. Empty disables sending.
	Target string `mapstructure:"target" default:""`
	// TimeoutSeconds bounds each send.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30" validate:"min=1"`
}

// Notifier delivers a message to the operator.
type Notifier interface {
	Send(ctx context.Context, message string)
}

// New returns a CLI-backed notifier, or a log-only one when no target
// number is configured.
func New(cfg Config, logg *zap.Logger) Notifier {
	if cfg.Target == "" {
		return &logNotifier{logg: logg}
	}
	return &cliNotifier{cfg: cfg, logg: logg}
}

// cliNotifier shells out to the configured messaging CLI.
type cliNotifier struct {
	cfg  Config
	logg *zap.Logger
}

func (n *cliNotifier) Send(ctx context.Context, message string) {
	target := n.cfg.Target
	if !strings.HasPrefix(target, "+") {
		target = "+" + target
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(n.cfg.TimeoutSeconds)*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, n.cfg.Command,
		"message", "send",
		"--channel", n.cfg.Channel,
		"--target", target,
		"--message", message,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		// Best-effort only. The message still lands in the log.
		n.logg.Warn("notification send failed",
			zap.Error(err),
			zap.String("output", strings.TrimSpace(string(out))),
			zap.String("message", message))
		return
	}

	n.logg.Info("notification sent", zap.String("target", target))
}

// logNotifier records the message without sending anything.
type logNotifier struct {
	logg *zap.Logger
}

func (n *logNotifier) Send(_ context.Context, message string) {
	n.logg.Info("notification (no target configured)", zap.String("message", message))
}

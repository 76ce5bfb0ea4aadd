package syncer

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ztrayner/airbnb-lock-manager/core/booking"
	"github.com/ztrayner/airbnb-lock-manager/core/lock"
	"github.com/ztrayner/airbnb-lock-manager/core/notify"
	"github.com/ztrayner/airbnb-lock-manager/core/reconcile"
	"github.com/ztrayner/airbnb-lock-manager/core/state"
)

// Source produces the current booking snapshot from the calendar feed.
type Source interface {
	Bookings(ctx context.Context) (map[string]booking.Booking, error)
}

// Applier applies a plan's operations to the lock device.
type Applier interface {
	ApplyAll(ctx context.Context, ops []reconcile.Operation) []lock.Result
}

// Store is the persistence surface the runner needs.
type Store interface {
	Acquire() error
	Release()
	Load() (state.State, error)
	Commit(state.State) error
}

// Outcome summarizes one sync pass.
type Outcome struct {
	// Plan is the computed operation plan.
	Plan *reconcile.Plan
	// Results holds per-operation outcomes; empty in dry-run mode.
	Results []lock.Result
	// Failed counts operations that exhausted their retries.
	Failed int
}

// Runner executes sync passes.
type Runner struct {
	source     Source
	store      Store
	gateway    Applier
	notifier   notify.Notifier
	sched      reconcile.Schedule
	keyExpires string
	dryRun     bool
	logg       *zap.Logger

	// now is swappable for tests.
	now func() time.Time
}

// Options configures a Runner.
type Options struct {
	Source   Source
	Store    Store
	Gateway  Applier
	Notifier notify.Notifier
	Schedule reconcile.Schedule
	// KeyExpires is the configured API key expiry date, empty to disable
	// renewal reminders.
	KeyExpires string
	// DryRun computes and logs the plan without touching device or state.
	DryRun bool
	Logger *zap.Logger
}

// NewRunner creates a sync runner.
func NewRunner(opts Options) *Runner {
	return &Runner{
		source:     opts.Source,
		store:      opts.Store,
		gateway:    opts.Gateway,
		notifier:   opts.Notifier,
		sched:      opts.Schedule,
		keyExpires: opts.KeyExpires,
		dryRun:     opts.DryRun,
		logg:       opts.Logger,
		now:        time.Now,
	}
}

// Run performs one full pass. It returns an error only for systemic
// failures (state corruption, feed unreachable, lock contention); individual
// operation failures are reported through Outcome.Failed.
func (r *Runner) Run(ctx context.Context) (*Outcome, error) {
	if err := r.store.Acquire(); err != nil {
		return nil, err
	}
	defer r.store.Release()

	st, err := r.store.Load()
	if err != nil {
		return nil, err
	}

	r.checkKeyExpiry(ctx, &st)

	current, err := r.source.Bookings(ctx)
	if err != nil {
		return nil, err
	}

	now := r.now()
	plan := reconcile.Reconcile(reconcile.Input{
		Current:  current,
		Previous: st.Bookings,
		Codes:    st.Codes,
		Now:      now,
	}, r.sched)

	r.logPlan(plan)

	if r.dryRun {
		for _, op := range plan.Operations {
			r.logg.Info("[dry-run] would apply",
				zap.String("type", string(op.Type)),
				zap.String("reservation_id", op.ReservationID),
				zap.String("code", op.Code.Code),
				zap.String("reason", op.Reason))
		}
		return &Outcome{Plan: plan}, nil
	}

	results := r.gateway.ApplyAll(ctx, plan.Operations)

	outcome := &Outcome{Plan: plan, Results: results}
	for _, res := range results {
		if !res.Confirmed() {
			outcome.Failed++
		}
	}

	next := nextState(st, current, results)
	if err := r.store.Commit(next); err != nil {
		return outcome, fmt.Errorf("committing state: %w", err)
	}

	r.sendChangeNotifications(ctx, st, current, results)

	if outcome.Failed > 0 {
		r.logg.Warn("sync finished with failures",
			zap.Int("failed", outcome.Failed),
			zap.Int("applied", len(results)-outcome.Failed))
	} else {
		r.logg.Info("sync finished",
			zap.Int("applied", len(results)),
			zap.Int("bookings", len(current)))
	}

	return outcome, nil
}

// checkKeyExpiry sends at most one pending API key renewal reminder and
// records it on the state so each threshold fires once. The flag is
// persisted with the regular commit.
func (r *Runner) checkKeyExpiry(ctx context.Context, st *state.State) {
	warning, err := lock.CheckKeyExpiry(r.keyExpires, r.now(), r.sched.Location, st.KeyWarnings)
	if err != nil {
		r.logg.Warn("could not check api key expiry", zap.Error(err))
		return
	}
	if warning == nil {
		return
	}

	r.logg.Warn("api key expiry warning", zap.String("threshold", warning.Key))
	if r.dryRun {
		r.logg.Info("[dry-run] would send api key warning", zap.String("message", warning.Message))
		return
	}
	r.notifier.Send(ctx, warning.Message)
	st.KeyWarnings[warning.Key] = true
}

func (r *Runner) logPlan(plan *reconcile.Plan) {
	s := plan.Summary
	if s.Total() == 0 {
		r.logg.Info("no booking changes detected",
			zap.Int("bookings", s.CurrentBookings))
		return
	}
	r.logg.Info("reconciliation plan",
		zap.Int("bookings", s.CurrentBookings),
		zap.Int("creates", s.Creates),
		zap.Int("updates", s.Updates),
		zap.Int("cancellations", s.Cancellations),
		zap.Int("expired", s.Expired),
		zap.Int("fallback_codes", s.FallbackCodes),
	)
}

// sendChangeNotifications tells the operator about confirmed code changes.
// Failures here are logged inside the notifier and never affect the run.
func (r *Runner) sendChangeNotifications(ctx context.Context, prev state.State, current map[string]booking.Booking, results []lock.Result) {
	for _, res := range results {
		if !res.Confirmed() {
			continue
		}
		op := res.Op

		guest := "Guest"
		if b, ok := current[op.ReservationID]; ok {
			guest = b.GuestName
		} else if b, ok := prev.Bookings[op.ReservationID]; ok {
			guest = b.GuestName
		}

		switch op.Type {
		case reconcile.OpCreate:
			kind := "Phone-based"
			if b, ok := current[op.ReservationID]; !ok || b.PhoneLast4 != op.Code.Code {
				kind = "GENERATED (notify guest!)"
			}
			r.notifier.Send(ctx, fmt.Sprintf("New lock code for %s\nCode: %s\nDates: %s to %s\nType: %s",
				guest, op.Code.Code,
				op.Code.ActiveFrom.Format("2006-01-02"), op.Code.ActiveUntil.Format("2006-01-02"), kind))

		case reconcile.OpUpdate:
			r.notifier.Send(ctx, fmt.Sprintf("Updated lock code for %s (%s)\nCode: %s\nNow active %s to %s",
				guest, op.Reason, op.Code.Code,
				op.Code.ActiveFrom.Format("2006-01-02"), op.Code.ActiveUntil.Format("2006-01-02")))

		case reconcile.OpDelete:
			r.notifier.Send(ctx, fmt.Sprintf("Removed lock code %s for %s (%s)",
				op.Code.Code, guest, op.Reason))
		}
	}
}

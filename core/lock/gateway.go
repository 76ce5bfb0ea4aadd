package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/ztrayner/airbnb-lock-manager/core/booking"
	"github.com/ztrayner/airbnb-lock-manager/core/reconcile"
)

// Result is the outcome of applying one operation to the device.
type Result struct {
	// Op is the operation that was attempted.
	Op reconcile.Operation
	// Attempts is how many tries were made.
	Attempts int
	// Err is nil when the operation was confirmed applied (or accepted as
	// an idempotent no-op, e.g. deleting a code that was already gone).
	Err error
}

// Confirmed reports whether the state store may advance past this operation.
func (r Result) Confirmed() bool {
	return r.Err == nil
}

// Gateway applies reconciliation operations to the lock, one at a time.
type Gateway struct {
	client      Client
	maxAttempts int
	logg        *zap.Logger
}

// NewGateway wraps a device client with retry and idempotence behavior.
func NewGateway(client Client, cfg Config, logg *zap.Logger) *Gateway {
	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	return &Gateway{client: client, maxAttempts: attempts, logg: logg}
}

// ApplyAll applies operations sequentially, in plan order. Device calls are
// never issued concurrently: the lock API is rate limited, and sequential
// application keeps the delete-before-create ordering guarantee. A failed
// operation is reported in its Result and does not stop the others.
func (g *Gateway) ApplyAll(ctx context.Context, ops []reconcile.Operation) []Result {
	results := make([]Result, 0, len(ops))
	for _, op := range ops {
		results = append(results, g.Apply(ctx, op))
	}
	return results
}

// Apply submits a single operation, retrying transient failures with
// exponential backoff up to the configured attempt cap.
func (g *Gateway) Apply(ctx context.Context, op reconcile.Operation) Result {
	res := Result{Op: op}

	work := func() error {
		res.Attempts++
		err := g.applyOnce(ctx, op)
		if err != nil && !Transient(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(g.maxAttempts-1)),
		ctx,
	)
	if err := backoff.Retry(work, policy); err != nil {
		res.Err = fmt.Errorf("applying %s for reservation %s: %w", op.Type, op.ReservationID, err)
		g.logg.Error("lock operation failed",
			zap.String("type", string(op.Type)),
			zap.String("reservation_id", op.ReservationID),
			zap.Int("attempts", res.Attempts),
			zap.Error(err))
		return res
	}

	g.logg.Info("lock operation applied",
		zap.String("type", string(op.Type)),
		zap.String("reservation_id", op.ReservationID),
		zap.String("code", op.Code.Code))
	return res
}

func (g *Gateway) applyOnce(ctx context.Context, op reconcile.Operation) error {
	switch op.Type {
	case reconcile.OpCreate:
		return g.create(ctx, op.Code)
	case reconcile.OpDelete:
		return g.delete(ctx, op.Code)
	case reconcile.OpUpdate:
		return g.update(ctx, op)
	default:
		return fmt.Errorf("unknown operation type %q", op.Type)
	}
}

func (g *Gateway) create(ctx context.Context, code booking.LockCode) error {
	err := g.client.CreateAccessCode(ctx, code.Code, code.Label, code.ActiveFrom, code.ActiveUntil)
	if errors.Is(err, ErrDuplicateCode) {
		// The value is already on the device, typically from a previous run
		// whose state commit did not survive. Nothing to do.
		g.logg.Warn("code already on device, accepting as applied", zap.String("code", code.Code))
		return nil
	}
	return err
}

// delete removes the slot holding the given code. A code that is already
// gone from the device counts as success.
func (g *Gateway) delete(ctx context.Context, code booking.LockCode) error {
	slot, err := g.findSlot(ctx, code)
	if err != nil {
		return err
	}
	if slot == nil {
		g.logg.Info("code already absent from device", zap.String("code", code.Code))
		return nil
	}

	err = g.client.DeleteAccessCode(ctx, slot.ID)
	if errors.Is(err, ErrCodeNotFound) {
		return nil
	}
	return err
}

// update adjusts an existing code. When the code value changed the old slot
// is deleted and a new one created, since slots do not support in-place
// value replacement; otherwise only the window is updated.
func (g *Gateway) update(ctx context.Context, op reconcile.Operation) error {
	if op.Prev == nil {
		return fmt.Errorf("update for %s has no previous code", op.ReservationID)
	}

	if op.ReplaceCode {
		if err := g.delete(ctx, *op.Prev); err != nil {
			return err
		}
		return g.create(ctx, op.Code)
	}

	slot, err := g.findSlot(ctx, *op.Prev)
	if err != nil {
		return err
	}
	if slot == nil {
		// The slot disappeared (manual deletion, expiry on device).
		// Recreate it with the desired window.
		return g.create(ctx, op.Code)
	}

	err = g.client.UpdateAccessCode(ctx, slot.ID, op.Code.Code, op.Code.Label, op.Code.ActiveFrom, op.Code.ActiveUntil)
	if errors.Is(err, ErrCodeNotFound) {
		return g.create(ctx, op.Code)
	}
	return err
}

// findSlot locates the device slot holding a code, matching by value and
// falling back to the label.
func (g *Gateway) findSlot(ctx context.Context, code booking.LockCode) (*AccessCode, error) {
	slots, err := g.client.ListAccessCodes(ctx)
	if err != nil {
		return nil, err
	}
	for i := range slots {
		if slots[i].Code == code.Code {
			return &slots[i], nil
		}
	}
	for i := range slots {
		if code.Label != "" && slots[i].Name == code.Label {
			return &slots[i], nil
		}
	}
	return nil, nil
}

// GuestCodes filters a device listing down to the codes this tool manages,
// identified by the Guest_ label prefix.
func GuestCodes(slots []AccessCode) []AccessCode {
	guest := make([]AccessCode, 0, len(slots))
	for _, s := range slots {
		if len(s.Name) > 6 && s.Name[:6] == "Guest_" {
			guest = append(guest, s)
		}
	}
	return guest
}

// StaleSince returns the guest codes whose window ended before the cutoff.
// Used by the codes --cleanup command to clear long-expired codes that were
// left on the device (for example while the tool was not running).
func StaleSince(slots []AccessCode, cutoff time.Time) []AccessCode {
	stale := make([]AccessCode, 0)
	for _, s := range GuestCodes(slots) {
		if !s.End.IsZero() && s.End.Before(cutoff) {
			stale = append(stale, s)
		}
	}
	return stale
}

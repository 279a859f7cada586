// Package guardrails enforces the operational run policy: no runs inside
// the quiet-hours window and a minimum interval between runs per service.
// This protects the upstream minute source and the judgment budget; it is
// not a pipeline invariant and the orchestrator itself never consults it
package guardrails

import (
	"context"
	"fmt"
	"time"

	"leadscout/internal/modkit/repokit"
	"leadscout/internal/platform/store"
)

// ErrQuietHours signals the local clock is inside the forbidden window
var ErrQuietHours = fmt.Errorf("pipeline: inside quiet hours")

// ErrTooSoon signals the service ran more recently than the minimum interval
var ErrTooSoon = fmt.Errorf("pipeline: minimum interval not elapsed")

// GateOptions configures MakeRunGate
type GateOptions struct {
	// QuietFrom/QuietUntil bound the forbidden window in local hours,
	// half-open [from, until), wrapping midnight when from > until.
	// Equal values disable the window
	QuietFrom  int
	QuietUntil int

	// MinInterval between runs per service; <=0 defaults to 30 minutes
	MinInterval time.Duration

	// Now is a clock seam for tests; nil means time.Now
	Now func() time.Time
}

// MakeRunGate returns a wrapper that admits do only when the quiet-hours
// window and the per-service stamp both allow it. The stamp claim is a
// single conditional upsert, so concurrent gates on one service admit at
// most one runner per interval
func MakeRunGate(db repokit.TxRunner, opt GateOptions) func(ctx context.Context, serviceID string, do func(context.Context) error) error {
	if opt.MinInterval <= 0 {
		opt.MinInterval = 30 * time.Minute
	}
	if opt.Now == nil {
		opt.Now = time.Now
	}
	toInterval := func(d time.Duration) string { return fmt.Sprintf("%d seconds", int64(d/time.Second)) }

	return func(ctx context.Context, serviceID string, do func(context.Context) error) error {
		if inQuietWindow(opt.Now().Hour(), opt.QuietFrom, opt.QuietUntil) {
			return ErrQuietHours
		}

		var claimed bool
		if err := db.Tx(ctx, func(q repokit.Queryer) error {
			ok, err := store.Scalar[bool](ctx, q, `
				INSERT INTO lead_run_stamps (service_id, last_run_at)
				VALUES ($1, now())
				ON CONFLICT (service_id) DO UPDATE
				   SET last_run_at = now()
				 WHERE lead_run_stamps.last_run_at <= now() - ($2)::interval
				RETURNING true
			`, serviceID, toInterval(opt.MinInterval))
			if err != nil {
				// only an absent row means the stamp is too fresh;
				// anything else is a real failure and must surface
				if store.IsNoRows(err) {
					return nil
				}
				return err
			}
			claimed = ok
			return nil
		}); err != nil {
			return err
		}
		if !claimed {
			return ErrTooSoon
		}
		return do(ctx)
	}
}

// inQuietWindow reports whether hour falls in [from, until), wrapping
// midnight when from > until; from == until disables the window
func inQuietWindow(hour, from, until int) bool {
	if from == until {
		return false
	}
	if from < until {
		return hour >= from && hour < until
	}
	return hour >= from || hour < until
}

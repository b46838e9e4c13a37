package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/vitaminmoo/rollock/internal/rolling"
	"github.com/vitaminmoo/rollock/internal/session"
	"github.com/vitaminmoo/rollock/internal/transport"
	"github.com/vitaminmoo/rollock/internal/wire"
)

// Unlock sends one rolling code over link and reports the lock's verdict.
func Unlock(opts Options, link transport.Link, timeout time.Duration) error {
	store, err := opts.OpenCounter()
	if err != nil {
		return fmt.Errorf("failed to open counter store: %w", err)
	}

	builder := rolling.NewRequester(opts.RollingConfig(), store)
	sess := session.NewRequester(link, builder)

	ctx := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	res, err := sess.Unlock(ctx)
	if err != nil {
		return err
	}

	switch res.Verdict {
	case wire.Accepted:
		fmt.Printf("Unlocked (counter %d)\n", res.Counter)
		return nil
	default:
		return fmt.Errorf("unlock %s", res.Verdict)
	}
}

package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/vitaminmoo/rollock/internal/actuator"
	"github.com/vitaminmoo/rollock/internal/rolling"
	"github.com/vitaminmoo/rollock/internal/session"
	"github.com/vitaminmoo/rollock/internal/transport"
)

// Listen runs the verifier loop on link until ctx is canceled or the link
// closes. This is the lock-side endpoint; on real hardware the actuator
// drives the mechanism, here it announces toggles on stdout.
func Listen(ctx context.Context, opts Options, link transport.Link) error {
	store, err := opts.OpenCounter()
	if err != nil {
		return fmt.Errorf("failed to open counter store: %w", err)
	}

	current, err := store.Load()
	if err != nil {
		return err
	}
	fmt.Printf("Listening (counter %d, window %d)\n", current, opts.Window)

	validator := rolling.NewValidator(opts.RollingConfig(), store)
	verifier := session.NewVerifier(link, validator, actuator.Console{})

	err = verifier.Serve(ctx)
	stats := verifier.Stats()
	fmt.Printf("Session ended: %d accepted, %d invalid, %d malformed\n",
		stats.Accepted, stats.RejectedInvalid, stats.RejectedMalformed)

	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

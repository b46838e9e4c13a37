package commands

import (
	"context"
	"fmt"

	"github.com/vitaminmoo/rollock/internal/actuator"
	"github.com/vitaminmoo/rollock/internal/counter"
	"github.com/vitaminmoo/rollock/internal/rolling"
	"github.com/vitaminmoo/rollock/internal/session"
	"github.com/vitaminmoo/rollock/internal/transport"
	"github.com/vitaminmoo/rollock/internal/wire"
)

// Bench runs both endpoints in-process over a loopback link and demonstrates
// window resync: it burns `lost` codes on the remote side as if the radio
// had eaten them, then sends the next one for real and shows the lock
// jumping its counter forward.
func Bench(opts Options, lost uint) error {
	if lost > opts.Window {
		return fmt.Errorf("losing %d commands exceeds the window of %d; resync would be impossible", lost, opts.Window)
	}

	cfg := opts.RollingConfig()
	remoteStore := &counter.MemStore{}
	lockStore := &counter.MemStore{}

	builder := rolling.NewRequester(cfg, remoteStore)
	for i := uint(0); i < lost; i++ {
		cmd, err := builder.BuildCommand()
		if err != nil {
			return err
		}
		fmt.Printf("lost in transit: code %s (counter %d)\n", rolling.FormatCode(cmd.Code), cmd.Counter)
	}

	remoteLink, lockLink := transport.Loopback()
	rec := &actuator.Recorder{}
	verifier := session.NewVerifier(lockLink, rolling.NewValidator(cfg, lockStore), rec)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- verifier.Serve(ctx) }()

	sess := session.NewRequester(remoteLink, builder)
	res, err := sess.Unlock(ctx)
	if err != nil {
		cancel()
		return err
	}

	cancel()
	<-done

	fmt.Printf("verdict: %s (sent counter %d)\n", res.Verdict, res.Counter)
	remoteNext, _ := remoteStore.Load()
	lockNext, _ := lockStore.Load()
	fmt.Printf("remote counter now %d, lock counter now %d, toggles %d\n",
		remoteNext, lockNext, rec.Toggles)

	if res.Verdict != wire.Accepted {
		return fmt.Errorf("bench unlock %s", res.Verdict)
	}
	return nil
}

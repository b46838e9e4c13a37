// Package session drives the two endpoints of the protocol over a transport
// link: the Verifier's sequential serve loop on the lock side and the
// Requester session on the remote side.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/vitaminmoo/rollock/internal/actuator"
	"github.com/vitaminmoo/rollock/internal/config"
	"github.com/vitaminmoo/rollock/internal/rolling"
	"github.com/vitaminmoo/rollock/internal/transport"
	"github.com/vitaminmoo/rollock/internal/wire"
)

// Stats counts verdicts issued by a Verifier. Repeated invalid codes are not
// rate-limited here; a surrounding application that wants lockout policy can
// watch these counters.
type Stats struct {
	Accepted          uint64
	RejectedInvalid   uint64
	RejectedMalformed uint64
}

// Verifier processes inbound command lines one at a time to completion:
// read, validate, persist on accept, actuate, reply. The single loop is what
// guarantees the counter store never sees concurrent mutation.
type Verifier struct {
	link      transport.Link
	validator *rolling.Validator
	act       actuator.Actuator
	stats     Stats
}

func NewVerifier(link transport.Link, validator *rolling.Validator, act actuator.Actuator) *Verifier {
	return &Verifier{link: link, validator: validator, act: act}
}

// Stats returns a snapshot of the verdict counters. Only meaningful after
// Serve has returned or between commands on the driving goroutine.
func (v *Verifier) Stats() Stats {
	return v.stats
}

// Serve runs the verifier loop until the link closes, the context is
// canceled, or the counter store fails. Storage failure is fatal for the
// loop: continuing after a failed persist would let in-memory and durable
// counters diverge and reopen a replay window.
func (v *Verifier) Serve(ctx context.Context) error {
	// A blocked Read only unblocks when the link closes.
	stop := context.AfterFunc(ctx, func() { v.link.Close() })
	defer stop()

	lr := wire.NewLineReader(v.link)
	for {
		line, err := lr.ReadLine()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrClosedPipe) {
				return nil
			}
			return fmt.Errorf("failed to read command: %w", err)
		}

		if err := v.handle(line); err != nil {
			return err
		}
	}
}

func (v *Verifier) handle(line string) error {
	code, err := wire.ParseCommand(line)
	if err != nil {
		config.Debugf("rejecting malformed command %q: %v", line, err)
		v.stats.RejectedMalformed++
		return v.reply(wire.RejectedMalformed)
	}

	ok, err := v.validator.Validate(code)
	if err != nil {
		// Counter exhaustion or a storage failure; either way the code
		// was not accepted and the loop must not continue.
		return fmt.Errorf("validation aborted: %w", err)
	}
	if !ok {
		config.Debugf("no window match for code %06d", code)
		v.stats.RejectedInvalid++
		return v.reply(wire.RejectedInvalidCode)
	}

	v.stats.Accepted++
	if v.act != nil {
		if err := v.act.Toggle(); err != nil {
			// The code is consumed either way; the counter already
			// advanced. Report the actuation failure but still
			// answer the remote.
			fmt.Printf("actuation failed: %v\n", err)
		}
	}
	return v.reply(wire.Accepted)
}

func (v *Verifier) reply(verdict wire.Verdict) error {
	if _, err := io.WriteString(v.link, wire.FormatVerdict(verdict)); err != nil {
		return fmt.Errorf("failed to write verdict: %w", err)
	}
	return nil
}

package rolling

import (
	"fmt"
	"math"

	"github.com/vitaminmoo/rollock/internal/counter"
)

// Command is one ready-to-send unlock code and the counter it was derived
// from. The counter value is informational (display, logging); by the time a
// Command exists the store already holds Counter+1.
type Command struct {
	Code    uint32
	Counter uint64
}

// Requester is the remote-side driver: it derives the next code from its own
// counter and advances the counter durably before the code ever leaves the
// process.
type Requester struct {
	cfg   Config
	store counter.Store
}

// NewRequester builds a Requester over the remote's own counter store.
func NewRequester(cfg Config, store counter.Store) *Requester {
	return &Requester{cfg: cfg.withDefaults(), store: store}
}

// BuildCommand derives the code for the current counter and persists
// counter+1. Persist-first is the safe failure direction: a crash between
// persist and send wastes one code, which the verifier's window absorbs,
// whereas reusing a counter could emit a code the verifier has already
// skipped past. If the persist fails nothing may be sent and no Command is
// returned.
//
// BuildCommand is not retried internally; after a transmission failure the
// caller simply builds again and gets the next code.
func (r *Requester) BuildCommand() (Command, error) {
	current, err := r.store.Load()
	if err != nil {
		return Command{}, fmt.Errorf("failed to load counter: %w", err)
	}
	if current == math.MaxUint64 {
		return Command{}, ErrCounterExhausted
	}

	if err := r.store.Store(current + 1); err != nil {
		return Command{}, fmt.Errorf("failed to persist counter: %w", err)
	}

	return Command{
		Code:    r.cfg.Deriver.Derive(r.cfg.Secret, current),
		Counter: current,
	}, nil
}

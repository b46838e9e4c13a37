package rolling

import (
	"errors"
	"fmt"
	"math"

	"github.com/vitaminmoo/rollock/internal/counter"
)

// ErrCounterExhausted means the counter is close enough to the top of its
// range that advancing (or scanning the window) could wrap. Wrapping would
// make long-spent codes valid again, so this is fatal: the deployment needs
// a new secret and reset counters.
var ErrCounterExhausted = errors.New("counter range exhausted")

// Config carries the construction parameters shared by Validator and
// Requester. The secret is an opaque byte sequence provisioned identically on
// both endpoints; it is never transmitted.
type Config struct {
	Secret  []byte
	Window  uint    // forward search depth; 0 means DefaultWindow
	Deriver Deriver // nil means Blake3Deriver
}

func (c Config) withDefaults() Config {
	if c.Window == 0 {
		c.Window = DefaultWindow
	}
	if c.Deriver == nil {
		c.Deriver = Blake3Deriver{}
	}
	return c
}

// Validator is the verifier-side state machine. It consumes already-parsed
// numeric codes; framing and format rejection happen upstream in the wire
// package.
type Validator struct {
	cfg   Config
	store counter.Store
}

// NewValidator builds a Validator over the verifier's own counter store.
func NewValidator(cfg Config, store counter.Store) *Validator {
	return &Validator{cfg: cfg.withDefaults(), store: store}
}

// Window returns the configured forward search depth.
func (v *Validator) Window() uint {
	return v.cfg.Window
}

// Validate checks received against the expected code and up to Window codes
// ahead of it, ascending, first match wins. On a match the counter is
// persisted one past the matched position before Validate reports acceptance;
// if that persist fails the code is NOT accepted and the durable state is
// unchanged. On no match the counter is untouched.
func (v *Validator) Validate(received uint64) (bool, error) {
	current, err := v.store.Load()
	if err != nil {
		return false, fmt.Errorf("failed to load counter: %w", err)
	}

	window := uint64(v.cfg.Window)
	if current > math.MaxUint64-window-1 {
		return false, ErrCounterExhausted
	}

	// Ascending scan so the earliest valid resync point wins, minimizing
	// the forward jump and the replay surface left behind it.
	for i := uint64(0); i <= window; i++ {
		if uint64(v.cfg.Deriver.Derive(v.cfg.Secret, current+i)) != received {
			continue
		}
		if err := v.store.Store(current + i + 1); err != nil {
			return false, fmt.Errorf("failed to persist counter after match: %w", err)
		}
		return true, nil
	}
	return false, nil
}

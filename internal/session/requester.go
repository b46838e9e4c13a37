package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/vitaminmoo/rollock/internal/config"
	"github.com/vitaminmoo/rollock/internal/rolling"
	"github.com/vitaminmoo/rollock/internal/transport"
	"github.com/vitaminmoo/rollock/internal/wire"
)

// ErrBusy means an Unlock was attempted while a prior command's verdict was
// still outstanding. Overlapping commands would race on the counter and can
// pair verdicts with the wrong command, so they are refused outright.
var ErrBusy = errors.New("a command is already in flight")

// Result is the outcome of one unlock attempt.
type Result struct {
	Verdict wire.Verdict
	Counter uint64 // counter the sent code was derived from
}

type verdictLine struct {
	line string
	err  error
}

// Requester is the remote-side session: it builds commands persist-first,
// writes them to the link, and awaits the lock's verdict line.
type Requester struct {
	link    transport.Link
	builder *rolling.Requester

	mu     sync.Mutex
	busy   bool
	lines  chan verdictLine
	reader sync.Once
}

func NewRequester(link transport.Link, builder *rolling.Requester) *Requester {
	return &Requester{
		link:    link,
		builder: builder,
		lines:   make(chan verdictLine, 1),
	}
}

// Unlock sends the next rolling code and waits for the verdict. Only one
// command may be in flight; concurrent calls get ErrBusy.
//
// If ctx expires before the verdict arrives the counter has still advanced —
// that is deliberate; the next Unlock produces the next code and the lock's
// window absorbs the gap. A verdict that straggles in afterward is discarded
// at the start of the following Unlock.
func (r *Requester) Unlock(ctx context.Context) (Result, error) {
	if err := r.acquire(); err != nil {
		return Result{}, err
	}
	defer r.release()

	r.reader.Do(r.startReader)

	// Discard any verdict left over from a timed-out attempt.
	select {
	case stale := <-r.lines:
		config.Debugf("discarding stale verdict %q", stale.line)
	default:
	}

	cmd, err := r.builder.BuildCommand()
	if err != nil {
		return Result{}, err
	}
	config.Debugf("sending code for counter %d", cmd.Counter)

	if _, err := io.WriteString(r.link, wire.FormatCommand(cmd.Code)); err != nil {
		// Counter already advanced; the caller retries by calling
		// Unlock again, which naturally uses the next code.
		return Result{}, fmt.Errorf("failed to send command: %w", err)
	}

	select {
	case vl := <-r.lines:
		if vl.err != nil {
			return Result{}, fmt.Errorf("failed to read verdict: %w", vl.err)
		}
		verdict, err := wire.ParseVerdict(vl.line)
		if err != nil {
			return Result{}, err
		}
		return Result{Verdict: verdict, Counter: cmd.Counter}, nil
	case <-ctx.Done():
		return Result{}, fmt.Errorf("verdict not received: %w", ctx.Err())
	}
}

func (r *Requester) acquire() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.busy {
		return ErrBusy
	}
	r.busy = true
	return nil
}

func (r *Requester) release() {
	r.mu.Lock()
	r.busy = false
	r.mu.Unlock()
}

// startReader pumps verdict lines from the link into a channel so Unlock can
// select between the verdict and its context.
func (r *Requester) startReader() {
	lr := wire.NewLineReader(r.link)
	go func() {
		for {
			line, err := lr.ReadLine()
			r.lines <- verdictLine{line: line, err: err}
			if err != nil {
				return
			}
		}
	}()
}

package rolling

import (
	"testing"

	"github.com/vitaminmoo/rollock/internal/counter"
)

// Three commands are lost in transit; the fourth resyncs the lock at window
// offset 3 and the lock's counter jumps to 4.
func TestLostMessageResyncScenario(t *testing.T) {
	secret := []byte("123456789") // fixed 9-byte key
	cfg := Config{Secret: secret, Window: 10}

	remoteStore := &counter.MemStore{}
	lockStore := &counter.MemStore{}

	remote := NewRequester(cfg, remoteStore)
	lock := NewValidator(cfg, lockStore)

	// Counters 0, 1, 2 consumed by the remote; the lock never sees them.
	var lostCodes []uint32
	for i := 0; i < 3; i++ {
		cmd, err := remote.BuildCommand()
		if err != nil {
			t.Fatalf("lost build %d: %v", i, err)
		}
		lostCodes = append(lostCodes, cmd.Code)
	}

	// The fourth command gets through.
	cmd, err := remote.BuildCommand()
	if err != nil {
		t.Fatalf("BuildCommand: %v", err)
	}
	if cmd.Counter != 3 {
		t.Fatalf("delivered command counter = %d, want 3", cmd.Counter)
	}

	ok, err := lock.Validate(uint64(cmd.Code))
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if !ok {
		t.Fatal("expected window match at offset 3")
	}
	if got := mustValue(t, lockStore); got != 4 {
		t.Errorf("lock counter = %d, want 4", got)
	}
	if got := mustValue(t, remoteStore); got != 4 {
		t.Errorf("remote counter = %d, want 4", got)
	}

	// The skipped codes are behind the lock's counter now and must be dead.
	for i, code := range lostCodes {
		ok, err := lock.Validate(uint64(code))
		if err != nil {
			t.Fatalf("stale code %d: %v", i, err)
		}
		if ok {
			t.Errorf("stale code for counter %d accepted after resync", i)
		}
	}
}

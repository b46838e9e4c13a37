package commands

import "fmt"

// CounterShow prints the endpoint's persisted counter.
func CounterShow(opts Options) error {
	store, err := opts.OpenCounter()
	if err != nil {
		return fmt.Errorf("failed to open counter store: %w", err)
	}
	value, err := store.Load()
	if err != nil {
		return err
	}
	fmt.Printf("%d\n", value)
	return nil
}

// CounterSet overwrites the endpoint's persisted counter. This is a bench
// and recovery tool; setting a counter backwards on the lock re-validates
// already-spent codes, so it refuses to go backwards without force.
func CounterSet(opts Options, value uint64, force bool) error {
	store, err := opts.OpenCounter()
	if err != nil {
		return fmt.Errorf("failed to open counter store: %w", err)
	}
	current, err := store.Load()
	if err != nil {
		return err
	}
	if value < current && !force {
		return fmt.Errorf("refusing to move counter backwards (%d -> %d); use --force", current, value)
	}
	if err := store.Store(value); err != nil {
		return err
	}
	fmt.Printf("Counter set to %d (was %d)\n", value, current)
	return nil
}

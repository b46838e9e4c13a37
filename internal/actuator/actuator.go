// Package actuator is the boundary to the physical lock mechanism. The core
// only ever calls Toggle after a code is accepted and persisted; the
// locked/unlocked state itself lives on the other side of this interface.
package actuator

import "fmt"

// Actuator performs the physical toggle.
type Actuator interface {
	Toggle() error
}

// Console announces each toggle on stdout. Used by the listen command when no
// real mechanism is attached.
type Console struct {
	Label string
}

func (c Console) Toggle() error {
	label := c.Label
	if label == "" {
		label = "lock"
	}
	fmt.Printf("*** toggling %s ***\n", label)
	return nil
}

// Recorder counts toggles. Used by the bench command and tests.
type Recorder struct {
	Toggles int
}

func (r *Recorder) Toggle() error {
	r.Toggles++
	return nil
}

package commands

import (
	"path/filepath"

	"github.com/vitaminmoo/rollock/internal/counter"
	"github.com/vitaminmoo/rollock/internal/rolling"
)

// CounterFile is the counter cell's file name under an endpoint state dir.
const CounterFile = "counter"

// Options carries the resolved configuration every command needs: which
// state dir this endpoint owns, the provisioned secret, and the rolling-code
// parameters.
type Options struct {
	StateDir string
	Secret   []byte
	Window   uint
	Deriver  rolling.Deriver
}

// RollingConfig builds the rolling.Config for these options.
func (o Options) RollingConfig() rolling.Config {
	return rolling.Config{
		Secret:  o.Secret,
		Window:  o.Window,
		Deriver: o.Deriver,
	}
}

// OpenCounter opens this endpoint's counter store.
func (o Options) OpenCounter() (*counter.FileStore, error) {
	return counter.Open(filepath.Join(o.StateDir, CounterFile))
}

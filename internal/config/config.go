package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Verbose enables debug output when true
var Verbose bool

// Debugf prints debug messages when Verbose is true
func Debugf(format string, args ...any) {
	if Verbose {
		fmt.Printf("[DEBUG] "+format+"\n", args...)
	}
}

// DefaultStateDir returns the default state directory for an endpoint role
// ("remote" or "lock"). Each role keeps its own counter and secret so a
// single machine can run both ends during bench testing.
func DefaultStateDir(role string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".rollock", role), nil
}

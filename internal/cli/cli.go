// Package cli declares the rollock command tree.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vitaminmoo/rollock/internal/commands"
	"github.com/vitaminmoo/rollock/internal/config"
	"github.com/vitaminmoo/rollock/internal/keyring"
	"github.com/vitaminmoo/rollock/internal/rolling"
	"github.com/vitaminmoo/rollock/internal/transport"
	"github.com/vitaminmoo/rollock/internal/transport/ble"
	"github.com/vitaminmoo/rollock/internal/tui"
)

// Endpoint roles; each keeps its own state dir under ~/.rollock.
const (
	RoleRemote = "remote"
	RoleLock   = "lock"
)

// CLI is the root command structure for rollock.
type CLI struct {
	Verbose    bool   `short:"v" help:"Enable verbose debug output"`
	StateDir   string `help:"Override the endpoint state directory"`
	SecretHex  string `name:"secret-hex" help:"Hex-encoded shared secret (overrides all other sources)"`
	Passphrase string `help:"Derive the shared secret from a passphrase"`
	Window     uint   `default:"10" help:"Forward counter search window on the lock side"`
	Hotp       bool   `help:"Derive codes with RFC 4226 HMAC-SHA1 instead of keyed BLAKE3"`

	// Default command - TUI
	Tui TuiCmd `cmd:"" default:"withargs" help:"Launch interactive remote (default)"`

	Unlock  UnlockCmd  `cmd:"" help:"Send one unlock code to the lock"`
	Listen  ListenCmd  `cmd:"" help:"Run the lock-side verifier endpoint"`
	Counter CounterCmd `cmd:"" help:"Inspect or adjust the local counter"`
	Secret  SecretCmd  `cmd:"" help:"Shared secret provisioning"`
	Bench   BenchCmd   `cmd:"" help:"Loopback end-to-end exercise with simulated message loss"`
}

// options resolves state dir, secret, and rolling parameters for a role.
func (c *CLI) options(role string) (commands.Options, error) {
	config.Verbose = c.Verbose

	stateDir := c.StateDir
	if stateDir == "" {
		var err error
		stateDir, err = config.DefaultStateDir(role)
		if err != nil {
			return commands.Options{}, fmt.Errorf("failed to resolve state dir: %w", err)
		}
	}

	secret, err := keyring.Load(stateDir, keyring.Source{
		Hex:        c.SecretHex,
		Passphrase: c.Passphrase,
	})
	if err != nil {
		return commands.Options{}, err
	}

	var deriver rolling.Deriver = rolling.Blake3Deriver{}
	if c.Hotp {
		deriver = rolling.HOTPDeriver{}
	}

	return commands.Options{
		StateDir: stateDir,
		Secret:   secret,
		Window:   c.Window,
		Deriver:  deriver,
	}, nil
}

// connect opens the BLE serial link to the lock.
func connect(device string) (transport.Link, error) {
	link, err := ble.Connect(device)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}
	return link, nil
}

// signalContext cancels on SIGINT/SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// --- TUI Command ---

type TuiCmd struct {
	Device string `help:"Advertised BLE name of the lock" default:"rollock"`
}

func (c *TuiCmd) Run(globals *CLI) error {
	opts, err := globals.options(RoleRemote)
	if err != nil {
		return err
	}
	return tui.Run(opts, c.Device)
}

// --- Unlock Command ---

type UnlockCmd struct {
	Device  string        `help:"Advertised BLE name of the lock" default:"rollock"`
	Timeout time.Duration `default:"10s" help:"How long to wait for the verdict (0 = forever)"`
}

func (c *UnlockCmd) Run(globals *CLI) error {
	opts, err := globals.options(RoleRemote)
	if err != nil {
		return err
	}

	link, err := connect(c.Device)
	if err != nil {
		return err
	}
	defer link.Close()

	return commands.Unlock(opts, link, c.Timeout)
}

// --- Listen Command ---

type ListenCmd struct {
	Device string `help:"Advertised BLE name of the serial bridge" default:"rollock"`
}

func (c *ListenCmd) Run(globals *CLI) error {
	opts, err := globals.options(RoleLock)
	if err != nil {
		return err
	}

	link, err := connect(c.Device)
	if err != nil {
		return err
	}
	defer link.Close()

	ctx, cancel := signalContext()
	defer cancel()
	return commands.Listen(ctx, opts, link)
}

// --- Counter Commands ---

type CounterCmd struct {
	Show CounterShowCmd `cmd:"" help:"Print the persisted counter"`
	Set  CounterSetCmd  `cmd:"" help:"Overwrite the persisted counter"`
}

type CounterShowCmd struct {
	Role string `default:"remote" enum:"remote,lock" help:"Which endpoint's counter"`
}

func (c *CounterShowCmd) Run(globals *CLI) error {
	opts, err := globals.options(c.Role)
	if err != nil {
		return err
	}
	return commands.CounterShow(opts)
}

type CounterSetCmd struct {
	Value uint64 `arg:"" help:"New counter value"`
	Role  string `default:"remote" enum:"remote,lock" help:"Which endpoint's counter"`
	Force bool   `help:"Allow moving the counter backwards"`
}

func (c *CounterSetCmd) Run(globals *CLI) error {
	opts, err := globals.options(c.Role)
	if err != nil {
		return err
	}
	return commands.CounterSet(opts, c.Value, c.Force)
}

// --- Secret Commands ---

type SecretCmd struct {
	Gen         SecretGenCmd         `cmd:"" help:"Generate a secret and install it for both roles"`
	Fingerprint SecretFingerprintCmd `cmd:"" help:"Print the configured secret's fingerprint"`
}

type SecretGenCmd struct{}

func (c *SecretGenCmd) Run(globals *CLI) error {
	config.Verbose = globals.Verbose

	if globals.StateDir != "" {
		return commands.SecretGen(globals.StateDir)
	}

	remoteDir, err := config.DefaultStateDir(RoleRemote)
	if err != nil {
		return err
	}
	lockDir, err := config.DefaultStateDir(RoleLock)
	if err != nil {
		return err
	}
	return commands.SecretGen(remoteDir, lockDir)
}

type SecretFingerprintCmd struct {
	Role string `default:"remote" enum:"remote,lock" help:"Which endpoint's secret"`
}

func (c *SecretFingerprintCmd) Run(globals *CLI) error {
	opts, err := globals.options(c.Role)
	if err != nil {
		return err
	}
	return commands.SecretFingerprint(opts)
}

// --- Bench Command ---

type BenchCmd struct {
	Lost uint `default:"3" help:"Commands to lose in transit before the real send"`
}

func (c *BenchCmd) Run(globals *CLI) error {
	opts, err := globals.options(RoleRemote)
	if err != nil {
		// The bench is self-contained; an ephemeral secret is fine.
		secret, gerr := keyring.Generate()
		if gerr != nil {
			return err
		}
		fmt.Println("No secret provisioned; using an ephemeral one for this run.")
		var deriver rolling.Deriver = rolling.Blake3Deriver{}
		if globals.Hotp {
			deriver = rolling.HOTPDeriver{}
		}
		opts = commands.Options{Secret: secret, Window: globals.Window, Deriver: deriver}
	}
	return commands.Bench(opts, c.Lost)
}

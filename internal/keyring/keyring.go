// Package keyring loads and provisions the shared secret. The secret is an
// opaque byte sequence installed identically on both endpoints out-of-band;
// nothing in this package ever transmits it.
package keyring

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/hkdf"
)

const (
	// SecretFile is the file name under an endpoint's state dir.
	SecretFile = "secret.key"

	// EnvVar overrides the on-disk secret when set (hex-encoded).
	EnvVar = "ROLLOCK_SECRET"

	secretLen = 32
)

// Fixed application salt for passphrase stretching. Both endpoints must use
// the same salt or they derive different secrets from the same passphrase.
var passphraseSalt = []byte("rollock/passphrase-salt/v1")

// Source describes where a secret may come from, in precedence order:
// explicit hex, environment, state-dir file, stretched passphrase.
type Source struct {
	Hex        string // hex-encoded secret from a flag
	Passphrase string // stretched via HKDF-SHA256 when nothing else is set
}

// Load resolves the shared secret for the endpoint rooted at stateDir.
func Load(stateDir string, src Source) ([]byte, error) {
	if src.Hex != "" {
		return decodeHex(src.Hex, "--secret-hex")
	}

	if env := os.Getenv(EnvVar); env != "" {
		return decodeHex(env, EnvVar)
	}

	path := filepath.Join(stateDir, SecretFile)
	if data, err := os.ReadFile(path); err == nil {
		return decodeHex(strings.TrimSpace(string(data)), path)
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read secret file: %w", err)
	}

	if src.Passphrase != "" {
		return Stretch(src.Passphrase), nil
	}

	return nil, fmt.Errorf("no secret provisioned: set %s, create %s, or pass a passphrase", EnvVar, path)
}

// Stretch derives a full-width secret from a human passphrase. Deterministic:
// the same passphrase always yields the same secret, so both endpoints can be
// provisioned by typing the phrase once on each.
func Stretch(passphrase string) []byte {
	r := hkdf.New(sha256.New, []byte(passphrase), passphraseSalt, []byte("shared secret"))
	secret := make([]byte, secretLen)
	if _, err := io.ReadFull(r, secret); err != nil {
		// Only possible if the reader is exhausted, which it cannot be
		// for a 32-byte read.
		panic(err)
	}
	return secret
}

// Generate produces a fresh random secret.
func Generate() ([]byte, error) {
	secret := make([]byte, secretLen)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("failed to generate secret: %w", err)
	}
	return secret, nil
}

// Save writes the secret hex-encoded under stateDir with owner-only
// permissions.
func Save(stateDir string, secret []byte) error {
	if err := os.MkdirAll(stateDir, 0700); err != nil {
		return fmt.Errorf("failed to create state dir: %w", err)
	}
	path := filepath.Join(stateDir, SecretFile)
	data := hex.EncodeToString(secret) + "\n"
	if err := os.WriteFile(path, []byte(data), 0600); err != nil {
		return fmt.Errorf("failed to write secret file: %w", err)
	}
	return nil
}

// Fingerprint returns a sha256-prefixed digest of the secret, safe to print
// and compare across endpoints.
func Fingerprint(secret []byte) string {
	sum := sha256.Sum256(secret)
	return "sha256:" + hex.EncodeToString(sum[:])
}

// ShortFingerprint returns a shortened fingerprint for display.
func ShortFingerprint(full string) string {
	if len(full) > 19 {
		return full[7:19] // skip "sha256:" prefix
	}
	return full
}

func decodeHex(text, from string) ([]byte, error) {
	secret, err := hex.DecodeString(text)
	if err != nil {
		return nil, fmt.Errorf("invalid hex secret from %s: %w", from, err)
	}
	if len(secret) == 0 {
		return nil, fmt.Errorf("empty secret from %s", from)
	}
	return secret, nil
}

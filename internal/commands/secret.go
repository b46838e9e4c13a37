package commands

import (
	"fmt"

	"github.com/vitaminmoo/rollock/internal/keyring"
)

// SecretGen generates a fresh shared secret and installs it in every given
// state dir. Both endpoints must hold the same bytes; installing into the
// remote and lock dirs in one shot is how a loopback bench deployment is
// provisioned.
func SecretGen(stateDirs ...string) error {
	secret, err := keyring.Generate()
	if err != nil {
		return err
	}

	for _, dir := range stateDirs {
		if err := keyring.Save(dir, secret); err != nil {
			return err
		}
		fmt.Printf("Installed secret in %s\n", dir)
	}

	fmt.Printf("Fingerprint: %s\n", keyring.Fingerprint(secret))
	return nil
}

// SecretFingerprint prints the fingerprint of the endpoint's secret so the
// two ends can be compared without revealing the secret itself.
func SecretFingerprint(opts Options) error {
	fmt.Println(keyring.Fingerprint(opts.Secret))
	return nil
}

package keyring

import (
	"bytes"
	"encoding/hex"
	"strings"
	"testing"
)

func TestStretchDeterminism(t *testing.T) {
	a := Stretch("correct horse battery staple")
	b := Stretch("correct horse battery staple")
	if !bytes.Equal(a, b) {
		t.Error("same passphrase produced different secrets")
	}
	if len(a) != 32 {
		t.Errorf("secret length = %d, want 32", len(a))
	}

	c := Stretch("correct horse battery stapler")
	if bytes.Equal(a, c) {
		t.Error("different passphrases produced the same secret")
	}
}

func TestGenerate(t *testing.T) {
	a, err := Generate()
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	b, err := Generate()
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(a) != 32 {
		t.Errorf("secret length = %d, want 32", len(a))
	}
	if bytes.Equal(a, b) {
		t.Error("two generated secrets are identical")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	secret, err := Generate()
	if err != nil {
		t.Fatal(err)
	}

	if err := Save(dir, secret); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load(dir, Source{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !bytes.Equal(secret, loaded) {
		t.Error("loaded secret differs from saved secret")
	}
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	fileSecret := []byte("file-secret-0123456789abcdef0123")
	if err := Save(dir, fileSecret); err != nil {
		t.Fatal(err)
	}

	t.Run("hex_beats_file", func(t *testing.T) {
		explicit := []byte("explicit")
		got, err := Load(dir, Source{Hex: hex.EncodeToString(explicit)})
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if !bytes.Equal(got, explicit) {
			t.Error("explicit hex secret did not win over file")
		}
	})

	t.Run("env_beats_file", func(t *testing.T) {
		envSecret := []byte("from-env")
		t.Setenv(EnvVar, hex.EncodeToString(envSecret))
		got, err := Load(dir, Source{})
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if !bytes.Equal(got, envSecret) {
			t.Error("env secret did not win over file")
		}
	})

	t.Run("file_beats_passphrase", func(t *testing.T) {
		got, err := Load(dir, Source{Passphrase: "fallback"})
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if !bytes.Equal(got, fileSecret) {
			t.Error("file secret did not win over passphrase")
		}
	})

	t.Run("passphrase_when_nothing_else", func(t *testing.T) {
		empty := t.TempDir()
		got, err := Load(empty, Source{Passphrase: "fallback"})
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if !bytes.Equal(got, Stretch("fallback")) {
			t.Error("passphrase secret does not match Stretch output")
		}
	})

	t.Run("nothing_provisioned", func(t *testing.T) {
		empty := t.TempDir()
		if _, err := Load(empty, Source{}); err == nil {
			t.Error("expected an error with no secret source")
		}
	})
}

func TestLoadRejectsBadHex(t *testing.T) {
	if _, err := Load(t.TempDir(), Source{Hex: "not hex"}); err == nil {
		t.Error("expected error for invalid hex")
	}
	if _, err := Load(t.TempDir(), Source{Hex: ""}); err == nil {
		// Empty Hex means "not set", so this falls through to the
		// no-source error, which is still an error.
		t.Error("expected error with no secret source")
	}
}

func TestFingerprint(t *testing.T) {
	secret := []byte("fingerprint-me")
	fp := Fingerprint(secret)
	if !strings.HasPrefix(fp, "sha256:") {
		t.Errorf("fingerprint %q missing algorithm prefix", fp)
	}
	if fp != Fingerprint(secret) {
		t.Error("fingerprint not stable")
	}
	if Fingerprint([]byte("other")) == fp {
		t.Error("different secrets share a fingerprint")
	}

	short := ShortFingerprint(fp)
	if len(short) != 12 {
		t.Errorf("short fingerprint %q length = %d, want 12", short, len(short))
	}
	if !strings.HasPrefix(fp[7:], short) {
		t.Errorf("short fingerprint %q is not a prefix of %q", short, fp)
	}
}

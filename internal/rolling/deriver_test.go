package rolling

import (
	"testing"
)

func TestDeriveDeterminism(t *testing.T) {
	secret := []byte("shared-secret")

	derivers := map[string]Deriver{
		"blake3": Blake3Deriver{},
		"hotp":   HOTPDeriver{},
	}

	for name, d := range derivers {
		t.Run(name, func(t *testing.T) {
			for counter := uint64(0); counter < 50; counter++ {
				a := d.Derive(secret, counter)
				b := d.Derive(secret, counter)
				if a != b {
					t.Fatalf("counter %d: derive not deterministic: %d != %d", counter, a, b)
				}
				if a >= codeModulus {
					t.Fatalf("counter %d: code %d out of range", counter, a)
				}
			}
		})
	}
}

func TestDeriveDependsOnSecret(t *testing.T) {
	derivers := map[string]Deriver{
		"blake3": Blake3Deriver{},
		"hotp":   HOTPDeriver{},
	}

	for name, d := range derivers {
		t.Run(name, func(t *testing.T) {
			same := 0
			for counter := uint64(0); counter < 32; counter++ {
				a := d.Derive([]byte("secret-one"), counter)
				b := d.Derive([]byte("secret-two"), counter)
				if a == b {
					same++
				}
			}
			// Six-digit codes collide occasionally; identical streams
			// would mean the secret is being ignored.
			if same == 32 {
				t.Error("derived codes do not depend on the secret")
			}
		})
	}
}

func TestDeriveDependsOnExactCounter(t *testing.T) {
	secret := []byte("shared-secret")
	d := Blake3Deriver{}

	seen := make(map[uint32]int)
	for counter := uint64(0); counter < 32; counter++ {
		seen[d.Derive(secret, counter)]++
	}
	if len(seen) < 30 {
		t.Errorf("expected ~32 distinct codes across 32 counters, got %d", len(seen))
	}
}

// RFC 4226 Appendix D test vectors.
func TestHOTPDeriverRFC4226Vectors(t *testing.T) {
	secret := []byte("12345678901234567890")
	want := []uint32{
		755224, 287082, 359152, 969429, 338314,
		254676, 287922, 162583, 399871, 520489,
	}

	d := HOTPDeriver{}
	for counter, expected := range want {
		if got := d.Derive(secret, uint64(counter)); got != expected {
			t.Errorf("counter %d: got %06d, want %06d", counter, got, expected)
		}
	}
}

func TestFormatCode(t *testing.T) {
	tests := []struct {
		code uint32
		want string
	}{
		{0, "000000"},
		{42, "000042"},
		{755224, "755224"},
		{999999, "999999"},
	}

	for _, tt := range tests {
		if got := FormatCode(tt.code); got != tt.want {
			t.Errorf("FormatCode(%d) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func BenchmarkBlake3Derive(b *testing.B) {
	secret := []byte("shared-secret")
	d := Blake3Deriver{}
	for i := 0; i < b.N; i++ {
		_ = d.Derive(secret, uint64(i))
	}
}

func BenchmarkHOTPDerive(b *testing.B) {
	secret := []byte("shared-secret")
	d := HOTPDeriver{}
	for i := 0; i < b.N; i++ {
		_ = d.Derive(secret, uint64(i))
	}
}

// Package rolling implements the rolling-code scheme shared by the remote
// (requester) and the lock (verifier): a keyed one-way function maps a shared
// secret and an advancing counter to a short one-time numeric code, and a
// windowed validator re-synchronizes the two counters without a handshake.
//
// The window trades loss tolerance against guessing surface: the verifier
// accepts codes up to Window positions ahead of its own counter, so Window
// consecutive lost commands are survivable, but an observer of one transcript
// gets Window guesses instead of one. Tune Window with that in mind.
package rolling

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/binary"
	"fmt"

	"lukechampine.com/blake3"
)

const (
	// Digits is the width of an emitted code.
	Digits = 6

	// DefaultWindow is the forward search depth used when no explicit
	// window is configured.
	DefaultWindow = 10

	codeModulus = 1_000_000 // 10^Digits
)

// blake3Context namespaces the key derivation so the same secret bytes used
// elsewhere can never collide with rolling-code keys.
const blake3Context = "rollock 2025-08 rolling code key v1"

// Deriver maps (secret, counter) to a code in [0, 10^Digits). Implementations
// must be deterministic and pure; swapping the keyed primitive must not
// require touching the validator or requester.
type Deriver interface {
	Derive(secret []byte, counter uint64) uint32
}

// Blake3Deriver derives codes with a keyed BLAKE3 hash over the 8-byte
// big-endian counter. This is the default.
type Blake3Deriver struct{}

func (Blake3Deriver) Derive(secret []byte, counter uint64) uint32 {
	// blake3 keyed mode wants exactly 32 key bytes; stretch whatever the
	// deployment provisioned through the KDF mode.
	key := make([]byte, 32)
	blake3.DeriveKey(key, blake3Context, secret)

	var msg [8]byte
	binary.BigEndian.PutUint64(msg[:], counter)

	h := blake3.New(32, key)
	h.Write(msg[:])
	return truncate(h.Sum(nil))
}

// HOTPDeriver derives codes per RFC 4226 (HMAC-SHA1 with dynamic
// truncation), for interop with stock OTP tooling.
type HOTPDeriver struct{}

func (HOTPDeriver) Derive(secret []byte, counter uint64) uint32 {
	var msg [8]byte
	binary.BigEndian.PutUint64(msg[:], counter)

	mac := hmac.New(sha1.New, secret)
	mac.Write(msg[:])
	return truncate(mac.Sum(nil))
}

// truncate applies RFC 4226 dynamic truncation and reduces to Digits digits.
func truncate(sum []byte) uint32 {
	offset := sum[len(sum)-1] & 0x0f
	value := uint32(sum[offset]&0x7f)<<24 |
		uint32(sum[offset+1])<<16 |
		uint32(sum[offset+2])<<8 |
		uint32(sum[offset+3])
	return value % codeModulus
}

// FormatCode renders a code zero-padded to Digits digits.
func FormatCode(code uint32) string {
	return fmt.Sprintf("%0*d", Digits, code)
}

// Package transport abstracts the ordered byte stream between the remote and
// the lock. The protocol only needs Read/Write; Close unblocks a peer stuck
// in a read.
package transport

import (
	"io"
	"net"
)

// Link is one endpoint's view of the byte stream.
type Link interface {
	io.ReadWriter
	Close() error
}

// Loopback returns two connected in-process links, one per endpoint. Writes
// on one side are readable on the other with no framing guarantees beyond
// ordering, which matches how a serial transport chunks data.
func Loopback() (Link, Link) {
	a, b := net.Pipe()
	return a, b
}

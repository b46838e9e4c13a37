package wire

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
)

// MaxLineLen bounds how many bytes may accumulate without a newline before
// the stream is considered poisoned. No legal message comes close.
const MaxLineLen = 256

// ErrLineTooLong reports a stream that exceeded MaxLineLen without
// delivering a newline.
var ErrLineTooLong = errors.New("line exceeds maximum length")

// LineReader reassembles newline-delimited messages from an ordered byte
// stream that may be chunked arbitrarily by the transport (BLE notifications
// rarely align with message boundaries). Partial lines are buffered across
// reads; only complete, whitespace-trimmed lines are handed out.
type LineReader struct {
	r       io.Reader
	pending bytes.Buffer
	chunk   [128]byte
}

func NewLineReader(r io.Reader) *LineReader {
	return &LineReader{r: r}
}

// ReadLine blocks until a full line is available and returns it with
// surrounding whitespace (including any CR) stripped. A trimmed-empty line is
// returned as "" for the caller to reject as malformed. On stream end with an
// unterminated partial line buffered, the partial data is discarded and
// io.EOF is returned.
func (lr *LineReader) ReadLine() (string, error) {
	for {
		if line, ok := lr.takeLine(); ok {
			return line, nil
		}
		if lr.pending.Len() > MaxLineLen {
			return "", fmt.Errorf("%w (%d bytes buffered)", ErrLineTooLong, lr.pending.Len())
		}

		n, err := lr.r.Read(lr.chunk[:])
		if n > 0 {
			lr.pending.Write(lr.chunk[:n])
			continue
		}
		if err != nil {
			return "", err
		}
	}
}

// takeLine extracts the first complete line from the buffer, if any.
func (lr *LineReader) takeLine() (string, bool) {
	data := lr.pending.Bytes()
	i := bytes.IndexByte(data, '\n')
	if i < 0 {
		return "", false
	}
	line := strings.TrimSpace(string(data[:i]))
	lr.pending.Next(i + 1)
	return line, true
}

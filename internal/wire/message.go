// Package wire implements the line-oriented protocol spoken between the
// remote and the lock.
//
// Each message is one US-ASCII text line terminated by a single newline.
// A command line carries the decimal rolling code, zero-padded to six digits
// on emit but compared by numeric value on parse. A verdict line is either
//
//	OK
//	ERROR:<reason>
//
// where <reason> is a machine-stable tag (InvalidCode, InvalidFormat).
// Parsers strip surrounding whitespace and treat an empty line as malformed,
// never as code 0.
package wire

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/vitaminmoo/rollock/internal/rolling"
)

// Verdict is the lock's answer to one command.
type Verdict int

const (
	Accepted Verdict = iota
	RejectedInvalidCode
	RejectedMalformed
)

func (v Verdict) String() string {
	switch v {
	case Accepted:
		return "accepted"
	case RejectedInvalidCode:
		return "rejected: invalid code"
	case RejectedMalformed:
		return "rejected: malformed"
	default:
		return fmt.Sprintf("verdict(%d)", int(v))
	}
}

const (
	tokenOK          = "OK"
	tokenErrorPrefix = "ERROR:"

	reasonInvalidCode   = "InvalidCode"
	reasonInvalidFormat = "InvalidFormat"

	// A code shorter than the emitted width is malformed even if it would
	// parse; longer than ten digits cannot come from any deriver.
	minCodeDigits = rolling.Digits
	maxCodeDigits = 10
)

// ErrMalformed reports input that fails shape validation before it ever
// reaches the validator.
var ErrMalformed = errors.New("malformed message")

// FormatCommand renders a command line for code, newline included.
func FormatCommand(code uint32) string {
	return rolling.FormatCode(code) + "\n"
}

// ParseCommand parses a trimmed command line into its numeric code value.
// Errors wrap ErrMalformed; the caller maps them to RejectedMalformed.
func ParseCommand(line string) (uint64, error) {
	if line == "" {
		return 0, fmt.Errorf("%w: empty line", ErrMalformed)
	}
	if len(line) < minCodeDigits || len(line) > maxCodeDigits {
		return 0, fmt.Errorf("%w: code must be %d-%d digits, got %d characters",
			ErrMalformed, minCodeDigits, maxCodeDigits, len(line))
	}
	for i := 0; i < len(line); i++ {
		if line[i] < '0' || line[i] > '9' {
			return 0, fmt.Errorf("%w: non-digit character %q", ErrMalformed, line[i])
		}
	}

	value, err := strconv.ParseUint(line, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return value, nil
}

// FormatVerdict renders a verdict line, newline included.
func FormatVerdict(v Verdict) string {
	switch v {
	case Accepted:
		return tokenOK + "\n"
	case RejectedInvalidCode:
		return tokenErrorPrefix + reasonInvalidCode + "\n"
	default:
		return tokenErrorPrefix + reasonInvalidFormat + "\n"
	}
}

// ParseVerdict parses a trimmed verdict line.
func ParseVerdict(line string) (Verdict, error) {
	switch {
	case line == tokenOK:
		return Accepted, nil
	case strings.HasPrefix(line, tokenErrorPrefix):
		switch strings.TrimPrefix(line, tokenErrorPrefix) {
		case reasonInvalidCode:
			return RejectedInvalidCode, nil
		case reasonInvalidFormat:
			return RejectedMalformed, nil
		}
	}
	return 0, fmt.Errorf("%w: unrecognized verdict %q", ErrMalformed, line)
}

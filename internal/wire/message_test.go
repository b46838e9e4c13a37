package wire

import (
	"errors"
	"testing"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		want      uint64
		malformed bool
	}{
		{name: "six_digits", line: "755224", want: 755224},
		{name: "zero_padded", line: "000042", want: 42},
		{name: "all_zeros", line: "000000", want: 0},
		{name: "ten_digits", line: "4294967295", want: 4294967295},
		{name: "empty", line: "", malformed: true},
		{name: "non_digit_inside", line: "12a34", malformed: true},
		{name: "non_digit_full_width", line: "12a456", malformed: true},
		{name: "too_short", line: "12345", malformed: true},
		{name: "too_long", line: "12345678901", malformed: true},
		{name: "negative", line: "-12345", malformed: true},
		{name: "whitespace_inside", line: "123 456", malformed: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCommand(tt.line)
			if tt.malformed {
				if !errors.Is(err, ErrMalformed) {
					t.Errorf("ParseCommand(%q) err = %v, want ErrMalformed", tt.line, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseCommand(%q): %v", tt.line, err)
			}
			if got != tt.want {
				t.Errorf("ParseCommand(%q) = %d, want %d", tt.line, got, tt.want)
			}
		})
	}
}

func TestFormatCommand(t *testing.T) {
	tests := []struct {
		code uint32
		want string
	}{
		{0, "000000\n"},
		{42, "000042\n"},
		{999999, "999999\n"},
	}

	for _, tt := range tests {
		if got := FormatCommand(tt.code); got != tt.want {
			t.Errorf("FormatCommand(%d) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestVerdictRoundTrip(t *testing.T) {
	verdicts := []struct {
		v    Verdict
		line string
	}{
		{Accepted, "OK"},
		{RejectedInvalidCode, "ERROR:InvalidCode"},
		{RejectedMalformed, "ERROR:InvalidFormat"},
	}

	for _, tt := range verdicts {
		wire := FormatVerdict(tt.v)
		if wire != tt.line+"\n" {
			t.Errorf("FormatVerdict(%v) = %q, want %q", tt.v, wire, tt.line+"\n")
		}
		parsed, err := ParseVerdict(tt.line)
		if err != nil {
			t.Fatalf("ParseVerdict(%q): %v", tt.line, err)
		}
		if parsed != tt.v {
			t.Errorf("ParseVerdict(%q) = %v, want %v", tt.line, parsed, tt.v)
		}
	}
}

func TestParseVerdictUnknown(t *testing.T) {
	for _, line := range []string{"", "ok", "ERROR:", "ERROR:Nope", "MAYBE"} {
		if _, err := ParseVerdict(line); !errors.Is(err, ErrMalformed) {
			t.Errorf("ParseVerdict(%q) err = %v, want ErrMalformed", line, err)
		}
	}
}

func TestVerdictString(t *testing.T) {
	if Accepted.String() != "accepted" {
		t.Errorf("Accepted.String() = %q", Accepted.String())
	}
	if s := Verdict(99).String(); s != "verdict(99)" {
		t.Errorf("unknown verdict String() = %q", s)
	}
}

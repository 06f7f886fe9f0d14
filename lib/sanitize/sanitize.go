// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package sanitize turns untrusted remote log payloads into text that
// is safe to write to a terminal.
//
// Remote peers are not trusted to emit well-behaved output: a
// compromised upstream could embed cursor movement, title changes, or
// hyperlink escapes that rewrite the operator's terminal. Sanitize
// removes every escape sequence and any remaining control byte other
// than tab and newline, then requires the result to be valid UTF-8.
// Payloads that fail validation are rejected whole; there is no
// replacement-character decoding.
package sanitize

import (
	"fmt"
	"unicode/utf8"

	"github.com/charmbracelet/x/ansi"
)

// DecodeError reports a payload that was not valid UTF-8 after escape
// sequences were removed.
type DecodeError struct {
	// Length is the byte length of the rejected payload after
	// stripping.
	Length int
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("payload is not valid UTF-8 (%d bytes)", e.Length)
}

// Sanitize strips terminal escape sequences from raw and validates the
// remainder as UTF-8. It returns the text, or a *DecodeError if the
// stripped bytes are not valid UTF-8. An empty payload yields "".
func Sanitize(raw []byte) (string, error) {
	stripped := Strip(raw)
	if !utf8.Valid(stripped) {
		return "", &DecodeError{Length: len(stripped)}
	}
	return string(stripped), nil
}

// Strip removes escape sequences (CSI, OSC, DCS, APC, PM, SOS, bare ESC
// sequences, and their C1 forms) and C0 control bytes other than tab
// and newline. It never fails and does not validate encoding. Bytes
// that are not part of a valid UTF-8 sequence are copied through
// unchanged, so a caller validating the result still sees them; an
// 8-bit C1 introducer such as 0x9b counts as one of those bytes.
func Strip(raw []byte) []byte {
	stripped := make([]byte, 0, len(raw))
	for len(raw) > 0 {
		valid := validPrefix(raw)
		if valid == 0 {
			stripped = append(stripped, raw[0])
			raw = raw[1:]
			continue
		}
		stripped = appendVisible(stripped, ansi.Strip(string(raw[:valid])))
		raw = raw[valid:]
	}
	return stripped
}

// validPrefix returns the length of the longest prefix of b that is
// valid UTF-8.
func validPrefix(b []byte) int {
	n := 0
	for n < len(b) {
		r, size := utf8.DecodeRune(b[n:])
		if r == utf8.RuneError && size == 1 {
			break
		}
		n += size
	}
	return n
}

// appendVisible appends the bytes of visible that are not control
// bytes.
func appendVisible(dst []byte, visible string) []byte {
	for i := 0; i < len(visible); i++ {
		if !isControl(visible[i]) {
			dst = append(dst, visible[i])
		}
	}
	return dst
}

// isControl reports whether b is a C0 control byte or DEL that must not
// reach the terminal. Tab and newline are kept so multi-line and
// columnar log output survives.
func isControl(b byte) bool {
	switch {
	case b == '\t' || b == '\n':
		return false
	case b < 0x20 || b == 0x7f:
		return true
	default:
		return false
	}
}

// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sanitize

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestSanitizePlainTextUnchanged(t *testing.T) {
	inputs := []string{
		"hello world",
		"2026-01-01T00:00:00Z INFO canister started",
		"tab\tseparated\tcolumns",
		"multi\nline\npayload",
		"café ✓ 日本語",
		"",
	}
	for _, input := range inputs {
		got, err := Sanitize([]byte(input))
		if err != nil {
			t.Errorf("Sanitize(%q) error: %v", input, err)
			continue
		}
		if got != input {
			t.Errorf("Sanitize(%q) = %q, want unchanged", input, got)
		}
	}
}

func TestSanitizeStripsEscapeSequences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"sgr color", "\x1b[31mred\x1b[0m", "red"},
		{"sgr around text", "before \x1b[1;32mbold green\x1b[m after", "before bold green after"},
		{"cursor movement", "\x1b[2J\x1b[Hcleared", "cleared"},
		{"osc title bel", "\x1b]0;pwned\x07text", "text"},
		{"osc hyperlink st", "\x1b]8;;https://example.com\x1b\\link\x1b]8;;\x1b\\", "link"},
		{"dcs", "\x1bPq#0;2;0;0;0\x1b\\visible", "visible"},
		{"carriage return overwrite", "safe\rEVIL", "safeEVIL"},
		{"bell and backspace", "a\x07b\x08c", "abc"},
		{"unicode preserved", "\x1b[33m⚠ warning\x1b[0m", "⚠ warning"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := Sanitize([]byte(test.input))
			if err != nil {
				t.Fatalf("Sanitize error: %v", err)
			}
			if got != test.want {
				t.Errorf("Sanitize(%q) = %q, want %q", test.input, got, test.want)
			}
			if strings.ContainsRune(got, 0x1b) {
				t.Errorf("output still contains ESC: %q", got)
			}
		})
	}
}

func TestSanitizeRejectsInvalidUTF8(t *testing.T) {
	tests := []struct {
		name   string
		input  []byte
		length int
	}{
		{"bad continuation", []byte{0xc3, '('}, 2},
		{"lone continuation", []byte{0x80}, 1},
		{"truncated sequence", []byte("trailing start byte \xc3"), 21},
		{"invalid byte ff", []byte{0xff}, 1},
		{"invalid byte fe", []byte{0xfe}, 1},
		{"invalid byte before text", []byte("\xfex"), 2},
		{"8-bit csi", []byte("\x9bhi"), 3},
		// The escape sequence is removed before the length is taken.
		{"after escape sequence", append([]byte("\x1b[1mbold "), 0xe2, 0x28, 0xa1), 8},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := Sanitize(test.input)
			if err == nil {
				t.Fatalf("Sanitize(%q) = %q, want decode error", test.input, got)
			}
			if got != "" {
				t.Errorf("Sanitize(%q) returned partial text %q", test.input, got)
			}
			var decodeError *DecodeError
			if !errors.As(err, &decodeError) {
				t.Fatalf("error type = %T, want *DecodeError", err)
			}
			if decodeError.Length != test.length {
				t.Errorf("DecodeError.Length = %d, want %d", decodeError.Length, test.length)
			}
		})
	}
}

func TestStripKeepsInvalidBytes(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  []byte
	}{
		{"nil", nil, []byte{}},
		{"lone escape", []byte{0x1b}, []byte{}},
		{"unterminated csi", []byte("\x1b["), []byte{}},
		{"unterminated osc", []byte("\x1b]unterminated osc"), []byte{}},
		{"controls and invalid bytes", []byte{0x00, 0x01, 0x02, 0xff, 0xfe}, []byte{0xff, 0xfe}},
		{"8-bit csi", []byte("\x9bhi"), []byte("\x9bhi")},
		{"escape around invalid byte", []byte("\x1b[31m\xffred"), []byte("\xffred")},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := Strip(test.input); !bytes.Equal(got, test.want) {
				t.Errorf("Strip(%q) = %q, want %q", test.input, got, test.want)
			}
		})
	}

	var decodeError *DecodeError
	if _, err := Sanitize([]byte{0x00, 0x01, 0x02, 0xff, 0xfe}); !errors.As(err, &decodeError) {
		t.Fatalf("Sanitize error = %v, want *DecodeError", err)
	}
	if decodeError.Length != 2 {
		t.Errorf("DecodeError.Length = %d, want 2", decodeError.Length)
	}
}

func TestStripEmpty(t *testing.T) {
	if got := Strip(nil); got == nil || len(got) != 0 {
		t.Fatalf("Strip(nil) = %v, want empty non-nil slice", got)
	}
}

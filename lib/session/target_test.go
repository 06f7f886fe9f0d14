// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"errors"
	"testing"
)

func TestTarget(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		address  string
		streamID string
		want     string
	}{
		{"hostname", "boundary.example", "ryjl3-tyaaa-aaaaa-aaaba-cai", "wss://boundary.example/logs/canister/ryjl3-tyaaa-aaaaa-aaaba-cai"},
		{"host and port", "boundary.example:8443", "abc", "wss://boundary.example:8443/logs/canister/abc"},
		{"ipv4", "192.0.2.7", "abc", "wss://192.0.2.7/logs/canister/abc"},
		{"ipv6", "[2001:db8::1]:443", "abc", "wss://[2001:db8::1]:443/logs/canister/abc"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			target, err := Target(test.address, test.streamID)
			if err != nil {
				t.Fatalf("Target(%q, %q) error: %v", test.address, test.streamID, err)
			}
			if got := target.String(); got != test.want {
				t.Errorf("Target(%q, %q) = %q, want %q", test.address, test.streamID, got, test.want)
			}
			if target.Scheme != "wss" {
				t.Errorf("scheme = %q, want wss", target.Scheme)
			}
		})
	}
}

func TestTargetRejectsMalformed(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		address  string
		streamID string
	}{
		{"empty address", "", "abc"},
		{"space in address", "bad host", "abc"},
		{"address with path", "host.example/extra", "abc"},
		{"address with userinfo", "user@host.example", "abc"},
		{"empty stream", "host.example", ""},
		{"stream with slash", "host.example", "a/b"},
		{"stream with query", "host.example", "abc?x=1"},
		{"stream with fragment", "host.example", "abc#x"},
		{"bad percent escape", "host.example", "abc%zz"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			target, err := Target(test.address, test.streamID)
			if err == nil {
				t.Fatalf("Target(%q, %q) = %v, want error", test.address, test.streamID, target)
			}
			if !errors.Is(err, ErrInvalidTarget) {
				t.Errorf("error %v does not wrap ErrInvalidTarget", err)
			}
		})
	}
}

// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package netutil

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"syscall"
	"testing"
)

func TestReadResponse(t *testing.T) {
	t.Run("normal body", func(t *testing.T) {
		data, err := ReadResponse(bytes.NewReader([]byte{0xd9, 0xd9, 0xf7, 0xa0}))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(data) != 4 {
			t.Fatalf("got %d bytes, want 4", len(data))
		}
	})

	t.Run("read error propagates", func(t *testing.T) {
		_, err := ReadResponse(&failReader{})
		if err == nil {
			t.Fatal("expected error from failing reader")
		}
	})

	t.Run("bounded", func(t *testing.T) {
		data, err := ReadResponse(io.LimitReader(zeroReader{}, MaxResponseSize+1024))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if int64(len(data)) != MaxResponseSize {
			t.Fatalf("read %d bytes, want %d", len(data), MaxResponseSize)
		}
	})
}

func TestErrorBody(t *testing.T) {
	if got := ErrorBody(strings.NewReader("subnet not found")); got != "subnet not found" {
		t.Errorf("ErrorBody = %q", got)
	}
	if got := ErrorBody(&failReader{}); got != "" {
		t.Errorf("ErrorBody on failing reader = %q, want empty", got)
	}
}

func TestIsExpectedCloseError(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{io.EOF, true},
		{fmt.Errorf("reading frame: %w", io.EOF), true},
		{net.ErrClosed, true},
		{syscall.EPIPE, true},
		{syscall.ECONNRESET, true},
		{&net.OpError{Op: "close", Net: "tcp", Err: net.ErrClosed}, true},
		{&net.OpError{Op: "write", Net: "tcp", Err: os.NewSyscallError("write", syscall.EPIPE)}, true},
		{syscall.ECONNREFUSED, false},
		{io.ErrUnexpectedEOF, false},
		{errors.New("boom"), false},
	}
	for _, test := range tests {
		if got := IsExpectedCloseError(test.err); got != test.want {
			t.Errorf("IsExpectedCloseError(%v) = %v, want %v", test.err, got, test.want)
		}
	}
}

type failReader struct{}

func (*failReader) Read([]byte) (int, error) {
	return 0, fmt.Errorf("simulated read failure")
}

type zeroReader struct{}

func (zeroReader) Read(p []byte) (int, error) {
	clear(p)
	return len(p), nil
}

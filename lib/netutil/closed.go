// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package netutil

import (
	"errors"
	"io"
	"net"
	"syscall"
)

// IsExpectedCloseError reports whether err is what closing an already
// finished connection returns. A session closes its WebSocket after
// the reader has seen the peer's close frame or a dropped socket, so
// the underlying net.Conn may already be closed (net.ErrClosed) or
// torn down by the peer (EPIPE, ECONNRESET, EOF). Close ignores those.
func IsExpectedCloseError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
		return true
	}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return errno == syscall.EPIPE || errno == syscall.ECONNRESET
	}
	return false
}

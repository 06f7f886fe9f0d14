// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package netutil

import "io"

// MaxResponseSize bounds discovery response reads: 4 MiB. A read_state
// certificate listing every boundary node is a few tens of kilobytes.
const MaxResponseSize int64 = 4 << 20

// ReadResponse reads an HTTP response body up to MaxResponseSize
// bytes. Use instead of io.ReadAll when reading response bodies.
func ReadResponse(body io.Reader) ([]byte, error) {
	return io.ReadAll(io.LimitReader(body, MaxResponseSize))
}

// ErrorBody reads an HTTP error response body and returns it as a
// string for diagnostic messages. Read errors are ignored: a partial
// or empty body is still useful in an error message.
func ErrorBody(body io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(body, MaxResponseSize))
	return string(data)
}

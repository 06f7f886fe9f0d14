// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package netutil provides network and HTTP I/O helpers.
//
// HTTP response helpers (ReadResponse, ErrorBody) bound all response
// body reads at MaxResponseSize so a misbehaving discovery server
// cannot exhaust memory.
//
// IsExpectedCloseError classifies the errors a WebSocket Close returns
// when the peer has already gone, so only real teardown failures are
// reported.
package netutil

// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package session tails one log stream from one endpoint.
//
// A Session composes the connection target from an endpoint address
// and a stream identifier, performs the WebSocket handshake, and then
// runs a single loop that multiplexes two event sources: inbound
// messages and a keepalive ticker. Each binary message is sanitized
// (see lib/sanitize) and written as one line to the shared Sink before
// the next message is read. Every keepalive tick sends a ping with a
// fixed payload. The session ends on a normal close from the peer, on
// any read error, or on a failed ping, and it never reconnects.
//
// Transport is behind the Dialer and Conn interfaces. WebSocketDialer
// is the production implementation on gorilla/websocket; tests drive
// Session with scripted connections and a fake clock.
package session

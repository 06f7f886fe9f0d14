// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"
	"net/http"
	"net/url"
)

// Kind tags an inbound message.
type Kind int

const (
	// KindBinary is a binary data frame carrying log content.
	KindBinary Kind = iota
	// KindText is a text data frame. The log stream does not use text
	// frames; they are logged and discarded.
	KindText
	// KindPing is a ping control frame from the peer.
	KindPing
	// KindPong is a pong control frame, normally answering our
	// keepalive.
	KindPong
)

func (k Kind) String() string {
	switch k {
	case KindBinary:
		return "binary"
	case KindText:
		return "text"
	case KindPing:
		return "ping"
	case KindPong:
		return "pong"
	default:
		return "unknown"
	}
}

// Message is one inbound frame.
type Message struct {
	Kind Kind
	Data []byte
}

// Conn is an open streaming connection, split into an inbound half
// (ReadMessage) and an outbound half (Ping).
//
// ReadMessage is called from a single goroutine. Ping may be called
// from another goroutine concurrently with ReadMessage. Close may be
// called from any goroutine and unblocks a pending ReadMessage.
type Conn interface {
	// ReadMessage returns the next data frame. It returns io.EOF when
	// the peer closed the stream normally, and any other error when
	// the stream failed.
	ReadMessage() (Message, error)

	// Ping sends a ping control frame carrying payload.
	Ping(payload []byte) error

	// Close releases the connection.
	Close() error
}

// ControlFunc observes control frames received while ReadMessage is
// running. It is called on the reading goroutine.
type ControlFunc func(Message)

// Dialer opens a Conn to a connection target.
type Dialer interface {
	// Dial performs the handshake with target. On success the returned
	// response describes the completed upgrade; its body is already
	// closed. control, if non-nil, observes control frames.
	Dial(ctx context.Context, target *url.URL, control ControlFunc) (Conn, *http.Response, error)
}

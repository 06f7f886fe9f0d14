// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"
	"crypto/tls"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/bureau-foundation/bnlogs/lib/netutil"
	"github.com/gorilla/websocket"
)

// DefaultMaxMessageSize bounds a single inbound message. A larger
// message fails the read and ends the session.
const DefaultMaxMessageSize = 5 * 1024

// writeWait bounds the write of a ping or pong control frame.
const writeWait = 10 * time.Second

// WebSocketDialer opens WebSocket connections over TLS.
type WebSocketDialer struct {
	// TLSConfig is used for wss targets. Nil selects the system
	// defaults.
	TLSConfig *tls.Config

	// HandshakeTimeout bounds the TCP, TLS, and upgrade exchange. Zero
	// means no limit beyond the dial context.
	HandshakeTimeout time.Duration

	// MaxMessageSize bounds inbound messages and frames. Zero selects
	// DefaultMaxMessageSize.
	MaxMessageSize int64
}

// Dial implements Dialer.
func (d *WebSocketDialer) Dial(ctx context.Context, target *url.URL, control ControlFunc) (Conn, *http.Response, error) {
	limit := d.MaxMessageSize
	if limit <= 0 {
		limit = DefaultMaxMessageSize
	}

	dialer := &websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		TLSClientConfig:  d.TLSConfig,
		HandshakeTimeout: d.HandshakeTimeout,
		ReadBufferSize:   int(limit),
		WriteBufferSize:  int(limit),
	}

	conn, response, err := dialer.DialContext(ctx, target.String(), nil)
	if err != nil {
		return nil, response, err
	}
	conn.SetReadLimit(limit)

	conn.SetPingHandler(func(appData string) error {
		if control != nil {
			control(Message{Kind: KindPing, Data: []byte(appData)})
		}
		err := conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(writeWait))
		if errors.Is(err, websocket.ErrCloseSent) {
			return nil
		}
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return nil
		}
		return err
	})
	conn.SetPongHandler(func(appData string) error {
		if control != nil {
			control(Message{Kind: KindPong, Data: []byte(appData)})
		}
		return nil
	})

	return &webSocketConn{conn: conn}, response, nil
}

// webSocketConn adapts a gorilla connection to Conn.
type webSocketConn struct {
	conn *websocket.Conn
}

func (c *webSocketConn) ReadMessage() (Message, error) {
	messageType, data, err := c.conn.ReadMessage()
	if err != nil {
		return Message{}, translateReadError(err)
	}
	switch messageType {
	case websocket.BinaryMessage:
		return Message{Kind: KindBinary, Data: data}, nil
	default:
		return Message{Kind: KindText, Data: data}, nil
	}
}

// Ping sends a ping control frame. gorilla permits WriteControl
// concurrently with the reader.
func (c *webSocketConn) Ping(payload []byte) error {
	return c.conn.WriteControl(websocket.PingMessage, payload, time.Now().Add(writeWait))
}

func (c *webSocketConn) Close() error {
	if err := c.conn.Close(); err != nil && !netutil.IsExpectedCloseError(err) {
		return err
	}
	return nil
}

// translateReadError maps a received close frame to io.EOF. gorilla
// reports a dropped connection as a close error with code 1006, which
// is never sent on the wire, so that one stays an error.
func translateReadError(err error) error {
	var closeErr *websocket.CloseError
	if errors.As(err, &closeErr) && closeErr.Code != websocket.CloseAbnormalClosure {
		return io.EOF
	}
	return err
}

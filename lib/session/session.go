// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bureau-foundation/bnlogs/lib/clock"
	"github.com/bureau-foundation/bnlogs/lib/keepalive"
	"github.com/bureau-foundation/bnlogs/lib/sanitize"
)

// PingPayload is the body of every keepalive ping.
var PingPayload = []byte{1, 2, 3, 4}

// Config configures one Session.
type Config struct {
	// Address is the endpoint this session connects to.
	Address string

	// StreamID names the log stream (canister ID) to tail.
	StreamID string

	// Dialer opens the connection.
	Dialer Dialer

	// Sink receives one line per accepted binary message.
	Sink *Sink

	// Clock drives the keepalive ticker. Nil selects clock.Real().
	Clock clock.Clock

	// KeepaliveInterval is the ping period. Zero selects
	// keepalive.DefaultInterval.
	KeepaliveInterval time.Duration

	// Logger receives the session's diagnostics. Nil selects
	// slog.Default(). The session adds an "endpoint" attribute.
	Logger *slog.Logger
}

// Stats counts what a session has done. Values are read with Stats()
// and are safe to read while the session runs.
type Stats struct {
	LinesWritten   uint64
	DecodeFailures uint64
	OtherMessages  uint64
	PingsSent      uint64
}

// Session manages one endpoint's connection from handshake to close.
// A Session runs once; it never reconnects.
type Session struct {
	address           string
	streamID          string
	dialer            Dialer
	sink              *Sink
	clock             clock.Clock
	keepaliveInterval time.Duration
	logger            *slog.Logger

	linesWritten   atomic.Uint64
	decodeFailures atomic.Uint64
	otherMessages  atomic.Uint64
	pingsSent      atomic.Uint64
}

// New creates a Session from config. Nothing is dialed until Run.
func New(config Config) *Session {
	sessionClock := config.Clock
	if sessionClock == nil {
		sessionClock = clock.Real()
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		address:           config.Address,
		streamID:          config.StreamID,
		dialer:            config.Dialer,
		sink:              config.Sink,
		clock:             sessionClock,
		keepaliveInterval: config.KeepaliveInterval,
		logger:            logger.With("endpoint", config.Address),
	}
}

// Stats returns a snapshot of the session's counters.
func (s *Session) Stats() Stats {
	return Stats{
		LinesWritten:   s.linesWritten.Load(),
		DecodeFailures: s.decodeFailures.Load(),
		OtherMessages:  s.otherMessages.Load(),
		PingsSent:      s.pingsSent.Load(),
	}
}

// inbound is one result from the reader goroutine.
type inbound struct {
	message Message
	err     error
}

// Run connects and relays the stream until the peer closes it, a read
// or ping fails, or the connection cannot be established. It returns
// nil when the peer closed the stream normally, and the terminal error
// otherwise. ctx bounds only the handshake.
func (s *Session) Run(ctx context.Context) error {
	target, err := Target(s.address, s.streamID)
	if err != nil {
		s.logger.Error("failed to build connection target", "error", err)
		return err
	}

	s.logger.Info("connecting", "target", target.String())

	conn, response, err := s.dialer.Dial(ctx, target, s.observeControl)
	if err != nil {
		s.logger.Error("failed to connect", "target", target.String(), "error", err)
		return fmt.Errorf("dialing %s: %w", target, err)
	}
	status := ""
	if response != nil {
		status = response.Status
	}
	s.logger.Info("handshake complete", "status", status)

	err = s.relay(conn)

	stats := s.Stats()
	s.logger.Info("disconnected",
		"lines", stats.LinesWritten,
		"decode_failures", stats.DecodeFailures,
		"other_messages", stats.OtherMessages,
		"pings", stats.PingsSent,
	)
	return err
}

// relay runs the active loop over an established connection and tears
// it down on exit.
func (s *Session) relay(conn Conn) error {
	ticker := keepalive.New(s.clock, s.keepaliveInterval)

	events := make(chan inbound)
	resume := make(chan struct{}, 1)
	done := make(chan struct{})

	var reader sync.WaitGroup
	reader.Add(1)
	go func() {
		defer reader.Done()
		readLoop(conn, events, resume, done)
	}()

	defer func() {
		ticker.Stop()
		close(done)
		conn.Close()
		reader.Wait()
	}()

	s.logger.Debug("starting message and ping loop")

	for {
		select {
		case event := <-events:
			if event.err != nil {
				if errors.Is(event.err, io.EOF) {
					s.logger.Info("connection closed by remote")
					return nil
				}
				s.logger.Error("error receiving message", "error", event.err)
				return fmt.Errorf("reading from %s: %w", s.address, event.err)
			}
			if err := s.dispatch(event.message); err != nil {
				s.logger.Error("error writing output", "error", err)
				return fmt.Errorf("writing output: %w", err)
			}
			resume <- struct{}{}

		case <-ticker.C:
			if err := conn.Ping(PingPayload); err != nil {
				s.logger.Error("error sending ping", "error", err)
				return fmt.Errorf("sending ping to %s: %w", s.address, err)
			}
			s.pingsSent.Add(1)
			s.logger.Debug("sent ping")
		}
	}
}

// readLoop is the inbound half. It reads one message, hands it to the
// loop, and waits for the loop to finish with it before reading the
// next, so output is flushed before the next read completes. It exits
// after delivering an error or when done is closed.
func readLoop(conn Conn, events chan<- inbound, resume <-chan struct{}, done <-chan struct{}) {
	for {
		message, err := conn.ReadMessage()
		select {
		case events <- inbound{message: message, err: err}:
		case <-done:
			return
		}
		if err != nil {
			return
		}
		select {
		case <-resume:
		case <-done:
			return
		}
	}
}

// dispatch handles one inbound data message. Only sink failures are
// returned; everything else is logged and dropped.
func (s *Session) dispatch(message Message) error {
	if message.Kind != KindBinary {
		s.otherMessages.Add(1)
		s.logger.Debug("received unexpected message", "kind", message.Kind.String(), "bytes", len(message.Data))
		return nil
	}

	text, err := sanitize.Sanitize(message.Data)
	if err != nil {
		s.decodeFailures.Add(1)
		s.logger.Debug("dropped binary message", "bytes", len(message.Data), "error", err)
		return nil
	}
	if err := s.sink.WriteLine(text); err != nil {
		return err
	}
	s.linesWritten.Add(1)
	return nil
}

// observeControl logs control frames seen by the transport.
func (s *Session) observeControl(message Message) {
	s.otherMessages.Add(1)
	s.logger.Debug("received control frame", "kind", message.Kind.String(), "bytes", len(message.Data))
}

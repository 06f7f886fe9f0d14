// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package supervisor fans a log stream out across every discovered
// endpoint.
//
// The supervisor discovers endpoints once, starts one session per
// endpoint, and then waits for shutdown. Sessions are independent:
// one failing (at handshake or later) does not affect the others, and
// nothing is restarted. On shutdown the supervisor returns without
// joining the sessions; process exit reclaims them.
package supervisor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bureau-foundation/bnlogs/lib/clock"
	"github.com/bureau-foundation/bnlogs/lib/discovery"
	"github.com/bureau-foundation/bnlogs/lib/session"
)

// Config configures a Supervisor.
type Config struct {
	Discoverer discovery.Discoverer
	Dialer     session.Dialer
	Sink       *session.Sink

	// Clock drives every session's keepalive ticker. Nil selects
	// clock.Real().
	Clock clock.Clock

	// KeepaliveInterval is passed to each session.
	KeepaliveInterval time.Duration

	Logger *slog.Logger

	// OnSessionExit, when set, is called from the session's goroutine
	// after each session's Run returns.
	OnSessionExit func(address string, stats session.Stats, err error)
}

// Supervisor owns the fan-out of sessions for one stream.
type Supervisor struct {
	discoverer        discovery.Discoverer
	dialer            session.Dialer
	sink              *session.Sink
	clock             clock.Clock
	keepaliveInterval time.Duration
	logger            *slog.Logger
	onSessionExit     func(address string, stats session.Stats, err error)
}

// New creates a Supervisor.
func New(config Config) *Supervisor {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	supervisorClock := config.Clock
	if supervisorClock == nil {
		supervisorClock = clock.Real()
	}
	return &Supervisor{
		discoverer:        config.Discoverer,
		dialer:            config.Dialer,
		sink:              config.Sink,
		clock:             supervisorClock,
		keepaliveInterval: config.KeepaliveInterval,
		logger:            logger,
		onSessionExit:     config.OnSessionExit,
	}
}

// Run discovers endpoints and starts one session per endpoint tailing
// streamID. A discovery failure is returned. With no endpoints Run
// returns nil immediately. Otherwise it blocks until ctx is cancelled
// and returns nil; sessions keep running until process exit.
func (s *Supervisor) Run(ctx context.Context, streamID string) error {
	addresses, err := s.discoverer.Discover(ctx)
	if err != nil {
		return fmt.Errorf("discovering endpoints: %w", err)
	}

	s.logger.Info("discovered endpoints", "count", len(addresses), "addresses", addresses)
	if len(addresses) == 0 {
		s.logger.Info("no endpoints discovered")
		return nil
	}

	// Sessions are not cancelled on shutdown.
	sessionContext := context.WithoutCancel(ctx)
	for _, address := range addresses {
		go s.runSession(sessionContext, address, streamID)
	}
	s.logger.Info("started log clients", "count", len(addresses), "stream", streamID)

	<-ctx.Done()
	s.logger.Info("shutting down")
	return nil
}

func (s *Supervisor) runSession(ctx context.Context, address, streamID string) {
	logSession := session.New(session.Config{
		Address:           address,
		StreamID:          streamID,
		Dialer:            s.dialer,
		Sink:              s.sink,
		Clock:             s.clock,
		KeepaliveInterval: s.keepaliveInterval,
		Logger:            s.logger,
	})
	err := logSession.Run(ctx)
	if s.onSessionExit != nil {
		s.onSessionExit(address, logSession.Stats(), err)
	}
}

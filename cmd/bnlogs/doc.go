// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// bnlogs tails a canister's log stream from every Internet Computer API
// boundary node at once.
//
// At startup bnlogs discovers the boundary nodes (an anonymous
// read_state query against the IC, or a fixed --endpoint list), then
// opens one WebSocket per node to wss://<node>/logs/canister/<id>.
// Every binary message from any node is stripped of terminal escape
// sequences and printed to stdout as one line. Lines from different
// nodes interleave in arrival order; lines from one node keep their
// order.
//
// Each connection is independent. A node that fails its handshake, or
// drops its stream later, is logged on stderr and not retried; the
// others keep going. bnlogs runs until SIGINT or SIGTERM and then
// exits 0. A discovery failure or invalid flags exit 1.
//
// Diagnostics go to stderr through log/slog: text when stderr is a
// terminal, JSON otherwise.
package main

// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package discovery resolves the set of endpoints to tail.
//
// A Discoverer returns an ordered list of opaque host strings. The
// tailer calls it once at startup and opens one session per returned
// host.
//
// Two implementations are provided:
//
//   - [Static] returns a fixed list, typically from --endpoint flags or
//     the configuration file.
//   - [BoundaryNodes] asks the Internet Computer for the API boundary
//     nodes of a subnet via an anonymous read_state query and returns
//     their domains.
package discovery

import (
	"context"
	"slices"
)

// Discoverer resolves the endpoint addresses to connect to.
type Discoverer interface {
	Discover(ctx context.Context) ([]string, error)
}

// Static is a Discoverer returning a fixed list of addresses.
type Static []string

// Discover returns a copy of the list.
func (s Static) Discover(context.Context) ([]string, error) {
	return slices.Clone([]string(s)), nil
}

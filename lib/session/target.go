// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrInvalidTarget is wrapped by Target failures.
var ErrInvalidTarget = errors.New("invalid connection target")

// Target builds the log stream URL for one endpoint:
//
//	wss://<address>/logs/canister/<streamID>
//
// address is used verbatim as the URL authority and streamID as the
// final path segment. A composition that does not parse as a URL, has
// no host, or where either part would change the URL structure, is
// rejected.
func Target(address, streamID string) (*url.URL, error) {
	raw := fmt.Sprintf("wss://%s/logs/canister/%s", address, streamID)
	target, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidTarget, raw, err)
	}
	if target.Host != address || target.Hostname() == "" {
		return nil, fmt.Errorf("%w %q: address %q is not a host", ErrInvalidTarget, raw, address)
	}
	if streamID == "" || strings.Contains(streamID, "/") || target.Path != "/logs/canister/"+streamID || target.RawQuery != "" || target.Fragment != "" {
		return nil, fmt.Errorf("%w %q: stream identifier %q is not a single path segment", ErrInvalidTarget, raw, streamID)
	}
	return target, nil
}

// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"bytes"
	"errors"
	"fmt"
	"testing"
)

func TestReport(t *testing.T) {
	var buffer bytes.Buffer
	Report(&buffer, fmt.Errorf("discovering endpoints: %w", errors.New("HTTP 503")))

	if got, want := buffer.String(), "error: discovering endpoints: HTTP 503\n"; got != want {
		t.Errorf("Report wrote %q, want %q", got, want)
	}
}

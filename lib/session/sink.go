// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"bufio"
	"io"
	"sync"
)

// Sink is the output shared by every session. Each WriteLine is
// written and flushed under one lock, so lines from concurrent
// sessions never interleave.
type Sink struct {
	mu     sync.Mutex
	writer *bufio.Writer
}

// NewSink returns a Sink writing to w.
func NewSink(w io.Writer) *Sink {
	return &Sink{writer: bufio.NewWriter(w)}
}

// WriteLine writes text followed by a newline and flushes.
func (s *Sink) WriteLine(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.writer.WriteString(text); err != nil {
		return err
	}
	if err := s.writer.WriteByte('\n'); err != nil {
		return err
	}
	return s.writer.Flush()
}

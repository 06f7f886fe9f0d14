// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package tlsinit performs the process-wide TLS client bootstrap.
//
// Install runs once, at startup, before any connection is dialed. It
// builds the client tls.Config every WebSocket dial uses: the system
// certificate pool plus any configured extra CA bundles, and a minimum
// protocol version. A second Install is rejected with
// ErrAlreadyInstalled and the first configuration stays in effect.
package tlsinit

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"os"
	"sync"
)

var (
	// ErrAlreadyInstalled is returned by Install after a successful
	// earlier Install.
	ErrAlreadyInstalled = errors.New("tlsinit: TLS configuration already installed")

	// ErrNotInstalled is returned by Config before Install succeeds.
	ErrNotInstalled = errors.New("tlsinit: TLS configuration not installed")
)

// Options configures the client TLS bootstrap.
type Options struct {
	// CAFiles are PEM bundles trusted in addition to the system pool.
	CAFiles []string

	// MinVersion is "1.2" or "1.3". Empty selects TLS 1.2.
	MinVersion string
}

var (
	mu        sync.Mutex
	installed *tls.Config
)

// Install builds and records the process TLS client configuration. It
// succeeds at most once per process.
func Install(options Options) error {
	mu.Lock()
	defer mu.Unlock()

	if installed != nil {
		return ErrAlreadyInstalled
	}

	config, err := build(options)
	if err != nil {
		return err
	}
	installed = config
	return nil
}

// Config returns a copy of the installed configuration. Callers may
// modify the copy.
func Config() (*tls.Config, error) {
	mu.Lock()
	defer mu.Unlock()

	if installed == nil {
		return nil, ErrNotInstalled
	}
	return installed.Clone(), nil
}

func build(options Options) (*tls.Config, error) {
	minVersion, err := parseVersion(options.MinVersion)
	if err != nil {
		return nil, err
	}

	rootCAs, err := x509.SystemCertPool()
	if err != nil {
		rootCAs = x509.NewCertPool()
	}
	for _, path := range options.CAFiles {
		pemData, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading CA file %s: %w", path, err)
		}
		if !rootCAs.AppendCertsFromPEM(pemData) {
			return nil, fmt.Errorf("CA file %s contains no PEM certificates", path)
		}
	}

	return &tls.Config{
		MinVersion: minVersion,
		RootCAs:    rootCAs,
	}, nil
}

func parseVersion(version string) (uint16, error) {
	switch version {
	case "", "1.2":
		return tls.VersionTLS12, nil
	case "1.3":
		return tls.VersionTLS13, nil
	default:
		return 0, fmt.Errorf("unsupported TLS minimum version %q (want 1.2 or 1.3)", version)
	}
}

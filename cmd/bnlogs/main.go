// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/bnlogs/lib/config"
	"github.com/bureau-foundation/bnlogs/lib/discovery"
	"github.com/bureau-foundation/bnlogs/lib/process"
	"github.com/bureau-foundation/bnlogs/lib/session"
	"github.com/bureau-foundation/bnlogs/lib/supervisor"
	"github.com/bureau-foundation/bnlogs/lib/tlsinit"
	"github.com/bureau-foundation/bnlogs/lib/version"
	"golang.org/x/term"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		process.Fatal(err)
	}
}

// options holds the parsed command line.
type options struct {
	canisterID string
	configPath string
	endpoints  []string
	logLevel   string
	version    bool
	help       bool
}

func newFlagSet(opts *options) *pflag.FlagSet {
	flagSet := pflag.NewFlagSet("bnlogs", pflag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.StringVarP(&opts.canisterID, "canister-id", "c", "", "canister whose logs to tail (required)")
	flagSet.StringVar(&opts.configPath, "config", "", "configuration file (default: $"+config.EnvironmentVariable+")")
	flagSet.StringSliceVar(&opts.endpoints, "endpoint", nil, "connect to this address instead of discovering boundary nodes (repeatable)")
	flagSet.StringVar(&opts.logLevel, "log-level", "", "diagnostic level: debug, info, warn, error (default: info)")
	flagSet.BoolVar(&opts.version, "version", false, "print version information and exit")
	flagSet.BoolVarP(&opts.help, "help", "h", false, "show help")
	return flagSet
}

// parseArgs parses the command line. A nil error with opts.help or
// opts.version set means the caller should print and exit.
func parseArgs(args []string) (*options, *pflag.FlagSet, error) {
	opts := &options{}
	flagSet := newFlagSet(opts)
	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			opts.help = true
			return opts, flagSet, nil
		}
		return nil, flagSet, err
	}
	if opts.help || opts.version {
		return opts, flagSet, nil
	}
	if rest := flagSet.Args(); len(rest) > 0 {
		return nil, flagSet, fmt.Errorf("unexpected argument: %s", rest[0])
	}
	if opts.canisterID == "" {
		return nil, flagSet, fmt.Errorf("--canister-id is required")
	}
	return opts, flagSet, nil
}

func run(args []string, stdout, stderr io.Writer) error {
	opts, flagSet, err := parseArgs(args)
	if err != nil {
		return err
	}
	if opts.help {
		printHelp(stdout, flagSet)
		return nil
	}
	if opts.version {
		version.Print(stdout, "bnlogs")
		return nil
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	level, err := cfg.Log.SlogLevel()
	if err != nil {
		return err
	}
	logger := newLogger(stderr, isTerminal(stderr), level)

	if err := tlsinit.Install(tlsinit.Options{
		CAFiles:    cfg.TLS.CAFiles,
		MinVersion: cfg.TLS.MinVersion,
	}); err != nil {
		return fmt.Errorf("installing TLS configuration: %w", err)
	}
	tlsConfig, err := tlsinit.Config()
	if err != nil {
		return err
	}

	discoverer, err := newDiscoverer(cfg, &http.Client{
		Transport: &http.Transport{
			Proxy:           http.ProxyFromEnvironment,
			TLSClientConfig: tlsConfig,
		},
		Timeout: cfg.Discovery.TimeoutDuration(),
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("starting", "version", version.Info(), "canister", opts.canisterID)

	return supervisor.New(supervisor.Config{
		Discoverer: discoverer,
		Dialer: &session.WebSocketDialer{
			TLSConfig:        tlsConfig,
			HandshakeTimeout: cfg.Session.HandshakeDuration(),
			MaxMessageSize:   cfg.Session.MaxMessageSize,
		},
		Sink:              session.NewSink(stdout),
		KeepaliveInterval: cfg.Session.KeepaliveDuration(),
		Logger:            logger,
	}).Run(ctx, opts.canisterID)
}

// loadConfig resolves the configuration file and applies flag
// overrides on top of it.
func loadConfig(opts *options) (*config.Config, error) {
	cfg, err := config.Resolve(opts.configPath)
	if err != nil {
		return nil, err
	}
	if len(opts.endpoints) > 0 {
		cfg.Discovery.Endpoints = opts.endpoints
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newDiscoverer returns a static list when endpoints are configured and
// the IC boundary node lookup otherwise.
func newDiscoverer(cfg *config.Config, client *http.Client) (discovery.Discoverer, error) {
	if len(cfg.Discovery.Endpoints) > 0 {
		return discovery.Static(cfg.Discovery.Endpoints), nil
	}
	subnet, err := discovery.ParsePrincipal(cfg.Discovery.SubnetID)
	if err != nil {
		return nil, err
	}
	return &discovery.BoundaryNodes{
		APIURL:     cfg.Discovery.APIURL,
		Subnet:     subnet,
		HTTPClient: client,
		Timeout:    cfg.Discovery.TimeoutDuration(),
	}, nil
}

// newLogger returns a text logger for terminals and a JSON logger
// otherwise.
func newLogger(w io.Writer, terminal bool, level slog.Level) *slog.Logger {
	options := &slog.HandlerOptions{Level: level}
	if terminal {
		return slog.New(slog.NewTextHandler(w, options))
	}
	return slog.New(slog.NewJSONHandler(w, options))
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}

func printHelp(w io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprintf(w, `bnlogs - tail a canister's logs from every API boundary node

Usage:
  bnlogs --canister-id <id> [flags]

Examples:
  # Tail logs from every boundary node of the default subnet
  bnlogs -c ryjl3-tyaaa-aaaaa-aaaba-cai

  # Tail from two specific nodes, with per-connection debug logging
  bnlogs -c ryjl3-tyaaa-aaaaa-aaaba-cai --endpoint a.example --endpoint b.example --log-level debug

Flags:
`)
	flagSet.SetOutput(w)
	flagSet.PrintDefaults()
}

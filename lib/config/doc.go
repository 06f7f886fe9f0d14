// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for bnlogs.
//
// Configuration is optional. [Resolve] loads the file named by the
// --config flag, or by the BNLOGS_CONFIG environment variable when the
// flag is absent. With neither, [Default] is used. A loaded file is
// merged over the defaults, so it only needs the fields it changes.
// Command-line flags are applied by the caller after loading.
//
// YAML is the primary format. Files ending in .json or .jsonc are read
// as JSON with comments. Unknown fields are errors in both.
//
// Durations are strings in time.ParseDuration syntax ("10s", "1m30s").
// Variable expansion (${HOME}, ${VAR:-default}) is performed on
// tls.ca_files only. No other environment variables override config
// values.
//
// Key exports:
//
//   - [Config] -- master struct with Discovery, Session, TLS, Log
//   - [Default] -- the built-in configuration
//   - [Resolve] and [LoadFile] -- the entry points for loading
//   - [Config.Validate] -- reports every invalid field at once
package config

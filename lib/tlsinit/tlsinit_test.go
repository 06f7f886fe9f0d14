// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tlsinit

import (
	"crypto/tls"
	"encoding/pem"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

// reset clears the installed configuration so each test starts from
// process startup state.
func reset(t *testing.T) {
	t.Helper()
	mu.Lock()
	installed = nil
	mu.Unlock()
	t.Cleanup(func() {
		mu.Lock()
		installed = nil
		mu.Unlock()
	})
}

func TestConfigBeforeInstall(t *testing.T) {
	reset(t)
	if _, err := Config(); !errors.Is(err, ErrNotInstalled) {
		t.Fatalf("Config() error = %v, want ErrNotInstalled", err)
	}
}

func TestInstallOnce(t *testing.T) {
	reset(t)

	if err := Install(Options{MinVersion: "1.3"}); err != nil {
		t.Fatalf("Install: %v", err)
	}
	if err := Install(Options{MinVersion: "1.2"}); !errors.Is(err, ErrAlreadyInstalled) {
		t.Fatalf("second Install error = %v, want ErrAlreadyInstalled", err)
	}

	config, err := Config()
	if err != nil {
		t.Fatalf("Config: %v", err)
	}
	if config.MinVersion != tls.VersionTLS13 {
		t.Errorf("MinVersion = %x, want TLS 1.3 from the first Install", config.MinVersion)
	}
}

func TestConfigReturnsCopy(t *testing.T) {
	reset(t)
	if err := Install(Options{}); err != nil {
		t.Fatalf("Install: %v", err)
	}

	first, _ := Config()
	first.InsecureSkipVerify = true

	second, _ := Config()
	if second.InsecureSkipVerify {
		t.Fatal("modifying a returned config changed the installed config")
	}
	if second.MinVersion != tls.VersionTLS12 {
		t.Errorf("default MinVersion = %x, want TLS 1.2", second.MinVersion)
	}
}

func TestInstallRejectsBadVersion(t *testing.T) {
	reset(t)
	if err := Install(Options{MinVersion: "1.0"}); err == nil {
		t.Fatal("Install accepted TLS 1.0")
	}
	// A failed Install leaves the process uninstalled.
	if _, err := Config(); !errors.Is(err, ErrNotInstalled) {
		t.Fatalf("Config() after failed Install error = %v, want ErrNotInstalled", err)
	}
}

func TestInstallRejectsMissingCAFile(t *testing.T) {
	reset(t)
	err := Install(Options{CAFiles: []string{filepath.Join(t.TempDir(), "missing.pem")}})
	if err == nil {
		t.Fatal("Install accepted a missing CA file")
	}
}

func TestInstallRejectsNonPEMCAFile(t *testing.T) {
	reset(t)
	path := filepath.Join(t.TempDir(), "garbage.pem")
	if err := os.WriteFile(path, []byte("not a certificate"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := Install(Options{CAFiles: []string{path}}); err == nil {
		t.Fatal("Install accepted a CA file without certificates")
	}
}

func TestInstallTrustsExtraCA(t *testing.T) {
	reset(t)

	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	path := filepath.Join(t.TempDir(), "server.pem")
	pemData := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: server.Certificate().Raw})
	if err := os.WriteFile(path, pemData, 0o600); err != nil {
		t.Fatal(err)
	}

	if err := Install(Options{CAFiles: []string{path}}); err != nil {
		t.Fatalf("Install: %v", err)
	}
	config, err := Config()
	if err != nil {
		t.Fatalf("Config: %v", err)
	}

	client := &http.Client{Transport: &http.Transport{TLSClientConfig: config}}
	response, err := client.Get(server.URL)
	if err != nil {
		t.Fatalf("GET with installed config: %v", err)
	}
	response.Body.Close()
	if response.StatusCode != http.StatusNoContent {
		t.Errorf("status = %d, want 204", response.StatusCode)
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := Default()
	if cfg != want {
		t.Fatalf("got %+v want %+v", cfg, want)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sv2.toml")
	body := `
addr = "10.0.0.5:4444"
quic = true
authority_key = "abc"
cert_validity = "48h"
handshake_timeout = "500ms"
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != "10.0.0.5:4444" || !cfg.QUIC || cfg.AuthorityKey != "abc" {
		t.Fatalf("file fields not applied: %+v", cfg)
	}
	if cfg.CertValidity != 48*time.Hour || cfg.HandshakeTimeout != 500*time.Millisecond {
		t.Fatalf("durations not applied: %+v", cfg)
	}
	// Fields absent from the file keep their defaults.
	if cfg.KeystorePath != Default().KeystorePath {
		t.Fatalf("keystore_path should keep default, got %q", cfg.KeystorePath)
	}
}

func TestLoadBadDuration(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sv2.toml")
	if err := os.WriteFile(path, []byte(`cert_validity = "soon"`), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("want error for bad duration")
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("SV2_ADDR", "1.2.3.4:9")
	t.Setenv("SV2_KEYSTORE", "/tmp/other.db")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != "1.2.3.4:9" || cfg.KeystorePath != "/tmp/other.db" {
		t.Fatalf("env override not applied: %+v", cfg)
	}
}

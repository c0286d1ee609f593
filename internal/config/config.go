// Package config: TOML configuration for the sv2 command-line tools.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config drives sv2-server and sv2-client.
type Config struct {
	// Addr to listen on (server) or dial (client).
	Addr string
	// QUIC carries the session over a QUIC stream instead of TCP.
	QUIC bool
	// AuthorityName selects the authority keypair in the keystore.
	AuthorityName string
	// AuthorityKey is the base58 authority public key (client side).
	AuthorityKey string
	// KeystorePath is the sqlite keystore file.
	KeystorePath string
	// CertValidity bounds issued responder certificates.
	CertValidity time.Duration
	// HandshakeTimeout bounds the noise exchange per connection.
	HandshakeTimeout time.Duration
}

type fileConfig struct {
	Addr             string `toml:"addr"`
	QUIC             bool   `toml:"quic"`
	AuthorityName    string `toml:"authority_name"`
	AuthorityKey     string `toml:"authority_key"`
	KeystorePath     string `toml:"keystore_path"`
	CertValidity     string `toml:"cert_validity"`
	HandshakeTimeout string `toml:"handshake_timeout"`
}

// Default returns the config used when no file is given.
func Default() Config {
	return Config{
		Addr:             "127.0.0.1:34254",
		AuthorityName:    "default",
		KeystorePath:     "sv2-keys.db",
		CertValidity:     24 * time.Hour,
		HandshakeTimeout: 10 * time.Second,
	}
}

// Load reads path and applies it over Default. SV2_ADDR and SV2_KEYSTORE
// environment variables override the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		var raw fileConfig
		meta, err := toml.DecodeFile(path, &raw)
		if err != nil {
			return Config{}, fmt.Errorf("load config: %w", err)
		}
		if meta.IsDefined("addr") {
			cfg.Addr = strings.TrimSpace(raw.Addr)
		}
		if meta.IsDefined("quic") {
			cfg.QUIC = raw.QUIC
		}
		if meta.IsDefined("authority_name") {
			cfg.AuthorityName = strings.TrimSpace(raw.AuthorityName)
		}
		if meta.IsDefined("authority_key") {
			cfg.AuthorityKey = strings.TrimSpace(raw.AuthorityKey)
		}
		if meta.IsDefined("keystore_path") {
			cfg.KeystorePath = strings.TrimSpace(raw.KeystorePath)
		}
		if meta.IsDefined("cert_validity") {
			d, err := time.ParseDuration(strings.TrimSpace(raw.CertValidity))
			if err != nil {
				return Config{}, fmt.Errorf("parse cert_validity: %w", err)
			}
			cfg.CertValidity = d
		}
		if meta.IsDefined("handshake_timeout") {
			d, err := time.ParseDuration(strings.TrimSpace(raw.HandshakeTimeout))
			if err != nil {
				return Config{}, fmt.Errorf("parse handshake_timeout: %w", err)
			}
			cfg.HandshakeTimeout = d
		}
	}
	if v := os.Getenv("SV2_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("SV2_KEYSTORE"); v != "" {
		cfg.KeystorePath = v
	}
	return cfg, nil
}

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadAppliesDefaults(t *testing.T) {
	cfgPath := writeTempConfig(t, `
binance:
  api_key: "k"
  api_secret: "s"
`)

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.DefaultVenue != "binance" {
		t.Fatalf("default_venue = %q, want binance", cfg.DefaultVenue)
	}
	if cfg.FutureType != "usdt" {
		t.Fatalf("future_type = %q, want usdt", cfg.FutureType)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("log_level = %q, want info", cfg.LogLevel)
	}
	if cfg.Orders.ClientIDPrefix != "uex" {
		t.Fatalf("orders.client_id_prefix = %q, want uex", cfg.Orders.ClientIDPrefix)
	}
}

func TestLoadRejectsUnknownField(t *testing.T) {
	cfgPath := writeTempConfig(t, `
default_venue: binance
websocket_url: "wss://example.com"
`)

	_, err := Load(cfgPath)
	if err == nil {
		t.Fatalf("Load() error = nil, want error")
	}
	if !strings.Contains(err.Error(), "field websocket_url not found") {
		t.Fatalf("Load() error = %q, want unknown field message", err.Error())
	}
}

func TestLoadRejectsUnknownVenue(t *testing.T) {
	cfgPath := writeTempConfig(t, `
default_venue: bitmex
`)

	_, err := Load(cfgPath)
	if err == nil {
		t.Fatalf("Load() error = nil, want error")
	}
	if !strings.Contains(err.Error(), "default_venue must be") {
		t.Fatalf("Load() error = %q, want venue validation", err.Error())
	}
}

func TestLoadRequiresPassphraseForOKFamily(t *testing.T) {
	cfgPath := writeTempConfig(t, `
okx:
  api_key: "k"
  api_secret: "s"
`)

	_, err := Load(cfgPath)
	if err == nil {
		t.Fatalf("Load() error = nil, want error")
	}
	if !strings.Contains(err.Error(), "passphrase is required") {
		t.Fatalf("Load() error = %q, want passphrase validation", err.Error())
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	cfgPath := writeTempConfig(t, `
binance:
  api_key: "file-key"
  api_secret: "file-secret"
`)
	t.Setenv("UEX_BINANCE_API_KEY", "env-key")

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Binance.APIKey != "env-key" {
		t.Fatalf("binance.api_key = %q, want env-key", cfg.Binance.APIKey)
	}
	if cfg.Binance.APISecret != "file-secret" {
		t.Fatalf("binance.api_secret = %q, want file-secret (unset env must not clobber)", cfg.Binance.APISecret)
	}
}

func TestLoadParsesOrderDefaults(t *testing.T) {
	cfgPath := writeTempConfig(t, `
orders:
  client_id_prefix: grid_a
  notional: "250.5"
`)

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Orders.ClientIDPrefix != "grid_a" {
		t.Fatalf("orders.client_id_prefix = %q, want grid_a", cfg.Orders.ClientIDPrefix)
	}
	if cfg.Orders.Notional.String() != "250.5" {
		t.Fatalf("orders.notional = %s, want 250.5", cfg.Orders.Notional.String())
	}
}

func TestLoadRejectsNegativeNotional(t *testing.T) {
	cfgPath := writeTempConfig(t, `
orders:
  notional: "-1"
`)

	_, err := Load(cfgPath)
	if err == nil {
		t.Fatalf("Load() error = nil, want error")
	}
	if !strings.Contains(err.Error(), "orders.notional must be >= 0") {
		t.Fatalf("Load() error = %q, want notional validation", err.Error())
	}
}

func TestConfiguredVenues(t *testing.T) {
	cfgPath := writeTempConfig(t, `
binance:
  api_key: "k"
  api_secret: "s"
okx:
  api_key: "k"
  api_secret: "s"
  passphrase: "p"
`)

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	got := cfg.ConfiguredVenues()
	want := []string{"binance", "okx"}
	if len(got) != len(want) {
		t.Fatalf("ConfiguredVenues() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ConfiguredVenues() = %v, want %v", got, want)
		}
	}
	if cfg.Venue("okex-v3") == nil {
		t.Fatalf("Venue(okex-v3) = nil, want credentials struct")
	}
	if cfg.Venue("bitmex") != nil {
		t.Fatalf("Venue(bitmex) != nil, want nil")
	}
}

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(strings.TrimSpace(content)+"\n"), 0o644); err != nil {
		t.Fatalf("write temp config failed: %v", err)
	}
	return path
}

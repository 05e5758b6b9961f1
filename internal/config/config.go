// Package config loads the credentials/settings file. Secrets may live in
// the YAML itself, in the process environment, or in a .env file; the
// environment always wins so deployments can keep keys out of the file.
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

const envPrefixRoot = "UEX"

// Credentials is one venue's API access. Passphrase is only meaningful for
// the OK-family venues.
type Credentials struct {
	APIKey     string `yaml:"api_key" envconfig:"API_KEY"`
	APISecret  string `yaml:"api_secret" envconfig:"API_SECRET"`
	Passphrase string `yaml:"passphrase" envconfig:"PASSPHRASE"`
}

func (c Credentials) Configured() bool {
	return c.APIKey != "" && c.APISecret != ""
}

type OrderDefaults struct {
	ClientIDPrefix string  `yaml:"client_id_prefix"`
	Notional       Decimal `yaml:"notional"`
}

type Config struct {
	DefaultVenue string        `yaml:"default_venue"`
	FutureType   string        `yaml:"future_type"`
	LogLevel     string        `yaml:"log_level"`
	Orders       OrderDefaults `yaml:"orders"`
	Binance      Credentials   `yaml:"binance"`
	OKX          Credentials   `yaml:"okx"`
	OKCoin       Credentials   `yaml:"okcoin"`
	OKExV3       Credentials   `yaml:"okex_v3"`
}

// Load reads the YAML file strictly (unknown fields are errors), overlays
// any .env file and the process environment, applies defaults, and
// validates. A missing .env file is not an error.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return Config{}, fmt.Errorf("config must contain a single YAML document")
		}
		return Config{}, err
	}
	_ = godotenv.Load()
	if err := cfg.overlayEnv(); err != nil {
		return Config{}, err
	}
	cfg.normalize()
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// overlayEnv fills credential fields from UEX_<VENUE>_* variables. Set
// variables override the file; unset ones leave it untouched.
func (c *Config) overlayEnv() error {
	venues := map[string]*Credentials{
		"BINANCE": &c.Binance,
		"OKX":     &c.OKX,
		"OKCOIN":  &c.OKCoin,
		"OKEX_V3": &c.OKExV3,
	}
	for name, creds := range venues {
		if err := envconfig.Process(envPrefixRoot+"_"+name, creds); err != nil {
			return fmt.Errorf("env overlay for %s: %w", name, err)
		}
	}
	return nil
}

func (c *Config) normalize() {
	c.DefaultVenue = strings.ToLower(strings.TrimSpace(c.DefaultVenue))
	c.FutureType = strings.ToLower(strings.TrimSpace(c.FutureType))
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.Orders.ClientIDPrefix = strings.TrimSpace(c.Orders.ClientIDPrefix)
	for _, creds := range []*Credentials{&c.Binance, &c.OKX, &c.OKCoin, &c.OKExV3} {
		creds.APIKey = strings.TrimSpace(creds.APIKey)
		creds.APISecret = strings.TrimSpace(creds.APISecret)
		creds.Passphrase = strings.TrimSpace(creds.Passphrase)
	}
}

func (c *Config) applyDefaults() {
	if c.DefaultVenue == "" {
		c.DefaultVenue = "binance"
	}
	if c.FutureType == "" {
		c.FutureType = "usdt"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Orders.ClientIDPrefix == "" {
		c.Orders.ClientIDPrefix = "uex"
	}
}

var knownVenues = map[string]bool{
	"binance": true,
	"okx":     true,
	"okcoin":  true,
	"okex-v3": true,
}

var knownLevels = map[string]bool{
	"panic": true, "fatal": true, "error": true, "warn": true,
	"info": true, "debug": true, "trace": true,
}

func (c Config) Validate() error {
	if !knownVenues[c.DefaultVenue] {
		return fmt.Errorf("default_venue must be binance, okx, okcoin, or okex-v3")
	}
	if c.FutureType != "coin" && c.FutureType != "usdt" {
		return fmt.Errorf("future_type must be coin or usdt")
	}
	if !knownLevels[c.LogLevel] {
		return fmt.Errorf("log_level %q is not a known level", c.LogLevel)
	}
	if c.Orders.Notional.Cmp(decimal.Zero) < 0 {
		return fmt.Errorf("orders.notional must be >= 0")
	}
	for name, creds := range map[string]Credentials{
		"okx":     c.OKX,
		"okcoin":  c.OKCoin,
		"okex_v3": c.OKExV3,
	} {
		if creds.Configured() && creds.Passphrase == "" {
			return fmt.Errorf("%s passphrase is required when api_key is set", name)
		}
	}
	return nil
}

// Venue returns the credentials for the named venue, nil if unknown.
func (c Config) Venue(name string) *Credentials {
	switch strings.ToLower(name) {
	case "binance":
		return &c.Binance
	case "okx":
		return &c.OKX
	case "okcoin":
		return &c.OKCoin
	case "okex-v3", "okex_v3":
		return &c.OKExV3
	}
	return nil
}

// ConfiguredVenues lists the venues with usable credentials, in a fixed
// order.
func (c Config) ConfiguredVenues() []string {
	var out []string
	for _, v := range []struct {
		name  string
		creds Credentials
	}{
		{"binance", c.Binance},
		{"okx", c.OKX},
		{"okcoin", c.OKCoin},
		{"okex-v3", c.OKExV3},
	} {
		if v.creds.Configured() {
			out = append(out, v.name)
		}
	}
	return out
}

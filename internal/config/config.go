// config.go: Environment configuration for the pfz command.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

// Package config loads pfz command settings from PFZ_* environment variables.
// Command-line flags override what is loaded here.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/agilira/pfz"
	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
)

// EnvPrefix is prepended to every variable name.
const EnvPrefix = "PFZ_"

// ErrNoPassword is returned when neither a password file nor a password is configured.
var ErrNoPassword = errors.New("no password given: use --password-file, PFZ_PASSWORD_FILE or PFZ_PASSWORD")

// Config holds the command settings.
type Config struct {
	Password      string `env:"PASSWORD"`
	PasswordFile  string `env:"PASSWORD_FILE"`
	Format        string `env:"FORMAT" envDefault:"PFZ2"`
	Iterations    int    `env:"ITERATIONS" envDefault:"50000"`
	StrictEntropy bool   `env:"STRICT_ENTROPY"`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"warn"`
}

// Load parses the configuration from environ, or from the process
// environment when environ is nil, and validates it.
func Load(environ map[string]string) (*Config, error) {
	cfg := &Config{}
	err := env.ParseWithOptions(cfg, env.Options{
		Prefix:      EnvPrefix,
		Environment: environ,
	})
	if err != nil {
		return nil, fmt.Errorf("error getting env configs: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate normalizes Format and checks every field's range.
func (c *Config) Validate() error {
	format, err := ParseFormat(c.Format)
	if err != nil {
		return err
	}
	c.Format = string(format)

	if c.Iterations < 1 || c.Iterations > pfz.MaxIterations {
		return fmt.Errorf("PFZ_ITERATIONS must be between 1 and %d, got %d", pfz.MaxIterations, c.Iterations)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid PFZ_LOG_LEVEL %q: %w", c.LogLevel, err)
	}
	return nil
}

// ParseFormat accepts a format name in any case.
func ParseFormat(name string) (pfz.Format, error) {
	switch pfz.Format(strings.ToUpper(name)) {
	case pfz.FormatPFZ2:
		return pfz.FormatPFZ2, nil
	case pfz.FormatPFZ1:
		return pfz.FormatPFZ1, nil
	default:
		return "", fmt.Errorf("unknown format %q (want pfz2 or pfz1)", name)
	}
}

// ResolvePassword returns the password to use. A password file, taken from
// fileOverride or else PasswordFile, wins over Password. One trailing line
// ending is stripped from file contents.
func (c *Config) ResolvePassword(fileOverride string) ([]byte, error) {
	path := fileOverride
	if path == "" {
		path = c.PasswordFile
	}
	if path != "" {
		data, err := os.ReadFile(path) // #nosec G304 -- path is chosen by the operator
		if err != nil {
			return nil, fmt.Errorf("failed to read password file: %w", err)
		}
		data = bytes.TrimSuffix(data, []byte("\n"))
		data = bytes.TrimSuffix(data, []byte("\r"))
		if len(data) == 0 {
			return nil, fmt.Errorf("password file %s is empty", path)
		}
		return data, nil
	}
	if c.Password != "" {
		return []byte(c.Password), nil
	}
	return nil, ErrNoPassword
}

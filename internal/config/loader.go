// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package config

import (
	"errors"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// EnvPrefix is stripped from environment variables before they are mapped
// to keys: TIDEWATER_HTTP_ADDR sets http_addr.
const EnvPrefix = "TIDEWATER_"

// legacyEnv maps unprefixed variables still honoured for compatibility.
var legacyEnv = map[string]string{
	"DATABASE_URL": "database_url",
	"SECRET_KEY":   "secret_key",
}

// Loader layers configuration sources into one Config.
type Loader struct {
	k         *koanf.Koanf
	envPrefix string
	filePath  string
}

// Option configures a Loader.
type Option func(*Loader)

// WithConfigFile sets the YAML file to read. An empty path skips the file.
func WithConfigFile(path string) Option {
	return func(l *Loader) { l.filePath = path }
}

// WithEnvPrefix replaces EnvPrefix.
func WithEnvPrefix(prefix string) Option {
	return func(l *Loader) { l.envPrefix = prefix }
}

// NewLoader creates a Loader.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{k: koanf.New("."), envPrefix: EnvPrefix}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads defaults, the config file, legacy environment variables,
// prefixed environment variables and finally flags. Empty variables are
// ignored. Flags only override when set explicitly on the command line.
func (l *Loader) Load(flags *pflag.FlagSet) (*Config, error) {
	if err := l.k.Load(mapProvider(defaults()), nil); err != nil {
		return nil, oops.Code("CONFIG_LOAD_FAILED").With("source", "defaults").Wrap(err)
	}

	if l.filePath != "" {
		if err := l.k.Load(file.Provider(l.filePath), yaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").
				With("source", "file").
				With("path", l.filePath).
				Wrap(err)
		}
	}

	legacy := env.ProviderWithValue("", ".", func(key, value string) (string, any) {
		name, ok := legacyEnv[key]
		if !ok || value == "" {
			return "", nil
		}
		return name, value
	})
	if err := l.k.Load(legacy, nil); err != nil {
		return nil, oops.Code("CONFIG_LOAD_FAILED").With("source", "legacy_env").Wrap(err)
	}

	prefixed := env.ProviderWithValue(l.envPrefix, ".", func(key, value string) (string, any) {
		if value == "" {
			return "", nil
		}
		name := strings.ToLower(strings.TrimPrefix(key, l.envPrefix))
		if name == "cors_origins" {
			return name, splitList(value)
		}
		return name, value
	})
	if err := l.k.Load(prefixed, nil); err != nil {
		return nil, oops.Code("CONFIG_LOAD_FAILED").With("source", "env").Wrap(err)
	}

	if flags != nil {
		fp := posflag.ProviderWithFlag(flags, ".", l.k, func(f *pflag.Flag) (string, any) {
			if f.Name == "config" {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		})
		if err := l.k.Load(fp, nil); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").With("source", "flags").Wrap(err)
		}
	}

	var cfg Config
	if err := l.k.Unmarshal("", &cfg); err != nil {
		return nil, oops.Code("CONFIG_INVALID").With("operation", "unmarshal").Wrap(err)
	}
	return &cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// mapProvider feeds a plain map to koanf.
type mapProvider map[string]any

func (m mapProvider) ReadBytes() ([]byte, error) {
	return nil, errors.New("map provider does not support ReadBytes")
}

func (m mapProvider) Read() (map[string]any, error) {
	return m, nil
}

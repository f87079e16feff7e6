package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/hcl"
	"github.com/joho/godotenv"
)

const (
	// DefaultFile is read from the working directory when no config file
	// is named explicitly
	DefaultFile = "recordstore.hcl"

	// EnvPrefix prefixes every environment variable, e.g. RECORDSTORE_ADDR
	EnvPrefix = "RECORDSTORE_"
)

// Config holds the process configuration
type Config struct {
	Addr            string
	StorageRoot     string
	Backend         string
	LogLevel        string
	LogFormat       string
	SeqURL          string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	MaxBodyBytes    int64
	StaticDir       string
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Addr:            ":5000",
		StorageRoot:     "databases",
		Backend:         "file",
		LogLevel:        "info",
		LogFormat:       "text",
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    15 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		MaxBodyBytes:    1 << 20,
	}
}

type configVar struct {
	get func() string
	set func(string) error
}

// vars maps each config variable name to the field it sets. Names are
// shared by the config file, the environment (upper-cased, prefixed) and
// the command line (with '-' for '_').
func (c *Config) vars() map[string]configVar {
	str := func(p *string) configVar {
		return configVar{
			get: func() string { return *p },
			set: func(v string) error {
				*p = v
				return nil
			},
		}
	}
	dur := func(p *time.Duration) configVar {
		return configVar{
			get: func() string { return p.String() },
			set: func(v string) error {
				d, err := time.ParseDuration(v)
				if err != nil {
					return err
				}
				*p = d
				return nil
			},
		}
	}

	return map[string]configVar{
		"addr":             str(&c.Addr),
		"storage_root":     str(&c.StorageRoot),
		"backend":          str(&c.Backend),
		"log_level":        str(&c.LogLevel),
		"log_format":       str(&c.LogFormat),
		"seq_url":          str(&c.SeqURL),
		"static_dir":       str(&c.StaticDir),
		"read_timeout":     dur(&c.ReadTimeout),
		"write_timeout":    dur(&c.WriteTimeout),
		"shutdown_timeout": dur(&c.ShutdownTimeout),
		"max_body_bytes": {
			get: func() string { return strconv.FormatInt(c.MaxBodyBytes, 10) },
			set: func(v string) error {
				n, err := strconv.ParseInt(v, 10, 64)
				if err != nil {
					return err
				}
				c.MaxBodyBytes = n
				return nil
			},
		},
	}
}

// Names returns the config variable names, sorted
func Names() []string {
	var c Config
	names := make([]string, 0)
	for name := range c.vars() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns the current value of a variable as text
func (c *Config) Get(name string) (string, bool) {
	v, ok := c.vars()[name]
	if !ok {
		return "", false
	}
	return v.get(), true
}

// Set assigns one variable by name
func (c *Config) Set(name, value string) error {
	v, ok := c.vars()[name]
	if !ok {
		return fmt.Errorf("%s is not a config variable", name)
	}
	if err := v.set(value); err != nil {
		return fmt.Errorf("%s: %s", name, err)
	}
	return nil
}

// LoadFile applies an HCL config file. A missing file is only an error
// when required is set.
func (c *Config) LoadFile(path string, required bool) error {
	b, err := os.ReadFile(path)
	if err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := c.load(b); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	slog.Debug("Config file loaded", "path", path)
	return nil
}

func (c *Config) load(b []byte) error {
	var cfg map[string]interface{}

	err := hcl.Decode(&cfg, string(b))
	if err != nil {
		return err
	}
	for name, val := range cfg {
		if err := c.Set(name, fmt.Sprintf("%v", val)); err != nil {
			return err
		}
	}
	return nil
}

// LoadEnv reads the given .env files (or ./.env) into the environment,
// silently skipping missing ones, then applies RECORDSTORE_* variables
func (c *Config) LoadEnv(files ...string) error {
	if len(files) == 0 {
		_ = godotenv.Load()
	} else {
		for _, f := range files {
			if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("%s: %w", f, err)
			}
		}
	}
	return c.ApplyEnv(os.LookupEnv)
}

// ApplyEnv applies every variable that lookup knows about
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	for _, name := range Names() {
		val, ok := lookup(EnvName(name))
		if !ok {
			continue
		}
		if err := c.Set(name, val); err != nil {
			return fmt.Errorf("%s: %w", EnvName(name), err)
		}
	}
	return nil
}

// EnvName returns the environment variable for a config variable
func EnvName(name string) string {
	return EnvPrefix + strings.ToUpper(name)
}

// FlagName returns the command-line flag for a config variable
func FlagName(name string) string {
	return strings.ReplaceAll(name, "_", "-")
}

// Validate rejects configurations the server cannot start with
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr is required")
	}
	if c.StorageRoot == "" {
		return fmt.Errorf("storage_root is required")
	}
	switch c.Backend {
	case "file", "bbolt":
	default:
		return fmt.Errorf("backend must be file or bbolt, got %q", c.Backend)
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return fmt.Errorf("log_level: unknown level %q", c.LogLevel)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("log_format must be text or json, got %q", c.LogFormat)
	}
	for name, d := range map[string]time.Duration{
		"read_timeout":     c.ReadTimeout,
		"write_timeout":    c.WriteTimeout,
		"shutdown_timeout": c.ShutdownTimeout,
	} {
		if d < 0 {
			return fmt.Errorf("%s must not be negative", name)
		}
	}
	if c.MaxBodyBytes < 0 {
		return fmt.Errorf("max_body_bytes must not be negative")
	}
	return nil
}

// Package config loads server settings from flags, an optional YAML file
// and the environment.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Backends.
const (
	BackendSQLite   = "sqlite"
	BackendSupabase = "supabase"
)

// Environment variables.
const (
	EnvSupabaseKey = "BLOODDONORS_SUPABASE_KEY"
	EnvSupabaseURL = "BLOODDONORS_SUPABASE_URL"
	EnvPageSize    = "BLOODDONORS_PAGE_SIZE"
)

// Log formats.
const (
	LogText = "text"
	LogJSON = "json"
)

// MaxPageSize bounds the public listing page size.
const MaxPageSize = 100

type Supabase struct {
	URL    string `yaml:"url"`
	Key    string `yaml:"key"`
	Bucket string `yaml:"bucket"`
}

type Config struct {
	Addr             string   `yaml:"addr"`
	DB               string   `yaml:"db"`
	Log              string   `yaml:"log"`
	LogFormat        string   `yaml:"log_format"`
	AdminEmail       string   `yaml:"admin_email"`
	Backend          string   `yaml:"backend"`
	Supabase         Supabase `yaml:"supabase"`
	IntervalDays     int      `yaml:"donation_interval_days"`
	PageSize         int      `yaml:"page_size"`
	FallbackPhotoURL string   `yaml:"fallback_photo_url"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Addr:             ":8080",
		DB:               "blooddonors.sqlite3",
		LogFormat:        LogText,
		AdminEmail:       "admin@localhost",
		Backend:          BackendSQLite,
		Supabase:         Supabase{Bucket: "blood-donors"},
		IntervalDays:     56,
		PageSize:         20,
		FallbackPhotoURL: "/static/donor.svg",
	}
}

const usage = `Usage: blooddonors [flags]

Flags:
  -c, -config <path>        YAML config file (optional)
  -d, -db <path>            SQLite database path (default: blooddonors.sqlite3)
  -a, -addr <host:port>     listen address (default: :8080)
  -u, -admin-email <email>  super admin email on first run (default: admin@localhost)
  -l, -log <path>           log file path (default: no file, stdout/stderr only)
  -h, -help                 show this help and exit

Environment:
  BLOODDONORS_SUPABASE_URL   Supabase project URL
  BLOODDONORS_SUPABASE_KEY   Supabase API key
  BLOODDONORS_PAGE_SIZE      public listing page size
`

// Parse builds the configuration from args. Later sources win: defaults,
// the YAML file, flags given on the command line, then the environment.
// It returns flag.ErrHelp when help was requested.
func Parse(args []string, getenv func(string) string, out io.Writer) (*Config, error) {
	fs := flag.NewFlagSet("blooddonors", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.Usage = func() { fmt.Fprint(out, usage) }

	def := Default()
	var path string
	flags := *def
	fs.StringVar(&path, "config", "", "")
	fs.StringVar(&path, "c", "", "")
	fs.StringVar(&flags.DB, "db", def.DB, "")
	fs.StringVar(&flags.DB, "d", def.DB, "")
	fs.StringVar(&flags.Addr, "addr", def.Addr, "")
	fs.StringVar(&flags.Addr, "a", def.Addr, "")
	fs.StringVar(&flags.AdminEmail, "admin-email", def.AdminEmail, "")
	fs.StringVar(&flags.AdminEmail, "u", def.AdminEmail, "")
	fs.StringVar(&flags.Log, "log", def.Log, "")
	fs.StringVar(&flags.Log, "l", def.Log, "")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		fs.Usage()
		return nil, fmt.Errorf("unexpected argument: %s", fs.Arg(0))
	}

	cfg := def
	if path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "db", "d":
			cfg.DB = flags.DB
		case "addr", "a":
			cfg.Addr = flags.Addr
		case "admin-email", "u":
			cfg.AdminEmail = flags.AdminEmail
		case "log", "l":
			cfg.Log = flags.Log
		}
	})

	if err := cfg.applyEnv(getenv); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

// LoadFile overlays the YAML file at path onto c. Keys missing from the
// file keep their current values.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv(EnvSupabaseURL); v != "" {
		c.Supabase.URL = v
	}
	if v := getenv(EnvSupabaseKey); v != "" {
		c.Supabase.Key = v
	}
	if v := getenv(EnvPageSize); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvPageSize, err)
		}
		c.PageSize = n
	}
	return nil
}

// Validate checks the combined settings.
func (c *Config) Validate() error {
	var errs []error
	switch c.Backend {
	case BackendSQLite:
	case BackendSupabase:
		if c.Supabase.URL == "" {
			errs = append(errs, errors.New("supabase.url is required for the supabase backend"))
		}
		if c.Supabase.Key == "" {
			errs = append(errs, fmt.Errorf("supabase.key (or %s) is required for the supabase backend", EnvSupabaseKey))
		}
		if c.Supabase.Bucket == "" {
			errs = append(errs, errors.New("supabase.bucket must not be empty"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown backend %q", c.Backend))
	}
	if c.IntervalDays <= 0 {
		errs = append(errs, errors.New("donation_interval_days must be positive"))
	}
	if c.PageSize < 1 || c.PageSize > MaxPageSize {
		errs = append(errs, fmt.Errorf("page_size must be between 1 and %d", MaxPageSize))
	}
	if c.LogFormat != LogText && c.LogFormat != LogJSON {
		errs = append(errs, fmt.Errorf("log_format must be %q or %q", LogText, LogJSON))
	}
	if c.Addr == "" {
		errs = append(errs, errors.New("addr must not be empty"))
	}
	if c.DB == "" {
		errs = append(errs, errors.New("db must not be empty"))
	}
	return errors.Join(errs...)
}

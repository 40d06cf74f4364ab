package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	ModeBatch = "batch"
	ModeServe = "serve"

	SourceSample   = "sample"
	SourceFile     = "file"
	SourcePostgres = "postgres"

	envPrefix = "INSIGHTS_"
)

// Config is the top-level application config.
type Config struct {
	App         AppConfig         `koanf:"app"`
	Output      OutputConfig      `koanf:"output"`
	Source      SourceConfig      `koanf:"source"`
	Database    DatabaseConfig    `koanf:"database"`
	Aggregation AggregationConfig `koanf:"aggregation"`
	Server      ServerConfig      `koanf:"server"`
	Schedule    ScheduleConfig    `koanf:"schedule"`
}

type AppConfig struct {
	Mode string `koanf:"mode"` // batch | serve
}

type OutputConfig struct {
	Path    string `koanf:"path"`
	Creator string `koanf:"creator"`
}

type SourceConfig struct {
	Type string `koanf:"type"` // sample | file | postgres
	Path string `koanf:"path"`
}

type DatabaseConfig struct {
	DSN          string `koanf:"dsn"`
	MaxOpenConns int    `koanf:"max_open_conns"`
	MaxIdleConns int    `koanf:"max_idle_conns"`
	AutoMigrate  bool   `koanf:"auto_migrate"`

	// SeedSample inserts the sample orders on startup; existing order ids are kept.
	SeedSample bool `koanf:"seed_sample"`
}

type AggregationConfig struct {
	ViewsDir    string `koanf:"views_dir"`
	WorkerCount int    `koanf:"worker_count"`
}

type ServerConfig struct {
	Port            int    `koanf:"port"`
	Host            string `koanf:"host"`
	Mode            string `koanf:"mode"` // debug | release
	ShutdownTimeout string `koanf:"shutdown_timeout"`
}

type ScheduleConfig struct {
	// Interval between exports in serve mode. Empty disables the scheduler.
	Interval string `koanf:"interval"`
}

// ShutdownTimeoutDuration returns the parsed server.shutdown_timeout.
func (c ServerConfig) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Addr returns host:port for the HTTP listener.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IntervalDuration returns the parsed schedule.interval, or 0 when unset.
func (c ScheduleConfig) IntervalDuration() time.Duration {
	if strings.TrimSpace(c.Interval) == "" {
		return 0
	}
	d, _ := time.ParseDuration(c.Interval)
	return d
}

func (c *Config) Validate() error {
	if c.App.Mode != ModeBatch && c.App.Mode != ModeServe {
		return fmt.Errorf("invalid app.mode %q (must be batch or serve)", c.App.Mode)
	}
	if strings.TrimSpace(c.Output.Path) == "" {
		return fmt.Errorf("output.path is required")
	}

	switch c.Source.Type {
	case SourceSample:
	case SourceFile:
		if strings.TrimSpace(c.Source.Path) == "" {
			return fmt.Errorf("source.path is required when source.type is file")
		}
	case SourcePostgres:
		if strings.TrimSpace(c.Database.DSN) == "" {
			return fmt.Errorf("database.dsn is required when source.type is postgres")
		}
		if c.Database.MaxOpenConns <= 0 {
			return fmt.Errorf("database.max_open_conns must be > 0")
		}
		if c.Database.MaxIdleConns <= 0 {
			return fmt.Errorf("database.max_idle_conns must be > 0")
		}
	default:
		return fmt.Errorf("unsupported source.type %q", c.Source.Type)
	}

	if c.Aggregation.WorkerCount <= 0 {
		return fmt.Errorf("aggregation.worker_count must be > 0")
	}

	if c.App.Mode == ModeServe {
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			return fmt.Errorf("invalid server.port %d (must be 1-65535)", c.Server.Port)
		}
		if strings.TrimSpace(c.Server.Host) == "" {
			return fmt.Errorf("server.host is required")
		}
		if c.Server.Mode != "debug" && c.Server.Mode != "release" {
			return fmt.Errorf("invalid server.mode %q (must be debug or release)", c.Server.Mode)
		}
		timeout, err := time.ParseDuration(c.Server.ShutdownTimeout)
		if err != nil {
			return fmt.Errorf("invalid server.shutdown_timeout %q: %w", c.Server.ShutdownTimeout, err)
		}
		if timeout <= 0 {
			return fmt.Errorf("server.shutdown_timeout must be > 0")
		}
	}

	if strings.TrimSpace(c.Schedule.Interval) != "" {
		interval, err := time.ParseDuration(c.Schedule.Interval)
		if err != nil {
			return fmt.Errorf("invalid schedule.interval %q: %w", c.Schedule.Interval, err)
		}
		if interval <= 0 {
			return fmt.Errorf("schedule.interval must be > 0")
		}
	}

	return nil
}

// Load merges defaults, the optional YAML file and INSIGHTS_ env vars, then validates.
// Env keys use a double underscore as the section separator: INSIGHTS_OUTPUT__PATH.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	defaults := map[string]interface{}{
		"app.mode":                 ModeBatch,
		"output.path":              "./big_data_analysis_output.xlsx",
		"output.creator":           "order-insights",
		"source.type":              SourceSample,
		"source.path":              "",
		"database.dsn":             "",
		"database.max_open_conns":  10,
		"database.max_idle_conns":  5,
		"database.auto_migrate":    true,
		"database.seed_sample":     false,
		"aggregation.views_dir":    "",
		"aggregation.worker_count": 4,
		"server.port":              8080,
		"server.host":              "0.0.0.0",
		"server.mode":              "release",
		"server.shutdown_timeout":  "10s",
		"schedule.interval":        "",
	}
	for key, value := range defaults {
		k.Set(key, value)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "__", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Package config loads the edgebridge runtime configuration.
//
// Values are layered: built-in defaults, then the YAML file, then
// EDGEBRIDGE_* environment variables. Command line flags are applied last
// by the caller.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/aretw0/edgebridge/pkg/adapters/process"
	"github.com/aretw0/edgebridge/pkg/adapters/redis"
	"github.com/aretw0/edgebridge/pkg/units"
	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// DefaultFile is read when no explicit path is given.
const DefaultFile = "edgebridge.yaml"

// EnvPrefix prefixes every environment variable.
const EnvPrefix = "EDGEBRIDGE_"

const (
	EngineSim    = "sim"
	EngineBridge = "bridge"
)

const (
	StoreNone   = "none"
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
)

type Config struct {
	Log     LogConfig     `yaml:"log" envPrefix:"LOG_"`
	Engine  EngineConfig  `yaml:"engine" envPrefix:"ENGINE_"`
	Units   UnitsConfig   `yaml:"units" envPrefix:"UNITS_"`
	Store   StoreConfig   `yaml:"store" envPrefix:"STORE_"`
	Lock    LockConfig    `yaml:"lock" envPrefix:"LOCK_"`
	HTTP    HTTPConfig    `yaml:"http" envPrefix:"HTTP_"`
	MCP     MCPConfig     `yaml:"mcp" envPrefix:"MCP_"`
	Metrics MetricsConfig `yaml:"metrics" envPrefix:"METRICS_"`
	Session SessionConfig `yaml:"session" envPrefix:"SESSION_"`
}

type LogConfig struct {
	Level  string `yaml:"level" env:"LEVEL"`
	Format string `yaml:"format" env:"FORMAT"`
}

// EngineConfig selects the engine behind the session. BridgeFile, when set,
// replaces Bridge with the contents of a helper configuration file.
type EngineConfig struct {
	Kind       string         `yaml:"kind" env:"KIND"`
	Bridge     process.Config `yaml:"bridge"`
	BridgeFile string         `yaml:"bridge_file" env:"BRIDGE_FILE"`
}

type UnitsConfig struct {
	Linear  string `yaml:"linear" env:"LINEAR"`
	Angular string `yaml:"angular" env:"ANGULAR"`
}

// StoreConfig selects the snapshot store. EncryptionKeys are base64 AES-256
// keys; the first seals new snapshots, the rest only open old ones.
type StoreConfig struct {
	Kind           string      `yaml:"kind" env:"KIND"`
	Path           string      `yaml:"path" env:"PATH"`
	Redis          RedisConfig `yaml:"redis" envPrefix:"REDIS_"`
	EncryptionKeys []string    `yaml:"encryption_keys" env:"ENCRYPTION_KEYS" envSeparator:","`
}

type RedisConfig struct {
	Addr     string        `yaml:"addr" env:"ADDR"`
	Password string        `yaml:"password" env:"PASSWORD"`
	DB       int           `yaml:"db" env:"DB"`
	Prefix   string        `yaml:"prefix" env:"PREFIX"`
	TTL      time.Duration `yaml:"ttl" env:"TTL"`
}

// LockConfig guards the engine instance across processes. It needs the
// redis store settings for its connection.
type LockConfig struct {
	Enabled bool          `yaml:"enabled" env:"ENABLED"`
	TTL     time.Duration `yaml:"ttl" env:"TTL"`
	MaxWait time.Duration `yaml:"max_wait" env:"MAX_WAIT"`
}

type HTTPConfig struct {
	Port int `yaml:"port" env:"PORT"`
}

type MCPConfig struct {
	Transport string `yaml:"transport" env:"TRANSPORT"`
	Port      int    `yaml:"port" env:"PORT"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled" env:"ENABLED"`
}

type SessionConfig struct {
	ID string `yaml:"id" env:"ID"`
}

// Default returns the configuration used when nothing else is set.
func Default() Config {
	return Config{
		Log:    LogConfig{Level: "info", Format: "text"},
		Engine: EngineConfig{Kind: EngineSim},
		Units:  UnitsConfig{Linear: "m", Angular: "deg"},
		Store: StoreConfig{
			Kind: StoreNone,
			Path: ".edgebridge/sessions",
			Redis: RedisConfig{
				Addr:   "localhost:6379",
				Prefix: redis.DefaultPrefix,
				TTL:    24 * time.Hour,
			},
		},
		Lock:    LockConfig{TTL: 30 * time.Minute},
		HTTP:    HTTPConfig{Port: 8080},
		MCP:     MCPConfig{Transport: "stdio", Port: 8081},
		Session: SessionConfig{ID: "default"},
	}
}

// Load applies the file at path and the environment on top of the defaults.
// An empty path reads DefaultFile; a missing DefaultFile is not an error, a
// missing explicit path is.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	if err := cfg.mergeFile(path); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return Config{}, err
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if cfg.Engine.BridgeFile != "" {
		bridge, err := process.LoadConfig(cfg.Engine.BridgeFile)
		if err != nil {
			return Config{}, err
		}
		cfg.Engine.Bridge = bridge
	}

	return cfg, cfg.Validate()
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// Validate reports the first setting that cannot be used.
func (c Config) Validate() error {
	switch c.Engine.Kind {
	case EngineSim:
	case EngineBridge:
		if c.Engine.Bridge.Command == "" {
			return errors.New("engine.bridge.command is required for the bridge engine")
		}
	default:
		return fmt.Errorf("unknown engine.kind %q (want %s or %s)", c.Engine.Kind, EngineSim, EngineBridge)
	}

	switch c.Store.Kind {
	case StoreNone, StoreMemory, StoreRedis:
	case StoreFile:
		if c.Store.Path == "" {
			return errors.New("store.path is required for the file store")
		}
	default:
		return fmt.Errorf("unknown store.kind %q", c.Store.Kind)
	}

	if _, err := c.UnitSystem(); err != nil {
		return err
	}

	switch c.MCP.Transport {
	case "stdio", "sse":
	default:
		return fmt.Errorf("unknown mcp.transport %q (want stdio or sse)", c.MCP.Transport)
	}
	return nil
}

// UnitSystem parses the caller-facing unit settings.
func (c Config) UnitSystem() (units.System, error) {
	return units.Parse(c.Units.Linear, c.Units.Angular)
}

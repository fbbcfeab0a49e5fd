// Package config resolves the settings shared by every command.
//
// Precedence, lowest first: built-in defaults, the YAML config file, DFA_*
// environment variables, command-line flags (applied by the caller).
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/no-hao/DFA/pkg/adapters/text"
	"gopkg.in/yaml.v3"
)

// DefaultFile is read when no --config flag is given and the file exists.
const DefaultFile = "dfa.yaml"

// Config holds the resolved settings.
type Config struct {
	Definition   string      `yaml:"definition"`
	Entry        string      `yaml:"entry"`
	LogLevel     string      `yaml:"log_level"`
	LogFormat    string      `yaml:"log_format"`
	MaxInputSize int         `yaml:"max_input_size"`
	Redis        RedisConfig `yaml:"redis"`
	HTTP         HTTPConfig  `yaml:"http"`
}

// RedisConfig configures the transcript store. An empty Addr keeps transcripts in memory.
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	Prefix   string        `yaml:"prefix"`
	TTL      time.Duration `yaml:"ttl"`

	// EncryptionKey is a base64 AES-256 key. When set, transcripts are sealed at rest.
	EncryptionKey string `yaml:"encryption_key"`
}

// HTTPConfig configures the API server.
type HTTPConfig struct {
	Port string `yaml:"port"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Definition:   text.DefaultPath,
		LogLevel:     "warn",
		LogFormat:    "text",
		MaxInputSize: 4096,
		HTTP:         HTTPConfig{Port: "8080"},
	}
}

// Load builds the configuration from defaults, the file at path and the process environment.
// An empty path falls back to DefaultFile, which may be absent.
func Load(path string) (Config, error) {
	return LoadWithEnv(path, os.LookupEnv)
}

// LoadWithEnv is Load with an injectable environment lookup.
func LoadWithEnv(path string, lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
		if err := cfg.validate(); err != nil {
			return cfg, fmt.Errorf("invalid config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
		// Optional default file
	default:
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := cfg.applyEnv(lookup); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.MaxInputSize <= 0 {
		return fmt.Errorf("max_input_size must be positive, got %d", c.MaxInputSize)
	}
	if c.Redis.TTL < 0 {
		return fmt.Errorf("redis.ttl must not be negative, got %s", c.Redis.TTL)
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	str("DFA_DEFINITION", &c.Definition)
	str("DFA_ENTRY", &c.Entry)
	str("DFA_LOG_LEVEL", &c.LogLevel)
	str("DFA_LOG_FORMAT", &c.LogFormat)
	str("DFA_REDIS_ADDR", &c.Redis.Addr)
	str("DFA_REDIS_PASSWORD", &c.Redis.Password)
	str("DFA_REDIS_PREFIX", &c.Redis.Prefix)
	str("DFA_PORT", &c.HTTP.Port)
	str("DFA_ENCRYPTION_KEY", &c.Redis.EncryptionKey)

	if v, ok := lookup("DFA_REDIS_TTL"); ok && v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid DFA_REDIS_TTL: %w", err)
		}
		c.Redis.TTL = ttl
	}
	if v, ok := lookup("DFA_REDIS_DB"); ok && v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid DFA_REDIS_DB: %w", err)
		}
		c.Redis.DB = db
	}
	if v, ok := lookup("DFA_MAX_INPUT_SIZE"); ok && v != "" {
		size, err := strconv.Atoi(v)
		if err != nil || size <= 0 {
			return fmt.Errorf("invalid DFA_MAX_INPUT_SIZE: %q", v)
		}
		c.MaxInputSize = size
	}
	return nil
}

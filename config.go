package ecs

import (
	"strings"

	"github.com/JeremyLoy/config"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"

	"pkg.world.dev/world-engine/ecs/storage"
)

const (
	DefaultBackend  = "sparse"
	DefaultLogLevel = "info"
)

// Config is the environment driven configuration of a World. Fields left unset in the environment keep their
// defaults.
type Config struct {
	// DefaultBackend is the store backend used for component types registered without an explicit one.
	DefaultBackend string `config:"ECS_DEFAULT_BACKEND"`
	// DenseCapacity is the fixed capacity of dense stores. Ids at or above it cannot be stored.
	DenseCapacity int `config:"ECS_DENSE_CAPACITY"`
	// SparseCapacity is the initial capacity of the growable backends.
	SparseCapacity int    `config:"ECS_SPARSE_CAPACITY"`
	LogLevel       string `config:"ECS_LOG_LEVEL"`
	PrettyLog      bool   `config:"ECS_PRETTY_LOG"`
	StatsdAddress  string `config:"ECS_STATSD_ADDRESS"`
	// StatsdTags is a comma separated list of key:value tags added to every metric and tick span.
	StatsdTags   string `config:"ECS_STATSD_TAGS"`
	TraceEnabled bool   `config:"ECS_TRACE_ENABLED"`
}

func defaultConfig() Config {
	return Config{
		DefaultBackend: DefaultBackend,
		DenseCapacity:  storage.DefaultCapacity,
		SparseCapacity: storage.DefaultCapacity,
		LogLevel:       DefaultLogLevel,
	}
}

// LoadConfig returns the default configuration overridden by any matching environment variables.
func LoadConfig() (Config, error) {
	cfg, err := loadEnvConfig()
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// loadEnvConfig reads the environment over the defaults without validating the result.
func loadEnvConfig() (Config, error) {
	cfg := defaultConfig()
	if err := config.FromEnv().To(&cfg); err != nil {
		return cfg, eris.Wrap(err, "failed to load config from environment")
	}
	return cfg, nil
}

// Validate fills zero values with defaults and rejects values that cannot be used.
func (c *Config) Validate() error {
	def := defaultConfig()
	if c.DefaultBackend == "" {
		c.DefaultBackend = def.DefaultBackend
	}
	if c.DenseCapacity == 0 {
		c.DenseCapacity = def.DenseCapacity
	}
	if c.SparseCapacity == 0 {
		c.SparseCapacity = def.SparseCapacity
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}

	if _, err := c.Backend(); err != nil {
		return eris.Wrap(err, "invalid ECS_DEFAULT_BACKEND")
	}
	if c.DenseCapacity < 0 {
		return eris.Wrapf(storage.ErrInvalidCapacity, "ECS_DENSE_CAPACITY %d", c.DenseCapacity)
	}
	if c.SparseCapacity < 0 {
		return eris.Wrapf(storage.ErrInvalidCapacity, "ECS_SPARSE_CAPACITY %d", c.SparseCapacity)
	}
	if _, err := c.Level(); err != nil {
		return eris.Wrap(err, "invalid ECS_LOG_LEVEL")
	}
	return nil
}

func (c Config) Backend() (storage.Backend, error) {
	return storage.ParseBackend(c.DefaultBackend)
}

func (c Config) Level() (zerolog.Level, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		return zerolog.NoLevel, eris.Wrap(err, "")
	}
	return level, nil
}

// Tags splits StatsdTags, dropping empty entries.
func (c Config) Tags() []string {
	var tags []string
	for _, tag := range strings.Split(c.StatsdTags, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

func (c Config) capacityFor(b storage.Backend) int {
	if b == storage.Dense {
		return c.DenseCapacity
	}
	return c.SparseCapacity
}

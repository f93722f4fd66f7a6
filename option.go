package ecs

import (
	"github.com/rs/zerolog"

	"pkg.world.dev/world-engine/ecs/storage"
)

// WorldOption represents an option that can be used to augment how the World is built. Options are applied after
// the configuration is loaded from the environment, so they take precedence over it.
type WorldOption func(*World)

// WithConfig replaces the configuration loaded from the environment. Options given before it are overwritten.
func WithConfig(cfg Config) WorldOption {
	return func(w *World) {
		w.cfg = cfg
		w.cfgReplaced = true
	}
}

// WithLogger sets the logger used by the world and, through sub loggers, by every system.
func WithLogger(logger zerolog.Logger) WorldOption {
	return func(w *World) {
		w.logger = &logger
	}
}

func WithPrettyLog() WorldOption {
	return func(w *World) {
		w.cfg.PrettyLog = true
	}
}

// WithDefaultBackend sets the backend of component types registered without an explicit storage.WithBackend.
func WithDefaultBackend(b storage.Backend) WorldOption {
	return func(w *World) {
		w.cfg.DefaultBackend = b.String()
	}
}

func WithDenseCapacity(n int) WorldOption {
	return func(w *World) {
		w.cfg.DenseCapacity = n
	}
}

func WithSparseCapacity(n int) WorldOption {
	return func(w *World) {
		w.cfg.SparseCapacity = n
	}
}

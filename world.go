package ecs

import (
	"os"
	"reflect"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"

	"pkg.world.dev/world-engine/ecs/log"
	"pkg.world.dev/world-engine/ecs/statsd"
	"pkg.world.dev/world-engine/ecs/storage"
	"pkg.world.dev/world-engine/ecs/types"
)

var _ log.Loggable = (*World)(nil)

// World owns the component stores, the live entities and the systems. All operations go through a World; there
// is no package level state besides the metrics client.
type World struct {
	id     uuid.UUID
	cfg    Config
	logger *zerolog.Logger

	// cfgReplaced is set by WithConfig; the environment is then not consulted.
	cfgReplaced bool

	// mu guards the component registry so each store is created exactly once.
	mu         sync.Mutex
	components []*ComponentInfo
	byName     map[string]*ComponentInfo
	byType     map[reflect.Type]*ComponentInfo

	nextID  atomic.Uint64
	liveMu  sync.RWMutex
	live    map[types.EntityID]*Entity
	backend storage.Backend

	systemManager *systemManager
	tick          atomic.Uint64

	statsdStarted bool
	traceStarted  bool
}

// NewWorld creates a World configured from the environment and opts. Options are applied before the
// configuration is validated, so they can correct a bad environment; WithConfig ignores the environment entirely.
func NewWorld(opts ...WorldOption) (*World, error) {
	cfg, envErr := loadEnvConfig()

	w := &World{
		id:            uuid.New(),
		cfg:           cfg,
		byName:        make(map[string]*ComponentInfo),
		byType:        make(map[reflect.Type]*ComponentInfo),
		live:          make(map[types.EntityID]*Entity),
		systemManager: newSystemManager(),
	}
	for _, opt := range opts {
		opt(w)
	}

	if envErr != nil && !w.cfgReplaced {
		return nil, envErr
	}
	if err := w.cfg.Validate(); err != nil {
		return nil, err
	}
	w.backend, _ = w.cfg.Backend()

	if w.logger == nil {
		logger, err := newLogger(w.cfg)
		if err != nil {
			return nil, err
		}
		w.logger = &logger
	}
	logger := w.logger.With().Str("world_id", w.id.String()).Logger()
	w.logger = &logger

	if w.cfg.StatsdAddress != "" {
		if err := statsd.Init(w.cfg.StatsdAddress, w.cfg.Tags()); err != nil {
			return nil, eris.Wrap(err, "failed to start statsd client")
		}
		w.statsdStarted = true
	}
	if w.cfg.TraceEnabled {
		tracer.Start(tracer.WithService("ecs"), tracer.WithLogStartup(false))
		w.traceStarted = true
	}

	w.logger.Debug().
		Str("default_backend", w.backend.String()).
		Int("dense_capacity", w.cfg.DenseCapacity).
		Int("sparse_capacity", w.cfg.SparseCapacity).
		Msg("World created")
	return w, nil
}

func newLogger(cfg Config) (zerolog.Logger, error) {
	level, err := cfg.Level()
	if err != nil {
		return zerolog.Logger{}, err
	}
	if cfg.PrettyLog {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger(), nil
	}
	return zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger(), nil
}

func (w *World) ID() uuid.UUID {
	return w.id
}

func (w *World) Config() Config {
	return w.cfg
}

func (w *World) Logger() *zerolog.Logger {
	return w.logger
}

// InjectLogger replaces the world logger. System loggers are derived from it at the start of each tick.
func (w *World) InjectLogger(logger *zerolog.Logger) {
	w.logger = logger
}

func (w *World) CurrentTick() uint64 {
	return w.tick.Load()
}

// Entities returns the live population in creation order.
func (w *World) Entities() []*Entity {
	w.liveMu.RLock()
	entities := make([]*Entity, 0, len(w.live))
	for _, e := range w.live {
		entities = append(entities, e)
	}
	w.liveMu.RUnlock()

	sort.Slice(entities, func(i, j int) bool {
		return entities[i].id < entities[j].id
	})
	return entities
}

// Entity returns the live entity with the given id.
func (w *World) Entity(id types.EntityID) (*Entity, bool) {
	w.liveMu.RLock()
	defer w.liveMu.RUnlock()
	e, ok := w.live[id]
	return e, ok
}

// Close destroys every live entity and stops the metrics and trace clients the world started.
func (w *World) Close() error {
	for _, e := range w.Entities() {
		_ = e.Destroy()
	}
	if w.traceStarted {
		tracer.Stop()
		w.traceStarted = false
	}
	if w.statsdStarted {
		w.statsdStarted = false
		if err := statsd.Reset(); err != nil {
			return err
		}
	}
	w.logger.Debug().Uint64("tick", w.CurrentTick()).Msg("World closed")
	return nil
}

// GetRegisteredComponents returns the registered component types ordered by id.
func (w *World) GetRegisteredComponents() []types.ComponentMetadata {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]types.ComponentMetadata, 0, len(w.components))
	for _, info := range w.components {
		out = append(out, info)
	}
	return out
}

// GetRegisteredSystems returns the system names in execution order.
func (w *World) GetRegisteredSystems() []string {
	return w.systemManager.GetSystemNames()
}

// LogWorld writes the registered components and systems to the world logger.
func (w *World) LogWorld(level zerolog.Level) {
	log.World(w.logger, w, level)
}

func (w *World) addLive(e *Entity) {
	w.liveMu.Lock()
	defer w.liveMu.Unlock()
	w.live[e.id] = e
}

func (w *World) removeLive(id types.EntityID) {
	w.liveMu.Lock()
	defer w.liveMu.Unlock()
	delete(w.live, id)
}

// entityLists serves the per-entity tagged lists to List backed stores.
type entityLists struct {
	w *World
}

func (h entityLists) TaggedList(id types.EntityID) (*storage.TaggedList, bool) {
	e, ok := h.w.Entity(id)
	if !ok {
		return nil, false
	}
	return &e.list, true
}

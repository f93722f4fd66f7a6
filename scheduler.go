package ecs

import (
	"context"
	"path/filepath"
	"reflect"
	"runtime"
	"time"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"

	"pkg.world.dev/world-engine/ecs/log"
	"pkg.world.dev/world-engine/ecs/statsd"
)

// System is a behavior bound to one query. It receives the fresh results of that query for the tick.
type System[R any] func(sCtx SystemContext, results []R) error

// SystemContext is what a system sees of the tick it runs in.
type SystemContext struct {
	ctx    context.Context
	world  *World
	logger *zerolog.Logger
	tick   uint64
}

func (s SystemContext) Context() context.Context {
	return s.ctx
}

// Logger returns the world logger with a "system" field set to the running system's name.
func (s SystemContext) Logger() *zerolog.Logger {
	return s.logger
}

func (s SystemContext) CurrentTick() uint64 {
	return s.tick
}

func (s SystemContext) World() *World {
	return s.world
}

// erasedSystem binds its query and runs the typed callback.
type erasedSystem func(sCtx SystemContext, entities []*Entity) error

type systemManager struct {
	// registeredSystems is a list of all the registered system names in the order that they were registered.
	// This is represented as a list as maps in Go are unordered.
	registeredSystems []string

	// systemFn is a map of system names to system functions.
	systemFn map[string]erasedSystem

	// currentSystem is the name of the system that is currently running.
	currentSystem *string
}

func newSystemManager() *systemManager {
	return &systemManager{
		registeredSystems: make([]string, 0),
		systemFn:          make(map[string]erasedSystem),
		currentSystem:     nil,
	}
}

// RegisterSystem appends fn to the systems run by Tick. The system name is derived from the function name; use
// RegisterNamedSystem for function literals that need a stable name.
func RegisterSystem[R any](w *World, q Query[R], fn System[R]) error {
	systemName := filepath.Base(runtime.FuncForPC(reflect.ValueOf(fn).Pointer()).Name())
	return RegisterNamedSystem(w, systemName, q, fn)
}

// RegisterNamedSystem is RegisterSystem with an explicit name. Names must be unique within a world.
func RegisterNamedSystem[R any](w *World, name string, q Query[R], fn System[R]) error {
	if fn == nil {
		return eris.Errorf("system %q is nil", name)
	}
	if q.bind == nil {
		return eris.Wrapf(ErrIllFormedQuery, "system %q has an empty query", name)
	}
	return w.systemManager.register(name, func(sCtx SystemContext, entities []*Entity) error {
		match, err := q.Bind(sCtx.world)
		if err != nil {
			return err
		}
		return fn(sCtx, collect(sCtx.world, match, entities))
	})
}

func (m *systemManager) register(name string, system erasedSystem) error {
	if _, ok := m.systemFn[name]; ok {
		return eris.Wrapf(ErrDuplicateSystem, "system %q", name)
	}
	m.registeredSystems = append(m.registeredSystems, name)
	m.systemFn[name] = system
	return nil
}

func (m *systemManager) GetSystemNames() []string {
	return append([]string(nil), m.registeredSystems...)
}

func (m *systemManager) GetCurrentSystem() string {
	if m.currentSystem == nil {
		return "no_system"
	}
	return *m.currentSystem
}

// runSystems runs all the registered systems in the order that they were registered. The first error stops the
// tick.
func (m *systemManager) runSystems(ctx context.Context, w *World, entities []*Entity) error {
	allSystemStartTime := time.Now()
	for _, systemName := range m.registeredSystems {
		// Explicit memory aliasing
		sysName := systemName
		m.currentSystem = &sysName

		span, spanCtx := tracer.StartSpanFromContext(ctx, "ecs.span.system", tracer.ResourceName(sysName))
		sCtx := SystemContext{
			ctx:    spanCtx,
			world:  w,
			logger: log.CreateSystemLogger(w.logger, sysName),
			tick:   w.CurrentTick(),
		}

		// Executes the system function that the user registered
		systemStartTime := time.Now()
		err := m.systemFn[sysName](sCtx, entities)
		span.Finish(tracer.WithError(err))
		if err != nil {
			m.currentSystem = nil
			return eris.Wrapf(err, "system %s generated an error", sysName)
		}

		// Emit the total time it took to run `systemName`
		statsd.EmitTickStat(systemStartTime, sysName)
	}

	// Set the current system to nil to indicate that no system is currently running
	m.currentSystem = nil

	// Emit the total time it took to run all systems
	statsd.EmitTickStat(allSystemStartTime, "all_systems")

	return nil
}

// Systems returns the registered system names in execution order.
func (w *World) Systems() []string {
	return w.systemManager.GetSystemNames()
}

// Tick runs every system once, in registration order, each over its own fresh query results computed from
// entities. A system error aborts the tick and the tick counter is not advanced.
func (w *World) Tick(ctx context.Context, entities []*Entity) (err error) {
	startTime := time.Now()

	// This defer is here to catch any panics that occur during the tick. It will log the current tick and the
	// current system that is running.
	defer w.handleTickPanic()

	opts := []tracer.StartSpanOption{tracer.Tag("tick", w.CurrentTick())}
	for key, value := range statsd.TraceTags() {
		opts = append(opts, tracer.Tag(key, value))
	}
	var span tracer.Span
	span, ctx = tracer.StartSpanFromContext(ctx, "ecs.span.tick", opts...)
	defer func() {
		span.Finish(tracer.WithError(err))
	}()

	w.logger.Debug().Uint64("tick", w.CurrentTick()).Int("entities", len(entities)).Msg("Tick started")
	statsd.EmitEntityCount(len(entities))

	if err := w.systemManager.runSystems(ctx, w, entities); err != nil {
		w.logger.Error().Err(err).Uint64("tick", w.CurrentTick()).Msg("Tick aborted")
		return err
	}

	w.tick.Add(1)
	statsd.EmitTickStat(startTime, "full_tick")
	w.logger.Debug().Uint64("tick", w.CurrentTick()).Msg("Tick finished")
	return nil
}

// TickLive runs a tick over the live population.
func (w *World) TickLive(ctx context.Context) error {
	return w.Tick(ctx, w.Entities())
}

func (w *World) handleTickPanic() {
	if r := recover(); r != nil {
		w.logger.Error().Msgf(
			"Tick: %d, Current running system: %s",
			w.CurrentTick(),
			w.systemManager.GetCurrentSystem(),
		)
		panic(r)
	}
}

// Package session owns the embedded database instance behind sqlbench.
//
// A Session lazily opens one in-memory instance of the configured engine,
// serializes every operation on it, and shapes outcomes into core.Result.
// Callers never receive the instance itself.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/leapstack-labs/sqlbench/pkg/core"
	"github.com/leapstack-labs/sqlbench/pkg/engine"
)

// State is the lifecycle state of a session.
type State int32

// Lifecycle states.
const (
	StateUninitialized State = iota
	StateInitializing
	StateReady
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Config configures a Session.
type Config struct {
	// EngineConfig selects the engine from the registry.
	EngineConfig core.EngineConfig

	// Engine overrides registry resolution when set.
	Engine core.Engine

	Logger *slog.Logger
}

// Session manages the single database instance.
type Session struct {
	cfg    Config
	logger *slog.Logger

	// mu guards every access to inst and the fields below it.
	mu         sync.Mutex
	eng        core.Engine
	inst       core.Instance
	generation string

	state atomic.Int32
	init  singleflight.Group
}

// New creates a session. No engine work happens until the first call
// that needs the database.
func New(cfg Config) *Session {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Session{
		cfg:    cfg,
		logger: logger.With("component", "session"),
		eng:    cfg.Engine,
	}
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	return State(s.state.Load())
}

// Generation returns the ID of the live instance, or "" if there is none.
// It changes on every successful initialization or reset.
func (s *Session) Generation() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// EnsureReady guarantees that a live instance exists.
//
// It returns immediately when the session is ready. Concurrent callers
// share one initialization attempt and observe its outcome. A failed
// attempt returns a *core.EngineInitError and leaves the session
// uninitialized, so a later call retries.
func (s *Session) EnsureReady(ctx context.Context) error {
	switch s.State() {
	case StateReady:
		return nil
	case StateClosed:
		return core.ErrNotReady
	}

	ch := s.init.DoChan("init", func() (any, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		return nil, s.initLocked(context.WithoutCancel(ctx))
	})

	select {
	case <-ctx.Done():
		return ctx.Err()
	case res := <-ch:
		return res.Err
	}
}

// Reset discards the live instance and replaces it with a new empty one.
// A failure to release the old instance is logged, not returned.
// If the session was never initialized, Reset initializes it.
func (s *Session) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.State() == StateClosed {
		return core.ErrNotReady
	}
	if s.inst == nil {
		s.logger.Debug("reset before initialization, initializing")
		return s.initLocked(ctx)
	}

	previous := s.generation
	s.releaseLocked()

	if err := s.openLocked(ctx); err != nil {
		return err
	}
	s.logger.Info("database reset", "generation", s.generation, "previous", previous)
	return nil
}

// Close releases the instance. The session cannot be used afterwards.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.State() == StateClosed {
		return nil
	}
	s.state.Store(int32(StateClosed))

	if s.inst == nil {
		return nil
	}
	inst, gen := s.inst, s.generation
	s.inst, s.generation = nil, ""
	if err := inst.Close(); err != nil {
		return fmt.Errorf("failed to close instance %s: %w", gen, err)
	}
	s.logger.Debug("session closed", "generation", gen)
	return nil
}

func (s *Session) initLocked(ctx context.Context) error {
	switch s.State() {
	case StateReady:
		return nil
	case StateClosed:
		return core.ErrNotReady
	}
	if err := s.openLocked(ctx); err != nil {
		return err
	}
	s.logger.Info("database initialized", "engine", s.eng.Name(), "generation", s.generation)
	return nil
}

// openLocked opens a fresh instance and makes it live.
func (s *Session) openLocked(ctx context.Context) error {
	s.state.Store(int32(StateInitializing))

	inst, err := s.openInstance(ctx)
	if err != nil {
		s.state.Store(int32(StateUninitialized))
		s.logger.Error("engine initialization failed", "error", err)
		return err
	}

	s.inst = inst
	s.generation = uuid.NewString()
	s.state.Store(int32(StateReady))
	return nil
}

func (s *Session) openInstance(ctx context.Context) (core.Instance, error) {
	if s.eng == nil {
		eng, err := engine.NewEngine(s.cfg.EngineConfig, s.logger)
		if err != nil {
			return nil, &core.EngineInitError{Engine: s.engineName(), Err: err}
		}
		s.eng = eng
	}

	inst, err := s.eng.Open(ctx)
	if err != nil {
		return nil, &core.EngineInitError{Engine: s.eng.Name(), Err: err}
	}
	return inst, nil
}

func (s *Session) engineName() string {
	if s.cfg.EngineConfig.Type != "" {
		return s.cfg.EngineConfig.Type
	}
	return engine.DefaultType
}

// releaseLocked closes the live instance. Close failures are logged.
func (s *Session) releaseLocked() {
	inst, gen := s.inst, s.generation
	s.inst, s.generation = nil, ""
	s.state.Store(int32(StateUninitialized))

	if err := inst.Close(); err != nil {
		rerr := &core.ResetError{Generation: gen, Err: err}
		s.logger.Warn("failed to release previous instance", "error", rerr)
	}
}

// liveLocked returns the live instance or ErrNotReady.
func (s *Session) liveLocked() (core.Instance, error) {
	if s.inst == nil {
		return nil, core.ErrNotReady
	}
	return s.inst, nil
}

// acquire makes sure the session is ready and locks it.
// On success the caller must unlock s.mu.
func (s *Session) acquire(ctx context.Context) (core.Instance, error) {
	if err := s.EnsureReady(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	inst, err := s.liveLocked()
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	return inst, nil
}

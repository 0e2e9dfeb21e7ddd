package engine

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/leapstack-labs/sqlbench/pkg/core"
)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// Register adds an engine factory to the registry.
// Called by engine implementations in their init() functions.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[strings.ToLower(name)] = factory
}

// Get retrieves an engine factory by name. Lookup is case-insensitive.
func Get(name string) (Factory, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	f, ok := registry[strings.ToLower(name)]
	return f, ok
}

// NewEngine creates an engine based on config type.
// An empty type selects DefaultType.
func NewEngine(cfg core.EngineConfig, logger *slog.Logger) (core.Engine, error) {
	typ := cfg.Type
	if typ == "" {
		typ = DefaultType
	}

	factory, ok := Get(typ)
	if !ok {
		return nil, &UnknownEngineError{
			Type:      typ,
			Available: ListEngines(),
		}
	}

	eng, err := factory(cfg, discardIfNil(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to configure %s engine: %w", typ, err)
	}
	return eng, nil
}

// ListEngines returns all registered engine names (sorted).
func ListEngines() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRegistered checks if an engine type is registered.
func IsRegistered(name string) bool {
	_, ok := Get(name)
	return ok
}

// UnknownEngineError is returned when an unknown engine type is requested.
type UnknownEngineError struct {
	Type      string
	Available []string
}

func (e *UnknownEngineError) Error() string {
	return fmt.Sprintf("unknown engine type %q\nAvailable engines: %v\nHint: Check engine.type in sqlbench.yaml", e.Type, e.Available)
}

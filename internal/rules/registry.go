package rules

import (
	"errors"
	"fmt"
	"sync"
)

var (
	registryMu sync.RWMutex
	registry   map[string]*Plugin
	ordered    []*Plugin

	// ErrDuplicatePlugin indicates a plugin ID is already registered.
	ErrDuplicatePlugin = errors.New("rules: plugin already registered")
	// ErrInvalidPlugin indicates a plugin with an empty ID.
	ErrInvalidPlugin = errors.New("rules: invalid plugin id")
	// ErrNilPlugin indicates a nil plugin registration attempt.
	ErrNilPlugin = errors.New("rules: nil plugin")
	// ErrUnknownPlugin indicates no plugin is registered under the ID.
	ErrUnknownPlugin = errors.New("rules: plugin not registered")
)

// Register adds a plugin to the process-wide registry. The registry is
// shared across matches, which is safe because plugins carry no per-match
// state. Safe for concurrent use.
func Register(p *Plugin) error {
	if p == nil {
		return ErrNilPlugin
	}
	if p.ID == "" {
		return ErrInvalidPlugin
	}

	registryMu.Lock()
	defer registryMu.Unlock()
	if registry == nil {
		registry = make(map[string]*Plugin)
	}
	if _, exists := registry[p.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicatePlugin, p.ID)
	}
	registry[p.ID] = p
	ordered = append(ordered, p)
	return nil
}

// MustRegister is Register for init-time use by built-in plugins.
func MustRegister(p *Plugin) {
	if err := Register(p); err != nil {
		panic(err)
	}
}

// Lookup returns the plugin registered under id.
func Lookup(id string) (*Plugin, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	p, ok := registry[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPlugin, id)
	}
	return p, nil
}

// Registered returns all plugins in registration order.
func Registered() []*Plugin {
	registryMu.RLock()
	defer registryMu.RUnlock()

	out := make([]*Plugin, len(ordered))
	copy(out, ordered)
	return out
}

package provider

import (
	"fmt"
	"slices"
	"sync"
)

// Factory builds a Client for one sculpt call. It receives the config
// snapshot taken when the call started.
type Factory func(cfg Config) (Client, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// Register makes a backend available under name. Backends call it from
// init; registering the same name twice panics.
//
//	func init() {
//	    provider.Register(Name, func(cfg provider.Config) (provider.Client, error) {
//	        return NewClient(WithAPIKey(cfg.APIKey), WithModel(cfg.Model))
//	    })
//	}
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, dup := registry[name]; dup {
		panic(fmt.Sprintf("provider %q already registered", name))
	}
	registry[name] = factory
}

// New validates cfg and builds a client for cfg.Provider. An unregistered
// name yields ErrUnknownProvider.
func New(cfg Config) (Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	registryMu.RLock()
	factory, ok := registry[cfg.Provider]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, cfg.Provider)
	}
	return factory(cfg)
}

// Available returns the registered names in sorted order.
func Available() []string {
	registryMu.RLock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	registryMu.RUnlock()

	slices.Sort(names)
	return names
}

// IsRegistered reports whether name has a factory.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := registry[name]
	return ok
}

// Unregister removes name. Tests use it to clean up fakes.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(registry, name)
}

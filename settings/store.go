// Package settings persists the provider configuration between sessions.
//
// The engine reads a Config from a Store at the start of every sculpt and
// never writes to it. The settings dialog and the CLI write through Set.
//
// Two stores are provided:
//
//   - MemoryStore: process-local, used by tests and one-shot runs.
//   - FileStore: a TOML (or YAML) file holding the config under the
//     namespaced key "vibe-sculptor_settings". Edits made to the file by
//     other processes are picked up by Watch.
package settings

import (
	"sync"

	"github.com/randalmurphal/sculpt/provider"
)

// Key is the namespaced key the config is stored under.
const Key = "vibe-sculptor_settings"

// Store holds the provider configuration.
type Store interface {
	// Get returns the current config, or provider.DefaultConfig() if nothing
	// has been saved.
	Get() provider.Config

	// Set replaces the saved config.
	Set(provider.Config) error
}

// MemoryStore is an in-memory Store. It is safe for concurrent use.
type MemoryStore struct {
	mu  sync.RWMutex
	cfg provider.Config
}

// NewMemoryStore returns a store preloaded with provider.DefaultConfig().
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{cfg: provider.DefaultConfig()}
}

// NewMemoryStoreWith returns a store preloaded with cfg.
func NewMemoryStoreWith(cfg provider.Config) *MemoryStore {
	return &MemoryStore{cfg: cfg}
}

// Get implements Store.
func (s *MemoryStore) Get() provider.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Set implements Store.
func (s *MemoryStore) Set(cfg provider.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = cfg
	return nil
}

// Layered applies session overrides to a saved store. Get returns the
// overridden config; Set and Saved go straight to the saved store, so an
// override never reaches disk.
type Layered struct {
	Base  Store
	Apply func(provider.Config) provider.Config
}

// Get implements Store.
func (l Layered) Get() provider.Config {
	cfg := l.Base.Get()
	if l.Apply == nil {
		return cfg
	}
	return l.Apply(cfg)
}

// Set implements Store.
func (l Layered) Set(cfg provider.Config) error {
	return l.Base.Set(cfg)
}

// Saved returns the saved config without overrides.
func (l Layered) Saved() provider.Config {
	return l.Base.Get()
}

// Saved returns what s would persist: the saved config beneath any session
// overrides.
func Saved(s Store) provider.Config {
	if l, ok := s.(Layered); ok {
		return l.Saved()
	}
	return s.Get()
}

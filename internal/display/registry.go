package display

import (
	"fmt"
	"sync"
)

// Registry holds display providers and picks one at startup.
type Registry struct {
	providers []Provider
	mu        sync.RWMutex
}

var globalRegistry = &Registry{}

// Register adds a display provider to the global registry. Called from init()
// in the provider packages; registration order sets detection priority.
func Register(provider Provider) {
	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()
	globalRegistry.providers = append(globalRegistry.providers, provider)
}

// DetectDisplay returns the first registered provider that reports available.
func DetectDisplay() (Provider, error) {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()

	for _, p := range globalRegistry.providers {
		if p.IsAvailable() {
			return p, nil
		}
	}

	return nil, fmt.Errorf("no compatible display server detected (tried %d providers)", len(globalRegistry.providers))
}

// GetProvider returns the provider with the given name, or nil.
func GetProvider(name string) Provider {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()

	for _, p := range globalRegistry.providers {
		if p.GetDisplayInfo().Name == name {
			return p
		}
	}

	return nil
}

// ProviderNames lists registered provider names in priority order.
func ProviderNames() []string {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()

	names := make([]string, 0, len(globalRegistry.providers))
	for _, p := range globalRegistry.providers {
		names = append(names, p.GetDisplayInfo().Name)
	}
	return names
}

// ClearProviders removes all registered providers (for tests).
func ClearProviders() {
	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()
	globalRegistry.providers = nil
}

// Package mock implements the simulated BLE backend: in-process adapters
// whose shared "radio" is a registry. An advertisement on one registered
// adapter is observable by any other registered adapter that is scanning.
package mock

import (
	"sync"

	"github.com/ghostmesh/blesim"
)

// Registry is the shared medium for a set of mock adapters. It is a plain
// object: callers create one per fabric (tests create one per case) and pass
// it to NewAdapter. There is no package-level registry.
type Registry struct {
	mu       sync.RWMutex
	adapters map[string]*Adapter
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{adapters: make(map[string]*Adapter)}
}

// Register binds id to a. Ids must be unique among live adapters; a
// collision is rejected rather than silently overwriting the earlier entry.
func (r *Registry) Register(id string, a *Adapter) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.adapters[id]; ok {
		return blesim.Errorf(blesim.CodeInvalidParameter, "adapter id %q already registered", id)
	}
	r.adapters[id] = a
	return nil
}

// Lookup returns the adapter bound to id.
func (r *Registry) Lookup(id string) (*Adapter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.adapters[id]
	return a, ok
}

// Unregister removes the binding for id, but only while it still refers to
// a. The guard keeps a stale adapter from removing a newer registration that
// reused its id.
func (r *Registry) Unregister(id string, a *Adapter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.adapters[id]; ok && cur == a {
		delete(r.adapters, id)
	}
}

// Len reports the number of live registrations.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.adapters)
}

// Snapshot returns the adapters registered at the time of the call. Each
// current entry appears exactly once; order is unspecified.
func (r *Registry) Snapshot() []*Adapter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Adapter, 0, len(r.adapters))
	for _, a := range r.adapters {
		out = append(out, a)
	}
	return out
}

// SetRadioPower simulates the shared physical radio being switched: the
// power transition is applied to every registered adapter. Per-adapter
// transitions go through Adapter.State directives instead.
func (r *Registry) SetRadioPower(state blesim.AdapterState) {
	for _, a := range r.Snapshot() {
		a.setPower(state)
	}
}

// broadcastDiscovery delivers dev to every registered adapter other than
// from. Adapters that are not scanning ignore the delivery.
func (r *Registry) broadcastDiscovery(from *Adapter, dev blesim.DiscoveredDevice) {
	for _, peer := range r.Snapshot() {
		if peer == from {
			continue
		}
		peer.deliverDiscovery(dev)
	}
}

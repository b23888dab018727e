// Package filter implements the pixel-effect plugin system: a registry of
// named filters, parameter validation, and an ordered-chain applicator.
package filter

import (
	"context"
	"fmt"
	"sync"

	"github.com/Skryldev/imgfit/raster"
)

// Params is a named parameter bag passed to a filter's Validate/Apply.
type Params map[string]float64

// ValidationResult reports whether Params are acceptable for a filter.
type ValidationResult struct {
	Valid    bool
	Errors   []string
	Warnings []string
}

// Plugin is the uniform contract every filter implements, whether it is
// hand-rolled or backed by a third-party library under the hood.
type Plugin interface {
	Name() string
	DefaultParams() Params
	Validate(p Params) (ValidationResult, error)
	Apply(ctx context.Context, r *raster.Raster, p Params) (*raster.Raster, error)
}

// Op is one entry in a recorded filter chain: a filter name plus its params.
type Op struct {
	Name   string
	Params Params
}

// Registry maps a filter name to its Plugin, guarded by an RWMutex — the
// same "last registration wins" pattern used for the decoder registry.
type Registry struct {
	mu      sync.RWMutex
	plugins map[string]Plugin
}

// NewRegistry returns a registry pre-populated with every built-in filter.
func NewRegistry() *Registry {
	r := &Registry{plugins: make(map[string]Plugin)}
	for _, p := range builtins() {
		r.Register(p)
	}
	return r
}

// Register adds or replaces a plugin by name; idempotent, last wins.
func (r *Registry) Register(p Plugin) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.plugins[p.Name()] = p
}

// Lookup returns the plugin registered under name, if any.
func (r *Registry) Lookup(name string) (Plugin, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.plugins[name]
	return p, ok
}

// AvailableFilters returns the set of currently registered filter names.
func (r *Registry) AvailableFilters() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.plugins))
	for n := range r.plugins {
		names = append(names, n)
	}
	return names
}

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the package-level registry used by ApplyChain when
// no custom Registry is threaded through explicitly.
func DefaultRegistry() *Registry { return defaultRegistry }

// ApplyFilter validates params, merging in defaults for anything omitted,
// then applies the named filter.
func (r *Registry) ApplyFilter(ctx context.Context, img *raster.Raster, name string, params Params) (*raster.Raster, error) {
	p, ok := r.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("filter: unknown filter %q", name)
	}
	merged := mergeParams(p.DefaultParams(), params)
	res, err := p.Validate(merged)
	if err != nil {
		return nil, fmt.Errorf("filter %q: %w", name, err)
	}
	if !res.Valid {
		return nil, fmt.Errorf("filter %q: invalid params: %v", name, res.Errors)
	}
	return p.Apply(ctx, img, merged)
}

func mergeParams(defaults, override Params) Params {
	out := make(Params, len(defaults))
	for k, v := range defaults {
		out[k] = v
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}

// ApplyChain applies ops in order against the default registry, aborting on
// the first failure and reporting its index.
func ApplyChain(ctx context.Context, img *raster.Raster, ops []Op) (*raster.Raster, error) {
	return DefaultRegistry().ApplyChain(ctx, img, ops)
}

// ApplyChain applies ops in order, aborting on the first failure and
// reporting its index so the caller knows which op in the chain failed.
func (r *Registry) ApplyChain(ctx context.Context, img *raster.Raster, ops []Op) (*raster.Raster, error) {
	cur := img
	for i, op := range ops {
		next, err := r.ApplyFilter(ctx, cur, op.Name, op.Params)
		if err != nil {
			return nil, fmt.Errorf("filter chain aborted at index %d (%s): %w", i, op.Name, err)
		}
		cur = next
	}
	return cur, nil
}

// Package scope implements a pluggable scope abstraction: a scope wraps an
// inner producer and decides how its output is reused. Scopes are a
// registry of named factories rather than a fixed enum, so a user-defined
// scope registers and is looked up the same way the built-in Singleton is.
package scope

import "sync"

// Producer creates one instance. It is called at most once per Produce on
// the wrapped scope.
type Producer func() (interface{}, error)

// Scoped is a producer wrapped with a reuse policy.
type Scoped interface {
	Produce() (interface{}, error)
}

// Factory wraps inner into a Scoped value implementing one scope policy.
type Factory func(inner Producer) Scoped

// defaultScoped delegates directly: a fresh instance on every call.
type defaultScoped struct {
	inner Producer
}

func (d *defaultScoped) Produce() (interface{}, error) { return d.inner() }

// Default wraps inner with no reuse policy.
func Default(inner Producer) Scoped { return &defaultScoped{inner: inner} }

// singletonScoped memoizes the first result for the Context's lifetime.
// The mutex makes produce-once safe even if a caller resolves the same
// Context concurrently from multiple goroutines.
type singletonScoped struct {
	inner Producer
	mu    sync.Mutex
	done  bool
	value interface{}
	err   error
}

func (s *singletonScoped) Produce() (interface{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return s.value, s.err
	}
	s.value, s.err = s.inner()
	s.done = true
	return s.value, s.err
}

// Singleton wraps inner so its first result is returned for every
// subsequent call.
func Singleton(inner Producer) Scoped { return &singletonScoped{inner: inner} }

// pooledScoped is a reference user-defined scope: the first N calls
// populate a bounded pool, later calls round-robin through it.
type pooledScoped struct {
	inner Producer
	max   int
	mu    sync.Mutex
	pool  []interface{}
	next  int
}

func (p *pooledScoped) Produce() (interface{}, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.pool) < p.max {
		v, err := p.inner()
		if err != nil {
			return nil, err
		}
		p.pool = append(p.pool, v)
		return v, nil
	}
	v := p.pool[p.next%p.max]
	p.next++
	return v, nil
}

// Pooled returns a Factory maintaining at most max distinct instances,
// round-robining through them once the pool fills.
func Pooled(max int) Factory {
	return func(inner Producer) Scoped {
		return &pooledScoped{inner: inner, max: max}
	}
}

// Registry maps a scope name to the factory that realizes it. Singleton is
// pre-registered; Default needs no registry entry since every binding
// without a scope annotation uses it directly.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry returns a Registry with Singleton pre-registered.
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[string]Factory)}
	r.Register("singleton", Singleton)
	return r
}

// Register adds or replaces the factory for name.
func (r *Registry) Register(name string, factory Factory) {
	r.factories[name] = factory
}

// Lookup returns the factory registered for name, and whether it exists.
func (r *Registry) Lookup(name string) (Factory, bool) {
	f, ok := r.factories[name]
	return f, ok
}

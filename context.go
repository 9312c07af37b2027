package ioc

import (
	"reflect"

	"github.com/calummacc/ioc/component"
	"github.com/calummacc/ioc/scope"
)

// binding pairs one ComponentKey with its scope-wrapped provider, as
// stored inside a resolved Context.
type binding struct {
	key    component.ComponentKey
	scoped scope.Scoped
}

// Context is the immutable, fully-validated registry returned by
// Config.Resolve. It is the only way to obtain component values once a
// Config has been resolved; it holds no reference back to the Config that
// built it.
type Context struct {
	entries map[string]*binding
}

// ProviderHandle is the adapter returned by Get for an indirect
// (Provider[T]) ref. Its own Get defers production until called, so
// holding a ProviderHandle does not itself construct anything. This is a
// concrete, non-generic stand-in for the generic Provider[T] func type:
// the public Context.Get signature has no type parameter to instantiate
// Provider[T] with, so it hands back something that behaves the same way
// instead.
type ProviderHandle struct {
	ctx *Context
	key component.ComponentKey
}

// Get produces the handle's target component on demand.
func (h *ProviderHandle) Get() (interface{}, error) {
	v, err := h.ctx.produce(h.key)
	if err != nil {
		return nil, err
	}
	return v.Interface(), nil
}

// Get resolves ref against this Context. A Direct ref returns the
// component value itself. An unsupported ref (a slice or other
// multi-valued container type) always misses. An indirect (Provider[T])
// ref returns a *ProviderHandle once its key has a binding, without
// producing the value yet — production happens when the caller calls the
// handle's own Get.
func (c *Context) Get(ref component.ComponentRef) (interface{}, bool) {
	if !ref.IsSupported() {
		return nil, false
	}
	if ref.IsIndirect() {
		if _, ok := c.entries[ref.Key.HashKey()]; !ok {
			return nil, false
		}
		return &ProviderHandle{ctx: c, key: ref.Key}, true
	}
	v, err := c.produce(ref.Key)
	if err != nil {
		return nil, false
	}
	return v.Interface(), true
}

// Keys returns every ComponentKey this Context has a binding for, in no
// particular order. Used by fxbridge to enumerate what to hand off to an
// fx.App without needing a back-reference to the Config that built this
// Context.
func (c *Context) Keys() []component.ComponentKey {
	keys := make([]component.ComponentKey, 0, len(c.entries))
	for _, b := range c.entries {
		keys = append(keys, b.key)
	}
	return keys
}

// produce resolves key to a reflect.Value of its registered type,
// producing through that key's scope policy. Used both by the public Get
// and internally by resolveValue when building injection-site arguments.
func (c *Context) produce(key component.ComponentKey) (reflect.Value, error) {
	b, ok := c.entries[key.HashKey()]
	if !ok {
		return reflect.Value{}, &component.DependencyNotFound{Dependency: key}
	}
	val, err := b.scoped.Produce()
	if err != nil {
		return reflect.Value{}, err
	}
	if val == nil {
		return reflect.Zero(key.Type), nil
	}
	return reflect.ValueOf(val), nil
}

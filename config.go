package ioc

import (
	"reflect"

	govalidator "github.com/go-playground/validator/v10"

	"github.com/calummacc/ioc/component"
	"github.com/calummacc/ioc/internal/ilog"
	"github.com/calummacc/ioc/introspect"
	"github.com/calummacc/ioc/scope"
)

// qualifierValidate checks the built-in Named qualifier's value with a
// struct-tag validator rather than by hand: an empty Named("") is a
// binding-author mistake (key.String() renders it as a bare trailing "@"
// in every error message), so it is rejected structurally instead of
// silently accepted.
var qualifierValidate = govalidator.New()

type namedQualifierValue struct {
	Value string `validate:"required"`
}

// checkQualifier rejects an empty Named("") qualifier as an
// IllegalComponent. User-defined Qualifier implementations are not
// inspected here — they are responsible for their own Equal/String
// contract.
func checkQualifier(t reflect.Type, q component.Qualifier) error {
	named, ok := q.(component.Named)
	if !ok {
		return nil
	}
	if err := qualifierValidate.Struct(namedQualifierValue{Value: string(named)}); err != nil {
		return &component.IllegalComponent{Type: t, Reason: "empty Named qualifier: " + err.Error()}
	}
	return nil
}

// Config is the mutable binding catalog users build up before calling
// Resolve. It is not safe for concurrent use while being built; the
// Context it produces is immutable and safe to share once built.
type Config struct {
	scopes     *scope.Registry
	entries    []*entry
	scopeNames []string
	eager      bool
}

// Option configures a Config at construction time.
type Option func(*Config)

// WithScope registers a user-defined scope under name, so BindTypeScoped(...,
// name) can refer to it. Singleton is pre-registered; Default needs no
// registration.
func WithScope(name string, factory scope.Factory) Option {
	return func(c *Config) { c.scopes.Register(name, factory) }
}

// WithEagerSingletons causes Resolve to construct every singleton-scoped
// binding immediately rather than lazily on first Get, surfacing a
// construction failure at Resolve time instead of on first use.
func WithEagerSingletons() Option {
	return func(c *Config) { c.eager = true }
}

// NewConfig returns an empty Config with the built-in scopes registered.
func NewConfig(opts ...Option) *Config {
	c := &Config{scopes: scope.NewRegistry()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Bind registers value itself as the component for t, with no qualifier.
// Resolving t always returns this exact value — it is never passed
// through the Introspector.
func (c *Config) Bind(t reflect.Type, value interface{}) *Config {
	return c.BindQualified(t, nil, value)
}

// BindQualified registers value as the component for t refined by q.
func (c *Config) BindQualified(t reflect.Type, q component.Qualifier, value interface{}) *Config {
	key := component.KeyOfQualified(t, q)
	if err := checkQualifier(t, q); err != nil {
		c.add(key, &errorProvider{err: err}, "")
		return c
	}
	c.add(key, &instanceProvider{value: value}, "")
	return c
}

// BindType registers implType (a struct type) as an injection-built
// component, keyed by *implType with no qualifier and the Default scope: a
// fresh instance is built on every resolution. The key is a pointer
// because construct (provider.go) always normalizes a constructor's
// result to an addressable *implType before running field/method
// injection — every dependent that declares a *implType parameter or
// field therefore resolves against exactly this key.
func (c *Config) BindType(implType reflect.Type) *Config {
	return c.BindTypeScoped(reflect.PointerTo(implType), implType, nil, "")
}

// BindSingleton is BindType with the pre-registered Singleton scope.
func (c *Config) BindSingleton(implType reflect.Type) *Config {
	return c.BindTypeScoped(reflect.PointerTo(implType), implType, nil, string(component.SingletonScope))
}

// BindInterface registers implType as the injection-built component
// satisfying ifaceType: dependents declare ifaceType (an interface
// implType's *implType implements) rather than the concrete pointer type.
func (c *Config) BindInterface(ifaceType, implType reflect.Type) *Config {
	return c.BindTypeScoped(ifaceType, implType, nil, "")
}

// BindTypeScoped is the general reflective-binding entry point: key is the
// lookup type a dependent declares (normally reflect.PointerTo(implType),
// or an interface implType satisfies), implType is the concrete struct the
// Introspector builds, q is an optional qualifier, and scopeName selects a
// registered scope ("" for Default, "singleton" for the built-in
// Singleton, or a name passed to WithScope).
//
// implType may instead declare its own scope by implementing
// introspect.ScopedComponent. A non-empty scopeName together with a
// class-declared scope is rejected as IllegalComponent — exactly one of
// the two may name a scope for a given binding — otherwise the
// class-declared scope (if any) is used in place of scopeName.
func (c *Config) BindTypeScoped(key, implType reflect.Type, q component.Qualifier, scopeName string) *Config {
	keyValue := component.KeyOfQualified(key, q)
	if err := checkQualifier(implType, q); err != nil {
		c.add(keyValue, &errorProvider{err: err}, scopeName)
		return c
	}
	resolvedScope, err := resolveScope(implType, scopeName)
	if err != nil {
		c.add(keyValue, &errorProvider{err: err}, scopeName)
		return c
	}
	prov, err := newReflectiveProvider(implType)
	if err != nil {
		c.add(keyValue, &errorProvider{err: err}, resolvedScope)
		return c
	}
	c.add(keyValue, prov, resolvedScope)
	return c
}

// resolveScope combines a bind-time scope argument with implType's own
// class-declared scope (if any), rejecting the case where both are
// present.
func resolveScope(implType reflect.Type, scopeName string) (string, error) {
	classScope, ok := introspect.LeafScope(implType)
	if !ok {
		return scopeName, nil
	}
	if scopeName != "" {
		return "", &component.IllegalComponent{Type: implType, Reason: "scope declared both by the class (InjectScope) and by the bind-time argument"}
	}
	return classScope, nil
}

func (c *Config) add(key component.ComponentKey, prov provider, scopeName string) {
	c.entries = append(c.entries, &entry{key: key, hk: key.HashKey(), prov: prov})
	c.scopeNames = append(c.scopeNames, scopeName)
}

// errorProvider replays an Introspect-time failure at Resolve time, so a
// malformed binding is reported through the same validation pass as every
// other structural defect rather than by panicking out of BindTypeScoped.
type errorProvider struct{ err error }

func (p *errorProvider) produce(ctx *Context) (interface{}, error) { return nil, p.err }
func (p *errorProvider) dependencies() []component.ComponentRef    { return nil }

// Resolve validates every binding's dependencies and scope, then returns
// an immutable Context. Resolution order among independent bindings is
// unspecified; a later Bind/BindType call for the same key replaces an
// earlier one outright rather than erroring, so re-binding during
// incremental setup (e.g. overriding a default for a test) is always safe.
func (c *Config) Resolve() (*Context, error) {
	dedup := make(map[string]int, len(c.entries))
	var entries []*entry
	var scopeNames []string
	for i, e := range c.entries {
		if idx, ok := dedup[e.hk]; ok {
			entries[idx] = e
			scopeNames[idx] = c.scopeNames[i]
			continue
		}
		dedup[e.hk] = len(entries)
		entries = append(entries, e)
		scopeNames = append(scopeNames, c.scopeNames[i])
	}

	if err := c.checkInitErrors(entries); err != nil {
		return nil, err
	}
	if err := newValidator(entries).validate(); err != nil {
		return nil, err
	}

	ctx := &Context{entries: make(map[string]*binding, len(entries))}
	for i, e := range entries {
		scoped, err := c.wrapScope(scopeNames[i], e, ctx)
		if err != nil {
			return nil, err
		}
		ctx.entries[e.hk] = &binding{key: e.key, scoped: scoped}
	}

	if c.eager {
		if err := c.warmSingletons(ctx, entries, scopeNames); err != nil {
			return nil, err
		}
	}
	return ctx, nil
}

// checkInitErrors surfaces any errorProvider recorded by BindTypeScoped
// before validation runs, since an Introspect failure is a structural
// defect in the binding itself, not a dependency-graph problem.
func (c *Config) checkInitErrors(entries []*entry) error {
	for _, e := range entries {
		if ep, ok := e.prov.(*errorProvider); ok {
			return ep.err
		}
	}
	return nil
}

func (c *Config) wrapScope(scopeName string, e *entry, ctx *Context) (scope.Scoped, error) {
	producer := func() (interface{}, error) { return e.prov.produce(ctx) }
	if scopeName == "" {
		return scope.Default(producer), nil
	}
	factory, ok := c.scopes.Lookup(scopeName)
	if !ok {
		return nil, &component.IllegalComponent{Type: e.key.Type, Reason: "unknown scope " + scopeName}
	}
	return factory(producer), nil
}

func (c *Config) warmSingletons(ctx *Context, entries []*entry, scopeNames []string) error {
	warmed := 0
	for i, e := range entries {
		if scopeNames[i] != string(component.SingletonScope) {
			continue
		}
		if _, err := ctx.produce(e.key); err != nil {
			return err
		}
		warmed++
	}
	ilog.Infof("eager singleton warm-up built %d component(s)", warmed)
	return nil
}

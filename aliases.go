package ioc

import "github.com/calummacc/ioc/component"

// This file re-exports the component package's vocabulary at the ioc
// root so callers writing ioc.Bind(...)/ioc.RefOf(...) never need to
// import github.com/calummacc/ioc/component directly. component stays a
// separate package purely to break the import cycle between the root
// package and introspect/scope; from a caller's
// perspective it does not exist.

type (
	// ComponentKey identifies a binding: a type refined by an optional
	// Qualifier.
	ComponentKey = component.ComponentKey
	// ComponentRef describes one injection request, direct or
	// Provider[T]-indirected.
	ComponentRef = component.ComponentRef
	// Qualifier distinguishes multiple bindings of the same type.
	Qualifier = component.Qualifier
	// Named is the built-in Qualifier, equal by value.
	Named = component.Named
	// Scope names a scope policy understood by a ScopeRegistry.
	Scope = component.Scope

	// IllegalComponent reports a structural defect in a bound type.
	IllegalComponent = component.IllegalComponent
	// DependencyNotFound reports a dependency with no matching binding.
	DependencyNotFound = component.DependencyNotFound
	// CyclicDependenciesFound reports a cycle in the Direct-dependency
	// subgraph.
	CyclicDependenciesFound = component.CyclicDependenciesFound
	// InternalError wraps a reflective failure during construction or
	// method invocation.
	InternalError = component.InternalError
)

// Provider[T] is the indirect, deferred-accessor view of a component: a
// dependency declared as Provider[T] breaks construction cycles because T
// is not materialized while the holder itself is being built.
type Provider[T any] = component.Provider[T]

const (
	// DefaultScope is the implicit scope of a binding with no scope
	// annotation: a fresh instance on every resolution.
	DefaultScope = component.DefaultScope
	// SingletonScope memoizes the first produced instance for the
	// Context's lifetime.
	SingletonScope = component.SingletonScope
	// InjectTag is the struct tag key marking a field as an injection
	// site: `ioc:"inject"` or `ioc:"inject,name=primary"`.
	InjectTag = component.InjectTag
)

// KeyOf builds an unqualified ComponentKey for t.
var KeyOf = component.KeyOf

// KeyOfQualified builds a ComponentKey for t refined by q.
var KeyOfQualified = component.KeyOfQualified

// RefOf builds a Direct ComponentRef for t with no qualifier.
var RefOf = component.RefOf

// RefOfQualified builds a Direct ComponentRef for t refined by q.
var RefOfQualified = component.RefOfQualified

// RefFromType derives a ComponentRef from a declared static type and an
// optional qualifier, peeling one layer of Provider[T] if present.
var RefFromType = component.RefFromType

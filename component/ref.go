package component

import "reflect"

// containerKind distinguishes a direct dependency request from one
// indirected through Provider[T].
type containerKind int

const (
	direct containerKind = iota
	indirectProvider
	unsupportedContainer
)

// ComponentRef describes a single injection request: a ComponentKey plus
// whether the requester wants the value directly or through a Provider[T]
// indirection. Constructed from a declared injection site by peeling one
// layer of Provider[T] (see providerElemType) or taking the type as-is.
type ComponentRef struct {
	Key  ComponentKey
	kind containerKind
}

// RefOf builds a Direct ComponentRef for t with no qualifier.
func RefOf(t reflect.Type) ComponentRef {
	return ComponentRef{Key: KeyOf(t)}
}

// RefOfQualified builds a Direct ComponentRef for t refined by q.
func RefOfQualified(t reflect.Type, q Qualifier) ComponentRef {
	return ComponentRef{Key: KeyOfQualified(t, q)}
}

// RefFromType derives a ComponentRef the way the Introspector does for a
// declared injection site: declaredType is the static type of a
// constructor parameter, field, or method parameter; q is the qualifier
// (if any) found on that site. Only one layer of Provider[T] is peeled —
// Provider[Provider[T]] is therefore treated as an indirect request for
// Provider[T], which means it resolves against a binding for Provider[T]
// (almost never bound), not against T.
func RefFromType(declaredType reflect.Type, q Qualifier) ComponentRef {
	if elem, ok := providerElemType(declaredType); ok {
		return ComponentRef{Key: KeyOfQualified(elem, q), kind: indirectProvider}
	}
	if isUnsupportedContainer(declaredType) {
		return ComponentRef{Key: KeyOfQualified(declaredType, q), kind: unsupportedContainer}
	}
	return ComponentRef{Key: KeyOfQualified(declaredType, q), kind: direct}
}

// IsIndirect reports whether this ref requests a Provider[T] rather than T.
func (r ComponentRef) IsIndirect() bool { return r.kind == indirectProvider }

// IsSupported reports whether this ref is one the container can resolve at
// all. Slice-of-T and other multi-type containers are explicitly
// unsupported and always resolve empty.
func (r ComponentRef) IsSupported() bool { return r.kind != unsupportedContainer }

func (r ComponentRef) String() string {
	switch r.kind {
	case indirectProvider:
		return "Provider[" + r.Key.String() + "]"
	case unsupportedContainer:
		return "unsupported(" + r.Key.String() + ")"
	default:
		return r.Key.String()
	}
}

// Provider is the indirect, deferred-accessor view of a component: using it
// as a dependency breaks construction cycles because the target is not
// materialized while the holder itself is being constructed. It is
// distinct from the root package's internal provider interface, which is
// the binding-side produce/dependencies abstraction.
type Provider[T any] func() T

// providerType is the reflect.Type of Provider[any], used as a template to
// recognize any Provider[X] instantiation by comparing package path. Only
// one type parameter is supported.
var providerType = reflect.TypeOf(Provider[any](nil))

// providerElemType reports whether t is a Provider[X] and, if so, the
// reflect.Type of X. Go's reflect package exposes no generic-instantiation
// introspection API, so this recovers X by inspecting the underlying
// function shape (func() X) that every Provider[X] instantiation shares.
func providerElemType(t reflect.Type) (reflect.Type, bool) {
	if t.Kind() != reflect.Func {
		return nil, false
	}
	if t.NumIn() != 0 || t.NumOut() != 1 {
		return nil, false
	}
	// Distinguish a genuine Provider[X] from an arbitrary zero-arg,
	// one-return func by name: Go mangles generic instantiations into
	// "component.Provider[pkg.X]" for t.String() on the defined type. A
	// plain func literal type has no such name.
	if t.Name() == "" {
		return nil, false
	}
	if t.PkgPath() != providerType.PkgPath() {
		return nil, false
	}
	return t.Out(0), true
}

// isUnsupportedContainer reports declared types that look like a
// multi-valued container (a slice) the container deliberately refuses to
// special-case.
func isUnsupportedContainer(t reflect.Type) bool {
	return t.Kind() == reflect.Slice
}

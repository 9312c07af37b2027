package component

import "reflect"

// ComponentKey is the value identity of a binding: a reflect.Type refined
// by an optional Qualifier.
type ComponentKey struct {
	Type      reflect.Type
	Qualifier Qualifier
}

// KeyOf builds an unqualified ComponentKey for t.
func KeyOf(t reflect.Type) ComponentKey {
	return ComponentKey{Type: t}
}

// KeyOfQualified builds a ComponentKey for t refined by q. A nil q is
// equivalent to KeyOf.
func KeyOfQualified(t reflect.Type, q Qualifier) ComponentKey {
	return ComponentKey{Type: t, Qualifier: q}
}

// Equal reports whether k and other denote the same binding slot.
// A nil qualifier is distinct from any present qualifier.
func (k ComponentKey) Equal(other ComponentKey) bool {
	if k.Type != other.Type {
		return false
	}
	if k.Qualifier == nil || other.Qualifier == nil {
		return k.Qualifier == nil && other.Qualifier == nil
	}
	return k.Qualifier.Equal(other.Qualifier)
}

// HashKey returns a value safe to use as a Go map key for this
// ComponentKey, for registries that index bindings by key (Config,
// Validator, Context). reflect.Type is already comparable, but an
// arbitrary user Qualifier implementation is only required to expose
// Equal/String, not native comparability — a slice- or map-backed
// Qualifier would panic a plain struct-keyed Go map on insert. Reducing to
// a string keeps every registry map key comparable regardless of what a
// Qualifier is backed by.
func (k ComponentKey) HashKey() string {
	if k.Qualifier == nil {
		return k.Type.String()
	}
	return k.Type.String() + "@" + reflect.TypeOf(k.Qualifier).String() + ":" + k.Qualifier.String()
}

// String renders the key for error messages and logging.
func (k ComponentKey) String() string {
	if k.Qualifier == nil {
		return k.Type.String()
	}
	return k.Type.String() + "@" + k.Qualifier.String()
}

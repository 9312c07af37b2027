package component

import (
	"fmt"
	"reflect"
	"strings"
)

// Typed diagnostics: a field-carrying error struct per failure kind rather
// than a bare fmt.Errorf string, so a caller can errors.As into the kind it
// cares about.

// IllegalComponent reports a structural defect in a bound class: an
// abstract/interface implementation, a malformed constructor, a final
// injectable field, a generic injectable method, multiple qualifiers or
// scopes on one site, or an unknown scope annotation.
type IllegalComponent struct {
	Type   reflect.Type
	Reason string
}

func (e *IllegalComponent) Error() string {
	if e.Type == nil {
		return fmt.Sprintf("illegal component: %s", e.Reason)
	}
	return fmt.Sprintf("illegal component %s: %s", e.Type, e.Reason)
}

// DependencyNotFound reports that a declared dependency has no binding at
// resolve time. Component is the key of the binding that declared the
// dependency; Dependency is the missing key.
type DependencyNotFound struct {
	Component  ComponentKey
	Dependency ComponentKey
}

func (e *DependencyNotFound) Error() string {
	return fmt.Sprintf("no binding for %s, required by %s", e.Dependency, e.Component)
}

// CyclicDependenciesFound reports a directed cycle in the Direct-dependency
// subgraph. Components lists the keys on the cycle in traversal order,
// starting at the cycle root and holding each key once, so len(Components)
// is the cycle length.
type CyclicDependenciesFound struct {
	Components []ComponentKey
}

func (e *CyclicDependenciesFound) Error() string {
	parts := make([]string, len(e.Components))
	for i, k := range e.Components {
		parts[i] = k.String()
	}
	return fmt.Sprintf("cyclic dependency: %s", strings.Join(parts, " -> "))
}

// InternalError wraps a reflective failure during Provider.Produce
// (construction or method invocation panicking, a constructor returning a
// non-nil error, ...). It is fatal and distinct from the other diagnostic
// kinds above — callers should treat it as a bug or environment failure,
// not a binding mistake to fix by re-binding something.
type InternalError struct {
	Type reflect.Type
	Op   string
	Err  error
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("ioc: internal failure during %s of %s: %v", e.Op, e.Type, e.Err)
}

func (e *InternalError) Unwrap() error { return e.Err }

// NewInternalError builds an InternalError for op on t wrapping err.
func NewInternalError(t reflect.Type, op string, err error) error {
	return &InternalError{Type: t, Op: op, Err: err}
}

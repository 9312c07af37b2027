// Package introspect extracts an InjectionPlan from a bound Go type: its
// constructor, injectable fields, and injectable methods, validating shape
// along the way.
//
// Go has no runtime annotation facility for methods the way Java's
// reflection does, so the "Inject" vocabulary for constructors and methods
// is expressed through a small marker interface, Injectable, that a
// component's struct levels implement explicitly. Field injection sites,
// which Go *can* tag natively, use the component.InjectTag struct tag
// instead.
package introspect

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/calummacc/ioc/component"
)

// MethodDecl is one method a struct level declares as an injection
// candidate (Annotated true) or as an override that deliberately drops
// injection entirely (Annotated false).
type MethodDecl struct {
	Name       string
	Annotated  bool
	Generic    bool // true if this method declares its own type parameters; Go methods cannot actually do this, so fixtures use the flag to simulate the condition for testing.
	Qualifiers [][]component.Qualifier
}

// ConstructorCandidate is one constructor a type offers as an injection
// candidate. Fn must be a func returning T or (T, error) where T is
// assignable to the bound type.
type ConstructorCandidate struct {
	Fn         reflect.Value
	Qualifiers [][]component.Qualifier
}

// Injectable is implemented by a struct level (the leaf type being bound,
// or one of its embedded ancestors) to declare which of that level's OWN
// methods and constructors are injection sites. Levels are discovered by
// walking the chain of anonymous (embedded) struct fields from the bound
// leaf type up to the first level that does not embed anything further.
//
// Injectable is queried on a zero value of each level's bare type in
// isolation, not on the composed leaf instance, so that each level reports
// only what it itself declares — Go's automatic method promotion through
// embedding cannot otherwise be told apart from a genuine override with an
// identical signature, which is why this interface exists instead of
// reading promoted method sets directly. A level that wants to
// participate must implement Injectable directly, with its own method
// receiver: relying on Injectable being promoted in from a further-embedded
// ancestor is unsupported and would double-count that ancestor's
// declarations once by promotion and once when the walk visits the
// ancestor's own level.
type Injectable interface {
	InjectConstructors() []ConstructorCandidate
	InjectMethods() []MethodDecl
}

// ScopedComponent is implemented by a leaf type that wants to declare its
// own scope rather than rely on a scope argument passed at bind time.
// Checked only on the leaf type, not on embedded ancestors: a scope policy
// applies to the whole bound component, not to one of its parts, so there
// is no hierarchy to walk the way there is for constructors and methods.
type ScopedComponent interface {
	// InjectScope returns the declared scope name and true, or ("", false)
	// if this type does not declare one.
	InjectScope() (string, bool)
}

// LeafScope reports the scope leafType declares on itself, if any.
func LeafScope(leafType reflect.Type) (string, bool) {
	zero := reflect.New(leafType)
	sc, ok := zero.Interface().(ScopedComponent)
	if !ok {
		return "", false
	}
	return sc.InjectScope()
}

// FieldSite is one injectable field, located by its index path from the
// leaf struct down through any embedded ancestors (reflect.Value.FieldByIndex).
type FieldSite struct {
	Index     []int
	Ref       component.ComponentRef
	fieldName string
}

// MethodSite is one injectable method in final, superclass-first
// invocation order, with its resolved parameter refs.
type MethodSite struct {
	Name   string
	Params []component.ComponentRef
}

// ConstructorSite is the selected constructor plus its resolved parameter
// refs.
type ConstructorSite struct {
	Fn       reflect.Value
	Params   []component.ComponentRef
	HasError bool // Fn's second return value is error
}

// InjectionPlan is the complete, validated introspection result for a
// bound type: its constructor, ordered injectable fields, and ordered
// injectable methods.
type InjectionPlan struct {
	Type        reflect.Type
	Constructor ConstructorSite
	Fields      []FieldSite
	Methods     []MethodSite
}

// Dependencies returns every ComponentRef this plan's construction and
// injection steps require, in declaration order: constructor params, then
// fields, then methods.
func (p *InjectionPlan) Dependencies() []component.ComponentRef {
	refs := make([]component.ComponentRef, 0, len(p.Constructor.Params)+len(p.Fields)+len(p.Methods)*2)
	refs = append(refs, p.Constructor.Params...)
	for _, f := range p.Fields {
		refs = append(refs, f.Ref)
	}
	for _, m := range p.Methods {
		refs = append(refs, m.Params...)
	}
	return refs
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Introspect builds an InjectionPlan for leafType, which must be a struct
// type (not a pointer, not an interface).
func Introspect(leafType reflect.Type) (*InjectionPlan, error) {
	if leafType.Kind() == reflect.Interface {
		return nil, &component.IllegalComponent{Type: leafType, Reason: "cannot bind an interface as an implementation"}
	}
	if leafType.Kind() != reflect.Struct {
		return nil, &component.IllegalComponent{Type: leafType, Reason: "implementation must be a struct type"}
	}

	levels := hierarchyLevels(leafType)

	ctor, err := selectConstructor(leafType, levels)
	if err != nil {
		return nil, err
	}

	fields, err := collectFields(leafType)
	if err != nil {
		return nil, err
	}

	methods, err := collectMethods(leafType, levels)
	if err != nil {
		return nil, err
	}

	return &InjectionPlan{
		Type:        leafType,
		Constructor: ctor,
		Fields:      fields,
		Methods:     methods,
	}, nil
}

// hierarchyLevels returns leafType followed by each ancestor reached by
// repeatedly following the first anonymous (embedded) struct field, leaf
// first.
func hierarchyLevels(leafType reflect.Type) []reflect.Type {
	levels := []reflect.Type{leafType}
	current := leafType
	for {
		next, ok := firstEmbeddedStruct(current)
		if !ok {
			break
		}
		levels = append(levels, next)
		current = next
	}
	return levels
}

func firstEmbeddedStruct(t reflect.Type) (reflect.Type, bool) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Anonymous && f.Type.Kind() == reflect.Struct {
			return f.Type, true
		}
	}
	return nil, false
}

// selectConstructor picks the single Inject-annotated constructor for
// leafType, if any, falling back to the zero-value default otherwise.
func selectConstructor(leafType reflect.Type, levels []reflect.Type) (ConstructorSite, error) {
	var candidates []ConstructorCandidate
	if injectable, ok := levelInjectable(levels[0]); ok {
		candidates = injectable.InjectConstructors()
	}

	if len(candidates) > 1 {
		return ConstructorSite{}, &component.IllegalComponent{Type: leafType, Reason: "multiple Inject-annotated constructors"}
	}

	if len(candidates) == 0 {
		// No annotated constructor: fall back to the zero-value default.
		// Any concrete struct type can always be zero-value-allocated in
		// Go, so this path never itself fails — the earlier Kind() checks
		// already rejected interfaces.
		return ConstructorSite{Fn: reflect.Value{}}, nil
	}

	c := candidates[0]
	fn := c.Fn
	if fn.Kind() != reflect.Func {
		return ConstructorSite{}, &component.IllegalComponent{Type: leafType, Reason: "constructor candidate is not a function"}
	}
	ft := fn.Type()
	if ft.NumOut() < 1 || ft.NumOut() > 2 {
		return ConstructorSite{}, &component.IllegalComponent{Type: leafType, Reason: "constructor must return the component, optionally followed by an error"}
	}
	hasError := ft.NumOut() == 2
	if hasError && !ft.Out(1).AssignableTo(errorType) {
		return ConstructorSite{}, &component.IllegalComponent{Type: leafType, Reason: "constructor's second return value must be error"}
	}

	params, err := paramRefs(leafType, ft, c.Qualifiers)
	if err != nil {
		return ConstructorSite{}, err
	}

	return ConstructorSite{Fn: fn, Params: params, HasError: hasError}, nil
}

func paramRefs(owner reflect.Type, ft reflect.Type, qualifiers [][]component.Qualifier) ([]component.ComponentRef, error) {
	refs := make([]component.ComponentRef, ft.NumIn())
	for i := 0; i < ft.NumIn(); i++ {
		var q component.Qualifier
		if i < len(qualifiers) {
			if len(qualifiers[i]) > 1 {
				return nil, &component.IllegalComponent{Type: owner, Reason: fmt.Sprintf("parameter %d carries more than one qualifier", i)}
			}
			if len(qualifiers[i]) == 1 {
				q = qualifiers[i][0]
			}
		}
		refs[i] = component.RefFromType(ft.In(i), q)
	}
	return refs, nil
}

// collectFields walks the embedded-field chain and collects every field
// tagged component.InjectTag, at each level consulting only that level's
// own directly-declared fields (reflect.Type.Field never promotes field
// declarations, so this is exact — unlike methods, fields carry no
// promotion ambiguity).
func collectFields(leafType reflect.Type) ([]FieldSite, error) {
	var fields []FieldSite
	var walk func(t reflect.Type, prefix []int) error
	walk = func(t reflect.Type, prefix []int) error {
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			index := append(append([]int{}, prefix...), i)
			if f.Anonymous && f.Type.Kind() == reflect.Struct {
				if err := walk(f.Type, index); err != nil {
					return err
				}
				continue
			}
			tag, ok := f.Tag.Lookup(component.InjectTag)
			if !ok {
				continue
			}
			qualifiers, err := parseFieldQualifiers(tag)
			if err != nil {
				return &component.IllegalComponent{Type: leafType, Reason: fmt.Sprintf("field %s: %s", f.Name, err)}
			}
			if len(qualifiers) > 1 {
				return &component.IllegalComponent{Type: leafType, Reason: fmt.Sprintf("field %s carries more than one qualifier", f.Name)}
			}
			if !isSettable(f) {
				return &component.IllegalComponent{Type: leafType, Reason: fmt.Sprintf("field %s is unexported (final) and cannot be injected", f.Name)}
			}
			var q component.Qualifier
			if len(qualifiers) == 1 {
				q = qualifiers[0]
			}
			fields = append(fields, FieldSite{
				Index:     index,
				Ref:       component.RefFromType(f.Type, q),
				fieldName: f.Name,
			})
		}
		return nil
	}
	if err := walk(leafType, nil); err != nil {
		return nil, err
	}
	return fields, nil
}

func isSettable(f reflect.StructField) bool {
	return f.PkgPath == ""
}

// parseFieldQualifiers parses the `ioc:"inject,name=foo"` tag grammar. The
// first comma-separated segment is always "inject"; subsequent segments of
// the form name=value each contribute one Named qualifier. Multiple name=
// segments intentionally let a fixture express "two qualifiers on one
// site" for diagnostic tests.
func parseFieldQualifiers(tag string) ([]component.Qualifier, error) {
	parts := strings.Split(tag, ",")
	if len(parts) == 0 || strings.TrimSpace(parts[0]) != "inject" {
		return nil, fmt.Errorf("malformed inject tag %q", tag)
	}
	var qualifiers []component.Qualifier
	for _, p := range parts[1:] {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		kv := strings.SplitN(p, "=", 2)
		if len(kv) != 2 || kv[0] != "name" {
			return nil, fmt.Errorf("unrecognized inject tag option %q", p)
		}
		qualifiers = append(qualifiers, component.Named(kv[1]))
	}
	return qualifiers, nil
}

// collectMethods walks levels leaf-to-root, retaining the most-derived
// annotated declaration of each method name and suppressing any name the
// leaf itself redeclares without the Inject annotation; it then reverses
// the retained list so invocation runs superclass-first.
func collectMethods(leafType reflect.Type, levels []reflect.Type) ([]MethodSite, error) {
	leafDecls, _ := levelDecls(levels[0])
	suppressed := map[string]bool{}
	for _, d := range leafDecls {
		if !d.Annotated {
			suppressed[d.Name] = true
		}
	}

	seen := map[string]bool{}
	type retained struct {
		decl MethodDecl
		typ  reflect.Type
	}
	var order []retained
	for _, level := range levels {
		decls, _ := levelDecls(level)
		for _, d := range decls {
			if !d.Annotated {
				continue
			}
			if d.Generic {
				return nil, &component.IllegalComponent{Type: leafType, Reason: fmt.Sprintf("injectable method %s declares its own type parameters", d.Name)}
			}
			if suppressed[d.Name] || seen[d.Name] {
				continue
			}
			seen[d.Name] = true
			order = append(order, retained{decl: d, typ: level})
		}
	}

	// Reverse: leaf-to-root collection order becomes root-to-leaf
	// (superclass-first) invocation order.
	methods := make([]MethodSite, 0, len(order))
	for i := len(order) - 1; i >= 0; i-- {
		d := order[i].decl
		m, ok := reflect.PointerTo(leafType).MethodByName(d.Name)
		if !ok {
			return nil, &component.IllegalComponent{Type: leafType, Reason: fmt.Sprintf("injectable method %s not found on %s", d.Name, leafType)}
		}
		// m.Type includes the receiver as parameter 0.
		ft := m.Type
		params := make([]component.ComponentRef, ft.NumIn()-1)
		for j := 1; j < ft.NumIn(); j++ {
			var q component.Qualifier
			pi := j - 1
			if pi < len(d.Qualifiers) {
				if len(d.Qualifiers[pi]) > 1 {
					return nil, &component.IllegalComponent{Type: leafType, Reason: fmt.Sprintf("method %s parameter %d carries more than one qualifier", d.Name, pi)}
				}
				if len(d.Qualifiers[pi]) == 1 {
					q = d.Qualifiers[pi][0]
				}
			}
			params[pi] = component.RefFromType(ft.In(j), q)
		}
		methods = append(methods, MethodSite{Name: d.Name, Params: params})
	}
	return methods, nil
}

func levelDecls(level reflect.Type) ([]MethodDecl, bool) {
	injectable, ok := levelInjectable(level)
	if !ok {
		return nil, false
	}
	return injectable.InjectMethods(), true
}

// levelInjectable asks whether level implements Injectable, by constructing
// a zero value of level alone (not through the composed leaf instance) so
// that promotion from level's own embedded ancestors does not leak into the
// answer for a shallower level.
func levelInjectable(level reflect.Type) (Injectable, bool) {
	zero := reflect.New(level)
	injectable, ok := zero.Interface().(Injectable)
	if !ok {
		return nil, false
	}
	return injectable, true
}

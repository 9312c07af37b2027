package component

// This file is the annotation vocabulary the core consumes. Go has no
// runtime annotation facility, so the vocabulary is expressed as plain
// types plus the `inject` struct tag rather than as marker interfaces read
// through reflection on annotation objects.

// InjectTag is the struct tag key that marks a field as an injection site.
// A field tagged `ioc:"inject"` is populated by Context during injection-
// built construction. An optional qualifier name follows a comma:
// `ioc:"inject,name=primary"`.
const InjectTag = "ioc"

// Qualifier distinguishes multiple bindings of the same type. Two
// Qualifiers are equal exactly when Equal reports true; the built-in Named
// qualifier compares by its string value. User-defined qualifiers must
// implement this themselves.
type Qualifier interface {
	// Equal reports whether this qualifier denotes the same binding slot
	// as other.
	Equal(other Qualifier) bool
	// String is used in error messages and as the qualifier's registry key.
	String() string
}

// Named is the built-in qualifier. Equality is by its string value.
type Named string

func (n Named) Equal(other Qualifier) bool {
	o, ok := other.(Named)
	return ok && n == o
}

func (n Named) String() string { return string(n) }

// Scope is a marker identifying a scope policy by name. Built-in scopes are
// DefaultScope (no annotation) and SingletonScope. User scopes register
// their own Scope value with a ScopeRegistry.
type Scope string

const (
	// DefaultScope produces a fresh instance on every Provider.Produce call.
	DefaultScope Scope = ""
	// SingletonScope memoizes the first produced instance for the lifetime
	// of the Context.
	SingletonScope Scope = "singleton"
)

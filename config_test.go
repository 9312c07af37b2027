package ioc_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/calummacc/ioc"
	"github.com/calummacc/ioc/component"
	"github.com/calummacc/ioc/introspect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// greeter and app model a two-level constructor-injected dependency
// chain: App depends directly on *greeter.

type greeter struct{ Hello string }

func newGreeter() *greeter { return &greeter{Hello: "hi"} }

func (greeter) InjectConstructors() []introspect.ConstructorCandidate {
	return []introspect.ConstructorCandidate{{Fn: reflect.ValueOf(newGreeter)}}
}
func (greeter) InjectMethods() []introspect.MethodDecl { return nil }

type app struct{ Greeter *greeter }

func newApp(g *greeter) *app { return &app{Greeter: g} }

func (app) InjectConstructors() []introspect.ConstructorCandidate {
	return []introspect.ConstructorCandidate{{Fn: reflect.ValueOf(newApp)}}
}
func (app) InjectMethods() []introspect.MethodDecl { return nil }

func TestResolve_TransitiveConstructorInjection(t *testing.T) {
	cfg := ioc.NewConfig()
	cfg.BindType(reflect.TypeOf(greeter{}))
	cfg.BindType(reflect.TypeOf(app{}))

	ctx, err := cfg.Resolve()
	require.NoError(t, err)

	v, ok := ctx.Get(ioc.RefOf(reflect.TypeOf(&app{})))
	require.True(t, ok)
	a := v.(*app)
	require.NotNil(t, a.Greeter)
	assert.Equal(t, "hi", a.Greeter.Hello)
}

func TestResolve_DefaultScope_ProducesFreshEachGet(t *testing.T) {
	cfg := ioc.NewConfig()
	cfg.BindType(reflect.TypeOf(greeter{}))
	ctx, err := cfg.Resolve()
	require.NoError(t, err)

	ref := ioc.RefOf(reflect.TypeOf(&greeter{}))
	v1, _ := ctx.Get(ref)
	v2, _ := ctx.Get(ref)
	assert.NotSame(t, v1.(*greeter), v2.(*greeter))
}

func TestResolve_SingletonScope_MemoizesInstance(t *testing.T) {
	cfg := ioc.NewConfig()
	cfg.BindSingleton(reflect.TypeOf(greeter{}))
	ctx, err := cfg.Resolve()
	require.NoError(t, err)

	ref := ioc.RefOf(reflect.TypeOf(&greeter{}))
	v1, _ := ctx.Get(ref)
	v2, _ := ctx.Get(ref)
	assert.Same(t, v1.(*greeter), v2.(*greeter))
}

func TestBind_InstanceIdempotence(t *testing.T) {
	type setting struct{ Name string }
	value := &setting{Name: "prod"}

	cfg := ioc.NewConfig()
	cfg.Bind(reflect.TypeOf(value), value)
	ctx, err := cfg.Resolve()
	require.NoError(t, err)

	ref := ioc.RefOf(reflect.TypeOf(value))
	v1, ok1 := ctx.Get(ref)
	v2, ok2 := ctx.Get(ref)
	require.True(t, ok1)
	require.True(t, ok2)
	assert.Same(t, value, v1)
	assert.Same(t, v1, v2)
}

func TestResolve_MissingDependency_IsReported(t *testing.T) {
	cfg := ioc.NewConfig()
	cfg.BindType(reflect.TypeOf(app{})) // greeter never bound

	_, err := cfg.Resolve()
	require.Error(t, err)
	var missing *ioc.DependencyNotFound
	assert.ErrorAs(t, err, &missing)
}

func TestContext_Get_UnboundKey_Misses(t *testing.T) {
	cfg := ioc.NewConfig()
	ctx, err := cfg.Resolve()
	require.NoError(t, err)

	_, ok := ctx.Get(ioc.RefOf(reflect.TypeOf(&greeter{})))
	assert.False(t, ok)
}

// --- qualifiers ---

type namedGreeting struct{ Text string }

func TestBindQualified_DistinguishesBindingsByQualifier(t *testing.T) {
	cfg := ioc.NewConfig()
	cfg.BindQualified(reflect.TypeOf(&namedGreeting{}), ioc.Named("en"), &namedGreeting{Text: "hello"})
	cfg.BindQualified(reflect.TypeOf(&namedGreeting{}), ioc.Named("fr"), &namedGreeting{Text: "bonjour"})

	ctx, err := cfg.Resolve()
	require.NoError(t, err)

	en, ok := ctx.Get(ioc.RefOfQualified(reflect.TypeOf(&namedGreeting{}), ioc.Named("en")))
	require.True(t, ok)
	fr, ok := ctx.Get(ioc.RefOfQualified(reflect.TypeOf(&namedGreeting{}), ioc.Named("fr")))
	require.True(t, ok)

	assert.Equal(t, "hello", en.(*namedGreeting).Text)
	assert.Equal(t, "bonjour", fr.(*namedGreeting).Text)
}

func TestBindQualified_RejectsEmptyNamedQualifier(t *testing.T) {
	cfg := ioc.NewConfig()
	cfg.BindQualified(reflect.TypeOf(&namedGreeting{}), ioc.Named(""), &namedGreeting{Text: "hello"})

	_, err := cfg.Resolve()
	require.Error(t, err)
	var illegal *ioc.IllegalComponent
	require.ErrorAs(t, err, &illegal)
}

// --- cycle detection ---

type cycleA struct{ B *cycleB }
type cycleB struct{ A *cycleA }

func newCycleA(b *cycleB) *cycleA { return &cycleA{B: b} }
func newCycleB(a *cycleA) *cycleB { return &cycleB{A: a} }

func (cycleA) InjectConstructors() []introspect.ConstructorCandidate {
	return []introspect.ConstructorCandidate{{Fn: reflect.ValueOf(newCycleA)}}
}
func (cycleA) InjectMethods() []introspect.MethodDecl { return nil }
func (cycleB) InjectConstructors() []introspect.ConstructorCandidate {
	return []introspect.ConstructorCandidate{{Fn: reflect.ValueOf(newCycleB)}}
}
func (cycleB) InjectMethods() []introspect.MethodDecl { return nil }

func TestResolve_DirectCycle_IsRejected(t *testing.T) {
	cfg := ioc.NewConfig()
	cfg.BindType(reflect.TypeOf(cycleA{}))
	cfg.BindType(reflect.TypeOf(cycleB{}))

	_, err := cfg.Resolve()
	require.Error(t, err)
	var cyclic *ioc.CyclicDependenciesFound
	assert.ErrorAs(t, err, &cyclic)
}

// --- Provider[T] indirection breaks a would-be cycle ---

type providerCycleA struct {
	B ioc.Provider[*providerCycleB]
}
type providerCycleB struct{ A *providerCycleA }

func newProviderCycleA(b ioc.Provider[*providerCycleB]) *providerCycleA {
	return &providerCycleA{B: b}
}
func newProviderCycleB(a *providerCycleA) *providerCycleB { return &providerCycleB{A: a} }

func (providerCycleA) InjectConstructors() []introspect.ConstructorCandidate {
	return []introspect.ConstructorCandidate{{Fn: reflect.ValueOf(newProviderCycleA)}}
}
func (providerCycleA) InjectMethods() []introspect.MethodDecl { return nil }
func (providerCycleB) InjectConstructors() []introspect.ConstructorCandidate {
	return []introspect.ConstructorCandidate{{Fn: reflect.ValueOf(newProviderCycleB)}}
}
func (providerCycleB) InjectMethods() []introspect.MethodDecl { return nil }

func TestResolve_ProviderIndirection_BreaksCycle(t *testing.T) {
	cfg := ioc.NewConfig()
	cfg.BindType(reflect.TypeOf(providerCycleA{}))
	cfg.BindType(reflect.TypeOf(providerCycleB{}))

	ctx, err := cfg.Resolve()
	require.NoError(t, err)

	v, ok := ctx.Get(ioc.RefOf(reflect.TypeOf(&providerCycleA{})))
	require.True(t, ok)
	a := v.(*providerCycleA)
	require.NotNil(t, a.B)

	b := a.B()
	require.NotNil(t, b)
	assert.NotNil(t, b.A)
}

// --- eager singleton warm-up ---

var warmedUp bool

type warmSingleton struct{}

func newWarmSingleton() *warmSingleton {
	warmedUp = true
	return &warmSingleton{}
}

func (warmSingleton) InjectConstructors() []introspect.ConstructorCandidate {
	return []introspect.ConstructorCandidate{{Fn: reflect.ValueOf(newWarmSingleton)}}
}
func (warmSingleton) InjectMethods() []introspect.MethodDecl { return nil }

func TestWithEagerSingletons_ConstructsAtResolveTime(t *testing.T) {
	warmedUp = false
	cfg := ioc.NewConfig(ioc.WithEagerSingletons())
	cfg.BindSingleton(reflect.TypeOf(warmSingleton{}))

	_, err := cfg.Resolve()
	require.NoError(t, err)
	assert.True(t, warmedUp)
}

// --- Context.Get with an indirect (Provider[T]) ref ---

func TestContext_Get_IndirectRef_AdaptsToSameValueAsDirect(t *testing.T) {
	cfg := ioc.NewConfig()
	cfg.BindSingleton(reflect.TypeOf(greeter{}))
	ctx, err := cfg.Resolve()
	require.NoError(t, err)

	direct, ok := ctx.Get(ioc.RefOf(reflect.TypeOf(&greeter{})))
	require.True(t, ok)

	indirectRef := ioc.RefFromType(reflect.TypeOf(ioc.Provider[*greeter](nil)), nil)
	v, ok := ctx.Get(indirectRef)
	require.True(t, ok)

	handle, ok := v.(*ioc.ProviderHandle)
	require.True(t, ok)

	indirect, err := handle.Get()
	require.NoError(t, err)
	assert.Same(t, direct, indirect)
}

func TestContext_Get_IndirectRef_UnboundKey_Misses(t *testing.T) {
	cfg := ioc.NewConfig()
	ctx, err := cfg.Resolve()
	require.NoError(t, err)

	indirectRef := ioc.RefFromType(reflect.TypeOf(ioc.Provider[*greeter](nil)), nil)
	_, ok := ctx.Get(indirectRef)
	assert.False(t, ok)
}

// --- class-level scope declaration ---

// classScopedSingleton declares its own scope via InjectScope rather than
// relying on a bind-time scope argument.
type classScopedSingleton struct{}

func (classScopedSingleton) InjectConstructors() []introspect.ConstructorCandidate { return nil }
func (classScopedSingleton) InjectMethods() []introspect.MethodDecl                { return nil }
func (classScopedSingleton) InjectScope() (string, bool)                           { return string(component.SingletonScope), true }

func TestBindType_ClassDeclaredScope_IsHonored(t *testing.T) {
	cfg := ioc.NewConfig()
	cfg.BindType(reflect.TypeOf(classScopedSingleton{}))
	ctx, err := cfg.Resolve()
	require.NoError(t, err)

	ref := ioc.RefOf(reflect.TypeOf(&classScopedSingleton{}))
	v1, ok := ctx.Get(ref)
	require.True(t, ok)
	v2, ok := ctx.Get(ref)
	require.True(t, ok)
	assert.Same(t, v1.(*classScopedSingleton), v2.(*classScopedSingleton))
}

func TestBindSingleton_ClassAlsoDeclaresScope_IsIllegalComponent(t *testing.T) {
	cfg := ioc.NewConfig()
	cfg.BindSingleton(reflect.TypeOf(classScopedSingleton{}))
	_, err := cfg.Resolve()
	require.Error(t, err)

	var illegal *component.IllegalComponent
	assert.True(t, errors.As(err, &illegal))
}

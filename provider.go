package ioc

import (
	"fmt"
	"reflect"

	"github.com/calummacc/ioc/component"
	"github.com/calummacc/ioc/introspect"
)

// provider produces one component's value against a Context holding every
// other binding, and reports what it depends on so a validator can walk
// the graph before anything is constructed. Scope wrapping (none vs.
// singleton vs. a user scope) is a separate layer applied in
// Config.Resolve, not part of provider itself.
type provider interface {
	produce(ctx *Context) (interface{}, error)
	dependencies() []component.ComponentRef
}

// instanceProvider always returns the same pre-supplied value
// (Config.Bind); it never touches the Introspector.
type instanceProvider struct {
	value interface{}
}

func (p *instanceProvider) produce(ctx *Context) (interface{}, error) { return p.value, nil }
func (p *instanceProvider) dependencies() []component.ComponentRef    { return nil }

// reflectiveProvider builds a fresh instance on every call by running an
// InjectionPlan: construct, inject fields, then invoke methods
// superclass-first.
type reflectiveProvider struct {
	plan *introspect.InjectionPlan
}

func newReflectiveProvider(t reflect.Type) (*reflectiveProvider, error) {
	plan, err := introspect.Introspect(t)
	if err != nil {
		return nil, err
	}
	return &reflectiveProvider{plan: plan}, nil
}

func (p *reflectiveProvider) dependencies() []component.ComponentRef {
	return p.plan.Dependencies()
}

func (p *reflectiveProvider) produce(ctx *Context) (result interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			cause, ok := r.(error)
			if !ok {
				cause = fmt.Errorf("%v", r)
			}
			result, err = nil, component.NewInternalError(p.plan.Type, "produce", cause)
		}
	}()
	instance, err := p.construct(ctx)
	if err != nil {
		return nil, err
	}
	if err := p.injectFields(ctx, instance); err != nil {
		return nil, err
	}
	if err := p.invokeMethods(ctx, instance); err != nil {
		return nil, err
	}
	return instance.Interface(), nil
}

// construct runs the selected constructor (or, absent one, zero-value
// allocation) and normalizes the result to an addressable *T so field
// injection can Set unexported-free fields directly.
func (p *reflectiveProvider) construct(ctx *Context) (reflect.Value, error) {
	ctor := p.plan.Constructor
	if !ctor.Fn.IsValid() {
		return reflect.New(p.plan.Type), nil
	}

	ft := ctor.Fn.Type()
	args := make([]reflect.Value, len(ctor.Params))
	for i, ref := range ctor.Params {
		v, err := resolveValue(ctx, ref, ft.In(i))
		if err != nil {
			return reflect.Value{}, err
		}
		args[i] = v
	}

	out := ctor.Fn.Call(args)
	if ctor.HasError {
		if errVal := out[1]; !errVal.IsNil() {
			return reflect.Value{}, component.NewInternalError(p.plan.Type, "construct", errVal.Interface().(error))
		}
	}
	return normalizeInstance(out[0], p.plan.Type), nil
}

func (p *reflectiveProvider) injectFields(ctx *Context, instance reflect.Value) error {
	elem := instance.Elem()
	for _, site := range p.plan.Fields {
		field := elem.FieldByIndex(site.Index)
		v, err := resolveValue(ctx, site.Ref, field.Type())
		if err != nil {
			return err
		}
		field.Set(v)
	}
	return nil
}

func (p *reflectiveProvider) invokeMethods(ctx *Context, instance reflect.Value) error {
	for _, site := range p.plan.Methods {
		method := instance.MethodByName(site.Name)
		if !method.IsValid() {
			return component.NewInternalError(p.plan.Type, "invoke "+site.Name, fmt.Errorf("method %s not found on constructed value", site.Name))
		}
		ft := method.Type()
		args := make([]reflect.Value, len(site.Params))
		for i, ref := range site.Params {
			v, err := resolveValue(ctx, ref, ft.In(i))
			if err != nil {
				return err
			}
			args[i] = v
		}
		method.Call(args)
	}
	return nil
}

// normalizeInstance turns a constructor's return value into an addressable
// pointer to the bound struct type, whether the constructor itself
// returned T or *T.
func normalizeInstance(v reflect.Value, t reflect.Type) reflect.Value {
	if v.Kind() == reflect.Ptr {
		return v
	}
	ptr := reflect.New(t)
	ptr.Elem().Set(v)
	return ptr
}

// resolveValue fetches the value for ref as seen at an injection site
// declared with declaredType. A Direct ref resolves straight through the
// Context; an indirect (Provider[T]) ref instead builds a deferred
// accessor of exactly declaredType via reflect.MakeFunc, since declaredType
// here is the genuine Provider[X] instantiation recovered from a live
// struct field or function parameter — the one place in this package where
// the concrete generic instantiation is available without needing
// reflect's (nonexistent) generic-construction API. An unsupported ref
// (e.g. a declared slice type) always resolves to its zero value.
func resolveValue(ctx *Context, ref component.ComponentRef, declaredType reflect.Type) (reflect.Value, error) {
	if !ref.IsSupported() {
		return reflect.Zero(declaredType), nil
	}
	if ref.IsIndirect() {
		key := ref.Key
		fn := reflect.MakeFunc(declaredType, func(args []reflect.Value) []reflect.Value {
			v, err := ctx.produce(key)
			if err != nil {
				panic(err)
			}
			return []reflect.Value{v}
		})
		return fn, nil
	}
	return ctx.produce(ref.Key)
}

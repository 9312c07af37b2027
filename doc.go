// Package ioc is a dependency-injection container for Go. Users register a
// catalog of component bindings, resolve it once into an immutable Context,
// and then ask the Context for fully-wired instances.
//
// A minimal program looks like this:
//
//	cfg := ioc.NewConfig()
//	cfg.BindInterface(reflect.TypeOf((*Logger)(nil)).Elem(), reflect.TypeOf(consoleLogger{}))
//	cfg.BindType(reflect.TypeOf(Service{}))
//	ctx, err := cfg.Resolve()
//	if err != nil {
//	  log.Fatal(err)
//	}
//	v, _ := ctx.Get(ioc.RefOf(reflect.TypeOf(&Service{})))
//	svc := v.(*Service)
//
// Components declare dependencies through an injectable constructor plus
// any injectable fields and methods (see the inject struct tag), not through
// a config file: resolution is eager, and a malformed graph is rejected at
// Config.Resolve time rather than on first use.
package ioc

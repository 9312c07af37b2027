package fxbridge_test

import (
	"reflect"
	"testing"

	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/calummacc/ioc"
	"github.com/calummacc/ioc/fxbridge"
	"github.com/calummacc/ioc/introspect"
)

type widget struct{ Name string }

func newWidget() *widget { return &widget{Name: "bridged"} }

func (widget) InjectConstructors() []introspect.ConstructorCandidate {
	return []introspect.ConstructorCandidate{{Fn: reflect.ValueOf(newWidget)}}
}
func (widget) InjectMethods() []introspect.MethodDecl { return nil }

func TestOptions_SuppliesResolvedComponentsToFx(t *testing.T) {
	cfg := ioc.NewConfig()
	cfg.BindSingleton(reflect.TypeOf(widget{}))
	ctx, err := cfg.Resolve()
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	var got *widget
	app := fxtest.New(t,
		fxbridge.Options(ctx),
		fx.Invoke(func(w *widget) { got = w }),
	)
	defer app.RequireStart().RequireStop()

	if got == nil || got.Name != "bridged" {
		t.Fatalf("expected fx to receive the ioc-built widget, got %+v", got)
	}
}

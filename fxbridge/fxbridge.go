// Package fxbridge hands a resolved ioc.Context off to go.uber.org/fx. It
// supplies each binding's already-constructed instance rather than
// re-providing the constructor for fx to build a second time, since an
// ioc.Context is immutable once Resolve has returned and re-running
// construction through fx would double-construct (and, for a Pooled or
// other stateful scope, hand fx a different instance than the one the rest
// of the program already observed).
package fxbridge

import (
	"go.uber.org/fx"

	"github.com/calummacc/ioc"
	"github.com/calummacc/ioc/component"
)

// Options builds one fx.Supply per resolved binding in ctx, so fx.Invoke
// targets elsewhere in an fx.App can depend on ioc-built components by
// their declared type. fx.Supply registers a value under its own dynamic
// type, which for a BindType/BindSingleton binding is exactly key.Type
// (those key by the pointer type construct produces). A BindInterface
// binding is supplied under its implementation's pointer type, not under
// the interface key.
//
// Only unqualified keys are bridged automatically: fx has no native
// qualifier concept equivalent to ioc's Qualifier, so a qualified binding
// would need an fx.Annotate(..., fx.ResultTags(`name:"..."`)) wrapper
// chosen per call site, which is left to the caller rather than guessed at
// here.
func Options(ctx *ioc.Context) fx.Option {
	var opts []fx.Option
	for _, key := range ctx.Keys() {
		if key.Qualifier != nil {
			continue
		}
		v, ok := ctx.Get(component.RefOf(key.Type))
		if !ok {
			continue
		}
		opts = append(opts, fx.Supply(v))
	}
	return fx.Options(opts...)
}

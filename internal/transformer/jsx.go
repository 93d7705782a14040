package transformer

import (
	"github.com/esmd/esm-compiler/internal/js_ast"
	"github.com/esmd/esm-compiler/internal/logger"
)

// scopeStage snapshots the module's own top-level binding names before any
// later stage injects identifiers, so injected names can be told apart from
// user code when collisions are resolved at the end of the pipeline.
type scopeStage struct{}

func (*scopeStage) Name() string { return "scope" }

func (*scopeStage) Enabled(ctx *Context) bool {
	return ctx.Module.SourceType.IsJSX()
}

func (*scopeStage) Transform(ctx *Context) error {
	ctx.collectModuleNames()
	return nil
}

// jsxStage lowers JSX elements and fragments to calls of the configured
// factory names. Attribute objects keep the declared key order, and spread
// attributes merge with Object.assign instead of pulling in a helper.
type jsxStage struct{}

func (*jsxStage) Name() string { return "jsx" }

func (*jsxStage) Enabled(ctx *Context) bool {
	return ctx.Module.SourceType.IsJSX()
}

func (*jsxStage) Transform(ctx *Context) error {
	factory := ctx.Options.JSXFactory
	fragmentFactory := ctx.Options.JSXFragmentFactory

	visitExprs(ctx.Module.Stmts, func(expr *js_ast.Expr) {
		element, ok := expr.Data.(*js_ast.EJSXElement)
		if !ok {
			return
		}

		tag := element.TagOrNil
		if tag.Data == nil {
			tag = js_ast.DotOrIdent(expr.Loc, fragmentFactory)
		}

		args := []js_ast.Expr{tag, jsxProperties(expr.Loc, element.Properties)}
		args = append(args, element.Children...)

		expr.Data = &js_ast.ECall{
			Target: js_ast.DotOrIdent(expr.Loc, factory),
			Args:   args,
		}
	})
	return nil
}

// jsxProperties builds the props argument: null when there are no
// attributes, a plain object literal when there are no spreads, and an
// Object.assign merge otherwise. Runs of non-spread attributes stay grouped
// so evaluation order matches the source.
func jsxProperties(loc logger.Loc, properties []js_ast.Property) js_ast.Expr {
	if len(properties) == 0 {
		return js_ast.Expr{Loc: loc, Data: &js_ast.ENull{}}
	}

	hasSpread := false
	for _, property := range properties {
		if property.Kind == js_ast.PropertySpread {
			hasSpread = true
			break
		}
	}
	if !hasSpread {
		return js_ast.Expr{Loc: loc, Data: &js_ast.EObject{Properties: properties}}
	}

	// Object.assign({}, a, {b: 1}, c)
	args := []js_ast.Expr{{Loc: loc, Data: &js_ast.EObject{}}}
	var group []js_ast.Property
	flush := func() {
		if len(group) > 0 {
			args = append(args, js_ast.Expr{Loc: loc, Data: &js_ast.EObject{Properties: group}})
			group = nil
		}
	}
	for _, property := range properties {
		if property.Kind == js_ast.PropertySpread {
			flush()
			args = append(args, property.ValueOrNil)
		} else {
			group = append(group, property)
		}
	}
	flush()

	return js_ast.Expr{Loc: loc, Data: &js_ast.ECall{
		Target: js_ast.DotOrIdent(loc, "Object.assign"),
		Args:   args,
	}}
}

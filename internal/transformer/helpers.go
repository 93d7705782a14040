package transformer

import (
	"fmt"

	"github.com/esmd/esm-compiler/internal/config"
	"github.com/esmd/esm-compiler/internal/js_ast"
	"github.com/esmd/esm-compiler/internal/js_parser"
	"github.com/esmd/esm-compiler/internal/logger"
)

const applyDecoratedDescriptor = "_applyDecoratedDescriptor"

// Runtime helpers are inlined into the module instead of imported from a
// shared runtime, so the output stays self-contained and servable without a
// companion package. Each helper is plain ES5-shaped source parsed by the
// regular parser at injection time.
var helperSources = map[string]string{
	applyDecoratedDescriptor: `function _applyDecoratedDescriptor(target, property, decorators, descriptor, context) {
    var desc = {};
    Object.keys(descriptor).forEach(function(key) {
        desc[key] = descriptor[key];
    });
    desc.enumerable = !!desc.enumerable;
    desc.configurable = !!desc.configurable;
    if ("value" in desc || desc.initializer) {
        desc.writable = true;
    }
    desc = decorators.slice().reverse().reduce(function(desc, decorator) {
        return decorator(target, property, desc) || desc;
    }, desc);
    if (context && desc.initializer !== void 0) {
        desc.value = desc.initializer ? desc.initializer.call(context) : void 0;
        desc.initializer = undefined;
    }
    if (desc.initializer === void 0) {
        Object.defineProperty(target, property, desc);
        desc = null;
    }
    return desc;
}`,
}

// helpersStage prepends the helpers marked by earlier stages, in mark order.
// The helper function names are registered with the hygiene scope like any
// other injected identifier, so a module that declares its own
// _applyDecoratedDescriptor doesn't clash with the inlined one.
type helpersStage struct{}

func (*helpersStage) Name() string { return "helpers" }

func (*helpersStage) Enabled(ctx *Context) bool { return true }

func (*helpersStage) Transform(ctx *Context) error {
	if len(ctx.helperMarks) == 0 {
		return nil
	}

	var injected []js_ast.Stmt
	for _, name := range ctx.helperMarks {
		text, known := helperSources[name]
		if !known {
			panic(fmt.Sprintf("Internal error: unknown helper %q", name))
		}

		log := &logger.Log{}
		source := &logger.Source{Specifier: "<" + name + ">", Contents: text}
		stmts, _, ok := js_parser.Parse(log, source, js_parser.Options{
			Syntax: config.SyntaxFor(config.SourceTypeJS),
		})
		if !ok {
			panic(fmt.Sprintf("Internal error: helper %q failed to parse", name))
		}

		// The helper's nodes carry offsets into the helper text, not into the
		// module; zero them so comment flushing and source mappings skip them.
		eachStmt(stmts, func(stmt *js_ast.Stmt) { stmt.Loc = logger.Loc{} })
		visitExprs(stmts, func(expr *js_ast.Expr) { expr.Loc = logger.Loc{} })
		for i := range stmts {
			registerHelperName(ctx, &stmts[i], name)
		}
		injected = append(injected, stmts...)
	}

	ctx.Module.Stmts = append(injected, ctx.Module.Stmts...)
	return nil
}

// registerHelperName points the hygiene scope at the helper's declaration
// name so a collision rename reaches the definition too.
func registerHelperName(ctx *Context, stmt *js_ast.Stmt, name string) {
	if fn, isFn := stmt.Data.(*js_ast.SFunction); isFn && fn.Fn.Name != nil && fn.Fn.Name.Name == name {
		ctx.markInjected(name, &fn.Fn.Name.Name)
	}
}

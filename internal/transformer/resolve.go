package transformer

import (
	"github.com/esmd/esm-compiler/internal/js_ast"
	"github.com/esmd/esm-compiler/internal/logger"
	"github.com/esmd/esm-compiler/internal/resolver"
)

// resolveStage rewrites every specifier in the module through the Resolver
// and records one DependencyDescriptor per syntactic occurrence. Nothing is
// deduplicated here: the pruner works on the full occurrence list and the
// dependency order must match the source encounter order.
type resolveStage struct{}

func (*resolveStage) Name() string { return "resolve" }

func (*resolveStage) Enabled(ctx *Context) bool { return true }

func (*resolveStage) Transform(ctx *Context) error {
	r := ctx.Resolver

	rewritePath := func(path *js_ast.Path, kind resolver.ImportKind) {
		rng := logger.Range{Loc: path.Loc, Len: int32(len(path.Text) + 2)}
		path.Text = r.Resolve(path.Text, kind, rng)
	}

	rewriteDynamic := func(expr *js_ast.Expr) {
		if imp, ok := expr.Data.(*js_ast.EImport); ok {
			if str, ok := imp.Expr.Data.(*js_ast.EString); ok {
				rng := logger.Range{Loc: imp.Expr.Loc, Len: int32(len(str.Value) + 2)}
				str.Value = r.Resolve(str.Value, resolver.ImportDynamic, rng)
			}
			// A computed specifier can't be resolved statically and passes
			// through untouched
		}
	}

	// One statement at a time so descriptors land in source encounter order
	// even when a dynamic import sits between two static imports
	for i := range ctx.Module.Stmts {
		switch s := ctx.Module.Stmts[i].Data.(type) {
		case *js_ast.SImport:
			rewritePath(&s.Path, resolver.ImportStatic)
		case *js_ast.SExportFrom:
			rewritePath(&s.Path, resolver.ImportExportFrom)
		case *js_ast.SExportStar:
			if s.Alias != nil {
				rewritePath(&s.Path, resolver.ImportExportFrom)
			} else {
				rewritePath(&s.Path, resolver.ImportExportStar)
			}
		}
		visitStmt(&ctx.Module.Stmts[i], rewriteDynamic)
	}
	return nil
}

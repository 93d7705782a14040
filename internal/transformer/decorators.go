package transformer

import (
	"strconv"

	"github.com/esmd/esm-compiler/internal/js_ast"
	"github.com/esmd/esm-compiler/internal/logger"
)

// decoratorsStage lowers legacy (experimentalDecorators) decorators. The
// decorator expressions are hoisted to fresh vars so they evaluate top-down
// in source order, then the applications run after the class definition:
// member decorators through the _applyDecoratedDescriptor helper, class
// decorators as "A = _dec(A) || A" wrappers applied bottom-up. No reflection
// metadata is emitted.
type decoratorsStage struct {
	count int
}

func (*decoratorsStage) Name() string { return "decorators" }

func (*decoratorsStage) Enabled(ctx *Context) bool { return true }

func (st *decoratorsStage) Transform(ctx *Context) error {
	stmts, err := st.lowerStmts(ctx, ctx.Module.Stmts)
	if err != nil {
		return err
	}
	ctx.Module.Stmts = stmts
	return st.lowerExprBodies(ctx, ctx.Module.Stmts)
}

// lowerExprBodies reaches the statement lists that only exist in expression
// position: arrow bodies, function expressions, and class method bodies.
func (st *decoratorsStage) lowerExprBodies(ctx *Context, stmts []js_ast.Stmt) error {
	var firstErr error
	visitExprs(stmts, func(expr *js_ast.Expr) {
		if firstErr != nil {
			return
		}
		switch e := expr.Data.(type) {
		case *js_ast.EArrow:
			inner, err := st.lowerStmts(ctx, e.Body.Stmts)
			if err != nil {
				firstErr = err
				return
			}
			e.Body.Stmts = inner
		case *js_ast.EFunction:
			inner, err := st.lowerStmts(ctx, e.Fn.Body.Stmts)
			if err != nil {
				firstErr = err
				return
			}
			e.Fn.Body.Stmts = inner
		}
	})
	return firstErr
}

func (st *decoratorsStage) lowerStmts(ctx *Context, stmts []js_ast.Stmt) ([]js_ast.Stmt, error) {
	out := make([]js_ast.Stmt, 0, len(stmts))
	for _, stmt := range stmts {
		switch s := stmt.Data.(type) {
		case *js_ast.SBlock:
			inner, err := st.lowerStmts(ctx, s.Stmts)
			if err != nil {
				return nil, err
			}
			s.Stmts = inner

		case *js_ast.SNamespace:
			inner, err := st.lowerStmts(ctx, s.Stmts)
			if err != nil {
				return nil, err
			}
			s.Stmts = inner

		case *js_ast.SFunction:
			inner, err := st.lowerStmts(ctx, s.Fn.Body.Stmts)
			if err != nil {
				return nil, err
			}
			s.Fn.Body.Stmts = inner

		case *js_ast.SLabel:
			if err := st.lowerChild(ctx, &s.Stmt); err != nil {
				return nil, err
			}

		case *js_ast.SIf:
			if err := st.lowerChild(ctx, &s.Yes); err != nil {
				return nil, err
			}
			if s.NoOrNil != nil {
				if err := st.lowerChild(ctx, s.NoOrNil); err != nil {
					return nil, err
				}
			}

		case *js_ast.SFor:
			if err := st.lowerChild(ctx, &s.Body); err != nil {
				return nil, err
			}

		case *js_ast.SForIn:
			if err := st.lowerChild(ctx, &s.Body); err != nil {
				return nil, err
			}

		case *js_ast.SForOf:
			if err := st.lowerChild(ctx, &s.Body); err != nil {
				return nil, err
			}

		case *js_ast.SWhile:
			if err := st.lowerChild(ctx, &s.Body); err != nil {
				return nil, err
			}

		case *js_ast.SDoWhile:
			if err := st.lowerChild(ctx, &s.Body); err != nil {
				return nil, err
			}

		case *js_ast.SWith:
			if err := st.lowerChild(ctx, &s.Body); err != nil {
				return nil, err
			}

		case *js_ast.STry:
			inner, err := st.lowerStmts(ctx, s.Body)
			if err != nil {
				return nil, err
			}
			s.Body = inner
			if s.Catch != nil {
				inner, err := st.lowerStmts(ctx, s.Catch.Body)
				if err != nil {
					return nil, err
				}
				s.Catch.Body = inner
			}
			if s.Finally != nil {
				inner, err := st.lowerStmts(ctx, s.Finally.Stmts)
				if err != nil {
					return nil, err
				}
				s.Finally.Stmts = inner
			}

		case *js_ast.SSwitch:
			for i := range s.Cases {
				inner, err := st.lowerStmts(ctx, s.Cases[i].Body)
				if err != nil {
					return nil, err
				}
				s.Cases[i].Body = inner
			}

		case *js_ast.SClass:
			pre, post, err := st.lowerClass(ctx, &s.Class, stmt.Loc)
			if err != nil {
				return nil, err
			}
			out = append(out, pre...)
			out = append(out, stmt)
			out = append(out, post...)
			continue

		case *js_ast.SExportDefault:
			if s.Value.Stmt != nil {
				if cls, isClass := s.Value.Stmt.Data.(*js_ast.SClass); isClass {
					pre, post, err := st.lowerClass(ctx, &cls.Class, s.Value.Stmt.Loc)
					if err != nil {
						return nil, err
					}
					out = append(out, pre...)
					out = append(out, stmt)
					out = append(out, post...)
					continue
				}
			}
		}
		out = append(out, stmt)
	}
	return out, nil
}

// lowerChild lowers the single-statement child of an if, loop, label, or
// with statement. A class there would need its hoisted vars and applications
// around it, which only a block can hold.
func (st *decoratorsStage) lowerChild(ctx *Context, stmt *js_ast.Stmt) error {
	res, err := st.lowerStmts(ctx, []js_ast.Stmt{*stmt})
	if err != nil {
		return err
	}
	if len(res) == 1 {
		*stmt = res[0]
	} else {
		stmt.Data = &js_ast.SBlock{Stmts: res}
	}
	return nil
}

func (st *decoratorsStage) lowerClass(ctx *Context, class *js_ast.Class, loc logger.Loc) (pre []js_ast.Stmt, post []js_ast.Stmt, err error) {
	// Parameter decorators have no legacy lowering without metadata support
	for i := range class.Properties {
		if fn, isFn := class.Properties[i].ValueOrNil.Data.(*js_ast.EFunction); isFn {
			for _, arg := range fn.Fn.Args {
				if len(arg.TSDecorators) > 0 {
					return nil, nil, ctx.errorAt(arg.Binding.Loc, "parameter decorators are not supported")
				}
			}
		}
	}

	hasDecorators := len(class.TSDecorators) > 0
	for i := range class.Properties {
		if len(class.Properties[i].TSDecorators) > 0 {
			hasDecorators = true
		}
	}
	if !hasDecorators {
		return nil, nil, nil
	}
	if class.Name == nil {
		return nil, nil, ctx.errorAt(loc, "decorators on an unnamed class are not supported")
	}
	className := class.Name.Name

	hoist := func(decorator js_ast.Expr) string {
		name := "_dec"
		if st.count > 0 {
			name += strconv.Itoa(st.count)
		}
		st.count++
		binding := &js_ast.BIdentifier{Name: name}
		ctx.markInjected(name, &binding.Name)
		pre = append(pre, js_ast.Stmt{Loc: decorator.Loc, Data: &js_ast.SLocal{
			Kind: js_ast.LocalVar,
			Decls: []js_ast.Decl{{
				Binding:    js_ast.Binding{Loc: decorator.Loc, Data: binding},
				ValueOrNil: decorator,
			}},
		}})
		return name
	}

	injectedIdent := func(ctx *Context, name string) js_ast.Expr {
		ident := &js_ast.EIdentifier{Name: name}
		ctx.markInjected(name, &ident.Name)
		return js_ast.Expr{Data: ident}
	}

	// Hoist in source order: class decorators sit above the class body
	classDecs := make([]string, len(class.TSDecorators))
	for i, decorator := range class.TSDecorators {
		classDecs[i] = hoist(decorator)
	}
	class.TSDecorators = nil

	for i := range class.Properties {
		property := &class.Properties[i]
		if len(property.TSDecorators) == 0 {
			continue
		}
		memberDecs := make([]js_ast.Expr, len(property.TSDecorators))
		for j, decorator := range property.TSDecorators {
			memberDecs[j] = injectedIdent(ctx, hoist(decorator))
		}
		property.TSDecorators = nil

		target := func() js_ast.Expr {
			expr := js_ast.Ident(logger.Loc{}, className)
			if !property.IsStatic {
				expr = js_ast.Expr{Data: &js_ast.EDot{Target: expr, Name: "prototype"}}
			}
			return expr
		}

		// _applyDecoratedDescriptor(A.prototype, "bar", [_dec],
		//     Object.getOwnPropertyDescriptor(A.prototype, "bar"), A.prototype);
		helper := &js_ast.EIdentifier{Name: applyDecoratedDescriptor}
		ctx.markInjected(applyDecoratedDescriptor, &helper.Name)
		ctx.markHelper(applyDecoratedDescriptor)
		post = append(post, js_ast.Stmt{Data: &js_ast.SExpr{Value: js_ast.Expr{Data: &js_ast.ECall{
			Target: js_ast.Expr{Data: helper},
			Args: []js_ast.Expr{
				target(),
				property.Key,
				{Data: &js_ast.EArray{Items: memberDecs}},
				{Data: &js_ast.ECall{
					Target: js_ast.DotOrIdent(logger.Loc{}, "Object.getOwnPropertyDescriptor"),
					Args:   []js_ast.Expr{target(), property.Key},
				}},
				target(),
			},
		}}}})
	}

	// Class wrappers apply bottom-up: the decorator closest to the class
	// wraps first
	for i := len(classDecs) - 1; i >= 0; i-- {
		wrapped := js_ast.Expr{Data: &js_ast.EBinary{
			Op: js_ast.BinOpLogicalOr,
			Left: js_ast.Expr{Data: &js_ast.ECall{
				Target: injectedIdent(ctx, classDecs[i]),
				Args:   []js_ast.Expr{js_ast.Ident(logger.Loc{}, className)},
			}},
			Right: js_ast.Ident(logger.Loc{}, className),
		}}
		post = append(post, js_ast.AssignStmt(js_ast.Ident(logger.Loc{}, className), wrapped))
	}

	return pre, post, nil
}

package transformer

import (
	"github.com/esmd/esm-compiler/internal/js_ast"
)

// visitExprs applies visit to every expression in the statement list, parents
// before children. visit may replace *expr; the walk then continues into the
// replacement, so a stage that rewrites a node also sees whatever it nested
// inside it.
func visitExprs(stmts []js_ast.Stmt, visit func(expr *js_ast.Expr)) {
	for i := range stmts {
		visitStmt(&stmts[i], visit)
	}
}

// eachStmt applies fn to every statement in the list, including statements
// nested in blocks, bodies, and function expressions.
func eachStmt(stmts []js_ast.Stmt, fn func(stmt *js_ast.Stmt)) {
	for i := range stmts {
		fn(&stmts[i])
		visitStmt(&stmts[i], func(expr *js_ast.Expr) {
			switch e := expr.Data.(type) {
			case *js_ast.EArrow:
				eachNestedStmts(e.Body.Stmts, fn)
			case *js_ast.EFunction:
				eachNestedStmts(e.Fn.Body.Stmts, fn)
			case *js_ast.EClass:
				for j := range e.Class.Properties {
					if method, ok := e.Class.Properties[j].ValueOrNil.Data.(*js_ast.EFunction); ok {
						eachNestedStmts(method.Fn.Body.Stmts, fn)
					}
				}
			}
		})
		eachChildStmts(&stmts[i], fn)
	}
}

// eachNestedStmts marks only the statement nodes; the expression walk that
// found them already covers their expressions.
func eachNestedStmts(stmts []js_ast.Stmt, fn func(stmt *js_ast.Stmt)) {
	for i := range stmts {
		fn(&stmts[i])
		eachChildStmts(&stmts[i], fn)
	}
}

func eachChildStmts(stmt *js_ast.Stmt, fn func(stmt *js_ast.Stmt)) {
	apply := func(stmts []js_ast.Stmt) {
		for i := range stmts {
			fn(&stmts[i])
			eachChildStmts(&stmts[i], fn)
		}
	}
	one := func(stmt *js_ast.Stmt) {
		fn(stmt)
		eachChildStmts(stmt, fn)
	}

	switch s := stmt.Data.(type) {
	case *js_ast.SBlock:
		apply(s.Stmts)
	case *js_ast.SExportDefault:
		if s.Value.Stmt != nil {
			one(s.Value.Stmt)
		}
	case *js_ast.SNamespace:
		apply(s.Stmts)
	case *js_ast.SFunction:
		apply(s.Fn.Body.Stmts)
	case *js_ast.SClass:
		for i := range s.Class.Properties {
			if method, ok := s.Class.Properties[i].ValueOrNil.Data.(*js_ast.EFunction); ok {
				apply(method.Fn.Body.Stmts)
			}
		}
	case *js_ast.SLabel:
		one(&s.Stmt)
	case *js_ast.SIf:
		one(&s.Yes)
		if s.NoOrNil != nil {
			one(s.NoOrNil)
		}
	case *js_ast.SFor:
		if s.InitOrNil != nil {
			one(s.InitOrNil)
		}
		one(&s.Body)
	case *js_ast.SForIn:
		one(&s.Init)
		one(&s.Body)
	case *js_ast.SForOf:
		one(&s.Init)
		one(&s.Body)
	case *js_ast.SDoWhile:
		one(&s.Body)
	case *js_ast.SWhile:
		one(&s.Body)
	case *js_ast.SWith:
		one(&s.Body)
	case *js_ast.STry:
		apply(s.Body)
		if s.Catch != nil {
			apply(s.Catch.Body)
		}
		if s.Finally != nil {
			apply(s.Finally.Stmts)
		}
	case *js_ast.SSwitch:
		for i := range s.Cases {
			apply(s.Cases[i].Body)
		}
	}
}

func visitStmt(stmt *js_ast.Stmt, visit func(expr *js_ast.Expr)) {
	switch s := stmt.Data.(type) {
	case *js_ast.SBlock:
		visitExprs(s.Stmts, visit)

	case *js_ast.SExportDefault:
		if s.Value.Expr != nil {
			visitExpr(s.Value.Expr, visit)
		}
		if s.Value.Stmt != nil {
			visitStmt(s.Value.Stmt, visit)
		}

	case *js_ast.SExpr:
		visitExpr(&s.Value, visit)

	case *js_ast.SEnum:
		for i := range s.Values {
			if s.Values[i].ValueOrNil.Data != nil {
				visitExpr(&s.Values[i].ValueOrNil, visit)
			}
		}

	case *js_ast.SNamespace:
		visitExprs(s.Stmts, visit)

	case *js_ast.SFunction:
		visitFn(&s.Fn, visit)

	case *js_ast.SClass:
		visitClass(&s.Class, visit)

	case *js_ast.SLabel:
		visitStmt(&s.Stmt, visit)

	case *js_ast.SIf:
		visitExpr(&s.Test, visit)
		visitStmt(&s.Yes, visit)
		if s.NoOrNil != nil {
			visitStmt(s.NoOrNil, visit)
		}

	case *js_ast.SFor:
		if s.InitOrNil != nil {
			visitStmt(s.InitOrNil, visit)
		}
		if s.TestOrNil.Data != nil {
			visitExpr(&s.TestOrNil, visit)
		}
		if s.UpdateOrNil.Data != nil {
			visitExpr(&s.UpdateOrNil, visit)
		}
		visitStmt(&s.Body, visit)

	case *js_ast.SForIn:
		visitStmt(&s.Init, visit)
		visitExpr(&s.Value, visit)
		visitStmt(&s.Body, visit)

	case *js_ast.SForOf:
		visitStmt(&s.Init, visit)
		visitExpr(&s.Value, visit)
		visitStmt(&s.Body, visit)

	case *js_ast.SDoWhile:
		visitStmt(&s.Body, visit)
		visitExpr(&s.Test, visit)

	case *js_ast.SWhile:
		visitExpr(&s.Test, visit)
		visitStmt(&s.Body, visit)

	case *js_ast.SWith:
		visitExpr(&s.Value, visit)
		visitStmt(&s.Body, visit)

	case *js_ast.STry:
		visitExprs(s.Body, visit)
		if s.Catch != nil {
			if s.Catch.BindingOrNil != nil {
				visitBinding(s.Catch.BindingOrNil, visit)
			}
			visitExprs(s.Catch.Body, visit)
		}
		if s.Finally != nil {
			visitExprs(s.Finally.Stmts, visit)
		}

	case *js_ast.SSwitch:
		visitExpr(&s.Test, visit)
		for i := range s.Cases {
			if s.Cases[i].ValueOrNil.Data != nil {
				visitExpr(&s.Cases[i].ValueOrNil, visit)
			}
			visitExprs(s.Cases[i].Body, visit)
		}

	case *js_ast.SReturn:
		if s.ValueOrNil.Data != nil {
			visitExpr(&s.ValueOrNil, visit)
		}

	case *js_ast.SThrow:
		visitExpr(&s.Value, visit)

	case *js_ast.SLocal:
		for i := range s.Decls {
			visitBinding(&s.Decls[i].Binding, visit)
			if s.Decls[i].ValueOrNil.Data != nil {
				visitExpr(&s.Decls[i].ValueOrNil, visit)
			}
		}
	}
}

func visitExpr(expr *js_ast.Expr, visit func(expr *js_ast.Expr)) {
	visit(expr)

	switch e := expr.Data.(type) {
	case *js_ast.EArray:
		for i := range e.Items {
			visitExpr(&e.Items[i], visit)
		}

	case *js_ast.EUnary:
		visitExpr(&e.Value, visit)

	case *js_ast.EBinary:
		visitExpr(&e.Left, visit)
		visitExpr(&e.Right, visit)

	case *js_ast.ENew:
		visitExpr(&e.Target, visit)
		for i := range e.Args {
			visitExpr(&e.Args[i], visit)
		}

	case *js_ast.ECall:
		visitExpr(&e.Target, visit)
		for i := range e.Args {
			visitExpr(&e.Args[i], visit)
		}

	case *js_ast.EDot:
		visitExpr(&e.Target, visit)

	case *js_ast.EIndex:
		visitExpr(&e.Target, visit)
		visitExpr(&e.Index, visit)

	case *js_ast.EArrow:
		visitFnArgs(e.Args, visit)
		visitExprs(e.Body.Stmts, visit)

	case *js_ast.EFunction:
		visitFn(&e.Fn, visit)

	case *js_ast.EClass:
		visitClass(&e.Class, visit)

	case *js_ast.EJSXElement:
		if e.TagOrNil.Data != nil {
			visitExpr(&e.TagOrNil, visit)
		}
		visitProperties(e.Properties, visit)
		for i := range e.Children {
			visitExpr(&e.Children[i], visit)
		}

	case *js_ast.EObject:
		visitProperties(e.Properties, visit)

	case *js_ast.ESpread:
		visitExpr(&e.Value, visit)

	case *js_ast.ETemplate:
		if e.TagOrNil.Data != nil {
			visitExpr(&e.TagOrNil, visit)
		}
		for i := range e.Parts {
			visitExpr(&e.Parts[i].Value, visit)
		}

	case *js_ast.EAwait:
		visitExpr(&e.Value, visit)

	case *js_ast.EYield:
		if e.ValueOrNil.Data != nil {
			visitExpr(&e.ValueOrNil, visit)
		}

	case *js_ast.EIf:
		visitExpr(&e.Test, visit)
		visitExpr(&e.Yes, visit)
		visitExpr(&e.No, visit)

	case *js_ast.EImport:
		visitExpr(&e.Expr, visit)
		if e.OptionsOrNil.Data != nil {
			visitExpr(&e.OptionsOrNil, visit)
		}
	}
}

func visitFn(fn *js_ast.Fn, visit func(expr *js_ast.Expr)) {
	visitFnArgs(fn.Args, visit)
	visitExprs(fn.Body.Stmts, visit)
}

func visitFnArgs(args []js_ast.Arg, visit func(expr *js_ast.Expr)) {
	for i := range args {
		for j := range args[i].TSDecorators {
			visitExpr(&args[i].TSDecorators[j], visit)
		}
		visitBinding(&args[i].Binding, visit)
		if args[i].DefaultOrNil.Data != nil {
			visitExpr(&args[i].DefaultOrNil, visit)
		}
	}
}

func visitClass(class *js_ast.Class, visit func(expr *js_ast.Expr)) {
	for i := range class.TSDecorators {
		visitExpr(&class.TSDecorators[i], visit)
	}
	if class.ExtendsOrNil.Data != nil {
		visitExpr(&class.ExtendsOrNil, visit)
	}
	visitProperties(class.Properties, visit)
}

func visitProperties(properties []js_ast.Property, visit func(expr *js_ast.Expr)) {
	for i := range properties {
		property := &properties[i]
		for j := range property.TSDecorators {
			visitExpr(&property.TSDecorators[j], visit)
		}
		if property.Key.Data != nil {
			visitExpr(&property.Key, visit)
		}
		if property.ValueOrNil.Data != nil {
			visitExpr(&property.ValueOrNil, visit)
		}
	}
}

func visitBinding(binding *js_ast.Binding, visit func(expr *js_ast.Expr)) {
	switch b := binding.Data.(type) {
	case *js_ast.BArray:
		for i := range b.Items {
			visitBinding(&b.Items[i].Binding, visit)
			if b.Items[i].DefaultOrNil.Data != nil {
				visitExpr(&b.Items[i].DefaultOrNil, visit)
			}
		}
	case *js_ast.BObject:
		for i := range b.Properties {
			if b.Properties[i].Key.Data != nil {
				visitExpr(&b.Properties[i].Key, visit)
			}
			visitBinding(&b.Properties[i].Value, visit)
			if b.Properties[i].DefaultOrNil.Data != nil {
				visitExpr(&b.Properties[i].DefaultOrNil, visit)
			}
		}
	}
}

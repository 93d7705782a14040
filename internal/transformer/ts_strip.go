package transformer

import (
	"github.com/esmd/esm-compiler/internal/js_ast"
	"github.com/esmd/esm-compiler/internal/logger"
)

// tsStripStage erases what the TypeScript checker consumed and lowers the
// constructs that have a runtime footprint: enums and namespaces become
// object-building IIFEs, constructor parameter properties become explicit
// assignments, and imports whose bindings are never referenced at runtime are
// elided the way tsc elides type-only usage. Type annotations themselves
// never made it into the AST; the parser skipped them.
type tsStripStage struct{}

func (*tsStripStage) Name() string { return "ts-strip" }

func (*tsStripStage) Enabled(ctx *Context) bool {
	return ctx.Module.SourceType.IsTypeScript()
}

func (st *tsStripStage) Transform(ctx *Context) error {
	used := usedNames(ctx.Module.Stmts)
	ctx.Module.Stmts = st.stripStmts(ctx, ctx.Module.Stmts, used)

	// Classes and bodies in expression position
	visitExprs(ctx.Module.Stmts, func(expr *js_ast.Expr) {
		switch e := expr.Data.(type) {
		case *js_ast.EClass:
			lowerClassFields(&e.Class)
		case *js_ast.EArrow:
			e.Body.Stmts = st.stripStmts(ctx, e.Body.Stmts, used)
		case *js_ast.EFunction:
			e.Fn.Body.Stmts = st.stripStmts(ctx, e.Fn.Body.Stmts, used)
		}
	})
	return nil
}

// usedNames collects every identifier referenced in expression position,
// plus locals re-exported by an export clause. Import elision is driven by
// this set: a binding that never shows up here has no runtime use. The set
// is not scope-aware, so a local that shadows an import still keeps the
// import; over-retention is the safe direction.
func usedNames(stmts []js_ast.Stmt) map[string]struct{} {
	used := make(map[string]struct{})
	visitExprs(stmts, func(expr *js_ast.Expr) {
		if ident, ok := expr.Data.(*js_ast.EIdentifier); ok {
			used[ident.Name] = struct{}{}
		}
	})
	eachStmt(stmts, func(stmt *js_ast.Stmt) {
		if clause, ok := stmt.Data.(*js_ast.SExportClause); ok {
			for _, item := range clause.Items {
				used[item.Name.Name] = struct{}{}
			}
		}
	})
	return used
}

func (st *tsStripStage) stripStmts(ctx *Context, stmts []js_ast.Stmt, used map[string]struct{}) []js_ast.Stmt {
	out := make([]js_ast.Stmt, 0, len(stmts))
	for _, stmt := range stmts {
		switch s := stmt.Data.(type) {
		case *js_ast.STypeScript:
			continue

		case *js_ast.SImport:
			if s.IsTypeOnly {
				continue
			}
			if keep := elideImportBindings(s, used); !keep {
				continue
			}

		case *js_ast.SEnum:
			out = append(out, lowerEnum(stmt.Loc, s)...)
			continue

		case *js_ast.SNamespace:
			out = append(out, st.lowerNamespace(ctx, stmt.Loc, s, used)...)
			continue

		case *js_ast.SClass:
			lowerClassFields(&s.Class)

		case *js_ast.SExportDefault:
			if s.Value.Stmt != nil {
				switch def := s.Value.Stmt.Data.(type) {
				case *js_ast.SClass:
					lowerClassFields(&def.Class)
				case *js_ast.SFunction:
					def.Fn.Body.Stmts = st.stripStmts(ctx, def.Fn.Body.Stmts, used)
				}
			}

		case *js_ast.SFunction:
			s.Fn.Body.Stmts = st.stripStmts(ctx, s.Fn.Body.Stmts, used)

		case *js_ast.SBlock:
			s.Stmts = st.stripStmts(ctx, s.Stmts, used)

		case *js_ast.SLabel:
			st.stripChild(ctx, &s.Stmt, used)

		case *js_ast.SIf:
			st.stripChild(ctx, &s.Yes, used)
			if s.NoOrNil != nil {
				st.stripChild(ctx, s.NoOrNil, used)
			}

		case *js_ast.SFor:
			st.stripChild(ctx, &s.Body, used)

		case *js_ast.SForIn:
			st.stripChild(ctx, &s.Body, used)

		case *js_ast.SForOf:
			st.stripChild(ctx, &s.Body, used)

		case *js_ast.SWhile:
			st.stripChild(ctx, &s.Body, used)

		case *js_ast.SDoWhile:
			st.stripChild(ctx, &s.Body, used)

		case *js_ast.SWith:
			st.stripChild(ctx, &s.Body, used)

		case *js_ast.STry:
			s.Body = st.stripStmts(ctx, s.Body, used)
			if s.Catch != nil {
				s.Catch.Body = st.stripStmts(ctx, s.Catch.Body, used)
			}
			if s.Finally != nil {
				s.Finally.Stmts = st.stripStmts(ctx, s.Finally.Stmts, used)
			}

		case *js_ast.SSwitch:
			for i := range s.Cases {
				s.Cases[i].Body = st.stripStmts(ctx, s.Cases[i].Body, used)
			}
		}
		out = append(out, stmt)
	}
	return out
}

// stripChild lowers the single-statement child of an if, loop, label, or
// with statement. Lowering can expand one declaration into several
// statements, which only a block can hold.
func (st *tsStripStage) stripChild(ctx *Context, stmt *js_ast.Stmt, used map[string]struct{}) {
	res := st.stripStmts(ctx, []js_ast.Stmt{*stmt}, used)
	switch len(res) {
	case 0:
		stmt.Data = &js_ast.SEmpty{}
	case 1:
		*stmt = res[0]
	default:
		stmt.Data = &js_ast.SBlock{Stmts: res}
	}
}

// elideImportBindings drops the unreferenced bindings of one import
// statement. It reports whether the statement should be kept at all: a
// bindingless source-level import is a side-effect import and always stays,
// but an import whose every binding was elided disappears with them.
func elideImportBindings(s *js_ast.SImport, used map[string]struct{}) bool {
	hadBindings := false

	if s.DefaultName != nil {
		hadBindings = true
		if _, ok := used[s.DefaultName.Name]; !ok {
			s.DefaultName = nil
		}
	}
	if s.StarName != nil {
		hadBindings = true
		if _, ok := used[s.StarName.Name]; !ok {
			s.StarName = nil
		}
	}
	if s.Items != nil {
		hadBindings = true
		kept := (*s.Items)[:0]
		for _, item := range *s.Items {
			if _, ok := used[item.Name.Name]; ok {
				kept = append(kept, item)
			}
		}
		if len(kept) == 0 {
			s.Items = nil
		} else {
			*s.Items = kept
		}
	}

	return !hadBindings || s.DefaultName != nil || s.StarName != nil || s.Items != nil
}

// lowerEnum compiles an enum declaration to the var-plus-IIFE pattern:
//
//	var D;
//	(function(D) {
//	    D[D["A"] = 0] = "A";
//	})(D || (D = {}));
//
// Numeric members get the reverse mapping, string members don't. Const enums
// are lowered like regular enums; cross-module inlining is a whole-program
// optimization this compiler doesn't attempt.
func lowerEnum(loc logger.Loc, s *js_ast.SEnum) []js_ast.Stmt {
	name := s.Name.Name
	var body []js_ast.Stmt
	nextValue := float64(0)

	for _, member := range s.Values {
		value := member.ValueOrNil
		if value.Data == nil {
			value = js_ast.Number(member.Loc, nextValue)
			nextValue++
		} else if num, isNum := value.Data.(*js_ast.ENumber); isNum {
			nextValue = num.Value + 1
		} else if _, isStr := value.Data.(*js_ast.EString); isStr {
			// D["A"] = "a"; with no reverse mapping
			body = append(body, js_ast.AssignStmt(
				js_ast.Expr{Loc: member.Loc, Data: &js_ast.EIndex{
					Target: js_ast.Ident(member.Loc, name),
					Index:  js_ast.String(member.Loc, member.Name),
				}},
				value,
			))
			continue
		}

		// D[D["A"] = 0] = "A";
		inner := js_ast.Assign(
			js_ast.Expr{Loc: member.Loc, Data: &js_ast.EIndex{
				Target: js_ast.Ident(member.Loc, name),
				Index:  js_ast.String(member.Loc, member.Name),
			}},
			value,
		)
		body = append(body, js_ast.AssignStmt(
			js_ast.Expr{Loc: member.Loc, Data: &js_ast.EIndex{
				Target: js_ast.Ident(member.Loc, name),
				Index:  inner,
			}},
			js_ast.String(member.Loc, member.Name),
		))
	}

	return []js_ast.Stmt{
		{Loc: loc, Data: &js_ast.SLocal{
			Kind:     js_ast.LocalVar,
			IsExport: s.IsExport,
			Decls:    []js_ast.Decl{{Binding: js_ast.Binding{Loc: s.Name.Loc, Data: &js_ast.BIdentifier{Name: name}}}},
		}},
		iifeOver(name, body),
	}
}

// lowerNamespace compiles a namespace with the same IIFE machinery as enums.
// Exported members become assignments onto the namespace object after their
// declarations.
func (st *tsStripStage) lowerNamespace(ctx *Context, loc logger.Loc, s *js_ast.SNamespace, used map[string]struct{}) []js_ast.Stmt {
	name := s.Name.Name
	body := namespaceExports(name, s.Stmts)
	body = st.stripStmts(ctx, body, used)

	return []js_ast.Stmt{
		{Loc: loc, Data: &js_ast.SLocal{
			Kind:     js_ast.LocalVar,
			IsExport: s.IsExport,
			Decls:    []js_ast.Decl{{Binding: js_ast.Binding{Loc: s.Name.Loc, Data: &js_ast.BIdentifier{Name: name}}}},
		}},
		iifeOver(name, body),
	}
}

// namespaceExports clears the export flags inside a namespace body and adds
// "NS.x = x;" assignments after each exported declaration. It runs before
// enum/nested-namespace lowering so the assignment lands after the IIFE that
// populates the value.
func namespaceExports(nsName string, stmts []js_ast.Stmt) []js_ast.Stmt {
	out := make([]js_ast.Stmt, 0, len(stmts))
	assign := func(loc logger.Loc, name string) js_ast.Stmt {
		return js_ast.AssignStmt(
			js_ast.Expr{Loc: loc, Data: &js_ast.EDot{Target: js_ast.Ident(loc, nsName), Name: name}},
			js_ast.Ident(loc, name),
		)
	}

	for _, stmt := range stmts {
		switch s := stmt.Data.(type) {
		case *js_ast.SLocal:
			if s.IsExport {
				s.IsExport = false
				out = append(out, stmt)
				for _, decl := range s.Decls {
					for _, name := range bindingLeafNames(decl.Binding) {
						out = append(out, assign(stmt.Loc, name))
					}
				}
				continue
			}

		case *js_ast.SFunction:
			if s.IsExport {
				s.IsExport = false
				out = append(out, stmt)
				if s.Fn.Name != nil {
					out = append(out, assign(stmt.Loc, s.Fn.Name.Name))
				}
				continue
			}

		case *js_ast.SClass:
			if s.IsExport {
				s.IsExport = false
				out = append(out, stmt)
				if s.Class.Name != nil {
					out = append(out, assign(stmt.Loc, s.Class.Name.Name))
				}
				continue
			}

		case *js_ast.SEnum:
			if s.IsExport {
				s.IsExport = false
				out = append(out, stmt)
				out = append(out, assign(stmt.Loc, s.Name.Name))
				continue
			}

		case *js_ast.SNamespace:
			if s.IsExport {
				s.IsExport = false
				out = append(out, stmt)
				out = append(out, assign(stmt.Loc, s.Name.Name))
				continue
			}

		case *js_ast.SExportClause:
			for _, item := range s.Items {
				out = append(out, js_ast.AssignStmt(
					js_ast.Expr{Loc: stmt.Loc, Data: &js_ast.EDot{Target: js_ast.Ident(stmt.Loc, nsName), Name: item.Alias}},
					js_ast.Ident(stmt.Loc, item.Name.Name),
				))
			}
			continue
		}
		out = append(out, stmt)
	}
	return out
}

func bindingLeafNames(binding js_ast.Binding) []string {
	var names []string
	var walk func(binding js_ast.Binding)
	walk = func(binding js_ast.Binding) {
		switch b := binding.Data.(type) {
		case *js_ast.BIdentifier:
			names = append(names, b.Name)
		case *js_ast.BArray:
			for _, item := range b.Items {
				walk(item.Binding)
			}
		case *js_ast.BObject:
			for _, property := range b.Properties {
				walk(property.Value)
			}
		}
	}
	walk(binding)
	return names
}

// iifeOver builds "(function(name) { body })(name || (name = {}));"
func iifeOver(name string, body []js_ast.Stmt) js_ast.Stmt {
	fn := &js_ast.EFunction{Fn: js_ast.Fn{
		Args: []js_ast.Arg{{Binding: js_ast.Binding{Data: &js_ast.BIdentifier{Name: name}}}},
		Body: js_ast.FnBody{Stmts: body},
	}}
	arg := js_ast.Expr{Data: &js_ast.EBinary{
		Op:   js_ast.BinOpLogicalOr,
		Left: js_ast.Ident(logger.Loc{}, name),
		Right: js_ast.Assign(
			js_ast.Ident(logger.Loc{}, name),
			js_ast.Expr{Data: &js_ast.EObject{IsSingleLine: true}},
		),
	}}
	return js_ast.Stmt{Data: &js_ast.SExpr{Value: js_ast.Expr{Data: &js_ast.ECall{
		Target: js_ast.Expr{Data: fn},
		Args:   []js_ast.Expr{arg},
	}}}}
}

// lowerClassFields removes declare/abstract members and expands constructor
// parameter properties into explicit this assignments. Class fields with
// initializers are left alone; the printer emits them as property
// definitions.
func lowerClassFields(class *js_ast.Class) {
	kept := class.Properties[:0]
	for i := range class.Properties {
		property := class.Properties[i]
		if property.WasTSDeclare || property.WasTSAbstract {
			continue
		}
		if key, ok := property.Key.Data.(*js_ast.EString); ok && key.Value == "constructor" && property.IsMethod {
			if fn, isFn := property.ValueOrNil.Data.(*js_ast.EFunction); isFn {
				expandCtorFields(&fn.Fn)
			}
		}
		kept = append(kept, property)
	}
	class.Properties = kept
}

func expandCtorFields(fn *js_ast.Fn) {
	var assigns []js_ast.Stmt
	for i := range fn.Args {
		arg := &fn.Args[i]
		if !arg.IsTypeScriptCtorField {
			continue
		}
		arg.IsTypeScriptCtorField = false
		if ident, ok := arg.Binding.Data.(*js_ast.BIdentifier); ok {
			loc := arg.Binding.Loc
			assigns = append(assigns, js_ast.AssignStmt(
				js_ast.Expr{Loc: loc, Data: &js_ast.EDot{Target: js_ast.Expr{Loc: loc, Data: &js_ast.EThis{}}, Name: ident.Name}},
				js_ast.Ident(loc, ident.Name),
			))
		}
	}
	if len(assigns) == 0 {
		return
	}

	// Parameter properties initialize after an explicit super() call
	stmts := fn.Body.Stmts
	insert := 0
	if len(stmts) > 0 {
		if expr, ok := stmts[0].Data.(*js_ast.SExpr); ok {
			if call, isCall := expr.Value.Data.(*js_ast.ECall); isCall {
				if _, isSuper := call.Target.Data.(*js_ast.ESuper); isSuper {
					insert = 1
				}
			}
		}
	}
	fn.Body.Stmts = append(stmts[:insert:insert], append(assigns, stmts[insert:]...)...)
}

package transformer

import (
	"strconv"
	"strings"

	"github.com/esmd/esm-compiler/internal/js_ast"
)

// refreshStage wires top-level components into the dev server's hot-reload
// runtime. Every component-like declaration is registered with $RefreshReg$,
// and components that call hooks get a $RefreshSig$ signature so edits that
// change the hook list remount instead of patching in place. The runtime
// provides both globals; remote modules are served as-is and never
// instrumented.
type refreshStage struct{}

func (*refreshStage) Name() string { return "refresh" }

func (*refreshStage) Enabled(ctx *Context) bool {
	return ctx.Options.IsDev && !ctx.Resolver.SpecifierIsRemote
}

func (*refreshStage) Transform(ctx *Context) error {
	out := make([]js_ast.Stmt, 0, len(ctx.Module.Stmts))
	sigCount := 0

	for _, stmt := range ctx.Module.Stmts {
		name, body, isComponent := componentDecl(stmt)
		if !isComponent {
			out = append(out, stmt)
			continue
		}

		hooks := hookCalls(*body)
		var sigName string
		if len(hooks) > 0 {
			sigName = "_s"
			if sigCount > 0 {
				sigName += strconv.Itoa(sigCount)
			}
			sigCount++

			// var _s = $RefreshSig$();
			binding := &js_ast.BIdentifier{Name: sigName}
			sigGlobal := &js_ast.EIdentifier{Name: "$RefreshSig$"}
			out = append(out, js_ast.Stmt{Data: &js_ast.SLocal{
				Kind: js_ast.LocalVar,
				Decls: []js_ast.Decl{{
					Binding:    js_ast.Binding{Data: binding},
					ValueOrNil: js_ast.Expr{Data: &js_ast.ECall{Target: js_ast.Expr{Data: sigGlobal}}},
				}},
			}})

			// _s(); as the first statement of the component body
			bodyCall := &js_ast.EIdentifier{Name: sigName}
			*body = append([]js_ast.Stmt{{Data: &js_ast.SExpr{
				Value: js_ast.Expr{Data: &js_ast.ECall{Target: js_ast.Expr{Data: bodyCall}}},
			}}}, *body...)

			ctx.markInjected(sigName, &binding.Name, &bodyCall.Name)
		}

		out = append(out, stmt)

		if sigName != "" {
			// _s(App, "useState;useEffect");
			sigCall := &js_ast.EIdentifier{Name: sigName}
			out = append(out, js_ast.Stmt{Data: &js_ast.SExpr{
				Value: js_ast.Expr{Data: &js_ast.ECall{
					Target: js_ast.Expr{Data: sigCall},
					Args: []js_ast.Expr{
						{Data: &js_ast.EIdentifier{Name: name}},
						{Data: &js_ast.EString{Value: strings.Join(hooks, ";")}},
					},
				}},
			}})
			ctx.markInjected(sigName, &sigCall.Name)
		}

		// $RefreshReg$(App, "App");
		out = append(out, js_ast.Stmt{Data: &js_ast.SExpr{
			Value: js_ast.Expr{Data: &js_ast.ECall{
				Target: js_ast.Expr{Data: &js_ast.EIdentifier{Name: "$RefreshReg$"}},
				Args: []js_ast.Expr{
					{Data: &js_ast.EIdentifier{Name: name}},
					{Data: &js_ast.EString{Value: name}},
				},
			}},
		}})
	}

	ctx.Module.Stmts = out
	return nil
}

// componentDecl recognizes the declarations the refresh runtime can track: a
// named top-level function, a const/let binding of a function or arrow, or a
// named default-exported function, all with a capitalized name.
func componentDecl(stmt js_ast.Stmt) (name string, body *[]js_ast.Stmt, ok bool) {
	switch s := stmt.Data.(type) {
	case *js_ast.SFunction:
		if s.Fn.Name != nil && isComponentName(s.Fn.Name.Name) {
			return s.Fn.Name.Name, &s.Fn.Body.Stmts, true
		}

	case *js_ast.SExportDefault:
		if s.Value.Stmt != nil {
			if fn, isFn := s.Value.Stmt.Data.(*js_ast.SFunction); isFn && fn.Fn.Name != nil && isComponentName(fn.Fn.Name.Name) {
				return fn.Fn.Name.Name, &fn.Fn.Body.Stmts, true
			}
		}

	case *js_ast.SLocal:
		if len(s.Decls) != 1 {
			break
		}
		binding, isIdent := s.Decls[0].Binding.Data.(*js_ast.BIdentifier)
		if !isIdent || !isComponentName(binding.Name) {
			break
		}
		switch value := s.Decls[0].ValueOrNil.Data.(type) {
		case *js_ast.EArrow:
			// A concise body must become a block to take the signature call
			value.PreferExpr = false
			return binding.Name, &value.Body.Stmts, true
		case *js_ast.EFunction:
			return binding.Name, &value.Fn.Body.Stmts, true
		}
	}
	return "", nil, false
}

func isComponentName(name string) bool {
	return len(name) > 0 && name[0] >= 'A' && name[0] <= 'Z'
}

// hookCalls collects the hook names called anywhere in a component body, in
// call order without duplicates. Both bare calls (useState) and namespaced
// calls (React.useState) count.
func hookCalls(body []js_ast.Stmt) []string {
	var hooks []string
	seen := make(map[string]struct{})
	visitExprs(body, func(expr *js_ast.Expr) {
		call, isCall := expr.Data.(*js_ast.ECall)
		if !isCall {
			return
		}
		name := ""
		switch target := call.Target.Data.(type) {
		case *js_ast.EIdentifier:
			name = target.Name
		case *js_ast.EDot:
			name = target.Name
		}
		if isHookName(name) {
			if _, dup := seen[name]; !dup {
				seen[name] = struct{}{}
				hooks = append(hooks, name)
			}
		}
	})
	return hooks
}

func isHookName(name string) bool {
	return len(name) > 3 && strings.HasPrefix(name, "use") && name[3] >= 'A' && name[3] <= 'Z'
}

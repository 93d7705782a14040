// Package export_names answers "what names does this module export" without
// running the transform pipeline. Module servers use the answer to build the
// re-export shim that fronts a CommonJS or remote module.
package export_names

import (
	"github.com/esmd/esm-compiler/internal/js_ast"
)

// Parse walks the top-level statements of a parsed module and returns the
// exported binding names in declaration order. Duplicates are kept as-is. A
// bare "export * from" statement has no static name, so it contributes the
// specifier wrapped in braces ("{" + specifier + "}") and the caller decides
// how to expand it. The walk never fails.
func Parse(stmts []js_ast.Stmt) []string {
	var names []string
	for _, stmt := range stmts {
		switch s := stmt.Data.(type) {
		case *js_ast.SLocal:
			if s.IsExport {
				for _, decl := range s.Decls {
					names = appendBindingNames(names, decl.Binding)
				}
			}

		case *js_ast.SFunction:
			if s.IsExport && s.Fn.Name != nil {
				names = append(names, s.Fn.Name.Name)
			}

		case *js_ast.SClass:
			if s.IsExport && s.Class.Name != nil {
				names = append(names, s.Class.Name.Name)
			}

		case *js_ast.SEnum:
			if s.IsExport {
				names = append(names, s.Name.Name)
			}

		case *js_ast.SNamespace:
			if s.IsExport {
				names = append(names, s.Name.Name)
			}

		case *js_ast.SExportDefault:
			names = append(names, "default")

		case *js_ast.SExportClause:
			for _, item := range s.Items {
				names = append(names, item.Alias)
			}

		case *js_ast.SExportFrom:
			for _, item := range s.Items {
				names = append(names, item.Alias)
			}

		case *js_ast.SExportStar:
			if s.Alias != nil {
				names = append(names, s.Alias.Name)
			} else {
				names = append(names, "{"+s.Path.Text+"}")
			}
		}
	}
	return names
}

// appendBindingNames adds every leaf identifier of a (possibly destructuring)
// binding pattern, depth-first and left-to-right. A rest element contributes
// its own bound name, not the names it collects.
func appendBindingNames(names []string, binding js_ast.Binding) []string {
	switch b := binding.Data.(type) {
	case *js_ast.BIdentifier:
		names = append(names, b.Name)

	case *js_ast.BArray:
		for _, item := range b.Items {
			names = appendBindingNames(names, item.Binding)
		}

	case *js_ast.BObject:
		for _, property := range b.Properties {
			names = appendBindingNames(names, property.Value)
		}
	}
	return names
}

// Package transformer runs the ordered stage pipeline that turns a parsed
// module into servable script text plus its pruned dependency list. Stage
// order is load-bearing: JSX desugaring must see the original tree, the
// import rewrite must see factory calls it shouldn't touch, decorator
// lowering must run before helper injection, and TypeScript stripping must
// run after everything that still wants to look at type positions.
package transformer

import (
	"fmt"

	"github.com/esmd/esm-compiler/internal/config"
	"github.com/esmd/esm-compiler/internal/js_ast"
	"github.com/esmd/esm-compiler/internal/js_printer"
	"github.com/esmd/esm-compiler/internal/logger"
	"github.com/esmd/esm-compiler/internal/resolver"
)

// ParsedModule is the parser's output: one module's AST plus the side
// channels the printer needs. It is consumed exactly once by Transform.
type ParsedModule struct {
	Specifier  string
	Stmts      []js_ast.Stmt
	Comments   []js_ast.Comment
	Source     logger.Source
	SourceType config.SourceType
}

// Context carries the per-compilation state the stages share. A fresh
// Context is built inside every Transform call and discarded at the end, so
// concurrent compilations never see each other's hygiene scope or helper
// marks.
type Context struct {
	Module   *ParsedModule
	Options  config.EmitOptions
	Resolver *resolver.Resolver

	// Pre-existing top-level binding names, filled by the scope stage (or
	// lazily by the fixup stage when the scope stage was skipped)
	moduleNames map[string]struct{}

	// Every identifier occurrence injected by a stage, keyed by name. The
	// fixup stage renames a whole group at once when its name collides with
	// a module binding.
	injected      map[string][]*string
	injectedOrder []string

	// Runtime helpers referenced by the decorator stage, injected by the
	// helper stage in mark order
	helperMarks []string
}

// markInjected records identifier occurrences created by a stage so the
// fixup stage can rename all of them together. The first call snapshots the
// module's own names; stages splice injected statements into the tree only
// at the end of their pass, so the snapshot never sees an injected name.
func (ctx *Context) markInjected(name string, occurrences ...*string) {
	ctx.collectModuleNames()
	if _, seen := ctx.injected[name]; !seen {
		ctx.injectedOrder = append(ctx.injectedOrder, name)
	}
	ctx.injected[name] = append(ctx.injected[name], occurrences...)
}

func (ctx *Context) markHelper(name string) {
	for _, marked := range ctx.helperMarks {
		if marked == name {
			return
		}
	}
	ctx.helperMarks = append(ctx.helperMarks, name)
}

// errorAt builds the fatal pipeline error for an unsupported construct.
func (ctx *Context) errorAt(loc logger.Loc, format string, args ...interface{}) error {
	line, column := ctx.Module.Source.LineAndColumnForLoc(loc)
	return &logger.CompileError{
		Kind:      logger.TransformError,
		Specifier: ctx.Module.Specifier,
		Line:      line,
		Column:    column,
		Text:      fmt.Sprintf(format, args...),
	}
}

// A Stage is one pipeline pass. Enabled is consulted per compilation, so a
// stage can gate itself on options or on the source type. Transform mutates
// ctx.Module.Stmts in place; any error aborts the whole compilation.
type Stage interface {
	Name() string
	Enabled(ctx *Context) bool
	Transform(ctx *Context) error
}

// Pipeline returns the stage list in execution order.
func Pipeline() []Stage {
	return []Stage{
		&refreshStage{},
		&scopeStage{},
		&jsxStage{},
		&resolveStage{},
		&decoratorsStage{},
		&helpersStage{},
		&tsStripStage{},
		&fixupStage{},
	}
}

// Result is the printed output. SourceMap is empty unless the options asked
// for one.
type Result struct {
	Code      string
	SourceMap string
}

// Transform runs the pipeline over module, prints the result, and prunes the
// resolver's dependency list against the printed text. The module and the
// resolver must both be exclusive to this call.
func Transform(module *ParsedModule, r *resolver.Resolver, options config.EmitOptions) (Result, error) {
	ctx := &Context{
		Module:   module,
		Options:  options.FillDefaults(),
		Resolver: r,
		injected: make(map[string][]*string),
	}

	for _, stage := range Pipeline() {
		if !stage.Enabled(ctx) {
			continue
		}
		if err := stage.Transform(ctx); err != nil {
			return Result{}, err
		}
	}

	printed := js_printer.Print(module.Stmts, module.Comments, &module.Source, js_printer.Options{
		SourceMap: ctx.Options.SourceMap,
	})
	r.Prune(printed.JS)

	return Result{Code: printed.JS, SourceMap: printed.SourceMap}, nil
}

// collectModuleNames records every top-level binding name declared by the
// module itself, before any stage injected anything.
func (ctx *Context) collectModuleNames() {
	if ctx.moduleNames != nil {
		return
	}
	names := make(map[string]struct{})
	declare := func(name string) { names[name] = struct{}{} }

	var bindingNames func(binding js_ast.Binding)
	bindingNames = func(binding js_ast.Binding) {
		switch b := binding.Data.(type) {
		case *js_ast.BIdentifier:
			declare(b.Name)
		case *js_ast.BArray:
			for _, item := range b.Items {
				bindingNames(item.Binding)
			}
		case *js_ast.BObject:
			for _, property := range b.Properties {
				bindingNames(property.Value)
			}
		}
	}

	for _, stmt := range ctx.Module.Stmts {
		switch s := stmt.Data.(type) {
		case *js_ast.SLocal:
			for _, decl := range s.Decls {
				bindingNames(decl.Binding)
			}
		case *js_ast.SFunction:
			if s.Fn.Name != nil {
				declare(s.Fn.Name.Name)
			}
		case *js_ast.SClass:
			if s.Class.Name != nil {
				declare(s.Class.Name.Name)
			}
		case *js_ast.SEnum:
			declare(s.Name.Name)
		case *js_ast.SNamespace:
			declare(s.Name.Name)
		case *js_ast.SImport:
			if s.DefaultName != nil {
				declare(s.DefaultName.Name)
			}
			if s.StarName != nil {
				declare(s.StarName.Name)
			}
			if s.Items != nil {
				for _, item := range *s.Items {
					declare(item.Name.Name)
				}
			}
		case *js_ast.SExportDefault:
			if s.Value.Stmt != nil {
				switch d := s.Value.Stmt.Data.(type) {
				case *js_ast.SFunction:
					if d.Fn.Name != nil {
						declare(d.Fn.Name.Name)
					}
				case *js_ast.SClass:
					if d.Class.Name != nil {
						declare(d.Class.Name.Name)
					}
				}
			}
		}
	}
	ctx.moduleNames = names
}

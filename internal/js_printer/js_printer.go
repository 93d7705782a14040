package js_printer

import (
	"math"
	"strconv"
	"strings"

	"github.com/esmd/esm-compiler/internal/js_ast"
	"github.com/esmd/esm-compiler/internal/logger"
	"github.com/esmd/esm-compiler/internal/sourcemap"
)

type Options struct {
	SourceMap bool

	// IndentText defaults to four spaces
	IndentText string
}

type PrintResult struct {
	JS string

	// Set when Options.SourceMap is on
	SourceMap string
}

// Print turns an AST back into source text. Comments from the side-channel
// store are re-emitted ahead of the first statement that follows them.
func Print(stmts []js_ast.Stmt, comments []js_ast.Comment, source *logger.Source, options Options) PrintResult {
	if options.IndentText == "" {
		options.IndentText = "    "
	}

	p := &printer{
		options:  options,
		comments: comments,
	}
	if options.SourceMap {
		p.lineOffsets = sourcemap.MakeLineOffsetTable(source.Contents)
		p.sm = &sourcemap.SourceMap{}
	}

	for _, stmt := range stmts {
		p.printStmt(stmt)
	}
	p.flushCommentsBefore(logger.Loc{Start: int32(len(source.Contents)) + 1})

	result := PrintResult{JS: p.sb.String()}
	if p.sm != nil {
		result.SourceMap = p.sm.String(source.Specifier, source.Contents)
	}
	return result
}

type printer struct {
	options Options
	sb      strings.Builder
	indent  int

	comments     []js_ast.Comment
	commentIndex int

	lineOffsets     sourcemap.LineOffsetTable
	sm              *sourcemap.SourceMap
	generatedLine   int32
	generatedColumn int32
}

func (p *printer) print(text string) {
	p.sb.WriteString(text)
	if p.sm != nil {
		for i := 0; i < len(text); i++ {
			if text[i] == '\n' {
				p.generatedLine++
				p.generatedColumn = 0
			} else {
				p.generatedColumn++
			}
		}
	}
}

func (p *printer) printNewline() {
	p.print("\n")
}

func (p *printer) printIndent() {
	for i := 0; i < p.indent; i++ {
		p.print(p.options.IndentText)
	}
}

func (p *printer) addSourceMapping(loc logger.Loc) {
	if p.sm == nil || loc.Start <= 0 {
		return
	}
	line, column := p.lineOffsets.LineAndColumn(loc.Start)
	p.sm.AddMapping(sourcemap.Mapping{
		GeneratedLine:   p.generatedLine,
		GeneratedColumn: p.generatedColumn,
		OriginalLine:    line,
		OriginalColumn:  column,
	})
}

// flushCommentsBefore writes out stored comments that appeared before loc in
// the original source.
func (p *printer) flushCommentsBefore(loc logger.Loc) {
	for p.commentIndex < len(p.comments) && p.comments[p.commentIndex].Loc.Start < loc.Start {
		comment := p.comments[p.commentIndex]
		p.commentIndex++
		p.printIndent()
		if strings.HasPrefix(comment.Text, "/*") {
			// Re-indent continuation lines of multi-line comments
			for i, line := range strings.Split(comment.Text, "\n") {
				if i > 0 {
					p.printNewline()
					p.printIndent()
				}
				p.print(strings.TrimRight(line, "\r"))
			}
		} else {
			p.print(comment.Text)
		}
		p.printNewline()
	}
}

func (p *printer) printStmt(stmt js_ast.Stmt) {
	if _, ok := stmt.Data.(*js_ast.STypeScript); ok {
		return
	}
	if stmt.Loc.Start > 0 {
		p.flushCommentsBefore(stmt.Loc)
	}

	p.printIndent()
	p.addSourceMapping(stmt.Loc)

	switch s := stmt.Data.(type) {
	case *js_ast.SEmpty:
		p.print(";")

	case *js_ast.SDirective:
		p.printQuoted(s.Value)
		p.print(";")

	case *js_ast.SDebugger:
		p.print("debugger;")

	case *js_ast.SBlock:
		p.printBlock(s.Stmts)

	case *js_ast.SExpr:
		p.printExprStmt(s.Value)
		p.print(";")

	case *js_ast.SLocal:
		if s.IsExport {
			p.print("export ")
		}
		p.printDecls(s.Kind, s.Decls)
		p.print(";")

	case *js_ast.SFunction:
		if s.IsExport {
			p.print("export ")
		}
		p.printFn(s.Fn, true)
		p.printNewline()
		return

	case *js_ast.SClass:
		if s.IsExport {
			p.print("export ")
		}
		p.printClass(s.Class)
		p.printNewline()
		return

	case *js_ast.SLabel:
		p.print(s.Name.Name)
		p.print(": ")
		p.printBodyInline(s.Stmt)
		return

	case *js_ast.SIf:
		p.printIf(s)
		p.printNewline()
		return

	case *js_ast.SFor:
		p.print("for (")
		if s.InitOrNil != nil {
			p.printForLoopInit(*s.InitOrNil)
		}
		p.print(";")
		if s.TestOrNil.Data != nil {
			p.print(" ")
			p.printExpr(s.TestOrNil, js_ast.LLowest)
		}
		p.print(";")
		if s.UpdateOrNil.Data != nil {
			p.print(" ")
			p.printExpr(s.UpdateOrNil, js_ast.LLowest)
		}
		p.print(") ")
		p.printBodyInline(s.Body)
		return

	case *js_ast.SForIn:
		p.print("for (")
		p.printForLoopInit(s.Init)
		p.print(" in ")
		p.printExpr(s.Value, js_ast.LLowest)
		p.print(") ")
		p.printBodyInline(s.Body)
		return

	case *js_ast.SForOf:
		p.print("for ")
		if s.IsAwait {
			p.print("await ")
		}
		p.print("(")
		p.printForLoopInit(s.Init)
		p.print(" of ")
		p.printExpr(s.Value, js_ast.LComma)
		p.print(") ")
		p.printBodyInline(s.Body)
		return

	case *js_ast.SDoWhile:
		p.print("do ")
		if block, ok := s.Body.Data.(*js_ast.SBlock); ok {
			p.printBlock(block.Stmts)
			p.print(" ")
		} else {
			p.printNewline()
			p.indent++
			p.printStmt(s.Body)
			p.indent--
			p.printIndent()
		}
		p.print("while (")
		p.printExpr(s.Test, js_ast.LLowest)
		p.print(");")

	case *js_ast.SWhile:
		p.print("while (")
		p.printExpr(s.Test, js_ast.LLowest)
		p.print(") ")
		p.printBodyInline(s.Body)
		return

	case *js_ast.SWith:
		p.print("with (")
		p.printExpr(s.Value, js_ast.LLowest)
		p.print(") ")
		p.printBodyInline(s.Body)
		return

	case *js_ast.STry:
		p.print("try ")
		p.printBlock(s.Body)
		if s.Catch != nil {
			p.print(" catch ")
			if s.Catch.BindingOrNil != nil {
				p.print("(")
				p.printBinding(*s.Catch.BindingOrNil)
				p.print(") ")
			}
			p.printBlock(s.Catch.Body)
		}
		if s.Finally != nil {
			p.print(" finally ")
			p.printBlock(s.Finally.Stmts)
		}

	case *js_ast.SSwitch:
		p.print("switch (")
		p.printExpr(s.Test, js_ast.LLowest)
		p.print(") {")
		p.printNewline()
		p.indent++
		for _, c := range s.Cases {
			p.printIndent()
			if c.ValueOrNil.Data != nil {
				p.print("case ")
				p.printExpr(c.ValueOrNil, js_ast.LLowest)
				p.print(":")
			} else {
				p.print("default:")
			}
			p.printNewline()
			p.indent++
			for _, bodyStmt := range c.Body {
				p.printStmt(bodyStmt)
			}
			p.indent--
		}
		p.indent--
		p.printIndent()
		p.print("}")

	case *js_ast.SReturn:
		if s.ValueOrNil.Data != nil {
			p.print("return ")
			p.printExpr(s.ValueOrNil, js_ast.LLowest)
			p.print(";")
		} else {
			p.print("return;")
		}

	case *js_ast.SThrow:
		p.print("throw ")
		p.printExpr(s.Value, js_ast.LLowest)
		p.print(";")

	case *js_ast.SBreak:
		if s.Label != nil {
			p.print("break " + s.Label.Name + ";")
		} else {
			p.print("break;")
		}

	case *js_ast.SContinue:
		if s.Label != nil {
			p.print("continue " + s.Label.Name + ";")
		} else {
			p.print("continue;")
		}

	case *js_ast.SImport:
		p.printImport(s)

	case *js_ast.SExportClause:
		p.print("export { ")
		p.printClauseItems(s.Items, true)
		p.print(" };")

	case *js_ast.SExportFrom:
		p.print("export { ")
		p.printClauseItems(s.Items, true)
		p.print(" } from ")
		p.printQuoted(s.Path.Text)
		p.print(";")

	case *js_ast.SExportStar:
		p.print("export *")
		if s.Alias != nil {
			p.print(" as " + s.Alias.Name)
		}
		p.print(" from ")
		p.printQuoted(s.Path.Text)
		p.print(";")

	case *js_ast.SExportDefault:
		p.print("export default ")
		if s.Value.Expr != nil {
			p.printExpr(*s.Value.Expr, js_ast.LComma)
			p.print(";")
		} else {
			switch inner := s.Value.Stmt.Data.(type) {
			case *js_ast.SFunction:
				p.printFn(inner.Fn, true)
			case *js_ast.SClass:
				p.printClass(inner.Class)
			default:
				panic("Internal error: unexpected default export statement")
			}
			p.printNewline()
			return
		}

	default:
		panic("Internal error: unexpected statement type")
	}

	p.printNewline()
}

// printBodyInline prints a statement used as the body of "if", "for", and
// friends. Blocks stay on the same line.
func (p *printer) printBodyInline(stmt js_ast.Stmt) {
	if block, ok := stmt.Data.(*js_ast.SBlock); ok {
		p.printBlock(block.Stmts)
		p.printNewline()
		return
	}
	p.printNewline()
	p.indent++
	p.printStmt(stmt)
	p.indent--
}

func (p *printer) printIf(s *js_ast.SIf) {
	p.print("if (")
	p.printExpr(s.Test, js_ast.LLowest)
	p.print(") ")

	yesBlock, yesIsBlock := s.Yes.Data.(*js_ast.SBlock)
	if yesIsBlock {
		p.printBlock(yesBlock.Stmts)
	} else {
		p.printNewline()
		p.indent++
		p.printStmt(s.Yes)
		p.indent--
	}

	if s.NoOrNil == nil {
		return
	}
	if yesIsBlock {
		p.print(" else ")
	} else {
		p.printIndent()
		p.print("else ")
	}

	switch no := s.NoOrNil.Data.(type) {
	case *js_ast.SBlock:
		p.printBlock(no.Stmts)
	case *js_ast.SIf:
		p.printIf(no)
	default:
		p.printNewline()
		p.indent++
		p.printStmt(*s.NoOrNil)
		p.indent--
	}
}

func (p *printer) printBlock(stmts []js_ast.Stmt) {
	p.print("{")
	p.printNewline()
	p.indent++
	for _, stmt := range stmts {
		p.printStmt(stmt)
	}
	p.indent--
	p.printIndent()
	p.print("}")
}

func (p *printer) printForLoopInit(init js_ast.Stmt) {
	switch s := init.Data.(type) {
	case *js_ast.SExpr:
		p.printExpr(s.Value, js_ast.LLowest)
	case *js_ast.SLocal:
		p.printDecls(s.Kind, s.Decls)
	default:
		panic("Internal error: unexpected loop initializer")
	}
}

func (p *printer) printDecls(kind js_ast.LocalKind, decls []js_ast.Decl) {
	p.print(kind.String())
	p.print(" ")
	for i, decl := range decls {
		if i > 0 {
			p.print(", ")
		}
		p.printBinding(decl.Binding)
		if decl.ValueOrNil.Data != nil {
			p.print(" = ")
			p.printExpr(decl.ValueOrNil, js_ast.LComma)
		}
	}
}

func (p *printer) printImport(s *js_ast.SImport) {
	p.print("import ")

	if s.DefaultName == nil && s.Items == nil && s.StarName == nil {
		p.printQuoted(s.Path.Text)
		p.print(";")
		return
	}

	needComma := false
	if s.DefaultName != nil {
		p.print(s.DefaultName.Name)
		needComma = true
	}
	if s.StarName != nil {
		if needComma {
			p.print(", ")
		}
		p.print("* as " + s.StarName.Name)
		needComma = true
	}
	if s.Items != nil {
		if needComma {
			p.print(", ")
		}
		p.print("{ ")
		p.printClauseItems(*s.Items, false)
		p.print(" }")
	}

	p.print(" from ")
	p.printQuoted(s.Path.Text)
	p.print(";")
}

// printClauseItems prints "a, b as c". For imports the alias is the remote
// name; for exports it is the exported name.
func (p *printer) printClauseItems(items []js_ast.ClauseItem, isExport bool) {
	for i, item := range items {
		if i > 0 {
			p.print(", ")
		}
		if isExport {
			p.print(item.Name.Name)
			if item.Alias != item.Name.Name {
				p.print(" as ")
				p.printNameOrString(item.Alias)
			}
		} else {
			p.printNameOrString(item.Alias)
			if item.Alias != item.Name.Name {
				p.print(" as " + item.Name.Name)
			}
		}
	}
}

func (p *printer) printNameOrString(name string) {
	if isValidIdentifier(name) {
		p.print(name)
	} else {
		p.printQuoted(name)
	}
}

func (p *printer) printBinding(binding js_ast.Binding) {
	switch b := binding.Data.(type) {
	case *js_ast.BMissing:

	case *js_ast.BIdentifier:
		p.print(b.Name)

	case *js_ast.BArray:
		p.print("[")
		for i, item := range b.Items {
			if i > 0 {
				p.print(", ")
			}
			if b.HasSpread && i == len(b.Items)-1 {
				p.print("...")
			}
			p.printBinding(item.Binding)
			if item.DefaultOrNil.Data != nil {
				p.print(" = ")
				p.printExpr(item.DefaultOrNil, js_ast.LComma)
			}
		}
		p.print("]")

	case *js_ast.BObject:
		p.print("{ ")
		for i, property := range b.Properties {
			if i > 0 {
				p.print(", ")
			}
			if property.IsSpread {
				p.print("...")
				p.printBinding(property.Value)
				continue
			}
			if property.IsComputed {
				p.print("[")
				p.printExpr(property.Key, js_ast.LComma)
				p.print("]: ")
				p.printBinding(property.Value)
			} else {
				shorthand := false
				if str, ok := property.Key.Data.(*js_ast.EString); ok && isValidIdentifier(str.Value) {
					if ident, ok := property.Value.Data.(*js_ast.BIdentifier); ok && ident.Name == str.Value {
						p.print(str.Value)
						shorthand = true
					}
				}
				if !shorthand {
					p.printPropertyKey(property.Key, false)
					p.print(": ")
					p.printBinding(property.Value)
				}
			}
			if property.DefaultOrNil.Data != nil {
				p.print(" = ")
				p.printExpr(property.DefaultOrNil, js_ast.LComma)
			}
		}
		p.print(" }")

	default:
		panic("Internal error: unexpected binding type")
	}
}

func (p *printer) printFn(fn js_ast.Fn, withKeyword bool) {
	if withKeyword {
		if fn.IsAsync {
			p.print("async ")
		}
		p.print("function")
		if fn.IsGenerator {
			p.print("*")
		}
		if fn.Name != nil {
			p.print(" " + fn.Name.Name)
		}
	}
	p.printFnArgs(fn)
	p.print(" ")
	p.printBlock(fn.Body.Stmts)
}

func (p *printer) printFnArgs(fn js_ast.Fn) {
	p.print("(")
	for i, arg := range fn.Args {
		if i > 0 {
			p.print(", ")
		}
		if fn.HasRestArg && i == len(fn.Args)-1 {
			p.print("...")
		}
		p.printBinding(arg.Binding)
		if arg.DefaultOrNil.Data != nil {
			p.print(" = ")
			p.printExpr(arg.DefaultOrNil, js_ast.LComma)
		}
	}
	p.print(")")
}

func (p *printer) printClass(class js_ast.Class) {
	for _, decorator := range class.TSDecorators {
		p.print("@")
		p.printExpr(decorator, js_ast.LNew)
		p.printNewline()
		p.printIndent()
	}

	p.print("class")
	if class.Name != nil {
		p.print(" " + class.Name.Name)
	}
	if class.ExtendsOrNil.Data != nil {
		p.print(" extends ")
		p.printExpr(class.ExtendsOrNil, js_ast.LNew)
	}
	p.print(" {")
	p.printNewline()
	p.indent++
	for _, property := range class.Properties {
		p.printIndent()
		p.printProperty(property, true)
		p.printNewline()
	}
	p.indent--
	p.printIndent()
	p.print("}")
}

// printProperty handles both class members and object literal members.
func (p *printer) printProperty(property js_ast.Property, isClass bool) {
	if property.Kind == js_ast.PropertySpread {
		p.print("...")
		p.printExpr(property.ValueOrNil, js_ast.LComma)
		return
	}

	for _, decorator := range property.TSDecorators {
		p.print("@")
		p.printExpr(decorator, js_ast.LNew)
		p.printNewline()
		p.printIndent()
	}

	if property.IsStatic {
		p.print("static ")
	}

	if property.IsMethod {
		fn := property.ValueOrNil.Data.(*js_ast.EFunction).Fn
		if fn.IsAsync {
			p.print("async ")
		}
		if fn.IsGenerator {
			p.print("*")
		}
		switch property.Kind {
		case js_ast.PropertyGet:
			p.print("get ")
		case js_ast.PropertySet:
			p.print("set ")
		}
		p.printPropertyKey(property.Key, property.IsComputed)
		p.printFn(fn, false)
		return
	}

	if property.IsShorthand && !isClass {
		if str, ok := property.Key.Data.(*js_ast.EString); ok {
			p.print(str.Value)
			return
		}
	}

	p.printPropertyKey(property.Key, property.IsComputed)
	if isClass {
		if property.ValueOrNil.Data != nil {
			p.print(" = ")
			p.printExpr(property.ValueOrNil, js_ast.LComma)
		}
		p.print(";")
		return
	}
	p.print(": ")
	p.printExpr(property.ValueOrNil, js_ast.LComma)
}

func (p *printer) printPropertyKey(key js_ast.Expr, isComputed bool) {
	if isComputed {
		p.print("[")
		p.printExpr(key, js_ast.LComma)
		p.print("]")
		return
	}
	switch k := key.Data.(type) {
	case *js_ast.EString:
		if isValidIdentifier(k.Value) {
			p.print(k.Value)
		} else {
			p.printQuoted(k.Value)
		}
	case *js_ast.ENumber:
		p.print(numberToString(k.Value))
	case *js_ast.EPrivateIdentifier:
		p.print(k.Name)
	default:
		p.printExpr(key, js_ast.LComma)
	}
}

// printExprStmt parenthesizes expressions that would otherwise be parsed as
// a declaration or a block at the start of a statement.
func (p *printer) printExprStmt(expr js_ast.Expr) {
	if startsWithDeclarationKeyword(expr) {
		p.print("(")
		p.printExpr(expr, js_ast.LLowest)
		p.print(")")
		return
	}
	p.printExpr(expr, js_ast.LLowest)
}

func startsWithDeclarationKeyword(expr js_ast.Expr) bool {
	for {
		switch e := expr.Data.(type) {
		case *js_ast.EObject, *js_ast.EFunction, *js_ast.EClass:
			return true
		case *js_ast.ECall:
			// Targets that printExprTarget already parenthesizes are fine
			if targetGetsParens(e.Target) {
				return false
			}
			expr = e.Target
		case *js_ast.EDot:
			if targetGetsParens(e.Target) {
				return false
			}
			expr = e.Target
		case *js_ast.EIndex:
			if targetGetsParens(e.Target) {
				return false
			}
			expr = e.Target
		case *js_ast.EBinary:
			expr = e.Left
		case *js_ast.EIf:
			expr = e.Test
		case *js_ast.ETemplate:
			if e.TagOrNil.Data == nil || targetGetsParens(e.TagOrNil) {
				return false
			}
			expr = e.TagOrNil
		case *js_ast.EUnary:
			if e.Op.IsPrefix() {
				return false
			}
			expr = e.Value
		default:
			return false
		}
	}
}

func targetGetsParens(target js_ast.Expr) bool {
	switch target.Data.(type) {
	case *js_ast.EFunction, *js_ast.EClass, *js_ast.EArrow, *js_ast.EObject, *js_ast.ENumber:
		return true
	}
	return false
}

func (p *printer) printExpr(expr js_ast.Expr, level js_ast.L) {
	switch e := expr.Data.(type) {
	case *js_ast.EMissing:

	case *js_ast.EUndefined:
		p.print("undefined")

	case *js_ast.ENull:
		p.print("null")

	case *js_ast.EThis:
		p.print("this")

	case *js_ast.ESuper:
		p.print("super")

	case *js_ast.EBoolean:
		if e.Value {
			p.print("true")
		} else {
			p.print("false")
		}

	case *js_ast.ENumber:
		p.print(numberToString(e.Value))

	case *js_ast.EBigInt:
		p.print(e.Value + "n")

	case *js_ast.EString:
		if e.PreferTemplate {
			p.print("`")
			p.print(escapeForTemplate(e.Value))
			p.print("`")
		} else {
			p.printQuoted(e.Value)
		}

	case *js_ast.ERegExp:
		p.print(e.Value)

	case *js_ast.EIdentifier:
		p.addSourceMapping(expr.Loc)
		p.print(e.Name)

	case *js_ast.EPrivateIdentifier:
		p.print(e.Name)

	case *js_ast.ENewTarget:
		p.print("new.target")

	case *js_ast.EImportMeta:
		p.print("import.meta")

	case *js_ast.ESpread:
		p.print("...")
		p.printExpr(e.Value, js_ast.LComma)

	case *js_ast.EImport:
		p.print("import(")
		p.printExpr(e.Expr, js_ast.LComma)
		if e.OptionsOrNil.Data != nil {
			p.print(", ")
			p.printExpr(e.OptionsOrNil, js_ast.LComma)
		}
		p.print(")")

	case *js_ast.EArray:
		p.print("[")
		for i, item := range e.Items {
			if i > 0 {
				p.print(", ")
			}
			p.printExpr(item, js_ast.LComma)
			if _, isMissing := item.Data.(*js_ast.EMissing); isMissing && i == len(e.Items)-1 {
				p.print(",")
			}
		}
		p.print("]")

	case *js_ast.EObject:
		p.printObject(e)

	case *js_ast.EDot:
		wrap := level >= js_ast.LCall && hasCallTarget(e.Target)
		if wrap {
			p.print("(")
		}
		p.printExprTarget(e.Target)
		if e.OptionalChain {
			p.print("?.")
		} else {
			p.print(".")
		}
		p.print(e.Name)
		if wrap {
			p.print(")")
		}

	case *js_ast.EIndex:
		wrap := level >= js_ast.LCall && hasCallTarget(e.Target)
		if wrap {
			p.print("(")
		}
		p.printExprTarget(e.Target)
		if e.OptionalChain {
			p.print("?.")
		}
		p.print("[")
		p.printExpr(e.Index, js_ast.LLowest)
		p.print("]")
		if wrap {
			p.print(")")
		}

	case *js_ast.ECall:
		wrap := level >= js_ast.LCall
		if wrap {
			p.print("(")
		}
		p.addSourceMapping(expr.Loc)
		p.printExprTarget(e.Target)
		if e.OptionalChain {
			p.print("?.")
		}
		p.print("(")
		for i, arg := range e.Args {
			if i > 0 {
				p.print(", ")
			}
			p.printExpr(arg, js_ast.LComma)
		}
		p.print(")")
		if wrap {
			p.print(")")
		}

	case *js_ast.ENew:
		wrap := level >= js_ast.LCall
		if wrap {
			p.print("(")
		}
		p.print("new ")
		p.printExpr(e.Target, js_ast.LCall)
		p.print("(")
		for i, arg := range e.Args {
			if i > 0 {
				p.print(", ")
			}
			p.printExpr(arg, js_ast.LComma)
		}
		p.print(")")
		if wrap {
			p.print(")")
		}

	case *js_ast.EFunction:
		wrap := level >= js_ast.LCall
		if wrap {
			p.print("(")
		}
		p.printFn(e.Fn, true)
		if wrap {
			p.print(")")
		}

	case *js_ast.EClass:
		wrap := level >= js_ast.LCall
		if wrap {
			p.print("(")
		}
		p.printClass(e.Class)
		if wrap {
			p.print(")")
		}

	case *js_ast.EArrow:
		wrap := level >= js_ast.LAssign
		if wrap {
			p.print("(")
		}
		if e.IsAsync {
			p.print("async ")
		}
		p.printArrowArgs(e)
		p.print("=>")
		if e.PreferExpr && len(e.Body.Stmts) == 1 {
			if ret, ok := e.Body.Stmts[0].Data.(*js_ast.SReturn); ok && ret.ValueOrNil.Data != nil {
				p.print(" ")
				if startsWithDeclarationKeyword(ret.ValueOrNil) {
					p.print("(")
					p.printExpr(ret.ValueOrNil, js_ast.LComma)
					p.print(")")
				} else {
					p.printExpr(ret.ValueOrNil, js_ast.LComma)
				}
				if wrap {
					p.print(")")
				}
				return
			}
		}
		p.print(" ")
		p.printBlock(e.Body.Stmts)
		if wrap {
			p.print(")")
		}

	case *js_ast.EAwait:
		wrap := level >= js_ast.LPrefix
		if wrap {
			p.print("(")
		}
		p.print("await ")
		p.printExpr(e.Value, js_ast.LPrefix-1)
		if wrap {
			p.print(")")
		}

	case *js_ast.EYield:
		wrap := level >= js_ast.LAssign
		if wrap {
			p.print("(")
		}
		p.print("yield")
		if e.IsStar {
			p.print("*")
		}
		if e.ValueOrNil.Data != nil {
			p.print(" ")
			p.printExpr(e.ValueOrNil, js_ast.LYield)
		}
		if wrap {
			p.print(")")
		}

	case *js_ast.EIf:
		wrap := level >= js_ast.LConditional
		if wrap {
			p.print("(")
		}
		p.printExpr(e.Test, js_ast.LConditional)
		p.print(" ? ")
		p.printExpr(e.Yes, js_ast.LComma)
		p.print(" : ")
		p.printExpr(e.No, js_ast.LComma)
		if wrap {
			p.print(")")
		}

	case *js_ast.ETemplate:
		if e.TagOrNil.Data != nil {
			p.printExprTarget(e.TagOrNil)
		}
		p.print("`")
		p.print(e.HeadRaw)
		for _, part := range e.Parts {
			p.print("${")
			p.printExpr(part.Value, js_ast.LLowest)
			p.print("}")
			p.print(part.TailRaw)
		}
		p.print("`")

	case *js_ast.EUnary:
		p.printUnary(e, level)

	case *js_ast.EBinary:
		p.printBinary(e, level)

	default:
		panic("Internal error: unexpected expression type")
	}
}

// printExprTarget prints the target of a call, member access, or tagged
// template, which binds tighter than anything else.
func (p *printer) printExprTarget(target js_ast.Expr) {
	if targetGetsParens(target) {
		p.print("(")
		p.printExpr(target, js_ast.LLowest)
		p.print(")")
		return
	}
	p.printExpr(target, js_ast.LPostfix)
}

func hasCallTarget(expr js_ast.Expr) bool {
	for {
		switch e := expr.Data.(type) {
		case *js_ast.ECall, *js_ast.ENew:
			return true
		case *js_ast.EDot:
			expr = e.Target
		case *js_ast.EIndex:
			expr = e.Target
		default:
			return false
		}
	}
}

func (p *printer) printObject(e *js_ast.EObject) {
	if len(e.Properties) == 0 {
		p.print("{}")
		return
	}

	if e.IsSingleLine {
		p.print("{ ")
		for i, property := range e.Properties {
			if i > 0 {
				p.print(", ")
			}
			p.printProperty(property, false)
		}
		p.print(" }")
		return
	}

	p.print("{")
	p.printNewline()
	p.indent++
	for i, property := range e.Properties {
		p.printIndent()
		p.printProperty(property, false)
		if i < len(e.Properties)-1 {
			p.print(",")
		}
		p.printNewline()
	}
	p.indent--
	p.printIndent()
	p.print("}")
}

func (p *printer) printArrowArgs(e *js_ast.EArrow) {
	p.print("(")
	for i, arg := range e.Args {
		if i > 0 {
			p.print(", ")
		}
		if e.HasRestArg && i == len(e.Args)-1 {
			p.print("...")
		}
		p.printBinding(arg.Binding)
		if arg.DefaultOrNil.Data != nil {
			p.print(" = ")
			p.printExpr(arg.DefaultOrNil, js_ast.LComma)
		}
	}
	p.print(")")
}

func (p *printer) printUnary(e *js_ast.EUnary, level js_ast.L) {
	entry := js_ast.OpTable[e.Op]

	if !e.Op.IsPrefix() {
		wrap := level >= js_ast.LPostfix
		if wrap {
			p.print("(")
		}
		p.printExpr(e.Value, js_ast.LPostfix-1)
		p.print(entry.Text)
		if wrap {
			p.print(")")
		}
		return
	}

	wrap := level >= js_ast.LPrefix
	if wrap {
		p.print("(")
	}
	p.print(entry.Text)
	if entry.IsKeyword {
		p.print(" ")
	} else if needsSpaceAfterPrefix(e.Op, e.Value) {
		p.print(" ")
	}
	p.printExpr(e.Value, js_ast.LPrefix-1)
	if wrap {
		p.print(")")
	}
}

// needsSpaceAfterPrefix avoids emitting "--x" for a nested negation.
func needsSpaceAfterPrefix(op js_ast.OpCode, value js_ast.Expr) bool {
	inner, ok := value.Data.(*js_ast.EUnary)
	if !ok {
		return false
	}
	switch op {
	case js_ast.UnOpNeg:
		return inner.Op == js_ast.UnOpNeg || inner.Op == js_ast.UnOpPreDec
	case js_ast.UnOpPos:
		return inner.Op == js_ast.UnOpPos || inner.Op == js_ast.UnOpPreInc
	}
	return false
}

func (p *printer) printBinary(e *js_ast.EBinary, level js_ast.L) {
	entry := js_ast.OpTable[e.Op]
	wrap := level >= entry.Level

	leftLevel := entry.Level - 1
	rightLevel := entry.Level - 1
	if e.Op.IsRightAssociative() {
		leftLevel = entry.Level
	}
	if e.Op.IsLeftAssociative() {
		rightLevel = entry.Level
	}

	// "??" may not be mixed bare with "||" or "&&"
	if e.Op == js_ast.BinOpNullishCoalescing {
		if isLogicalOrAnd(e.Left) {
			leftLevel = js_ast.LPrefix
		}
		if isLogicalOrAnd(e.Right) {
			rightLevel = js_ast.LPrefix
		}
	}

	if wrap {
		p.print("(")
	}
	p.printExpr(e.Left, leftLevel)
	if e.Op == js_ast.BinOpComma {
		p.print(", ")
	} else {
		p.print(" " + entry.Text + " ")
	}
	p.printExpr(e.Right, rightLevel)
	if wrap {
		p.print(")")
	}
}

func isLogicalOrAnd(expr js_ast.Expr) bool {
	if e, ok := expr.Data.(*js_ast.EBinary); ok {
		return e.Op == js_ast.BinOpLogicalOr || e.Op == js_ast.BinOpLogicalAnd
	}
	return false
}

func (p *printer) printQuoted(text string) {
	p.print(quoteString(text))
}

func quoteString(text string) string {
	sb := strings.Builder{}
	sb.WriteByte('"')
	for _, c := range text {
		switch c {
		case '"':
			sb.WriteString("\\\"")
		case '\\':
			sb.WriteString("\\\\")
		case '\n':
			sb.WriteString("\\n")
		case '\r':
			sb.WriteString("\\r")
		case '\t':
			sb.WriteString("\\t")
		case '\b':
			sb.WriteString("\\b")
		case '\f':
			sb.WriteString("\\f")
		case '\v':
			sb.WriteString("\\v")
		case 0:
			sb.WriteString("\\0")
		case 0x2028:
			sb.WriteString("\\u2028")
		case 0x2029:
			sb.WriteString("\\u2029")
		default:
			if c < 0x20 {
				sb.WriteString("\\x")
				const hex = "0123456789abcdef"
				sb.WriteByte(hex[c>>4])
				sb.WriteByte(hex[c&15])
			} else {
				sb.WriteRune(c)
			}
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

func escapeForTemplate(text string) string {
	text = strings.ReplaceAll(text, "\\", "\\\\")
	text = strings.ReplaceAll(text, "`", "\\`")
	return strings.ReplaceAll(text, "${", "\\${")
}

func numberToString(value float64) string {
	if math.IsNaN(value) {
		return "NaN"
	}
	if math.IsInf(value, 1) {
		return "Infinity"
	}
	if math.IsInf(value, -1) {
		return "-Infinity"
	}
	if value == math.Trunc(value) && math.Abs(value) < 1e21 {
		return strconv.FormatFloat(value, 'f', -1, 64)
	}
	return strconv.FormatFloat(value, 'g', -1, 64)
}

func isValidIdentifier(text string) bool {
	if text == "" {
		return false
	}
	for i, c := range text {
		if i == 0 {
			if !(c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')) {
				return false
			}
		} else if !(c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')) {
			return false
		}
	}
	return true
}

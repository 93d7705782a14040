package js_parser

// The parser builds the AST one statement at a time by pulling tokens from
// the lexer. Syntax errors panic with js_lexer.LexerPanic and are recovered
// here in Parse, which turns them into log messages for the caller.

import (
	"github.com/esmd/esm-compiler/internal/config"
	"github.com/esmd/esm-compiler/internal/js_ast"
	"github.com/esmd/esm-compiler/internal/js_lexer"
	"github.com/esmd/esm-compiler/internal/logger"
)

type Options struct {
	Syntax config.Syntax
}

type parser struct {
	log    *logger.Log
	source *logger.Source
	lexer  js_lexer.Lexer
	syntax config.Syntax

	// The "in" operator is forbidden inside for-statement initializers
	allowIn bool

	// "await" and "yield" are only operators in async and generator scopes
	allowAwait bool
	allowYield bool

	// "declare" statements are parsed and then discarded
	isDeclare bool

	// Namespace bodies may contain "export" statements
	isNamespaceScope bool
}

// Parse turns source text into a statement list plus the side-channel
// comment store. When ok is false, the error has been added to the log and
// no AST is returned.
func Parse(log *logger.Log, source *logger.Source, options Options) (stmts []js_ast.Stmt, comments []js_ast.Comment, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			if _, isLexerPanic := r.(js_lexer.LexerPanic); isLexerPanic {
				stmts = nil
				comments = nil
				ok = false
			} else {
				panic(r)
			}
		}
	}()

	p := &parser{
		log:        log,
		source:     source,
		syntax:     options.Syntax,
		allowIn:    true,
		allowAwait: options.Syntax.TopLevelAwait,
	}
	p.lexer = js_lexer.NewLexer(log, source)
	stmts = p.parseStmtsUpTo(js_lexer.TEndOfFile)
	return stmts, p.lexer.Comments, true
}

// tryBacktrack runs a speculative parse. On syntax errors the lexer and the
// log are restored as if the attempt never happened.
func (p *parser) tryBacktrack(fn func()) (ok bool) {
	snapshot := p.lexer.Snapshot()
	logState := p.log.State()
	defer func() {
		if r := recover(); r != nil {
			if _, isLexerPanic := r.(js_lexer.LexerPanic); isLexerPanic {
				p.lexer.Restore(snapshot)
				p.log.Reset(logState)
				ok = false
				return
			}
			panic(r)
		}
	}()
	fn()
	return true
}

func (p *parser) addError(loc logger.Loc, text string) {
	p.log.AddError(p.source, loc, text)
	panic(js_lexer.LexerPanic{})
}

func (p *parser) addRangeError(r logger.Range, text string) {
	p.log.AddRangeError(p.source, r, text)
	panic(js_lexer.LexerPanic{})
}

func (p *parser) parseStmtsUpTo(end js_lexer.T) []js_ast.Stmt {
	stmts := []js_ast.Stmt{}
	isDirectivePrologue := true

	for p.lexer.Token != end {
		stmt := p.parseStmt(parseStmtOpts{isModuleScope: end == js_lexer.TEndOfFile})

		// "use strict" and friends
		if isDirectivePrologue {
			if expr, isExpr := stmt.Data.(*js_ast.SExpr); isExpr {
				if str, isString := expr.Value.Data.(*js_ast.EString); isString {
					stmts = append(stmts, js_ast.Stmt{Loc: stmt.Loc, Data: &js_ast.SDirective{Value: str.Value}})
					continue
				}
			}
			isDirectivePrologue = false
		}

		stmts = append(stmts, stmt)
	}

	return stmts
}

type parseStmtOpts struct {
	isModuleScope bool
	isExport      bool

	// Decorators that appeared before an exported class
	tsDecorators []js_ast.Expr
}

func (p *parser) parseStmt(opts parseStmtOpts) js_ast.Stmt {
	loc := p.lexer.Loc()

	switch p.lexer.Token {
	case js_lexer.TSemicolon:
		p.lexer.Next()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SEmpty{}}

	case js_lexer.TExport:
		if !opts.isModuleScope && !p.isNamespaceScope {
			p.lexer.Unexpected()
		}
		p.lexer.Next()
		return p.parseExportStmt(loc, opts)

	case js_lexer.TImport:
		return p.parseImportStmt(loc, opts)

	case js_lexer.TOpenBrace:
		p.lexer.Next()
		stmts := p.parseStmtsUpTo(js_lexer.TCloseBrace)
		p.lexer.Next()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SBlock{Stmts: stmts}}

	case js_lexer.TDebugger:
		p.lexer.Next()
		p.lexer.ExpectOrInsertSemicolon()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SDebugger{}}

	case js_lexer.TVar:
		p.lexer.Next()
		decls := p.parseDecls()
		p.lexer.ExpectOrInsertSemicolon()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SLocal{Kind: js_ast.LocalVar, Decls: decls, IsExport: opts.isExport}}

	case js_lexer.TConst:
		p.lexer.Next()
		if p.syntax.TypeScript && p.lexer.Token == js_lexer.TEnum {
			return p.parseEnumStmt(loc, opts, true)
		}
		decls := p.parseDecls()
		p.lexer.ExpectOrInsertSemicolon()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SLocal{Kind: js_ast.LocalConst, Decls: decls, IsExport: opts.isExport}}

	case js_lexer.TEnum:
		if !p.syntax.TypeScript {
			p.lexer.Unexpected()
		}
		return p.parseEnumStmt(loc, opts, false)

	case js_lexer.TFunction:
		p.lexer.Next()
		return p.parseFnStmt(loc, opts, false)

	case js_lexer.TClass:
		return p.parseClassStmt(loc, opts)

	case js_lexer.TAt:
		// Decorators must be followed by a class statement
		if !p.syntax.Decorators {
			p.lexer.Unexpected()
		}
		tsDecorators := p.parseDecorators()
		switch p.lexer.Token {
		case js_lexer.TClass:
			opts.tsDecorators = tsDecorators
			return p.parseClassStmt(p.lexer.Loc(), opts)
		case js_lexer.TExport:
			p.lexer.Next()
			if p.lexer.Token != js_lexer.TClass {
				p.lexer.Expected(js_lexer.TClass)
			}
			opts.isExport = true
			opts.tsDecorators = tsDecorators
			return p.parseClassStmt(p.lexer.Loc(), opts)
		default:
			p.lexer.Expected(js_lexer.TClass)
		}

	case js_lexer.TIf:
		p.lexer.Next()
		p.lexer.Expect(js_lexer.TOpenParen)
		test := p.parseExpr(js_ast.LLowest)
		p.lexer.Expect(js_lexer.TCloseParen)
		yes := p.parseStmt(parseStmtOpts{})
		var noOrNil *js_ast.Stmt
		if p.lexer.Token == js_lexer.TElse {
			p.lexer.Next()
			no := p.parseStmt(parseStmtOpts{})
			noOrNil = &no
		}
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SIf{Test: test, Yes: yes, NoOrNil: noOrNil}}

	case js_lexer.TFor:
		return p.parseForStmt(loc)

	case js_lexer.TWhile:
		p.lexer.Next()
		p.lexer.Expect(js_lexer.TOpenParen)
		test := p.parseExpr(js_ast.LLowest)
		p.lexer.Expect(js_lexer.TCloseParen)
		body := p.parseStmt(parseStmtOpts{})
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SWhile{Test: test, Body: body}}

	case js_lexer.TDo:
		p.lexer.Next()
		body := p.parseStmt(parseStmtOpts{})
		p.lexer.Expect(js_lexer.TWhile)
		p.lexer.Expect(js_lexer.TOpenParen)
		test := p.parseExpr(js_ast.LLowest)
		p.lexer.Expect(js_lexer.TCloseParen)
		if p.lexer.Token == js_lexer.TSemicolon {
			p.lexer.Next()
		}
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SDoWhile{Body: body, Test: test}}

	case js_lexer.TSwitch:
		return p.parseSwitchStmt(loc)

	case js_lexer.TWith:
		p.lexer.Next()
		p.lexer.Expect(js_lexer.TOpenParen)
		value := p.parseExpr(js_ast.LLowest)
		p.lexer.Expect(js_lexer.TCloseParen)
		body := p.parseStmt(parseStmtOpts{})
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SWith{Value: value, Body: body}}

	case js_lexer.TTry:
		return p.parseTryStmt(loc)

	case js_lexer.TReturn:
		p.lexer.Next()
		var value js_ast.Expr
		if p.lexer.Token != js_lexer.TSemicolon && p.lexer.Token != js_lexer.TCloseBrace &&
			p.lexer.Token != js_lexer.TEndOfFile && !p.lexer.HasNewlineBefore {
			value = p.parseExpr(js_ast.LLowest)
		}
		p.lexer.ExpectOrInsertSemicolon()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SReturn{ValueOrNil: value}}

	case js_lexer.TThrow:
		p.lexer.Next()
		if p.lexer.HasNewlineBefore {
			p.addError(logger.Loc{Start: loc.Start + 5}, "Unexpected newline after \"throw\"")
		}
		value := p.parseExpr(js_ast.LLowest)
		p.lexer.ExpectOrInsertSemicolon()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SThrow{Value: value}}

	case js_lexer.TBreak:
		p.lexer.Next()
		label := p.parseLabelName()
		p.lexer.ExpectOrInsertSemicolon()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SBreak{Label: label}}

	case js_lexer.TContinue:
		p.lexer.Next()
		label := p.parseLabelName()
		p.lexer.ExpectOrInsertSemicolon()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SContinue{Label: label}}

	case js_lexer.TIdentifier:
		if stmt, ok := p.parseIdentifierStmt(loc, opts); ok {
			return stmt
		}
	}

	// Parse an expression statement, which may turn out to be a label
	expr := p.parseExpr(js_ast.LLowest)
	if ident, isIdent := expr.Data.(*js_ast.EIdentifier); isIdent && p.lexer.Token == js_lexer.TColon {
		p.lexer.Next()
		stmt := p.parseStmt(parseStmtOpts{})
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SLabel{Name: js_ast.LocName{Loc: expr.Loc, Name: ident.Name}, Stmt: stmt}}
	}
	p.lexer.ExpectOrInsertSemicolon()
	return js_ast.Stmt{Loc: loc, Data: &js_ast.SExpr{Value: expr}}
}

// parseIdentifierStmt handles the contextual keywords that can begin a
// statement: "let", "async function", and the TypeScript-only statements.
func (p *parser) parseIdentifierStmt(loc logger.Loc, opts parseStmtOpts) (js_ast.Stmt, bool) {
	name := p.lexer.Identifier

	switch name {
	case "let":
		snapshot := p.lexer.Snapshot()
		p.lexer.Next()
		switch p.lexer.Token {
		case js_lexer.TIdentifier, js_lexer.TOpenBracket, js_lexer.TOpenBrace:
			decls := p.parseDecls()
			p.lexer.ExpectOrInsertSemicolon()
			return js_ast.Stmt{Loc: loc, Data: &js_ast.SLocal{Kind: js_ast.LocalLet, Decls: decls, IsExport: opts.isExport}}, true
		}
		p.lexer.Restore(snapshot)

	case "async":
		snapshot := p.lexer.Snapshot()
		p.lexer.Next()
		if p.lexer.Token == js_lexer.TFunction && !p.lexer.HasNewlineBefore {
			p.lexer.Next()
			stmt := p.parseFnStmt(loc, opts, true)
			return stmt, true
		}
		p.lexer.Restore(snapshot)

	case "interface":
		if p.syntax.TypeScript {
			snapshot := p.lexer.Snapshot()
			p.lexer.Next()
			if p.lexer.Token == js_lexer.TIdentifier && !p.lexer.HasNewlineBefore {
				p.parseTypeScriptInterface()
				return js_ast.Stmt{Loc: loc, Data: &js_ast.STypeScript{}}, true
			}
			p.lexer.Restore(snapshot)
		}

	case "type":
		if p.syntax.TypeScript {
			snapshot := p.lexer.Snapshot()
			p.lexer.Next()
			if p.lexer.Token == js_lexer.TIdentifier && !p.lexer.HasNewlineBefore {
				p.parseTypeScriptTypeAlias()
				return js_ast.Stmt{Loc: loc, Data: &js_ast.STypeScript{}}, true
			}
			p.lexer.Restore(snapshot)
		}

	case "namespace", "module":
		if p.syntax.TypeScript {
			snapshot := p.lexer.Snapshot()
			p.lexer.Next()
			if (p.lexer.Token == js_lexer.TIdentifier || p.lexer.Token == js_lexer.TStringLiteral) &&
				!p.lexer.HasNewlineBefore {
				return p.parseTypeScriptNamespace(loc, opts), true
			}
			p.lexer.Restore(snapshot)
		}

	case "declare":
		if p.syntax.TypeScript {
			snapshot := p.lexer.Snapshot()
			p.lexer.Next()
			if !p.lexer.HasNewlineBefore && p.lexer.Token != js_lexer.TSemicolon {
				// Parse the declaration normally, then throw it away
				oldIsDeclare := p.isDeclare
				p.isDeclare = true
				p.parseStmt(parseStmtOpts{isModuleScope: opts.isModuleScope})
				p.isDeclare = oldIsDeclare
				return js_ast.Stmt{Loc: loc, Data: &js_ast.STypeScript{}}, true
			}
			p.lexer.Restore(snapshot)
		}

	case "abstract":
		if p.syntax.TypeScript {
			snapshot := p.lexer.Snapshot()
			p.lexer.Next()
			if p.lexer.Token == js_lexer.TClass && !p.lexer.HasNewlineBefore {
				return p.parseClassStmt(loc, opts), true
			}
			p.lexer.Restore(snapshot)
		}

	case "global":
		// "declare global { ... }"
		if p.syntax.TypeScript && p.isDeclare {
			snapshot := p.lexer.Snapshot()
			p.lexer.Next()
			if p.lexer.Token == js_lexer.TOpenBrace {
				p.lexer.Next()
				p.parseStmtsUpTo(js_lexer.TCloseBrace)
				p.lexer.Next()
				return js_ast.Stmt{Loc: loc, Data: &js_ast.STypeScript{}}, true
			}
			p.lexer.Restore(snapshot)
		}
	}

	return js_ast.Stmt{}, false
}

func (p *parser) parseLabelName() *js_ast.LocName {
	if p.lexer.Token != js_lexer.TIdentifier || p.lexer.HasNewlineBefore {
		return nil
	}
	name := js_ast.LocName{Loc: p.lexer.Loc(), Name: p.lexer.Identifier}
	p.lexer.Next()
	return &name
}

func (p *parser) parseForStmt(loc logger.Loc) js_ast.Stmt {
	p.lexer.Next()
	isAwait := false
	if p.lexer.IsContextualKeyword("await") {
		if !p.allowAwait {
			p.addRangeError(p.lexer.Range(), "Cannot use \"await\" outside an async function")
		}
		isAwait = true
		p.lexer.Next()
	}
	p.lexer.Expect(js_lexer.TOpenParen)

	var initOrNil *js_ast.Stmt

	// "in" must be allowed again after the initializer
	p.allowIn = false

	switch p.lexer.Token {
	case js_lexer.TSemicolon:

	case js_lexer.TVar:
		initLoc := p.lexer.Loc()
		p.lexer.Next()
		decls := p.parseDecls()
		initOrNil = &js_ast.Stmt{Loc: initLoc, Data: &js_ast.SLocal{Kind: js_ast.LocalVar, Decls: decls}}

	case js_lexer.TConst:
		initLoc := p.lexer.Loc()
		p.lexer.Next()
		decls := p.parseDecls()
		initOrNil = &js_ast.Stmt{Loc: initLoc, Data: &js_ast.SLocal{Kind: js_ast.LocalConst, Decls: decls}}

	default:
		if p.lexer.IsContextualKeyword("let") {
			initLoc := p.lexer.Loc()
			p.lexer.Next()
			decls := p.parseDecls()
			initOrNil = &js_ast.Stmt{Loc: initLoc, Data: &js_ast.SLocal{Kind: js_ast.LocalLet, Decls: decls}}
		} else {
			initLoc := p.lexer.Loc()
			value := p.parseExpr(js_ast.LLowest)
			initOrNil = &js_ast.Stmt{Loc: initLoc, Data: &js_ast.SExpr{Value: value}}
		}
	}

	p.allowIn = true

	if p.lexer.Token == js_lexer.TIn {
		if isAwait {
			p.addRangeError(p.lexer.Range(), "Expected \"of\" after \"for await\"")
		}
		p.lexer.Next()
		value := p.parseExpr(js_ast.LLowest)
		p.lexer.Expect(js_lexer.TCloseParen)
		body := p.parseStmt(parseStmtOpts{})
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SForIn{Init: *initOrNil, Value: value, Body: body}}
	}

	if p.lexer.IsContextualKeyword("of") {
		p.lexer.Next()
		value := p.parseExpr(js_ast.LComma)
		p.lexer.Expect(js_lexer.TCloseParen)
		body := p.parseStmt(parseStmtOpts{})
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SForOf{IsAwait: isAwait, Init: *initOrNil, Value: value, Body: body}}
	}

	p.lexer.Expect(js_lexer.TSemicolon)
	var testOrNil js_ast.Expr
	if p.lexer.Token != js_lexer.TSemicolon {
		testOrNil = p.parseExpr(js_ast.LLowest)
	}
	p.lexer.Expect(js_lexer.TSemicolon)
	var updateOrNil js_ast.Expr
	if p.lexer.Token != js_lexer.TCloseParen {
		updateOrNil = p.parseExpr(js_ast.LLowest)
	}
	p.lexer.Expect(js_lexer.TCloseParen)
	body := p.parseStmt(parseStmtOpts{})
	return js_ast.Stmt{Loc: loc, Data: &js_ast.SFor{InitOrNil: initOrNil, TestOrNil: testOrNil, UpdateOrNil: updateOrNil, Body: body}}
}

func (p *parser) parseSwitchStmt(loc logger.Loc) js_ast.Stmt {
	p.lexer.Next()
	p.lexer.Expect(js_lexer.TOpenParen)
	test := p.parseExpr(js_ast.LLowest)
	p.lexer.Expect(js_lexer.TCloseParen)
	p.lexer.Expect(js_lexer.TOpenBrace)

	cases := []js_ast.Case{}
	for p.lexer.Token != js_lexer.TCloseBrace {
		var valueOrNil js_ast.Expr
		if p.lexer.Token == js_lexer.TDefault {
			p.lexer.Next()
		} else {
			p.lexer.Expect(js_lexer.TCase)
			valueOrNil = p.parseExpr(js_ast.LLowest)
		}
		p.lexer.Expect(js_lexer.TColon)

		body := []js_ast.Stmt{}
		for p.lexer.Token != js_lexer.TCloseBrace && p.lexer.Token != js_lexer.TCase &&
			p.lexer.Token != js_lexer.TDefault {
			body = append(body, p.parseStmt(parseStmtOpts{}))
		}
		cases = append(cases, js_ast.Case{ValueOrNil: valueOrNil, Body: body})
	}
	p.lexer.Expect(js_lexer.TCloseBrace)
	return js_ast.Stmt{Loc: loc, Data: &js_ast.SSwitch{Test: test, Cases: cases}}
}

func (p *parser) parseTryStmt(loc logger.Loc) js_ast.Stmt {
	p.lexer.Next()
	p.lexer.Expect(js_lexer.TOpenBrace)
	body := p.parseStmtsUpTo(js_lexer.TCloseBrace)
	p.lexer.Next()

	var catch *js_ast.Catch
	var finally *js_ast.Finally

	if p.lexer.Token == js_lexer.TCatch {
		catchLoc := p.lexer.Loc()
		p.lexer.Next()
		var bindingOrNil *js_ast.Binding
		if p.lexer.Token == js_lexer.TOpenParen {
			p.lexer.Next()
			binding := p.parseBinding()
			if p.syntax.TypeScript && p.lexer.Token == js_lexer.TColon {
				p.lexer.Next()
				p.skipTypeScriptType(js_ast.LLowest)
			}
			bindingOrNil = &binding
			p.lexer.Expect(js_lexer.TCloseParen)
		}
		p.lexer.Expect(js_lexer.TOpenBrace)
		stmts := p.parseStmtsUpTo(js_lexer.TCloseBrace)
		p.lexer.Next()
		catch = &js_ast.Catch{Loc: catchLoc, BindingOrNil: bindingOrNil, Body: stmts}
	}

	if p.lexer.Token == js_lexer.TFinally {
		finallyLoc := p.lexer.Loc()
		p.lexer.Next()
		p.lexer.Expect(js_lexer.TOpenBrace)
		stmts := p.parseStmtsUpTo(js_lexer.TCloseBrace)
		p.lexer.Next()
		finally = &js_ast.Finally{Loc: finallyLoc, Stmts: stmts}
	}

	if catch == nil && finally == nil {
		p.lexer.Expected(js_lexer.TCatch)
	}
	return js_ast.Stmt{Loc: loc, Data: &js_ast.STry{Body: body, Catch: catch, Finally: finally}}
}

func (p *parser) parseDecls() []js_ast.Decl {
	decls := []js_ast.Decl{}

	for {
		binding := p.parseBinding()

		if p.syntax.TypeScript {
			// "let x!: number"
			if p.lexer.Token == js_lexer.TExclamation && !p.lexer.HasNewlineBefore {
				p.lexer.Next()
			}
			if p.lexer.Token == js_lexer.TColon {
				p.lexer.Next()
				p.skipTypeScriptType(js_ast.LLowest)
			}
		}

		var valueOrNil js_ast.Expr
		if p.lexer.Token == js_lexer.TEquals {
			p.lexer.Next()
			valueOrNil = p.parseExpr(js_ast.LComma)
		}

		decls = append(decls, js_ast.Decl{Binding: binding, ValueOrNil: valueOrNil})
		if p.lexer.Token != js_lexer.TComma {
			break
		}
		p.lexer.Next()
	}

	return decls
}

func (p *parser) parseBinding() js_ast.Binding {
	loc := p.lexer.Loc()

	switch p.lexer.Token {
	case js_lexer.TIdentifier:
		name := p.lexer.Identifier
		p.lexer.Next()
		return js_ast.Binding{Loc: loc, Data: &js_ast.BIdentifier{Name: name}}

	case js_lexer.TOpenBracket:
		p.lexer.Next()
		items := []js_ast.ArrayBinding{}
		hasSpread := false

		for p.lexer.Token != js_lexer.TCloseBracket {
			if p.lexer.Token == js_lexer.TComma {
				// An omitted item
				items = append(items, js_ast.ArrayBinding{
					Binding: js_ast.Binding{Loc: p.lexer.Loc(), Data: &js_ast.BMissing{}},
				})
				p.lexer.Next()
				continue
			}

			if p.lexer.Token == js_lexer.TDotDotDot {
				hasSpread = true
				p.lexer.Next()
			}

			binding := p.parseBinding()
			var defaultOrNil js_ast.Expr
			if p.lexer.Token == js_lexer.TEquals {
				p.lexer.Next()
				defaultOrNil = p.parseExpr(js_ast.LComma)
			}
			items = append(items, js_ast.ArrayBinding{Binding: binding, DefaultOrNil: defaultOrNil})

			if p.lexer.Token != js_lexer.TComma {
				break
			}
			p.lexer.Next()
		}

		p.lexer.Expect(js_lexer.TCloseBracket)
		return js_ast.Binding{Loc: loc, Data: &js_ast.BArray{Items: items, HasSpread: hasSpread}}

	case js_lexer.TOpenBrace:
		p.lexer.Next()
		properties := []js_ast.PropertyBinding{}

		for p.lexer.Token != js_lexer.TCloseBrace {
			property := p.parsePropertyBinding()
			properties = append(properties, property)

			if p.lexer.Token != js_lexer.TComma {
				break
			}
			p.lexer.Next()
		}

		p.lexer.Expect(js_lexer.TCloseBrace)
		return js_ast.Binding{Loc: loc, Data: &js_ast.BObject{Properties: properties}}
	}

	p.lexer.Expect(js_lexer.TIdentifier)
	return js_ast.Binding{}
}

func (p *parser) parsePropertyBinding() js_ast.PropertyBinding {
	var key js_ast.Expr
	isComputed := false

	switch p.lexer.Token {
	case js_lexer.TDotDotDot:
		p.lexer.Next()
		if p.lexer.Token != js_lexer.TIdentifier {
			p.lexer.Expected(js_lexer.TIdentifier)
		}
		value := js_ast.Binding{Loc: p.lexer.Loc(), Data: &js_ast.BIdentifier{Name: p.lexer.Identifier}}
		p.lexer.Next()
		return js_ast.PropertyBinding{IsSpread: true, Value: value}

	case js_lexer.TNumericLiteral:
		key = js_ast.Number(p.lexer.Loc(), p.lexer.Number)
		p.lexer.Next()

	case js_lexer.TStringLiteral:
		key = js_ast.String(p.lexer.Loc(), p.lexer.StringValue)
		p.lexer.Next()

	case js_lexer.TOpenBracket:
		isComputed = true
		p.lexer.Next()
		key = p.parseExpr(js_ast.LComma)
		p.lexer.Expect(js_lexer.TCloseBracket)

	default:
		name := p.lexer.Identifier
		nameLoc := p.lexer.Loc()
		if !p.lexer.IsIdentifierOrKeyword() {
			p.lexer.Expect(js_lexer.TIdentifier)
		}
		p.lexer.Next()

		// Shorthand binding, possibly with a default value
		if p.lexer.Token != js_lexer.TColon {
			var defaultOrNil js_ast.Expr
			if p.lexer.Token == js_lexer.TEquals {
				p.lexer.Next()
				defaultOrNil = p.parseExpr(js_ast.LComma)
			}
			return js_ast.PropertyBinding{
				Key:          js_ast.String(nameLoc, name),
				Value:        js_ast.Binding{Loc: nameLoc, Data: &js_ast.BIdentifier{Name: name}},
				DefaultOrNil: defaultOrNil,
			}
		}

		key = js_ast.String(nameLoc, name)
	}

	p.lexer.Expect(js_lexer.TColon)
	value := p.parseBinding()

	var defaultOrNil js_ast.Expr
	if p.lexer.Token == js_lexer.TEquals {
		p.lexer.Next()
		defaultOrNil = p.parseExpr(js_ast.LComma)
	}

	return js_ast.PropertyBinding{Key: key, Value: value, DefaultOrNil: defaultOrNil, IsComputed: isComputed}
}

type fnOpts struct {
	isAsync     bool
	isGenerator bool
	isCtor      bool

	// "declare function f(): void" and abstract methods have no body
	allowMissingBody bool
}

func (p *parser) parseFnStmt(loc logger.Loc, opts parseStmtOpts, isAsync bool) js_ast.Stmt {
	isGenerator := false
	if p.lexer.Token == js_lexer.TAsterisk {
		isGenerator = true
		p.lexer.Next()
	}

	var name *js_ast.LocName
	if p.lexer.Token == js_lexer.TIdentifier {
		name = &js_ast.LocName{Loc: p.lexer.Loc(), Name: p.lexer.Identifier}
		p.lexer.Next()
	} else if !opts.isExport {
		// Only "export default function" may be anonymous
		p.lexer.Expect(js_lexer.TIdentifier)
	}

	fn := p.parseFn(name, fnOpts{
		isAsync:          isAsync,
		isGenerator:      isGenerator,
		allowMissingBody: p.isDeclare || p.syntax.TypeScript,
	})

	// A TypeScript overload signature has no body and is erased
	if fn.Body.Stmts == nil {
		return js_ast.Stmt{Loc: loc, Data: &js_ast.STypeScript{}}
	}
	return js_ast.Stmt{Loc: loc, Data: &js_ast.SFunction{Fn: fn, IsExport: opts.isExport}}
}

func (p *parser) parseFn(name *js_ast.LocName, opts fnOpts) js_ast.Fn {
	if p.syntax.TypeScript {
		p.skipTypeScriptTypeParameters()
	}

	args, hasRestArg := p.parseFnArgs(opts)

	// Return type
	if p.syntax.TypeScript && p.lexer.Token == js_lexer.TColon {
		p.lexer.Next()
		p.skipTypeScriptReturnType()
	}

	fn := js_ast.Fn{
		Name:        name,
		Args:        args,
		HasRestArg:  hasRestArg,
		IsAsync:     opts.isAsync,
		IsGenerator: opts.isGenerator,
	}

	if opts.allowMissingBody && p.lexer.Token != js_lexer.TOpenBrace {
		p.lexer.ExpectOrInsertSemicolon()
		return fn
	}

	fn.Body = p.parseFnBody(opts)
	return fn
}

func (p *parser) parseFnBody(opts fnOpts) js_ast.FnBody {
	oldAllowIn, oldAllowAwait, oldAllowYield := p.allowIn, p.allowAwait, p.allowYield
	p.allowIn = true
	p.allowAwait = opts.isAsync
	p.allowYield = opts.isGenerator

	loc := p.lexer.Loc()
	p.lexer.Expect(js_lexer.TOpenBrace)
	stmts := p.parseStmtsUpTo(js_lexer.TCloseBrace)
	p.lexer.Next()

	p.allowIn, p.allowAwait, p.allowYield = oldAllowIn, oldAllowAwait, oldAllowYield
	return js_ast.FnBody{Loc: loc, Stmts: stmts}
}

func (p *parser) parseFnArgs(opts fnOpts) (args []js_ast.Arg, hasRestArg bool) {
	p.lexer.Expect(js_lexer.TOpenParen)

	for p.lexer.Token != js_lexer.TCloseParen {
		var tsDecorators []js_ast.Expr
		if p.lexer.Token == js_lexer.TAt && p.syntax.Decorators {
			tsDecorators = p.parseDecorators()
		}

		// TypeScript parameter properties on constructors
		isCtorField := false
		if p.syntax.TypeScript && opts.isCtor {
			for p.lexer.Token == js_lexer.TIdentifier {
				switch p.lexer.Identifier {
				case "public", "private", "protected", "readonly", "override":
					snapshot := p.lexer.Snapshot()
					p.lexer.Next()
					if p.lexer.Token == js_lexer.TIdentifier || p.lexer.Token == js_lexer.TOpenBrace ||
						p.lexer.Token == js_lexer.TOpenBracket {
						isCtorField = true
						continue
					}
					p.lexer.Restore(snapshot)
				}
				break
			}
		}

		if p.lexer.Token == js_lexer.TDotDotDot {
			hasRestArg = true
			p.lexer.Next()
		}

		// "function f(this: any)" declares the type of "this" and is erased
		if p.syntax.TypeScript && p.lexer.Token == js_lexer.TThis {
			p.lexer.Next()
			p.lexer.Expect(js_lexer.TColon)
			p.skipTypeScriptType(js_ast.LLowest)
			if p.lexer.Token != js_lexer.TComma {
				break
			}
			p.lexer.Next()
			continue
		}

		binding := p.parseBinding()

		if p.syntax.TypeScript {
			// "fn(a?: type)"
			if p.lexer.Token == js_lexer.TQuestion {
				p.lexer.Next()
			}
			if p.lexer.Token == js_lexer.TColon {
				p.lexer.Next()
				p.skipTypeScriptType(js_ast.LLowest)
			}
		}

		var defaultOrNil js_ast.Expr
		if p.lexer.Token == js_lexer.TEquals {
			p.lexer.Next()
			defaultOrNil = p.parseExpr(js_ast.LComma)
		}

		args = append(args, js_ast.Arg{
			TSDecorators:          tsDecorators,
			Binding:               binding,
			DefaultOrNil:          defaultOrNil,
			IsTypeScriptCtorField: isCtorField,
		})

		if p.lexer.Token != js_lexer.TComma {
			break
		}
		p.lexer.Next()
	}

	p.lexer.Expect(js_lexer.TCloseParen)
	return args, hasRestArg
}

func (p *parser) parseDecorators() []js_ast.Expr {
	var tsDecorators []js_ast.Expr
	for p.lexer.Token == js_lexer.TAt {
		p.lexer.Next()
		tsDecorators = append(tsDecorators, p.parseExpr(js_ast.LNew))
	}
	return tsDecorators
}

func (p *parser) parseClassStmt(loc logger.Loc, opts parseStmtOpts) js_ast.Stmt {
	p.lexer.Expect(js_lexer.TClass)

	var name *js_ast.LocName
	if p.lexer.Token == js_lexer.TIdentifier {
		name = &js_ast.LocName{Loc: p.lexer.Loc(), Name: p.lexer.Identifier}
		p.lexer.Next()
	} else if !opts.isExport {
		p.lexer.Expect(js_lexer.TIdentifier)
	}

	class := p.parseClass(name, opts.tsDecorators)
	return js_ast.Stmt{Loc: loc, Data: &js_ast.SClass{Class: class, IsExport: opts.isExport}}
}

func (p *parser) parseClass(name *js_ast.LocName, tsDecorators []js_ast.Expr) js_ast.Class {
	if p.syntax.TypeScript {
		p.skipTypeScriptTypeParameters()
	}

	var extendsOrNil js_ast.Expr
	if p.lexer.Token == js_lexer.TExtends {
		p.lexer.Next()
		extendsOrNil = p.parseExpr(js_ast.LNew)
	}

	if p.syntax.TypeScript && p.lexer.IsContextualKeyword("implements") {
		p.lexer.Next()
		for {
			p.skipTypeScriptType(js_ast.LLowest)
			if p.lexer.Token != js_lexer.TComma {
				break
			}
			p.lexer.Next()
		}
	}

	bodyLoc := p.lexer.Loc()
	p.lexer.Expect(js_lexer.TOpenBrace)

	properties := []js_ast.Property{}
	for p.lexer.Token != js_lexer.TCloseBrace {
		if p.lexer.Token == js_lexer.TSemicolon {
			p.lexer.Next()
			continue
		}
		if property, ok := p.parseClassProperty(); ok {
			properties = append(properties, property)
		}
	}

	p.lexer.Expect(js_lexer.TCloseBrace)
	return js_ast.Class{
		TSDecorators: tsDecorators,
		Name:         name,
		ExtendsOrNil: extendsOrNil,
		BodyLoc:      bodyLoc,
		Properties:   properties,
	}
}

// parseClassProperty returns ok=false for members that are erased entirely
// at parse time, such as TypeScript index signatures.
func (p *parser) parseClassProperty() (js_ast.Property, bool) {
	property := js_ast.Property{}

	if p.lexer.Token == js_lexer.TAt {
		if !p.syntax.Decorators {
			p.lexer.Unexpected()
		}
		property.TSDecorators = p.parseDecorators()
	}

	// Modifiers. Note that all of these are contextual: "static" alone is a
	// valid field name, so a modifier only counts when a member name (or
	// another modifier) follows it.
	for p.lexer.Token == js_lexer.TIdentifier {
		modifier := p.lexer.Identifier
		isModifier := false
		switch modifier {
		case "static", "public", "private", "protected", "readonly", "abstract", "declare", "override":
			snapshot := p.lexer.Snapshot()
			p.lexer.Next()
			if !p.lexer.HasNewlineBefore && (p.lexer.IsIdentifierOrKeyword() ||
				p.lexer.Token == js_lexer.TPrivateIdentifier ||
				p.lexer.Token == js_lexer.TStringLiteral ||
				p.lexer.Token == js_lexer.TNumericLiteral ||
				p.lexer.Token == js_lexer.TOpenBracket ||
				p.lexer.Token == js_lexer.TAsterisk) {
				isModifier = true
				switch modifier {
				case "static":
					property.IsStatic = true
				case "declare":
					property.WasTSDeclare = true
				case "abstract":
					property.WasTSAbstract = true
				}
			} else {
				p.lexer.Restore(snapshot)
			}
		}
		if !isModifier {
			break
		}
	}

	// TypeScript index signatures are dropped entirely
	if p.syntax.TypeScript && p.lexer.Token == js_lexer.TOpenBracket {
		if ok := p.tryBacktrack(func() {
			p.lexer.Next()
			if p.lexer.Token != js_lexer.TIdentifier {
				p.lexer.Expected(js_lexer.TIdentifier)
			}
			p.lexer.Next()
			p.lexer.Expect(js_lexer.TColon)
			p.skipTypeScriptType(js_ast.LLowest)
			p.lexer.Expect(js_lexer.TCloseBracket)
			p.lexer.Expect(js_lexer.TColon)
			p.skipTypeScriptType(js_ast.LLowest)
			p.lexer.ExpectOrInsertSemicolon()
		}); ok {
			return js_ast.Property{}, false
		}
	}

	isAsync := false
	isGenerator := false

	// "async" and "*" before the member name
	if p.lexer.IsContextualKeyword("async") {
		snapshot := p.lexer.Snapshot()
		p.lexer.Next()
		if !p.lexer.HasNewlineBefore && (p.lexer.IsIdentifierOrKeyword() ||
			p.lexer.Token == js_lexer.TPrivateIdentifier ||
			p.lexer.Token == js_lexer.TStringLiteral ||
			p.lexer.Token == js_lexer.TNumericLiteral ||
			p.lexer.Token == js_lexer.TOpenBracket ||
			p.lexer.Token == js_lexer.TAsterisk) {
			isAsync = true
		} else {
			p.lexer.Restore(snapshot)
		}
	}
	if p.lexer.Token == js_lexer.TAsterisk {
		isGenerator = true
		p.lexer.Next()
	}

	// "get" and "set" accessors
	if (p.lexer.IsContextualKeyword("get") || p.lexer.IsContextualKeyword("set")) && !isGenerator && !isAsync {
		kind := js_ast.PropertyGet
		if p.lexer.Identifier == "set" {
			kind = js_ast.PropertySet
		}
		snapshot := p.lexer.Snapshot()
		p.lexer.Next()
		if p.lexer.IsIdentifierOrKeyword() || p.lexer.Token == js_lexer.TPrivateIdentifier ||
			p.lexer.Token == js_lexer.TStringLiteral || p.lexer.Token == js_lexer.TNumericLiteral ||
			p.lexer.Token == js_lexer.TOpenBracket {
			property.Kind = kind
		} else {
			p.lexer.Restore(snapshot)
		}
	}

	// The member name
	var keyName string
	keyLoc := p.lexer.Loc()
	switch p.lexer.Token {
	case js_lexer.TNumericLiteral:
		property.Key = js_ast.Number(keyLoc, p.lexer.Number)
		p.lexer.Next()

	case js_lexer.TStringLiteral:
		property.Key = js_ast.String(keyLoc, p.lexer.StringValue)
		p.lexer.Next()

	case js_lexer.TPrivateIdentifier:
		if !p.syntax.ClassPrivateMembers {
			p.lexer.Unexpected()
		}
		property.Key = js_ast.Expr{Loc: keyLoc, Data: &js_ast.EPrivateIdentifier{Name: p.lexer.Identifier}}
		p.lexer.Next()

	case js_lexer.TOpenBracket:
		property.IsComputed = true
		p.lexer.Next()
		property.Key = p.parseExpr(js_ast.LComma)
		p.lexer.Expect(js_lexer.TCloseBracket)

	default:
		if !p.lexer.IsIdentifierOrKeyword() {
			p.lexer.Expect(js_lexer.TIdentifier)
		}
		keyName = p.lexer.Identifier
		property.Key = js_ast.String(keyLoc, keyName)
		p.lexer.Next()
	}

	// Method or field?
	isMethod := p.lexer.Token == js_lexer.TOpenParen || property.Kind != js_ast.PropertyNormal ||
		isAsync || isGenerator
	if p.syntax.TypeScript && p.lexer.Token == js_lexer.TLessThan {
		isMethod = true
	}

	// "member?" and "member!" markers
	if p.syntax.TypeScript && !isMethod &&
		(p.lexer.Token == js_lexer.TQuestion || p.lexer.Token == js_lexer.TExclamation) &&
		!p.lexer.HasNewlineBefore {
		p.lexer.Next()
	}

	if isMethod || p.lexer.Token == js_lexer.TOpenParen || p.lexer.Token == js_lexer.TLessThan {
		// "member?(...)" is an optional method
		if p.syntax.TypeScript && p.lexer.Token == js_lexer.TQuestion {
			p.lexer.Next()
		}
		property.IsMethod = true
		isCtor := !property.IsStatic && !property.IsComputed && keyName == "constructor"
		fnLoc := p.lexer.Loc()
		fn := p.parseFn(nil, fnOpts{
			isAsync:          isAsync,
			isGenerator:      isGenerator,
			isCtor:           isCtor,
			allowMissingBody: p.isDeclare || property.WasTSAbstract || p.syntax.TypeScript,
		})
		// An overload signature has no body and is erased
		if fn.Body.Stmts == nil && !property.WasTSAbstract && p.syntax.TypeScript {
			return js_ast.Property{}, false
		}
		property.ValueOrNil = js_ast.Expr{Loc: fnLoc, Data: &js_ast.EFunction{Fn: fn}}
		return property, true
	}

	// A field
	if p.syntax.TypeScript && p.lexer.Token == js_lexer.TColon {
		p.lexer.Next()
		p.skipTypeScriptType(js_ast.LLowest)
	}
	if p.lexer.Token == js_lexer.TEquals {
		p.lexer.Next()
		property.ValueOrNil = p.parseExpr(js_ast.LComma)
	}
	p.lexer.ExpectOrInsertSemicolon()
	return property, true
}

package js_parser

import (
	"github.com/esmd/esm-compiler/internal/js_ast"
	"github.com/esmd/esm-compiler/internal/js_lexer"
	"github.com/esmd/esm-compiler/internal/logger"
)

// parseImportStmt is called with the lexer on the "import" keyword.
func (p *parser) parseImportStmt(loc logger.Loc, opts parseStmtOpts) js_ast.Stmt {
	p.lexer.Next()
	stmt := js_ast.SImport{}

	switch p.lexer.Token {
	case js_lexer.TOpenParen, js_lexer.TDot:
		// "import(...)" and "import.meta" are expressions, not statements
		expr := p.parseSuffix(p.parseImportExprAfterKeyword(loc), js_ast.LLowest)
		p.lexer.ExpectOrInsertSemicolon()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SExpr{Value: expr}}

	case js_lexer.TStringLiteral:
		// "import 'path'"
		if !opts.isModuleScope {
			p.lexer.Unexpected()
		}
		stmt.Path = p.parsePath()
		p.parseImportAssertions()
		p.lexer.ExpectOrInsertSemicolon()
		return js_ast.Stmt{Loc: loc, Data: &stmt}

	case js_lexer.TAsterisk:
		// "import * as ns from 'path'"
		if !opts.isModuleScope {
			p.lexer.Unexpected()
		}
		p.lexer.Next()
		p.lexer.ExpectContextualKeyword("as")
		stmt.StarName = &js_ast.LocName{Loc: p.lexer.Loc(), Name: p.lexer.Identifier}
		p.lexer.Expect(js_lexer.TIdentifier)

	case js_lexer.TOpenBrace:
		// "import { a, b as c } from 'path'"
		if !opts.isModuleScope {
			p.lexer.Unexpected()
		}
		items := p.parseImportClause()
		stmt.Items = &items

	case js_lexer.TIdentifier:
		if !opts.isModuleScope {
			p.lexer.Unexpected()
		}

		defaultName := p.lexer.Identifier
		defaultLoc := p.lexer.Loc()

		// "import type ... from 'path'" is recorded like a value import and
		// erased later, so the resolver still sees its specifier
		if p.syntax.TypeScript && defaultName == "type" {
			snapshot := p.lexer.Snapshot()
			p.lexer.Next()
			switch p.lexer.Token {
			case js_lexer.TAsterisk:
				stmt.IsTypeOnly = true
				p.lexer.Next()
				p.lexer.ExpectContextualKeyword("as")
				stmt.StarName = &js_ast.LocName{Loc: p.lexer.Loc(), Name: p.lexer.Identifier}
				p.lexer.Expect(js_lexer.TIdentifier)

			case js_lexer.TOpenBrace:
				stmt.IsTypeOnly = true
				items := p.parseImportClause()
				stmt.Items = &items

			case js_lexer.TIdentifier:
				// "import type foo from" but not "import type from 'path'"
				if p.lexer.Identifier != "from" {
					stmt.IsTypeOnly = true
					stmt.DefaultName = &js_ast.LocName{Loc: p.lexer.Loc(), Name: p.lexer.Identifier}
					p.lexer.Next()
				} else {
					p.lexer.Restore(snapshot)
				}

			default:
				p.lexer.Restore(snapshot)
			}
		}

		if !stmt.IsTypeOnly {
			stmt.DefaultName = &js_ast.LocName{Loc: defaultLoc, Name: defaultName}
			p.lexer.Next()
		}

		// "import a = b" is a TypeScript import alias and is erased
		if p.syntax.TypeScript && stmt.StarName == nil && stmt.Items == nil &&
			p.lexer.Token == js_lexer.TEquals {
			p.lexer.Next()
			if p.lexer.IsContextualKeyword("require") {
				p.lexer.Next()
				p.lexer.Expect(js_lexer.TOpenParen)
				p.lexer.Expect(js_lexer.TStringLiteral)
				p.lexer.Expect(js_lexer.TCloseParen)
			} else {
				p.parseExpr(js_ast.LLowest)
			}
			p.lexer.ExpectOrInsertSemicolon()
			return js_ast.Stmt{Loc: loc, Data: &js_ast.STypeScript{}}
		}

		if stmt.StarName == nil && stmt.Items == nil && p.lexer.Token == js_lexer.TComma {
			p.lexer.Next()
			switch p.lexer.Token {
			case js_lexer.TAsterisk:
				p.lexer.Next()
				p.lexer.ExpectContextualKeyword("as")
				stmt.StarName = &js_ast.LocName{Loc: p.lexer.Loc(), Name: p.lexer.Identifier}
				p.lexer.Expect(js_lexer.TIdentifier)

			case js_lexer.TOpenBrace:
				items := p.parseImportClause()
				stmt.Items = &items

			default:
				p.lexer.Unexpected()
			}
		}

	default:
		p.lexer.Unexpected()
	}

	p.lexer.ExpectContextualKeyword("from")
	stmt.Path = p.parsePath()
	p.parseImportAssertions()
	p.lexer.ExpectOrInsertSemicolon()
	return js_ast.Stmt{Loc: loc, Data: &stmt}
}

// parseExportStmt is called with the "export" keyword already consumed.
func (p *parser) parseExportStmt(loc logger.Loc, opts parseStmtOpts) js_ast.Stmt {
	switch p.lexer.Token {
	case js_lexer.TDefault:
		p.lexer.Next()
		return p.parseExportDefault(loc)

	case js_lexer.TAsterisk:
		// "export * from 'path'" or "export * as ns from 'path'"
		p.lexer.Next()
		var alias *js_ast.LocName
		if p.lexer.IsContextualKeyword("as") {
			p.lexer.Next()
			if !p.lexer.IsIdentifierOrKeyword() && p.lexer.Token != js_lexer.TStringLiteral {
				p.lexer.Expect(js_lexer.TIdentifier)
			}
			name := p.lexer.Identifier
			if p.lexer.Token == js_lexer.TStringLiteral {
				name = p.lexer.StringValue
			}
			alias = &js_ast.LocName{Loc: p.lexer.Loc(), Name: name}
			p.lexer.Next()
		}
		p.lexer.ExpectContextualKeyword("from")
		path := p.parsePath()
		p.parseImportAssertions()
		p.lexer.ExpectOrInsertSemicolon()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SExportStar{Alias: alias, Path: path}}

	case js_lexer.TOpenBrace:
		// "export { a, b as c }" with an optional "from 'path'"
		items := p.parseExportClause()
		if p.lexer.IsContextualKeyword("from") {
			p.lexer.Next()
			path := p.parsePath()
			p.parseImportAssertions()
			p.lexer.ExpectOrInsertSemicolon()
			return js_ast.Stmt{Loc: loc, Data: &js_ast.SExportFrom{Items: items, Path: path}}
		}
		p.lexer.ExpectOrInsertSemicolon()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SExportClause{Items: items}}

	case js_lexer.TVar, js_lexer.TConst, js_lexer.TFunction, js_lexer.TClass, js_lexer.TEnum, js_lexer.TAt:
		opts.isExport = true
		return p.parseStmt(opts)

	case js_lexer.TImport:
		// "export import a = b" is a TypeScript import alias
		if p.syntax.TypeScript {
			p.lexer.Next()
			p.parseTypeScriptImportAlias()
			return js_ast.Stmt{Loc: loc, Data: &js_ast.STypeScript{}}
		}
		p.lexer.Unexpected()

	case js_lexer.TIdentifier:
		switch p.lexer.Identifier {
		case "let", "async", "abstract", "namespace", "module", "declare", "enum":
			opts.isExport = true
			return p.parseStmt(opts)

		case "type":
			// "export type T = ..." and "export type { T }"
			if p.syntax.TypeScript {
				snapshot := p.lexer.Snapshot()
				p.lexer.Next()
				switch p.lexer.Token {
				case js_lexer.TOpenBrace:
					p.parseExportClause()
					if p.lexer.IsContextualKeyword("from") {
						p.lexer.Next()
						p.parsePath()
						p.parseImportAssertions()
					}
					p.lexer.ExpectOrInsertSemicolon()
					return js_ast.Stmt{Loc: loc, Data: &js_ast.STypeScript{}}

				case js_lexer.TIdentifier:
					p.parseTypeScriptTypeAlias()
					return js_ast.Stmt{Loc: loc, Data: &js_ast.STypeScript{}}
				}
				p.lexer.Restore(snapshot)
			}

		case "interface":
			if p.syntax.TypeScript {
				p.lexer.Next()
				p.parseTypeScriptInterface()
				return js_ast.Stmt{Loc: loc, Data: &js_ast.STypeScript{}}
			}
		}
		p.lexer.Unexpected()

	case js_lexer.TEquals:
		// "export = x" is a TypeScript CommonJS export
		if p.syntax.TypeScript {
			p.lexer.Next()
			p.parseExpr(js_ast.LLowest)
			p.lexer.ExpectOrInsertSemicolon()
			return js_ast.Stmt{Loc: loc, Data: &js_ast.STypeScript{}}
		}
		p.lexer.Unexpected()
	}

	p.lexer.Unexpected()
	return js_ast.Stmt{}
}

func (p *parser) parseExportDefault(loc logger.Loc) js_ast.Stmt {
	// "export default function" and "export default class" keep their
	// statement form so their names stay visible to later passes
	switch p.lexer.Token {
	case js_lexer.TFunction:
		stmtLoc := p.lexer.Loc()
		p.lexer.Next()
		stmt := p.parseFnStmt(stmtLoc, parseStmtOpts{isExport: true}, false)
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SExportDefault{Value: js_ast.ExprOrStmt{Stmt: &stmt}}}

	case js_lexer.TClass, js_lexer.TAt:
		stmtLoc := p.lexer.Loc()
		var tsDecorators []js_ast.Expr
		if p.lexer.Token == js_lexer.TAt {
			if !p.syntax.Decorators {
				p.lexer.Unexpected()
			}
			tsDecorators = p.parseDecorators()
			if p.lexer.Token != js_lexer.TClass {
				p.lexer.Expected(js_lexer.TClass)
			}
		}
		stmt := p.parseClassStmt(stmtLoc, parseStmtOpts{isExport: true, tsDecorators: tsDecorators})
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SExportDefault{Value: js_ast.ExprOrStmt{Stmt: &stmt}}}

	case js_lexer.TIdentifier:
		if p.lexer.Identifier == "async" {
			snapshot := p.lexer.Snapshot()
			stmtLoc := p.lexer.Loc()
			p.lexer.Next()
			if p.lexer.Token == js_lexer.TFunction && !p.lexer.HasNewlineBefore {
				p.lexer.Next()
				stmt := p.parseFnStmt(stmtLoc, parseStmtOpts{isExport: true}, true)
				return js_ast.Stmt{Loc: loc, Data: &js_ast.SExportDefault{Value: js_ast.ExprOrStmt{Stmt: &stmt}}}
			}
			p.lexer.Restore(snapshot)
		}

		// "export default interface I {}" is a type and is erased
		if p.syntax.TypeScript && p.lexer.Identifier == "interface" {
			snapshot := p.lexer.Snapshot()
			p.lexer.Next()
			if p.lexer.Token == js_lexer.TIdentifier && !p.lexer.HasNewlineBefore {
				p.parseTypeScriptInterface()
				return js_ast.Stmt{Loc: loc, Data: &js_ast.STypeScript{}}
			}
			p.lexer.Restore(snapshot)
		}
	}

	expr := p.parseExpr(js_ast.LComma)
	p.lexer.ExpectOrInsertSemicolon()
	return js_ast.Stmt{Loc: loc, Data: &js_ast.SExportDefault{Value: js_ast.ExprOrStmt{Expr: &expr}}}
}

func (p *parser) parseImportClause() []js_ast.ClauseItem {
	p.lexer.Expect(js_lexer.TOpenBrace)
	items := []js_ast.ClauseItem{}

	for p.lexer.Token != js_lexer.TCloseBrace {
		// The imported name may be any identifier, keyword, or string; the
		// local binding must be a plain identifier
		aliasLoc := p.lexer.Loc()
		var alias string
		switch {
		case p.lexer.Token == js_lexer.TStringLiteral:
			alias = p.lexer.StringValue
		case p.lexer.IsIdentifierOrKeyword():
			alias = p.lexer.Identifier
		default:
			p.lexer.Expect(js_lexer.TIdentifier)
		}
		p.lexer.Next()

		name := js_ast.LocName{Loc: aliasLoc, Name: alias}
		if p.lexer.IsContextualKeyword("as") {
			p.lexer.Next()
			name = js_ast.LocName{Loc: p.lexer.Loc(), Name: p.lexer.Identifier}
			p.lexer.Expect(js_lexer.TIdentifier)
		}

		// "import { type T }" is erased member by member; whole-clause
		// type-only imports are handled by the caller
		if p.syntax.TypeScript && alias == "type" && p.lexer.Token != js_lexer.TComma &&
			p.lexer.Token != js_lexer.TCloseBrace && name.Name == alias {
			if p.lexer.IsIdentifierOrKeyword() {
				p.lexer.Next()
				if p.lexer.IsContextualKeyword("as") {
					p.lexer.Next()
					p.lexer.Expect(js_lexer.TIdentifier)
				}
				if p.lexer.Token != js_lexer.TComma {
					break
				}
				p.lexer.Next()
				continue
			}
		}

		items = append(items, js_ast.ClauseItem{Alias: alias, AliasLoc: aliasLoc, Name: name})

		if p.lexer.Token != js_lexer.TComma {
			break
		}
		p.lexer.Next()
	}

	p.lexer.Expect(js_lexer.TCloseBrace)
	return items
}

func (p *parser) parseExportClause() []js_ast.ClauseItem {
	p.lexer.Expect(js_lexer.TOpenBrace)
	items := []js_ast.ClauseItem{}

	for p.lexer.Token != js_lexer.TCloseBrace {
		nameLoc := p.lexer.Loc()
		var name string
		switch {
		case p.lexer.Token == js_lexer.TStringLiteral:
			name = p.lexer.StringValue
		case p.lexer.IsIdentifierOrKeyword():
			name = p.lexer.Identifier
		default:
			p.lexer.Expect(js_lexer.TIdentifier)
		}
		p.lexer.Next()

		// "export { type T }" drops the member
		isTypeOnly := false
		if p.syntax.TypeScript && name == "type" && (p.lexer.IsIdentifierOrKeyword() ||
			p.lexer.Token == js_lexer.TStringLiteral) && !p.lexer.IsContextualKeyword("as") {
			isTypeOnly = true
			nameLoc = p.lexer.Loc()
			if p.lexer.Token == js_lexer.TStringLiteral {
				name = p.lexer.StringValue
			} else {
				name = p.lexer.Identifier
			}
			p.lexer.Next()
		}

		alias := name
		aliasLoc := nameLoc
		if p.lexer.IsContextualKeyword("as") {
			p.lexer.Next()
			aliasLoc = p.lexer.Loc()
			switch {
			case p.lexer.Token == js_lexer.TStringLiteral:
				alias = p.lexer.StringValue
			case p.lexer.IsIdentifierOrKeyword():
				alias = p.lexer.Identifier
			default:
				p.lexer.Expect(js_lexer.TIdentifier)
			}
			p.lexer.Next()
		}

		if !isTypeOnly {
			items = append(items, js_ast.ClauseItem{
				Alias:    alias,
				AliasLoc: aliasLoc,
				Name:     js_ast.LocName{Loc: nameLoc, Name: name},
			})
		}

		if p.lexer.Token != js_lexer.TComma {
			break
		}
		p.lexer.Next()
	}

	p.lexer.Expect(js_lexer.TCloseBrace)
	return items
}

func (p *parser) parsePath() js_ast.Path {
	path := js_ast.Path{Loc: p.lexer.Loc(), Text: p.lexer.StringValue}
	if p.lexer.Token == js_lexer.TNoSubstitutionTemplateLiteral {
		p.lexer.Next()
	} else {
		p.lexer.Expect(js_lexer.TStringLiteral)
	}
	return path
}

// parseImportAssertions parses and discards an "assert { ... }" or
// "with { ... }" clause after a path.
func (p *parser) parseImportAssertions() {
	if !p.syntax.ImportAssertions || p.lexer.HasNewlineBefore {
		return
	}
	if !p.lexer.IsContextualKeyword("assert") && p.lexer.Token != js_lexer.TWith {
		return
	}
	p.lexer.Next()
	p.lexer.Expect(js_lexer.TOpenBrace)
	for p.lexer.Token != js_lexer.TCloseBrace {
		if !p.lexer.IsIdentifierOrKeyword() && p.lexer.Token != js_lexer.TStringLiteral {
			p.lexer.Expect(js_lexer.TIdentifier)
		}
		p.lexer.Next()
		p.lexer.Expect(js_lexer.TColon)
		p.lexer.Expect(js_lexer.TStringLiteral)
		if p.lexer.Token != js_lexer.TComma {
			break
		}
		p.lexer.Next()
	}
	p.lexer.Expect(js_lexer.TCloseBrace)
}

// parseTypeScriptImportAlias handles "import a = b.c" and
// "import a = require('x')", both of which are erased.
func (p *parser) parseTypeScriptImportAlias() {
	p.lexer.Expect(js_lexer.TIdentifier)
	p.lexer.Expect(js_lexer.TEquals)
	if p.lexer.IsContextualKeyword("require") {
		p.lexer.Next()
		p.lexer.Expect(js_lexer.TOpenParen)
		p.lexer.Expect(js_lexer.TStringLiteral)
		p.lexer.Expect(js_lexer.TCloseParen)
	} else {
		p.parseExpr(js_ast.LLowest)
	}
	p.lexer.ExpectOrInsertSemicolon()
}

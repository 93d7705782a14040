package js_parser

// TypeScript types are skipped, not parsed. The skipper only needs to find
// where a type ends so the surrounding JavaScript can be parsed correctly.

import (
	"github.com/esmd/esm-compiler/internal/js_ast"
	"github.com/esmd/esm-compiler/internal/js_lexer"
	"github.com/esmd/esm-compiler/internal/logger"
)

func (p *parser) skipTypeScriptType(level js_ast.L) {
	p.skipTypeScriptTypePrefix()
	p.skipTypeScriptTypeSuffix(level)
}

func (p *parser) skipTypeScriptTypePrefix() {
	switch p.lexer.Token {
	case js_lexer.TNumericLiteral, js_lexer.TBigIntegerLiteral, js_lexer.TStringLiteral,
		js_lexer.TNoSubstitutionTemplateLiteral, js_lexer.TTrue, js_lexer.TFalse,
		js_lexer.TNull, js_lexer.TVoid, js_lexer.TThis:
		p.lexer.Next()

	case js_lexer.TConst:
		// "as const"
		p.lexer.Next()

	case js_lexer.TMinus:
		p.lexer.Next()
		if p.lexer.Token != js_lexer.TNumericLiteral && p.lexer.Token != js_lexer.TBigIntegerLiteral {
			p.lexer.Expected(js_lexer.TNumericLiteral)
		}
		p.lexer.Next()

	case js_lexer.TAmpersand, js_lexer.TBar:
		// A leading "|" or "&" is allowed
		p.lexer.Next()
		p.skipTypeScriptTypePrefix()

	case js_lexer.TImport:
		// "import('path').Type"
		p.lexer.Next()
		p.lexer.Expect(js_lexer.TOpenParen)
		p.lexer.Expect(js_lexer.TStringLiteral)
		p.lexer.Expect(js_lexer.TCloseParen)

	case js_lexer.TTypeof:
		p.lexer.Next()
		if p.lexer.Token == js_lexer.TImport {
			p.skipTypeScriptTypePrefix()
		} else {
			p.skipTypeScriptType(js_ast.LPrefix)
		}

	case js_lexer.TNew:
		p.lexer.Next()
		p.skipTypeScriptTypeParameters()
		p.skipTypeScriptParenOrFnType()

	case js_lexer.TLessThan:
		p.skipTypeScriptTypeParameters()
		p.skipTypeScriptParenOrFnType()

	case js_lexer.TOpenParen:
		p.skipTypeScriptParenOrFnType()

	case js_lexer.TOpenBracket:
		// A tuple, possibly with labeled members
		p.lexer.Next()
		for p.lexer.Token != js_lexer.TCloseBracket {
			if p.lexer.Token == js_lexer.TDotDotDot {
				p.lexer.Next()
			}
			p.skipTypeScriptType(js_ast.LLowest)
			if p.lexer.Token == js_lexer.TQuestion {
				p.lexer.Next()
			}
			if p.lexer.Token == js_lexer.TColon {
				p.lexer.Next()
				p.skipTypeScriptType(js_ast.LLowest)
			}
			if p.lexer.Token != js_lexer.TComma {
				break
			}
			p.lexer.Next()
		}
		p.lexer.Expect(js_lexer.TCloseBracket)

	case js_lexer.TOpenBrace:
		p.skipTypeScriptObjectType()

	case js_lexer.TTemplateHead:
		// A template literal type
		for {
			p.lexer.Next()
			p.skipTypeScriptType(js_ast.LLowest)
			p.lexer.RescanCloseBraceAsTemplateToken()
			if p.lexer.Token == js_lexer.TTemplateTail {
				p.lexer.Next()
				return
			}
		}

	case js_lexer.TIdentifier:
		switch p.lexer.Identifier {
		case "keyof", "readonly", "infer", "unique", "abstract", "asserts":
			p.lexer.Next()
			p.skipTypeScriptType(js_ast.LPrefix)
		default:
			p.lexer.Next()
		}

	default:
		p.lexer.Unexpected()
	}
}

func (p *parser) skipTypeScriptTypeSuffix(level js_ast.L) {
	for {
		switch p.lexer.Token {
		case js_lexer.TDot:
			p.lexer.Next()
			if !p.lexer.IsIdentifierOrKeyword() {
				p.lexer.Expect(js_lexer.TIdentifier)
			}
			p.lexer.Next()

		case js_lexer.TOpenBracket:
			// "T[]" or "T[K]"
			if p.lexer.HasNewlineBefore {
				return
			}
			p.lexer.Next()
			if p.lexer.Token != js_lexer.TCloseBracket {
				p.skipTypeScriptType(js_ast.LLowest)
			}
			p.lexer.Expect(js_lexer.TCloseBracket)

		case js_lexer.TLessThan:
			p.skipTypeScriptTypeArguments()

		case js_lexer.TBar:
			if level >= js_ast.LBitwiseOr {
				return
			}
			p.lexer.Next()
			p.skipTypeScriptTypePrefix()

		case js_lexer.TAmpersand:
			if level >= js_ast.LBitwiseAnd {
				return
			}
			p.lexer.Next()
			p.skipTypeScriptTypePrefix()

		case js_lexer.TExtends:
			// A conditional type "A extends B ? C : D"
			if level >= js_ast.LConditional {
				return
			}
			p.lexer.Next()
			p.skipTypeScriptType(js_ast.LConditional)
			p.lexer.Expect(js_lexer.TQuestion)
			p.skipTypeScriptType(js_ast.LLowest)
			p.lexer.Expect(js_lexer.TColon)
			p.skipTypeScriptType(js_ast.LLowest)

		default:
			return
		}
	}
}

// skipTypeScriptParenOrFnType tells "(A | B)" apart from "(a: A) => B" by
// trying the function form first with backtracking.
func (p *parser) skipTypeScriptParenOrFnType() {
	if p.tryBacktrack(func() {
		p.skipTypeScriptFnArgs()
		p.lexer.Expect(js_lexer.TEqualsGreaterThan)
	}) {
		p.skipTypeScriptReturnType()
		return
	}

	p.lexer.Expect(js_lexer.TOpenParen)
	p.skipTypeScriptType(js_ast.LLowest)
	p.lexer.Expect(js_lexer.TCloseParen)
}

func (p *parser) skipTypeScriptFnArgs() {
	p.lexer.Expect(js_lexer.TOpenParen)

	for p.lexer.Token != js_lexer.TCloseParen {
		if p.lexer.Token == js_lexer.TDotDotDot {
			p.lexer.Next()
		}
		if p.lexer.Token == js_lexer.TThis {
			p.lexer.Next()
		} else {
			p.parseBinding()
		}
		if p.lexer.Token == js_lexer.TQuestion {
			p.lexer.Next()
		}
		if p.lexer.Token == js_lexer.TColon {
			p.lexer.Next()
			p.skipTypeScriptType(js_ast.LLowest)
		}
		if p.lexer.Token != js_lexer.TComma {
			break
		}
		p.lexer.Next()
	}

	p.lexer.Expect(js_lexer.TCloseParen)
}

// skipTypeScriptReturnType also handles type predicates such as "x is T"
// and "asserts x is T".
func (p *parser) skipTypeScriptReturnType() {
	if p.lexer.IsContextualKeyword("asserts") {
		p.lexer.Next()
		if p.lexer.Token == js_lexer.TIdentifier || p.lexer.Token == js_lexer.TThis {
			p.lexer.Next()
			if p.lexer.IsContextualKeyword("is") && !p.lexer.HasNewlineBefore {
				p.lexer.Next()
				p.skipTypeScriptType(js_ast.LLowest)
			}
			return
		}
		// "asserts" was the type itself
		p.skipTypeScriptTypeSuffix(js_ast.LLowest)
		return
	}

	if p.lexer.Token == js_lexer.TIdentifier || p.lexer.Token == js_lexer.TThis {
		snapshot := p.lexer.Snapshot()
		p.lexer.Next()
		if p.lexer.IsContextualKeyword("is") && !p.lexer.HasNewlineBefore {
			p.lexer.Next()
			p.skipTypeScriptType(js_ast.LLowest)
			return
		}
		p.lexer.Restore(snapshot)
	}

	p.skipTypeScriptType(js_ast.LLowest)
}

func (p *parser) skipTypeScriptTypeParameters() {
	if p.lexer.Token != js_lexer.TLessThan {
		return
	}
	p.lexer.Next()

	for {
		// Variance annotations and "const" modifiers
		for p.lexer.IsContextualKeyword("in") || p.lexer.IsContextualKeyword("out") ||
			p.lexer.Token == js_lexer.TIn || p.lexer.Token == js_lexer.TConst {
			p.lexer.Next()
		}

		if p.lexer.Token != js_lexer.TIdentifier {
			p.lexer.Expect(js_lexer.TIdentifier)
		}
		p.lexer.Next()

		if p.lexer.Token == js_lexer.TExtends {
			p.lexer.Next()
			p.skipTypeScriptType(js_ast.LLowest)
		}
		if p.lexer.Token == js_lexer.TEquals {
			p.lexer.Next()
			p.skipTypeScriptType(js_ast.LLowest)
		}

		if p.lexer.Token != js_lexer.TComma {
			break
		}
		p.lexer.Next()
	}

	p.lexer.ExpectGreaterThan(false)
}

func (p *parser) skipTypeScriptTypeArguments() {
	p.lexer.ExpectLessThan(false)

	for {
		p.skipTypeScriptType(js_ast.LLowest)
		if p.lexer.Token != js_lexer.TComma {
			break
		}
		p.lexer.Next()
	}

	p.lexer.ExpectGreaterThan(false)
}

func (p *parser) skipTypeScriptObjectType() {
	p.lexer.Expect(js_lexer.TOpenBrace)

	for p.lexer.Token != js_lexer.TCloseBrace {
		// "readonly" before a property or index signature
		if p.lexer.IsContextualKeyword("readonly") {
			snapshot := p.lexer.Snapshot()
			p.lexer.Next()
			if p.lexer.Token == js_lexer.TColon || p.lexer.Token == js_lexer.TQuestion ||
				p.lexer.Token == js_lexer.TOpenParen || p.lexer.Token == js_lexer.TLessThan {
				// "readonly" was the member name itself
				p.lexer.Restore(snapshot)
			}
		}

		switch p.lexer.Token {
		case js_lexer.TOpenBracket:
			// An index signature "[k: string]" or a mapped type "[K in T]"
			p.lexer.Next()
			p.skipTypeScriptType(js_ast.LLowest)
			if p.lexer.Token == js_lexer.TColon {
				p.lexer.Next()
				p.skipTypeScriptType(js_ast.LLowest)
			} else if p.lexer.Token == js_lexer.TIn {
				p.lexer.Next()
				p.skipTypeScriptType(js_ast.LLowest)
				if p.lexer.IsContextualKeyword("as") {
					p.lexer.Next()
					p.skipTypeScriptType(js_ast.LLowest)
				}
			}
			p.lexer.Expect(js_lexer.TCloseBracket)

			// Mapped type modifiers: "-?", "+?", "?"
			if p.lexer.Token == js_lexer.TMinus || p.lexer.Token == js_lexer.TPlus {
				p.lexer.Next()
			}
			if p.lexer.Token == js_lexer.TQuestion {
				p.lexer.Next()
			}
			if p.lexer.Token == js_lexer.TColon {
				p.lexer.Next()
				p.skipTypeScriptType(js_ast.LLowest)
			}

		case js_lexer.TOpenParen, js_lexer.TLessThan:
			// A call signature
			p.skipTypeScriptTypeParameters()
			p.skipTypeScriptFnArgs()
			if p.lexer.Token == js_lexer.TColon {
				p.lexer.Next()
				p.skipTypeScriptReturnType()
			}

		case js_lexer.TNew:
			// A construct signature, unless "new" is a property name
			p.lexer.Next()
			if p.lexer.Token == js_lexer.TOpenParen || p.lexer.Token == js_lexer.TLessThan {
				p.skipTypeScriptTypeParameters()
				p.skipTypeScriptFnArgs()
			}
			if p.lexer.Token == js_lexer.TQuestion {
				p.lexer.Next()
			}
			if p.lexer.Token == js_lexer.TColon {
				p.lexer.Next()
				p.skipTypeScriptReturnType()
			}

		case js_lexer.TStringLiteral, js_lexer.TNumericLiteral:
			p.lexer.Next()
			p.skipTypeScriptObjectMemberSuffix()

		default:
			if !p.lexer.IsIdentifierOrKeyword() {
				p.lexer.Unexpected()
			}
			p.lexer.Next()
			p.skipTypeScriptObjectMemberSuffix()
		}

		// Members are separated by ",", ";", or a newline
		if p.lexer.Token == js_lexer.TComma || p.lexer.Token == js_lexer.TSemicolon {
			p.lexer.Next()
		}
	}

	p.lexer.Expect(js_lexer.TCloseBrace)
}

func (p *parser) skipTypeScriptObjectMemberSuffix() {
	if p.lexer.Token == js_lexer.TQuestion {
		p.lexer.Next()
	}

	switch p.lexer.Token {
	case js_lexer.TOpenParen, js_lexer.TLessThan:
		// A method signature
		p.skipTypeScriptTypeParameters()
		p.skipTypeScriptFnArgs()
		if p.lexer.Token == js_lexer.TColon {
			p.lexer.Next()
			p.skipTypeScriptReturnType()
		}

	case js_lexer.TColon:
		p.lexer.Next()
		p.skipTypeScriptType(js_ast.LLowest)
	}
}

// parseTypeScriptInterface is called with the lexer on the interface name.
func (p *parser) parseTypeScriptInterface() {
	p.lexer.Next()
	p.skipTypeScriptTypeParameters()

	if p.lexer.Token == js_lexer.TExtends {
		p.lexer.Next()
		for {
			p.skipTypeScriptType(js_ast.LLowest)
			if p.lexer.Token != js_lexer.TComma {
				break
			}
			p.lexer.Next()
		}
	}

	p.skipTypeScriptObjectType()
}

// parseTypeScriptTypeAlias is called with the lexer on the alias name.
func (p *parser) parseTypeScriptTypeAlias() {
	p.lexer.Next()
	p.skipTypeScriptTypeParameters()
	p.lexer.Expect(js_lexer.TEquals)
	p.skipTypeScriptType(js_ast.LLowest)
	p.lexer.ExpectOrInsertSemicolon()
}

// parseTypeScriptNamespace is called with the lexer on the namespace name,
// which may be dotted ("namespace A.B.C") or a string ("declare module 'x'").
func (p *parser) parseTypeScriptNamespace(loc logger.Loc, opts parseStmtOpts) js_ast.Stmt {
	nameLoc := p.lexer.Loc()
	var name string
	isStringName := p.lexer.Token == js_lexer.TStringLiteral
	if isStringName {
		name = p.lexer.StringValue
	} else {
		name = p.lexer.Identifier
	}
	p.lexer.Next()

	// "namespace A.B {}" is shorthand for "namespace A { namespace B {} }"
	if p.lexer.Token == js_lexer.TDot {
		p.lexer.Next()
		inner := p.parseTypeScriptNamespace(p.lexer.Loc(), parseStmtOpts{})
		if p.isDeclare {
			return js_ast.Stmt{Loc: loc, Data: &js_ast.STypeScript{}}
		}
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SNamespace{
			Name:     js_ast.LocName{Loc: nameLoc, Name: name},
			Stmts:    []js_ast.Stmt{inner},
			IsExport: opts.isExport,
		}}
	}

	oldIsNamespaceScope := p.isNamespaceScope
	p.isNamespaceScope = true
	p.lexer.Expect(js_lexer.TOpenBrace)
	stmts := p.parseStmtsUpTo(js_lexer.TCloseBrace)
	p.lexer.Next()
	p.isNamespaceScope = oldIsNamespaceScope

	// Ambient and string-named modules carry no runtime code
	if p.isDeclare || isStringName {
		return js_ast.Stmt{Loc: loc, Data: &js_ast.STypeScript{}}
	}

	return js_ast.Stmt{Loc: loc, Data: &js_ast.SNamespace{
		Name:     js_ast.LocName{Loc: nameLoc, Name: name},
		Stmts:    stmts,
		IsExport: opts.isExport,
	}}
}

// parseEnumStmt is called with the lexer on the "enum" keyword.
func (p *parser) parseEnumStmt(loc logger.Loc, opts parseStmtOpts, isConst bool) js_ast.Stmt {
	p.lexer.Expect(js_lexer.TEnum)

	name := js_ast.LocName{Loc: p.lexer.Loc(), Name: p.lexer.Identifier}
	p.lexer.Expect(js_lexer.TIdentifier)
	p.lexer.Expect(js_lexer.TOpenBrace)

	values := []js_ast.EnumValue{}
	for p.lexer.Token != js_lexer.TCloseBrace {
		value := js_ast.EnumValue{Loc: p.lexer.Loc()}

		switch p.lexer.Token {
		case js_lexer.TStringLiteral:
			value.Name = p.lexer.StringValue
		default:
			if !p.lexer.IsIdentifierOrKeyword() {
				p.lexer.Expect(js_lexer.TIdentifier)
			}
			value.Name = p.lexer.Identifier
		}
		p.lexer.Next()

		if p.lexer.Token == js_lexer.TEquals {
			p.lexer.Next()
			value.ValueOrNil = p.parseExpr(js_ast.LComma)
		}
		values = append(values, value)

		if p.lexer.Token != js_lexer.TComma {
			break
		}
		p.lexer.Next()
	}

	p.lexer.Expect(js_lexer.TCloseBrace)

	if p.isDeclare {
		return js_ast.Stmt{Loc: loc, Data: &js_ast.STypeScript{}}
	}
	return js_ast.Stmt{Loc: loc, Data: &js_ast.SEnum{
		Name:     name,
		Values:   values,
		IsExport: opts.isExport,
		IsConst:  isConst,
	}}
}

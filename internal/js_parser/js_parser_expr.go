package js_parser

import (
	"github.com/esmd/esm-compiler/internal/js_ast"
	"github.com/esmd/esm-compiler/internal/js_lexer"
	"github.com/esmd/esm-compiler/internal/logger"
)

func (p *parser) parseExpr(level js_ast.L) js_ast.Expr {
	return p.parseSuffix(p.parsePrefix(level), level)
}

func (p *parser) parsePrefix(level js_ast.L) js_ast.Expr {
	loc := p.lexer.Loc()

	switch p.lexer.Token {
	case js_lexer.TSuper:
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.ESuper{}}

	case js_lexer.TOpenParen:
		return p.parseParenExpr(loc, level)

	case js_lexer.TFalse:
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.EBoolean{Value: false}}

	case js_lexer.TTrue:
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.EBoolean{Value: true}}

	case js_lexer.TNull:
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.ENull{}}

	case js_lexer.TThis:
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.EThis{}}

	case js_lexer.TIdentifier:
		name := p.lexer.Identifier

		switch name {
		case "async":
			if expr, ok := p.parseAsyncPrefixExpr(loc, level); ok {
				return expr
			}

		case "await":
			if p.allowAwait {
				p.lexer.Next()
				return js_ast.Expr{Loc: loc, Data: &js_ast.EAwait{Value: p.parseExpr(js_ast.LPrefix)}}
			}

		case "yield":
			if p.allowYield {
				if level > js_ast.LAssign {
					p.addRangeError(p.lexer.Range(), "Cannot use a \"yield\" expression here")
				}
				return p.parseYieldExpr(loc)
			}
		}

		p.lexer.Next()

		// "x => x"
		if p.lexer.Token == js_lexer.TEqualsGreaterThan && level <= js_ast.LAssign {
			p.lexer.Next()
			arg := js_ast.Arg{Binding: js_ast.Binding{Loc: loc, Data: &js_ast.BIdentifier{Name: name}}}
			return js_ast.Expr{Loc: loc, Data: p.parseArrowBody([]js_ast.Arg{arg}, false, false)}
		}

		return js_ast.Ident(loc, name)

	case js_lexer.TStringLiteral:
		value := p.lexer.StringValue
		p.lexer.Next()
		return js_ast.String(loc, value)

	case js_lexer.TNoSubstitutionTemplateLiteral:
		headCooked := p.lexer.StringValue
		headRaw := p.lexer.RawTemplateContents()
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.ETemplate{
			HeadLoc:    loc,
			HeadCooked: headCooked,
			HeadRaw:    headRaw,
		}}

	case js_lexer.TTemplateHead:
		headCooked := p.lexer.StringValue
		headRaw := p.lexer.RawTemplateContents()
		parts := p.parseTemplateParts()
		return js_ast.Expr{Loc: loc, Data: &js_ast.ETemplate{
			HeadLoc:    loc,
			HeadCooked: headCooked,
			HeadRaw:    headRaw,
			Parts:      parts,
		}}

	case js_lexer.TNumericLiteral:
		value := p.lexer.Number
		p.lexer.Next()
		return js_ast.Number(loc, value)

	case js_lexer.TBigIntegerLiteral:
		value := p.lexer.Identifier
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.EBigInt{Value: value}}

	case js_lexer.TSlash, js_lexer.TSlashEquals:
		p.lexer.ScanRegExp()
		value := p.lexer.Raw()
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.ERegExp{Value: value}}

	case js_lexer.TVoid:
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.EUnary{Op: js_ast.UnOpVoid, Value: p.parseExpr(js_ast.LPrefix)}}

	case js_lexer.TTypeof:
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.EUnary{Op: js_ast.UnOpTypeof, Value: p.parseExpr(js_ast.LPrefix)}}

	case js_lexer.TDelete:
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.EUnary{Op: js_ast.UnOpDelete, Value: p.parseExpr(js_ast.LPrefix)}}

	case js_lexer.TPlus:
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.EUnary{Op: js_ast.UnOpPos, Value: p.parseExpr(js_ast.LPrefix)}}

	case js_lexer.TMinus:
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.EUnary{Op: js_ast.UnOpNeg, Value: p.parseExpr(js_ast.LPrefix)}}

	case js_lexer.TTilde:
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.EUnary{Op: js_ast.UnOpCpl, Value: p.parseExpr(js_ast.LPrefix)}}

	case js_lexer.TExclamation:
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.EUnary{Op: js_ast.UnOpNot, Value: p.parseExpr(js_ast.LPrefix)}}

	case js_lexer.TMinusMinus:
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.EUnary{Op: js_ast.UnOpPreDec, Value: p.parseExpr(js_ast.LPrefix)}}

	case js_lexer.TPlusPlus:
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.EUnary{Op: js_ast.UnOpPreInc, Value: p.parseExpr(js_ast.LPrefix)}}

	case js_lexer.TFunction:
		p.lexer.Next()
		return p.parseFnExpr(loc, false)

	case js_lexer.TClass:
		p.lexer.Next()
		var name *js_ast.LocName
		if p.lexer.Token == js_lexer.TIdentifier {
			name = &js_ast.LocName{Loc: p.lexer.Loc(), Name: p.lexer.Identifier}
			p.lexer.Next()
		}
		class := p.parseClass(name, nil)
		return js_ast.Expr{Loc: loc, Data: &js_ast.EClass{Class: class}}

	case js_lexer.TAt:
		// A decorated class expression
		if !p.syntax.Decorators {
			p.lexer.Unexpected()
		}
		tsDecorators := p.parseDecorators()
		if p.lexer.Token != js_lexer.TClass {
			p.lexer.Expected(js_lexer.TClass)
		}
		p.lexer.Next()
		var name *js_ast.LocName
		if p.lexer.Token == js_lexer.TIdentifier {
			name = &js_ast.LocName{Loc: p.lexer.Loc(), Name: p.lexer.Identifier}
			p.lexer.Next()
		}
		class := p.parseClass(name, tsDecorators)
		return js_ast.Expr{Loc: loc, Data: &js_ast.EClass{Class: class}}

	case js_lexer.TNew:
		return p.parseNewExpr(loc)

	case js_lexer.TOpenBracket:
		p.lexer.Next()
		items := []js_ast.Expr{}
		oldAllowIn := p.allowIn
		p.allowIn = true

		for p.lexer.Token != js_lexer.TCloseBracket {
			switch p.lexer.Token {
			case js_lexer.TComma:
				items = append(items, js_ast.Expr{Loc: p.lexer.Loc(), Data: &js_ast.EMissing{}})

			case js_lexer.TDotDotDot:
				spreadLoc := p.lexer.Loc()
				p.lexer.Next()
				items = append(items, js_ast.Expr{Loc: spreadLoc, Data: &js_ast.ESpread{Value: p.parseExpr(js_ast.LComma)}})

			default:
				items = append(items, p.parseExpr(js_ast.LComma))
			}

			if p.lexer.Token != js_lexer.TComma {
				break
			}
			p.lexer.Next()
		}

		p.allowIn = oldAllowIn
		p.lexer.Expect(js_lexer.TCloseBracket)
		return js_ast.Expr{Loc: loc, Data: &js_ast.EArray{Items: items}}

	case js_lexer.TOpenBrace:
		p.lexer.Next()
		properties := []js_ast.Property{}
		oldAllowIn := p.allowIn
		p.allowIn = true

		for p.lexer.Token != js_lexer.TCloseBrace {
			properties = append(properties, p.parseObjectProperty())
			if p.lexer.Token != js_lexer.TComma {
				break
			}
			p.lexer.Next()
		}

		p.allowIn = oldAllowIn
		p.lexer.Expect(js_lexer.TCloseBrace)
		return js_ast.Expr{Loc: loc, Data: &js_ast.EObject{Properties: properties}}

	case js_lexer.TLessThan:
		if p.syntax.JSX {
			expr := p.parseJSXElement(loc)
			// The element's final ">" is still current; what follows is a
			// normal expression token
			p.lexer.Next()
			return expr
		}

		if p.syntax.TypeScript {
			// Either a generic arrow function "<T>() => {}" or a cast "<T>x"
			if p.tryBacktrack(func() {
				p.skipTypeScriptTypeParameters()
				if p.lexer.Token != js_lexer.TOpenParen {
					p.lexer.Expected(js_lexer.TOpenParen)
				}
			}) {
				return p.parseParenExpr(p.lexer.Loc(), level)
			}
			p.lexer.Next()
			p.skipTypeScriptType(js_ast.LLowest)
			p.lexer.ExpectGreaterThan(false)
			return p.parsePrefix(level)
		}

		p.lexer.Unexpected()

	case js_lexer.TImport:
		return p.parseImportExpr(loc)
	}

	p.lexer.Unexpected()
	return js_ast.Expr{}
}

// parseAsyncPrefixExpr sorts out the many things "async" can begin. The
// caller falls back to treating it as a plain identifier when ok is false.
func (p *parser) parseAsyncPrefixExpr(loc logger.Loc, level js_ast.L) (js_ast.Expr, bool) {
	snapshot := p.lexer.Snapshot()
	p.lexer.Next()

	if !p.lexer.HasNewlineBefore {
		switch p.lexer.Token {
		case js_lexer.TFunction:
			p.lexer.Next()
			return p.parseFnExpr(loc, true), true

		case js_lexer.TIdentifier:
			// "async x => x"
			if level <= js_ast.LAssign {
				argLoc := p.lexer.Loc()
				argName := p.lexer.Identifier
				p.lexer.Next()
				if p.lexer.Token == js_lexer.TEqualsGreaterThan {
					p.lexer.Next()
					arg := js_ast.Arg{Binding: js_ast.Binding{Loc: argLoc, Data: &js_ast.BIdentifier{Name: argName}}}
					return js_ast.Expr{Loc: loc, Data: p.parseArrowBody([]js_ast.Arg{arg}, false, true)}, true
				}
			}

		case js_lexer.TOpenParen:
			// "async () => {}" or the call "async(...)"
			if level <= js_ast.LAssign {
				if arrow, ok := p.tryParseParenArrow(true); ok {
					return js_ast.Expr{Loc: loc, Data: arrow}, true
				}
			}
		}
	}

	p.lexer.Restore(snapshot)
	return js_ast.Expr{}, false
}

func (p *parser) parseYieldExpr(loc logger.Loc) js_ast.Expr {
	p.lexer.Next()

	isStar := false
	if p.lexer.Token == js_lexer.TAsterisk && !p.lexer.HasNewlineBefore {
		isStar = true
		p.lexer.Next()
	}

	var valueOrNil js_ast.Expr
	if isStar || (!p.lexer.HasNewlineBefore && canStartExpr(p.lexer.Token)) {
		valueOrNil = p.parseExpr(js_ast.LYield)
	}
	return js_ast.Expr{Loc: loc, Data: &js_ast.EYield{ValueOrNil: valueOrNil, IsStar: isStar}}
}

func canStartExpr(token js_lexer.T) bool {
	switch token {
	case js_lexer.TSemicolon, js_lexer.TCloseParen, js_lexer.TCloseBracket, js_lexer.TCloseBrace,
		js_lexer.TComma, js_lexer.TColon, js_lexer.TEndOfFile:
		return false
	}
	return true
}

func (p *parser) parseFnExpr(loc logger.Loc, isAsync bool) js_ast.Expr {
	isGenerator := false
	if p.lexer.Token == js_lexer.TAsterisk {
		isGenerator = true
		p.lexer.Next()
	}

	var name *js_ast.LocName
	if p.lexer.Token == js_lexer.TIdentifier {
		name = &js_ast.LocName{Loc: p.lexer.Loc(), Name: p.lexer.Identifier}
		p.lexer.Next()
	}

	fn := p.parseFn(name, fnOpts{isAsync: isAsync, isGenerator: isGenerator})
	return js_ast.Expr{Loc: loc, Data: &js_ast.EFunction{Fn: fn}}
}

func (p *parser) parseNewExpr(loc logger.Loc) js_ast.Expr {
	p.lexer.Next()

	if p.lexer.Token == js_lexer.TDot {
		p.lexer.Next()
		p.lexer.ExpectContextualKeyword("target")
		return js_ast.Expr{Loc: loc, Data: &js_ast.ENewTarget{}}
	}

	// Parsing at LCall keeps the suffix loop from consuming the call parens,
	// which belong to "new" itself
	target := p.parseExpr(js_ast.LCall)

	var args []js_ast.Expr
	if p.lexer.Token == js_lexer.TOpenParen {
		args = p.parseCallArgs()
	}
	return js_ast.Expr{Loc: loc, Data: &js_ast.ENew{Target: target, Args: args}}
}

func (p *parser) parseImportExpr(loc logger.Loc) js_ast.Expr {
	p.lexer.Next()
	return p.parseImportExprAfterKeyword(loc)
}

// parseImportExprAfterKeyword is called with the "import" keyword already
// consumed. It handles both "import(...)" and "import.meta".
func (p *parser) parseImportExprAfterKeyword(loc logger.Loc) js_ast.Expr {
	if p.lexer.Token == js_lexer.TDot {
		p.lexer.Next()
		p.lexer.ExpectContextualKeyword("meta")
		return js_ast.Expr{Loc: loc, Data: &js_ast.EImportMeta{}}
	}

	p.lexer.Expect(js_lexer.TOpenParen)
	oldAllowIn := p.allowIn
	p.allowIn = true

	value := p.parseExpr(js_ast.LComma)
	var optionsOrNil js_ast.Expr
	if p.lexer.Token == js_lexer.TComma {
		p.lexer.Next()
		if p.lexer.Token != js_lexer.TCloseParen {
			optionsOrNil = p.parseExpr(js_ast.LComma)
			if p.lexer.Token == js_lexer.TComma {
				p.lexer.Next()
			}
		}
	}

	p.allowIn = oldAllowIn
	p.lexer.Expect(js_lexer.TCloseParen)
	return js_ast.Expr{Loc: loc, Data: &js_ast.EImport{Expr: value, OptionsOrNil: optionsOrNil}}
}

// parseParenExpr handles both "(x, y)" and "(x, y) => {}". The arrow form is
// tried first with backtracking since the two cannot be told apart without
// scanning ahead to the "=>".
func (p *parser) parseParenExpr(loc logger.Loc, level js_ast.L) js_ast.Expr {
	if level <= js_ast.LAssign {
		if arrow, ok := p.tryParseParenArrow(false); ok {
			return js_ast.Expr{Loc: loc, Data: arrow}
		}
	}

	p.lexer.Next()
	oldAllowIn := p.allowIn
	p.allowIn = true
	value := p.parseExpr(js_ast.LLowest)
	p.allowIn = oldAllowIn
	p.lexer.Expect(js_lexer.TCloseParen)
	return value
}

// tryParseParenArrow speculatively parses an arrow function head starting at
// the current "(". On success the lexer sits just past the "=>" and the body
// is parsed for real; on failure the lexer is rewound.
func (p *parser) tryParseParenArrow(isAsync bool) (*js_ast.EArrow, bool) {
	var args []js_ast.Arg
	var hasRestArg bool

	ok := p.tryBacktrack(func() {
		args, hasRestArg = p.parseFnArgs(fnOpts{})
		if p.syntax.TypeScript && p.lexer.Token == js_lexer.TColon {
			p.lexer.Next()
			p.skipTypeScriptReturnType()
		}
		if p.lexer.HasNewlineBefore {
			p.lexer.Expected(js_lexer.TEqualsGreaterThan)
		}
		p.lexer.Expect(js_lexer.TEqualsGreaterThan)
	})
	if !ok {
		return nil, false
	}

	return p.parseArrowBody(args, hasRestArg, isAsync), true
}

// parseArrowBody is called with the lexer just past the "=>".
func (p *parser) parseArrowBody(args []js_ast.Arg, hasRestArg bool, isAsync bool) *js_ast.EArrow {
	arrow := &js_ast.EArrow{Args: args, HasRestArg: hasRestArg, IsAsync: isAsync}

	if p.lexer.Token == js_lexer.TOpenBrace {
		arrow.Body = p.parseFnBody(fnOpts{isAsync: isAsync})
		return arrow
	}

	oldAllowIn, oldAllowAwait, oldAllowYield := p.allowIn, p.allowAwait, p.allowYield
	p.allowAwait = isAsync
	p.allowYield = false

	bodyLoc := p.lexer.Loc()
	expr := p.parseExpr(js_ast.LComma)
	arrow.Body = js_ast.FnBody{Loc: bodyLoc, Stmts: []js_ast.Stmt{
		{Loc: bodyLoc, Data: &js_ast.SReturn{ValueOrNil: expr}},
	}}
	arrow.PreferExpr = true

	p.allowIn, p.allowAwait, p.allowYield = oldAllowIn, oldAllowAwait, oldAllowYield
	return arrow
}

func (p *parser) parseTemplateParts() []js_ast.TemplatePart {
	var parts []js_ast.TemplatePart
	for {
		p.lexer.Next()
		value := p.parseExpr(js_ast.LLowest)
		tailLoc := p.lexer.Loc()
		p.lexer.RescanCloseBraceAsTemplateToken()
		parts = append(parts, js_ast.TemplatePart{
			Value:      value,
			TailLoc:    tailLoc,
			TailCooked: p.lexer.StringValue,
			TailRaw:    p.lexer.RawTemplateContents(),
		})
		if p.lexer.Token == js_lexer.TTemplateTail {
			p.lexer.Next()
			return parts
		}
	}
}

func (p *parser) parseObjectProperty() js_ast.Property {
	if p.lexer.Token == js_lexer.TDotDotDot {
		p.lexer.Next()
		return js_ast.Property{
			Kind:       js_ast.PropertySpread,
			ValueOrNil: p.parseExpr(js_ast.LComma),
		}
	}

	kind := js_ast.PropertyNormal
	isAsync := false
	isGenerator := false

	if p.lexer.Token == js_lexer.TAsterisk {
		isGenerator = true
		p.lexer.Next()
	}

	var key js_ast.Expr
	isComputed := false

	switch p.lexer.Token {
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
		if !p.lexer.IsIdentifierOrKeyword() {
			p.lexer.Expect(js_lexer.TIdentifier)
		}
		name := p.lexer.Identifier
		nameLoc := p.lexer.Loc()
		p.lexer.Next()

		// "get x() {}", "set x(y) {}", "async x() {}"
		if !isGenerator && p.lexer.Token != js_lexer.TColon && p.lexer.Token != js_lexer.TOpenParen &&
			p.lexer.Token != js_lexer.TComma && p.lexer.Token != js_lexer.TCloseBrace {
			switch name {
			case "get", "set", "async":
				switch name {
				case "get":
					kind = js_ast.PropertyGet
				case "set":
					kind = js_ast.PropertySet
				case "async":
					isAsync = true
					if p.lexer.Token == js_lexer.TAsterisk {
						isGenerator = true
						p.lexer.Next()
					}
				}
				return p.parseObjectPropertyWithModifiers(kind, isAsync, isGenerator)
			}
		}

		// Shorthand
		if p.lexer.Token != js_lexer.TColon && p.lexer.Token != js_lexer.TOpenParen {
			return js_ast.Property{
				Key:         js_ast.String(nameLoc, name),
				ValueOrNil:  js_ast.Ident(nameLoc, name),
				IsShorthand: true,
			}
		}

		key = js_ast.String(nameLoc, name)
	}

	return p.finishObjectProperty(key, kind, isComputed, isAsync, isGenerator)
}

// parseObjectPropertyWithModifiers parses the key that follows "get", "set",
// "async", or "async*" and then the method itself.
func (p *parser) parseObjectPropertyWithModifiers(kind js_ast.PropertyKind, isAsync bool, isGenerator bool) js_ast.Property {
	var key js_ast.Expr
	isComputed := false

	switch p.lexer.Token {
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
		if !p.lexer.IsIdentifierOrKeyword() {
			p.lexer.Expect(js_lexer.TIdentifier)
		}
		key = js_ast.String(p.lexer.Loc(), p.lexer.Identifier)
		p.lexer.Next()
	}

	return p.finishObjectProperty(key, kind, isComputed, isAsync, isGenerator)
}

func (p *parser) finishObjectProperty(key js_ast.Expr, kind js_ast.PropertyKind, isComputed bool, isAsync bool, isGenerator bool) js_ast.Property {
	// A method
	if p.lexer.Token == js_lexer.TOpenParen || kind != js_ast.PropertyNormal || isAsync || isGenerator {
		loc := p.lexer.Loc()
		fn := p.parseFn(nil, fnOpts{isAsync: isAsync, isGenerator: isGenerator})
		return js_ast.Property{
			Key:        key,
			ValueOrNil: js_ast.Expr{Loc: loc, Data: &js_ast.EFunction{Fn: fn}},
			Kind:       kind,
			IsComputed: isComputed,
			IsMethod:   true,
		}
	}

	p.lexer.Expect(js_lexer.TColon)
	value := p.parseExpr(js_ast.LComma)
	return js_ast.Property{
		Key:        key,
		ValueOrNil: value,
		IsComputed: isComputed,
	}
}

func (p *parser) parseCallArgs() []js_ast.Expr {
	args := []js_ast.Expr{}
	oldAllowIn := p.allowIn
	p.allowIn = true

	p.lexer.Expect(js_lexer.TOpenParen)
	for p.lexer.Token != js_lexer.TCloseParen {
		loc := p.lexer.Loc()
		if p.lexer.Token == js_lexer.TDotDotDot {
			p.lexer.Next()
			args = append(args, js_ast.Expr{Loc: loc, Data: &js_ast.ESpread{Value: p.parseExpr(js_ast.LComma)}})
		} else {
			args = append(args, p.parseExpr(js_ast.LComma))
		}
		if p.lexer.Token != js_lexer.TComma {
			break
		}
		p.lexer.Next()
	}
	p.lexer.Expect(js_lexer.TCloseParen)

	p.allowIn = oldAllowIn
	return args
}

func (p *parser) parseSuffix(expr js_ast.Expr, level js_ast.L) js_ast.Expr {
	loc := expr.Loc

	for {
		switch p.lexer.Token {
		case js_lexer.TDot:
			p.lexer.Next()
			if !p.lexer.IsIdentifierOrKeyword() && p.lexer.Token != js_lexer.TPrivateIdentifier {
				p.lexer.Expect(js_lexer.TIdentifier)
			}
			nameLoc := p.lexer.Loc()
			name := p.lexer.Identifier
			p.lexer.Next()
			expr = js_ast.Expr{Loc: loc, Data: &js_ast.EDot{Target: expr, Name: name, NameLoc: nameLoc}}

		case js_lexer.TQuestionDot:
			p.lexer.Next()
			switch p.lexer.Token {
			case js_lexer.TOpenParen:
				if level >= js_ast.LCall {
					return expr
				}
				expr = js_ast.Expr{Loc: loc, Data: &js_ast.ECall{Target: expr, Args: p.parseCallArgs(), OptionalChain: true}}

			case js_lexer.TOpenBracket:
				p.lexer.Next()
				oldAllowIn := p.allowIn
				p.allowIn = true
				index := p.parseExpr(js_ast.LLowest)
				p.allowIn = oldAllowIn
				p.lexer.Expect(js_lexer.TCloseBracket)
				expr = js_ast.Expr{Loc: loc, Data: &js_ast.EIndex{Target: expr, Index: index, OptionalChain: true}}

			default:
				if !p.lexer.IsIdentifierOrKeyword() && p.lexer.Token != js_lexer.TPrivateIdentifier {
					p.lexer.Expect(js_lexer.TIdentifier)
				}
				nameLoc := p.lexer.Loc()
				name := p.lexer.Identifier
				p.lexer.Next()
				expr = js_ast.Expr{Loc: loc, Data: &js_ast.EDot{Target: expr, Name: name, NameLoc: nameLoc, OptionalChain: true}}
			}

		case js_lexer.TOpenBracket:
			p.lexer.Next()
			oldAllowIn := p.allowIn
			p.allowIn = true
			index := p.parseExpr(js_ast.LLowest)
			p.allowIn = oldAllowIn
			p.lexer.Expect(js_lexer.TCloseBracket)
			expr = js_ast.Expr{Loc: loc, Data: &js_ast.EIndex{Target: expr, Index: index}}

		case js_lexer.TOpenParen:
			if level >= js_ast.LCall {
				return expr
			}
			expr = js_ast.Expr{Loc: loc, Data: &js_ast.ECall{Target: expr, Args: p.parseCallArgs()}}

		case js_lexer.TNoSubstitutionTemplateLiteral:
			headLoc := p.lexer.Loc()
			headCooked := p.lexer.StringValue
			headRaw := p.lexer.RawTemplateContents()
			p.lexer.Next()
			expr = js_ast.Expr{Loc: loc, Data: &js_ast.ETemplate{
				TagOrNil:   expr,
				HeadLoc:    headLoc,
				HeadCooked: headCooked,
				HeadRaw:    headRaw,
			}}

		case js_lexer.TTemplateHead:
			headLoc := p.lexer.Loc()
			headCooked := p.lexer.StringValue
			headRaw := p.lexer.RawTemplateContents()
			parts := p.parseTemplateParts()
			expr = js_ast.Expr{Loc: loc, Data: &js_ast.ETemplate{
				TagOrNil:   expr,
				HeadLoc:    headLoc,
				HeadCooked: headCooked,
				HeadRaw:    headRaw,
				Parts:      parts,
			}}

		case js_lexer.TExclamation:
			// A TypeScript non-null assertion
			if p.lexer.HasNewlineBefore || !p.syntax.TypeScript || level >= js_ast.LPostfix {
				return expr
			}
			p.lexer.Next()

		case js_lexer.TMinusMinus:
			if p.lexer.HasNewlineBefore || level >= js_ast.LPostfix {
				return expr
			}
			p.lexer.Next()
			expr = js_ast.Expr{Loc: loc, Data: &js_ast.EUnary{Op: js_ast.UnOpPostDec, Value: expr}}

		case js_lexer.TPlusPlus:
			if p.lexer.HasNewlineBefore || level >= js_ast.LPostfix {
				return expr
			}
			p.lexer.Next()
			expr = js_ast.Expr{Loc: loc, Data: &js_ast.EUnary{Op: js_ast.UnOpPostInc, Value: expr}}

		case js_lexer.TQuestion:
			if level >= js_ast.LConditional {
				return expr
			}
			p.lexer.Next()

			oldAllowIn := p.allowIn
			p.allowIn = true
			yes := p.parseExpr(js_ast.LComma)
			p.allowIn = oldAllowIn

			p.lexer.Expect(js_lexer.TColon)
			no := p.parseExpr(js_ast.LComma)
			expr = js_ast.Expr{Loc: loc, Data: &js_ast.EIf{Test: expr, Yes: yes, No: no}}

		case js_lexer.TComma:
			if level >= js_ast.LComma {
				return expr
			}
			p.lexer.Next()
			expr = js_ast.Expr{Loc: loc, Data: &js_ast.EBinary{Op: js_ast.BinOpComma, Left: expr, Right: p.parseExpr(js_ast.LComma)}}

		case js_lexer.TLessThan:
			// In TypeScript this can open type arguments for a call
			if p.syntax.TypeScript && p.trySkipTypeArgumentsForCall() {
				continue
			}
			if level >= js_ast.LCompare {
				return expr
			}
			p.lexer.Next()
			expr = js_ast.Expr{Loc: loc, Data: &js_ast.EBinary{Op: js_ast.BinOpLt, Left: expr, Right: p.parseExpr(js_ast.LCompare)}}

		case js_lexer.TLessThanEquals:
			if level >= js_ast.LCompare {
				return expr
			}
			p.lexer.Next()
			expr = js_ast.Expr{Loc: loc, Data: &js_ast.EBinary{Op: js_ast.BinOpLe, Left: expr, Right: p.parseExpr(js_ast.LCompare)}}

		case js_lexer.TGreaterThan:
			if level >= js_ast.LCompare {
				return expr
			}
			p.lexer.Next()
			expr = js_ast.Expr{Loc: loc, Data: &js_ast.EBinary{Op: js_ast.BinOpGt, Left: expr, Right: p.parseExpr(js_ast.LCompare)}}

		case js_lexer.TGreaterThanEquals:
			if level >= js_ast.LCompare {
				return expr
			}
			p.lexer.Next()
			expr = js_ast.Expr{Loc: loc, Data: &js_ast.EBinary{Op: js_ast.BinOpGe, Left: expr, Right: p.parseExpr(js_ast.LCompare)}}

		case js_lexer.TIn:
			if level >= js_ast.LCompare || !p.allowIn {
				return expr
			}
			p.lexer.Next()
			expr = js_ast.Expr{Loc: loc, Data: &js_ast.EBinary{Op: js_ast.BinOpIn, Left: expr, Right: p.parseExpr(js_ast.LCompare)}}

		case js_lexer.TInstanceof:
			if level >= js_ast.LCompare {
				return expr
			}
			p.lexer.Next()
			expr = js_ast.Expr{Loc: loc, Data: &js_ast.EBinary{Op: js_ast.BinOpInstanceof, Left: expr, Right: p.parseExpr(js_ast.LCompare)}}

		case js_lexer.TEqualsEquals:
			if level >= js_ast.LEquals {
				return expr
			}
			p.lexer.Next()
			expr = js_ast.Expr{Loc: loc, Data: &js_ast.EBinary{Op: js_ast.BinOpLooseEq, Left: expr, Right: p.parseExpr(js_ast.LEquals)}}

		case js_lexer.TExclamationEquals:
			if level >= js_ast.LEquals {
				return expr
			}
			p.lexer.Next()
			expr = js_ast.Expr{Loc: loc, Data: &js_ast.EBinary{Op: js_ast.BinOpLooseNe, Left: expr, Right: p.parseExpr(js_ast.LEquals)}}

		case js_lexer.TEqualsEqualsEquals:
			if level >= js_ast.LEquals {
				return expr
			}
			p.lexer.Next()
			expr = js_ast.Expr{Loc: loc, Data: &js_ast.EBinary{Op: js_ast.BinOpStrictEq, Left: expr, Right: p.parseExpr(js_ast.LEquals)}}

		case js_lexer.TExclamationEqualsEquals:
			if level >= js_ast.LEquals {
				return expr
			}
			p.lexer.Next()
			expr = js_ast.Expr{Loc: loc, Data: &js_ast.EBinary{Op: js_ast.BinOpStrictNe, Left: expr, Right: p.parseExpr(js_ast.LEquals)}}

		case js_lexer.TLessThanLessThan:
			if level >= js_ast.LShift {
				return expr
			}
			p.lexer.Next()
			expr = js_ast.Expr{Loc: loc, Data: &js_ast.EBinary{Op: js_ast.BinOpShl, Left: expr, Right: p.parseExpr(js_ast.LShift)}}

		case js_lexer.TGreaterThanGreaterThan:
			if level >= js_ast.LShift {
				return expr
			}
			p.lexer.Next()
			expr = js_ast.Expr{Loc: loc, Data: &js_ast.EBinary{Op: js_ast.BinOpShr, Left: expr, Right: p.parseExpr(js_ast.LShift)}}

		case js_lexer.TGreaterThanGreaterThanGreaterThan:
			if level >= js_ast.LShift {
				return expr
			}
			p.lexer.Next()
			expr = js_ast.Expr{Loc: loc, Data: &js_ast.EBinary{Op: js_ast.BinOpUShr, Left: expr, Right: p.parseExpr(js_ast.LShift)}}

		case js_lexer.TPlus:
			if level >= js_ast.LAdd {
				return expr
			}
			p.lexer.Next()
			expr = js_ast.Expr{Loc: loc, Data: &js_ast.EBinary{Op: js_ast.BinOpAdd, Left: expr, Right: p.parseExpr(js_ast.LAdd)}}

		case js_lexer.TMinus:
			if level >= js_ast.LAdd {
				return expr
			}
			p.lexer.Next()
			expr = js_ast.Expr{Loc: loc, Data: &js_ast.EBinary{Op: js_ast.BinOpSub, Left: expr, Right: p.parseExpr(js_ast.LAdd)}}

		case js_lexer.TAsterisk:
			if level >= js_ast.LMultiply {
				return expr
			}
			p.lexer.Next()
			expr = js_ast.Expr{Loc: loc, Data: &js_ast.EBinary{Op: js_ast.BinOpMul, Left: expr, Right: p.parseExpr(js_ast.LMultiply)}}

		case js_lexer.TSlash:
			if level >= js_ast.LMultiply {
				return expr
			}
			p.lexer.Next()
			expr = js_ast.Expr{Loc: loc, Data: &js_ast.EBinary{Op: js_ast.BinOpDiv, Left: expr, Right: p.parseExpr(js_ast.LMultiply)}}

		case js_lexer.TPercent:
			if level >= js_ast.LMultiply {
				return expr
			}
			p.lexer.Next()
			expr = js_ast.Expr{Loc: loc, Data: &js_ast.EBinary{Op: js_ast.BinOpRem, Left: expr, Right: p.parseExpr(js_ast.LMultiply)}}

		case js_lexer.TAsteriskAsterisk:
			if level >= js_ast.LExponentiation {
				return expr
			}
			p.lexer.Next()
			expr = js_ast.Expr{Loc: loc, Data: &js_ast.EBinary{Op: js_ast.BinOpPow, Left: expr, Right: p.parseExpr(js_ast.LExponentiation - 1)}}

		case js_lexer.TQuestionQuestion:
			if level >= js_ast.LNullishCoalescing {
				return expr
			}
			p.lexer.Next()
			expr = js_ast.Expr{Loc: loc, Data: &js_ast.EBinary{Op: js_ast.BinOpNullishCoalescing, Left: expr, Right: p.parseExpr(js_ast.LNullishCoalescing)}}

		case js_lexer.TBarBar:
			if level >= js_ast.LLogicalOr {
				return expr
			}
			p.lexer.Next()
			expr = js_ast.Expr{Loc: loc, Data: &js_ast.EBinary{Op: js_ast.BinOpLogicalOr, Left: expr, Right: p.parseExpr(js_ast.LLogicalOr)}}

		case js_lexer.TAmpersandAmpersand:
			if level >= js_ast.LLogicalAnd {
				return expr
			}
			p.lexer.Next()
			expr = js_ast.Expr{Loc: loc, Data: &js_ast.EBinary{Op: js_ast.BinOpLogicalAnd, Left: expr, Right: p.parseExpr(js_ast.LLogicalAnd)}}

		case js_lexer.TBar:
			if level >= js_ast.LBitwiseOr {
				return expr
			}
			p.lexer.Next()
			expr = js_ast.Expr{Loc: loc, Data: &js_ast.EBinary{Op: js_ast.BinOpBitwiseOr, Left: expr, Right: p.parseExpr(js_ast.LBitwiseOr)}}

		case js_lexer.TAmpersand:
			if level >= js_ast.LBitwiseAnd {
				return expr
			}
			p.lexer.Next()
			expr = js_ast.Expr{Loc: loc, Data: &js_ast.EBinary{Op: js_ast.BinOpBitwiseAnd, Left: expr, Right: p.parseExpr(js_ast.LBitwiseAnd)}}

		case js_lexer.TCaret:
			if level >= js_ast.LBitwiseXor {
				return expr
			}
			p.lexer.Next()
			expr = js_ast.Expr{Loc: loc, Data: &js_ast.EBinary{Op: js_ast.BinOpBitwiseXor, Left: expr, Right: p.parseExpr(js_ast.LBitwiseXor)}}

		case js_lexer.TEquals:
			if level >= js_ast.LAssign {
				return expr
			}
			p.lexer.Next()
			expr = js_ast.Assign(expr, p.parseExpr(js_ast.LAssign-1))

		case js_lexer.TPlusEquals:
			if level >= js_ast.LAssign {
				return expr
			}
			p.lexer.Next()
			expr = js_ast.Expr{Loc: loc, Data: &js_ast.EBinary{Op: js_ast.BinOpAddAssign, Left: expr, Right: p.parseExpr(js_ast.LAssign - 1)}}

		case js_lexer.TMinusEquals:
			if level >= js_ast.LAssign {
				return expr
			}
			p.lexer.Next()
			expr = js_ast.Expr{Loc: loc, Data: &js_ast.EBinary{Op: js_ast.BinOpSubAssign, Left: expr, Right: p.parseExpr(js_ast.LAssign - 1)}}

		case js_lexer.TAsteriskEquals:
			if level >= js_ast.LAssign {
				return expr
			}
			p.lexer.Next()
			expr = js_ast.Expr{Loc: loc, Data: &js_ast.EBinary{Op: js_ast.BinOpMulAssign, Left: expr, Right: p.parseExpr(js_ast.LAssign - 1)}}

		case js_lexer.TSlashEquals:
			if level >= js_ast.LAssign {
				return expr
			}
			p.lexer.Next()
			expr = js_ast.Expr{Loc: loc, Data: &js_ast.EBinary{Op: js_ast.BinOpDivAssign, Left: expr, Right: p.parseExpr(js_ast.LAssign - 1)}}

		case js_lexer.TPercentEquals:
			if level >= js_ast.LAssign {
				return expr
			}
			p.lexer.Next()
			expr = js_ast.Expr{Loc: loc, Data: &js_ast.EBinary{Op: js_ast.BinOpRemAssign, Left: expr, Right: p.parseExpr(js_ast.LAssign - 1)}}

		case js_lexer.TAsteriskAsteriskEquals:
			if level >= js_ast.LAssign {
				return expr
			}
			p.lexer.Next()
			expr = js_ast.Expr{Loc: loc, Data: &js_ast.EBinary{Op: js_ast.BinOpPowAssign, Left: expr, Right: p.parseExpr(js_ast.LAssign - 1)}}

		case js_lexer.TLessThanLessThanEquals:
			if level >= js_ast.LAssign {
				return expr
			}
			p.lexer.Next()
			expr = js_ast.Expr{Loc: loc, Data: &js_ast.EBinary{Op: js_ast.BinOpShlAssign, Left: expr, Right: p.parseExpr(js_ast.LAssign - 1)}}

		case js_lexer.TGreaterThanGreaterThanEquals:
			if level >= js_ast.LAssign {
				return expr
			}
			p.lexer.Next()
			expr = js_ast.Expr{Loc: loc, Data: &js_ast.EBinary{Op: js_ast.BinOpShrAssign, Left: expr, Right: p.parseExpr(js_ast.LAssign - 1)}}

		case js_lexer.TGreaterThanGreaterThanGreaterThanEquals:
			if level >= js_ast.LAssign {
				return expr
			}
			p.lexer.Next()
			expr = js_ast.Expr{Loc: loc, Data: &js_ast.EBinary{Op: js_ast.BinOpUShrAssign, Left: expr, Right: p.parseExpr(js_ast.LAssign - 1)}}

		case js_lexer.TBarEquals:
			if level >= js_ast.LAssign {
				return expr
			}
			p.lexer.Next()
			expr = js_ast.Expr{Loc: loc, Data: &js_ast.EBinary{Op: js_ast.BinOpBitwiseOrAssign, Left: expr, Right: p.parseExpr(js_ast.LAssign - 1)}}

		case js_lexer.TAmpersandEquals:
			if level >= js_ast.LAssign {
				return expr
			}
			p.lexer.Next()
			expr = js_ast.Expr{Loc: loc, Data: &js_ast.EBinary{Op: js_ast.BinOpBitwiseAndAssign, Left: expr, Right: p.parseExpr(js_ast.LAssign - 1)}}

		case js_lexer.TCaretEquals:
			if level >= js_ast.LAssign {
				return expr
			}
			p.lexer.Next()
			expr = js_ast.Expr{Loc: loc, Data: &js_ast.EBinary{Op: js_ast.BinOpBitwiseXorAssign, Left: expr, Right: p.parseExpr(js_ast.LAssign - 1)}}

		case js_lexer.TQuestionQuestionEquals:
			if level >= js_ast.LAssign {
				return expr
			}
			p.lexer.Next()
			expr = js_ast.Expr{Loc: loc, Data: &js_ast.EBinary{Op: js_ast.BinOpNullishCoalescingAssign, Left: expr, Right: p.parseExpr(js_ast.LAssign - 1)}}

		case js_lexer.TBarBarEquals:
			if level >= js_ast.LAssign {
				return expr
			}
			p.lexer.Next()
			expr = js_ast.Expr{Loc: loc, Data: &js_ast.EBinary{Op: js_ast.BinOpLogicalOrAssign, Left: expr, Right: p.parseExpr(js_ast.LAssign - 1)}}

		case js_lexer.TAmpersandAmpersandEquals:
			if level >= js_ast.LAssign {
				return expr
			}
			p.lexer.Next()
			expr = js_ast.Expr{Loc: loc, Data: &js_ast.EBinary{Op: js_ast.BinOpLogicalAndAssign, Left: expr, Right: p.parseExpr(js_ast.LAssign - 1)}}

		case js_lexer.TIdentifier:
			// "x as T" and "x satisfies T" are type annotations and are erased
			if p.syntax.TypeScript && !p.lexer.HasNewlineBefore && level < js_ast.LCompare &&
				(p.lexer.Identifier == "as" || p.lexer.Identifier == "satisfies") {
				p.lexer.Next()
				if p.lexer.IsContextualKeyword("const") || p.lexer.Token == js_lexer.TConst {
					p.lexer.Next()
				} else {
					p.skipTypeScriptType(js_ast.LLowest)
				}
				continue
			}
			return expr

		default:
			return expr
		}
	}
}

// trySkipTypeArgumentsForCall handles "f<T>(x)" and "f<T>`x`". The "<" is
// only treated as opening type arguments when a call or tagged template
// follows the matching ">"; otherwise it stays a comparison.
func (p *parser) trySkipTypeArgumentsForCall() bool {
	return p.tryBacktrack(func() {
		p.skipTypeScriptTypeArguments()
		switch p.lexer.Token {
		case js_lexer.TOpenParen, js_lexer.TNoSubstitutionTemplateLiteral, js_lexer.TTemplateHead:
		default:
			p.lexer.Unexpected()
		}
	})
}

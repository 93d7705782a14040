package js_parser

import (
	"strings"

	"github.com/esmd/esm-compiler/internal/js_ast"
	"github.com/esmd/esm-compiler/internal/js_lexer"
	"github.com/esmd/esm-compiler/internal/logger"
)

// parseJSXElement is called with the lexer on a "<" in normal mode. The
// closing ">" of the element is left unconsumed so the caller can pick the
// lexing mode for whatever comes next.
func (p *parser) parseJSXElement(loc logger.Loc) js_ast.Expr {
	p.lexer.NextInsideJSXElement()
	return p.parseJSXElementAfterLessThan(loc)
}

func (p *parser) parseJSXElementAfterLessThan(loc logger.Loc) js_ast.Expr {
	tagName, tagOrNil := p.parseJSXTag()

	// Attributes, unless this is a fragment
	var properties []js_ast.Property
	if tagOrNil.Data != nil {
		for {
			if p.lexer.Token == js_lexer.TOpenBrace {
				// A "{...props}" spread attribute
				p.lexer.Next()
				p.lexer.Expect(js_lexer.TDotDotDot)
				value := p.parseExpr(js_ast.LComma)
				properties = append(properties, js_ast.Property{
					Kind:       js_ast.PropertySpread,
					ValueOrNil: value,
				})
				p.lexer.ExpectInsideJSXElement(js_lexer.TCloseBrace)
				continue
			}

			if p.lexer.Token != js_lexer.TIdentifier {
				break
			}
			keyLoc := p.lexer.Loc()
			key := js_ast.String(keyLoc, p.lexer.Identifier)
			p.lexer.NextInsideJSXElement()

			// An attribute without a value is "true"
			value := js_ast.Expr{Loc: keyLoc, Data: &js_ast.EBoolean{Value: true}}
			if p.lexer.Token == js_lexer.TEquals {
				p.lexer.NextInsideJSXElement()
				switch p.lexer.Token {
				case js_lexer.TStringLiteral:
					value = js_ast.String(p.lexer.Loc(), p.lexer.StringValue)
					p.lexer.NextInsideJSXElement()

				case js_lexer.TOpenBrace:
					p.lexer.Next()
					value = p.parseExpr(js_ast.LLowest)
					p.lexer.ExpectInsideJSXElement(js_lexer.TCloseBrace)

				default:
					p.lexer.Unexpected()
				}
			}

			properties = append(properties, js_ast.Property{Key: key, ValueOrNil: value})
		}
	}

	// A self-closing element has no children
	if p.lexer.Token == js_lexer.TSlash {
		closeLoc := p.lexer.Loc()
		p.lexer.NextInsideJSXElement()
		if p.lexer.Token != js_lexer.TGreaterThan {
			p.lexer.Expected(js_lexer.TGreaterThan)
		}
		return js_ast.Expr{Loc: loc, Data: &js_ast.EJSXElement{
			TagOrNil:   tagOrNil,
			Properties: properties,
			CloseLoc:   closeLoc,
		}}
	}

	if p.lexer.Token != js_lexer.TGreaterThan {
		p.lexer.Expected(js_lexer.TGreaterThan)
	}

	var children []js_ast.Expr
	for {
		p.lexer.NextJSXElementChild()

		switch p.lexer.Token {
		case js_lexer.TStringLiteral:
			if text := foldJSXText(p.lexer.StringValue); text != "" {
				children = append(children, js_ast.String(p.lexer.Loc(), text))
			}

		case js_lexer.TOpenBrace:
			// An expression container, possibly empty: "{/* comment */}"
			p.lexer.Next()
			if p.lexer.Token != js_lexer.TCloseBrace {
				if p.lexer.Token == js_lexer.TDotDotDot {
					spreadLoc := p.lexer.Loc()
					p.lexer.Next()
					children = append(children, js_ast.Expr{Loc: spreadLoc, Data: &js_ast.ESpread{Value: p.parseExpr(js_ast.LLowest)}})
				} else {
					children = append(children, p.parseExpr(js_ast.LLowest))
				}
			}
			if p.lexer.Token != js_lexer.TCloseBrace {
				p.lexer.Expected(js_lexer.TCloseBrace)
			}

		case js_lexer.TLessThan:
			childLoc := p.lexer.Loc()
			p.lexer.NextInsideJSXElement()

			if p.lexer.Token != js_lexer.TSlash {
				// A nested element. Its closing ">" is rescanned as a child.
				children = append(children, p.parseJSXElementAfterLessThan(childLoc))
				continue
			}

			// The closing tag must match the opening tag
			closeLoc := p.lexer.Loc()
			p.lexer.NextInsideJSXElement()
			closeName, _ := p.parseJSXTag()
			if closeName != tagName {
				p.addRangeError(logger.Range{Loc: closeLoc},
					"Expected closing tag </"+tagName+"> to match opening tag <"+tagName+">")
			}
			if p.lexer.Token != js_lexer.TGreaterThan {
				p.lexer.Expected(js_lexer.TGreaterThan)
			}
			return js_ast.Expr{Loc: loc, Data: &js_ast.EJSXElement{
				TagOrNil:   tagOrNil,
				Properties: properties,
				Children:   children,
				CloseLoc:   closeLoc,
			}}

		default:
			p.lexer.Unexpected()
		}
	}
}

// parseJSXTag reads an element name, which may be dotted ("a.b.c"), and
// leaves the lexer on the token after it. Fragments return an empty name and
// a nil tag. Lowercase and dashed names are intrinsic elements and become
// string tags; everything else is a value reference.
func (p *parser) parseJSXTag() (string, js_ast.Expr) {
	loc := p.lexer.Loc()

	// "<>" is a fragment
	if p.lexer.Token == js_lexer.TGreaterThan {
		return "", js_ast.Expr{}
	}

	if p.lexer.Token != js_lexer.TIdentifier {
		p.lexer.Expected(js_lexer.TIdentifier)
	}
	name := p.lexer.Identifier
	p.lexer.NextInsideJSXElement()

	if p.lexer.Token != js_lexer.TDot {
		if c := name[0]; c >= 'a' && c <= 'z' || strings.ContainsRune(name, '-') {
			return name, js_ast.String(loc, name)
		}
		return name, js_ast.Ident(loc, name)
	}

	// A dotted name is a member expression
	tag := js_ast.Ident(loc, name)
	for p.lexer.Token == js_lexer.TDot {
		p.lexer.NextInsideJSXElement()
		if p.lexer.Token != js_lexer.TIdentifier {
			p.lexer.Expected(js_lexer.TIdentifier)
		}
		memberLoc := p.lexer.Loc()
		member := p.lexer.Identifier
		name += "." + member
		tag = js_ast.Expr{Loc: loc, Data: &js_ast.EDot{Target: tag, Name: member, NameLoc: memberLoc}}
		p.lexer.NextInsideJSXElement()
	}
	return name, tag
}

// foldJSXText applies the JSX whitespace rules: lines that are all
// whitespace disappear, indentation around line breaks is trimmed, and the
// survivors join with single spaces. Returns "" when nothing survives.
func foldJSXText(text string) string {
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for i, line := range lines {
		if i > 0 {
			line = strings.TrimLeft(line, " \t\r")
		}
		if i < len(lines)-1 {
			line = strings.TrimRight(line, " \t\r")
		}
		if line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, " ")
}

package js_lexer

// JSX needs its own scanning modes: inside an element tag, identifiers may
// contain dashes, string attribute values do not process escape sequences,
// and between tags everything up to "<" or "{" is text.

import (
	"strings"

	"github.com/esmd/esm-compiler/internal/logger"
)

func (lexer *Lexer) NextInsideJSXElement() {
	for {
		lexer.start = lexer.end
		lexer.Token = 0

		switch lexer.codePoint {
		case -1:
			lexer.Token = TEndOfFile

		case '\r', '\n', 0x2028, 0x2029:
			lexer.step()
			lexer.HasNewlineBefore = true
			continue

		case '\t', ' ', '\v', '\f', 0x00A0, 0xFEFF:
			lexer.step()
			continue

		case '.':
			lexer.step()
			lexer.Token = TDot

		case '=':
			lexer.step()
			lexer.Token = TEquals

		case '{':
			lexer.step()
			lexer.Token = TOpenBrace

		case '}':
			lexer.step()
			lexer.Token = TCloseBrace

		case '<':
			lexer.step()
			lexer.Token = TLessThan

		case '>':
			lexer.step()
			lexer.Token = TGreaterThan

		case '/':
			// '/' or '//' or '/* ... */'
			lexer.step()
			switch lexer.codePoint {
			case '/':
				lexer.step()
				for lexer.codePoint != '\r' && lexer.codePoint != '\n' &&
					lexer.codePoint != 0x2028 && lexer.codePoint != 0x2029 && lexer.codePoint != -1 {
					lexer.step()
				}
				continue

			case '*':
				lexer.step()
				for {
					if lexer.codePoint == '*' {
						lexer.step()
						if lexer.codePoint == '/' {
							lexer.step()
							break
						}
					} else if lexer.codePoint == -1 {
						lexer.start = lexer.end
						lexer.addError(lexer.Loc(), "Expected \"*/\" to terminate multi-line comment")
						panic(LexerPanic{})
					} else {
						lexer.step()
					}
				}
				continue

			default:
				lexer.Token = TSlash
			}

		case '\'', '"':
			// JSX strings are raw: no escape sequence processing
			quote := lexer.codePoint
			lexer.step()
			start := lexer.end
			for lexer.codePoint != quote {
				if lexer.codePoint == -1 {
					lexer.addError(logger.Loc{Start: int32(lexer.end)}, "Unterminated string literal")
					panic(LexerPanic{})
				}
				lexer.step()
			}
			lexer.StringValue = lexer.source.Contents[start:lexer.end]
			lexer.step()
			lexer.Token = TStringLiteral

		default:
			if IsIdentifierStart(lexer.codePoint) {
				lexer.step()
				// JSX identifiers may contain dashes
				for IsIdentifierContinue(lexer.codePoint) || lexer.codePoint == '-' {
					lexer.step()
				}
				lexer.Identifier = lexer.Raw()
				lexer.Token = TIdentifier
				break
			}
			if isWhitespace(lexer.codePoint) {
				lexer.step()
				continue
			}
			lexer.end = lexer.current
			lexer.Token = TSyntaxError
			lexer.SyntaxError()
		}

		return
	}
}

func (lexer *Lexer) ExpectInsideJSXElement(token T) {
	if lexer.Token != token {
		lexer.Expected(token)
	}
	lexer.NextInsideJSXElement()
}

// NextJSXElementChild scans the text between tags. The token is
// TStringLiteral when there is text, or "<"/"{" when a tag or an expression
// container starts immediately.
func (lexer *Lexer) NextJSXElementChild() {
	lexer.start = lexer.end

	switch lexer.codePoint {
	case -1:
		lexer.Token = TEndOfFile
		return

	case '<':
		lexer.step()
		lexer.Token = TLessThan
		return

	case '{':
		lexer.step()
		lexer.Token = TOpenBrace
		return
	}

	sb := strings.Builder{}
	for lexer.codePoint != '<' && lexer.codePoint != '{' && lexer.codePoint != -1 {
		if lexer.codePoint == '&' {
			sb.WriteString(lexer.decodeJSXEntity())
			continue
		}
		sb.WriteRune(lexer.codePoint)
		lexer.step()
	}
	lexer.StringValue = sb.String()
	lexer.Token = TStringLiteral
}

var jsxEntities = map[string]rune{
	"amp":  '&',
	"apos": '\'',
	"gt":   '>',
	"lt":   '<',
	"nbsp": 0x00A0,
	"quot": '"',
}

func (lexer *Lexer) decodeJSXEntity() string {
	// The current code point is "&". Unknown entities pass through unchanged.
	start := lexer.end
	lexer.step()
	name := strings.Builder{}
	for lexer.codePoint != ';' && lexer.codePoint != -1 &&
		(IsIdentifierContinue(lexer.codePoint) || lexer.codePoint == '#') {
		name.WriteRune(lexer.codePoint)
		lexer.step()
	}
	if lexer.codePoint != ';' {
		return lexer.source.Contents[start:lexer.end]
	}
	lexer.step()

	text := name.String()
	if strings.HasPrefix(text, "#x") || strings.HasPrefix(text, "#X") {
		value := rune(0)
		for _, c := range text[2:] {
			d, ok := hexDigit(c)
			if !ok {
				return lexer.source.Contents[start:lexer.end]
			}
			value = value*16 + d
		}
		return string(value)
	}
	if strings.HasPrefix(text, "#") {
		value := rune(0)
		for _, c := range text[1:] {
			if c < '0' || c > '9' {
				return lexer.source.Contents[start:lexer.end]
			}
			value = value*10 + (c - '0')
		}
		return string(value)
	}
	if entity, ok := jsxEntities[text]; ok {
		return string(entity)
	}
	return lexer.source.Contents[start:lexer.end]
}

package js_lexer

// The lexer converts a source file to a stream of tokens. It is not run to
// completion before parsing starts; the parser calls it repeatedly because
// several tokens are context-sensitive and need high-level information from
// the parser. Examples are regular expression literals, JSX elements, and
// template literal continuations.
//
// Errors are reported by panicking with LexerPanic. The panic is caught at
// the Parse boundary and converted into a structured error; this keeps the
// happy path free of error plumbing in exchange for one recover.

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/esmd/esm-compiler/internal/js_ast"
	"github.com/esmd/esm-compiler/internal/logger"
)

type T uint8

// If you add a new token, remember to add it to "tokenToString" too
const (
	TEndOfFile T = iota
	TSyntaxError

	// "#!/usr/bin/env node"
	THashbang

	// Literals
	TNoSubstitutionTemplateLiteral // Contents are in lexer.StringValue
	TNumericLiteral                // Contents are in lexer.Number
	TStringLiteral                 // Contents are in lexer.StringValue
	TBigIntegerLiteral             // Contents are in lexer.Identifier

	// Pseudo-literals
	TTemplateHead   // Contents are in lexer.StringValue
	TTemplateMiddle // Contents are in lexer.StringValue
	TTemplateTail   // Contents are in lexer.StringValue

	// Punctuation
	TAmpersand
	TAmpersandAmpersand
	TAsterisk
	TAsteriskAsterisk
	TAt
	TBar
	TBarBar
	TCaret
	TCloseBrace
	TCloseBracket
	TCloseParen
	TColon
	TComma
	TDot
	TDotDotDot
	TEqualsEquals
	TEqualsEqualsEquals
	TEqualsGreaterThan
	TExclamation
	TExclamationEquals
	TExclamationEqualsEquals
	TGreaterThan
	TGreaterThanEquals
	TGreaterThanGreaterThan
	TGreaterThanGreaterThanGreaterThan
	TLessThan
	TLessThanEquals
	TLessThanLessThan
	TMinus
	TMinusMinus
	TOpenBrace
	TOpenBracket
	TOpenParen
	TPercent
	TPlus
	TPlusPlus
	TQuestion
	TQuestionDot
	TQuestionQuestion
	TSemicolon
	TSlash
	TTilde

	// Assignments
	TAmpersandAmpersandEquals
	TAmpersandEquals
	TAsteriskAsteriskEquals
	TAsteriskEquals
	TBarBarEquals
	TBarEquals
	TCaretEquals
	TEquals
	TGreaterThanGreaterThanEquals
	TGreaterThanGreaterThanGreaterThanEquals
	TLessThanLessThanEquals
	TMinusEquals
	TPercentEquals
	TPlusEquals
	TQuestionQuestionEquals
	TSlashEquals

	// Class-private fields and methods
	TPrivateIdentifier

	// Identifiers
	TIdentifier // Contents are in lexer.Identifier

	// Reserved words
	TBreak
	TCase
	TCatch
	TClass
	TConst
	TContinue
	TDebugger
	TDefault
	TDelete
	TDo
	TElse
	TEnum
	TExport
	TExtends
	TFalse
	TFinally
	TFor
	TFunction
	TIf
	TImport
	TIn
	TInstanceof
	TNew
	TNull
	TReturn
	TSuper
	TSwitch
	TThis
	TThrow
	TTrue
	TTry
	TTypeof
	TVar
	TVoid
	TWhile
	TWith
)

var Keywords = map[string]T{
	"break":      TBreak,
	"case":       TCase,
	"catch":      TCatch,
	"class":      TClass,
	"const":      TConst,
	"continue":   TContinue,
	"debugger":   TDebugger,
	"default":    TDefault,
	"delete":     TDelete,
	"do":         TDo,
	"else":       TElse,
	"enum":       TEnum,
	"export":     TExport,
	"extends":    TExtends,
	"false":      TFalse,
	"finally":    TFinally,
	"for":        TFor,
	"function":   TFunction,
	"if":         TIf,
	"import":     TImport,
	"in":         TIn,
	"instanceof": TInstanceof,
	"new":        TNew,
	"null":       TNull,
	"return":     TReturn,
	"super":      TSuper,
	"switch":     TSwitch,
	"this":       TThis,
	"throw":      TThrow,
	"true":       TTrue,
	"try":        TTry,
	"typeof":     TTypeof,
	"var":        TVar,
	"void":       TVoid,
	"while":      TWhile,
	"with":       TWith,
}

var tokenToString = map[T]string{
	TEndOfFile:   "end of file",
	TSyntaxError: "syntax error",
	THashbang:    "hashbang comment",

	TNoSubstitutionTemplateLiteral: "template literal",
	TNumericLiteral:                "number",
	TStringLiteral:                 "string",
	TBigIntegerLiteral:             "bigint",

	TTemplateHead:   "template literal",
	TTemplateMiddle: "template literal",
	TTemplateTail:   "template literal",

	TAmpersand:                         "\"&\"",
	TAmpersandAmpersand:                "\"&&\"",
	TAsterisk:                          "\"*\"",
	TAsteriskAsterisk:                  "\"**\"",
	TAt:                                "\"@\"",
	TBar:                               "\"|\"",
	TBarBar:                            "\"||\"",
	TCaret:                             "\"^\"",
	TCloseBrace:                        "\"}\"",
	TCloseBracket:                      "\"]\"",
	TCloseParen:                        "\")\"",
	TColon:                             "\":\"",
	TComma:                             "\",\"",
	TDot:                               "\".\"",
	TDotDotDot:                         "\"...\"",
	TEqualsEquals:                      "\"==\"",
	TEqualsEqualsEquals:                "\"===\"",
	TEqualsGreaterThan:                 "\"=>\"",
	TExclamation:                       "\"!\"",
	TExclamationEquals:                 "\"!=\"",
	TExclamationEqualsEquals:           "\"!==\"",
	TGreaterThan:                       "\">\"",
	TGreaterThanEquals:                 "\">=\"",
	TGreaterThanGreaterThan:            "\">>\"",
	TGreaterThanGreaterThanGreaterThan: "\">>>\"",
	TLessThan:                          "\"<\"",
	TLessThanEquals:                    "\"<=\"",
	TLessThanLessThan:                  "\"<<\"",
	TMinus:                             "\"-\"",
	TMinusMinus:                        "\"--\"",
	TOpenBrace:                         "\"{\"",
	TOpenBracket:                       "\"[\"",
	TOpenParen:                         "\"(\"",
	TPercent:                           "\"%\"",
	TPlus:                              "\"+\"",
	TPlusPlus:                          "\"++\"",
	TQuestion:                          "\"?\"",
	TQuestionDot:                       "\"?.\"",
	TQuestionQuestion:                  "\"??\"",
	TSemicolon:                         "\";\"",
	TSlash:                             "\"/\"",
	TTilde:                             "\"~\"",

	TAmpersandAmpersandEquals:                "\"&&=\"",
	TAmpersandEquals:                         "\"&=\"",
	TAsteriskAsteriskEquals:                  "\"**=\"",
	TAsteriskEquals:                          "\"*=\"",
	TBarBarEquals:                            "\"||=\"",
	TBarEquals:                               "\"|=\"",
	TCaretEquals:                             "\"^=\"",
	TEquals:                                  "\"=\"",
	TGreaterThanGreaterThanEquals:            "\">>=\"",
	TGreaterThanGreaterThanGreaterThanEquals: "\">>>=\"",
	TLessThanLessThanEquals:                  "\"<<=\"",
	TMinusEquals:                             "\"-=\"",
	TPercentEquals:                           "\"%=\"",
	TPlusEquals:                              "\"+=\"",
	TQuestionQuestionEquals:                  "\"??=\"",
	TSlashEquals:                             "\"/=\"",

	TPrivateIdentifier: "private identifier",
	TIdentifier:        "identifier",

	TBreak:      "\"break\"",
	TCase:       "\"case\"",
	TCatch:      "\"catch\"",
	TClass:      "\"class\"",
	TConst:      "\"const\"",
	TContinue:   "\"continue\"",
	TDebugger:   "\"debugger\"",
	TDefault:    "\"default\"",
	TDelete:     "\"delete\"",
	TDo:         "\"do\"",
	TElse:       "\"else\"",
	TEnum:       "\"enum\"",
	TExport:     "\"export\"",
	TExtends:    "\"extends\"",
	TFalse:      "\"false\"",
	TFinally:    "\"finally\"",
	TFor:        "\"for\"",
	TFunction:   "\"function\"",
	TIf:         "\"if\"",
	TImport:     "\"import\"",
	TIn:         "\"in\"",
	TInstanceof: "\"instanceof\"",
	TNew:        "\"new\"",
	TNull:       "\"null\"",
	TReturn:     "\"return\"",
	TSuper:      "\"super\"",
	TSwitch:     "\"switch\"",
	TThis:       "\"this\"",
	TThrow:      "\"throw\"",
	TTrue:       "\"true\"",
	TTry:        "\"try\"",
	TTypeof:     "\"typeof\"",
	TVar:        "\"var\"",
	TVoid:       "\"void\"",
	TWhile:      "\"while\"",
	TWith:       "\"with\"",
}

type LexerPanic struct{}

type Lexer struct {
	log    *logger.Log
	source *logger.Source

	// Comments are collected into a side-channel store and re-emitted by the
	// printer; they are not part of the AST
	Comments []js_ast.Comment

	Identifier  string
	StringValue string
	Number      float64

	current   int
	start     int
	end       int
	codePoint rune

	Token            T
	HasNewlineBefore bool
}

func NewLexer(log *logger.Log, source *logger.Source) Lexer {
	lexer := Lexer{
		log:    log,
		source: source,
	}
	lexer.step()

	// A hashbang comment is only valid at the very start of the file
	if lexer.codePoint == '#' && strings.HasPrefix(source.Contents, "#!") {
		for lexer.codePoint != '\n' && lexer.codePoint != -1 {
			lexer.step()
		}
	}

	lexer.Next()
	return lexer
}

// Snapshot and Restore support the small amount of backtracking the parser
// needs (arrow function parameters and TypeScript type arguments). Comments
// recorded after the snapshot are dropped on restore so they aren't emitted
// twice.
type Snapshot struct {
	lexer       Lexer
	numComments int
}

func (lexer *Lexer) Snapshot() Snapshot {
	return Snapshot{lexer: *lexer, numComments: len(lexer.Comments)}
}

func (lexer *Lexer) Restore(snapshot Snapshot) {
	comments := lexer.Comments[:snapshot.numComments]
	*lexer = snapshot.lexer
	lexer.Comments = comments
}

func (lexer *Lexer) Loc() logger.Loc {
	return logger.Loc{Start: int32(lexer.start)}
}

func (lexer *Lexer) Range() logger.Range {
	return logger.Range{Loc: logger.Loc{Start: int32(lexer.start)}, Len: int32(lexer.end - lexer.start)}
}

func (lexer *Lexer) Raw() string {
	return lexer.source.Contents[lexer.start:lexer.end]
}

func (lexer *Lexer) IsIdentifierOrKeyword() bool {
	return lexer.Token >= TIdentifier
}

func (lexer *Lexer) IsContextualKeyword(text string) bool {
	return lexer.Token == TIdentifier && lexer.Identifier == text
}

func (lexer *Lexer) ExpectContextualKeyword(text string) {
	if !lexer.IsContextualKeyword(text) {
		lexer.ExpectedString(fmt.Sprintf("%q", text))
	}
	lexer.Next()
}

func (lexer *Lexer) SyntaxError() {
	loc := logger.Loc{Start: int32(lexer.end)}
	message := "Unexpected end of file"
	if lexer.end < len(lexer.source.Contents) {
		c, _ := utf8.DecodeRuneInString(lexer.source.Contents[lexer.end:])
		if c < 0x20 {
			message = fmt.Sprintf("Syntax error \"\\x%02X\"", c)
		} else {
			message = fmt.Sprintf("Syntax error %q", c)
		}
	}
	lexer.addError(loc, message)
	panic(LexerPanic{})
}

func (lexer *Lexer) ExpectedString(text string) {
	found := fmt.Sprintf("%q", lexer.Raw())
	if lexer.start == len(lexer.source.Contents) {
		found = "end of file"
	}
	lexer.addRangeError(lexer.Range(), fmt.Sprintf("Expected %s but found %s", text, found))
	panic(LexerPanic{})
}

func (lexer *Lexer) Expected(token T) {
	if text, ok := tokenToString[token]; ok {
		lexer.ExpectedString(text)
	}
	lexer.Unexpected()
}

func (lexer *Lexer) Unexpected() {
	found := fmt.Sprintf("%q", lexer.Raw())
	if lexer.start == len(lexer.source.Contents) {
		found = "end of file"
	}
	lexer.addRangeError(lexer.Range(), fmt.Sprintf("Unexpected %s", found))
	panic(LexerPanic{})
}

func (lexer *Lexer) Expect(token T) {
	if lexer.Token != token {
		lexer.Expected(token)
	}
	lexer.Next()
}

func (lexer *Lexer) ExpectOrInsertSemicolon() {
	if lexer.Token == TSemicolon || (!lexer.HasNewlineBefore &&
		lexer.Token != TCloseBrace && lexer.Token != TEndOfFile) {
		lexer.Expect(TSemicolon)
	}
}

func (lexer *Lexer) AddRangeError(r logger.Range, text string) {
	lexer.addRangeError(r, text)
	panic(LexerPanic{})
}

func (lexer *Lexer) step() {
	codePoint, width := utf8.DecodeRuneInString(lexer.source.Contents[lexer.current:])

	// Use -1 to indicate the end of the file
	if width == 0 {
		codePoint = -1
	}

	lexer.codePoint = codePoint
	lexer.end = lexer.current
	lexer.current += width
}

func (lexer *Lexer) addError(loc logger.Loc, text string) {
	lexer.log.AddError(lexer.source, loc, text)
}

func (lexer *Lexer) addRangeError(r logger.Range, text string) {
	lexer.log.AddRangeError(lexer.source, r, text)
}

func IsIdentifierStart(codePoint rune) bool {
	switch codePoint {
	case '_', '$',
		'a', 'b', 'c', 'd', 'e', 'f', 'g', 'h', 'i', 'j', 'k', 'l', 'm',
		'n', 'o', 'p', 'q', 'r', 's', 't', 'u', 'v', 'w', 'x', 'y', 'z',
		'A', 'B', 'C', 'D', 'E', 'F', 'G', 'H', 'I', 'J', 'K', 'L', 'M',
		'N', 'O', 'P', 'Q', 'R', 'S', 'T', 'U', 'V', 'W', 'X', 'Y', 'Z':
		return true
	}

	if codePoint < 0x80 {
		return false
	}
	return unicode.Is(unicode.L, codePoint)
}

func IsIdentifierContinue(codePoint rune) bool {
	if codePoint >= '0' && codePoint <= '9' {
		return true
	}
	if codePoint < 0x80 {
		return IsIdentifierStart(codePoint)
	}
	return unicode.Is(unicode.L, codePoint) || unicode.Is(unicode.Nd, codePoint) ||
		codePoint == 0x200C || codePoint == 0x200D
}

func IsIdentifier(text string) bool {
	if len(text) == 0 {
		return false
	}
	for i, codePoint := range text {
		if i == 0 {
			if !IsIdentifierStart(codePoint) {
				return false
			}
		} else if !IsIdentifierContinue(codePoint) {
			return false
		}
	}
	return true
}

func isWhitespace(codePoint rune) bool {
	switch codePoint {
	case '\t', '\v', '\f', ' ', 0x00A0, 0xFEFF:
		return true
	default:
		return codePoint > 0x1000 && unicode.Is(unicode.Zs, codePoint)
	}
}

func (lexer *Lexer) Next() {
	lexer.HasNewlineBefore = lexer.end == 0

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

		case '#':
			lexer.step()
			if !IsIdentifierStart(lexer.codePoint) {
				lexer.SyntaxError()
			}
			lexer.step()
			for IsIdentifierContinue(lexer.codePoint) {
				lexer.step()
			}
			lexer.Identifier = lexer.Raw()[1:]
			lexer.Token = TPrivateIdentifier

		case '(':
			lexer.step()
			lexer.Token = TOpenParen

		case ')':
			lexer.step()
			lexer.Token = TCloseParen

		case '[':
			lexer.step()
			lexer.Token = TOpenBracket

		case ']':
			lexer.step()
			lexer.Token = TCloseBracket

		case '{':
			lexer.step()
			lexer.Token = TOpenBrace

		case '}':
			lexer.step()
			lexer.Token = TCloseBrace

		case ',':
			lexer.step()
			lexer.Token = TComma

		case ':':
			lexer.step()
			lexer.Token = TColon

		case ';':
			lexer.step()
			lexer.Token = TSemicolon

		case '@':
			lexer.step()
			lexer.Token = TAt

		case '~':
			lexer.step()
			lexer.Token = TTilde

		case '?':
			// '?' or '?.' or '??' or '??='
			lexer.step()
			switch lexer.codePoint {
			case '?':
				lexer.step()
				if lexer.codePoint == '=' {
					lexer.step()
					lexer.Token = TQuestionQuestionEquals
				} else {
					lexer.Token = TQuestionQuestion
				}
			case '.':
				// "?.1" is "?" followed by ".1" (a number), not "?." followed by "1"
				if next := lexer.current; next >= len(lexer.source.Contents) ||
					lexer.source.Contents[next] < '0' || lexer.source.Contents[next] > '9' {
					lexer.step()
					lexer.Token = TQuestionDot
				} else {
					lexer.Token = TQuestion
				}
			default:
				lexer.Token = TQuestion
			}

		case '%':
			// '%' or '%='
			lexer.step()
			if lexer.codePoint == '=' {
				lexer.step()
				lexer.Token = TPercentEquals
			} else {
				lexer.Token = TPercent
			}

		case '&':
			// '&' or '&=' or '&&' or '&&='
			lexer.step()
			switch lexer.codePoint {
			case '=':
				lexer.step()
				lexer.Token = TAmpersandEquals
			case '&':
				lexer.step()
				if lexer.codePoint == '=' {
					lexer.step()
					lexer.Token = TAmpersandAmpersandEquals
				} else {
					lexer.Token = TAmpersandAmpersand
				}
			default:
				lexer.Token = TAmpersand
			}

		case '|':
			// '|' or '|=' or '||' or '||='
			lexer.step()
			switch lexer.codePoint {
			case '=':
				lexer.step()
				lexer.Token = TBarEquals
			case '|':
				lexer.step()
				if lexer.codePoint == '=' {
					lexer.step()
					lexer.Token = TBarBarEquals
				} else {
					lexer.Token = TBarBar
				}
			default:
				lexer.Token = TBar
			}

		case '^':
			// '^' or '^='
			lexer.step()
			if lexer.codePoint == '=' {
				lexer.step()
				lexer.Token = TCaretEquals
			} else {
				lexer.Token = TCaret
			}

		case '+':
			// '+' or '+=' or '++'
			lexer.step()
			switch lexer.codePoint {
			case '=':
				lexer.step()
				lexer.Token = TPlusEquals
			case '+':
				lexer.step()
				lexer.Token = TPlusPlus
			default:
				lexer.Token = TPlus
			}

		case '-':
			// '-' or '-=' or '--'
			lexer.step()
			switch lexer.codePoint {
			case '=':
				lexer.step()
				lexer.Token = TMinusEquals
			case '-':
				lexer.step()
				lexer.Token = TMinusMinus
			default:
				lexer.Token = TMinus
			}

		case '*':
			// '*' or '*=' or '**' or '**='
			lexer.step()
			switch lexer.codePoint {
			case '=':
				lexer.step()
				lexer.Token = TAsteriskEquals
			case '*':
				lexer.step()
				if lexer.codePoint == '=' {
					lexer.step()
					lexer.Token = TAsteriskAsteriskEquals
				} else {
					lexer.Token = TAsteriskAsterisk
				}
			default:
				lexer.Token = TAsterisk
			}

		case '/':
			// '/' or '/=' or '//' or '/* ... */'
			lexer.step()
			switch lexer.codePoint {
			case '=':
				lexer.step()
				lexer.Token = TSlashEquals

			case '/':
				lexer.step()
				for lexer.codePoint != '\r' && lexer.codePoint != '\n' &&
					lexer.codePoint != 0x2028 && lexer.codePoint != 0x2029 && lexer.codePoint != -1 {
					lexer.step()
				}
				lexer.Comments = append(lexer.Comments, js_ast.Comment{
					Loc:  logger.Loc{Start: int32(lexer.start)},
					Text: lexer.source.Contents[lexer.start:lexer.end],
				})
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
						if lexer.codePoint == '\r' || lexer.codePoint == '\n' ||
							lexer.codePoint == 0x2028 || lexer.codePoint == 0x2029 {
							lexer.HasNewlineBefore = true
						}
						lexer.step()
					}
				}
				lexer.Comments = append(lexer.Comments, js_ast.Comment{
					Loc:  logger.Loc{Start: int32(lexer.start)},
					Text: lexer.source.Contents[lexer.start:lexer.end],
				})
				continue

			default:
				lexer.Token = TSlash
			}

		case '=':
			// '=' or '=>' or '==' or '==='
			lexer.step()
			switch lexer.codePoint {
			case '>':
				lexer.step()
				lexer.Token = TEqualsGreaterThan
			case '=':
				lexer.step()
				if lexer.codePoint == '=' {
					lexer.step()
					lexer.Token = TEqualsEqualsEquals
				} else {
					lexer.Token = TEqualsEquals
				}
			default:
				lexer.Token = TEquals
			}

		case '<':
			// '<' or '<<' or '<=' or '<<='
			lexer.step()
			switch lexer.codePoint {
			case '=':
				lexer.step()
				lexer.Token = TLessThanEquals
			case '<':
				lexer.step()
				if lexer.codePoint == '=' {
					lexer.step()
					lexer.Token = TLessThanLessThanEquals
				} else {
					lexer.Token = TLessThanLessThan
				}
			default:
				lexer.Token = TLessThan
			}

		case '>':
			// '>' or '>>' or '>>>' or '>=' or '>>=' or '>>>='
			lexer.step()
			switch lexer.codePoint {
			case '=':
				lexer.step()
				lexer.Token = TGreaterThanEquals
			case '>':
				lexer.step()
				switch lexer.codePoint {
				case '=':
					lexer.step()
					lexer.Token = TGreaterThanGreaterThanEquals
				case '>':
					lexer.step()
					if lexer.codePoint == '=' {
						lexer.step()
						lexer.Token = TGreaterThanGreaterThanGreaterThanEquals
					} else {
						lexer.Token = TGreaterThanGreaterThanGreaterThan
					}
				default:
					lexer.Token = TGreaterThanGreaterThan
				}
			default:
				lexer.Token = TGreaterThan
			}

		case '!':
			// '!' or '!=' or '!=='
			lexer.step()
			if lexer.codePoint == '=' {
				lexer.step()
				if lexer.codePoint == '=' {
					lexer.step()
					lexer.Token = TExclamationEqualsEquals
				} else {
					lexer.Token = TExclamationEquals
				}
			} else {
				lexer.Token = TExclamation
			}

		case '.':
			// '.' or '...' or numeric literal
			if c := lexer.current; c < len(lexer.source.Contents) &&
				lexer.source.Contents[c] >= '0' && lexer.source.Contents[c] <= '9' {
				lexer.parseNumericLiteralOrDot()
				break
			}
			lexer.step()
			if lexer.codePoint == '.' && lexer.current < len(lexer.source.Contents) &&
				lexer.source.Contents[lexer.current] == '.' {
				lexer.step()
				lexer.step()
				lexer.Token = TDotDotDot
			} else {
				lexer.Token = TDot
			}

		case '\'', '"':
			lexer.parseStringLiteral(lexer.codePoint)
			lexer.Token = TStringLiteral

		case '`':
			lexer.parseTemplateToken(true)

		case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
			lexer.parseNumericLiteralOrDot()

		default:
			if IsIdentifierStart(lexer.codePoint) {
				lexer.step()
				for IsIdentifierContinue(lexer.codePoint) {
					lexer.step()
				}
				lexer.Identifier = lexer.Raw()
				if token, ok := Keywords[lexer.Identifier]; ok {
					lexer.Token = token
				} else {
					lexer.Token = TIdentifier
				}
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

// parseStringLiteral scans a quoted string and leaves the decoded value in
// lexer.StringValue.
func (lexer *Lexer) parseStringLiteral(quote rune) {
	lexer.step()
	sb := strings.Builder{}
	for {
		switch lexer.codePoint {
		case quote:
			lexer.step()
			lexer.StringValue = sb.String()
			return

		case '\\':
			lexer.step()
			lexer.decodeEscapeSequence(&sb)

		case '\r', '\n':
			lexer.addError(logger.Loc{Start: int32(lexer.end)}, "Unterminated string literal")
			panic(LexerPanic{})

		case -1:
			lexer.addError(logger.Loc{Start: int32(lexer.end)}, "Unterminated string literal")
			panic(LexerPanic{})

		default:
			sb.WriteRune(lexer.codePoint)
			lexer.step()
		}
	}
}

func (lexer *Lexer) decodeEscapeSequence(sb *strings.Builder) {
	switch lexer.codePoint {
	case 'b':
		sb.WriteByte('\b')
		lexer.step()
	case 'f':
		sb.WriteByte('\f')
		lexer.step()
	case 'n':
		sb.WriteByte('\n')
		lexer.step()
	case 'r':
		sb.WriteByte('\r')
		lexer.step()
	case 't':
		sb.WriteByte('\t')
		lexer.step()
	case 'v':
		sb.WriteByte('\v')
		lexer.step()
	case '0':
		// "\0" is a null byte unless followed by another digit
		if next := lexer.current; next < len(lexer.source.Contents) &&
			lexer.source.Contents[next] >= '0' && lexer.source.Contents[next] <= '9' {
			lexer.SyntaxError()
		}
		sb.WriteByte(0)
		lexer.step()
	case 'x':
		lexer.step()
		value := rune(0)
		for i := 0; i < 2; i++ {
			d, ok := hexDigit(lexer.codePoint)
			if !ok {
				lexer.SyntaxError()
			}
			value = value*16 + d
			lexer.step()
		}
		sb.WriteRune(value)
	case 'u':
		lexer.step()
		value := rune(0)
		if lexer.codePoint == '{' {
			lexer.step()
			for lexer.codePoint != '}' {
				d, ok := hexDigit(lexer.codePoint)
				if !ok {
					lexer.SyntaxError()
				}
				value = value*16 + d
				if value > 0x10FFFF {
					lexer.SyntaxError()
				}
				lexer.step()
			}
			lexer.step()
		} else {
			for i := 0; i < 4; i++ {
				d, ok := hexDigit(lexer.codePoint)
				if !ok {
					lexer.SyntaxError()
				}
				value = value*16 + d
				lexer.step()
			}
		}
		sb.WriteRune(value)
	case '\r', '\n', 0x2028, 0x2029:
		// Line continuation contributes nothing
		if lexer.codePoint == '\r' {
			lexer.step()
			if lexer.codePoint == '\n' {
				lexer.step()
			}
		} else {
			lexer.step()
		}
	case -1:
		lexer.SyntaxError()
	default:
		sb.WriteRune(lexer.codePoint)
		lexer.step()
	}
}

func hexDigit(codePoint rune) (rune, bool) {
	switch {
	case codePoint >= '0' && codePoint <= '9':
		return codePoint - '0', true
	case codePoint >= 'a' && codePoint <= 'f':
		return codePoint - 'a' + 10, true
	case codePoint >= 'A' && codePoint <= 'F':
		return codePoint - 'A' + 10, true
	}
	return 0, false
}

// parseTemplateToken scans from an opening "`" or a rescanned "}" to the
// next "${", "`", or the end of the template.
func (lexer *Lexer) parseTemplateToken(isHead bool) {
	lexer.step()
	sb := strings.Builder{}
	for {
		switch lexer.codePoint {
		case '`':
			lexer.step()
			lexer.StringValue = sb.String()
			if isHead {
				lexer.Token = TNoSubstitutionTemplateLiteral
			} else {
				lexer.Token = TTemplateTail
			}
			return

		case '$':
			lexer.step()
			if lexer.codePoint == '{' {
				lexer.step()
				lexer.StringValue = sb.String()
				if isHead {
					lexer.Token = TTemplateHead
				} else {
					lexer.Token = TTemplateMiddle
				}
				return
			}
			sb.WriteByte('$')

		case '\\':
			lexer.step()
			lexer.decodeEscapeSequence(&sb)

		case -1:
			lexer.addError(logger.Loc{Start: int32(lexer.end)}, "Unterminated template literal")
			panic(LexerPanic{})

		default:
			sb.WriteRune(lexer.codePoint)
			lexer.step()
		}
	}
}

// RescanCloseBraceAsTemplateToken is called by the parser when it has just
// consumed the expression inside "${...}" and the current token is "}".
func (lexer *Lexer) RescanCloseBraceAsTemplateToken() {
	if lexer.Token != TCloseBrace {
		lexer.Expected(TCloseBrace)
	}
	lexer.current = lexer.end
	lexer.start = lexer.end
	lexer.step() // Re-read the "}"
	lexer.parseTemplateToken(false)
}

// RawTemplateContents returns the raw source text of the current template
// token without the delimiters, for exact re-emission.
func (lexer *Lexer) RawTemplateContents() string {
	var text string
	switch lexer.Token {
	case TNoSubstitutionTemplateLiteral, TTemplateTail:
		// "`x`" or "}x`"
		text = lexer.source.Contents[lexer.start+1 : lexer.end-1]
	case TTemplateHead, TTemplateMiddle:
		// "`x${" or "}x${"
		text = lexer.source.Contents[lexer.start+1 : lexer.end-2]
	}
	return text
}

func (lexer *Lexer) parseNumericLiteralOrDot() {
	first := lexer.codePoint
	lexer.step()

	isInteger := true
	base := 0
	if first == '0' {
		switch lexer.codePoint {
		case 'x', 'X':
			base = 16
			lexer.step()
		case 'o', 'O':
			base = 8
			lexer.step()
		case 'b', 'B':
			base = 2
			lexer.step()
		}
	}

	if base != 0 {
		for isDigitForBase(lexer.codePoint, base) || lexer.codePoint == '_' {
			lexer.step()
		}
	} else {
		for (lexer.codePoint >= '0' && lexer.codePoint <= '9') || lexer.codePoint == '_' {
			lexer.step()
		}
		if first == '.' || lexer.codePoint == '.' {
			isInteger = false
			if first != '.' && lexer.codePoint == '.' {
				lexer.step()
			}
			for (lexer.codePoint >= '0' && lexer.codePoint <= '9') || lexer.codePoint == '_' {
				lexer.step()
			}
		}
		if lexer.codePoint == 'e' || lexer.codePoint == 'E' {
			isInteger = false
			lexer.step()
			if lexer.codePoint == '+' || lexer.codePoint == '-' {
				lexer.step()
			}
			if lexer.codePoint < '0' || lexer.codePoint > '9' {
				lexer.SyntaxError()
			}
			for lexer.codePoint >= '0' && lexer.codePoint <= '9' {
				lexer.step()
			}
		}
	}

	// BigInt suffix
	if lexer.codePoint == 'n' && isInteger {
		lexer.step()
		lexer.Identifier = strings.ReplaceAll(lexer.Raw()[:lexer.end-lexer.start-1], "_", "")
		lexer.Token = TBigIntegerLiteral
		if IsIdentifierContinue(lexer.codePoint) {
			lexer.SyntaxError()
		}
		return
	}

	// An identifier or a digit right after a number is a syntax error
	if IsIdentifierContinue(lexer.codePoint) {
		lexer.SyntaxError()
	}

	raw := strings.ReplaceAll(lexer.Raw(), "_", "")
	if base != 0 {
		value, err := strconv.ParseUint(raw[2:], base, 64)
		if err != nil {
			lexer.SyntaxError()
		}
		lexer.Number = float64(value)
	} else {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			lexer.SyntaxError()
		}
		lexer.Number = value
	}
	lexer.Token = TNumericLiteral
}

func isDigitForBase(codePoint rune, base int) bool {
	switch base {
	case 16:
		_, ok := hexDigit(codePoint)
		return ok
	case 8:
		return codePoint >= '0' && codePoint <= '7'
	default:
		return codePoint == '0' || codePoint == '1'
	}
}

// ScanRegExp is called by the parser when a "/" or "/=" token appears where
// an expression is expected. It extends the current token to cover the whole
// regular expression literal; the parser then reads it with Raw().
func (lexer *Lexer) ScanRegExp() {
	// Reset to just after the leading "/"
	lexer.current = lexer.start + 1
	lexer.step()

	inClass := false
	for {
		switch lexer.codePoint {
		case '/':
			if !inClass {
				lexer.step()
				// Flags
				for IsIdentifierContinue(lexer.codePoint) {
					lexer.step()
				}
				return
			}
			lexer.step()

		case '[':
			inClass = true
			lexer.step()

		case ']':
			inClass = false
			lexer.step()

		case '\\':
			lexer.step()
			if lexer.codePoint == -1 {
				lexer.SyntaxError()
			}
			lexer.step()

		case '\r', '\n', 0x2028, 0x2029, -1:
			lexer.addError(logger.Loc{Start: int32(lexer.end)}, "Unterminated regular expression")
			panic(LexerPanic{})

		default:
			lexer.step()
		}
	}
}

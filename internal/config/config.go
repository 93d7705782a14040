package config

import (
	"path"
	"strings"
)

// SourceType selects which grammar variant the lexer and parser accept.
type SourceType uint8

const (
	SourceTypeUnknown SourceType = iota
	SourceTypeJS
	SourceTypeJSX
	SourceTypeTS
	SourceTypeTSX
)

func (t SourceType) String() string {
	switch t {
	case SourceTypeJS:
		return "js"
	case SourceTypeJSX:
		return "jsx"
	case SourceTypeTS:
		return "ts"
	case SourceTypeTSX:
		return "tsx"
	}
	return "unknown"
}

func (t SourceType) IsTypeScript() bool {
	return t == SourceTypeTS || t == SourceTypeTSX
}

func (t SourceType) IsJSX() bool {
	return t == SourceTypeJSX || t == SourceTypeTSX
}

// SourceTypeFromSpecifier classifies a specifier by its extension. Anything
// unrecognized is treated as plain JavaScript, which matches how module
// servers treat extensionless URLs.
func SourceTypeFromSpecifier(specifier string) SourceType {
	// Strip a URL query/fragment before looking at the extension
	if i := strings.IndexAny(specifier, "?#"); i >= 0 {
		specifier = specifier[:i]
	}
	switch path.Ext(specifier) {
	case ".jsx":
		return SourceTypeJSX
	case ".ts", ".mts", ".cts":
		return SourceTypeTS
	case ".tsx":
		return SourceTypeTSX
	default:
		return SourceTypeJS
	}
}

// ResolveSourceType applies the explicit hint unless it is unknown, in which
// case the specifier's extension decides.
func ResolveSourceType(specifier string, hint SourceType) SourceType {
	if hint != SourceTypeUnknown {
		return hint
	}
	return SourceTypeFromSpecifier(specifier)
}

// Syntax is the set of grammar features the parser accepts for one source
// type. The parser checks these flags at the site where each feature is
// recognized and rejects the construct when the flag is off.
type Syntax struct {
	TypeScript bool
	JSX        bool

	// ECMAScript proposals and extensions
	ClassPrivateMembers bool
	DynamicImport       bool
	NullishCoalescing   bool
	OptionalChaining    bool
	TopLevelAwait       bool
	ImportMeta          bool
	ImportAssertions    bool
	Decorators          bool
}

func SyntaxFor(sourceType SourceType) Syntax {
	if sourceType.IsTypeScript() {
		return Syntax{
			TypeScript:    true,
			JSX:           sourceType == SourceTypeTSX,
			Decorators:    true,
			DynamicImport: true,

			// TypeScript accepts the full ES surface too
			ClassPrivateMembers: true,
			NullishCoalescing:   true,
			OptionalChaining:    true,
			TopLevelAwait:       true,
			ImportMeta:          true,
			ImportAssertions:    true,
		}
	}
	return Syntax{
		JSX:                 sourceType == SourceTypeJSX,
		ClassPrivateMembers: true,
		DynamicImport:       true,
		NullishCoalescing:   true,
		OptionalChaining:    true,
		TopLevelAwait:       true,
		ImportMeta:          true,
		ImportAssertions:    true,
	}
}

// EmitOptions configures one compilation. The zero value is not usable;
// call DefaultEmitOptions or fill every field.
type EmitOptions struct {
	JSXFactory         string
	JSXFragmentFactory string
	SourceMap          bool
	IsDev              bool
}

func DefaultEmitOptions() EmitOptions {
	return EmitOptions{
		JSXFactory:         "React.createElement",
		JSXFragmentFactory: "React.Fragment",
	}
}

// FillDefaults replaces unset fields with their defaults so callers can
// construct options with struct literals.
func (o EmitOptions) FillDefaults() EmitOptions {
	defaults := DefaultEmitOptions()
	if o.JSXFactory == "" {
		o.JSXFactory = defaults.JSXFactory
	}
	if o.JSXFragmentFactory == "" {
		o.JSXFragmentFactory = defaults.JSXFragmentFactory
	}
	return o
}

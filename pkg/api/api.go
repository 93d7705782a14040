// Package api is the public interface of the compiler. One call transpiles
// one module: the parse, the transform pipeline, printing, and dependency
// pruning all happen synchronously inside Transform, and nothing is shared
// between calls, so callers may run Transform concurrently for independent
// modules.
package api

import (
	"encoding/json"
)

// SourceType hints at the grammar of the source text. With SourceTypeDefault
// the specifier's extension decides.
type SourceType uint8

const (
	SourceTypeDefault SourceType = iota
	SourceTypeJS
	SourceTypeJSX
	SourceTypeTS
	SourceTypeTSX
)

// ImportMap follows the import-maps standard: "imports" maps bare
// specifiers (or prefixes ending in "/") to resolved specifiers, "scopes"
// overrides those per importer prefix.
type ImportMap struct {
	Imports map[string]string            `json:"imports,omitempty"`
	Scopes  map[string]map[string]string `json:"scopes,omitempty"`
}

// ParseImportMap reads an import map from its standard JSON form.
func ParseImportMap(data []byte) (ImportMap, error) {
	var importMap ImportMap
	if err := json.Unmarshal(data, &importMap); err != nil {
		return ImportMap{}, err
	}
	return importMap, nil
}

type TransformOptions struct {
	// Specifier names the module being compiled: a path or a URL. It decides
	// the grammar when SourceType is unset, anchors relative imports, and is
	// echoed in the source map and in error messages.
	Specifier string

	SourceType SourceType

	// JSXFactory defaults to "React.createElement"
	JSXFactory string

	// JSXFragmentFactory defaults to "React.Fragment"
	JSXFragmentFactory string

	// SourceMap enables source-map generation
	SourceMap bool

	// Dev enables hot-reload instrumentation for local modules
	Dev bool

	// BundleMode is recorded on the resolver for callers that post-process
	// the dependency list into a bundle
	BundleMode bool

	ImportMap ImportMap
}

// Dependency is one retained entry of the module's dependency list, in
// first-encountered order. Kind is "static", "dynamic", "export-from", or
// "export-star".
type Dependency struct {
	Specifier string
	Kind      string
}

type TransformResult struct {
	Code string

	// Empty unless TransformOptions.SourceMap was set
	SourceMap string

	Deps []Dependency
}

type ExportNamesOptions struct {
	Specifier  string
	SourceType SourceType
}

package api

import (
	"github.com/esmd/esm-compiler/internal/config"
	"github.com/esmd/esm-compiler/internal/export_names"
	"github.com/esmd/esm-compiler/internal/js_parser"
	"github.com/esmd/esm-compiler/internal/logger"
	"github.com/esmd/esm-compiler/internal/resolver"
	"github.com/esmd/esm-compiler/internal/transformer"
)

// Transform compiles one module. On failure the returned error is a
// *logger.CompileError carrying the specifier and source position; there is
// never partial output.
func Transform(source string, opts TransformOptions) (TransformResult, error) {
	module, err := parse(source, opts.Specifier, opts.SourceType)
	if err != nil {
		return TransformResult{}, err
	}

	r := resolver.New(opts.Specifier, config.ImportMap{
		Imports: opts.ImportMap.Imports,
		Scopes:  opts.ImportMap.Scopes,
	}, opts.BundleMode)

	result, err := transformer.Transform(module, r, config.EmitOptions{
		JSXFactory:         opts.JSXFactory,
		JSXFragmentFactory: opts.JSXFragmentFactory,
		SourceMap:          opts.SourceMap,
		IsDev:              opts.Dev,
	})
	if err != nil {
		return TransformResult{}, err
	}

	deps := make([]Dependency, len(r.Deps))
	for i, dep := range r.Deps {
		deps[i] = Dependency{Specifier: dep.Specifier, Kind: dep.Kind.String()}
	}

	return TransformResult{
		Code:      result.Code,
		SourceMap: result.SourceMap,
		Deps:      deps,
	}, nil
}

// ExportNames parses the module and returns its exported binding names in
// declaration order, without transforming anything. A bare "export * from"
// contributes "{" + specifier + "}" since its names aren't statically known.
func ExportNames(source string, opts ExportNamesOptions) ([]string, error) {
	module, err := parse(source, opts.Specifier, opts.SourceType)
	if err != nil {
		return nil, err
	}
	return export_names.Parse(module.Stmts), nil
}

func parse(source string, specifier string, hint SourceType) (*transformer.ParsedModule, error) {
	sourceType := config.ResolveSourceType(specifier, configSourceType(hint))

	log := &logger.Log{}
	src := logger.Source{Specifier: specifier, Contents: source}
	stmts, comments, ok := js_parser.Parse(log, &src, js_parser.Options{
		Syntax: config.SyntaxFor(sourceType),
	})
	if !ok {
		if err := logger.CompileErrorFromLog(logger.ParseError, specifier, log); err != nil {
			return nil, err
		}
		return nil, &logger.CompileError{Kind: logger.ParseError, Specifier: specifier, Text: "unexpected end of file"}
	}

	return &transformer.ParsedModule{
		Specifier:  specifier,
		Stmts:      stmts,
		Comments:   comments,
		Source:     src,
		SourceType: sourceType,
	}, nil
}

func configSourceType(t SourceType) config.SourceType {
	switch t {
	case SourceTypeJS:
		return config.SourceTypeJS
	case SourceTypeJSX:
		return config.SourceTypeJSX
	case SourceTypeTS:
		return config.SourceTypeTS
	case SourceTypeTSX:
		return config.SourceTypeTSX
	}
	return config.SourceTypeUnknown
}

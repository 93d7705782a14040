package api

import (
	"testing"

	"github.com/esmd/esm-compiler/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransformWithImportMap(t *testing.T) {
	source := `
    import React from "react"
    export default function App() {
      return <div>ok</div>
    }
  `
	result, err := Transform(source, TransformOptions{
		Specifier: "app.tsx",
		ImportMap: ImportMap{
			Imports: map[string]string{"react": "https://esm.sh/react@18"},
		},
	})
	require.NoError(t, err)
	assert.Contains(t, result.Code, `"https://esm.sh/react@18"`)
	assert.Contains(t, result.Code, "React.createElement(")
	require.Len(t, result.Deps, 1)
	assert.Equal(t, "https://esm.sh/react@18", result.Deps[0].Specifier)
	assert.Equal(t, "static", result.Deps[0].Kind)
}

func TestTransformSourceTypeHintWins(t *testing.T) {
	// The .js extension says plain script, the hint says TSX
	source := `export const el = <div />
export interface Props {}`
	result, err := Transform(source, TransformOptions{
		Specifier:  "widget.js",
		SourceType: SourceTypeTSX,
	})
	require.NoError(t, err)
	assert.Contains(t, result.Code, "React.createElement(")
	assert.NotContains(t, result.Code, "interface")
}

func TestTransformParseError(t *testing.T) {
	_, err := Transform("const a = ;", TransformOptions{Specifier: "bad.js"})
	require.Error(t, err)
	compileErr, ok := err.(*logger.CompileError)
	require.True(t, ok)
	assert.Equal(t, logger.ParseError, compileErr.Kind)
	assert.Equal(t, "bad.js", compileErr.Specifier)
	assert.Equal(t, 1, compileErr.Line)
}

func TestTransformNoSourceMapByDefault(t *testing.T) {
	result, err := Transform("export const a = 1", TransformOptions{Specifier: "a.ts"})
	require.NoError(t, err)
	assert.Empty(t, result.SourceMap)

	result, err = Transform("export const a = 1", TransformOptions{
		Specifier: "a.ts",
		SourceMap: true,
	})
	require.NoError(t, err)
	assert.Contains(t, result.SourceMap, `"a.ts"`)
}

func TestExportNames(t *testing.T) {
	source := `
    export const a = 1
    export default function main() {}
    export * as ns from "./ns.ts"
    export * from "./star.ts"
  `
	names, err := ExportNames(source, ExportNamesOptions{Specifier: "mod.ts"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "default", "ns", "{./star.ts}"}, names)
}

func TestExportNamesParseError(t *testing.T) {
	_, err := ExportNames("export const = 1", ExportNamesOptions{Specifier: "bad.ts"})
	require.Error(t, err)
}

func TestParseImportMap(t *testing.T) {
	importMap, err := ParseImportMap([]byte(`{"imports": {"a": "b"}}`))
	require.NoError(t, err)
	assert.Equal(t, "b", importMap.Imports["a"])

	_, err = ParseImportMap([]byte("not json"))
	require.Error(t, err)
}

package export_names

import (
	"testing"

	"github.com/esmd/esm-compiler/internal/config"
	"github.com/esmd/esm-compiler/internal/js_ast"
	"github.com/esmd/esm-compiler/internal/js_parser"
	"github.com/esmd/esm-compiler/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseTS(t *testing.T, contents string) []js_ast.Stmt {
	t.Helper()
	log := &logger.Log{}
	source := &logger.Source{Specifier: "/app.ts", Contents: contents}
	stmts, _, ok := js_parser.Parse(log, source, js_parser.Options{
		Syntax: config.SyntaxFor(config.SourceTypeTS),
	})
	require.True(t, ok, "parse failed: %v", log.Msgs)
	return stmts
}

func TestParseExportNames(t *testing.T) {
	source := `
      export const name = "alephjs"
      export const version = "1.0.1"
      const start = () => {}
      export default start
      export const { build } = { build: () => {} }
      export function dev() {}
      export class Server {}
      export const { a: { a1, a2 }, 'b': [ b1, b2 ], c, ...rest } = { a: { a1: 0, a2: 0 }, b: [ 0, 0 ], c: 0, d: 0 }
      export const [ d, e, ...{f, g, rest3} ] = [0, 0, {f:0,g:0,h:0}]
      let i
      export const j = i = [0, 0]
      export { exists, existsSync } from "https://deno.land/std/fs/exists.ts"
      export * as DenoStdServer from "https://deno.land/std/http/sever.ts"
      export * from "https://deno.land/std/http/sever.ts"
    `
	assert.Equal(t, []string{
		"name",
		"version",
		"default",
		"build",
		"dev",
		"Server",
		"a1",
		"a2",
		"b1",
		"b2",
		"c",
		"rest",
		"d",
		"e",
		"f",
		"g",
		"rest3",
		"j",
		"exists",
		"existsSync",
		"DenoStdServer",
		"{https://deno.land/std/http/sever.ts}",
	}, Parse(parseTS(t, source)))
}

func TestExportAliases(t *testing.T) {
	source := `
      const local = 1
      export { local as renamed }
      export { local as "string name" }
    `
	assert.Equal(t, []string{"renamed", "string name"}, Parse(parseTS(t, source)))
}

func TestExportedEnumAndNamespace(t *testing.T) {
	source := `
      export enum Direction { Up, Down }
      export namespace NS { export const x = 1 }
      enum Unexported { A }
    `
	assert.Equal(t, []string{"Direction", "NS"}, Parse(parseTS(t, source)))
}

func TestNoExports(t *testing.T) {
	source := `
      const a = 1
      function b() {}
    `
	assert.Empty(t, Parse(parseTS(t, source)))
}

package transformer

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/esmd/esm-compiler/internal/config"
	"github.com/esmd/esm-compiler/internal/js_parser"
	"github.com/esmd/esm-compiler/internal/logger"
	"github.com/esmd/esm-compiler/internal/resolver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseModule(t *testing.T, specifier string, source string) *ParsedModule {
	t.Helper()
	sourceType := config.SourceTypeFromSpecifier(specifier)
	log := &logger.Log{}
	src := logger.Source{Specifier: specifier, Contents: source}
	stmts, comments, ok := js_parser.Parse(log, &src, js_parser.Options{
		Syntax: config.SyntaxFor(sourceType),
	})
	require.True(t, ok, "parse failed: %v", log.Msgs)
	return &ParsedModule{
		Specifier:  specifier,
		Stmts:      stmts,
		Comments:   comments,
		Source:     src,
		SourceType: sourceType,
	}
}

func compile(t *testing.T, specifier string, source string, options config.EmitOptions) (string, *resolver.Resolver) {
	t.Helper()
	module := parseModule(t, specifier, source)
	r := resolver.New(specifier, config.ImportMap{}, false)
	result, err := Transform(module, r, options)
	require.NoError(t, err)
	return result.Code, r
}

func TestTypeScript(t *testing.T) {
	source := `
      enum D {
        A,
        B,
        C,
      }

      function enumerable(value: boolean) {
        return function (
          _target: any,
          _propertyKey: string,
          descriptor: PropertyDescriptor,
        ) {
          descriptor.enumerable = value;
        };
      }

      export class A {
        private b: string;
        protected c: number = 1;
        e: "foo";
        constructor (public d = D.A) {
          const e = "foo" as const;
          this.e = e;
        }
        @enumerable(false)
        bar() {}
      }
    `
	code, _ := compile(t, "https://deno.land/x/mod.ts", source, config.EmitOptions{})
	assert.Contains(t, code, "var D;\n(function(D) {\n")
	assert.Contains(t, code, `D[D["A"] = 0] = "A";`)
	assert.Contains(t, code, "_applyDecoratedDescriptor(")
	assert.Contains(t, code, "this.d = d;")
	assert.NotContains(t, code, "private")
}

func TestReactJSX(t *testing.T) {
	source := `
      import React from "https://esm.sh/react"
      export default function App() {
        return (
          <>
            <h1 className="title">Hello World</h1>
          </>
        )
      }
    `
	code, _ := compile(t, "app.tsx", source, config.EmitOptions{})
	assert.Contains(t, code, "React.createElement(React.Fragment, null")
	assert.Contains(t, code, `React.createElement("h1", {`)
	assert.Contains(t, code, `className: "title"`)
	assert.Contains(t, code, `"Hello World"`)
}

func TestCustomJSXFactory(t *testing.T) {
	source := `export const el = <div id="root"><span /></div>`
	code, _ := compile(t, "el.jsx", source, config.EmitOptions{
		JSXFactory:         "h",
		JSXFragmentFactory: "Fragment",
	})
	assert.Contains(t, code, `h("div", {`)
	assert.Contains(t, code, `h("span", null)`)
}

func TestJSXSpreadAttributes(t *testing.T) {
	source := `export const el = <div id="a" {...rest} title="b" />`
	code, _ := compile(t, "el.jsx", source, config.EmitOptions{})
	assert.Contains(t, code, "Object.assign({}, {")
	assert.Contains(t, code, "rest")
	assert.Contains(t, code, `title: "b"`)
}

func TestPlainJavaScriptPassesThrough(t *testing.T) {
	source := "const a = 1;\nexport function add(b) {\n    return a + b;\n}\n"
	code, _ := compile(t, "add.js", source, config.EmitOptions{})
	assert.Equal(t, source, code)
}

func TestStaticImportsSurvivePruning(t *testing.T) {
	source := `
      import { a } from "./a.js"
      import { b } from "./b.js"
      console.log(a, b)
    `
	_, r := compile(t, "mod.js", source, config.EmitOptions{})
	require.Len(t, r.Deps, 2)
	assert.Equal(t, "a.js", r.Deps[0].Specifier)
	assert.Equal(t, resolver.ImportStatic, r.Deps[0].Kind)
	assert.Equal(t, "b.js", r.Deps[1].Specifier)
}

func TestTypeOnlyImportIsPruned(t *testing.T) {
	source := `
      import type { Config } from "./types.ts"
      import { start } from "./start.ts"
      start()
    `
	_, r := compile(t, "mod.ts", source, config.EmitOptions{})
	require.Len(t, r.Deps, 1)
	assert.Equal(t, "start.ts", r.Deps[0].Specifier)
}

func TestUnusedImportIsElided(t *testing.T) {
	source := `
      import { Used, Unused } from "./dep.ts"
      new Used()
    `
	code, _ := compile(t, "mod.ts", source, config.EmitOptions{})
	assert.Contains(t, code, "Used")
	assert.NotContains(t, code, "Unused")
}

func TestShadowedNameKeepsImport(t *testing.T) {
	// Elision counts identifier occurrences without scope analysis, so a
	// parameter shadowing an import retains it
	source := `
      import { util } from "./util.ts"
      export function f(util: number) { return util + 1 }
    `
	code, r := compile(t, "mod.ts", source, config.EmitOptions{})
	assert.Contains(t, code, `"util.ts"`)
	require.Len(t, r.Deps, 1)
	assert.Equal(t, "util.ts", r.Deps[0].Specifier)
}

func TestExportStarSurvivesPruning(t *testing.T) {
	source := `export * from "https://deno.land/std/http/server.ts"`
	code, r := compile(t, "mod.ts", source, config.EmitOptions{})
	assert.Contains(t, code, `"https://deno.land/std/http/server.ts"`)
	require.Len(t, r.Deps, 1)
	assert.Equal(t, resolver.ImportExportStar, r.Deps[0].Kind)
}

func TestDynamicImportIsRecorded(t *testing.T) {
	source := `
      export async function load() {
        return import("./lazy.js")
      }
    `
	_, r := compile(t, "mod.js", source, config.EmitOptions{})
	require.Len(t, r.Deps, 1)
	assert.Equal(t, "lazy.js", r.Deps[0].Specifier)
	assert.Equal(t, resolver.ImportDynamic, r.Deps[0].Kind)
}

func TestDependencyRangeCoversSourceText(t *testing.T) {
	source := `import { x } from "./dep.ts";
console.log(x);
`
	module := parseModule(t, "src/app.ts", source)
	r := resolver.New("src/app.ts", config.ImportMap{}, false)
	_, err := Transform(module, r, config.EmitOptions{})
	require.NoError(t, err)

	// The range identifies the original quoted literal even after the
	// specifier itself was rewritten
	require.Len(t, r.Deps, 1)
	assert.Equal(t, "src/dep.ts", r.Deps[0].Specifier)
	assert.Equal(t, `"./dep.ts"`, module.Source.TextForRange(r.Deps[0].Range))
}

func TestClassDecoratorsApplyBottomUp(t *testing.T) {
	source := `
      function first(cls: any) { return cls }
      function second(cls: any) { return cls }

      @first
      @second
      class C {}
    `
	code, _ := compile(t, "mod.ts", source, config.EmitOptions{})
	assert.Contains(t, code, "var _dec = first;")
	assert.Contains(t, code, "var _dec1 = second;")

	// The decorator closest to the class wraps first
	second := "C = _dec1(C) || C;"
	first := "C = _dec(C) || C;"
	assert.Contains(t, code, second)
	assert.Contains(t, code, first)
	assert.Less(t, strings.Index(code, second), strings.Index(code, first))
}

func TestParameterDecoratorsAreRejected(t *testing.T) {
	source := `
      function inject(target: any, key: string, index: number) {}
      class C {
        constructor(@inject dep: any) {}
      }
    `
	module := parseModule(t, "mod.ts", source)
	r := resolver.New("mod.ts", config.ImportMap{}, false)
	_, err := Transform(module, r, config.EmitOptions{})
	require.Error(t, err)
	compileErr, ok := err.(*logger.CompileError)
	require.True(t, ok)
	assert.Equal(t, logger.TransformError, compileErr.Kind)
	assert.Equal(t, "mod.ts", compileErr.Specifier)
}

func TestEnumInsideIfBlockIsLowered(t *testing.T) {
	source := `
      if (true) {
        enum E {
          A,
          B,
        }
        console.log(E.A)
      }
    `
	code, _ := compile(t, "mod.ts", source, config.EmitOptions{})
	assert.Contains(t, code, "var E;")
	assert.Contains(t, code, `E[E["A"] = 0] = "A";`)
	assert.NotContains(t, code, "enum")
}

func TestEnumInsideTryAndSwitchIsLowered(t *testing.T) {
	source := `
      try {
        enum A { X }
        console.log(A.X)
      } catch (err) {
        enum B { Y }
        console.log(B.Y)
      }
      switch (1) {
        case 1:
          enum C { Z }
          console.log(C.Z)
      }
    `
	code, _ := compile(t, "mod.ts", source, config.EmitOptions{})
	assert.Contains(t, code, "var A;")
	assert.Contains(t, code, "var B;")
	assert.Contains(t, code, "var C;")
	assert.NotContains(t, code, "enum")
}

func TestDecoratedClassInsideArrowBody(t *testing.T) {
	source := `
      function dec(cls: any) { return cls }
      export const make = () => {
        @dec
        class Inner {}
        return Inner
      }
    `
	code, _ := compile(t, "mod.ts", source, config.EmitOptions{})
	assert.Contains(t, code, "var _dec = dec;")
	assert.Contains(t, code, "Inner = _dec(Inner) || Inner;")
	assert.NotContains(t, code, "@dec")
}

func TestParameterDecoratorsRejectedInNestedFunctions(t *testing.T) {
	source := `
      function inject(target: any, key: string, index: number) {}
      export const make = () => {
        class Inner {
          constructor(@inject dep: any) {}
        }
        return Inner
      }
    `
	module := parseModule(t, "mod.ts", source)
	r := resolver.New("mod.ts", config.ImportMap{}, false)
	_, err := Transform(module, r, config.EmitOptions{})
	require.Error(t, err)
	compileErr, ok := err.(*logger.CompileError)
	require.True(t, ok)
	assert.Equal(t, logger.TransformError, compileErr.Kind)
}

func TestNamespaceLowering(t *testing.T) {
	source := `
      namespace NS {
        export const x = 1
        export function f() { return x }
      }
      console.log(NS.f())
    `
	code, _ := compile(t, "mod.ts", source, config.EmitOptions{})
	assert.Contains(t, code, "var NS;\n(function(NS) {\n")
	assert.Contains(t, code, "NS.x = x;")
	assert.Contains(t, code, "NS.f = f;")
	assert.Contains(t, code, "})(NS || (NS = {}));")
}

func TestDevRefreshInstrumentation(t *testing.T) {
	source := `
      import { useState } from "https://esm.sh/react"
      export default function App() {
        const [n, setN] = useState(0)
        return n
      }
    `
	code, _ := compile(t, "app.jsx", source, config.EmitOptions{IsDev: true})
	assert.Contains(t, code, "var _s = $RefreshSig$();")
	assert.Contains(t, code, "_s();")
	assert.Contains(t, code, `_s(App, "useState");`)
	assert.Contains(t, code, `$RefreshReg$(App, "App");`)
}

func TestRemoteModulesAreNotInstrumented(t *testing.T) {
	source := `export default function App() { return null }`
	code, _ := compile(t, "https://esm.sh/app.jsx", source, config.EmitOptions{IsDev: true})
	assert.NotContains(t, code, "$RefreshReg$")
}

func TestSourceMapOnlyWhenRequested(t *testing.T) {
	source := `export const a = 1`

	module := parseModule(t, "a.ts", source)
	result, err := Transform(module, resolver.New("a.ts", config.ImportMap{}, false), config.EmitOptions{})
	require.NoError(t, err)
	assert.Empty(t, result.SourceMap)

	module = parseModule(t, "a.ts", source)
	result, err = Transform(module, resolver.New("a.ts", config.ImportMap{}, false), config.EmitOptions{SourceMap: true})
	require.NoError(t, err)
	require.NotEmpty(t, result.SourceMap)

	var payload struct {
		Version  int      `json:"version"`
		Sources  []string `json:"sources"`
		Mappings string   `json:"mappings"`
	}
	require.NoError(t, json.Unmarshal([]byte(result.SourceMap), &payload))
	assert.Equal(t, 3, payload.Version)
	assert.Equal(t, []string{"a.ts"}, payload.Sources)
	assert.NotEmpty(t, payload.Mappings)
}

func TestHelperNameCollisionIsRenamed(t *testing.T) {
	source := `
      const _dec = "taken"
      function wrap(cls: any) { return cls }

      @wrap
      class C {}

      console.log(_dec)
    `
	code, _ := compile(t, "mod.ts", source, config.EmitOptions{})
	assert.Contains(t, code, `const _dec = "taken";`)
	assert.Contains(t, code, "var _dec1 = wrap;")
	assert.Contains(t, code, "C = _dec1(C) || C;")
}

package resolver

import (
	"testing"

	"github.com/esmd/esm-compiler/internal/config"
	"github.com/esmd/esm-compiler/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportMapExact(t *testing.T) {
	r := New("./app.tsx", config.ImportMap{
		Imports: map[string]string{
			"react": "https://esm.sh/react@18",
		},
	}, false)

	assert.Equal(t, "https://esm.sh/react@18", r.Resolve("react", ImportStatic, logger.Range{}))
}

func TestImportMapPrefix(t *testing.T) {
	r := New("./app.tsx", config.ImportMap{
		Imports: map[string]string{
			"lodash/": "https://esm.sh/lodash@4/",
		},
	}, false)

	assert.Equal(t, "https://esm.sh/lodash@4/debounce", r.Resolve("lodash/debounce", ImportStatic, logger.Range{}))
}

func TestImportMapScopes(t *testing.T) {
	r := New("https://example.com/vendor/a.js", config.ImportMap{
		Imports: map[string]string{
			"react": "https://esm.sh/react@18",
		},
		Scopes: map[string]map[string]string{
			"https://example.com/vendor/": {
				"react": "https://esm.sh/react@17",
			},
		},
	}, false)

	assert.Equal(t, "https://esm.sh/react@17", r.Resolve("react", ImportStatic, logger.Range{}))
}

func TestImportMapNestedScopesMostSpecificWins(t *testing.T) {
	importMap := config.ImportMap{
		Imports: map[string]string{
			"react": "https://esm.sh/react@18",
		},
		Scopes: map[string]map[string]string{
			"https://example.com/": {
				"react": "https://esm.sh/react@17",
			},
			"https://example.com/vendor/": {
				"react": "https://esm.sh/react@16",
			},
		},
	}

	// Both scopes match the importer; the longer prefix decides, every time
	for i := 0; i < 50; i++ {
		r := New("https://example.com/vendor/a.js", importMap, false)
		assert.Equal(t, "https://esm.sh/react@16", r.Resolve("react", ImportStatic, logger.Range{}))
	}

	// A less specific scope is the fallback when the deeper one has no entry
	r := New("https://example.com/vendor/a.js", config.ImportMap{
		Imports: importMap.Imports,
		Scopes: map[string]map[string]string{
			"https://example.com/": {
				"react": "https://esm.sh/react@17",
			},
			"https://example.com/vendor/": {
				"preact": "https://esm.sh/preact@10",
			},
		},
	}, false)
	assert.Equal(t, "https://esm.sh/react@17", r.Resolve("react", ImportStatic, logger.Range{}))
}

func TestRelativeAgainstPath(t *testing.T) {
	r := New("src/pages/index.tsx", config.ImportMap{}, false)

	assert.Equal(t, "src/pages/header.tsx", r.Resolve("./header.tsx", ImportStatic, logger.Range{}))
	assert.Equal(t, "src/lib/utils.ts", r.Resolve("../lib/utils.ts", ImportStatic, logger.Range{}))
}

func TestRelativeAgainstRemoteURL(t *testing.T) {
	r := New("https://esm.sh/some/pkg/mod.js", config.ImportMap{}, false)

	assert.True(t, r.SpecifierIsRemote)
	assert.Equal(t, "https://esm.sh/some/pkg/dep.js", r.Resolve("./dep.js", ImportStatic, logger.Range{}))
	assert.Equal(t, "https://esm.sh/some/other.js", r.Resolve("../other.js", ImportStatic, logger.Range{}))

	// Dot segments never climb past the origin
	assert.Equal(t, "https://esm.sh/top.js", r.Resolve("../../../../top.js", ImportStatic, logger.Range{}))
}

func TestPassthrough(t *testing.T) {
	r := New("./app.js", config.ImportMap{}, false)

	assert.Equal(t, "https://esm.sh/react@18", r.Resolve("https://esm.sh/react@18", ImportStatic, logger.Range{}))
	assert.Equal(t, "unmapped-bare-name", r.Resolve("unmapped-bare-name", ImportStatic, logger.Range{}))
}

func TestDepsRecordEveryOccurrence(t *testing.T) {
	r := New("./app.js", config.ImportMap{}, false)
	r.Resolve("./a.js", ImportStatic, logger.Range{})
	r.Resolve("./a.js", ImportDynamic, logger.Range{})
	r.Resolve("./b.js", ImportExportFrom, logger.Range{})

	require.Len(t, r.Deps, 3)
	assert.Equal(t, "a.js", r.Deps[0].Specifier)
	assert.Equal(t, ImportStatic, r.Deps[0].Kind)
	assert.Equal(t, "a.js", r.Deps[1].Specifier)
	assert.Equal(t, ImportDynamic, r.Deps[1].Kind)
	assert.Equal(t, "b.js", r.Deps[2].Specifier)
	assert.Equal(t, ImportExportFrom, r.Deps[2].Kind)
}

func TestPruneKeepsQuotedSpecifiers(t *testing.T) {
	r := New("./app.js", config.ImportMap{}, false)
	r.Resolve("./kept.js", ImportStatic, logger.Range{})
	r.Resolve("./dropped.js", ImportStatic, logger.Range{})

	r.Prune(`import { x } from "kept.js";` + "\n")

	require.Len(t, r.Deps, 1)
	assert.Equal(t, "kept.js", r.Deps[0].Specifier)
}

func TestPruneKeepsStarExports(t *testing.T) {
	r := New("./app.js", config.ImportMap{}, false)
	r.Resolve("https://deno.land/std/http/server.ts", ImportExportStar, logger.Range{})

	// The emitted text never quotes the specifier again, but "export *"
	// bindings still flow through it
	r.Prune("export const handler = serve;\n")

	require.Len(t, r.Deps, 1)
	assert.Equal(t, ImportExportStar, r.Deps[0].Kind)
}

func TestPrunePreservesOrder(t *testing.T) {
	r := New("./app.js", config.ImportMap{}, false)
	r.Resolve("./a.js", ImportStatic, logger.Range{})
	r.Resolve("./gone.js", ImportStatic, logger.Range{})
	r.Resolve("./b.js", ImportStatic, logger.Range{})

	r.Prune(`import "a.js"; import "b.js";`)

	require.Len(t, r.Deps, 2)
	assert.Equal(t, "a.js", r.Deps[0].Specifier)
	assert.Equal(t, "b.js", r.Deps[1].Specifier)
}

func TestImportKindString(t *testing.T) {
	assert.Equal(t, "static", ImportStatic.String())
	assert.Equal(t, "dynamic", ImportDynamic.String())
	assert.Equal(t, "export-from", ImportExportFrom.String())
	assert.Equal(t, "export-star", ImportExportStar.String())
}

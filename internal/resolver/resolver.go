package resolver

import (
	"strings"

	"github.com/esmd/esm-compiler/internal/config"
	"github.com/esmd/esm-compiler/internal/logger"
)

// ImportKind classifies the syntactic form a dependency was introduced by.
type ImportKind uint8

const (
	// An "import" statement
	ImportStatic ImportKind = iota

	// An "import()" expression
	ImportDynamic

	// An "export {} from" or "export * as ns from" statement
	ImportExportFrom

	// A bare "export * from" statement
	ImportExportStar
)

func (k ImportKind) String() string {
	switch k {
	case ImportStatic:
		return "static"
	case ImportDynamic:
		return "dynamic"
	case ImportExportFrom:
		return "export-from"
	case ImportExportStar:
		return "export-star"
	}
	return ""
}

// DependencyDescriptor records one syntactic occurrence of a dependency. The
// specifier is the post-resolution form, i.e. the text that was written back
// into the module. Descriptors are never mutated after creation; pruning only
// removes them.
type DependencyDescriptor struct {
	Specifier string
	Kind      ImportKind
	Range     logger.Range
}

// A Resolver rewrites the specifiers of one module and accumulates the
// dependency list as it goes. There is exactly one Resolver per compilation
// and it must not be shared between concurrently running compilations. The
// zero number of locks here is deliberate: all state is confined to a single
// compile call.
type Resolver struct {
	// The specifier of the module being compiled
	Specifier string

	// True when Specifier is itself a remote URL. Computed once in New and
	// read by the pipeline to suppress dev instrumentation for remote
	// modules.
	SpecifierIsRemote bool

	// Recorded dependencies in first-encountered order. Every syntactic
	// occurrence gets its own entry, so the same specifier may repeat.
	Deps []DependencyDescriptor

	// Specifiers that appeared in a bare "export * from" statement. Entries
	// here survive pruning unconditionally since their bindings flow through
	// without naming the specifier again.
	StarExports map[string]struct{}

	BundleMode bool

	ImportMap config.ImportMap
}

func New(specifier string, importMap config.ImportMap, bundleMode bool) *Resolver {
	return &Resolver{
		Specifier:         specifier,
		SpecifierIsRemote: IsRemoteSpecifier(specifier),
		StarExports:       make(map[string]struct{}),
		BundleMode:        bundleMode,
		ImportMap:         importMap,
	}
}

func IsRemoteSpecifier(specifier string) bool {
	return strings.HasPrefix(specifier, "https://") || strings.HasPrefix(specifier, "http://")
}

// Resolve maps one source-level specifier to its rewritten form and records
// a descriptor for it. Resolution never fails: an unmatched specifier passes
// through unchanged and is treated as already resolved.
func (r *Resolver) Resolve(specifier string, kind ImportKind, rng logger.Range) string {
	resolved := r.resolve(specifier)
	r.Deps = append(r.Deps, DependencyDescriptor{
		Specifier: resolved,
		Kind:      kind,
		Range:     rng,
	})
	if kind == ImportExportStar {
		r.StarExports[resolved] = struct{}{}
	}
	return resolved
}

func (r *Resolver) resolve(specifier string) string {
	// Import map entries win over everything, including relative paths, so
	// a map can redirect "./polyfill.js" as well as "react".
	if resolved, ok := r.ImportMap.Resolve(specifier, r.Specifier); ok {
		return resolved
	}
	if strings.HasPrefix(specifier, "./") || strings.HasPrefix(specifier, "../") {
		return resolveRelative(r.Specifier, specifier)
	}
	return specifier
}

// resolveRelative joins a relative specifier against the importer. When the
// importer is a remote URL the dot segments resolve against the URL path and
// never climb past the origin, matching how a browser resolves the same
// import.
func resolveRelative(importer string, specifier string) string {
	origin := ""
	path := importer
	if IsRemoteSpecifier(importer) {
		end := strings.Index(importer[8:], "/")
		if end < 0 {
			origin = importer
			path = "/"
		} else {
			origin = importer[:8+end]
			path = importer[8+end:]
		}
	}

	isAbsolute := origin != "" || strings.HasPrefix(path, "/")

	// Drop the importer's basename, then apply the specifier's segments with
	// dot-segment resolution. "." and empty segments vanish entirely.
	dir := ""
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		dir = path[:i]
	}

	var segments []string
	for _, segment := range strings.Split(dir, "/") {
		if segment != "" && segment != "." {
			segments = append(segments, segment)
		}
	}
	for _, segment := range strings.Split(specifier, "/") {
		switch segment {
		case ".", "":
			// Skip
		case "..":
			if n := len(segments); n > 0 && segments[n-1] != ".." {
				segments = segments[:n-1]
			} else if !isAbsolute {
				segments = append(segments, "..")
			}
		default:
			segments = append(segments, segment)
		}
	}

	joined := strings.Join(segments, "/")
	if isAbsolute {
		joined = "/" + joined
	}
	if origin != "" {
		return origin + joined
	}
	if joined == "" {
		joined = "."
	}
	return joined
}

// Prune filters the recorded dependencies against the emitted module text. A
// dependency survives when its specifier still occurs as a quoted string in
// the output, or when it backs a bare "export *" whose bindings reference it
// without quoting it. This is a textual heuristic rather than reachability
// analysis: keeping a dead dependency costs a wasted prefetch, dropping a
// live one breaks the module, so the filter only errs toward keeping.
func (r *Resolver) Prune(code string) {
	pruned := r.Deps[:0]
	for _, dep := range r.Deps {
		if strings.Contains(code, "\""+dep.Specifier+"\"") {
			pruned = append(pruned, dep)
			continue
		}
		if _, ok := r.StarExports[dep.Specifier]; ok {
			pruned = append(pruned, dep)
		}
	}
	r.Deps = pruned
}

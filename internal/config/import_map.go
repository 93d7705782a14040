package config

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// ImportMap follows the import-maps standard closely enough for a module
// server: "imports" maps bare specifiers (or prefixes ending in "/") to
// resolved specifiers, and "scopes" overrides those mappings for importers
// whose specifier starts with the scope prefix.
type ImportMap struct {
	Imports map[string]string            `json:"imports,omitempty"`
	Scopes  map[string]map[string]string `json:"scopes,omitempty"`
}

func ParseImportMap(data []byte) (ImportMap, error) {
	var importMap ImportMap
	if err := json.Unmarshal(data, &importMap); err != nil {
		return ImportMap{}, fmt.Errorf("invalid import map: %w", err)
	}
	return importMap, nil
}

// Resolve looks up a specifier for the given importer. The boolean result
// reports whether the map had an opinion at all.
func (m *ImportMap) Resolve(specifier string, importer string) (string, bool) {
	// The most specific matching scope wins; less specific scopes and then
	// the top-level imports are fallbacks.
	var scopes []string
	for scope := range m.Scopes {
		if strings.HasPrefix(importer, scope) {
			scopes = append(scopes, scope)
		}
	}
	sort.Slice(scopes, func(i, j int) bool {
		return len(scopes[i]) > len(scopes[j])
	})
	for _, scope := range scopes {
		if resolved, ok := matchImports(m.Scopes[scope], specifier); ok {
			return resolved, true
		}
	}
	return matchImports(m.Imports, specifier)
}

func matchImports(imports map[string]string, specifier string) (string, bool) {
	if imports == nil {
		return "", false
	}
	if resolved, ok := imports[specifier]; ok {
		return resolved, true
	}

	// Prefix entries must end in "/" per the standard; the matched tail is
	// carried over onto the substituted prefix
	var bestKey string
	for key := range imports {
		if strings.HasSuffix(key, "/") && strings.HasPrefix(specifier, key) && len(key) > len(bestKey) {
			bestKey = key
		}
	}
	if bestKey != "" {
		return imports[bestKey] + specifier[len(bestKey):], true
	}
	return "", false
}

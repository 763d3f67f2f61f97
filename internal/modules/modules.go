// Package modules reads the terragrunt modules manifest and maps
// planned resource addresses to module directories.
package modules

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/plancraft/tgimport/internal/plan"
)

// Entry describes one module in modules.json. The manifest uses
// capitalized keys.
type Entry struct {
	Key    string `json:"Key"`
	Source string `json:"Source"`
	Dir    string `json:"Dir"`
}

// Manifest is the decoded modules.json.
type Manifest struct {
	Modules []Entry `json:"Modules"`
}

// Load reads a modules.json manifest.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read modules manifest %s: %w", path, err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode modules manifest %s: %w", path, err)
	}
	return &m, nil
}

// Mapping pairs a resource with the directory terragrunt runs in for
// it.
type Mapping struct {
	Resource  plan.Resource
	ModuleKey string
	Dir       string
}

// Map resolves each resource to its module directory. The full module
// chain is matched against manifest keys first, so a nested address
// like module.a.module.b.google_x.y prefers the entry keyed "a.module.b"
// over "a"; root-module resources map to rootDir.
func (m *Manifest) Map(resources []plan.Resource, rootDir string) []Mapping {
	byKey := make(map[string]Entry, len(m.Modules))
	for _, e := range m.Modules {
		if e.Key != "" {
			byKey[e.Key] = e
		}
	}

	out := make([]Mapping, 0, len(resources))
	for _, res := range resources {
		mapping := Mapping{Resource: res, Dir: rootDir}
		for _, key := range moduleKeys(res.Address) {
			if e, ok := byKey[key]; ok {
				mapping.ModuleKey = e.Key
				mapping.Dir = filepath.Join(rootDir, e.Dir)
				break
			}
		}
		out = append(out, mapping)
	}
	return out
}

// moduleKeys returns candidate manifest keys for a resource address,
// most specific first: the module address with its "module." prefix
// stripped, the dotted segment chain, then the first segment alone.
// Root-module addresses yield nothing.
func moduleKeys(address string) []string {
	var segs []string
	rest := address
	for strings.HasPrefix(rest, "module.") {
		rest = strings.TrimPrefix(rest, "module.")
		i := strings.Index(rest, ".")
		if i < 0 {
			segs = append(segs, rest)
			break
		}
		segs = append(segs, rest[:i])
		rest = rest[i+1:]
	}
	if len(segs) == 0 {
		return nil
	}
	full := strings.Join(segs, ".module.")
	keys := []string{full}
	if joined := strings.Join(segs, "."); joined != full {
		keys = append(keys, joined)
	}
	if segs[0] != full {
		keys = append(keys, segs[0])
	}
	return keys
}

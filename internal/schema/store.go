// Package schema loads provider schemas and models attribute metadata.
package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"
)

// ErrNoSchema means no loaded provider describes the resource type.
// Inference falls back to name heuristics when it sees this.
var ErrNoSchema = errors.New("no schema for resource type")

// ErrLoad wraps failures reading or decoding a schema document.
var ErrLoad = errors.New("schema load error")

// providerURIs maps resource type prefixes to registry addresses.
var providerURIs = []struct {
	prefix string
	uri    string
}{
	{"google-beta_", "registry.terraform.io/hashicorp/google-beta"},
	{"google_", "registry.terraform.io/hashicorp/google"},
	{"aws_", "registry.terraform.io/hashicorp/aws"},
	{"azurerm_", "registry.terraform.io/hashicorp/azurerm"},
	{"azuread_", "registry.terraform.io/hashicorp/azuread"},
	{"random_", "registry.terraform.io/hashicorp/random"},
}

type providerSchema struct {
	ResourceSchemas map[string]resourceSchema `json:"resource_schemas"`
}

type resourceSchema struct {
	Block struct {
		Attributes map[string]json.RawMessage `json:"attributes"`
	} `json:"block"`
}

// Store holds decoded provider schemas and caches per-type attribute
// metadata. Safe for concurrent readers.
type Store struct {
	mu        sync.Mutex
	providers map[string]providerSchema
	cache     map[string]map[string]AttributeMetadata
	log       *slog.Logger
	warned    map[string]bool
}

// NewStore returns an empty store. Load schemas into it before asking
// for attributes; an empty store answers everything with ErrNoSchema.
func NewStore(log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{
		providers: map[string]providerSchema{},
		cache:     map[string]map[string]AttributeMetadata{},
		warned:    map[string]bool{},
		log:       log,
	}
}

// LoadFile reads a `terraform providers schema -json` document.
func (s *Store) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: read %s: %v", ErrLoad, path, err)
	}
	return s.Load(data)
}

// Load decodes a schema document and merges its providers into the
// store.
func (s *Store) Load(data []byte) error {
	var doc struct {
		ProviderSchemas map[string]providerSchema `json:"provider_schemas"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: decode: %v", ErrLoad, err)
	}
	if len(doc.ProviderSchemas) == 0 {
		return fmt.Errorf("%w: document has no provider_schemas", ErrLoad)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for uri, ps := range doc.ProviderSchemas {
		s.providers[uri] = ps
	}
	return nil
}

// LoadEmbedded merges provider schemas some plan files carry inline.
func (s *Store) LoadEmbedded(raw map[string]json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for uri, doc := range raw {
		var ps providerSchema
		if err := json.Unmarshal(doc, &ps); err != nil {
			return fmt.Errorf("%w: provider %s: %v", ErrLoad, uri, err)
		}
		s.providers[uri] = ps
	}
	return nil
}

// ProviderCount reports how many providers are loaded.
func (s *Store) ProviderCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.providers)
}

// ResourceAttributes returns parsed attribute metadata for a resource
// type. Attributes that fail to parse are skipped with a warning.
func (s *Store) ResourceAttributes(resourceType string) (map[string]AttributeMetadata, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cached, ok := s.cache[resourceType]; ok {
		return cached, nil
	}

	rs, ok := s.lookupLocked(resourceType)
	if !ok {
		if !s.warned[resourceType] {
			s.warned[resourceType] = true
			s.log.Warn("no provider schema, falling back to name heuristics",
				"resource_type", resourceType)
		}
		return nil, fmt.Errorf("%w: %s", ErrNoSchema, resourceType)
	}

	attrs := make(map[string]AttributeMetadata, len(rs.Block.Attributes))
	for name, raw := range rs.Block.Attributes {
		meta, err := ParseAttribute(raw)
		if err != nil {
			s.log.Warn("skipping attribute with unparseable schema",
				"resource_type", resourceType, "attribute", name, "error", err)
			continue
		}
		attrs[name] = meta
	}
	s.cache[resourceType] = attrs
	return attrs, nil
}

func (s *Store) lookupLocked(resourceType string) (resourceSchema, bool) {
	for _, m := range providerURIs {
		if strings.HasPrefix(resourceType, m.prefix) {
			if ps, ok := s.providers[m.uri]; ok {
				if rs, ok := ps.ResourceSchemas[resourceType]; ok {
					return rs, true
				}
			}
			break
		}
	}
	// Unknown prefix, or the mapped provider lacks the type: search
	// every loaded provider.
	for _, ps := range s.providers {
		if rs, ok := ps.ResourceSchemas[resourceType]; ok {
			return rs, true
		}
	}
	return resourceSchema{}, false
}

// Candidates returns the attributes that could serve as import IDs,
// best first by metadata score, ties broken by name.
func (s *Store) Candidates(resourceType string) ([]string, error) {
	attrs, err := s.ResourceAttributes(resourceType)
	if err != nil {
		return nil, err
	}
	var names []string
	for name, meta := range attrs {
		if meta.PotentialID() {
			names = append(names, name)
		}
	}
	sort.Slice(names, func(i, j int) bool {
		si, sj := attrs[names[i]].BaseScore(), attrs[names[j]].BaseScore()
		if si != sj {
			return si > sj
		}
		return names[i] < names[j]
	})
	return names, nil
}

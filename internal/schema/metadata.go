package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrBadAttribute marks a schema attribute definition that could not be
// parsed. The attribute is skipped; the rest of the resource is fine.
var ErrBadAttribute = errors.New("unparseable attribute definition")

// AttributeMetadata is the decoded schema entry for one resource
// attribute. Type carries the raw cty type as Terraform emits it:
// either a bare string ("string") or a list shape (["list","string"]).
type AttributeMetadata struct {
	Required        bool
	Optional        bool
	Computed        bool
	Sensitive       bool
	Type            any
	Description     string
	DescriptionKind string
}

// ParseAttribute decodes a single attribute definition from provider
// schema JSON.
func ParseAttribute(raw json.RawMessage) (AttributeMetadata, error) {
	var def struct {
		Type            json.RawMessage `json:"type"`
		Required        bool            `json:"required"`
		Optional        bool            `json:"optional"`
		Computed        bool            `json:"computed"`
		Sensitive       bool            `json:"sensitive"`
		Description     string          `json:"description"`
		DescriptionKind string          `json:"description_kind"`
	}
	if err := json.Unmarshal(raw, &def); err != nil {
		return AttributeMetadata{}, fmt.Errorf("%w: %v", ErrBadAttribute, err)
	}
	meta := AttributeMetadata{
		Required:        def.Required,
		Optional:        def.Optional,
		Computed:        def.Computed,
		Sensitive:       def.Sensitive,
		Description:     def.Description,
		DescriptionKind: def.DescriptionKind,
	}
	if len(def.Type) > 0 {
		var t any
		if err := json.Unmarshal(def.Type, &t); err != nil {
			return AttributeMetadata{}, fmt.Errorf("%w: type: %v", ErrBadAttribute, err)
		}
		meta.Type = t
	}
	return meta, nil
}

// IsString reports whether the attribute is string-typed.
func (m AttributeMetadata) IsString() bool {
	s, ok := m.Type.(string)
	return ok && s == "string"
}

// BaseScore is the schema-only likelihood that this attribute holds an
// importable identifier, before any provider strategy weighs in.
func (m AttributeMetadata) BaseScore() float64 {
	score := 30.0
	if m.Required {
		score += 15
	}
	if m.Computed {
		score += 10
	}
	if m.IsString() {
		score += 5
	}
	desc := strings.ToLower(m.Description)
	if strings.Contains(desc, "unique") || strings.Contains(desc, "identifier") {
		score += 8
	} else if strings.Contains(desc, "id") || strings.Contains(desc, "name") {
		score += 5
	}
	return score
}

// PotentialID reports whether the attribute can plausibly serve as an
// import ID: string-typed and either required or computed.
func (m AttributeMetadata) PotentialID() bool {
	return m.IsString() && (m.Required || m.Computed)
}

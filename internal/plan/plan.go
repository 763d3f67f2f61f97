// Package plan decodes Terraform plan JSON and walks its module tree.
package plan

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrParse marks a plan file this tool cannot work from. There is no
// fallback for a broken plan; callers should abort.
var ErrParse = errors.New("plan parse error")

// Plan is the subset of `terraform show -json` output the importer reads.
type Plan struct {
	FormatVersion    string                     `json:"format_version"`
	TerraformVersion string                     `json:"terraform_version"`
	Variables        map[string]Variable        `json:"variables,omitempty"`
	PlannedValues    PlannedValues              `json:"planned_values"`
	ResourceChanges  []ResourceChange           `json:"resource_changes,omitempty"`
	ProviderSchemas  map[string]json.RawMessage `json:"provider_schemas,omitempty"`
}

type Variable struct {
	Value any `json:"value"`
}

type PlannedValues struct {
	RootModule Module `json:"root_module"`
}

// Module is a node in the plan's module tree. Child modules nest
// arbitrarily deep.
type Module struct {
	Address      string     `json:"address,omitempty"`
	Resources    []Resource `json:"resources,omitempty"`
	ChildModules []Module   `json:"child_modules,omitempty"`
}

// Resource is a planned resource instance.
type Resource struct {
	Address         string          `json:"address"`
	Mode            string          `json:"mode"`
	Type            string          `json:"type"`
	Name            string          `json:"name"`
	ProviderName    string          `json:"provider_name,omitempty"`
	SchemaVersion   json.Number     `json:"schema_version,omitempty"`
	Values          map[string]any  `json:"values,omitempty"`
	SensitiveValues json.RawMessage `json:"sensitive_values,omitempty"`
	DependsOn       []string        `json:"depends_on,omitempty"`
}

type ResourceChange struct {
	Address      string `json:"address"`
	Mode         string `json:"mode,omitempty"`
	Type         string `json:"type"`
	Name         string `json:"name"`
	ProviderName string `json:"provider_name,omitempty"`
	Change       Change `json:"change"`
}

type Change struct {
	Actions []string       `json:"actions"`
	After   map[string]any `json:"after,omitempty"`
}

// Load reads a plan JSON file. A file that does not decode, or decodes
// to something without planned values, is fatal.
func Load(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrParse, path, err)
	}
	var p Plan
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrParse, path, err)
	}
	if p.PlannedValues.RootModule.Resources == nil &&
		p.PlannedValues.RootModule.ChildModules == nil &&
		len(p.ResourceChanges) == 0 {
		return nil, fmt.Errorf("%w: %s has neither planned_values nor resource_changes", ErrParse, path)
	}
	return &p, nil
}

// Collect returns every managed resource in the plan, root module
// first, then child modules in document order. Plans rendered with
// only the flat resource_changes shape are normalized into the same
// resource model, taking planned values from change.after.
func (p *Plan) Collect() []Resource {
	var out []Resource
	var walk func(m Module)
	walk = func(m Module) {
		for _, r := range m.Resources {
			if r.Mode == "" || r.Mode == "managed" {
				out = append(out, r)
			}
		}
		for _, c := range m.ChildModules {
			walk(c)
		}
	}
	walk(p.PlannedValues.RootModule)
	if len(out) > 0 {
		return out
	}
	for _, rc := range p.ResourceChanges {
		if rc.Mode != "" && rc.Mode != "managed" {
			continue
		}
		if rc.Change.After == nil {
			continue
		}
		out = append(out, Resource{
			Address:      rc.Address,
			Mode:         rc.Mode,
			Type:         rc.Type,
			Name:         rc.Name,
			ProviderName: rc.ProviderName,
			Values:       rc.Change.After,
		})
	}
	return out
}

// StringValue returns the planned value of an attribute if it is a
// non-empty string.
func (r Resource) StringValue(attr string) (string, bool) {
	v, ok := r.Values[attr]
	if !ok || v == nil {
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

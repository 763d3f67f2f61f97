// Package fixtures writes minimal plan, manifest, and configuration
// trees for trying the importer without real infrastructure.
package fixtures

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"
	"gopkg.in/yaml.v3"
)

// Spec describes the fixture tree to generate. Loaded from YAML when a
// manifest is given, otherwise Default() applies.
type Spec struct {
	Modules []ModuleSpec `yaml:"modules"`
}

type ModuleSpec struct {
	Key       string         `yaml:"key"`
	Resources []ResourceSpec `yaml:"resources"`
}

type ResourceSpec struct {
	Type   string            `yaml:"type"`
	Name   string            `yaml:"name"`
	Values map[string]string `yaml:"values"`
}

// Default is the built-in fixture: one GCP repository and one S3
// bucket across two modules.
func Default() Spec {
	return Spec{
		Modules: []ModuleSpec{
			{
				Key: "registry",
				Resources: []ResourceSpec{{
					Type: "google_artifact_registry_repository",
					Name: "docker",
					Values: map[string]string{
						"repository_id": "mock-repo",
						"project":       "my-project",
						"location":      "europe-west1",
						"format":        "DOCKER",
					},
				}},
			},
			{
				Key: "storage",
				Resources: []ResourceSpec{{
					Type: "aws_s3_bucket",
					Name: "artifacts",
					Values: map[string]string{
						"bucket": "mock-artifacts",
						"arn":    "arn:aws:s3:::mock-artifacts",
					},
				}},
			},
		},
	}
}

// LoadSpec reads a fixture spec from YAML.
func LoadSpec(path string) (Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Spec{}, fmt.Errorf("read fixture spec %s: %w", path, err)
	}
	var s Spec
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Spec{}, fmt.Errorf("decode fixture spec %s: %w", path, err)
	}
	if len(s.Modules) == 0 {
		return Spec{}, fmt.Errorf("fixture spec %s declares no modules", path)
	}
	return s, nil
}

// Generate writes the fixture tree under dir: a plan file, a modules
// manifest, and per-module .tf configuration.
func Generate(dir string, spec Spec) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	type manifestEntry struct {
		Key    string `json:"Key"`
		Source string `json:"Source"`
		Dir    string `json:"Dir"`
	}
	var manifest struct {
		Modules []manifestEntry `json:"Modules"`
	}

	type planResource struct {
		Address string         `json:"address"`
		Mode    string         `json:"mode"`
		Type    string         `json:"type"`
		Name    string         `json:"name"`
		Values  map[string]any `json:"values"`
	}
	type planModule struct {
		Resources []planResource `json:"resources"`
	}

	var childModules []planModule

	for _, mod := range spec.Modules {
		modDir := filepath.Join(dir, "modules", mod.Key)
		if err := os.MkdirAll(modDir, 0o755); err != nil {
			return err
		}
		if err := writeTF(filepath.Join(modDir, "main.tf"), mod.Resources); err != nil {
			return err
		}
		manifest.Modules = append(manifest.Modules, manifestEntry{
			Key:    mod.Key,
			Source: "./modules/" + mod.Key,
			Dir:    filepath.Join("modules", mod.Key),
		})

		var pm planModule
		for _, res := range mod.Resources {
			values := make(map[string]any, len(res.Values))
			for k, v := range res.Values {
				values[k] = v
			}
			pm.Resources = append(pm.Resources, planResource{
				Address: fmt.Sprintf("module.%s.%s.%s", mod.Key, res.Type, res.Name),
				Mode:    "managed",
				Type:    res.Type,
				Name:    res.Name,
				Values:  values,
			})
		}
		childModules = append(childModules, pm)
	}

	planDoc := map[string]any{
		"format_version":    "1.2",
		"terraform_version": "1.9.0",
		"planned_values": map[string]any{
			"root_module": map[string]any{
				"child_modules": childModules,
			},
		},
	}

	if err := writeJSON(filepath.Join(dir, "out.json"), planDoc); err != nil {
		return err
	}
	return writeJSON(filepath.Join(dir, "modules.json"), manifest)
}

// writeTF renders resource blocks with hclwrite so the generated
// configuration is valid HCL, not string templates.
func writeTF(path string, resources []ResourceSpec) error {
	f := hclwrite.NewEmptyFile()
	body := f.Body()
	for _, res := range resources {
		block := body.AppendNewBlock("resource", []string{res.Type, res.Name})
		keys := make([]string, 0, len(res.Values))
		for k := range res.Values {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			block.Body().SetAttributeValue(k, cty.StringVal(res.Values[k]))
		}
		body.AppendNewline()
	}
	return os.WriteFile(path, f.Bytes(), 0o644)
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

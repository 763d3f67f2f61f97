package infer

import (
	"context"
	"errors"
	"testing"

	"github.com/plancraft/tgimport/internal/plan"
	"github.com/plancraft/tgimport/internal/schema"
)

const gcpSchemaDoc = `{
	"provider_schemas": {
		"registry.terraform.io/hashicorp/google": {
			"resource_schemas": {
				"google_artifact_registry_repository": {
					"block": {
						"attributes": {
							"repository_id": {"type": "string", "required": true},
							"name": {"type": "string", "computed": true},
							"project": {"type": "string", "optional": true},
							"location": {"type": "string", "required": true},
							"labels": {"type": ["map", "string"], "optional": true}
						}
					}
				}
			}
		}
	}
}`

func gcpStore(t *testing.T) *schema.Store {
	t.Helper()
	s := schema.NewStore(nil)
	if err := s.Load([]byte(gcpSchemaDoc)); err != nil {
		t.Fatal(err)
	}
	return s
}

func TestInferComposesGCPPath(t *testing.T) {
	engine := NewEngine(gcpStore(t), nil)
	res := plan.Resource{
		Address: "module.registry.google_artifact_registry_repository.docker",
		Type:    "google_artifact_registry_repository",
		Values: map[string]any{
			"repository_id": "mock-repo",
			"project":       "my-project",
			"location":      "europe-west1",
		},
	}
	got, err := engine.Infer(context.Background(), res)
	if err != nil {
		t.Fatal(err)
	}
	if got.Attribute != "repository_id" {
		t.Errorf("attribute = %s, want repository_id", got.Attribute)
	}
	want := "projects/my-project/locations/europe-west1/repositories/mock-repo"
	if got.ID != want {
		t.Errorf("ID = %s, want %s", got.ID, want)
	}
}

func TestInferCompositionFallsBackWithoutLocation(t *testing.T) {
	engine := NewEngine(gcpStore(t), nil)
	res := plan.Resource{
		Type: "google_artifact_registry_repository",
		Values: map[string]any{
			"repository_id": "mock-repo",
			"project":       "my-project",
		},
	}
	got, err := engine.Infer(context.Background(), res)
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != "mock-repo" {
		t.Errorf("ID = %s, want raw value", got.ID)
	}
}

func TestInferSkipsEmptyAndNullValues(t *testing.T) {
	engine := NewEngine(gcpStore(t), nil)
	res := plan.Resource{
		Type: "google_artifact_registry_repository",
		Values: map[string]any{
			"repository_id": "",
			"name":          nil,
			"location":      "us",
		},
	}
	got, err := engine.Infer(context.Background(), res)
	if err != nil {
		t.Fatal(err)
	}
	if got.Attribute != "location" {
		t.Errorf("attribute = %s, want location", got.Attribute)
	}
}

func TestInferExcludesNonScalarValues(t *testing.T) {
	engine := NewEngine(gcpStore(t), nil)
	res := plan.Resource{
		Type: "google_artifact_registry_repository",
		Values: map[string]any{
			"repository_id": map[string]any{"nested": "thing"},
			"name":          "fallback-name",
		},
	}
	got, err := engine.Infer(context.Background(), res)
	if err != nil {
		t.Fatal(err)
	}
	if got.Attribute != "name" {
		t.Errorf("attribute = %s, want name", got.Attribute)
	}
}

func TestInferNoGuess(t *testing.T) {
	engine := NewEngine(gcpStore(t), nil)
	res := plan.Resource{
		Address: "google_artifact_registry_repository.empty",
		Type:    "google_artifact_registry_repository",
		Values:  map[string]any{"labels": map[string]any{"env": "dev"}},
	}
	if _, err := engine.Infer(context.Background(), res); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestHeuristicFallbackWithoutSchema(t *testing.T) {
	engine := NewEngine(schema.NewStore(nil), nil)

	tests := []struct {
		name     string
		values   map[string]any
		wantAttr string
		wantID   string
	}{
		{
			"arn wins over name",
			map[string]any{"arn": "arn:aws:s3:::b", "name": "b", "id": "b"},
			"arn", "arn:aws:s3:::b",
		},
		{
			"azure shaped value wins over name",
			map[string]any{
				"name": "acct",
				"id":   "/subscriptions/sub-1/resourceGroups/rg/providers/Microsoft.Storage/storageAccounts/acct",
			},
			"id", "/subscriptions/sub-1/resourceGroups/rg/providers/Microsoft.Storage/storageAccounts/acct",
		},
		{
			"name before bucket",
			map[string]any{"name": "thing", "bucket": "b"},
			"name", "thing",
		},
		{
			"repository_id before bucket",
			map[string]any{"repository_id": "repo", "bucket": "b"},
			"repository_id", "repo",
		},
		{
			"id suffix scan as last resort",
			map[string]any{"zone_id": "Z123", "ttl": float64(300)},
			"zone_id", "Z123",
		},
		{
			"empty arn falls through to name",
			map[string]any{"arn": "", "name": "thing"},
			"name", "thing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := plan.Resource{Type: "mystery_thing", Values: tt.values}
			got, err := engine.Infer(context.Background(), res)
			if err != nil {
				t.Fatal(err)
			}
			if got.Attribute != tt.wantAttr || got.ID != tt.wantID {
				t.Errorf("got %s=%s, want %s=%s", got.Attribute, got.ID, tt.wantAttr, tt.wantID)
			}
			if !got.Heuristic {
				t.Error("expected heuristic result")
			}
		})
	}
}

func TestHeuristicNoGuess(t *testing.T) {
	engine := NewEngine(schema.NewStore(nil), nil)
	res := plan.Resource{
		Address: "mystery_thing.x",
		Type:    "mystery_thing",
		Values:  map[string]any{"ttl": float64(300), "tags": map[string]any{}},
	}
	if _, err := engine.Infer(context.Background(), res); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestComposeIDPassesThroughFullPaths(t *testing.T) {
	res := plan.Resource{
		Type: "google_artifact_registry_repository",
		Values: map[string]any{
			"project":  "my-project",
			"location": "europe-west1",
		},
	}
	full := "projects/other/locations/us/repositories/x"
	if got := composeID(res, full, "", ""); got != full {
		t.Errorf("composeID rewrote a full path: %s", got)
	}
}

func TestInferComposesWithEngineContext(t *testing.T) {
	engine := NewEngine(gcpStore(t), nil)
	engine.Project = "cli-project"
	engine.Location = "us-central1"
	res := plan.Resource{
		Address: "google_artifact_registry_repository.docker",
		Type:    "google_artifact_registry_repository",
		Values:  map[string]any{"repository_id": "mock-repo"},
	}
	got, err := engine.Infer(context.Background(), res)
	if err != nil {
		t.Fatal(err)
	}
	want := "projects/cli-project/locations/us-central1/repositories/mock-repo"
	if got.ID != want {
		t.Errorf("ID = %s, want %s", got.ID, want)
	}
}

func TestInferEngineContextBeatsPlannedValues(t *testing.T) {
	engine := NewEngine(gcpStore(t), nil)
	engine.Project = "cli-project"
	res := plan.Resource{
		Type: "google_artifact_registry_repository",
		Values: map[string]any{
			"repository_id": "mock-repo",
			"project":       "plan-project",
			"location":      "europe-west1",
		},
	}
	got, err := engine.Infer(context.Background(), res)
	if err != nil {
		t.Fatal(err)
	}
	want := "projects/cli-project/locations/europe-west1/repositories/mock-repo"
	if got.ID != want {
		t.Errorf("ID = %s, want %s", got.ID, want)
	}
}

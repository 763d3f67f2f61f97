package plan

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writePlan(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "out.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMalformedIsFatal(t *testing.T) {
	path := writePlan(t, `{"planned_values": `)
	if _, err := Load(path); !errors.Is(err, ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
}

func TestLoadMissingPlannedValues(t *testing.T) {
	path := writePlan(t, `{"format_version": "1.2"}`)
	if _, err := Load(path); !errors.Is(err, ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); !errors.Is(err, ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
}

func TestCollectWalksNestedModules(t *testing.T) {
	path := writePlan(t, `{
		"format_version": "1.2",
		"planned_values": {
			"root_module": {
				"resources": [
					{"address": "aws_s3_bucket.root", "mode": "managed", "type": "aws_s3_bucket", "name": "root"}
				],
				"child_modules": [
					{
						"address": "module.a",
						"resources": [
							{"address": "module.a.aws_s3_bucket.a", "mode": "managed", "type": "aws_s3_bucket", "name": "a"}
						],
						"child_modules": [
							{
								"address": "module.a.module.b",
								"resources": [
									{"address": "module.a.module.b.aws_s3_bucket.b", "mode": "managed", "type": "aws_s3_bucket", "name": "b"},
									{"address": "module.a.module.b.data.aws_caller_identity.me", "mode": "data", "type": "aws_caller_identity", "name": "me"}
								]
							}
						]
					}
				]
			}
		}
	}`)

	p, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	got := p.Collect()
	want := []string{
		"aws_s3_bucket.root",
		"module.a.aws_s3_bucket.a",
		"module.a.module.b.aws_s3_bucket.b",
	}
	if len(got) != len(want) {
		t.Fatalf("collected %d resources, want %d", len(got), len(want))
	}
	for i, addr := range want {
		if got[i].Address != addr {
			t.Errorf("resource %d: got %s, want %s", i, got[i].Address, addr)
		}
	}
}

func TestCollectFromResourceChangesOnly(t *testing.T) {
	path := writePlan(t, `{
		"format_version": "1.2",
		"resource_changes": [
			{
				"address": "module.storage.aws_s3_bucket.artifacts",
				"mode": "managed",
				"type": "aws_s3_bucket",
				"name": "artifacts",
				"change": {
					"actions": ["create"],
					"after": {"bucket": "mock-artifacts"}
				}
			},
			{
				"address": "data.aws_caller_identity.me",
				"mode": "data",
				"type": "aws_caller_identity",
				"name": "me",
				"change": {"actions": ["read"], "after": {}}
			},
			{
				"address": "aws_s3_bucket.gone",
				"mode": "managed",
				"type": "aws_s3_bucket",
				"name": "gone",
				"change": {"actions": ["delete"]}
			}
		]
	}`)

	p, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	got := p.Collect()
	if len(got) != 1 {
		t.Fatalf("collected %d resources, want 1", len(got))
	}
	if got[0].Address != "module.storage.aws_s3_bucket.artifacts" {
		t.Errorf("address = %s", got[0].Address)
	}
	if v, ok := got[0].StringValue("bucket"); !ok || v != "mock-artifacts" {
		t.Errorf("bucket value = %q %v", v, ok)
	}
}

func TestPlannedValuesTakePrecedenceOverChanges(t *testing.T) {
	path := writePlan(t, `{
		"planned_values": {
			"root_module": {
				"resources": [
					{"address": "aws_s3_bucket.a", "mode": "managed", "type": "aws_s3_bucket", "name": "a"}
				]
			}
		},
		"resource_changes": [
			{"address": "aws_s3_bucket.a", "mode": "managed", "type": "aws_s3_bucket", "name": "a",
			 "change": {"actions": ["create"], "after": {"bucket": "a"}}}
		]
	}`)

	p, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := p.Collect(); len(got) != 1 {
		t.Fatalf("collected %d resources, want 1", len(got))
	}
}

func TestStringValue(t *testing.T) {
	res := Resource{Values: map[string]any{
		"name":  "thing",
		"empty": "",
		"null":  nil,
		"count": float64(3),
	}}

	if v, ok := res.StringValue("name"); !ok || v != "thing" {
		t.Errorf("name: got %q %v", v, ok)
	}
	for _, attr := range []string{"empty", "null", "count", "absent"} {
		if _, ok := res.StringValue(attr); ok {
			t.Errorf("%s should not yield a value", attr)
		}
	}
}

package importer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/plancraft/tgimport/internal/infer"
	"github.com/plancraft/tgimport/internal/modules"
	"github.com/plancraft/tgimport/internal/plan"
	"github.com/plancraft/tgimport/internal/schema"
	"github.com/plancraft/tgimport/internal/terragrunt"
)

func stubBinary(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "terragrunt")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func stubClient(t *testing.T, script string) *terragrunt.Client {
	t.Helper()
	c := terragrunt.NewClient(nil)
	c.Binary = stubBinary(t, script)
	return c
}

func TestCommandString(t *testing.T) {
	cmd := Command{Dir: "envs/dev/registry", Address: "module.registry.google_artifact_registry_repository.docker", ID: "mock-repo"}
	want := "terragrunt import -config-dir=envs/dev/registry module.registry.google_artifact_registry_repository.docker mock-repo"
	if got := cmd.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestBuilderSeparatesCommandsAndSkips(t *testing.T) {
	engine := infer.NewEngine(schema.NewStore(nil), nil)
	builder := NewBuilder(engine, nil, nil)

	mappings := []modules.Mapping{
		{
			Resource: plan.Resource{
				Address: "module.storage.aws_s3_bucket.artifacts",
				Type:    "aws_s3_bucket",
				Values:  map[string]any{"bucket": "mock-artifacts"},
			},
			ModuleKey: "storage",
			Dir:       "envs/dev/storage",
		},
		{
			Resource: plan.Resource{
				Address: "module.storage.aws_s3_bucket.empty",
				Type:    "aws_s3_bucket",
				Values:  map[string]any{},
			},
			ModuleKey: "storage",
			Dir:       "envs/dev/storage",
		},
	}

	cmds, skipped := builder.Build(context.Background(), mappings)
	if len(cmds) != 1 {
		t.Fatalf("got %d commands, want 1", len(cmds))
	}
	if cmds[0].ID != "mock-artifacts" {
		t.Errorf("ID = %s", cmds[0].ID)
	}
	if len(skipped) != 1 || skipped[0].Outcome != Skipped {
		t.Fatalf("skipped = %+v", skipped)
	}
}

func TestBuilderPreservesInputOrder(t *testing.T) {
	engine := infer.NewEngine(schema.NewStore(nil), nil)
	builder := NewBuilder(engine, nil, nil)
	builder.Workers = 8

	var mappings []modules.Mapping
	addrs := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	for _, a := range addrs {
		mappings = append(mappings, modules.Mapping{
			Resource: plan.Resource{
				Address: "aws_s3_bucket." + a,
				Type:    "aws_s3_bucket",
				Values:  map[string]any{"bucket": a},
			},
		})
	}
	cmds, _ := builder.Build(context.Background(), mappings)
	if len(cmds) != len(addrs) {
		t.Fatalf("got %d commands", len(cmds))
	}
	for i, a := range addrs {
		if cmds[i].ID != a {
			t.Errorf("command %d: ID = %s, want %s", i, cmds[i].ID, a)
		}
	}
}

func TestExecutorDryRun(t *testing.T) {
	executor := NewExecutor(stubClient(t, "exit 0"), nil)
	executor.DryRun = true

	results := executor.Execute(context.Background(), []Command{
		{Dir: "d", Address: "aws_s3_bucket.b", ID: "b"},
	})
	if len(results) != 1 || results[0].Outcome != DryRun {
		t.Fatalf("results = %+v", results)
	}
	if results[0].Command == "" {
		t.Error("dry run should carry the command string")
	}
}

func TestExecutorSuccess(t *testing.T) {
	executor := NewExecutor(stubClient(t, "exit 0"), nil)
	results := executor.Execute(context.Background(), []Command{
		{Dir: t.TempDir(), Address: "aws_s3_bucket.b", ID: "b"},
	})
	if results[0].Outcome != Success {
		t.Fatalf("outcome = %v, err = %v", results[0].Outcome, results[0].Err)
	}
}

func TestExecutorAlreadyInState(t *testing.T) {
	executor := NewExecutor(stubClient(t, `echo "Error: Resource already managed by Terraform" >&2; exit 1`), nil)
	results := executor.Execute(context.Background(), []Command{
		{Dir: t.TempDir(), Address: "aws_s3_bucket.b", ID: "b"},
	})
	if results[0].Outcome != AlreadyInState {
		t.Fatalf("outcome = %v", results[0].Outcome)
	}
}

func TestExecutorFailureContinues(t *testing.T) {
	dir := t.TempDir()
	executor := NewExecutor(stubClient(t, `echo "boom" >&2; exit 1`), nil)
	results := executor.Execute(context.Background(), []Command{
		{Dir: dir, Address: "aws_s3_bucket.a", ID: "a"},
		{Dir: dir, Address: "aws_s3_bucket.b", ID: "b"},
	})
	if len(results) != 2 {
		t.Fatalf("run stopped early: %+v", results)
	}
	for _, r := range results {
		if r.Outcome != Failed {
			t.Errorf("outcome = %v", r.Outcome)
		}
		if r.ExitCode != 1 {
			t.Errorf("exit code = %d", r.ExitCode)
		}
	}
}

package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/plancraft/tgimport/internal/config"
	"github.com/plancraft/tgimport/internal/fixtures"
)

func fixtureOpts(t *testing.T) config.Options {
	t.Helper()
	dir := t.TempDir()
	if err := fixtures.Generate(dir, fixtures.Default()); err != nil {
		t.Fatal(err)
	}
	opts := config.Defaults()
	opts.PlanPath = filepath.Join(dir, "out.json")
	opts.ModulesPath = filepath.Join(dir, "modules.json")
	opts.ModuleRoot = dir
	opts.JSON = true
	return opts
}

func TestRunDryRun(t *testing.T) {
	opts := fixtureOpts(t)
	opts.DryRun = true

	stats, err := Run(context.Background(), opts, nil)
	if err != nil {
		t.Fatal(err)
	}
	if stats.DryRun != 2 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.HasFailures() {
		t.Error("dry run should not fail")
	}
}

func TestRunWithStubTerragrunt(t *testing.T) {
	binDir := t.TempDir()
	stub := filepath.Join(binDir, "terragrunt")
	if err := os.WriteFile(stub, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))

	opts := fixtureOpts(t)
	opts.Timeout = 30 * time.Second

	stats, err := Run(context.Background(), opts, nil)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Imported != 2 || stats.Failed != 0 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestRunFilter(t *testing.T) {
	opts := fixtureOpts(t)
	opts.DryRun = true
	opts.Filter = `type.startsWith("google_")`

	stats, err := Run(context.Background(), opts, nil)
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalProcessed() != 1 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestProgressUIRequiresTerminal(t *testing.T) {
	opts := config.Defaults()
	// stdout is a pipe under the test runner, never a terminal
	if useProgressUI(opts) {
		t.Error("progress UI enabled without a terminal")
	}
}

func TestRunRejectsMissingPlan(t *testing.T) {
	opts := config.Defaults()
	opts.PlanPath = filepath.Join(t.TempDir(), "missing.json")
	if _, err := Run(context.Background(), opts, nil); err == nil {
		t.Fatal("expected error")
	}
}

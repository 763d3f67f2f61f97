// Package config holds the resolved options for a run.
package config

import (
	"fmt"
	"os"
	"time"
)

// Options is everything the run pipeline needs, resolved from flags,
// environment, and the config file.
type Options struct {
	PlanPath    string
	ModulesPath string
	ModuleRoot  string
	SchemaPath  string

	Project  string
	Location string

	Filter  string
	DryRun  bool
	Pick    bool
	JSON    bool
	Verbose bool

	Timeout time.Duration
	Workers int

	OTLPEndpoint string
}

// Defaults returns the baseline options.
func Defaults() Options {
	return Options{
		PlanPath:    "out.json",
		ModulesPath: "modules.json",
		ModuleRoot:  ".",
		Timeout:     5 * time.Minute,
		Workers:     4,
	}
}

// Validate checks that the required inputs exist.
func (o Options) Validate() error {
	if o.PlanPath == "" {
		return fmt.Errorf("plan path is required")
	}
	if _, err := os.Stat(o.PlanPath); err != nil {
		return fmt.Errorf("plan file %s: %w", o.PlanPath, err)
	}
	if o.SchemaPath != "" {
		if _, err := os.Stat(o.SchemaPath); err != nil {
			return fmt.Errorf("schema file %s: %w", o.SchemaPath, err)
		}
	}
	if o.Workers < 1 {
		return fmt.Errorf("workers must be positive, got %d", o.Workers)
	}
	return nil
}

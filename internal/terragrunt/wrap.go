package terragrunt

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
)

// PlanOutFile is the binary plan artifact the plan wrapper writes.
const PlanOutFile = "out.tfplan"

// Init runs `terragrunt init --all` across the tree rooted at dir.
func (c *Client) Init(ctx context.Context, dir string) error {
	_, err := c.Run(ctx, dir, "init", "--all")
	return err
}

// Plan runs `terragrunt plan --all -out out.tfplan` and returns the
// parsed change counts from the output.
func (c *Client) Plan(ctx context.Context, dir string) (PlanSummary, error) {
	out, err := c.Run(ctx, dir, "plan", "--all", "-out", PlanOutFile)
	if err != nil {
		return PlanSummary{}, err
	}
	return ExtractPlanSummary(string(out)), nil
}

// Apply runs `terragrunt apply --all` non-interactively. With safe set
// a module failure does not abort the remaining modules.
func (c *Client) Apply(ctx context.Context, dir string, safe bool) error {
	args := []string{"apply", "--all", "-auto-approve"}
	if safe {
		args = append(args, "--terragrunt-ignore-dependency-errors")
	}
	_, err := c.Run(ctx, dir, args...)
	if err != nil && safe {
		var cmdErr *CommandError
		if errors.As(err, &cmdErr) {
			c.log.Warn("apply failed, continuing in safe mode", "error", cmdErr)
			return nil
		}
	}
	return err
}

// Destroy runs `terragrunt destroy --all` non-interactively.
func (c *Client) Destroy(ctx context.Context, dir string, safe bool) error {
	_, err := c.Run(ctx, dir, "destroy", "--all", "-auto-approve")
	if err != nil && safe {
		var cmdErr *CommandError
		if errors.As(err, &cmdErr) {
			c.log.Warn("destroy failed, continuing in safe mode", "error", cmdErr)
			return nil
		}
	}
	return err
}

// Validate initializes without a backend and then validates, so the
// tree checks without remote state credentials.
func (c *Client) Validate(ctx context.Context, dir string) error {
	if _, err := c.Run(ctx, dir, "init", "-backend=false"); err != nil {
		return err
	}
	_, err := c.Run(ctx, dir, "validate")
	return err
}

// Fmt formats the configuration under dir recursively. With check set
// nothing is rewritten and formatting drift surfaces as an error.
func (c *Client) Fmt(ctx context.Context, dir string, check bool) error {
	args := []string{"fmt", "-recursive"}
	if check {
		args = append(args, "-check")
	}
	_, err := c.Run(ctx, dir, args...)
	return err
}

// PlanSummary is the aggregate of "Plan: X to add, Y to change, Z to
// destroy." lines across modules.
type PlanSummary struct {
	Add     int
	Change  int
	Destroy int
}

var planLine = regexp.MustCompile(`Plan: (\d+) to add, (\d+) to change, (\d+) to destroy`)

// ExtractPlanSummary sums every plan line in terragrunt output.
func ExtractPlanSummary(output string) PlanSummary {
	var s PlanSummary
	for _, m := range planLine.FindAllStringSubmatch(output, -1) {
		add, _ := strconv.Atoi(m[1])
		change, _ := strconv.Atoi(m[2])
		destroy, _ := strconv.Atoi(m[3])
		s.Add += add
		s.Change += change
		s.Destroy += destroy
	}
	return s
}

// cleanTargets are artifacts this tool and terragrunt leave behind.
var cleanTargets = []string{
	".terragrunt-cache",
	".terraform",
	SchemaFileName,
	PlanOutFile,
}

// Clean removes cached and generated artifacts under dir.
func Clean(dir string) ([]string, error) {
	var removed []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		for _, t := range cleanTargets {
			if info.Name() == t {
				if rmErr := os.RemoveAll(path); rmErr != nil {
					return rmErr
				}
				removed = append(removed, path)
				if info.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
		}
		return nil
	})
	return removed, err
}

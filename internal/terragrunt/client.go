// Package terragrunt shells out to the terragrunt binary.
package terragrunt

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// DefaultTimeout bounds a single terragrunt invocation.
const DefaultTimeout = 5 * time.Minute

// automationEnv is appended to every invocation so terraform behaves
// in CI terms: no prompts, no checkpoint calls.
var automationEnv = []string{
	"TF_IN_AUTOMATION=true",
	"CHECKPOINT_DISABLE=true",
	"AWS_EC2_METADATA_DISABLED=true",
}

// CommandError carries the captured output of a failed invocation.
type CommandError struct {
	Args     []string
	ExitCode int
	Stdout   string
	Stderr   string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("terragrunt %s failed with status %d: %s",
		strings.Join(e.Args, " "), e.ExitCode, strings.TrimSpace(e.Stderr))
}

// Client executes terragrunt commands in a working directory.
type Client struct {
	Binary  string
	Timeout time.Duration
	log     *slog.Logger
}

func NewClient(log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	return &Client{Binary: "terragrunt", Timeout: DefaultTimeout, log: log}
}

// IsInstalled checks for the terragrunt binary.
func (c *Client) IsInstalled() bool {
	_, err := exec.LookPath(c.Binary)
	return err == nil
}

// Run executes terragrunt with the given args in dir, returning stdout.
func (c *Client) Run(ctx context.Context, dir string, args ...string) ([]byte, error) {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, c.Binary, args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), automationEnv...)

	c.log.Debug("running terragrunt", "dir", dir, "args", args)
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return output, &CommandError{
				Args:     args,
				ExitCode: exitErr.ExitCode(),
				Stdout:   string(output),
				Stderr:   string(exitErr.Stderr),
			}
		}
		return nil, fmt.Errorf("terragrunt %s: %w", strings.Join(args, " "), err)
	}
	return output, nil
}

// Import runs `terragrunt import <address> <id>` in dir.
func (c *Client) Import(ctx context.Context, dir, address, id string) ([]byte, error) {
	return c.Run(ctx, dir, "import", address, id)
}

// ProvidersSchema runs `terragrunt providers schema -json` in dir and
// returns the raw document.
func (c *Client) ProvidersSchema(ctx context.Context, dir string) ([]byte, error) {
	return c.Run(ctx, dir, "providers", "schema", "-json")
}

// SchemaFileName is where WriteProviderSchema drops the document.
const SchemaFileName = ".terragrunt-provider-schema.json"

// WriteProviderSchema generates the provider schema for dir and writes
// it next to the configuration.
func (c *Client) WriteProviderSchema(ctx context.Context, dir string) (string, error) {
	data, err := c.ProvidersSchema(ctx, dir)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, SchemaFileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write schema file %s: %w", path, err)
	}
	return path, nil
}

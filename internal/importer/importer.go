// Package importer builds and executes terragrunt import commands.
package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/plancraft/tgimport/internal/infer"
	"github.com/plancraft/tgimport/internal/modules"
	"github.com/plancraft/tgimport/internal/policy"
	"github.com/plancraft/tgimport/internal/terragrunt"
)

var tracer = otel.Tracer("tgimport/importer")

// Command is one resolved import invocation.
type Command struct {
	Dir          string
	Address      string
	ID           string
	ResourceType string
	ModuleKey    string
}

// String renders the dry-run form.
func (c Command) String() string {
	return fmt.Sprintf("terragrunt import -config-dir=%s %s %s", c.Dir, c.Address, c.ID)
}

// Outcome classifies what happened to one resource.
type Outcome int

const (
	Success Outcome = iota
	AlreadyInState
	Skipped
	Failed
	DryRun
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "imported"
	case AlreadyInState:
		return "already in state"
	case Skipped:
		return "skipped"
	case Failed:
		return "failed"
	case DryRun:
		return "dry run"
	default:
		return "unknown"
	}
}

// Result is the per-resource record of a run.
type Result struct {
	Outcome  Outcome
	Address  string
	ID       string
	Reason   string
	Err      error
	Stderr   string
	ExitCode int
	Duration time.Duration
	Command  string
}

// Builder turns mapped resources into import commands via inference.
type Builder struct {
	Engine  *infer.Engine
	Filter  *policy.Filter
	Workers int
	log     *slog.Logger
}

func NewBuilder(engine *infer.Engine, filter *policy.Filter, log *slog.Logger) *Builder {
	if log == nil {
		log = slog.Default()
	}
	return &Builder{Engine: engine, Filter: filter, Workers: 4, log: log}
}

// Build infers IDs for every mapping. Inference may fan out across
// workers; output order always follows input order. Resources that
// fail inference become Skipped results, not commands.
func (b *Builder) Build(ctx context.Context, mappings []modules.Mapping) ([]Command, []Result) {
	ctx, span := tracer.Start(ctx, "importer.build")
	defer span.End()
	span.SetAttributes(attribute.Int("resource.count", len(mappings)))

	type slot struct {
		cmd *Command
		res *Result
	}
	slots := make([]slot, len(mappings))

	workers := b.Workers
	if workers < 1 {
		workers = 1
	}
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for i, m := range mappings {
		if !b.Filter.Match(m.Resource, m.ModuleKey) {
			continue
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, m modules.Mapping) {
			defer wg.Done()
			defer func() { <-sem }()

			result, err := b.Engine.Infer(ctx, m.Resource)
			if err != nil {
				reason := "no import identifier found"
				if !errors.Is(err, infer.ErrNotFound) {
					reason = err.Error()
				}
				slots[i] = slot{res: &Result{
					Outcome: Skipped,
					Address: m.Resource.Address,
					Reason:  reason,
					Err:     err,
				}}
				return
			}
			slots[i] = slot{cmd: &Command{
				Dir:          m.Dir,
				Address:      m.Resource.Address,
				ID:           result.ID,
				ResourceType: m.Resource.Type,
				ModuleKey:    m.ModuleKey,
			}}
		}(i, m)
	}
	wg.Wait()

	var cmds []Command
	var skipped []Result
	for _, s := range slots {
		switch {
		case s.cmd != nil:
			cmds = append(cmds, *s.cmd)
		case s.res != nil:
			skipped = append(skipped, *s.res)
		}
	}
	return cmds, skipped
}

// Executor runs import commands one at a time. Terraform state does
// not tolerate concurrent writers, so there is no parallel mode.
type Executor struct {
	Client  *terragrunt.Client
	DryRun  bool
	Timeout time.Duration
	log     *slog.Logger
}

func NewExecutor(client *terragrunt.Client, log *slog.Logger) *Executor {
	if log == nil {
		log = slog.Default()
	}
	return &Executor{Client: client, Timeout: terragrunt.DefaultTimeout, log: log}
}

// alreadyManaged is what terraform prints when the address is in state.
const alreadyManaged = "Resource already managed by Terraform"

// Execute runs the commands sequentially. Failures and timeouts are
// recorded and the run continues with the next resource.
func (e *Executor) Execute(ctx context.Context, cmds []Command) []Result {
	ctx, span := tracer.Start(ctx, "importer.execute")
	defer span.End()
	span.SetAttributes(
		attribute.Int("command.count", len(cmds)),
		attribute.Bool("dry_run", e.DryRun),
	)

	results := make([]Result, 0, len(cmds))
	for _, cmd := range cmds {
		if ctx.Err() != nil {
			results = append(results, Result{
				Outcome: Skipped, Address: cmd.Address, ID: cmd.ID,
				Reason: "run cancelled", Err: ctx.Err(),
			})
			continue
		}
		results = append(results, e.executeOne(ctx, cmd))
	}
	return results
}

func (e *Executor) executeOne(ctx context.Context, cmd Command) Result {
	ctx, span := tracer.Start(ctx, "importer.import")
	defer span.End()
	span.SetAttributes(
		attribute.String("resource.address", cmd.Address),
		attribute.String("import.id", cmd.ID),
	)

	if e.DryRun {
		e.log.Info("dry run", "command", cmd.String())
		return Result{Outcome: DryRun, Address: cmd.Address, ID: cmd.ID, Command: cmd.String()}
	}

	runCtx := ctx
	if e.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	start := time.Now()
	_, err := e.Client.Import(runCtx, cmd.Dir, cmd.Address, cmd.ID)
	elapsed := time.Since(start)

	if err == nil {
		e.log.Info("imported", "address", cmd.Address, "id", cmd.ID, "duration", elapsed)
		return Result{Outcome: Success, Address: cmd.Address, ID: cmd.ID, Duration: elapsed}
	}

	var cmdErr *terragrunt.CommandError
	if errors.As(err, &cmdErr) && strings.Contains(cmdErr.Stderr, alreadyManaged) {
		e.log.Info("already in state", "address", cmd.Address)
		return Result{Outcome: AlreadyInState, Address: cmd.Address, ID: cmd.ID, Duration: elapsed}
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	e.log.Error("import failed", "address", cmd.Address, "id", cmd.ID, "error", err)

	res := Result{Outcome: Failed, Address: cmd.Address, ID: cmd.ID, Err: err, Duration: elapsed}
	if cmdErr != nil {
		res.Stderr = cmdErr.Stderr
		res.ExitCode = cmdErr.ExitCode
	}
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		res.Outcome = Skipped
		res.Reason = "timed out"
	}
	return res
}

// Package app wires the run pipeline: plan, modules, schema,
// inference, import, report.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/plancraft/tgimport/internal/config"
	"github.com/plancraft/tgimport/internal/importer"
	"github.com/plancraft/tgimport/internal/infer"
	"github.com/plancraft/tgimport/internal/modules"
	"github.com/plancraft/tgimport/internal/plan"
	"github.com/plancraft/tgimport/internal/policy"
	"github.com/plancraft/tgimport/internal/report"
	"github.com/plancraft/tgimport/internal/schema"
	"github.com/plancraft/tgimport/internal/terragrunt"
	"github.com/plancraft/tgimport/internal/ui"
)

// Run executes the import pipeline end to end and returns the run
// stats. A non-nil error means the run could not start; per-resource
// failures land in the stats instead.
func Run(ctx context.Context, opts config.Options, log *slog.Logger) (report.Stats, error) {
	if log == nil {
		log = slog.Default()
	}
	if err := opts.Validate(); err != nil {
		return report.Stats{}, err
	}

	p, err := plan.Load(opts.PlanPath)
	if err != nil {
		return report.Stats{}, err
	}
	resources := p.Collect()
	log.Info("loaded plan", "path", opts.PlanPath, "resources", len(resources))

	manifest, err := loadManifest(opts, log)
	if err != nil {
		return report.Stats{}, err
	}
	mappings := manifest.Map(resources, opts.ModuleRoot)

	store := loadSchemas(p, opts, log)

	var filter *policy.Filter
	if opts.Filter != "" {
		filter, err = policy.Compile(opts.Filter)
		if err != nil {
			return report.Stats{}, err
		}
	}

	engine := infer.NewEngine(store, log)
	engine.Project = opts.Project
	engine.Location = opts.Location
	builder := importer.NewBuilder(engine, filter, log)
	builder.Workers = opts.Workers
	cmds, skipped := builder.Build(ctx, mappings)

	if opts.Pick && len(cmds) > 0 {
		cmds, err = pickCommands(cmds)
		if err != nil {
			return report.Stats{}, err
		}
	}

	client := terragrunt.NewClient(log)
	client.Timeout = opts.Timeout
	if !opts.DryRun && !client.IsInstalled() {
		return report.Stats{}, errors.New("terragrunt binary not found in PATH")
	}

	executor := importer.NewExecutor(client, log)
	executor.DryRun = opts.DryRun
	executor.Timeout = opts.Timeout

	var results []importer.Result
	if useProgressUI(opts) && len(cmds) > 0 {
		results = runWithProgress(ctx, executor, cmds, log)
	} else {
		results = executor.Execute(ctx, cmds)
	}
	results = append(results, skipped...)

	if opts.JSON {
		out, err := report.RenderJSON(results)
		if err != nil {
			return report.Stats{}, err
		}
		fmt.Println(string(out))
	} else {
		fmt.Print(report.Render(results))
	}
	return report.Collect(results), nil
}

// loadManifest reads modules.json, or falls back to discovering
// terragrunt.hcl files under the module root.
func loadManifest(opts config.Options, log *slog.Logger) (*modules.Manifest, error) {
	if opts.ModulesPath != "" {
		if _, err := os.Stat(opts.ModulesPath); err == nil {
			return modules.Load(opts.ModulesPath)
		}
	}
	log.Info("no modules manifest, discovering terragrunt modules", "root", opts.ModuleRoot)
	return modules.Discover(opts.ModuleRoot)
}

// loadSchemas builds the schema store from an explicit schema file or
// from schemas embedded in the plan. Load failures degrade to the
// heuristic path rather than aborting.
func loadSchemas(p *plan.Plan, opts config.Options, log *slog.Logger) *schema.Store {
	store := schema.NewStore(log)
	if opts.SchemaPath != "" {
		if err := store.LoadFile(opts.SchemaPath); err != nil {
			log.Warn("schema load failed, inference degrades to heuristics", "error", err)
		}
		return store
	}
	if len(p.ProviderSchemas) > 0 {
		if err := store.LoadEmbedded(p.ProviderSchemas); err != nil {
			log.Warn("embedded schema load failed, inference degrades to heuristics", "error", err)
		}
	}
	return store
}

func pickCommands(cmds []importer.Command) ([]importer.Command, error) {
	choices := make([]ui.Choice, len(cmds))
	for i, c := range cmds {
		choices[i] = ui.Choice{Address: c.Address, Type: c.ResourceType, Dir: c.Dir}
	}
	picked, err := ui.PickResources(choices)
	if err != nil {
		return nil, fmt.Errorf("resource picker: %w", err)
	}
	out := make([]importer.Command, 0, len(picked))
	for _, i := range picked {
		out = append(out, cmds[i])
	}
	return out, nil
}

func useProgressUI(opts config.Options) bool {
	return !opts.JSON && !opts.Verbose && !opts.DryRun &&
		isatty.IsTerminal(os.Stdout.Fd())
}

// runWithProgress drives the executor under the live progress view.
// Execution stays sequential; the UI only observes, so a view failure
// degrades to plain output without losing results.
func runWithProgress(ctx context.Context, executor *importer.Executor, cmds []importer.Command, log *slog.Logger) []importer.Result {
	prog := tea.NewProgram(ui.NewProgressModel(len(cmds)))

	resultsCh := make(chan []importer.Result, 1)
	go func() {
		results := make([]importer.Result, 0, len(cmds))
		for _, cmd := range cmds {
			prog.Send(ui.StartedMsg{Address: cmd.Address})
			res := executor.Execute(ctx, []importer.Command{cmd})
			results = append(results, res...)
			prog.Send(ui.ResultMsg{Result: res[len(res)-1]})
		}
		prog.Send(ui.DoneMsg{})
		resultsCh <- results
	}()

	if _, err := prog.Run(); err != nil {
		log.Warn("progress view failed, continuing without it", "error", err)
	}
	return <-resultsCh
}

// Package infer picks the import ID for a planned resource.
package infer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/plancraft/tgimport/internal/plan"
	"github.com/plancraft/tgimport/internal/schema"
	"github.com/plancraft/tgimport/internal/scoring"
)

var tracer = otel.Tracer("tgimport/infer")

// ErrNotFound means no attribute of the resource carries a usable ID.
// The resource is skipped; an ID is never invented.
var ErrNotFound = errors.New("no import identifier found")

// Result is a successful inference.
type Result struct {
	Attribute string
	Value     string
	ID        string
	Score     float64
	Heuristic bool
}

// Engine infers import IDs, preferring provider schema metadata and
// degrading to name heuristics when none is loaded. Project and
// Location supply path-composition context for configurations that
// inherit them from the provider block; planned values are the
// fallback.
type Engine struct {
	store *schema.Store
	log   *slog.Logger

	Project  string
	Location string
}

func NewEngine(store *schema.Store, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{store: store, log: log}
}

// Infer returns the best import ID for a resource, or ErrNotFound.
func (e *Engine) Infer(ctx context.Context, res plan.Resource) (Result, error) {
	_, span := tracer.Start(ctx, "infer.resource")
	defer span.End()
	span.SetAttributes(
		attribute.String("resource.address", res.Address),
		attribute.String("resource.type", res.Type),
	)

	var (
		result Result
		err    error
	)
	if e.store != nil {
		result, err = e.fromSchema(res)
		if errors.Is(err, schema.ErrNoSchema) {
			result, err = e.fromHeuristics(res)
		}
	} else {
		result, err = e.fromHeuristics(res)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Result{}, err
	}

	result.ID = composeID(res, result.Value, e.Project, e.Location)
	span.SetAttributes(
		attribute.String("infer.attribute", result.Attribute),
		attribute.Bool("infer.heuristic", result.Heuristic),
	)
	e.log.Debug("inferred import id",
		"address", res.Address,
		"attribute", result.Attribute,
		"score", result.Score,
		"heuristic", result.Heuristic)
	return result, nil
}

// fromSchema ranks schema attributes with the provider strategy and
// takes the best one whose planned value is a usable scalar.
func (e *Engine) fromSchema(res plan.Resource) (Result, error) {
	attrs, err := e.store.ResourceAttributes(res.Type)
	if err != nil {
		return Result{}, err
	}
	for _, cand := range scoring.Rank(res.Type, attrs) {
		raw, ok := res.Values[cand.Name]
		if !ok || raw == nil {
			continue
		}
		s, ok := raw.(string)
		if !ok {
			// Non-scalar planned value: the attribute is out, the
			// resource is not.
			e.log.Debug("excluding non-scalar attribute",
				"address", res.Address, "attribute", cand.Name)
			continue
		}
		if s == "" {
			continue
		}
		return Result{Attribute: cand.Name, Value: s, Score: cand.Score}, nil
	}
	return Result{}, fmt.Errorf("%w: %s", ErrNotFound, res.Address)
}

// fromHeuristics is the schema-free path. Fixed priority: arn, a value
// shaped like an Azure resource ID, name, repository_id, bucket, id,
// then any _id-suffixed attribute. First usable value wins.
func (e *Engine) fromHeuristics(res plan.Resource) (Result, error) {
	if v, ok := res.StringValue("arn"); ok {
		return Result{Attribute: "arn", Value: v, Score: 0, Heuristic: true}, nil
	}
	if name, v, ok := azureShapedValue(res); ok {
		return Result{Attribute: name, Value: v, Heuristic: true}, nil
	}
	for _, attr := range []string{"name", "repository_id", "bucket", "id"} {
		if v, ok := res.StringValue(attr); ok {
			return Result{Attribute: attr, Value: v, Heuristic: true}, nil
		}
	}
	var idAttrs []string
	for name := range res.Values {
		if strings.HasSuffix(name, "_id") {
			idAttrs = append(idAttrs, name)
		}
	}
	sort.Strings(idAttrs)
	for _, name := range idAttrs {
		if v, ok := res.StringValue(name); ok {
			return Result{Attribute: name, Value: v, Heuristic: true}, nil
		}
	}
	return Result{}, fmt.Errorf("%w: %s", ErrNotFound, res.Address)
}

// azureShapedValue finds a string value that is itself a full Azure
// resource ID, scanning attribute names in order for determinism.
func azureShapedValue(res plan.Resource) (string, string, bool) {
	names := make([]string, 0, len(res.Values))
	for name := range res.Values {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if v, ok := res.StringValue(name); ok && strings.HasPrefix(v, "/subscriptions/") {
			return name, v, true
		}
	}
	return "", "", false
}

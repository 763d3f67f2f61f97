// Package report aggregates import outcomes and renders the run
// summary.
package report

import (
	"sort"

	"github.com/plancraft/tgimport/internal/importer"
)

// Stats counts outcomes across one run.
type Stats struct {
	Imported       int
	AlreadyInState int
	Skipped        int
	Failed         int
	DryRun         int

	ImportedAddresses []string
}

// Record folds one result into the stats.
func (s *Stats) Record(r importer.Result) {
	switch r.Outcome {
	case importer.Success:
		s.Imported++
		s.ImportedAddresses = append(s.ImportedAddresses, r.Address)
	case importer.AlreadyInState:
		s.AlreadyInState++
	case importer.Skipped:
		s.Skipped++
	case importer.Failed:
		s.Failed++
	case importer.DryRun:
		s.DryRun++
	}
}

// Collect builds stats from a full result set.
func Collect(results []importer.Result) Stats {
	var s Stats
	for _, r := range results {
		s.Record(r)
	}
	sort.Strings(s.ImportedAddresses)
	return s
}

// TotalProcessed is every resource the run made a decision about.
func (s Stats) TotalProcessed() int {
	return s.Imported + s.AlreadyInState + s.Skipped + s.Failed + s.DryRun
}

// HasFailures reports whether the run should exit non-zero.
func (s Stats) HasFailures() bool {
	return s.Failed > 0
}

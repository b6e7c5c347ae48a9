// Package report aggregates per-kind and overall pass/fail accounting for
// one validation run, with enough detail per failure to reproduce it.
package report

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/driftcheck/driftcheck/pkg/entity"
)

// Failure is one object that failed a pipeline stage.
type Failure struct {
	// File identifies the input file, relative to the objects directory.
	File string `json:"file"`

	// Kind is the entity kind of the object, when it could be determined.
	Kind entity.Kind `json:"kind,omitempty"`

	// Stage is the pipeline stage that failed.
	Stage entity.Stage `json:"stage"`

	// Message is the failure description.
	Message string `json:"message"`

	// Violations carries the full schema violation list for
	// schema-invalid failures.
	Violations []string `json:"violations,omitempty"`
}

// KindSummary aggregates results for a single kind.
type KindSummary struct {
	// Passed counts objects of this kind that passed every stage.
	Passed int `json:"passed"`

	// Failed counts failures of this kind per stage.
	Failed map[entity.Stage]int `json:"failed,omitempty"`
}

// Report is the aggregate result of one validation run. Two runs over
// unchanged input directories produce equivalent reports (see Equivalent);
// only the run ID and timestamps differ.
type Report struct {
	// RunID uniquely identifies this run.
	RunID string `json:"run_id"`

	// StartedAt and FinishedAt bound the run.
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	// Total is the number of object files processed.
	Total int `json:"total"`

	// Passed and Failed are the overall counts.
	Passed int `json:"passed"`
	Failed int `json:"failed"`

	// Kinds aggregates results per kind.
	Kinds map[entity.Kind]*KindSummary `json:"kinds"`

	// Failures lists every failed object in processing order.
	Failures []Failure `json:"failures,omitempty"`

	// Untested lists kinds that were registered for validation but had no
	// objects in the input directory. An empty test set for a kind is
	// surfaced rather than silently counted as success.
	Untested []entity.Kind `json:"untested,omitempty"`
}

// New creates an empty report for a new run.
func New() *Report {
	return &Report{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
		Kinds:     make(map[entity.Kind]*KindSummary),
	}
}

// RecordPass records an object that passed every stage.
func (r *Report) RecordPass(kind entity.Kind) {
	r.Total++
	r.Passed++
	r.kindSummary(kind).Passed++
}

// RecordFailure records an object that failed a stage. The kind may be
// empty when the failure happened before the kind could be determined.
func (r *Report) RecordFailure(file string, verr *entity.ValidationError) {
	r.Total++
	r.Failed++

	summary := r.kindSummary(verr.Kind)
	if summary.Failed == nil {
		summary.Failed = make(map[entity.Stage]int)
	}
	summary.Failed[verr.Stage]++

	msg := verr.Message
	if verr.Err != nil {
		msg = fmt.Sprintf("%s: %s", verr.Message, verr.Err.Error())
	}
	r.Failures = append(r.Failures, Failure{
		File:       file,
		Kind:       verr.Kind,
		Stage:      verr.Stage,
		Message:    msg,
		Violations: verr.Violations,
	})
}

// Finish stamps the end of the run and records which of the given kinds saw
// zero objects.
func (r *Report) Finish(registered []entity.Kind) {
	r.FinishedAt = time.Now().UTC()
	r.Untested = nil
	for _, kind := range registered {
		if _, tested := r.Kinds[kind]; !tested {
			r.Untested = append(r.Untested, kind)
		}
	}
	sort.Slice(r.Untested, func(i, j int) bool { return r.Untested[i] < r.Untested[j] })
}

// HasFailures reports whether any object failed any stage.
func (r *Report) HasFailures() bool {
	return r.Failed > 0
}

// kindSummary returns the summary for a kind, creating it on first use.
// Failures with no determinable kind aggregate under the empty kind.
func (r *Report) kindSummary(kind entity.Kind) *KindSummary {
	summary, exists := r.Kinds[kind]
	if !exists {
		summary = &KindSummary{}
		r.Kinds[kind] = summary
	}
	return summary
}

// SortedKinds returns the kinds present in the report in lexical order.
func (r *Report) SortedKinds() []entity.Kind {
	kinds := make([]entity.Kind, 0, len(r.Kinds))
	for kind := range r.Kinds {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Equivalent reports whether two reports describe identical results,
// ignoring run identity and timing. Running the pipeline twice over
// unchanged inputs yields equivalent reports.
func (r *Report) Equivalent(other *Report) bool {
	if other == nil {
		return false
	}
	if r.Total != other.Total || r.Passed != other.Passed || r.Failed != other.Failed {
		return false
	}
	if len(r.Failures) != len(other.Failures) {
		return false
	}
	for i, f := range r.Failures {
		o := other.Failures[i]
		if f.File != o.File || f.Kind != o.Kind || f.Stage != o.Stage || f.Message != o.Message {
			return false
		}
		if len(f.Violations) != len(o.Violations) {
			return false
		}
		for j := range f.Violations {
			if f.Violations[j] != o.Violations[j] {
				return false
			}
		}
	}
	if len(r.Kinds) != len(other.Kinds) {
		return false
	}
	for kind, summary := range r.Kinds {
		theirs, exists := other.Kinds[kind]
		if !exists || summary.Passed != theirs.Passed || len(summary.Failed) != len(theirs.Failed) {
			return false
		}
		for stage, count := range summary.Failed {
			if theirs.Failed[stage] != count {
				return false
			}
		}
	}
	return true
}

// Summary writes a human-readable rendering of the report.
func (r *Report) Summary(w io.Writer) {
	fmt.Fprintf(w, "Validation run %s\n", r.RunID)
	fmt.Fprintf(w, "  %d object(s): %d passed, %d failed\n\n", r.Total, r.Passed, r.Failed)

	for _, kind := range r.SortedKinds() {
		summary := r.Kinds[kind]
		name := kind.String()
		if name == "" {
			name = "(undetermined kind)"
		}
		fmt.Fprintf(w, "  %-24s passed=%d", name, summary.Passed)
		for _, stage := range sortedStages(summary.Failed) {
			fmt.Fprintf(w, " %s=%d", stage, summary.Failed[stage])
		}
		fmt.Fprintln(w)
	}

	if len(r.Untested) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "  WARNING: %d registered kind(s) had no objects to validate:\n", len(r.Untested))
		for _, kind := range r.Untested {
			fmt.Fprintf(w, "    %s\n", kind)
		}
	}

	if len(r.Failures) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "  Failures:")
		for _, f := range r.Failures {
			fmt.Fprintf(w, "    %s [%s] %s\n", f.File, f.Stage, f.Message)
			for _, v := range f.Violations {
				fmt.Fprintf(w, "      - %s\n", v)
			}
		}
	}
}

// sortedStages returns the stages of a failure count map in lexical order.
func sortedStages(failed map[entity.Stage]int) []entity.Stage {
	stages := make([]entity.Stage, 0, len(failed))
	for stage := range failed {
		stages = append(stages, stage)
	}
	sort.Slice(stages, func(i, j int) bool { return stages[i] < stages[j] })
	return stages
}

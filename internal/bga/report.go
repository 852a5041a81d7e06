package bga

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Component names used for report bucketing.
const (
	ComponentCatalog  = "catalog"
	ComponentProfiles = "profiles"
	ComponentStats    = "stats"
	ComponentHistory  = "history"
	ComponentSessions = "sessions"
	ComponentTallies  = "tallies"
)

// ComponentStatistics counts what one component did to its records.
type ComponentStatistics struct {
	Processed int `json:"processed"`
	Inserted  int `json:"inserted"`
	Updated   int `json:"updated"`
	Unchanged int `json:"unchanged"`
	Skipped   int `json:"skipped"`
	Rejected  int `json:"rejected"`
}

func (s ComponentStatistics) String() string {
	return fmt.Sprintf("processed=%d inserted=%d updated=%d unchanged=%d skipped=%d rejected=%d",
		s.Processed, s.Inserted, s.Updated, s.Unchanged, s.Skipped, s.Rejected)
}

// RunReport accumulates per-component counts and the categorized error
// lists for one pipeline run. Safe for concurrent use by document workers.
type RunReport struct {
	mu         sync.Mutex
	Kind       string
	DryRun     bool
	StartedAt  time.Time
	FinishedAt time.Time

	components map[string]*ComponentStatistics
	parse      []*ParseError
	resolution []*ResolutionError
	validation []*ValidationError
	other      []error
}

func NewRunReport(kind string) *RunReport {
	return &RunReport{
		Kind:       kind,
		StartedAt:  time.Now().UTC(),
		components: map[string]*ComponentStatistics{},
	}
}

func (r *RunReport) component(name string) *ComponentStatistics {
	c, ok := r.components[name]
	if !ok {
		c = &ComponentStatistics{}
		r.components[name] = c
	}
	return c
}

// Component returns a copy of one component's counters.
func (r *RunReport) Component(name string) ComponentStatistics {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.component(name)
}

// CountAction records one write action as reported by a repo upsert and
// bumps the processed count.
func (r *RunReport) CountAction(componentName, action string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := r.component(componentName)
	c.Processed++
	switch action {
	case "inserted":
		c.Inserted++
	case "updated":
		c.Updated++
	case "unchanged":
		c.Unchanged++
	}
}

func (r *RunReport) CountSkipped(componentName string, n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := r.component(componentName)
	c.Processed += n
	c.Skipped += n
}

func (r *RunReport) CountProcessed(componentName string, n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.component(componentName).Processed += n
}

// Record buckets an error by taxonomy category and counts one rejected
// record against the component. Unknown error types land in the other list
// so nothing is dropped.
func (r *RunReport) Record(componentName string, err error) {
	if err == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	c := r.component(componentName)
	c.Processed++
	c.Rejected++
	switch e := err.(type) {
	case *ParseError:
		r.parse = append(r.parse, e)
	case *ResolutionError:
		r.resolution = append(r.resolution, e)
	case *ValidationError:
		r.validation = append(r.validation, e)
	default:
		r.other = append(r.other, err)
	}
}

func (r *RunReport) RecordAll(componentName string, errs []error) {
	for _, err := range errs {
		r.Record(componentName, err)
	}
}

func (r *RunReport) Finish() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.FinishedAt = time.Now().UTC()
}

// ErrorCount spans every category.
func (r *RunReport) ErrorCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.parse) + len(r.resolution) + len(r.validation) + len(r.other)
}

func (r *RunReport) HasErrors() bool { return r.ErrorCount() > 0 }

// ReportSummary is the serializable form persisted on ImportRun rows and
// printed at the end of a CLI run.
type ReportSummary struct {
	Kind             string                         `json:"kind"`
	DryRun           bool                           `json:"dry_run,omitempty"`
	DurationSeconds  float64                        `json:"duration_seconds"`
	Components       map[string]ComponentStatistics `json:"components"`
	ParseErrors      []string                       `json:"parse_errors,omitempty"`
	ResolutionErrors []string                       `json:"resolution_errors,omitempty"`
	ValidationErrors []string                       `json:"validation_errors,omitempty"`
	OtherErrors      []string                       `json:"other_errors,omitempty"`
}

func (r *RunReport) Summary() ReportSummary {
	r.mu.Lock()
	defer r.mu.Unlock()

	end := r.FinishedAt
	if end.IsZero() {
		end = time.Now().UTC()
	}
	out := ReportSummary{
		Kind:            r.Kind,
		DryRun:          r.DryRun,
		DurationSeconds: end.Sub(r.StartedAt).Seconds(),
		Components:      map[string]ComponentStatistics{},
	}
	for name, c := range r.components {
		out.Components[name] = *c
	}
	for _, e := range r.parse {
		out.ParseErrors = append(out.ParseErrors, e.Error())
	}
	for _, e := range r.resolution {
		out.ResolutionErrors = append(out.ResolutionErrors, e.Error())
	}
	for _, e := range r.validation {
		out.ValidationErrors = append(out.ValidationErrors, e.Error())
	}
	for _, e := range r.other {
		out.OtherErrors = append(out.OtherErrors, e.Error())
	}
	return out
}

// Render formats the summary for terminal output, components in name order.
func (s ReportSummary) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s run", s.Kind)
	if s.DryRun {
		b.WriteString(" (dry run)")
	}
	fmt.Fprintf(&b, " finished in %.1fs\n", s.DurationSeconds)

	names := make([]string, 0, len(s.Components))
	for name := range s.Components {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&b, "  %-10s %s\n", name, s.Components[name])
	}

	writeErrors := func(label string, errs []string) {
		if len(errs) == 0 {
			return
		}
		fmt.Fprintf(&b, "%s (%d):\n", label, len(errs))
		for _, e := range errs {
			fmt.Fprintf(&b, "  - %s\n", e)
		}
	}
	writeErrors("parse errors", s.ParseErrors)
	writeErrors("resolution errors", s.ResolutionErrors)
	writeErrors("validation errors", s.ValidationErrors)
	writeErrors("other errors", s.OtherErrors)
	return b.String()
}

// Package report assembles checker findings and graph statistics into a
// verdict and renders it as text, JSON or a Markdown relationship map.
package report

import (
	"github.com/starford/adrgraph/internal/check"
	"github.com/starford/adrgraph/internal/graph"
	"github.com/starford/adrgraph/internal/models"
)

// Verdict is the overall outcome of a run.
type Verdict string

const (
	VerdictPass Verdict = "pass"
	VerdictFail Verdict = "fail"
)

// Document is one parsed document, listed in scan order.
type Document struct {
	ID       models.ID `json:"id"`
	Label    string    `json:"label"`
	Path     string    `json:"path"`
	Checksum string    `json:"checksum"`
}

// Stats summarises the graph.
type Stats struct {
	Documents       int                         `json:"documents"`
	DependsOnEdges  int                         `json:"depends_on_edges"`
	SupersedesEdges int                         `json:"supersedes_edges"`
	Relationless    int                         `json:"relationless_documents"`
	EdgesByKind     map[models.RelationKind]int `json:"edges_by_kind"`
}

// Report is the immutable result of one validation run.
type Report struct {
	Root         string           `json:"root"`
	Marker       string           `json:"marker"`
	Documents    []Document       `json:"documents"`
	ScanWarnings []models.Finding `json:"scan_warnings"`
	Consistency  []models.Finding `json:"consistency"`
	Cycles       []models.Finding `json:"cycles"`
	Orphans      []models.Finding `json:"orphans"`
	Errors       []models.Finding `json:"errors"`
	Warnings     []models.Finding `json:"warnings"`
	Stats        Stats            `json:"stats"`
	ErrorCount   int              `json:"error_count"`
	WarningCount int              `json:"warning_count"`
	Verdict      Verdict          `json:"verdict"`
}

// Input carries everything Build needs.
type Input struct {
	Root         string
	Marker       string
	Documents    []Document
	ScanWarnings []models.Finding
	Graph        *graph.Graph
	Results      *check.Results
}

// Build assembles a report. Findings keep the fixed order consistency,
// cycles, orphans; scan warnings precede them in the warning list.
func Build(in Input) *Report {
	res := in.Results
	if res == nil {
		res = &check.Results{}
	}
	r := &Report{
		Root:         in.Root,
		Marker:       in.Marker,
		Documents:    nonNil(in.Documents),
		ScanWarnings: nonNil(in.ScanWarnings),
		Consistency:  nonNil(res.Consistency),
		Cycles:       nonNil(res.Cycles),
		Orphans:      nonNil(res.Orphans),
		Errors:       []models.Finding{},
		Warnings:     []models.Finding{},
		Stats:        buildStats(in.Graph),
	}

	r.Warnings = append(r.Warnings, r.ScanWarnings...)
	for _, group := range [][]models.Finding{r.Consistency, r.Cycles, r.Orphans} {
		for _, f := range group {
			if f.Severity == models.SeverityError {
				r.Errors = append(r.Errors, f)
			} else {
				r.Warnings = append(r.Warnings, f)
			}
		}
	}

	r.ErrorCount = len(r.Errors)
	r.WarningCount = len(r.Warnings)
	r.Verdict = VerdictPass
	if r.ErrorCount > 0 {
		r.Verdict = VerdictFail
	}
	return r
}

// Passed reports whether the verdict is pass.
func (r *Report) Passed() bool {
	return r.Verdict == VerdictPass
}

func buildStats(g *graph.Graph) Stats {
	s := Stats{EdgesByKind: make(map[models.RelationKind]int, len(models.Kinds))}
	if g == nil {
		return s
	}
	s.Documents = g.Len()
	for _, kind := range models.Kinds {
		s.EdgesByKind[kind] = g.EdgeCount(kind)
	}
	s.DependsOnEdges = s.EdgesByKind[models.DependsOn]
	s.SupersedesEdges = s.EdgesByKind[models.Supersedes]
	s.Relationless = len(g.Isolated())
	return s
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// Summary is the compact form of a report pushed to live clients.
type Summary struct {
	Verdict      Verdict `json:"verdict"`
	Documents    int     `json:"documents"`
	ErrorCount   int     `json:"error_count"`
	WarningCount int     `json:"warning_count"`
}

// Summary returns the compact form of r.
func (r *Report) Summary() Summary {
	return Summary{
		Verdict:      r.Verdict,
		Documents:    r.Stats.Documents,
		ErrorCount:   r.ErrorCount,
		WarningCount: r.WarningCount,
	}
}

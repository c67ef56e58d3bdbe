// Package adrservice holds the latest validation snapshot and answers
// queries about it for the HTTP API and the MCP server.
package adrservice

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/starford/adrgraph/internal/apperr"
	"github.com/starford/adrgraph/internal/graph"
	"github.com/starford/adrgraph/internal/index"
	"github.com/starford/adrgraph/internal/models"
	"github.com/starford/adrgraph/internal/report"
	"github.com/starford/adrgraph/internal/validator"
)

// DocumentSummary is a lightweight item in a list response.
type DocumentSummary struct {
	ID        models.ID `json:"id"`
	Label     string    `json:"label"`
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	Relations int       `json:"relations"`
}

// DocumentDetail is the full representation of one document.
type DocumentDetail struct {
	ID             models.ID                           `json:"id"`
	Label          string                              `json:"label"`
	Path           string                              `json:"path"`
	Checksum       string                              `json:"checksum"`
	Relations      map[models.RelationKind][]models.ID `json:"relations"`
	Referrers      []graph.Edge                        `json:"referrers"`
	Findings       []models.Finding                    `json:"findings"`
	SelfReferences []models.RelationKind               `json:"self_references,omitempty"`
}

// GraphView is the graph in node/link form.
type GraphView struct {
	Nodes []GraphNode  `json:"nodes"`
	Links []graph.Edge `json:"links"`
}

// GraphNode is a node in the relationship graph.
type GraphNode struct {
	ID    models.ID `json:"id"`
	Label string    `json:"label"`
	Path  string    `json:"path"`
}

// Service runs validations and keeps the most recent result.
type Service struct {
	v      *validator.Validator
	db     index.SnapshotStore
	logger *slog.Logger
	cats   []report.Category

	runMu  sync.Mutex
	mu     sync.RWMutex
	latest *validator.Result
}

// NewService creates a new service. db may be nil, in which case results
// are kept in memory only.
func NewService(v *validator.Validator, db index.SnapshotStore, logger *slog.Logger, cats []report.Category) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{v: v, db: db, logger: logger, cats: cats}
}

// Refresh re-validates the corpus and replaces the snapshot. Concurrent
// callers are serialised so the snapshot never goes backwards.
func (s *Service) Refresh(ctx context.Context) (*report.Report, error) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	var (
		res *validator.Result
		err error
	)
	if s.db != nil {
		res, err = index.Sync(ctx, s.db, s.v, s.logger)
	} else {
		res, err = s.v.Run(ctx)
	}
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.latest = res
	s.mu.Unlock()
	return res.Report, nil
}

// snapshot returns the latest result, running a validation first if none
// exists yet.
func (s *Service) snapshot(ctx context.Context) (*validator.Result, error) {
	s.mu.RLock()
	res := s.latest
	s.mu.RUnlock()
	if res != nil {
		return res, nil
	}
	if _, err := s.Refresh(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest, nil
}

// Report returns the latest report.
func (s *Service) Report(ctx context.Context) (*report.Report, error) {
	res, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return res.Report, nil
}

// Documents lists every document of the latest snapshot in scan order.
func (s *Service) Documents(ctx context.Context) ([]DocumentSummary, error) {
	res, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]DocumentSummary, 0, len(res.Report.Documents))
	for _, d := range res.Report.Documents {
		rec, ok := res.Graph.Record(d.ID)
		if !ok {
			continue
		}
		n := 0
		for _, kind := range models.Kinds {
			n += rec.Count(kind)
		}
		out = append(out, DocumentSummary{ID: d.ID, Label: d.Label, Path: d.Path, Checksum: d.Checksum, Relations: n})
	}
	return out, nil
}

// Document returns one document with its relations, referrers and the
// findings that mention it. ref may be a bare identifier ("0001") or a
// labelled one ("ADR-0001").
func (s *Service) Document(ctx context.Context, ref string) (*DocumentDetail, error) {
	res, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	id := s.ParseID(ref)
	rec, ok := res.Graph.Record(id)
	if !ok {
		return nil, apperr.ErrNotFound
	}

	detail := &DocumentDetail{
		ID:             id,
		Label:          s.v.Label(id),
		Path:           rec.Path,
		Relations:      make(map[models.RelationKind][]models.ID),
		Referrers:      nonNilSlice(res.Graph.Referrers(id)),
		Findings:       []models.Finding{},
		SelfReferences: rec.SelfReferences(),
	}
	for _, d := range res.Report.Documents {
		if d.ID == id && d.Path == rec.Path {
			detail.Checksum = d.Checksum
		}
	}
	for _, kind := range models.Kinds {
		if targets := rec.Targets(kind); len(targets) > 0 {
			detail.Relations[kind] = targets
		}
	}
	for _, group := range [][]models.Finding{res.Report.Errors, res.Report.Warnings} {
		for _, f := range group {
			if f.Source == id || f.Target == id {
				detail.Findings = append(detail.Findings, f)
			}
		}
	}
	return detail, nil
}

// Graph returns every node and declared edge of the latest snapshot.
func (s *Service) Graph(ctx context.Context) (*GraphView, error) {
	res, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	view := &GraphView{Nodes: []GraphNode{}, Links: nonNilSlice(res.Graph.Edges())}
	for _, id := range res.Graph.IDs() {
		rec, _ := res.Graph.Record(id)
		view.Nodes = append(view.Nodes, GraphNode{ID: id, Label: s.v.Label(id), Path: rec.Path})
	}
	return view, nil
}

// RelationshipMap renders the Markdown relationship map of the latest
// snapshot.
func (s *Service) RelationshipMap(ctx context.Context) (string, error) {
	res, err := s.snapshot(ctx)
	if err != nil {
		return "", err
	}
	return report.RenderMap(res.Graph, s.v.Label, s.cats), nil
}

// ParseID accepts "0001" or "<marker>-0001" and returns the identifier.
func (s *Service) ParseID(ref string) models.ID {
	ref = strings.TrimSpace(ref)
	if refs := s.v.Matcher().Refs(ref); len(refs) == 1 && s.v.Label(refs[0]) == ref {
		return refs[0]
	}
	return models.ID(ref)
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// Ready reports whether a snapshot is available.
func (s *Service) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest != nil
}

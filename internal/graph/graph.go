// Package graph holds the immutable relationship graph built from every
// parsed record of one run.
package graph

import (
	"sort"

	"github.com/starford/adrgraph/internal/models"
)

// Edge is one declared relationship.
type Edge struct {
	Source models.ID           `json:"source"`
	Target models.ID           `json:"target"`
	Kind   models.RelationKind `json:"kind"`
}

// Graph maps identifiers to their records. It is populated once by New
// and must not be mutated afterwards; checkers may read it concurrently.
type Graph struct {
	records map[models.ID]*models.Record
	ids     []models.ID
}

// New builds a graph from records. A later record with the same ID
// replaces an earlier one.
func New(records []*models.Record) *Graph {
	g := &Graph{records: make(map[models.ID]*models.Record, len(records))}
	for _, r := range records {
		g.records[r.ID] = r
	}
	g.ids = make([]models.ID, 0, len(g.records))
	for id := range g.records {
		g.ids = append(g.ids, id)
	}
	sort.Slice(g.ids, func(i, j int) bool { return g.ids[i] < g.ids[j] })
	return g
}

// Len returns the number of documents in the graph.
func (g *Graph) Len() int {
	return len(g.ids)
}

// IDs returns every identifier in ascending order.
func (g *Graph) IDs() []models.ID {
	out := make([]models.ID, len(g.ids))
	copy(out, g.ids)
	return out
}

// Has reports whether id is a document of the corpus.
func (g *Graph) Has(id models.ID) bool {
	_, ok := g.records[id]
	return ok
}

// Record returns the record for id.
func (g *Graph) Record(id models.ID) (*models.Record, bool) {
	r, ok := g.records[id]
	return r, ok
}

// Targets returns the targets id declares under kind, or nil when id is
// not in the graph.
func (g *Graph) Targets(id models.ID, kind models.RelationKind) []models.ID {
	r, ok := g.records[id]
	if !ok {
		return nil
	}
	return r.Targets(kind)
}

// EdgeCount returns the number of edges of kind across the whole graph.
func (g *Graph) EdgeCount(kind models.RelationKind) int {
	n := 0
	for _, r := range g.records {
		n += r.Count(kind)
	}
	return n
}

// Isolated returns the identifiers whose records declare nothing.
func (g *Graph) Isolated() []models.ID {
	var out []models.ID
	for _, id := range g.ids {
		if g.records[id].Empty() {
			out = append(out, id)
		}
	}
	return out
}

// Edges returns every declared edge ordered by source, kind and target.
func (g *Graph) Edges() []Edge {
	var out []Edge
	for _, id := range g.ids {
		r := g.records[id]
		for _, kind := range models.Kinds {
			for _, target := range r.Targets(kind) {
				out = append(out, Edge{Source: id, Target: target, Kind: kind})
			}
		}
	}
	return out
}

// Referrers returns every edge pointing at target, ordered like Edges.
func (g *Graph) Referrers(target models.ID) []Edge {
	var out []Edge
	for _, e := range g.Edges() {
		if e.Target == target {
			out = append(out, e)
		}
	}
	return out
}

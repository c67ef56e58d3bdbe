package check

import (
	"strings"

	"github.com/starford/adrgraph/internal/graph"
	"github.com/starford/adrgraph/internal/models"
)

// Cycles reports depends-on cycles. Every identifier is tried as a start
// node and the first path returning to it is reported, so a cycle of n
// documents is reported n times unless dedupe is set.
func Cycles(g *graph.Graph, label Labeler, dedupe bool) []models.Finding {
	var out []models.Finding
	seen := make(map[string]struct{})
	for _, start := range g.IDs() {
		path := findCycle(g, start)
		if path == nil {
			continue
		}
		if dedupe {
			path = canonicalCycle(path)
			key := joinIDs(path, "\x00")
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
		}
		out = append(out, models.Finding{
			Severity: models.SeverityWarning,
			Check:    models.CheckCycles,
			Source:   path[0],
			Kind:     models.DependsOn,
			Path:     path,
			Message:  "dependency cycle detected: " + formatPath(path, label),
		})
	}
	return out
}

// findCycle walks depends-on edges depth first from start and returns the
// first path that comes back to start, with start repeated at the end.
// Nodes on the current path are never re-entered, so convergent shapes
// terminate; nodes already proven unable to reach start are skipped.
func findCycle(g *graph.Graph, start models.ID) []models.ID {
	onPath := map[models.ID]bool{start: true}
	dead := make(map[models.ID]bool)

	var walk func(current models.ID, path []models.ID) []models.ID
	walk = func(current models.ID, path []models.ID) []models.ID {
		for _, next := range g.Targets(current, models.DependsOn) {
			if next == start {
				cycle := make([]models.ID, len(path), len(path)+1)
				copy(cycle, path)
				return append(cycle, start)
			}
			if onPath[next] || dead[next] {
				continue
			}
			onPath[next] = true
			if cycle := walk(next, append(path, next)); cycle != nil {
				return cycle
			}
			onPath[next] = false
			dead[next] = true
		}
		return nil
	}
	return walk(start, []models.ID{start})
}

// canonicalCycle rotates a closed path so it starts at its smallest ID.
func canonicalCycle(path []models.ID) []models.ID {
	nodes := path[:len(path)-1]
	first := 0
	for i, id := range nodes {
		if id < nodes[first] {
			first = i
		}
	}
	out := make([]models.ID, 0, len(path))
	out = append(out, nodes[first:]...)
	out = append(out, nodes[:first]...)
	return append(out, nodes[first])
}

func formatPath(path []models.ID, label Labeler) string {
	parts := make([]string, len(path))
	for i, id := range path {
		parts[i] = label(id)
	}
	return strings.Join(parts, " → ")
}

func joinIDs(ids []models.ID, sep string) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = string(id)
	}
	return strings.Join(parts, sep)
}

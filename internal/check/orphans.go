package check

import (
	"fmt"
	"sort"
	"strings"

	"github.com/starford/adrgraph/internal/graph"
	"github.com/starford/adrgraph/internal/models"
)

// Orphans reports references to identifiers that are not in the graph.
// Each (source, missing target) pair yields one warning listing every
// kind under which the target is referenced.
func Orphans(g *graph.Graph, label Labeler) []models.Finding {
	var out []models.Finding
	for _, id := range g.IDs() {
		missing := make(map[models.ID][]models.RelationKind)
		for _, kind := range models.Kinds {
			for _, target := range g.Targets(id, kind) {
				if !g.Has(target) {
					missing[target] = append(missing[target], kind)
				}
			}
		}

		targets := make([]models.ID, 0, len(missing))
		for target := range missing {
			targets = append(targets, target)
		}
		sort.Slice(targets, func(i, j int) bool { return targets[i] < targets[j] })

		for _, target := range targets {
			kinds := missing[target]
			names := make([]string, len(kinds))
			for i, k := range kinds {
				names[i] = k.String()
			}
			out = append(out, models.Finding{
				Severity: models.SeverityWarning,
				Check:    models.CheckOrphans,
				Source:   id,
				Kind:     kinds[0],
				Kinds:    kinds,
				Target:   target,
				Message: fmt.Sprintf("%s references missing %s (%s)",
					label(id), label(target), strings.Join(names, ", ")),
			})
		}
	}
	return out
}

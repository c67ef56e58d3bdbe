package check

import (
	"fmt"

	"github.com/starford/adrgraph/internal/graph"
	"github.com/starford/adrgraph/internal/models"
)

// Consistency verifies that every enforced relation is mirrored by its
// inverse on the target. Targets absent from the graph are left to the
// orphan check.
func Consistency(g *graph.Graph, label Labeler) []models.Finding {
	var out []models.Finding
	for _, id := range g.IDs() {
		for _, pair := range models.InversePairs {
			for _, target := range g.Targets(id, pair.Kind) {
				back, ok := g.Record(target)
				if !ok || back.Has(pair.Inverse, id) {
					continue
				}
				out = append(out, models.Finding{
					Severity: pair.Severity,
					Check:    models.CheckConsistency,
					Source:   id,
					Kind:     pair.Kind,
					Target:   target,
					Message: fmt.Sprintf("%s %s %s but %s does not declare %s %s",
						label(id), pair.Kind.Verb(), label(target),
						label(target), pair.Kind.Expectation(), label(id)),
				})
			}
		}
	}
	return out
}

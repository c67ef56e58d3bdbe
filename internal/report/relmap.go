package report

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/starford/adrgraph/internal/graph"
	"github.com/starford/adrgraph/internal/models"
)

// Category groups documents by numeric identifier range. Max < 0 means
// unbounded.
type Category struct {
	Name string `yaml:"name"`
	Min  int    `yaml:"min"`
	Max  int    `yaml:"max"`
}

// OtherCategory collects identifiers that fall outside every range.
const OtherCategory = "Other"

// DefaultCategories is the numbering scheme of a typical ADR corpus.
var DefaultCategories = []Category{
	{Name: "Governance", Min: 0, Max: 0},
	{Name: "Constitutional", Min: 1, Max: 99},
	{Name: "Structure", Min: 100, Max: 199},
	{Name: "Runtime", Min: 200, Max: 299},
	{Name: "Technical", Min: 300, Max: 399},
	{Name: "Governance", Min: 400, Max: -1},
}

func categoryOf(id models.ID, cats []Category) string {
	n, err := strconv.Atoi(string(id))
	if err != nil {
		return OtherCategory
	}
	for _, c := range cats {
		if n >= c.Min && (c.Max < 0 || n <= c.Max) {
			return c.Name
		}
	}
	return OtherCategory
}

// RenderMap renders the relationship map as Markdown. Output depends only
// on the graph, so regenerating over an unchanged corpus is a no-op diff.
func RenderMap(g *graph.Graph, label func(models.ID) string, cats []Category) string {
	if len(cats) == 0 {
		cats = DefaultCategories
	}

	var order []string
	groups := make(map[string][]models.ID)
	for _, c := range cats {
		if _, ok := groups[c.Name]; !ok {
			groups[c.Name] = nil
			order = append(order, c.Name)
		}
	}
	if _, ok := groups[OtherCategory]; !ok {
		order = append(order, OtherCategory)
	}
	for _, id := range g.IDs() {
		name := categoryOf(id, cats)
		groups[name] = append(groups[name], id)
	}

	var b strings.Builder
	b.WriteString("# ADR Relationship Map\n\n")
	b.WriteString("> Generated by adrgraph. Do not edit by hand.\n\n")
	b.WriteString("This document lists every relationship declared between ADRs.\n\n")

	b.WriteString("## Statistics\n\n")
	fmt.Fprintf(&b, "- **Documents**: %d\n", g.Len())
	fmt.Fprintf(&b, "- **Depends-on relationships**: %d\n", g.EdgeCount(models.DependsOn))
	fmt.Fprintf(&b, "- **Supersedes relationships**: %d\n", g.EdgeCount(models.Supersedes))
	fmt.Fprintf(&b, "- **Documents without relationships**: %d\n\n", len(g.Isolated()))

	b.WriteString("## Documents\n\n")
	for _, name := range order {
		ids := groups[name]
		if len(ids) == 0 {
			continue
		}
		fmt.Fprintf(&b, "### %s\n\n", name)
		for _, id := range ids {
			rec, _ := g.Record(id)
			fmt.Fprintf(&b, "#### %s\n\n", label(id))
			fmt.Fprintf(&b, "**File**: `%s`\n\n", filepath.Base(rec.Path))
			for _, kind := range models.Kinds {
				targets := rec.Targets(kind)
				if len(targets) == 0 {
					continue
				}
				fmt.Fprintf(&b, "**%s**:\n", kind.Title())
				for _, t := range targets {
					fmt.Fprintf(&b, "- %s\n", label(t))
				}
				b.WriteString("\n")
			}
			b.WriteString("---\n\n")
		}
	}
	return b.String()
}

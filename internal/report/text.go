package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/starford/adrgraph/internal/models"
)

// Ayu palette, as used by the terminal UIs this tool sits next to.
var (
	colorAccent = lipgloss.AdaptiveColor{Light: "#399ee6", Dark: "#59c2ff"}
	colorPass   = lipgloss.AdaptiveColor{Light: "#86b300", Dark: "#aad94c"}
	colorWarn   = lipgloss.AdaptiveColor{Light: "#f2ae49", Dark: "#ffb454"}
	colorFail   = lipgloss.AdaptiveColor{Light: "#f07171", Dark: "#f26d78"}
	colorMuted  = lipgloss.AdaptiveColor{Light: "#8a9199", Dark: "#565b66"}
)

const rule = "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"

type styles struct {
	header lipgloss.Style
	pass   lipgloss.Style
	warn   lipgloss.Style
	fail   lipgloss.Style
	muted  lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		header: r.NewStyle().Bold(true).Foreground(colorAccent),
		pass:   r.NewStyle().Foreground(colorPass),
		warn:   r.NewStyle().Foreground(colorWarn),
		fail:   r.NewStyle().Bold(true).Foreground(colorFail),
		muted:  r.NewStyle().Foreground(colorMuted),
	}
}

// TextOptions controls the text renderer.
type TextOptions struct {
	// Color enables ANSI styling when w is a terminal. Output to anything
	// else is always plain.
	Color bool
}

// WriteText renders the report in its fixed section order: scan progress,
// consistency, cycles, orphans, statistics, verdict.
func WriteText(w io.Writer, r *Report, opts TextOptions) error {
	renderer := lipgloss.NewRenderer(w)
	if !opts.Color {
		renderer.SetColorProfile(termenv.Ascii)
	}
	st := newStyles(renderer)

	var b strings.Builder
	line := func(format string, args ...any) {
		fmt.Fprintf(&b, format, args...)
		b.WriteByte('\n')
	}
	section := func(title string) {
		line("%s", st.header.Render(rule))
		line("%s", st.header.Render(title))
		line("%s", st.header.Render(rule))
		line("")
	}
	finding := func(f models.Finding) {
		if f.Severity == models.SeverityError {
			line("  %s", st.fail.Render("✗ "+f.Message))
		} else {
			line("  %s", st.warn.Render("⚠ "+f.Message))
		}
	}

	line("%s", st.header.Render("Scanning ADR documents in "+r.Root))
	for _, d := range r.Documents {
		line("  %s", st.muted.Render("• parsed "+d.Label))
	}
	for _, f := range r.ScanWarnings {
		finding(f)
	}
	line("")
	line("%s", st.pass.Render(fmt.Sprintf("✓ parsed %d document(s)", len(r.Documents))))
	line("")

	section("Check 1: bidirectional consistency")
	if len(r.Consistency) == 0 {
		line("  %s", st.pass.Render("✓ all bidirectional relationships are consistent"))
	} else {
		line("%s", st.fail.Render(fmt.Sprintf("Found %d inconsistent relationship(s):", len(r.Consistency))))
		line("")
		for _, f := range r.Consistency {
			finding(f)
		}
	}
	line("")

	section("Check 2: dependency cycles")
	if len(r.Cycles) == 0 {
		line("  %s", st.pass.Render("✓ no dependency cycles detected"))
	} else {
		line("%s", st.warn.Render(fmt.Sprintf("Found %d potential cycle(s):", len(r.Cycles))))
		line("")
		for _, f := range r.Cycles {
			finding(f)
		}
	}
	line("")

	section("Check 3: orphaned references")
	if len(r.Orphans) == 0 {
		line("  %s", st.pass.Render("✓ every reference points to an existing document"))
	} else {
		line("%s", st.warn.Render(fmt.Sprintf("Found %d orphaned reference(s):", len(r.Orphans))))
		line("")
		for _, f := range r.Orphans {
			finding(f)
		}
	}
	line("")

	section("Statistics")
	line("  documents:                       %d", r.Stats.Documents)
	line("  depends-on relationships:        %d", r.Stats.DependsOnEdges)
	line("  supersedes relationships:        %d", r.Stats.SupersedesEdges)
	line("  documents without relationships: %d", r.Stats.Relationless)
	line("")

	section("Summary")
	summary := fmt.Sprintf("%d error(s), %d warning(s)", r.ErrorCount, r.WarningCount)
	switch {
	case !r.Passed():
		line("  %s", st.fail.Render("✗ FAIL: "+summary))
	case r.WarningCount > 0:
		line("  %s", st.warn.Render("✓ PASS: "+summary))
	default:
		line("  %s", st.pass.Render("✓ PASS: "+summary))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteJSON renders the report as indented JSON.
func WriteJSON(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

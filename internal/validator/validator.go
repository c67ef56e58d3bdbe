// Package validator wires the document loader, relationship extractor,
// graph, checks and report builder into one validation run.
package validator

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/starford/adrgraph/internal/check"
	"github.com/starford/adrgraph/internal/graph"
	"github.com/starford/adrgraph/internal/models"
	"github.com/starford/adrgraph/internal/parser"
	"github.com/starford/adrgraph/internal/report"
	"github.com/starford/adrgraph/internal/storage"
)

// DefaultPattern selects ADR files anywhere under the corpus root.
const DefaultPattern = "**/ADR-*.md"

// DefaultExclude drops companion files that sit next to ADRs. Exclude
// patterns match the path relative to the root, ignoring case.
var DefaultExclude = []string{
	"**/README.md",
	"**/*TEMPLATE*",
	"**/proposals/**",
}

// Options tunes a Validator. A nil Exclude means DefaultExclude; an empty
// one disables path exclusion.
type Options struct {
	Pattern      string
	Exclude      []string
	DedupeCycles bool
}

// Validator runs the full pipeline over one corpus.
type Validator struct {
	store  storage.Provider
	parser *parser.Parser
	logger *slog.Logger
	opts   Options
}

// New creates a Validator. A nil logger discards log output.
func New(store storage.Provider, p *parser.Parser, logger *slog.Logger, opts Options) *Validator {
	if opts.Pattern == "" {
		opts.Pattern = DefaultPattern
	}
	if opts.Exclude == nil {
		opts.Exclude = DefaultExclude
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Validator{store: store, parser: p, logger: logger, opts: opts}
}

// Result is the output of one run. Both values are read-only.
type Result struct {
	Graph  *graph.Graph
	Report *report.Report
}

// Matcher returns the reference matcher used to recognise identifiers.
func (v *Validator) Matcher() *parser.Matcher {
	return v.parser.Matcher()
}

// Label formats id with the configured marker.
func (v *Validator) Label(id models.ID) string {
	return v.parser.Matcher().Label(id)
}

// Run loads every document, builds the graph, runs the checks and returns
// the report. Unreadable documents become scan warnings; only listing
// failures and cancellation abort the run.
func (v *Validator) Run(ctx context.Context) (*Result, error) {
	docs, records, warnings, err := v.load(ctx)
	if err != nil {
		return nil, err
	}

	g := graph.New(records)
	results, err := check.Run(ctx, g, check.Options{
		Label:        v.Label,
		DedupeCycles: v.opts.DedupeCycles,
	})
	if err != nil {
		return nil, fmt.Errorf("validator: checks: %w", err)
	}

	rep := report.Build(report.Input{
		Root:         v.store.Root(),
		Marker:       v.parser.Matcher().Marker(),
		Documents:    docs,
		ScanWarnings: warnings,
		Graph:        g,
		Results:      results,
	})

	v.logger.Info("validation finished",
		slog.Int("documents", rep.Stats.Documents),
		slog.Int("errors", rep.ErrorCount),
		slog.Int("warnings", rep.WarningCount),
		slog.String("verdict", string(rep.Verdict)))

	return &Result{Graph: g, Report: rep}, nil
}

// load enumerates candidate files and parses each into a record.
func (v *Validator) load(ctx context.Context) ([]report.Document, []*models.Record, []models.Finding, error) {
	metas, err := v.store.List(v.opts.Pattern)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("validator: list documents: %w", err)
	}

	matcher := v.parser.Matcher()
	var (
		docs     []report.Document
		records  []*models.Record
		warnings []models.Finding
		owners   = make(map[models.ID]string)
	)
	for _, m := range metas {
		if err := ctx.Err(); err != nil {
			return nil, nil, nil, err
		}

		if v.excluded(m.Path) {
			v.logger.Debug("scan: skipped, excluded", slog.String("path", m.Path))
			continue
		}

		id, ok := matcher.FromFilename(m.Path)
		if !ok {
			v.logger.Debug("scan: skipped, no identifier", slog.String("path", m.Path))
			continue
		}

		data, err := v.store.Read(m.Path)
		if err != nil {
			v.logger.Warn("scan: read failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			warnings = append(warnings, scanWarning(m.Path, fmt.Sprintf("could not read %s: %v", m.Path, err)))
			continue
		}
		if !utf8.Valid(data) {
			v.logger.Warn("scan: invalid encoding", slog.String("path", m.Path))
			warnings = append(warnings, scanWarning(m.Path, fmt.Sprintf("could not read %s: not valid UTF-8", m.Path)))
			continue
		}
		if !parser.IsDecisionRecord(m.Path, data) {
			v.logger.Debug("scan: skipped, companion document", slog.String("path", m.Path))
			continue
		}

		if prev, dup := owners[id]; dup {
			warnings = append(warnings, scanWarning(m.Path,
				fmt.Sprintf("%s is declared by both %s and %s; using %s", matcher.Label(id), prev, m.Path, m.Path)))
		}
		owners[id] = m.Path

		records = append(records, v.parser.Parse(id, m.Path, data))
		docs = append(docs, report.Document{ID: id, Label: matcher.Label(id), Path: m.Path, Checksum: m.Checksum})
		v.logger.Debug("scan: parsed", slog.String("id", matcher.Label(id)), slog.String("path", m.Path))
	}

	// Only the winning path of a duplicated identifier is a document.
	kept := docs[:0]
	for _, d := range docs {
		if owners[d.ID] == d.Path {
			kept = append(kept, d)
		}
	}
	return kept, records, warnings, nil
}

func (v *Validator) excluded(rel string) bool {
	rel = strings.ToLower(filepath.ToSlash(rel))
	for _, pattern := range v.opts.Exclude {
		if ok, _ := doublestar.Match(strings.ToLower(pattern), rel); ok {
			return true
		}
	}
	return false
}

func scanWarning(path, msg string) models.Finding {
	return models.Finding{
		Severity: models.SeverityWarning,
		Check:    models.CheckScan,
		File:     path,
		Message:  msg,
	}
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/seojunpark/axlint/pkg/audit"
	"github.com/seojunpark/axlint/pkg/flutter"
	"github.com/seojunpark/axlint/pkg/history"
	"github.com/seojunpark/axlint/pkg/logging"
	"github.com/seojunpark/axlint/pkg/report"
	"github.com/seojunpark/axlint/pkg/rules"
)

func runReport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: axlint report [flags]\n\nExport an audit report from a fresh scan or from history.\n\nFlags:\n")
		fs.PrintDefaults()
	}
	root, logLevel := commonFlags(fs)
	formatFlag := fs.String("format", "", "output format: markdown, json, csv, table (default from config)")
	out := fs.String("o", "", "output file or directory (default from config, \"-\" for stdout)")
	latest := fs.Bool("latest", false, "export the most recent recorded run instead of rescanning")
	minConf := fs.Float64("min-confidence", -1, "suggestion confidence floor (default from config)")
	_ = fs.Parse(args)

	w, err := openWorkspace(*root, *logLevel)
	if err != nil {
		return err
	}

	name := *formatFlag
	if name == "" {
		name = w.cfg.Report.Format
	}

	f, err := report.ParseFormat(name)
	if err != nil {
		return err
	}

	var rep *audit.Report
	if *latest {
		rep, err = w.latestReport(ctx)
	} else {
		rep, err = w.audit(ctx, *minConf)
	}
	if err != nil {
		return err
	}

	dest := *out
	if dest == "" {
		dest = w.cfg.Report.Output
	}

	if dest == "" || dest == "-" {
		return report.Write(os.Stdout, rep, f)
	}

	// A directory destination gets the conventional filename inside it.
	if info, statErr := os.Stat(dest); statErr == nil && info.IsDir() {
		dest = filepath.Join(dest, report.Filename(f))
	}

	file, err := os.Create(dest) //nolint:gosec // destination comes from the user's own flag
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	defer func() { _ = file.Close() }()

	if err := report.Write(file, rep, f); err != nil {
		return err
	}

	logging.Success(w.log, "report written", "path", dest, "format", string(f))

	return nil
}

// latestReport rebuilds a report from the newest recorded run.
func (w *workspace) latestReport(ctx context.Context) (*audit.Report, error) {
	store, err := w.historyStore()
	if err != nil {
		return nil, err
	}
	defer func() { _ = store.Close() }()

	run, ok, err := store.LatestRun(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.New("history is empty; run \"axlint scan\" first")
	}

	rows, err := store.Findings(ctx, run.ID)
	if err != nil {
		return nil, err
	}

	return reportFromRun(run, rows), nil
}

// reportFromRun turns stored rows back into a printable report. History
// keeps location, widget, kind, priority, label and confidence per
// finding; element context and per-source stats are not persisted, so
// those fields stay empty.
func reportFromRun(run history.Run, rows []history.Finding) *audit.Report {
	rep := &audit.Report{
		App:           run.App,
		Root:          run.Root,
		GeneratedAt:   run.CreatedAt,
		TotalElements: run.Total,
		Labeled:       run.Labeled,
		Unlabeled:     run.Total - run.Labeled,
		Coverage:      run.Coverage,
		Findings:      make([]audit.Finding, 0, len(rows)),
		ByPriority:    make(map[audit.Priority]int),
		BySource:      make(map[string]int),
	}

	for _, row := range rows {
		kind := audit.Kind(row.Kind)
		class, _ := flutter.ClassOf(row.Widget)

		f := audit.Finding{
			Kind:     kind,
			Priority: audit.Priority(row.Priority),
			WCAG:     audit.Criterion(kind, class),
			Element: flutter.Element{
				Widget: row.Widget,
				File:   row.File,
				Line:   row.Line,
			},
			Suggestion: rules.Suggestion{
				Label:      row.Label,
				Confidence: row.Confidence,
			},
		}

		rep.Findings = append(rep.Findings, f)
		rep.ByPriority[f.Priority]++
	}

	return rep
}

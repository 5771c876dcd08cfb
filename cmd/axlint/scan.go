package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/seojunpark/axlint/pkg/logging"
	"github.com/seojunpark/axlint/pkg/report"
)

func runScan(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("scan", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: axlint scan [flags]\n\nAudit the project for missing accessibility labels and record the run in history.\n\nFlags:\n")
		fs.PrintDefaults()
	}
	root, logLevel := commonFlags(fs)
	minConf := fs.Float64("min-confidence", -1, "suggestion confidence floor (default from config)")
	noHistory := fs.Bool("no-history", false, "do not record the run in history")
	_ = fs.Parse(args)

	w, err := openWorkspace(*root, *logLevel)
	if err != nil {
		return err
	}

	rep, err := w.audit(ctx, *minConf)
	if err != nil {
		return err
	}

	if !*noHistory {
		store, err := w.historyStore()
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		id, err := store.SaveRun(ctx, rep)
		if err != nil {
			return err
		}

		w.log.Debug("run recorded", "id", id)
	}

	if err := report.Write(os.Stdout, rep, report.Table); err != nil {
		return err
	}

	logging.Success(w.log, "scan complete",
		"elements", rep.TotalElements,
		"coverage", fmt.Sprintf("%.1f%%", rep.Coverage),
		"findings", len(rep.Findings))

	return nil
}

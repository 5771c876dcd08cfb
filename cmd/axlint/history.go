package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/seojunpark/axlint/pkg/history"
)

func runHistory(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: axlint history [flags]\n\nShow recorded audit runs and the coverage trend.\n\nFlags:\n")
		fs.PrintDefaults()
	}
	root, logLevel := commonFlags(fs)
	limit := fs.Int("n", 20, "number of runs to show (0 for all)")
	_ = fs.Parse(args)

	w, err := openWorkspace(*root, *logLevel)
	if err != nil {
		return err
	}

	store, err := w.historyStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	runs, err := store.ListRuns(ctx, *limit)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println(`No recorded runs. Run "axlint scan" first.`)
		return nil
	}

	printRuns(os.Stdout, runs)

	return nil
}

// printRuns renders runs oldest first so the coverage trend reads top to
// bottom. DELTA is the coverage change against the preceding run.
func printRuns(wr io.Writer, runs []history.Run) {
	fmt.Fprintf(wr, "%-19s %9s %8s %9s %8s  %s\n",
		"WHEN", "ELEMENTS", "LABELED", "COVERAGE", "DELTA", "HIGH/MED/LOW")

	for i := len(runs) - 1; i >= 0; i-- {
		r := runs[i]

		delta := "-"
		if i < len(runs)-1 {
			delta = fmt.Sprintf("%+.1f%%", r.Coverage-runs[i+1].Coverage)
		}

		fmt.Fprintf(wr, "%-19s %9d %8d %8.1f%% %8s  %d/%d/%d\n",
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			r.Total,
			r.Labeled,
			r.Coverage,
			delta,
			r.High, r.Medium, r.Low)
	}
}

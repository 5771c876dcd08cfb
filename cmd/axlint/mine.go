package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/seojunpark/axlint/pkg/logging"
	"github.com/seojunpark/axlint/pkg/mining"
)

func runMine(args []string) error {
	fs := flag.NewFlagSet("mine", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: axlint mine [flags] <dump.jsonl>...\n\nMine label rules from captured semantics dumps and write them to the rules directory.\n\nFlags:\n")
		fs.PrintDefaults()
	}
	root, logLevel := commonFlags(fs)
	out := fs.String("o", "", "rules output directory (default .axlint/rules)")
	_ = fs.Parse(args)

	if fs.NArg() == 0 {
		fs.Usage()
		return errors.New("mine needs at least one semantics dump file")
	}

	w, err := openWorkspace(*root, *logLevel)
	if err != nil {
		return err
	}

	var records []mining.Record
	skipped := 0

	for _, path := range fs.Args() {
		recs, skip, err := mining.ReadFile(path)
		if err != nil {
			return err
		}

		records = append(records, recs...)
		skipped += skip
	}

	set := mining.Mine(records)

	dir := *out
	if dir == "" {
		dir = w.dir.RulesDir()
	}

	if err := mining.WriteRules(set, dir); err != nil {
		return err
	}

	logging.Success(w.log, "rules mined",
		"records", len(records),
		"skipped", skipped,
		"dir", dir)

	return nil
}

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/seojunpark/axlint/pkg/envasset"
	"github.com/seojunpark/axlint/pkg/logging"
)

func runInject(args []string) error {
	fs := flag.NewFlagSet("inject", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: axlint inject [flags]\n\nWrite the env script asset that exposes provider keys to web builds.\n\nFlags:\n")
		fs.PrintDefaults()
	}
	root, logLevel := commonFlags(fs)
	out := fs.String("o", "", "output path (default .axlint/local/env.js)")
	_ = fs.Parse(args)

	w, err := openWorkspace(*root, *logLevel)
	if err != nil {
		return err
	}

	path := *out
	if path == "" {
		path = w.dir.EnvAssetPath()
	}

	if err := envasset.WriteFile(path, nil); err != nil {
		return err
	}

	logging.Success(w.log, "env asset written", "path", path)

	return nil
}

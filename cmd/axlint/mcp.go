package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/seojunpark/axlint/pkg/mcpserver"
)

func runMCP(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("mcp", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: axlint mcp [flags]\n\nServe the audit tools to MCP clients over stdio.\n\nFlags:\n")
		fs.PrintDefaults()
	}
	root, logLevel := commonFlags(fs)
	minConf := fs.Float64("min-confidence", -1, "suggestion confidence floor (default from config)")
	_ = fs.Parse(args)

	w, err := openWorkspace(*root, *logLevel)
	if err != nil {
		return err
	}

	eng, err := w.ruleEngine()
	if err != nil {
		return err
	}

	sel, _ := w.modelSelector()

	mc := *minConf
	if mc < 0 {
		mc = w.cfg.Scan.MinConfidence
	}

	srv := mcpserver.New(mcpserver.Options{
		Version:       version,
		Root:          w.root,
		Include:       w.cfg.Scan.Include,
		Exclude:       w.cfg.Scan.Exclude,
		Rules:         eng,
		MinConfidence: mc,
		Selector:      sel,
		Log:           w.log, // stderr, stdout carries the protocol
	})

	return srv.Serve(ctx, os.Stdin, os.Stdout)
}

package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"

	"github.com/seojunpark/axlint/cmd/axlint/internal/wizard"
	"github.com/seojunpark/axlint/pkg/axdir"
	"github.com/seojunpark/axlint/pkg/config"
)

func runInit(args []string) error {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: axlint init [flags]\n\nCreate the .axlint directory and walk through the configuration.\n\nFlags:\n")
		fs.PrintDefaults()
	}
	root, logLevel := commonFlags(fs)
	yes := fs.Bool("y", false, "accept defaults without prompting")
	_ = fs.Parse(args)

	w, err := openWorkspace(*root, *logLevel)
	if err != nil {
		return err
	}

	if err := axdir.Bootstrap(w.dir); err != nil {
		return err
	}

	cfg := w.cfg
	pick := false

	if !*yes {
		cfg, pick, err = wizard.Init(w.cfg)
		if errors.Is(err, huh.ErrUserAborted) {
			return nil
		}
		if err != nil {
			return err
		}
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := config.Save(cfg, w.dir.ConfigPath()); err != nil {
		return err
	}

	if pick {
		sel, _ := w.modelSelector()

		selected, err := wizard.PickModel(sel)
		switch {
		case errors.Is(err, huh.ErrUserAborted):
			// Skipping the model is fine; the catalog default applies.
		case err != nil:
			return err
		default:
			fmt.Printf("Selected %s\n", selected.Model)
		}
	}

	fmt.Printf("Initialized %s\n", w.dir.Root())

	return nil
}

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh"

	"github.com/seojunpark/axlint/cmd/axlint/internal/wizard"
	"github.com/seojunpark/axlint/pkg/catalog"
	"github.com/seojunpark/axlint/pkg/credential"
	"github.com/seojunpark/axlint/pkg/selection"
)

func runModels(args []string) error {
	fs := flag.NewFlagSet("models", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: axlint models [flags]\n\nList the supported models and manage the persisted selection.\n\nFlags:\n")
		fs.PrintDefaults()
	}
	root, logLevel := commonFlags(fs)
	pick := fs.Bool("pick", false, "interactively pick the model")
	set := fs.String("set", "", "select a model by id without prompting")
	_ = fs.Parse(args)

	w, err := openWorkspace(*root, *logLevel)
	if err != nil {
		return err
	}

	sel, _ := w.modelSelector()

	switch {
	case *set != "":
		selected, err := sel.Select(*set)
		if err != nil {
			return err
		}
		fmt.Printf("Selected %s\n", selected.Model)
		return nil

	case *pick:
		selected, err := wizard.PickModel(sel)
		if errors.Is(err, huh.ErrUserAborted) {
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Printf("Selected %s\n", selected.Model)
		return nil
	}

	printModels(os.Stdout, sel)

	return nil
}

// printModels lists every catalog model with its credential status. Gated
// models stay in the list with the variable that would unlock them.
func printModels(wr io.Writer, sel *selection.Selector) {
	current := sel.Current()

	for _, m := range catalog.Models() {
		marker := " "
		if m.ID == current.ID {
			marker = "*"
		}

		status := "ready"
		if !sel.Selectable(m) {
			v, _ := credential.VarsFor(m.Provider)
			status = "requires " + v.Primary
		}

		fmt.Fprintf(wr, "%s %-28s %-10s %s\n", marker, m.ID, m.Provider, status)
	}
}

// Package wizard holds the interactive huh forms used by init, the
// models command, and the chat TUI's model switcher.
package wizard

import (
	"fmt"
	"net"
	"strconv"

	"github.com/charmbracelet/huh"

	"github.com/seojunpark/axlint/pkg/catalog"
	"github.com/seojunpark/axlint/pkg/config"
	"github.com/seojunpark/axlint/pkg/credential"
	"github.com/seojunpark/axlint/pkg/selection"
)

// Init prompts for the tool configuration, starting from cfg as the
// defaults. The second result reports whether the user wants to pick a
// model right away.
func Init(cfg config.Config) (config.Config, bool, error) {
	level := cfg.Log.Level
	reportFormat := cfg.Report.Format
	addr := cfg.Serve.Addr
	minConf := strconv.FormatFloat(cfg.Scan.MinConfidence, 'f', -1, 64)
	pick := true

	err := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title("Report format").
			Options(
				huh.NewOption("Markdown", "markdown"),
				huh.NewOption("JSON", "json"),
				huh.NewOption("CSV", "csv"),
				huh.NewOption("Table", "table"),
			).
			Value(&reportFormat),
		huh.NewInput().
			Title("Minimum suggestion confidence (0 to 1)").
			Value(&minConf).
			Validate(validateConfidence),
		huh.NewInput().
			Title("Web UI address").
			Value(&addr).
			Validate(validateAddr),
		huh.NewSelect[string]().
			Title("Log level").
			Options(
				huh.NewOption("Debug", "debug"),
				huh.NewOption("Info", "info"),
				huh.NewOption("Warn", "warn"),
				huh.NewOption("Error", "error"),
			).
			Value(&level),
		huh.NewConfirm().Title("Choose a model now?").Value(&pick),
	)).Run()
	if err != nil {
		return cfg, false, err
	}

	cfg.Log.Level = level
	cfg.Report.Format = reportFormat
	cfg.Serve.Addr = addr
	cfg.Scan.MinConfidence, _ = strconv.ParseFloat(minConf, 64)

	return cfg, pick, nil
}

func validateConfidence(s string) error {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 || f > 1 {
		return fmt.Errorf("must be a number between 0 and 1")
	}

	return nil
}

func validateAddr(s string) error {
	if _, _, err := net.SplitHostPort(s); err != nil {
		return fmt.Errorf("must be host:port")
	}

	return nil
}

// ModelForm builds the model picker form around value. Every catalog
// model is listed; entries whose provider has no credential stay visible
// but are annotated with the variable to set, and validation rejects
// them with the same message Select would return, so the form surfaces
// it inline instead of closing.
func ModelForm(sel *selection.Selector, value *string) *huh.Form {
	return huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title("Model").
			Options(modelOptions(sel)...).
			Value(value).
			Validate(func(id string) error {
				return validateSelectable(sel, id)
			}),
	))
}

// PickModel runs the picker and persists the accepted choice through the
// selector. The current selection is pre-selected; gating re-runs live.
func PickModel(sel *selection.Selector) (selection.Selected, error) {
	id := sel.Current().ID

	if err := ModelForm(sel, &id).Run(); err != nil {
		return selection.Selected{}, err
	}

	return sel.Select(id)
}

func modelOptions(sel *selection.Selector) []huh.Option[string] {
	models := catalog.Models()
	opts := make([]huh.Option[string], len(models))

	for i, m := range models {
		label := fmt.Sprintf("%s (%s)", m.Name, m.Provider)
		if !sel.Selectable(m) {
			v, _ := credential.VarsFor(m.Provider)
			label = fmt.Sprintf("%s (%s, requires %s)", m.Name, m.Provider, v.Primary)
		}
		opts[i] = huh.NewOption(label, m.ID)
	}

	return opts
}

func validateSelectable(sel *selection.Selector, id string) error {
	m, ok := catalog.ByID(id)
	if !ok {
		return fmt.Errorf("unknown model %q", id)
	}

	if !sel.Selectable(m) {
		v, _ := credential.VarsFor(m.Provider)
		return &selection.NoCredentialError{Provider: m.Provider, EnvVar: v.Primary}
	}

	return nil
}

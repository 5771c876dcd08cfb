package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/seojunpark/axlint/pkg/audit"
	"github.com/seojunpark/axlint/pkg/axdir"
	"github.com/seojunpark/axlint/pkg/config"
	"github.com/seojunpark/axlint/pkg/credential"
	"github.com/seojunpark/axlint/pkg/flutter"
	"github.com/seojunpark/axlint/pkg/history"
	"github.com/seojunpark/axlint/pkg/logging"
	"github.com/seojunpark/axlint/pkg/rules"
	"github.com/seojunpark/axlint/pkg/selection"
)

// workspace bundles what every command needs: the project root, its
// .axlint/ directory, the loaded config, and a logger.
type workspace struct {
	root string
	dir  axdir.Dir
	cfg  config.Config
	log  *slog.Logger
}

// commonFlags registers the flags shared by every command.
func commonFlags(fs *flag.FlagSet) (root, logLevel *string) {
	root = fs.String("root", ".", "Flutter project root")
	logLevel = fs.String("log-level", "", "log level: debug, info, warn, error (default from config)")

	return root, logLevel
}

// openWorkspace loads the project configuration and builds the logger.
// A missing config file falls back to defaults, so every command works
// in a project that never ran init.
func openWorkspace(root, logLevel string) (*workspace, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}

	dir := axdir.ForProject(absRoot)

	cfg, err := config.Load(dir.ConfigPath())
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level := cfg.Log.Level
	if logLevel != "" {
		level = logLevel
	}

	return &workspace{
		root: absRoot,
		dir:  dir,
		cfg:  cfg,
		log:  logging.New(logging.ParseLevel(level), os.Stderr),
	}, nil
}

// appName resolves the display name of the audited app from pubspec.yaml,
// falling back to the root directory name.
func (w *workspace) appName() string {
	if ps, err := flutter.LoadPubspec(w.root); err == nil && ps.Name != "" {
		return ps.Name
	}

	return filepath.Base(w.root)
}

// ruleEngine loads the embedded label rules merged with any overrides
// from .axlint/rules/.
func (w *workspace) ruleEngine() (*rules.Engine, error) {
	set, err := rules.Load(w.dir.RulesDir())
	if err != nil {
		return nil, err
	}

	return rules.NewEngine(set), nil
}

// modelSelector wires the credential resolver and the persisted model
// selection. The environment is captured once, so every resolution in
// this process sees the same values.
func (w *workspace) modelSelector() (*selection.Selector, *credential.Resolver) {
	// Selections from versions that stored the file at the .axlint/ root
	// move to local/ on first touch.
	if err := axdir.MigrateSelection(w.dir); err != nil {
		w.log.Warn("selection migration failed", "error", err)
	}

	creds := credential.NewResolver(credential.CaptureBag())
	sel := &selection.Selector{
		Credentials: creds,
		Store:       selection.NewStore(w.dir.SelectionPath(), w.log),
	}

	return sel, creds
}

// historyStore opens the scan history database at the configured path.
func (w *workspace) historyStore() (history.Store, error) {
	path := w.cfg.History.Path
	if path == "" {
		path = w.dir.HistoryPath()
	}

	return history.Open(path)
}

// audit scans the project and runs the label audit over it. A negative
// minConfidence means "use the configured value".
func (w *workspace) audit(ctx context.Context, minConfidence float64) (*audit.Report, error) {
	if minConfidence < 0 {
		minConfidence = w.cfg.Scan.MinConfidence
	}

	proj, err := flutter.ScanProject(ctx, w.root, w.cfg.Scan.Include, w.cfg.Scan.Exclude)
	if err != nil {
		return nil, err
	}

	eng, err := w.ruleEngine()
	if err != nil {
		return nil, err
	}

	return audit.New(eng, minConfidence, w.log).Run(ctx, proj), nil
}

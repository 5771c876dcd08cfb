package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/seojunpark/axlint/pkg/advisor"
	"github.com/seojunpark/axlint/pkg/audit"
	"github.com/seojunpark/axlint/pkg/catalog"
	"github.com/seojunpark/axlint/pkg/selection"
	"github.com/seojunpark/axlint/pkg/webui"
)

func runServe(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: axlint serve [flags]\n\nStart the local web UI with the current audit report.\n\nFlags:\n")
		fs.PrintDefaults()
	}
	root, logLevel := commonFlags(fs)
	addr := fs.String("addr", "", "listen address (default from config)")
	watch := fs.Bool("watch", false, "rescan on file changes and push the fresh report")
	_ = fs.Parse(args)

	w, err := openWorkspace(*root, *logLevel)
	if err != nil {
		return err
	}

	listen := *addr
	if listen == "" {
		listen = w.cfg.Serve.Addr
	}

	sel, creds := w.modelSelector()

	srv := webui.New(webui.Options{
		Addr:     listen,
		App:      w.appName(),
		EnvPath:  w.dir.EnvAssetPath(),
		Selector: sel,
		Creds:    creds,
		Log:      w.log,
	})

	// Model switches made in the UI rebuild the advisor through the
	// selector hook; the initial build uses the persisted selection.
	rebuild := func(m catalog.Model) {
		adv, err := advisor.FromModel(m, creds, w.cfg, w.log)
		if err != nil {
			var nce *selection.NoCredentialError
			if errors.As(err, &nce) {
				w.log.Warn("model has no credential", "model", m.ID, "var", nce.EnvVar)
			} else {
				w.log.Error("build advisor", "error", err)
			}
			return
		}

		srv.SetAdvisor(adv)
	}

	sel.OnSelect = func(s selection.Selected) {
		if m, ok := catalog.ByID(s.Model); ok {
			rebuild(m)
		}
	}
	rebuild(sel.Current())

	rep, err := w.audit(ctx, -1)
	if err != nil {
		return err
	}
	srv.SetReport(rep)

	if *watch {
		go func() {
			err := watchLoop(ctx, w, func(r *audit.Report) { srv.SetReport(r) })
			if err != nil && ctx.Err() == nil {
				w.log.Error("watch stopped", "error", err)
			}
		}()
	}

	return srv.Run(ctx)
}

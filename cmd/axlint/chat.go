package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"sync"

	"github.com/seojunpark/axlint/cmd/axlint/internal/chatui"
	"github.com/seojunpark/axlint/pkg/advisor"
	"github.com/seojunpark/axlint/pkg/catalog"
	"github.com/seojunpark/axlint/pkg/credential"
	"github.com/seojunpark/axlint/pkg/selection"
)

// advisorHolder is the live advisor shared between the TUI and the
// selector's rebuild hook. The hook runs on Select while the TUI reads
// from the event loop, hence the lock.
type advisorHolder struct {
	mu    sync.Mutex
	model catalog.Model
	adv   *advisor.Advisor
}

func (h *advisorHolder) get() (catalog.Model, *advisor.Advisor) {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.model, h.adv
}

func (h *advisorHolder) set(m catalog.Model, a *advisor.Advisor) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.model, h.adv = m, a
}

func runChat(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("chat", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: axlint chat [flags]\n\nDiscuss findings with the advisor in an interactive chat.\n\nFlags:\n")
		fs.PrintDefaults()
	}
	root, logLevel := commonFlags(fs)
	modelID := fs.String("m", "", "model id for this session only (not persisted)")
	finding := fs.Int("finding", 0, "prefill the input with a fix request for finding N of a fresh scan")
	_ = fs.Parse(args)

	w, err := openWorkspace(*root, *logLevel)
	if err != nil {
		return err
	}

	sel, creds := w.modelSelector()
	holder := &advisorHolder{}

	rebuild := func(m catalog.Model) {
		adv, err := advisor.FromModel(m, creds, w.cfg, w.log)
		if err != nil {
			var nce *selection.NoCredentialError
			if errors.As(err, &nce) {
				w.log.Warn("model has no credential", "model", m.ID, "var", nce.EnvVar)
			} else {
				w.log.Error("build advisor", "error", err)
			}

			holder.set(m, nil)
			return
		}

		holder.set(m, adv)
	}

	sel.OnSelect = func(s selection.Selected) {
		if m, ok := catalog.ByID(s.Model); ok {
			rebuild(m)
		}
	}

	start := sel.Current()
	if *modelID != "" {
		m, ok := catalog.ByID(*modelID)
		if !ok {
			return fmt.Errorf("unknown model %q", *modelID)
		}
		if !sel.Selectable(m) {
			v, _ := credential.VarsFor(m.Provider)
			return &selection.NoCredentialError{Provider: m.Provider, EnvVar: v.Primary}
		}
		start = m
	}
	rebuild(start)

	var initial string
	if *finding > 0 {
		rep, err := w.audit(ctx, -1)
		if err != nil {
			return err
		}
		if *finding > len(rep.Findings) {
			return fmt.Errorf("finding %d is out of range; the scan produced %d findings", *finding, len(rep.Findings))
		}

		initial = advisor.FindingPrompt(w.appName(), rep.Findings[*finding-1])
	}

	return chatui.Run(ctx, chatui.Options{
		App:      w.appName(),
		Selector: sel,
		Advisor:  holder.get,
		Initial:  initial,
	})
}

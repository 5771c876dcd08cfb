package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/seojunpark/axlint/pkg/audit"
)

func runWatch(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: axlint watch [flags]\n\nRe-audit the project whenever a Dart file changes and print the coverage delta.\n\nFlags:\n")
		fs.PrintDefaults()
	}
	root, logLevel := commonFlags(fs)
	_ = fs.Parse(args)

	w, err := openWorkspace(*root, *logLevel)
	if err != nil {
		return err
	}

	var prev *audit.Report
	show := func(rep *audit.Report) {
		printDelta(os.Stdout, prev, rep)
		prev = rep
	}

	rep, err := w.audit(ctx, -1)
	if err != nil {
		return err
	}
	show(rep)

	return watchLoop(ctx, w, show)
}

// debounceDelay batches the event bursts editors and code generators
// produce into one rescan.
const debounceDelay = 400 * time.Millisecond

// watchLoop re-audits the project whenever a watched Dart file changes
// and hands each fresh report to onReport. It blocks until ctx is done.
func watchLoop(ctx context.Context, w *workspace, onReport func(*audit.Report)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watchRecursive(watcher, w.root); err != nil {
		return fmt.Errorf("watch: %w", err)
	}

	debounce := time.NewTimer(debounceDelay)
	if !debounce.Stop() {
		<-debounce.C
	}
	dirty := false

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			// Directories created after startup join the watch set.
			if ev.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					_ = watchRecursive(watcher, ev.Name)
					continue
				}
			}

			if filepath.Ext(ev.Name) != ".dart" {
				continue
			}

			dirty = true
			debounce.Reset(debounceDelay)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", "error", err)

		case <-debounce.C:
			if !dirty {
				continue
			}
			dirty = false

			rep, err := w.audit(ctx, -1)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				w.log.Error("rescan failed", "error", err)
				continue
			}

			onReport(rep)
		}
	}
}

// watchRecursive adds dir and every subdirectory to the watcher, skipping
// hidden directories and build output.
func watchRecursive(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // unreadable entries are skipped, not fatal
		}
		if !d.IsDir() {
			return nil
		}

		name := d.Name()
		if path != dir && (strings.HasPrefix(name, ".") || name == "build") {
			return fs.SkipDir
		}

		return watcher.Add(path)
	})
}

// printDelta prints a one-line pass summary and, from the second pass on,
// how coverage and the finding count moved.
func printDelta(wr io.Writer, prev, cur *audit.Report) {
	line := fmt.Sprintf("%s  coverage %.1f%%  findings %d  high %d",
		cur.GeneratedAt.Format("15:04:05"),
		cur.Coverage,
		len(cur.Findings),
		cur.ByPriority[audit.PriorityHigh])

	if prev != nil {
		line += fmt.Sprintf("  (%+.1f%%, %+d findings)",
			cur.Coverage-prev.Coverage,
			len(cur.Findings)-len(prev.Findings))
	}

	fmt.Fprintln(wr, line)
}

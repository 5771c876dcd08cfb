package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cmd, args := os.Args[1], os.Args[2:]

	switch cmd {
	case "help", "-h", "--help":
		usage()
		return
	case "version", "-v", "--version":
		_ = runVersion()
		return
	}

	if err := dispatch(cmd, args); err != nil {
		if errors.Is(err, errUnknownCommand) {
			fmt.Fprintf(os.Stderr, "unknown command %q\n\n", cmd)
			usage()
			os.Exit(2)
		}

		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

var errUnknownCommand = errors.New("unknown command")

func dispatch(cmd string, args []string) error {
	// Provider keys commonly live in dotenv files during development.
	// .env.local is loaded first so it wins over .env; real environment
	// variables beat both.
	for _, f := range []string{".env.local", ".env"} {
		if err := loadDotEnv(f); err != nil {
			return err
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	switch cmd {
	case "init":
		return runInit(args)
	case "scan":
		return runScan(ctx, args)
	case "report":
		return runReport(ctx, args)
	case "models":
		return runModels(args)
	case "chat":
		return runChat(ctx, args)
	case "inject":
		return runInject(args)
	case "serve":
		return runServe(ctx, args)
	case "watch":
		return runWatch(ctx, args)
	case "history":
		return runHistory(ctx, args)
	case "mine":
		return runMine(args)
	case "mcp":
		return runMCP(ctx, args)
	}

	return errUnknownCommand
}

// loadDotEnv loads environment variables from path. Missing files are
// ignored. godotenv never overrides variables that are already set.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return err
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: axlint <command> [flags]

Surface missing accessibility labels in Flutter projects.

Commands:
  init     Create .axlint/ and walk through the configuration
  scan     Audit the project and record the run in history
  report   Export an audit report
  models   List models and manage the selection
  chat     Discuss findings with the advisor
  inject   Write the env script asset for web builds
  serve    Start the local web UI
  watch    Re-audit on file changes
  history  Show recorded runs and the coverage trend
  mine     Mine label rules from semantics dumps
  mcp      Serve the audit tools over MCP on stdio
  version  Print the version

Run "axlint <command> -h" for command flags.
`)
}

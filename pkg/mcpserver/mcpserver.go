// Package mcpserver exposes the auditor to editors and agents over the
// Model Context Protocol, using the official MCP Go SDK. Five tools
// cover the workflow: scan the project, read the report, query the
// label rules, and list or select the advisor model.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/seojunpark/axlint/pkg/audit"
	"github.com/seojunpark/axlint/pkg/catalog"
	"github.com/seojunpark/axlint/pkg/flutter"
	"github.com/seojunpark/axlint/pkg/logging"
	"github.com/seojunpark/axlint/pkg/rules"
	"github.com/seojunpark/axlint/pkg/selection"
)

// Options configures the server.
type Options struct {
	// Version is reported during the MCP handshake. Empty means "dev".
	Version string
	// Root is the Flutter project scanned by scan_project.
	Root string
	// Include and Exclude are the scan globs.
	Include []string
	Exclude []string
	// Rules drives suggest_label and the audit.
	Rules *rules.Engine
	// MinConfidence is the audit suggestion floor.
	MinConfidence float64
	// Selector gates and persists model choices.
	Selector *selection.Selector
	// Log may be nil to discard.
	Log *slog.Logger
}

// Server serves the axlint tools over MCP.
type Server struct {
	server   *mcp.Server
	root     string
	include  []string
	exclude  []string
	engine   *rules.Engine
	auditor  *audit.Auditor
	selector *selection.Selector
	log      *slog.Logger

	mu     sync.Mutex
	report *audit.Report
}

// New creates a Server with all tools registered.
func New(opts Options) *Server {
	log := opts.Log
	if log == nil {
		log = logging.Discard()
	}

	version := opts.Version
	if version == "" {
		version = "dev"
	}

	s := &Server{
		server: mcp.NewServer(&mcp.Implementation{
			Name:    "axlint",
			Version: version,
		}, nil),
		root:     opts.Root,
		include:  opts.Include,
		exclude:  opts.Exclude,
		engine:   opts.Rules,
		auditor:  audit.New(opts.Rules, opts.MinConfidence, log),
		selector: opts.Selector,
		log:      log,
	}
	s.register()

	return s
}

func (s *Server) register() {
	s.server.AddTool(&mcp.Tool{
		Name:        "scan_project",
		Description: "Scan a Flutter project for accessibility issues and return a summary. The full report is available through get_report.",
		InputSchema: json.RawMessage(`{"type":"object","properties":{"root":{"type":"string","description":"Project root to scan; defaults to the configured root"}}}`),
	}, sdkHandler(s.scanProject))

	s.server.AddTool(&mcp.Tool{
		Name:        "get_report",
		Description: "Return the most recent accessibility report as JSON.",
		InputSchema: json.RawMessage(`{"type":"object","properties":{}}`),
	}, sdkHandler(s.getReport))

	s.server.AddTool(&mcp.Tool{
		Name:        "suggest_label",
		Description: "Suggest a semantic label for a widget using the rule cascade.",
		InputSchema: json.RawMessage(`{"type":"object","properties":{"widget":{"type":"string","description":"Widget class, e.g. IconButton"},"resource_id":{"type":"string","description":"Key or id of the widget"},"text":{"type":"string","description":"Visible text inside the widget"},"clickable":{"type":"boolean","description":"Whether the widget handles taps"}},"required":["widget"]}`),
	}, sdkHandler(s.suggestLabel))

	s.server.AddTool(&mcp.Tool{
		Name:        "list_models",
		Description: "List the advisor models with their availability and the current selection.",
		InputSchema: json.RawMessage(`{"type":"object","properties":{}}`),
	}, sdkHandler(s.listModels))

	s.server.AddTool(&mcp.Tool{
		Name:        "select_model",
		Description: "Select the advisor model. Fails when the model's provider has no API key configured.",
		InputSchema: json.RawMessage(`{"type":"object","properties":{"model":{"type":"string","description":"Catalog model identifier"}},"required":["model"]}`),
	}, sdkHandler(s.selectModel))
}

// Serve reads MCP requests from in and writes responses to out. It
// blocks until ctx is cancelled or the transport closes.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	s.log.Info("mcp server listening", "transport", "stdio")

	transport := &mcp.IOTransport{
		Reader: io.NopCloser(in),
		Writer: nopWriteCloser{out},
	}

	return s.run(ctx, transport)
}

// run starts the SDK server on the given transport. Tests call it
// directly with an in-memory transport pair.
func (s *Server) run(ctx context.Context, transport mcp.Transport) error {
	return s.server.Run(ctx, transport)
}

type handler func(ctx context.Context, input json.RawMessage) (string, error)

// sdkHandler wraps a handler as an SDK ToolHandler. Handler errors
// become tool results with IsError set, so the client sees the message
// text instead of a protocol failure.
func sdkHandler(h handler) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := req.Params.Arguments
		if args == nil {
			args = json.RawMessage("{}")
		}

		result, err := h(ctx, args)
		if err != nil {
			return &mcp.CallToolResult{
				Content: []mcp.Content{&mcp.TextContent{Text: err.Error()}},
				IsError: true,
			}, nil
		}

		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: result}},
		}, nil
	}
}

func (s *Server) scanProject(ctx context.Context, input json.RawMessage) (string, error) {
	var args struct {
		Root string `json:"root"`
	}
	if err := json.Unmarshal(input, &args); err != nil {
		return "", fmt.Errorf("mcpserver: parse arguments: %w", err)
	}

	root := args.Root
	if root == "" {
		root = s.root
	}

	proj, err := flutter.ScanProject(ctx, root, s.include, s.exclude)
	if err != nil {
		return "", err
	}

	rep := s.auditor.Run(ctx, proj)

	s.mu.Lock()
	s.report = rep
	s.mu.Unlock()

	s.log.Info("mcp scan complete", "app", rep.App, "findings", len(rep.Findings))

	return marshal(struct {
		App        string                 `json:"app"`
		Files      int                    `json:"files"`
		Total      int                    `json:"total_elements"`
		Labeled    int                    `json:"labeled"`
		Coverage   float64                `json:"coverage"`
		Findings   int                    `json:"findings"`
		ByPriority map[audit.Priority]int `json:"by_priority"`
	}{
		App:        rep.App,
		Files:      proj.Files,
		Total:      rep.TotalElements,
		Labeled:    rep.Labeled,
		Coverage:   rep.Coverage,
		Findings:   len(rep.Findings),
		ByPriority: rep.ByPriority,
	})
}

func (s *Server) getReport(_ context.Context, _ json.RawMessage) (string, error) {
	s.mu.Lock()
	rep := s.report
	s.mu.Unlock()

	if rep == nil {
		return "", errors.New("no report yet: call scan_project first")
	}

	return marshal(rep)
}

func (s *Server) suggestLabel(_ context.Context, input json.RawMessage) (string, error) {
	var args struct {
		Widget     string `json:"widget"`
		ResourceID string `json:"resource_id"`
		Text       string `json:"text"`
		Clickable  bool   `json:"clickable"`
	}
	if err := json.Unmarshal(input, &args); err != nil {
		return "", fmt.Errorf("mcpserver: parse arguments: %w", err)
	}
	if args.Widget == "" {
		return "", errors.New("widget is required")
	}

	el := flutter.Element{
		Widget:     args.Widget,
		ResourceID: args.ResourceID,
		Text:       args.Text,
		Clickable:  args.Clickable,
	}

	app := s.appName()

	return marshal(struct {
		rules.Suggestion
		Alternatives []string `json:"alternatives,omitempty"`
	}{
		Suggestion:   s.engine.Suggest(app, el),
		Alternatives: s.engine.Alternatives(app, el),
	})
}

func (s *Server) listModels(_ context.Context, _ json.RawMessage) (string, error) {
	current := s.selector.Current()

	type entry struct {
		catalog.Model
		Selectable bool `json:"selectable"`
		Selected   bool `json:"selected"`
	}

	models := catalog.Models()
	out := make([]entry, 0, len(models))
	// Models without a credential are listed with selectable=false,
	// never omitted.
	for _, m := range models {
		out = append(out, entry{
			Model:      m,
			Selectable: s.selector.Selectable(m),
			Selected:   m.ID == current.ID,
		})
	}

	return marshal(out)
}

func (s *Server) selectModel(_ context.Context, input json.RawMessage) (string, error) {
	var args struct {
		Model string `json:"model"`
	}
	if err := json.Unmarshal(input, &args); err != nil {
		return "", fmt.Errorf("mcpserver: parse arguments: %w", err)
	}

	// A NoCredentialError names the variable to set; its text reaches
	// the client verbatim as the tool error.
	sel, err := s.selector.Select(args.Model)
	if err != nil {
		return "", err
	}

	return marshal(sel)
}

// appName returns the app identity of the last scan, for app-specific
// rules. Empty before the first scan.
func (s *Server) appName() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.report != nil {
		return s.report.App
	}
	return ""
}

func marshal(v any) (string, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("mcpserver: marshal result: %w", err)
	}
	return string(b), nil
}

// nopWriteCloser wraps an io.Writer as an io.WriteCloser with a no-op
// Close.
type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

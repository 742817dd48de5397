package server

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/dejo1307/a11yaudit/internal/config"
	"github.com/dejo1307/a11yaudit/internal/contrast"
	"github.com/dejo1307/a11yaudit/internal/engine"
	"github.com/dejo1307/a11yaudit/internal/findings"
	"github.com/dejo1307/a11yaudit/internal/renderers/jsonreport"
	"github.com/dejo1307/a11yaudit/internal/renderers/sarif"
	"github.com/dejo1307/a11yaudit/internal/renderers/summary"
)

// Version is reported to MCP clients.
const Version = "0.1.0"

// Server wraps the MCP server and connects it to the audit engine.
type Server struct {
	mcp    *mcp.Server
	eng    *engine.Engine
	cfg    *config.Config
	logger *zap.Logger
}

// New creates a new MCP server wired to the given engine.
func New(eng *engine.Engine, cfg *config.Config, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		eng:    eng,
		cfg:    cfg,
		logger: logger.Named("server"),
	}

	s.mcp = mcp.NewServer(&mcp.Implementation{
		Name:    "a11yaudit",
		Version: Version,
	}, nil)

	s.registerResources()
	s.registerTools()
	return s, nil
}

// Run starts the MCP server on the stdio transport.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("starting MCP server on stdio transport")
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

// artifactResource describes one report artifact exposed as an MCP resource.
type artifactResource struct {
	uri         string
	name        string
	description string
	mime        string
	artifact    string
}

var artifactResources = []artifactResource{
	{"a11y://report/json", "Accessibility Report", "Full compliance report of the last audit", "application/json", jsonreport.FileName},
	{"a11y://report/summary", "Accessibility Summary", "Prioritized markdown digest of the last audit", "text/markdown", summary.FileName},
	{"a11y://report/sarif", "Accessibility SARIF", "Findings of the last audit as SARIF 2.1.0", "application/sarif+json", sarif.FileName},
	{"a11y://report/findings", "Accessibility Findings", "All findings of the last audit in JSONL format", "application/jsonl", engine.FindingsFile},
}

// registerResources adds MCP resources for report artifacts.
func (s *Server) registerResources() {
	for _, r := range artifactResources {
		s.mcp.AddResource(&mcp.Resource{
			URI:         r.uri,
			Name:        r.name,
			Description: r.description,
			MIMEType:    r.mime,
		}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
			content, err := s.eng.GetArtifact(r.artifact)
			if err != nil {
				return nil, fmt.Errorf("no report available: %w (run run_audit first)", err)
			}
			return &mcp.ReadResourceResult{
				Contents: []*mcp.ResourceContents{
					{URI: req.Params.URI, Text: string(content), MIMEType: r.mime},
				},
			}, nil
		})
	}
}

// runAuditArgs are the arguments for the run_audit tool.
type runAuditArgs struct {
	Root  string `json:"root,omitempty" jsonschema:"Source directory to audit. Defaults to the configured root."`
	Write bool   `json:"write,omitempty" jsonschema:"Also write report artifacts to the configured output directory"`
}

// queryFindingsArgs are the arguments for the query_findings tool.
type queryFindingsArgs struct {
	Type       string `json:"type,omitempty" jsonschema:"Filter by finding type, e.g. MISSING_ACCESSIBILITY_LABEL"`
	Severity   string `json:"severity,omitempty" jsonschema:"Filter by severity: HIGH, MEDIUM or LOW"`
	File       string `json:"file,omitempty" jsonschema:"Filter by exact file path relative to the audit root"`
	FilePrefix string `json:"file_prefix,omitempty" jsonschema:"Filter by file path prefix, e.g. screens/"`
	Rule       string `json:"rule,omitempty" jsonschema:"Filter by WCAG success criterion, e.g. 4.1.2"`
	Text       string `json:"text,omitempty" jsonschema:"Case-insensitive substring of message or evidence"`
	Offset     int    `json:"offset,omitempty" jsonschema:"Number of results to skip"`
	Limit      int    `json:"limit,omitempty" jsonschema:"Maximum results (default 100, max 500)"`
}

// checkContrastArgs are the arguments for the check_contrast tool.
type checkContrastArgs struct {
	Foreground string  `json:"foreground" jsonschema:"Foreground color (#rrggbb, #rgb or rgb(r, g, b))"`
	Background string  `json:"background" jsonschema:"Background color"`
	SizePt     float64 `json:"size_pt,omitempty" jsonschema:"Font size in points; 18pt (or 14pt bold) counts as large text"`
	Bold       bool    `json:"bold,omitempty" jsonschema:"Whether the text is bold"`
}

// showSourceArgs are the arguments for the show_source tool.
type showSourceArgs struct {
	File         string `json:"file" jsonschema:"File path relative to the audit root"`
	Line         int    `json:"line" jsonschema:"Line to center on"`
	ContextLines int    `json:"context_lines,omitempty" jsonschema:"Number of source lines to show around the line (default 20)"`
}

// registerTools adds MCP tools for auditing and querying.
func (s *Server) registerTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "run_audit",
		Description: "Audit a React / React Native source tree for accessibility problems and return the score, counts and recommendations.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args runAuditArgs) (*mcp.CallToolResult, any, error) {
		text, err := s.runAudit(ctx, args)
		if err != nil {
			return errorResult(err.Error()), nil, nil
		}
		return textResult(text), nil, nil
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "query_findings",
		Description: "Query findings of the last audit by type, severity, file, WCAG rule or text. Returns matching findings as JSON.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args queryFindingsArgs) (*mcp.CallToolResult, any, error) {
		text, err := s.queryFindings(args)
		if err != nil {
			return errorResult(err.Error()), nil, nil
		}
		return textResult(text), nil, nil
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "check_contrast",
		Description: "Compute the WCAG contrast ratio of two colors and suggest a darker foreground when the pair fails AA.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args checkContrastArgs) (*mcp.CallToolResult, any, error) {
		text, err := checkContrast(args)
		if err != nil {
			return errorResult(err.Error()), nil, nil
		}
		return textResult(text), nil, nil
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "show_source",
		Description: "Show the source around a finding so the fix can be written in context.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args showSourceArgs) (*mcp.CallToolResult, any, error) {
		text, err := s.showSource(args)
		if err != nil {
			return errorResult(err.Error()), nil, nil
		}
		return textResult(text), nil, nil
	})
}

func (s *Server) runAudit(ctx context.Context, args runAuditArgs) (string, error) {
	root := args.Root
	if root == "" {
		root = s.cfg.Root
	}

	rep, err := s.eng.Run(ctx, root)
	if rep == nil {
		return "", fmt.Errorf("audit failed: %v", err)
	}

	if args.Write {
		if werr := s.eng.WriteArtifacts(s.cfg.Output.Dir); werr != nil {
			s.logger.Warn("failed to write artifacts", zap.Error(werr))
		}
	}

	var sb strings.Builder
	if err != nil {
		fmt.Fprintf(&sb, "Audit interrupted (%v); results are partial.\n\n", err)
	} else {
		sb.WriteString("Audit completed.\n\n")
	}
	fmt.Fprintf(&sb, "- Root: %s\n", rep.Meta.Root)
	fmt.Fprintf(&sb, "- Score: %.2f / 100\n", rep.Summary.OverallScore)
	fmt.Fprintf(&sb, "- Files: %d (components: %d, skipped: %d)\n",
		rep.Summary.FilesScanned, rep.Summary.ComponentsScanned, rep.Summary.FilesSkipped)
	fmt.Fprintf(&sb, "- Issues: %d\n", rep.Summary.TotalIssues)
	fmt.Fprintf(&sb, "- Warnings: %d\n", rep.Summary.TotalWarnings)
	fmt.Fprintf(&sb, "- Duration: %s\n", rep.Meta.Duration)

	if len(rep.Recommendations) > 0 {
		sb.WriteString("\nRecommendations:\n")
		for _, r := range rep.Recommendations {
			fmt.Fprintf(&sb, "- [%s] %s\n", r.Priority, r.Title)
		}
	}
	sb.WriteString("\nUse query_findings to list findings or read a11y://report/summary for the full digest.")
	return sb.String(), nil
}

func (s *Server) queryFindings(args queryFindingsArgs) (string, error) {
	if s.eng.Report() == nil {
		return "", fmt.Errorf("no report available. Run run_audit first")
	}

	results, total := s.eng.Store().Query(findings.QueryOpts{
		Type:       args.Type,
		Severity:   findings.Severity(strings.ToUpper(args.Severity)),
		File:       args.File,
		FilePrefix: args.FilePrefix,
		Rule:       args.Rule,
		Text:       args.Text,
		Offset:     args.Offset,
		Limit:      args.Limit,
	})
	if results == nil {
		results = []findings.Finding{}
	}

	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal results: %v", err)
	}

	text := string(data)
	if shown := args.Offset + len(results); shown < total {
		text += fmt.Sprintf("\n\n... (showing %d-%d of %d results, use offset to page)", args.Offset+1, shown, total)
	}
	return text, nil
}

func checkContrast(args checkContrastArgs) (string, error) {
	pair := contrast.ColorPair{Foreground: args.Foreground, Background: args.Background}
	text, _, err := contrast.Describe(pair, contrast.TextStyle{SizePt: args.SizePt, Bold: args.Bold})
	return text, err
}

func (s *Server) showSource(args showSourceArgs) (string, error) {
	rep := s.eng.Report()
	if rep == nil {
		return "", fmt.Errorf("no report available. Run run_audit first")
	}
	if args.File == "" {
		return "", fmt.Errorf("file is required")
	}

	rel := filepath.Clean(filepath.FromSlash(args.File))
	if filepath.IsAbs(rel) || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("file must be relative to the audit root")
	}

	contextLines := args.ContextLines
	if contextLines <= 0 {
		contextLines = 20
	}
	line := max(args.Line, 1)

	source, err := readSourceWindow(filepath.Join(rep.Meta.Root, rel), line, contextLines)
	if err != nil {
		return "", fmt.Errorf("could not read source: %v", err)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "### %s:%d\n\n", filepath.ToSlash(rel), line)
	for _, f := range s.eng.Store().ByFile(filepath.ToSlash(rel)) {
		if f.Line != nil && *f.Line == line {
			fmt.Fprintf(&sb, "- [%s] %s: %s\n", f.Severity, f.Type, f.Message)
		}
	}
	fmt.Fprintf(&sb, "\n```tsx\n%s```\n", source)
	return sb.String(), nil
}

// readSourceWindow reads lines from a file centered around the given line number.
func readSourceWindow(absFile string, centerLine, contextLines int) (string, error) {
	data, err := os.ReadFile(absFile)
	if err != nil {
		return "", err
	}

	lines := strings.Split(string(data), "\n")
	startLine := max(centerLine-contextLines/2, 1)
	endLine := min(centerLine+contextLines/2, len(lines))

	var sb strings.Builder
	for i := startLine; i <= endLine; i++ {
		fmt.Fprintf(&sb, "%4d│ %s\n", i, lines[i-1])
	}
	return sb.String(), nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: msg},
		},
		IsError: true,
	}
}

// Package mcpserver exposes the playground as a Model Context Protocol server.
//
// Every enabled language gets a <language>_execute tool; list_languages
// reports runtime status. Program failures are returned as tool results
// with IsError set, never as protocol errors.
package mcpserver

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/jonwraymond/codeplay/backend"
	"github.com/jonwraymond/codeplay/backend/local"
	"github.com/jonwraymond/codeplay/code"
	"github.com/jonwraymond/codeplay/logging"
)

// Server wraps the MCP server with the playground's backends.
type Server struct {
	agg    *backend.Aggregator
	server *mcp.Server
	logger *slog.Logger
}

// NewServer creates a playground MCP server. Tools are registered for the
// backends enabled at the time of the call.
func NewServer(agg *backend.Aggregator, version string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.Discard()
	}
	s := &Server{agg: agg, logger: logger.With("component", "mcp")}

	impl := &mcp.Implementation{
		Name:    "codeplay",
		Version: version,
	}

	s.server = mcp.NewServer(impl, nil)
	s.registerTools()

	return s
}

// Run starts the MCP server on stdio.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// MCP returns the underlying MCP server.
func (s *Server) MCP() *mcp.Server {
	return s.server
}

// ToolName returns the execute tool name for a language.
func ToolName(language string) string {
	return language + "_execute"
}

func (s *Server) registerTools() {
	for _, b := range s.agg.Registry().ListEnabled() {
		lang := b.Name()
		mcp.AddTool(s.server, &mcp.Tool{
			Name: ToolName(lang),
			Description: fmt.Sprintf("Run a %s program in the embedded %s interpreter. "+
				"Returns everything the program printed, a categorized error if it failed, "+
				"and the execution time in milliseconds.", lang, lang),
		}, s.executeHandler(lang))
	}

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_languages",
		Description: "List the playground languages with their runtime state (uninitialized, loading, ready, load_failed).",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, s.handleListLanguages)
}

// ExecuteArgs defines the input for <language>_execute.
type ExecuteArgs struct {
	Code string `json:"code" jsonschema:"Program source to run"`
}

// ExecuteOutput is the structured output of <language>_execute.
type ExecuteOutput struct {
	Output              string          `json:"output" jsonschema:"Everything the program printed, in order"`
	Error               *code.ErrorInfo `json:"error,omitempty" jsonschema:"Categorized failure; absent on success"`
	ExecutionTimeMillis int64           `json:"executionTimeMillis" jsonschema:"Run time in milliseconds"`
}

func (s *Server) executeHandler(lang string) mcp.ToolHandlerFor[ExecuteArgs, ExecuteOutput] {
	toolID := backend.FormatToolID(lang, local.ToolExecute)
	return func(ctx context.Context, req *mcp.CallToolRequest, args ExecuteArgs) (*mcp.CallToolResult, ExecuteOutput, error) {
		out, err := s.agg.Execute(ctx, toolID, map[string]any{"code": args.Code})
		if err != nil {
			return nil, ExecuteOutput{}, fmt.Errorf("%s: %w", lang, err)
		}
		result, ok := out.(code.ExecuteResult)
		if !ok {
			return nil, ExecuteOutput{}, fmt.Errorf("%s: unexpected result type %T", lang, out)
		}

		s.logger.Debug("executed", "language", lang, "ok", result.OK(), "ms", result.ExecutionTimeMillis)
		res := &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: Render(result)}},
			IsError: !result.OK(),
		}
		return res, ExecuteOutput{
			Output:              result.Output,
			Error:               result.Error,
			ExecutionTimeMillis: result.ExecutionTimeMillis,
		}, nil
	}
}

// ListLanguagesArgs defines the input for list_languages.
type ListLanguagesArgs struct{}

// ListLanguagesResult is the output of list_languages.
type ListLanguagesResult struct {
	Languages []backend.Info `json:"languages"`
}

func (s *Server) handleListLanguages(ctx context.Context, req *mcp.CallToolRequest, args ListLanguagesArgs) (*mcp.CallToolResult, ListLanguagesResult, error) {
	return nil, ListLanguagesResult{Languages: s.agg.Describe()}, nil
}

// Render formats a result as plain text: the program output followed by the
// error line, if any.
func Render(result code.ExecuteResult) string {
	var b strings.Builder
	b.WriteString(result.Output)
	if result.Error != nil {
		if result.Output != "" && !strings.HasSuffix(result.Output, "\n") {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s: %s", result.Error.Category, result.Error.Message)
	}
	if b.Len() == 0 {
		return "(no output)"
	}
	return b.String()
}

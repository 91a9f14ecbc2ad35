package cmd

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"gopkg.in/yaml.v3"
)

// mcpServer exposes a session's operations as MCP tools.
type mcpServer struct {
	session *session
	mcp     *mcpserver.MCPServer
}

// MCPConfig holds MCP server configuration.
type MCPConfig struct {
	Transport string
	Port      int
}

func newMCPServer(s *session) *mcpServer {
	srv := &mcpServer{
		session: s,
		mcp:     mcpserver.NewMCPServer("desktop-text", Version),
	}
	srv.registerTools()
	return srv
}

// serve starts the MCP server with the configured transport.
func (s *mcpServer) serve(cfg MCPConfig) error {
	switch cfg.Transport {
	case "stdio":
		return mcpserver.ServeStdio(s.mcp)
	case "streamable-http":
		httpServer := mcpserver.NewStreamableHTTPServer(s.mcp)
		return httpServer.Start(fmt.Sprintf(":%d", cfg.Port))
	default:
		return fmt.Errorf("unsupported transport: %s (use stdio or streamable-http)", cfg.Transport)
	}
}

// queryOptions are the tool parameters describing a text query.
func queryOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("phrase", mcp.Description("Match this phrase (whole words, case-insensitive)")),
		mcp.WithString("start", mcp.Description("Match from this phrase; requires end")),
		mcp.WithString("end", mcp.Description("Match to this phrase; without start the range runs from the caret")),
		mcp.WithBoolean("start-before", mcp.Description("Start just before the start phrase")),
		mcp.WithBoolean("start-after", mcp.Description("Start just after the start phrase")),
		mcp.WithBoolean("end-before", mcp.Description("End just before the end phrase")),
		mcp.WithBoolean("end-after", mcp.Description("End just after the end phrase")),
	}
}

func tool(name, description string, opts ...mcp.ToolOption) mcp.Tool {
	return mcp.NewTool(name, append([]mcp.ToolOption{mcp.WithDescription(description)}, opts...)...)
}

func (s *mcpServer) registerTools() {
	s.mcp.AddTool(
		tool("get_cursor", "Get the caret offset in the focused element's flattened text"),
		s.stepHandler("cursor"),
	)
	s.mcp.AddTool(
		tool("set_cursor", "Move the caret to an offset in the focused element's flattened text",
			mcp.WithNumber("offset", mcp.Description("Caret offset"), mcp.Required()),
		),
		s.stepHandler("set-cursor"),
	)
	s.mcp.AddTool(
		tool("move_cursor", "Move the caret to the start or end of the text matching a query",
			append(queryOptions(), mcp.WithString("to", mcp.Description("Boundary: start (default) or end")))...,
		),
		s.stepHandler("move"),
	)
	s.mcp.AddTool(
		tool("text_info", "Return the text matching a query with its offsets and screen points", queryOptions()...),
		s.stepHandler("info"),
	)
	s.mcp.AddTool(
		tool("select_text", "Select the text matching a query", queryOptions()...),
		s.stepHandler("select"),
	)
	s.mcp.AddTool(
		tool("replace_text", "Replace the text matching a query, following its capitalisation",
			append(queryOptions(), mcp.WithString("with", mcp.Description("Replacement text; empty deletes")))...,
		),
		s.stepHandler("replace"),
	)
	s.mcp.AddTool(
		tool("is_editable", "Report whether the focused element accepts text input"),
		s.stepHandler("editable"),
	)
	s.mcp.AddTool(
		tool("do", "Execute multiple operations in a batch. Supports: "+stepTypes+", try, if-found, if-editable",
			mcp.WithArray("steps", mcp.Description("Array of step objects"), mcp.Required()),
			mcp.WithBoolean("stop-on-error", mcp.Description("Stop on first error (default: true)")),
		),
		s.handleDo,
	)
}

// stepHandler runs a single operation with the tool arguments as parameters.
func (s *mcpServer) stepHandler(action string) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := executeStep(ctx, s.session, action, req.GetArguments())
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		result.OK = true
		return resultToText(result)
	}
}

func (s *mcpServer) handleDo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	steps, err := parseSubsteps(args["steps"])
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(steps) == 0 {
		return mcp.NewToolResultError("no steps provided"), nil
	}
	dc := &DoContext{Ctx: ctx, Session: s.session, StopOnError: boolParam(args, "stop-on-error", true)}
	dc.ExecuteSteps(steps, 0)
	return resultToText(dc.Result(len(steps)))
}

func resultToText(v interface{}) (*mcp.CallToolResult, error) {
	data, err := yaml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start an MCP server exposing the text operations",
	Long: `Start a Model Context Protocol (MCP) server that exposes the text
operations as tools. One accessibility session is kept for the lifetime of the
server, so tool calls do not pay the startup cost.

Supported transports:
  stdio             Standard I/O (default, for local MCP clients)
  streamable-http   Streamable HTTP transport (for remote agents)

Examples:
  desktop-text serve
  desktop-text serve --transport streamable-http --port 8080`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("transport", "stdio", "Transport: stdio, streamable-http")
	serveCmd.Flags().Int("port", 8080, "HTTP port for streamable-http transport")
}

func runServe(cmd *cobra.Command, args []string) error {
	transport, _ := cmd.Flags().GetString("transport")
	port, _ := cmd.Flags().GetInt("port")
	cfg := MCPConfig{Transport: transport, Port: port}

	s, err := openSession(appConfig, logger)
	if err != nil {
		return fmt.Errorf("failed to open accessibility session: %w", err)
	}
	defer s.Close()

	return newMCPServer(s).serve(cfg)
}

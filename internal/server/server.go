// Package server wires the MCP tools and creates the server instance.
package server

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/ppiankov/normregion/internal/model"
	"github.com/ppiankov/normregion/internal/pipeline"
	"github.com/ppiankov/normregion/internal/tools"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates the MCP server with every tool registered. Curves are not
// generated because tool results are text only.
func New(cfg *model.Config) *server.MCPServer {
	toolCfg := *cfg
	toolCfg.Output.Chart = false

	p := pipeline.NewPipeline(&toolCfg)

	s := server.NewMCPServer(
		"normregion",
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	evaluateTool := tools.NewEvaluateTool(p, p.Renderer())
	s.AddTool(evaluateTool.Definition(), evaluateTool.Handle)

	return s
}

func serverInstructions() string {
	return "normregion computes probabilities of normal distribution regions. " +
		"Call evaluate_regions with the mean, the standard deviation and one region " +
		"(limit1 with direction1 '<=' or '>='). Add limit2 (and optionally direction2) " +
		"to compare two regions. Quote the reported 4-decimal values as given."
}

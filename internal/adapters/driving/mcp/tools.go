package mcp

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/custodia-labs/sitrep/internal/core/domain"
	"github.com/custodia-labs/sitrep/internal/metrics"
)

// BriefInput is the input schema for the executive_brief tool.
type BriefInput struct {
	Question string `json:"question" jsonschema:"the free-text question the brief should answer"`
}

// BriefOutput is the output schema for the executive_brief tool. It mirrors
// the REST response envelope so both surfaces stay interchangeable.
type BriefOutput struct {
	Question    string              `json:"question"`
	Answer      string              `json:"combinedAnswer"`
	Sources     domain.Sources      `json:"sources"`
	Polish      domain.PolishReport `json:"gemini"`
	GeneratedAt string              `json:"generatedAt"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "executive_brief",
		Description: "Build an executive brief answering a question from the ticketing, CRM and document systems",
	}, s.handleBrief)
}

// handleBrief handles the executive_brief tool invocation. Per-source
// failures are reported inside the output, never as a tool error.
func (s *Server) handleBrief(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input BriefInput,
) (*mcp.CallToolResult, BriefOutput, error) {
	brief, err := s.ports.Brief.Brief(ctx, input.Question)
	if err != nil {
		s.log.Warn("executive_brief tool failed", zap.Error(err))
		return nil, BriefOutput{}, err
	}

	metrics.BriefsGenerated.WithLabelValues("mcp").Inc()

	output := BriefOutput{
		Question:    brief.Question,
		Answer:      brief.Answer,
		Sources:     brief.Sources,
		Polish:      brief.Polish,
		GeneratedAt: brief.GeneratedAt.Format(time.RFC3339),
	}

	return nil, output, nil
}

package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/sitrep/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for Sitrep resources.
	uriScheme = "sitrep://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource describing the systems every brief aggregates.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "sources",
		Name:        "sources",
		Description: "The systems every brief aggregates, in presentation order",
		MIMEType:    "application/json",
	}, s.handleSourcesResource)
}

// sourceInfo is one entry of the sources resource.
type sourceInfo struct {
	// Key is the per-source key used in the response envelope.
	Key  string `json:"key"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// handleSourcesResource returns the fixed list of aggregated systems.
func (s *Server) handleSourcesResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	sources := domain.AllSources()
	infos := make([]sourceInfo, len(sources))
	for i, src := range sources {
		infos[i] = sourceInfo{
			Key:  string(src),
			Name: sourceName(src),
			Role: sourceRole(src),
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling sources: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

func sourceName(src domain.Source) string {
	switch src {
	case domain.SourceServiceNow:
		return "ServiceNow"
	case domain.SourceSalesforce:
		return "Salesforce"
	case domain.SourceSharePoint:
		return "SharePoint"
	default:
		return string(src)
	}
}

func sourceRole(src domain.Source) string {
	switch src {
	case domain.SourceServiceNow:
		return "open high-priority incident counts"
	case domain.SourceSalesforce:
		return "open pipeline and at-risk revenue for the account in question"
	case domain.SourceSharePoint:
		return "relevant documents with extracted highlights"
	default:
		return ""
	}
}

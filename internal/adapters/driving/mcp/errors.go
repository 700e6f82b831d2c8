// Package mcp provides an MCP (Model Context Protocol) server adapter for
// Sitrep. It lets AI assistants request executive briefs over stdio or HTTP.
package mcp

import "errors"

// ErrMissingBriefService is returned when the brief service is not provided.
var ErrMissingBriefService = errors.New("mcp: brief service is required")

// Package driving defines the inbound (primary) ports of the hexagon.
//
// Driving adapters (HTTP API, MCP server, CLI) call the core exclusively
// through these interfaces.
package driving

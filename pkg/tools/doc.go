// Package tools exposes the calculator to programmatic clients.
//
// It is organized into sub-packages:
//   - [github.com/germanamz/tally/pkg/tools/toolbox]: Tool type and ToolBox for registering, listing, and calling tools
//   - [github.com/germanamz/tally/pkg/tools/calctools]: calculator operations bound to a session as tools
//   - [github.com/germanamz/tally/pkg/tools/mcpserver]: MCP server using the official MCP Go SDK for exposing tools over stdio
//
// The toolbox sub-package is the foundation layer; calctools and mcpserver
// both depend on it but not on each other.
package tools

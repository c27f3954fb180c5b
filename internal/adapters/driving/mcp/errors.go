// Package mcp provides an MCP (Model Context Protocol) server adapter for campusrag.
// It lets AI assistants retrieve tenant context and inspect tenant indexes.
package mcp

import "errors"

// ErrMissingRetrievalService is returned when the retrieval service is not provided.
var ErrMissingRetrievalService = errors.New("mcp: retrieval service is required")

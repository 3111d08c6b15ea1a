// Package bridge exposes a parsed knowledge manifest as MCP resources.
// It maps knowledge units to knowledge:// URIs with MIME types and audience
// annotations, reads unit content with path-traversal protection, and builds
// a stdio MCP server that agents and editors can attach to. All mapping is
// pure; only the content reader and the manifest watcher touch the
// filesystem.
package bridge

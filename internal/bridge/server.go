package bridge

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kcp-labs/kcp/internal/manifest"
)

// Options controls what the bridge server exposes.
type Options struct {
	// AgentOnly hides units whose audience does not include "agent".
	AgentOnly bool
	// Quiet suppresses validation warnings and startup notes on stderr.
	Quiet bool
	// LogWriter receives startup notes and warnings; defaults to os.Stderr.
	LogWriter io.Writer
}

// resourceEntry pairs a resource descriptor with its read handler. Kept
// separate from the MCP server so tests can invoke handlers directly
// without a transport.
type resourceEntry struct {
	resource mcp.Resource
	handler  server.ResourceHandlerFunc
}

// NewServer parses the manifest at manifestPath and returns a configured MCP
// server exposing one resource per unit plus the manifest meta-resource.
// Validation findings never block serving; warnings are logged unless Quiet.
func NewServer(manifestPath, version string, opts Options) (*server.MCPServer, error) {
	logw := opts.LogWriter
	if logw == nil {
		logw = os.Stderr
	}

	m, err := manifest.Parse(manifestPath)
	if err != nil {
		return nil, err
	}

	manifestDir := filepath.Dir(manifestPath)
	if !opts.Quiet {
		result := manifest.Validate(m, manifestDir)
		for _, w := range result.Warnings {
			fmt.Fprintf(logw, "[kcp-mcp] warning: %s\n", w)
		}
		for _, e := range result.Errors {
			fmt.Fprintf(logw, "[kcp-mcp] error: %s\n", e)
		}
	}

	entries, err := buildResourceSet(m, manifestDir, opts.AgentOnly)
	if err != nil {
		return nil, err
	}

	s := server.NewMCPServer(
		"kcp",
		version,
		server.WithResourceCapabilities(false, true),
		server.WithRecovery(),
		server.WithInstructions("Knowledge resources for project '"+m.Project+"'. "+
			"Read the manifest resource first for an index of all units."),
	)
	for _, e := range entries {
		s.AddResource(e.resource, e.handler)
	}

	if !opts.Quiet {
		note := ""
		if opts.AgentOnly {
			note = " (agent-only filter active)"
		}
		fmt.Fprintf(logw, "[kcp-mcp] serving '%s': %d unit(s)%s\n", m.Project, len(m.Units), note)
		fmt.Fprintf(logw, "[kcp-mcp] start with: %s\n", ManifestURI(ProjectSlug(m.Project)))
	}

	return s, nil
}

// buildResourceSet maps the manifest to resource descriptors and read
// handlers: the JSON meta-resource first, then one entry per unit in
// manifest order.
func buildResourceSet(m *manifest.KnowledgeManifest, manifestDir string, agentOnly bool) ([]resourceEntry, error) {
	slug := ProjectSlug(m.Project)

	indexJSON, err := ManifestJSON(m, slug)
	if err != nil {
		return nil, err
	}

	metaURI := ManifestURI(slug)
	entries := []resourceEntry{{
		resource: ManifestResource(slug),
		handler: func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
			return []mcp.ResourceContents{mcp.TextResourceContents{
				URI:      metaURI,
				MIMEType: "application/json",
				Text:     indexJSON,
			}}, nil
		},
	}}

	for i := range m.Units {
		u := &m.Units[i]
		if agentOnly && !containsString(u.Audience, "agent") {
			continue
		}

		uri := UnitURI(slug, u.ID)
		mime := ResolveMime(u)
		unitPath := u.Path

		entries = append(entries, resourceEntry{
			resource: UnitResource(slug, u),
			handler: func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
				content, err := Read(manifestDir, unitPath, mime)
				if err != nil {
					return nil, err
				}
				if content.Binary {
					return []mcp.ResourceContents{mcp.BlobResourceContents{
						URI:      uri,
						MIMEType: mime,
						Blob:     content.Data,
					}}, nil
				}
				return []mcp.ResourceContents{mcp.TextResourceContents{
					URI:      uri,
					MIMEType: mime,
					Text:     content.Data,
				}}, nil
			},
		})
	}

	return entries, nil
}

func containsString(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}

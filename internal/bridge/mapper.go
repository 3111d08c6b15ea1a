package bridge

import (
	"encoding/json"
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/kcp-labs/kcp/internal/manifest"
)

// formatMime maps a unit's declared format to a MIME type.
var formatMime = map[string]string{
	"markdown": "text/markdown",
	"openapi":  "application/vnd.oai.openapi+yaml",
	"asyncapi": "application/vnd.aai.asyncapi+yaml",
	"json":     "application/json",
	"yaml":     "application/yaml",
	"text":     "text/plain",
	"html":     "text/html",
	"pdf":      "application/pdf",
	"png":      "image/png",
	"jpg":      "image/jpeg",
	"svg":      "image/svg+xml",
}

// extMime maps a unit path's extension to a MIME type, used when neither
// content_type nor format resolves.
var extMime = map[string]string{
	".md":   "text/markdown",
	".yaml": "application/yaml",
	".yml":  "application/yaml",
	".json": "application/json",
	".txt":  "text/plain",
	".html": "text/html",
	".htm":  "text/html",
	".pdf":  "application/pdf",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".svg":  "image/svg+xml",
}

var binaryMimePrefixes = []string{"image/", "audio/", "video/"}

var binaryMimeExact = map[string]bool{
	"application/pdf":          true,
	"application/octet-stream": true,
	"application/zip":          true,
}

// scopePriority translates a unit's scope tier into a resource priority
// annotation. Wider scope means higher priority.
var scopePriority = map[string]float64{
	"global":  1.0,
	"project": 0.7,
	"module":  0.5,
}

var slugStrip = regexp.MustCompile(`[^a-z0-9-]`)

// ProjectSlug derives a URI-safe slug from the manifest's project name.
func ProjectSlug(project string) string {
	s := strings.ToLower(project)
	s = strings.Join(strings.Fields(s), "-")
	return slugStrip.ReplaceAllString(s, "")
}

// UnitURI returns the resource URI for one knowledge unit.
func UnitURI(slug, unitID string) string {
	return "knowledge://" + slug + "/" + unitID
}

// ManifestURI returns the URI of the manifest meta-resource.
func ManifestURI(slug string) string {
	return "knowledge://" + slug + "/manifest"
}

// ResolveMime picks a MIME type for a unit: explicit content_type first,
// then the declared format, then the path extension, falling back to
// text/plain.
func ResolveMime(u *manifest.KnowledgeUnit) string {
	if u.ContentType != "" {
		return u.ContentType
	}
	if u.Format != "" {
		if mime, ok := formatMime[strings.ToLower(u.Format)]; ok {
			return mime
		}
	}
	if ext := strings.ToLower(path.Ext(u.Path)); ext != "" {
		if mime, ok := extMime[ext]; ok {
			return mime
		}
	}
	return "text/plain"
}

// IsBinaryMime reports whether content of the given MIME type must be
// base64-encoded rather than sent as UTF-8 text.
func IsBinaryMime(mime string) bool {
	if binaryMimeExact[mime] {
		return true
	}
	for _, prefix := range binaryMimePrefixes {
		if strings.HasPrefix(mime, prefix) {
			return true
		}
	}
	return false
}

// MapAudience converts KCP audience tags to MCP roles: agent maps to the
// assistant role, human and developer map to the user role, anything else is
// dropped. An empty result defaults to user.
func MapAudience(audience []string) []mcp.Role {
	var roles []mcp.Role
	seen := make(map[mcp.Role]bool)
	add := func(r mcp.Role) {
		if !seen[r] {
			seen[r] = true
			roles = append(roles, r)
		}
	}
	for _, a := range audience {
		switch a {
		case "agent":
			add(mcp.RoleAssistant)
		case "human", "developer":
			add(mcp.RoleUser)
		}
	}
	if len(roles) == 0 {
		roles = []mcp.Role{mcp.RoleUser}
	}
	return roles
}

// BuildDescription assembles a resource description from the unit's intent,
// triggers, and dependencies.
func BuildDescription(u *manifest.KnowledgeUnit) string {
	var b strings.Builder
	b.WriteString(u.Intent)
	if len(u.Triggers) > 0 {
		b.WriteString("\nTriggers: ")
		b.WriteString(strings.Join(u.Triggers, ", "))
	}
	if len(u.DependsOn) > 0 {
		b.WriteString("\nDepends on: ")
		b.WriteString(strings.Join(u.DependsOn, ", "))
	}
	return b.String()
}

// UnitResource builds the MCP resource descriptor for one knowledge unit.
func UnitResource(slug string, u *manifest.KnowledgeUnit) mcp.Resource {
	priority, ok := scopePriority[u.Scope]
	if !ok {
		priority = 0.5
	}

	res := mcp.NewResource(
		UnitURI(slug, u.ID),
		u.ID,
		mcp.WithResourceDescription(BuildDescription(u)),
		mcp.WithMIMEType(ResolveMime(u)),
	)
	res.Annotations = &mcp.Annotations{
		Audience: MapAudience(u.Audience),
		Priority: priority,
	}
	return res
}

// ManifestResource builds the descriptor for the manifest meta-resource,
// a JSON index of every exposed unit.
func ManifestResource(slug string) mcp.Resource {
	res := mcp.NewResource(
		ManifestURI(slug),
		"manifest",
		mcp.WithResourceDescription("Full unit index for this knowledge base"),
		mcp.WithMIMEType("application/json"),
	)
	res.Annotations = &mcp.Annotations{
		Audience: []mcp.Role{mcp.RoleAssistant, mcp.RoleUser},
		Priority: 1.0,
	}
	return res
}

type indexUnit struct {
	ID           string   `json:"id"`
	URI          string   `json:"uri"`
	Path         string   `json:"path"`
	Intent       string   `json:"intent"`
	Scope        string   `json:"scope,omitempty"`
	Audience     []string `json:"audience"`
	MimeType     string   `json:"mimeType"`
	LastModified string   `json:"lastModified,omitempty"`
}

type indexRelationship struct {
	From string `json:"from"`
	To   string `json:"to"`
	Type string `json:"type"`
}

type manifestIndex struct {
	Project       string              `json:"project"`
	Version       string              `json:"version"`
	UnitCount     int                 `json:"unit_count"`
	Units         []indexUnit         `json:"units"`
	Relationships []indexRelationship `json:"relationships"`
}

// ManifestJSON renders the manifest meta-resource body: a compact JSON index
// of all units with their URIs and resolved MIME types.
func ManifestJSON(m *manifest.KnowledgeManifest, slug string) (string, error) {
	idx := manifestIndex{
		Project:       m.Project,
		Version:       m.Version,
		UnitCount:     len(m.Units),
		Units:         make([]indexUnit, 0, len(m.Units)),
		Relationships: make([]indexRelationship, 0, len(m.Relationships)),
	}
	for i := range m.Units {
		u := &m.Units[i]
		entry := indexUnit{
			ID:       u.ID,
			URI:      UnitURI(slug, u.ID),
			Path:     u.Path,
			Intent:   u.Intent,
			Scope:    u.Scope,
			Audience: u.Audience,
			MimeType: ResolveMime(u),
		}
		if entry.Audience == nil {
			entry.Audience = []string{}
		}
		if u.Validated != nil {
			entry.LastModified = u.Validated.String()
		}
		idx.Units = append(idx.Units, entry)
	}
	for _, rel := range m.Relationships {
		idx.Relationships = append(idx.Relationships, indexRelationship(rel))
	}

	out, err := json.Marshal(idx)
	if err != nil {
		return "", fmt.Errorf("marshaling manifest index: %w", err)
	}
	return string(out), nil
}

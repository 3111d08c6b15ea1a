package bridge

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/kcp-labs/kcp/internal/manifest"
)

func TestProjectSlug(t *testing.T) {
	tests := []struct {
		project string
		want    string
	}{
		{"Acme Payments", "acme-payments"},
		{"simple", "simple"},
		{"  padded   name  ", "padded-name"},
		{"Emoji 🎉 Project", "emoji--project"},
		{"already-a-slug", "already-a-slug"},
	}

	for _, tt := range tests {
		if got := ProjectSlug(tt.project); got != tt.want {
			t.Errorf("ProjectSlug(%q) = %q, want %q", tt.project, got, tt.want)
		}
	}
}

func TestURIs(t *testing.T) {
	if got := UnitURI("acme", "payments-api"); got != "knowledge://acme/payments-api" {
		t.Errorf("UnitURI = %q", got)
	}
	if got := ManifestURI("acme"); got != "knowledge://acme/manifest" {
		t.Errorf("ManifestURI = %q", got)
	}
}

func TestResolveMime(t *testing.T) {
	tests := []struct {
		name string
		unit manifest.KnowledgeUnit
		want string
	}{
		{"content_type wins", manifest.KnowledgeUnit{ContentType: "text/x-custom", Format: "markdown", Path: "a.json"}, "text/x-custom"},
		{"format next", manifest.KnowledgeUnit{Format: "openapi", Path: "api.json"}, "application/vnd.oai.openapi+yaml"},
		{"format case-insensitive", manifest.KnowledgeUnit{Format: "Markdown", Path: "a.txt"}, "text/markdown"},
		{"extension fallback", manifest.KnowledgeUnit{Path: "docs/guide.md"}, "text/markdown"},
		{"unknown everything", manifest.KnowledgeUnit{Format: "mystery", Path: "data.bin"}, "text/plain"},
		{"no extension", manifest.KnowledgeUnit{Path: "Makefile"}, "text/plain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveMime(&tt.unit); got != tt.want {
				t.Errorf("ResolveMime = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsBinaryMime(t *testing.T) {
	binary := []string{"application/pdf", "image/png", "audio/mpeg", "video/mp4", "application/zip"}
	text := []string{"text/markdown", "application/json", "application/yaml", "text/plain"}

	for _, mime := range binary {
		if !IsBinaryMime(mime) {
			t.Errorf("IsBinaryMime(%q) = false, want true", mime)
		}
	}
	for _, mime := range text {
		if IsBinaryMime(mime) {
			t.Errorf("IsBinaryMime(%q) = true, want false", mime)
		}
	}
}

func TestMapAudience(t *testing.T) {
	tests := []struct {
		name     string
		audience []string
		want     []mcp.Role
	}{
		{"agent", []string{"agent"}, []mcp.Role{mcp.RoleAssistant}},
		{"human", []string{"human"}, []mcp.Role{mcp.RoleUser}},
		{"developer", []string{"developer"}, []mcp.Role{mcp.RoleUser}},
		{"mixed deduplicated", []string{"human", "agent", "developer"}, []mcp.Role{mcp.RoleUser, mcp.RoleAssistant}},
		{"unknown dropped", []string{"operator"}, []mcp.Role{mcp.RoleUser}},
		{"empty defaults to user", nil, []mcp.Role{mcp.RoleUser}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MapAudience(tt.audience); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("MapAudience(%v) = %v, want %v", tt.audience, got, tt.want)
			}
		})
	}
}

func TestBuildDescription(t *testing.T) {
	u := manifest.KnowledgeUnit{
		Intent:    "Explains the payments API",
		Triggers:  []string{"payments", "billing"},
		DependsOn: []string{"architecture-overview"},
	}

	want := "Explains the payments API\nTriggers: payments, billing\nDepends on: architecture-overview"
	if got := BuildDescription(&u); got != want {
		t.Errorf("BuildDescription = %q, want %q", got, want)
	}

	bare := manifest.KnowledgeUnit{Intent: "Just intent"}
	if got := BuildDescription(&bare); got != "Just intent" {
		t.Errorf("BuildDescription = %q, want intent only", got)
	}
}

func TestUnitResource(t *testing.T) {
	u := manifest.KnowledgeUnit{
		ID:       "payments-api",
		Path:     "docs/api.md",
		Intent:   "API reference",
		Scope:    "project",
		Audience: []string{"agent"},
	}

	res := UnitResource("acme", &u)
	if res.URI != "knowledge://acme/payments-api" {
		t.Errorf("URI = %q", res.URI)
	}
	if res.MIMEType != "text/markdown" {
		t.Errorf("MIMEType = %q", res.MIMEType)
	}
	if res.Annotations == nil {
		t.Fatal("Annotations is nil")
	}
	if res.Annotations.Priority != 0.7 {
		t.Errorf("Priority = %v, want 0.7 for project scope", res.Annotations.Priority)
	}
	if !reflect.DeepEqual(res.Annotations.Audience, []mcp.Role{mcp.RoleAssistant}) {
		t.Errorf("Audience = %v", res.Annotations.Audience)
	}

	// An unknown scope falls back to the module tier.
	u.Scope = "galaxy"
	if got := UnitResource("acme", &u).Annotations.Priority; got != 0.5 {
		t.Errorf("Priority = %v for unknown scope, want 0.5", got)
	}
}

func TestManifestJSON(t *testing.T) {
	validated, err := manifest.NewDate("2026-02-14")
	if err != nil {
		t.Fatal(err)
	}

	m := &manifest.KnowledgeManifest{
		Project: "Acme Payments",
		Version: "1.2.0",
		Units: []manifest.KnowledgeUnit{
			{ID: "overview", Path: "docs/overview.md", Intent: "High-level view",
				Scope: "global", Audience: []string{"human", "agent"}, Validated: validated},
			{ID: "api", Path: "api/openapi.yaml", Intent: "API spec",
				Scope: "project", Format: "openapi"},
		},
		Relationships: []manifest.Relationship{
			{From: "api", To: "overview", Type: "context"},
		},
	}

	out, err := ManifestJSON(m, "acme-payments")
	if err != nil {
		t.Fatalf("ManifestJSON error: %v", err)
	}

	var idx struct {
		Project   string `json:"project"`
		UnitCount int    `json:"unit_count"`
		Units     []struct {
			ID           string   `json:"id"`
			URI          string   `json:"uri"`
			Audience     []string `json:"audience"`
			MimeType     string   `json:"mimeType"`
			LastModified string   `json:"lastModified"`
		} `json:"units"`
		Relationships []struct {
			From string `json:"from"`
			Type string `json:"type"`
		} `json:"relationships"`
	}
	if err := json.Unmarshal([]byte(out), &idx); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if idx.Project != "Acme Payments" || idx.UnitCount != 2 {
		t.Errorf("header = %+v", idx)
	}
	if len(idx.Units) != 2 {
		t.Fatalf("len(units) = %d, want 2", len(idx.Units))
	}
	if idx.Units[0].URI != "knowledge://acme-payments/overview" {
		t.Errorf("units[0].uri = %q", idx.Units[0].URI)
	}
	if idx.Units[0].LastModified != "2026-02-14" {
		t.Errorf("units[0].lastModified = %q", idx.Units[0].LastModified)
	}
	if idx.Units[1].MimeType != "application/vnd.oai.openapi+yaml" {
		t.Errorf("units[1].mimeType = %q", idx.Units[1].MimeType)
	}
	if idx.Units[1].Audience == nil {
		t.Error("units[1].audience = null, want empty array")
	}
	if len(idx.Relationships) != 1 || idx.Relationships[0].From != "api" {
		t.Errorf("relationships = %+v", idx.Relationships)
	}
}

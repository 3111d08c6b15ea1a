package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/Masterminds/semver/v3"
)

// Known value sets from the KCP specification. These are fixed at compile
// time; nothing reconfigures them at runtime.
var (
	validScopes            = set("global", "project", "module")
	validAudiences         = set("human", "agent", "developer", "operator", "architect", "devops")
	validRelationshipTypes = set("enables", "context", "supersedes", "contradicts")
	validKinds             = set("knowledge", "schema", "service", "policy", "executable")
	validFormats           = set("markdown", "pdf", "openapi", "json-schema", "jupyter",
		"html", "asciidoc", "rst", "vtt", "yaml", "json", "csv", "text")
	validUpdateFrequencies  = set("hourly", "daily", "weekly", "monthly", "rarely", "never")
	validIndexingShorthands = set("open", "read-only", "no-train", "none")
	knownKCPVersions        = set("0.1", "0.2", "0.3")

	idPattern = regexp.MustCompile(`^[a-z0-9.-]+$`)

	// latestKCPVersion is the highest entry of knownKCPVersions; manifests
	// without a declared (or with an unknown) kcp_version are processed as
	// this version.
	latestKCPVersion = latestVersion(knownKCPVersions)
)

const (
	maxTriggersPerUnit = 20
	maxTriggerLength   = 60
)

// ValidationResult is the outcome of validating a manifest. Errors make the
// manifest invalid (must fix); warnings are permitted but suspicious (should
// fix). Cycles lists the depends_on edges that close dependency cycles.
// Cyclic dependencies are tolerated; the edges are reported only so graph
// consumers can exclude them before a topological walk.
type ValidationResult struct {
	Errors   []string
	Warnings []string
	Cycles   []Edge
}

// IsValid reports whether the manifest can be used as-is.
func (r *ValidationResult) IsValid() bool {
	return len(r.Errors) == 0
}

// HasWarnings reports whether any should-fix findings were recorded.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// Validate checks a parsed manifest against the KCP conformance rules and
// returns all findings at once; no rule short-circuits another. When baseDir
// is non-empty, each unit path is additionally probed for existence relative
// to it; a failed stat counts as "does not exist" and validation never fails
// outright. Validate never mutates the manifest and keeps no state between
// calls.
func Validate(m *KnowledgeManifest, baseDir string) *ValidationResult {
	r := &ValidationResult{}
	unitIDs := m.unitIDSet()

	// Cycle-closing edges are recorded but never surface as errors or
	// warnings: circular depends_on declarations are tolerated.
	r.Cycles = DetectCycles(m.Units)

	if m.KCPVersion == "" {
		r.warnf("manifest: 'kcp_version' not declared; assuming %s", latestKCPVersion)
	} else if !knownKCPVersions[m.KCPVersion] {
		r.warnf("manifest: unknown kcp_version '%s'; processing as %s", m.KCPVersion, latestKCPVersion)
	}

	if m.Project == "" {
		r.errorf("manifest: 'project' is required")
	}
	if len(m.Units) == 0 {
		r.errorf("manifest: 'units' must not be empty")
	}

	seen := make(map[string]bool, len(m.Units))
	for _, u := range m.Units {
		p := fmt.Sprintf("unit '%s'", u.ID)

		if u.ID == "" {
			r.errorf("unit: 'id' is required")
			continue
		}

		if seen[u.ID] {
			r.warnf("%s: duplicate 'id' (first occurrence takes precedence)", p)
		}
		seen[u.ID] = true

		if !idPattern.MatchString(u.ID) {
			r.warnf("%s: 'id' should contain only lowercase a-z, digits, hyphens, and dots", p)
		}

		if u.Path == "" {
			r.errorf("%s: 'path' is required", p)
		} else if baseDir != "" {
			if _, err := os.Stat(filepath.Join(baseDir, u.Path)); err != nil {
				r.warnf("%s: path '%s' does not exist", p, u.Path)
			}
		}
		if u.Intent == "" {
			r.errorf("%s: 'intent' is required", p)
		}
		if u.Scope == "" {
			r.errorf("%s: 'scope' is required", p)
		} else if !validScopes[u.Scope] {
			r.errorf("%s: 'scope' must be one of %v, got '%s'", p, sorted(validScopes), u.Scope)
		}

		var unknownAudience []string
		for _, a := range u.Audience {
			if !validAudiences[a] {
				unknownAudience = append(unknownAudience, a)
			}
		}
		if len(unknownAudience) > 0 {
			r.warnf("%s: unknown audience value(s): %v", p, unknownAudience)
		}

		if u.Kind != "" && !validKinds[u.Kind] {
			r.warnf("%s: unknown 'kind' value '%s'", p, u.Kind)
		}
		if u.Format != "" && !validFormats[u.Format] {
			r.warnf("%s: unknown 'format' value '%s'", p, u.Format)
		}
		if u.UpdateFrequency != "" && !validUpdateFrequencies[u.UpdateFrequency] {
			r.warnf("%s: unknown 'update_frequency' value '%s'", p, u.UpdateFrequency)
		}
		if u.Indexing != nil && u.Indexing.IsShorthand() && !validIndexingShorthands[u.Indexing.Shorthand] {
			r.warnf("%s: unknown 'indexing' shorthand '%s'", p, u.Indexing.Shorthand)
		}

		for _, dep := range u.DependsOn {
			if !unitIDs[dep] {
				r.warnf("%s: 'depends_on' references unknown unit '%s'", p, dep)
			}
		}

		if len(u.Triggers) > maxTriggersPerUnit {
			r.warnf("%s: more than %d triggers (%d); excess will be ignored",
				p, maxTriggersPerUnit, len(u.Triggers))
		}
		for _, trigger := range u.Triggers {
			if len(trigger) > maxTriggerLength {
				r.warnf("%s: trigger '%s...' exceeds %d characters",
					p, truncate(trigger, 30), maxTriggerLength)
			}
		}
	}

	for _, rel := range m.Relationships {
		p := fmt.Sprintf("relationship '%s' -> '%s'", rel.From, rel.To)
		if !unitIDs[rel.From] {
			r.warnf("%s: 'from' references unknown unit '%s'", p, rel.From)
		}
		if !unitIDs[rel.To] {
			r.warnf("%s: 'to' references unknown unit '%s'", p, rel.To)
		}
		if !validRelationshipTypes[rel.Type] {
			r.warnf("%s: 'type' must be one of %v, got '%s'", p, sorted(validRelationshipTypes), rel.Type)
		}
	}

	return r
}

func (r *ValidationResult) errorf(format string, args ...interface{}) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) warnf(format string, args ...interface{}) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

func set(values ...string) map[string]bool {
	s := make(map[string]bool, len(values))
	for _, v := range values {
		s[v] = true
	}
	return s
}

func sorted(s map[string]bool) []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// latestVersion picks the highest version from a known-version set using
// semantic version ordering.
func latestVersion(versions map[string]bool) string {
	var latest *semver.Version
	var raw string
	for v := range versions {
		parsed, err := semver.NewVersion(v)
		if err != nil {
			continue
		}
		if latest == nil || parsed.GreaterThan(latest) {
			latest = parsed
			raw = v
		}
	}
	return raw
}

package manifest

import (
	"fmt"
	"os"
	"path"
	"strings"

	"go.yaml.in/yaml/v3"
)

// Parse reads a knowledge.yaml file and returns the parsed manifest.
func Parse(filePath string) (*KnowledgeManifest, error) {
	data, err := readFile(filePath)
	if err != nil {
		return nil, err
	}
	m, err := ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", filePath, err)
	}
	return m, nil
}

// ParseBytes decodes a knowledge manifest from raw YAML and runs the
// structural pass: required-field presence and unit path safety. It fails
// fast with a single error; data-quality issues beyond structure are the
// validator's concern. On error no partial manifest is returned.
func ParseBytes(data []byte) (*KnowledgeManifest, error) {
	var m KnowledgeManifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}

	// The typed decode cannot distinguish a missing units key from an empty
	// list, so probe the raw document for key presence separately.
	var probe struct {
		Units yaml.Node `yaml:"units"`
	}
	if err := yaml.Unmarshal(data, &probe); err != nil {
		return nil, err
	}

	if strings.TrimSpace(m.Project) == "" {
		return nil, &StructuralError{Field: "project"}
	}
	if probe.Units.IsZero() {
		return nil, &StructuralError{Field: "units"}
	}

	for i := range m.Units {
		u := &m.Units[i]
		ref := u.ID
		if ref == "" {
			ref = fmt.Sprintf("units[%d]", i)
		}
		if strings.TrimSpace(u.ID) == "" {
			return nil, &StructuralError{Field: "id", UnitID: ref}
		}
		if strings.TrimSpace(u.Path) == "" {
			return nil, &StructuralError{Field: "path", UnitID: ref}
		}
		if strings.TrimSpace(u.Intent) == "" {
			return nil, &StructuralError{Field: "intent", UnitID: ref}
		}
		if err := validateUnitPath(u.Path); err != nil {
			return nil, err
		}
	}

	return &m, nil
}

// validateUnitPath rejects unit paths that are absolute or that escape the
// manifest root. Normalization uses forward-slash segment semantics only; no
// filesystem access or symlink resolution happens here, and the original
// string is stored unchanged. The bridge content reader repeats a stricter,
// filesystem-resolved containment check at read time.
func validateUnitPath(raw string) error {
	if strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "\\") {
		return &PathSafetyError{Path: raw, Reason: "path must be relative"}
	}
	cleaned := path.Clean(raw)
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return &PathSafetyError{Path: raw, Reason: "path escapes manifest root"}
	}
	return nil
}

// readFile reads the contents of a file at the given path.
func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}
	return data, nil
}

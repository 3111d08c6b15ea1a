package manifest

import (
	"encoding/json"
	"os"
	"testing"
)

func TestSchemaJSON_IsValidJSON(t *testing.T) {
	var doc map[string]interface{}
	if err := json.Unmarshal(SchemaJSON(), &doc); err != nil {
		t.Fatalf("embedded schema is not valid JSON: %v", err)
	}
	if _, ok := doc["$schema"]; !ok {
		t.Error("embedded schema is missing $schema")
	}
}

func TestValidateSchema_ValidFixtures(t *testing.T) {
	for _, file := range []string{"valid-minimal.yaml", "valid-full.yaml"} {
		t.Run(file, func(t *testing.T) {
			data, err := os.ReadFile(testPath(file))
			if err != nil {
				t.Fatal(err)
			}
			res, err := ValidateSchema(data)
			if err != nil {
				t.Fatalf("ValidateSchema error: %v", err)
			}
			if !res.Valid {
				t.Errorf("Valid = false, issues: %+v", res.Issues)
			}
		})
	}
}

func TestValidateSchema_MissingProject(t *testing.T) {
	data := []byte(`units:
  - id: a
    path: a.md
    intent: i
    scope: global
    audience: [human]
`)

	res, err := ValidateSchema(data)
	if err != nil {
		t.Fatalf("ValidateSchema error: %v", err)
	}
	if res.Valid {
		t.Fatal("Valid = true for manifest without project")
	}

	found := false
	for _, issue := range res.Issues {
		if issue.Keyword == "required" {
			found = true
		}
	}
	if !found {
		t.Errorf("issues = %+v, want a required-keyword finding", res.Issues)
	}
}

func TestValidateSchema_BadScopeEnum(t *testing.T) {
	data := []byte(`project: p
units:
  - id: a
    path: a.md
    intent: i
    scope: galaxy
    audience: [human]
`)

	res, err := ValidateSchema(data)
	if err != nil {
		t.Fatalf("ValidateSchema error: %v", err)
	}
	if res.Valid {
		t.Fatal("Valid = true for invalid scope")
	}

	found := false
	for _, issue := range res.Issues {
		if issue.Path == "/units/0/scope" && issue.Keyword == "enum" {
			found = true
		}
	}
	if !found {
		t.Errorf("issues = %+v, want enum finding at /units/0/scope", res.Issues)
	}
}

func TestValidateSchema_UnquotedDate(t *testing.T) {
	// yaml decodes an unquoted date as a timestamp; it must still satisfy
	// the schema's string-typed date fields.
	data := []byte(`project: p
updated: 2026-03-01
units:
  - id: a
    path: a.md
    intent: i
    scope: global
    audience: [human]
`)

	res, err := ValidateSchema(data)
	if err != nil {
		t.Fatalf("ValidateSchema error: %v", err)
	}
	if !res.Valid {
		t.Errorf("Valid = false, issues: %+v", res.Issues)
	}
}

func TestValidateSchema_MalformedYAML(t *testing.T) {
	if _, err := ValidateSchema([]byte("project: [unclosed")); err == nil {
		t.Fatal("expected decode error for malformed YAML, got nil")
	}
}

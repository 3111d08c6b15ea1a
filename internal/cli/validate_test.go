package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeManifest(t *testing.T, yaml string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "knowledge.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func runValidateOnce(t *testing.T, path string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errw bytes.Buffer
	validateCmd.SetOut(&out)
	validateCmd.SetErr(&errw)
	defer func() {
		validateCmd.SetOut(nil)
		validateCmd.SetErr(nil)
	}()
	err = validateOnce(validateCmd, path)
	return out.String(), errw.String(), err
}

func TestValidateOnce_Valid(t *testing.T) {
	path := writeManifest(t, `kcp_version: "0.3"
project: demo
version: 1.0.0
units:
  - id: a
    path: a.md
    intent: i
    scope: global
    audience: [human]
`)
	if err := os.WriteFile(filepath.Join(filepath.Dir(path), "a.md"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	stdout, stderr, err := runValidateOnce(t, path)
	if err != nil {
		t.Fatalf("validateOnce error: %v (stderr: %s)", err, stderr)
	}
	if !strings.Contains(stdout, "is valid: project 'demo' v1.0.0, 1 unit(s)") {
		t.Errorf("stdout = %q, want success line", stdout)
	}
	if stderr != "" {
		t.Errorf("stderr = %q, want no findings", stderr)
	}
}

func TestValidateOnce_WarningsDoNotFail(t *testing.T) {
	path := writeManifest(t, `kcp_version: "0.3"
project: demo
units:
  - id: a
    path: missing.md
    intent: i
    scope: global
    audience: [human]
`)

	stdout, stderr, err := runValidateOnce(t, path)
	if err != nil {
		t.Fatalf("validateOnce error: %v", err)
	}
	if !strings.Contains(stderr, "warning:") || !strings.Contains(stderr, "does not exist") {
		t.Errorf("stderr = %q, want missing-file warning", stderr)
	}
	if !strings.Contains(stdout, "is valid") {
		t.Errorf("stdout = %q, want success despite warnings", stdout)
	}
}

func TestValidateOnce_NoFilesSkipsProbe(t *testing.T) {
	path := writeManifest(t, `kcp_version: "0.3"
project: demo
units:
  - id: a
    path: missing.md
    intent: i
    scope: global
    audience: [human]
`)

	validateNoFiles = true
	defer func() { validateNoFiles = false }()

	_, stderr, err := runValidateOnce(t, path)
	if err != nil {
		t.Fatalf("validateOnce error: %v", err)
	}
	if strings.Contains(stderr, "does not exist") {
		t.Errorf("stderr = %q, --no-files must skip existence probes", stderr)
	}
}

func TestValidateOnce_ErrorsFail(t *testing.T) {
	path := writeManifest(t, `kcp_version: "0.3"
project: demo
units:
  - id: a
    path: a.md
    intent: i
    audience: [human]
`)

	_, stderr, err := runValidateOnce(t, path)
	if err == nil {
		t.Fatal("expected error for unit without scope")
	}
	if !strings.Contains(err.Error(), "validation failed") {
		t.Errorf("error = %v", err)
	}
	if !strings.Contains(stderr, "'scope' is required") {
		t.Errorf("stderr = %q, want scope error", stderr)
	}
}

func TestValidateOnce_Strict(t *testing.T) {
	path := writeManifest(t, `project: demo
units:
  - id: a
    path: a.md
    intent: i
    scope: galaxy
    audience: [human]
`)

	validateStrict = true
	defer func() { validateStrict = false }()

	_, stderr, err := runValidateOnce(t, path)
	if err == nil {
		t.Fatal("expected schema validation failure")
	}
	if !strings.Contains(err.Error(), "schema validation failed") {
		t.Errorf("error = %v", err)
	}
	if !strings.Contains(stderr, "/units/0/scope") {
		t.Errorf("stderr = %q, want schema issue path", stderr)
	}
}

func TestManifestArg_Explicit(t *testing.T) {
	if got := manifestArg([]string{"custom.yaml"}); got != "custom.yaml" {
		t.Errorf("manifestArg = %q, want explicit argument", got)
	}
}

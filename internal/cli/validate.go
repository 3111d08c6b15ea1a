package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kcp-labs/kcp/internal/bridge"
	"github.com/kcp-labs/kcp/internal/manifest"
)

var (
	validateNoFiles bool
	validateStrict  bool
	validateWatch   bool
)

var validateCmd = &cobra.Command{
	Use:   "validate [manifest]",
	Short: "Validate a knowledge manifest",
	Long: `Parse a knowledge.yaml and check it against the KCP conformance rules.
Warnings are printed but do not affect the exit code; the command fails only
when the manifest cannot be parsed or has validation errors.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().BoolVar(&validateNoFiles, "no-files", false, "Skip checking that unit paths exist on disk")
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "Additionally validate against the JSON schema")
	validateCmd.Flags().BoolVar(&validateWatch, "watch", false, "Re-validate whenever the manifest changes")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	path := manifestArg(args)

	if !validateWatch {
		return validateOnce(cmd, path)
	}

	// Continuous mode: report, then re-report on every change. Findings no
	// longer affect the exit code; the loop runs until interrupted.
	if err := validateOnce(cmd, path); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	fmt.Fprintf(os.Stderr, "watching %s for changes...\n", path)
	return bridge.Watch(cmd.Context(), path, func(*manifest.KnowledgeManifest, error) {
		if err := validateOnce(cmd, path); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	})
}

func validateOnce(cmd *cobra.Command, path string) error {
	out := cmd.OutOrStdout()
	errw := cmd.ErrOrStderr()

	if validateStrict {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading manifest: %w", err)
		}
		result, err := manifest.ValidateSchema(data)
		if err != nil {
			return fmt.Errorf("schema validation: %w", err)
		}
		if !result.Valid {
			for _, issue := range result.Issues {
				fmt.Fprintf(errw, "schema: %s: %s\n", issue.Path, issue.Message)
			}
			return fmt.Errorf("schema validation failed with %d issue(s)", len(result.Issues))
		}
	}

	m, err := manifest.Parse(path)
	if err != nil {
		return err
	}

	baseDir := filepath.Dir(path)
	if validateNoFiles {
		baseDir = ""
	}

	result := manifest.Validate(m, baseDir)
	for _, w := range result.Warnings {
		fmt.Fprintf(errw, "warning: %s\n", w)
	}
	for _, e := range result.Errors {
		fmt.Fprintf(errw, "error: %s\n", e)
	}
	if !result.IsValid() {
		return fmt.Errorf("validation failed with %d error(s)", len(result.Errors))
	}

	versionNote := ""
	if m.Version != "" {
		versionNote = fmt.Sprintf(" v%s", m.Version)
	}
	fmt.Fprintf(out, "✓ %s is valid: project '%s'%s, %d unit(s), %d relationship(s)\n",
		path, m.Project, versionNote, len(m.Units), len(m.Relationships))
	return nil
}

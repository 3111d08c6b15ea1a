package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kcp-labs/kcp/internal/branding"
	"github.com/kcp-labs/kcp/internal/config"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` works with knowledge manifests (knowledge.yaml): declarative
indexes of a project's knowledge units, their metadata, and the dependency
and relationship graphs between them. It validates manifests against the KCP
conformance rules and serves their units as MCP resources.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}

// manifestArg resolves the manifest path from the first positional argument,
// falling back to the configured default.
func manifestArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	config.Load()
	return config.DefaultManifest()
}

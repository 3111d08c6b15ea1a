package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kcp-labs/kcp/internal/manifest"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the knowledge manifest JSON schema",
	Long:  `Print the embedded JSON schema used by 'validate --strict'.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprint(cmd.OutOrStdout(), string(manifest.SchemaJSON()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}

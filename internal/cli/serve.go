package cli

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/kcp-labs/kcp/internal/bridge"
)

var (
	serveAgentOnly bool
	serveQuiet     bool
)

var serveCmd = &cobra.Command{
	Use:   "serve [manifest]",
	Short: "Serve a manifest's units as MCP resources over stdio",
	Long: `Parse a knowledge.yaml and expose each unit as an MCP resource, plus a
JSON meta-resource indexing the whole manifest. The server speaks the Model
Context Protocol over stdin/stdout; logs go to stderr.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&serveAgentOnly, "agent-only", false, "Expose only units with audience 'agent'")
	serveCmd.Flags().BoolVar(&serveQuiet, "quiet", false, "Suppress validation warnings on startup")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	path := manifestArg(args)

	s, err := bridge.NewServer(path, buildVersion, bridge.Options{
		AgentOnly: serveAgentOnly,
		Quiet:     serveQuiet,
	})
	if err != nil {
		return err
	}

	return server.ServeStdio(s)
}

package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kcp-labs/kcp/internal/bridge"
	"github.com/kcp-labs/kcp/internal/manifest"
)

var (
	listScopeFilter string
	listJSON        bool
)

var listCmd = &cobra.Command{
	Use:   "list [manifest]",
	Short: "List the units declared in a manifest",
	Long:  `List every knowledge unit in a manifest with its scope, kind, and path.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVar(&listScopeFilter, "scope", "", "Filter by scope (global, project, module)")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(listCmd)
}

// listEntry represents one unit for display.
type listEntry struct {
	ID    string `json:"id"`
	Scope string `json:"scope"`
	Kind  string `json:"kind,omitempty"`
	Path  string `json:"path"`
	URI   string `json:"uri"`
}

func runList(cmd *cobra.Command, args []string) error {
	path := manifestArg(args)

	m, err := manifest.Parse(path)
	if err != nil {
		return err
	}

	slug := bridge.ProjectSlug(m.Project)
	var entries []listEntry
	for i := range m.Units {
		u := &m.Units[i]
		if listScopeFilter != "" && u.Scope != listScopeFilter {
			continue
		}
		entries = append(entries, listEntry{
			ID:    u.ID,
			Scope: u.Scope,
			Kind:  u.Kind,
			Path:  u.Path,
			URI:   bridge.UnitURI(slug, u.ID),
		})
	}

	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		if listScopeFilter != "" {
			fmt.Fprintf(out, "No units matching --scope=%s\n", listScopeFilter)
		} else {
			fmt.Fprintln(out, "No units declared.")
		}
		return nil
	}

	if listJSON {
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling units: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCOPE\tKIND\tPATH")
	for _, e := range entries {
		kind := e.Kind
		if kind == "" {
			kind = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.ID, e.Scope, kind, e.Path)
	}
	return w.Flush()
}

package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"rhizome/indexer/internal/store"
)

var (
	previewMaxNodes int
	previewHops     int
	previewJSON     bool
)

var previewCmd = &cobra.Command{
	Use:   "preview <node-id>",
	Short: "Show a bounded subgraph around a node",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, err := OpenStore()
		if err != nil {
			return err
		}
		defer st.Close()

		preview, err := st.BuildPreview(store.PreviewParams{
			StartNodeID: args[0],
			MaxNodes:    previewMaxNodes,
			MaxHops:     previewHops,
		})
		if err != nil {
			return err
		}

		if previewJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(preview)
		}

		fmt.Printf("%d nodes, %d edges\n", len(preview.Nodes), len(preview.Edges))
		for _, n := range preview.Nodes {
			fmt.Printf("  %-10s %s\n", n.Type, n.Label)
		}
		for _, e := range preview.Edges {
			fmt.Printf("  %s -[%s %.1f]-> %s\n", e.SourceID, e.Type, e.Weight, e.TargetID)
		}
		return nil
	},
}

func init() {
	previewCmd.Flags().IntVar(&previewMaxNodes, "max-nodes", 50, "Maximum nodes to emit")
	previewCmd.Flags().IntVar(&previewHops, "hops", 2, "Traversal depth")
	previewCmd.Flags().BoolVar(&previewJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(previewCmd)
}

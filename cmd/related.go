package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var relatedHops int

var relatedCmd = &cobra.Command{
	Use:   "related <path>",
	Short: "List documents related to a file through the graph",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, err := OpenStore()
		if err != nil {
			return err
		}
		defer st.Close()

		paths, err := st.RelatedFilePaths(args[0], relatedHops)
		if err != nil {
			return err
		}
		for _, p := range paths {
			fmt.Println(p)
		}
		if len(paths) == 0 {
			fmt.Println("no related documents")
		}
		return nil
	},
}

func init() {
	relatedCmd.Flags().IntVar(&relatedHops, "hops", 2, "Traversal depth")
	rootCmd.AddCommand(relatedCmd)
}

package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"rhizome/indexer/internal/search"
)

var (
	searchLimit  int
	searchFolder string
	searchFile   string
	searchJSON   bool
)

var searchCmd = &cobra.Command{
	Use:   "search <term>",
	Short: "Search indexed documents",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, cfg, err := OpenStore()
		if err != nil {
			return err
		}
		defer st.Close()

		engine := search.NewEngine(
			&search.StoreRetriever{Store: st},
			cfg.EmbeddingDim,
			search.WithGraph(st),
		)

		scope := search.Scope{}
		switch {
		case searchFile != "":
			scope = search.Scope{Mode: search.ScopeInFile, CurrentFilePath: searchFile}
		case searchFolder != "":
			scope = search.Scope{Mode: search.ScopeInFolder, FolderPath: searchFolder}
		}

		results, err := engine.Search(search.Query{
			Term:  args[0],
			Scope: scope,
			Limit: searchLimit,
		})
		if err != nil {
			return err
		}

		if searchJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(results)
		}

		for i, r := range results {
			fmt.Printf("%2d. [%.4f] %s (%s)\n", i+1, r.FinalScore, r.Title, r.Path)
			if r.Snippet != "" {
				fmt.Printf("    %s\n", r.Snippet)
			}
		}
		if len(results) == 0 {
			fmt.Println("no results")
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().IntVar(&searchLimit, "limit", 20, "Maximum results")
	searchCmd.Flags().StringVar(&searchFolder, "in-folder", "", "Restrict to a folder")
	searchCmd.Flags().StringVar(&searchFile, "in-file", "", "Restrict to one file path")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(searchCmd)
}

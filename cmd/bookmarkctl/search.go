package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	SearchCommand.AddCommand(&SearchReindexStaleCommand)
	RootCmd.AddCommand(&SearchCommand)
}

var SearchCommand = cobra.Command{
	Use:   "search",
	Short: "Maintain the link search index",
}

var SearchReindexStaleCommand = cobra.Command{
	Use:   "reindex-stale",
	Short: "Index every link whose index version was cleared",
	RunE: func(cmd *cobra.Command, args []string) error {
		count, err := svc.Reindexer.ReindexStale(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d links reindexed\n", count)
		return nil
	},
}

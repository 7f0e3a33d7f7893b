package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"bookmarkd/internal/domain/repositories"
	"bookmarkd/internal/domain/services"
)

func init() {
	CollectionsDeleteCommand.Flags().Int64("user", 0, "id of the user issuing the request")
	CollectionsDeleteCommand.Flags().Int64("collection", 0, "id of the collection")
	CollectionsDeleteCommand.MarkFlagRequired("user")
	CollectionsDeleteCommand.MarkFlagRequired("collection")

	CollectionsTreeCommand.Flags().Int64("collection", 0, "id of the root collection")
	CollectionsTreeCommand.MarkFlagRequired("collection")

	CollectionsCommand.AddCommand(&CollectionsDeleteCommand)
	CollectionsCommand.AddCommand(&CollectionsTreeCommand)
	RootCmd.AddCommand(&CollectionsCommand)
}

var CollectionsCommand = cobra.Command{
	Use:   "collections",
	Short: "Inspect and remove collections",
}

var CollectionsDeleteCommand = cobra.Command{
	Use:   "delete",
	Short: "Leave or delete a collection on behalf of a user",
	Long:  "Owners delete the collection with its whole subtree, members only leave it",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, _ := cmd.Flags().GetInt64("user")
		collectionID, _ := cmd.Flags().GetInt64("collection")

		result, err := svc.Deletion.RemoveOrDeleteCollection(cmd.Context(), &services.RemoveOrDeleteRequest{
			UserID:       userID,
			CollectionID: collectionID,
		})
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "<Collection %d> %s by user %d\n", collectionID, result.Kind, userID)
		return nil
	},
}

var CollectionsTreeCommand = cobra.Command{
	Use:   "tree",
	Short: "Print a collection and its descendants",
	RunE: func(cmd *cobra.Command, args []string) error {
		collectionID, _ := cmd.Flags().GetInt64("collection")
		return printTree(cmd.Context(), cmd.OutOrStdout(), store.Collections, collectionID)
	},
}

// printTree writes the subtree rooted at rootID, one collection per line,
// indented by depth. Children appear in id order.
func printTree(ctx context.Context, w io.Writer, repo repositories.CollectionRepository, rootID int64) error {
	root, err := repo.GetByID(ctx, rootID)
	if err != nil {
		return fmt.Errorf("get collection %d: %w", rootID, err)
	}

	type entry struct {
		id    int64
		name  string
		depth int
	}

	stack := []entry{{id: root.ID, name: root.Name}}
	seen := map[int64]bool{}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if seen[top.id] {
			return fmt.Errorf("collection %d: parent cycle", top.id)
		}
		seen[top.id] = true

		fmt.Fprintf(w, "%s%d %s\n", strings.Repeat("  ", top.depth), top.id, top.name)

		children, err := repo.ListChildren(ctx, top.id)
		if err != nil {
			return fmt.Errorf("list children of %d: %w", top.id, err)
		}
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, entry{id: children[i].ID, name: children[i].Name, depth: top.depth + 1})
		}
	}
	return nil
}

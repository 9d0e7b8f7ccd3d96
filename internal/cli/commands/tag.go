package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/electodo/electodo/internal/api"
)

// NewTagCmd groups the tag subcommands.
func NewTagCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Manage the tag vocabulary",
	}

	cmd.AddCommand(newTagListCmd())
	cmd.AddCommand(newTagAddCmd())
	cmd.AddCommand(newTagDeleteCmd())

	return cmd
}

func newTagListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tags",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			client, err := apiClient()
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				os.Exit(1)
			}

			tags, err := client.ListTags()
			if err != nil {
				fmt.Printf("Error fetching tags: %v\n", err)
				os.Exit(1)
			}
			printTagList(tags)
		},
	}
}

func printTagList(tags []api.Tag) {
	if len(tags) == 0 {
		fmt.Println("No tags yet. Add one with 'electodo tag add'.")
		return
	}
	for _, t := range tags {
		fmt.Printf("%s %s\n", shortID(t.ID), tagChip(t.Name))
	}
}

func newTagAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: "Add a tag",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			client, err := apiClient()
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				os.Exit(1)
			}

			tag, err := client.CreateTag(args[0])
			if err != nil {
				fmt.Printf("Error creating tag: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("✓ Added tag %s\n\n", tagChip(tag.Name))

			refreshTagList(client)
		},
	}
}

func newTagDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name|id>",
		Short: "Delete a tag and its task associations",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			client, err := apiClient()
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				os.Exit(1)
			}

			tags, err := client.ListTags()
			if err != nil {
				fmt.Printf("Error fetching tags: %v\n", err)
				os.Exit(1)
			}
			id, err := resolveTagID(tags, args[0])
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				os.Exit(1)
			}
			if err := client.DeleteTag(id); err != nil {
				fmt.Printf("Error deleting tag: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("✓ Tag deleted\n\n")

			refreshTagList(client)
		},
	}
}

// refreshTagList re-fetches and prints the vocabulary after a mutation.
func refreshTagList(client *api.Client) {
	tags, err := client.ListTags()
	if err != nil {
		fmt.Printf("Error refreshing tags: %v\n", err)
		os.Exit(1)
	}
	printTagList(tags)
}

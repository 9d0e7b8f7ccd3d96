package commands

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/electodo/electodo/internal/api"
)

// NewTaskCmd groups the task subcommands.
func NewTaskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks",
	}

	cmd.AddCommand(newTaskListCmd())
	cmd.AddCommand(newTaskAddCmd())
	cmd.AddCommand(newTaskDoneCmd())
	cmd.AddCommand(newTaskReopenCmd())
	cmd.AddCommand(newTaskDeleteCmd())

	return cmd
}

func newTaskListCmd() *cobra.Command {
	var sortKey string
	var tagFilter string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			client, err := apiClient()
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				os.Exit(1)
			}

			tagID := ""
			if tagFilter != "" {
				tags, err := client.ListTags()
				if err != nil {
					fmt.Printf("Error fetching tags: %v\n", err)
					os.Exit(1)
				}
				tagID, err = resolveTagID(tags, tagFilter)
				if err != nil {
					fmt.Printf("Error: %v\n", err)
					os.Exit(1)
				}
			}

			tasks, err := client.ListTasks(sortKey, tagID)
			if err != nil {
				fmt.Printf("Error fetching tasks: %v\n", err)
				os.Exit(1)
			}
			printTaskList(tasks)
		},
	}

	cmd.Flags().StringVar(&sortKey, "sort", "", "Sort order: created_at (default) or due_date")
	cmd.Flags().StringVar(&tagFilter, "tag", "", "Only show tasks carrying this tag")

	return cmd
}

func printTaskList(tasks []api.Task) {
	if len(tasks) == 0 {
		fmt.Println("No tasks yet. Add one with 'electodo task add'.")
		return
	}
	now := time.Now()
	for _, t := range tasks {
		fmt.Println(taskLine(now, t))
	}
}

func newTaskAddCmd() *cobra.Command {
	var dueDate string
	var tagNames []string
	var interactive bool

	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Add a task",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			client, err := apiClient()
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				os.Exit(1)
			}

			title := ""
			if len(args) > 0 {
				title = args[0]
			}

			tags, err := client.ListTags()
			if err != nil {
				fmt.Printf("Error fetching tags: %v\n", err)
				os.Exit(1)
			}

			if interactive {
				title, dueDate, tagNames, err = promptTaskForm(title, tags)
				if err != nil {
					fmt.Printf("Error: %v\n", err)
					os.Exit(1)
				}
			}

			if strings.TrimSpace(title) == "" {
				fmt.Println("Title is required")
				os.Exit(1)
			}
			if dueDate != "" {
				if _, err := time.Parse("2006-01-02", dueDate); err != nil {
					fmt.Printf("Invalid due date %q, expected YYYY-MM-DD\n", dueDate)
					os.Exit(1)
				}
			}

			tagIDs := make([]string, 0, len(tagNames))
			for _, name := range tagNames {
				id, err := resolveTagID(tags, name)
				if err != nil {
					fmt.Printf("Error: %v\n", err)
					os.Exit(1)
				}
				tagIDs = append(tagIDs, id)
			}

			task, err := client.CreateTask(title, dueDate, tagIDs)
			if err != nil {
				fmt.Printf("Error creating task: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("✓ Added task %s\n\n", shortID(task.ID))

			refreshTaskList(client)
		},
	}

	cmd.Flags().StringVar(&dueDate, "due", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().StringArrayVar(&tagNames, "tag", nil, "Tag to attach (repeatable)")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Fill in the task interactively")

	return cmd
}

// promptTaskForm collects the task fields interactively. Tags are picked
// from the existing vocabulary.
func promptTaskForm(title string, tags []api.Tag) (string, string, []string, error) {
	if title == "" {
		if err := survey.AskOne(&survey.Input{Message: "Title:"}, &title, survey.WithValidator(survey.Required)); err != nil {
			return "", "", nil, err
		}
	}

	dueDate := ""
	dueValidator := func(ans interface{}) error {
		s, _ := ans.(string)
		if s == "" {
			return nil
		}
		if _, err := time.Parse("2006-01-02", s); err != nil {
			return fmt.Errorf("expected YYYY-MM-DD")
		}
		return nil
	}
	if err := survey.AskOne(&survey.Input{Message: "Due date (YYYY-MM-DD, blank for none):"}, &dueDate, survey.WithValidator(dueValidator)); err != nil {
		return "", "", nil, err
	}

	var picked []string
	if len(tags) > 0 {
		options := make([]string, 0, len(tags))
		for _, t := range tags {
			options = append(options, t.Name)
		}
		if err := survey.AskOne(&survey.MultiSelect{Message: "Tags:", Options: options}, &picked); err != nil {
			return "", "", nil, err
		}
	}

	return title, dueDate, picked, nil
}

// refreshTaskList re-fetches and prints the list after a mutation.
func refreshTaskList(client *api.Client) {
	tasks, err := client.ListTasks("", "")
	if err != nil {
		fmt.Printf("Error refreshing tasks: %v\n", err)
		os.Exit(1)
	}
	printTaskList(tasks)
}

func newTaskDoneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Mark a task completed",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			setCompletion(args[0], true, "✓ Task completed")
		},
	}
}

func newTaskReopenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reopen <id>",
		Short: "Mark a completed task active again",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			setCompletion(args[0], false, "✓ Task reopened")
		},
	}
}

func setCompletion(idPrefix string, completed bool, message string) {
	client, err := apiClient()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	id, err := resolveTaskID(client, idPrefix)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	if err := client.SetTaskCompletion(id, completed); err != nil {
		fmt.Printf("Error updating task: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("%s\n\n", message)

	refreshTaskList(client)
}

func newTaskDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			client, err := apiClient()
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				os.Exit(1)
			}

			id, err := resolveTaskID(client, args[0])
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				os.Exit(1)
			}
			if err := client.DeleteTask(id); err != nil {
				fmt.Printf("Error deleting task: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("✓ Task deleted\n\n")

			refreshTaskList(client)
		},
	}
}

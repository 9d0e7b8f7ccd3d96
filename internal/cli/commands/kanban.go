package commands

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/electodo/electodo/internal/api"
	"github.com/electodo/electodo/internal/domain"
)

const (
	kanbanColumnWidth = 32
	maxKanbanFilters  = 5
)

var (
	columnStyle = lipgloss.NewStyle().
			Width(kanbanColumnWidth).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#8ecae6"))

	columnTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#48cae4"))
)

// NewKanbanCmd renders the three-column board view.
func NewKanbanCmd() *cobra.Command {
	var tagNames []string

	cmd := &cobra.Command{
		Use:   "kanban",
		Short: "Show the kanban board",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			if len(tagNames) > maxKanbanFilters {
				fmt.Printf("At most %d tag filters are supported\n", maxKanbanFilters)
				os.Exit(1)
			}

			client, err := apiClient()
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				os.Exit(1)
			}

			var tagIDs []string
			if len(tagNames) > 0 {
				tags, err := client.ListTags()
				if err != nil {
					fmt.Printf("Error fetching tags: %v\n", err)
					os.Exit(1)
				}
				for _, name := range tagNames {
					id, err := resolveTagID(tags, name)
					if err != nil {
						fmt.Printf("Error: %v\n", err)
						os.Exit(1)
					}
					tagIDs = append(tagIDs, id)
				}
			}

			board, err := client.Board(tagIDs)
			if err != nil {
				fmt.Printf("Error fetching board: %v\n", err)
				os.Exit(1)
			}

			now := time.Now()
			columns := []string{
				renderColumn(now, domain.ColumnToDo, board.ToDo),
				renderColumn(now, domain.ColumnOverdue, board.Overdue),
				renderColumn(now, domain.ColumnDone, board.Done),
			}
			fmt.Println(lipgloss.JoinHorizontal(lipgloss.Top, columns...))
		},
	}

	cmd.Flags().StringArrayVar(&tagNames, "tag", nil, "Only show tasks carrying this tag (repeatable, up to 5)")

	return cmd
}

func renderColumn(now time.Time, col domain.Column, tasks []api.Task) string {
	lines := []string{columnTitleStyle.Render(fmt.Sprintf("%s (%d)", col, len(tasks)))}

	if len(tasks) == 0 {
		lines = append(lines, faintStyle.Render("empty"))
	}
	for _, t := range tasks {
		lines = append(lines, cardLines(now, t)...)
	}

	return columnStyle.Render(strings.Join(lines, "\n"))
}

// cardLines renders one board card: id and title, then due label and tags
// when present.
func cardLines(now time.Time, t api.Task) []string {
	title := truncateString(t.Title, kanbanColumnWidth-13)
	lines := []string{fmt.Sprintf("%s %s", faintStyle.Render(shortID(t.ID)), title)}

	var meta []string
	if due := parseDueDate(t); due != nil {
		meta = append(meta, faintStyle.Render(domain.FormatDueDate(now, *due)))
	}
	for _, tag := range t.Tags {
		meta = append(meta, tagChip(tag.Name))
	}
	if len(meta) > 0 {
		lines = append(lines, "  "+strings.Join(meta, " "))
	}
	return lines
}

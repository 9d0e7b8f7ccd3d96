package commands

// Helper functions shared across commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/electodo/electodo/internal/api"
	"github.com/electodo/electodo/internal/cli/session"
	"github.com/electodo/electodo/internal/domain"
)

var (
	chipTextColor = lipgloss.Color("#000814")

	overdueStyle  = lipgloss.NewStyle().Padding(0, 1).Background(lipgloss.Color("#c1121f")).Foreground(lipgloss.Color("#f6fff8"))
	dueSoonStyle  = lipgloss.NewStyle().Padding(0, 1).Background(lipgloss.Color("#ffb703")).Foreground(chipTextColor)
	upcomingStyle = lipgloss.NewStyle().Padding(0, 1).Background(lipgloss.Color("#ffc300")).Foreground(chipTextColor)

	faintStyle = lipgloss.NewStyle().Faint(true)
)

// apiClient builds a client carrying the stored session token.
func apiClient() (*api.Client, error) {
	token, err := session.LoadToken()
	if err != nil {
		return nil, err
	}
	return api.NewClient(token), nil
}

// tagChip renders a tag name on its derived palette color.
func tagChip(name string) string {
	return lipgloss.NewStyle().
		Padding(0, 1).
		Background(lipgloss.Color(domain.TagColor(name))).
		Foreground(chipTextColor).
		Render(name)
}

// bucketBadge renders the urgency badge for a bucket, or "" for none.
func bucketBadge(b domain.Bucket) string {
	switch b {
	case domain.BucketOverdue:
		return overdueStyle.Render(b.String())
	case domain.BucketDueSoon:
		return dueSoonStyle.Render(b.String())
	case domain.BucketUpcoming:
		return upcomingStyle.Render(b.String())
	}
	return ""
}

// parseDueDate turns the wire due date back into a time, nil when unset.
func parseDueDate(t api.Task) *time.Time {
	if t.DueDate == "" {
		return nil
	}
	due, err := time.Parse("2006-01-02", t.DueDate)
	if err != nil {
		return nil
	}
	return &due
}

// taskLine renders one task for the flat list view.
func taskLine(now time.Time, t api.Task) string {
	check := "[ ]"
	if t.Completed {
		check = "[x]"
	}

	parts := []string{check, shortID(t.ID), t.Title}
	for _, tag := range t.Tags {
		parts = append(parts, tagChip(tag.Name))
	}

	due := parseDueDate(t)
	if badge := bucketBadge(domain.DueBucket(now, due, t.Completed)); badge != "" {
		parts = append(parts, badge)
	}
	if due != nil {
		parts = append(parts, faintStyle.Render(domain.FormatDueDate(now, *due)))
	}

	line := strings.Join(parts, " ")
	if t.Completed {
		return faintStyle.Render(line)
	}
	return line
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// resolveTaskID expands a task id prefix to the full id.
func resolveTaskID(client *api.Client, prefix string) (string, error) {
	tasks, err := client.ListTasks("", "")
	if err != nil {
		return "", err
	}

	var matches []string
	for _, t := range tasks {
		if strings.HasPrefix(t.ID, prefix) {
			matches = append(matches, t.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no task matches id %q", prefix)
	case 1:
		return matches[0], nil
	}
	return "", fmt.Errorf("id %q is ambiguous (%d matches)", prefix, len(matches))
}

// resolveTagID maps a tag name (case-insensitive) or id to the tag id.
func resolveTagID(tags []api.Tag, nameOrID string) (string, error) {
	for _, t := range tags {
		if strings.EqualFold(t.Name, nameOrID) || t.ID == nameOrID {
			return t.ID, nil
		}
	}
	names := make([]string, 0, len(tags))
	for _, t := range tags {
		names = append(names, t.Name)
	}
	return "", fmt.Errorf("unknown tag %q (available: %s)", nameOrID, strings.Join(names, ", "))
}

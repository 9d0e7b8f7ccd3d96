package domain

import "time"

// Column is one of the three mutually exclusive kanban groupings. The
// classification is total: completion wins over everything, a past due
// date marks an open task overdue, and everything else (including open
// tasks with no due date) lands in To Do.
type Column string

const (
	ColumnToDo    Column = "To Do"
	ColumnOverdue Column = "Overdue"
	ColumnDone    Column = "Done"
)

// Columns lists the board columns in display order.
var Columns = []Column{ColumnToDo, ColumnOverdue, ColumnDone}

// ColumnOf assigns a task to exactly one kanban column.
func ColumnOf(now time.Time, due *time.Time, completed bool) Column {
	if completed {
		return ColumnDone
	}
	if due != nil && due.Before(now) {
		return ColumnOverdue
	}
	return ColumnToDo
}

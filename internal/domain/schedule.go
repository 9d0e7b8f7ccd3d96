package domain

import (
	"fmt"
	"math"
	"time"
)

// Bucket is a due-date-derived urgency classification.
type Bucket int

const (
	BucketNone Bucket = iota
	BucketOverdue
	BucketDueSoon
	BucketUpcoming
)

func (b Bucket) String() string {
	switch b {
	case BucketOverdue:
		return "Overdue"
	case BucketDueSoon:
		return "Due Soon"
	case BucketUpcoming:
		return "Upcoming"
	}
	return ""
}

// diffDays counts whole days from now until due, rounding up. A due date
// earlier today still counts as day zero.
func diffDays(now, due time.Time) int {
	return int(math.Ceil(due.Sub(now).Hours() / 24))
}

// DueBucket classifies a task's due date relative to now. Completed tasks
// and tasks without a due date are never bucketed.
func DueBucket(now time.Time, due *time.Time, completed bool) Bucket {
	if completed || due == nil {
		return BucketNone
	}
	switch d := diffDays(now, *due); {
	case d < 0:
		return BucketOverdue
	case d <= 1:
		return BucketDueSoon
	case d <= 3:
		return BucketUpcoming
	}
	return BucketNone
}

// FormatDueDate renders a due date as a relative label near now and as an
// absolute calendar date further out.
func FormatDueDate(now, due time.Time) string {
	switch d := diffDays(now, due); {
	case d == 0:
		return "Today"
	case d == 1:
		return "Tomorrow"
	case d == -1:
		return "Yesterday"
	case d > 0 && d <= 7:
		return fmt.Sprintf("In %d days", d)
	case d < 0:
		return fmt.Sprintf("%d days ago", -d)
	}
	return due.Format("Jan 2, 2006")
}

package domain

import "time"

// ClassifyUrgency maps a task's due date and status to an urgency
// category. Pure and total: every input maps to exactly one of the
// eight categories and malformed dates degrade to UrgencyNoDueDate
// rather than erroring.
func ClassifyUrgency(dueDate *string, status TaskStatus) UrgencyCategory {
	return ClassifyUrgencyAt(dueDate, status, time.Now().UTC())
}

// ClassifyUrgencyAt is ClassifyUrgency evaluated against an explicit
// instant. Completion always wins, regardless of the date.
func ClassifyUrgencyAt(dueDate *string, status TaskStatus, now time.Time) UrgencyCategory {
	if status.IsDone() {
		return UrgencyCompleted
	}

	days := DaysUntilDueAt(dueDate, now)
	if days == nil {
		return UrgencyNoDueDate
	}

	switch {
	case *days < 0:
		return UrgencyOverdue
	case *days == 0:
		return UrgencyDueToday
	case *days == 1:
		return UrgencyDueIn1Day
	case *days == 2:
		return UrgencyDueIn2Day
	case *days == 3:
		return UrgencyDueIn3Day
	default:
		return UrgencyFarFuture
	}
}

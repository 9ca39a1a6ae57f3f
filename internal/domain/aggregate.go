package domain

import (
	"math"
	"time"
)

// DeriveObjectiveMetrics recomputes every derived field on the
// objective from the loaded tree plus the objective's backlog tasks.
// The computation is total: an objective with zero key results and
// zero tasks yields all-zero metrics, never a division by zero.
//
// Progress counts backlog tasks in the denominator but never in the
// numerator - backlog work is not in flight yet, so its presence
// visibly lowers perceived completion until promoted.
func DeriveObjectiveMetrics(obj *Objective, backlog []Task, now time.Time) {
	if obj == nil {
		return
	}

	all := collectTasks(obj, backlog)

	var open, overdue, completed int
	for i := range all {
		cat := ClassifyUrgencyAt(all[i].DueDate, all[i].Status, now)
		if cat == UrgencyCompleted {
			completed++
			continue
		}
		open++
		if cat == UrgencyOverdue {
			overdue++
		}
	}

	obj.OpenTasksCount = open
	obj.OverdueTasksCount = overdue
	obj.ProgressWithBacklog = roundedPercent(completed, len(all))

	doneKRs := 0
	for i := range obj.KeyResults {
		if obj.KeyResults[i].Status.IsDone() {
			doneKRs++
		}
	}
	obj.KRCompletionRate = roundedPercent(doneKRs, len(obj.KeyResults))

	obj.CalculatedStatus = calculatedStatusAt(obj, doneKRs, now)
	obj.IsCritical = obj.CalculatedStatus == ObjectiveStatusLate || obj.OverdueTasksCount > 0
}

// AnnotateTaskUrgency stamps the derived urgency category on every
// task in the tree and backlog, using one consistent "today".
func AnnotateTaskUrgency(obj *Objective, backlog []Task, now time.Time) {
	if obj != nil {
		for k := range obj.KeyResults {
			kr := &obj.KeyResults[k]
			for i := range kr.Tasks {
				kr.Tasks[i].Urgency = ClassifyUrgencyAt(kr.Tasks[i].DueDate, kr.Tasks[i].Status, now)
			}
		}
	}
	for i := range backlog {
		backlog[i].Urgency = ClassifyUrgencyAt(backlog[i].DueDate, backlog[i].Status, now)
	}
}

// calculatedStatusAt derives the effective objective status.
// Late wins when the objective's own due date has passed and the
// objective is not fully complete; a same-day due date is not late,
// matching the urgency convention that zero days means due today.
func calculatedStatusAt(obj *Objective, doneKRs int, now time.Time) ObjectiveStatus {
	fullyComplete := len(obj.KeyResults) > 0 && doneKRs == len(obj.KeyResults)

	if days := DaysUntilDueAt(obj.DueDate, now); days != nil && *days < 0 && !fullyComplete {
		return ObjectiveStatusLate
	}
	if fullyComplete {
		return ObjectiveStatusDone
	}
	return obj.Status
}

// collectTasks flattens KR tasks and backlog tasks into one slice.
func collectTasks(obj *Objective, backlog []Task) []Task {
	n := len(backlog)
	for i := range obj.KeyResults {
		n += len(obj.KeyResults[i].Tasks)
	}

	all := make([]Task, 0, n)
	for i := range obj.KeyResults {
		all = append(all, obj.KeyResults[i].Tasks...)
	}
	all = append(all, backlog...)
	return all
}

// roundedPercent computes round(part/total*100), 0 when total is 0.
func roundedPercent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}

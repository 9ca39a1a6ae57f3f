package domain

import (
	"cmp"
	"slices"
	"sync"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortTasksByUrgency returns the tasks ordered for triage. The input
// slice is never mutated; nil input yields an empty slice.
//
// The order is total and deterministic:
//  1. urgency category rank, ascending (overdue first, completed last,
//     unrecognized categories after everything)
//  2. within the same category, ascending days-until-due; a task with a
//     due date sorts before one without
//  3. title, ascending in Portuguese collation order (missing title
//     compares as the empty string)
//
// No hidden dependence on input order: swapping two tasks in the input
// never changes the output sequence.
func SortTasksByUrgency(tasks []Task) []Task {
	return SortTasksByUrgencyAt(tasks, time.Now().UTC())
}

// SortTasksByUrgencyAt is SortTasksByUrgency evaluated against an
// explicit instant so a whole snapshot orders consistently.
func SortTasksByUrgencyAt(tasks []Task, now time.Time) []Task {
	if len(tasks) == 0 {
		return []Task{}
	}

	ordered := slices.Clone(tasks)
	slices.SortStableFunc(ordered, func(a, b Task) int {
		return compareTasksAt(a, b, now)
	})
	return ordered
}

// compareTasksAt implements the multi-key comparison backing
// SortTasksByUrgencyAt.
func compareTasksAt(a, b Task, now time.Time) int {
	rankA := ClassifyUrgencyAt(a.DueDate, a.Status, now).Rank()
	rankB := ClassifyUrgencyAt(b.DueDate, b.Status, now).Rank()
	if rankA != rankB {
		return cmp.Compare(rankA, rankB)
	}

	daysA := DaysUntilDueAt(a.DueDate, now)
	daysB := DaysUntilDueAt(b.DueDate, now)
	switch {
	case daysA != nil && daysB != nil:
		if *daysA != *daysB {
			return cmp.Compare(*daysA, *daysB)
		}
	case daysA != nil:
		return -1
	case daysB != nil:
		return 1
	}

	return compareTitles(a.Title, b.Title)
}

// Titles compare under Portuguese collation, not byte order, so
// accented titles sort with their base letter ("Água" before "Zebra").
// A Collator keeps internal buffers and is not safe for concurrent
// use, hence the pool.
var titleCollators = sync.Pool{
	New: func() any { return collate.New(language.Portuguese) },
}

func compareTitles(a, b string) int {
	c := titleCollators.Get().(*collate.Collator)
	defer titleCollators.Put(c)
	return c.CompareString(a, b)
}

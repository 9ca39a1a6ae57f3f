package domain

// AssignTasksToKeyResults distributes tasks among key results by exact
// KRID match and returns the remainder with a nil KRID as the backlog.
//
// The backing store's nested join is not trusted: a task retrieved
// under one key result may belong to another, or to none. This is the
// single named re-filter the loader applies after every fetch. Tasks
// carrying a KRID that matches none of the given key results are
// dropped entirely - they belong to a different view of the tree.
//
// Inputs are not mutated; the returned key results carry fresh task
// slices.
func AssignTasksToKeyResults(krs []KeyResult, tasks []Task) ([]KeyResult, []Task) {
	byKR := make(map[string][]Task, len(krs))
	backlog := []Task{}

	known := make(map[string]struct{}, len(krs))
	for i := range krs {
		known[krs[i].ID] = struct{}{}
	}

	for _, t := range tasks {
		if t.KRID == nil {
			backlog = append(backlog, t)
			continue
		}
		if _, ok := known[*t.KRID]; !ok {
			continue
		}
		byKR[*t.KRID] = append(byKR[*t.KRID], t)
	}

	out := make([]KeyResult, len(krs))
	for i := range krs {
		out[i] = krs[i]
		out[i].Tasks = byKR[krs[i].ID]
	}
	return out, backlog
}

// FlattenTree collects every task under the objective's key results
// followed by the backlog, preserving encounter order.
func FlattenTree(obj *Objective, backlog []Task) []Task {
	if obj == nil {
		return append([]Task{}, backlog...)
	}
	return collectTasks(obj, backlog)
}

// Package order computes task sort order and view partitioning. Everything
// here is pure: callers pass task slices in and get fresh slices back.
package order

import (
	"sort"
	"time"

	"dayflow/internal/domain"
)

// Less is the unified list comparator.
//
// Tasks with any schedule signal sort before tasks with neither. Scheduled
// tasks order by combined date+time ascending (missing date counts as the
// epoch day, missing time as midnight). Unscheduled tasks order by the
// manual order value ascending when both carry one, else by createdAt
// descending with a missing createdAt treated as the epoch.
func Less(a, b domain.Task) bool {
	aSched, bSched := a.HasSchedule(), b.HasSchedule()
	if aSched != bSched {
		return aSched
	}
	if aSched {
		return a.ScheduleAt().Before(b.ScheduleAt())
	}
	if a.Order != nil && b.Order != nil {
		return *a.Order < *b.Order
	}
	return a.CreatedTime().After(b.CreatedTime())
}

// Sort returns the tasks in unified order. The sort is stable, so ties keep
// their input order, and the input slice is left untouched.
func Sort(tasks []domain.Task) []domain.Task {
	out := make([]domain.Task, len(tasks))
	copy(out, tasks)
	sort.SliceStable(out, func(i, j int) bool { return Less(out[i], out[j]) })
	return out
}

// Inbox returns the tasks with no assigned date.
func Inbox(tasks []domain.Task) []domain.Task {
	var out []domain.Task
	for _, t := range tasks {
		if t.Date == nil {
			out = append(out, t)
		}
	}
	return out
}

// ForDay returns the tasks whose date equals the given calendar day. The
// match is calendar-day equality, not a time-range comparison.
func ForDay(tasks []domain.Task, day string) []domain.Task {
	want := normalizeDay(day)
	var out []domain.Task
	for _, t := range tasks {
		if t.Date != nil && normalizeDay(*t.Date) == want {
			out = append(out, t)
		}
	}
	return out
}

func normalizeDay(s string) string {
	for _, layout := range []string{domain.DateLayout, time.RFC3339} {
		if d, err := time.Parse(layout, s); err == nil {
			return d.Format(domain.DateLayout)
		}
	}
	return s
}

// View is the todo/done split of an active view. Todo is further split into
// Scheduled (date or time present, sorted by date+time ascending) and
// AllDay (neither), the only reorderable subset.
type View struct {
	Todo      []domain.Task
	Done      []domain.Task
	Scheduled []domain.Task
	AllDay    []domain.Task
}

// Partition derives the View splits from an already filtered task list.
func Partition(tasks []domain.Task) View {
	var v View
	for _, t := range tasks {
		if t.IsDone {
			v.Done = append(v.Done, t)
			continue
		}
		v.Todo = append(v.Todo, t)
		if t.HasSchedule() {
			v.Scheduled = append(v.Scheduled, t)
		} else {
			v.AllDay = append(v.AllDay, t)
		}
	}
	sort.SliceStable(v.Scheduled, func(i, j int) bool {
		return v.Scheduled[i].ScheduleAt().Before(v.Scheduled[j].ScheduleAt())
	})
	return v
}

// Reorder removes the element at src and reinserts it at dst within the
// subset, returning the new subset. A drop outside the subset bounds is a
// no-op and returns ok=false.
func Reorder(subset []domain.Task, src, dst int) ([]domain.Task, bool) {
	n := len(subset)
	if src < 0 || src >= n || dst < 0 || dst >= n {
		return subset, false
	}
	out := make([]domain.Task, 0, n)
	out = append(out, subset[:src]...)
	out = append(out, subset[src+1:]...)
	out = append(out[:dst], append([]domain.Task{subset[src]}, out[dst:]...)...)
	return out, true
}

// IDs extracts the id sequence sent to the service as the canonical order.
func IDs(tasks []domain.Task) []string {
	ids := make([]string, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	return ids
}

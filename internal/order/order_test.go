package order_test

import (
	"testing"

	"dayflow/internal/domain"
	"dayflow/internal/order"
)

func ptr[T any](v T) *T { return &v }

func task(id string, mut ...func(*domain.Task)) domain.Task {
	t := domain.Task{ID: id, Title: "task " + id}
	for _, m := range mut {
		m(&t)
	}
	return t
}

func withDate(d string) func(*domain.Task)  { return func(t *domain.Task) { t.Date = ptr(d) } }
func withTime(tm string) func(*domain.Task) { return func(t *domain.Task) { t.Time = ptr(tm) } }
func withOrder(n int) func(*domain.Task)    { return func(t *domain.Task) { t.Order = ptr(n) } }
func withCreated(ts string) func(*domain.Task) {
	return func(t *domain.Task) { t.CreatedAt = ptr(ts) }
}

func ids(tasks []domain.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func assertOrder(t *testing.T, got []domain.Task, want ...string) {
	t.Helper()
	g := ids(got)
	if len(g) != len(want) {
		t.Fatalf("got %v, want %v", g, want)
	}
	for i := range want {
		if g[i] != want[i] {
			t.Fatalf("got %v, want %v", g, want)
		}
	}
}

func TestSortScheduledFirst(t *testing.T) {
	tasks := []domain.Task{
		task("unsched", withCreated("2024-05-01T10:00:00Z")),
		task("sched", withDate("2024-05-02")),
	}
	assertOrder(t, order.Sort(tasks), "sched", "unsched")
}

func TestSortScheduledByDateThenTime(t *testing.T) {
	tasks := []domain.Task{
		task("late", withDate("2024-05-02"), withTime("15:00")),
		task("early", withDate("2024-05-02"), withTime("08:30")),
		task("prev", withDate("2024-05-01")),
		task("timeless", withDate("2024-05-02")),
	}
	// a missing time sorts as midnight
	assertOrder(t, order.Sort(tasks), "prev", "timeless", "early", "late")
}

func TestSortTimeOnlyBeforeDated(t *testing.T) {
	tasks := []domain.Task{
		task("dated", withDate("2024-05-02")),
		task("timeonly", withTime("09:00")),
	}
	// a missing date sorts as the epoch day
	assertOrder(t, order.Sort(tasks), "timeonly", "dated")
}

func TestSortUnscheduledByOrderThenCreated(t *testing.T) {
	tasks := []domain.Task{
		task("b", withOrder(2)),
		task("a", withOrder(1)),
		task("newer", withCreated("2024-06-01T00:00:00Z")),
		task("older", withCreated("2024-01-01T00:00:00Z")),
	}
	// both have order: ascending; otherwise createdAt descending, with a
	// missing createdAt treated as the epoch (sorts last)
	got := order.Sort(tasks)
	assertOrder(t, got, "newer", "older", "a", "b")
}

func TestSortMixedScheduledAndOrdered(t *testing.T) {
	tasks := []domain.Task{
		task("A", withDate("2024-01-01"), withTime("09:00")),
		task("B", withOrder(1)),
		task("C", withOrder(0)),
	}
	assertOrder(t, order.Sort(tasks), "A", "C", "B")
}

func TestSortMissingCreatedAtSortsLast(t *testing.T) {
	tasks := []domain.Task{
		task("nocreated"),
		task("created", withCreated("2024-01-01T00:00:00Z")),
	}
	assertOrder(t, order.Sort(tasks), "created", "nocreated")
}

func TestSortStableOnTies(t *testing.T) {
	tasks := []domain.Task{
		task("first", withCreated("2024-01-01T00:00:00Z")),
		task("second", withCreated("2024-01-01T00:00:00Z")),
	}
	got := order.Sort(tasks)
	assertOrder(t, got, "first", "second")
	// sorting the result again must not move anything
	assertOrder(t, order.Sort(got), "first", "second")
}

func TestSortDoesNotMutateInput(t *testing.T) {
	tasks := []domain.Task{
		task("z", withCreated("2024-01-01T00:00:00Z")),
		task("a", withDate("2024-05-01")),
	}
	order.Sort(tasks)
	if tasks[0].ID != "z" {
		t.Fatalf("input reordered in place")
	}
}

func TestInbox(t *testing.T) {
	tasks := []domain.Task{
		task("dated", withDate("2024-05-01")),
		task("timeonly", withTime("10:00")),
		task("bare"),
	}
	got := order.Inbox(tasks)
	// only tasks without a date belong to the inbox; a time alone does not
	// schedule a task out of it
	assertOrder(t, got, "timeonly", "bare")
}

func TestForDay(t *testing.T) {
	tasks := []domain.Task{
		task("hit", withDate("2024-05-01")),
		task("timestamped", withDate("2024-05-01T00:00:00Z")),
		task("miss", withDate("2024-05-02")),
		task("bare"),
	}
	got := order.ForDay(tasks, "2024-05-01")
	assertOrder(t, got, "hit", "timestamped")
}

func TestPartition(t *testing.T) {
	done := task("done", func(t *domain.Task) { t.IsDone = true })
	tasks := []domain.Task{
		task("allday", withOrder(1)),
		task("sched", withDate("2024-05-01")),
		done,
	}
	v := order.Partition(tasks)
	assertOrder(t, v.Todo, "allday", "sched")
	assertOrder(t, v.Scheduled, "sched")
	assertOrder(t, v.AllDay, "allday")
	assertOrder(t, v.Done, "done")
}

func TestForDayViewHasNoAllDaySubset(t *testing.T) {
	tasks := []domain.Task{
		task("dated", withDate("2024-05-01")),
		task("timed", withDate("2024-05-01"), withTime("09:00")),
		task("bare"),
	}
	// every task in a day view carries a date, so nothing in it is
	// reorderable
	v := order.Partition(order.ForDay(tasks, "2024-05-01"))
	if len(v.AllDay) != 0 {
		t.Fatalf("day view has all-day tasks: %v", ids(v.AllDay))
	}
	if len(v.Scheduled) != 2 {
		t.Fatalf("scheduled=%v", ids(v.Scheduled))
	}
}

func TestReorder(t *testing.T) {
	subset := []domain.Task{task("a"), task("b"), task("c")}
	got, ok := order.Reorder(subset, 0, 2)
	if !ok {
		t.Fatalf("reorder rejected valid indices")
	}
	assertOrder(t, got, "b", "c", "a")
	// input untouched
	assertOrder(t, subset, "a", "b", "c")
}

func TestReorderOutOfBounds(t *testing.T) {
	subset := []domain.Task{task("a"), task("b")}
	for _, tc := range [][2]int{{-1, 0}, {0, -1}, {2, 0}, {0, 2}} {
		got, ok := order.Reorder(subset, tc[0], tc[1])
		if ok {
			t.Fatalf("reorder(%d,%d) accepted", tc[0], tc[1])
		}
		assertOrder(t, got, "a", "b")
	}
}

func TestIDs(t *testing.T) {
	got := order.IDs([]domain.Task{task("x"), task("y")})
	if len(got) != 2 || got[0] != "x" || got[1] != "y" {
		t.Fatalf("got %v", got)
	}
}

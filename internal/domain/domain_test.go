package domain_test

import (
	"testing"
	"time"

	"dayflow/internal/domain"
)

func ptr[T any](v T) *T { return &v }

func TestScheduleAt(t *testing.T) {
	full := domain.Task{Date: ptr("2024-05-01"), Time: ptr("09:30")}
	want := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	if got := full.ScheduleAt(); !got.Equal(want) {
		t.Fatalf("got %v", got)
	}

	dateOnly := domain.Task{Date: ptr("2024-05-01")}
	if got := dateOnly.ScheduleAt(); !got.Equal(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("date only: %v", got)
	}

	timeOnly := domain.Task{Time: ptr("09:30")}
	epoch := time.Unix(0, 0).UTC()
	want = time.Date(epoch.Year(), epoch.Month(), epoch.Day(), 9, 30, 0, 0, time.UTC)
	if got := timeOnly.ScheduleAt(); !got.Equal(want) {
		t.Fatalf("time only: %v", got)
	}
}

func TestCreatedTime(t *testing.T) {
	task := domain.Task{CreatedAt: ptr("2024-05-01T10:00:00Z")}
	if got := task.CreatedTime(); !got.Equal(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("got %v", got)
	}
	epoch := time.Unix(0, 0).UTC()
	if got := (domain.Task{}).CreatedTime(); !got.Equal(epoch) {
		t.Fatalf("missing createdAt: %v", got)
	}
	garbage := domain.Task{CreatedAt: ptr("yesterday")}
	if got := garbage.CreatedTime(); !got.Equal(epoch) {
		t.Fatalf("unparsable createdAt: %v", got)
	}
}

func TestEstimateMinutes(t *testing.T) {
	withSubs := domain.Task{
		TotalEstimatedTime: ptr(99),
		SubTasks: []domain.SubTask{
			{Title: "one", EstimatedTime: 10},
			{Title: "two", EstimatedTime: 20},
		},
	}
	// subtask estimates win over the task-level value
	if got := withSubs.EstimateMinutes(); got != 30 {
		t.Fatalf("got %d", got)
	}

	zeroSubs := domain.Task{
		TotalEstimatedTime: ptr(45),
		SubTasks:           []domain.SubTask{{Title: "one"}},
	}
	if got := zeroSubs.EstimateMinutes(); got != 45 {
		t.Fatalf("zero subtask estimates: %d", got)
	}

	if got := (domain.Task{}).EstimateMinutes(); got != 0 {
		t.Fatalf("bare task: %d", got)
	}
}

func TestTaskValidate(t *testing.T) {
	valid := domain.Task{ID: "t1", Title: "ok", Date: ptr("2024-05-01"), Time: ptr("09:00")}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid task rejected: %v", err)
	}
	cases := []domain.Task{
		{Title: "no id"},
		{ID: "t1"},
		{ID: "t1", Title: "x", Date: ptr("May 1st")},
		{ID: "t1", Title: "x", Time: ptr("9am")},
		{ID: "t1", Title: "x", TotalEstimatedTime: ptr(-1)},
		{ID: "t1", Title: "x", SubTasks: []domain.SubTask{{}}},
	}
	for i, tc := range cases {
		if err := tc.Validate(); err == nil {
			t.Fatalf("case %d accepted: %+v", i, tc)
		}
	}
}

func TestUserDisplayName(t *testing.T) {
	named := domain.User{ID: "u1", Email: "a@b.c", Name: ptr("Alex")}
	if got := named.DisplayName(); got != "Alex" {
		t.Fatalf("got %q", got)
	}
	anon := domain.User{ID: "u1", Email: "a@b.c"}
	if got := anon.DisplayName(); got != "a@b.c" {
		t.Fatalf("got %q", got)
	}
	blank := domain.User{ID: "u1", Email: "a@b.c", Name: ptr("")}
	if got := blank.DisplayName(); got != "a@b.c" {
		t.Fatalf("blank name: %q", got)
	}
}

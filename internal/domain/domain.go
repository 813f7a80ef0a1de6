package domain

import (
	"fmt"
	"time"
)

const (
	// DateLayout is the calendar-day format used by the API ("2024-01-01").
	DateLayout = "2006-01-02"
	// TimeLayout is the time-of-day format used by the API ("09:00").
	TimeLayout = "15:04"
)

// SubTask is a read-only breakdown item produced by the remote AI endpoint.
type SubTask struct {
	Title         string `json:"title"`
	Description   string `json:"description,omitempty"`
	EstimatedTime int    `json:"estimatedTime,omitempty"`
}

type Task struct {
	ID                 string    `json:"id"`
	Title              string    `json:"title"`
	Description        string    `json:"description,omitempty"`
	Date               *string   `json:"date,omitempty"`
	Time               *string   `json:"time,omitempty"`
	IsDone             bool      `json:"isDone"`
	TotalEstimatedTime *int      `json:"totalEstimatedTime,omitempty"`
	SubTasks           []SubTask `json:"subTasks,omitempty"`
	Order              *int      `json:"order,omitempty"`
	CreatedAt          *string   `json:"createdAt,omitempty"`
}

type User struct {
	ID             string  `json:"id"`
	Email          string  `json:"email"`
	Name           *string `json:"name,omitempty"`
	ProfilePicture *string `json:"profilePicture,omitempty"`
}

// HasSchedule reports whether the task carries any schedule signal.
func (t Task) HasSchedule() bool {
	return t.Date != nil || t.Time != nil
}

// ScheduleAt combines date and time into a sortable instant. A missing date
// counts as the epoch day and a missing time as midnight, so partially
// scheduled tasks still get a total order.
func (t Task) ScheduleAt() time.Time {
	day := time.Unix(0, 0).UTC()
	if t.Date != nil {
		if d, err := time.Parse(DateLayout, *t.Date); err == nil {
			day = d
		}
	}
	if t.Time != nil {
		if tm, err := time.Parse(TimeLayout, *t.Time); err == nil {
			return time.Date(day.Year(), day.Month(), day.Day(), tm.Hour(), tm.Minute(), 0, 0, time.UTC)
		}
	}
	return day
}

// CreatedTime parses createdAt, treating a missing or unparsable value as
// the epoch (oldest).
func (t Task) CreatedTime() time.Time {
	if t.CreatedAt == nil {
		return time.Unix(0, 0).UTC()
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, DateLayout} {
		if ts, err := time.Parse(layout, *t.CreatedAt); err == nil {
			return ts
		}
	}
	return time.Unix(0, 0).UTC()
}

// EstimateMinutes returns the subtask estimate sum when subtasks carry
// estimates, else totalEstimatedTime, else zero.
func (t Task) EstimateMinutes() int {
	if len(t.SubTasks) > 0 {
		total := 0
		for _, st := range t.SubTasks {
			total += st.EstimatedTime
		}
		if total > 0 {
			return total
		}
	}
	if t.TotalEstimatedTime != nil {
		return *t.TotalEstimatedTime
	}
	return 0
}

// Validate rejects malformed task records at the API boundary.
func (t Task) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("task missing id")
	}
	if t.Title == "" {
		return fmt.Errorf("task %s missing title", t.ID)
	}
	if t.Date != nil {
		if _, err := time.Parse(DateLayout, *t.Date); err != nil {
			return fmt.Errorf("task %s has invalid date %q", t.ID, *t.Date)
		}
	}
	if t.Time != nil {
		if _, err := time.Parse(TimeLayout, *t.Time); err != nil {
			return fmt.Errorf("task %s has invalid time %q", t.ID, *t.Time)
		}
	}
	if t.TotalEstimatedTime != nil && *t.TotalEstimatedTime < 0 {
		return fmt.Errorf("task %s has negative estimate", t.ID)
	}
	for i, st := range t.SubTasks {
		if st.Title == "" {
			return fmt.Errorf("task %s subtask %d missing title", t.ID, i)
		}
		if st.EstimatedTime < 0 {
			return fmt.Errorf("task %s subtask %d has negative estimate", t.ID, i)
		}
	}
	return nil
}

// ValidateAll validates a fetched list, failing on the first bad record.
func ValidateAll(tasks []Task) error {
	for _, t := range tasks {
		if err := t.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (u User) Validate() error {
	if u.ID == "" {
		return fmt.Errorf("user missing id")
	}
	if u.Email == "" {
		return fmt.Errorf("user %s missing email", u.ID)
	}
	return nil
}

// DisplayName returns the user's name when set, else the email.
func (u User) DisplayName() string {
	if u.Name != nil && *u.Name != "" {
		return *u.Name
	}
	return u.Email
}

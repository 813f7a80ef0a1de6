// Package repo persists client-local state: the last-fetched task snapshot
// used for offline listing, and the focus session history. The remote
// service stays the source of truth for tasks.
package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"dayflow/internal/domain"
)

type Repo struct {
	DB *sql.DB
}

var ErrNotFound = errors.New("not found")

// SaveSnapshot replaces the stored task snapshot with the given list,
// preserving its order.
func (r Repo) SaveSnapshot(ctx context.Context, tasks []domain.Task, fetchedAt time.Time) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, `DELETE FROM task_snapshot`); err != nil {
		return err
	}
	ts := fetchedAt.UTC().Format(time.RFC3339)
	for i, t := range tasks {
		payload, err := json.Marshal(t)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO task_snapshot(id,position,payload,fetched_at) VALUES (?,?,?,?)`,
			t.ID, i, string(payload), ts); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// LoadSnapshot returns the stored tasks in saved order plus the fetch time.
// ErrNotFound means no snapshot has been saved yet.
func (r Repo) LoadSnapshot(ctx context.Context) ([]domain.Task, time.Time, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT payload, fetched_at FROM task_snapshot ORDER BY position`)
	if err != nil {
		return nil, time.Time{}, err
	}
	defer rows.Close()
	var tasks []domain.Task
	var fetchedAt time.Time
	for rows.Next() {
		var payload, ts string
		if err := rows.Scan(&payload, &ts); err != nil {
			return nil, time.Time{}, err
		}
		var t domain.Task
		if err := json.Unmarshal([]byte(payload), &t); err != nil {
			return nil, time.Time{}, err
		}
		tasks = append(tasks, t)
		if parsed, err := time.Parse(time.RFC3339, ts); err == nil {
			fetchedAt = parsed
		}
	}
	if err := rows.Err(); err != nil {
		return nil, time.Time{}, err
	}
	if len(tasks) == 0 {
		return nil, time.Time{}, ErrNotFound
	}
	return tasks, fetchedAt, nil
}

// FocusSession is one recorded focus or break interval.
type FocusSession struct {
	ID        int64  `json:"id"`
	TaskID    string `json:"task_id,omitempty"`
	TaskTitle string `json:"task_title,omitempty"`
	Mode      string `json:"mode"`
	Seconds   int    `json:"seconds"`
	Completed bool   `json:"completed"`
	StartedAt string `json:"started_at"`
	EndedAt   string `json:"ended_at"`
}

func (r Repo) InsertFocusSession(ctx context.Context, s FocusSession) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO focus_sessions(task_id,task_title,mode,seconds,completed,started_at,ended_at) VALUES (?,?,?,?,?,?,?)`,
		nullable(s.TaskID), nullable(s.TaskTitle), s.Mode, s.Seconds, boolInt(s.Completed), s.StartedAt, s.EndedAt)
	return err
}

// ListFocusSessions returns the most recent sessions, newest first.
func (r Repo) ListFocusSessions(ctx context.Context, limit int) ([]FocusSession, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, COALESCE(task_id,''), COALESCE(task_title,''), mode, seconds, completed, started_at, ended_at
		 FROM focus_sessions ORDER BY started_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []FocusSession
	for rows.Next() {
		var s FocusSession
		var completed int
		if err := rows.Scan(&s.ID, &s.TaskID, &s.TaskTitle, &s.Mode, &s.Seconds, &completed, &s.StartedAt, &s.EndedAt); err != nil {
			return nil, err
		}
		s.Completed = completed != 0
		res = append(res, s)
	}
	return res, rows.Err()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Package timer implements the focus/break countdown state machine. The
// timer never ticks itself; the owner calls Tick once per second while the
// timer reports Running.
package timer

import (
	"fmt"

	"dayflow/internal/domain"
)

type Mode int

const (
	Focus Mode = iota
	Break
)

func (m Mode) String() string {
	if m == Break {
		return "break"
	}
	return "focus"
}

const (
	// MinSeconds is the floor for a configured duration.
	MinSeconds = 60
	// DefaultFocusSeconds applies when no task estimate is bound.
	DefaultFocusSeconds = 10 * 60
	// DefaultBreakSeconds is the rest interval.
	DefaultBreakSeconds = 5 * 60
)

// Config sets the initial durations and the continuation policy.
type Config struct {
	FocusSeconds int
	BreakSeconds int
	// AutoContinue keeps the timer running across a mode flip. Off by
	// default: the countdown stops at each transition and waits for Toggle.
	AutoContinue bool
}

type Timer struct {
	mode         Mode
	remaining    int
	configured   int // current mode's configured duration
	focusSeconds int // duration Focus resets to
	breakSeconds int
	autoContinue bool
	running      bool
	taskID       string
	taskTitle    string
}

// New creates a stopped timer in Focus mode.
func New(cfg Config) *Timer {
	focus := cfg.FocusSeconds
	if focus < MinSeconds {
		focus = DefaultFocusSeconds
	}
	brk := cfg.BreakSeconds
	if brk < MinSeconds {
		brk = DefaultBreakSeconds
	}
	return &Timer{
		mode:         Focus,
		remaining:    focus,
		configured:   focus,
		focusSeconds: focus,
		breakSeconds: brk,
		autoContinue: cfg.AutoContinue,
	}
}

// Start begins a focus session. A non-nil task binds it for display and
// sets the focus duration from its estimate (minutes), falling back to the
// default. Starting from Break without a task resets to the focus duration.
func (t *Timer) Start(task *domain.Task) {
	if task != nil {
		t.taskID = task.ID
		t.taskTitle = task.Title
		secs := task.EstimateMinutes() * 60
		if secs < MinSeconds {
			secs = DefaultFocusSeconds
		}
		t.focusSeconds = secs
		t.configured = secs
		t.remaining = secs
	} else if t.mode == Break {
		t.configured = t.focusSeconds
		t.remaining = t.focusSeconds
	}
	t.mode = Focus
	t.running = true
}

// Toggle flips running without touching the remaining time.
func (t *Timer) Toggle() {
	t.running = !t.running
}

// Reset stops the countdown and returns to a full Focus interval.
func (t *Timer) Reset() {
	t.running = false
	t.mode = Focus
	t.configured = t.focusSeconds
	t.remaining = t.focusSeconds
}

// Adjust changes the configured duration by deltaMinutes, floored at one
// minute. When stopped, the remaining time follows the new duration.
func (t *Timer) Adjust(deltaMinutes int) {
	next := t.configured + deltaMinutes*60
	if next < MinSeconds {
		next = MinSeconds
	}
	t.configured = next
	if t.mode == Focus {
		t.focusSeconds = next
	}
	if !t.running {
		t.remaining = next
	}
	if t.remaining > t.configured {
		t.remaining = t.configured
	}
}

// SetCustom sets an absolute duration and resets the remaining time to it.
func (t *Timer) SetCustom(minutes int) {
	secs := minutes * 60
	if secs < MinSeconds {
		secs = MinSeconds
	}
	t.configured = secs
	if t.mode == Focus {
		t.focusSeconds = secs
	}
	t.remaining = secs
}

// Extend adds minutes to both the configured and remaining time without
// touching the run state, so it works mid-countdown.
func (t *Timer) Extend(minutes int) {
	t.configured += minutes * 60
	t.remaining += minutes * 60
}

// Tick advances the countdown by one second. Reaching zero flips the mode,
// resets the remaining time to the new mode's duration, and stops unless
// auto-continue is on. Returns true when a mode flip happened.
func (t *Timer) Tick() bool {
	if !t.running || t.remaining <= 0 {
		return false
	}
	t.remaining--
	if t.remaining > 0 {
		return false
	}
	t.running = t.autoContinue
	if t.mode == Focus {
		t.mode = Break
		t.configured = t.breakSeconds
	} else {
		t.mode = Focus
		t.configured = t.focusSeconds
	}
	t.remaining = t.configured
	return true
}

// Progress is the elapsed fraction of the current interval, clamped to
// [0,1]. A zero configured duration counts as no progress.
func (t *Timer) Progress() float64 {
	if t.configured <= 0 {
		return 0
	}
	p := float64(t.configured-t.remaining) / float64(t.configured)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

func (t *Timer) Mode() Mode      { return t.mode }
func (t *Timer) Running() bool   { return t.running }
func (t *Timer) Remaining() int  { return t.remaining }
func (t *Timer) Configured() int { return t.configured }
func (t *Timer) TaskID() string  { return t.taskID }
func (t *Timer) TaskTitle() string { return t.taskTitle }

// FormatMMSS renders seconds as zero-padded MM:SS.
func FormatMMSS(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

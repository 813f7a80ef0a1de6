// Package ui renders the focus timer as a terminal interface. The timer
// state machine lives in internal/timer; this package only drives it with a
// once-per-second tick and draws it.
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"dayflow/internal/domain"
	"dayflow/internal/repo"
	"dayflow/internal/timer"
)

var (
	colorFocus = lipgloss.Color("39")
	colorBreak = lipgloss.Color("35")
	colorMuted = lipgloss.Color("241")

	titleStyle = lipgloss.NewStyle().Bold(true)
	clockStyle = lipgloss.NewStyle().Bold(true).Padding(1, 0)
	helpStyle  = lipgloss.NewStyle().Foreground(colorMuted)
)

// Recorder receives finished (or abandoned) intervals for local history.
type Recorder func(s repo.FocusSession)

// FocusOptions configures a focus run.
type FocusOptions struct {
	Timer *timer.Timer
	// Tasks populates the picker shown when no task is bound.
	Tasks []domain.Task
	// Task, when set, binds immediately and starts the countdown.
	Task *domain.Task
	// Minutes overrides the session duration. It applies after a task
	// binds, so it wins over the task estimate.
	Minutes int
	Record  Recorder
}

// customPresets mirror the quick duration buttons, bound to keys 1-6.
var customPresets = []int{10, 15, 25, 30, 45, 60}

type taskItem struct {
	task domain.Task
}

func (i taskItem) Title() string { return i.task.Title }

func (i taskItem) Description() string {
	if est := i.task.EstimateMinutes(); est > 0 {
		return fmt.Sprintf("%d minutes", est)
	}
	return "no estimate"
}

func (i taskItem) FilterValue() string { return i.task.Title }

type tickMsg time.Time

type focusModel struct {
	timer   *timer.Timer
	picker  list.Model
	record  Recorder
	minutes int

	picking       bool
	ticking       bool
	intervalStart time.Time
	winW          int
}

func newFocusModel(opts FocusOptions) *focusModel {
	items := make([]list.Item, 0, len(opts.Tasks))
	for _, t := range opts.Tasks {
		if !t.IsDone {
			items = append(items, taskItem{task: t})
		}
	}
	picker := list.New(items, list.NewDefaultDelegate(), 0, 0)
	picker.Title = "Choose a task to focus on"
	picker.SetShowStatusBar(false)
	picker.SetShowHelp(false)

	m := &focusModel{
		timer:   opts.Timer,
		picker:  picker,
		record:  opts.Record,
		minutes: opts.Minutes,
		picking: opts.Task == nil && len(items) > 0,
	}
	if opts.Task != nil {
		m.startTimer(opts.Task)
	}
	return m
}

// startTimer binds and starts the countdown, applying the duration
// override after the task estimate so the override wins.
func (m *focusModel) startTimer(task *domain.Task) {
	m.timer.Start(task)
	if m.minutes > 0 {
		m.timer.SetCustom(m.minutes)
	}
	m.intervalStart = time.Now()
}

// RunFocus starts the focus TUI and blocks until the user quits.
func RunFocus(ctx context.Context, opts FocusOptions) error {
	program := tea.NewProgram(newFocusModel(opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

func (m *focusModel) Init() tea.Cmd {
	if m.timer.Running() {
		return m.scheduleTick()
	}
	return nil
}

// scheduleTick queues exactly one tick; callers must only invoke it when no
// tick is pending.
func (m *focusModel) scheduleTick() tea.Cmd {
	m.ticking = true
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *focusModel) resumeTick() tea.Cmd {
	if m.timer.Running() && !m.ticking {
		return m.scheduleTick()
	}
	return nil
}

func (m *focusModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.winW = msg.Width
		m.picker.SetSize(msg.Width-4, msg.Height-6)
		return m, nil

	case tickMsg:
		m.ticking = false
		wasFocus := m.timer.Mode() == timer.Focus
		elapsedBefore := m.timer.Configured() - m.timer.Remaining()
		if m.timer.Tick() {
			m.recordInterval(wasFocus, elapsedBefore+1, true)
			m.intervalStart = time.Now()
		}
		return m, m.resumeTick()

	case tea.KeyMsg:
		if m.picking {
			return m.updatePicker(msg)
		}
		return m.updateTimer(msg)
	}
	return m, nil
}

func (m *focusModel) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "enter":
		if item, ok := m.picker.SelectedItem().(taskItem); ok {
			task := item.task
			m.startTimer(&task)
			m.picking = false
			return m, m.resumeTick()
		}
	case "s":
		m.startTimer(nil)
		m.picking = false
		return m, m.resumeTick()
	}
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	return m, cmd
}

func (m *focusModel) updateTimer(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.recordAbandoned()
		return m, tea.Quit
	case " ":
		if !m.timer.Running() && m.intervalStart.IsZero() {
			m.intervalStart = time.Now()
		}
		m.timer.Toggle()
		return m, m.resumeTick()
	case "r":
		m.recordAbandoned()
		m.timer.Reset()
		m.intervalStart = time.Time{}
		return m, nil
	case "+", "=":
		m.timer.Adjust(5)
		return m, nil
	case "-":
		m.timer.Adjust(-5)
		return m, nil
	case "e":
		m.timer.Extend(2)
		return m, nil
	case "1", "2", "3", "4", "5", "6":
		idx := int(msg.String()[0] - '1')
		m.timer.SetCustom(customPresets[idx])
		return m, nil
	}
	return m, nil
}

func (m *focusModel) recordInterval(wasFocus bool, seconds int, completed bool) {
	if m.record == nil || seconds <= 0 {
		return
	}
	mode := timer.Break.String()
	if wasFocus {
		mode = timer.Focus.String()
	}
	start := m.intervalStart
	if start.IsZero() {
		start = time.Now().Add(-time.Duration(seconds) * time.Second)
	}
	m.record(repo.FocusSession{
		TaskID:    m.timer.TaskID(),
		TaskTitle: m.timer.TaskTitle(),
		Mode:      mode,
		Seconds:   seconds,
		Completed: completed,
		StartedAt: start.UTC().Format(time.RFC3339),
		EndedAt:   time.Now().UTC().Format(time.RFC3339),
	})
}

// recordAbandoned logs whatever elapsed of the current interval.
func (m *focusModel) recordAbandoned() {
	elapsed := m.timer.Configured() - m.timer.Remaining()
	if elapsed > 0 {
		m.recordInterval(m.timer.Mode() == timer.Focus, elapsed, false)
	}
}

func (m *focusModel) View() string {
	if m.picking {
		quick := helpStyle.Render("enter: focus on task · s: quick 10min session · q: quit")
		return m.picker.View() + "\n" + quick
	}

	accent := colorFocus
	heading := "Focus Session"
	if m.timer.Mode() == timer.Break {
		accent = colorBreak
		heading = "Break Time"
	}
	var b strings.Builder
	b.WriteString(titleStyle.Foreground(accent).Render(heading))
	b.WriteString("\n")
	if m.timer.TaskTitle() != "" {
		b.WriteString(helpStyle.Render("Working on: " + m.timer.TaskTitle()))
		b.WriteString("\n")
	}
	b.WriteString(clockStyle.Foreground(accent).Render(timer.FormatMMSS(m.timer.Remaining())))
	b.WriteString("\n")
	b.WriteString(progressBar(m.timer.Progress(), barWidth(m.winW), accent))
	b.WriteString("\n")
	state := "paused"
	if m.timer.Running() {
		state = "running"
	}
	b.WriteString(helpStyle.Render(fmt.Sprintf("%s · %d min configured", state, m.timer.Configured()/60)))
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("space: start/pause · r: reset · +/-: adjust 5m · e: extend 2m · 1-6: presets · q: quit"))
	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

func barWidth(winW int) int {
	if winW <= 0 {
		return 40
	}
	w := winW - 8
	if w < 10 {
		w = 10
	}
	if w > 60 {
		w = 60
	}
	return w
}

func progressBar(progress float64, width int, accent lipgloss.Color) string {
	filled := int(progress * float64(width))
	if filled > width {
		filled = width
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return lipgloss.NewStyle().Foreground(accent).Render(bar)
}

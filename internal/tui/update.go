package tui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/studylit/internal/models"
	"github.com/julianstephens/studylit/internal/pomodoro"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.progress.Width = min(msg.Width-8, 60)

	case EventMsg:
		m.handleEvent(pomodoro.Event(msg))
		return m, waitForEvent(m.events)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) handleEvent(ev pomodoro.Event) {
	m.snap = m.engine.Snapshot()

	switch ev.Kind {
	case pomodoro.EventPhaseChanged:
		if ev.State.Phase == models.PhaseBreak {
			m.setStatus("WORK done. Take a break.", false)
		} else {
			m.setStatus("Break over. Back to work.", false)
		}
	case pomodoro.EventSaved:
		m.setStatus("Study session saved.", false)
	case pomodoro.EventSaveFailed:
		m.setStatus(ev.Err.Error(), true)
	case pomodoro.EventSaveSkipped:
		m.setStatus("Not logged in, study session not saved.", true)
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Tab):
		m.state = (m.state + 1) % 2

	case key.Matches(msg, m.keys.Toggle):
		if m.snap.State.Running {
			m.engine.Pause()
			m.setStatus("Paused.", false)
		} else if err := m.engine.Start(); err != nil {
			m.setStatus(err.Error(), true)
		} else {
			m.setStatus("", false)
		}

	case key.Matches(msg, m.keys.Reset):
		m.engine.Reset()
		m.setStatus("Timer reset.", false)

	case key.Matches(msg, m.keys.WorkUp):
		m.adjust(m.engine.SetWorkDuration, m.snap.Config.WorkMinutes+1)
	case key.Matches(msg, m.keys.WorkDown):
		m.adjust(m.engine.SetWorkDuration, m.snap.Config.WorkMinutes-1)
	case key.Matches(msg, m.keys.BreakUp):
		m.adjust(m.engine.SetBreakDuration, m.snap.Config.BreakMinutes+1)
	case key.Matches(msg, m.keys.BreakDown):
		m.adjust(m.engine.SetBreakDuration, m.snap.Config.BreakMinutes-1)

	case key.Matches(msg, m.keys.History):
		m.state = StateHistory
		m.engine.LoadHistory()
	}

	m.snap = m.engine.Snapshot()
	return m, nil
}

func (m *Model) adjust(set func(int) error, minutes int) {
	err := set(minutes)
	switch {
	case errors.Is(err, pomodoro.ErrRunning):
		m.setStatus("Pause the timer to change durations.", true)
	case errors.Is(err, pomodoro.ErrInvalidDuration):
		m.setStatus(fmt.Sprintf("%d is not a valid duration.", minutes), true)
	case err != nil:
		m.setStatus(err.Error(), true)
	default:
		m.setStatus("", false)
	}
}

package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/studylit/internal/logger"
	"github.com/julianstephens/studylit/internal/pomodoro"
)

type SessionState int

const (
	StateTimer SessionState = iota
	StateHistory
)

// EventMsg carries an engine event into the bubbletea loop.
type EventMsg pomodoro.Event

// Forward returns a notify callback that feeds events into ch. Events are
// dropped when ch is full; the model re-reads the snapshot on the next one.
func Forward(ch chan<- pomodoro.Event) func(pomodoro.Event) {
	return func(ev pomodoro.Event) {
		select {
		case ch <- ev:
		default:
			logger.Debug("TUI event dropped", "kind", ev.Kind)
		}
	}
}

func waitForEvent(ch <-chan pomodoro.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return EventMsg(ev)
	}
}

type Model struct {
	engine   *pomodoro.Engine
	events   <-chan pomodoro.Event
	snap     pomodoro.Snapshot
	state    SessionState
	keys     KeyMap
	help     help.Model
	progress progress.Model
	status   string
	isError  bool
	quitting bool
	width    int
	height   int
}

func NewModel(engine *pomodoro.Engine, events <-chan pomodoro.Event) Model {
	return Model{
		engine:   engine,
		events:   events,
		snap:     engine.Snapshot(),
		state:    StateTimer,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		progress: progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForEvent(m.events), m.loadHistory())
}

func (m Model) loadHistory() tea.Cmd {
	engine := m.engine
	return func() tea.Msg {
		engine.LoadHistory()
		return nil
	}
}

// percent is the elapsed share of the current phase.
func (m Model) percent() float64 {
	total := m.snap.Config.DurationSeconds(m.snap.State.Phase)
	if total <= 0 {
		return 0
	}
	return 1 - float64(m.snap.State.RemainingSeconds)/float64(total)
}

func (m *Model) setStatus(msg string, isError bool) {
	m.status = msg
	m.isError = isError
}

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/studylit/internal/constants"
	"github.com/julianstephens/studylit/internal/models"
	"github.com/julianstephens/studylit/internal/pomodoro"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateTimer:
		content = m.viewTimer()
	case StateHistory:
		content = m.viewHistory()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		content,
		m.viewStatus(),
		m.help.View(m.keys),
	)
}

func (m Model) viewTabs() string {
	var tabs []string
	for i, title := range []string{"Timer", "History"} {
		if m.state == SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewTimer() string {
	state := m.snap.State

	title := workPhaseStyle.Render("WORK")
	if state.Phase == models.PhaseBreak {
		title = breakPhaseStyle.Render("BREAK")
	}

	running := "paused"
	if state.Running {
		running = "running"
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		title,
		clockStyle.Render(pomodoro.FormatClock(state.RemainingSeconds)),
		"",
		m.progress.ViewAs(m.percent()),
		"",
		mutedStyle.Render(fmt.Sprintf("%s · work %dm · break %dm",
			running, m.snap.Config.WorkMinutes, m.snap.Config.BreakMinutes)),
	)

	if m.width > 0 && m.height > 6 {
		return lipgloss.Place(m.width, m.height-6, lipgloss.Center, lipgloss.Center, content)
	}
	return docStyle.Render(content)
}

func (m Model) viewHistory() string {
	h := m.snap.History

	var b strings.Builder
	switch h.Status {
	case pomodoro.HistoryIdle, pomodoro.HistoryLoading:
		if len(h.Groups) == 0 {
			b.WriteString(mutedStyle.Render("Loading history..."))
			return docStyle.Render(b.String())
		}
	case pomodoro.HistoryUnauthenticated:
		b.WriteString(warningStyle.Render("Log in to see your study history."))
		return docStyle.Render(b.String())
	case pomodoro.HistoryError:
		b.WriteString(dangerStyle.Render(h.Err.Error()))
		return docStyle.Render(b.String())
	}

	if len(h.Groups) == 0 {
		b.WriteString(mutedStyle.Render("No study sessions yet."))
		return docStyle.Render(b.String())
	}

	for _, g := range h.Groups {
		b.WriteString(dayStyle.Render(fmt.Sprintf("%s  (%d min)", g.Label, g.TotalWorkMinutes())))
		b.WriteString("\n")
		for _, r := range g.Records {
			fmt.Fprintf(&b, "  %s  %d min work / %d min break\n",
				r.RecordDate.In(g.Date.Location()).Format(constants.TimeFormat),
				r.WorkMinutes, r.BreakMinutes)
		}
	}
	return docStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func (m Model) viewStatus() string {
	var lines []string
	if m.snap.SaveErr != nil && !m.isError {
		lines = append(lines, dangerStyle.Render(m.snap.SaveErr.Error()))
	}
	if m.status != "" {
		if m.isError {
			lines = append(lines, warningStyle.Render(m.status))
		} else {
			lines = append(lines, mutedStyle.Render(m.status))
		}
	}
	return strings.Join(lines, "\n")
}

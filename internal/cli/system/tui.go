package system

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/studylit/internal/cli"
	"github.com/julianstephens/studylit/internal/pomodoro"
	"github.com/julianstephens/studylit/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	if err := ctx.LoadStore(); err != nil {
		return err
	}

	events := make(chan pomodoro.Event, 64)
	engine := ctx.NewEngine(pomodoro.WithNotify(tui.Forward(events)))
	defer engine.Close()

	p := tea.NewProgram(tui.NewModel(engine, events), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui exited with error: %w", err)
	}
	return nil
}

package models

import "fmt"

// Phase is one of the two alternating countdown intervals
type Phase string

const (
	PhaseWork  Phase = "work"
	PhaseBreak Phase = "break"
)

func (p Phase) String() string {
	return string(p)
}

// SessionConfig holds the user-adjustable phase lengths in minutes.
type SessionConfig struct {
	WorkMinutes  int `json:"work_minutes"`
	BreakMinutes int `json:"break_minutes"`
}

// DurationSeconds returns the full length of phase p.
func (c SessionConfig) DurationSeconds(p Phase) int {
	if p == PhaseBreak {
		return c.BreakMinutes * 60
	}
	return c.WorkMinutes * 60
}

// Valid reports whether both durations are positive.
func (c SessionConfig) Valid() bool {
	return c.WorkMinutes > 0 && c.BreakMinutes > 0
}

// TimerState is the runtime state of a single pomodoro engine.
type TimerState struct {
	Phase            Phase `json:"phase"`
	RemainingSeconds int   `json:"remaining_seconds"`
	Running          bool  `json:"running"`
}

func (s TimerState) String() string {
	state := "paused"
	if s.Running {
		state = "running"
	}
	return fmt.Sprintf("%s %02d:%02d (%s)", s.Phase, s.RemainingSeconds/60, s.RemainingSeconds%60, state)
}

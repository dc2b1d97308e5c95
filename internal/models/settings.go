package models

import "github.com/julianstephens/studylit/internal/constants"

// Settings represents persisted application-wide defaults
type Settings struct {
	WorkMinutes  int                `json:"work_minutes"`  // default WORK phase length
	BreakMinutes int                `json:"break_minutes"` // default BREAK phase length
	Labels       constants.LabelSet `json:"labels"`        // history header language, "en" or "tr"
}

// DefaultSettings returns the settings written by a fresh init.
func DefaultSettings() Settings {
	return Settings{
		WorkMinutes:  constants.DefaultWorkMinutes,
		BreakMinutes: constants.DefaultBreakMinutes,
		Labels:       constants.DefaultLabels,
	}
}

// SessionConfig returns the phase durations carried by the settings.
func (s Settings) SessionConfig() SessionConfig {
	return SessionConfig{WorkMinutes: s.WorkMinutes, BreakMinutes: s.BreakMinutes}
}

package pomodoro

import "github.com/julianstephens/studylit/internal/models"

// EventKind identifies what changed in the engine.
type EventKind int

const (
	EventTick EventKind = iota
	EventStarted
	EventPaused
	EventReset
	EventConfigChanged
	EventPhaseChanged
	EventSaved
	EventSaveFailed
	EventSaveSkipped
	EventHistory
)

var eventNames = map[EventKind]string{
	EventTick:          "tick",
	EventStarted:       "started",
	EventPaused:        "paused",
	EventReset:         "reset",
	EventConfigChanged: "config_changed",
	EventPhaseChanged:  "phase_changed",
	EventSaved:         "saved",
	EventSaveFailed:    "save_failed",
	EventSaveSkipped:   "save_skipped",
	EventHistory:       "history",
}

func (k EventKind) String() string {
	if name, ok := eventNames[k]; ok {
		return name
	}
	return "unknown"
}

// Event is delivered to the WithNotify callback after the engine lock is released.
type Event struct {
	Kind  EventKind
	State models.TimerState

	// Set for EventSaved.
	RecordID string
	// Set for EventSaveFailed and for EventHistory in the error state.
	Err error
	// Set for EventHistory.
	History HistoryView
}

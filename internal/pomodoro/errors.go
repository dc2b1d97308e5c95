package pomodoro

import (
	"errors"
	"fmt"

	"github.com/julianstephens/studylit/internal/constants"
	"github.com/julianstephens/studylit/internal/models"
)

type noUserError struct{}

func (noUserError) Error() string { return "no user is logged in" }
func (noUserError) Hint() string {
	return "store a session token with '" + constants.AppName + " session set' or pass --user"
}

var (
	// ErrNoUser is returned by Start when no current user resolves.
	ErrNoUser error = noUserError{}

	// ErrInvalidDuration rejects non-positive phase lengths.
	ErrInvalidDuration = errors.New("duration must be a positive number of minutes")

	// ErrRunning rejects duration changes while the timer counts down.
	ErrRunning = errors.New("pause the timer before changing durations")

	// ErrClosed is returned by Start after Close.
	ErrClosed = errors.New("timer engine is closed")
)

// PersistenceError reports a completed WORK phase whose record could not be saved.
// The phase transition has already happened.
type PersistenceError struct {
	Record models.NewStudyRecord
	Err    error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to save %d-minute study record: %v", e.Record.WorkMinutes, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// HistoryLoadError reports a failed history fetch.
type HistoryLoadError struct {
	UserID int64
	Err    error
}

func (e *HistoryLoadError) Error() string {
	return fmt.Sprintf("failed to load history for user %d: %v", e.UserID, e.Err)
}

func (e *HistoryLoadError) Unwrap() error {
	return e.Err
}

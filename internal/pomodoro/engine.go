// Package pomodoro runs the WORK/BREAK countdown, records every completed
// WORK phase to a record store and keeps a day-grouped view of the user's
// study history.
package pomodoro

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/julianstephens/studylit/internal/constants"
	"github.com/julianstephens/studylit/internal/logger"
	"github.com/julianstephens/studylit/internal/models"
	"github.com/julianstephens/studylit/internal/session"
	"github.com/julianstephens/studylit/internal/storage"
)

const tickInterval = time.Second

// Engine owns one timer. All methods are safe for concurrent use.
type Engine struct {
	users   session.Provider
	store   storage.RecordStore
	clock   Clock
	loc     *time.Location
	labels  Labels
	notify  func(Event)
	timeout time.Duration

	mu       sync.Mutex
	cfg      models.SessionConfig
	state    models.TimerState
	tickGen  uint64
	stopTick func()
	closed   bool

	// saveSeq numbers saves in submission order. saveErrSeq is the save that set saveErr.
	saveSeq    uint64
	saveErrSeq uint64
	saveErr    error

	history    HistoryView
	historyReq uint64

	wg sync.WaitGroup
}

// Option configures an Engine.
type Option func(*Engine)

func WithClock(c Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithConfig sets the initial phase lengths. Invalid configs are ignored.
func WithConfig(cfg models.SessionConfig) Option {
	return func(e *Engine) {
		if !cfg.Valid() {
			logger.Warn("Ignoring invalid session config", "work", cfg.WorkMinutes, "break", cfg.BreakMinutes)
			return
		}
		e.cfg = cfg
	}
}

// WithLocation sets the time zone history days are cut in.
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) {
		if loc != nil {
			e.loc = loc
		}
	}
}

func WithLabels(l Labels) Option {
	return func(e *Engine) { e.labels = l }
}

// WithNotify registers fn to receive every Event. fn runs on the goroutine
// that caused the event, outside the engine lock.
func WithNotify(fn func(Event)) Option {
	return func(e *Engine) { e.notify = fn }
}

// WithTimeout bounds each store call.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// New returns a paused engine at the start of a WORK phase.
func New(users session.Provider, store storage.RecordStore, opts ...Option) *Engine {
	e := &Engine{
		users:   users,
		store:   store,
		clock:   SystemClock{},
		loc:     time.Local,
		labels:  EnglishLabels,
		timeout: constants.DefaultPersistTimeout,
		cfg:     models.DefaultSettings().SessionConfig(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.users == nil {
		e.users = session.Anonymous{}
	}
	e.state = models.TimerState{Phase: models.PhaseWork, RemainingSeconds: e.cfg.WorkMinutes * 60}
	return e
}

// Snapshot is a consistent copy of the engine's observable state.
type Snapshot struct {
	State   models.TimerState
	Config  models.SessionConfig
	SaveErr error
	History HistoryView
}

func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Snapshot{
		State:   e.state,
		Config:  e.cfg,
		SaveErr: e.saveErr,
		History: e.history,
	}
}

// Start begins or resumes the countdown. Calling Start while running does nothing.
func (e *Engine) Start() error {
	if _, ok := e.users.Resolve(); !ok {
		return ErrNoUser
	}

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	if e.state.Running {
		e.mu.Unlock()
		return nil
	}
	if e.state.RemainingSeconds == 0 {
		e.state.RemainingSeconds = e.cfg.DurationSeconds(e.state.Phase)
	}
	e.state.Running = true
	e.arm()
	ev := Event{Kind: EventStarted, State: e.state}
	e.mu.Unlock()

	logger.Debug("Timer started", "state", ev.State)
	e.emit(ev)
	return nil
}

// Pause stops the countdown, keeping the remaining time.
func (e *Engine) Pause() {
	e.mu.Lock()
	if !e.state.Running {
		e.mu.Unlock()
		return
	}
	e.disarm()
	e.state.Running = false
	ev := Event{Kind: EventPaused, State: e.state}
	e.mu.Unlock()

	logger.Debug("Timer paused", "state", ev.State)
	e.emit(ev)
}

// Reset stops the timer and returns to a full WORK phase. Saved records are kept.
func (e *Engine) Reset() {
	e.mu.Lock()
	e.disarm()
	e.state = models.TimerState{Phase: models.PhaseWork, RemainingSeconds: e.cfg.WorkMinutes * 60}
	e.saveErr = nil
	ev := Event{Kind: EventReset, State: e.state}
	e.mu.Unlock()

	logger.Debug("Timer reset", "state", ev.State)
	e.emit(ev)
}

func (e *Engine) SetWorkDuration(minutes int) error {
	return e.setDuration(models.PhaseWork, minutes)
}

func (e *Engine) SetBreakDuration(minutes int) error {
	return e.setDuration(models.PhaseBreak, minutes)
}

func (e *Engine) setDuration(phase models.Phase, minutes int) error {
	if minutes <= 0 {
		return fmt.Errorf("%w: %s %d", ErrInvalidDuration, phase, minutes)
	}

	e.mu.Lock()
	if e.state.Running {
		e.mu.Unlock()
		return ErrRunning
	}
	if phase == models.PhaseWork {
		e.cfg.WorkMinutes = minutes
	} else {
		e.cfg.BreakMinutes = minutes
	}
	if e.state.Phase == phase {
		e.state.RemainingSeconds = minutes * 60
	}
	ev := Event{Kind: EventConfigChanged, State: e.state}
	e.mu.Unlock()

	e.emit(ev)
	return nil
}

// Tick advances the countdown by one second. Ticks while paused are ignored.
// Tick is for front ends that drive the engine from their own tick loop with
// a Clock whose Every never fires; the armed tick source calls the same code
// path, so using both counts each second twice.
func (e *Engine) Tick() {
	e.mu.Lock()
	events := e.tickLocked()
	e.mu.Unlock()
	e.emit(events...)
}

// arm starts a new tick source. Callers hold e.mu.
func (e *Engine) arm() {
	e.disarm()
	e.tickGen++
	gen := e.tickGen
	e.stopTick = e.clock.Every(tickInterval, func() { e.tickFrom(gen) })
}

// disarm stops the tick source. Callers hold e.mu.
func (e *Engine) disarm() {
	if e.stopTick != nil {
		e.stopTick()
		e.stopTick = nil
	}
	e.tickGen++
}

func (e *Engine) tickFrom(gen uint64) {
	e.mu.Lock()
	if gen != e.tickGen {
		e.mu.Unlock()
		return
	}
	events := e.tickLocked()
	e.mu.Unlock()
	e.emit(events...)
}

func (e *Engine) tickLocked() []Event {
	if !e.state.Running || e.state.RemainingSeconds <= 0 {
		return nil
	}
	e.state.RemainingSeconds--
	if e.state.RemainingSeconds > 0 {
		return []Event{{Kind: EventTick, State: e.state}}
	}
	return e.completePhaseLocked()
}

// completePhaseLocked switches phase and keeps the timer running.
func (e *Engine) completePhaseLocked() []Event {
	var events []Event

	finished := e.state.Phase
	if finished == models.PhaseWork {
		events = append(events, e.submitSaveLocked()...)
		e.state.Phase = models.PhaseBreak
	} else {
		e.state.Phase = models.PhaseWork
	}
	e.state.RemainingSeconds = e.cfg.DurationSeconds(e.state.Phase)

	logger.Debug("Phase complete", "finished", finished, "next", e.state.Phase)
	events = append(events, Event{Kind: EventPhaseChanged, State: e.state})
	return events
}

// submitSaveLocked captures the finished WORK phase and saves it in the background.
func (e *Engine) submitSaveLocked() []Event {
	if e.closed {
		logger.Warn("Engine closed, study record not saved", "work_minutes", e.cfg.WorkMinutes)
		return []Event{{Kind: EventSaveSkipped, State: e.state, Err: ErrClosed}}
	}
	userID, ok := e.users.Resolve()
	if !ok {
		logger.Warn("No current user, study record not saved", "work_minutes", e.cfg.WorkMinutes)
		return []Event{{Kind: EventSaveSkipped, State: e.state, Err: ErrNoUser}}
	}

	rec := models.NewStudyRecord{
		UserID:       userID,
		WorkMinutes:  e.cfg.WorkMinutes,
		BreakMinutes: e.cfg.BreakMinutes,
		RecordDate:   e.clock.Now().UTC().Truncate(storage.RecordDatePrecision),
	}
	e.saveSeq++
	e.wg.Add(1)
	go e.save(e.saveSeq, rec)
	return nil
}

func (e *Engine) save(seq uint64, rec models.NewStudyRecord) {
	defer e.wg.Done()

	ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
	defer cancel()

	id, err := e.store.Create(ctx, rec)
	if err != nil {
		perr := &PersistenceError{Record: rec, Err: err}
		logger.Warn("Failed to save study record", "user", rec.UserID, "work_minutes", rec.WorkMinutes, "error", err)

		e.mu.Lock()
		if seq > e.saveErrSeq {
			e.saveErr = perr
			e.saveErrSeq = seq
		}
		ev := Event{Kind: EventSaveFailed, State: e.state, Err: perr}
		e.mu.Unlock()

		e.emit(ev)
		return
	}

	logger.Info("Study record saved", "id", id, "user", rec.UserID, "work_minutes", rec.WorkMinutes)
	e.mu.Lock()
	if seq > e.saveErrSeq {
		e.saveErr = nil
	}
	ev := Event{Kind: EventSaved, State: e.state, RecordID: id}
	e.mu.Unlock()

	e.emit(ev)
	e.LoadHistory()
}

// Wait blocks until every in-flight save and history load has finished.
func (e *Engine) Wait() {
	e.wg.Wait()
}

// Close stops the timer, refuses new background work and waits for the
// work already in flight.
func (e *Engine) Close() {
	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()

	e.Pause()
	e.Wait()
}

func (e *Engine) emit(events ...Event) {
	if e.notify == nil {
		return
	}
	for _, ev := range events {
		e.notify(ev)
	}
}

// FormatClock renders seconds as mm:ss.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

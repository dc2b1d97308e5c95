package pomodoro

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/julianstephens/studylit/internal/models"
)

// fakeClock fires registered tick sources only when Advance is called.
type fakeClock struct {
	mu      sync.Mutex
	now     time.Time
	tickers []*fakeTicker
}

type fakeTicker struct {
	fn      func()
	stopped bool
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Every(_ time.Duration, fn func()) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTicker{fn: fn}
	c.tickers = append(c.tickers, t)
	return func() {
		c.mu.Lock()
		t.stopped = true
		c.mu.Unlock()
	}
}

// Advance moves time forward one second at a time, firing live tick sources.
func (c *fakeClock) Advance(seconds int) {
	for i := 0; i < seconds; i++ {
		c.mu.Lock()
		c.now = c.now.Add(time.Second)
		var live []*fakeTicker
		for _, t := range c.tickers {
			if !t.stopped {
				live = append(live, t)
			}
		}
		c.mu.Unlock()

		for _, t := range live {
			t.fn()
		}
	}
}

func (c *fakeClock) active() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.tickers {
		if !t.stopped {
			n++
		}
	}
	return n
}

// ticker returns the i-th tick source ever registered, stopped or not.
func (c *fakeClock) ticker(i int) *fakeTicker {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tickers[i]
}

// fakeStore is an in-memory RecordStore. ListByUser call n blocks on gates[n]
// when set and returns results[n] when set. Create call n blocks on
// createGates[n] and fails with createErrs[n] the same way.
type fakeStore struct {
	mu        sync.Mutex
	records   []models.StudyRecord
	created   []models.NewStudyRecord
	createErr error
	listErr   error
	listCalls int

	gates   []chan struct{}
	started chan int
	results [][]models.StudyRecord

	createCalls   int
	createGates   []chan struct{}
	createErrs    []error
	createStarted chan int
}

func (s *fakeStore) Create(ctx context.Context, rec models.NewStudyRecord) (string, error) {
	s.mu.Lock()
	n := s.createCalls
	s.createCalls++
	var gate chan struct{}
	if n < len(s.createGates) {
		gate = s.createGates[n]
	}
	err := s.createErr
	if n < len(s.createErrs) && s.createErrs[n] != nil {
		err = s.createErrs[n]
	}
	started := s.createStarted
	s.mu.Unlock()

	if started != nil {
		started <- n
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.created = append(s.created, rec)
	id := strconv.Itoa(len(s.created))
	s.records = append(s.records, models.StudyRecord{
		ID:           id,
		UserID:       rec.UserID,
		WorkMinutes:  rec.WorkMinutes,
		BreakMinutes: rec.BreakMinutes,
		RecordDate:   rec.RecordDate,
	})
	return id, nil
}

func (s *fakeStore) ListByUser(ctx context.Context, userID int64) ([]models.StudyRecord, error) {
	s.mu.Lock()
	n := s.listCalls
	s.listCalls++
	var gate chan struct{}
	if n < len(s.gates) {
		gate = s.gates[n]
	}
	var out []models.StudyRecord
	if n < len(s.results) {
		out = s.results[n]
	} else {
		for _, r := range s.records {
			if r.UserID == userID {
				out = append(out, r)
			}
		}
	}
	err := s.listErr
	started := s.started
	s.mu.Unlock()

	if started != nil {
		started <- n
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *fakeStore) createdRecords() []models.NewStudyRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.NewStudyRecord(nil), s.created...)
}

func (s *fakeStore) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listCalls
}

// switchUser resolves to a fixed id until logged out.
type switchUser struct {
	id       int64
	loggedIn atomic.Bool
}

func (u *switchUser) Resolve() (int64, bool) {
	if !u.loggedIn.Load() {
		return 0, false
	}
	return u.id, true
}

// eventLog records notifications from any goroutine.
type eventLog struct {
	mu     sync.Mutex
	events []Event
}

func (l *eventLog) record(ev Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, ev)
}

func (l *eventLog) count(kind EventKind) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, ev := range l.events {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}

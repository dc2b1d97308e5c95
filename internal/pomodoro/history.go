package pomodoro

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/julianstephens/studylit/internal/logger"
	"github.com/julianstephens/studylit/internal/models"
	"github.com/julianstephens/studylit/internal/storage"
)

// HistoryStatus is the load state of the history view.
type HistoryStatus int

const (
	HistoryIdle HistoryStatus = iota
	HistoryLoading
	HistoryLoaded
	HistoryError
	HistoryUnauthenticated
)

func (s HistoryStatus) String() string {
	switch s {
	case HistoryLoading:
		return "loading"
	case HistoryLoaded:
		return "loaded"
	case HistoryError:
		return "error"
	case HistoryUnauthenticated:
		return "unauthenticated"
	default:
		return "idle"
	}
}

// HistoryView is the read model for the grouped study history.
type HistoryView struct {
	Status HistoryStatus
	Groups []models.HistoryGroup
	Err    error
}

// Empty reports a successful load with no records.
func (v HistoryView) Empty() bool {
	return v.Status == HistoryLoaded && len(v.Groups) == 0
}

// GroupHistory buckets records by calendar day in loc, newest day and newest
// record first. The input slice is not modified.
func GroupHistory(records []models.StudyRecord, now time.Time, loc *time.Location, labels Labels) []models.HistoryGroup {
	if loc == nil {
		loc = time.Local
	}
	sorted := make([]models.StudyRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].RecordDate.Equal(sorted[j].RecordDate) {
			return sorted[i].ID > sorted[j].ID
		}
		return sorted[i].RecordDate.After(sorted[j].RecordDate)
	})

	today := midnight(now, loc)
	groups := []models.HistoryGroup{}
	for _, rec := range sorted {
		day := midnight(rec.RecordDate, loc)
		if n := len(groups); n > 0 && groups[n-1].Date.Equal(day) {
			groups[n-1].Records = append(groups[n-1].Records, rec)
			continue
		}
		groups = append(groups, models.HistoryGroup{
			Label:   labels.DayLabel(day, today),
			Date:    day,
			Records: []models.StudyRecord{rec},
		})
	}
	return groups
}

func midnight(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// LoadHistory refreshes the history view in the background. Only the result
// of the most recent call is kept.
func (e *Engine) LoadHistory() {
	userID, ok := e.users.Resolve()

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.historyReq++
	if !ok {
		e.history = HistoryView{Status: HistoryUnauthenticated}
		ev := Event{Kind: EventHistory, State: e.state, History: e.history}
		e.mu.Unlock()
		e.emit(ev)
		return
	}
	req := e.historyReq
	e.history.Status = HistoryLoading
	e.history.Err = nil
	e.wg.Add(1)
	e.mu.Unlock()

	go e.loadHistory(req, userID)
}

func (e *Engine) loadHistory(req uint64, userID int64) {
	defer e.wg.Done()

	ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
	defer cancel()

	records, err := e.store.ListByUser(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		records, err = nil, nil
	}

	var view HistoryView
	if err != nil {
		logger.Error("Failed to load study history", "user", userID, "error", err)
		view = HistoryView{Status: HistoryError, Err: &HistoryLoadError{UserID: userID, Err: err}}
	} else {
		view = HistoryView{
			Status: HistoryLoaded,
			Groups: GroupHistory(records, e.clock.Now(), e.loc, e.labels),
		}
	}

	e.mu.Lock()
	if req != e.historyReq {
		e.mu.Unlock()
		logger.Debug("Dropping stale history response", "request", req)
		return
	}
	e.history = view
	ev := Event{Kind: EventHistory, State: e.state, History: view, Err: view.Err}
	e.mu.Unlock()

	e.emit(ev)
}

package pomodoro

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/julianstephens/studylit/internal/constants"
	"github.com/julianstephens/studylit/internal/models"
	"github.com/julianstephens/studylit/internal/session"
	"github.com/julianstephens/studylit/internal/storage"
)

var historyNow = time.Date(2026, 10, 18, 15, 0, 0, 0, time.UTC)

func rec(id string, t time.Time) models.StudyRecord {
	return models.StudyRecord{ID: id, UserID: 42, WorkMinutes: 25, BreakMinutes: 5, RecordDate: t}
}

func groupLabels(groups []models.HistoryGroup) []string {
	labels := make([]string, len(groups))
	for i, g := range groups {
		labels[i] = g.Label
	}
	return labels
}

func TestGroupHistoryTodayYesterdayOlder(t *testing.T) {
	records := []models.StudyRecord{
		rec("old", historyNow.AddDate(0, 0, -10)),
		rec("today", historyNow.Add(-5*time.Hour)),
		rec("yesterday", historyNow.AddDate(0, 0, -1)),
	}

	groups := GroupHistory(records, historyNow, time.UTC, EnglishLabels)

	want := []string{"Today", "Yesterday", "8 October"}
	if got := groupLabels(groups); !reflect.DeepEqual(got, want) {
		t.Fatalf("labels = %v, want %v", got, want)
	}
	for i, id := range []string{"today", "yesterday", "old"} {
		if len(groups[i].Records) != 1 || groups[i].Records[0].ID != id {
			t.Errorf("group %d records = %+v, want [%s]", i, groups[i].Records, id)
		}
	}
}

func TestGroupHistoryTurkishLabels(t *testing.T) {
	records := []models.StudyRecord{
		rec("a", historyNow),
		rec("b", historyNow.AddDate(0, 0, -1)),
		rec("c", time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)),
	}

	groups := GroupHistory(records, historyNow, time.UTC, LabelsFor(constants.LabelsTurkish))

	want := []string{"Bugün", "Dün", "2 Ocak"}
	if got := groupLabels(groups); !reflect.DeepEqual(got, want) {
		t.Errorf("labels = %v, want %v", got, want)
	}
}

func TestGroupHistoryAddsYearForPastYears(t *testing.T) {
	records := []models.StudyRecord{rec("a", time.Date(2025, 12, 31, 12, 0, 0, 0, time.UTC))}

	groups := GroupHistory(records, historyNow, time.UTC, EnglishLabels)
	if len(groups) != 1 || groups[0].Label != "31 December 2025" {
		t.Errorf("labels = %v, want [31 December 2025]", groupLabels(groups))
	}
}

func TestGroupHistorySameDayNewestFirst(t *testing.T) {
	records := []models.StudyRecord{
		rec("morning", time.Date(2026, 10, 18, 8, 0, 0, 0, time.UTC)),
		rec("noon", time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)),
		rec("night", time.Date(2026, 10, 17, 23, 0, 0, 0, time.UTC)),
	}

	groups := GroupHistory(records, historyNow, time.UTC, EnglishLabels)
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	if groups[0].Records[0].ID != "noon" || groups[0].Records[1].ID != "morning" {
		t.Errorf("today order = %s, %s", groups[0].Records[0].ID, groups[0].Records[1].ID)
	}
	if got := groups[0].TotalWorkMinutes(); got != 50 {
		t.Errorf("TotalWorkMinutes() = %d, want 50", got)
	}
	if records[0].ID != "morning" {
		t.Error("GroupHistory reordered its input")
	}
}

func TestGroupHistoryUsesLocation(t *testing.T) {
	istanbul := time.FixedZone("TRT", 3*60*60)
	// 22:30 UTC on the 17th is 01:30 on the 18th in UTC+3.
	records := []models.StudyRecord{rec("late", time.Date(2026, 10, 17, 22, 30, 0, 0, time.UTC))}

	if got := GroupHistory(records, historyNow, time.UTC, EnglishLabels)[0].Label; got != "Yesterday" {
		t.Errorf("UTC label = %q, want Yesterday", got)
	}
	if got := GroupHistory(records, historyNow, istanbul, EnglishLabels)[0].Label; got != "Today" {
		t.Errorf("UTC+3 label = %q, want Today", got)
	}
}

func TestGroupHistoryEmpty(t *testing.T) {
	groups := GroupHistory(nil, historyNow, time.UTC, EnglishLabels)
	if groups == nil || len(groups) != 0 {
		t.Errorf("GroupHistory(nil) = %#v, want empty non-nil", groups)
	}
}

func TestLoadHistoryIdempotent(t *testing.T) {
	store := &fakeStore{records: []models.StudyRecord{
		rec("1", testStart.Add(-time.Hour)),
		rec("2", testStart.AddDate(0, 0, -3)),
	}}
	e, _ := newTestEngine(t, session.Static(42), store)

	e.LoadHistory()
	e.Wait()
	first := e.Snapshot().History

	e.LoadHistory()
	e.Wait()
	second := e.Snapshot().History

	if first.Status != HistoryLoaded {
		t.Fatalf("status = %v, want loaded", first.Status)
	}
	if !reflect.DeepEqual(first.Groups, second.Groups) {
		t.Errorf("groups differ between loads:\n%+v\n%+v", first.Groups, second.Groups)
	}
}

func TestLoadHistoryUnauthenticated(t *testing.T) {
	store := &fakeStore{}
	e, _ := newTestEngine(t, session.Anonymous{}, store)

	e.LoadHistory()
	e.Wait()

	h := e.Snapshot().History
	if h.Status != HistoryUnauthenticated || h.Err != nil || len(h.Groups) != 0 {
		t.Errorf("history = %+v, want unauthenticated without error", h)
	}
	if store.calls() != 0 {
		t.Errorf("store called %d times without a user", store.calls())
	}
}

func TestLoadHistoryErrorClearsGroups(t *testing.T) {
	store := &fakeStore{records: []models.StudyRecord{rec("1", testStart)}}
	e, _ := newTestEngine(t, session.Static(42), store)

	e.LoadHistory()
	e.Wait()
	if len(e.Snapshot().History.Groups) != 1 {
		t.Fatal("expected one group before the failure")
	}

	boom := errors.New("connection refused")
	store.mu.Lock()
	store.listErr = boom
	store.mu.Unlock()

	e.LoadHistory()
	e.Wait()

	h := e.Snapshot().History
	if h.Status != HistoryError {
		t.Fatalf("status = %v, want error", h.Status)
	}
	var lerr *HistoryLoadError
	if !errors.As(h.Err, &lerr) || lerr.UserID != 42 || !errors.Is(lerr, boom) {
		t.Errorf("Err = %v, want HistoryLoadError wrapping the store error", h.Err)
	}
	if len(h.Groups) != 0 {
		t.Errorf("groups kept after failure: %+v", h.Groups)
	}
}

func TestLoadHistoryNotFoundIsEmpty(t *testing.T) {
	store := &fakeStore{listErr: storage.ErrNotFound}
	e, _ := newTestEngine(t, session.Static(42), store)

	e.LoadHistory()
	e.Wait()

	h := e.Snapshot().History
	if !h.Empty() || h.Err != nil {
		t.Errorf("history = %+v, want loaded and empty", h)
	}
}

func TestLoadHistoryDropsStaleResponse(t *testing.T) {
	stale := rec("stale", testStart.AddDate(0, 0, -2))
	fresh := rec("fresh", testStart)
	store := &fakeStore{
		gates:   []chan struct{}{make(chan struct{}), make(chan struct{})},
		started: make(chan int, 2),
		results: [][]models.StudyRecord{{stale}, {fresh}},
	}
	loaded := make(chan HistoryView, 4)
	notify := func(ev Event) {
		if ev.Kind == EventHistory {
			loaded <- ev.History
		}
	}
	e, _ := newTestEngine(t, session.Static(42), store, WithNotify(notify))

	e.LoadHistory()
	<-store.started
	e.LoadHistory()
	<-store.started

	close(store.gates[1])
	view := <-loaded
	if view.Groups[0].Records[0].ID != "fresh" {
		t.Fatalf("first applied result = %+v, want fresh", view.Groups)
	}

	close(store.gates[0])
	e.Wait()

	h := e.Snapshot().History
	if len(h.Groups) != 1 || h.Groups[0].Records[0].ID != "fresh" {
		t.Errorf("stale response overwrote history: %+v", h.Groups)
	}
	if len(loaded) != 0 {
		t.Errorf("stale response was announced")
	}
}

func TestDayLabel(t *testing.T) {
	today := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		day    time.Time
		labels Labels
		want   string
	}{
		{today, EnglishLabels, "Today"},
		{today.AddDate(0, 0, -1), EnglishLabels, "Yesterday"},
		{today.AddDate(0, 0, -2), EnglishLabels, "16 October"},
		{today.AddDate(0, 0, -2), TurkishLabels, "16 Ekim"},
		{time.Date(2025, 8, 5, 0, 0, 0, 0, time.UTC), TurkishLabels, "5 Ağustos 2025"},
	}
	for _, tt := range tests {
		if got := tt.labels.DayLabel(tt.day, today); got != tt.want {
			t.Errorf("DayLabel(%s) = %q, want %q", tt.day.Format(constants.DateFormat), got, tt.want)
		}
	}
}

package models

import "time"

// StudyRecord is one completed WORK interval as kept by a record store.
type StudyRecord struct {
	ID           string    `json:"id"`
	UserID       int64     `json:"user_id"`
	WorkMinutes  int       `json:"work_minutes"`
	BreakMinutes int       `json:"break_minutes"`
	RecordDate   time.Time `json:"record_date"` // UTC
}

// NewStudyRecord carries the fields captured when a WORK phase completes.
// The store assigns the ID.
type NewStudyRecord struct {
	UserID       int64
	WorkMinutes  int
	BreakMinutes int
	RecordDate   time.Time
}

// HistoryGroup is one calendar day of study records, newest first.
type HistoryGroup struct {
	Label   string        `json:"label"`
	Date    time.Time     `json:"date"` // midnight of the day in the grouping location
	Records []StudyRecord `json:"records"`
}

// TotalWorkMinutes sums the WORK minutes of every record in the group.
func (g HistoryGroup) TotalWorkMinutes() int {
	total := 0
	for _, r := range g.Records {
		total += r.WorkMinutes
	}
	return total
}

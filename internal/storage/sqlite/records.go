package sqlite

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/julianstephens/studylit/internal/models"
	"github.com/julianstephens/studylit/internal/storage"
)

func (s *Store) Create(ctx context.Context, rec models.NewStudyRecord) (string, error) {
	if s.db == nil {
		return "", storage.ErrNotLoaded
	}
	if err := storage.ValidateNewRecord(rec); err != nil {
		return "", err
	}

	id := uuid.New().String()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO study_records (id, user_id, work_minutes, break_minutes, record_date)
		VALUES (?, ?, ?, ?, ?)`,
		id, rec.UserID, rec.WorkMinutes, rec.BreakMinutes, storage.FormatRecordDate(rec.RecordDate),
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert study record: %w", err)
	}
	return id, nil
}

func (s *Store) ListByUser(ctx context.Context, userID int64) ([]models.StudyRecord, error) {
	if s.db == nil {
		return nil, storage.ErrNotLoaded
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, work_minutes, break_minutes, record_date
		FROM study_records WHERE user_id = ?
		ORDER BY record_date DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query study records: %w", err)
	}
	defer rows.Close()

	records := []models.StudyRecord{}
	for rows.Next() {
		var r models.StudyRecord
		var recordDate string
		if err := rows.Scan(&r.ID, &r.UserID, &r.WorkMinutes, &r.BreakMinutes, &recordDate); err != nil {
			return nil, err
		}
		if r.RecordDate, err = storage.ParseRecordDate(recordDate); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

package storage

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/studylit/internal/constants"
	"github.com/julianstephens/studylit/internal/models"
)

var (
	// ErrNotFound is returned when a store has nothing for the requested key.
	ErrNotFound = errors.New("not found")
	// ErrNotLoaded is returned by a Provider used before Init or Load.
	ErrNotLoaded = errors.New("storage not loaded")
	// ErrInvalidRecord is returned by Create for records that break the schema.
	ErrInvalidRecord = errors.New("invalid study record")
)

// RecordDateLayout is the fixed-width UTC layout used to store record dates as
// text. It sorts lexicographically and parses back with time.RFC3339Nano.
const RecordDateLayout = "2006-01-02T15:04:05.000000000Z"

// RecordDatePrecision is the finest record date every store keeps.
// PostgreSQL timestamps stop at microseconds.
const RecordDatePrecision = time.Microsecond

// Kind identifies which backend a --store value points at.
type Kind int

const (
	KindSQLite Kind = iota
	KindPostgres
	KindRemote
)

func (k Kind) String() string {
	switch k {
	case KindPostgres:
		return "postgres"
	case KindRemote:
		return "remote"
	default:
		return "sqlite"
	}
}

// DetectKind classifies a store location: postgres:// and postgresql:// are
// PostgreSQL, http:// and https:// are a REST backend, anything else is a
// SQLite file path.
func DetectKind(location string) Kind {
	switch {
	case strings.HasPrefix(location, "postgres://"), strings.HasPrefix(location, "postgresql://"):
		return KindPostgres
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		return KindRemote
	default:
		return KindSQLite
	}
}

// HasEmbeddedCredentials reports whether a PostgreSQL URL carries a password.
func HasEmbeddedCredentials(connStr string) bool {
	u, err := url.Parse(connStr)
	if err != nil || u.User == nil {
		return false
	}
	_, set := u.User.Password()
	return set
}

// ValidateNewRecord checks a record before it is written.
func ValidateNewRecord(rec models.NewStudyRecord) error {
	if rec.WorkMinutes <= 0 {
		return fmt.Errorf("%w: work minutes must be positive, got %d", ErrInvalidRecord, rec.WorkMinutes)
	}
	if rec.BreakMinutes < 0 {
		return fmt.Errorf("%w: break minutes must not be negative, got %d", ErrInvalidRecord, rec.BreakMinutes)
	}
	if rec.RecordDate.IsZero() {
		return fmt.Errorf("%w: record date is required", ErrInvalidRecord)
	}
	return nil
}

// FormatRecordDate renders t in RecordDateLayout.
func FormatRecordDate(t time.Time) string {
	return t.UTC().Format(RecordDateLayout)
}

// ParseRecordDate parses a stored record date.
func ParseRecordDate(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing record date %q: %w", s, err)
	}
	return t.UTC(), nil
}

// SettingsPairs flattens settings into key/value rows.
func SettingsPairs(s models.Settings) [][2]string {
	return [][2]string{
		{constants.SettingWorkMinutes, strconv.Itoa(s.WorkMinutes)},
		{constants.SettingBreakMinutes, strconv.Itoa(s.BreakMinutes)},
		{constants.SettingLabels, string(s.Labels)},
	}
}

// ApplySetting sets one key/value row on s. Unknown keys are ignored.
func ApplySetting(s *models.Settings, key, value string) error {
	switch key {
	case constants.SettingWorkMinutes:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", key, err)
		}
		s.WorkMinutes = n
	case constants.SettingBreakMinutes:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", key, err)
		}
		s.BreakMinutes = n
	case constants.SettingLabels:
		s.Labels = constants.LabelSet(value)
	}
	return nil
}

// ValidateSettings rejects non-positive durations and unknown label sets.
func ValidateSettings(s models.Settings) error {
	if s.WorkMinutes <= 0 {
		return fmt.Errorf("work minutes must be positive, got %d", s.WorkMinutes)
	}
	if s.BreakMinutes <= 0 {
		return fmt.Errorf("break minutes must be positive, got %d", s.BreakMinutes)
	}
	switch s.Labels {
	case constants.LabelsEnglish, constants.LabelsTurkish:
	default:
		return fmt.Errorf("unknown label set %q (want en or tr)", s.Labels)
	}
	return nil
}

package pomodoro

import (
	"fmt"
	"time"

	"github.com/julianstephens/studylit/internal/constants"
)

// Labels names history day groups.
type Labels struct {
	Today     string
	Yesterday string
	Months    [12]string
}

var (
	EnglishLabels = Labels{
		Today:     "Today",
		Yesterday: "Yesterday",
		Months: [12]string{
			"January", "February", "March", "April", "May", "June",
			"July", "August", "September", "October", "November", "December",
		},
	}

	TurkishLabels = Labels{
		Today:     "Bugün",
		Yesterday: "Dün",
		Months: [12]string{
			"Ocak", "Şubat", "Mart", "Nisan", "Mayıs", "Haziran",
			"Temmuz", "Ağustos", "Eylül", "Ekim", "Kasım", "Aralık",
		},
	}
)

// LabelsFor maps a configured label set to its names. Unknown sets fall back to English.
func LabelsFor(set constants.LabelSet) Labels {
	if set == constants.LabelsTurkish {
		return TurkishLabels
	}
	return EnglishLabels
}

// DayLabel names day relative to today. Both must be midnights in the same location.
func (l Labels) DayLabel(day, today time.Time) string {
	switch {
	case day.Equal(today):
		return l.Today
	case day.Equal(today.AddDate(0, 0, -1)):
		return l.Yesterday
	}

	label := fmt.Sprintf("%d %s", day.Day(), l.Months[day.Month()-1])
	if day.Year() != today.Year() {
		label += fmt.Sprintf(" %d", day.Year())
	}
	return label
}

package constants

const (
	// Settings keys
	SettingWorkMinutes  = "work_minutes"
	SettingBreakMinutes = "break_minutes"
	SettingLabels       = "labels"

	// Default Settings Values
	DefaultWorkMinutes  = 25
	DefaultBreakMinutes = 5
	DefaultLabels       = LabelsEnglish
)

package constants

// LabelSet names the language used for history group headers and phase titles
type LabelSet string

const (
	LabelsEnglish LabelSet = "en"
	LabelsTurkish LabelSet = "tr"
)

package constants

import "time"

const (
	AppName            = "studylit"
	DefaultKeyringUser = "database-connection"
	SessionKeyringUser = "session-token"
	DefaultConfigPath  = "~/.config/studylit/studylit.db"
	Version            = "v0.3.0"

	// TokenEnvVar overrides the keyring-stored session token when set
	TokenEnvVar = "STUDYLIT_TOKEN"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// Remote API constants
	StudyRecordPath       = "/api/StudyRecord"
	RemoteRequestTimeout  = 10 * time.Second
	RemoteRequestsPerSec  = 5
	RemoteRequestBurst    = 5
	NameIdentifierClaim   = "http://schemas.xmlsoap.org/ws/2005/05/identity/claims/nameidentifier"
	SubjectClaim          = "sub"
	DefaultPersistTimeout = 15 * time.Second
)

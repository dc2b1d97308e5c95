package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/studylit/internal/logger"
)

// Hinter is implemented by errors that carry a short, user-facing remedy.
type Hinter interface {
	Hint() string
}

// Format formats an error message with a consistent "Error: " prefix.
// If any error in the chain implements Hinter, its hint is appended on a new line.
func Format(err error) string {
	if err == nil {
		return ""
	}
	msg := fmt.Sprintf("Error: %v", err)
	if hint := HintFor(err); hint != "" {
		msg += "\n       " + hint
	}
	return msg
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// HintFor returns the first hint found in err's chain, or "".
func HintFor(err error) string {
	var h Hinter
	if stderrors.As(err, &h) {
		return h.Hint()
	}
	return ""
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

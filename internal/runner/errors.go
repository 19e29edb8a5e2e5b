package runner

import "fmt"

// Exit codes not taken from an external tool
const (
	ExitNoDevice      = 1
	ExitCannotExecute = 127
)

// ExitError carries the status code the process should exit with. Message
// may be empty when the diagnostic was already printed.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Message
}

// exitCode maps a tool exit code to a valid process status. Codes below
// zero (killed by a signal) become 1.
func exitCode(code int) int {
	if code < 0 {
		return 1
	}
	return code
}

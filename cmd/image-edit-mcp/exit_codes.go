package main

const (
	ExitCodeUnknownError     = 1
	ExitCodeServerError      = 2
	ExitCodeConfigError      = 3
	ExitCodeInvalidArguments = 4
	ExitCodeInvalidInput     = 5
	ExitCodeInvalidOutput    = 6
	ExitCodeEditError        = 7
)

// ExitCodeError carries the process exit code for a failed command.
type ExitCodeError struct {
	originalError error
	exitCode      int
}

func (e *ExitCodeError) Error() string {
	return e.originalError.Error()
}

func (e *ExitCodeError) Unwrap() error {
	return e.originalError
}

func (e *ExitCodeError) ExitCode() int {
	return e.exitCode
}

func newExitCodeError(err error, code int) *ExitCodeError {
	return &ExitCodeError{
		originalError: err,
		exitCode:      code,
	}
}

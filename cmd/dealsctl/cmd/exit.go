package cmd

import (
	"errors"
	"fmt"
	"io"
)

// exitError asks main to exit with a specific code. A zero code with no
// message means success.
type exitError struct {
	code int
	err  error
}

func (e exitError) Error() string {
	if e.err != nil {
		return e.err.Error()
	}
	return fmt.Sprintf("exit %d", e.code)
}

func (e exitError) Unwrap() error { return e.err }

// ExitCode extracts the exit code from an exitError.
// Returns -1 if the error is not an exitError.
func ExitCode(err error) int {
	var ee exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return -1
}

// Report writes err to w and returns the process exit code for it. An
// exitError without a message is reported silently.
func Report(w io.Writer, err error) int {
	var ee exitError
	if errors.As(err, &ee) {
		if ee.err != nil {
			fmt.Fprintf(w, "error: %v\n", ee.err)
		}
		return ee.code
	}
	fmt.Fprintf(w, "error: %v\n", err)
	return 1
}

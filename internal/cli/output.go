// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// Exit codes.
const (
	ExitSuccess      = 0
	ExitFailure      = 1 // a scenario failed or the circuit did not settle
	ExitCommandError = 2 // bad input file, simulation error
)

// ExitError is an error carrying a process exit code.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Cause returns the underlying error.
func (e *ExitError) Cause() error { return e.Err }

// Unwrap returns the underlying error.
func (e *ExitError) Unwrap() error { return e.Err }

func newExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode returns the exit code for err: the code of an ExitError in its
// chain, ExitSuccess for nil, or ExitFailure.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var e *ExitError
	if errors.As(err, &e) {
		return e.Code
	}
	return ExitFailure
}

// textWriter is implemented by command results.
type textWriter interface {
	writeText(w io.Writer)
}

// response is the JSON envelope of every command output.
type response struct {
	Status string      `json:"status"` // ok or error
	Data   interface{} `json:"data,omitempty"`
	Error  string      `json:"error,omitempty"`
}

type formatter struct {
	format string
	w      io.Writer
}

func (f *formatter) print(status string, r textWriter, err error) error {
	if f.format != "json" {
		r.writeText(f.w)
		return nil
	}
	resp := response{Status: status, Data: r}
	if err != nil {
		resp.Error = err.Error()
	}
	enc := json.NewEncoder(f.w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(resp), "write output")
}

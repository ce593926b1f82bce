// Package output provides the JSON result envelope, exit codes and
// file-writing helpers shared by the CLI commands.
package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klytics/bidkit/cmd/version"
)

// Exit codes for consistent error reporting.
const (
	ExitOK          = 0 // success
	ExitUserError   = 1 // bad flags, missing or malformed project file
	ExitSystemError = 2 // IO error, inconsistent workbook layout
)

// Result is the JSON envelope every command prints with --json.
type Result struct {
	OK      bool     `json:"ok"`
	Command string   `json:"command"`
	Version string   `json:"version"`
	Data    any      `json:"data,omitempty"`
	Error   string   `json:"error,omitempty"`
	Details []string `json:"details,omitempty"` // one line per aggregated problem
	Code    int      `json:"code,omitempty"`
}

// PrintJSON writes a success envelope to stdout.
func PrintJSON(cmd string, data any) error {
	return WriteJSON(os.Stdout, cmd, data)
}

// PrintJSONError writes an error envelope to stdout.
func PrintJSONError(cmd string, err error, code int) error {
	if encErr := WriteJSONError(os.Stdout, cmd, err, code); encErr != nil {
		return fmt.Errorf("could not encode JSON error: %w", encErr)
	}
	return nil
}

// WriteJSON writes a success envelope to w.
func WriteJSON(w io.Writer, cmd string, data any) error {
	return encode(w, Result{OK: true, Command: cmd, Version: version.Version, Data: data})
}

// WriteJSONError writes an error envelope to w. Errors that aggregate
// several problems, such as a *multierror.Error, are listed in Details.
func WriteJSONError(w io.Writer, cmd string, err error, code int) error {
	return encode(w, Result{
		Command: cmd,
		Version: version.Version,
		Error:   err.Error(),
		Details: details(err),
		Code:    code,
	})
}

func details(err error) []string {
	var agg interface{ WrappedErrors() []error }
	if !errors.As(err, &agg) {
		return nil
	}
	var lines []string
	for _, e := range agg.WrappedErrors() {
		lines = append(lines, e.Error())
	}
	return lines
}

func encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

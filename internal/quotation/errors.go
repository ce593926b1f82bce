package quotation

import (
	"errors"
	"fmt"
)

// ErrFilesystem marks failures writing the workbook to disk.
var ErrFilesystem = errors.New("could not write workbook")

// ConsistencyError reports a workbook whose layout or cross-sheet
// references do not hold together. It always indicates a bug in a
// sheet builder, never bad input.
type ConsistencyError struct {
	Sheet  string
	Detail string
}

func (e *ConsistencyError) Error() string {
	if e.Sheet == "" {
		return "inconsistent workbook: " + e.Detail
	}
	return fmt.Sprintf("inconsistent workbook: sheet %q: %s", e.Sheet, e.Detail)
}

// NewConsistencyError creates a new ConsistencyError.
func NewConsistencyError(sheet, format string, args ...any) *ConsistencyError {
	return &ConsistencyError{
		Sheet:  sheet,
		Detail: fmt.Sprintf(format, args...),
	}
}

package outcome

import (
	"errors"
	"fmt"
)

// ErrMalformedRecord marks a raw game row that is missing a field or carries
// a non-numeric stat. It is fatal to the invocation.
var ErrMalformedRecord = errors.New("malformed game record")

// RecordError locates a malformed field within the input.
type RecordError struct {
	Index  int
	GamePK int
	Field  string
	Err    error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("%s: record %d (game %d) field %s: %v", ErrMalformedRecord, e.Index, e.GamePK, e.Field, e.Err)
}

// Unwrap lets errors.Is match ErrMalformedRecord.
func (e *RecordError) Unwrap() []error {
	return []error{ErrMalformedRecord, e.Err}
}

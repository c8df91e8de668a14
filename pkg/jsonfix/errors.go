package jsonfix

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyInput is returned when the input is empty or whitespace-only after
// normalization.
var ErrEmptyInput = errors.New("input JSON text is empty")

// DecodeError reports that the repaired text is still not valid JSON. It
// carries the position of the first decode failure and a preview of the text
// that was handed to the decoder, so the caller can see which repair pass left
// the document broken.
type DecodeError struct {
	Line    int
	Column  int
	Offset  int64
	Preview string
	Err     error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("json decode failed at line %d, column %d (offset %d): %v\nrepaired text preview:\n%s",
		e.Line, e.Column, e.Offset, e.Err, e.Preview)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// MissingFieldsError reports every required top-level key absent from the
// decoded document.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("document is missing required fields: [%s]", strings.Join(e.Fields, ", "))
}

// MissingRubricFieldsError reports every required sub-key absent from the
// evaluation_rubic object. It is only returned when all top-level keys are
// present.
type MissingRubricFieldsError struct {
	Fields []string
}

func (e *MissingRubricFieldsError) Error() string {
	return fmt.Sprintf("evaluation_rubic is missing required fields: [%s]", strings.Join(e.Fields, ", "))
}

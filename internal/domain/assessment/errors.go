package assessment

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound indicates no assessment record exists for the visit.
	ErrNotFound = errors.New("assessment not found")

	// ErrDuplicate indicates an assessment of this kind already exists for
	// the visit. One nursing and one radiology record per visit.
	ErrDuplicate = errors.New("assessment already exists for visit")
)

// FieldError keys a single out-of-range or malformed value to its field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every field failure from a submission so the
// caller can surface all of them at once.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	fields := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		fields[i] = fe.Field
	}
	return fmt.Sprintf("invalid assessment fields: %s", strings.Join(fields, ", "))
}

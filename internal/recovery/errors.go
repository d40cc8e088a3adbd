package recovery

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyModelOutput reports a response that was empty or whitespace only.
	ErrEmptyModelOutput = errors.New("empty model output")
	// ErrNoStructureFound reports a response without a brace-delimited object.
	ErrNoStructureFound = errors.New("no structure found")
	// ErrMalformedStructure reports an object that still fails strict parsing
	// after syntax repair.
	ErrMalformedStructure = errors.New("malformed structure")
	// ErrSchemaViolation reports a parsed object that is missing required
	// fields or carries values of the wrong type.
	ErrSchemaViolation = errors.New("schema violation")
)

// excerptLimit bounds the diagnostic text carried by MalformedError.
const excerptLimit = 500

// MalformedError carries the strict parser's error and a bounded excerpt of
// the repaired text it rejected.
type MalformedError struct {
	Cause   error
	Excerpt string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("%s: %v (excerpt: %s)", ErrMalformedStructure, e.Cause, e.Excerpt)
}

func (e *MalformedError) Unwrap() []error {
	return []error{ErrMalformedStructure, e.Cause}
}

// SchemaError lists missing required fields or the type validation failure.
type SchemaError struct {
	Missing []string
	Cause   error
}

func (e *SchemaError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("%s: missing required fields: %s", ErrSchemaViolation, strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("%s: %v", ErrSchemaViolation, e.Cause)
}

func (e *SchemaError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrSchemaViolation}
	}
	return []error{ErrSchemaViolation, e.Cause}
}

// IsRetryable reports whether re-asking the model with stricter formatting
// instructions may fix err. Only strict parse failures qualify; schema
// problems are not fixed by formatting instructions.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrMalformedStructure)
}

// FormattingReminder is appended to a prompt before its single retry.
const FormattingReminder = `

IMPORTANT OUTPUT RULES:
- Respond with exactly one JSON object and nothing else.
- Do not wrap the JSON in markdown code fences.
- Use double quotes for every key and string value.
- Do not put raw line breaks inside string values.
- Do not leave trailing commas before a closing bracket or brace.`

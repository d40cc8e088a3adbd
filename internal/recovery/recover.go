package recovery

import (
	"encoding/json"
	"errors"
	"strings"

	"jobflow/internal/textutil"
)

// Parse runs the text stages of recovery: reject empty output, strip code
// fences, extract the outermost object, repair common syntax slips, and
// parse strictly. No further leniency is applied after repair.
func Parse(text string) (map[string]any, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyModelOutput
	}
	blob, err := ExtractEnvelope(StripFences(text))
	if err != nil {
		return nil, err
	}
	repaired := RepairSyntax(blob)
	obj, err := decodeObject(repaired)
	if err != nil {
		return nil, &MalformedError{Cause: err, Excerpt: textutil.Excerpt(repaired, excerptLimit)}
	}
	return obj, nil
}

// decodeObject parses blob strictly, keeping numbers as json.Number so
// integers survive unchanged. Content after the object is an error.
func decodeObject(blob string) (map[string]any, error) {
	dec := json.NewDecoder(strings.NewReader(blob))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, errors.New("unexpected content after object")
	}
	return obj, nil
}

// Recover converts raw model output into a record satisfying schema. A nil
// schema skips the schema stage. The function is pure: the same text always
// yields the same result.
func Recover(text string, schema *Schema) (Record, error) {
	obj, err := Parse(text)
	if err != nil {
		return nil, err
	}
	if schema == nil {
		return Record(obj), nil
	}
	return schema.Apply(obj)
}

package recovery

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Record is a recovered object that satisfied its schema.
type Record map[string]any

// String returns the named value as text. Numbers are formatted without a
// trailing ".0"; missing values yield "".
func (r Record) String(name string) string {
	return scalarString(r[name])
}

// Float returns the named value as a number. Numeric strings are accepted.
func (r Record) Float(name string) (float64, bool) {
	switch v := r[name].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// Int returns the named value rounded to the nearest integer.
func (r Record) Int(name string) (int, bool) {
	f, ok := r.Float(name)
	if !ok {
		return 0, false
	}
	return int(math.Round(f)), true
}

// Strings returns the named array with each element rendered as text.
func (r Record) Strings(name string) []string {
	items, _ := r[name].([]any)
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := strings.TrimSpace(scalarString(item)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Objects returns the object elements of the named array.
func (r Record) Objects(name string) []Record {
	items, _ := r[name].([]any)
	out := make([]Record, 0, len(items))
	for _, item := range items {
		if obj, ok := item.(map[string]any); ok {
			out = append(out, Record(obj))
		}
	}
	return out
}

// MarshalIndent renders the record as indented JSON for persistence.
func (r Record) MarshalIndent() ([]byte, error) {
	data, err := json.MarshalIndent(map[string]any(r), "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func scalarString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

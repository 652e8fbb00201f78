// Package breach turns raw breach records, as returned by HIBP or by the demo
// provider, into the canonical model.Breach shape.
package breach

import (
	"encoding/json"
	"math"

	"breachguard/internal/model"
)

// Raw is one untyped upstream breach record. Key casing depends on the
// producer: HIBP uses upper-camel keys, other sources may use lower-camel.
type Raw map[string]any

// UnknownName is used when a record carries no usable name.
const UnknownName = "Unknown"

// Candidate keys per field, tried in order.
var (
	nameKeys        = []string{"Name", "name"}
	domainKeys      = []string{"Domain", "domain"}
	breachDateKeys  = []string{"BreachDate", "breachDate"}
	addedDateKeys   = []string{"AddedDate", "addedDate"}
	pwnCountKeys    = []string{"PwnCount", "pwnCount"}
	descriptionKeys = []string{"Description", "description"}
	dataClassesKeys = []string{"DataClasses", "dataClasses"}
	isVerifiedKeys  = []string{"IsVerified", "isVerified"}
)

// Normalize maps a raw record to a model.Breach. Missing or wrongly typed
// values fall back to the field default; it never fails.
func Normalize(r Raw) model.Breach {
	name := UnknownName
	if s := firstString(r, nameKeys); s != nil {
		name = *s
	}

	dataClasses := firstStrings(r, dataClassesKeys)
	if dataClasses == nil {
		dataClasses = []string{}
	}

	return model.Breach{
		Name:        name,
		Domain:      firstString(r, domainKeys),
		BreachDate:  firstString(r, breachDateKeys),
		AddedDate:   firstString(r, addedDateKeys),
		PwnCount:    firstInt(r, pwnCountKeys),
		Description: firstString(r, descriptionKeys),
		DataClasses: dataClasses,
		IsVerified:  firstBool(r, isVerifiedKeys),
	}
}

// NormalizeAll normalizes every record, preserving order.
func NormalizeAll(records []Raw) []model.Breach {
	out := make([]model.Breach, 0, len(records))
	for _, r := range records {
		out = append(out, Normalize(r))
	}
	return out
}

// firstString returns the first candidate holding a non-empty string.
func firstString(r Raw, keys []string) *string {
	for _, k := range keys {
		if s, ok := r[k].(string); ok && s != "" {
			return &s
		}
	}
	return nil
}

// firstStrings returns the first candidate holding a non-empty list of strings.
// Non-string items are dropped.
func firstStrings(r Raw, keys []string) []string {
	for _, k := range keys {
		var out []string
		switch v := r[k].(type) {
		case []string:
			out = append(out, v...)
		case []any:
			for _, item := range v {
				if s, ok := item.(string); ok {
					out = append(out, s)
				}
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

// firstBool returns the first candidate holding a boolean; false counts.
func firstBool(r Raw, keys []string) *bool {
	for _, k := range keys {
		if b, ok := r[k].(bool); ok {
			return &b
		}
	}
	return nil
}

// firstInt returns the first candidate holding an integral number; zero counts.
func firstInt(r Raw, keys []string) *int64 {
	for _, k := range keys {
		if n, ok := toInt64(r[k]); ok {
			return &n
		}
	}
	return nil
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
		if f, err := n.Float64(); err == nil && f == math.Trunc(f) {
			return int64(f), true
		}
	case float64:
		if n == math.Trunc(n) {
			return int64(n), true
		}
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	}
	return 0, false
}

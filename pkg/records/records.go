// Package records defines the canonical map-based record representation used
// between the pipeline stages and the storage/export layers. It is kept as a
// public package so both internal packages and external tooling can depend on
// it without import cycles.
package records

// Record is a single logical row keyed by canonical column name. Values are
// either nil (SQL NULL), string, int, int64, float64, or time.Time depending
// on the producing stage.
type Record map[string]any

// Clone returns a shallow copy of r.
func Clone(r Record) Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// String returns the string value of key, or "" when absent, nil, or not a
// string. Useful for stages that only ever read string-typed columns.
func (r Record) String(key string) string {
	if v, ok := r[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

package emv

import (
	"bytes"
	"encoding/json"
)

// Record is the decoded view of a response: labels mapped to display
// strings, kept in the order the labels first appeared in the buffer.
// Writing an existing label replaces its value and keeps its position.
type Record struct {
	keys      []string
	values    map[string]string
	truncated bool
}

// NewRecord returns an empty record.
func NewRecord() *Record {
	return &Record{values: make(map[string]string)}
}

// Set stores value under key.
func (r *Record) Set(key, value string) {
	if _, exists := r.values[key]; !exists {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// Get returns the value stored under key.
func (r *Record) Get(key string) (string, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Keys returns the labels in insertion order.
func (r *Record) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

func (r *Record) Len() int {
	return len(r.keys)
}

// Range calls fn for every label in insertion order.
func (r *Record) Range(fn func(key, value string)) {
	for _, k := range r.keys {
		fn(k, r.values[k])
	}
}

// Truncated reports whether the buffer ended inside a field, in which case
// the record only holds the fields read before that point.
func (r *Record) Truncated() bool {
	return r.truncated
}

// MarshalJSON encodes the record as a JSON object in insertion order.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(r.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

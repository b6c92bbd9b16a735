package document

import "reflect"

// Data is block level metadata: an open mapping from string keys to scalar
// or nested scalar values.
//
// Data values held by a Block must be treated as read-only; use With, Merge
// or Clone to derive new values.
type Data map[string]any

// Get returns the value stored under key.
func (d Data) Get(key string) (any, bool) {
	v, ok := d[key]
	return v, ok
}

// Has reports whether key is present.
func (d Data) Has(key string) bool {
	_, ok := d[key]
	return ok
}

// String returns the string stored under key, or "" if absent or not a string.
func (d Data) String(key string) string {
	s, _ := d[key].(string)
	return s
}

// Bool returns the bool stored under key, or false if absent or not a bool.
func (d Data) Bool(key string) bool {
	b, _ := d[key].(bool)
	return b
}

// Clone returns a deep copy of d. Nested maps and slices are copied.
func (d Data) Clone() Data {
	if d == nil {
		return Data{}
	}
	out := make(Data, len(d))
	for k, v := range d {
		out[k] = cloneValue(v)
	}
	return out
}

// With returns a copy of d with key set to value.
func (d Data) With(key string, value any) Data {
	out := d.Clone()
	out[key] = value
	return out
}

// Without returns a copy of d with the given keys removed.
func (d Data) Without(keys ...string) Data {
	out := d.Clone()
	for _, k := range keys {
		delete(out, k)
	}
	return out
}

// Merge returns a deep merge of other over d. Nested maps are merged
// recursively; any other value in other replaces the value in d.
func (d Data) Merge(other Data) Data {
	out := d.Clone()
	for k, v := range other {
		if src, ok := asMap(v); ok {
			if dst, ok := asMap(out[k]); ok {
				out[k] = map[string]any(Data(dst).Merge(Data(src)))
				continue
			}
		}
		out[k] = cloneValue(v)
	}
	return out
}

// Equal reports whether d and other hold the same values.
// A nil Data equals an empty one.
func (d Data) Equal(other Data) bool {
	if len(d) == 0 && len(other) == 0 {
		return true
	}
	return reflect.DeepEqual(map[string]any(d), map[string]any(other))
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Data:
		return map[string]any(m), true
	default:
		return nil, false
	}
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return map[string]any(Data(val).Clone())
	case Data:
		return val.Clone()
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	case []string:
		out := make([]string, len(val))
		copy(out, val)
		return out
	default:
		return v
	}
}

// DefaultBlockData returns the metadata a block of type t starts with.
// Todo blocks start unchecked and code blocks with an empty language;
// other types start with a copy of initial.
func DefaultBlockData(t BlockType, initial Data) Data {
	switch t {
	case Todo:
		return Data{"checked": false}
	case Code:
		return Data{"language": ""}
	default:
		return initial.Clone()
	}
}

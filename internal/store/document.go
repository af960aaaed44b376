package store

import "encoding/json"

// Document is a partial snapshot of the state document. Accessors return
// the zero value for keys that are absent or hold a JSON null, so callers
// can read optimistically without presence checks.
type Document map[string]json.RawMessage

func (d Document) Has(key string) bool {
	raw, ok := d[key]
	return ok && string(raw) != "null"
}

func (d Document) Bool(key string) bool {
	var v bool
	d.decode(key, &v)
	return v
}

func (d Document) Int(key string) int {
	var v int
	d.decode(key, &v)
	return v
}

func (d Document) Int64(key string) int64 {
	var v int64
	d.decode(key, &v)
	return v
}

func (d Document) String(key string) string {
	var v string
	d.decode(key, &v)
	return v
}

// Decode unmarshals the value at key into v. Absent or null keys leave v
// untouched and report false.
func (d Document) Decode(key string, v interface{}) bool {
	if !d.Has(key) {
		return false
	}
	return json.Unmarshal(d[key], v) == nil
}

func (d Document) decode(key string, v interface{}) {
	if raw, ok := d[key]; ok {
		// Ignore malformed values; a corrupt key reads as zero.
		_ = json.Unmarshal(raw, v)
	}
}

package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Meta is an insertion-ordered string map. Setting an existing key replaces
// its value in place; JSON round trips keep key order
type Meta struct {
	keys []string
	vals map[string]string
}

// NewMeta builds a Meta from key, value pairs; a trailing odd key is ignored
func NewMeta(kv ...string) Meta {
	var m Meta
	for i := 0; i+1 < len(kv); i += 2 {
		m.Set(kv[i], kv[i+1])
	}
	return m
}

// Set stores v under k
func (m *Meta) Set(k, v string) {
	if m.vals == nil {
		m.vals = make(map[string]string, 4)
	}
	if _, ok := m.vals[k]; !ok {
		m.keys = append(m.keys, k)
	}
	m.vals[k] = v
}

// Get returns the value for k
func (m Meta) Get(k string) (string, bool) {
	v, ok := m.vals[k]
	return v, ok
}

// Keys returns the keys in insertion order
func (m Meta) Keys() []string { return append([]string(nil), m.keys...) }

// Len returns the number of keys
func (m Meta) Len() int { return len(m.keys) }

// Clone returns an independent copy
func (m Meta) Clone() Meta {
	c := Meta{keys: append([]string(nil), m.keys...)}
	if m.vals != nil {
		c.vals = make(map[string]string, len(m.vals))
		for k, v := range m.vals {
			c.vals[k] = v
		}
	}
	return c
}

// Equal reports whether both metas hold the same pairs in the same order
func (m Meta) Equal(o Meta) bool {
	if len(m.keys) != len(o.keys) {
		return false
	}
	for i, k := range m.keys {
		if o.keys[i] != k || o.vals[k] != m.vals[k] {
			return false
		}
	}
	return true
}

// MarshalJSON writes the pairs as an object in insertion order
func (m Meta) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	str := func(s string) ([]byte, error) {
		buf.Reset()
		if err := enc.Encode(s); err != nil {
			return nil, err
		}
		return bytes.TrimRight(buf.Bytes(), "\n"), nil
	}

	var out bytes.Buffer
	out.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			out.WriteByte(',')
		}
		kb, err := str(k)
		if err != nil {
			return nil, err
		}
		out.Write(kb)
		out.WriteByte(':')
		vb, err := str(m.vals[k])
		if err != nil {
			return nil, err
		}
		out.Write(vb)
	}
	out.WriteByte('}')
	return out.Bytes(), nil
}

// UnmarshalJSON reads an object of string values keeping document order
func (m *Meta) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*m = Meta{}
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("meta: expected object, got %v", tok)
	}
	var out Meta
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return err
		}
		k, _ := kt.(string)
		var v string
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("meta: value for %q: %w", k, err)
		}
		out.Set(k, v)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*m = out
	return nil
}

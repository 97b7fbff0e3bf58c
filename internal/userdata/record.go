// Package userdata loads the record of user values that gets matched against form fields.
package userdata

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

var ErrNotMapping = errors.New("user data must be a mapping of keys to values")

// Record is an opaque mapping from semantic key to value. Nested values are
// passed through verbatim. The JSON rendering keeps the key order of a JSON source.
type Record struct {
	raw    json.RawMessage
	values map[string]any
}

// Load reads a record from a .json or .toml file.
func Load(path string) (Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Record{}, fmt.Errorf("read user data %s: %w", path, err)
	}

	var rec Record
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		rec, err = ParseTOML(data)
	default:
		rec, err = ParseJSON(data)
	}
	if err != nil {
		return Record{}, fmt.Errorf("parse user data %s: %w", path, err)
	}
	return rec, nil
}

// ParseJSON parses a JSON object.
func ParseJSON(data []byte) (Record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var values map[string]any
	if err := dec.Decode(&values); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return Record{}, ErrNotMapping
		}
		return Record{}, err
	}
	if values == nil {
		return Record{}, ErrNotMapping
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, data); err != nil {
		return Record{}, err
	}
	return Record{raw: compact.Bytes(), values: values}, nil
}

// ParseTOML parses a TOML document. Key order is not preserved.
func ParseTOML(data []byte) (Record, error) {
	var values map[string]any
	if _, err := toml.Decode(string(data), &values); err != nil {
		return Record{}, err
	}
	return FromMap(values)
}

// FromMap builds a record from an in-memory mapping.
func FromMap(values map[string]any) (Record, error) {
	if values == nil {
		return Record{}, ErrNotMapping
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return Record{}, fmt.Errorf("encode user data: %w", err)
	}
	return Record{raw: raw, values: values}, nil
}

// JSON returns the compact JSON encoding of the record.
func (r Record) JSON() json.RawMessage {
	if len(r.raw) == 0 {
		return json.RawMessage("{}")
	}
	return r.raw
}

// Value returns the top-level value stored under key.
func (r Record) Value(key string) (any, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Keys returns the top-level keys in sorted order.
func (r Record) Keys() []string {
	keys := make([]string, 0, len(r.values))
	for k := range r.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (r Record) Len() int {
	return len(r.values)
}

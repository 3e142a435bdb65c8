package models

import (
	"bytes"
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// Field is a single name/value pair.
type Field struct {
	Name  string
	Value string
}

// Fields is a string mapping that remembers first-insertion order.
// Setting an existing name replaces its value in place.
type Fields struct {
	list  []Field
	index map[string]int
}

// NewFields returns an empty mapping.
func NewFields() *Fields {
	return &Fields{index: make(map[string]int)}
}

// Set stores value under name.
func (f *Fields) Set(name, value string) {
	if f.index == nil {
		f.index = make(map[string]int)
	}
	if i, ok := f.index[name]; ok {
		f.list[i].Value = value
		return
	}
	f.index[name] = len(f.list)
	f.list = append(f.list, Field{Name: name, Value: value})
}

// Get returns the value stored under name.
func (f *Fields) Get(name string) (string, bool) {
	if f == nil {
		return "", false
	}
	i, ok := f.index[name]
	if !ok {
		return "", false
	}
	return f.list[i].Value, true
}

// Len returns the number of entries.
func (f *Fields) Len() int {
	if f == nil {
		return 0
	}
	return len(f.list)
}

// List returns the entries in order. The slice must not be modified.
func (f *Fields) List() []Field {
	if f == nil {
		return nil
	}
	return f.list
}

// Map returns an unordered copy.
func (f *Fields) Map() map[string]string {
	m := make(map[string]string, f.Len())
	for _, field := range f.List() {
		m[field.Name] = field.Value
	}
	return m
}

// MarshalJSON encodes the entries as a JSON object in insertion order.
func (f *Fields) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, field := range f.List() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshalJSON(field.Name)
		if err != nil {
			return nil, err
		}
		val, err := marshalJSON(field.Value)
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

// MarshalYAML encodes the entries as a YAML mapping in insertion order.
func (f *Fields) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, field := range f.List() {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: field.Name},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: field.Value},
		)
	}
	return node, nil
}

// marshalJSON encodes v without escaping HTML characters, so cell text
// such as "A&B" survives unchanged.
func marshalJSON(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

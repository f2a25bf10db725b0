package domain

import (
	"bytes"
	"encoding/json"
	"sort"
)

// Element is a single key/value entry of a Document.
type Element struct {
	Key   string
	Value any
}

// Document is an ordered query document: {'field1': value1, 'field2': value2, ...}.
// Values are scalars, []any arrays or nested Documents.
type Document []Element

func (d Document) Lookup(key string) (any, bool) {
	for _, e := range d {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

func (d Document) Has(key string) bool {
	_, ok := d.Lookup(key)
	return ok
}

func (d Document) Keys() []string {
	keys := make([]string, len(d))
	for i, e := range d {
		keys[i] = e.Key
	}
	return keys
}

// Without returns a copy of d with key removed.
func (d Document) Without(key string) Document {
	result := make(Document, 0, len(d))
	for _, e := range d {
		if e.Key != key {
			result = append(result, e)
		}
	}
	return result
}

// With returns a copy of d where key holds value. The key keeps its position if present.
func (d Document) With(key string, value any) Document {
	result := make(Document, 0, len(d)+1)
	replaced := false
	for _, e := range d {
		if e.Key == key {
			e.Value = value
			replaced = true
		}
		result = append(result, e)
	}
	if !replaced {
		result = append(result, Element{Key: key, Value: value})
	}
	return result
}

// MarshalJSON encodes the document as a JSON object preserving key order.
func (d Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range d {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(e.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// FromMap converts map[string]any into a Document. Keys are sorted since maps carry no order.
func FromMap(m map[string]any) Document {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	doc := make(Document, 0, len(m))
	for _, k := range keys {
		doc = append(doc, Element{Key: k, Value: fromNative(m[k])})
	}
	return doc
}

func fromNative(value any) any {
	switch v := value.(type) {
	case map[string]any:
		return FromMap(v)
	case []any:
		items := make([]any, len(v))
		for i, item := range v {
			items[i] = fromNative(item)
		}
		return items
	default:
		return value
	}
}

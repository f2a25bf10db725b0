package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	query "github.com/krew-solutions/ascetic-query-advisor/queryadvisor/query/domain"
)

// Direction is the key type of one index field.
type Direction string

const (
	DirectionAscending   Direction = "1"
	DirectionDescending  Direction = "-1"
	DirectionGeo2d       Direction = "2d"
	DirectionGeo2dSphere Direction = "2dsphere"
	DirectionGeoHaystack Direction = "geoHaystack"
)

func (d Direction) IsGeospatial() bool {
	switch d {
	case DirectionGeo2d, DirectionGeo2dSphere, DirectionGeoHaystack:
		return true
	}
	return false
}

// ParseDirection accepts a signed number or a geospatial index type name.
func ParseDirection(value any) (Direction, error) {
	switch v := value.(type) {
	case int:
		return directionFromWeight(float64(v))
	case int64:
		return directionFromWeight(float64(v))
	case uint64:
		return directionFromWeight(float64(v))
	case float64:
		return directionFromWeight(v)
	case string:
		d := Direction(v)
		if d.IsGeospatial() {
			return d, nil
		}
		return "", fmt.Errorf("unsupported index key type %q", v)
	}
	return "", fmt.Errorf("index direction must be a number or geospatial type, got: %T", value)
}

func directionFromWeight(weight float64) (Direction, error) {
	switch {
	case weight > 0:
		return DirectionAscending, nil
	case weight < 0:
		return DirectionDescending, nil
	}
	return "", fmt.Errorf("index direction must not be zero")
}

func (d Direction) MarshalJSON() ([]byte, error) {
	switch d {
	case DirectionAscending:
		return []byte("1"), nil
	case DirectionDescending:
		return []byte("-1"), nil
	}
	return json.Marshal(string(d))
}

// IndexKey is one (field, direction) pair of a compound index.
type IndexKey struct {
	Field     string
	Direction Direction
}

// IndexSpec is an ordered compound index definition. Field order defines the usable prefixes.
type IndexSpec []IndexKey

func (s IndexSpec) Fields() []string {
	fields := make([]string, len(s))
	for i, k := range s {
		fields[i] = k.Field
	}
	return fields
}

// Name renders the conventional index name, e.g. "status_1_created_-1".
func (s IndexSpec) Name() string {
	parts := make([]string, 0, len(s)*2)
	for _, k := range s {
		parts = append(parts, k.Field, string(k.Direction))
	}
	return strings.Join(parts, "_")
}

func (s IndexSpec) String() string {
	parts := make([]string, len(s))
	for i, k := range s {
		parts[i] = fmt.Sprintf("%s: %s", k.Field, k.Direction)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// MarshalJSON encodes the spec as an ordered key document: {"status": 1, "loc": "2dsphere"}.
func (s IndexSpec) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		field, err := json.Marshal(k.Field)
		if err != nil {
			return nil, err
		}
		dir, err := k.Direction.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(field)
		buf.WriteByte(':')
		buf.Write(dir)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ParseIndexSpec parses an index key document or a list of [field, direction] pairs.
func ParseIndexSpec(data []byte) (IndexSpec, error) {
	value, err := query.ParseValue(data)
	if err != nil {
		return nil, err
	}
	return IndexSpecFromValue(value)
}

// IndexSpecFromValue builds a spec from a decoded key document or list of pairs.
func IndexSpecFromValue(value any) (IndexSpec, error) {
	switch v := value.(type) {
	case query.Document:
		spec := make(IndexSpec, 0, len(v))
		for _, e := range v {
			dir, err := ParseDirection(e.Value)
			if err != nil {
				return nil, fmt.Errorf("index field %q: %w", e.Key, err)
			}
			spec = append(spec, IndexKey{Field: e.Key, Direction: dir})
		}
		return spec, nil

	case []any:
		spec := make(IndexSpec, 0, len(v))
		seen := make(map[string]struct{}, len(v))
		for i, item := range v {
			pair, ok := item.([]any)
			if !ok || len(pair) != 2 {
				return nil, fmt.Errorf("index key %d must be a [field, direction] pair", i)
			}
			field, ok := pair[0].(string)
			if !ok {
				return nil, fmt.Errorf("index key %d field must be string, got: %T", i, pair[0])
			}
			if _, dup := seen[field]; dup {
				return nil, fmt.Errorf("index field %q appears twice", field)
			}
			seen[field] = struct{}{}
			dir, err := ParseDirection(pair[1])
			if err != nil {
				return nil, fmt.Errorf("index field %q: %w", field, err)
			}
			spec = append(spec, IndexKey{Field: field, Direction: dir})
		}
		return spec, nil
	}
	return nil, fmt.Errorf("index spec must be a document or list of pairs, got: %T", value)
}

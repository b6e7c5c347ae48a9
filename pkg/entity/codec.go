package entity

import (
	"encoding/json"
	"fmt"
)

// DecodeSpec decodes a raw spec map into a typed spec struct. Unknown keys
// are tolerated: the spec payload is opaque and builders only interpret the
// fields they know about.
func DecodeSpec(spec map[string]any, out any) error {
	data, err := json.Marshal(spec)
	if err != nil {
		return fmt.Errorf("cannot marshal spec: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("cannot decode spec: %w", err)
	}
	return nil
}

// ToMap serializes a typed spec struct to a plain map via its JSON encoding.
func ToMap(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("cannot marshal instance: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("cannot convert instance to map: %w", err)
	}
	return m, nil
}

// MergeSpec overlays the typed representation of a spec on top of the raw
// input map. Keys unknown to the typed struct survive the round-trip, so
// serialization never drops schema-relevant input fields, while normalized
// and defaulted fields from the typed form win over the raw input. The merge
// descends into nested objects: a builder modeling a nested section as a
// struct must not drop sibling keys it does not model.
func MergeSpec(raw, typed map[string]any) map[string]any {
	out := make(map[string]any, len(raw)+len(typed))
	for k, v := range raw {
		out[k] = v
	}
	for k, v := range typed {
		typedChild, typedOk := v.(map[string]any)
		rawChild, rawOk := out[k].(map[string]any)
		if typedOk && rawOk {
			out[k] = MergeSpec(rawChild, typedChild)
			continue
		}
		out[k] = v
	}
	return out
}

package entity

import (
	"encoding/json"
	"fmt"
)

// ExportedObject is the serialized form of one entity as read from an export
// directory. The spec payload is opaque to the pipeline; only the
// kind-specific builder interprets it.
type ExportedObject struct {
	// Kind selects the constructor and the schema for this object.
	Kind Kind `json:"kind"`

	// Metadata holds entity metadata (name, project, labels, ...).
	Metadata map[string]any `json:"metadata,omitempty"`

	// Spec is the kind-specific configuration payload.
	Spec map[string]any `json:"spec"`

	// Status holds runtime state reported by the platform.
	Status map[string]any `json:"status,omitempty"`
}

// DecodeExportedObject parses one exported object document.
func DecodeExportedObject(data []byte) (*ExportedObject, error) {
	var obj ExportedObject
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, fmt.Errorf("malformed object document: %w", err)
	}
	if _, err := ParseKind(string(obj.Kind)); err != nil {
		return nil, err
	}
	if obj.Spec == nil {
		obj.Spec = map[string]any{}
	}
	return &obj, nil
}

// Instance is the typed, normalized in-memory representation of one object.
// An instance is associated with exactly one kind, lives for a single
// validation pass, and serializes back to a plain map.
type Instance interface {
	// Kind returns the kind the instance was built from.
	Kind() Kind

	// ToDict serializes the instance back to a plain map. The result is
	// deterministic and lossless with respect to every field the schema
	// examines: defaults filled during construction appear in the output,
	// and schema-relevant input fields are never dropped.
	ToDict() (map[string]any, error)
}

// Builder constructs a typed instance from a raw spec map. A builder may
// reject input that violates structural requirements beyond what the JSON
// Schema expresses (cross-field consistency, required defaults).
type Builder interface {
	Build(spec map[string]any) (Instance, error)
}

// BuilderFunc adapts a plain function to the Builder interface.
type BuilderFunc func(spec map[string]any) (Instance, error)

// Build implements Builder.
func (f BuilderFunc) Build(spec map[string]any) (Instance, error) {
	return f(spec)
}

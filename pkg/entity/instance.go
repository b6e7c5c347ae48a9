package entity

// specInstance is the normalized instance shared by the built-in builders:
// a typed spec struct paired with the raw input map it was decoded from.
type specInstance struct {
	kind  Kind
	raw   map[string]any
	typed any
}

// NewInstance wraps a typed spec struct as an Instance. The raw input map is
// retained so that serialization preserves input fields the typed struct
// does not model, while normalized and defaulted fields from the typed form
// take precedence.
func NewInstance(kind Kind, raw map[string]any, typed any) Instance {
	return &specInstance{kind: kind, raw: raw, typed: typed}
}

// Kind implements Instance.
func (i *specInstance) Kind() Kind {
	return i.kind
}

// ToDict implements Instance.
func (i *specInstance) ToDict() (map[string]any, error) {
	typed, err := ToMap(i.typed)
	if err != nil {
		return nil, err
	}
	return MergeSpec(i.raw, typed), nil
}

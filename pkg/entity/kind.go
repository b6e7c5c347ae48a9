package entity

import (
	"fmt"
	"strings"
)

// Kind identifies an entity's category, optionally qualified by a runtime
// discriminator, in the form "category" or "category:runtime"
// (e.g. "artifact", "function:python", "run:kfp"). The kind selects both the
// constructor and the schema for an object and is immutable once assigned.
type Kind string

// ParseKind parses and validates a kind string.
func ParseKind(s string) (Kind, error) {
	category, runtime, qualified := strings.Cut(s, ":")
	if category == "" {
		return "", fmt.Errorf("kind %q has an empty category", s)
	}
	if qualified && runtime == "" {
		return "", fmt.Errorf("kind %q has an empty runtime discriminator", s)
	}
	return Kind(s), nil
}

// Category returns the category portion of the kind (e.g. "function" for
// "function:python").
func (k Kind) Category() string {
	category, _, _ := strings.Cut(string(k), ":")
	return category
}

// Runtime returns the runtime discriminator, or "" for an unqualified kind.
func (k Kind) Runtime() string {
	_, runtime, _ := strings.Cut(string(k), ":")
	return runtime
}

// String returns the kind as a string.
func (k Kind) String() string {
	return string(k)
}

// Package function contributes the builders for the function category's
// runtime variants: function:python and function:container.
package function

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/driftcheck/driftcheck/pkg/entity"
	"github.com/driftcheck/driftcheck/pkg/registry"
)

// Kinds contributed by this package.
const (
	KindPython    entity.Kind = "function:python"
	KindContainer entity.Kind = "function:container"
)

// Register registers the function runtime builders with the given registry.
func Register(reg *registry.Registry) error {
	if reg == nil {
		return fmt.Errorf("registry cannot be nil")
	}

	validate := validator.New()
	if err := reg.Register(KindPython, &pythonBuilder{validate: validate}); err != nil {
		return err
	}
	return reg.Register(KindContainer, &containerBuilder{validate: validate})
}

// sourceSpec describes where the function code lives: inline code, a source
// path, or neither when the image already carries it.
type sourceSpec struct {
	Source  string `json:"source,omitempty"`
	Code    string `json:"code,omitempty"`
	Handler string `json:"handler,omitempty"`
}

// pythonSpec is the typed spec for a python function.
type pythonSpec struct {
	Handler       string      `json:"handler" validate:"required"`
	PythonVersion string      `json:"python_version" validate:"required,oneof=PYTHON3_9 PYTHON3_10 PYTHON3_11 PYTHON3_12"`
	Source        *sourceSpec `json:"source,omitempty"`
	Image         string      `json:"image,omitempty"`
	BaseImage     string      `json:"base_image,omitempty"`
	Requirements  []string    `json:"requirements,omitempty"`
}

type pythonBuilder struct {
	validate *validator.Validate
}

func (b *pythonBuilder) Build(spec map[string]any) (entity.Instance, error) {
	var s pythonSpec
	if err := entity.DecodeSpec(spec, &s); err != nil {
		return nil, err
	}
	if s.PythonVersion == "" {
		s.PythonVersion = "PYTHON3_10"
	}
	if err := b.validate.Struct(&s); err != nil {
		return nil, err
	}
	// Inline code and a source path are mutually exclusive. The schema
	// cannot express this; it is a construction-time rule.
	if s.Source != nil && s.Source.Code != "" && s.Source.Source != "" {
		return nil, fmt.Errorf("source.code and source.source are mutually exclusive")
	}
	return entity.NewInstance(KindPython, spec, &s), nil
}

// containerSpec is the typed spec for a container function.
type containerSpec struct {
	Image   string   `json:"image" validate:"required"`
	Command string   `json:"command,omitempty"`
	Args    []string `json:"args,omitempty"`
}

type containerBuilder struct {
	validate *validator.Validate
}

func (b *containerBuilder) Build(spec map[string]any) (entity.Instance, error) {
	var s containerSpec
	if err := entity.DecodeSpec(spec, &s); err != nil {
		return nil, err
	}
	if err := b.validate.Struct(&s); err != nil {
		return nil, err
	}
	return entity.NewInstance(KindContainer, spec, &s), nil
}

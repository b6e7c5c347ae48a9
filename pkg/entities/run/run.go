// Package run contributes the builders for the run category's runtime
// variants: run:python and run:kfp.
package run

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/driftcheck/driftcheck/pkg/entity"
	"github.com/driftcheck/driftcheck/pkg/registry"
)

// Kinds contributed by this package.
const (
	KindPython entity.Kind = "run:python"
	KindKFP    entity.Kind = "run:kfp"
)

// Register registers the run runtime builders with the given registry.
func Register(reg *registry.Registry) error {
	if reg == nil {
		return fmt.Errorf("registry cannot be nil")
	}

	validate := validator.New()
	if err := reg.Register(KindPython, &runBuilder{kind: KindPython, validate: validate}); err != nil {
		return err
	}
	return reg.Register(KindKFP, &runBuilder{kind: KindKFP, validate: validate})
}

// runSpec is the typed spec shared by the run variants: a reference to the
// task being executed plus the materialized inputs and outputs.
type runSpec struct {
	Task           string         `json:"task" validate:"required"`
	LocalExecution bool           `json:"local_execution"`
	Inputs         map[string]any `json:"inputs,omitempty"`
	Outputs        map[string]any `json:"outputs,omitempty"`
	Parameters     map[string]any `json:"parameters,omitempty"`
}

type runBuilder struct {
	kind     entity.Kind
	validate *validator.Validate
}

func (b *runBuilder) Build(spec map[string]any) (entity.Instance, error) {
	var s runSpec
	if err := entity.DecodeSpec(spec, &s); err != nil {
		return nil, err
	}
	if err := b.validate.Struct(&s); err != nil {
		return nil, err
	}
	return entity.NewInstance(b.kind, spec, &s), nil
}

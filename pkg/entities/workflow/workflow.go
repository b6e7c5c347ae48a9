// Package workflow contributes the builder for the workflow:kfp runtime
// variant.
package workflow

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/driftcheck/driftcheck/pkg/entity"
	"github.com/driftcheck/driftcheck/pkg/registry"
)

// KindKFP is the Kubeflow Pipelines workflow kind.
const KindKFP entity.Kind = "workflow:kfp"

// Register registers the workflow runtime builders with the given registry.
func Register(reg *registry.Registry) error {
	if reg == nil {
		return fmt.Errorf("registry cannot be nil")
	}
	return reg.Register(KindKFP, &kfpBuilder{validate: validator.New()})
}

// kfpSpec is the typed spec for a KFP workflow.
type kfpSpec struct {
	Handler string         `json:"handler" validate:"required"`
	Source  map[string]any `json:"source,omitempty"`
	Image   string         `json:"image,omitempty"`
}

type kfpBuilder struct {
	validate *validator.Validate
}

func (b *kfpBuilder) Build(spec map[string]any) (entity.Instance, error) {
	var s kfpSpec
	if err := entity.DecodeSpec(spec, &s); err != nil {
		return nil, err
	}
	if err := b.validate.Struct(&s); err != nil {
		return nil, err
	}
	return entity.NewInstance(KindKFP, spec, &s), nil
}

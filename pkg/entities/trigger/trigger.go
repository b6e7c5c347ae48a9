// Package trigger contributes the builder for the trigger:scheduler runtime
// variant.
package trigger

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/driftcheck/driftcheck/pkg/entity"
	"github.com/driftcheck/driftcheck/pkg/registry"
)

// KindScheduler is the cron-scheduled trigger kind.
const KindScheduler entity.Kind = "trigger:scheduler"

// Register registers the trigger runtime builders with the given registry.
func Register(reg *registry.Registry) error {
	if reg == nil {
		return fmt.Errorf("registry cannot be nil")
	}
	return reg.Register(KindScheduler, &schedulerBuilder{validate: validator.New()})
}

// schedulerSpec is the typed spec for a scheduled trigger.
type schedulerSpec struct {
	Schedule string         `json:"schedule" validate:"required,cron"`
	Task     string         `json:"task,omitempty"`
	Template map[string]any `json:"template,omitempty"`
}

type schedulerBuilder struct {
	validate *validator.Validate
}

func (b *schedulerBuilder) Build(spec map[string]any) (entity.Instance, error) {
	var s schedulerSpec
	if err := entity.DecodeSpec(spec, &s); err != nil {
		return nil, err
	}
	if err := b.validate.Struct(&s); err != nil {
		return nil, err
	}
	return entity.NewInstance(KindScheduler, spec, &s), nil
}

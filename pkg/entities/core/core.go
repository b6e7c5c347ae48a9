// Package core contributes the builders for the base entity categories:
// project, artifact, dataitem, model and secret.
package core

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/driftcheck/driftcheck/pkg/entity"
	"github.com/driftcheck/driftcheck/pkg/registry"
)

// Kinds contributed by this package.
const (
	KindProject  entity.Kind = "project"
	KindArtifact entity.Kind = "artifact"
	KindDataitem entity.Kind = "dataitem"
	KindModel    entity.Kind = "model"
	KindSecret   entity.Kind = "secret"
)

// Register registers the core entity builders with the given registry.
func Register(reg *registry.Registry) error {
	if reg == nil {
		return fmt.Errorf("registry cannot be nil")
	}

	validate := validator.New()
	builders := map[entity.Kind]entity.Builder{
		KindProject:  &projectBuilder{validate: validate},
		KindArtifact: &artifactBuilder{validate: validate},
		KindDataitem: &dataitemBuilder{validate: validate},
		KindModel:    &modelBuilder{validate: validate},
		KindSecret:   &secretBuilder{validate: validate},
	}
	for kind, builder := range builders {
		if err := reg.Register(kind, builder); err != nil {
			return err
		}
	}
	return nil
}

// projectSpec is the typed spec for a project. Every field has a usable
// default: constructing a project from an empty spec yields a
// schema-satisfying instance.
type projectSpec struct {
	Context     string   `json:"context"`
	Description string   `json:"description,omitempty"`
	Functions   []any    `json:"functions"`
	Workflows   []any    `json:"workflows"`
	Artifacts   []any    `json:"artifacts"`
	Labels      []string `json:"labels,omitempty"`
}

type projectBuilder struct {
	validate *validator.Validate
}

func (b *projectBuilder) Build(spec map[string]any) (entity.Instance, error) {
	var s projectSpec
	if err := entity.DecodeSpec(spec, &s); err != nil {
		return nil, err
	}
	if s.Context == "" {
		s.Context = "."
	}
	if s.Functions == nil {
		s.Functions = []any{}
	}
	if s.Workflows == nil {
		s.Workflows = []any{}
	}
	if s.Artifacts == nil {
		s.Artifacts = []any{}
	}
	if err := b.validate.Struct(&s); err != nil {
		return nil, err
	}
	return entity.NewInstance(KindProject, spec, &s), nil
}

// artifactSpec is the typed spec for a generic artifact.
type artifactSpec struct {
	Path    string `json:"path" validate:"required"`
	SrcPath string `json:"src_path,omitempty"`
}

type artifactBuilder struct {
	validate *validator.Validate
}

func (b *artifactBuilder) Build(spec map[string]any) (entity.Instance, error) {
	var s artifactSpec
	if err := entity.DecodeSpec(spec, &s); err != nil {
		return nil, err
	}
	if err := b.validate.Struct(&s); err != nil {
		return nil, err
	}
	return entity.NewInstance(KindArtifact, spec, &s), nil
}

// dataitemSpec is the typed spec for a data item.
type dataitemSpec struct {
	Path   string         `json:"path" validate:"required"`
	Schema map[string]any `json:"schema,omitempty"`
}

type dataitemBuilder struct {
	validate *validator.Validate
}

func (b *dataitemBuilder) Build(spec map[string]any) (entity.Instance, error) {
	var s dataitemSpec
	if err := entity.DecodeSpec(spec, &s); err != nil {
		return nil, err
	}
	if err := b.validate.Struct(&s); err != nil {
		return nil, err
	}
	return entity.NewInstance(KindDataitem, spec, &s), nil
}

// modelSpec is the typed spec for a trained model.
type modelSpec struct {
	Path      string         `json:"path" validate:"required"`
	Framework string         `json:"framework,omitempty"`
	Algorithm string         `json:"algorithm,omitempty"`
	Metrics   map[string]any `json:"metrics,omitempty"`
}

type modelBuilder struct {
	validate *validator.Validate
}

func (b *modelBuilder) Build(spec map[string]any) (entity.Instance, error) {
	var s modelSpec
	if err := entity.DecodeSpec(spec, &s); err != nil {
		return nil, err
	}
	if err := b.validate.Struct(&s); err != nil {
		return nil, err
	}
	return entity.NewInstance(KindModel, spec, &s), nil
}

// secretSpec is the typed spec for a secret reference. The provider
// defaults to kubernetes, so an empty spec constructs cleanly.
type secretSpec struct {
	Provider string `json:"provider" validate:"required,oneof=kubernetes vault"`
	Path     string `json:"path,omitempty"`
}

type secretBuilder struct {
	validate *validator.Validate
}

func (b *secretBuilder) Build(spec map[string]any) (entity.Instance, error) {
	var s secretSpec
	if err := entity.DecodeSpec(spec, &s); err != nil {
		return nil, err
	}
	if s.Provider == "" {
		s.Provider = "kubernetes"
	}
	if err := b.validate.Struct(&s); err != nil {
		return nil, err
	}
	return entity.NewInstance(KindSecret, spec, &s), nil
}

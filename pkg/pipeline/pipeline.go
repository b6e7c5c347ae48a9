// Package pipeline orchestrates one validation run: it discovers exported
// object files, feeds each through the kind registry, the builder and the
// schema store, and aggregates the outcome into a report. One object's
// failure never aborts the batch; every input file is processed so a single
// run surfaces all drift at once.
package pipeline

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/driftcheck/driftcheck/pkg/entity"
	"github.com/driftcheck/driftcheck/pkg/registry"
	"github.com/driftcheck/driftcheck/pkg/report"
	"github.com/driftcheck/driftcheck/pkg/schemastore"
)

// Pipeline validates a batch of exported object files. The registry and the
// schema store are populated before the run and read-only for its duration.
type Pipeline struct {
	registry *registry.Registry
	store    *schemastore.Store
	logger   zerolog.Logger
}

// New creates a pipeline over a frozen registry and a loaded schema store.
func New(reg *registry.Registry, store *schemastore.Store, logger zerolog.Logger) *Pipeline {
	return &Pipeline{
		registry: reg,
		store:    store,
		logger:   logger.With().Str("component", "pipeline").Logger(),
	}
}

// Run validates every object file under objectsDir and returns the
// aggregated report. Discovery is recursive and deterministic: .json files
// are visited in lexical order. Only an unreadable objects directory or a
// cancelled context is a run-level error; per-object failures are recorded
// in the report and the batch continues.
func (p *Pipeline) Run(ctx context.Context, objectsDir string) (*report.Report, error) {
	files, err := discoverObjectFiles(objectsDir)
	if err != nil {
		return nil, err
	}

	p.logger.Info().
		Int("files", len(files)).
		Str("dir", objectsDir).
		Msg("Commencing validation")

	rep := report.New()
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p.validateFile(rep, objectsDir, file)
	}
	rep.Finish(p.registry.Kinds())

	p.logger.Info().
		Int("total", rep.Total).
		Int("passed", rep.Passed).
		Int("failed", rep.Failed).
		Msg("Validation completed")

	return rep, nil
}

// validateFile runs one object through the parse -> resolve -> construct ->
// serialize -> validate state machine and records the terminal state.
func (p *Pipeline) validateFile(rep *report.Report, objectsDir, file string) {
	logger := p.logger.With().Str("file", file).Logger()

	data, err := os.ReadFile(filepath.Join(objectsDir, file))
	if err != nil {
		p.fail(rep, logger, file, entity.NewParseError(err))
		return
	}

	obj, err := entity.DecodeExportedObject(data)
	if err != nil {
		p.fail(rep, logger, file, entity.NewParseError(err))
		return
	}

	builder, err := p.registry.Resolve(obj.Kind)
	if err != nil {
		p.fail(rep, logger, file, entity.NewUnknownKindError(obj.Kind))
		return
	}

	instance, err := builder.Build(obj.Spec)
	if err != nil {
		p.fail(rep, logger, file, entity.NewConstructionError(obj.Kind, err))
		return
	}

	// A constructed instance is expected to serialize; a failure here is an
	// internal invariant violation, not user error.
	doc, err := instance.ToDict()
	if err != nil {
		p.fail(rep, logger, file, entity.NewSerializeError(obj.Kind, err))
		return
	}

	violations, err := p.store.Validate(obj.Kind, doc)
	if err != nil {
		verr, ok := err.(*entity.ValidationError)
		if !ok {
			verr = entity.NewSerializeError(obj.Kind, err)
		}
		p.fail(rep, logger, file, verr)
		return
	}
	if len(violations) > 0 {
		p.fail(rep, logger, file, entity.NewSchemaInvalidError(obj.Kind, violations))
		return
	}

	rep.RecordPass(obj.Kind)
	logger.Debug().Str("kind", obj.Kind.String()).Msg("Object is valid")
}

// fail records a per-object failure and keeps going.
func (p *Pipeline) fail(rep *report.Report, logger zerolog.Logger, file string, verr *entity.ValidationError) {
	rep.RecordFailure(file, verr)
	logger.Warn().
		Str("stage", string(verr.Stage)).
		Str("kind", verr.Kind.String()).
		Msg(verr.Error())
}

// discoverObjectFiles lists the object files under dir, as paths relative to
// dir, in lexical order.
func discoverObjectFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.ToLower(filepath.Ext(path)) != ".json" {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read objects directory %s: %w", dir, err)
	}
	return files, nil
}
